package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/application/alert"
	"github.com/cloudstore-cbd/stock-api/internal/application/dto"
	"github.com/cloudstore-cbd/stock-api/internal/application/movement"
	appstock "github.com/cloudstore-cbd/stock-api/internal/application/stock"
	syncapp "github.com/cloudstore-cbd/stock-api/internal/application/sync"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	domstock "github.com/cloudstore-cbd/stock-api/internal/domain/stock"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// WebhookHandler procesa los webhooks de pedidos de la plataforma. Cada línea
// de pedido se traduce a un consumo de gramos (gramos de la variante ×
// cantidad) sobre el pool del producto.
type WebhookHandler struct {
	engine     *appstock.Engine
	movements  *movement.UseCase
	sync       *syncapp.UseCase
	alerts     *alert.UseCase
	secret     string
	skipVerify bool
	log        *logger.Logger
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(
	engine *appstock.Engine,
	movements *movement.UseCase,
	syncUC *syncapp.UseCase,
	alerts *alert.UseCase,
	secret string,
	skipVerify bool,
	log *logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		engine:     engine,
		movements:  movements,
		sync:       syncUC,
		alerts:     alerts,
		secret:     secret,
		skipVerify: skipVerify,
		log:        log,
	}
}

type orderLineItem struct {
	ProductID    int64  `json:"product_id"`
	Title        string `json:"title"`
	VariantTitle string `json:"variant_title"`
	Quantity     int64  `json:"quantity"`
}

type orderPayload struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	LineItems []orderLineItem `json:"line_items"`
}

// verifyHMAC compara la firma de la cabecera con el HMAC-SHA256 (base64) del
// cuerpo crudo. La comparación es en tiempo constante.
func (h *WebhookHandler) verifyHMAC(body []byte, signature string) bool {
	if h.secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// OrderCreated godoc
// @Summary      Webhook de pedido creado
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Shopify-Hmac-Sha256  header  string  true   "Firma HMAC del cuerpo"
// @Param        X-Shopify-Shop-Domain  header  string  false  "Tienda origen"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /webhooks/orders/create [post]
func (h *WebhookHandler) OrderCreated(c *fiber.Ctx) error {
	body := c.Body()
	if !h.skipVerify && !h.verifyHMAC(body, c.Get("X-Shopify-Hmac-Sha256")) {
		h.log.Warn().Str("shop", c.Get("X-Shopify-Shop-Domain")).Msg("webhook con firma HMAC inválida")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_HMAC", Message: "firma inválida"})
	}

	var order orderPayload
	if err := json.Unmarshal(body, &order); err != nil {
		// un payload malformado nunca va a mejorar: respondemos 200 para que
		// la plataforma no reintente indefinidamente
		h.log.Warn().Err(err).Str("shop", c.Get("X-Shopify-Shop-Domain")).Msg("webhook con payload inválido")
		return c.JSON(fiber.Map{"success": false, "processed": 0})
	}

	shop := c.Get("X-Shopify-Shop-Domain")
	orderID := strconv.FormatInt(order.ID, 10)
	processed := 0
	for _, item := range order.LineItems {
		if item.ProductID == 0 || item.Quantity <= 0 {
			continue
		}
		grams, ok := domstock.ParseGramsFromVariantTitle(item.VariantTitle)
		if !ok {
			grams, ok = domstock.ParseGramsFromVariantTitle(item.Title)
		}
		if !ok {
			h.log.Debug().Str("shop", shop).Str("variant", item.VariantTitle).
				Msg("línea sin gramos reconocibles, ignorada")
			continue
		}
		total := grams.Mul(decimal.NewFromInt(item.Quantity))

		res, err := h.engine.Apply(c.Context(), shop, appstock.Consumption{
			ProductID: strconv.FormatInt(item.ProductID, 10),
			Grams:     total,
		})
		if err != nil {
			h.log.Error().Err(err).Str("shop", shop).Str("orderId", orderID).
				Msg("fallo al consumir línea de pedido")
			continue
		}
		if res == nil {
			// producto no gestionado por el pool
			continue
		}
		processed++
		h.movements.Record(shop, res, movement.RecordContext{
			Type:      entity.MovementTypeOrder,
			Source:    "webhook",
			OrderID:   orderID,
			OrderName: order.Name,
		})
		h.sync.PushLevels(c.Context(), shop, res)
		h.alerts.Check(c.Context(), shop, res)
	}

	h.log.Info().Str("shop", shop).Str("orderId", orderID).Int("processed", processed).
		Msg("pedido procesado")
	return c.JSON(fiber.Map{"success": true, "processed": processed})
}
