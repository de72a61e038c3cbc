package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cloudstore-cbd/stock-api/pkg/config"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// Client habla con el Admin REST API de la plataforma para fijar niveles de
// inventario. Implementa el puerto sync.InventoryGateway.
type Client struct {
	defaultShop string
	token       string
	apiVersion  string
	locationID  int64
	httpClient  *http.Client
	log         *logger.Logger
}

// NewClient construye el cliente. Devuelve error si LOCATION_ID no es numérico.
func NewClient(cfg config.ShopifyConfig, log *logger.Logger) (*Client, error) {
	locID, err := strconv.ParseInt(cfg.LocationID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("shopify: LOCATION_ID inválido %q: %w", cfg.LocationID, err)
	}
	return &Client{
		defaultShop: cfg.ShopName,
		token:       cfg.AdminToken,
		apiVersion:  cfg.APIVersion,
		locationID:  locID,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}, nil
}

// NormalizeShopDomain acepta "xxx", "xxx.myshopify.com" o una URL completa y
// devuelve siempre el dominio myshopify.
func NormalizeShopDomain(shop string) string {
	s := strings.TrimSpace(shop)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	s = strings.TrimSuffix(s, "/")
	if strings.Contains(s, ".myshopify.com") {
		return s
	}
	return s + ".myshopify.com"
}

type setLevelRequest struct {
	LocationID      int64 `json:"location_id"`
	InventoryItemID int64 `json:"inventory_item_id"`
	Available       int64 `json:"available"`
}

// SetInventoryLevel fija las unidades disponibles de un inventory item en la
// ubicación configurada. shop vacío usa la tienda por defecto del despliegue.
func (c *Client) SetInventoryLevel(ctx context.Context, shop string, inventoryItemID, available int64) error {
	domain := NormalizeShopDomain(shop)
	if domain == "" {
		domain = NormalizeShopDomain(c.defaultShop)
	}
	if domain == "" || c.token == "" {
		return fmt.Errorf("shopify: SHOP_NAME/SHOPIFY_ADMIN_TOKEN sin configurar")
	}

	body, err := json.Marshal(setLevelRequest{
		LocationID:      c.locationID,
		InventoryItemID: inventoryItemID,
		Available:       available,
	})
	if err != nil {
		return fmt.Errorf("shopify: serializar petición: %w", err)
	}

	url := fmt.Sprintf("https://%s/admin/api/%s/inventory_levels/set.json", domain, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shopify: crear petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify: llamada inventory_levels/set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("shopify: inventory_levels/set devolvió %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
