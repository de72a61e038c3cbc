package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/cloudstore-cbd/stock-api/internal/application/dto"
	domstock "github.com/cloudstore-cbd/stock-api/internal/domain/stock"
	"github.com/cloudstore-cbd/stock-api/pkg/config"
	"github.com/cloudstore-cbd/stock-api/pkg/jwt"
)

// AuthHandler emite tokens administrativos contra la API key de operador.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler construye el handler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Token godoc
// @Summary      Emitir token administrativo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TokenRequest  true  "API key de operador"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.TokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if h.cfg.Auth.AdminAPIKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AUTH_DISABLED", Message: "ADMIN_API_KEY sin configurar"})
	}
	if subtle.ConstantTimeCompare([]byte(in.APIKey), []byte(h.cfg.Auth.AdminAPIKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_KEY", Message: "credencial inválida"})
	}
	shop := domstock.NormalizeTenant(in.Shop)
	token, err := jwt.Generate(h.cfg.JWT.Secret, shop, "admin", h.cfg.JWT.Issuer, h.cfg.JWT.Expiration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.TokenResponse{Token: token})
}
