package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cloudstore-cbd/stock-api/internal/application/dto"
	"github.com/cloudstore-cbd/stock-api/pkg/jwt"
)

// Locals keys para Shop y Role en Fiber.
const (
	LocalShop = "shop"
	LocalRole = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae Shop y Role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		shop, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalShop, shop)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetShop devuelve la tienda del contexto. La cabecera X-Shop-Domain permite
// a un token admin operar sobre otro tenant; en rutas públicas (sin claims)
// el query param ?shop= selecciona la tienda.
func GetShop(c *fiber.Ctx) string {
	if h := strings.TrimSpace(c.Get("X-Shop-Domain")); h != "" {
		return h
	}
	if v, ok := c.Locals(LocalShop).(string); ok && v != "" {
		return v
	}
	return strings.TrimSpace(c.Query("shop"))
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
