package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cloudstore-cbd/stock-api/internal/application/dto"
	"github.com/cloudstore-cbd/stock-api/internal/application/movement"
)

// MovementHandler sirve el historial de movimientos (protegido).
type MovementHandler struct {
	uc *movement.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movement.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List godoc
// @Summary      Historial de movimientos (más recientes primero)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        days   query  int  false  "Días hacia atrás"  default(7)
// @Param        limit  query  int  false  "Máximo de asientos"  default(2000)
// @Success      200  {array}  entity.Movement
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	days := c.QueryInt("days", movement.DefaultDays)
	limit := c.QueryInt("limit", movement.DefaultLimit)
	out, err := h.uc.List(GetShop(c), days, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Exportar movimientos a CSV
// @Tags         movements
// @Security     Bearer
// @Produce      text/csv
// @Param        days   query  int  false  "Días hacia atrás"  default(7)
// @Success      200  {string}  string
// @Router       /api/movements/export [get]
func (h *MovementHandler) ExportCSV(c *fiber.Ctx) error {
	days := c.QueryInt("days", movement.DefaultDays)
	out, err := h.uc.ExportCSV(GetShop(c), days, movement.MaxLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	filename := fmt.Sprintf("movements-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(out)
}
