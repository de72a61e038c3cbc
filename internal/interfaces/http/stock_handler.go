package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/application/alert"
	"github.com/cloudstore-cbd/stock-api/internal/application/dto"
	"github.com/cloudstore-cbd/stock-api/internal/application/movement"
	appstock "github.com/cloudstore-cbd/stock-api/internal/application/stock"
	syncapp "github.com/cloudstore-cbd/stock-api/internal/application/sync"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del pool de stock.
type StockHandler struct {
	engine    *appstock.Engine
	projector *appstock.Projector
	movements *movement.UseCase
	sync      *syncapp.UseCase
	alerts    *alert.UseCase
	appName   string
	appEnv    string
}

// NewStockHandler construye el handler.
func NewStockHandler(
	engine *appstock.Engine,
	projector *appstock.Projector,
	movements *movement.UseCase,
	syncUC *syncapp.UseCase,
	alerts *alert.UseCase,
	appName, appEnv string,
) *StockHandler {
	return &StockHandler{
		engine:    engine,
		projector: projector,
		movements: movements,
		sync:      syncUC,
		alerts:    alerts,
		appName:   appName,
		appEnv:    appEnv,
	}
}

// afterMutation ejecuta los colaboradores post-mutación: ledger, sincronización
// de niveles y alerta de stock bajo. La mutación ya está confirmada; ninguno de
// estos pasos puede fallarla.
func (h *StockHandler) afterMutation(c *fiber.Ctx, shop string, res *appstock.MutationResult, rc movement.RecordContext) {
	h.movements.Record(shop, res, rc)
	h.sync.PushLevels(c.Context(), shop, res)
	h.alerts.Check(c.Context(), shop, res)
}

// List godoc
// @Summary      Catálogo con unidades vendibles
// @Tags         stock
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Param        sort      query  string  false  "alpha (defecto) | none"
// @Success      200  {object}  stock.CatalogProjection
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	shop := GetShop(c)
	out, err := h.projector.Project(c.Context(), shop, appstock.ProjectionOptions{
		CategoryID: c.Query("category"),
		Sort:       c.Query("sort", "alpha"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ServerInfo godoc
// @Summary      Información del despliegue
// @Tags         stock
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/server-info [get]
func (h *StockHandler) ServerInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name": h.appName,
		"env":  h.appEnv,
	})
}

// Restock godoc
// @Summary      Reaprovisionar un producto (gramos)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockRequest  true  "Producto y gramos a sumar"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/restock [post]
func (h *StockHandler) Restock(c *fiber.Ctx) error {
	shop := GetShop(c)
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId es requerido"})
	}
	if in.Grams.Sign() <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "grams debe ser positivo"})
	}

	res, err := h.engine.Apply(c.Context(), shop, appstock.Adjustment{ProductID: in.ProductID, Grams: in.Grams})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if res == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no gestionado"})
	}
	h.afterMutation(c, shop, res, movement.RecordContext{Type: entity.MovementTypeRestock, Source: "manual"})
	return c.JSON(dto.MutationResponse{Success: true, ProductID: res.ProductID, NewTotal: res.TotalAfter})
}

// SetTotalStock godoc
// @Summary      Fijar el total absoluto de un producto (gramos)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetTotalStockRequest  true  "Producto y total deseado"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/set-total-stock [post]
func (h *StockHandler) SetTotalStock(c *fiber.Ctx) error {
	shop := GetShop(c)
	var in dto.SetTotalStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId es requerido"})
	}
	if in.TotalGrams.Sign() < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "totalGrams no puede ser negativo"})
	}

	current, err := h.engine.GetProduct(c.Context(), shop, in.ProductID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if current == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no gestionado"})
	}

	delta := in.TotalGrams.Sub(current.TotalGrams)
	res, err := h.engine.Apply(c.Context(), shop, appstock.Adjustment{ProductID: in.ProductID, Grams: delta})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if res == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no gestionado"})
	}
	h.afterMutation(c, shop, res, movement.RecordContext{Type: entity.MovementTypeSetTotal, Source: "manual"})
	return c.JSON(dto.MutationResponse{Success: true, ProductID: res.ProductID, NewTotal: res.TotalAfter})
}

// Import godoc
// @Summary      Importar o fusionar un producto del catálogo externo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportProductRequest  true  "Producto a importar"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/import [post]
func (h *StockHandler) Import(c *fiber.Ctx) error {
	shop := GetShop(c)
	var in dto.ImportProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId y name son requeridos"})
	}

	op := appstock.ImportProduct{
		ProductID:   in.ProductID,
		Name:        in.Name,
		TotalGrams:  in.TotalGrams,
		CategoryIDs: in.CategoryIDs,
		Variants:    make(map[string]appstock.ImportVariant, len(in.Variants)),
	}
	for label, v := range in.Variants {
		op.Variants[label] = appstock.ImportVariant{GramsPerUnit: v.GramsPerUnit, InventoryItemID: v.InventoryItemID}
	}

	res, err := h.engine.Apply(c.Context(), shop, op)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if res == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "IMPORT_REJECTED", Message: "producto no importable"})
	}
	h.afterMutation(c, shop, res, movement.RecordContext{Type: entity.MovementTypeImport, Source: "manual"})
	return c.JSON(dto.MutationResponse{Success: true, ProductID: res.ProductID, NewTotal: res.TotalAfter})
}

// Remove godoc
// @Summary      Eliminar un producto del pool
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.MutationResponse
// @Router       /api/stock/{productId} [delete]
func (h *StockHandler) Remove(c *fiber.Ctx) error {
	shop := GetShop(c)
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}

	res, err := h.engine.Apply(c.Context(), shop, appstock.Removal{ProductID: productID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if res == nil {
		// id ausente: borrado idempotente
		return c.JSON(dto.MutationResponse{Success: true, ProductID: productID, NewTotal: decimal.Zero})
	}
	h.afterMutation(c, shop, res, movement.RecordContext{Type: entity.MovementTypeRemoval, Source: "manual"})
	return c.JSON(dto.MutationResponse{Success: true, ProductID: res.ProductID, NewTotal: res.TotalAfter})
}

// AssignCategories godoc
// @Summary      Reemplazar las categorías de un producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        body  body  dto.AssignCategoriesRequest  true  "Categorías"
// @Success      200   {object}  dto.MutationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/categories [put]
func (h *StockHandler) AssignCategories(c *fiber.Ctx) error {
	shop := GetShop(c)
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	var in dto.AssignCategoriesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	res, err := h.engine.Apply(c.Context(), shop, appstock.TagAssignment{ProductID: productID, CategoryIDs: in.CategoryIDs})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if res == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no gestionado"})
	}
	return c.JSON(dto.MutationResponse{Success: true, ProductID: res.ProductID, NewTotal: res.TotalAfter})
}
