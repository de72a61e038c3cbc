package dto

import "github.com/shopspring/decimal"

// RestockRequest reaprovisionamiento manual en gramos.
type RestockRequest struct {
	ProductID string          `json:"productId"`
	Grams     decimal.Decimal `json:"grams"`
}

// SetTotalStockRequest fija el total absoluto; el motor lo aplica como delta
// (newTotal - currentTotal).
type SetTotalStockRequest struct {
	ProductID  string          `json:"productId"`
	TotalGrams decimal.Decimal `json:"totalGrams"`
}

// ImportVariantRequest variante tal como llega del import.
type ImportVariantRequest struct {
	GramsPerUnit    decimal.Decimal `json:"gramsPerUnit"`
	InventoryItemID int64           `json:"inventoryItemId"`
}

// ImportProductRequest payload del import de catálogo. TotalGrams y
// CategoryIDs son opcionales: ausentes preservan el valor existente.
type ImportProductRequest struct {
	ProductID   string                          `json:"productId"`
	Name        string                          `json:"name"`
	TotalGrams  *decimal.Decimal                `json:"totalGrams,omitempty"`
	Variants    map[string]ImportVariantRequest `json:"variants"`
	CategoryIDs *[]string                       `json:"categoryIds,omitempty"`
}

// AssignCategoriesRequest reemplazo completo de categorías de un producto.
type AssignCategoriesRequest struct {
	CategoryIDs []string `json:"categoryIds"`
}

// CategoryRequest alta o renombrado de categoría.
type CategoryRequest struct {
	Name string `json:"name"`
}

// MutationResponse respuesta de las mutaciones manuales.
type MutationResponse struct {
	Success   bool            `json:"success"`
	ProductID string          `json:"productId"`
	NewTotal  decimal.Decimal `json:"newTotal"`
}

// TokenRequest solicitud de token administrativo.
type TokenRequest struct {
	APIKey string `json:"apiKey"`
	Shop   string `json:"shop,omitempty"`
}

// TokenResponse token emitido.
type TokenResponse struct {
	Token string `json:"token"`
}
