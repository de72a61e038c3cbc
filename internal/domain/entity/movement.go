package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento registrados en el ledger.
const (
	MovementTypeOrder    = "order"
	MovementTypeRestock  = "restock"
	MovementTypeSetTotal = "set_total"
	MovementTypeImport   = "import"
	MovementTypeRemoval  = "removal"
)

// Movement es un asiento del ledger de auditoría: qué producto cambió, cuánto
// y cuál fue el total resultante. El motor de stock no guarda historia propia;
// este registro es responsabilidad del colaborador de movimientos.
type Movement struct {
	ID          string          `json:"id"`
	TS          time.Time       `json:"ts"`
	Type        string          `json:"type"`
	Source      string          `json:"source"`
	OrderID     string          `json:"orderId,omitempty"`
	OrderName   string          `json:"orderName,omitempty"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	DeltaGrams  decimal.Decimal `json:"deltaGrams"`
	GramsBefore decimal.Decimal `json:"gramsBefore"`
	GramsAfter  decimal.Decimal `json:"gramsAfter"`
}
