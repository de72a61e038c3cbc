package stock

import (
	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

// Operation es el tipo suma de mutaciones del pool. Cada operación lleva su
// payload tipado y se despacha por la cola del motor con Engine.Apply. Las
// cantidades se expresan siempre en gramos, nunca en unidades de variante.
type Operation interface {
	kind() string
}

// Consumption descuenta gramos del pool (pedido entrante). El delta se clampa
// a >= 0 antes de restar y el total resultante a >= 0.
type Consumption struct {
	ProductID string
	Grams     decimal.Decimal
}

// Adjustment suma un delta con signo (reassort manual positivo, corrección
// negativa). "Fijar total absoluto" se expresa como newTotal - currentTotal.
type Adjustment struct {
	ProductID string
	Grams     decimal.Decimal
}

// TagAssignment reemplaza las categorías del producto al completo (no merge),
// filtradas contra el registro de etiquetas si hay uno disponible.
type TagAssignment struct {
	ProductID   string
	CategoryIDs []string
}

// ImportVariant es una variante tal como llega del import externo; las que
// tengan gramsPerUnit no positivo o inventoryItemId ausente se descartan en la
// ingesta, no se almacenan.
type ImportVariant struct {
	GramsPerUnit    decimal.Decimal
	InventoryItemID int64
}

// ImportProduct crea o fusiona una entrada desde el catálogo externo. Las
// variantes se reemplazan al completo; TotalGrams y CategoryIDs solo se
// sobreescriben si vienen informados. Reimportar un id elimina su tombstone.
type ImportProduct struct {
	ProductID   string
	Name        string
	TotalGrams  *decimal.Decimal
	Variants    map[string]ImportVariant
	CategoryIDs *[]string
}

// Removal borra la entrada viva. Sobre un id del catálogo base deja tombstone,
// salvo que el despliegue permita el borrado sin rastro. Un id ausente es un
// no-op silencioso.
type Removal struct {
	ProductID string
}

func (Consumption) kind() string   { return "consumption" }
func (Adjustment) kind() string    { return "adjustment" }
func (TagAssignment) kind() string { return "tag_assignment" }
func (ImportProduct) kind() string { return "import" }
func (Removal) kind() string       { return "removal" }

// MutationResult es lo que el motor expone tras cada mutación aplicada:
// suficiente para que los colaboradores de sincronización (inventoryItemId +
// canSell por variante) y de auditoría (delta aplicado + total resultante)
// hagan su trabajo fuera de la sección crítica.
type MutationResult struct {
	Tenant     string
	ProductID  string
	Name       string
	DeltaGrams decimal.Decimal // delta realmente aplicado (after - before)
	TotalAfter decimal.Decimal
	View       entity.ProductView
}
