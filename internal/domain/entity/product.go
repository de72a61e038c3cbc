package entity

import "github.com/shopspring/decimal"

// Variant es una presentación de venta de un producto: cuántos gramos consume
// una unidad y a qué inventory item de la plataforma externa corresponde.
type Variant struct {
	GramsPerUnit    decimal.Decimal `json:"gramsPerUnit"`
	InventoryItemID int64           `json:"inventoryItemId"`
}

// ProductEntry es el registro autoritativo de un producto dentro de un tenant:
// el pool de gramos restante y sus variantes. TotalGrams nunca es negativo
// (se clampa a cero en cada mutación).
type ProductEntry struct {
	Name        string             `json:"name"`
	TotalGrams  decimal.Decimal    `json:"totalGrams"`
	Variants    map[string]Variant `json:"variants"`
	CategoryIDs []string           `json:"categoryIds,omitempty"`
}

// Clone devuelve una copia profunda de la entrada (los lectores nunca
// comparten mapas con el store).
func (p ProductEntry) Clone() ProductEntry {
	out := p
	if p.Variants != nil {
		out.Variants = make(map[string]Variant, len(p.Variants))
		for label, v := range p.Variants {
			out.Variants[label] = v
		}
	}
	if p.CategoryIDs != nil {
		out.CategoryIDs = append([]string(nil), p.CategoryIDs...)
	}
	return out
}

// VariantView es la vista derivada de una variante: incluye cuántas unidades
// completas se pueden vender con el pool actual. Se recalcula en cada lectura,
// nunca se persiste.
type VariantView struct {
	GramsPerUnit    decimal.Decimal `json:"gramsPerUnit"`
	InventoryItemID int64           `json:"inventoryItemId"`
	CanSell         int64           `json:"canSell"`
}

// ProductView es la proyección de lectura de un producto completo.
type ProductView struct {
	ProductID   string                 `json:"productId"`
	Name        string                 `json:"name"`
	TotalGrams  decimal.Decimal        `json:"totalGrams"`
	CategoryIDs []string               `json:"categoryIds,omitempty"`
	Variants    map[string]VariantView `json:"variants"`
}
