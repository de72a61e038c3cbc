package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

// Baseline es el catálogo base compilado en el despliegue: id de producto ->
// definición inicial. Está desactivado por defecto (instalaciones "cualquier
// tienda" arrancan vacías) y se activa con STOCK_BASELINE_ENABLED.
type Baseline map[string]Product

// Product define la siembra inicial de un producto del catálogo base.
type Product struct {
	Name         string
	InitialGrams decimal.Decimal
	Variants     map[string]entity.Variant
}

// Contains indica si el id pertenece al catálogo base.
func (b Baseline) Contains(productID string) bool {
	_, ok := b[productID]
	return ok
}

// Entry materializa la definición como entrada del store.
func (p Product) Entry() entity.ProductEntry {
	variants := make(map[string]entity.Variant, len(p.Variants))
	for label, v := range p.Variants {
		variants[label] = v
	}
	return entity.ProductEntry{
		Name:       p.Name,
		TotalGrams: p.InitialGrams,
		Variants:   variants,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func gramVariants(base int64) map[string]entity.Variant {
	return map[string]entity.Variant{
		"1.5": {GramsPerUnit: dec("1.5"), InventoryItemID: base + 1},
		"3":   {GramsPerUnit: dec("3"), InventoryItemID: base + 2},
		"5":   {GramsPerUnit: dec("5"), InventoryItemID: base + 3},
		"10":  {GramsPerUnit: dec("10"), InventoryItemID: base + 4},
		"25":  {GramsPerUnit: dec("25"), InventoryItemID: base + 5},
		"50":  {GramsPerUnit: dec("50"), InventoryItemID: base + 6},
	}
}

// Default devuelve el catálogo base de la instalación de referencia. Un solo
// sitio para tocar productos y gramajes sembrados.
func Default() Baseline {
	return Baseline{
		"10349843513687": {
			Name:         "3x Filtré",
			InitialGrams: dec("50"),
			Variants:     gramVariants(54088575582550),
		},
		"10309343248727": {
			Name:         "Amnesia US",
			InitialGrams: dec("50"),
			Variants:     gramVariants(53927411155280),
		},
		"10314007576919": {
			Name:         "Blue Gelato",
			InitialGrams: dec("50"),
			Variants:     gramVariants(53915774091600),
		},
		"10322603934039": {
			Name:         "Citrus Kush",
			InitialGrams: dec("50"),
			Variants:     gramVariants(53925853725010),
		},
	}
}
