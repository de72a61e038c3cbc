package stock

import (
	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

// CanSellUnits calcula cuántas unidades completas de una variante caben en el
// pool: floor(totalGrams / gramsPerUnit). Cero si gramsPerUnit no es positivo.
func CanSellUnits(totalGrams, gramsPerUnit decimal.Decimal) int64 {
	if !gramsPerUnit.IsPositive() {
		return 0
	}
	// QuoRem con precisión 0 da el cociente entero exacto (truncado), sin el
	// redondeo de Div.
	q, _ := totalGrams.QuoRem(gramsPerUnit, 0)
	return q.IntPart()
}

// BuildProductView es la transformación pura entrada -> vista derivada. Sin
// efectos; se invoca tras cada mutación y en cada proyección de catálogo.
func BuildProductView(productID string, e entity.ProductEntry) entity.ProductView {
	variants := make(map[string]entity.VariantView, len(e.Variants))
	for label, v := range e.Variants {
		variants[label] = entity.VariantView{
			GramsPerUnit:    v.GramsPerUnit,
			InventoryItemID: v.InventoryItemID,
			CanSell:         CanSellUnits(e.TotalGrams, v.GramsPerUnit),
		}
	}
	return entity.ProductView{
		ProductID:   productID,
		Name:        e.Name,
		TotalGrams:  e.TotalGrams,
		CategoryIDs: append([]string(nil), e.CategoryIDs...),
		Variants:    variants,
	}
}
