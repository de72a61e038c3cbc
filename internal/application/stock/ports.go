package stock

import "github.com/cloudstore-cbd/stock-api/internal/domain/entity"

// TagLister es el colaborador de etiquetas/categorías: lista las conocidas de
// un tenant para filtrar asignaciones. Puede ser nil; sin registro disponible
// el filtrado degrada a passthrough, nunca bloquea la asignación.
type TagLister interface {
	List(tenant string) ([]entity.Category, error)
}
