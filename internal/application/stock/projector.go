package stock

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

// ProjectionOptions filtros y orden de la proyección de catálogo.
type ProjectionOptions struct {
	CategoryID string // vacío = sin filtro
	Sort       string // "alpha" (por defecto) | "none"
}

// CatalogProjection es la vista compuesta de presentación: todos los productos
// del tenant con sus unidades vendibles, más las categorías del colaborador.
type CatalogProjection struct {
	Count      int                  `json:"count"`
	Products   []entity.ProductView `json:"data"`
	Categories []entity.Category    `json:"categories"`
}

// Projector compone el store de cantidades con el colaborador de categorías.
// Solo lectura, sin caché: lee el mismo store que escribe la cola, por lo que
// siempre refleja la última mutación confirmada.
type Projector struct {
	engine *Engine
	tags   TagLister // opcional
}

// NewProjector construye el proyector.
func NewProjector(engine *Engine, tags TagLister) *Projector {
	return &Projector{engine: engine, tags: tags}
}

// Project materializa la proyección del tenant.
func (p *Projector) Project(ctx context.Context, tenant string, opts ProjectionOptions) (*CatalogProjection, error) {
	views, err := p.engine.Views(ctx, tenant)
	if err != nil {
		return nil, err
	}

	if opts.CategoryID != "" {
		filtered := views[:0]
		for _, v := range views {
			for _, id := range v.CategoryIDs {
				if id == opts.CategoryID {
					filtered = append(filtered, v)
					break
				}
			}
		}
		views = filtered
	}

	if opts.Sort != "none" {
		// Orden alfabético con colación francesa e insensible a mayúsculas,
		// como espera la tienda ("Éclair" junto a "Eclair").
		c := collate.New(language.French, collate.IgnoreCase)
		sort.SliceStable(views, func(i, j int) bool {
			return c.CompareString(views[i].Name, views[j].Name) < 0
		})
	}

	var categories []entity.Category
	if p.tags != nil {
		categories, err = p.tags.List(tenant)
		if err != nil {
			// La ausencia del colaborador no bloquea la proyección.
			categories = nil
		}
	}
	if categories == nil {
		categories = []entity.Category{}
	}

	return &CatalogProjection{
		Count:      len(views),
		Products:   views,
		Categories: categories,
	}, nil
}
