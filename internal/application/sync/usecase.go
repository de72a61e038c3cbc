package sync

import (
	"context"

	"github.com/cloudstore-cbd/stock-api/internal/application/stock"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// InventoryGateway es el puerto hacia la plataforma externa de inventario:
// fija las unidades disponibles de un inventory item en una ubicación.
type InventoryGateway interface {
	SetInventoryLevel(ctx context.Context, shop string, inventoryItemID, available int64) error
}

// UseCase empuja las unidades vendibles derivadas a la plataforma externa.
// Se invoca siempre *después* de que la mutación haya resuelto, nunca dentro
// de la sección crítica de la cola: una llamada de red lenta no puede alargar
// la ventana de serialización.
type UseCase struct {
	gateway InventoryGateway // nil = sincronización desactivada
	log     *logger.Logger
}

// NewUseCase construye el caso de uso. gateway puede ser nil.
func NewUseCase(gateway InventoryGateway, log *logger.Logger) *UseCase {
	return &UseCase{gateway: gateway, log: log}
}

// PushLevels publica {inventoryItemId, canSell} por cada variante de la vista.
// Los fallos por variante se registran y no interrumpen el resto: la fuente de
// verdad es el pool local, la plataforma es una réplica best-effort.
func (uc *UseCase) PushLevels(ctx context.Context, shop string, res *stock.MutationResult) {
	if uc.gateway == nil || res == nil {
		return
	}
	for label, v := range res.View.Variants {
		if err := uc.gateway.SetInventoryLevel(ctx, shop, v.InventoryItemID, v.CanSell); err != nil {
			uc.log.Error().Err(err).
				Str("shop", shop).
				Str("productId", res.ProductID).
				Str("variant", label).
				Msg("fallo al sincronizar nivel de inventario")
			continue
		}
		uc.log.Debug().
			Str("productId", res.ProductID).
			Str("variant", label).
			Int64("canSell", v.CanSell).
			Msg("nivel de inventario sincronizado")
	}
}
