package sync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cloudstore-cbd/stock-api/internal/application/stock"
	syncapp "github.com/cloudstore-cbd/stock-api/internal/application/sync"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

type call struct {
	inventoryItemID int64
	available       int64
}

type fakeGateway struct {
	calls   []call
	failFor int64 // inventoryItemID que debe fallar
}

func (f *fakeGateway) SetInventoryLevel(_ context.Context, _ string, inventoryItemID, available int64) error {
	if inventoryItemID == f.failFor {
		return errors.New("fallo simulado")
	}
	f.calls = append(f.calls, call{inventoryItemID, available})
	return nil
}

func viewResult() *stock.MutationResult {
	return &stock.MutationResult{
		ProductID: "p1",
		View: entity.ProductView{
			ProductID: "p1",
			Variants: map[string]entity.VariantView{
				"3":  {GramsPerUnit: decimal.RequireFromString("3"), InventoryItemID: 31, CanSell: 14},
				"10": {GramsPerUnit: decimal.RequireFromString("10"), InventoryItemID: 32, CanSell: 4},
			},
		},
	}
}

func TestPushLevels_UnaLlamadaPorVariante(t *testing.T) {
	gw := &fakeGateway{}
	uc := syncapp.NewUseCase(gw, logger.Nop())

	uc.PushLevels(context.Background(), "tienda", viewResult())

	assert.Len(t, gw.calls, 2)
	byItem := map[int64]int64{}
	for _, c := range gw.calls {
		byItem[c.inventoryItemID] = c.available
	}
	assert.Equal(t, int64(14), byItem[31])
	assert.Equal(t, int64(4), byItem[32])
}

func TestPushLevels_FalloPorVarianteNoInterrumpe(t *testing.T) {
	gw := &fakeGateway{failFor: 31}
	uc := syncapp.NewUseCase(gw, logger.Nop())

	uc.PushLevels(context.Background(), "tienda", viewResult())

	assert.Len(t, gw.calls, 1, "la variante que falla no bloquea al resto")
	assert.Equal(t, int64(32), gw.calls[0].inventoryItemID)
}

func TestPushLevels_DesactivadoYNil(t *testing.T) {
	// gateway nil: sincronización desactivada, sin pánico.
	syncapp.NewUseCase(nil, logger.Nop()).PushLevels(context.Background(), "tienda", viewResult())

	gw := &fakeGateway{}
	syncapp.NewUseCase(gw, logger.Nop()).PushLevels(context.Background(), "tienda", nil)
	assert.Empty(t, gw.calls, "resultado nil no sincroniza nada")
}
