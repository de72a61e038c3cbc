package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	"github.com/cloudstore-cbd/stock-api/internal/domain/stock"
)

func TestRegistry_UpsertYGet_DevuelveCopias(t *testing.T) {
	r := stock.NewRegistry()
	r.Upsert("t1", "p1", entity.ProductEntry{
		Name:       "Blue Gelato",
		TotalGrams: decimal.RequireFromString("50"),
		Variants:   map[string]entity.Variant{"10": {GramsPerUnit: decimal.RequireFromString("10"), InventoryItemID: 1}},
	})

	got, ok := r.Get("t1", "p1")
	require.True(t, ok)

	// Mutar la copia no debe afectar al store.
	got.TotalGrams = decimal.Zero
	got.Variants["10"] = entity.Variant{}

	again, ok := r.Get("t1", "p1")
	require.True(t, ok)
	assert.True(t, again.TotalGrams.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, int64(1), again.Variants["10"].InventoryItemID)
}

func TestRegistry_UpsertClampaNegativos(t *testing.T) {
	r := stock.NewRegistry()
	r.Upsert("t1", "p1", entity.ProductEntry{TotalGrams: decimal.RequireFromString("-7")})

	got, ok := r.Get("t1", "p1")
	require.True(t, ok)
	assert.True(t, got.TotalGrams.IsZero())
}

func TestRegistry_TenantsAislados(t *testing.T) {
	r := stock.NewRegistry()
	r.Upsert("t1", "p1", entity.ProductEntry{Name: "solo t1"})

	_, ok := r.Get("t2", "p1")
	assert.False(t, ok, "t2 no debe ver los productos de t1")
	assert.Empty(t, r.List("t2"))
}

func TestRegistry_Delete(t *testing.T) {
	r := stock.NewRegistry()
	r.Upsert("t1", "p1", entity.ProductEntry{Name: "x"})

	assert.True(t, r.Delete("t1", "p1"))
	assert.False(t, r.Delete("t1", "p1"), "segundo borrado ya no encuentra la entrada")
	_, ok := r.Get("t1", "p1")
	assert.False(t, ok)
}

func TestRegistry_Tombstones(t *testing.T) {
	r := stock.NewRegistry()
	r.Upsert("t1", "p1", entity.ProductEntry{Name: "x"})

	// AddTombstone elimina también la entrada viva.
	r.AddTombstone("t1", "p1")
	_, ok := r.Get("t1", "p1")
	assert.False(t, ok, "un id tombstoneado no puede seguir vivo")
	assert.True(t, r.HasTombstone("t1", "p1"))

	r.AddTombstone("t1", "p0")
	assert.Equal(t, []string{"p0", "p1"}, r.Tombstones("t1"), "salida ordenada")

	r.RemoveTombstone("t1", "p1")
	assert.False(t, r.HasTombstone("t1", "p1"))
	assert.Equal(t, []string{"p0"}, r.Tombstones("t1"))
}
