package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

func TestDecodeSnapshot_Versionado(t *testing.T) {
	doc := &entity.TenantSnapshot{
		SchemaVersion: entity.SnapshotSchemaVersion,
		UpdatedAt:     time.Now().UTC(),
		Products: map[string]entity.ProductEntry{
			"p1": {
				Name:       "Citrus Kush",
				TotalGrams: decimal.RequireFromString("42.5"),
				Variants:   map[string]entity.Variant{"5": {GramsPerUnit: decimal.RequireFromString("5"), InventoryItemID: 9}},
			},
		},
		DeletedProductIDs: []string{"p2"},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	snap, legacy, err := entity.DecodeSnapshot(raw)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Nil(t, legacy)
	assert.Equal(t, entity.SnapshotSchemaVersion, snap.SchemaVersion)
	assert.True(t, snap.Products["p1"].TotalGrams.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, []string{"p2"}, snap.DeletedProductIDs)
}

// El formato plano anterior: mapa id -> {totalGrams, categoryIds}, sin
// schemaVersion y con los gramos como número JSON crudo.
func TestDecodeSnapshot_Legado(t *testing.T) {
	raw := []byte(`{
		"10309343248727": {"totalGrams": 33.5, "categoryIds": ["cat-1"]},
		"10314007576919": {"totalGrams": 50}
	}`)

	snap, legacy, err := entity.DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Nil(t, snap)
	require.NotNil(t, legacy)
	assert.True(t, legacy["10309343248727"].TotalGrams.Equal(decimal.RequireFromString("33.5")))
	assert.Equal(t, []string{"cat-1"}, legacy["10309343248727"].CategoryIDs)
	assert.True(t, legacy["10314007576919"].TotalGrams.Equal(decimal.RequireFromString("50")))
}

func TestDecodeSnapshot_Irreconocible(t *testing.T) {
	_, _, err := entity.DecodeSnapshot([]byte(`[1,2,3]`))
	assert.Error(t, err)

	_, _, err = entity.DecodeSnapshot([]byte(`{no es json`))
	assert.Error(t, err)
}
