package stock_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstock "github.com/cloudstore-cbd/stock-api/internal/application/stock"
	"github.com/cloudstore-cbd/stock-api/internal/domain/catalog"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	domstock "github.com/cloudstore-cbd/stock-api/internal/domain/stock"
	"github.com/cloudstore-cbd/stock-api/internal/infrastructure/filestore"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testTenant = "boutique-test"

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

// testBaseline: un catálogo base mínimo con dos productos de 50g.
func testBaseline(t *testing.T) catalog.Baseline {
	t.Helper()
	return catalog.Baseline{
		"p-amnesia": {
			Name:         "Amnesia US",
			InitialGrams: decimal.RequireFromString("50"),
			Variants: map[string]entity.Variant{
				"10": {GramsPerUnit: decimal.RequireFromString("10"), InventoryItemID: 101},
				"25": {GramsPerUnit: decimal.RequireFromString("25"), InventoryItemID: 102},
			},
		},
		"p-gelato": {
			Name:         "Blue Gelato",
			InitialGrams: decimal.RequireFromString("50"),
			Variants: map[string]entity.Variant{
				"5": {GramsPerUnit: decimal.RequireFromString("5"), InventoryItemID: 201},
			},
		},
	}
}

// staticTags registro de etiquetas fijo para tests.
type staticTags struct {
	cats []entity.Category
}

func (s *staticTags) List(string) ([]entity.Category, error) { return s.cats, nil }

// newTestEngine monta un motor con snapshot real sobre un directorio temporal.
func newTestEngine(t *testing.T, cfg appstock.Config, baseline catalog.Baseline, tags appstock.TagLister) (*appstock.Engine, string) {
	t.Helper()
	dataDir := t.TempDir()
	return engineOver(cfg, baseline, tags, dataDir), dataDir
}

// engineOver reconstruye un motor sobre un directorio de datos existente
// (simula el reinicio del proceso).
func engineOver(cfg appstock.Config, baseline catalog.Baseline, tags appstock.TagLister, dataDir string) *appstock.Engine {
	log := logger.Nop()
	return appstock.NewEngine(cfg, baseline, domstock.NewRegistry(), filestore.NewSnapshotRepository(dataDir, log), tags, log)
}

func readSnapshotFile(t *testing.T, dataDir, tenant string) *entity.TenantSnapshot {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dataDir, tenant, "stock-state.json"))
	require.NoError(t, err)
	snap, legacy, err := entity.DecodeSnapshot(raw)
	require.NoError(t, err)
	require.Nil(t, legacy, "tras una mutación el fichero siempre es versionado")
	return snap
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo y ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_ConsumoDescuentaDelPool(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), nil)
	ctx := context.Background()

	res, err := e.Apply(ctx, testTenant, appstock.Consumption{ProductID: "p-amnesia", Grams: dec(t, "23")})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.TotalAfter.Equal(dec(t, "27")))
	assert.True(t, res.DeltaGrams.Equal(dec(t, "-23")))
	// Las unidades vendibles se derivan del pool restante, no de contadores propios.
	assert.Equal(t, int64(2), res.View.Variants["10"].CanSell)
	assert.Equal(t, int64(1), res.View.Variants["25"].CanSell)
}

func TestEngine_ConsumoClampaACero(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), nil)
	ctx := context.Background()

	res, err := e.Apply(ctx, testTenant, appstock.Consumption{ProductID: "p-gelato", Grams: dec(t, "500")})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.TotalAfter.IsZero(), "el pool nunca baja de cero")
	assert.True(t, res.DeltaGrams.Equal(dec(t, "-50")), "el delta refleja lo realmente descontado")
}

func TestEngine_ConsumoNegativoEsNoOp(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), nil)
	ctx := context.Background()

	res, err := e.Apply(ctx, testTenant, appstock.Consumption{ProductID: "p-amnesia", Grams: dec(t, "-10")})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.TotalAfter.Equal(dec(t, "50")), "un consumo negativo no puede inflar el pool")
}

func TestEngine_AjustePositivoYNegativo(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), nil)
	ctx := context.Background()

	res, err := e.Apply(ctx, testTenant, appstock.Adjustment{ProductID: "p-amnesia", Grams: dec(t, "12.5")})
	require.NoError(t, err)
	assert.True(t, res.TotalAfter.Equal(dec(t, "62.5")))

	res, err = e.Apply(ctx, testTenant, appstock.Adjustment{ProductID: "p-amnesia", Grams: dec(t, "-100")})
	require.NoError(t, err)
	assert.True(t, res.TotalAfter.IsZero(), "el ajuste negativo clampa a cero")
	assert.True(t, res.DeltaGrams.Equal(dec(t, "-62.5")))
}

func TestEngine_ProductoNoGestionado(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{}, nil, nil)
	ctx := context.Background()

	res, err := e.Apply(ctx, testTenant, appstock.Consumption{ProductID: "desconocido", Grams: dec(t, "5")})
	require.NoError(t, err, "un producto fuera del pool no es un error")
	assert.Nil(t, res, "resultado ausente: condición normal con catálogos parciales")
}

// Cada tenant tiene su propio pool: consumir en uno no toca al otro.
func TestEngine_TenantsAislados(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), nil)
	ctx := context.Background()

	_, err := e.Apply(ctx, "tienda-a", appstock.Consumption{ProductID: "p-amnesia", Grams: dec(t, "50")})
	require.NoError(t, err)

	view, err := e.GetProduct(ctx, "tienda-b", "p-amnesia")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.TotalGrams.Equal(dec(t, "50")), "tienda-b conserva su siembra intacta")
}

// ──────────────────────────────────────────────────────────────────────────────
// Serialización de mutaciones
// ──────────────────────────────────────────────────────────────────────────────

// 50 consumos concurrentes de 1g sobre 50g deben dejar exactamente 0: si dos
// mutaciones leyeran el mismo estado base se perdería un descuento.
func TestEngine_ConcurrenciaSinPerdidas(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Apply(ctx, testTenant, appstock.Consumption{ProductID: "p-amnesia", Grams: dec(t, "1")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := e.GetProduct(ctx, testTenant, "p-amnesia")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.TotalGrams.IsZero(), "quedaron %s gramos: hay mutaciones perdidas", view.TotalGrams)
}

// ──────────────────────────────────────────────────────────────────────────────
// Import
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_ImportCreaYReemplazaVariantes(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{}, nil, nil)
	ctx := context.Background()
	total := dec(t, "30")

	res, err := e.Apply(ctx, testTenant, appstock.ImportProduct{
		ProductID:  "p-nuevo",
		Name:       "Citrus Kush",
		TotalGrams: &total,
		Variants: map[string]appstock.ImportVariant{
			"3":       {GramsPerUnit: dec(t, "3"), InventoryItemID: 301},
			"10":      {GramsPerUnit: dec(t, "10"), InventoryItemID: 302},
			"rota":    {GramsPerUnit: dec(t, "0"), InventoryItemID: 303},
			"sin-ref": {GramsPerUnit: dec(t, "5"), InventoryItemID: 0},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Len(t, res.View.Variants, 2, "las variantes inválidas se descartan en la ingesta")
	assert.True(t, res.TotalAfter.Equal(dec(t, "30")))

	// El reimport reemplaza variantes al completo y preserva el total si no viene.
	res, err = e.Apply(ctx, testTenant, appstock.ImportProduct{
		ProductID: "p-nuevo",
		Name:      "Citrus Kush",
		Variants: map[string]appstock.ImportVariant{
			"5": {GramsPerUnit: dec(t, "5"), InventoryItemID: 304},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.TotalAfter.Equal(dec(t, "30")), "TotalGrams ausente preserva el pool")
	require.Len(t, res.View.Variants, 1, "las variantes que el reimport no trae no sobreviven")
	assert.Equal(t, int64(6), res.View.Variants["5"].CanSell)
}

func TestEngine_ImportClampaTotalNegativo(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{}, nil, nil)
	negative := dec(t, "-10")

	res, err := e.Apply(context.Background(), testTenant, appstock.ImportProduct{
		ProductID:  "p-x",
		Name:       "X",
		TotalGrams: &negative,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.TotalAfter.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Etiquetas
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_TagAssignment_FiltraContraElRegistro(t *testing.T) {
	tags := &staticTags{cats: []entity.Category{{ID: "cat-a", Name: "Fleurs"}}}
	e, _ := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), tags)

	res, err := e.Apply(context.Background(), testTenant, appstock.TagAssignment{
		ProductID:   "p-amnesia",
		CategoryIDs: []string{"cat-a", "cat-inexistente"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"cat-a"}, res.View.CategoryIDs, "los ids desconocidos se filtran")
}

func TestEngine_TagAssignment_SinRegistroEsPassthrough(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), nil)

	res, err := e.Apply(context.Background(), testTenant, appstock.TagAssignment{
		ProductID:   "p-amnesia",
		CategoryIDs: []string{"lo-que-sea"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"lo-que-sea"}, res.View.CategoryIDs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado, tombstones y reinicios
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_RemovalDeIdAusenteEsNoOp(t *testing.T) {
	e, _ := newTestEngine(t, appstock.Config{}, nil, nil)

	res, err := e.Apply(context.Background(), testTenant, appstock.Removal{ProductID: "no-existe"})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestEngine_TombstoneSobreviveAlReinicio(t *testing.T) {
	cfg := appstock.Config{BaselineEnabled: true}
	baseline := testBaseline(t)
	e, dataDir := newTestEngine(t, cfg, baseline, nil)
	ctx := context.Background()

	res, err := e.Apply(ctx, testTenant, appstock.Removal{ProductID: "p-amnesia"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.TotalAfter.IsZero(), "la vista resultante pone el stock vendible a cero")

	// Reinicio: mismo directorio de datos, registro en memoria nuevo.
	e2 := engineOver(cfg, baseline, nil, dataDir)
	view, err := e2.GetProduct(ctx, testTenant, "p-amnesia")
	require.NoError(t, err)
	assert.Nil(t, view, "el tombstone impide que la siembra resucite el producto")

	other, err := e2.GetProduct(ctx, testTenant, "p-gelato")
	require.NoError(t, err)
	require.NotNil(t, other, "el resto del catálogo base sigue sembrándose")
}

func TestEngine_ReimportLevantaElTombstone(t *testing.T) {
	cfg := appstock.Config{BaselineEnabled: true}
	baseline := testBaseline(t)
	e, dataDir := newTestEngine(t, cfg, baseline, nil)
	ctx := context.Background()

	_, err := e.Apply(ctx, testTenant, appstock.Removal{ProductID: "p-amnesia"})
	require.NoError(t, err)

	total := dec(t, "20")
	_, err = e.Apply(ctx, testTenant, appstock.ImportProduct{
		ProductID:  "p-amnesia",
		Name:       "Amnesia US",
		TotalGrams: &total,
		Variants:   map[string]appstock.ImportVariant{"10": {GramsPerUnit: dec(t, "10"), InventoryItemID: 101}},
	})
	require.NoError(t, err)

	// Tras levantar el tombstone, el producto sobrevive a un reinicio.
	e2 := engineOver(cfg, baseline, nil, dataDir)
	view, err := e2.GetProduct(ctx, testTenant, "p-amnesia")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.TotalGrams.Equal(dec(t, "20")))
}

// El override de operador: borrar sin tombstone. El producto desaparece del
// proceso en marcha pero la siembra lo recupera en el próximo arranque.
func TestEngine_AllowBaselineDelete_ReaparecePorSiembra(t *testing.T) {
	cfg := appstock.Config{BaselineEnabled: true, AllowBaselineDelete: true}
	baseline := testBaseline(t)
	e, dataDir := newTestEngine(t, cfg, baseline, nil)
	ctx := context.Background()

	_, err := e.Apply(ctx, testTenant, appstock.Removal{ProductID: "p-amnesia"})
	require.NoError(t, err)

	view, err := e.GetProduct(ctx, testTenant, "p-amnesia")
	require.NoError(t, err)
	assert.Nil(t, view, "borrado en el proceso en marcha")

	e2 := engineOver(cfg, baseline, nil, dataDir)
	view, err = e2.GetProduct(ctx, testTenant, "p-amnesia")
	require.NoError(t, err)
	require.NotNil(t, view, "sin tombstone, la siembra lo recupera")
	assert.True(t, view.TotalGrams.Equal(dec(t, "50")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Persistencia
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_PersisteAntesDeResponder(t *testing.T) {
	e, dataDir := newTestEngine(t, appstock.Config{BaselineEnabled: true}, testBaseline(t), nil)

	_, err := e.Apply(context.Background(), testTenant, appstock.Consumption{ProductID: "p-amnesia", Grams: dec(t, "7")})
	require.NoError(t, err)

	// En cuanto Apply responde, el snapshot ya está en disco.
	snap := readSnapshotFile(t, dataDir, testTenant)
	assert.Equal(t, entity.SnapshotSchemaVersion, snap.SchemaVersion)
	assert.True(t, snap.Products["p-amnesia"].TotalGrams.Equal(dec(t, "43")))
	assert.NotNil(t, snap.DeletedProductIDs, "deletedProductIds se serializa como lista, nunca null")
}

func TestEngine_SnapshotSobreviveAlReinicio(t *testing.T) {
	cfg := appstock.Config{BaselineEnabled: true}
	baseline := testBaseline(t)
	e, dataDir := newTestEngine(t, cfg, baseline, nil)
	ctx := context.Background()

	_, err := e.Apply(ctx, testTenant, appstock.Consumption{ProductID: "p-amnesia", Grams: dec(t, "23")})
	require.NoError(t, err)

	e2 := engineOver(cfg, baseline, nil, dataDir)
	view, err := e2.GetProduct(ctx, testTenant, "p-amnesia")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.TotalGrams.Equal(dec(t, "27")), "lo persistido pisa la siembra base")
}

// Un fichero del formato plano anterior se lee, se aplica sobre la siembra y la
// primera mutación lo reescribe ya versionado.
func TestEngine_SnapshotLegadoSeMigra(t *testing.T) {
	cfg := appstock.Config{BaselineEnabled: true}
	baseline := testBaseline(t)
	dataDir := t.TempDir()

	legacy := map[string]map[string]any{
		"p-amnesia": {"totalGrams": 33.5, "categoryIds": []string{"cat-1"}},
	}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, testTenant), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, testTenant, "stock-state.json"), raw, 0o644))

	e := engineOver(cfg, baseline, nil, dataDir)
	ctx := context.Background()

	view, err := e.GetProduct(ctx, testTenant, "p-amnesia")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.TotalGrams.Equal(dec(t, "33.5")), "el total legado pisa la siembra")
	assert.Equal(t, []string{"cat-1"}, view.CategoryIDs)

	_, err = e.Apply(ctx, testTenant, appstock.Consumption{ProductID: "p-amnesia", Grams: dec(t, "3.5")})
	require.NoError(t, err)

	snap := readSnapshotFile(t, dataDir, testTenant)
	assert.Equal(t, entity.SnapshotSchemaVersion, snap.SchemaVersion, "migración al escribir")
	assert.True(t, snap.Products["p-amnesia"].TotalGrams.Equal(dec(t, "30")))
}

// Un snapshot corrupto no tumba el tenant: arranca con el estado base.
func TestEngine_SnapshotCorruptoArrancaConSiembra(t *testing.T) {
	cfg := appstock.Config{BaselineEnabled: true}
	baseline := testBaseline(t)
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, testTenant), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, testTenant, "stock-state.json"), []byte("{corrupto"), 0o644))

	e := engineOver(cfg, baseline, nil, dataDir)
	view, err := e.GetProduct(context.Background(), testTenant, "p-amnesia")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.TotalGrams.Equal(dec(t, "50")))
}
