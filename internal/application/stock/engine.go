package stock

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/domain/catalog"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	"github.com/cloudstore-cbd/stock-api/internal/domain/repository"
	domstock "github.com/cloudstore-cbd/stock-api/internal/domain/stock"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// Config comportamiento del motor.
type Config struct {
	// BaselineEnabled siembra el catálogo base en el primer acceso a cada tenant.
	BaselineEnabled bool
	// AllowBaselineDelete: borrar un producto del catálogo base sin dejar
	// tombstone (reaparecerá en el próximo arranque). Override de operador.
	AllowBaselineDelete bool
}

// Engine es el motor de consistencia del pool: serializa todas las mutaciones
// por tenant a través de su cola interna, restaura el estado persistido de
// forma perezosa (una vez por tenant y por vida del proceso) y persiste un
// snapshot antes de responder cada mutación (write-before-respond: un crash
// justo después de responder no pierde la mutación confirmada).
type Engine struct {
	cfg       Config
	baseline  catalog.Baseline
	registry  *domstock.Registry
	snapshots repository.SnapshotRepository
	tags      TagLister // opcional
	q         *queue
	log       *logger.Logger

	mu    sync.Mutex
	ready map[string]bool
}

// NewEngine construye el motor. registry y snapshots son obligatorios; tags
// puede ser nil (sin filtrado de etiquetas).
func NewEngine(
	cfg Config,
	baseline catalog.Baseline,
	registry *domstock.Registry,
	snapshots repository.SnapshotRepository,
	tags TagLister,
	log *logger.Logger,
) *Engine {
	return &Engine{
		cfg:       cfg,
		baseline:  baseline,
		registry:  registry,
		snapshots: snapshots,
		tags:      tags,
		q:         newQueue(log),
		log:       log,
		ready:     make(map[string]bool),
	}
}

// Apply encola la operación para su ejecución exclusiva y devuelve la vista
// derivada tras la mutación. (nil, nil) significa "producto no configurado
// para este tenant": condición normal con catálogos parciales, se ignora en
// silencio, no es un error. Si ctx vence, la tarea encolada se completa y
// comitea igualmente; solo se pierde la respuesta.
func (e *Engine) Apply(ctx context.Context, tenant string, op Operation) (*MutationResult, error) {
	tenant = domstock.NormalizeTenant(tenant)
	var res *MutationResult
	err := e.q.enqueue(ctx, tenant, func() {
		e.ensureReady(tenant)
		res = e.apply(tenant, op)
		if res != nil {
			// Durabilidad antes de responder. Un fallo de escritura se
			// registra y no revierte la mutación en memoria: el disco es
			// respaldo, no la fuente de verdad del proceso en marcha.
			e.persist(tenant)
		}
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// EnsureReady fuerza la siembra/restauración del tenant sin mutar nada. Las
// lecturas pasan por aquí para que el primer GET ya vea baseline + snapshot.
func (e *Engine) EnsureReady(ctx context.Context, tenant string) error {
	tenant = domstock.NormalizeTenant(tenant)
	return e.q.enqueue(ctx, tenant, func() {
		e.ensureReady(tenant)
	})
}

// GetProduct devuelve la vista derivada de un producto, o nil si no existe.
func (e *Engine) GetProduct(ctx context.Context, tenant, productID string) (*entity.ProductView, error) {
	tenant = domstock.NormalizeTenant(tenant)
	if err := e.EnsureReady(ctx, tenant); err != nil {
		return nil, err
	}
	entry, ok := e.registry.Get(tenant, productID)
	if !ok {
		return nil, nil
	}
	view := domstock.BuildProductView(productID, entry)
	return &view, nil
}

// Views devuelve la vista derivada de todos los productos del tenant.
func (e *Engine) Views(ctx context.Context, tenant string) ([]entity.ProductView, error) {
	tenant = domstock.NormalizeTenant(tenant)
	if err := e.EnsureReady(ctx, tenant); err != nil {
		return nil, err
	}
	entries := e.registry.List(tenant)
	out := make([]entity.ProductView, 0, len(entries))
	for id, entry := range entries {
		out = append(out, domstock.BuildProductView(id, entry))
	}
	return out, nil
}

// apply despacha la operación. Siempre se ejecuta dentro del worker del
// tenant, nunca en paralelo con otra mutación del mismo tenant.
func (e *Engine) apply(tenant string, op Operation) *MutationResult {
	switch op := op.(type) {
	case Consumption:
		return e.applyConsumption(tenant, op)
	case Adjustment:
		return e.applyAdjustment(tenant, op)
	case TagAssignment:
		return e.applyTagAssignment(tenant, op)
	case ImportProduct:
		return e.applyImport(tenant, op)
	case Removal:
		return e.applyRemoval(tenant, op)
	default:
		e.log.Error().Str("tenant", tenant).Str("op", op.kind()).Msg("operación desconocida")
		return nil
	}
}

func (e *Engine) applyConsumption(tenant string, op Consumption) *MutationResult {
	entry, ok := e.registry.Get(tenant, op.ProductID)
	if !ok {
		return nil
	}
	before := entry.TotalGrams
	delta := domstock.ClampNonNegative(op.Grams)
	entry.TotalGrams = domstock.ClampNonNegative(before.Sub(delta))
	e.registry.Upsert(tenant, op.ProductID, entry)
	return e.result(tenant, op.ProductID, entry, before)
}

func (e *Engine) applyAdjustment(tenant string, op Adjustment) *MutationResult {
	entry, ok := e.registry.Get(tenant, op.ProductID)
	if !ok {
		return nil
	}
	before := entry.TotalGrams
	entry.TotalGrams = domstock.ClampNonNegative(before.Add(op.Grams))
	e.registry.Upsert(tenant, op.ProductID, entry)
	return e.result(tenant, op.ProductID, entry, before)
}

func (e *Engine) applyTagAssignment(tenant string, op TagAssignment) *MutationResult {
	entry, ok := e.registry.Get(tenant, op.ProductID)
	if !ok {
		return nil
	}
	entry.CategoryIDs = e.filterTags(tenant, op.CategoryIDs)
	e.registry.Upsert(tenant, op.ProductID, entry)
	return e.result(tenant, op.ProductID, entry, entry.TotalGrams)
}

func (e *Engine) applyImport(tenant string, op ImportProduct) *MutationResult {
	entry, existed := e.registry.Get(tenant, op.ProductID)
	before := entry.TotalGrams
	if !existed {
		before = decimal.Zero
	}

	if op.Name != "" {
		entry.Name = op.Name
	}

	// Reemplazo total de variantes: las que el reimport ya no trae no deben
	// sobrevivir. Las inválidas se descartan en la ingesta.
	variants := make(map[string]entity.Variant, len(op.Variants))
	for label, v := range op.Variants {
		if !v.GramsPerUnit.IsPositive() || v.InventoryItemID == 0 {
			e.log.Warn().Str("tenant", tenant).Str("productId", op.ProductID).
				Str("variant", label).Msg("variante inválida descartada en import")
			continue
		}
		variants[label] = entity.Variant{GramsPerUnit: v.GramsPerUnit, InventoryItemID: v.InventoryItemID}
	}
	entry.Variants = variants

	if op.TotalGrams != nil {
		entry.TotalGrams = domstock.ClampNonNegative(*op.TotalGrams)
	}
	if op.CategoryIDs != nil {
		entry.CategoryIDs = e.filterTags(tenant, *op.CategoryIDs)
	}

	e.registry.Upsert(tenant, op.ProductID, entry)
	// Reimportar levanta el tombstone: un id nunca está vivo y borrado a la vez.
	e.registry.RemoveTombstone(tenant, op.ProductID)
	return e.result(tenant, op.ProductID, entry, before)
}

func (e *Engine) applyRemoval(tenant string, op Removal) *MutationResult {
	entry, ok := e.registry.Get(tenant, op.ProductID)
	if !ok {
		// Borrar un id ausente es un no-op silencioso.
		return nil
	}
	before := entry.TotalGrams
	e.registry.Delete(tenant, op.ProductID)
	if e.cfg.BaselineEnabled && e.baseline.Contains(op.ProductID) && !e.cfg.AllowBaselineDelete {
		e.registry.AddTombstone(tenant, op.ProductID)
	}
	// La vista resultante refleja el producto ya sin stock vendible, para que
	// el colaborador de sincronización pueda poner los niveles externos a cero.
	entry.TotalGrams = decimal.Zero
	return e.result(tenant, op.ProductID, entry, before)
}

// filterTags filtra contra el registro de etiquetas si está disponible; sin
// registro (o si falla) degrada a passthrough.
func (e *Engine) filterTags(tenant string, ids []string) []string {
	if e.tags == nil {
		return append([]string(nil), ids...)
	}
	known, err := e.tags.List(tenant)
	if err != nil {
		e.log.Warn().Err(err).Str("tenant", tenant).Msg("registro de etiquetas no disponible, asignación sin filtrar")
		return append([]string(nil), ids...)
	}
	set := make(map[string]struct{}, len(known))
	for _, c := range known {
		set[c.ID] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (e *Engine) result(tenant, productID string, entry entity.ProductEntry, before decimal.Decimal) *MutationResult {
	return &MutationResult{
		Tenant:     tenant,
		ProductID:  productID,
		Name:       entry.Name,
		DeltaGrams: entry.TotalGrams.Sub(before),
		TotalAfter: entry.TotalGrams,
		View:       domstock.BuildProductView(productID, entry),
	}
}

// persist escribe el snapshot versionado del tenant. Siempre emite la versión
// actual del esquema: el formato legado migra solo con la primera escritura.
func (e *Engine) persist(tenant string) {
	tombs := e.registry.Tombstones(tenant)
	if tombs == nil {
		tombs = []string{}
	}
	snap := &entity.TenantSnapshot{
		SchemaVersion:     entity.SnapshotSchemaVersion,
		UpdatedAt:         time.Now().UTC(),
		Products:          e.registry.List(tenant),
		DeletedProductIDs: tombs,
	}
	if err := e.snapshots.Write(tenant, snap); err != nil {
		e.log.Error().Err(err).Str("tenant", tenant).Msg("fallo al persistir snapshot de stock")
	}
}
