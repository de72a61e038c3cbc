package stock

import (
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	domstock "github.com/cloudstore-cbd/stock-api/internal/domain/stock"
)

// ensureReady ejecuta la máquina de siembra/restauración del tenant. Corre
// siempre dentro del worker del tenant, por lo que nunca compite con una
// mutación del mismo tenant; el flag ready la hace ejecutarse exactamente una
// vez por vida del proceso.
//
// Uninitialized -> siembra del catálogo base (si está activado)
//               -> overlay del snapshot persistido (lo persistido gana)
//               -> aplicación de tombstones
//               -> Ready (terminal)
func (e *Engine) ensureReady(tenant string) {
	e.mu.Lock()
	done := e.ready[tenant]
	e.mu.Unlock()
	if done {
		return
	}

	if e.cfg.BaselineEnabled {
		for id, p := range e.baseline {
			e.registry.Upsert(tenant, id, p.Entry())
		}
	}

	snap, legacy, err := e.snapshots.Read(tenant)
	switch {
	case err != nil:
		// Un snapshot ilegible o de forma desconocida se trata como estado
		// vacío, nunca como error fatal: prima la disponibilidad.
		e.log.Error().Err(err).Str("tenant", tenant).Msg("snapshot ilegible, se arranca con el estado base")
	case snap != nil:
		e.overlaySnapshot(tenant, snap)
	case legacy != nil:
		e.overlayLegacy(tenant, legacy)
	}

	e.mu.Lock()
	e.ready[tenant] = true
	e.mu.Unlock()

	e.log.Info().Str("tenant", tenant).
		Int("products", len(e.registry.List(tenant))).
		Bool("baseline", e.cfg.BaselineEnabled).
		Msg("tenant restaurado")
}

// overlaySnapshot aplica el documento versionado: los productos persistidos
// pisan la siembra base y después se aplican los tombstones. Un id borrado
// explícitamente no resucita al re-sembrar, y uno del catálogo base nunca
// desaparece sin tombstone (el bug histórico iba en ambos sentidos).
func (e *Engine) overlaySnapshot(tenant string, snap *entity.TenantSnapshot) {
	for id, entry := range snap.Products {
		e.registry.Upsert(tenant, id, entry)
	}
	for _, id := range snap.DeletedProductIDs {
		// AddTombstone también elimina la entrada viva si la hubiera: el
		// invariante "vivo y borrado a la vez" se repara aquí.
		e.registry.AddTombstone(tenant, id)
	}
}

// overlayLegacy aplica el formato plano antiguo: solo totalGrams y categoryIds
// sobre entradas ya presentes; ids desconocidos se ignoran y no hay tombstones
// que reconstruir.
func (e *Engine) overlayLegacy(tenant string, legacy entity.LegacyStockState) {
	for id, le := range legacy {
		entry, ok := e.registry.Get(tenant, id)
		if !ok {
			continue
		}
		entry.TotalGrams = domstock.ClampNonNegative(le.TotalGrams)
		if le.CategoryIDs != nil {
			entry.CategoryIDs = le.CategoryIDs
		}
		e.registry.Upsert(tenant, id, entry)
	}
}
