package stock

import (
	"sort"
	"sync"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

// Registry es el store de cantidades en memoria: mapas de producto por tenant
// más el conjunto de tombstones. Es un objeto inyectado (ningún estado a nivel
// de paquete). Las escrituras no son seguras entre sí: la cola de mutaciones
// del motor es quien las serializa; el RWMutex solo protege a los lectores
// concurrentes, que siempre reciben copias.
type Registry struct {
	mu      sync.RWMutex
	tenants map[string]*tenantStore
}

type tenantStore struct {
	products map[string]*entity.ProductEntry
	deleted  map[string]struct{}
}

// NewRegistry crea un registro vacío.
func NewRegistry() *Registry {
	return &Registry{tenants: make(map[string]*tenantStore)}
}

func (r *Registry) store(tenant string) *tenantStore {
	ts, ok := r.tenants[tenant]
	if !ok {
		ts = &tenantStore{
			products: make(map[string]*entity.ProductEntry),
			deleted:  make(map[string]struct{}),
		}
		r.tenants[tenant] = ts
	}
	return ts
}

// Get devuelve una copia de la entrada, si existe.
func (r *Registry) Get(tenant, productID string) (entity.ProductEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.tenants[tenant]
	if !ok {
		return entity.ProductEntry{}, false
	}
	p, ok := ts.products[productID]
	if !ok {
		return entity.ProductEntry{}, false
	}
	return p.Clone(), true
}

// List devuelve copias de todas las entradas del tenant.
func (r *Registry) List(tenant string) map[string]entity.ProductEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]entity.ProductEntry)
	ts, ok := r.tenants[tenant]
	if !ok {
		return out
	}
	for id, p := range ts.products {
		out[id] = p.Clone()
	}
	return out
}

// Upsert guarda una copia de la entrada con TotalGrams clampado a cero.
func (r *Registry) Upsert(tenant, productID string, e entity.ProductEntry) {
	e.TotalGrams = ClampNonNegative(e.TotalGrams)
	c := e.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(tenant).products[productID] = &c
}

// Delete elimina la entrada viva. Devuelve si existía.
func (r *Registry) Delete(tenant, productID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, ok := r.tenants[tenant]
	if !ok {
		return false
	}
	if _, ok := ts.products[productID]; !ok {
		return false
	}
	delete(ts.products, productID)
	return true
}

// AddTombstone registra que un producto del catálogo base fue borrado
// explícitamente. Invariante: un id nunca está vivo y tombstoneado a la vez,
// así que la entrada viva se elimina primero si sigue presente.
func (r *Registry) AddTombstone(tenant, productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := r.store(tenant)
	delete(ts.products, productID)
	ts.deleted[productID] = struct{}{}
}

// RemoveTombstone borra el tombstone (p. ej. al re-importar el producto).
func (r *Registry) RemoveTombstone(tenant, productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ts, ok := r.tenants[tenant]; ok {
		delete(ts.deleted, productID)
	}
}

// HasTombstone indica si el id está marcado como borrado.
func (r *Registry) HasTombstone(tenant, productID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.tenants[tenant]
	if !ok {
		return false
	}
	_, ok = ts.deleted[productID]
	return ok
}

// Tombstones devuelve los ids borrados, ordenados (salida estable para el
// snapshot persistido).
func (r *Registry) Tombstones(tenant string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.tenants[tenant]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(ts.deleted))
	for id := range ts.deleted {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
