package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotSchemaVersion es la versión que se escribe siempre. El formato
// legado (mapa plano sin versión) se trata como versión 1 y solo se lee.
const SnapshotSchemaVersion = 2

// TenantSnapshot es el documento persistido por tenant. Invariante:
// DeletedProductIDs nunca contiene un id presente simultáneamente en Products.
type TenantSnapshot struct {
	SchemaVersion     int                     `json:"schemaVersion"`
	UpdatedAt         time.Time               `json:"updatedAt"`
	Products          map[string]ProductEntry `json:"products"`
	DeletedProductIDs []string                `json:"deletedProductIds"`
}

// LegacyEntry es la forma plana que escribía la versión anterior del sistema:
// solo gramos totales y categorías, sin variantes ni tombstones.
type LegacyEntry struct {
	TotalGrams  decimal.Decimal `json:"totalGrams"`
	CategoryIDs []string        `json:"categoryIds"`
}

// LegacyStockState es el snapshot legado completo: id de producto -> LegacyEntry.
type LegacyStockState map[string]LegacyEntry

// DecodeSnapshot interpreta el contenido crudo de un snapshot en disco y
// devuelve la forma versionada o la legada, nunca ambas. Un documento
// irreconocible devuelve (nil, nil, error): el llamador decide tratarlo como
// estado vacío.
func DecodeSnapshot(raw []byte) (*TenantSnapshot, LegacyStockState, error) {
	// Discriminante: los documentos versionados llevan schemaVersion >= 1.
	var probe struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, nil, err
	}

	if probe.SchemaVersion >= 1 {
		var snap TenantSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, nil, err
		}
		return &snap, nil, nil
	}

	var legacy LegacyStockState
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, nil, err
	}
	return nil, legacy, nil
}
