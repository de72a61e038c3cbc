package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

const snapshotFileName = "stock-state.json"

// SnapshotRepository guarda el snapshot de cada tenant en
// <dataDir>/<tenant>/stock-state.json con escritura atómica (temp + rename).
type SnapshotRepository struct {
	dataDir string
	log     *logger.Logger
}

// NewSnapshotRepository construye el repositorio.
func NewSnapshotRepository(dataDir string, log *logger.Logger) *SnapshotRepository {
	return &SnapshotRepository{dataDir: dataDir, log: log}
}

func (r *SnapshotRepository) path(tenant string) string {
	return filepath.Join(r.dataDir, tenant, snapshotFileName)
}

// Write serializa y reemplaza atómicamente el snapshot del tenant.
func (r *SnapshotRepository) Write(tenant string, snap *entity.TenantSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar snapshot: %w", err)
	}
	if err := writeFileAtomic(r.path(tenant), data); err != nil {
		return err
	}
	r.log.Debug().Str("tenant", tenant).Int("products", len(snap.Products)).Msg("snapshot guardado")
	return nil
}

// Read carga el snapshot del tenant. Ausencia de fichero o fichero vacío es
// (nil, nil, nil): primer arranque. Un documento irreconocible devuelve error
// para que el motor lo trate como estado vacío.
func (r *SnapshotRepository) Read(tenant string) (*entity.TenantSnapshot, entity.LegacyStockState, error) {
	raw, err := os.ReadFile(r.path(tenant))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("leer snapshot: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil, nil
	}
	snap, legacy, err := entity.DecodeSnapshot(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decodificar snapshot: %w", err)
	}
	return snap, legacy, nil
}
