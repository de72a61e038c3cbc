package repository

import "github.com/cloudstore-cbd/stock-api/internal/domain/entity"

// SnapshotRepository define el puerto de persistencia del snapshot por tenant (DIP).
// Write debe ser atómico (nunca dejar visible un documento a medias). Read
// devuelve la forma versionada o la legada; ausencia de snapshot es (nil, nil, nil).
type SnapshotRepository interface {
	Write(tenant string, snap *entity.TenantSnapshot) error
	Read(tenant string) (*entity.TenantSnapshot, entity.LegacyStockState, error)
}
