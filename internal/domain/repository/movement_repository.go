package repository

import "github.com/cloudstore-cbd/stock-api/internal/domain/entity"

// MovementRepository define el puerto del ledger de movimientos (DIP).
// List devuelve los movimientos más recientes primero.
type MovementRepository interface {
	Append(tenant string, movement *entity.Movement) error
	List(tenant string, days, limit int) ([]entity.Movement, error)
	PurgeOld(tenant string, keepDays int) error
}
