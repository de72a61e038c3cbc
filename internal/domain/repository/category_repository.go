package repository

import "github.com/cloudstore-cbd/stock-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	List(tenant string) ([]entity.Category, error)
	Create(tenant string, category *entity.Category) error
	Rename(tenant, id, name string) (*entity.Category, error)
	Delete(tenant, id string) error
}
