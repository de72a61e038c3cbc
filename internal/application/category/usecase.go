package category

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cloudstore-cbd/stock-api/internal/domain"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	"github.com/cloudstore-cbd/stock-api/internal/domain/repository"
	domstock "github.com/cloudstore-cbd/stock-api/internal/domain/stock"
)

const maxNameLength = 100

// UseCase gestiona las categorías de un tenant. Implementa también el puerto
// TagLister del motor de stock: es el registro contra el que se filtran las
// asignaciones de etiquetas.
type UseCase struct {
	repo repository.CategoryRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CategoryRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List devuelve las categorías del tenant.
func (uc *UseCase) List(tenant string) ([]entity.Category, error) {
	return uc.repo.List(domstock.NormalizeTenant(tenant))
}

// Create valida el nombre y crea la categoría. Nombre duplicado (ignorando
// mayúsculas) devuelve domain.ErrDuplicate.
func (uc *UseCase) Create(tenant, name string) (*entity.Category, error) {
	n := strings.TrimSpace(name)
	if n == "" || len(n) > maxNameLength {
		return nil, domain.ErrInvalidInput
	}
	cat := &entity.Category{
		ID:        uuid.New().String(),
		Name:      n,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(domstock.NormalizeTenant(tenant), cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Rename cambia el nombre de una categoría existente.
func (uc *UseCase) Rename(tenant, id, name string) (*entity.Category, error) {
	n := strings.TrimSpace(name)
	if n == "" || len(n) > maxNameLength {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.Rename(domstock.NormalizeTenant(tenant), id, n)
}

// Delete elimina la categoría. Id inexistente devuelve domain.ErrNotFound.
func (uc *UseCase) Delete(tenant, id string) error {
	return uc.repo.Delete(domstock.NormalizeTenant(tenant), id)
}
