package category_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudstore-cbd/stock-api/internal/application/category"
	"github.com/cloudstore-cbd/stock-api/internal/domain"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

// memRepo repositorio de categorías en memoria para tests.
type memRepo struct {
	byTenant map[string][]entity.Category
}

func newMemRepo() *memRepo {
	return &memRepo{byTenant: make(map[string][]entity.Category)}
}

func (m *memRepo) List(tenant string) ([]entity.Category, error) {
	return m.byTenant[tenant], nil
}

func (m *memRepo) Create(tenant string, cat *entity.Category) error {
	for _, c := range m.byTenant[tenant] {
		if strings.EqualFold(c.Name, cat.Name) {
			return domain.ErrDuplicate
		}
	}
	m.byTenant[tenant] = append(m.byTenant[tenant], *cat)
	return nil
}

func (m *memRepo) Rename(tenant, id, name string) (*entity.Category, error) {
	cats := m.byTenant[tenant]
	for i := range cats {
		if cats[i].ID == id {
			cats[i].Name = name
			return &cats[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) Delete(tenant, id string) error {
	cats := m.byTenant[tenant]
	for i := range cats {
		if cats[i].ID == id {
			m.byTenant[tenant] = append(cats[:i], cats[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func TestCreate_ValidaElNombre(t *testing.T) {
	uc := category.NewUseCase(newMemRepo())

	_, err := uc.Create("tienda", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create("tienda", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo espacios no es un nombre")

	_, err = uc.Create("tienda", strings.Repeat("x", 101))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre demasiado largo")

	cat, err := uc.Create("tienda", "  Fleurs  ")
	require.NoError(t, err)
	assert.Equal(t, "Fleurs", cat.Name, "el nombre se guarda sin espacios laterales")
	assert.NotEmpty(t, cat.ID)
	assert.False(t, cat.CreatedAt.IsZero())
}

func TestCreate_NormalizaElTenant(t *testing.T) {
	repo := newMemRepo()
	uc := category.NewUseCase(repo)

	_, err := uc.Create("Ma-Boutique.myshopify.com", "Fleurs")
	require.NoError(t, err)

	out, err := uc.List("ma-boutique.myshopify.com")
	require.NoError(t, err)
	assert.Len(t, out, 1, "mismo tenant con otra capitalización")
}

func TestRename_Valida(t *testing.T) {
	repo := newMemRepo()
	uc := category.NewUseCase(repo)
	created, err := uc.Create("tienda", "Fleurs")
	require.NoError(t, err)

	_, err = uc.Rename("tienda", created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	renamed, err := uc.Rename("tienda", created.ID, " Huiles ")
	require.NoError(t, err)
	assert.Equal(t, "Huiles", renamed.Name)
}

func TestDelete_Inexistente(t *testing.T) {
	uc := category.NewUseCase(newMemRepo())
	assert.ErrorIs(t, uc.Delete("tienda", "no-existe"), domain.ErrNotFound)
}
