package filestore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudstore-cbd/stock-api/internal/domain"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	"github.com/cloudstore-cbd/stock-api/internal/infrastructure/filestore"
)

func cat(id, name string) *entity.Category {
	return &entity.Category{ID: id, Name: name, CreatedAt: time.Now().UTC()}
}

func TestCategoryRepository_CRUD(t *testing.T) {
	repo := filestore.NewCategoryRepository(t.TempDir())

	// Vacío al arrancar.
	out, err := repo.List("tienda")
	require.NoError(t, err)
	assert.Empty(t, out)

	require.NoError(t, repo.Create("tienda", cat("c1", "Fleurs")))
	require.NoError(t, repo.Create("tienda", cat("c2", "Résines")))

	out, err = repo.List("tienda")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Fleurs", out[0].Name)

	renamed, err := repo.Rename("tienda", "c1", "Fleurs CBD")
	require.NoError(t, err)
	assert.Equal(t, "Fleurs CBD", renamed.Name)

	require.NoError(t, repo.Delete("tienda", "c2"))
	out, err = repo.List("tienda")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "c1", out[0].ID)
}

func TestCategoryRepository_DuplicadoIgnoraMayusculas(t *testing.T) {
	repo := filestore.NewCategoryRepository(t.TempDir())

	require.NoError(t, repo.Create("tienda", cat("c1", "Fleurs")))
	err := repo.Create("tienda", cat("c2", "FLEURS"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryRepository_NoEncontrada(t *testing.T) {
	repo := filestore.NewCategoryRepository(t.TempDir())

	_, err := repo.Rename("tienda", "no-existe", "Nuevo")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete("tienda", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryRepository_TenantsAislados(t *testing.T) {
	repo := filestore.NewCategoryRepository(t.TempDir())

	require.NoError(t, repo.Create("tienda-a", cat("c1", "Fleurs")))

	out, err := repo.List("tienda-b")
	require.NoError(t, err)
	assert.Empty(t, out)
}
