package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cloudstore-cbd/stock-api/internal/domain"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
)

const categoriesFileName = "categories.json"

// CategoryRepository guarda las categorías de cada tenant en
// <dataDir>/<tenant>/categories.json. Las escrituras van bajo mutex: las
// categorías no pasan por la cola de mutaciones del motor.
type CategoryRepository struct {
	dataDir string
	mu      sync.Mutex
}

// NewCategoryRepository construye el repositorio.
func NewCategoryRepository(dataDir string) *CategoryRepository {
	return &CategoryRepository{dataDir: dataDir}
}

func (r *CategoryRepository) path(tenant string) string {
	return filepath.Join(r.dataDir, tenant, categoriesFileName)
}

func (r *CategoryRepository) load(tenant string) ([]entity.Category, error) {
	raw, err := os.ReadFile(r.path(tenant))
	if err != nil {
		if os.IsNotExist(err) {
			return []entity.Category{}, nil
		}
		return nil, fmt.Errorf("leer categorías: %w", err)
	}
	var out []entity.Category
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decodificar categorías: %w", err)
	}
	return out, nil
}

func (r *CategoryRepository) save(tenant string, categories []entity.Category) error {
	data, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar categorías: %w", err)
	}
	return writeFileAtomic(r.path(tenant), data)
}

// List devuelve las categorías del tenant.
func (r *CategoryRepository) List(tenant string) ([]entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(tenant)
}

// Create añade la categoría. Nombre ya existente (ignorando mayúsculas)
// devuelve domain.ErrDuplicate.
func (r *CategoryRepository) Create(tenant string, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories, err := r.load(tenant)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, category.Name) {
			return domain.ErrDuplicate
		}
	}
	categories = append(categories, *category)
	return r.save(tenant, categories)
}

// Rename cambia el nombre de la categoría indicada.
func (r *CategoryRepository) Rename(tenant, id, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories, err := r.load(tenant)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			categories[i].Name = name
			if err := r.save(tenant, categories); err != nil {
				return nil, err
			}
			return &categories[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete elimina la categoría indicada.
func (r *CategoryRepository) Delete(tenant, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories, err := r.load(tenant)
	if err != nil {
		return err
	}
	kept := categories[:0]
	for _, c := range categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(categories) {
		return domain.ErrNotFound
	}
	return r.save(tenant, kept)
}
