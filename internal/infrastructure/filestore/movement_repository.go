package filestore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

const (
	movementsDirName = "movements"
	ndjsonExt        = ".ndjson"
	dayLayout        = "2006-01-02"
)

// MovementRepository persiste el ledger como NDJSON por día:
// <dataDir>/<tenant>/movements/YYYY-MM-DD.ndjson, una línea JSON por asiento.
type MovementRepository struct {
	dataDir string
	log     *logger.Logger
	mu      sync.Mutex
}

// NewMovementRepository construye el repositorio.
func NewMovementRepository(dataDir string, log *logger.Logger) *MovementRepository {
	return &MovementRepository{dataDir: dataDir, log: log}
}

func (r *MovementRepository) dir(tenant string) string {
	return filepath.Join(r.dataDir, tenant, movementsDirName)
}

func (r *MovementRepository) fileForDate(tenant string, t time.Time) string {
	return filepath.Join(r.dir(tenant), t.UTC().Format(dayLayout)+ndjsonExt)
}

// Append añade un asiento al fichero del día.
func (r *MovementRepository) Append(tenant string, movement *entity.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.MkdirAll(r.dir(tenant), 0o755); err != nil {
		return fmt.Errorf("crear directorio de movimientos: %w", err)
	}
	line, err := json.Marshal(movement)
	if err != nil {
		return fmt.Errorf("serializar movimiento: %w", err)
	}
	f, err := os.OpenFile(r.fileForDate(tenant, movement.TS), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("abrir fichero de movimientos: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("escribir movimiento: %w", err)
	}
	return nil
}

// List devuelve los movimientos de los últimos days días, los más recientes
// primero, hasta limit. Las líneas corruptas se saltan sin fallar.
func (r *MovementRepository) List(tenant string, days, limit int) ([]entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	var out []entity.Movement
	for i := 0; i < days; i++ {
		path := r.fileForDate(tenant, now.AddDate(0, 0, -i))
		rows, err := r.readFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		out = append(out, rows...)
		// Parada temprana: ya hay de sobra para cortar tras ordenar.
		if len(out) >= limit*3 {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TS.After(out[j].TS) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MovementRepository) readFile(path string) ([]entity.Movement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []entity.Movement
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var m entity.Movement
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			r.log.Warn().Str("file", filepath.Base(path)).Msg("línea de movimiento corrupta, ignorada")
			continue
		}
		out = append(out, m)
	}
	return out, sc.Err()
}

// PurgeOld elimina los ficheros de días anteriores a keepDays.
func (r *MovementRepository) PurgeOld(tenant string, keepDays int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir(tenant))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("listar movimientos: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays)
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ndjsonExt) {
			continue
		}
		day, err := time.Parse(dayLayout, strings.TrimSuffix(name, ndjsonExt))
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			if err := os.Remove(filepath.Join(r.dir(tenant), name)); err != nil {
				r.log.Warn().Err(err).Str("file", name).Msg("no se pudo purgar fichero de movimientos")
			}
		}
	}
	return nil
}
