package movement

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/application/stock"
	"github.com/cloudstore-cbd/stock-api/internal/domain/entity"
	"github.com/cloudstore-cbd/stock-api/internal/domain/repository"
	domstock "github.com/cloudstore-cbd/stock-api/internal/domain/stock"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// Límite de lectura del listado; el almacenamiento es por día, así que days
// acota cuántos ficheros se recorren.
const (
	DefaultDays  = 7
	MaxDays      = 365
	DefaultLimit = 2000
	MaxLimit     = 10000
)

// UseCase es el colaborador de auditoría: registra un asiento por mutación
// confirmada y sirve el historial. El motor de stock no guarda historia
// propia; si el ledger falla, la mutación ya está confirmada y solo se pierde
// el asiento (se registra el fallo).
type UseCase struct {
	repo repository.MovementRepository
	log  *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.MovementRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, log: log}
}

// RecordContext metadatos del origen de la mutación (pedido, manual, import).
type RecordContext struct {
	Type      string
	Source    string
	OrderID   string
	OrderName string
}

// Record registra el asiento derivado de una mutación. Best-effort: nunca
// propaga el error al flujo de la mutación.
func (uc *UseCase) Record(tenant string, res *stock.MutationResult, rc RecordContext) {
	if res == nil {
		return
	}
	m := &entity.Movement{
		ID:          uuid.New().String(),
		TS:          time.Now().UTC(),
		Type:        rc.Type,
		Source:      rc.Source,
		OrderID:     rc.OrderID,
		OrderName:   rc.OrderName,
		ProductID:   res.ProductID,
		ProductName: res.Name,
		DeltaGrams:  res.DeltaGrams,
		GramsBefore: res.TotalAfter.Sub(res.DeltaGrams),
		GramsAfter:  res.TotalAfter,
	}
	if err := uc.repo.Append(domstock.NormalizeTenant(tenant), m); err != nil {
		uc.log.Error().Err(err).Str("tenant", tenant).Str("productId", res.ProductID).
			Msg("fallo al registrar movimiento")
	}
}

// List devuelve los movimientos más recientes primero, acotando days y limit.
func (uc *UseCase) List(tenant string, days, limit int) ([]entity.Movement, error) {
	return uc.repo.List(domstock.NormalizeTenant(tenant), clamp(days, DefaultDays, MaxDays), clamp(limit, DefaultLimit, MaxLimit))
}

// PurgeOld borra los ficheros de días anteriores a keepDays.
func (uc *UseCase) PurgeOld(tenant string, keepDays int) error {
	return uc.repo.PurgeOld(domstock.NormalizeTenant(tenant), clamp(keepDays, 14, 3650))
}

// ExportCSV exporta los movimientos al formato de informe plano.
func (uc *UseCase) ExportCSV(tenant string, days, limit int) ([]byte, error) {
	rows, err := uc.List(tenant, days, limit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"ts", "type", "source", "orderId", "orderName", "productId", "productName", "deltaGrams", "gramsBefore", "gramsAfter"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, m := range rows {
		rec := []string{
			m.TS.UTC().Format(time.RFC3339),
			m.Type,
			m.Source,
			m.OrderID,
			m.OrderName,
			m.ProductID,
			m.ProductName,
			formatGrams(m.DeltaGrams),
			formatGrams(m.GramsBefore),
			formatGrams(m.GramsAfter),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatGrams(d decimal.Decimal) string { return d.String() }

func clamp(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
