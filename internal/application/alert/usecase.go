package alert

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/application/stock"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// Notifier es el puerto de despacho de alertas (Slack u otro canal).
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// UseCase detecta cruces del umbral de stock bajo tras cada mutación. Solo
// avisa al cruzar hacia abajo (antes > umbral, después <= umbral): una alerta
// por bajada, no una por mutación.
type UseCase struct {
	threshold decimal.Decimal // <= 0 desactiva
	notifier  Notifier        // nil desactiva
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(thresholdGrams decimal.Decimal, notifier Notifier, log *logger.Logger) *UseCase {
	return &UseCase{threshold: thresholdGrams, notifier: notifier, log: log}
}

// Check evalúa la mutación y despacha la alerta si procede. Best-effort: un
// fallo del canal se registra y no afecta al flujo de la mutación.
func (uc *UseCase) Check(ctx context.Context, tenant string, res *stock.MutationResult) {
	if uc.notifier == nil || res == nil || !uc.threshold.IsPositive() {
		return
	}
	before := res.TotalAfter.Sub(res.DeltaGrams)
	crossed := before.GreaterThan(uc.threshold) && res.TotalAfter.LessThanOrEqual(uc.threshold)
	if !crossed {
		return
	}
	text := fmt.Sprintf("⚠️ Stock bajo en %s: %s (%s) quedan %sg (umbral %sg)",
		tenant, res.Name, res.ProductID, res.TotalAfter.String(), uc.threshold.String())
	if err := uc.notifier.Notify(ctx, text); err != nil {
		uc.log.Error().Err(err).Str("tenant", tenant).Str("productId", res.ProductID).
			Msg("fallo al despachar alerta de stock bajo")
		return
	}
	uc.log.Info().Str("tenant", tenant).Str("productId", res.ProductID).
		Str("totalAfter", res.TotalAfter.String()).Msg("alerta de stock bajo enviada")
}
