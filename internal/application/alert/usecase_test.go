package alert_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudstore-cbd/stock-api/internal/application/alert"
	"github.com/cloudstore-cbd/stock-api/internal/application/stock"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

type capturingNotifier struct {
	messages []string
}

func (c *capturingNotifier) Notify(_ context.Context, text string) error {
	c.messages = append(c.messages, text)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func result(before, after string) *stock.MutationResult {
	b, a := dec(before), dec(after)
	return &stock.MutationResult{
		ProductID:  "p1",
		Name:       "Amnesia US",
		DeltaGrams: a.Sub(b),
		TotalAfter: a,
	}
}

func TestAlert_DisparaSoloAlCruzarHaciaAbajo(t *testing.T) {
	n := &capturingNotifier{}
	uc := alert.NewUseCase(dec("10"), n, logger.Nop())
	ctx := context.Background()

	// Por encima del umbral: nada.
	uc.Check(ctx, "tienda", result("50", "30"))
	assert.Empty(t, n.messages)

	// Cruce hacia abajo: una alerta.
	uc.Check(ctx, "tienda", result("30", "8"))
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "Amnesia US")
	assert.Contains(t, n.messages[0], "8")

	// Ya por debajo: sin alertas repetidas.
	uc.Check(ctx, "tienda", result("8", "5"))
	assert.Len(t, n.messages, 1)

	// Recuperación y nueva bajada: vuelve a alertar.
	uc.Check(ctx, "tienda", result("5", "40"))
	uc.Check(ctx, "tienda", result("40", "10"))
	assert.Len(t, n.messages, 2, "llegar exactamente al umbral también cuenta como cruce")
}

func TestAlert_DesactivadaSinUmbralONotifier(t *testing.T) {
	n := &capturingNotifier{}
	ctx := context.Background()

	alert.NewUseCase(decimal.Zero, n, logger.Nop()).Check(ctx, "tienda", result("50", "1"))
	assert.Empty(t, n.messages, "umbral cero desactiva las alertas")

	// notifier nil: no debe entrar en pánico.
	alert.NewUseCase(dec("10"), nil, logger.Nop()).Check(ctx, "tienda", result("50", "1"))
}

func TestAlert_ResultadoNilEsNoOp(t *testing.T) {
	n := &capturingNotifier{}
	alert.NewUseCase(dec("10"), n, logger.Nop()).Check(context.Background(), "tienda", nil)
	assert.Empty(t, n.messages)
}
