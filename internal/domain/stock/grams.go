package stock

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	gramsPattern    = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)\s*(?:grammes?|gr|g)?`)
	fractionPattern = regexp.MustCompile(`^([0-9]+)\s*/\s*([0-9]+)$`)
)

// ClampNonNegative devuelve cero si la cantidad es negativa.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FromFloat convierte un float a decimal tratando NaN/Inf como cero. Este
// motor no rechaza entradas malformadas: las corrige (la validación estricta
// pertenece al borde HTTP).
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ParseGramsFromVariantTitle extrae los gramos por unidad del título de una
// variante. Soporta "1.5", "1,5", "3g", "10 grammes", "25 gr" y fracciones
// tipo "1/2". Devuelve false si no hay una cantidad positiva reconocible.
func ParseGramsFromVariantTitle(title string) (decimal.Decimal, bool) {
	s := strings.ToLower(strings.TrimSpace(title))
	if s == "" {
		return decimal.Zero, false
	}

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		num, err1 := decimal.NewFromString(m[1])
		den, err2 := decimal.NewFromString(m[2])
		if err1 == nil && err2 == nil && den.IsPositive() {
			g := num.Div(den)
			if g.IsPositive() {
				return g, true
			}
		}
		return decimal.Zero, false
	}

	m := gramsPattern.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}
	g, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "."))
	if err != nil || !g.IsPositive() {
		return decimal.Zero, false
	}
	return g, true
}
