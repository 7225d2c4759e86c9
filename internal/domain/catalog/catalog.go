// Package catalog reglas de negocio de productos y categorías.
package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ValidatePrices exige 0 <= compra <= distribuidor <= cliente.
func ValidatePrices(purchase, distributor, client decimal.Decimal) error {
	if purchase.IsNegative() || distributor.IsNegative() || client.IsNegative() {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrPriceTiers)
	}
	if purchase.GreaterThan(distributor) || distributor.GreaterThan(client) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrPriceTiers)
	}
	return nil
}

// WeightedAverageCost costo promedio ponderado tras una entrada de mercancía, redondeado a 2 decimales.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(stock int, cost decimal.Decimal, qty int, unitCost decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	sum := decimal.NewFromInt(int64(stock + qty))
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(stock)).Mul(cost).Add(decimal.NewFromInt(int64(qty)).Mul(unitCost))
	return num.Div(sum).Round(2)
}

// CategoryCode genera el código de una categoría a partir del nombre:
// sin tildes, en minúsculas y con los caracteres no alfanuméricos colapsados a "-".
func CategoryCode(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
