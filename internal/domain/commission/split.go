// Package commission calcula el reparto de utilidad de una venta entre administrador y distribuidor.
package commission

import (
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Input datos congelados de la venta más el porcentaje de comisión a aplicar.
type Input struct {
	Quantity         int
	UnitPrice        decimal.Decimal
	PurchasePrice    decimal.Decimal
	DistributorPrice decimal.Decimal
	CommissionPct    decimal.Decimal
	Direct           bool // venta sin distribuidor
}

// Result reparto calculado. AdminProfit + DistributorProfit = Total - Quantity*PurchasePrice.
type Result struct {
	Total             decimal.Decimal
	CommissionPct     decimal.Decimal
	AdminProfit       decimal.Decimal
	DistributorProfit decimal.Decimal
}

// GrossProfit utilidad bruta de la venta (ingreso - costo de compra).
func (r Result) GrossProfit() decimal.Decimal {
	return r.AdminProfit.Add(r.DistributorProfit)
}

// ValidatePct verifica que el porcentaje esté en [0, 100].
func ValidatePct(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return domain.ErrPercentageOutOfRange
	}
	return nil
}

// Split reparte la utilidad de una venta.
//
// Venta directa: toda la utilidad es del administrador.
// Venta de distribuidor:
//
//	adminBase       = qty * (DistributorPrice - PurchasePrice)
//	distributorBase = qty * (UnitPrice - DistributorPrice)
//	bonus           = round2(adminBase * pct / 100)
//	Distributor     = distributorBase + bonus
//	Admin           = adminBase - bonus
func Split(in Input) (Result, error) {
	if in.Quantity <= 0 || in.UnitPrice.IsNegative() || in.PurchasePrice.IsNegative() || in.DistributorPrice.IsNegative() {
		return Result{}, domain.ErrInvalidInput
	}
	qty := decimal.NewFromInt(int64(in.Quantity))
	total := qty.Mul(in.UnitPrice)

	if in.Direct {
		return Result{
			Total:             total,
			CommissionPct:     decimal.Zero,
			AdminProfit:       total.Sub(qty.Mul(in.PurchasePrice)),
			DistributorProfit: decimal.Zero,
		}, nil
	}

	if err := ValidatePct(in.CommissionPct); err != nil {
		return Result{}, err
	}
	adminBase := qty.Mul(in.DistributorPrice.Sub(in.PurchasePrice))
	distributorBase := qty.Mul(in.UnitPrice.Sub(in.DistributorPrice))
	bonus := adminBase.Mul(in.CommissionPct).Div(hundred).Round(2)

	return Result{
		Total:             total,
		CommissionPct:     in.CommissionPct,
		AdminProfit:       adminBase.Sub(bonus),
		DistributorProfit: distributorBase.Add(bonus),
	}, nil
}
