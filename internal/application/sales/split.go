// Package sales registra ventas, calcula el reparto de utilidades y mantiene sus asientos en el libro.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/profits"
	"github.com/jhoicas/Distribuidores-api/internal/domain/commission"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Adjustment diferencia de utilidad de una venta tras recalcular su reparto.
type Adjustment struct {
	AdminDelta       decimal.Decimal
	DistributorDelta decimal.Decimal
}

// Split calcula el reparto de la venta con el porcentaje indicado, sin modificarla.
func Split(s *entity.Sale, pct decimal.Decimal) (commission.Result, error) {
	return commission.Split(commission.Input{
		Quantity:         s.Quantity,
		UnitPrice:        s.UnitPrice,
		PurchasePrice:    s.PurchasePrice,
		DistributorPrice: s.DistributorPrice,
		CommissionPct:    pct,
		Direct:           s.IsDirect(),
	})
}

// Reprice aplica un nuevo porcentaje a una venta confirmada. Devuelve false si nada cambia.
func Reprice(s *entity.Sale, pct decimal.Decimal) (Adjustment, bool, error) {
	r, err := Split(s, pct)
	if err != nil {
		return Adjustment{}, false, err
	}
	if s.CommissionPct.Equal(r.CommissionPct) && s.AdminProfit.Equal(r.AdminProfit) && s.DistributorProfit.Equal(r.DistributorProfit) {
		return Adjustment{}, false, nil
	}
	adj := Adjustment{
		AdminDelta:       r.AdminProfit.Sub(s.AdminProfit),
		DistributorDelta: r.DistributorProfit.Sub(s.DistributorProfit),
	}
	s.CommissionPct = r.CommissionPct
	s.AdminProfit = r.AdminProfit
	s.DistributorProfit = r.DistributorProfit
	return adj, true, nil
}

// RecalcResult resumen de un recálculo de ventas.
type RecalcResult struct {
	Examined int
	Adjusted int
	Entries  []*entity.ProfitEntry
}

// RecalculateInTx reaplica el porcentaje vigente de cada distribuidor (leído dentro de la transacción)
// a las ventas confirmadas con SaleDate en [from, to) y asienta los deltas como ADJUSTMENT.
func RecalculateInTx(ctx context.Context, tx repository.Tx, companyID string, from, to time.Time, createdBy, evaluationID string) (RecalcResult, error) {
	var res RecalcResult
	list, err := tx.Sales.ListConfirmedForUpdate(ctx, companyID, from, to)
	if err != nil {
		return res, err
	}
	pcts := map[string]decimal.Decimal{}
	var entries []*entity.ProfitEntry
	now := time.Now().UTC()
	for _, s := range list {
		res.Examined++
		if s.IsDirect() {
			continue
		}
		pct, ok := pcts[s.DistributorID]
		if !ok {
			u, err := tx.Users.GetInCompany(ctx, companyID, s.DistributorID)
			if err != nil {
				return res, err
			}
			if u == nil {
				continue
			}
			pct = u.CommissionPct
			pcts[s.DistributorID] = pct
		}
		adj, changed, err := Reprice(s, pct)
		if err != nil {
			return res, fmt.Errorf("venta %s: %w", s.ID, err)
		}
		if !changed {
			continue
		}
		s.UpdatedAt = now
		if err := tx.Sales.Update(ctx, s); err != nil {
			return res, err
		}
		res.Adjusted++
		desc := fmt.Sprintf("recálculo al %s%%", pct.String())
		for _, e := range profits.SaleEntries(s, entity.EntryAdjustment, adj.AdminDelta, adj.DistributorDelta, createdBy, desc) {
			e.EvaluationID = evaluationID
			entries = append(entries, e)
		}
	}
	written, err := profits.Post(ctx, tx.Ledger, entries)
	if err != nil {
		return res, err
	}
	res.Entries = written
	return res, nil
}
