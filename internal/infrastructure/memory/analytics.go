package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de lectura sobre el estado en memoria.
type AnalyticsRepo struct{ base }

func (r *AnalyticsRepo) GetSalesSummary(_ context.Context, companyID, distributorID string, from, to time.Time) (repository.SalesSummary, error) {
	st, done := r.read()
	defer done()
	sum := repository.SalesSummary{
		Revenue: decimal.Zero, Cost: decimal.Zero, AdminProfit: decimal.Zero, DistributorProfit: decimal.Zero,
	}
	for _, s := range st.sales {
		if s.CompanyID != companyID || (distributorID != "" && s.DistributorID != distributorID) || !inRange(s.SaleDate, &from, &to) {
			continue
		}
		switch s.Status {
		case entity.SaleStatusPending:
			sum.PendingCount++
		case entity.SaleStatusConfirmed:
			sum.ConfirmedCount++
			sum.Revenue = sum.Revenue.Add(s.Total)
			sum.Cost = sum.Cost.Add(s.PurchasePrice.Mul(decimal.NewFromInt(int64(s.Quantity))))
			sum.AdminProfit = sum.AdminProfit.Add(s.AdminProfit)
			sum.DistributorProfit = sum.DistributorProfit.Add(s.DistributorProfit)
		}
	}
	return sum, nil
}

func (r *AnalyticsRepo) GetProductPerformance(_ context.Context, companyID string, from, to time.Time, limit int) ([]repository.ProductPerformance, error) {
	st, done := r.read()
	defer done()
	agg := map[string]*repository.ProductPerformance{}
	for _, s := range st.sales {
		if s.CompanyID != companyID || s.Status != entity.SaleStatusConfirmed || !inRange(s.SaleDate, &from, &to) {
			continue
		}
		pp, ok := agg[s.ProductID]
		if !ok {
			p := st.products[s.ProductID]
			pp = &repository.ProductPerformance{
				ProductID: s.ProductID, SKU: p.SKU, ProductName: p.Name,
				Revenue: decimal.Zero, Cost: decimal.Zero, GrossProfit: decimal.Zero,
			}
			agg[s.ProductID] = pp
		}
		cost := s.PurchasePrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
		pp.Units += s.Quantity
		pp.Revenue = pp.Revenue.Add(s.Total)
		pp.Cost = pp.Cost.Add(cost)
		pp.GrossProfit = pp.Revenue.Sub(pp.Cost)
	}
	out := make([]repository.ProductPerformance, 0, len(agg))
	for _, pp := range agg {
		out = append(out, *pp)
	}
	slices.SortFunc(out, func(a, b repository.ProductPerformance) int {
		if c := b.GrossProfit.Cmp(a.GrossProfit); c != 0 {
			return c
		}
		return strings.Compare(a.SKU, b.SKU)
	})
	return page(out, limit, 0), nil
}

func (r *AnalyticsRepo) GetSalePoints(_ context.Context, companyID string, from, to time.Time) ([]repository.SalePoint, error) {
	st, done := r.read()
	defer done()
	var out []repository.SalePoint
	for _, s := range st.sales {
		if s.CompanyID != companyID || s.Status != entity.SaleStatusConfirmed || !inRange(s.SaleDate, &from, &to) {
			continue
		}
		out = append(out, repository.SalePoint{
			SaleDate:          s.SaleDate,
			Total:             s.Total,
			Cost:              s.PurchasePrice.Mul(decimal.NewFromInt(int64(s.Quantity))),
			AdminProfit:       s.AdminProfit,
			DistributorProfit: s.DistributorProfit,
		})
	}
	slices.SortFunc(out, func(a, b repository.SalePoint) int { return a.SaleDate.Compare(b.SaleDate) })
	return out, nil
}
