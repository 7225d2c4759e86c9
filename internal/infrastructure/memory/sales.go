package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct{ base }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	st, done := r.write()
	defer done()
	if _, ok := st.sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	st.sales[s.ID] = *s
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	st, done := r.read()
	defer done()
	return getSale(st, companyID, id), nil
}

func (r *SaleRepo) GetForUpdate(_ context.Context, companyID, id string) (*entity.Sale, error) {
	st, done := r.read()
	defer done()
	return getSale(st, companyID, id), nil
}

func getSale(st *state, companyID, id string) *entity.Sale {
	s, ok := st.sales[id]
	if !ok || s.CompanyID != companyID {
		return nil
	}
	return &s
}

func (r *SaleRepo) Update(_ context.Context, s *entity.Sale) error {
	st, done := r.write()
	defer done()
	prev, ok := st.sales[s.ID]
	if !ok || prev.CompanyID != s.CompanyID {
		return domain.ErrNotFound
	}
	st.sales[s.ID] = *s
	return nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	st, done := r.read()
	defer done()
	var list []entity.Sale
	for _, s := range st.sales {
		if s.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.DistributorID != "" && s.DistributorID != f.DistributorID {
			continue
		}
		if f.ProductID != "" && s.ProductID != f.ProductID {
			continue
		}
		if !inRange(s.SaleDate, f.From, f.To) {
			continue
		}
		list = append(list, s)
	}
	slices.SortFunc(list, func(a, b entity.Sale) int {
		if c := b.SaleDate.Compare(a.SaleDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return ptrs(page(list, f.Limit, f.Offset)), nil
}

func (r *SaleRepo) ListConfirmedForUpdate(_ context.Context, companyID string, from, to time.Time) ([]*entity.Sale, error) {
	st, done := r.read()
	defer done()
	var list []entity.Sale
	for _, s := range st.sales {
		if s.CompanyID == companyID && s.Status == entity.SaleStatusConfirmed && inRange(s.SaleDate, &from, &to) {
			list = append(list, s)
		}
	}
	slices.SortFunc(list, func(a, b entity.Sale) int {
		if c := a.SaleDate.Compare(b.SaleDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return ptrs(list), nil
}

func (r *SaleRepo) RevenueByDistributor(_ context.Context, companyID string, from, to time.Time) ([]repository.DistributorRevenue, error) {
	st, done := r.read()
	defer done()
	agg := map[string]*repository.DistributorRevenue{}
	for _, s := range st.sales {
		if s.CompanyID != companyID || s.IsDirect() || s.Status != entity.SaleStatusConfirmed || !inRange(s.SaleDate, &from, &to) {
			continue
		}
		a, ok := agg[s.DistributorID]
		if !ok {
			a = &repository.DistributorRevenue{DistributorID: s.DistributorID, Revenue: decimal.Zero}
			agg[s.DistributorID] = a
		}
		a.Revenue = a.Revenue.Add(s.Total)
		a.SalesCount++
	}
	out := make([]repository.DistributorRevenue, 0, len(agg))
	for _, a := range agg {
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b repository.DistributorRevenue) int { return strings.Compare(a.DistributorID, b.DistributorID) })
	return out, nil
}

func (r *SaleRepo) CountPending(_ context.Context, companyID, distributorID string) (int, error) {
	st, done := r.read()
	defer done()
	n := 0
	for _, s := range st.sales {
		if s.CompanyID == companyID && s.Status == entity.SaleStatusPending && (distributorID == "" || s.DistributorID == distributorID) {
			n++
		}
	}
	return n, nil
}
