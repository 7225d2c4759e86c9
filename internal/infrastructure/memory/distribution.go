package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var (
	_ repository.DistributorStockRepository = (*StockRepo)(nil)
	_ repository.StockMovementRepository    = (*MovementRepo)(nil)
)

// StockRepo stock por distribuidor en memoria.
type StockRepo struct{ base }

func (r *StockRepo) GetForUpdate(_ context.Context, companyID, distributorID, productID string) (*entity.DistributorStock, error) {
	st, done := r.read()
	defer done()
	s, ok := st.stock[key(companyID, distributorID, productID)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *StockRepo) Adjust(_ context.Context, companyID, distributorID, productID string, delta int) (int, error) {
	st, done := r.write()
	defer done()
	k := key(companyID, distributorID, productID)
	s, ok := st.stock[k]
	if !ok {
		s = entity.DistributorStock{CompanyID: companyID, DistributorID: distributorID, ProductID: productID}
	}
	if s.Quantity+delta < 0 {
		return s.Quantity, domain.ErrInsufficientStock
	}
	s.Quantity += delta
	s.UpdatedAt = time.Now().UTC()
	st.stock[k] = s
	return s.Quantity, nil
}

func (r *StockRepo) List(_ context.Context, companyID, distributorID string) ([]*entity.DistributorStock, error) {
	st, done := r.read()
	defer done()
	var list []entity.DistributorStock
	for _, s := range st.stock {
		if s.CompanyID != companyID || (distributorID != "" && s.DistributorID != distributorID) {
			continue
		}
		list = append(list, s)
	}
	slices.SortFunc(list, func(a, b entity.DistributorStock) int {
		if c := strings.Compare(a.DistributorID, b.DistributorID); c != 0 {
			return c
		}
		return strings.Compare(a.ProductID, b.ProductID)
	})
	return ptrs(list), nil
}

func (r *StockRepo) TotalUnits(_ context.Context, companyID, distributorID string) (int, error) {
	st, done := r.read()
	defer done()
	total := 0
	for _, s := range st.stock {
		if s.CompanyID == companyID && s.DistributorID == distributorID {
			total += s.Quantity
		}
	}
	return total, nil
}

// MovementRepo historial de movimientos en memoria (solo inserción).
type MovementRepo struct{ base }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	st, done := r.write()
	defer done()
	st.movements = append(st.movements, *m)
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	st, done := r.read()
	defer done()
	var list []entity.StockMovement
	for _, m := range st.movements {
		if m.CompanyID != f.CompanyID {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.DistributorID != "" && m.FromDistributorID != f.DistributorID && m.ToDistributorID != f.DistributorID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if !inRange(m.CreatedAt, f.From, f.To) {
			continue
		}
		list = append(list, m)
	}
	// más recientes primero; el orden de inserción desempata
	slices.Reverse(list)
	slices.SortStableFunc(list, func(a, b entity.StockMovement) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return ptrs(page(list, f.Limit, f.Offset)), nil
}

// inRange evalúa [from, to) con límites opcionales.
func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}
