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

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// CategoryRepo categorías en memoria. (empresa, código) es único.
type CategoryRepo struct{ base }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	st, done := r.write()
	defer done()
	for _, other := range st.categories {
		if other.CompanyID == c.CompanyID && other.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, companyID, id string) (*entity.Category, error) {
	st, done := r.read()
	defer done()
	c, ok := st.categories[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) GetByCode(_ context.Context, companyID, code string) (*entity.Category, error) {
	st, done := r.read()
	defer done()
	for _, c := range st.categories {
		if c.CompanyID == companyID && c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	st, done := r.write()
	defer done()
	prev, ok := st.categories[c.ID]
	if !ok || prev.CompanyID != c.CompanyID {
		return domain.ErrNotFound
	}
	for _, other := range st.categories {
		if other.ID != c.ID && other.CompanyID == c.CompanyID && other.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context, companyID string) ([]*entity.Category, error) {
	st, done := r.read()
	defer done()
	var list []entity.Category
	for _, c := range st.categories {
		if c.CompanyID == companyID {
			list = append(list, c)
		}
	}
	slices.SortFunc(list, func(a, b entity.Category) int { return strings.Compare(a.Name, b.Name) })
	return ptrs(list), nil
}

// ProductRepo productos en memoria. (empresa, SKU) es único.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	st, done := r.write()
	defer done()
	for _, other := range st.products {
		if other.CompanyID == p.CompanyID && other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	st, done := r.read()
	defer done()
	return getProduct(st, companyID, id), nil
}

func (r *ProductRepo) GetForUpdate(_ context.Context, companyID, id string) (*entity.Product, error) {
	st, done := r.read()
	defer done()
	return getProduct(st, companyID, id), nil
}

func getProduct(st *state, companyID, id string) *entity.Product {
	p, ok := st.products[id]
	if !ok || p.CompanyID != companyID {
		return nil
	}
	return &p
}

func (r *ProductRepo) GetBySKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	st, done := r.read()
	defer done()
	for _, p := range st.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	st, done := r.write()
	defer done()
	prev, ok := st.products[p.ID]
	if !ok || prev.CompanyID != p.CompanyID {
		return domain.ErrNotFound
	}
	for _, other := range st.products {
		if other.ID != p.ID && other.CompanyID == p.CompanyID && other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	next := *p
	next.Stock = prev.Stock
	next.PurchasePrice = prev.PurchasePrice
	next.CreatedAt = prev.CreatedAt
	st.products[p.ID] = next
	return nil
}

func (r *ProductRepo) UpdateCost(_ context.Context, companyID, id string, cost decimal.Decimal) error {
	st, done := r.write()
	defer done()
	p, ok := st.products[id]
	if !ok || p.CompanyID != companyID {
		return domain.ErrNotFound
	}
	p.PurchasePrice = cost
	p.UpdatedAt = time.Now().UTC()
	st.products[id] = p
	return nil
}

func (r *ProductRepo) AdjustStock(_ context.Context, companyID, id string, delta int) (int, error) {
	st, done := r.write()
	defer done()
	p, ok := st.products[id]
	if !ok || p.CompanyID != companyID {
		return 0, domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return p.Stock, domain.ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()
	st.products[id] = p
	return p.Stock, nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	st, done := r.read()
	defer done()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var list []entity.Product
	for _, p := range st.products {
		if p.CompanyID != f.CompanyID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b entity.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.SKU, b.SKU)
	})
	return ptrs(page(list, f.Limit, f.Offset)), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context, companyID string, limit int) ([]*entity.Product, error) {
	st, done := r.read()
	defer done()
	var list []entity.Product
	for _, p := range st.products {
		if p.CompanyID == companyID && p.Status == entity.StatusActive && p.Stock <= p.LowStockThreshold {
			list = append(list, p)
		}
	}
	slices.SortFunc(list, func(a, b entity.Product) int {
		if a.Stock != b.Stock {
			return a.Stock - b.Stock
		}
		return strings.Compare(a.SKU, b.SKU)
	})
	return ptrs(page(list, limit, 0)), nil
}
