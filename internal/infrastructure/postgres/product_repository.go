package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, category_id, sku, name, description, purchase_price, distributor_price,
	client_price, stock, low_stock_threshold, status, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var category *string
	err := row.Scan(&p.ID, &p.CompanyID, &category, &p.SKU, &p.Name, &p.Description,
		&p.PurchasePrice, &p.DistributorPrice, &p.ClientPrice, &p.Stock, &p.LowStockThreshold,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CategoryID = deref(category)
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto con su stock central inicial.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, nullable(p.CategoryID), p.SKU, p.Name, p.Description,
		p.PurchasePrice, p.DistributorPrice, p.ClientPrice, p.Stock, p.LowStockThreshold,
		p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto de la empresa por ID.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

// GetBySKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 AND sku = $2`, companyID, sku)
}

// Update actualiza un producto existente. No permite modificar costo ni stock (se manejan vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET category_id = $3, sku = $4, name = $5, description = $6, distributor_price = $7,
		       client_price = $8, low_stock_threshold = $9, status = $10, updated_at = $11
		 WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.CompanyID, p.ID, nullable(p.CategoryID), p.SKU, p.Name, p.Description, p.DistributorPrice,
		p.ClientPrice, p.LowStockThreshold, p.Status, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo de compra (promedio ponderado tras una reposición).
func (r *ProductRepo) UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET purchase_price = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, cost,
	)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock suma delta al stock central. Si el resultado quedaría negativo devuelve ErrInsufficientStock.
func (r *ProductRepo) AdjustStock(ctx context.Context, companyID, id string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx, `
		UPDATE products SET stock = stock + $3, updated_at = now()
		 WHERE company_id = $1 AND id = $2 AND stock + $3 >= 0
		RETURNING stock`,
		companyID, id, delta,
	).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("adjust product stock: %w", err)
	}
	p, err := r.GetByID(ctx, companyID, id)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, domain.ErrNotFound
	}
	return p.Stock, domain.ErrInsufficientStock
}

// List lista productos con filtros; Search busca en nombre y SKU sin distinguir mayúsculas.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w where
	w.add("company_id = ?", f.CompanyID)
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.add("(name ILIKE '%' || ? || '%' OR sku ILIKE '%' || ? || '%')", f.Search, f.Search)
	}
	query := `SELECT ` + productColumns + ` FROM products` + w.String() + ` ORDER BY created_at DESC, sku` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return scanProducts(rows)
}

// ListLowStock productos activos con stock central en o bajo su umbral.
func (r *ProductRepo) ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error) {
	var w where
	w.add("company_id = ?", companyID)
	w.add("status = ?", entity.StatusActive)
	w.add("stock <= low_stock_threshold")
	query := `SELECT ` + productColumns + ` FROM products` + w.String() + ` ORDER BY stock, sku` + w.page(limit, 0)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return scanProducts(rows)
}
