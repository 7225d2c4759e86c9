package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas sobre PostgreSQL. Las ventas directas guardan distributor_id NULL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, company_id, product_id, distributor_id, recorded_by, quantity, unit_price, purchase_price,
	distributor_price, total, commission_pct, admin_profit, distributor_profit, status, client_name, notes,
	sale_date, confirmed_at, confirmed_by, cancelled_at, cancel_reason, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var dist *string
	err := row.Scan(&s.ID, &s.CompanyID, &s.ProductID, &dist, &s.RecordedBy, &s.Quantity, &s.UnitPrice,
		&s.PurchasePrice, &s.DistributorPrice, &s.Total, &s.CommissionPct, &s.AdminProfit, &s.DistributorProfit,
		&s.Status, &s.ClientName, &s.Notes, &s.SaleDate, &s.ConfirmedAt, &s.ConfirmedBy, &s.CancelledAt,
		&s.CancelReason, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.DistributorID = deref(dist)
	return &s, nil
}

func scanSales(rows pgx.Rows) ([]*entity.Sale, error) {
	defer rows.Close()
	list := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		s.ID, s.CompanyID, s.ProductID, nullable(s.DistributorID), s.RecordedBy, s.Quantity, s.UnitPrice,
		s.PurchasePrice, s.DistributorPrice, s.Total, s.CommissionPct, s.AdminProfit, s.DistributorProfit,
		s.Status, s.ClientName, s.Notes, s.SaleDate, s.ConfirmedAt, s.ConfirmedBy, s.CancelledAt,
		s.CancelReason, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) get(ctx context.Context, query string, args ...any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

// Update persiste estado, reparto y marcas de confirmación/anulación. Los precios congelados no cambian.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET commission_pct = $3, admin_profit = $4, distributor_profit = $5, status = $6,
		       confirmed_at = $7, confirmed_by = $8, cancelled_at = $9, cancel_reason = $10, updated_at = $11
		 WHERE company_id = $1 AND id = $2`,
		s.CompanyID, s.ID, s.CommissionPct, s.AdminProfit, s.DistributorProfit, s.Status,
		s.ConfirmedAt, s.ConfirmedBy, s.CancelledAt, s.CancelReason, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var w where
	w.add("company_id = ?", f.CompanyID)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.DistributorID != "" {
		w.add("distributor_id = ?", f.DistributorID)
	}
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	w.addRange("sale_date", f.From, f.To)
	query := `SELECT ` + saleColumns + ` FROM sales` + w.String() + ` ORDER BY sale_date DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return scanSales(rows)
}

func (r *SaleRepo) ListConfirmedForUpdate(ctx context.Context, companyID string, from, to time.Time) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales
		 WHERE company_id = $1 AND status = $2 AND sale_date >= $3 AND sale_date < $4
		 ORDER BY sale_date, id
		 FOR UPDATE`,
		companyID, entity.SaleStatusConfirmed, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list confirmed sales: %w", err)
	}
	return scanSales(rows)
}

func (r *SaleRepo) RevenueByDistributor(ctx context.Context, companyID string, from, to time.Time) ([]repository.DistributorRevenue, error) {
	rows, err := r.q.Query(ctx, `
		SELECT distributor_id, SUM(total), COUNT(*)::int
		  FROM sales
		 WHERE company_id = $1 AND status = $2 AND distributor_id IS NOT NULL
		   AND sale_date >= $3 AND sale_date < $4
		 GROUP BY distributor_id
		 ORDER BY distributor_id`,
		companyID, entity.SaleStatusConfirmed, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("revenue by distributor: %w", err)
	}
	defer rows.Close()
	out := []repository.DistributorRevenue{}
	for rows.Next() {
		var d repository.DistributorRevenue
		if err := rows.Scan(&d.DistributorID, &d.Revenue, &d.SalesCount); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SaleRepo) CountPending(ctx context.Context, companyID, distributorID string) (int, error) {
	var w where
	w.add("company_id = ?", companyID)
	w.add("status = ?", entity.SaleStatusPending)
	if distributorID != "" {
		w.add("distributor_id = ?", distributorID)
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)::int FROM sales`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending sales: %w", err)
	}
	return n, nil
}
