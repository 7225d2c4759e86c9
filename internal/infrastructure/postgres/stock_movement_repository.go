package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial inmutable de movimientos de stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento. El stock central se representa con origen/destino NULL.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, company_id, transaction_id, product_id, from_distributor_id,
		            to_distributor_id, type, quantity, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.CompanyID, m.TransactionID, m.ProductID, nullable(m.FromDistributorID),
		nullable(m.ToDistributorID), m.Type, m.Quantity, m.Reference, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List devuelve movimientos más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var w where
	w.add("company_id = ?", f.CompanyID)
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.DistributorID != "" {
		w.add("(from_distributor_id = ? OR to_distributor_id = ?)", f.DistributorID, f.DistributorID)
	}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	w.addRange("created_at", f.From, f.To)
	query := `
		SELECT id, company_id, transaction_id, product_id, from_distributor_id, to_distributor_id,
		       type, quantity, reference, created_by, created_at
		  FROM stock_movements` + w.String() + ` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockMovement{}
	for rows.Next() {
		var m entity.StockMovement
		var from, to *string
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.TransactionID, &m.ProductID, &from, &to,
			&m.Type, &m.Quantity, &m.Reference, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.FromDistributorID, m.ToDistributorID = deref(from), deref(to)
		list = append(list, &m)
	}
	return list, rows.Err()
}
