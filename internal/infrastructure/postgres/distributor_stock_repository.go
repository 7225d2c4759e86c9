package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.DistributorStockRepository = (*DistributorStockRepo)(nil)

// DistributorStockRepo stock en manos de distribuidores (una fila por distribuidor y producto).
type DistributorStockRepo struct {
	q Querier
}

// NewDistributorStockRepository construye el adaptador. Pasar pool o tx.
func NewDistributorStockRepository(q Querier) *DistributorStockRepo {
	return &DistributorStockRepo{q: q}
}

// GetForUpdate bloquea la fila (distribuidor, producto). Devuelve nil si no existe.
func (r *DistributorStockRepo) GetForUpdate(ctx context.Context, companyID, distributorID, productID string) (*entity.DistributorStock, error) {
	var s entity.DistributorStock
	err := r.q.QueryRow(ctx, `
		SELECT company_id, distributor_id, product_id, quantity, updated_at
		  FROM distributor_stock
		 WHERE company_id = $1 AND distributor_id = $2 AND product_id = $3
		 FOR UPDATE`,
		companyID, distributorID, productID,
	).Scan(&s.CompanyID, &s.DistributorID, &s.ProductID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get distributor stock: %w", err)
	}
	return &s, nil
}

// Adjust suma delta creando la fila si no existe. Un resultado negativo devuelve ErrInsufficientStock
// sin modificar nada.
func (r *DistributorStockRepo) Adjust(ctx context.Context, companyID, distributorID, productID string, delta int) (int, error) {
	if delta < 0 {
		var qty int
		err := r.q.QueryRow(ctx, `
			UPDATE distributor_stock SET quantity = quantity + $4, updated_at = now()
			 WHERE company_id = $1 AND distributor_id = $2 AND product_id = $3 AND quantity + $4 >= 0
			RETURNING quantity`,
			companyID, distributorID, productID, delta,
		).Scan(&qty)
		if err == nil {
			return qty, nil
		}
		if !isNoRows(err) {
			return 0, fmt.Errorf("adjust distributor stock: %w", err)
		}
		cur, err := r.GetForUpdate(ctx, companyID, distributorID, productID)
		if err != nil {
			return 0, err
		}
		if cur == nil {
			return 0, domain.ErrInsufficientStock
		}
		return cur.Quantity, domain.ErrInsufficientStock
	}

	var qty int
	err := r.q.QueryRow(ctx, `
		INSERT INTO distributor_stock (company_id, distributor_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (company_id, distributor_id, product_id)
		DO UPDATE SET quantity = distributor_stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`,
		companyID, distributorID, productID, delta,
	).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("adjust distributor stock: %w", err)
	}
	return qty, nil
}

// List devuelve el stock de un distribuidor; distributorID vacío lista toda la empresa.
func (r *DistributorStockRepo) List(ctx context.Context, companyID, distributorID string) ([]*entity.DistributorStock, error) {
	var w where
	w.add("company_id = ?", companyID)
	if distributorID != "" {
		w.add("distributor_id = ?", distributorID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT company_id, distributor_id, product_id, quantity, updated_at
		  FROM distributor_stock`+w.String()+` ORDER BY distributor_id, product_id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list distributor stock: %w", err)
	}
	defer rows.Close()
	list := []*entity.DistributorStock{}
	for rows.Next() {
		var s entity.DistributorStock
		if err := rows.Scan(&s.CompanyID, &s.DistributorID, &s.ProductID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan distributor stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// TotalUnits suma las unidades en manos del distribuidor.
func (r *DistributorStockRepo) TotalUnits(ctx context.Context, companyID, distributorID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::int FROM distributor_stock WHERE company_id = $1 AND distributor_id = $2`,
		companyID, distributorID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total distributor units: %w", err)
	}
	return total, nil
}
