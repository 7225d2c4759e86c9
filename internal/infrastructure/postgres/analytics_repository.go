package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para dashboards y reportes de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesSummary agrega las ventas con sale_date en [from, to).
// Los montos consideran solo confirmadas; las pendientes solo se cuentan.
func (r *AnalyticsRepo) GetSalesSummary(ctx context.Context, companyID, distributorID string, from, to time.Time) (repository.SalesSummary, error) {
	const query = `
	SELECT
	    COALESCE(SUM(total)                     FILTER (WHERE status = $5), 0) AS revenue,
	    COALESCE(SUM(quantity * purchase_price) FILTER (WHERE status = $5), 0) AS cost,
	    COALESCE(SUM(admin_profit)              FILTER (WHERE status = $5), 0) AS admin_profit,
	    COALESCE(SUM(distributor_profit)        FILTER (WHERE status = $5), 0) AS distributor_profit,
	    COUNT(*) FILTER (WHERE status = $5)::int                               AS confirmed_count,
	    COUNT(*) FILTER (WHERE status = $6)::int                               AS pending_count
	FROM sales
	WHERE company_id = $1
	  AND ($2 = '' OR distributor_id::text = $2)
	  AND sale_date >= $3 AND sale_date < $4`

	var s repository.SalesSummary
	err := r.q.QueryRow(ctx, query, companyID, distributorID, from, to,
		entity.SaleStatusConfirmed, entity.SaleStatusPending,
	).Scan(&s.Revenue, &s.Cost, &s.AdminProfit, &s.DistributorProfit, &s.ConfirmedCount, &s.PendingCount)
	if err != nil {
		return repository.SalesSummary{}, fmt.Errorf("analytics.GetSalesSummary: %w", err)
	}
	return s, nil
}

// GetProductPerformance agrupa ventas confirmadas por producto.
// Utilidad bruta = SUM(total) - SUM(quantity × purchase_price congelado en la venta).
func (r *AnalyticsRepo) GetProductPerformance(ctx context.Context, companyID string, from, to time.Time, limit int) ([]repository.ProductPerformance, error) {
	query := `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    SUM(s.quantity)::int                                  AS units,
	    SUM(s.total)                                          AS revenue,
	    SUM(s.quantity * s.purchase_price)                    AS cost,
	    SUM(s.total) - SUM(s.quantity * s.purchase_price)     AS gross_profit
	FROM sales s
	JOIN products p ON p.id = s.product_id
	WHERE s.company_id = $1
	  AND s.status = $2
	  AND s.sale_date >= $3 AND s.sale_date < $4
	GROUP BY p.id, p.sku, p.name
	ORDER BY gross_profit DESC, p.sku`
	args := []any{companyID, entity.SaleStatusConfirmed, from, to}
	if limit > 0 {
		query += ` LIMIT $5`
		args = append(args, limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetProductPerformance: %w", err)
	}
	defer rows.Close()

	results := []repository.ProductPerformance{}
	for rows.Next() {
		var row repository.ProductPerformance
		if err := rows.Scan(
			&row.ProductID,
			&row.SKU,
			&row.ProductName,
			&row.Units,
			&row.Revenue,
			&row.Cost,
			&row.GrossProfit,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetProductPerformance scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSalePoints ventas confirmadas del rango en orden cronológico; el agrupado por día/semana/mes
// lo hace el caso de uso en la zona horaria del negocio.
func (r *AnalyticsRepo) GetSalePoints(ctx context.Context, companyID string, from, to time.Time) ([]repository.SalePoint, error) {
	const query = `
	SELECT sale_date, total, quantity * purchase_price, admin_profit, distributor_profit
	FROM sales
	WHERE company_id = $1
	  AND status = $2
	  AND sale_date >= $3 AND sale_date < $4
	ORDER BY sale_date, id`

	rows, err := r.q.Query(ctx, query, companyID, entity.SaleStatusConfirmed, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSalePoints: %w", err)
	}
	defer rows.Close()

	var points []repository.SalePoint
	for rows.Next() {
		var p repository.SalePoint
		if err := rows.Scan(&p.SaleDate, &p.Total, &p.Cost, &p.AdminProfit, &p.DistributorProfit); err != nil {
			return nil, fmt.Errorf("analytics.GetSalePoints scan: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
