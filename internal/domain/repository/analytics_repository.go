package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary agregado de ventas en un rango. Lo produce la DB; el use case lo convierte en DTO.
type SalesSummary struct {
	Revenue           decimal.Decimal // SUM(total) de confirmadas
	Cost              decimal.Decimal // SUM(quantity * purchase_price) de confirmadas
	AdminProfit       decimal.Decimal
	DistributorProfit decimal.Decimal
	ConfirmedCount    int
	PendingCount      int
}

// ProductPerformance resultado crudo de ventas confirmadas por producto.
type ProductPerformance struct {
	ProductID   string
	SKU         string
	ProductName string
	Units       int
	Revenue     decimal.Decimal
	Cost        decimal.Decimal
	GrossProfit decimal.Decimal // Revenue - Cost
}

// SalePoint venta confirmada reducida a lo que necesitan las series temporales.
type SalePoint struct {
	SaleDate          time.Time
	Total             decimal.Decimal
	Cost              decimal.Decimal
	AdminProfit       decimal.Decimal
	DistributorProfit decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura para dashboards y reportes.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetSalesSummary agrega ventas con SaleDate en [from, to). distributorID vacío = toda la empresa.
	GetSalesSummary(ctx context.Context, companyID, distributorID string, from, to time.Time) (SalesSummary, error)

	// GetProductPerformance devuelve productos ordenados por utilidad bruta descendente.
	// limit <= 0 devuelve todos.
	GetProductPerformance(ctx context.Context, companyID string, from, to time.Time, limit int) ([]ProductPerformance, error)

	// GetSalePoints devuelve las ventas confirmadas del rango en orden cronológico.
	GetSalePoints(ctx context.Context, companyID string, from, to time.Time) ([]SalePoint, error)
}
