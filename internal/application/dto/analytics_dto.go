package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// SalesSeriesRequest parámetros de GET /api/analytics/sales-series.
type SalesSeriesRequest struct {
	DateRangeQuery
	Granularity string `query:"granularity" validate:"omitempty,oneof=day month"`
}

// ProductRankingRequest parámetros de GET /api/analytics/products.
type ProductRankingRequest struct {
	DateRangeQuery
	TopN int `query:"top_n" validate:"min=0,max=200"` // default 20
}

// ── Series ────────────────────────────────────────────────────────────────────

// SeriesPointDTO bucket de la serie (día o mes en la zona horaria de la empresa).
type SeriesPointDTO struct {
	Bucket            string          `json:"bucket"` // 2006-01-02 o 2006-01
	Revenue           decimal.Decimal `json:"revenue"`
	Cost              decimal.Decimal `json:"cost"`
	AdminProfit       decimal.Decimal `json:"admin_profit"`
	DistributorProfit decimal.Decimal `json:"distributor_profit"`
	SalesCount        int             `json:"sales_count"`
}

// SalesSeriesDTO respuesta de la serie temporal.
type SalesSeriesDTO struct {
	Granularity string           `json:"granularity"`
	Timezone    string           `json:"timezone"`
	Period      PeriodDTO        `json:"period"`
	Points      []SeriesPointDTO `json:"points"`
}

// ── Por producto ──────────────────────────────────────────────────────────────

// ProductRankingDTO utilidad y participación por producto.
type ProductRankingDTO struct {
	Rank             int             `json:"rank"` // posición (1 = más rentable)
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	UnitsSold        int             `json:"units_sold"`
	GrossRevenue     decimal.Decimal `json:"gross_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	GrossProfit      decimal.Decimal `json:"gross_profit"`           // GrossRevenue - TotalCost
	MarginPct        decimal.Decimal `json:"margin_pct"`             // GrossProfit / GrossRevenue * 100
	RevenuePct       decimal.Decimal `json:"revenue_pct"`            // participación % en ingresos totales
	CumulativeRevPct decimal.Decimal `json:"cumulative_revenue_pct"` // acumulado descendente
	IsTopPareto      bool            `json:"is_top_pareto"`          // true si forma parte del top 80% de ingresos
}

// ProductRankingReportDTO respuesta de GET /api/analytics/products.
type ProductRankingReportDTO struct {
	Period     PeriodDTO           `json:"period"`
	Products   []ProductRankingDTO `json:"products"`
	ParetoSKUs []string            `json:"pareto_skus"`
}
