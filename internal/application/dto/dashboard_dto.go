package dto

import "github.com/shopspring/decimal"

// SalesFiguresDTO KPIs de un rango (hoy o mes en curso).
type SalesFiguresDTO struct {
	Revenue           decimal.Decimal `json:"revenue"`
	Cost              decimal.Decimal `json:"cost"`
	AdminProfit       decimal.Decimal `json:"admin_profit"`
	DistributorProfit decimal.Decimal `json:"distributor_profit"`
	ConfirmedSales    int             `json:"confirmed_sales"`
	PendingSales      int             `json:"pending_sales"`
}

// LowStockDTO producto en o por debajo de su umbral de stock.
type LowStockDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// AdminDashboardDTO respuesta de GET /api/dashboard/admin.
type AdminDashboardDTO struct {
	Today       SalesFiguresDTO     `json:"today"`
	Month       SalesFiguresDTO     `json:"month"`
	TopProducts []ProductRankingDTO `json:"top_products"`
	Leaderboard *LeaderboardDTO     `json:"leaderboard,omitempty"` // nil si la gamificación está deshabilitada
	LowStock    []LowStockDTO       `json:"low_stock"`
	Timezone    string              `json:"timezone"`
	DateLabel   string              `json:"date_label"` // ej: "2026-02"
}

// DistributorDashboardDTO respuesta de GET /api/dashboard/distributor.
type DistributorDashboardDTO struct {
	MonthRevenue  decimal.Decimal `json:"month_revenue"`
	MonthProfit   decimal.Decimal `json:"month_profit"`
	Balance       decimal.Decimal `json:"balance"`
	CommissionPct decimal.Decimal `json:"commission_pct"`
	Position      int             `json:"position"` // 0 = sin ventas en el período en curso
	ProjectedPct  decimal.Decimal `json:"projected_pct"`
	UnitsInStock  int             `json:"units_in_stock"`
	PendingSales  int             `json:"pending_sales"`
	Timezone      string          `json:"timezone"`
	DateLabel     string          `json:"date_label"`
}
