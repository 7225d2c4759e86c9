package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest entrada para registrar una venta.
// Un distribuidor siempre vende de su propio stock (DistributorID se ignora);
// un administrador puede vender del stock central (DistributorID vacío) o a nombre de un distribuidor.
type RecordSaleRequest struct {
	ProductID     string           `json:"product_id" validate:"required,uuid"`
	DistributorID string           `json:"distributor_id" validate:"omitempty,uuid"`
	Quantity      int              `json:"quantity" validate:"required,min=1"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	ClientName    string           `json:"client_name" validate:"max=200"`
	Notes         string           `json:"notes" validate:"max=1000"`
	SaleDate      *time.Time       `json:"sale_date"`
}

// CancelSaleRequest motivo de anulación.
type CancelSaleRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// RecalculateSalesRequest rango de ventas confirmadas a recalcular.
type RecalculateSalesRequest struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required,gtfield=From"`
}

// RecalculateSalesResponse resumen del recálculo.
type RecalculateSalesResponse struct {
	Examined int `json:"examined"`
	Adjusted int `json:"adjusted"`
}

// SaleListRequest filtros de GET /api/sales.
type SaleListRequest struct {
	PageRequest
	DateRangeQuery
	Status        string `query:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	DistributorID string `query:"distributor_id" validate:"omitempty,uuid"`
	ProductID     string `query:"product_id" validate:"omitempty,uuid"`
}

// SaleResponse salida de una venta. Los campos de utilidad del administrador se omiten para distribuidores.
type SaleResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	DistributorID     string           `json:"distributor_id,omitempty"`
	RecordedBy        string           `json:"recorded_by"`
	Quantity          int              `json:"quantity"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	DistributorPrice  decimal.Decimal  `json:"distributor_price"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price,omitempty"`
	Total             decimal.Decimal  `json:"total"`
	CommissionPct     decimal.Decimal  `json:"commission_pct"`
	AdminProfit       *decimal.Decimal `json:"admin_profit,omitempty"`
	DistributorProfit decimal.Decimal  `json:"distributor_profit"`
	Status            string           `json:"status"`
	ClientName        string           `json:"client_name,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	SaleDate          time.Time        `json:"sale_date"`
	ConfirmedAt       *time.Time       `json:"confirmed_at,omitempty"`
	ConfirmedBy       string           `json:"confirmed_by,omitempty"`
	CancelledAt       *time.Time       `json:"cancelled_at,omitempty"`
	CancelReason      string           `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
