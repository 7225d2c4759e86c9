package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusPending   = "pending"
	SaleStatusConfirmed = "confirmed"
	SaleStatusCancelled = "cancelled"
)

// Sale registro de un evento de venta. Los precios se congelan al momento del registro;
// AdminProfit y DistributorProfit se calculan al confirmar y se recalculan cuando cambia CommissionPct.
type Sale struct {
	ID                string
	CompanyID         string
	ProductID         string
	DistributorID     string // vacío = venta directa del administrador
	RecordedBy        string
	Quantity          int
	UnitPrice         decimal.Decimal
	PurchasePrice     decimal.Decimal
	DistributorPrice  decimal.Decimal
	Total             decimal.Decimal // Quantity * UnitPrice
	CommissionPct     decimal.Decimal
	AdminProfit       decimal.Decimal
	DistributorProfit decimal.Decimal
	Status            string
	ClientName        string
	Notes             string
	SaleDate          time.Time
	ConfirmedAt       *time.Time
	ConfirmedBy       string
	CancelledAt       *time.Time
	CancelReason      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsDirect informa si la venta la hizo el administrador sin distribuidor.
func (s *Sale) IsDirect() bool {
	return s.DistributorID == ""
}
