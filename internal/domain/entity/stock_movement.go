package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementRestock    = "RESTOCK"     // entrada al stock central
	MovementAssign     = "ASSIGN"      // central -> distribuidor
	MovementWithdraw   = "WITHDRAW"    // distribuidor -> central
	MovementTransfer   = "TRANSFER"    // distribuidor -> distribuidor
	MovementSale       = "SALE"        // salida por venta
	MovementSaleCancel = "SALE_CANCEL" // devolución por anulación de venta
)

// StockMovement registro inmutable de un movimiento de stock.
// FromDistributorID / ToDistributorID vacíos representan el stock central.
type StockMovement struct {
	ID                string
	CompanyID         string
	TransactionID     string
	ProductID         string
	FromDistributorID string
	ToDistributorID   string
	Type              string
	Quantity          int
	Reference         string // ej. ID de la venta
	CreatedBy         string
	CreatedAt         time.Time
}
