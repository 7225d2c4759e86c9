package dto

import "time"

// AssignStockRequest central -> distribuidor.
type AssignStockRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	DistributorID string `json:"distributor_id" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	Reference     string `json:"reference" validate:"max=200"`
}

// WithdrawStockRequest distribuidor -> central.
type WithdrawStockRequest = AssignStockRequest

// TransferStockRequest distribuidor -> distribuidor.
type TransferStockRequest struct {
	ProductID         string `json:"product_id" validate:"required,uuid"`
	FromDistributorID string `json:"from_distributor_id" validate:"required,uuid"`
	ToDistributorID   string `json:"to_distributor_id" validate:"required,uuid,nefield=FromDistributorID"`
	Quantity          int    `json:"quantity" validate:"required,min=1"`
	Reference         string `json:"reference" validate:"max=200"`
}

// StockOperationResponse resultado de un movimiento: cantidades tras la operación.
type StockOperationResponse struct {
	TransactionID  string `json:"transaction_id"`
	ProductID      string `json:"product_id"`
	CentralStock   int    `json:"central_stock"`
	FromQuantity   *int   `json:"from_quantity,omitempty"`
	ToQuantity     *int   `json:"to_quantity,omitempty"`
	MovementType   string `json:"movement_type"`
	MovementAmount int    `json:"quantity"`
}

// DistributorStockResponse línea de stock de un distribuidor.
type DistributorStockResponse struct {
	DistributorID string    `json:"distributor_id"`
	ProductID     string    `json:"product_id"`
	SKU           string    `json:"sku,omitempty"`
	ProductName   string    `json:"product_name,omitempty"`
	Quantity      int       `json:"quantity"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockListRequest filtros de GET /api/stock.
type StockListRequest struct {
	DistributorID string `query:"distributor_id" validate:"omitempty,uuid"`
}

// MovementListRequest filtros de GET /api/stock/movements.
type MovementListRequest struct {
	PageRequest
	DateRangeQuery
	ProductID     string `query:"product_id" validate:"omitempty,uuid"`
	DistributorID string `query:"distributor_id" validate:"omitempty,uuid"`
	Type          string `query:"type" validate:"omitempty,oneof=RESTOCK ASSIGN WITHDRAW TRANSFER SALE SALE_CANCEL"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID                string    `json:"id"`
	TransactionID     string    `json:"transaction_id"`
	ProductID         string    `json:"product_id"`
	FromDistributorID string    `json:"from_distributor_id,omitempty"`
	ToDistributorID   string    `json:"to_distributor_id,omitempty"`
	Type              string    `json:"type"`
	Quantity          int       `json:"quantity"`
	Reference         string    `json:"reference,omitempty"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
