package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialStock opcional: se registra como movimiento RESTOCK al costo PurchasePrice.
type CreateProductRequest struct {
	SKU               string          `json:"sku" validate:"required,min=1,max=100"`
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Description       string          `json:"description"`
	CategoryID        string          `json:"category_id" validate:"omitempty,uuid"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	DistributorPrice  decimal.Decimal `json:"distributor_price"`
	ClientPrice       decimal.Decimal `json:"client_price"`
	InitialStock      int             `json:"initial_stock" validate:"min=0"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin PurchasePrice ni Stock).
type UpdateProductRequest struct {
	SKU               *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	CategoryID        *string          `json:"category_id" validate:"omitempty,uuid"`
	DistributorPrice  *decimal.Decimal `json:"distributor_price"`
	ClientPrice       *decimal.Decimal `json:"client_price"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Status            *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// RestockRequest entrada de mercancía al stock central.
type RestockRequest struct {
	Quantity int             `json:"quantity" validate:"required,min=1"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Note     string          `json:"note" validate:"max=500"`
}

// ProductListRequest filtros de GET /api/products.
type ProductListRequest struct {
	PageRequest
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	Status     string `query:"status" validate:"omitempty,oneof=active inactive"`
	Search     string `query:"q"`
}

// ProductResponse salida de un producto. PurchasePrice se omite para distribuidores.
type ProductResponse struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"company_id"`
	CategoryID        string           `json:"category_id,omitempty"`
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price,omitempty"`
	DistributorPrice  decimal.Decimal  `json:"distributor_price"`
	ClientPrice       decimal.Decimal  `json:"client_price"`
	Stock             int              `json:"stock"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	Status            string           `json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
