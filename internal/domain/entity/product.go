package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con sus tres niveles de precio.
// Stock es el stock central (del administrador); el stock en manos de distribuidores vive en DistributorStock.
type Product struct {
	ID                string
	CompanyID         string
	CategoryID        string // vacío = sin categoría
	SKU               string // código único por empresa
	Name              string
	Description       string
	PurchasePrice     decimal.Decimal // costo de compra (promedio ponderado tras reposiciones)
	DistributorPrice  decimal.Decimal // precio al distribuidor
	ClientPrice       decimal.Decimal // precio sugerido al cliente final
	Stock             int
	LowStockThreshold int
	Status            string // active, inactive
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Estados de catálogo (productos y categorías).
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
