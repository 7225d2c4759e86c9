package repository

import (
	"context"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	CompanyID  string
	CategoryID string
	Status     string
	Search     string // coincide con nombre o SKU
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT ... FOR UPDATE). Solo dentro de una transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	// Update no modifica Stock ni PurchasePrice (se manejan vía reposición y movimientos).
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error
	// AdjustStock suma delta al stock central y devuelve el nuevo valor.
	AdjustStock(ctx context.Context, companyID, id string, delta int) (int, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error)
}
