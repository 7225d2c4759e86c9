package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleFilter filtros del listado de ventas. From/To aplican sobre SaleDate [From, To).
type SaleFilter struct {
	CompanyID     string
	Status        string
	DistributorID string
	ProductID     string
	From, To      *time.Time
	Limit         int
	Offset        int
}

// DistributorRevenue ingreso confirmado agregado de un distribuidor en un rango.
type DistributorRevenue struct {
	DistributorID string
	Revenue       decimal.Decimal
	SalesCount    int
}

// SaleRepository define el puerto de persistencia para Sale (DIP).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error)
	// Update persiste estado, reparto y marcas de confirmación/anulación.
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
	// ListConfirmedForUpdate bloquea las ventas confirmadas con SaleDate en [from, to) ordenadas por fecha.
	ListConfirmedForUpdate(ctx context.Context, companyID string, from, to time.Time) ([]*entity.Sale, error)
	// RevenueByDistributor agrega SUM(total) y COUNT(*) de ventas confirmadas de distribuidores en [from, to).
	RevenueByDistributor(ctx context.Context, companyID string, from, to time.Time) ([]DistributorRevenue, error)
	CountPending(ctx context.Context, companyID, distributorID string) (int, error)
}
