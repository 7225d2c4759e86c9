package repository

import (
	"context"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// DistributorStockRepository define el puerto para el stock en manos de cada distribuidor.
// Usado dentro de transacciones para garantizar consistencia.
type DistributorStockRepository interface {
	// GetForUpdate bloquea la fila (distribuidor, producto). Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, companyID, distributorID, productID string) (*entity.DistributorStock, error)
	// Adjust suma delta a la fila (creándola si no existe) y devuelve la cantidad resultante.
	Adjust(ctx context.Context, companyID, distributorID, productID string, delta int) (int, error)
	// List devuelve el stock de un distribuidor; distributorID vacío lista toda la empresa.
	List(ctx context.Context, companyID, distributorID string) ([]*entity.DistributorStock, error)
	TotalUnits(ctx context.Context, companyID, distributorID string) (int, error)
}
