package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos de stock.
type MovementFilter struct {
	CompanyID     string
	ProductID     string
	DistributorID string // origen o destino
	Type          string
	From, To      *time.Time
	Limit         int
	Offset        int
}

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP). Solo inserción.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
}
