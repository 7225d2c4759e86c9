package repository

import (
	"context"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Category, error)
	GetByCode(ctx context.Context, companyID, code string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, companyID string) ([]*entity.Category, error)
}
