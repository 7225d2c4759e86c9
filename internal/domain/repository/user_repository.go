package repository

import (
	"context"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UserFilter filtros para listar usuarios de una empresa.
type UserFilter struct {
	CompanyID string
	Role      string
	Status    string
	Limit     int
	Offset    int
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// GetByID no filtra por empresa; lo usa auth. Los casos de uso de negocio usan GetInCompany.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetInCompany(ctx context.Context, companyID, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, f UserFilter) ([]*entity.User, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
	UpdateCommissionPct(ctx context.Context, companyID, id string, pct decimal.Decimal) error
}
