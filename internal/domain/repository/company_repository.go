package repository

import (
	"context"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company y sus módulos SaaS (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByNIT(ctx context.Context, nit string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)

	// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
	UpsertModule(ctx context.Context, module *entity.CompanyModule) error
	ListModules(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
}
