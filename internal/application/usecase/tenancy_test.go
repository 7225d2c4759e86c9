package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/memory"
	"github.com/jhoicas/Distribuidores-api/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompany_CreaConTodosLosModulos(t *testing.T) {
	store := memory.New()
	companies := usecase.NewCompanyUseCase(store.Companies())
	modules := usecase.NewModuleService(store.Companies())
	ctx := context.Background()

	c, err := companies.Create(ctx, dto.CreateCompanyRequest{Name: "ACME", NIT: "900.123.456"})
	require.NoError(t, err)
	assert.ElementsMatch(t, entity.AllModules, c.Modules)
	assert.Equal(t, "900123456-8", c.NIT)

	ok, err := modules.HasActiveModule(ctx, c.ID, entity.ModuleGamification)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = companies.Create(ctx, dto.CreateCompanyRequest{Name: "Otra", NIT: "9001234568"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCompany_NITConDigitoErrado(t *testing.T) {
	companies := usecase.NewCompanyUseCase(memory.New().Companies())

	_, err := companies.Create(context.Background(), dto.CreateCompanyRequest{Name: "ACME", NIT: "900123456-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestModule_DesactivarYVencer(t *testing.T) {
	f := testutil.New(t)
	modules := usecase.NewModuleService(f.Store.Companies())
	ctx := context.Background()

	_, err := modules.Set(ctx, f.Admin, entity.ModuleAnalytics, dto.SetModuleRequest{IsActive: false})
	require.NoError(t, err)
	ok, err := modules.HasActiveModule(ctx, f.Company.ID, entity.ModuleAnalytics)
	require.NoError(t, err)
	assert.False(t, ok)

	past := time.Now().Add(-time.Hour)
	_, err = modules.Set(ctx, f.Admin, entity.ModuleCatalog, dto.SetModuleRequest{IsActive: true, ExpiresAt: &past})
	require.NoError(t, err)
	ok, err = modules.HasActiveModule(ctx, f.Company.ID, entity.ModuleCatalog)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = modules.Set(ctx, f.Admin, "facturacion", dto.SetModuleRequest{IsActive: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDistributor_CambioDeEstadoAuditado(t *testing.T) {
	f := testutil.New(t)
	uc := usecase.NewDistributorUseCase(f.Store.Users(), audit.NewRecorder(f.Store.Audit(), zerolog.Nop()))
	ctx := context.Background()
	d := f.Distributor("ana", 2)

	out, err := uc.SetStatus(ctx, f.Admin, d.UserID, dto.SetStatusRequest{Status: entity.UserStatusSuspended})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusSuspended, out.Status)

	logs, err := f.Store.Audit().List(ctx, repository.AuditFilter{CompanyID: f.Company.ID, Action: entity.AuditDistributorStatus})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.UserStatusActive, logs[0].Details["from"])

	_, err = uc.SetStatus(ctx, d, d.UserID, dto.SetStatusRequest{Status: entity.UserStatusActive})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDistributor_ListaYConsulta(t *testing.T) {
	f := testutil.New(t)
	uc := usecase.NewDistributorUseCase(f.Store.Users(), nil)
	ctx := context.Background()
	ana := f.Distributor("ana", 0)
	luis := f.Distributor("luis", 0)

	list, err := uc.List(ctx, f.Admin, dto.DistributorListRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	_, err = uc.Get(ctx, ana, luis.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	self, err := uc.Get(ctx, ana, ana.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ana", self.Name)

	_, err = uc.Get(ctx, f.Admin, f.Admin.UserID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
