package audit_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) Create(context.Context, *entity.AuditLog) error { return errors.New("db caída") }
func (failingRepo) List(context.Context, repository.AuditFilter) ([]*entity.AuditLog, error) {
	return nil, nil
}

var admin = dto.Actor{UserID: "u-admin", CompanyID: "c1", Role: entity.RoleAdmin, IP: "10.0.0.1"}

func TestRecorder_FalloNoSePropagaYSeLoguea(t *testing.T) {
	var buf bytes.Buffer
	rec := audit.NewRecorder(failingRepo{}, zerolog.New(&buf))
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), admin, entity.AuditSaleConfirm, "sale", "s1", nil)
	})
	assert.Contains(t, buf.String(), "audit: no se pudo registrar la acción")
	assert.Contains(t, buf.String(), `"action":"sale.confirm"`)
}

func TestRecorderYList_FiltraPorEmpresaYAccion(t *testing.T) {
	store := memory.New()
	rec := audit.NewRecorder(store.Audit(), zerolog.Nop())
	ctx := context.Background()

	rec.Record(ctx, admin, entity.AuditProductCreate, "product", "p1", map[string]any{"sku": "A"})
	rec.Record(ctx, admin, entity.AuditStockAssign, "product", "p1", nil)
	rec.Record(ctx, dto.Actor{UserID: "x", CompanyID: "c2", Role: entity.RoleAdmin}, entity.AuditProductCreate, "product", "p9", nil)

	uc := audit.NewUseCase(store.Audit())
	out, err := uc.List(ctx, admin, dto.AuditListRequest{Action: entity.AuditProductCreate})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "p1", out.Items[0].EntityID)
	assert.Equal(t, "10.0.0.1", out.Items[0].IP)
	assert.Equal(t, "A", out.Items[0].Details["sku"])

	all, err := uc.List(ctx, admin, dto.AuditListRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestList_DistribuidorNoPuedeConsultar(t *testing.T) {
	uc := audit.NewUseCase(memory.New().Audit())
	_, err := uc.List(context.Background(), dto.Actor{UserID: "d", CompanyID: "c1", Role: entity.RoleDistribuidor}, dto.AuditListRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
