package distribution_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/distribution"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(f *testutil.Fixture) *distribution.UseCase {
	s := f.Store
	return distribution.NewUseCase(s, s.Products(), s.Stock(), s.Movements(), ports.FixedZone{},
		audit.NewRecorder(s.Audit(), zerolog.Nop()), nil)
}

func TestAssign_MueveDelCentralAlDistribuidor(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	ctx := context.Background()
	p := f.Product("CAF-1", 10, 14, 20, 50)
	ana := f.Distributor("ana", 0)

	out, err := uc.Assign(ctx, f.Admin, dto.AssignStockRequest{ProductID: p.ID, DistributorID: ana.UserID, Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, 30, out.CentralStock)
	require.NotNil(t, out.ToQuantity)
	assert.Equal(t, 20, *out.ToQuantity)

	stock, err := uc.ListStock(ctx, ana, dto.StockListRequest{})
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, "CAF-1", stock[0].SKU)
	assert.Equal(t, 20, stock[0].Quantity)

	movs, err := uc.ListMovements(ctx, ana, dto.MovementListRequest{})
	require.NoError(t, err)
	require.Len(t, movs.Items, 1)
	assert.Equal(t, entity.MovementAssign, movs.Items[0].Type)
	assert.Equal(t, out.TransactionID, movs.Items[0].TransactionID)
}

func TestAssign_StockCentralInsuficienteNoCambiaNada(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	ctx := context.Background()
	p := f.Product("CAF-1", 10, 14, 20, 5)
	ana := f.Distributor("ana", 0)

	_, err := uc.Assign(ctx, f.Admin, dto.AssignStockRequest{ProductID: p.ID, DistributorID: ana.UserID, Quantity: 6})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	after, err := f.Store.Products().GetByID(ctx, f.Company.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, after.Stock)
	units, err := f.Store.Stock().TotalUnits(ctx, f.Company.ID, ana.UserID)
	require.NoError(t, err)
	assert.Zero(t, units)
}

func TestAssign_DistribuidorInactivoOInexistente(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	ctx := context.Background()
	p := f.Product("CAF-1", 10, 14, 20, 5)
	ana := f.Distributor("ana", 0)
	require.NoError(t, f.Store.Users().UpdateStatus(ctx, f.Company.ID, ana.UserID, entity.UserStatusSuspended))

	_, err := uc.Assign(ctx, f.Admin, dto.AssignStockRequest{ProductID: p.ID, DistributorID: ana.UserID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Assign(ctx, f.Admin, dto.AssignStockRequest{ProductID: p.ID, DistributorID: f.Admin.UserID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAssign_SoloAdministrador(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	p := f.Product("CAF-1", 10, 14, 20, 5)
	ana := f.Distributor("ana", 0)
	_, err := uc.Assign(context.Background(), ana, dto.AssignStockRequest{ProductID: p.ID, DistributorID: ana.UserID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWithdraw_DevuelveAlCentralAunqueEsteInactivo(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	ctx := context.Background()
	p := f.Product("CAF-1", 10, 14, 20, 0)
	ana := f.Distributor("ana", 0)
	f.Give(ana.UserID, p.ID, 8)
	require.NoError(t, f.Store.Users().UpdateStatus(ctx, f.Company.ID, ana.UserID, entity.UserStatusInactive))

	out, err := uc.Withdraw(ctx, f.Admin, dto.WithdrawStockRequest{ProductID: p.ID, DistributorID: ana.UserID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, out.CentralStock)
	assert.Equal(t, 5, *out.FromQuantity)

	_, err = uc.Withdraw(ctx, f.Admin, dto.WithdrawStockRequest{ProductID: p.ID, DistributorID: ana.UserID, Quantity: 6})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestTransfer_EntreDistribuidores(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	ctx := context.Background()
	p := f.Product("CAF-1", 10, 14, 20, 7)
	ana := f.Distributor("ana", 0)
	luis := f.Distributor("luis", 0)
	f.Give(ana.UserID, p.ID, 10)

	out, err := uc.Transfer(ctx, f.Admin, dto.TransferStockRequest{
		ProductID: p.ID, FromDistributorID: ana.UserID, ToDistributorID: luis.UserID, Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, *out.FromQuantity)
	assert.Equal(t, 4, *out.ToQuantity)
	assert.Equal(t, 7, out.CentralStock)

	_, err = uc.Transfer(ctx, f.Admin, dto.TransferStockRequest{
		ProductID: p.ID, FromDistributorID: luis.UserID, ToDistributorID: luis.UserID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Transfer(ctx, f.Admin, dto.TransferStockRequest{
		ProductID: p.ID, FromDistributorID: luis.UserID, ToDistributorID: ana.UserID, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	all, err := uc.ListStock(ctx, f.Admin, dto.StockListRequest{})
	require.NoError(t, err)
	total := 0
	for _, r := range all {
		total += r.Quantity
	}
	assert.Equal(t, 10, total)
}

func TestListStock_DistribuidorNoVeAjeno(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	ana := f.Distributor("ana", 0)
	luis := f.Distributor("luis", 0)
	_, err := uc.ListStock(context.Background(), ana, dto.StockListRequest{DistributorID: luis.UserID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.ListMovements(context.Background(), ana, dto.MovementListRequest{DistributorID: luis.UserID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListMovements_RangoInvalido(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	_, err := uc.ListMovements(context.Background(), f.Admin, dto.MovementListRequest{
		DateRangeQuery: dto.DateRangeQuery{From: "2026-03-10", To: "2026-03-01"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
