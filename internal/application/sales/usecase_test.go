package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/application/sales"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/ledger"
	"github.com/jhoicas/Distribuidores-api/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	*testutil.Fixture
	uc    *sales.UseCase
	cache *testutil.Cache
}

func setup(t *testing.T) *env {
	f := testutil.New(t)
	c := testutil.NewCache()
	uc := sales.NewUseCase(sales.Deps{
		Tx:       f.Store,
		Sales:    f.Store.Sales(),
		Zones:    ports.FixedZone{},
		Cache:    c,
		Recorder: audit.NewRecorder(f.Store.Audit(), zerolog.Nop()),
		Log:      zerolog.Nop(),
	})
	return &env{Fixture: f, uc: uc, cache: c}
}

func (e *env) balance(t *testing.T, accountType, accountID string) decimal.Decimal {
	t.Helper()
	b, err := e.Store.Ledger().GetBalance(context.Background(), e.Company.ID, accountType, accountID)
	require.NoError(t, err)
	if b == nil {
		return decimal.Zero
	}
	return b.Balance
}

func (e *env) verify(t *testing.T, accountType, accountID string) {
	t.Helper()
	ctx := context.Background()
	chain, err := e.Store.Ledger().ListChain(ctx, e.Company.ID, accountType, accountID)
	require.NoError(t, err)
	bal, err := e.Store.Ledger().GetBalance(ctx, e.Company.ID, accountType, accountID)
	require.NoError(t, err)
	rep := ledger.Verify(chain, bal)
	assert.True(t, rep.OK(), "%+v", rep.Discrepancies)
}

func TestRecord_DistribuidorQuedaPendienteYDescuentaSuStock(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 10)
	e.Give(ana.UserID, p.ID, 10)

	s, err := e.uc.Record(ctx, ana, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 3, DistributorID: "otro"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, s.Status)
	assert.Equal(t, ana.UserID, s.DistributorID)
	assert.True(t, s.UnitPrice.Equal(dec("20")))
	assert.True(t, s.Total.Equal(dec("60")))
	assert.Nil(t, s.PurchasePrice)
	assert.Nil(t, s.AdminProfit)

	units, err := e.Store.Stock().TotalUnits(ctx, e.Company.ID, ana.UserID)
	require.NoError(t, err)
	assert.Equal(t, 7, units)
	assert.True(t, e.balance(t, entity.AccountDistributor, ana.UserID).IsZero())
	assert.Zero(t, e.cache.Version(ports.AnalyticsVersionKey(e.Company.ID)))
}

func TestRecord_Validaciones(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 10)
	e.Give(ana.UserID, p.ID, 2)

	cheap := dec("13")
	_, err := e.uc.Record(ctx, ana, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1, UnitPrice: &cheap})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Record(ctx, ana, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	future := time.Now().Add(time.Hour)
	_, err = e.uc.Record(ctx, ana, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1, SaleDate: &future})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, e.Store.Users().UpdateStatus(ctx, e.Company.ID, ana.UserID, entity.UserStatusSuspended))
	_, err = e.uc.Record(ctx, ana, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	units, err := e.Store.Stock().TotalUnits(ctx, e.Company.ID, ana.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, units)
}

func TestConfirm_RepartoYAsientos(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 10)
	e.Give(ana.UserID, p.ID, 10)

	s, err := e.uc.Record(ctx, ana, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = e.uc.Confirm(ctx, ana, s.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := e.uc.Confirm(ctx, e.Admin, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusConfirmed, out.Status)
	// adminBase = 3*(14-10) = 12, bonus = 1.2, distributorBase = 3*(20-14) = 18
	require.NotNil(t, out.AdminProfit)
	assert.True(t, out.AdminProfit.Equal(dec("10.8")), out.AdminProfit.String())
	assert.True(t, out.DistributorProfit.Equal(dec("19.2")), out.DistributorProfit.String())
	assert.True(t, out.CommissionPct.Equal(dec("10")))

	assert.True(t, e.balance(t, entity.AccountCompany, e.Company.ID).Equal(dec("10.8")))
	assert.True(t, e.balance(t, entity.AccountDistributor, ana.UserID).Equal(dec("19.2")))
	assert.EqualValues(t, 1, e.cache.Version(ports.AnalyticsVersionKey(e.Company.ID)))

	_, err = e.uc.Confirm(ctx, e.Admin, s.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_ConfirmadaRevierteAsientosYStock(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 10)
	e.Give(ana.UserID, p.ID, 10)

	s, err := e.uc.Record(ctx, e.Admin, dto.RecordSaleRequest{ProductID: p.ID, DistributorID: ana.UserID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusConfirmed, s.Status)

	_, err = e.uc.Cancel(ctx, ana, s.ID, dto.CancelSaleRequest{Reason: "error"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := e.uc.Cancel(ctx, e.Admin, s.ID, dto.CancelSaleRequest{Reason: "devolución"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, out.Status)
	assert.Equal(t, "devolución", out.CancelReason)

	units, err := e.Store.Stock().TotalUnits(ctx, e.Company.ID, ana.UserID)
	require.NoError(t, err)
	assert.Equal(t, 10, units)
	assert.True(t, e.balance(t, entity.AccountCompany, e.Company.ID).IsZero())
	assert.True(t, e.balance(t, entity.AccountDistributor, ana.UserID).IsZero())
	e.verify(t, entity.AccountCompany, e.Company.ID)
	e.verify(t, entity.AccountDistributor, ana.UserID)

	_, err = e.uc.Cancel(ctx, e.Admin, s.ID, dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_DistribuidorSoloLasSuyasPendientes(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 10)
	luis := e.Distributor("luis", 10)
	e.Give(ana.UserID, p.ID, 5)

	s, err := e.uc.Record(ctx, ana, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = e.uc.Cancel(ctx, luis, s.ID, dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.uc.Get(ctx, luis, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := e.uc.Cancel(ctx, ana, s.ID, dto.CancelSaleRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, out.Status)
	units, err := e.Store.Stock().TotalUnits(ctx, e.Company.ID, ana.UserID)
	require.NoError(t, err)
	assert.Equal(t, 5, units)
}

func TestRecord_VentaDirectaDelAdministrador(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.Product("CAF-1", 10, 14, 20, 5)

	s, err := e.uc.Record(ctx, e.Admin, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusConfirmed, s.Status)
	assert.Empty(t, s.DistributorID)
	assert.True(t, s.AdminProfit.Equal(dec("20")))
	assert.True(t, s.DistributorProfit.IsZero())

	after, err := e.Store.Products().GetByID(ctx, e.Company.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, after.Stock)
	assert.True(t, e.balance(t, entity.AccountCompany, e.Company.ID).Equal(dec("20")))
}

func TestList_DistribuidorVeSoloLasSuyas(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 0)
	luis := e.Distributor("luis", 0)
	e.Give(ana.UserID, p.ID, 5)
	e.Give(luis.UserID, p.ID, 5)
	_, err := e.uc.Record(ctx, ana, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = e.uc.Record(ctx, luis, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	mine, err := e.uc.List(ctx, ana, dto.SaleListRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, ana.UserID, mine.Items[0].DistributorID)

	_, err = e.uc.List(ctx, ana, dto.SaleListRequest{DistributorID: luis.UserID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := e.uc.List(ctx, e.Admin, dto.SaleListRequest{Status: entity.SaleStatusPending})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestRecalculate_AplicaNuevoPorcentajeComoAjuste(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 10)
	e.Give(ana.UserID, p.ID, 10)

	_, err := e.uc.Record(ctx, e.Admin, dto.RecordSaleRequest{ProductID: p.ID, DistributorID: ana.UserID, Quantity: 3})
	require.NoError(t, err)
	require.NoError(t, e.Store.Users().UpdateCommissionPct(ctx, e.Company.ID, ana.UserID, dec("50")))

	now := time.Now()
	out, err := e.uc.Recalculate(ctx, e.Admin, dto.RecalculateSalesRequest{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Examined)
	assert.Equal(t, 1, out.Adjusted)

	// bonus = 12 * 50% = 6
	assert.True(t, e.balance(t, entity.AccountDistributor, ana.UserID).Equal(dec("24")))
	assert.True(t, e.balance(t, entity.AccountCompany, e.Company.ID).Equal(dec("6")))
	e.verify(t, entity.AccountDistributor, ana.UserID)

	again, err := e.uc.Recalculate(ctx, e.Admin, dto.RecalculateSalesRequest{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Zero(t, again.Adjusted)
}

func TestSplit_SumaIgualUtilidadBruta(t *testing.T) {
	s := &entity.Sale{
		Quantity: 7, UnitPrice: dec("19.99"), PurchasePrice: dec("9.37"), DistributorPrice: dec("13.41"),
		DistributorID: "d",
	}
	r, err := sales.Split(s, dec("33"))
	require.NoError(t, err)
	gross := r.Total.Sub(dec("7").Mul(s.PurchasePrice))
	assert.True(t, r.GrossProfit().Equal(gross))
}
