package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/gamification"
	"github.com/jhoicas/Distribuidores-api/internal/application/sales"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type env struct {
	*testutil.Fixture
	svc   *analytics.Service
	sales *sales.UseCase
	game  *gamification.UseCase
	cache *testutil.Cache
}

func setup(t *testing.T) *env {
	f := testutil.New(t)
	s := f.Store
	c := testutil.NewCache()
	clock := func() time.Time { return now }
	game := gamification.NewUseCase(gamification.Deps{
		Tx: s, Repo: s.Gamification(), Users: s.Users(), Sales: s.Sales(), Cache: c, Log: zerolog.Nop(), Now: clock,
	})
	su := sales.NewUseCase(sales.Deps{Tx: s, Sales: s.Sales(), Zones: game, Cache: c, Log: zerolog.Nop()})
	svc := analytics.NewService(analytics.Deps{
		Analytics: s.Analytics(),
		Products:  s.Products(),
		Users:     s.Users(),
		Stock:     s.Stock(),
		Sales:     s.Sales(),
		Ledger:    s.Ledger(),
		Rankings:  game,
		Cache:     c,
		Log:       zerolog.Nop(),
		Now:       clock,
	})
	return &env{Fixture: f, svc: svc, sales: su, game: game, cache: c}
}

func (e *env) record(t *testing.T, actor dto.Actor, in dto.RecordSaleRequest, at time.Time) {
	t.Helper()
	in.SaleDate = &at
	_, err := e.sales.Record(context.Background(), actor, in)
	require.NoError(t, err)
}

func TestAdminDashboard_KPIsTopProductosYStockBajo(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	a := e.Product("A", 10, 14, 20, 10)
	b := e.Product("B", 5, 6, 8, 0)
	ana := e.Distributor("ana", 0)
	e.Give(ana.UserID, b.ID, 5)
	e.Give(ana.UserID, a.ID, 1)

	e.record(t, e.Admin, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 2}, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC))
	e.record(t, e.Admin, dto.RecordSaleRequest{ProductID: b.ID, DistributorID: ana.UserID, Quantity: 5}, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	e.record(t, ana, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 1}, time.Date(2026, 3, 11, 11, 0, 0, 0, time.UTC))

	d, err := e.svc.AdminDashboard(ctx, e.Admin)
	require.NoError(t, err)
	assert.True(t, d.Today.Revenue.Equal(dec(40)))
	assert.Equal(t, 1, d.Today.ConfirmedSales)
	assert.Equal(t, 1, d.Today.PendingSales)
	assert.True(t, d.Month.Revenue.Equal(dec(80)))
	assert.True(t, d.Month.Cost.Equal(dec(45)))
	assert.Equal(t, 2, d.Month.ConfirmedSales)

	require.Len(t, d.TopProducts, 2)
	assert.Equal(t, "A", d.TopProducts[0].SKU)
	assert.True(t, d.TopProducts[0].IsTopPareto)
	assert.Nil(t, d.Leaderboard)

	require.Len(t, d.LowStock, 1)
	assert.Equal(t, "B", d.LowStock[0].SKU)
	assert.Equal(t, "UTC", d.Timezone)

	_, err = e.svc.AdminDashboard(ctx, ana)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdminDashboard_CacheSeInvalidaConNuevasVentas(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	a := e.Product("A", 10, 14, 20, 10)

	first, err := e.svc.AdminDashboard(ctx, e.Admin)
	require.NoError(t, err)
	assert.True(t, first.Today.Revenue.IsZero())

	_, err = e.svc.AdminDashboard(ctx, e.Admin)
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.Hits)

	e.record(t, e.Admin, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 1}, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC))

	third, err := e.svc.AdminDashboard(ctx, e.Admin)
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.Hits)
	assert.True(t, third.Today.Revenue.Equal(dec(20)))
}

func TestDistributorDashboard(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.game.UpdateConfig(ctx, e.Admin, dto.GamificationConfigDTO{
		Enabled:          true,
		PeriodType:       entity.PeriodWeekly,
		Timezone:         "UTC",
		BonusPcts:        [3]decimal.Decimal{dec(5), dec(3), dec(1)},
		MaxCommissionPct: dec(100),
	})
	require.NoError(t, err)
	a := e.Product("A", 10, 14, 20, 0)
	ana := e.Distributor("ana", 0)
	luis := e.Distributor("luis", 0)
	e.Give(ana.UserID, a.ID, 3)

	e.record(t, e.Admin, dto.RecordSaleRequest{ProductID: a.ID, DistributorID: ana.UserID, Quantity: 1}, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	_, err = e.sales.Record(ctx, ana, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)

	d, err := e.svc.DistributorDashboard(ctx, ana, "")
	require.NoError(t, err)
	assert.True(t, d.MonthRevenue.Equal(dec(20)))
	assert.True(t, d.MonthProfit.Equal(dec(6)))
	assert.True(t, d.Balance.Equal(dec(6)))
	assert.Equal(t, 1, d.UnitsInStock)
	assert.Equal(t, 1, d.PendingSales)
	assert.Equal(t, 1, d.Position)
	assert.True(t, d.ProjectedPct.Equal(dec(5)))

	_, err = e.svc.DistributorDashboard(ctx, ana, luis.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	other, err := e.svc.DistributorDashboard(ctx, e.Admin, luis.UserID)
	require.NoError(t, err)
	assert.Zero(t, other.Position)
}

func TestSalesSeries_BucketsVaciosEnCero(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	a := e.Product("A", 10, 14, 20, 10)
	e.record(t, e.Admin, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 1}, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	e.record(t, e.Admin, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 2}, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC))

	daily, err := e.svc.SalesSeries(ctx, e.Admin, dto.SalesSeriesRequest{
		DateRangeQuery: dto.DateRangeQuery{From: "2026-03-01", To: "2026-03-11"},
	})
	require.NoError(t, err)
	require.Len(t, daily.Points, 11)
	assert.Equal(t, "2026-03-01", daily.Points[0].Bucket)
	assert.True(t, daily.Points[0].Revenue.IsZero())
	assert.True(t, daily.Points[1].Revenue.Equal(dec(20)))
	assert.True(t, daily.Points[10].Revenue.Equal(dec(40)))
	assert.Equal(t, 1, daily.Points[10].SalesCount)

	monthly, err := e.svc.SalesSeries(ctx, e.Admin, dto.SalesSeriesRequest{
		Granularity:    "month",
		DateRangeQuery: dto.DateRangeQuery{From: "2026-01-01", To: "2026-03-31"},
	})
	require.NoError(t, err)
	require.Len(t, monthly.Points, 3)
	assert.Equal(t, "2026-03", monthly.Points[2].Bucket)
	assert.True(t, monthly.Points[2].AdminProfit.Equal(dec(30)))

	_, err = e.svc.SalesSeries(ctx, e.Admin, dto.SalesSeriesRequest{Granularity: "week"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductRanking_TopNYPareto(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	a := e.Product("A", 10, 14, 20, 100)
	b := e.Product("B", 1, 2, 3, 100)
	e.record(t, e.Admin, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 9}, time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC))
	e.record(t, e.Admin, dto.RecordSaleRequest{ProductID: b.ID, Quantity: 10}, time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC))

	rep, err := e.svc.ProductRanking(ctx, e.Admin, dto.ProductRankingRequest{TopN: 1})
	require.NoError(t, err)
	require.Len(t, rep.Products, 1)
	assert.Equal(t, "A", rep.Products[0].SKU)
	// 180 de 210 en ingresos: el primero supera el 80% y aun así es Pareto
	assert.Equal(t, []string{"A"}, rep.ParetoSKUs)
}
