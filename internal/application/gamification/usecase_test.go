package gamification_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
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

// Miércoles 11 de marzo de 2026; la semana cerrada anterior es [2 mar, 9 mar).
var now = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type env struct {
	*testutil.Fixture
	uc    *gamification.UseCase
	sales *sales.UseCase
	cache *testutil.Cache
}

func setup(t *testing.T) *env {
	f := testutil.New(t)
	c := testutil.NewCache()
	rec := audit.NewRecorder(f.Store.Audit(), zerolog.Nop())
	uc := gamification.NewUseCase(gamification.Deps{
		Tx:       f.Store,
		Repo:     f.Store.Gamification(),
		Users:    f.Store.Users(),
		Sales:    f.Store.Sales(),
		Cache:    c,
		Recorder: rec,
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return now },
	})
	su := sales.NewUseCase(sales.Deps{Tx: f.Store, Sales: f.Store.Sales(), Zones: uc, Recorder: rec, Log: zerolog.Nop()})
	return &env{Fixture: f, uc: uc, sales: su, cache: c}
}

func weekly(recalc bool) dto.GamificationConfigDTO {
	return dto.GamificationConfigDTO{
		Enabled:           true,
		PeriodType:        entity.PeriodWeekly,
		Timezone:          "UTC",
		BaseCommissionPct: dec(5),
		BonusPcts:         [3]decimal.Decimal{dec(10), dec(5), dec(2)},
		MaxCommissionPct:  dec(20),
		RecalculateSales:  recalc,
	}
}

// sell registra una venta confirmada a nombre del distribuidor en la fecha dada.
func (e *env) sell(t *testing.T, p *entity.Product, distributorID string, qty int, at time.Time) {
	t.Helper()
	e.Give(distributorID, p.ID, qty)
	_, err := e.sales.Record(context.Background(), e.Admin, dto.RecordSaleRequest{
		ProductID: p.ID, DistributorID: distributorID, Quantity: qty, SaleDate: &at,
	})
	require.NoError(t, err)
}

func (e *env) pct(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	u, err := e.Store.Users().GetInCompany(context.Background(), e.Company.ID, id)
	require.NoError(t, err)
	return u.CommissionPct
}

func TestUpdateConfig_NormalizaYValida(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	in := weekly(false)
	in.PeriodDays = 30
	out, err := e.uc.UpdateConfig(ctx, e.Admin, in)
	require.NoError(t, err)
	assert.Equal(t, 7, out.PeriodDays)
	assert.Equal(t, e.Admin.UserID, out.UpdatedBy)

	bad := weekly(false)
	bad.BonusPcts[0] = dec(16)
	_, err = e.uc.UpdateConfig(ctx, e.Admin, bad)
	assert.ErrorIs(t, err, domain.ErrPercentageOutOfRange)

	custom := weekly(false)
	custom.PeriodType = entity.PeriodCustom
	custom.PeriodDays = 10
	_, err = e.uc.UpdateConfig(ctx, e.Admin, custom)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d := e.Distributor("ana", 0)
	_, err = e.uc.UpdateConfig(ctx, d, weekly(false))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetConfig_PorDefectoDeshabilitada(t *testing.T) {
	e := setup(t)
	cfg, err := e.uc.GetConfig(context.Background(), e.Company.ID)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, entity.PeriodWeekly, cfg.PeriodType)

	_, err = e.uc.Evaluate(context.Background(), e.Admin, dto.EvaluateRequest{})
	assert.ErrorIs(t, err, domain.ErrGamificationDisabled)
}

func TestEvaluate_PodioActualizaPorcentajesYRecalcula(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.uc.UpdateConfig(ctx, e.Admin, weekly(true))
	require.NoError(t, err)

	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 5)
	luis := e.Distributor("luis", 5)
	eva := e.Distributor("eva", 5)
	e.sell(t, p, ana.UserID, 3, time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC))
	e.sell(t, p, luis.UserID, 1, time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC))
	// Fuera del período: no cuenta
	e.sell(t, p, eva.UserID, 10, time.Date(2026, 3, 9, 1, 0, 0, 0, time.UTC))

	ev, err := e.uc.Evaluate(ctx, e.Admin, dto.EvaluateRequest{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), ev.Period.Start.UTC())
	assert.Equal(t, 2, ev.SalesAdjusted)
	require.Len(t, ev.Results, 3)
	assert.Equal(t, ana.UserID, ev.Results[0].DistributorID)
	assert.Equal(t, 1, ev.Results[0].Rank)
	assert.Equal(t, "ana", ev.Results[0].DistributorName)
	assert.Equal(t, 0, ev.Results[2].Rank)

	assert.True(t, e.pct(t, ana.UserID).Equal(dec(15)))
	assert.True(t, e.pct(t, luis.UserID).Equal(dec(10)))
	assert.True(t, e.pct(t, eva.UserID).Equal(dec(5)))

	// Venta de ana recalculada al 15%: 3*(20-14) + 12*15% = 19.8
	bal, err := e.Store.Ledger().GetBalance(ctx, e.Company.ID, entity.AccountDistributor, ana.UserID)
	require.NoError(t, err)
	assert.True(t, bal.Balance.Equal(decimal.RequireFromString("19.8")), bal.Balance.String())

	_, err = e.uc.Evaluate(ctx, e.Admin, dto.EvaluateRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := e.uc.GetEvaluation(ctx, e.Company.ID, ev.ID)
	require.NoError(t, err)
	assert.Len(t, got.Results, 3)

	list, err := e.uc.ListEvaluations(ctx, e.Company.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestEvaluate_PeriodoAbiertoSeRechaza(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.uc.UpdateConfig(ctx, e.Admin, weekly(false))
	require.NoError(t, err)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = e.uc.Evaluate(ctx, e.Admin, dto.EvaluateRequest{PeriodStart: &start})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrPeriodNotClosed)
}

func TestEvaluateDue_SoloUnaVezPorPeriodo(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	ana := e.Distributor("ana", 0)

	done, err := e.uc.EvaluateDue(ctx, e.Company.ID)
	require.NoError(t, err)
	assert.False(t, done, "deshabilitada")

	_, err = e.uc.UpdateConfig(ctx, e.Admin, weekly(false))
	require.NoError(t, err)
	done, err = e.uc.EvaluateDue(ctx, e.Company.ID)
	require.NoError(t, err)
	assert.True(t, done)
	// Sin ingresos queda en la base
	assert.True(t, e.pct(t, ana.UserID).Equal(dec(5)))

	done, err = e.uc.EvaluateDue(ctx, e.Company.ID)
	require.NoError(t, err)
	assert.False(t, done)

	list, err := e.uc.ListEvaluations(ctx, e.Company.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, gamification.SystemActor, list.Items[0].EvaluatedBy)
}

func TestLeaderboard_ActualYAnterior(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.uc.UpdateConfig(ctx, e.Admin, weekly(false))
	require.NoError(t, err)
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 5)
	luis := e.Distributor("luis", 5)
	e.sell(t, p, luis.UserID, 2, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	e.sell(t, p, ana.UserID, 1, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))

	lb, err := e.uc.Leaderboard(ctx, e.Company.ID, "current")
	require.NoError(t, err)
	assert.False(t, lb.Evaluated)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, luis.UserID, lb.Entries[0].DistributorID)
	assert.Equal(t, 1, lb.Entries[0].Position)
	assert.True(t, lb.Entries[0].ProjectedPct.Equal(dec(15)))
	assert.True(t, lb.Entries[1].ProjectedPct.Equal(dec(10)))

	prev, err := e.uc.Leaderboard(ctx, e.Company.ID, "previous")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), prev.Period.Start.UTC())
	for _, entry := range prev.Entries {
		assert.Zero(t, entry.Rank)
	}

	_, err = e.uc.Leaderboard(ctx, e.Company.ID, "siguiente")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateConfig_InvalidaCache(t *testing.T) {
	e := setup(t)
	_, err := e.uc.UpdateConfig(context.Background(), e.Admin, weekly(false))
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.cache.Version("analytics:version:"+e.Company.ID))
}
