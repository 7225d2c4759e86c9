package gamification_test

import (
	"testing"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/gamification"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestRank_PodioRecibeBonos(t *testing.T) {
	cfg := entity.DefaultGamificationConfig("c1")
	cfg.BaseCommissionPct = d(2)

	standings := []gamification.Standing{
		{DistributorID: "d4", Revenue: d(100), SalesCount: 1},
		{DistributorID: "d1", Revenue: d(900), SalesCount: 3},
		{DistributorID: "d2", Revenue: d(500), SalesCount: 2},
		{DistributorID: "d3", Revenue: d(300), SalesCount: 5},
	}
	out := gamification.Rank(cfg, standings, map[string]decimal.Decimal{"d1": d(4)})
	require.Len(t, out, 4)

	assert.Equal(t, "d1", out[0].DistributorID)
	assert.Equal(t, 1, out[0].Rank)
	assert.True(t, out[0].NewPct.Equal(d(7)))
	assert.True(t, out[0].PreviousPct.Equal(d(4)))

	assert.Equal(t, "d2", out[1].DistributorID)
	assert.True(t, out[1].NewPct.Equal(d(5)))
	assert.Equal(t, "d3", out[2].DistributorID)
	assert.True(t, out[2].NewPct.Equal(d(3)))

	assert.Equal(t, "d4", out[3].DistributorID)
	assert.Equal(t, 0, out[3].Rank)
	assert.True(t, out[3].NewPct.Equal(d(2)))
}

func TestRank_DesempateVentasLuegoID(t *testing.T) {
	cfg := entity.DefaultGamificationConfig("c1")
	standings := []gamification.Standing{
		{DistributorID: "b", Revenue: d(100), SalesCount: 2},
		{DistributorID: "a", Revenue: d(100), SalesCount: 2},
		{DistributorID: "c", Revenue: d(100), SalesCount: 4},
	}
	out := gamification.Rank(cfg, standings, nil)
	assert.Equal(t, "c", out[0].DistributorID)
	assert.Equal(t, "a", out[1].DistributorID)
	assert.Equal(t, "b", out[2].DistributorID)
}

func TestRank_SinIngresosNoClasifica(t *testing.T) {
	cfg := entity.DefaultGamificationConfig("c1")
	cfg.MinRevenue = d(200)
	standings := []gamification.Standing{
		{DistributorID: "a", Revenue: d(0)},
		{DistributorID: "b", Revenue: d(150), SalesCount: 1},
		{DistributorID: "c", Revenue: d(250), SalesCount: 1},
	}
	out := gamification.Rank(cfg, standings, nil)
	assert.Equal(t, "c", out[0].DistributorID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, 0, out[1].Rank)
	assert.Equal(t, 0, out[2].Rank)
	assert.True(t, out[1].NewPct.IsZero())
}

func TestRank_LimitaAlMaximo(t *testing.T) {
	cfg := entity.DefaultGamificationConfig("c1")
	cfg.BaseCommissionPct = d(8)
	cfg.MaxCommissionPct = d(10)
	out := gamification.Rank(cfg, []gamification.Standing{{DistributorID: "a", Revenue: d(1), SalesCount: 1}}, nil)
	assert.True(t, out[0].NewPct.Equal(d(10)))
}

func TestValidateConfig(t *testing.T) {
	cfg := entity.DefaultGamificationConfig("c1")
	require.NoError(t, gamification.ValidateConfig(cfg))

	cfg.BonusPcts[1] = d(6)
	assert.ErrorIs(t, gamification.ValidateConfig(cfg), domain.ErrInvalidInput)

	cfg = entity.DefaultGamificationConfig("c1")
	cfg.BaseCommissionPct = d(97)
	assert.ErrorIs(t, gamification.ValidateConfig(cfg), domain.ErrPercentageOutOfRange)

	cfg = entity.DefaultGamificationConfig("c1")
	cfg.MaxCommissionPct = d(101)
	assert.ErrorIs(t, gamification.ValidateConfig(cfg), domain.ErrPercentageOutOfRange)

	cfg = entity.DefaultGamificationConfig("c1")
	cfg.PeriodType = entity.PeriodCustom
	cfg.PeriodDays = 0
	assert.ErrorIs(t, gamification.ValidateConfig(cfg), domain.ErrInvalidInput)
}
