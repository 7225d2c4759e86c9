package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/gamification"
	"github.com/jhoicas/Distribuidores-api/internal/application/sales"
	"github.com/jhoicas/Distribuidores-api/internal/application/scheduler"
	"github.com/jhoicas/Distribuidores-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	rules "github.com/jhoicas/Distribuidores-api/internal/domain/gamification"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/cache"
	"github.com/jhoicas/Distribuidores-api/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now        = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	closedWeek = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
)

type env struct {
	*testutil.Fixture
	gam     *gamification.UseCase
	modules *usecase.ModuleService
	locker  *cache.LocalLocker
	sched   *scheduler.Scheduler
}

func setup(t *testing.T) *env {
	f := testutil.New(t)
	rec := audit.NewRecorder(f.Store.Audit(), zerolog.Nop())
	gam := gamification.NewUseCase(gamification.Deps{
		Tx:       f.Store,
		Repo:     f.Store.Gamification(),
		Users:    f.Store.Users(),
		Sales:    f.Store.Sales(),
		Cache:    testutil.NewCache(),
		Recorder: rec,
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return now },
	})
	su := sales.NewUseCase(sales.Deps{Tx: f.Store, Sales: f.Store.Sales(), Zones: gam, Recorder: rec, Log: zerolog.Nop()})

	ctx := context.Background()
	_, err := gam.UpdateConfig(ctx, f.Admin, dto.GamificationConfigDTO{
		Enabled:           true,
		PeriodType:        entity.PeriodWeekly,
		Timezone:          "UTC",
		BaseCommissionPct: decimal.NewFromInt(5),
		BonusPcts:         [3]decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.NewFromInt(2)},
		MaxCommissionPct:  decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	d := f.Distributor("ana", 5)
	p := f.Product("SKU-1", 100, 150, 200, 50)
	f.Give(d.UserID, p.ID, 3)
	at := closedWeek.Add(48 * time.Hour)
	_, err = su.Record(ctx, f.Admin, dto.RecordSaleRequest{ProductID: p.ID, DistributorID: d.UserID, Quantity: 3, SaleDate: &at})
	require.NoError(t, err)

	modules := usecase.NewModuleService(f.Store.Companies())
	locker := cache.NewLocalLocker()
	return &env{
		Fixture: f,
		gam:     gam,
		modules: modules,
		locker:  locker,
		sched:   scheduler.New(gam, modules, locker, time.Minute, zerolog.Nop()),
	}
}

func (e *env) evaluation(t *testing.T) *entity.Evaluation {
	t.Helper()
	ev, err := e.Store.Gamification().GetEvaluationByPeriod(context.Background(), e.Company.ID, closedWeek)
	require.NoError(t, err)
	return ev
}

func TestTick_EvaluaPeriodoVencidoUnaSolaVez(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	n, err := e.sched.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ev := e.evaluation(t)
	require.NotNil(t, ev)
	assert.Equal(t, gamification.SystemActor, ev.EvaluatedBy)
	require.Len(t, ev.Results, 1)
	assert.Equal(t, 1, ev.Results[0].Rank)

	n, err = e.sched.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestTick_ModuloInactivoNoEvalua(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.modules.Set(ctx, e.Admin, entity.ModuleGamification, dto.SetModuleRequest{IsActive: false})
	require.NoError(t, err)

	n, err := e.sched.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Nil(t, e.evaluation(t))
}

func TestTick_CandadoTomadoPorOtraInstancia(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	key := fmt.Sprintf("gamification:eval:%s:%d", e.Company.ID, closedWeek.Unix())
	ok, err := e.locker.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := e.sched.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Nil(t, e.evaluation(t))

	require.NoError(t, e.locker.Unlock(ctx, key))
	n, err = e.sched.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTick_LiberaElCandadoTrasEvaluar(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.sched.Tick(ctx)
	require.NoError(t, err)

	key := fmt.Sprintf("gamification:eval:%s:%d", e.Company.ID, closedWeek.Unix())
	ok, err := e.locker.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

// failingEvaluator falla para una empresa concreta y evalúa las demás.
type failingEvaluator struct {
	mu        sync.Mutex
	companies []string
	failFor   string
	evaluated []string
}

func (f *failingEvaluator) EnabledConfigs(context.Context) ([]*entity.GamificationConfig, error) {
	out := make([]*entity.GamificationConfig, 0, len(f.companies))
	for _, id := range f.companies {
		out = append(out, &entity.GamificationConfig{CompanyID: id, Enabled: true})
	}
	return out, nil
}

func (f *failingEvaluator) DuePeriod(*entity.GamificationConfig) (rules.Period, error) {
	return rules.Period{Start: closedWeek, End: closedWeek.AddDate(0, 0, 7)}, nil
}

func (f *failingEvaluator) EvaluateDue(_ context.Context, companyID string) (bool, error) {
	if companyID == f.failFor {
		return false, errors.New("db caída")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evaluated = append(f.evaluated, companyID)
	return true, nil
}

func (f *failingEvaluator) done() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.evaluated...)
}

type allModules struct{}

func (allModules) HasActiveModule(context.Context, string, string) (bool, error) { return true, nil }

func TestTick_ErrorEnUnaEmpresaNoDetieneLasDemas(t *testing.T) {
	ev := &failingEvaluator{companies: []string{"a", "b", "c"}, failFor: "b"}
	s := scheduler.New(ev, allModules{}, cache.NewLocalLocker(), time.Minute, zerolog.Nop())

	n, err := s.Tick(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db caída")
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "c"}, ev.done())
}

func TestRun_TerminaAlCancelarContexto(t *testing.T) {
	ev := &failingEvaluator{companies: []string{"a"}}
	s := scheduler.New(ev, allModules{}, cache.NewLocalLocker(), time.Hour, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(ev.done()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
}
