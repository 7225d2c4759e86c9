package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.GamificationRepository = (*GamificationRepo)(nil)

// GamificationRepo configuración y evaluaciones en memoria.
type GamificationRepo struct{ base }

func (r *GamificationRepo) GetConfig(_ context.Context, companyID string) (*entity.GamificationConfig, error) {
	st, done := r.read()
	defer done()
	c, ok := st.configs[companyID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *GamificationRepo) SaveConfig(_ context.Context, cfg *entity.GamificationConfig) error {
	st, done := r.write()
	defer done()
	st.configs[cfg.CompanyID] = *cfg
	return nil
}

func (r *GamificationRepo) ListEnabledConfigs(_ context.Context) ([]*entity.GamificationConfig, error) {
	st, done := r.read()
	defer done()
	var list []entity.GamificationConfig
	for _, c := range st.configs {
		if c.Enabled {
			list = append(list, c)
		}
	}
	slices.SortFunc(list, func(a, b entity.GamificationConfig) int { return strings.Compare(a.CompanyID, b.CompanyID) })
	return ptrs(list), nil
}

func (r *GamificationRepo) CreateEvaluation(_ context.Context, ev *entity.Evaluation) error {
	st, done := r.write()
	defer done()
	for _, other := range st.evaluations {
		if other.CompanyID == ev.CompanyID && other.PeriodStart.Equal(ev.PeriodStart) {
			return domain.ErrConflict
		}
	}
	stored := *ev
	stored.Results = slices.Clone(ev.Results)
	st.evaluations[ev.ID] = stored
	return nil
}

func (r *GamificationRepo) GetEvaluation(_ context.Context, companyID, id string) (*entity.Evaluation, error) {
	st, done := r.read()
	defer done()
	ev, ok := st.evaluations[id]
	if !ok || ev.CompanyID != companyID {
		return nil, nil
	}
	ev.Results = slices.Clone(ev.Results)
	return &ev, nil
}

func (r *GamificationRepo) GetEvaluationByPeriod(_ context.Context, companyID string, periodStart time.Time) (*entity.Evaluation, error) {
	st, done := r.read()
	defer done()
	for _, ev := range st.evaluations {
		if ev.CompanyID == companyID && ev.PeriodStart.Equal(periodStart) {
			ev.Results = slices.Clone(ev.Results)
			return &ev, nil
		}
	}
	return nil, nil
}

func (r *GamificationRepo) ListEvaluations(_ context.Context, companyID string, limit, offset int) ([]*entity.Evaluation, error) {
	st, done := r.read()
	defer done()
	var list []entity.Evaluation
	for _, ev := range st.evaluations {
		if ev.CompanyID == companyID {
			ev.Results = nil
			list = append(list, ev)
		}
	}
	slices.SortFunc(list, func(a, b entity.Evaluation) int { return b.PeriodStart.Compare(a.PeriodStart) })
	return ptrs(page(list, limit, offset)), nil
}
