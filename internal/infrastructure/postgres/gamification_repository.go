package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.GamificationRepository = (*GamificationRepo)(nil)

// GamificationRepo configuración del ranking y evaluaciones cerradas.
type GamificationRepo struct {
	q Querier
}

// NewGamificationRepository construye el adaptador. Pasar pool o tx.
func NewGamificationRepository(q Querier) *GamificationRepo {
	return &GamificationRepo{q: q}
}

const configColumns = `company_id, enabled, period_type, period_days, anchor_date, timezone, base_commission_pct,
	bonus_first_pct, bonus_second_pct, bonus_third_pct, max_commission_pct, min_revenue, recalculate_sales,
	updated_by, updated_at`

func scanConfig(row pgx.Row) (*entity.GamificationConfig, error) {
	var c entity.GamificationConfig
	var anchor *time.Time
	err := row.Scan(&c.CompanyID, &c.Enabled, &c.PeriodType, &c.PeriodDays, &anchor, &c.Timezone,
		&c.BaseCommissionPct, &c.BonusPcts[0], &c.BonusPcts[1], &c.BonusPcts[2], &c.MaxCommissionPct,
		&c.MinRevenue, &c.RecalculateSales, &c.UpdatedBy, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if anchor != nil {
		c.AnchorDate = anchor.UTC()
	}
	return &c, nil
}

func (r *GamificationRepo) GetConfig(ctx context.Context, companyID string) (*entity.GamificationConfig, error) {
	c, err := scanConfig(r.q.QueryRow(ctx, `SELECT `+configColumns+` FROM gamification_configs WHERE company_id = $1`, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gamification config: %w", err)
	}
	return c, nil
}

func (r *GamificationRepo) SaveConfig(ctx context.Context, c *entity.GamificationConfig) error {
	var anchor *time.Time
	if !c.AnchorDate.IsZero() {
		anchor = &c.AnchorDate
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO gamification_configs (`+configColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (company_id) DO UPDATE SET
		       enabled = EXCLUDED.enabled, period_type = EXCLUDED.period_type, period_days = EXCLUDED.period_days,
		       anchor_date = EXCLUDED.anchor_date, timezone = EXCLUDED.timezone,
		       base_commission_pct = EXCLUDED.base_commission_pct, bonus_first_pct = EXCLUDED.bonus_first_pct,
		       bonus_second_pct = EXCLUDED.bonus_second_pct, bonus_third_pct = EXCLUDED.bonus_third_pct,
		       max_commission_pct = EXCLUDED.max_commission_pct, min_revenue = EXCLUDED.min_revenue,
		       recalculate_sales = EXCLUDED.recalculate_sales, updated_by = EXCLUDED.updated_by,
		       updated_at = EXCLUDED.updated_at`,
		c.CompanyID, c.Enabled, c.PeriodType, c.PeriodDays, anchor, c.Timezone, c.BaseCommissionPct,
		c.BonusPcts[0], c.BonusPcts[1], c.BonusPcts[2], c.MaxCommissionPct, c.MinRevenue, c.RecalculateSales,
		c.UpdatedBy, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save gamification config: %w", err)
	}
	return nil
}

func (r *GamificationRepo) ListEnabledConfigs(ctx context.Context) ([]*entity.GamificationConfig, error) {
	rows, err := r.q.Query(ctx, `SELECT `+configColumns+` FROM gamification_configs WHERE enabled ORDER BY company_id`)
	if err != nil {
		return nil, fmt.Errorf("list enabled configs: %w", err)
	}
	defer rows.Close()
	list := []*entity.GamificationConfig{}
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gamification config: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CreateEvaluation inserta la evaluación y sus resultados. (empresa, inicio) repetido = ErrConflict.
func (r *GamificationRepo) CreateEvaluation(ctx context.Context, ev *entity.Evaluation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO gamification_evaluations (id, company_id, period_start, period_end, evaluated_at, evaluated_by, sales_adjusted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.CompanyID, ev.PeriodStart, ev.PeriodEnd, ev.EvaluatedAt, ev.EvaluatedBy, ev.SalesAdjusted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert evaluation: %w", err)
	}
	for _, res := range ev.Results {
		_, err := r.q.Exec(ctx, `
			INSERT INTO gamification_results (evaluation_id, distributor_id, rank, revenue, sales_count, previous_pct, new_pct)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ev.ID, res.DistributorID, res.Rank, res.Revenue, res.SalesCount, res.PreviousPct, res.NewPct,
		)
		if err != nil {
			return fmt.Errorf("insert evaluation result: %w", err)
		}
	}
	return nil
}

const evaluationColumns = `id, company_id, period_start, period_end, evaluated_at, evaluated_by, sales_adjusted`

func scanEvaluation(row pgx.Row) (*entity.Evaluation, error) {
	var ev entity.Evaluation
	if err := row.Scan(&ev.ID, &ev.CompanyID, &ev.PeriodStart, &ev.PeriodEnd, &ev.EvaluatedAt, &ev.EvaluatedBy, &ev.SalesAdjusted); err != nil {
		return nil, err
	}
	ev.PeriodStart, ev.PeriodEnd = ev.PeriodStart.UTC(), ev.PeriodEnd.UTC()
	return &ev, nil
}

func (r *GamificationRepo) getEvaluation(ctx context.Context, cond string, args ...any) (*entity.Evaluation, error) {
	ev, err := scanEvaluation(r.q.QueryRow(ctx, `SELECT `+evaluationColumns+` FROM gamification_evaluations WHERE `+cond, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	ev.Results, err = r.results(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// results en orden de podio; los no clasificados (rank 0) al final.
func (r *GamificationRepo) results(ctx context.Context, evaluationID string) ([]entity.EvaluationResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT evaluation_id, distributor_id, rank, revenue, sales_count, previous_pct, new_pct
		  FROM gamification_results
		 WHERE evaluation_id = $1
		 ORDER BY rank = 0, rank, revenue DESC, distributor_id`, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("list evaluation results: %w", err)
	}
	defer rows.Close()
	out := []entity.EvaluationResult{}
	for rows.Next() {
		var res entity.EvaluationResult
		if err := rows.Scan(&res.EvaluationID, &res.DistributorID, &res.Rank, &res.Revenue, &res.SalesCount,
			&res.PreviousPct, &res.NewPct); err != nil {
			return nil, fmt.Errorf("scan evaluation result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *GamificationRepo) GetEvaluation(ctx context.Context, companyID, id string) (*entity.Evaluation, error) {
	return r.getEvaluation(ctx, `company_id = $1 AND id = $2`, companyID, id)
}

func (r *GamificationRepo) GetEvaluationByPeriod(ctx context.Context, companyID string, periodStart time.Time) (*entity.Evaluation, error) {
	return r.getEvaluation(ctx, `company_id = $1 AND period_start = $2`, companyID, periodStart)
}

func (r *GamificationRepo) ListEvaluations(ctx context.Context, companyID string, limit, offset int) ([]*entity.Evaluation, error) {
	var w where
	w.add("company_id = ?", companyID)
	query := `SELECT ` + evaluationColumns + ` FROM gamification_evaluations` + w.String() +
		` ORDER BY period_start DESC` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()
	list := []*entity.Evaluation{}
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		list = append(list, ev)
	}
	return list, rows.Err()
}
