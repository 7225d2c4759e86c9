// Package gamification orquesta la configuración del ranking, la evaluación de períodos
// y el tablero en vivo de distribuidores.
package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/application/sales"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	rules "github.com/jhoicas/Distribuidores-api/internal/domain/gamification"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Disparadores de una evaluación (etiqueta de métricas).
const (
	TriggerManual    = "manual"
	TriggerScheduler = "scheduler"
)

// SystemActor identidad usada por el scheduler en auditoría y evaluaciones.
const SystemActor = "system"

// UseCase casos de uso de gamificación.
type UseCase struct {
	tx       repository.TxRunner
	repo     repository.GamificationRepository
	users    repository.UserRepository
	sales    repository.SaleRepository
	cache    ports.Cache
	recorder *audit.Recorder
	metrics  ports.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// Deps dependencias del caso de uso.
type Deps struct {
	Tx       repository.TxRunner
	Repo     repository.GamificationRepository
	Users    repository.UserRepository
	Sales    repository.SaleRepository
	Cache    ports.Cache
	Recorder *audit.Recorder
	Metrics  ports.Metrics
	Log      zerolog.Logger
	Now      func() time.Time // nil = time.Now
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Metrics == nil {
		d.Metrics = ports.NoopMetrics{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &UseCase{
		tx:       d.Tx,
		repo:     d.Repo,
		users:    d.Users,
		sales:    d.Sales,
		cache:    d.Cache,
		recorder: d.Recorder,
		metrics:  d.Metrics,
		log:      d.Log,
		now:      d.Now,
	}
}

var _ ports.Zones = (*UseCase)(nil)

// config devuelve la configuración guardada o la de por defecto.
func (uc *UseCase) config(ctx context.Context, companyID string) (*entity.GamificationConfig, error) {
	cfg, err := uc.repo.GetConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = entity.DefaultGamificationConfig(companyID)
	}
	return cfg, nil
}

// Location zona horaria de negocio de la empresa.
func (uc *UseCase) Location(ctx context.Context, companyID string) (*time.Location, error) {
	cfg, err := uc.config(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return rules.Location(cfg)
}

// GetConfig configuración vigente (o la de por defecto si la empresa no la ha guardado).
func (uc *UseCase) GetConfig(ctx context.Context, companyID string) (*dto.GamificationConfigDTO, error) {
	cfg, err := uc.config(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toConfigDTO(cfg), nil
}

// UpdateConfig valida y guarda la configuración (administrador).
func (uc *UseCase) UpdateConfig(ctx context.Context, actor dto.Actor, in dto.GamificationConfigDTO) (*dto.GamificationConfigDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	cfg := &entity.GamificationConfig{
		CompanyID:         actor.CompanyID,
		Enabled:           in.Enabled,
		PeriodType:        in.PeriodType,
		PeriodDays:        in.PeriodDays,
		Timezone:          in.Timezone,
		BaseCommissionPct: in.BaseCommissionPct,
		BonusPcts:         in.BonusPcts,
		MaxCommissionPct:  in.MaxCommissionPct,
		MinRevenue:        in.MinRevenue,
		RecalculateSales:  in.RecalculateSales,
		UpdatedBy:         actor.UserID,
		UpdatedAt:         uc.now().UTC(),
	}
	switch cfg.PeriodType {
	case entity.PeriodWeekly:
		cfg.PeriodDays = 7
	case entity.PeriodMonthly:
		cfg.PeriodDays = 0
	}
	if in.AnchorDate != "" {
		anchor, err := time.Parse("2006-01-02", in.AnchorDate)
		if err != nil {
			return nil, fmt.Errorf("%w: anchor_date", domain.ErrInvalidInput)
		}
		cfg.AnchorDate = anchor
	}
	if err := rules.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	previous, err := uc.repo.GetConfig(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SaveConfig(ctx, cfg); err != nil {
		return nil, err
	}
	details := map[string]any{"to": toConfigDTO(cfg)}
	if previous != nil {
		details["from"] = toConfigDTO(previous)
	}
	uc.recorder.Record(ctx, actor, entity.AuditGamificationConfig, "gamification_config", actor.CompanyID, details)
	uc.invalidate(ctx, actor.CompanyID)
	return toConfigDTO(cfg), nil
}

// Evaluate cierra un período: ranking, nuevos porcentajes y, si está configurado, recálculo de ventas.
// Sin PeriodStart se evalúa el último período cerrado.
func (uc *UseCase) Evaluate(ctx context.Context, actor dto.Actor, in dto.EvaluateRequest) (*dto.EvaluationDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	cfg, err := uc.config(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, domain.ErrGamificationDisabled
	}
	now := uc.now()
	var p rules.Period
	if in.PeriodStart == nil {
		p, err = rules.LastClosedPeriod(cfg, now)
	} else {
		p, err = rules.PeriodContaining(cfg, *in.PeriodStart)
	}
	if err != nil {
		return nil, err
	}
	ev, err := uc.evaluate(ctx, actor, cfg, p, TriggerManual)
	if err != nil {
		return nil, err
	}
	return uc.toEvaluationDTO(ctx, actor.CompanyID, ev), nil
}

// EvaluateDue evalúa el último período cerrado de la empresa si aún no se ha evaluado.
// Devuelve false sin error cuando no hay nada que hacer.
func (uc *UseCase) EvaluateDue(ctx context.Context, companyID string) (bool, error) {
	cfg, err := uc.config(ctx, companyID)
	if err != nil {
		return false, err
	}
	if !cfg.Enabled {
		return false, nil
	}
	p, err := rules.LastClosedPeriod(cfg, uc.now())
	if err != nil {
		return false, err
	}
	existing, err := uc.repo.GetEvaluationByPeriod(ctx, companyID, p.Start)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	actor := dto.Actor{UserID: SystemActor, CompanyID: companyID, Role: SystemActor}
	if _, err := uc.evaluate(ctx, actor, cfg, p, TriggerScheduler); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DuePeriod último período cerrado de una configuración (clave del candado del scheduler).
func (uc *UseCase) DuePeriod(cfg *entity.GamificationConfig) (rules.Period, error) {
	return rules.LastClosedPeriod(cfg, uc.now())
}

// EnabledConfigs configuraciones con gamificación activa (para el scheduler).
func (uc *UseCase) EnabledConfigs(ctx context.Context) ([]*entity.GamificationConfig, error) {
	return uc.repo.ListEnabledConfigs(ctx)
}

func (uc *UseCase) evaluate(ctx context.Context, actor dto.Actor, cfg *entity.GamificationConfig, p rules.Period, trigger string) (*entity.Evaluation, error) {
	now := uc.now().UTC()
	if p.End.After(now) {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrPeriodNotClosed)
	}
	existing, err := uc.repo.GetEvaluationByPeriod(ctx, cfg.CompanyID, p.Start)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el período ya fue evaluado", domain.ErrConflict)
	}

	ev := &entity.Evaluation{
		ID:          uuid.New().String(),
		CompanyID:   cfg.CompanyID,
		PeriodStart: p.Start,
		PeriodEnd:   p.End,
		EvaluatedAt: now,
		EvaluatedBy: actor.UserID,
	}
	var adjustments int
	err = uc.tx.Run(ctx, func(tx repository.Tx) error {
		placements, err := standings(ctx, tx.Users, tx.Sales, cfg, p)
		if err != nil {
			return err
		}
		for _, pl := range placements {
			if !pl.NewPct.Equal(pl.PreviousPct) {
				if err := tx.Users.UpdateCommissionPct(ctx, cfg.CompanyID, pl.DistributorID, pl.NewPct); err != nil {
					return err
				}
			}
			ev.Results = append(ev.Results, entity.EvaluationResult{
				EvaluationID:  ev.ID,
				DistributorID: pl.DistributorID,
				Rank:          pl.Rank,
				Revenue:       pl.Revenue,
				SalesCount:    pl.SalesCount,
				PreviousPct:   pl.PreviousPct,
				NewPct:        pl.NewPct,
			})
		}
		if cfg.RecalculateSales {
			res, err := sales.RecalculateInTx(ctx, tx, cfg.CompanyID, p.Start, p.End, actor.UserID, ev.ID)
			if err != nil {
				return err
			}
			ev.SalesAdjusted = res.Adjusted
			adjustments = len(res.Entries)
		}
		return tx.Gamification.CreateEvaluation(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	placed := 0
	for _, r := range ev.Results {
		if r.Rank > 0 {
			placed++
		}
	}
	uc.metrics.EvaluationCompleted(cfg.CompanyID, trigger, placed)
	uc.metrics.LedgerEntries(cfg.CompanyID, entity.EntryAdjustment, adjustments)
	uc.invalidate(ctx, cfg.CompanyID)
	uc.recorder.Record(ctx, actor, entity.AuditGamificationEval, "evaluation", ev.ID, map[string]any{
		"period_start":   p.Start,
		"period_end":     p.End,
		"trigger":        trigger,
		"placed":         placed,
		"sales_adjusted": ev.SalesAdjusted,
	})
	uc.log.Info().
		Str("company_id", cfg.CompanyID).
		Time("period_start", p.Start).
		Str("trigger", trigger).
		Int("distributors", len(ev.Results)).
		Int("sales_adjusted", ev.SalesAdjusted).
		Msg("gamification: período evaluado")
	return ev, nil
}

// standings ranking de los distribuidores activos con su ingreso confirmado del período.
func standings(ctx context.Context, users repository.UserRepository, salesRepo repository.SaleRepository, cfg *entity.GamificationConfig, p rules.Period) ([]rules.Placement, error) {
	distributors, err := users.List(ctx, repository.UserFilter{
		CompanyID: cfg.CompanyID,
		Role:      entity.RoleDistribuidor,
		Status:    entity.UserStatusActive,
	})
	if err != nil {
		return nil, err
	}
	revenue, err := salesRepo.RevenueByDistributor(ctx, cfg.CompanyID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]repository.DistributorRevenue, len(revenue))
	for _, r := range revenue {
		byID[r.DistributorID] = r
	}
	current := make(map[string]decimal.Decimal, len(distributors))
	list := make([]rules.Standing, 0, len(distributors))
	for _, u := range distributors {
		current[u.ID] = u.CommissionPct
		r := byID[u.ID]
		list = append(list, rules.Standing{DistributorID: u.ID, Revenue: r.Revenue, SalesCount: r.SalesCount})
	}
	return rules.Rank(cfg, list, current), nil
}

// Leaderboard ranking en vivo del período actual o del anterior, sin persistir.
func (uc *UseCase) Leaderboard(ctx context.Context, companyID, which string) (*dto.LeaderboardDTO, error) {
	cfg, err := uc.config(ctx, companyID)
	if err != nil {
		return nil, err
	}
	p, err := rules.PeriodContaining(cfg, uc.now())
	if err != nil {
		return nil, err
	}
	switch which {
	case "", "current":
	case "previous":
		if p, err = rules.PreviousPeriod(cfg, p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: which debe ser current o previous", domain.ErrInvalidInput)
	}
	placements, err := standings(ctx, uc.users, uc.sales, cfg, p)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetEvaluationByPeriod(ctx, companyID, p.Start)
	if err != nil {
		return nil, err
	}
	names, err := uc.names(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := &dto.LeaderboardDTO{
		Period:    dto.PeriodDTO{Start: p.Start, End: p.End},
		Evaluated: existing != nil,
		Entries:   make([]dto.LeaderboardEntryDTO, 0, len(placements)),
	}
	for i, pl := range placements {
		out.Entries = append(out.Entries, dto.LeaderboardEntryDTO{
			Position:        i + 1,
			DistributorID:   pl.DistributorID,
			DistributorName: names[pl.DistributorID],
			Rank:            pl.Rank,
			Revenue:         pl.Revenue,
			SalesCount:      pl.SalesCount,
			CurrentPct:      pl.PreviousPct,
			ProjectedPct:    pl.NewPct,
		})
	}
	return out, nil
}

// ListEvaluations evaluaciones de la empresa, más recientes primero (sin resultados).
func (uc *UseCase) ListEvaluations(ctx context.Context, companyID string, page dto.PageRequest) (*dto.EvaluationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListEvaluations(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EvaluationDTO, 0, len(list))
	for _, ev := range list {
		items = append(items, *uc.toEvaluationDTO(ctx, companyID, ev))
	}
	return &dto.EvaluationListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// GetEvaluation evaluación con sus resultados.
func (uc *UseCase) GetEvaluation(ctx context.Context, companyID, id string) (*dto.EvaluationDTO, error) {
	ev, err := uc.repo.GetEvaluation(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toEvaluationDTO(ctx, companyID, ev), nil
}

// names nombres de los distribuidores de la empresa para enriquecer respuestas.
func (uc *UseCase) names(ctx context.Context, companyID string) (map[string]string, error) {
	list, err := uc.users.List(ctx, repository.UserFilter{CompanyID: companyID, Role: entity.RoleDistribuidor})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, u := range list {
		out[u.ID] = u.Name
	}
	return out, nil
}

func (uc *UseCase) toEvaluationDTO(ctx context.Context, companyID string, ev *entity.Evaluation) *dto.EvaluationDTO {
	out := &dto.EvaluationDTO{
		ID:            ev.ID,
		Period:        dto.PeriodDTO{Start: ev.PeriodStart, End: ev.PeriodEnd},
		EvaluatedAt:   ev.EvaluatedAt,
		EvaluatedBy:   ev.EvaluatedBy,
		SalesAdjusted: ev.SalesAdjusted,
	}
	if len(ev.Results) == 0 {
		return out
	}
	names, err := uc.names(ctx, companyID)
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("gamification: no se pudieron cargar los nombres")
	}
	for _, r := range ev.Results {
		out.Results = append(out.Results, dto.EvaluationResultDTO{
			DistributorID:   r.DistributorID,
			DistributorName: names[r.DistributorID],
			Rank:            r.Rank,
			Revenue:         r.Revenue,
			SalesCount:      r.SalesCount,
			PreviousPct:     r.PreviousPct,
			NewPct:          r.NewPct,
		})
	}
	return out
}

func (uc *UseCase) invalidate(ctx context.Context, companyID string) {
	if err := ports.BumpAnalyticsVersion(ctx, uc.cache, companyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("gamification: no se pudo invalidar la caché de analítica")
	}
}

func toConfigDTO(cfg *entity.GamificationConfig) *dto.GamificationConfigDTO {
	out := &dto.GamificationConfigDTO{
		Enabled:           cfg.Enabled,
		PeriodType:        cfg.PeriodType,
		PeriodDays:        cfg.PeriodDays,
		Timezone:          cfg.Timezone,
		BaseCommissionPct: cfg.BaseCommissionPct,
		BonusPcts:         cfg.BonusPcts,
		MaxCommissionPct:  cfg.MaxCommissionPct,
		MinRevenue:        cfg.MinRevenue,
		RecalculateSales:  cfg.RecalculateSales,
		UpdatedBy:         cfg.UpdatedBy,
	}
	if !cfg.AnchorDate.IsZero() {
		out.AnchorDate = cfg.AnchorDate.Format("2006-01-02")
	}
	if !cfg.UpdatedAt.IsZero() {
		t := cfg.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
