// Package scheduler cierra automáticamente los períodos de gamificación vencidos.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	rules "github.com/jhoicas/Distribuidores-api/internal/domain/gamification"
	"github.com/rs/zerolog"
)

// Evaluator lo implementa gamification.UseCase.
type Evaluator interface {
	EnabledConfigs(ctx context.Context) ([]*entity.GamificationConfig, error)
	DuePeriod(cfg *entity.GamificationConfig) (rules.Period, error)
	EvaluateDue(ctx context.Context, companyID string) (bool, error)
}

// Modules lo implementa usecase.ModuleService.
type Modules interface {
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}

// lockTTL cubre de sobra una evaluación; el candado se libera al terminar.
const lockTTL = 5 * time.Minute

// Scheduler recorre periódicamente las empresas con gamificación activa.
type Scheduler struct {
	evaluator Evaluator
	modules   Modules
	locker    ports.Locker
	interval  time.Duration
	log       zerolog.Logger
}

func New(evaluator Evaluator, modules Modules, locker ports.Locker, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		evaluator: evaluator,
		modules:   modules,
		locker:    locker,
		interval:  interval,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Run ejecuta una pasada inmediata y luego una por intervalo hasta que ctx se cancele.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("scheduler iniciado")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if n, err := s.Tick(ctx); err != nil {
			s.log.Error().Err(err).Msg("scheduler: pasada con errores")
		} else if n > 0 {
			s.log.Info().Int("evaluated", n).Msg("scheduler: períodos evaluados")
		}
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler detenido")
			return
		case <-ticker.C:
		}
	}
}

// Tick evalúa el último período cerrado de cada empresa elegible y devuelve cuántos se evaluaron.
// Un fallo en una empresa no detiene las demás; se devuelve el primer error.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	configs, err := s.evaluator.EnabledConfigs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listar configuraciones: %w", err)
	}
	evaluated := 0
	var firstErr error
	for _, cfg := range configs {
		if ctx.Err() != nil {
			return evaluated, ctx.Err()
		}
		ok, err := s.evaluateCompany(ctx, cfg)
		if err != nil {
			s.log.Error().Err(err).Str("company_id", cfg.CompanyID).Msg("scheduler: evaluación fallida")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			evaluated++
		}
	}
	return evaluated, firstErr
}

func (s *Scheduler) evaluateCompany(ctx context.Context, cfg *entity.GamificationConfig) (bool, error) {
	active, err := s.modules.HasActiveModule(ctx, cfg.CompanyID, entity.ModuleGamification)
	if err != nil {
		return false, err
	}
	if !active {
		return false, nil
	}
	period, err := s.evaluator.DuePeriod(cfg)
	if err != nil {
		return false, err
	}
	key := fmt.Sprintf("gamification:eval:%s:%d", cfg.CompanyID, period.Start.Unix())
	locked, err := s.locker.TryLock(ctx, key, lockTTL)
	if err != nil {
		return false, err
	}
	if !locked {
		s.log.Debug().Str("company_id", cfg.CompanyID).Msg("scheduler: otra instancia evalúa el período")
		return false, nil
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("scheduler: no se pudo liberar el candado")
		}
	}()
	return s.evaluator.EvaluateDue(ctx, cfg.CompanyID)
}
