package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// GamificationRepository define el puerto de persistencia de la configuración y las evaluaciones del ranking.
type GamificationRepository interface {
	// GetConfig devuelve nil si la empresa no ha guardado configuración.
	GetConfig(ctx context.Context, companyID string) (*entity.GamificationConfig, error)
	SaveConfig(ctx context.Context, cfg *entity.GamificationConfig) error
	ListEnabledConfigs(ctx context.Context) ([]*entity.GamificationConfig, error)

	// CreateEvaluation persiste la evaluación con sus resultados. Una evaluación por (empresa, inicio de período):
	// un duplicado devuelve domain.ErrConflict.
	CreateEvaluation(ctx context.Context, ev *entity.Evaluation) error
	GetEvaluation(ctx context.Context, companyID, id string) (*entity.Evaluation, error)
	GetEvaluationByPeriod(ctx context.Context, companyID string, periodStart time.Time) (*entity.Evaluation, error)
	// ListEvaluations no incluye Results.
	ListEvaluations(ctx context.Context, companyID string, limit, offset int) ([]*entity.Evaluation, error)
}
