package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GamificationConfigDTO entrada y salida de la configuración del ranking.
type GamificationConfigDTO struct {
	Enabled           bool               `json:"enabled"`
	PeriodType        string             `json:"period_type" validate:"required,oneof=weekly monthly custom"`
	PeriodDays        int                `json:"period_days" validate:"min=0,max=366"`
	AnchorDate        string             `json:"anchor_date" validate:"omitempty,datetime=2006-01-02"`
	Timezone          string             `json:"timezone" validate:"required"`
	BaseCommissionPct decimal.Decimal    `json:"base_commission_pct"`
	BonusPcts         [3]decimal.Decimal `json:"bonus_pcts"`
	MaxCommissionPct  decimal.Decimal    `json:"max_commission_pct"`
	MinRevenue        decimal.Decimal    `json:"min_revenue"`
	RecalculateSales  bool               `json:"recalculate_sales"`
	UpdatedBy         string             `json:"updated_by,omitempty"`
	UpdatedAt         *time.Time         `json:"updated_at,omitempty"`
}

// EvaluateRequest período a evaluar; vacío = último período cerrado.
type EvaluateRequest struct {
	PeriodStart *time.Time `json:"period_start"`
}

// PeriodDTO período de evaluación [start, end).
type PeriodDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// EvaluationResultDTO posición de un distribuidor.
type EvaluationResultDTO struct {
	DistributorID   string          `json:"distributor_id"`
	DistributorName string          `json:"distributor_name,omitempty"`
	Rank            int             `json:"rank"`
	Revenue         decimal.Decimal `json:"revenue"`
	SalesCount      int             `json:"sales_count"`
	PreviousPct     decimal.Decimal `json:"previous_pct"`
	NewPct          decimal.Decimal `json:"new_pct"`
}

// EvaluationDTO evaluación persistida.
type EvaluationDTO struct {
	ID            string                `json:"id"`
	Period        PeriodDTO             `json:"period"`
	EvaluatedAt   time.Time             `json:"evaluated_at"`
	EvaluatedBy   string                `json:"evaluated_by"`
	SalesAdjusted int                   `json:"sales_adjusted"`
	Results       []EvaluationResultDTO `json:"results,omitempty"`
}

// EvaluationListResponse lista paginada de evaluaciones.
type EvaluationListResponse struct {
	Items []EvaluationDTO `json:"items"`
	Page  PageResponse    `json:"page"`
}

// LeaderboardRequest parámetros de GET /api/gamification/leaderboard.
type LeaderboardRequest struct {
	Which string `query:"which" validate:"omitempty,oneof=current previous"`
}

// LeaderboardEntryDTO posición en el ranking en vivo. ProjectedPct es el porcentaje que obtendría si el período cerrara ahora.
type LeaderboardEntryDTO struct {
	Position        int             `json:"position"`
	DistributorID   string          `json:"distributor_id"`
	DistributorName string          `json:"distributor_name"`
	Rank            int             `json:"rank"`
	Revenue         decimal.Decimal `json:"revenue"`
	SalesCount      int             `json:"sales_count"`
	CurrentPct      decimal.Decimal `json:"current_pct"`
	ProjectedPct    decimal.Decimal `json:"projected_pct"`
}

// LeaderboardDTO ranking sin persistir.
type LeaderboardDTO struct {
	Period    PeriodDTO             `json:"period"`
	Evaluated bool                  `json:"evaluated"`
	Entries   []LeaderboardEntryDTO `json:"entries"`
}
