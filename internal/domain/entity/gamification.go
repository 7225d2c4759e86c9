package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de período de evaluación.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodCustom  = "custom"
)

// PodiumSize cantidad de puestos premiados en cada evaluación.
const PodiumSize = 3

// GamificationConfig parámetros del ranking de distribuidores de una empresa.
type GamificationConfig struct {
	CompanyID         string
	Enabled           bool
	PeriodType        string
	PeriodDays        int       // solo custom
	AnchorDate        time.Time // solo custom; se interpreta como fecha local en Timezone
	Timezone          string    // IANA, ej. America/Bogota
	BaseCommissionPct decimal.Decimal
	BonusPcts         [PodiumSize]decimal.Decimal // 1er, 2do y 3er puesto
	MaxCommissionPct  decimal.Decimal
	MinRevenue        decimal.Decimal
	RecalculateSales  bool
	UpdatedBy         string
	UpdatedAt         time.Time
}

// DefaultGamificationConfig configuración usada cuando la empresa aún no ha guardado la suya.
func DefaultGamificationConfig(companyID string) *GamificationConfig {
	return &GamificationConfig{
		CompanyID:         companyID,
		Enabled:           false,
		PeriodType:        PeriodWeekly,
		PeriodDays:        7,
		Timezone:          "UTC",
		BaseCommissionPct: decimal.Zero,
		BonusPcts: [PodiumSize]decimal.Decimal{
			decimal.NewFromInt(5), decimal.NewFromInt(3), decimal.NewFromInt(1),
		},
		MaxCommissionPct: decimal.NewFromInt(100),
		MinRevenue:       decimal.Zero,
		RecalculateSales: true,
	}
}

// Evaluation resultado persistido de cerrar un período de ranking.
type Evaluation struct {
	ID            string
	CompanyID     string
	PeriodStart   time.Time // UTC, inclusivo
	PeriodEnd     time.Time // UTC, exclusivo
	EvaluatedAt   time.Time
	EvaluatedBy   string // ID de usuario o "system"
	SalesAdjusted int
	Results       []EvaluationResult
}

// EvaluationResult posición de un distribuidor en una evaluación.
type EvaluationResult struct {
	EvaluationID  string
	DistributorID string
	Rank          int // 0 = no clasificó al podio
	Revenue       decimal.Decimal
	SalesCount    int
	PreviousPct   decimal.Decimal
	NewPct        decimal.Decimal
}
