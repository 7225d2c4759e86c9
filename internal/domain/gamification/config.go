package gamification

import (
	"fmt"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/commission"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateConfig verifica los límites de porcentajes, la zona horaria y el tipo de período.
func ValidateConfig(cfg *entity.GamificationConfig) error {
	if cfg == nil {
		return domain.ErrInvalidInput
	}
	if _, err := Location(cfg); err != nil {
		return err
	}
	switch cfg.PeriodType {
	case entity.PeriodWeekly, entity.PeriodMonthly:
	case entity.PeriodCustom:
		if cfg.PeriodDays < 1 || cfg.AnchorDate.IsZero() {
			return fmt.Errorf("%w: período custom requiere period_days >= 1 y anchor_date", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo de período %q", domain.ErrInvalidInput, cfg.PeriodType)
	}

	for _, p := range []decimal.Decimal{cfg.BaseCommissionPct, cfg.MaxCommissionPct, cfg.BonusPcts[0], cfg.BonusPcts[1], cfg.BonusPcts[2]} {
		if err := commission.ValidatePct(p); err != nil {
			return err
		}
	}
	if cfg.BaseCommissionPct.GreaterThan(cfg.MaxCommissionPct) {
		return fmt.Errorf("%w: la comisión base supera el máximo", domain.ErrPercentageOutOfRange)
	}
	for i := range cfg.BonusPcts {
		if cfg.BaseCommissionPct.Add(cfg.BonusPcts[i]).GreaterThan(cfg.MaxCommissionPct) {
			return fmt.Errorf("%w: base + bono del puesto %d supera el máximo", domain.ErrPercentageOutOfRange, i+1)
		}
		if i > 0 && cfg.BonusPcts[i].GreaterThan(cfg.BonusPcts[i-1]) {
			return fmt.Errorf("%w: los bonos deben ser no crecientes", domain.ErrInvalidInput)
		}
	}
	if cfg.MinRevenue.IsNegative() {
		return fmt.Errorf("%w: min_revenue negativo", domain.ErrInvalidInput)
	}
	return nil
}
