// Package gamification contiene la aritmética de períodos y el motor de ranking de distribuidores.
package gamification

import (
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// Period intervalo semiabierto [Start, End) expresado en UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains informa si t cae dentro del período.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Location carga la zona horaria configurada.
func Location(cfg *entity.GamificationConfig) (*time.Location, error) {
	name := cfg.Timezone
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: zona horaria %q", domain.ErrInvalidInput, name)
	}
	return loc, nil
}

// PeriodContaining devuelve el período de evaluación que contiene al instante t.
// Los límites son medianoche local; se usa aritmética de calendario (AddDate) para que
// los días con cambio de horario duren 23 o 25 horas sin desplazar los límites.
func PeriodContaining(cfg *entity.GamificationConfig, t time.Time) (Period, error) {
	loc, err := Location(cfg)
	if err != nil {
		return Period{}, err
	}
	local := t.In(loc)
	y, m, d := local.Date()

	var start, end time.Time
	switch cfg.PeriodType {
	case entity.PeriodWeekly:
		offset := (int(local.Weekday()) + 6) % 7 // lunes = 0
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		end = time.Date(y, m, d-offset+7, 0, 0, 0, 0, loc)
	case entity.PeriodMonthly:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	case entity.PeriodCustom:
		if cfg.PeriodDays < 1 || cfg.AnchorDate.IsZero() {
			return Period{}, domain.ErrInvalidInput
		}
		ay, am, ad := cfg.AnchorDate.Date()
		days := civilDays(ay, am, ad, y, m, d)
		k := floorDiv(days, cfg.PeriodDays)
		start = time.Date(ay, am, ad+k*cfg.PeriodDays, 0, 0, 0, 0, loc)
		end = time.Date(ay, am, ad+(k+1)*cfg.PeriodDays, 0, 0, 0, 0, loc)
	default:
		return Period{}, fmt.Errorf("%w: tipo de período %q", domain.ErrInvalidInput, cfg.PeriodType)
	}
	return Period{Start: start.UTC(), End: end.UTC()}, nil
}

// PreviousPeriod devuelve el período inmediatamente anterior a p.
func PreviousPeriod(cfg *entity.GamificationConfig, p Period) (Period, error) {
	return PeriodContaining(cfg, p.Start.Add(-time.Nanosecond))
}

// LastClosedPeriod devuelve el último período completamente terminado antes de now.
func LastClosedPeriod(cfg *entity.GamificationConfig, now time.Time) (Period, error) {
	current, err := PeriodContaining(cfg, now)
	if err != nil {
		return Period{}, err
	}
	return PreviousPeriod(cfg, current)
}

// civilDays cantidad de días de calendario entre dos fechas (sin zona horaria).
func civilDays(y1 int, m1 time.Month, d1 int, y2 int, m2 time.Month, d2 int) int {
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
