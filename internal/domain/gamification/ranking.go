package gamification

import (
	"sort"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Standing ingreso confirmado de un distribuidor dentro de un período.
type Standing struct {
	DistributorID string
	Revenue       decimal.Decimal
	SalesCount    int
}

// Placement posición calculada y porcentaje resultante.
type Placement struct {
	DistributorID string
	Rank          int // 1..PodiumSize; 0 = fuera del podio
	Revenue       decimal.Decimal
	SalesCount    int
	PreviousPct   decimal.Decimal
	NewPct        decimal.Decimal
}

// Rank ordena a los distribuidores por ingreso (desc), cantidad de ventas (desc) e ID (asc)
// y asigna base + bono a los primeros PodiumSize que superen MinRevenue. El resto queda en la base.
// current contiene el porcentaje vigente de cada distribuidor (para PreviousPct).
func Rank(cfg *entity.GamificationConfig, standings []Standing, current map[string]decimal.Decimal) []Placement {
	sorted := make([]Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if a.SalesCount != b.SalesCount {
			return a.SalesCount > b.SalesCount
		}
		return a.DistributorID < b.DistributorID
	})

	base := clamp(cfg.BaseCommissionPct, cfg.MaxCommissionPct)
	placements := make([]Placement, 0, len(sorted))
	podium := 0
	for _, s := range sorted {
		p := Placement{
			DistributorID: s.DistributorID,
			Revenue:       s.Revenue,
			SalesCount:    s.SalesCount,
			PreviousPct:   current[s.DistributorID],
			NewPct:        base,
		}
		if podium < entity.PodiumSize && qualifies(cfg, s) {
			p.Rank = podium + 1
			p.NewPct = clamp(cfg.BaseCommissionPct.Add(cfg.BonusPcts[podium]), cfg.MaxCommissionPct)
			podium++
		}
		placements = append(placements, p)
	}
	return placements
}

func qualifies(cfg *entity.GamificationConfig, s Standing) bool {
	return s.Revenue.IsPositive() && s.Revenue.GreaterThanOrEqual(cfg.MinRevenue)
}

// clamp limita el porcentaje a [0, max] y nunca por encima de 100.
func clamp(pct, max decimal.Decimal) decimal.Decimal {
	if max.GreaterThan(hundred) {
		max = hundred
	}
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(max) {
		return max
	}
	return pct
}

var hundred = decimal.NewFromInt(100)
