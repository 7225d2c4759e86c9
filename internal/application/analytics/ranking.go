package analytics

import (
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const paretoThreshold = 80 // Principio de Pareto: el top 20% de productos genera el 80% de ingresos

var (
	hundred  = decimal.NewFromInt(100)
	pareto80 = decimal.NewFromInt(paretoThreshold)
)

// buildProductRanking convierte los productos (ya ordenados por utilidad bruta) en DTOs enriquecidos con:
//   - Rank (posición ordinal por utilidad bruta descendente).
//   - MarginPct y RevenuePct por producto.
//   - CumulativeRevenuePct acumulado (para curva Pareto).
//   - IsTopPareto: true si el producto cae dentro del primer 80% de ingresos acumulados.
//
// Los porcentajes se calculan sobre el total de todas las filas recibidas.
func buildProductRanking(rows []repository.ProductPerformance) []dto.ProductRankingDTO {
	if len(rows) == 0 {
		return []dto.ProductRankingDTO{}
	}

	var totalRevenue decimal.Decimal
	for _, r := range rows {
		totalRevenue = totalRevenue.Add(r.Revenue)
	}

	ranking := make([]dto.ProductRankingDTO, 0, len(rows))
	var cumulative decimal.Decimal

	for i, r := range rows {
		marginPct := decimal.Zero
		if r.Revenue.IsPositive() {
			marginPct = r.GrossProfit.Div(r.Revenue).Mul(hundred).Round(2)
		}
		revenuePct := decimal.Zero
		if totalRevenue.IsPositive() {
			revenuePct = r.Revenue.Div(totalRevenue).Mul(hundred).Round(2)
		}

		cumulative = cumulative.Add(revenuePct)
		// Incluimos el producto que cruza el umbral (el principio del 80/20 es aproximado)
		isPareto := cumulative.LessThanOrEqual(pareto80) || (i == 0)

		ranking = append(ranking, dto.ProductRankingDTO{
			Rank:             i + 1,
			ProductID:        r.ProductID,
			SKU:              r.SKU,
			ProductName:      r.ProductName,
			UnitsSold:        r.Units,
			GrossRevenue:     r.Revenue.Round(2),
			TotalCost:        r.Cost.Round(2),
			GrossProfit:      r.GrossProfit.Round(2),
			MarginPct:        marginPct,
			RevenuePct:       revenuePct,
			CumulativeRevPct: cumulative.Round(2),
			IsTopPareto:      isPareto,
		})
	}
	return ranking
}

func topN(ranking []dto.ProductRankingDTO, n int) []dto.ProductRankingDTO {
	if n > 0 && len(ranking) > n {
		return ranking[:n]
	}
	return ranking
}
