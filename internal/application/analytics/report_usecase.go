package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	defaultTopN = 20
	maxTopN     = 200
)

// SalesSeries ingresos y utilidades agrupados por día o mes en la zona horaria de la empresa.
// Sin rango se usa el mes en curso. Los buckets sin ventas aparecen en cero.
func (s *Service) SalesSeries(ctx context.Context, actor dto.Actor, req dto.SalesSeriesRequest) (*dto.SalesSeriesDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	gran := req.Granularity
	if gran == "" {
		gran = "day"
	}
	if gran != "day" && gran != "month" {
		return nil, fmt.Errorf("%w: granularity debe ser day o month", domain.ErrInvalidInput)
	}
	loc, err := s.rankings.Location(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	from, to, err := s.resolveRange(req.DateRangeQuery, loc)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("series:%s:%d:%d", gran, from.Unix(), to.Unix())
	return cached(ctx, s, actor.CompanyID, name, func() (*dto.SalesSeriesDTO, error) {
		points, err := s.analytics.GetSalePoints(ctx, actor.CompanyID, from, to)
		if err != nil {
			return nil, fmt.Errorf("analytics: serie: %w", err)
		}
		layout := "2006-01-02"
		if gran == "month" {
			layout = "2006-01"
		}
		buckets := map[string]*dto.SeriesPointDTO{}
		var order []string
		// Recorre el calendario local para que existan todos los buckets, incluso vacíos
		for t := bucketStart(from.In(loc), gran); t.Before(to); t = nextBucket(t, gran) {
			k := t.Format(layout)
			if _, ok := buckets[k]; ok {
				continue
			}
			buckets[k] = &dto.SeriesPointDTO{Bucket: k, Revenue: decimal.Zero, Cost: decimal.Zero, AdminProfit: decimal.Zero, DistributorProfit: decimal.Zero}
			order = append(order, k)
		}
		for _, p := range points {
			b, ok := buckets[p.SaleDate.In(loc).Format(layout)]
			if !ok {
				continue
			}
			b.Revenue = b.Revenue.Add(p.Total)
			b.Cost = b.Cost.Add(p.Cost)
			b.AdminProfit = b.AdminProfit.Add(p.AdminProfit)
			b.DistributorProfit = b.DistributorProfit.Add(p.DistributorProfit)
			b.SalesCount++
		}
		out := &dto.SalesSeriesDTO{
			Granularity: gran,
			Timezone:    loc.String(),
			Period:      dto.PeriodDTO{Start: from.UTC(), End: to.UTC()},
			Points:      make([]dto.SeriesPointDTO, 0, len(order)),
		}
		for _, k := range order {
			b := buckets[k]
			b.Revenue = b.Revenue.Round(2)
			b.Cost = b.Cost.Round(2)
			b.AdminProfit = b.AdminProfit.Round(2)
			b.DistributorProfit = b.DistributorProfit.Round(2)
			out.Points = append(out.Points, *b)
		}
		return out, nil
	})
}

// ProductRanking ranking de productos por utilidad bruta con acumulado de ingresos y marca Pareto 80/20.
func (s *Service) ProductRanking(ctx context.Context, actor dto.Actor, req dto.ProductRankingRequest) (*dto.ProductRankingReportDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	n := req.TopN
	if n <= 0 {
		n = defaultTopN
	}
	if n > maxTopN {
		n = maxTopN
	}
	loc, err := s.rankings.Location(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	from, to, err := s.resolveRange(req.DateRangeQuery, loc)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("products:%d:%d:%d", n, from.Unix(), to.Unix())
	return cached(ctx, s, actor.CompanyID, name, func() (*dto.ProductRankingReportDTO, error) {
		// Todas las filas: los porcentajes se calculan sobre el ingreso total del rango
		rows, err := s.analytics.GetProductPerformance(ctx, actor.CompanyID, from, to, 0)
		if err != nil {
			return nil, fmt.Errorf("analytics: productos: %w", err)
		}
		ranking := buildProductRanking(rows)
		pareto := []string{}
		for _, r := range ranking {
			if r.IsTopPareto {
				pareto = append(pareto, r.SKU)
			}
		}
		return &dto.ProductRankingReportDTO{
			Period:     dto.PeriodDTO{Start: from.UTC(), End: to.UTC()},
			Products:   topN(ranking, n),
			ParetoSKUs: pareto,
		}, nil
	})
}

// resolveRange rango [from, to) de la consulta; por defecto el mes en curso hasta el final de hoy.
func (s *Service) resolveRange(q dto.DateRangeQuery, loc *time.Location) (time.Time, time.Time, error) {
	fromPtr, toPtr, err := q.Parse(loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	_, tomorrow, monthStart := dayBounds(s.now(), loc)
	from, to := monthStart, tomorrow
	if fromPtr != nil {
		from = *fromPtr
	}
	if toPtr != nil {
		to = *toPtr
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: rango vacío", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func bucketStart(t time.Time, gran string) time.Time {
	y, m, d := t.Date()
	if gran == "month" {
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	}
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextBucket(t time.Time, gran string) time.Time {
	if gran == "month" {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}
