package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardTopProducts = 5  // número de productos en el widget del dashboard
	dashboardLowStock    = 20 // máximo de alertas de stock bajo
)

// AdminDashboard KPIs de hoy y del mes en curso, top productos, tablero en vivo y alertas de stock.
//
// Consultas en paralelo:
//  1. GetSalesSummary(hoy)
//  2. GetSalesSummary(mes)
//  3. GetProductPerformance(mes) → top 5 con Pareto
//  4. Leaderboard(período actual) si la gamificación está habilitada
//  5. ListLowStock
func (s *Service) AdminDashboard(ctx context.Context, actor dto.Actor) (*dto.AdminDashboardDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return cached(ctx, s, actor.CompanyID, "dashboard:admin", func() (*dto.AdminDashboardDTO, error) {
		return s.buildAdminDashboard(ctx, actor.CompanyID)
	})
}

func (s *Service) buildAdminDashboard(ctx context.Context, companyID string) (*dto.AdminDashboardDTO, error) {
	loc, err := s.rankings.Location(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	todayStart, tomorrow, monthStart := dayBounds(now, loc)

	var (
		today, month repository.SalesSummary
		perf         []repository.ProductPerformance
		board        *dto.LeaderboardDTO
		lowStock     []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if today, err = s.analytics.GetSalesSummary(gctx, companyID, "", todayStart, tomorrow); err != nil {
			return fmt.Errorf("dashboard: métricas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if month, err = s.analytics.GetSalesSummary(gctx, companyID, "", monthStart, tomorrow); err != nil {
			return fmt.Errorf("dashboard: métricas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if perf, err = s.analytics.GetProductPerformance(gctx, companyID, monthStart, tomorrow, 0); err != nil {
			return fmt.Errorf("dashboard: productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		cfg, err := s.rankings.GetConfig(gctx, companyID)
		if err != nil {
			return fmt.Errorf("dashboard: configuración de gamificación: %w", err)
		}
		if !cfg.Enabled {
			return nil
		}
		if board, err = s.rankings.Leaderboard(gctx, companyID, "current"); err != nil {
			return fmt.Errorf("dashboard: tablero: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if lowStock, err = s.products.ListLowStock(gctx, companyID, dashboardLowStock); err != nil {
			return fmt.Errorf("dashboard: stock bajo: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	alerts := make([]dto.LowStockDTO, 0, len(lowStock))
	for _, p := range lowStock {
		alerts = append(alerts, dto.LowStockDTO{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: p.LowStockThreshold,
		})
	}
	return &dto.AdminDashboardDTO{
		Today:       toFigures(today),
		Month:       toFigures(month),
		TopProducts: topN(buildProductRanking(perf), dashboardTopProducts),
		Leaderboard: board,
		LowStock:    alerts,
		Timezone:    loc.String(),
		DateLabel:   monthLabel(now.In(loc)),
	}, nil
}

// DistributorDashboard resumen propio del distribuidor. El administrador puede consultar el de cualquiera.
func (s *Service) DistributorDashboard(ctx context.Context, actor dto.Actor, distributorID string) (*dto.DistributorDashboardDTO, error) {
	if !actor.IsAdmin() {
		if distributorID != "" && distributorID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		distributorID = actor.UserID
	}
	if distributorID == "" {
		return nil, fmt.Errorf("%w: distributor_id requerido", domain.ErrInvalidInput)
	}
	u, err := s.users.GetInCompany(ctx, actor.CompanyID, distributorID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != entity.RoleDistribuidor {
		return nil, domain.ErrUserNotFound
	}
	return cached(ctx, s, actor.CompanyID, "dashboard:distributor:"+distributorID, func() (*dto.DistributorDashboardDTO, error) {
		return s.buildDistributorDashboard(ctx, actor.CompanyID, u)
	})
}

func (s *Service) buildDistributorDashboard(ctx context.Context, companyID string, u *entity.User) (*dto.DistributorDashboardDTO, error) {
	loc, err := s.rankings.Location(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	_, tomorrow, monthStart := dayBounds(now, loc)

	out := &dto.DistributorDashboardDTO{
		CommissionPct: u.CommissionPct,
		ProjectedPct:  u.CommissionPct,
		Timezone:      loc.String(),
		DateLabel:     monthLabel(now.In(loc)),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.analytics.GetSalesSummary(gctx, companyID, u.ID, monthStart, tomorrow)
		if err != nil {
			return fmt.Errorf("dashboard: métricas del mes: %w", err)
		}
		out.MonthRevenue = sum.Revenue.Round(2)
		out.MonthProfit = sum.DistributorProfit.Round(2)
		return nil
	})
	g.Go(func() error {
		bal, err := s.ledger.GetBalance(gctx, companyID, entity.AccountDistributor, u.ID)
		if err != nil {
			return fmt.Errorf("dashboard: saldo: %w", err)
		}
		if bal != nil {
			out.Balance = bal.Balance
		}
		return nil
	})
	g.Go(func() error {
		n, err := s.stock.TotalUnits(gctx, companyID, u.ID)
		if err != nil {
			return fmt.Errorf("dashboard: stock: %w", err)
		}
		out.UnitsInStock = n
		return nil
	})
	g.Go(func() error {
		n, err := s.sales.CountPending(gctx, companyID, u.ID)
		if err != nil {
			return fmt.Errorf("dashboard: ventas pendientes: %w", err)
		}
		out.PendingSales = n
		return nil
	})
	g.Go(func() error {
		cfg, err := s.rankings.GetConfig(gctx, companyID)
		if err != nil {
			return fmt.Errorf("dashboard: configuración de gamificación: %w", err)
		}
		if !cfg.Enabled {
			return nil
		}
		board, err := s.rankings.Leaderboard(gctx, companyID, "current")
		if err != nil {
			return fmt.Errorf("dashboard: tablero: %w", err)
		}
		for _, e := range board.Entries {
			if e.DistributorID == u.ID && e.Revenue.IsPositive() {
				out.Position = e.Position
				out.ProjectedPct = e.ProjectedPct
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func toFigures(s repository.SalesSummary) dto.SalesFiguresDTO {
	return dto.SalesFiguresDTO{
		Revenue:           s.Revenue.Round(2),
		Cost:              s.Cost.Round(2),
		AdminProfit:       s.AdminProfit.Round(2),
		DistributorProfit: s.DistributorProfit.Round(2),
		ConfirmedSales:    s.ConfirmedCount,
		PendingSales:      s.PendingCount,
	}
}
