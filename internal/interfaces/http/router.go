package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Distribuidores-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/auth"
	"github.com/jhoicas/Distribuidores-api/internal/application/distribution"
	"github.com/jhoicas/Distribuidores-api/internal/application/gamification"
	"github.com/jhoicas/Distribuidores-api/internal/application/profits"
	"github.com/jhoicas/Distribuidores-api/internal/application/sales"
	"github.com/jhoicas/Distribuidores-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	ModuleService *usecase.ModuleService
	CategoryUC    *usecase.CategoryUseCase
	ProductUC     *usecase.ProductUseCase
	DistributorUC *usecase.DistributorUseCase
	Distribution  *distribution.UseCase
	Sales         *sales.UseCase
	Gamification  *gamification.UseCase
	Profits       *profits.UseCase
	Audit         *audit.UseCase
	Analytics     *appanalytics.Service
	JWTSecret     string
	JWTIssuer     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authn := AuthMiddleware(deps.JWTSecret, deps.JWTIssuer)
	admin := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleDistribuidor)
	module := func(name string) fiber.Handler { return RequireModule(name, deps.ModuleService) }

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: alta de tenants)
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.ModuleService)
	companies := api.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	modules := api.Group("/modules", authn, anyRole)
	modules.Get("/", companyHandler.ListModules)
	modules.Put("/:name", admin, companyHandler.SetModule)

	// Catálogo
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories", authn, anyRole, module(entity.ModuleCatalog))
	categories.Get("/", categoryHandler.List)
	categories.Post("/", admin, categoryHandler.Create)
	categories.Put("/:id", admin, categoryHandler.Update)

	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products", authn, anyRole, module(entity.ModuleCatalog))
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", admin, productHandler.Create)
	products.Put("/:id", admin, productHandler.Update)
	products.Post("/:id/restock", admin, productHandler.Restock)

	// Red de distribuidores
	distributorHandler := NewDistributorHandler(deps.DistributorUC, deps.AuthUC)
	distributors := api.Group("/distributors", authn, anyRole)
	distributors.Get("/", admin, distributorHandler.List)
	distributors.Post("/", admin, distributorHandler.Create)
	distributors.Get("/:id", distributorHandler.Get)
	distributors.Put("/:id/status", admin, distributorHandler.SetStatus)

	// Stock de distribuidores
	stockHandler := NewStockHandler(deps.Distribution)
	stock := api.Group("/stock", authn, anyRole, module(entity.ModuleDistribution))
	stock.Get("/", stockHandler.List)
	stock.Get("/movements", stockHandler.Movements)
	stock.Post("/assign", admin, stockHandler.Assign)
	stock.Post("/withdraw", admin, stockHandler.Withdraw)
	stock.Post("/transfer", admin, stockHandler.Transfer)

	// Ventas
	saleHandler := NewSaleHandler(deps.Sales)
	salesGroup := api.Group("/sales", authn, anyRole)
	salesGroup.Post("/", saleHandler.Record)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/recalculate", admin, saleHandler.Recalculate)
	salesGroup.Get("/:id", saleHandler.Get)
	salesGroup.Post("/:id/confirm", admin, saleHandler.Confirm)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)

	// Gamificación
	gamHandler := NewGamificationHandler(deps.Gamification)
	gam := api.Group("/gamification", authn, anyRole, module(entity.ModuleGamification))
	gam.Get("/config", gamHandler.GetConfig)
	gam.Put("/config", admin, gamHandler.UpdateConfig)
	gam.Post("/evaluate", admin, gamHandler.Evaluate)
	gam.Get("/evaluations", gamHandler.ListEvaluations)
	gam.Get("/evaluations/:id", gamHandler.GetEvaluation)
	gam.Get("/leaderboard", gamHandler.Leaderboard)

	// Utilidades
	profitHandler := NewProfitHandler(deps.Profits)
	profitsGroup := api.Group("/profits", authn, anyRole)
	profitsGroup.Get("/history", profitHandler.History)
	profitsGroup.Get("/balance", profitHandler.Balance)
	profitsGroup.Post("/payouts", admin, profitHandler.Payout)
	profitsGroup.Get("/verify", admin, profitHandler.Verify)

	// Auditoría
	auditHandler := NewAuditHandler(deps.Audit)
	api.Group("/audit", authn, admin).Get("/", auditHandler.List)

	// Dashboards y reportes (módulo analytics)
	dashboardHandler := NewDashboardHandler(deps.Analytics)
	dashboard := api.Group("/dashboard", authn, anyRole, module(entity.ModuleAnalytics))
	dashboard.Get("/admin", admin, dashboardHandler.Admin)
	dashboard.Get("/distributor", dashboardHandler.Distributor)

	analyticsHandler := NewAnalyticsHandler(deps.Analytics)
	analyticsGroup := api.Group("/analytics", authn, admin, module(entity.ModuleAnalytics))
	analyticsGroup.Get("/sales-series", analyticsHandler.SalesSeries)
	analyticsGroup.Get("/products", analyticsHandler.Products)
}
