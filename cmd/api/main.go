package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/Distribuidores-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/auth"
	"github.com/jhoicas/Distribuidores-api/internal/application/distribution"
	"github.com/jhoicas/Distribuidores-api/internal/application/gamification"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/application/profits"
	"github.com/jhoicas/Distribuidores-api/internal/application/sales"
	"github.com/jhoicas/Distribuidores-api/internal/application/scheduler"
	"github.com/jhoicas/Distribuidores-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/cache"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/memory"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Distribuidores-api/internal/interfaces/http"
	"github.com/jhoicas/Distribuidores-api/pkg/config"
	"github.com/jhoicas/Distribuidores-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// repos persistencia seleccionada por STORE_DRIVER.
type repos struct {
	tx           repository.TxRunner
	companies    repository.CompanyRepository
	users        repository.UserRepository
	categories   repository.CategoryRepository
	products     repository.ProductRepository
	stock        repository.DistributorStockRepository
	movements    repository.StockMovementRepository
	sales        repository.SaleRepository
	gamification repository.GamificationRepository
	ledger       repository.ProfitLedgerRepository
	analytics    repository.AnalyticsRepository
	audit        repository.AuditRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var r repos
	switch cfg.Store.Driver {
	case "memory":
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		r = memoryRepos(memory.New())
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		r = postgresRepos(postgres.NewStore(pool))
	}

	// Redis es opcional: sin él la analítica no se cachea y el candado del scheduler es local.
	var (
		dashCache ports.Cache  = cache.Noop{}
		locker    ports.Locker = cache.NewLocalLocker()
	)
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		dashCache = cache.NewRedisCache(client, cfg.App.Name)
		locker = cache.NewRedisLocker(client, cfg.App.Name)
	}

	prom := metrics.New()
	recorder := audit.NewRecorder(r.audit, log.Component("audit"))

	gamUC := gamification.NewUseCase(gamification.Deps{
		Tx:       r.tx,
		Repo:     r.gamification,
		Users:    r.users,
		Sales:    r.sales,
		Cache:    dashCache,
		Recorder: recorder,
		Metrics:  prom,
		Log:      log.Component("gamification"),
	})
	salesUC := sales.NewUseCase(sales.Deps{
		Tx:       r.tx,
		Sales:    r.sales,
		Zones:    gamUC,
		Cache:    dashCache,
		Recorder: recorder,
		Metrics:  prom,
		Log:      log.Component("sales"),
	})
	moduleSvc := usecase.NewModuleService(r.companies)
	authUC := auth.NewAuthUseCase(r.users, r.companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	analyticsSvc := appanalytics.NewService(appanalytics.Deps{
		Analytics: r.analytics,
		Products:  r.products,
		Users:     r.users,
		Stock:     r.stock,
		Sales:     r.sales,
		Ledger:    r.ledger,
		Rankings:  gamUC,
		Cache:     dashCache,
		TTL:       cfg.Redis.CacheTTL,
		Metrics:   prom,
		Log:       log.Component("analytics"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.Metrics(prom))

	// Swagger UI en local: http://localhost:<port>/docs (requiere generar docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Distribuidores API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(prom.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     usecase.NewCompanyUseCase(r.companies),
		ModuleService: moduleSvc,
		CategoryUC:    usecase.NewCategoryUseCase(r.categories, recorder),
		ProductUC:     usecase.NewProductUseCase(r.products, r.categories, r.tx, recorder),
		DistributorUC: usecase.NewDistributorUseCase(r.users, recorder),
		Distribution:  distribution.NewUseCase(r.tx, r.products, r.stock, r.movements, gamUC, recorder, prom),
		Sales:         salesUC,
		Gamification:  gamUC,
		Profits:       profits.NewUseCase(r.tx, r.ledger, r.users, gamUC, recorder, prom),
		Audit:         audit.NewUseCase(r.audit),
		Analytics:     analyticsSvc,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	})

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(gamUC, moduleSvc, locker, cfg.Scheduler.Interval, log.Component("scheduler"))
		go sched.Run(ctx)
		log.Info().Dur("interval", cfg.Scheduler.Interval).Msg("scheduler de gamificación activo")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func memoryRepos(s *memory.Store) repos {
	return repos{
		tx:           s,
		companies:    s.Companies(),
		users:        s.Users(),
		categories:   s.Categories(),
		products:     s.Products(),
		stock:        s.Stock(),
		movements:    s.Movements(),
		sales:        s.Sales(),
		gamification: s.Gamification(),
		ledger:       s.Ledger(),
		analytics:    s.Analytics(),
		audit:        s.Audit(),
	}
}

func postgresRepos(s *postgres.Store) repos {
	return repos{
		tx:           s,
		companies:    s.Companies(),
		users:        s.Users(),
		categories:   s.Categories(),
		products:     s.Products(),
		stock:        s.Stock(),
		movements:    s.Movements(),
		sales:        s.Sales(),
		gamification: s.Gamification(),
		ledger:       s.Ledger(),
		analytics:    s.Analytics(),
		audit:        s.Audit(),
	}
}
