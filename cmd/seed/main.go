// seed puebla una base PostgreSQL con una empresa de demostración: administrador, distribuidores,
// catálogo, stock asignado y ventas de las últimas semanas.
//
// Uso: go run ./cmd/seed [-seed 42] [-distributors 8] [-products 20] [-sales 120]
// Lee la conexión de la misma configuración que cmd/api (DB_*, DATABASE_URL). Imprime las credenciales creadas.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/auth"
	"github.com/jhoicas/Distribuidores-api/internal/application/distribution"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/gamification"
	"github.com/jhoicas/Distribuidores-api/internal/application/sales"
	"github.com/jhoicas/Distribuidores-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Distribuidores-api/pkg/config"
	"github.com/jhoicas/Distribuidores-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const seedPassword = "Demo12345"

type options struct {
	seed         uint64
	distributors int
	products     int
	sales        int
}

type seeder struct {
	fake         *gofakeit.Faker
	companies    *usecase.CompanyUseCase
	auth         *auth.AuthUseCase
	categories   *usecase.CategoryUseCase
	products     *usecase.ProductUseCase
	distribution *distribution.UseCase
	sales        *sales.UseCase
}

func main() {
	var opts options
	flag.Uint64Var(&opts.seed, "seed", 42, "semilla de gofakeit (0 = aleatoria)")
	flag.IntVar(&opts.distributors, "distributors", 8, "distribuidores a crear")
	flag.IntVar(&opts.products, "products", 20, "productos a crear")
	flag.IntVar(&opts.sales, "sales", 120, "ventas a registrar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Name: "seed"})

	ctx := context.Background()
	if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	recorder := audit.NewRecorder(store.Audit(), log.Component("audit"))
	gamUC := gamification.NewUseCase(gamification.Deps{
		Tx: store, Repo: store.Gamification(), Users: store.Users(), Sales: store.Sales(),
		Recorder: recorder, Log: log.Component("gamification"),
	})
	s := &seeder{
		fake:         gofakeit.New(opts.seed),
		companies:    usecase.NewCompanyUseCase(store.Companies()),
		auth:         auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}),
		categories:   usecase.NewCategoryUseCase(store.Categories(), recorder),
		products:     usecase.NewProductUseCase(store.Products(), store.Categories(), store, recorder),
		distribution: distribution.NewUseCase(store, store.Products(), store.Stock(), store.Movements(), gamUC, recorder, nil),
		sales: sales.NewUseCase(sales.Deps{
			Tx: store, Sales: store.Sales(), Zones: gamUC, Recorder: recorder, Log: log.Component("sales"),
		}),
	}

	admin, err := s.run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Str("company_id", admin.CompanyID).
		Str("admin_email", admin.email).
		Str("password", seedPassword).
		Msg("datos de demostración creados")
}

type seededAdmin struct {
	dto.Actor
	email string
}

func (s *seeder) run(ctx context.Context, opts options) (*seededAdmin, error) {
	company, err := s.companies.Create(ctx, dto.CreateCompanyRequest{
		Name:    s.fake.Company(),
		NIT:     s.fake.Numerify("9########"),
		Address: s.fake.Street(),
		Phone:   s.fake.Phone(),
		Email:   s.fake.Email(),
	})
	if err != nil {
		return nil, fmt.Errorf("empresa: %w", err)
	}

	// el primer usuario de la empresa queda como administrador
	adminEmail := "admin+" + company.NIT + "@demo.co"
	adminUser, err := s.auth.RegisterUser(ctx, nil, dto.RegisterRequest{
		Email: adminEmail, Password: seedPassword, CompanyID: company.ID, Name: s.fake.Name(),
	})
	if err != nil {
		return nil, fmt.Errorf("administrador: %w", err)
	}
	admin := dto.Actor{UserID: adminUser.ID, CompanyID: company.ID, Role: entity.RoleAdmin, IP: "127.0.0.1"}

	distributors, err := s.seedDistributors(ctx, admin, company.NIT, opts.distributors)
	if err != nil {
		return nil, err
	}
	products, err := s.seedCatalog(ctx, admin, opts.products)
	if err != nil {
		return nil, err
	}
	if err := s.seedSales(ctx, admin, distributors, products, opts.sales); err != nil {
		return nil, err
	}
	return &seededAdmin{Actor: admin, email: adminEmail}, nil
}

func (s *seeder) seedDistributors(ctx context.Context, admin dto.Actor, nit string, n int) ([]dto.Actor, error) {
	out := make([]dto.Actor, 0, n)
	for i := range n {
		pct := decimal.NewFromInt(int64(s.fake.IntRange(5, 20)))
		u, err := s.auth.RegisterUser(ctx, &admin, dto.RegisterRequest{
			Email:         fmt.Sprintf("distribuidor%d+%s@demo.co", i+1, nit),
			Password:      seedPassword,
			CompanyID:     admin.CompanyID,
			Name:          s.fake.Name(),
			Role:          entity.RoleDistribuidor,
			CommissionPct: &pct,
		})
		if err != nil {
			return nil, fmt.Errorf("distribuidor %d: %w", i+1, err)
		}
		out = append(out, dto.Actor{UserID: u.ID, CompanyID: admin.CompanyID, Role: entity.RoleDistribuidor, IP: "127.0.0.1"})
	}
	return out, nil
}

func (s *seeder) seedCatalog(ctx context.Context, admin dto.Actor, n int) ([]*dto.ProductResponse, error) {
	categoryIDs := map[string]string{}
	out := make([]*dto.ProductResponse, 0, n)
	for i := range n {
		catName := s.fake.ProductCategory()
		catID, ok := categoryIDs[catName]
		if !ok {
			cat, err := s.categories.Create(ctx, admin, dto.CreateCategoryRequest{Name: catName})
			if err != nil {
				return nil, fmt.Errorf("categoría %q: %w", catName, err)
			}
			catID = cat.ID
			categoryIDs[catName] = catID
		}

		purchase := int64(s.fake.IntRange(5, 80)) * 1000
		distributorPrice := purchase + purchase*int64(s.fake.IntRange(10, 30))/100
		clientPrice := distributorPrice + distributorPrice*int64(s.fake.IntRange(15, 40))/100
		p, err := s.products.Create(ctx, admin, dto.CreateProductRequest{
			SKU:               fmt.Sprintf("SKU-%04d", i+1),
			Name:              strings.TrimSpace(s.fake.ProductName()),
			CategoryID:        catID,
			PurchasePrice:     decimal.NewFromInt(purchase),
			DistributorPrice:  decimal.NewFromInt(distributorPrice),
			ClientPrice:       decimal.NewFromInt(clientPrice),
			InitialStock:      s.fake.IntRange(100, 400),
			LowStockThreshold: 10,
		})
		if err != nil {
			return nil, fmt.Errorf("producto %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// seedSales entrega stock a cada distribuidor y registra ventas repartidas en los últimos 28 días.
// Las ventas se registran como el distribuidor (pendientes) y el admin confirma la mayoría.
func (s *seeder) seedSales(ctx context.Context, admin dto.Actor, distributors []dto.Actor, products []*dto.ProductResponse, n int) error {
	if len(distributors) == 0 || len(products) == 0 {
		return nil
	}
	for _, d := range distributors {
		for _, p := range products {
			qty := min(s.fake.IntRange(5, 15), p.Stock/len(distributors))
			if qty <= 0 {
				continue
			}
			if _, err := s.distribution.Assign(ctx, admin, dto.AssignStockRequest{
				ProductID: p.ID, DistributorID: d.UserID, Quantity: qty, Reference: "seed",
			}); err != nil {
				return fmt.Errorf("asignar stock: %w", err)
			}
		}
	}

	now := time.Now().UTC()
	for range n {
		d := distributors[s.fake.IntRange(0, len(distributors)-1)]
		p := products[s.fake.IntRange(0, len(products)-1)]
		date := s.fake.DateRange(now.AddDate(0, 0, -28), now.Add(-time.Hour))
		sale, err := s.sales.Record(ctx, d, dto.RecordSaleRequest{
			ProductID:  p.ID,
			Quantity:   s.fake.IntRange(1, 3),
			ClientName: s.fake.Name(),
			SaleDate:   &date,
		})
		if errors.Is(err, domain.ErrInsufficientStock) {
			continue
		}
		if err != nil {
			return fmt.Errorf("registrar venta: %w", err)
		}
		if s.fake.IntRange(1, 10) <= 8 {
			if _, err := s.sales.Confirm(ctx, admin, sale.ID); err != nil {
				return fmt.Errorf("confirmar venta: %w", err)
			}
		}
	}
	return nil
}
