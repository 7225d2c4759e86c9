// Package analytics contiene los casos de uso para reportes de negocio y los dashboards
// del administrador y del distribuidor.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Rankings fuente del tablero de gamificación y de la zona horaria de negocio.
type Rankings interface {
	ports.Zones
	GetConfig(ctx context.Context, companyID string) (*dto.GamificationConfigDTO, error)
	Leaderboard(ctx context.Context, companyID, which string) (*dto.LeaderboardDTO, error)
}

// Service dashboards y reportes read-only. Los resultados se guardan en caché por empresa y versión.
type Service struct {
	analytics repository.AnalyticsRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	stock     repository.DistributorStockRepository
	sales     repository.SaleRepository
	ledger    repository.ProfitLedgerRepository
	rankings  Rankings
	cache     ports.Cache
	ttl       time.Duration
	metrics   ports.Metrics
	log       zerolog.Logger
	now       func() time.Time
}

// Deps dependencias del servicio.
type Deps struct {
	Analytics repository.AnalyticsRepository
	Products  repository.ProductRepository
	Users     repository.UserRepository
	Stock     repository.DistributorStockRepository
	Sales     repository.SaleRepository
	Ledger    repository.ProfitLedgerRepository
	Rankings  Rankings
	Cache     ports.Cache // nil = sin caché
	TTL       time.Duration
	Metrics   ports.Metrics
	Log       zerolog.Logger
	Now       func() time.Time
}

// NewService construye el servicio.
func NewService(d Deps) *Service {
	if d.Metrics == nil {
		d.Metrics = ports.NoopMetrics{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.TTL <= 0 {
		d.TTL = time.Minute
	}
	return &Service{
		analytics: d.Analytics,
		products:  d.Products,
		users:     d.Users,
		stock:     d.Stock,
		sales:     d.Sales,
		ledger:    d.Ledger,
		rankings:  d.Rankings,
		cache:     d.Cache,
		ttl:       d.TTL,
		metrics:   d.Metrics,
		log:       d.Log,
		now:       d.Now,
	}
}

// cached devuelve el valor de caché para (empresa, versión, nombre) o lo construye y lo guarda.
// Un fallo de la caché nunca falla la consulta.
func cached[T any](ctx context.Context, s *Service, companyID, name string, build func() (*T, error)) (*T, error) {
	if s.cache == nil {
		return build()
	}
	var version int64
	if _, err := s.cache.Get(ctx, ports.AnalyticsVersionKey(companyID), &version); err != nil {
		s.log.Warn().Err(err).Msg("analytics: no se pudo leer la versión de caché")
		return build()
	}
	key := fmt.Sprintf("analytics:%s:v%d:%s", companyID, version, name)
	var hit T
	ok, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("analytics: lectura de caché fallida")
	}
	s.metrics.CacheLookup(ok)
	if ok {
		return &hit, nil
	}
	v, err := build()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, v, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("analytics: escritura de caché fallida")
	}
	return v, nil
}

// dayBounds inicio del día y del mes de t en loc, y el inicio del día siguiente.
func dayBounds(t time.Time, loc *time.Location) (dayStart, nextDay, monthStart time.Time) {
	local := t.In(loc)
	y, m, d := local.Date()
	dayStart = time.Date(y, m, d, 0, 0, 0, 0, loc)
	nextDay = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	monthStart = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	return dayStart, nextDay, monthStart
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
