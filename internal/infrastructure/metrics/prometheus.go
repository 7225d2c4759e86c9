// Package metrics expone contadores de negocio y de HTTP en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "distribuidores"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus registro propio (no el global) con las métricas de la aplicación.
type Prometheus struct {
	registry *prometheus.Registry

	salesRecorded  *prometheus.CounterVec
	salesConfirmed *prometheus.CounterVec
	revenue        *prometheus.CounterVec
	salesCancelled *prometheus.CounterVec
	stockUnits     *prometheus.CounterVec
	evaluations    *prometheus.CounterVec
	podiumPlaced   *prometheus.GaugeVec
	ledgerEntries  *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New crea el registro e inscribe las métricas junto con las del runtime de Go.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		salesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sales_recorded_total", Help: "Ventas registradas por estado inicial.",
		}, []string{"company", "status"}),
		salesConfirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sales_confirmed_total", Help: "Ventas confirmadas.",
		}, []string{"company"}),
		revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sales_confirmed_revenue", Help: "Ingreso acumulado de ventas confirmadas.",
		}, []string{"company"}),
		salesCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sales_cancelled_total", Help: "Ventas anuladas.",
		}, []string{"company"}),
		stockUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stock_units_moved_total", Help: "Unidades movidas por tipo de movimiento.",
		}, []string{"company", "type"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "gamification_evaluations_total", Help: "Períodos evaluados por disparador.",
		}, []string{"company", "trigger"}),
		podiumPlaced: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "gamification_podium_placed", Help: "Distribuidores premiados en la última evaluación.",
		}, []string{"company"}),
		ledgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ledger_entries_total", Help: "Asientos del libro de utilidades por tipo.",
		}, []string{"company", "type"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "analytics_cache_lookups_total", Help: "Consultas a la caché de analítica.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "Peticiones HTTP por ruta y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "Latencia de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.salesRecorded, p.salesConfirmed, p.revenue, p.salesCancelled, p.stockUnits,
		p.evaluations, p.podiumPlaced, p.ledgerEntries, p.cacheLookups, p.httpRequests, p.httpDuration,
	)
	return p
}

// Handler sirve el registro en formato de exposición de Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry para pruebas.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func (p *Prometheus) SaleRecorded(companyID, status string) {
	p.salesRecorded.WithLabelValues(companyID, status).Inc()
}

func (p *Prometheus) SaleConfirmed(companyID string, total decimal.Decimal) {
	p.salesConfirmed.WithLabelValues(companyID).Inc()
	p.revenue.WithLabelValues(companyID).Add(total.InexactFloat64())
}

func (p *Prometheus) SaleCancelled(companyID string) {
	p.salesCancelled.WithLabelValues(companyID).Inc()
}

func (p *Prometheus) StockMoved(companyID, movementType string, qty int) {
	p.stockUnits.WithLabelValues(companyID, movementType).Add(float64(qty))
}

func (p *Prometheus) EvaluationCompleted(companyID, trigger string, placed int) {
	p.evaluations.WithLabelValues(companyID, trigger).Inc()
	p.podiumPlaced.WithLabelValues(companyID).Set(float64(placed))
}

func (p *Prometheus) LedgerEntries(companyID, entryType string, n int) {
	p.ledgerEntries.WithLabelValues(companyID, entryType).Add(float64(n))
}

func (p *Prometheus) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP registra una petición terminada. route es la plantilla de la ruta, no la URL concreta.
func (p *Prometheus) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
