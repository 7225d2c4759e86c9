package ports

import "github.com/shopspring/decimal"

// Metrics contadores de negocio expuestos en /metrics.
type Metrics interface {
	SaleRecorded(companyID, status string)
	SaleConfirmed(companyID string, total decimal.Decimal)
	SaleCancelled(companyID string)
	StockMoved(companyID, movementType string, qty int)
	EvaluationCompleted(companyID, trigger string, placed int)
	LedgerEntries(companyID, entryType string, n int)
	CacheLookup(hit bool)
}

// NoopMetrics implementación vacía para pruebas y despliegues sin Prometheus.
type NoopMetrics struct{}

func (NoopMetrics) SaleRecorded(string, string) {}
func (NoopMetrics) SaleConfirmed(string, decimal.Decimal) {}
func (NoopMetrics) SaleCancelled(string) {}
func (NoopMetrics) StockMoved(string, string, int) {}
func (NoopMetrics) EvaluationCompleted(string, string, int) {}
func (NoopMetrics) LedgerEntries(string, string, int) {}
func (NoopMetrics) CacheLookup(bool) {}
