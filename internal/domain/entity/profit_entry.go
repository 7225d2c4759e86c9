package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta del libro de utilidades.
const (
	AccountCompany     = "company"     // utilidad del administrador; AccountID = CompanyID
	AccountDistributor = "distributor" // utilidad de un distribuidor; AccountID = ID de usuario
)

// Tipos de asiento del libro de utilidades.
const (
	EntrySaleProfit = "SALE_PROFIT"
	EntryAdjustment = "ADJUSTMENT"
	EntryReversal   = "REVERSAL"
	EntryPayout     = "PAYOUT"
)

// ProfitEntry asiento inmutable del historial de utilidades con saldo corrido por cuenta.
type ProfitEntry struct {
	ID           string
	CompanyID    string
	AccountType  string
	AccountID    string
	Seq          int64 // consecutivo por cuenta, empieza en 1
	Type         string
	Amount       decimal.Decimal // con signo
	BalanceAfter decimal.Decimal
	SaleID       string
	EvaluationID string
	Description  string
	CreatedBy    string
	CreatedAt    time.Time
}

// LedgerBalance saldo materializado de una cuenta (última posición de la cadena).
type LedgerBalance struct {
	CompanyID   string
	AccountType string
	AccountID   string
	Balance     decimal.Decimal
	LastSeq     int64
	UpdatedAt   time.Time
}
