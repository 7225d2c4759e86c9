package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitAccountQuery identifica la cuenta consultada. Un distribuidor siempre consulta la suya.
type ProfitAccountQuery struct {
	AccountType string `query:"account_type" validate:"omitempty,oneof=company distributor"`
	AccountID   string `query:"account_id" validate:"omitempty,uuid"`
}

// ProfitHistoryRequest filtros de GET /api/profits/history.
type ProfitHistoryRequest struct {
	PageRequest
	DateRangeQuery
	ProfitAccountQuery
}

// ProfitEntryResponse asiento del historial.
type ProfitEntryResponse struct {
	ID           string          `json:"id"`
	Seq          int64           `json:"seq"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	SaleID       string          `json:"sale_id,omitempty"`
	EvaluationID string          `json:"evaluation_id,omitempty"`
	Description  string          `json:"description,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ProfitHistoryResponse historial paginado de una cuenta.
type ProfitHistoryResponse struct {
	AccountType string                `json:"account_type"`
	AccountID   string                `json:"account_id"`
	Items       []ProfitEntryResponse `json:"items"`
	Page        PageResponse          `json:"page"`
}

// BalanceResponse saldo vigente de una cuenta.
type BalanceResponse struct {
	AccountType string          `json:"account_type"`
	AccountID   string          `json:"account_id"`
	Balance     decimal.Decimal `json:"balance"`
	Entries     int64           `json:"entries"`
}

// PayoutRequest pago de utilidades a un distribuidor.
type PayoutRequest struct {
	DistributorID string          `json:"distributor_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note" validate:"max=500"`
}
