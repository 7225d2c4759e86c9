package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// LedgerFilter filtros del historial de utilidades de una cuenta.
type LedgerFilter struct {
	CompanyID   string
	AccountType string
	AccountID   string
	From, To    *time.Time
	Limit       int
	Offset      int
}

// ProfitLedgerRepository define el puerto del historial de utilidades (append-only).
type ProfitLedgerRepository interface {
	// LockBalance bloquea (creando si hace falta) la fila de saldo de la cuenta y la devuelve.
	LockBalance(ctx context.Context, companyID, accountType, accountID string) (*entity.LedgerBalance, error)
	SaveBalance(ctx context.Context, bal *entity.LedgerBalance) error
	// Append inserta un asiento ya encadenado. (cuenta, seq) es único.
	Append(ctx context.Context, e *entity.ProfitEntry) error

	// GetBalance devuelve nil si la cuenta no tiene movimientos.
	GetBalance(ctx context.Context, companyID, accountType, accountID string) (*entity.LedgerBalance, error)
	// List devuelve los asientos más recientes primero.
	List(ctx context.Context, f LedgerFilter) ([]*entity.ProfitEntry, error)
	// ListChain devuelve todos los asientos de la cuenta en orden de Seq.
	ListChain(ctx context.Context, companyID, accountType, accountID string) ([]entity.ProfitEntry, error)
}
