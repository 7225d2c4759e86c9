package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.ProfitLedgerRepository = (*ProfitLedgerRepo)(nil)

// ProfitLedgerRepo historial de utilidades append-only con saldo materializado por cuenta.
type ProfitLedgerRepo struct {
	q Querier
}

// NewProfitLedgerRepository construye el adaptador. Pasar pool o tx.
func NewProfitLedgerRepository(q Querier) *ProfitLedgerRepo {
	return &ProfitLedgerRepo{q: q}
}

func scanBalance(row pgx.Row) (*entity.LedgerBalance, error) {
	var b entity.LedgerBalance
	if err := row.Scan(&b.CompanyID, &b.AccountType, &b.AccountID, &b.Balance, &b.LastSeq, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// LockBalance crea la fila de saldo si no existe y la bloquea hasta el fin de la transacción.
// Serializa los asientos concurrentes de una misma cuenta.
func (r *ProfitLedgerRepo) LockBalance(ctx context.Context, companyID, accountType, accountID string) (*entity.LedgerBalance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ledger_balances (company_id, account_type, account_id, balance, last_seq, updated_at)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (company_id, account_type, account_id) DO NOTHING`,
		companyID, accountType, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure ledger balance: %w", err)
	}
	b, err := scanBalance(r.q.QueryRow(ctx, `
		SELECT company_id, account_type, account_id, balance, last_seq, updated_at
		  FROM ledger_balances
		 WHERE company_id = $1 AND account_type = $2 AND account_id = $3
		 FOR UPDATE`,
		companyID, accountType, accountID,
	))
	if err != nil {
		return nil, fmt.Errorf("lock ledger balance: %w", err)
	}
	return b, nil
}

func (r *ProfitLedgerRepo) SaveBalance(ctx context.Context, b *entity.LedgerBalance) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ledger_balances (company_id, account_type, account_id, balance, last_seq, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, account_type, account_id)
		DO UPDATE SET balance = EXCLUDED.balance, last_seq = EXCLUDED.last_seq, updated_at = EXCLUDED.updated_at`,
		b.CompanyID, b.AccountType, b.AccountID, b.Balance, b.LastSeq, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save ledger balance: %w", err)
	}
	return nil
}

// Append inserta un asiento ya encadenado. Un seq repetido en la cuenta devuelve ErrConflict.
func (r *ProfitLedgerRepo) Append(ctx context.Context, e *entity.ProfitEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO profit_entries (id, company_id, account_type, account_id, seq, type, amount, balance_after,
		            sale_id, evaluation_id, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.CompanyID, e.AccountType, e.AccountID, e.Seq, e.Type, e.Amount, e.BalanceAfter,
		nullable(e.SaleID), nullable(e.EvaluationID), e.Description, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("append profit entry: %w", err)
	}
	return nil
}

// GetBalance devuelve nil si la cuenta no tiene movimientos.
func (r *ProfitLedgerRepo) GetBalance(ctx context.Context, companyID, accountType, accountID string) (*entity.LedgerBalance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx, `
		SELECT company_id, account_type, account_id, balance, last_seq, updated_at
		  FROM ledger_balances
		 WHERE company_id = $1 AND account_type = $2 AND account_id = $3 AND last_seq > 0`,
		companyID, accountType, accountID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger balance: %w", err)
	}
	return b, nil
}

const entryColumns = `id, company_id, account_type, account_id, seq, type, amount, balance_after, sale_id,
	evaluation_id, description, created_by, created_at`

func scanEntry(row pgx.Row) (entity.ProfitEntry, error) {
	var e entity.ProfitEntry
	var sale, eval *string
	err := row.Scan(&e.ID, &e.CompanyID, &e.AccountType, &e.AccountID, &e.Seq, &e.Type, &e.Amount,
		&e.BalanceAfter, &sale, &eval, &e.Description, &e.CreatedBy, &e.CreatedAt)
	e.SaleID, e.EvaluationID = deref(sale), deref(eval)
	return e, err
}

// List devuelve los asientos de la cuenta más recientes primero.
func (r *ProfitLedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.ProfitEntry, error) {
	var w where
	w.add("company_id = ?", f.CompanyID)
	w.add("account_type = ?", f.AccountType)
	w.add("account_id = ?", f.AccountID)
	w.addRange("created_at", f.From, f.To)
	query := `SELECT ` + entryColumns + ` FROM profit_entries` + w.String() + ` ORDER BY seq DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list profit entries: %w", err)
	}
	defer rows.Close()
	list := []*entity.ProfitEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ListChain devuelve la cadena completa de la cuenta en orden de seq.
func (r *ProfitLedgerRepo) ListChain(ctx context.Context, companyID, accountType, accountID string) ([]entity.ProfitEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+entryColumns+` FROM profit_entries
		 WHERE company_id = $1 AND account_type = $2 AND account_id = $3
		 ORDER BY seq`,
		companyID, accountType, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger chain: %w", err)
	}
	defer rows.Close()
	var list []entity.ProfitEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profit entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
