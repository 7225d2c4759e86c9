package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProfitLedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo historial de utilidades en memoria.
type LedgerRepo struct{ base }

func (r *LedgerRepo) LockBalance(_ context.Context, companyID, accountType, accountID string) (*entity.LedgerBalance, error) {
	st, done := r.read()
	defer done()
	b, ok := st.balances[key(companyID, accountType, accountID)]
	if !ok {
		b = entity.LedgerBalance{CompanyID: companyID, AccountType: accountType, AccountID: accountID, Balance: decimal.Zero}
	}
	return &b, nil
}

func (r *LedgerRepo) SaveBalance(_ context.Context, b *entity.LedgerBalance) error {
	st, done := r.write()
	defer done()
	st.balances[key(b.CompanyID, b.AccountType, b.AccountID)] = *b
	return nil
}

func (r *LedgerRepo) Append(_ context.Context, e *entity.ProfitEntry) error {
	st, done := r.write()
	defer done()
	for _, other := range st.entries {
		if other.CompanyID == e.CompanyID && other.AccountType == e.AccountType && other.AccountID == e.AccountID && other.Seq == e.Seq {
			return domain.ErrConflict
		}
	}
	st.entries = append(st.entries, *e)
	return nil
}

func (r *LedgerRepo) GetBalance(_ context.Context, companyID, accountType, accountID string) (*entity.LedgerBalance, error) {
	st, done := r.read()
	defer done()
	b, ok := st.balances[key(companyID, accountType, accountID)]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *LedgerRepo) List(_ context.Context, f repository.LedgerFilter) ([]*entity.ProfitEntry, error) {
	st, done := r.read()
	defer done()
	var list []entity.ProfitEntry
	for _, e := range st.entries {
		if e.CompanyID != f.CompanyID || e.AccountType != f.AccountType || e.AccountID != f.AccountID {
			continue
		}
		if !inRange(e.CreatedAt, f.From, f.To) {
			continue
		}
		list = append(list, e)
	}
	slices.SortFunc(list, func(a, b entity.ProfitEntry) int { return cmp.Compare(b.Seq, a.Seq) })
	return ptrs(page(list, f.Limit, f.Offset)), nil
}

func (r *LedgerRepo) ListChain(_ context.Context, companyID, accountType, accountID string) ([]entity.ProfitEntry, error) {
	st, done := r.read()
	defer done()
	var list []entity.ProfitEntry
	for _, e := range st.entries {
		if e.CompanyID == companyID && e.AccountType == accountType && e.AccountID == accountID {
			list = append(list, e)
		}
	}
	slices.SortFunc(list, func(a, b entity.ProfitEntry) int { return cmp.Compare(a.Seq, b.Seq) })
	return list, nil
}
