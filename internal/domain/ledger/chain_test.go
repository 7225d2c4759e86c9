package ledger_test

import (
	"testing"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_EncadenaSaldo(t *testing.T) {
	var bal *entity.LedgerBalance
	var entries []entity.ProfitEntry
	for _, amt := range []int64{100, -30, 45} {
		e := entity.ProfitEntry{AccountType: entity.AccountDistributor, AccountID: "d1", Amount: decimal.NewFromInt(amt)}
		ledger.Next(bal, &e)
		bal = ledger.Apply(bal, &e)
		entries = append(entries, e)
	}
	assert.Equal(t, int64(3), entries[2].Seq)
	assert.True(t, entries[2].BalanceAfter.Equal(decimal.NewFromInt(115)))
	assert.True(t, bal.Balance.Equal(decimal.NewFromInt(115)))

	rep := ledger.Verify(entries, bal)
	assert.True(t, rep.OK())
	assert.Empty(t, rep.Discrepancies)
}

func TestVerify_DetectaSaldoAlterado(t *testing.T) {
	entries := []entity.ProfitEntry{
		{ID: "a", Seq: 1, Amount: decimal.NewFromInt(10), BalanceAfter: decimal.NewFromInt(10)},
		{ID: "b", Seq: 2, Amount: decimal.NewFromInt(5), BalanceAfter: decimal.NewFromInt(20)},
		{ID: "c", Seq: 4, Amount: decimal.NewFromInt(1), BalanceAfter: decimal.NewFromInt(21)},
	}
	bal := &entity.LedgerBalance{Balance: decimal.NewFromInt(21), LastSeq: 4}
	rep := ledger.Verify(entries, bal)
	require.False(t, rep.OK())
	fields := map[string]bool{}
	for _, d := range rep.Discrepancies {
		fields[d.Field] = true
	}
	assert.True(t, fields["balance_after"])
	assert.True(t, fields["seq"])
	assert.True(t, fields["last_seq"])
}
