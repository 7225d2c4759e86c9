package profits_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/application/profits"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidores-api/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase(f *testutil.Fixture) *profits.UseCase {
	return profits.NewUseCase(f.Store, f.Store.Ledger(), f.Store.Users(), ports.FixedZone{},
		audit.NewRecorder(f.Store.Audit(), zerolog.Nop()), nil)
}

// credit asienta utilidad a un distribuidor como lo haría una venta confirmada.
func credit(t *testing.T, f *testutil.Fixture, distributorID string, admin, dist string) {
	t.Helper()
	sale := &entity.Sale{ID: "venta-" + distributorID, CompanyID: f.Company.ID, DistributorID: distributorID}
	err := f.Store.Run(context.Background(), func(tx repository.Tx) error {
		_, err := profits.Post(context.Background(), tx.Ledger,
			profits.SaleEntries(sale, entity.EntrySaleProfit, dec(admin), dec(dist), f.Admin.UserID, "venta"))
		return err
	})
	require.NoError(t, err)
}

func TestResolveAccount(t *testing.T) {
	admin := dto.Actor{UserID: "a", CompanyID: "c", Role: entity.RoleAdmin}
	dist := dto.Actor{UserID: "d", CompanyID: "c", Role: entity.RoleDistribuidor}

	cases := []struct {
		name  string
		actor dto.Actor
		q     dto.ProfitAccountQuery
		want  profits.Account
		err   error
	}{
		{"admin por defecto consulta la empresa", admin, dto.ProfitAccountQuery{}, profits.Account{Type: entity.AccountCompany, ID: "c"}, nil},
		{"admin con id consulta al distribuidor", admin, dto.ProfitAccountQuery{AccountID: "x"}, profits.Account{Type: entity.AccountDistributor, ID: "x"}, nil},
		{"admin tipo distribuidor sin id", admin, dto.ProfitAccountQuery{AccountType: entity.AccountDistributor}, profits.Account{}, domain.ErrInvalidInput},
		{"distribuidor siempre la suya", dist, dto.ProfitAccountQuery{}, profits.Account{Type: entity.AccountDistributor, ID: "d"}, nil},
		{"distribuidor no ve la empresa", dist, dto.ProfitAccountQuery{AccountType: entity.AccountCompany}, profits.Account{}, domain.ErrForbidden},
		{"distribuidor no ve a otro", dist, dto.ProfitAccountQuery{AccountID: "x"}, profits.Account{}, domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := profits.ResolveAccount(tc.actor, tc.q)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPost_DescartaCerosYEncadena(t *testing.T) {
	f := testutil.New(t)
	ana := f.Distributor("ana", 0)
	credit(t, f, ana.UserID, "0", "5")
	credit(t, f, ana.UserID, "3", "2.5")

	ctx := context.Background()
	chain, err := f.Store.Ledger().ListChain(ctx, f.Company.ID, entity.AccountDistributor, ana.UserID)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.EqualValues(t, 1, chain[0].Seq)
	assert.EqualValues(t, 2, chain[1].Seq)
	assert.True(t, chain[1].BalanceAfter.Equal(dec("7.5")))

	company, err := f.Store.Ledger().ListChain(ctx, f.Company.ID, entity.AccountCompany, f.Company.ID)
	require.NoError(t, err)
	assert.Len(t, company, 1)
}

func TestRecordPayout(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	ctx := context.Background()
	ana := f.Distributor("ana", 0)
	credit(t, f, ana.UserID, "10", "40")

	_, err := uc.RecordPayout(ctx, f.Admin, dto.PayoutRequest{DistributorID: ana.UserID, Amount: dec("50")})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = uc.RecordPayout(ctx, f.Admin, dto.PayoutRequest{DistributorID: ana.UserID, Amount: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordPayout(ctx, ana, dto.PayoutRequest{DistributorID: ana.UserID, Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.RecordPayout(ctx, f.Admin, dto.PayoutRequest{DistributorID: ana.UserID, Amount: dec("15"), Note: "transferencia"})
	require.NoError(t, err)
	assert.Equal(t, entity.EntryPayout, out.Type)
	assert.True(t, out.Amount.Equal(dec("-15")))
	assert.True(t, out.BalanceAfter.Equal(dec("25")))
	assert.EqualValues(t, 2, out.Seq)

	bal, err := uc.Balance(ctx, ana, dto.ProfitAccountQuery{})
	require.NoError(t, err)
	assert.True(t, bal.Balance.Equal(dec("25")))
	assert.EqualValues(t, 2, bal.Entries)

	hist, err := uc.History(ctx, ana, dto.ProfitHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, hist.Items, 2)
	assert.Equal(t, entity.EntryPayout, hist.Items[0].Type)
}

func TestVerify_DetectaSaldoAlterado(t *testing.T) {
	f := testutil.New(t)
	uc := newUseCase(f)
	ctx := context.Background()
	ana := f.Distributor("ana", 0)
	credit(t, f, ana.UserID, "10", "40")

	q := dto.ProfitAccountQuery{AccountType: entity.AccountDistributor, AccountID: ana.UserID}
	rep, err := uc.Verify(ctx, f.Admin, q)
	require.NoError(t, err)
	assert.True(t, rep.OK)
	assert.Equal(t, 1, rep.Entries)

	err = f.Store.Run(ctx, func(tx repository.Tx) error {
		bal, err := tx.Ledger.LockBalance(ctx, f.Company.ID, entity.AccountDistributor, ana.UserID)
		if err != nil {
			return err
		}
		bal.Balance = dec("99")
		return tx.Ledger.SaveBalance(ctx, bal)
	})
	require.NoError(t, err)

	rep, err = uc.Verify(ctx, f.Admin, q)
	require.NoError(t, err)
	assert.False(t, rep.OK)
	assert.True(t, rep.Stored.Equal(dec("99")))

	_, err = uc.Verify(ctx, ana, dto.ProfitAccountQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
