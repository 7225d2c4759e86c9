// Package ledger contiene las reglas de encadenamiento del historial de utilidades.
package ledger

import (
	"fmt"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Next completa Seq y BalanceAfter del asiento a partir del saldo vigente de la cuenta.
// bal puede ser nil para la primera entrada de la cuenta.
func Next(bal *entity.LedgerBalance, e *entity.ProfitEntry) {
	prevSeq, prevBal := int64(0), decimal.Zero
	if bal != nil {
		prevSeq, prevBal = bal.LastSeq, bal.Balance
	}
	e.Seq = prevSeq + 1
	e.BalanceAfter = prevBal.Add(e.Amount)
}

// Apply actualiza el saldo materializado con el asiento ya encadenado.
func Apply(bal *entity.LedgerBalance, e *entity.ProfitEntry) *entity.LedgerBalance {
	if bal == nil {
		bal = &entity.LedgerBalance{
			CompanyID:   e.CompanyID,
			AccountType: e.AccountType,
			AccountID:   e.AccountID,
		}
	}
	bal.Balance = e.BalanceAfter
	bal.LastSeq = e.Seq
	bal.UpdatedAt = e.CreatedAt
	return bal
}

// Discrepancy inconsistencia detectada al recorrer la cadena.
type Discrepancy struct {
	Seq      int64           `json:"seq"`
	EntryID  string          `json:"entry_id"`
	Field    string          `json:"field"`
	Expected string          `json:"expected"`
	Actual   string          `json:"actual"`
	Amount   decimal.Decimal `json:"amount"`
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("seq %d: %s esperado %s, encontrado %s", d.Seq, d.Field, d.Expected, d.Actual)
}

// Report resultado de verificar una cuenta.
type Report struct {
	Entries       int             `json:"entries"`
	Computed      decimal.Decimal `json:"computed_balance"`
	Stored        decimal.Decimal `json:"stored_balance"`
	Discrepancies []Discrepancy   `json:"discrepancies"`
}

// OK informa si la cadena es consistente.
func (r Report) OK() bool {
	return len(r.Discrepancies) == 0 && r.Computed.Equal(r.Stored)
}

// Verify recorre los asientos en orden de Seq y recalcula el saldo corrido.
func Verify(entries []entity.ProfitEntry, bal *entity.LedgerBalance) Report {
	rep := Report{Entries: len(entries), Computed: decimal.Zero, Stored: decimal.Zero, Discrepancies: []Discrepancy{}}
	running := decimal.Zero
	for i, e := range entries {
		want := int64(i + 1)
		if e.Seq != want {
			rep.Discrepancies = append(rep.Discrepancies, Discrepancy{
				Seq: e.Seq, EntryID: e.ID, Field: "seq",
				Expected: fmt.Sprint(want), Actual: fmt.Sprint(e.Seq), Amount: e.Amount,
			})
		}
		running = running.Add(e.Amount)
		if !e.BalanceAfter.Equal(running) {
			rep.Discrepancies = append(rep.Discrepancies, Discrepancy{
				Seq: e.Seq, EntryID: e.ID, Field: "balance_after",
				Expected: running.String(), Actual: e.BalanceAfter.String(), Amount: e.Amount,
			})
			// se continúa desde el valor almacenado para no arrastrar el error a todas las filas siguientes
			running = e.BalanceAfter
		}
		if e.Amount.IsZero() {
			rep.Discrepancies = append(rep.Discrepancies, Discrepancy{
				Seq: e.Seq, EntryID: e.ID, Field: "amount", Expected: "!= 0", Actual: "0",
			})
		}
	}
	rep.Computed = running
	if bal != nil {
		rep.Stored = bal.Balance
		if bal.LastSeq != int64(len(entries)) {
			rep.Discrepancies = append(rep.Discrepancies, Discrepancy{
				Seq: bal.LastSeq, Field: "last_seq",
				Expected: fmt.Sprint(len(entries)), Actual: fmt.Sprint(bal.LastSeq),
			})
		}
	}
	return rep
}
