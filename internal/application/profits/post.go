// Package profits mantiene el historial de utilidades (append-only) con saldo corrido por cuenta.
package profits

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/ledger"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Post encadena y guarda los asientos dentro de la transacción del llamador.
// Los montos en cero se descartan. Las cuentas se bloquean siempre en el mismo orden
// (tipo, id) y los asientos de una misma cuenta conservan su orden relativo.
// Devuelve los asientos escritos.
func Post(ctx context.Context, repo repository.ProfitLedgerRepository, entries []*entity.ProfitEntry) ([]*entity.ProfitEntry, error) {
	pending := make([]*entity.ProfitEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil && !e.Amount.IsZero() {
			pending = append(pending, e)
		}
	}
	slices.SortStableFunc(pending, func(a, b *entity.ProfitEntry) int {
		return cmp.Or(cmp.Compare(a.AccountType, b.AccountType), cmp.Compare(a.AccountID, b.AccountID))
	})
	for _, e := range pending {
		if err := appendEntry(ctx, repo, e); err != nil {
			return nil, err
		}
	}
	return pending, nil
}

// appendEntry bloquea el saldo de la cuenta, encadena el asiento y actualiza el saldo.
func appendEntry(ctx context.Context, repo repository.ProfitLedgerRepository, e *entity.ProfitEntry) error {
	bal, err := repo.LockBalance(ctx, e.CompanyID, e.AccountType, e.AccountID)
	if err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	ledger.Next(bal, e)
	if err := repo.Append(ctx, e); err != nil {
		return err
	}
	return repo.SaveBalance(ctx, ledger.Apply(bal, e))
}

// SaleEntries asientos de una venta para la cuenta de la empresa y, si aplica, la del distribuidor.
func SaleEntries(sale *entity.Sale, entryType string, adminAmount, distributorAmount decimal.Decimal, createdBy, description string) []*entity.ProfitEntry {
	now := time.Now().UTC()
	out := []*entity.ProfitEntry{{
		CompanyID:   sale.CompanyID,
		AccountType: entity.AccountCompany,
		AccountID:   sale.CompanyID,
		Type:        entryType,
		Amount:      adminAmount,
		SaleID:      sale.ID,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}}
	if sale.DistributorID != "" {
		out = append(out, &entity.ProfitEntry{
			CompanyID:   sale.CompanyID,
			AccountType: entity.AccountDistributor,
			AccountID:   sale.DistributorID,
			Type:        entryType,
			Amount:      distributorAmount,
			SaleID:      sale.ID,
			Description: description,
			CreatedBy:   createdBy,
			CreatedAt:   now,
		})
	}
	return out
}
