package profits

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/ledger"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

// UseCase consultas del historial, pagos a distribuidores y verificación de la cadena.
type UseCase struct {
	tx       repository.TxRunner
	ledger   repository.ProfitLedgerRepository
	users    repository.UserRepository
	zones    ports.Zones
	recorder *audit.Recorder
	metrics  ports.Metrics
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx repository.TxRunner,
	ledgerRepo repository.ProfitLedgerRepository,
	users repository.UserRepository,
	zones ports.Zones,
	recorder *audit.Recorder,
	metrics ports.Metrics,
) *UseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &UseCase{tx: tx, ledger: ledgerRepo, users: users, zones: zones, recorder: recorder, metrics: metrics}
}

// Account cuenta del libro.
type Account struct {
	Type string
	ID   string
}

// ResolveAccount determina la cuenta consultada. Un distribuidor siempre consulta la suya;
// el administrador consulta la de la empresa por defecto.
func ResolveAccount(actor dto.Actor, q dto.ProfitAccountQuery) (Account, error) {
	if !actor.IsAdmin() {
		if q.AccountType == entity.AccountCompany || (q.AccountID != "" && q.AccountID != actor.UserID) {
			return Account{}, domain.ErrForbidden
		}
		return Account{Type: entity.AccountDistributor, ID: actor.UserID}, nil
	}
	switch q.AccountType {
	case "", entity.AccountCompany:
		if q.AccountType == "" && q.AccountID != "" {
			return Account{Type: entity.AccountDistributor, ID: q.AccountID}, nil
		}
		return Account{Type: entity.AccountCompany, ID: actor.CompanyID}, nil
	case entity.AccountDistributor:
		if q.AccountID == "" {
			return Account{}, fmt.Errorf("%w: account_id requerido", domain.ErrInvalidInput)
		}
		return Account{Type: entity.AccountDistributor, ID: q.AccountID}, nil
	}
	return Account{}, domain.ErrInvalidInput
}

// History asientos de una cuenta, más recientes primero.
func (uc *UseCase) History(ctx context.Context, actor dto.Actor, req dto.ProfitHistoryRequest) (*dto.ProfitHistoryResponse, error) {
	req.DefaultPage()
	acc, err := ResolveAccount(actor, req.ProfitAccountQuery)
	if err != nil {
		return nil, err
	}
	loc, err := uc.zones.Location(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	from, to, err := req.DateRangeQuery.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	list, err := uc.ledger.List(ctx, repository.LedgerFilter{
		CompanyID:   actor.CompanyID,
		AccountType: acc.Type,
		AccountID:   acc.ID,
		From:        from,
		To:          to,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfitEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toEntryResponse(e))
	}
	return &dto.ProfitHistoryResponse{
		AccountType: acc.Type,
		AccountID:   acc.ID,
		Items:       items,
		Page:        dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	}, nil
}

// Balance saldo vigente de una cuenta (cero si no tiene movimientos).
func (uc *UseCase) Balance(ctx context.Context, actor dto.Actor, q dto.ProfitAccountQuery) (*dto.BalanceResponse, error) {
	acc, err := ResolveAccount(actor, q)
	if err != nil {
		return nil, err
	}
	bal, err := uc.ledger.GetBalance(ctx, actor.CompanyID, acc.Type, acc.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.BalanceResponse{AccountType: acc.Type, AccountID: acc.ID}
	if bal != nil {
		out.Balance = bal.Balance
		out.Entries = bal.LastSeq
	}
	return out, nil
}

// RecordPayout registra un pago al distribuidor como asiento PAYOUT negativo.
// El monto no puede superar el saldo disponible.
func (uc *UseCase) RecordPayout(ctx context.Context, actor dto.Actor, in dto.PayoutRequest) (*dto.ProfitEntryResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser positivo", domain.ErrInvalidInput)
	}
	u, err := uc.users.GetInCompany(ctx, actor.CompanyID, in.DistributorID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != entity.RoleDistribuidor {
		return nil, domain.ErrUserNotFound
	}
	amount := in.Amount.Round(2)
	entry := &entity.ProfitEntry{
		CompanyID:   actor.CompanyID,
		AccountType: entity.AccountDistributor,
		AccountID:   in.DistributorID,
		Type:        entity.EntryPayout,
		Amount:      amount.Neg(),
		Description: in.Note,
		CreatedBy:   actor.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	err = uc.tx.Run(ctx, func(tx repository.Tx) error {
		bal, err := tx.Ledger.LockBalance(ctx, actor.CompanyID, entity.AccountDistributor, in.DistributorID)
		if err != nil {
			return err
		}
		if bal == nil || bal.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}
		return appendEntry(ctx, tx.Ledger, entry)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.LedgerEntries(actor.CompanyID, entity.EntryPayout, 1)
	uc.recorder.Record(ctx, actor, entity.AuditPayout, "user", in.DistributorID, map[string]any{
		"amount": amount.String(), "balance_after": entry.BalanceAfter.String(), "entry_id": entry.ID,
	})
	resp := toEntryResponse(entry)
	return &resp, nil
}

// VerifyResponse resultado de verificar la cadena de una cuenta.
type VerifyResponse struct {
	AccountType string `json:"account_type"`
	AccountID   string `json:"account_id"`
	OK          bool   `json:"ok"`
	ledger.Report
}

// Verify recorre la cadena de la cuenta y recalcula el saldo (administrador).
func (uc *UseCase) Verify(ctx context.Context, actor dto.Actor, q dto.ProfitAccountQuery) (*VerifyResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	acc, err := ResolveAccount(actor, q)
	if err != nil {
		return nil, err
	}
	entries, err := uc.ledger.ListChain(ctx, actor.CompanyID, acc.Type, acc.ID)
	if err != nil {
		return nil, err
	}
	bal, err := uc.ledger.GetBalance(ctx, actor.CompanyID, acc.Type, acc.ID)
	if err != nil {
		return nil, err
	}
	rep := ledger.Verify(entries, bal)
	return &VerifyResponse{AccountType: acc.Type, AccountID: acc.ID, OK: rep.OK(), Report: rep}, nil
}

func toEntryResponse(e *entity.ProfitEntry) dto.ProfitEntryResponse {
	return dto.ProfitEntryResponse{
		ID:           e.ID,
		Seq:          e.Seq,
		Type:         e.Type,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		SaleID:       e.SaleID,
		EvaluationID: e.EvaluationID,
		Description:  e.Description,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
	}
}
