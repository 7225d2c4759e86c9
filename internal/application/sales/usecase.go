package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/application/profits"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// UseCase flujo de ventas: registro, confirmación, anulación y recálculo.
type UseCase struct {
	tx       repository.TxRunner
	sales    repository.SaleRepository
	zones    ports.Zones
	cache    ports.Cache
	recorder *audit.Recorder
	metrics  ports.Metrics
	log      zerolog.Logger
}

// Deps dependencias del caso de uso de ventas.
type Deps struct {
	Tx       repository.TxRunner
	Sales    repository.SaleRepository
	Zones    ports.Zones
	Cache    ports.Cache
	Recorder *audit.Recorder
	Metrics  ports.Metrics
	Log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Metrics == nil {
		d.Metrics = ports.NoopMetrics{}
	}
	return &UseCase{
		tx:       d.Tx,
		sales:    d.Sales,
		zones:    d.Zones,
		cache:    d.Cache,
		recorder: d.Recorder,
		metrics:  d.Metrics,
		log:      d.Log,
	}
}

// Record registra una venta y descuenta el stock en la misma transacción.
//
// Distribuidor: vende de su propio stock; la venta queda pendiente de confirmación.
// Administrador: vende del stock central (venta directa) o a nombre de un distribuidor; queda confirmada.
func (uc *UseCase) Record(ctx context.Context, actor dto.Actor, in dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if in.Quantity <= 0 || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	saleDate := now
	if in.SaleDate != nil {
		saleDate = in.SaleDate.UTC()
		if saleDate.After(now.Add(time.Minute)) {
			return nil, fmt.Errorf("%w: la fecha de venta no puede ser futura", domain.ErrInvalidInput)
		}
	}
	distributorID := in.DistributorID
	if !actor.IsAdmin() {
		distributorID = actor.UserID
	}
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CompanyID:     actor.CompanyID,
		ProductID:     in.ProductID,
		DistributorID: distributorID,
		RecordedBy:    actor.UserID,
		Quantity:      in.Quantity,
		Status:        entity.SaleStatusPending,
		ClientName:    in.ClientName,
		Notes:         in.Notes,
		SaleDate:      saleDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var written []*entity.ProfitEntry
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		var distributor *entity.User
		if distributorID != "" {
			u, err := tx.Users.GetInCompany(ctx, actor.CompanyID, distributorID)
			if err != nil {
				return err
			}
			if u == nil || u.Role != entity.RoleDistribuidor {
				return domain.ErrUserNotFound
			}
			if !u.IsActiveDistributor() {
				return fmt.Errorf("%w: el distribuidor no está activo", domain.ErrForbidden)
			}
			distributor = u
		}
		p, err := tx.Products.GetForUpdate(ctx, actor.CompanyID, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Status != entity.StatusActive {
			return fmt.Errorf("%w: producto inactivo", domain.ErrInvalidInput)
		}
		sale.UnitPrice = p.ClientPrice
		if in.UnitPrice != nil {
			sale.UnitPrice = in.UnitPrice.Round(2)
		}
		sale.PurchasePrice = p.PurchasePrice
		sale.DistributorPrice = p.DistributorPrice
		if distributor != nil && sale.UnitPrice.LessThan(p.DistributorPrice) {
			return fmt.Errorf("%w: el precio de venta no puede ser menor al precio de distribuidor", domain.ErrInvalidInput)
		}
		sale.Total = decimal.NewFromInt(int64(sale.Quantity)).Mul(sale.UnitPrice)

		// Descuento de stock: del distribuidor o del almacén central
		if distributor != nil {
			row, err := tx.Stock.GetForUpdate(ctx, actor.CompanyID, distributorID, p.ID)
			if err != nil {
				return err
			}
			if row == nil || row.Quantity < sale.Quantity {
				return domain.ErrInsufficientStock
			}
			if _, err := tx.Stock.Adjust(ctx, actor.CompanyID, distributorID, p.ID, -sale.Quantity); err != nil {
				return err
			}
		} else {
			if p.Stock < sale.Quantity {
				return domain.ErrInsufficientStock
			}
			if _, err := tx.Products.AdjustStock(ctx, actor.CompanyID, p.ID, -sale.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Movements.Create(ctx, &entity.StockMovement{
			ID:                uuid.New().String(),
			CompanyID:         actor.CompanyID,
			TransactionID:     uuid.New().String(),
			ProductID:         p.ID,
			FromDistributorID: distributorID,
			Type:              entity.MovementSale,
			Quantity:          sale.Quantity,
			Reference:         sale.ID,
			CreatedBy:         actor.UserID,
			CreatedAt:         now,
		}); err != nil {
			return err
		}

		if actor.IsAdmin() {
			pct := decimal.Zero
			if distributor != nil {
				pct = distributor.CommissionPct
			}
			if err := confirm(sale, pct, actor.UserID, now); err != nil {
				return err
			}
		}
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if sale.Status != entity.SaleStatusConfirmed {
			return nil
		}
		written, err = profits.Post(ctx, tx.Ledger, profits.SaleEntries(sale, entity.EntrySaleProfit, sale.AdminProfit, sale.DistributorProfit, actor.UserID, "venta confirmada"))
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.SaleRecorded(actor.CompanyID, sale.Status)
	uc.metrics.StockMoved(actor.CompanyID, entity.MovementSale, sale.Quantity)
	if sale.Status == entity.SaleStatusConfirmed {
		uc.metrics.SaleConfirmed(actor.CompanyID, sale.Total)
		uc.metrics.LedgerEntries(actor.CompanyID, entity.EntrySaleProfit, len(written))
		uc.invalidate(ctx, actor.CompanyID)
	}
	uc.recorder.Record(ctx, actor, entity.AuditSaleRecord, "sale", sale.ID, map[string]any{
		"product_id":     sale.ProductID,
		"distributor_id": sale.DistributorID,
		"quantity":       sale.Quantity,
		"total":          sale.Total.String(),
		"status":         sale.Status,
	})
	return ToSaleResponse(sale, actor.IsAdmin()), nil
}

// Confirm confirma una venta pendiente con el porcentaje vigente del distribuidor y asienta SALE_PROFIT.
func (uc *UseCase) Confirm(ctx context.Context, actor dto.Actor, id string) (*dto.SaleResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	var (
		sale    *entity.Sale
		written []*entity.ProfitEntry
	)
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		s, err := tx.Sales.GetForUpdate(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Status != entity.SaleStatusPending {
			return fmt.Errorf("%w: la venta está %s", domain.ErrConflict, s.Status)
		}
		pct := decimal.Zero
		if !s.IsDirect() {
			u, err := tx.Users.GetInCompany(ctx, actor.CompanyID, s.DistributorID)
			if err != nil {
				return err
			}
			if u == nil {
				return domain.ErrUserNotFound
			}
			pct = u.CommissionPct
		}
		now := time.Now().UTC()
		if err := confirm(s, pct, actor.UserID, now); err != nil {
			return err
		}
		s.UpdatedAt = now
		if err := tx.Sales.Update(ctx, s); err != nil {
			return err
		}
		sale = s
		written, err = profits.Post(ctx, tx.Ledger, profits.SaleEntries(s, entity.EntrySaleProfit, s.AdminProfit, s.DistributorProfit, actor.UserID, "venta confirmada"))
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.SaleConfirmed(actor.CompanyID, sale.Total)
	uc.metrics.LedgerEntries(actor.CompanyID, entity.EntrySaleProfit, len(written))
	uc.invalidate(ctx, actor.CompanyID)
	uc.recorder.Record(ctx, actor, entity.AuditSaleConfirm, "sale", sale.ID, map[string]any{
		"commission_pct":     sale.CommissionPct.String(),
		"admin_profit":       sale.AdminProfit.String(),
		"distributor_profit": sale.DistributorProfit.String(),
	})
	return ToSaleResponse(sale, true), nil
}

// Cancel anula una venta y devuelve el stock a su origen. Si estaba confirmada se asientan REVERSAL.
// Un distribuidor solo puede anular sus propias ventas pendientes.
func (uc *UseCase) Cancel(ctx context.Context, actor dto.Actor, id string, in dto.CancelSaleRequest) (*dto.SaleResponse, error) {
	var (
		sale       *entity.Sale
		written    []*entity.ProfitEntry
		wasConfirm bool
	)
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		s, err := tx.Sales.GetForUpdate(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if s == nil || (!actor.IsAdmin() && s.DistributorID != actor.UserID) {
			return domain.ErrNotFound
		}
		switch s.Status {
		case entity.SaleStatusPending:
		case entity.SaleStatusConfirmed:
			if !actor.IsAdmin() {
				return fmt.Errorf("%w: solo el administrador puede anular una venta confirmada", domain.ErrForbidden)
			}
		default:
			return fmt.Errorf("%w: la venta ya está anulada", domain.ErrConflict)
		}
		wasConfirm = s.Status == entity.SaleStatusConfirmed

		if s.IsDirect() {
			if _, err := tx.Products.AdjustStock(ctx, actor.CompanyID, s.ProductID, s.Quantity); err != nil {
				return err
			}
		} else if _, err := tx.Stock.Adjust(ctx, actor.CompanyID, s.DistributorID, s.ProductID, s.Quantity); err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Movements.Create(ctx, &entity.StockMovement{
			ID:              uuid.New().String(),
			CompanyID:       actor.CompanyID,
			TransactionID:   uuid.New().String(),
			ProductID:       s.ProductID,
			ToDistributorID: s.DistributorID,
			Type:            entity.MovementSaleCancel,
			Quantity:        s.Quantity,
			Reference:       s.ID,
			CreatedBy:       actor.UserID,
			CreatedAt:       now,
		}); err != nil {
			return err
		}
		s.Status = entity.SaleStatusCancelled
		s.CancelledAt = &now
		s.CancelReason = in.Reason
		s.UpdatedAt = now
		if err := tx.Sales.Update(ctx, s); err != nil {
			return err
		}
		sale = s
		if !wasConfirm {
			return nil
		}
		written, err = profits.Post(ctx, tx.Ledger, profits.SaleEntries(s, entity.EntryReversal, s.AdminProfit.Neg(), s.DistributorProfit.Neg(), actor.UserID, "venta anulada"))
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.SaleCancelled(actor.CompanyID)
	uc.metrics.StockMoved(actor.CompanyID, entity.MovementSaleCancel, sale.Quantity)
	if wasConfirm {
		uc.metrics.LedgerEntries(actor.CompanyID, entity.EntryReversal, len(written))
	}
	uc.invalidate(ctx, actor.CompanyID)
	uc.recorder.Record(ctx, actor, entity.AuditSaleCancel, "sale", sale.ID, map[string]any{
		"reason": in.Reason, "was_confirmed": wasConfirm,
	})
	return ToSaleResponse(sale, actor.IsAdmin()), nil
}

// Get obtiene una venta. Un distribuidor solo ve las suyas.
func (uc *UseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if s == nil || (!actor.IsAdmin() && s.DistributorID != actor.UserID) {
		return nil, domain.ErrNotFound
	}
	return ToSaleResponse(s, actor.IsAdmin()), nil
}

// List lista ventas con filtros; las fechas se interpretan en la zona horaria de la empresa.
func (uc *UseCase) List(ctx context.Context, actor dto.Actor, req dto.SaleListRequest) (*dto.SaleListResponse, error) {
	req.DefaultPage()
	if !actor.IsAdmin() {
		if req.DistributorID != "" && req.DistributorID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		req.DistributorID = actor.UserID
	}
	loc, err := uc.zones.Location(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	from, to, err := req.DateRangeQuery.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	list, err := uc.sales.List(ctx, repository.SaleFilter{
		CompanyID:     actor.CompanyID,
		Status:        req.Status,
		DistributorID: req.DistributorID,
		ProductID:     req.ProductID,
		From:          from,
		To:            to,
		Limit:         req.Limit,
		Offset:        req.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSaleResponse(s, actor.IsAdmin()))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: req.Limit, Offset: req.Offset}}, nil
}

// Recalculate reaplica el porcentaje vigente de cada distribuidor a las ventas confirmadas del rango.
func (uc *UseCase) Recalculate(ctx context.Context, actor dto.Actor, in dto.RecalculateSalesRequest) (*dto.RecalculateSalesResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !in.From.Before(in.To) {
		return nil, fmt.Errorf("%w: rango vacío", domain.ErrInvalidInput)
	}
	var res RecalcResult
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		var err error
		res, err = RecalculateInTx(ctx, tx, actor.CompanyID, in.From.UTC(), in.To.UTC(), actor.UserID, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.LedgerEntries(actor.CompanyID, entity.EntryAdjustment, len(res.Entries))
	if res.Adjusted > 0 {
		uc.invalidate(ctx, actor.CompanyID)
	}
	uc.recorder.Record(ctx, actor, entity.AuditSaleRecalculate, "sale", "", map[string]any{
		"from":     in.From.UTC(),
		"to":       in.To.UTC(),
		"examined": res.Examined,
		"adjusted": res.Adjusted,
	})
	return &dto.RecalculateSalesResponse{Examined: res.Examined, Adjusted: res.Adjusted}, nil
}

// confirm calcula el reparto y marca la venta como confirmada.
func confirm(s *entity.Sale, pct decimal.Decimal, by string, at time.Time) error {
	r, err := Split(s, pct)
	if err != nil {
		return err
	}
	s.Total = r.Total
	s.CommissionPct = r.CommissionPct
	s.AdminProfit = r.AdminProfit
	s.DistributorProfit = r.DistributorProfit
	s.Status = entity.SaleStatusConfirmed
	s.ConfirmedAt = &at
	s.ConfirmedBy = by
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context, companyID string) {
	if err := ports.BumpAnalyticsVersion(ctx, uc.cache, companyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("sales: no se pudo invalidar la caché de analítica")
	}
}

// ToSaleResponse convierte la venta al DTO. El costo y la utilidad del administrador solo los ve el administrador.
func ToSaleResponse(s *entity.Sale, admin bool) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		DistributorID:     s.DistributorID,
		RecordedBy:        s.RecordedBy,
		Quantity:          s.Quantity,
		UnitPrice:         s.UnitPrice,
		DistributorPrice:  s.DistributorPrice,
		Total:             s.Total,
		CommissionPct:     s.CommissionPct,
		DistributorProfit: s.DistributorProfit,
		Status:            s.Status,
		ClientName:        s.ClientName,
		Notes:             s.Notes,
		SaleDate:          s.SaleDate,
		ConfirmedAt:       s.ConfirmedAt,
		ConfirmedBy:       s.ConfirmedBy,
		CancelledAt:       s.CancelledAt,
		CancelReason:      s.CancelReason,
		CreatedAt:         s.CreatedAt,
	}
	if admin {
		cost, profit := s.PurchasePrice, s.AdminProfit
		resp.PurchasePrice = &cost
		resp.AdminProfit = &profit
	}
	return resp
}
