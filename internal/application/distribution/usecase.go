// Package distribution mueve stock entre el almacén central y los distribuidores.
package distribution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

// UseCase registra asignaciones, retiros y traspasos de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type UseCase struct {
	tx        repository.TxRunner
	products  repository.ProductRepository
	stock     repository.DistributorStockRepository
	movements repository.StockMovementRepository
	zones     ports.Zones
	recorder  *audit.Recorder
	metrics   ports.Metrics
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx repository.TxRunner,
	products repository.ProductRepository,
	stock repository.DistributorStockRepository,
	movements repository.StockMovementRepository,
	zones ports.Zones,
	recorder *audit.Recorder,
	metrics ports.Metrics,
) *UseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &UseCase{
		tx:        tx,
		products:  products,
		stock:     stock,
		movements: movements,
		zones:     zones,
		recorder:  recorder,
		metrics:   metrics,
	}
}

// Assign entrega unidades del stock central a un distribuidor activo.
func (uc *UseCase) Assign(ctx context.Context, actor dto.Actor, in dto.AssignStockRequest) (*dto.StockOperationResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Quantity <= 0 || in.ProductID == "" || in.DistributorID == "" {
		return nil, domain.ErrInvalidInput
	}
	out := &dto.StockOperationResponse{
		TransactionID:  uuid.New().String(),
		ProductID:      in.ProductID,
		MovementType:   entity.MovementAssign,
		MovementAmount: in.Quantity,
	}
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		if err := requireDistributor(ctx, tx, actor.CompanyID, in.DistributorID, true); err != nil {
			return err
		}
		// Bloquea la fila del producto para evitar condiciones de carrera sobre el stock central
		p, err := tx.Products.GetForUpdate(ctx, actor.CompanyID, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Stock < in.Quantity {
			return domain.ErrInsufficientStock
		}
		central, err := tx.Products.AdjustStock(ctx, actor.CompanyID, p.ID, -in.Quantity)
		if err != nil {
			return err
		}
		to, err := tx.Stock.Adjust(ctx, actor.CompanyID, in.DistributorID, p.ID, in.Quantity)
		if err != nil {
			return err
		}
		out.CentralStock = central
		out.ToQuantity = &to
		return tx.Movements.Create(ctx, newMovement(actor, out.TransactionID, p.ID, "", in.DistributorID, entity.MovementAssign, in.Quantity, in.Reference))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.StockMoved(actor.CompanyID, entity.MovementAssign, in.Quantity)
	uc.recorder.Record(ctx, actor, entity.AuditStockAssign, "product", in.ProductID, map[string]any{
		"distributor_id": in.DistributorID, "quantity": in.Quantity, "transaction_id": out.TransactionID,
	})
	return out, nil
}

// Withdraw devuelve unidades de un distribuidor al stock central.
func (uc *UseCase) Withdraw(ctx context.Context, actor dto.Actor, in dto.WithdrawStockRequest) (*dto.StockOperationResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Quantity <= 0 || in.ProductID == "" || in.DistributorID == "" {
		return nil, domain.ErrInvalidInput
	}
	out := &dto.StockOperationResponse{
		TransactionID:  uuid.New().String(),
		ProductID:      in.ProductID,
		MovementType:   entity.MovementWithdraw,
		MovementAmount: in.Quantity,
	}
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		// Un distribuidor inactivo o suspendido también puede devolver mercancía
		if err := requireDistributor(ctx, tx, actor.CompanyID, in.DistributorID, false); err != nil {
			return err
		}
		p, err := tx.Products.GetForUpdate(ctx, actor.CompanyID, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		row, err := tx.Stock.GetForUpdate(ctx, actor.CompanyID, in.DistributorID, p.ID)
		if err != nil {
			return err
		}
		if row == nil || row.Quantity < in.Quantity {
			return domain.ErrInsufficientStock
		}
		from, err := tx.Stock.Adjust(ctx, actor.CompanyID, in.DistributorID, p.ID, -in.Quantity)
		if err != nil {
			return err
		}
		central, err := tx.Products.AdjustStock(ctx, actor.CompanyID, p.ID, in.Quantity)
		if err != nil {
			return err
		}
		out.CentralStock = central
		out.FromQuantity = &from
		return tx.Movements.Create(ctx, newMovement(actor, out.TransactionID, p.ID, in.DistributorID, "", entity.MovementWithdraw, in.Quantity, in.Reference))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.StockMoved(actor.CompanyID, entity.MovementWithdraw, in.Quantity)
	uc.recorder.Record(ctx, actor, entity.AuditStockWithdraw, "product", in.ProductID, map[string]any{
		"distributor_id": in.DistributorID, "quantity": in.Quantity, "transaction_id": out.TransactionID,
	})
	return out, nil
}

// Transfer traspasa unidades entre dos distribuidores; el destino debe estar activo.
func (uc *UseCase) Transfer(ctx context.Context, actor dto.Actor, in dto.TransferStockRequest) (*dto.StockOperationResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Quantity <= 0 || in.ProductID == "" || in.FromDistributorID == "" || in.ToDistributorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromDistributorID == in.ToDistributorID {
		return nil, fmt.Errorf("%w: origen y destino son el mismo distribuidor", domain.ErrInvalidInput)
	}
	out := &dto.StockOperationResponse{
		TransactionID:  uuid.New().String(),
		ProductID:      in.ProductID,
		MovementType:   entity.MovementTransfer,
		MovementAmount: in.Quantity,
	}
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		if err := requireDistributor(ctx, tx, actor.CompanyID, in.FromDistributorID, false); err != nil {
			return err
		}
		if err := requireDistributor(ctx, tx, actor.CompanyID, in.ToDistributorID, true); err != nil {
			return err
		}
		p, err := tx.Products.GetByID(ctx, actor.CompanyID, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		// Bloquea ambas filas siempre en el mismo orden para no provocar deadlocks entre traspasos cruzados
		first, second := in.FromDistributorID, in.ToDistributorID
		if second < first {
			first, second = second, first
		}
		rows := map[string]*entity.DistributorStock{}
		for _, id := range []string{first, second} {
			row, err := tx.Stock.GetForUpdate(ctx, actor.CompanyID, id, p.ID)
			if err != nil {
				return err
			}
			rows[id] = row
		}
		if origin := rows[in.FromDistributorID]; origin == nil || origin.Quantity < in.Quantity {
			return domain.ErrInsufficientStock
		}
		from, err := tx.Stock.Adjust(ctx, actor.CompanyID, in.FromDistributorID, p.ID, -in.Quantity)
		if err != nil {
			return err
		}
		to, err := tx.Stock.Adjust(ctx, actor.CompanyID, in.ToDistributorID, p.ID, in.Quantity)
		if err != nil {
			return err
		}
		out.CentralStock = p.Stock
		out.FromQuantity = &from
		out.ToQuantity = &to
		return tx.Movements.Create(ctx, newMovement(actor, out.TransactionID, p.ID, in.FromDistributorID, in.ToDistributorID, entity.MovementTransfer, in.Quantity, in.Reference))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.StockMoved(actor.CompanyID, entity.MovementTransfer, in.Quantity)
	uc.recorder.Record(ctx, actor, entity.AuditStockTransfer, "product", in.ProductID, map[string]any{
		"from_distributor_id": in.FromDistributorID,
		"to_distributor_id":   in.ToDistributorID,
		"quantity":            in.Quantity,
		"transaction_id":      out.TransactionID,
	})
	return out, nil
}

// ListStock stock en manos de distribuidores. Un distribuidor solo ve el suyo.
func (uc *UseCase) ListStock(ctx context.Context, actor dto.Actor, req dto.StockListRequest) ([]dto.DistributorStockResponse, error) {
	distributorID := req.DistributorID
	if !actor.IsAdmin() {
		if distributorID != "" && distributorID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		distributorID = actor.UserID
	}
	rows, err := uc.stock.List(ctx, actor.CompanyID, distributorID)
	if err != nil {
		return nil, err
	}
	products := map[string]*entity.Product{}
	out := make([]dto.DistributorStockResponse, 0, len(rows))
	for _, r := range rows {
		p, ok := products[r.ProductID]
		if !ok {
			if p, err = uc.products.GetByID(ctx, actor.CompanyID, r.ProductID); err != nil {
				return nil, err
			}
			products[r.ProductID] = p
		}
		item := dto.DistributorStockResponse{
			DistributorID: r.DistributorID,
			ProductID:     r.ProductID,
			Quantity:      r.Quantity,
			UpdatedAt:     r.UpdatedAt,
		}
		if p != nil {
			item.SKU = p.SKU
			item.ProductName = p.Name
		}
		out = append(out, item)
	}
	return out, nil
}

// ListMovements historial de movimientos con filtros. Un distribuidor solo ve los que lo involucran.
func (uc *UseCase) ListMovements(ctx context.Context, actor dto.Actor, req dto.MovementListRequest) (*dto.MovementListResponse, error) {
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
	list, err := uc.movements.List(ctx, repository.MovementFilter{
		CompanyID:     actor.CompanyID,
		ProductID:     req.ProductID,
		DistributorID: req.DistributorID,
		Type:          req.Type,
		From:          from,
		To:            to,
		Limit:         req.Limit,
		Offset:        req.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: req.Limit, Offset: req.Offset}}, nil
}

// requireDistributor verifica que el usuario exista en la empresa con rol distribuidor (y activo si se exige).
func requireDistributor(ctx context.Context, tx repository.Tx, companyID, id string, active bool) error {
	u, err := tx.Users.GetInCompany(ctx, companyID, id)
	if err != nil {
		return err
	}
	if u == nil || u.Role != entity.RoleDistribuidor {
		return domain.ErrUserNotFound
	}
	if active && u.Status != entity.UserStatusActive {
		return fmt.Errorf("%w: el distribuidor no está activo", domain.ErrInvalidInput)
	}
	return nil
}

func newMovement(actor dto.Actor, txID, productID, from, to, typ string, qty int, ref string) *entity.StockMovement {
	return &entity.StockMovement{
		ID:                uuid.New().String(),
		CompanyID:         actor.CompanyID,
		TransactionID:     txID,
		ProductID:         productID,
		FromDistributorID: from,
		ToDistributorID:   to,
		Type:              typ,
		Quantity:          qty,
		Reference:         ref,
		CreatedBy:         actor.UserID,
		CreatedAt:         time.Now().UTC(),
	}
}

// ToMovementResponse convierte la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		TransactionID:     m.TransactionID,
		ProductID:         m.ProductID,
		FromDistributorID: m.FromDistributorID,
		ToDistributorID:   m.ToDistributorID,
		Type:              m.Type,
		Quantity:          m.Quantity,
		Reference:         m.Reference,
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
	}
}
