package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/catalog"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. PurchasePrice y Stock se manejan vía reposiciones y movimientos.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	tx         repository.TxRunner
	recorder   *audit.Recorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository, tx repository.TxRunner, recorder *audit.Recorder) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories, tx: tx, recorder: recorder}
}

// Create crea un nuevo producto. El stock inicial entra como movimiento RESTOCK en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := catalog.ValidatePrices(in.PurchasePrice, in.DistributorPrice, in.ClientPrice); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(in.SKU)
	if sku == "" || in.InitialStock < 0 || in.LowStockThreshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCategory(ctx, actor.CompanyID, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:                uuid.New().String(),
		CompanyID:         actor.CompanyID,
		CategoryID:        in.CategoryID,
		SKU:               sku,
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		PurchasePrice:     in.PurchasePrice.Round(2),
		DistributorPrice:  in.DistributorPrice.Round(2),
		ClientPrice:       in.ClientPrice.Round(2),
		LowStockThreshold: in.LowStockThreshold,
		Status:            entity.StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		existing, err := tx.Products.GetBySKU(ctx, actor.CompanyID, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		stock, err := tx.Products.AdjustStock(ctx, actor.CompanyID, product.ID, in.InitialStock)
		if err != nil {
			return err
		}
		product.Stock = stock
		return tx.Movements.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     actor.CompanyID,
			TransactionID: uuid.New().String(),
			ProductID:     product.ID,
			Type:          entity.MovementRestock,
			Quantity:      in.InitialStock,
			Reference:     "initial",
			CreatedBy:     actor.UserID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, actor, entity.AuditProductCreate, "product", product.ID, map[string]any{
		"sku": product.SKU, "initial_stock": in.InitialStock,
	})
	return toProductResponse(product, true), nil
}

// GetByID obtiene un producto. El costo de compra solo lo ve el administrador.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor dto.Actor, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p, actor.IsAdmin()), nil
}

// List lista productos de la empresa con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, actor dto.Actor, req dto.ProductListRequest) (*dto.ProductListResponse, error) {
	req.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		CompanyID:  actor.CompanyID,
		CategoryID: req.CategoryID,
		Status:     req.Status,
		Search:     strings.TrimSpace(req.Search),
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, actor.IsAdmin()))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	}, nil
}

// Update actualiza un producto (sin costo ni stock). Los precios siguen respetando los niveles.
func (uc *ProductUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	p, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	changes := map[string]any{}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, domain.ErrInvalidInput
		}
		if sku != p.SKU {
			other, err := uc.repo.GetBySKU(ctx, actor.CompanyID, sku)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != p.ID {
				return nil, domain.ErrDuplicate
			}
			p.SKU = sku
			changes["sku"] = sku
		}
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		changes["name"] = p.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, actor.CompanyID, *in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *in.CategoryID
		changes["category_id"] = p.CategoryID
	}
	if in.DistributorPrice != nil {
		changes["distributor_price"] = map[string]string{"from": p.DistributorPrice.String(), "to": in.DistributorPrice.String()}
		p.DistributorPrice = in.DistributorPrice.Round(2)
	}
	if in.ClientPrice != nil {
		changes["client_price"] = map[string]string{"from": p.ClientPrice.String(), "to": in.ClientPrice.String()}
		p.ClientPrice = in.ClientPrice.Round(2)
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		p.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Status != nil {
		p.Status = *in.Status
		changes["status"] = p.Status
	}
	if err := catalog.ValidatePrices(p.PurchasePrice, p.DistributorPrice, p.ClientPrice); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, actor, entity.AuditProductUpdate, "product", p.ID, changes)
	return toProductResponse(p, true), nil
}

// Restock registra una entrada de mercancía al stock central y recalcula el costo promedio ponderado.
// Si el nuevo costo superaría el precio al distribuidor la entrada se rechaza.
func (uc *ProductUseCase) Restock(ctx context.Context, actor dto.Actor, id string, in dto.RestockRequest) (*dto.ProductResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Quantity <= 0 || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var (
		product *entity.Product
		oldCost string
	)
	err := uc.tx.Run(ctx, func(tx repository.Tx) error {
		p, err := tx.Products.GetForUpdate(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		oldCost = p.PurchasePrice.String()
		cost := catalog.WeightedAverageCost(p.Stock, p.PurchasePrice, in.Quantity, in.UnitCost)
		if err := catalog.ValidatePrices(cost, p.DistributorPrice, p.ClientPrice); err != nil {
			return err
		}
		if err := tx.Products.UpdateCost(ctx, actor.CompanyID, p.ID, cost); err != nil {
			return err
		}
		stock, err := tx.Products.AdjustStock(ctx, actor.CompanyID, p.ID, in.Quantity)
		if err != nil {
			return err
		}
		p.PurchasePrice = cost
		p.Stock = stock
		product = p
		return tx.Movements.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     actor.CompanyID,
			TransactionID: uuid.New().String(),
			ProductID:     p.ID,
			Type:          entity.MovementRestock,
			Quantity:      in.Quantity,
			Reference:     in.Note,
			CreatedBy:     actor.UserID,
			CreatedAt:     time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, actor, entity.AuditProductRestock, "product", product.ID, map[string]any{
		"quantity":  in.Quantity,
		"unit_cost": in.UnitCost.String(),
		"cost_from": oldCost,
		"cost_to":   product.PurchasePrice.String(),
	})
	return toProductResponse(product, true), nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, companyID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categories.GetByID(ctx, companyID, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponse(p *entity.Product, withCost bool) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:                p.ID,
		CompanyID:         p.CompanyID,
		CategoryID:        p.CategoryID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		DistributorPrice:  p.DistributorPrice,
		ClientPrice:       p.ClientPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if withCost {
		cost := p.PurchasePrice
		resp.PurchasePrice = &cost
	}
	return resp
}
