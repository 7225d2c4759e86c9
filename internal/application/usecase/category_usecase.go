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

// CategoryUseCase casos de uso de categorías del catálogo.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	recorder *audit.Recorder
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, recorder *audit.Recorder) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, recorder: recorder}
}

// Create crea una categoría. Si no viene código se deriva del nombre.
func (uc *CategoryUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	code := catalog.CategoryCode(in.Code)
	if code == "" {
		code = catalog.CategoryCode(name)
	}
	if name == "" || code == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkParent(ctx, actor.CompanyID, "", in.ParentID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, actor.CompanyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		ParentID:  in.ParentID,
		Name:      name,
		Code:      code,
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, actor, entity.AuditCategoryCreate, "category", c.ID, map[string]any{"name": c.Name, "code": c.Code})
	return toCategoryResponse(c), nil
}

// List categorías de la empresa.
func (uc *CategoryUseCase) List(ctx context.Context, companyID string) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Update actualiza nombre, código, padre o estado.
func (uc *CategoryUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	c, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	changes := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = name
		changes["name"] = name
	}
	if in.Code != nil {
		code := catalog.CategoryCode(*in.Code)
		if code == "" {
			return nil, domain.ErrInvalidInput
		}
		if code != c.Code {
			other, err := uc.repo.GetByCode(ctx, actor.CompanyID, code)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != c.ID {
				return nil, domain.ErrDuplicate
			}
			c.Code = code
			changes["code"] = code
		}
	}
	if in.ParentID != nil {
		if err := uc.checkParent(ctx, actor.CompanyID, c.ID, *in.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = *in.ParentID
		changes["parent_id"] = c.ParentID
	}
	if in.Status != nil {
		c.Status = *in.Status
		changes["status"] = c.Status
	}
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, actor, entity.AuditCategoryUpdate, "category", c.ID, changes)
	return toCategoryResponse(c), nil
}

// checkParent el padre debe existir en la empresa y no ser la propia categoría.
func (uc *CategoryUseCase) checkParent(ctx context.Context, companyID, selfID, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == selfID {
		return domain.ErrInvalidInput
	}
	parent, err := uc.repo.GetByID(ctx, companyID, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Name:      c.Name,
		Code:      c.Code,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
