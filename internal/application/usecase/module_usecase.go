package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

// ModuleService verifica qué módulos SaaS tiene activos una empresa.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si la empresa no tiene el módulo contratado.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}

// List estado de todos los módulos de la empresa.
func (s *ModuleService) List(ctx context.Context, companyID string) ([]dto.ModuleResponse, error) {
	mods, err := s.companyRepo.ListModules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.ModuleResponse, 0, len(mods))
	for _, m := range mods {
		out = append(out, dto.ModuleResponse{
			ModuleName:  m.ModuleName,
			IsActive:    m.IsActive,
			Effective:   m.IsEffective(now),
			ActivatedAt: m.ActivatedAt,
			ExpiresAt:   m.ExpiresAt,
		})
	}
	return out, nil
}

// Set activa o desactiva un módulo (admin de la empresa).
func (s *ModuleService) Set(ctx context.Context, actor dto.Actor, moduleName string, in dto.SetModuleRequest) (*dto.ModuleResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !slices.Contains(entity.AllModules, moduleName) {
		return nil, fmt.Errorf("%w: módulo desconocido %q", domain.ErrInvalidInput, moduleName)
	}
	now := time.Now().UTC()
	m := &entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		ModuleName:  moduleName,
		IsActive:    in.IsActive,
		ActivatedAt: now,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.companyRepo.UpsertModule(ctx, m); err != nil {
		return nil, err
	}
	return &dto.ModuleResponse{
		ModuleName:  m.ModuleName,
		IsActive:    m.IsActive,
		Effective:   m.IsEffective(now),
		ActivatedAt: m.ActivatedAt,
		ExpiresAt:   m.ExpiresAt,
	}, nil
}
