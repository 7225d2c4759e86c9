package usecase

import (
	"context"

	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/auth"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

// DistributorUseCase consultas y gestión de estado de los distribuidores de la empresa.
type DistributorUseCase struct {
	users    repository.UserRepository
	recorder *audit.Recorder
}

// NewDistributorUseCase construye el caso de uso.
func NewDistributorUseCase(users repository.UserRepository, recorder *audit.Recorder) *DistributorUseCase {
	return &DistributorUseCase{users: users, recorder: recorder}
}

// List lista los distribuidores de la empresa del actor.
func (uc *DistributorUseCase) List(ctx context.Context, actor dto.Actor, req dto.DistributorListRequest) (*dto.UserListResponse, error) {
	req.DefaultPage()
	list, err := uc.users.List(ctx, repository.UserFilter{
		CompanyID: actor.CompanyID,
		Role:      entity.RoleDistribuidor,
		Status:    req.Status,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: req.Limit, Offset: req.Offset}}, nil
}

// Get devuelve un distribuidor de la empresa. Un distribuidor solo puede consultarse a sí mismo.
func (uc *DistributorUseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, domain.ErrForbidden
	}
	u, err := uc.users.GetInCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != entity.RoleDistribuidor {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(u), nil
}

// SetStatus activa, inactiva o suspende a un distribuidor (admin).
func (uc *DistributorUseCase) SetStatus(ctx context.Context, actor dto.Actor, id string, in dto.SetStatusRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	u, err := uc.users.GetInCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != entity.RoleDistribuidor {
		return nil, domain.ErrUserNotFound
	}
	switch in.Status {
	case entity.UserStatusActive, entity.UserStatusInactive, entity.UserStatusSuspended:
	default:
		return nil, domain.ErrInvalidInput
	}
	previous := u.Status
	if err := uc.users.UpdateStatus(ctx, actor.CompanyID, id, in.Status); err != nil {
		return nil, err
	}
	u.Status = in.Status
	uc.recorder.Record(ctx, actor, entity.AuditDistributorStatus, "user", id, map[string]any{
		"from": previous, "to": in.Status,
	})
	return auth.ToUserResponse(u), nil
}
