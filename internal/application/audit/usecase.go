package audit

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

// UseCase consulta de la bitácora (solo administradores).
type UseCase struct {
	repo repository.AuditRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.AuditRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List devuelve los registros de la empresa del actor, más recientes primero.
func (uc *UseCase) List(ctx context.Context, actor dto.Actor, req dto.AuditListRequest) (*dto.AuditListResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	req.DefaultPage()
	from, to, err := req.DateRangeQuery.Parse(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	logs, err := uc.repo.List(ctx, repository.AuditFilter{
		CompanyID:  actor.CompanyID,
		Action:     req.Action,
		ActorID:    req.ActorID,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		From:       from,
		To:         to,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, toAuditResponse(l))
	}
	return &dto.AuditListResponse{Items: items, Page: dto.PageResponse{Limit: req.Limit, Offset: req.Offset}}, nil
}

func toAuditResponse(l *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:         l.ID,
		ActorID:    l.ActorID,
		ActorRole:  l.ActorRole,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    l.Details,
		IP:         l.IP,
		CreatedAt:  l.CreatedAt,
	}
}
