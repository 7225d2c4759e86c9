package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora en memoria. Vive fuera del estado transaccional: un registro de auditoría
// no se pierde si la operación que lo originó se revierte después.
type AuditRepo struct {
	mu   sync.RWMutex
	logs []entity.AuditLog
}

func (r *AuditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *l
	stored.Details = maps.Clone(l.Details)
	r.logs = append(r.logs, stored)
	return nil
}

func (r *AuditRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []entity.AuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		l := r.logs[i]
		if l.CompanyID != f.CompanyID {
			continue
		}
		if (f.Action != "" && l.Action != f.Action) ||
			(f.ActorID != "" && l.ActorID != f.ActorID) ||
			(f.EntityType != "" && l.EntityType != f.EntityType) ||
			(f.EntityID != "" && l.EntityID != f.EntityID) {
			continue
		}
		if !inRange(l.CreatedAt, f.From, f.To) {
			continue
		}
		list = append(list, l)
	}
	slices.SortStableFunc(list, func(a, b entity.AuditLog) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return ptrs(page(list, f.Limit, f.Offset)), nil
}
