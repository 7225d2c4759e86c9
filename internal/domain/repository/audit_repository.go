package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
)

// AuditFilter filtros de consulta del log de auditoría.
type AuditFilter struct {
	CompanyID  string
	Action     string
	ActorID    string
	EntityType string
	EntityID   string
	From, To   *time.Time
	Limit      int
	Offset     int
}

// AuditRepository define el puerto del log de auditoría. Solo inserción y lectura.
type AuditRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	List(ctx context.Context, f AuditFilter) ([]*entity.AuditLog, error)
}
