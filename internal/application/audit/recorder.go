// Package audit registra y consulta la bitácora de acciones administrativas.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Recorder canal lateral de auditoría: un fallo al guardar se registra en el log y nunca
// se propaga a la operación de negocio.
type Recorder struct {
	repo repository.AuditRepository
	log  zerolog.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditRepository, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record guarda la acción. Usa un contexto propio para no perder el registro si la petición se cancela.
func (r *Recorder) Record(ctx context.Context, actor dto.Actor, action, entityType, entityID string, details map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	entry := &entity.AuditLog{
		ID:         uuid.New().String(),
		CompanyID:  actor.CompanyID,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IP:         actor.IP,
		CreatedAt:  time.Now().UTC(),
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.repo.Create(wctx, entry); err != nil {
		r.log.Error().Err(err).
			Str("action", action).
			Str("entity_id", entityID).
			Str("company_id", actor.CompanyID).
			Msg("audit: no se pudo registrar la acción")
	}
}
