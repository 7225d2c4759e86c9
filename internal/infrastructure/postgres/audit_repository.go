package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de acciones administrativas. Solo inserción y lectura.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Se usa con el pool, fuera de las transacciones de negocio.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	details := l.Details
	if details == nil {
		details = map[string]any{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, company_id, actor_id, actor_role, action, entity_type, entity_id, details, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, l.CompanyID, l.ActorID, l.ActorRole, l.Action, l.EntityType, l.EntityID, details, l.IP, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List devuelve los registros más recientes primero.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	var w where
	w.add("company_id = ?", f.CompanyID)
	if f.Action != "" {
		w.add("action = ?", f.Action)
	}
	if f.ActorID != "" {
		w.add("actor_id = ?", f.ActorID)
	}
	if f.EntityType != "" {
		w.add("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		w.add("entity_id = ?", f.EntityID)
	}
	w.addRange("created_at", f.From, f.To)
	query := `
		SELECT id, company_id, actor_id, actor_role, action, entity_type, entity_id, details, ip, created_at
		  FROM audit_logs` + w.String() + ` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	list := []*entity.AuditLog{}
	for rows.Next() {
		var l entity.AuditLog
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.ActorID, &l.ActorRole, &l.Action, &l.EntityType,
			&l.EntityID, &l.Details, &l.IP, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
