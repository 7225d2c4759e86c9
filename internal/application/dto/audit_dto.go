package dto

import "time"

// AuditListRequest filtros de GET /api/audit.
type AuditListRequest struct {
	PageRequest
	DateRangeQuery
	Action     string `query:"action"`
	ActorID    string `query:"actor_id"`
	EntityType string `query:"entity_type"`
	EntityID   string `query:"entity_id"`
}

// AuditLogResponse registro de auditoría.
type AuditLogResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	ActorRole  string         `json:"actor_role"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details,omitempty"`
	IP         string         `json:"ip,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditListResponse lista paginada de auditoría.
type AuditListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
