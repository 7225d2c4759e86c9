package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
)

// AuditHandler consulta del registro de auditoría (admin).
type AuditHandler struct {
	uc *audit.UseCase
}

func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Registro de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        action       query  string  false  "Acción"
// @Param        actor_id     query  string  false  "Actor"
// @Param        entity_type  query  string  false  "Tipo de entidad"
// @Param        entity_id    query  string  false  "ID de entidad"
// @Param        from         query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to           query  string  false  "YYYY-MM-DD o RFC3339"
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var req dto.AuditListRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
