package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Distribuidores-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	svc *appanalytics.Service
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(svc *appanalytics.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Admin devuelve el resumen del día y del mes, top de productos, ranking en vivo y alertas de stock.
// GET /api/dashboard/admin
//
// Las fechas se calculan en el servidor con la zona horaria de la empresa.
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	out, err := h.svc.AdminDashboard(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Distributor resumen del distribuidor autenticado. El admin indica ?distributor_id=.
// GET /api/dashboard/distributor
func (h *DashboardHandler) Distributor(c *fiber.Ctx) error {
	distributorID := c.Query("distributor_id")
	if distributorID != "" {
		if err := validate.Var(distributorID, "uuid"); err != nil {
			return fail(c, fiber.StatusBadRequest, "VALIDATION", "distributor_id: debe ser un UUID")
		}
	}
	out, err := h.svc.DistributorDashboard(c.UserContext(), actorFrom(c), distributorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
