package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Distribuidores-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
)

// AnalyticsHandler maneja los reportes de ventas y rentabilidad por producto.
type AnalyticsHandler struct {
	svc *appanalytics.Service
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(svc *appanalytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// SalesSeries godoc
// @Summary      Serie de ventas y utilidades
// @Description  Buckets por día o mes en la zona horaria de la empresa. Requiere módulo 'analytics' activo.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  false  "Inicio (YYYY-MM-DD). Default: primer día del mes."
// @Param        to           query  string  false  "Fin (YYYY-MM-DD). Default: hoy."
// @Param        granularity  query  string  false  "day | month"
// @Success      200  {object}  dto.SalesSeriesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/sales-series [get]
func (h *AnalyticsHandler) SalesSeries(c *fiber.Ctx) error {
	var req dto.SalesSeriesRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.svc.SalesSeries(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Products godoc
// @Summary      Ranking de productos por utilidad bruta (Pareto 80/20)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Inicio (YYYY-MM-DD). Default: primer día del mes."
// @Param        to     query  string  false  "Fin (YYYY-MM-DD). Default: hoy."
// @Param        top_n  query  int     false  "Máx. productos (default 20, max 200)."
// @Success      200  {object}  dto.ProductRankingReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/products [get]
func (h *AnalyticsHandler) Products(c *fiber.Ctx) error {
	var req dto.ProductRankingRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.svc.ProductRanking(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
