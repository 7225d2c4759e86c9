package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/gamification"
)

// GamificationHandler configuración del ranking, evaluaciones y leaderboard.
type GamificationHandler struct {
	uc *gamification.UseCase
}

func NewGamificationHandler(uc *gamification.UseCase) *GamificationHandler {
	return &GamificationHandler{uc: uc}
}

// GetConfig godoc
// @Summary      Configuración de gamificación
// @Tags         gamification
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GamificationConfigDTO
// @Router       /api/gamification/config [get]
func (h *GamificationHandler) GetConfig(c *fiber.Ctx) error {
	out, err := h.uc.GetConfig(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateConfig godoc
// @Summary      Actualizar configuración de gamificación
// @Description  Porcentajes en [0,100]; base + bono <= máximo; bonos no crecientes; zona horaria IANA.
// @Tags         gamification
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GamificationConfigDTO  true  "Configuración"
// @Success      200  {object}  dto.GamificationConfigDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/gamification/config [put]
func (h *GamificationHandler) UpdateConfig(c *fiber.Ctx) error {
	var in dto.GamificationConfigDTO
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateConfig(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Evaluate godoc
// @Summary      Evaluar un período
// @Description  Sin period_start evalúa el último período cerrado. Un período ya evaluado responde 409.
// @Tags         gamification
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EvaluateRequest  false  "Período"
// @Success      201  {object}  dto.EvaluationDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/gamification/evaluate [post]
func (h *GamificationHandler) Evaluate(c *fiber.Ctx) error {
	var in dto.EvaluateRequest
	if len(c.Body()) > 0 {
		if ok, err := bindBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Evaluate(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListEvaluations godoc
// @Summary      Evaluaciones realizadas
// @Tags         gamification
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.EvaluationListResponse
// @Router       /api/gamification/evaluations [get]
func (h *GamificationHandler) ListEvaluations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	out, err := h.uc.ListEvaluations(c.UserContext(), GetCompanyID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetEvaluation godoc
// @Summary      Detalle de una evaluación
// @Tags         gamification
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la evaluación"
// @Success      200  {object}  dto.EvaluationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/gamification/evaluations/{id} [get]
func (h *GamificationHandler) GetEvaluation(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.GetEvaluation(c.UserContext(), GetCompanyID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Leaderboard godoc
// @Summary      Ranking en vivo
// @Tags         gamification
// @Security     Bearer
// @Produce      json
// @Param        which  query  string  false  "current | previous"
// @Success      200  {object}  dto.LeaderboardDTO
// @Router       /api/gamification/leaderboard [get]
func (h *GamificationHandler) Leaderboard(c *fiber.Ctx) error {
	var req dto.LeaderboardRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.uc.Leaderboard(c.UserContext(), GetCompanyID(c), req.Which)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
