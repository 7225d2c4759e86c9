package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidores-api/internal/application/auth"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/usecase"
)

// DistributorHandler red de distribuidores (admin).
type DistributorHandler struct {
	uc   *usecase.DistributorUseCase
	auth *auth.AuthUseCase
}

func NewDistributorHandler(uc *usecase.DistributorUseCase, authUC *auth.AuthUseCase) *DistributorHandler {
	return &DistributorHandler{uc: uc, auth: authUC}
}

// Create godoc
// @Summary      Alta de usuario por un administrador
// @Description  El usuario queda activo; el rol por defecto es distribuidor. company_id debe ser la empresa del token.
// @Tags         distributors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/distributors [post]
func (h *DistributorHandler) Create(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if in.CompanyID == "" {
		in.CompanyID = GetCompanyID(c)
	}
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	actor := actorFrom(c)
	out, err := h.auth.RegisterUser(c.UserContext(), &actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar distribuidores
// @Tags         distributors
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "active | inactive | suspended"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/distributors [get]
func (h *DistributorHandler) List(c *fiber.Ctx) error {
	var req dto.DistributorListRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener distribuidor
// @Tags         distributors
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del distribuidor"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/distributors/{id} [get]
func (h *DistributorHandler) Get(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Cambiar estado de un distribuidor
// @Tags         distributors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del distribuidor"
// @Param        body  body  dto.SetStatusRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/distributors/{id}/status [put]
func (h *DistributorHandler) SetStatus(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.SetStatusRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetStatus(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
