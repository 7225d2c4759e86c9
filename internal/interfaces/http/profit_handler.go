package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/profits"
)

// ProfitHandler libro de utilidades: historial, saldo, pagos y verificación.
type ProfitHandler struct {
	uc *profits.UseCase
}

func NewProfitHandler(uc *profits.UseCase) *ProfitHandler {
	return &ProfitHandler{uc: uc}
}

// History godoc
// @Summary      Historial de utilidades
// @Description  Un distribuidor consulta su cuenta; el admin la de la empresa o la de un distribuidor.
// @Tags         profits
// @Security     Bearer
// @Produce      json
// @Param        account_type  query  string  false  "company | distributor"
// @Param        account_id    query  string  false  "ID del distribuidor"
// @Param        from          query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to            query  string  false  "YYYY-MM-DD o RFC3339"
// @Success      200  {object}  dto.ProfitHistoryResponse
// @Router       /api/profits/history [get]
func (h *ProfitHandler) History(c *fiber.Ctx) error {
	var req dto.ProfitHistoryRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.uc.History(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Balance godoc
// @Summary      Saldo de utilidades
// @Tags         profits
// @Security     Bearer
// @Produce      json
// @Param        account_type  query  string  false  "company | distributor"
// @Param        account_id    query  string  false  "ID del distribuidor"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/profits/balance [get]
func (h *ProfitHandler) Balance(c *fiber.Ctx) error {
	var q dto.ProfitAccountQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Balance(c.UserContext(), actorFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Payout godoc
// @Summary      Registrar pago de utilidades a un distribuidor
// @Tags         profits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PayoutRequest  true  "Distribuidor, monto y nota"
// @Success      201  {object}  dto.ProfitEntryResponse
// @Failure      422  {object}  dto.ErrorResponse  "INSUFFICIENT_BALANCE"
// @Router       /api/profits/payouts [post]
func (h *ProfitHandler) Payout(c *fiber.Ctx) error {
	var in dto.PayoutRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordPayout(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Verify godoc
// @Summary      Verificar la cadena de una cuenta
// @Tags         profits
// @Security     Bearer
// @Produce      json
// @Param        account_type  query  string  false  "company | distributor"
// @Param        account_id    query  string  false  "ID del distribuidor"
// @Success      200  {object}  profits.VerifyResponse
// @Router       /api/profits/verify [get]
func (h *ProfitHandler) Verify(c *fiber.Ctx) error {
	var q dto.ProfitAccountQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Verify(c.UserContext(), actorFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
