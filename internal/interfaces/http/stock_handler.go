package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidores-api/internal/application/distribution"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
)

// StockHandler stock de distribuidores: asignar, retirar, transferir y consultar.
type StockHandler struct {
	uc *distribution.UseCase
}

func NewStockHandler(uc *distribution.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Assign godoc
// @Summary      Asignar stock central a un distribuidor
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignStockRequest  true  "Producto, distribuidor y cantidad"
// @Success      200  {object}  dto.StockOperationResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/assign [post]
func (h *StockHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignStockRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Assign(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Withdraw godoc
// @Summary      Retirar stock de un distribuidor al central
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WithdrawStockRequest  true  "Producto, distribuidor y cantidad"
// @Success      200  {object}  dto.StockOperationResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/withdraw [post]
func (h *StockHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.WithdrawStockRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Withdraw(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Transferir stock entre distribuidores
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "Producto, origen, destino y cantidad"
// @Success      200  {object}  dto.StockOperationResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Transfer(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Stock por distribuidor
// @Description  Un distribuidor ve el suyo; el admin indica distributor_id.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        distributor_id  query  string  false  "ID del distribuidor (admin)"
// @Success      200  {array}  dto.DistributorStockResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var req dto.StockListRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.uc.ListStock(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Producto"
// @Param        distributor_id  query  string  false  "Distribuidor (origen o destino)"
// @Param        type            query  string  false  "RESTOCK | ASSIGN | WITHDRAW | TRANSFER | SALE | SALE_CANCEL"
// @Param        from            query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to              query  string  false  "YYYY-MM-DD o RFC3339"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	var req dto.MovementListRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.uc.ListMovements(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
