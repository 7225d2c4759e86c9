package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/rs/zerolog/log"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: los errores compuestos ("%w: %w") se resuelven por el más específico.
var errorMappings = []errorMapping{
	{domain.ErrPeriodNotClosed, fiber.StatusUnprocessableEntity, "PERIOD_NOT_CLOSED"},
	{domain.ErrGamificationDisabled, fiber.StatusUnprocessableEntity, "GAMIFICATION_DISABLED"},
	{domain.ErrInsufficientBalance, fiber.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrPriceTiers, fiber.StatusBadRequest, "PRICE_TIERS"},
	{domain.ErrPercentageOutOfRange, fiber.StatusBadRequest, "PERCENTAGE_OUT_OF_RANGE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// respondError traduce un error de dominio a su respuesta HTTP. Lo no mapeado es 500 y se registra.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return fail(c, m.status, m.code, err.Error())
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno del servidor")
}
