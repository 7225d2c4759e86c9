package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInsufficientBalance  = errors.New("saldo insuficiente")
	ErrPriceTiers           = errors.New("los precios deben cumplir compra <= distribuidor <= cliente")
	ErrPercentageOutOfRange = errors.New("porcentaje fuera del rango 0-100")
	ErrGamificationDisabled = errors.New("la gamificación no está habilitada para esta empresa")
	ErrPeriodNotClosed      = errors.New("el período aún no ha terminado")
)
