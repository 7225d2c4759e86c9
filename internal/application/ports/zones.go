package ports

import (
	"context"
	"time"
)

// Zones resuelve la zona horaria de negocio de una empresa (la de su configuración de gamificación).
type Zones interface {
	Location(ctx context.Context, companyID string) (*time.Location, error)
}

// FixedZone devuelve siempre la misma zona. Útil en pruebas.
type FixedZone struct{ Loc *time.Location }

func (z FixedZone) Location(context.Context, string) (*time.Location, error) {
	if z.Loc == nil {
		return time.UTC, nil
	}
	return z.Loc, nil
}
