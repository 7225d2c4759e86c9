package ports

import (
	"context"
	"time"
)

// Cache almacén clave/valor con expiración. Los valores se serializan como JSON.
// La implementación vive en infrastructure/cache (Redis o noop).
type Cache interface {
	// Get decodifica el valor en dest. Devuelve false si la clave no existe.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Incr incrementa un contador entero y devuelve el nuevo valor.
	Incr(ctx context.Context, key string) (int64, error)
}

// Locker candado distribuido de corta duración (SETNX con TTL).
type Locker interface {
	// TryLock devuelve false sin error si otro proceso ya tiene el candado.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// AnalyticsVersionKey contador de versión de la caché de analítica de una empresa.
// Las claves de caché incluyen la versión; incrementarla invalida todo lo anterior.
func AnalyticsVersionKey(companyID string) string {
	return "analytics:version:" + companyID
}

// BumpAnalyticsVersion incrementa la versión de caché de la empresa. c puede ser nil.
func BumpAnalyticsVersion(ctx context.Context, c Cache, companyID string) error {
	if c == nil {
		return nil
	}
	_, err := c.Incr(ctx, AnalyticsVersionKey(companyID))
	return err
}
