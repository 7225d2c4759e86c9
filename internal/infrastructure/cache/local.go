package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/application/ports"
)

var (
	_ ports.Cache  = Noop{}
	_ ports.Locker = (*LocalLocker)(nil)
)

// Noop caché deshabilitada: nunca hay aciertos y los contadores no avanzan.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Incr(context.Context, string) (int64, error) { return 0, nil }

// LocalLocker candado en proceso para despliegues de una sola réplica.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time // clave -> vencimiento
	clock func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]time.Time{}, clock: time.Now}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}

func (l *LocalLocker) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
