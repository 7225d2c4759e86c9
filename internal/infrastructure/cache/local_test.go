package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_ExclusionYLiberacion(t *testing.T) {
	ctx := context.Background()
	l := cache.NewLocalLocker()

	ok, err := l.TryLock(ctx, "eval:c1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.TryLock(ctx, "eval:c1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "el segundo intento no obtiene el candado")

	ok, _ = l.TryLock(ctx, "eval:c2", time.Minute)
	assert.True(t, ok, "claves distintas no se bloquean entre sí")

	require.NoError(t, l.Unlock(ctx, "eval:c1"))
	ok, _ = l.TryLock(ctx, "eval:c1", time.Minute)
	assert.True(t, ok)
}

func TestLocalLocker_Vencimiento(t *testing.T) {
	ctx := context.Background()
	l := cache.NewLocalLocker()
	ok, _ := l.TryLock(ctx, "k", time.Nanosecond)
	require.True(t, ok)
	time.Sleep(2 * time.Millisecond)
	ok, _ = l.TryLock(ctx, "k", time.Minute)
	assert.True(t, ok, "un candado vencido se puede volver a tomar")
}

func TestNoop_NuncaAcierta(t *testing.T) {
	ctx := context.Background()
	var c cache.Noop
	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	var dest int
	hit, err := c.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	n, _ := c.Incr(ctx, "v")
	assert.Zero(t, n)
}
