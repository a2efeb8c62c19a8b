package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-inventario/internal/infrastructure/cache"
)

func newGuard(t *testing.T) (*cache.IdempotencyGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewIdempotencyGuard(client, time.Hour), mr
}

func TestIdempotency_AcquireUnaSolaVez(t *testing.T) {
	g, _ := newGuard(t)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Acquire(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok, "la segunda reserva debe fallar")

	folio, err := g.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, folio, "en proceso no hay folio")
}

func TestIdempotency_CompleteYLookup(t *testing.T) {
	g, _ := newGuard(t)
	ctx := context.Background()

	_, err := g.Acquire(ctx, "k2")
	require.NoError(t, err)
	require.NoError(t, g.Complete(ctx, "k2", "V-20240115-ABC123"))

	folio, err := g.Lookup(ctx, "k2")
	require.NoError(t, err)
	assert.Equal(t, "V-20240115-ABC123", folio)

	ok, err := g.Acquire(ctx, "k2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdempotency_ReleasePermiteReintentar(t *testing.T) {
	g, _ := newGuard(t)
	ctx := context.Background()

	_, err := g.Acquire(ctx, "k3")
	require.NoError(t, err)
	require.NoError(t, g.Release(ctx, "k3"))

	ok, err := g.Acquire(ctx, "k3")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotency_ExpiraConTTL(t *testing.T) {
	g, mr := newGuard(t)
	ctx := context.Background()

	_, err := g.Acquire(ctx, "k4")
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	ok, err := g.Acquire(ctx, "k4")
	require.NoError(t, err)
	assert.True(t, ok, "la llave expirada se puede reservar de nuevo")
}

func TestIdempotency_LookupInexistente(t *testing.T) {
	g, _ := newGuard(t)
	folio, err := g.Lookup(context.Background(), "nada")
	require.NoError(t, err)
	assert.Empty(t, folio)
}
