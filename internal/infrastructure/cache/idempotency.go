package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/tienda-inventario/internal/application/sales"
)

var _ sales.IdempotencyGuard = (*IdempotencyGuard)(nil)

const (
	keyPrefix     = "idem:venta:"
	pendingMarker = "-"
)

// IdempotencyGuard reserva llaves de idempotencia en Redis con SETNX + TTL.
// Mientras la venta está en proceso la llave vale pendingMarker; al completarse guarda el folio.
type IdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyGuard construye el guard sobre un cliente ya configurado.
func NewIdempotencyGuard(client *redis.Client, ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{client: client, ttl: ttl}
}

// NewClient crea el cliente Redis.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (g *IdempotencyGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, pendingMarker, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotencia: reservar %s: %w", key, err)
	}
	return ok, nil
}

func (g *IdempotencyGuard) Complete(ctx context.Context, key, folio string) error {
	if err := g.client.Set(ctx, keyPrefix+key, folio, g.ttl).Err(); err != nil {
		return fmt.Errorf("idempotencia: completar %s: %w", key, err)
	}
	return nil
}

func (g *IdempotencyGuard) Lookup(ctx context.Context, key string) (string, error) {
	val, err := g.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("idempotencia: consultar %s: %w", key, err)
	}
	if val == pendingMarker {
		return "", nil
	}
	return val, nil
}

func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("idempotencia: liberar %s: %w", key, err)
	}
	return nil
}

// Ping verifica la conexión al arrancar.
func (g *IdempotencyGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}
