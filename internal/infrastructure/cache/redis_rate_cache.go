package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.RateCache = (*RedisRateCache)(nil)

// NewRedis crea y valida la conexión. addr acepta host:port o una URL redis://.
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	if parsed, err := redis.ParseURL(addr); err == nil {
		opts = parsed
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisRateCache guarda la última respuesta de cada proveedor como JSON con TTL.
type RedisRateCache struct {
	rdb redis.Cmdable
}

// NewRedisRateCache construye la caché sobre un cliente (o cualquier redis.Cmdable).
func NewRedisRateCache(rdb redis.Cmdable) *RedisRateCache {
	return &RedisRateCache{rdb: rdb}
}

// Get devuelve ok=false si la clave no existe o expiró.
func (c *RedisRateCache) Get(ctx context.Context, key string) ([]ports.Quote, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var quotes []ports.Quote
	if err := json.Unmarshal(raw, &quotes); err != nil {
		// Entrada corrupta: se trata como ausente.
		return nil, false, nil
	}
	return quotes, true, nil
}

// Set reemplaza la entrada con el TTL indicado.
func (c *RedisRateCache) Set(ctx context.Context, key string, quotes []ports.Quote, ttl time.Duration) error {
	b, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("serializar cotizaciones: %w", err)
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
