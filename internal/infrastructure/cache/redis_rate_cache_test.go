package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/cache"
)

// Requiere un Redis real: REDIS_ADDR=localhost:6379 go test ./internal/infrastructure/cache/...
func TestRedisRateCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no definido")
	}
	ctx := context.Background()
	rdb, err := cache.NewRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	c := cache.NewRedisRateCache(rdb)
	key := "test:rates:" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, key) })

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	quotes := []ports.Quote{{Code: "EUR", Rate: decimal.RequireFromString("0.92")}}
	require.NoError(t, c.Set(ctx, key, quotes, time.Minute))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, got[0].Rate.Equal(quotes[0].Rate))

	// Entrada corrupta → ausente.
	require.NoError(t, rdb.Set(ctx, key, "{", time.Minute).Err())
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
