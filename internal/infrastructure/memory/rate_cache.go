package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.RateCache = (*RateCache)(nil)

type cachedQuotes struct {
	quotes    []ports.Quote
	expiresAt time.Time
}

// RateCache caché de cotizaciones en proceso, para cuando no hay Redis configurado.
type RateCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]cachedQuotes
}

// NewRateCache caché vacía. now nil usa time.Now.
func NewRateCache(now func() time.Time) *RateCache {
	if now == nil {
		now = time.Now
	}
	return &RateCache{now: now, entries: make(map[string]cachedQuotes)}
}

// Get devuelve ok=false si la clave no existe o expiró; las entradas expiradas se eliminan.
func (c *RateCache) Get(_ context.Context, key string) ([]ports.Quote, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return slices.Clone(e.quotes), true, nil
}

func (c *RateCache) Set(_ context.Context, key string, quotes []ports.Quote, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedQuotes{quotes: slices.Clone(quotes), expiresAt: c.now().Add(ttl)}
	return nil
}
