// Package memory implementa los puertos de persistencia en memoria (sin base de datos configurada).
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var (
	_ repository.StateRepository       = (*StateRepo)(nil)
	_ repository.RateHistoryRepository = (*RateHistoryRepo)(nil)
)

// StateRepo documentos por clave.
type StateRepo struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewStateRepository repositorio vacío.
func NewStateRepository() *StateRepo {
	return &StateRepo{docs: make(map[string][]byte)}
}

func (r *StateRepo) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.docs[key]), nil
}

func (r *StateRepo) Save(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[key] = slices.Clone(data)
	return nil
}

// RateHistoryRepo archivo de cotizaciones, más reciente primero.
type RateHistoryRepo struct {
	mu      sync.RWMutex
	entries map[string][]entity.ExchangeRateEntry
}

// NewRateHistoryRepository archivo vacío.
func NewRateHistoryRepository() *RateHistoryRepo {
	return &RateHistoryRepo{entries: make(map[string][]entity.ExchangeRateEntry)}
}

func (r *RateHistoryRepo) Append(_ context.Context, entries []entity.ExchangeRateEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.From] = append([]entity.ExchangeRateEntry{e}, r.entries[e.From]...)
	}
	return nil
}

func (r *RateHistoryRepo) ListByCurrency(_ context.Context, from string, limit int) ([]entity.ExchangeRateEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.entries[from]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return slices.Clone(list), nil
}
