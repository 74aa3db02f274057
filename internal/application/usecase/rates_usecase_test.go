package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/application/state"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type stubFetcher struct {
	name   string
	quotes []ports.Quote
	err    error
	calls  int
	gotKey string
}

func (f *stubFetcher) Name() string { return f.name }

func (f *stubFetcher) Fetch(ctx context.Context, enabled []string, base, apiKey string) ([]ports.Quote, error) {
	f.calls++
	f.gotKey = apiKey
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("sin timeout")
	}
	return f.quotes, f.err
}

type mapCache struct {
	data map[string][]ports.Quote
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]ports.Quote{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]ports.Quote, bool, error) {
	q, ok := c.data[key]
	return q, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, quotes []ports.Quote, _ time.Duration) error {
	c.sets++
	c.data[key] = quotes
	return nil
}

func ratesConfig() usecase.RatesConfig {
	return usecase.RatesConfig{DefaultProvider: "frankfurter", APIKey: "cfg-key", Timeout: time.Second, CacheDuration: time.Minute}
}

// ──────────────────────────────────────────────────────────────────────────────
// Invert
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: 1 USD = 0.8 EUR → 1 EUR = 1.25 USD; la base y las tasas no positivas se descartan.
func TestInvert(t *testing.T) {
	out := usecase.Invert([]ports.Quote{
		{Code: "EUR", Rate: dec("0.8")},
		{Code: "USD", Rate: dec("1")},
		{Code: "COP", Rate: dec("0")},
	}, "USD")

	require.Len(t, out, 1)
	assert.Equal(t, "EUR", out[0].From)
	assert.Equal(t, "USD", out[0].To)
	assert.True(t, out[0].Rate.Equal(dec("1.25")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresh
// ──────────────────────────────────────────────────────────────────────────────

// Caso 2: la actualización despacha al libro y guarda en caché; la segunda llamada sale de la caché.
func TestRefresh_ActualizaYUsaCache(t *testing.T) {
	store := usecase.NewStoreUseCase(storeConfig(), nil, nil, testClock())
	fetcher := &stubFetcher{name: "frankfurter", quotes: []ports.Quote{{Code: "EUR", Rate: dec("0.8")}}}
	cache := newMapCache()
	uc := usecase.NewRatesUseCase(store, []ports.RateFetcher{fetcher}, cache, nil, ratesConfig(), nil)

	res, err := uc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "frankfurter", res.Provider)
	assert.Equal(t, 1, res.Fetched)
	assert.Equal(t, 1, res.Accepted)
	assert.False(t, res.Cached)
	assert.Equal(t, "cfg-key", fetcher.gotKey)

	latest, ok := store.Snapshot().Currencies.Latest("EUR")
	require.True(t, ok)
	assert.True(t, latest.Rate.Equal(dec("1.25")))

	res, err = uc.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, 0, res.Accepted, "misma tasa → sin cambios, no es error")
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, cache.sets)
}

// Caso 2b: sin Redis la caché en memoria respeta la duración configurada.
func TestRefresh_CacheEnMemoria(t *testing.T) {
	store := usecase.NewStoreUseCase(storeConfig(), nil, nil, testClock())
	fetcher := &stubFetcher{name: "frankfurter", quotes: []ports.Quote{{Code: "EUR", Rate: dec("0.8")}}}
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	cache := memory.NewRateCache(func() time.Time { return now })
	uc := usecase.NewRatesUseCase(store, []ports.RateFetcher{fetcher}, cache, nil, ratesConfig(), nil)

	res, err := uc.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Cached)

	now = now.Add(30 * time.Second)
	res, err = uc.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, 1, fetcher.calls)

	// Pasado el minuto de CacheDuration se vuelve a consultar al proveedor.
	now = now.Add(time.Minute)
	res, err = uc.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 2, fetcher.calls)
}

// Caso 3: el proveedor de los ajustes tiene prioridad sobre el de configuración.
func TestRefresh_ProveedorDeAjustes(t *testing.T) {
	store := usecase.NewStoreUseCase(storeConfig(), nil, nil, testClock())
	mustDispatch(t, store, state.Action{Type: state.UpdateSettings, Payload: state.SettingsPatch{
		APIProvider: ptr("openexchangerates"), APIKey: ptr("user-key"),
	}})
	frank := &stubFetcher{name: "frankfurter"}
	oxr := &stubFetcher{name: "openexchangerates", quotes: []ports.Quote{{Code: "EUR", Rate: dec("0.9")}}}
	uc := usecase.NewRatesUseCase(store, []ports.RateFetcher{frank, oxr}, nil, nil, ratesConfig(), nil)

	res, err := uc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "openexchangerates", res.Provider)
	assert.Equal(t, 0, frank.calls)
	assert.Equal(t, "user-key", oxr.gotKey)
}

func TestRefresh_ProveedorDesconocido(t *testing.T) {
	store := usecase.NewStoreUseCase(storeConfig(), nil, nil, testClock())
	uc := usecase.NewRatesUseCase(store, nil, nil, nil, ratesConfig(), nil)

	_, err := uc.Refresh(context.Background())

	assert.ErrorIs(t, err, usecase.ErrUnknownProvider)
}

// Caso 4: un fallo del proveedor no toca el libro.
func TestRefresh_ProveedorNoDisponible(t *testing.T) {
	store := usecase.NewStoreUseCase(storeConfig(), nil, nil, testClock())
	fetcher := &stubFetcher{name: "frankfurter", err: errors.New("503")}
	uc := usecase.NewRatesUseCase(store, []ports.RateFetcher{fetcher}, newMapCache(), nil, ratesConfig(), nil)
	before := store.Snapshot()

	_, err := uc.Refresh(context.Background())

	assert.ErrorIs(t, err, usecase.ErrProviderUnavailable)
	assert.Equal(t, before, store.Snapshot())
}

// Caso 5: sin monedas además de la por defecto no hay nada que consultar.
func TestRefresh_SinMonedas(t *testing.T) {
	cfg := storeConfig()
	cfg.Currencies = []string{"USD"}
	store := usecase.NewStoreUseCase(cfg, nil, nil, testClock())
	fetcher := &stubFetcher{name: "frankfurter"}
	uc := usecase.NewRatesUseCase(store, []ports.RateFetcher{fetcher}, nil, nil, ratesConfig(), nil)

	res, err := uc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Zero(t, res.Fetched)
	assert.Zero(t, fetcher.calls)
}
