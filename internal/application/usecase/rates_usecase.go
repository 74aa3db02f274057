package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/application/state"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

// Errores de la actualización remota.
var (
	ErrUnknownProvider     = errors.New("proveedor de tasas desconocido")
	ErrProviderUnavailable = errors.New("proveedor de tasas no disponible")
)

// RatesConfig parámetros de la actualización remota.
type RatesConfig struct {
	DefaultProvider string
	APIKey          string
	Timeout         time.Duration
	CacheDuration   time.Duration
}

// RatesUseCase obtiene cotizaciones remotas y las entrega al libro de tasas como BATCH_UPDATE_RATES.
// La llamada externa se hace fuera del lock del store.
type RatesUseCase struct {
	store    *StoreUseCase
	fetchers map[string]ports.RateFetcher
	cache    ports.RateCache
	cfg      RatesConfig
	metrics  ports.Metrics
	log      *logger.Logger
}

// NewRatesUseCase construye el caso de uso. cache y metrics pueden ser nil.
func NewRatesUseCase(store *StoreUseCase, fetchers []ports.RateFetcher, cache ports.RateCache, metrics ports.Metrics, cfg RatesConfig, log *logger.Logger) *RatesUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	byName := make(map[string]ports.RateFetcher, len(fetchers))
	for _, f := range fetchers {
		byName[f.Name()] = f
	}
	return &RatesUseCase{
		store:    store,
		fetchers: byName,
		cache:    cache,
		cfg:      cfg,
		metrics:  metrics,
		log:      log.Component("rates"),
	}
}

// Refresh consulta el proveedor (o la caché vigente) y actualiza el libro.
// Las cotizaciones rechazadas por el libro no son error; Accepted indica cuántas entraron.
func (uc *RatesUseCase) Refresh(ctx context.Context) (*dto.RefreshRatesResponse, error) {
	before := uc.store.Snapshot()
	settings := before.Settings

	provider := settings.APIProvider
	if provider == "" {
		provider = uc.cfg.DefaultProvider
	}
	fetcher, ok := uc.fetchers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	apiKey := settings.APIKey
	if apiKey == "" {
		apiKey = uc.cfg.APIKey
	}
	base := settings.DefaultCurrency
	enabled := slices.DeleteFunc(slices.Clone(settings.Currencies), func(c string) bool { return c == base })
	if len(enabled) == 0 {
		return &dto.RefreshRatesResponse{Provider: provider}, nil
	}

	quotes, cached, err := uc.fetch(ctx, fetcher, enabled, base, apiKey)
	if err != nil {
		uc.metrics.ObserveRateRefresh(provider, "error", 0)
		return nil, err
	}

	batch := Invert(quotes, base)
	res, err := uc.store.Dispatch(ctx, state.Action{Type: state.BatchUpdateRates, Payload: batch})
	accepted := 0
	switch {
	case err == nil:
		accepted = len(newRateEntries(before.Currencies, res.State.Currencies))
	case domain.IsSoft(err):
	default:
		uc.metrics.ObserveRateRefresh(provider, "error", 0)
		return nil, err
	}

	uc.metrics.ObserveRateRefresh(provider, "ok", accepted)
	uc.log.Info().Str("provider", provider).Int("fetched", len(quotes)).Int("accepted", accepted).Bool("cached", cached).Msg("tasas actualizadas")
	return &dto.RefreshRatesResponse{
		Provider: provider,
		Fetched:  len(quotes),
		Accepted: accepted,
		Cached:   cached,
	}, nil
}

func (uc *RatesUseCase) fetch(ctx context.Context, f ports.RateFetcher, enabled []string, base, apiKey string) ([]ports.Quote, bool, error) {
	key := cacheKey(f.Name(), base, enabled)
	if uc.cache != nil && uc.cfg.CacheDuration > 0 {
		quotes, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Msg("leer caché de tasas")
		} else if ok {
			return quotes, true, nil
		}
	}

	// Timeout propio: el proveedor externo no debe bloquear la petición.
	fctx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	quotes, err := f.Fetch(fctx, enabled, base, apiKey)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, f.Name(), err)
	}

	if uc.cache != nil && uc.cfg.CacheDuration > 0 {
		if err := uc.cache.Set(ctx, key, quotes, uc.cfg.CacheDuration); err != nil {
			uc.log.Warn().Err(err).Msg("guardar caché de tasas")
		}
	}
	return quotes, false, nil
}

func cacheKey(provider, base string, enabled []string) string {
	codes := slices.Clone(enabled)
	slices.Sort(codes)
	return fmt.Sprintf("rates:%s:%s:%s", provider, base, strings.Join(codes, ","))
}

// Invert pasa cotizaciones base→quote a quote→base, que es como las guarda el libro.
// Las tasas no positivas se descartan.
func Invert(quotes []ports.Quote, base string) []entity.RateQuote {
	one := decimal.NewFromInt(1)
	out := make([]entity.RateQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.Code == base || !q.Rate.IsPositive() {
			continue
		}
		out = append(out, entity.RateQuote{
			From: q.Code,
			To:   base,
			Rate: one.DivRound(q.Rate, 10),
		})
	}
	return out
}
