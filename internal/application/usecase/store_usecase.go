package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/application/state"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

// TxRunner ejecuta fn con repositorios atados a una misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(states repository.StateRepository, rates repository.RateHistoryRepository) error) error
}

// StoreConfig valores por defecto del motor cuando la configuración del usuario aún no los define.
type StoreConfig struct {
	DefaultCurrency  string
	Currencies       []string
	HistoryLimit     int
	RateHistoryLimit int
	RateMinInterval  time.Duration
	Units            costing.UnitTable
	Labour           *costing.Labour
}

// DispatchResult estado confirmado y claves de dominio modificadas (incluidas las de la cascada).
type DispatchResult struct {
	State   entity.State `json:"state"`
	Changed []string     `json:"changed"`
}

// StoreUseCase es el host del motor: serializa los despachos, encadena los recálculos
// dependientes y refleja el estado confirmado en el puerto de persistencia.
type StoreUseCase struct {
	mu    sync.Mutex
	state entity.State

	cfg     StoreConfig
	repo    repository.StateRepository
	tx      TxRunner
	history repository.RateHistoryRepository
	metrics ports.Metrics
	log     *logger.Logger

	now   func() time.Time
	newID func() string
}

// StoreOption configura dependencias opcionales.
type StoreOption func(*StoreUseCase)

// WithTxRunner persiste cada despacho en una sola transacción.
func WithTxRunner(tx TxRunner) StoreOption { return func(s *StoreUseCase) { s.tx = tx } }

// WithRateHistory archiva las cotizaciones aceptadas.
func WithRateHistory(h repository.RateHistoryRepository) StoreOption {
	return func(s *StoreUseCase) { s.history = h }
}

// WithMetrics registra despachos y eventos del motor.
func WithMetrics(m ports.Metrics) StoreOption { return func(s *StoreUseCase) { s.metrics = m } }

// WithClock fija el reloj y el generador de ids (tests).
func WithClock(now func() time.Time, newID func() string) StoreOption {
	return func(s *StoreUseCase) {
		s.now = now
		s.newID = newID
	}
}

// NewStoreUseCase construye el store vacío. repo puede ser nil (solo memoria).
func NewStoreUseCase(cfg StoreConfig, repo repository.StateRepository, log *logger.Logger, opts ...StoreOption) *StoreUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Units == nil {
		cfg.Units = costing.DefaultUnits()
	}
	s := &StoreUseCase{
		cfg:     cfg,
		repo:    repo,
		metrics: ports.NopMetrics{},
		log:     log.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Settings = s.defaultSettings()
	s.state.Currencies = exchange.Initialize(nil, s.state.Settings.Currencies, s.state.Settings.DefaultCurrency)
	return s
}

func (s *StoreUseCase) defaultSettings() entity.Settings {
	return entity.Settings{
		DefaultCurrency: s.cfg.DefaultCurrency,
		Currencies:      append([]string(nil), s.cfg.Currencies...),
	}
}

// Load reemplaza el estado en memoria por el persistido. Las claves ausentes conservan su valor inicial.
func (s *StoreUseCase) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := s.state
	for _, key := range entity.AllKeys {
		data, err := s.repo.Load(ctx, key)
		if err != nil {
			return fmt.Errorf("cargar %s: %w", key, err)
		}
		if data == nil {
			continue
		}
		if err := unmarshalKey(&loaded, key, data); err != nil {
			return fmt.Errorf("decodificar %s: %w", key, err)
		}
	}
	if loaded.Settings.DefaultCurrency == "" {
		loaded.Settings = s.defaultSettings()
	}
	loaded.Currencies = exchange.Initialize(loaded.Currencies, loaded.Settings.Currencies, loaded.Settings.DefaultCurrency)
	s.state = loaded
	s.log.Info().
		Int("materials", len(loaded.Materials)).
		Int("recipes", len(loaded.Recipes)).
		Int("packages", len(loaded.Packages)).
		Int("endproducts", len(loaded.EndProducts)).
		Msg("estado cargado")
	return nil
}

// Snapshot devuelve el estado confirmado actual. Los slices no deben modificarse.
func (s *StoreUseCase) Snapshot() entity.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch aplica la acción, encadena los recálculos dependientes y persiste lo modificado.
// En error el estado no cambia y se devuelve el error del reductor.
func (s *StoreUseCase) Dispatch(ctx context.Context, a state.Action) (*DispatchResult, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next, key, err := state.Dispatch(prev, a, s.deps(prev))
	if err != nil {
		s.rejected(a, err)
		s.metrics.ObserveDispatch(string(a.Type), outcome(err), time.Since(start))
		return nil, err
	}

	changed := []string{key}
	next, changed = s.cascade(next, prev, key, changed)

	s.persist(ctx, prev, next, changed)
	s.state = next
	s.metrics.ObserveDispatch(string(a.Type), "ok", time.Since(start))
	s.log.Debug().Str("action", string(a.Type)).Strs("changed", changed).Msg("acción aplicada")
	return &DispatchResult{State: next, Changed: changed}, nil
}

// DispatchJSON decodifica {type, payload} y despacha.
func (s *StoreUseCase) DispatchJSON(ctx context.Context, typ string, payload json.RawMessage) (*DispatchResult, error) {
	a, err := state.DecodeAction(typ, payload)
	if err != nil {
		return nil, err
	}
	return s.Dispatch(ctx, a)
}

func (s *StoreUseCase) rejected(a state.Action, err error) {
	if domain.IsSoft(err) {
		s.log.Debug().Str("action", string(a.Type)).Msg("acción sin cambios")
		return
	}
	s.log.Warn().Err(err).Str("action", string(a.Type)).Str("code", string(domain.CodeOf(err))).Msg("acción rechazada")
}

func outcome(err error) string {
	if code := domain.CodeOf(err); code != "" {
		return string(code)
	}
	return "error"
}

// dependents acciones derivadas que siguen a un cambio en cada dominio, en orden.
var dependents = map[string][]state.ActionType{
	entity.KeyMaterials: {state.RecalculateRecipes, state.RecalculateEndProducts},
	entity.KeyRecipes:   {state.RecalculateEndProducts},
	entity.KeyPackages:  {state.RecalculateEndProducts},
	entity.KeyCompany:   {state.RecalculateEndProducts},
	entity.KeyCurrencies: {
		state.RecalculateLocalPrices,
		state.RecalculateRecipes,
		state.RecalculatePackages,
		state.RecalculateCompanyTotals,
		state.RecalculateEndProducts,
	},
}

// cascade encadena los recálculos. Un NO_CHANGE en un paso solo lo omite.
func (s *StoreUseCase) cascade(st, prev entity.State, key string, changed []string) (entity.State, []string) {
	steps := dependents[key]
	if key == entity.KeySettings {
		steps = nil
		if settingsAffectLedger(prev.Settings, st.Settings) {
			steps = append([]state.ActionType{state.InitializeCurrencies}, dependents[entity.KeyCurrencies]...)
		}
	}
	for _, t := range steps {
		var payload any
		if t == state.InitializeCurrencies {
			payload = state.InitializeInput{}
		}
		next, k, err := state.Dispatch(st, state.Action{Type: t, Payload: payload}, s.deps(st))
		if err != nil {
			if !domain.IsSoft(err) {
				s.log.Warn().Err(err).Str("action", string(t)).Msg("recálculo omitido")
			}
			continue
		}
		st = next
		changed = appendKey(changed, k)
	}
	return st, changed
}

func settingsAffectLedger(a, b entity.Settings) bool {
	if a.DefaultCurrency != b.DefaultCurrency || len(a.Currencies) != len(b.Currencies) {
		return true
	}
	for i := range a.Currencies {
		if a.Currencies[i] != b.Currencies[i] {
			return true
		}
	}
	return false
}

func appendKey(keys []string, k string) []string {
	for _, existing := range keys {
		if existing == k {
			return keys
		}
	}
	return append(keys, k)
}

// deps dependencias de las transiciones para el estado st.
func (s *StoreUseCase) deps(st entity.State) state.Deps {
	def := st.Settings.DefaultCurrency
	if def == "" {
		def = s.cfg.DefaultCurrency
	}
	enabled := st.Settings.Currencies
	if len(enabled) == 0 {
		enabled = s.cfg.Currencies
	}
	return state.Deps{
		DefaultCurrency:  def,
		Enabled:          enabled,
		HistoryLimit:     s.cfg.HistoryLimit,
		RateHistoryLimit: s.cfg.RateHistoryLimit,
		RateMinInterval:  s.cfg.RateMinInterval,
		Units:            s.cfg.Units,
		LabourOverride:   s.cfg.Labour,
		Refs:             st,
		Now:              s.now,
		NewID:            s.newID,
		Observer:         storeObserver{log: s.log, metrics: s.metrics},
	}
}

// persist guarda las claves modificadas y archiva las cotizaciones nuevas.
// Los errores se registran; el estado en memoria ya está confirmado.
func (s *StoreUseCase) persist(ctx context.Context, prev, next entity.State, changed []string) {
	if s.repo == nil && s.tx == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	docs := make(map[string][]byte, len(changed))
	for _, key := range changed {
		data, err := marshalKey(next, key)
		if err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("serializar estado")
			continue
		}
		docs[key] = data
	}
	var accepted []entity.ExchangeRateEntry
	if contains(changed, entity.KeyCurrencies) {
		accepted = newRateEntries(prev.Currencies, next.Currencies)
	}

	write := func(states repository.StateRepository, rates repository.RateHistoryRepository) error {
		for key, data := range docs {
			if err := states.Save(ctx, key, data); err != nil {
				return err
			}
		}
		if rates != nil && len(accepted) > 0 {
			if err := rates.Append(ctx, accepted); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if s.tx != nil {
		err = s.tx.Run(ctx, write)
	} else {
		err = write(s.repo, s.history)
	}
	if err != nil {
		s.log.Error().Err(err).Strs("keys", changed).Msg("persistir estado")
	}
}

func contains(keys []string, k string) bool {
	for _, existing := range keys {
		if existing == k {
			return true
		}
	}
	return false
}

// newRateEntries entradas que next tiene por delante de prev (una por moneda como máximo).
func newRateEntries(prev, next entity.RateLedger) []entity.ExchangeRateEntry {
	var out []entity.ExchangeRateEntry
	for code := range next {
		latest, ok := next.Latest(code)
		if !ok {
			continue
		}
		if old, had := prev.Latest(code); had && !latest.Date.After(old.Date) {
			continue
		}
		out = append(out, latest)
	}
	return out
}

func marshalKey(st entity.State, key string) ([]byte, error) {
	switch key {
	case entity.KeyMaterials:
		return json.Marshal(st.Materials)
	case entity.KeyRecipes:
		return json.Marshal(st.Recipes)
	case entity.KeyPackages:
		return json.Marshal(st.Packages)
	case entity.KeyEndProducts:
		return json.Marshal(st.EndProducts)
	case entity.KeyCurrencies:
		return json.Marshal(st.Currencies)
	case entity.KeyCompany:
		return json.Marshal(st.Company)
	case entity.KeySettings:
		return json.Marshal(st.Settings)
	}
	return nil, fmt.Errorf("clave desconocida %q", key)
}

func unmarshalKey(st *entity.State, key string, data []byte) error {
	switch key {
	case entity.KeyMaterials:
		return json.Unmarshal(data, &st.Materials)
	case entity.KeyRecipes:
		return json.Unmarshal(data, &st.Recipes)
	case entity.KeyPackages:
		return json.Unmarshal(data, &st.Packages)
	case entity.KeyEndProducts:
		return json.Unmarshal(data, &st.EndProducts)
	case entity.KeyCurrencies:
		return json.Unmarshal(data, &st.Currencies)
	case entity.KeyCompany:
		return json.Unmarshal(data, &st.Company)
	case entity.KeySettings:
		return json.Unmarshal(data, &st.Settings)
	}
	return fmt.Errorf("clave desconocida %q", key)
}

// MaterialPrice precio derivado de un material.
func (s *StoreUseCase) MaterialPrice(id string, opts costing.PriceOptions) (*costing.DerivedPrice, error) {
	st := s.Snapshot()
	for _, m := range st.Materials {
		if m.ID == id {
			p := costing.DerivePrice(m, opts, s.deps(st).Env())
			return &p, nil
		}
	}
	return nil, domain.NewError(domain.CodeNotFound, fmt.Errorf("%w: material %s", domain.ErrNotFound, id))
}

// RecipeCost costo de la receta escalada a quantity (cero = rendimiento de la receta).
func (s *StoreUseCase) RecipeCost(id string, quantity decimal.Decimal) (*costing.RecipeCostResult, error) {
	st := s.Snapshot()
	for _, r := range st.Recipes {
		if r.ID != id {
			continue
		}
		if !quantity.IsPositive() {
			quantity = r.Yield
		}
		if !quantity.IsPositive() {
			return nil, domain.Validation(domain.CodeValidation, "cantidad debe ser mayor que cero")
		}
		res := costing.RecipeCost(r, quantity, s.deps(st).Converter())
		return &res, nil
	}
	return nil, domain.NewError(domain.CodeNotFound, fmt.Errorf("%w: receta %s", domain.ErrNotFound, id))
}

// Convert convierte amount con las tasas vigentes. to vacío = moneda por defecto.
func (s *StoreUseCase) Convert(amount decimal.Decimal, from, to string) exchange.Money {
	st := s.Snapshot()
	return s.deps(st).Converter().Convert(amount, from, to, true)
}

// RateHistory archivo completo de cotizaciones de code.
func (s *StoreUseCase) RateHistory(ctx context.Context, code string, limit int) ([]entity.ExchangeRateEntry, error) {
	if s.history == nil {
		latest := s.Snapshot().Currencies[code]
		if limit > 0 && len(latest) > limit {
			latest = latest[:limit]
		}
		return latest, nil
	}
	list, err := s.history.ListByCurrency(ctx, code, limit)
	if err != nil {
		return nil, fmt.Errorf("historial de tasas: %w", err)
	}
	return list, nil
}

// storeObserver traduce los eventos de las transiciones a log y métricas.
type storeObserver struct {
	log     *logger.Logger
	metrics ports.Metrics
}

func (o storeObserver) ConversionUnavailable(from, to string) {
	o.log.Warn().Str("from", from).Str("to", to).Msg("conversión no disponible, se usa el monto original")
	o.metrics.ConversionUnavailable(from, to)
}

func (o storeObserver) RateRejected(r exchange.Rejection) {
	code := domain.CodeOf(r.Err)
	o.log.Debug().Str("currency", r.Quote.From).Str("code", string(code)).Msg("cotización descartada")
	o.metrics.RateRejected(r.Quote.From, string(code))
}
