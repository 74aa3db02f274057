package state

import (
	"slices"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

// InitializeInput entrada de INITIALIZE_CURRENCIES. Vacío usa las monedas de Deps.
type InitializeInput struct {
	Currencies []string `json:"currencies" validate:"omitempty,dive,currency_code"`
}

// ReduceCurrencies transición del libro de tasas.
func ReduceCurrencies(current entity.RateLedger, a Action, d Deps) (entity.RateLedger, error) {
	switch a.Type {
	case AddRate:
		in, ok := a.Payload.(entity.RateQuote)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkStruct(in); err != nil {
			return current, err
		}
		next, err := exchange.AddRate(current, in, d.LedgerConfig(), d.now())
		if err != nil {
			return current, err
		}
		return next, nil
	case BatchUpdateRates:
		in, ok := a.Payload.([]entity.RateQuote)
		if !ok {
			return current, invalidPayload(a)
		}
		next, rejections := exchange.BatchUpdate(current, in, d.LedgerConfig(), d.now())
		if d.Observer != nil {
			for _, r := range rejections {
				d.Observer.RateRejected(r)
			}
		}
		if len(rejections) == len(in) {
			return current, domain.NoChange()
		}
		return next, nil
	case InitializeCurrencies:
		in, ok := a.Payload.(InitializeInput)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkStruct(in); err != nil {
			return current, err
		}
		enabled := in.Currencies
		if len(enabled) == 0 {
			enabled = d.Enabled
		}
		next := exchange.Initialize(current, enabled, d.DefaultCurrency)
		if LedgerEqual(current, next) {
			return current, domain.NoChange()
		}
		return next, nil
	default:
		unknownAction(entity.KeyCurrencies, a)
		return current, nil
	}
}

// LedgerEqual compara dos libros entrada por entrada.
func LedgerEqual(a, b entity.RateLedger) bool {
	if len(a) != len(b) {
		return false
	}
	for code, xs := range a {
		ys, ok := b[code]
		if !ok {
			return false
		}
		eq := slices.EqualFunc(xs, ys, func(x, y entity.ExchangeRateEntry) bool {
			return x.From == y.From && x.To == y.To && x.Rate.Equal(y.Rate) &&
				x.Date.Equal(y.Date) && x.Change.Equal(y.Change)
		})
		if !eq {
			return false
		}
	}
	return true
}
