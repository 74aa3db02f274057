package exchange

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// RoundPlaces decimales de un monto convertido con round=true.
const RoundPlaces = 4

// Money monto con su moneda.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Converter convierte montos en dos saltos a través de la moneda por defecto.
// Si falta una tasa devuelve el monto original sin convertir (falla suave).
type Converter struct {
	ledger          entity.RateLedger
	defaultCurrency string
	onUnavailable   func(from, to string)
}

// NewConverter construye el conversor sobre una instantánea del libro de tasas.
func NewConverter(ledger entity.RateLedger, defaultCurrency string) *Converter {
	return &Converter{ledger: ledger, defaultCurrency: defaultCurrency}
}

// WithUnavailableHook devuelve una copia que notifica cada conversión no disponible.
func (c *Converter) WithUnavailableHook(fn func(from, to string)) *Converter {
	cp := *c
	cp.onUnavailable = fn
	return &cp
}

// DefaultCurrency moneda base del conversor.
func (c *Converter) DefaultCurrency() string { return c.defaultCurrency }

// Rate devuelve la última tasa positiva de code contra la moneda por defecto.
func (c *Converter) Rate(code string) (decimal.Decimal, bool) {
	if code == c.defaultCurrency {
		return decimal.NewFromInt(1), true
	}
	latest, ok := c.ledger.Latest(code)
	if !ok || !latest.Rate.IsPositive() {
		return decimal.Zero, false
	}
	return latest.Rate, true
}

// Convert pasa amount de from a to. to vacío significa la moneda por defecto.
func (c *Converter) Convert(amount decimal.Decimal, from, to string, round bool) Money {
	if to == "" {
		to = c.defaultCurrency
	}
	if from == to {
		return Money{Amount: amount, Currency: from}
	}

	fromRate, ok := c.Rate(from)
	if !ok {
		c.unavailable(from, to)
		return Money{Amount: amount, Currency: from}
	}
	result := amount.Mul(fromRate)

	if to != c.defaultCurrency {
		toRate, ok := c.Rate(to)
		if !ok {
			c.unavailable(from, to)
			return Money{Amount: amount, Currency: from}
		}
		result = result.Div(toRate)
	}
	if round {
		result = result.Round(RoundPlaces)
	}
	return Money{Amount: result, Currency: to}
}

// ToDefault convierte a la moneda por defecto redondeando a 4 decimales.
func (c *Converter) ToDefault(amount decimal.Decimal, from string) Money {
	return c.Convert(amount, from, "", true)
}

func (c *Converter) unavailable(from, to string) {
	if c.onUnavailable != nil {
		c.onUnavailable(from, to)
	}
}
