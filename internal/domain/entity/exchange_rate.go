package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateEntry es una cotización histórica de From expresada en To (la moneda por defecto).
// Change es la variación porcentual frente a la cotización anterior del mismo From.
type ExchangeRateEntry struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Rate   decimal.Decimal `json:"rate"`
	Date   time.Time       `json:"date"`
	Change decimal.Decimal `json:"change"`
}

// RateLedger agrupa por código de moneda las cotizaciones, la más reciente primero.
type RateLedger map[string][]ExchangeRateEntry

// Latest devuelve la cotización más reciente de code.
func (l RateLedger) Latest(code string) (ExchangeRateEntry, bool) {
	entries := l[code]
	if len(entries) == 0 {
		return ExchangeRateEntry{}, false
	}
	return entries[0], true
}

// Clone copia el mapa y los slices; las entradas son valores.
func (l RateLedger) Clone() RateLedger {
	out := make(RateLedger, len(l))
	for code, entries := range l {
		cp := make([]ExchangeRateEntry, len(entries))
		copy(cp, entries)
		out[code] = cp
	}
	return out
}

// RateQuote es una cotización entrante (de un proveedor o del usuario) antes de validarse.
type RateQuote struct {
	From string          `json:"from" validate:"required,len=3,uppercase"`
	To   string          `json:"to" validate:"required,len=3,uppercase"`
	Rate decimal.Decimal `json:"rate"`
}
