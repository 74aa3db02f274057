// Package exchange contiene el libro de tasas de cambio y el conversor de monedas.
// Todas las tasas se expresan contra la moneda por defecto: 1 From = Rate To.
package exchange

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// MinChangePercent es la variación mínima (en %) para aceptar una nueva cotización.
var MinChangePercent = decimal.RequireFromString("0.001")

// DefaultMinInterval separación mínima entre dos cotizaciones del mismo código (anti doble envío).
const DefaultMinInterval = 30 * time.Millisecond

// LedgerConfig parámetros del libro de tasas, inyectados en cada llamada.
type LedgerConfig struct {
	DefaultCurrency string
	Enabled         []string
	HistoryLimit    int
	MinInterval     time.Duration
}

func (c LedgerConfig) limit() int {
	if c.HistoryLimit <= 0 {
		return entity.DefaultHistoryLimit
	}
	return c.HistoryLimit
}

func (c LedgerConfig) isEnabled(code string) bool {
	return code != c.DefaultCurrency && slices.Contains(c.Enabled, code)
}

// ValidCode indica si code es un código ISO-4217 de 3 letras en mayúsculas.
func ValidCode(code string) bool {
	if len(code) != 3 || strings.ToUpper(code) != code {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}

func rejected(code domain.Code) *domain.Error {
	return domain.NewError(code, domain.ErrRateRejected)
}

// AddRate valida la cotización y, si es material, la antepone al historial de q.From.
// Nunca modifica ledger: en éxito devuelve una copia; en error devuelve ledger tal cual.
func AddRate(ledger entity.RateLedger, q entity.RateQuote, cfg LedgerConfig, now time.Time) (entity.RateLedger, error) {
	if q.To != cfg.DefaultCurrency {
		return ledger, rejected(domain.CodeInvalidDefaultCurrency)
	}
	if !cfg.isEnabled(q.From) {
		return ledger, rejected(domain.CodeInvalidCurrency)
	}
	if !q.Rate.IsPositive() {
		return ledger, rejected(domain.CodeInvalidRate)
	}

	change := decimal.Zero
	if latest, ok := ledger.Latest(q.From); ok && latest.Rate.IsPositive() {
		change = PercentChange(latest.Rate, q.Rate)
		if change.Abs().LessThan(MinChangePercent) {
			return ledger, domain.NoChange()
		}
		minInterval := cfg.MinInterval
		if minInterval <= 0 {
			minInterval = DefaultMinInterval
		}
		if elapsed := now.Sub(latest.Date); elapsed >= 0 && elapsed < minInterval {
			return ledger, rejected(domain.CodeTooSoon)
		}
	}

	entry := entity.ExchangeRateEntry{
		From:   q.From,
		To:     q.To,
		Rate:   q.Rate,
		Date:   now,
		Change: change.Round(4),
	}
	out := ledger.Clone()
	out[q.From] = prepend(out[q.From], entry, cfg.limit())
	return out, nil
}

// Rejection registra una cotización descartada por BatchUpdate.
type Rejection struct {
	Quote entity.RateQuote
	Err   error
}

// BatchUpdate aplica AddRate a cada cotización de forma independiente.
// Los rechazos se devuelven para registro; nunca detienen el resto del lote.
func BatchUpdate(ledger entity.RateLedger, quotes []entity.RateQuote, cfg LedgerConfig, now time.Time) (entity.RateLedger, []Rejection) {
	var rejections []Rejection
	current := ledger
	for _, q := range quotes {
		next, err := AddRate(current, q, cfg, now)
		if err != nil {
			rejections = append(rejections, Rejection{Quote: q, Err: err})
			continue
		}
		current = next
	}
	return current, rejections
}

// Initialize reconcilia las claves del libro con las monedas habilitadas: conserva el historial
// de las que siguen habilitadas, elimina las deshabilitadas y crea listas vacías para las nuevas.
func Initialize(ledger entity.RateLedger, enabled []string, defaultCurrency string) entity.RateLedger {
	out := make(entity.RateLedger, len(enabled))
	for _, code := range enabled {
		if code == defaultCurrency {
			continue
		}
		entries := ledger[code]
		cp := make([]entity.ExchangeRateEntry, 0, len(entries))
		for _, e := range entries {
			if e.To == defaultCurrency {
				cp = append(cp, e)
			}
		}
		out[code] = cp
	}
	return out
}

// PercentChange devuelve (next-prev)/prev*100. prev debe ser distinto de cero.
func PercentChange(prev, next decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return next.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100))
}

func prepend[T any](list []T, item T, limit int) []T {
	out := make([]T, 0, min(len(list)+1, limit))
	out = append(out, item)
	for _, e := range list {
		if len(out) >= limit {
			break
		}
		out = append(out, e)
	}
	return out
}
