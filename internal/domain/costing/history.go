package costing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// prependBounded antepone item y recorta a limit entradas (las más antiguas se descartan).
func prependBounded[T any](list []T, item T, limit int) []T {
	if limit <= 0 {
		limit = entity.DefaultHistoryLimit
	}
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

// PrependPricePoint antepone {now, amount} sin comparar con el último registro.
func PrependPricePoint(history []entity.PricePoint, amount decimal.Decimal, now time.Time, limit int) []entity.PricePoint {
	return prependBounded(history, entity.PricePoint{Date: now, Amount: amount}, limit)
}

// AppendPricePoint agrega {now, amount} si amount (a centavos) difiere del último registrado.
func AppendPricePoint(history []entity.PricePoint, amount decimal.Decimal, now time.Time, limit int) ([]entity.PricePoint, bool) {
	if len(history) > 0 && history[0].Amount.Round(2).Equal(amount.Round(2)) {
		return history, false
	}
	return prependBounded(history, entity.PricePoint{Date: now, Amount: amount}, limit), true
}

func percent(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(pct).Div(hundred)
}

var hundred = decimal.NewFromInt(100)
