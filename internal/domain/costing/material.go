package costing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// PriceOptions Local convierte a la moneda por defecto; Base normaliza a kg/L.
type PriceOptions struct {
	Local bool
	Base  bool
}

// DerivedPrice precio derivado de un material.
type DerivedPrice struct {
	Price        decimal.Decimal `json:"price"`
	Tax          decimal.Decimal `json:"tax"`
	Unit         string          `json:"unit"`
	PriceWithTax decimal.Decimal `json:"priceWithTax"`
	Currency     string          `json:"currency"`
}

// DerivePrice calcula el precio del material según opts.
func DerivePrice(m entity.Material, opts PriceOptions, env Env) DerivedPrice {
	price, cur, unit := m.Price, m.Currency, m.Unit

	if opts.Local && env.Converter != nil && cur != env.Converter.DefaultCurrency() {
		money := env.Converter.ToDefault(price, cur)
		price, cur = money.Amount, money.Currency
	}
	if opts.Base {
		units := env.units()
		if u, ok := units.Lookup(unit); ok && !units.IsBase(unit) {
			price = price.Div(u.Ratio)
			unit = u.Base
		}
	}

	return DerivedPrice{
		Price:        price,
		Tax:          m.Tax,
		Unit:         unit,
		PriceWithTax: WithTax(price, m.Tax),
		Currency:     cur,
	}
}

// WithTax devuelve price*(1+tax/100) si tax > 0; si no, price.
func WithTax(price, tax decimal.Decimal) decimal.Decimal {
	if !tax.IsPositive() {
		return price
	}
	return price.Add(percent(price, tax))
}

// PreviousPrice primer precio del historial distinto del actual; si no hay, el actual.
func PreviousPrice(m entity.Material) decimal.Decimal {
	current := m.Price.Round(2)
	for _, p := range m.PriceHistory {
		if !p.Amount.Round(2).Equal(current) {
			return p.Amount
		}
	}
	return m.Price
}

// TrackMaterialPrices registra el precio y el precio local en sus historiales cuando cambian.
func TrackMaterialPrices(m entity.Material, env Env, now time.Time) entity.Material {
	out := m
	out.PriceHistory, _ = AppendPricePoint(m.PriceHistory, m.Price, now, env.limit())
	local := DerivePrice(m, PriceOptions{Local: true}, env)
	out.LocalPriceHistory, _ = AppendPricePoint(m.LocalPriceHistory, local.Price, now, env.limit())
	return out
}
