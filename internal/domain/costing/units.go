package costing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
)

// Unidades base canónicas.
const (
	BaseWeight = "kg"
	BaseVolume = "L"
	BaseCount  = "unit"
)

// Unit define una unidad como múltiplo de su unidad base: 1 unidad = Ratio Base.
type Unit struct {
	Base  string
	Ratio decimal.Decimal
}

// UnitTable tabla de unidades indexada por símbolo.
type UnitTable map[string]Unit

// DefaultUnits tabla incorporada de peso, volumen y conteo.
func DefaultUnits() UnitTable {
	d := decimal.RequireFromString
	return UnitTable{
		"kg":   {Base: BaseWeight, Ratio: d("1")},
		"g":    {Base: BaseWeight, Ratio: d("0.001")},
		"mg":   {Base: BaseWeight, Ratio: d("0.000001")},
		"t":    {Base: BaseWeight, Ratio: d("1000")},
		"lb":   {Base: BaseWeight, Ratio: d("0.45359237")},
		"oz":   {Base: BaseWeight, Ratio: d("0.028349523125")},
		"L":    {Base: BaseVolume, Ratio: d("1")},
		"mL":   {Base: BaseVolume, Ratio: d("0.001")},
		"cL":   {Base: BaseVolume, Ratio: d("0.01")},
		"dL":   {Base: BaseVolume, Ratio: d("0.1")},
		"m3":   {Base: BaseVolume, Ratio: d("1000")},
		"gal":  {Base: BaseVolume, Ratio: d("3.785411784")},
		"floz": {Base: BaseVolume, Ratio: d("0.0295735295625")},
		"unit": {Base: BaseCount, Ratio: d("1")},
	}
}

// Merge devuelve una tabla nueva con las entradas de extra sobre t.
func (t UnitTable) Merge(extra UnitTable) UnitTable {
	out := make(UnitTable, len(t)+len(extra))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Lookup busca la unidad (exacta y luego sin distinguir mayúsculas).
// Una razón cero o negativa es un error de configuración de la tabla: panic.
func (t UnitTable) Lookup(symbol string) (Unit, bool) {
	u, ok := t[symbol]
	if !ok {
		for k, v := range t {
			if strings.EqualFold(k, symbol) {
				u, ok = v, true
				break
			}
		}
	}
	if !ok {
		return Unit{}, false
	}
	if !u.Ratio.IsPositive() {
		panic(domain.InvariantViolation{Reason: "razón de unidad inválida para " + symbol})
	}
	return u, true
}

// IsBase indica si symbol ya es una unidad base canónica.
func (t UnitTable) IsBase(symbol string) bool {
	u, ok := t.Lookup(symbol)
	return !ok || (u.Base == symbol && u.Ratio.Equal(decimal.NewFromInt(1)))
}

// ConvertPrice expresa un precio por unidad from como precio por unidad to.
// Entre peso y volumen usa density (kg/L). Devuelve false si no hay conversión posible.
func (t UnitTable) ConvertPrice(price decimal.Decimal, from, to string, density decimal.Decimal) (decimal.Decimal, bool) {
	if from == to {
		return price, true
	}
	uf, ok := t.Lookup(from)
	if !ok {
		return price, false
	}
	ut, ok := t.Lookup(to)
	if !ok {
		return price, false
	}
	perBase := price.Div(uf.Ratio)
	switch {
	case uf.Base == ut.Base:
	case uf.Base == BaseWeight && ut.Base == BaseVolume && density.IsPositive():
		perBase = perBase.Mul(density)
	case uf.Base == BaseVolume && ut.Base == BaseWeight && density.IsPositive():
		perBase = perBase.Div(density)
	default:
		return price, false
	}
	return perBase.Mul(ut.Ratio), true
}
