package costing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

// RecipeCostResult costo de producir Quantity unidades de la receta (moneda por defecto).
type RecipeCostResult struct {
	Quantity        decimal.Decimal `json:"quantity"`
	Cost            decimal.Decimal `json:"cost"`
	Tax             decimal.Decimal `json:"tax"`
	CostWithTax     decimal.Decimal `json:"costWithTax"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	UnitCostWithTax decimal.Decimal `json:"unitCostWithTax"`
}

// ScaleRecipe escala linealmente las cantidades de la receta a target/yield.
func ScaleRecipe(r entity.Recipe, target decimal.Decimal) entity.Recipe {
	if !r.Yield.IsPositive() || !target.IsPositive() || r.Yield.Equal(target) {
		return r
	}
	factor := target.Div(r.Yield)
	out := r
	out.Yield = target
	out.Materials = make([]entity.RecipeMaterial, len(r.Materials))
	for i, line := range r.Materials {
		line.Amount = line.Amount.Mul(factor)
		out.Materials[i] = line
	}
	return out
}

// RecipeCost suma las líneas de la receta reescalada a quantity (si es <= 0 se usa el rendimiento propio).
func RecipeCost(r entity.Recipe, quantity decimal.Decimal, conv *exchange.Converter) RecipeCostResult {
	if !quantity.IsPositive() {
		quantity = r.Yield
	}
	scaled := ScaleRecipe(r, quantity)

	cost, tax := decimal.Zero, decimal.Zero
	for _, line := range scaled.Materials {
		contribution := line.Amount.Mul(line.Price)
		if conv != nil {
			contribution = conv.ToDefault(contribution, line.Currency).Amount
		}
		cost = cost.Add(contribution)
		if line.Tax.IsPositive() {
			tax = tax.Add(percent(contribution, line.Tax))
		}
	}

	res := RecipeCostResult{
		Quantity:    quantity,
		Cost:        cost.Round(4),
		Tax:         tax.Round(4),
		CostWithTax: cost.Add(tax).Round(4),
	}
	if quantity.IsPositive() {
		res.UnitCost = cost.Div(quantity).Round(4)
		res.UnitCostWithTax = cost.Add(tax).Div(quantity).Round(4)
	}
	return res
}

// AppendUnitCost antepone entry al historial de costo unitario.
// NO_CHANGE si coincide con el último; TOO_MANY_REQUESTS si ya hay una entrada con la misma marca de tiempo.
func AppendUnitCost(history []entity.UnitCost, entry entity.UnitCost, limit int) ([]entity.UnitCost, error) {
	if len(history) > 0 {
		latest := history[0]
		if latest.Cost.Equal(entry.Cost) && latest.CostWithTax.Equal(entry.CostWithTax) {
			return history, domain.NoChange()
		}
	}
	for _, h := range history {
		if h.Date.Equal(entry.Date) {
			return history, domain.NewError(domain.CodeTooManyRequests, domain.ErrTooManyRequests)
		}
	}
	return prependBounded(history, entry, limit), nil
}

// UpdateRecipeCost recalcula el costo unitario de la receta y lo registra si cambió.
func UpdateRecipeCost(r entity.Recipe, env Env, now time.Time) (entity.Recipe, error) {
	res := RecipeCost(r, r.Yield, env.Converter)
	history, err := AppendUnitCost(r.UnitCosts, entity.UnitCost{
		Date:        now,
		Cost:        res.UnitCost,
		CostWithTax: res.UnitCostWithTax,
	}, env.limit())
	if err != nil {
		return r, err
	}
	out := r
	out.UnitCosts = history
	return out, nil
}

// RefreshRecipeLines vuelve a leer precio, moneda e impuesto de cada línea desde los materiales actuales,
// expresando el precio en la unidad de la línea. Las líneas sin material conocido no se tocan.
func RefreshRecipeLines(r entity.Recipe, materials map[string]entity.Material, units UnitTable) entity.Recipe {
	if units == nil {
		units = DefaultUnits()
	}
	out := r
	out.Materials = make([]entity.RecipeMaterial, len(r.Materials))
	for i, line := range r.Materials {
		m, ok := materials[line.MaterialID]
		if ok {
			price := m.Price
			if line.Unit != "" && line.Unit != m.Unit {
				if converted, ok := units.ConvertPrice(m.Price, m.Unit, line.Unit, m.Density); ok {
					price = converted
				}
			} else if line.Unit == "" {
				line.Unit = m.Unit
			}
			line.Price = price
			line.Currency = m.Currency
			line.Tax = m.Tax
		}
		out.Materials[i] = line
	}
	return out
}
