package costing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

// PackageCostResult totales del empaque en la moneda por defecto.
type PackageCostResult struct {
	Cost        decimal.Decimal `json:"cost"`
	Tax         decimal.Decimal `json:"tax"`
	CostWithTax decimal.Decimal `json:"costWithTax"`
	Currency    string          `json:"currency"`
}

// ItemUnitCost costo por unidad de un ítem (dividido por BoxCapacity en cajas) y su impuesto.
func ItemUnitCost(item entity.PackageItem, conv *exchange.Converter) (cost, tax decimal.Decimal) {
	cost = item.ItemPrice
	if conv != nil {
		cost = conv.ToDefault(item.ItemPrice, item.ItemCurrency).Amount
	}
	if item.PackageType == entity.PackageTypeBox && item.BoxCapacity.IsPositive() {
		cost = cost.Div(item.BoxCapacity)
	}
	tax = decimal.Zero
	if item.ItemTax.IsPositive() {
		tax = percent(cost, item.ItemTax)
	}
	return cost, tax
}

// PackageCost suma el costo de los ítems.
func PackageCost(p entity.Package, conv *exchange.Converter) PackageCostResult {
	cost, tax := decimal.Zero, decimal.Zero
	for _, item := range p.Items {
		c, t := ItemUnitCost(item, conv)
		cost = cost.Add(c)
		tax = tax.Add(t)
	}
	res := PackageCostResult{
		Cost:        cost.Round(4),
		Tax:         tax.Round(4),
		CostWithTax: cost.Add(tax).Round(4),
	}
	if conv != nil {
		res.Currency = conv.DefaultCurrency()
	}
	return res
}

// ApplyPackageCost fija los totales y agrega una entrada al historial si el costo (a 2 decimales) cambió.
func ApplyPackageCost(p entity.Package, res PackageCostResult, now time.Time, limit int) entity.Package {
	out := p
	out.Cost, out.Tax, out.CostWithTax = res.Cost, res.Tax, res.CostWithTax

	rounded := res.Cost.Round(2)
	change := decimal.Zero
	if len(p.CostHistory) > 0 {
		prev := p.CostHistory[0].Cost
		if prev.Round(2).Equal(rounded) {
			return out
		}
		change = exchange.PercentChange(prev, rounded).Round(2)
	}
	out.CostHistory = prependBounded(p.CostHistory, entity.PackageCostEntry{
		Cost:     rounded,
		Currency: res.Currency,
		Date:     now,
		Change:   change,
	}, limit)
	return out
}

// RecomputePackage recalcula totales e historial de un empaque.
func RecomputePackage(p entity.Package, env Env, now time.Time) entity.Package {
	return ApplyPackageCost(p, PackageCost(p, env.Converter), now, env.limit())
}
