package costing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// Labour costo de mano de obra por unidad base (kg o L) y su impuesto.
type Labour struct {
	CostPerUnit decimal.Decimal
	TaxPerUnit  decimal.Decimal
}

// Quantity capacidad del empaque; 1 si falta o no es válida.
func Quantity(p entity.Package) decimal.Decimal {
	if p.PackageCapacity.IsPositive() {
		return p.PackageCapacity
	}
	return decimal.NewFromInt(1)
}

// EndProductCost combina receta (escalada a la capacidad del empaque), empaque y mano de obra.
// El impuesto de la receta es la diferencia entre costo unitario con y sin impuesto.
func EndProductCost(r entity.Recipe, p entity.Package, labour Labour) entity.EndProductCost {
	quantity := Quantity(p)

	var c entity.EndProductCost
	if uc, ok := r.LatestUnitCost(); ok {
		c.RecipeCost = quantity.Mul(uc.Cost).Round(4)
		c.RecipeTax = quantity.Mul(uc.CostWithTax.Sub(uc.Cost)).Round(4)
	}
	c.PackageCost = p.Cost
	c.PackageTax = p.Tax

	if labour.CostPerUnit.IsPositive() {
		weight := quantity
		if p.ProductType == entity.ProductTypeLiquid && r.Density.IsPositive() {
			weight = quantity.Mul(r.Density)
		}
		c.LabourCost = labour.CostPerUnit.Mul(weight).Round(4)
		c.LabourCostTax = labour.TaxPerUnit.Mul(weight).Round(4)
	}

	c.Total = c.RecipeCost.Add(c.PackageCost).Add(c.LabourCost)
	c.TotalWithTax = c.Total.Add(c.RecipeTax).Add(c.PackageTax).Add(c.LabourCostTax)
	return c
}

// RecomputeEndProducts recalcula todos los productos finales. Los que no cambian se devuelven intactos;
// los que cambian reciben una entrada {now, totalWithTax} en su historial.
// Si nada cambió devuelve el mismo slice y false.
func RecomputeEndProducts(
	products []entity.EndProduct,
	recipes map[string]entity.Recipe,
	packages map[string]entity.Package,
	labour Labour,
	now time.Time,
	limit int,
) ([]entity.EndProduct, bool) {
	var out []entity.EndProduct
	for i, ep := range products {
		r, okR := recipes[ep.RecipeID]
		p, okP := packages[ep.PackageID]
		if !okR || !okP {
			continue
		}
		cost := EndProductCost(r, p, labour)
		if cost.Equal(ep.Cost) {
			continue
		}
		if out == nil {
			out = make([]entity.EndProduct, len(products))
			copy(out, products)
		}
		updated := ep
		updated.Cost = cost
		updated.CostHistory = PrependPricePoint(ep.CostHistory, cost.TotalWithTax, now, limit)
		out[i] = updated
	}
	if out == nil {
		return products, false
	}
	return out, true
}
