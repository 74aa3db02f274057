package state

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// Validaciones de las acciones SET_*: los registros llegan completos, así que solo se
// revisan los montos, porcentajes y cantidades.

func indexed(prefix string, i int, fields map[string]*decimal.Decimal) map[string]*decimal.Decimal {
	out := make(map[string]*decimal.Decimal, len(fields))
	for name, v := range fields {
		out[fmt.Sprintf("%s[%d].%s", prefix, i, name)] = v
	}
	return out
}

func checkMaterials(in []entity.Material) error {
	for i := range in {
		m := &in[i]
		if err := nonNegative(indexed("materials", i, map[string]*decimal.Decimal{
			"price": &m.Price, "tax": &m.Tax, "density": &m.Density,
		})); err != nil {
			return err
		}
	}
	return nil
}

func checkRecipes(in []entity.Recipe) error {
	for i := range in {
		r := &in[i]
		if err := nonNegative(indexed("recipes", i, map[string]*decimal.Decimal{
			"yield": &r.Yield, "density": &r.Density,
		})); err != nil {
			return err
		}
		for j := range r.Materials {
			l := &r.Materials[j]
			if err := nonNegative(indexed(fmt.Sprintf("recipes[%d].materials", i), j, map[string]*decimal.Decimal{
				"amount": &l.Amount, "price": &l.Price, "tax": &l.Tax,
			})); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkPackages(in []entity.Package) error {
	for i := range in {
		p := &in[i]
		if err := nonNegative(indexed("packages", i, map[string]*decimal.Decimal{
			"packageCapacity": &p.PackageCapacity, "cost": &p.Cost, "tax": &p.Tax, "costWithTax": &p.CostWithTax,
		})); err != nil {
			return err
		}
		for j := range p.Items {
			it := &p.Items[j]
			if err := nonNegative(indexed(fmt.Sprintf("packages[%d].items", i), j, map[string]*decimal.Decimal{
				"itemPrice": &it.ItemPrice, "itemTax": &it.ItemTax, "boxCapacity": &it.BoxCapacity,
			})); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkEndProducts(in []entity.EndProduct) error {
	for i := range in {
		c := &in[i].Cost
		if err := nonNegative(indexed("endproducts", i, map[string]*decimal.Decimal{
			"recipeCost": &c.RecipeCost, "recipeTax": &c.RecipeTax,
			"packageCost": &c.PackageCost, "packageTax": &c.PackageTax,
			"labourCost": &c.LabourCost, "labourCostTax": &c.LabourCostTax,
			"total": &c.Total, "totalWithTax": &c.TotalWithTax,
		})); err != nil {
			return err
		}
	}
	return nil
}
