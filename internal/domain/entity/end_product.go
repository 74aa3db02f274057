package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EndProduct es el producto vendible: una receta envasada en un empaque.
type EndProduct struct {
	ID             string         `json:"endId"`
	RecipeID       string         `json:"recipeId"`
	PackageID      string         `json:"packageId"`
	Name           string         `json:"name"`
	CommercialName string         `json:"commercialName"`
	Notes          string         `json:"notes"`
	Cost           EndProductCost `json:"cost"`
	CostHistory    []PricePoint   `json:"costHistory"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// EndProductCost desglosa el costo total de una unidad de producto final (moneda por defecto).
type EndProductCost struct {
	RecipeCost    decimal.Decimal `json:"recipeCost"`
	RecipeTax     decimal.Decimal `json:"recipeTax"`
	PackageCost   decimal.Decimal `json:"packageCost"`
	PackageTax    decimal.Decimal `json:"packageTax"`
	LabourCost    decimal.Decimal `json:"labourCost"`
	LabourCostTax decimal.Decimal `json:"labourCostTax"`
	Total         decimal.Decimal `json:"total"`
	TotalWithTax  decimal.Decimal `json:"totalWithTax"`
}

// Equal compara los componentes del costo por valor.
func (c EndProductCost) Equal(o EndProductCost) bool {
	return c.RecipeCost.Equal(o.RecipeCost) &&
		c.RecipeTax.Equal(o.RecipeTax) &&
		c.PackageCost.Equal(o.PackageCost) &&
		c.PackageTax.Equal(o.PackageTax) &&
		c.LabourCost.Equal(o.LabourCost) &&
		c.LabourCostTax.Equal(o.LabourCostTax) &&
		c.Total.Equal(o.Total) &&
		c.TotalWithTax.Equal(o.TotalWithTax)
}

// EndProductEqual compara campo a campo.
func EndProductEqual(a, b EndProduct) bool {
	return a.ID == b.ID &&
		a.RecipeID == b.RecipeID &&
		a.PackageID == b.PackageID &&
		a.Name == b.Name &&
		a.CommercialName == b.CommercialName &&
		a.Notes == b.Notes &&
		a.Cost.Equal(b.Cost) &&
		pricePointsEqual(a.CostHistory, b.CostHistory)
}
