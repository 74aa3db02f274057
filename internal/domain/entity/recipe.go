package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe es una fórmula definida para producir Yield unidades (kg, L...) de producto.
// Cada línea guarda el precio por unidad de la línea en el momento del cálculo.
type Recipe struct {
	ID        string           `json:"recipeId"`
	ProductID string           `json:"productId"`
	Name      string           `json:"name"`
	Yield     decimal.Decimal  `json:"yield"`
	Unit      string           `json:"unit"`
	Density   decimal.Decimal  `json:"density"`
	Materials []RecipeMaterial `json:"materials"`
	UnitCosts []UnitCost       `json:"unitCosts"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// RecipeMaterial es una línea de la receta.
type RecipeMaterial struct {
	MaterialID string          `json:"materialId"`
	Amount     decimal.Decimal `json:"amount"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	Tax        decimal.Decimal `json:"tax"`
}

// UnitCost es una entrada del historial de costo unitario de la receta.
type UnitCost struct {
	Date        time.Time       `json:"date"`
	Cost        decimal.Decimal `json:"cost"`
	CostWithTax decimal.Decimal `json:"costWithTax"`
}

// LatestUnitCost devuelve unitCosts[0] si existe.
func (r Recipe) LatestUnitCost() (UnitCost, bool) {
	if len(r.UnitCosts) == 0 {
		return UnitCost{}, false
	}
	return r.UnitCosts[0], true
}

// UsesMaterial indica si alguna línea referencia materialID.
func (r Recipe) UsesMaterial(materialID string) bool {
	for _, m := range r.Materials {
		if m.MaterialID == materialID {
			return true
		}
	}
	return false
}

// RecipeEqual compara campo a campo.
func RecipeEqual(a, b Recipe) bool {
	if a.ID != b.ID || a.ProductID != b.ProductID || a.Name != b.Name || a.Unit != b.Unit ||
		!a.Yield.Equal(b.Yield) || !a.Density.Equal(b.Density) {
		return false
	}
	if !RecipeMaterialsEqual(a.Materials, b.Materials) || len(a.UnitCosts) != len(b.UnitCosts) {
		return false
	}
	for i := range a.UnitCosts {
		x, y := a.UnitCosts[i], b.UnitCosts[i]
		if !x.Date.Equal(y.Date) || !x.Cost.Equal(y.Cost) || !x.CostWithTax.Equal(y.CostWithTax) {
			return false
		}
	}
	return true
}

// RecipeMaterialsEqual compara las líneas en orden.
func RecipeMaterialsEqual(a, b []RecipeMaterial) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.MaterialID != y.MaterialID || x.Unit != y.Unit || x.Currency != y.Currency ||
			!x.Amount.Equal(y.Amount) || !x.Price.Equal(y.Price) || !x.Tax.Equal(y.Tax) {
			return false
		}
	}
	return true
}
