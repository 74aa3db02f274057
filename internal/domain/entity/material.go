package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa una materia prima comprada a un proveedor.
// Price está expresado en Currency por cada Unit; Tax es un porcentaje (18 = 18%).
// Density (kg/L) permite pasar de volumen a peso cuando una receta usa otra dimensión.
type Material struct {
	ID                string          `json:"materialId"`
	Name              string          `json:"name"`
	Provider          string          `json:"provider"`
	Price             decimal.Decimal `json:"price"`
	Tax               decimal.Decimal `json:"tax"`
	Currency          string          `json:"currency"`
	Unit              string          `json:"unit"`
	Density           decimal.Decimal `json:"density"`
	PriceHistory      []PricePoint    `json:"priceHistory"`
	LocalPriceHistory []PricePoint    `json:"localPriceHistory"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// MaterialEqual compara campo a campo (los decimales por valor, no por representación).
func MaterialEqual(a, b Material) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Provider == b.Provider &&
		a.Price.Equal(b.Price) &&
		a.Tax.Equal(b.Tax) &&
		a.Currency == b.Currency &&
		a.Unit == b.Unit &&
		a.Density.Equal(b.Density) &&
		pricePointsEqual(a.PriceHistory, b.PriceHistory) &&
		pricePointsEqual(a.LocalPriceHistory, b.LocalPriceHistory)
}

func pricePointsEqual(a, b []PricePoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Date.Equal(b[i].Date) || !a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}
