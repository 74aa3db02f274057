package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto que admite un empaque.
const (
	ProductTypeLiquid = "liquid"
	ProductTypeSolid  = "solid"
)

// Tipos de ítem de empaque. Un "box" contiene BoxCapacity unidades.
const (
	PackageTypeContainer = "container"
	PackageTypeBox       = "box"
	PackageTypeOther     = "other"
)

// Package es el empaque de un producto final: envase, caja, etiqueta, etc.
// PackageCapacity es la cantidad de producto (kg o L) que contiene una unidad.
// Cost, Tax y CostWithTax están en la moneda por defecto.
type Package struct {
	ID              string             `json:"packageId"`
	Name            string             `json:"name"`
	ProductType     string             `json:"productType"`
	PackageCapacity decimal.Decimal    `json:"packageCapacity"`
	Items           []PackageItem      `json:"items"`
	Cost            decimal.Decimal    `json:"cost"`
	Tax             decimal.Decimal    `json:"tax"`
	CostWithTax     decimal.Decimal    `json:"costWithTax"`
	CostHistory     []PackageCostEntry `json:"costHistory"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// PackageItem es un componente del empaque.
type PackageItem struct {
	Name         string          `json:"name"`
	PackageType  string          `json:"packageType"`
	ItemPrice    decimal.Decimal `json:"itemPrice"`
	ItemCurrency string          `json:"itemCurrency"`
	ItemTax      decimal.Decimal `json:"itemTax"`
	BoxCapacity  decimal.Decimal `json:"boxCapacity"`
}

// PackageCostEntry es una entrada del historial de costo del empaque.
type PackageCostEntry struct {
	Cost     decimal.Decimal `json:"cost"`
	Currency string          `json:"currency"`
	Date     time.Time       `json:"date"`
	Change   decimal.Decimal `json:"change"`
}

// PackageEqual compara campo a campo.
func PackageEqual(a, b Package) bool {
	if a.ID != b.ID || a.Name != b.Name || a.ProductType != b.ProductType ||
		!a.PackageCapacity.Equal(b.PackageCapacity) || !a.Cost.Equal(b.Cost) ||
		!a.Tax.Equal(b.Tax) || !a.CostWithTax.Equal(b.CostWithTax) {
		return false
	}
	if !PackageItemsEqual(a.Items, b.Items) || len(a.CostHistory) != len(b.CostHistory) {
		return false
	}
	for i := range a.CostHistory {
		x, y := a.CostHistory[i], b.CostHistory[i]
		if x.Currency != y.Currency || !x.Date.Equal(y.Date) || !x.Cost.Equal(y.Cost) || !x.Change.Equal(y.Change) {
			return false
		}
	}
	return true
}

// PackageItemsEqual compara los ítems en orden.
func PackageItemsEqual(a, b []PackageItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Name != y.Name || x.PackageType != y.PackageType || x.ItemCurrency != y.ItemCurrency ||
			!x.ItemPrice.Equal(y.ItemPrice) || !x.ItemTax.Equal(y.ItemTax) || !x.BoxCapacity.Equal(y.BoxCapacity) {
			return false
		}
	}
	return true
}
