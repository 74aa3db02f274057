package entity

// Claves de persistencia, una por dominio.
const (
	KeyMaterials   = "materials"
	KeyRecipes     = "recipes"
	KeyPackages    = "packages"
	KeyEndProducts = "endproducts"
	KeyCurrencies  = "currencies"
	KeyCompany     = "company"
	KeySettings    = "settings"
)

// AllKeys en orden de dependencia (hojas primero).
var AllKeys = []string{KeySettings, KeyCurrencies, KeyCompany, KeyMaterials, KeyRecipes, KeyPackages, KeyEndProducts}

// State es la instantánea completa de la aplicación. Se trata como inmutable:
// las transiciones devuelven slices/mapas nuevos en lugar de modificar los existentes.
type State struct {
	Materials   []Material   `json:"materials"`
	Recipes     []Recipe     `json:"recipes"`
	Packages    []Package    `json:"packages"`
	EndProducts []EndProduct `json:"endproducts"`
	Currencies  RateLedger   `json:"currencies"`
	Company     Company      `json:"company"`
	Settings    Settings     `json:"settings"`
}
