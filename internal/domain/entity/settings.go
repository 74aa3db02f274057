package entity

import "slices"

// Settings configuración de la instalación.
// Currencies son las monedas habilitadas (sin incluir necesariamente la por defecto).
type Settings struct {
	DefaultCurrency    string   `json:"defaultCurrency"`
	Currencies         []string `json:"currencies"`
	FavoriteCurrencies []string `json:"favoriteCurrencies"`
	APIProvider        string   `json:"apiProvider"`
	APIKey             string   `json:"apiKey"`
	SetupComplete      bool     `json:"setupComplete"`
}

// SettingsEqual compara campo a campo.
func SettingsEqual(a, b Settings) bool {
	return a.DefaultCurrency == b.DefaultCurrency &&
		slices.Equal(a.Currencies, b.Currencies) &&
		slices.Equal(a.FavoriteCurrencies, b.FavoriteCurrencies) &&
		a.APIProvider == b.APIProvider &&
		a.APIKey == b.APIKey &&
		a.SetupComplete == b.SetupComplete
}
