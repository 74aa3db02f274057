package state

import (
	"slices"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// SettingsPatch entrada de UPDATE_SETTINGS.
type SettingsPatch struct {
	DefaultCurrency    *string   `json:"defaultCurrency" validate:"omitempty,currency_code"`
	Currencies         *[]string `json:"currencies" validate:"omitempty,dive,currency_code"`
	FavoriteCurrencies *[]string `json:"favoriteCurrencies" validate:"omitempty,dive,currency_code"`
	APIProvider        *string   `json:"apiProvider" validate:"omitempty,oneof=exchangerate-api frankfurter openexchangerates"`
	APIKey             *string   `json:"apiKey" validate:"omitempty,max=200"`
}

// ReduceSettings transición de la configuración del usuario.
// La moneda por defecto siempre forma parte de las habilitadas.
func ReduceSettings(current entity.Settings, a Action, d Deps) (entity.Settings, error) {
	next := current
	switch a.Type {
	case UpdateSettings:
		in, ok := a.Payload.(SettingsPatch)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkStruct(in); err != nil {
			return current, err
		}
		if in.DefaultCurrency != nil {
			next.DefaultCurrency = *in.DefaultCurrency
		}
		if in.Currencies != nil {
			next.Currencies = dedupe(*in.Currencies)
		}
		if in.FavoriteCurrencies != nil {
			next.FavoriteCurrencies = dedupe(*in.FavoriteCurrencies)
		}
		if in.APIProvider != nil {
			next.APIProvider = *in.APIProvider
		}
		if in.APIKey != nil {
			next.APIKey = *in.APIKey
		}
		if next.DefaultCurrency == "" {
			next.DefaultCurrency = d.DefaultCurrency
		}
		if !slices.Contains(next.Currencies, next.DefaultCurrency) {
			next.Currencies = append([]string{next.DefaultCurrency}, next.Currencies...)
		}
		next.FavoriteCurrencies = slices.DeleteFunc(slices.Clone(next.FavoriteCurrencies), func(c string) bool {
			return !slices.Contains(next.Currencies, c)
		})
	case CompleteSetup:
		next.SetupComplete = true
	default:
		unknownAction(entity.KeySettings, a)
	}

	if entity.SettingsEqual(next, current) {
		return current, domain.NoChange()
	}
	return next, nil
}

func dedupe(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
