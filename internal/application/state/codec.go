package state

import (
	"bytes"
	"encoding/json"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

type payloadDecoder func(raw json.RawMessage) (any, error)

func decodeAs[T any](raw json.RawMessage) (any, error) {
	var v T
	if len(bytes.TrimSpace(raw)) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func noPayload(json.RawMessage) (any, error) { return nil, nil }

var decoders = map[ActionType]payloadDecoder{
	AddMaterial:              decodeAs[MaterialInput],
	UpdateMaterial:           decodeAs[MaterialPatch],
	DeleteMaterial:           decodeAs[IDInput],
	RecalculateLocalPrices:   noPayload,
	SetMaterials:             decodeAs[[]entity.Material],
	AddRecipe:                decodeAs[RecipeInput],
	UpdateRecipe:             decodeAs[RecipePatch],
	DeleteRecipe:             decodeAs[IDInput],
	UpdateRecipeCost:         decodeAs[IDInput],
	RecalculateRecipes:       noPayload,
	SetRecipes:               decodeAs[[]entity.Recipe],
	AddPackage:               decodeAs[PackageInput],
	UpdatePackage:            decodeAs[PackagePatch],
	DeletePackage:            decodeAs[IDInput],
	RecalculatePackages:      noPayload,
	SetPackages:              decodeAs[[]entity.Package],
	AddEndProduct:            decodeAs[EndProductInput],
	UpdateEndProduct:         decodeAs[EndProductPatch],
	DeleteEndProduct:         decodeAs[IDInput],
	RecalculateEndProducts:   noPayload,
	SetEndProducts:           decodeAs[[]entity.EndProduct],
	AddRate:                  decodeAs[entity.RateQuote],
	BatchUpdateRates:         decodeAs[[]entity.RateQuote],
	InitializeCurrencies:     decodeAs[InitializeInput],
	UpdateCompanyInfo:        decodeAs[CompanyInfoInput],
	AddEmployee:              decodeAs[EmployeeInput],
	RemoveEmployee:           decodeAs[IDInput],
	AddExpense:               decodeAs[ExpenseInput],
	RemoveExpense:            decodeAs[IDInput],
	UpdateProduction:         decodeAs[ProductionInput],
	RecalculateCompanyTotals: noPayload,
	UpdateSettings:           decodeAs[SettingsPatch],
	CompleteSetup:            noPayload,
}

// DecodeAction construye una Action a partir de su forma serializada {type, payload}.
// A diferencia de los reductores, un tipo desconocido aquí es un error de entrada, no un pánico.
func DecodeAction(typ string, payload json.RawMessage) (Action, error) {
	t := ActionType(typ)
	dec, ok := decoders[t]
	if !ok {
		return Action{}, domain.Validation(domain.CodeInvalidPayload, "tipo de acción desconocido: "+typ)
	}
	v, err := dec(payload)
	if err != nil {
		return Action{}, domain.Validation(domain.CodeInvalidPayload, err.Error())
	}
	return Action{Type: t, Payload: v}, nil
}
