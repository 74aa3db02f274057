package state

import (
	"fmt"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

var actionDomains = map[ActionType]string{
	AddMaterial:              entity.KeyMaterials,
	UpdateMaterial:           entity.KeyMaterials,
	DeleteMaterial:           entity.KeyMaterials,
	RecalculateLocalPrices:   entity.KeyMaterials,
	SetMaterials:             entity.KeyMaterials,
	AddRecipe:                entity.KeyRecipes,
	UpdateRecipe:             entity.KeyRecipes,
	DeleteRecipe:             entity.KeyRecipes,
	UpdateRecipeCost:         entity.KeyRecipes,
	RecalculateRecipes:       entity.KeyRecipes,
	SetRecipes:               entity.KeyRecipes,
	AddPackage:               entity.KeyPackages,
	UpdatePackage:            entity.KeyPackages,
	DeletePackage:            entity.KeyPackages,
	RecalculatePackages:      entity.KeyPackages,
	SetPackages:              entity.KeyPackages,
	AddEndProduct:            entity.KeyEndProducts,
	UpdateEndProduct:         entity.KeyEndProducts,
	DeleteEndProduct:         entity.KeyEndProducts,
	RecalculateEndProducts:   entity.KeyEndProducts,
	SetEndProducts:           entity.KeyEndProducts,
	AddRate:                  entity.KeyCurrencies,
	BatchUpdateRates:         entity.KeyCurrencies,
	InitializeCurrencies:     entity.KeyCurrencies,
	UpdateCompanyInfo:        entity.KeyCompany,
	AddEmployee:              entity.KeyCompany,
	RemoveEmployee:           entity.KeyCompany,
	AddExpense:               entity.KeyCompany,
	RemoveExpense:            entity.KeyCompany,
	UpdateProduction:         entity.KeyCompany,
	RecalculateCompanyTotals: entity.KeyCompany,
	UpdateSettings:           entity.KeySettings,
	CompleteSetup:            entity.KeySettings,
}

// DomainOf devuelve la clave de dominio que atiende la acción.
func DomainOf(t ActionType) (string, bool) {
	key, ok := actionDomains[t]
	return key, ok
}

// Dispatch aplica la acción al dominio correspondiente y devuelve el estado completo.
// d.Refs se reemplaza por s. En error devuelve s sin cambios.
func Dispatch(s entity.State, a Action, d Deps) (entity.State, string, error) {
	key, ok := DomainOf(a.Type)
	if !ok {
		panic(domain.InvariantViolation{Reason: fmt.Sprintf("acción sin dominio %q", a.Type)})
	}
	d.Refs = s
	next := s
	var err error
	switch key {
	case entity.KeyMaterials:
		next.Materials, err = ReduceMaterials(s.Materials, a, d)
	case entity.KeyRecipes:
		next.Recipes, err = ReduceRecipes(s.Recipes, a, d)
	case entity.KeyPackages:
		next.Packages, err = ReducePackages(s.Packages, a, d)
	case entity.KeyEndProducts:
		next.EndProducts, err = ReduceEndProducts(s.EndProducts, a, d)
	case entity.KeyCurrencies:
		next.Currencies, err = ReduceCurrencies(s.Currencies, a, d)
	case entity.KeyCompany:
		next.Company, err = ReduceCompany(s.Company, a, d)
	case entity.KeySettings:
		next.Settings, err = ReduceSettings(s.Settings, a, d)
	}
	if err != nil {
		return s, key, err
	}
	return next, key, nil
}
