// Package state contiene las transiciones de estado puras por dominio.
// Cada reductor recibe (estado actual, acción, dependencias) y devuelve (estado nuevo, error).
// En error el estado devuelto es siempre el recibido: nunca hay mutación parcial.
package state

import "fmt"

// ActionType identifica una transición.
type ActionType string

// Acciones de materiales.
const (
	AddMaterial            ActionType = "ADD_MATERIAL"
	UpdateMaterial         ActionType = "UPDATE_MATERIAL"
	DeleteMaterial         ActionType = "DELETE_MATERIAL"
	RecalculateLocalPrices ActionType = "RECALCULATE_LOCAL_PRICES"
	SetMaterials           ActionType = "SET_MATERIALS"
)

// Acciones de recetas.
const (
	AddRecipe          ActionType = "ADD_RECIPE"
	UpdateRecipe       ActionType = "UPDATE_RECIPE"
	DeleteRecipe       ActionType = "DELETE_RECIPE"
	UpdateRecipeCost   ActionType = "UPDATE_RECIPE_COST"
	RecalculateRecipes ActionType = "RECALCULATE_RECIPES"
	SetRecipes         ActionType = "SET_RECIPES"
)

// Acciones de empaques.
const (
	AddPackage          ActionType = "ADD_PACKAGE"
	UpdatePackage       ActionType = "UPDATE_PACKAGE"
	DeletePackage       ActionType = "DELETE_PACKAGE"
	RecalculatePackages ActionType = "RECALCULATE_PACKAGES"
	SetPackages         ActionType = "SET_PACKAGES"
)

// Acciones de productos finales.
const (
	AddEndProduct          ActionType = "ADD_END_PRODUCT"
	UpdateEndProduct       ActionType = "UPDATE_END_PRODUCT"
	DeleteEndProduct       ActionType = "DELETE_END_PRODUCT"
	RecalculateEndProducts ActionType = "RECALCULATE_END_PRODUCTS"
	SetEndProducts         ActionType = "SET_END_PRODUCTS"
)

// Acciones de monedas.
const (
	AddRate              ActionType = "ADD_RATE"
	BatchUpdateRates     ActionType = "BATCH_UPDATE_RATES"
	InitializeCurrencies ActionType = "INITIALIZE_CURRENCIES"
)

// Acciones de empresa.
const (
	UpdateCompanyInfo        ActionType = "UPDATE_COMPANY_INFO"
	AddEmployee              ActionType = "ADD_EMPLOYEE"
	RemoveEmployee           ActionType = "REMOVE_EMPLOYEE"
	AddExpense               ActionType = "ADD_EXPENSE"
	RemoveExpense            ActionType = "REMOVE_EXPENSE"
	UpdateProduction         ActionType = "UPDATE_PRODUCTION"
	RecalculateCompanyTotals ActionType = "RECALCULATE_COMPANY_TOTALS"
)

// Acciones de configuración.
const (
	UpdateSettings ActionType = "UPDATE_SETTINGS"
	CompleteSetup  ActionType = "COMPLETE_SETUP"
)

// Action es la única "API" del motor. Payload es el struct de entrada de la acción (por valor).
type Action struct {
	Type    ActionType
	Payload any
}

func (a Action) String() string {
	return fmt.Sprintf("%s(%T)", a.Type, a.Payload)
}

// IDInput payload de las acciones que solo necesitan un identificador.
type IDInput struct {
	ID string `json:"id" validate:"required"`
}
