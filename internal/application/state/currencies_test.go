package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/state"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ReduceCurrencies
// ──────────────────────────────────────────────────────────────────────────────

func TestReduceCurrencies_AddRate(t *testing.T) {
	d := newDeps()

	out, err := state.ReduceCurrencies(nil, state.Action{Type: state.AddRate, Payload: entity.RateQuote{
		From: "EUR", To: "USD", Rate: dec("1.1"),
	}}, d)
	require.NoError(t, err)
	assert.Len(t, out["EUR"], 1)

	_, err = state.ReduceCurrencies(out, state.Action{Type: state.AddRate, Payload: entity.RateQuote{
		From: "GBP", To: "USD", Rate: dec("1.3"),
	}}, d)
	assert.Equal(t, domain.CodeInvalidCurrency, domain.CodeOf(err))

	_, err = state.ReduceCurrencies(out, state.Action{Type: state.AddRate, Payload: entity.RateQuote{
		From: "eur", To: "USD", Rate: dec("1.3"),
	}}, d)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

// Caso 1: los rechazos del lote se notifican al observador.
func TestReduceCurrencies_BatchUpdate(t *testing.T) {
	d := newDeps()
	obs := &recordingObserver{}
	d.Observer = obs

	out, err := state.ReduceCurrencies(nil, state.Action{Type: state.BatchUpdateRates, Payload: []entity.RateQuote{
		{From: "EUR", To: "USD", Rate: dec("1.1")},
		{From: "COP", To: "USD", Rate: dec("0")},
	}}, d)

	require.NoError(t, err)
	assert.Len(t, out["EUR"], 1)
	require.Len(t, obs.rejected, 1)
	assert.Equal(t, domain.CodeInvalidRate, domain.CodeOf(obs.rejected[0].Err))
}

// Caso 2: si se rechazan todas → NO_CHANGE.
func TestReduceCurrencies_BatchTodoRechazado(t *testing.T) {
	current := entity.RateLedger{"EUR": {{From: "EUR", To: "USD", Rate: dec("1.1"), Date: t0}}}

	out, err := state.ReduceCurrencies(current, state.Action{Type: state.BatchUpdateRates, Payload: []entity.RateQuote{
		{From: "EUR", To: "USD", Rate: dec("1.1")},
	}}, newDeps())

	assert.True(t, domain.IsSoft(err))
	assert.True(t, state.LedgerEqual(current, out))
}

func TestReduceCurrencies_Initialize(t *testing.T) {
	d := newDeps()

	out, err := state.ReduceCurrencies(nil, state.Action{Type: state.InitializeCurrencies, Payload: state.InitializeInput{}}, d)
	require.NoError(t, err)
	assert.Contains(t, out, "EUR")
	assert.Contains(t, out, "COP")

	_, err = state.ReduceCurrencies(out, state.Action{Type: state.InitializeCurrencies, Payload: state.InitializeInput{}}, d)
	assert.True(t, domain.IsSoft(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// ReduceSettings / ReduceCompany
// ──────────────────────────────────────────────────────────────────────────────

// Caso 3: la moneda por defecto se agrega a las habilitadas y las favoritas se filtran.
func TestReduceSettings_Update(t *testing.T) {
	current := entity.Settings{DefaultCurrency: "USD", Currencies: []string{"USD", "EUR"}, FavoriteCurrencies: []string{"EUR"}}

	out, err := state.ReduceSettings(current, state.Action{Type: state.UpdateSettings, Payload: state.SettingsPatch{
		DefaultCurrency: ptr("COP"),
		Currencies:      &[]string{"USD", "USD", "MXN"},
	}}, newDeps())

	require.NoError(t, err)
	assert.Equal(t, []string{"COP", "USD", "MXN"}, out.Currencies)
	assert.Empty(t, out.FavoriteCurrencies)
	assert.Equal(t, []string{"EUR"}, current.FavoriteCurrencies)
}

func TestReduceSettings_Validaciones(t *testing.T) {
	_, err := state.ReduceSettings(entity.Settings{}, state.Action{Type: state.UpdateSettings, Payload: state.SettingsPatch{
		APIProvider: ptr("yahoo"),
	}}, newDeps())
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = state.ReduceSettings(entity.Settings{}, state.Action{Type: state.UpdateSettings, Payload: state.SettingsPatch{
		Currencies: &[]string{"XYZ1"},
	}}, newDeps())
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestReduceSettings_CompleteSetup(t *testing.T) {
	out, err := state.ReduceSettings(entity.Settings{}, state.Action{Type: state.CompleteSetup}, newDeps())
	require.NoError(t, err)
	assert.True(t, out.SetupComplete)

	_, err = state.ReduceSettings(out, state.Action{Type: state.CompleteSetup}, newDeps())
	assert.True(t, domain.IsSoft(err))
}

// Caso 4: cada cambio de empresa recalcula los totales.
func TestReduceCompany_Totales(t *testing.T) {
	d := newDeps()
	var c entity.Company
	var err error

	c, err = state.ReduceCompany(c, state.Action{Type: state.AddEmployee, Payload: state.EmployeeInput{Name: "Ana", Salary: dec("1000"), Currency: "USD"}}, d)
	require.NoError(t, err)
	c, err = state.ReduceCompany(c, state.Action{Type: state.AddExpense, Payload: state.ExpenseInput{Name: "Arriendo", Amount: dec("500"), Currency: "USD", Tax: dec("10")}}, d)
	require.NoError(t, err)
	c, err = state.ReduceCompany(c, state.Action{Type: state.UpdateProduction, Payload: state.ProductionInput{MonthlyVolume: dec("500"), Unit: "kg"}}, d)
	require.NoError(t, err)

	assert.True(t, c.Totals.LabourCostPerUnit.Equal(dec("3")))
	assert.True(t, c.Totals.LabourCostTaxPerUnit.Equal(dec("0.1")))

	c, err = state.ReduceCompany(c, state.Action{Type: state.RemoveEmployee, Payload: state.IDInput{ID: c.Employees[0].ID}}, d)
	require.NoError(t, err)
	assert.True(t, c.Totals.LabourCostPerUnit.Equal(dec("1")))

	_, err = state.ReduceCompany(c, state.Action{Type: state.RecalculateCompanyTotals}, d)
	assert.True(t, domain.IsSoft(err))

	_, err = state.ReduceCompany(c, state.Action{Type: state.RemoveExpense, Payload: state.IDInput{ID: "nope"}}, d)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}
