package state_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/state"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// recordingObserver acumula los eventos de conversión y rechazo.
type recordingObserver struct {
	unavailable []string
	rejected    []exchange.Rejection
}

func (o *recordingObserver) ConversionUnavailable(from, to string) {
	o.unavailable = append(o.unavailable, from+"->"+to)
}

func (o *recordingObserver) RateRejected(r exchange.Rejection) { o.rejected = append(o.rejected, r) }

// newDeps dependencias deterministas: reloj que avanza 1s por llamada e IDs secuenciales.
func newDeps() state.Deps {
	clock := t0
	seq := 0
	return state.Deps{
		DefaultCurrency: "USD",
		Enabled:         []string{"USD", "EUR", "COP"},
		HistoryLimit:    5,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}
}

// dispatch aplica la acción con Dispatch y falla el test si hay error.
func dispatch(t *testing.T, s entity.State, a state.Action, d state.Deps) entity.State {
	t.Helper()
	next, _, err := state.Dispatch(s, a, d)
	require.NoError(t, err, a.String())
	return next
}

// fixture: harina 10 USD/kg (18%), receta de 10 kg con 5 kg de harina, envase de 1 USD (18%).
func fixture(t *testing.T) (entity.State, state.Deps) {
	t.Helper()
	d := newDeps()
	var s entity.State
	s = dispatch(t, s, state.Action{Type: state.AddMaterial, Payload: state.MaterialInput{
		Name: "Harina", Price: dec("10"), Tax: dec("18"), Currency: "USD", Unit: "kg",
	}}, d)
	s = dispatch(t, s, state.Action{Type: state.AddRecipe, Payload: state.RecipeInput{
		Name: "Masa", Yield: dec("10"), Unit: "kg",
		Materials: []state.RecipeLineInput{{MaterialID: s.Materials[0].ID, Amount: dec("5")}},
	}}, d)
	s = dispatch(t, s, state.Action{Type: state.AddPackage, Payload: state.PackageInput{
		Name: "Bolsa 1kg", ProductType: entity.ProductTypeSolid, PackageCapacity: dec("1"),
		Items: []state.PackageItemInput{{Name: "Bolsa", PackageType: entity.PackageTypeContainer, ItemPrice: dec("1"), ItemCurrency: "USD", ItemTax: dec("18")}},
	}}, d)
	return s, d
}
