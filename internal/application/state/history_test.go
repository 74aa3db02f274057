package state_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/state"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Historiales acotados
// ──────────────────────────────────────────────────────────────────────────────

func step(base, inc string, i int) decimal.Decimal {
	return dec(base).Add(dec(inc).Mul(decimal.NewFromInt(int64(i))))
}

// Caso 1: límite + 3 cambios efectivos dejan `límite` entradas y la primera es el último cambio.
func TestHistorial_Acotado(t *testing.T) {
	const limit = 5
	const updates = limit + 3

	cases := []struct {
		name string
		// prepare deja el estado listo (producto final, material en EUR...); puede ser nil.
		prepare func(t *testing.T, s entity.State, d state.Deps) entity.State
		apply   func(t *testing.T, s entity.State, d state.Deps, i int) entity.State
		latest  func(s entity.State) (int, decimal.Decimal)
		want    decimal.Decimal
	}{
		{
			name: "precio del material",
			apply: func(t *testing.T, s entity.State, d state.Deps, i int) entity.State {
				return dispatch(t, s, state.Action{Type: state.UpdateMaterial, Payload: state.MaterialPatch{
					ID: s.Materials[0].ID, Price: ptr(step("11", "1", i)),
				}}, d)
			},
			latest: func(s entity.State) (int, decimal.Decimal) {
				h := s.Materials[0].PriceHistory
				return len(h), h[0].Amount
			},
			want: dec("18"),
		},
		{
			name: "precio local del material",
			prepare: func(t *testing.T, s entity.State, d state.Deps) entity.State {
				return dispatch(t, s, state.Action{Type: state.UpdateMaterial, Payload: state.MaterialPatch{
					ID: s.Materials[0].ID, Currency: ptr("EUR"),
				}}, d)
			},
			apply: func(t *testing.T, s entity.State, d state.Deps, i int) entity.State {
				s = dispatch(t, s, state.Action{Type: state.AddRate, Payload: entity.RateQuote{
					From: "EUR", To: "USD", Rate: step("1.2", "0.1", i),
				}}, d)
				return dispatch(t, s, state.Action{Type: state.RecalculateLocalPrices}, d)
			},
			latest: func(s entity.State) (int, decimal.Decimal) {
				h := s.Materials[0].LocalPriceHistory
				return len(h), h[0].Amount
			},
			// 10 EUR a 1.9
			want: dec("19"),
		},
		{
			name: "costo unitario de la receta",
			apply: func(t *testing.T, s entity.State, d state.Deps, i int) entity.State {
				s = dispatch(t, s, state.Action{Type: state.UpdateMaterial, Payload: state.MaterialPatch{
					ID: s.Materials[0].ID, Price: ptr(step("11", "1", i)),
				}}, d)
				return dispatch(t, s, state.Action{Type: state.UpdateRecipeCost, Payload: state.IDInput{ID: s.Recipes[0].ID}}, d)
			},
			latest: func(s entity.State) (int, decimal.Decimal) {
				h := s.Recipes[0].UnitCosts
				return len(h), h[0].Cost
			},
			// 5 kg a 18 / rendimiento 10
			want: dec("9"),
		},
		{
			name: "costo del empaque",
			apply: func(t *testing.T, s entity.State, d state.Deps, i int) entity.State {
				return dispatch(t, s, state.Action{Type: state.UpdatePackage, Payload: state.PackagePatch{
					ID: s.Packages[0].ID,
					Items: &[]state.PackageItemInput{{
						Name: "Bolsa", PackageType: entity.PackageTypeContainer,
						ItemPrice: step("2", "1", i), ItemCurrency: "USD", ItemTax: dec("18"),
					}},
				}}, d)
			},
			latest: func(s entity.State) (int, decimal.Decimal) {
				h := s.Packages[0].CostHistory
				return len(h), h[0].Cost
			},
			want: dec("9"),
		},
		{
			name: "costo del producto final",
			prepare: func(t *testing.T, s entity.State, d state.Deps) entity.State {
				return dispatch(t, s, state.Action{Type: state.AddEndProduct, Payload: state.EndProductInput{
					RecipeID: s.Recipes[0].ID, PackageID: s.Packages[0].ID, Name: "Masa 1kg",
				}}, d)
			},
			apply: func(t *testing.T, s entity.State, d state.Deps, i int) entity.State {
				s = dispatch(t, s, state.Action{Type: state.UpdatePackage, Payload: state.PackagePatch{
					ID: s.Packages[0].ID,
					Items: &[]state.PackageItemInput{{
						Name: "Bolsa", PackageType: entity.PackageTypeContainer,
						ItemPrice: step("2", "1", i), ItemCurrency: "USD", ItemTax: dec("18"),
					}},
				}}, d)
				return dispatch(t, s, state.Action{Type: state.RecalculateEndProducts}, d)
			},
			latest: func(s entity.State) (int, decimal.Decimal) {
				h := s.EndProducts[0].CostHistory
				return len(h), h[0].Amount
			},
			// 5.9 de receta + 9 * 1.18 de empaque
			want: dec("16.52"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, d := fixture(t)
			require.Equal(t, limit, d.HistoryLimit)
			if tc.prepare != nil {
				s = tc.prepare(t, s, d)
			}
			for i := range updates {
				s = tc.apply(t, s, d, i)
			}

			n, first := tc.latest(s)
			assert.Equal(t, limit, n)
			assert.True(t, first.Equal(tc.want), "%s != %s", first, tc.want)
		})
	}
}
