package exchange_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCfg() exchange.LedgerConfig {
	return exchange.LedgerConfig{
		DefaultCurrency: "USD",
		Enabled:         []string{"USD", "EUR", "COP"},
		HistoryLimit:    10,
		MinInterval:     30 * time.Millisecond,
	}
}

func quote(from, rate string) entity.RateQuote {
	return entity.RateQuote{From: from, To: "USD", Rate: dec(rate)}
}

// ──────────────────────────────────────────────────────────────────────────────
// AddRate
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: primera cotización de una moneda habilitada → se registra con cambio 0.
func TestAddRate_PrimeraCotizacion(t *testing.T) {
	ledger := exchange.Initialize(nil, []string{"USD", "EUR"}, "USD")

	out, err := exchange.AddRate(ledger, quote("EUR", "1.10"), testCfg(), t0)
	require.NoError(t, err)

	latest, ok := out.Latest("EUR")
	require.True(t, ok)
	assert.True(t, latest.Rate.Equal(dec("1.10")))
	assert.True(t, latest.Change.IsZero())
	assert.Equal(t, "USD", latest.To)
	assert.Empty(t, ledger["EUR"], "el libro de entrada no debe modificarse")
}

// Caso 2: 1.10 y luego 1.1000001 (variación < 0.001%) → NO_CHANGE aunque llegue dentro del intervalo mínimo.
func TestAddRate_VariacionInmaterialEsNoChange(t *testing.T) {
	ledger, err := exchange.AddRate(nil, quote("EUR", "1.10"), testCfg(), t0)
	require.NoError(t, err)

	out, err := exchange.AddRate(ledger, quote("EUR", "1.1000001"), testCfg(), t0.Add(time.Millisecond))
	require.Error(t, err)
	assert.Equal(t, domain.CodeNoChange, domain.CodeOf(err))
	assert.True(t, domain.IsSoft(err))
	assert.Len(t, out["EUR"], 1)
}

// Caso 3: variación material dentro del intervalo mínimo → TOO_SOON.
func TestAddRate_DobleEnvioEsTooSoon(t *testing.T) {
	ledger, err := exchange.AddRate(nil, quote("EUR", "1.10"), testCfg(), t0)
	require.NoError(t, err)

	_, err = exchange.AddRate(ledger, quote("EUR", "1.20"), testCfg(), t0.Add(10*time.Millisecond))
	assert.Equal(t, domain.CodeTooSoon, domain.CodeOf(err))
}

// Caso 4: variación material fuera del intervalo → se antepone con el % de cambio.
func TestAddRate_CambioMaterialCalculaPorcentaje(t *testing.T) {
	ledger, err := exchange.AddRate(nil, quote("EUR", "1.00"), testCfg(), t0)
	require.NoError(t, err)

	out, err := exchange.AddRate(ledger, quote("EUR", "1.05"), testCfg(), t0.Add(time.Second))
	require.NoError(t, err)

	require.Len(t, out["EUR"], 2)
	assert.True(t, out["EUR"][0].Rate.Equal(dec("1.05")), "la más reciente va primero")
	assert.True(t, out["EUR"][0].Change.Equal(dec("5")))
}

// Caso 5: validaciones de la cotización.
func TestAddRate_Rechazos(t *testing.T) {
	cases := []struct {
		name string
		q    entity.RateQuote
		code domain.Code
	}{
		{"destino distinto de la moneda por defecto", entity.RateQuote{From: "EUR", To: "COP", Rate: dec("1")}, domain.CodeInvalidDefaultCurrency},
		{"moneda no habilitada", quote("GBP", "1.3"), domain.CodeInvalidCurrency},
		{"moneda por defecto como origen", quote("USD", "1"), domain.CodeInvalidCurrency},
		{"tasa cero", quote("EUR", "0"), domain.CodeInvalidRate},
		{"tasa negativa", quote("EUR", "-1"), domain.CodeInvalidRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := exchange.AddRate(nil, tc.q, testCfg(), t0)
			require.Error(t, err)
			assert.Equal(t, tc.code, domain.CodeOf(err))
			assert.ErrorIs(t, err, domain.ErrRateRejected)
			assert.Nil(t, out)
		})
	}
}

// Caso 6: el historial nunca supera el límite.
func TestAddRate_HistorialAcotado(t *testing.T) {
	cfg := testCfg()
	cfg.HistoryLimit = 3
	var ledger entity.RateLedger
	rate := dec("1")
	for i := 0; i < 8; i++ {
		rate = rate.Add(dec("0.1"))
		var err error
		ledger, err = exchange.AddRate(ledger, entity.RateQuote{From: "EUR", To: "USD", Rate: rate}, cfg, t0.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}
	require.Len(t, ledger["EUR"], 3)
	assert.True(t, ledger["EUR"][0].Rate.Equal(dec("1.8")))
}

// ──────────────────────────────────────────────────────────────────────────────
// BatchUpdate / Initialize
// ──────────────────────────────────────────────────────────────────────────────

// Caso 7: un rechazo no detiene el resto del lote.
func TestBatchUpdate_RechazosNoDetienenLote(t *testing.T) {
	quotes := []entity.RateQuote{quote("EUR", "1.1"), quote("GBP", "1.3"), quote("COP", "0.00025")}

	out, rejections := exchange.BatchUpdate(nil, quotes, testCfg(), t0)

	require.Len(t, rejections, 1)
	assert.Equal(t, "GBP", rejections[0].Quote.From)
	assert.Len(t, out["EUR"], 1)
	assert.Len(t, out["COP"], 1)
}

// Caso 8: Initialize conserva historial habilitado, elimina deshabilitadas y crea listas vacías.
func TestInitialize_ReconciliaMonedas(t *testing.T) {
	ledger := entity.RateLedger{
		"EUR": {{From: "EUR", To: "USD", Rate: dec("1.1"), Date: t0}},
		"GBP": {{From: "GBP", To: "USD", Rate: dec("1.3"), Date: t0}},
	}

	out := exchange.Initialize(ledger, []string{"USD", "EUR", "COP"}, "USD")

	assert.Len(t, out["EUR"], 1)
	assert.NotContains(t, out, "GBP")
	assert.Contains(t, out, "COP")
	assert.Empty(t, out["COP"])
	assert.NotContains(t, out, "USD", "la moneda por defecto no tiene lista")
}

// Caso 9: al cambiar la moneda por defecto las tasas contra la anterior se descartan.
func TestInitialize_CambioDeMonedaPorDefecto(t *testing.T) {
	ledger := entity.RateLedger{"EUR": {{From: "EUR", To: "USD", Rate: dec("1.1"), Date: t0}}}

	out := exchange.Initialize(ledger, []string{"EUR", "USD"}, "EUR")

	assert.Empty(t, out["USD"])
	assert.NotContains(t, out, "EUR")
}

func TestValidCode(t *testing.T) {
	assert.True(t, exchange.ValidCode("COP"))
	assert.False(t, exchange.ValidCode("cop"))
	assert.False(t, exchange.ValidCode("EURO"))
	assert.False(t, exchange.ValidCode("ZZZ"))
}
