package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	apphttp "github.com/jhoicas/Costeo-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type failingFetcher struct{}

func (failingFetcher) Name() string { return "frankfurter" }

func (failingFetcher) Fetch(context.Context, []string, string, string) ([]ports.Quote, error) {
	return nil, errors.New("connection refused")
}

// buildTestApp construye la API completa sobre un store en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *usecase.StoreUseCase) {
	t.Helper()
	store := usecase.NewStoreUseCase(usecase.StoreConfig{
		DefaultCurrency: "USD",
		Currencies:      []string{"USD", "EUR"},
	}, nil, nil)
	rates := usecase.NewRatesUseCase(store, []ports.RateFetcher{failingFetcher{}}, nil, nil,
		usecase.RatesConfig{DefaultProvider: "frankfurter", Timeout: time.Second}, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName: "costeo-test",
		StoreUC: store,
		RatesUC: rates,
		Metrics: prometheus.NewRegistry(),
	})
	return app, store
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func dispatchBody(typ, payload string) string {
	return `{"type":"` + typ + `","payload":` + payload + `}`
}

func decodeError(t *testing.T, data []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app, _ := buildTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/health", "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "costeo-test")
}

// Caso 1: despacho válido → 200 con el estado y las claves cambiadas.
func TestDispatch_AltaMaterial(t *testing.T) {
	app, store := buildTestApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/api/dispatch",
		dispatchBody("ADD_MATERIAL", `{"name":"Harina","price":"10","tax":"18","currency":"USD","unit":"kg"}`))

	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var out usecase.DispatchResult
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out.Changed, "materials")
	assert.Len(t, store.Snapshot().Materials, 1)
}

// Caso 2: códigos de error → estados HTTP.
func TestDispatch_Errores(t *testing.T) {
	app, _ := buildTestApp(t)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"cuerpo inválido", `{`, fiber.StatusBadRequest, "INVALID_BODY"},
		{"sin tipo", `{"payload":{}}`, fiber.StatusBadRequest, "VALIDATION"},
		{"tipo desconocido", dispatchBody("NOPE", `{}`), fiber.StatusBadRequest, "INVALID_PAYLOAD"},
		{"validación", dispatchBody("ADD_MATERIAL", `{"name":""}`), fiber.StatusBadRequest, "VALIDATION"},
		{"no encontrado", dispatchBody("DELETE_MATERIAL", `{"id":"nope"}`), fiber.StatusNotFound, "NOT_FOUND"},
		{"moneda no habilitada", dispatchBody("ADD_RATE", `{"from":"GBP","to":"USD","rate":"1.3"}`), fiber.StatusBadRequest, "INVALID_CURRENCY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, app, http.MethodPost, "/api/dispatch", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))
			assert.Equal(t, tc.code, decodeError(t, body).Code)
		})
	}
}

// Caso 3: material en uso → 409 con el número de recetas.
func TestDispatch_EnUso(t *testing.T) {
	app, store := buildTestApp(t)
	doRequest(t, app, http.MethodPost, "/api/dispatch",
		dispatchBody("ADD_MATERIAL", `{"name":"Harina","price":"10","currency":"USD","unit":"kg"}`))
	id := store.Snapshot().Materials[0].ID
	for range 2 {
		resp, body := doRequest(t, app, http.MethodPost, "/api/dispatch",
			dispatchBody("ADD_RECIPE", `{"name":"Pan","yield":"1","materials":[{"materialId":"`+id+`","amount":"1"}]}`))
		require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	}

	resp, body := doRequest(t, app, http.MethodPost, "/api/dispatch", dispatchBody("DELETE_MATERIAL", `{"id":"`+id+`"}`))

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	out := decodeError(t, body)
	assert.Equal(t, "MATERIAL_IN_USE", out.Code)
	assert.Equal(t, 2, out.Count)
}

// Caso 4: NO_CHANGE → 200 sin claves cambiadas.
func TestDispatch_SinCambios(t *testing.T) {
	app, _ := buildTestApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/api/dispatch", dispatchBody("RECALCULATE_RECIPES", `null`))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out usecase.DispatchResult
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Empty(t, out.Changed)
}

func TestStateKey(t *testing.T) {
	app, _ := buildTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/state/settings", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"defaultCurrency":"USD"`)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/state/nope", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// Caso 5: conversión con y sin tasa.
func TestConvert(t *testing.T) {
	app, _ := buildTestApp(t)
	doRequest(t, app, http.MethodPost, "/api/dispatch", dispatchBody("ADD_RATE", `{"from":"EUR","to":"USD","rate":"1.1"}`))

	resp, body := doRequest(t, app, http.MethodGet, "/api/convert?amount=100&from=EUR", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"amount":"110","currency":"USD"}`, string(body))

	resp, _ = doRequest(t, app, http.MethodGet, "/api/convert?amount=abc&from=EUR", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecipeCost_NoEncontrada(t *testing.T) {
	app, _ := buildTestApp(t)

	resp, _ := doRequest(t, app, http.MethodGet, "/api/recipes/nope/cost?quantity=2", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/recipes/nope/cost?quantity=x", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// Caso 6: proveedor caído → 502.
func TestRefreshRates_ProveedorCaido(t *testing.T) {
	app, _ := buildTestApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/api/rates/refresh", "")

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "PROVIDER_ERROR", decodeError(t, body).Code)
}

func TestRateHistory(t *testing.T) {
	app, _ := buildTestApp(t)
	doRequest(t, app, http.MethodPost, "/api/dispatch", dispatchBody("ADD_RATE", `{"from":"EUR","to":"USD","rate":"1.1"}`))

	resp, body := doRequest(t, app, http.MethodGet, "/api/rates/eur/history", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.RateHistoryResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "EUR", out.Currency)
	assert.Len(t, out.Entries, 1)
}

func TestMetrics(t *testing.T) {
	app, _ := buildTestApp(t)

	resp, _ := doRequest(t, app, http.MethodGet, "/metrics", "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
