// Package rates contiene los adaptadores de proveedores de tasas de cambio.
// Todos devuelven cotizaciones base→quote; la inversión la hace el caso de uso.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

// Nombres de proveedor (coinciden con settings.apiProvider).
const (
	ProviderExchangeRateAPI   = "exchangerate-api"
	ProviderFrankfurter       = "frankfurter"
	ProviderOpenExchangeRates = "openexchangerates"
)

const maxBody = 256 * 1024

// client GET + JSON compartido por los adaptadores.
type client struct {
	baseURL    string
	httpClient *http.Client
}

func newClient(baseURL, def string, timeout time.Duration) client {
	if baseURL == "" {
		baseURL = def
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return client{baseURL: baseURL, httpClient: &http.Client{Timeout: timeout}}
}

// getJSON decodifica la respuesta en out. Si el estado no es 200 devuelve el cuerpo en el error.
func (c client) getJSON(ctx context.Context, provider, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: crear HTTP request: %w", provider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: timeout o cancelación: %w", provider, ctx.Err())
		}
		return fmt.Errorf("%s: llamada HTTP fallida: %w", provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s: leer respuesta: %w", provider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: HTTP %d: %s", provider, resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: deserializar respuesta: %w", provider, err)
	}
	return nil
}

// pick filtra las tasas a las monedas habilitadas, en el orden de enabled.
func pick(rates map[string]decimal.Decimal, enabled []string, base string) []ports.Quote {
	out := make([]ports.Quote, 0, len(enabled))
	for _, code := range enabled {
		if code == base {
			continue
		}
		if r, ok := rates[code]; ok && r.IsPositive() {
			out = append(out, ports.Quote{Code: code, Rate: r})
		}
	}
	return out
}

// New construye el adaptador de name. baseURL vacío usa la URL pública del proveedor.
func New(name, baseURL string, timeout time.Duration) (ports.RateFetcher, error) {
	switch name {
	case ProviderExchangeRateAPI:
		return NewExchangeRateAPI(baseURL, timeout), nil
	case ProviderFrankfurter:
		return NewFrankfurter(baseURL, timeout), nil
	case ProviderOpenExchangeRates:
		return NewOpenExchangeRates(baseURL, timeout), nil
	}
	return nil, fmt.Errorf("proveedor de tasas desconocido: %q", name)
}

// All un adaptador por proveedor. overrides reemplaza la URL base por nombre.
func All(timeout time.Duration, overrides map[string]string) []ports.RateFetcher {
	names := []string{ProviderExchangeRateAPI, ProviderFrankfurter, ProviderOpenExchangeRates}
	out := make([]ports.RateFetcher, 0, len(names))
	for _, n := range names {
		f, _ := New(n, overrides[n], timeout)
		out = append(out, f)
	}
	return out
}

// Providers nombres soportados.
func Providers() []string {
	return []string{ProviderExchangeRateAPI, ProviderFrankfurter, ProviderOpenExchangeRates}
}
