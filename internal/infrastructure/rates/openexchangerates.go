package rates

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.RateFetcher = (*OpenExchangeRates)(nil)

const (
	openExchangeRatesURL  = "https://openexchangerates.org/api"
	openExchangeRatesBase = "USD"
)

// OpenExchangeRates adaptador de openexchangerates.org. El plan gratuito solo publica base USD,
// así que las demás bases se calculan cruzando contra USD.
type OpenExchangeRates struct {
	client client
}

// NewOpenExchangeRates construye el adaptador.
func NewOpenExchangeRates(baseURL string, timeout time.Duration) *OpenExchangeRates {
	return &OpenExchangeRates{client: newClient(baseURL, openExchangeRatesURL, timeout)}
}

func (o *OpenExchangeRates) Name() string { return ProviderOpenExchangeRates }

type openExchangeRatesResponse struct {
	Base        string                     `json:"base"`
	Rates       map[string]decimal.Decimal `json:"rates"`
	Error       bool                       `json:"error"`
	Description string                     `json:"description"`
}

// Fetch GET /latest.json?app_id=key&symbols=...
func (o *OpenExchangeRates) Fetch(ctx context.Context, enabled []string, base, apiKey string) ([]ports.Quote, error) {
	if apiKey == "" {
		return nil, errors.New("openexchangerates: API key no configurada")
	}
	symbols := append([]string{base}, enabled...)
	q := url.Values{}
	q.Set("app_id", apiKey)
	q.Set("symbols", strings.Join(symbols, ","))
	endpoint := fmt.Sprintf("%s/latest.json?%s", o.client.baseURL, q.Encode())

	var resp openExchangeRatesResponse
	if err := o.client.getJSON(ctx, o.Name(), endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Error {
		return nil, fmt.Errorf("%s: %s", o.Name(), resp.Description)
	}

	rates := resp.Rates
	if base != openExchangeRatesBase {
		pivot, ok := rates[base]
		if !ok || !pivot.IsPositive() {
			return nil, fmt.Errorf("%s: sin tasa USD→%s para cruzar", o.Name(), base)
		}
		crossed := make(map[string]decimal.Decimal, len(rates)+1)
		// USD es la base implícita del proveedor y no viene en rates.
		crossed[openExchangeRatesBase] = decimal.NewFromInt(1).DivRound(pivot, 10)
		for code, r := range rates {
			crossed[code] = r.DivRound(pivot, 10)
		}
		rates = crossed
	}
	return pick(rates, enabled, base), nil
}
