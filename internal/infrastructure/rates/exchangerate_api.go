package rates

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.RateFetcher = (*ExchangeRateAPI)(nil)

const (
	exchangeRateAPIURL  = "https://v6.exchangerate-api.com/v6"
	exchangeRateOpenURL = "https://open.er-api.com/v6"
)

// ExchangeRateAPI adaptador de exchangerate-api.com. Sin API key usa el endpoint abierto.
type ExchangeRateAPI struct {
	client client
	open   client
}

// NewExchangeRateAPI construye el adaptador. baseURL reemplaza ambos endpoints (tests).
func NewExchangeRateAPI(baseURL string, timeout time.Duration) *ExchangeRateAPI {
	return &ExchangeRateAPI{
		client: newClient(baseURL, exchangeRateAPIURL, timeout),
		open:   newClient(baseURL, exchangeRateOpenURL, timeout),
	}
}

func (a *ExchangeRateAPI) Name() string { return ProviderExchangeRateAPI }

type exchangeRateResponse struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
	Rates           map[string]decimal.Decimal `json:"rates"`
}

// Fetch GET /{key}/latest/{base} (o /latest/{base} sin key).
func (a *ExchangeRateAPI) Fetch(ctx context.Context, enabled []string, base, apiKey string) ([]ports.Quote, error) {
	c, endpoint := a.open, fmt.Sprintf("%s/latest/%s", a.open.baseURL, url.PathEscape(base))
	if apiKey != "" {
		c, endpoint = a.client, fmt.Sprintf("%s/%s/latest/%s", a.client.baseURL, url.PathEscape(apiKey), url.PathEscape(base))
	}

	var resp exchangeRateResponse
	if err := c.getJSON(ctx, a.Name(), endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Result != "success" {
		return nil, fmt.Errorf("%s: %s", a.Name(), resp.ErrorType)
	}
	rates := resp.ConversionRates
	if rates == nil {
		rates = resp.Rates
	}
	return pick(rates, enabled, base), nil
}
