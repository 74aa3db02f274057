package rates

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.RateFetcher = (*Frankfurter)(nil)

const frankfurterURL = "https://api.frankfurter.app"

// Frankfurter adaptador de frankfurter.app (tasas del BCE, sin API key).
type Frankfurter struct {
	client client
}

// NewFrankfurter construye el adaptador.
func NewFrankfurter(baseURL string, timeout time.Duration) *Frankfurter {
	return &Frankfurter{client: newClient(baseURL, frankfurterURL, timeout)}
}

func (f *Frankfurter) Name() string { return ProviderFrankfurter }

type frankfurterResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Fetch GET /latest?from=base&to=A,B. apiKey se ignora.
func (f *Frankfurter) Fetch(ctx context.Context, enabled []string, base, _ string) ([]ports.Quote, error) {
	q := url.Values{}
	q.Set("from", base)
	q.Set("to", strings.Join(enabled, ","))
	endpoint := fmt.Sprintf("%s/latest?%s", f.client.baseURL, q.Encode())

	var resp frankfurterResponse
	if err := f.client.getJSON(ctx, f.Name(), endpoint, &resp); err != nil {
		return nil, err
	}
	return pick(resp.Rates, enabled, base), nil
}
