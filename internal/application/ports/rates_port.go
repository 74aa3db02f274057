package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote cotización remota expresada base→quote (1 base = Rate Code).
type Quote struct {
	Code string          `json:"code"`
	Rate decimal.Decimal `json:"rate"`
}

// RateFetcher define el puerto de salida hacia los proveedores de tasas.
// Cualquier adaptador (exchangerate-api, frankfurter, openexchangerates, mock) debe implementar esta interfaz.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type RateFetcher interface {
	Name() string
	Fetch(ctx context.Context, enabled []string, base, apiKey string) ([]Quote, error)
}

// RateCache guarda la última respuesta de un proveedor durante ttl.
type RateCache interface {
	// Get devuelve ok=false si no hay entrada vigente.
	Get(ctx context.Context, key string) (quotes []Quote, ok bool, err error)
	Set(ctx context.Context, key string, quotes []Quote, ttl time.Duration) error
}
