package dto

import "github.com/jhoicas/Costeo-api/internal/domain/entity"

// RefreshRatesResponse resultado de una actualización remota de tasas.
type RefreshRatesResponse struct {
	Provider string `json:"provider"`
	Fetched  int    `json:"fetched"`
	Accepted int    `json:"accepted"`
	Cached   bool   `json:"cached"`
}

// RateHistoryResponse archivo de cotizaciones de una moneda.
type RateHistoryResponse struct {
	Currency string                     `json:"currency"`
	Entries  []entity.ExchangeRateEntry `json:"entries"`
}
