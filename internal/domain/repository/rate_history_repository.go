package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// RateHistoryRepository archiva cada cotización aceptada por el libro de tasas.
// El libro solo conserva las últimas N; el archivo es completo.
type RateHistoryRepository interface {
	Append(ctx context.Context, entries []entity.ExchangeRateEntry) error
	ListByCurrency(ctx context.Context, from string, limit int) ([]entity.ExchangeRateEntry, error)
}
