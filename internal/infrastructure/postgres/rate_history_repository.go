package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// Asegura que RateHistoryRepo implementa repository.RateHistoryRepository.
var _ repository.RateHistoryRepository = (*RateHistoryRepo)(nil)

// RateHistoryRepo archivo completo de cotizaciones aceptadas (exchange_rate_history).
// rate y change_pct son NUMERIC y se leen como decimal.Decimal gracias al codec registrado en NewPool.
type RateHistoryRepo struct {
	db Querier
}

// NewRateHistoryRepository construye el adaptador.
func NewRateHistoryRepository(db Querier) *RateHistoryRepo {
	return &RateHistoryRepo{db: db}
}

// Append inserta las entradas; las repetidas (misma moneda e instante) se ignoran.
func (r *RateHistoryRepo) Append(ctx context.Context, entries []entity.ExchangeRateEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO exchange_rate_history (from_currency, to_currency, rate, change_pct, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (from_currency, to_currency, recorded_at) DO NOTHING`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, e.From, e.To, e.Rate, e.Change, e.Date)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("append rate history: %w", err)
		}
	}
	return nil
}

// ListByCurrency últimas limit cotizaciones de from, más reciente primero.
func (r *RateHistoryRepo) ListByCurrency(ctx context.Context, from string, limit int) ([]entity.ExchangeRateEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT from_currency, to_currency, rate, change_pct, recorded_at
		FROM exchange_rate_history
		WHERE from_currency = $1
		ORDER BY recorded_at DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, from, limit)
	if err != nil {
		return nil, fmt.Errorf("list rate history: %w", err)
	}
	defer rows.Close()

	var list []entity.ExchangeRateEntry
	for rows.Next() {
		var e entity.ExchangeRateEntry
		if err := rows.Scan(&e.From, &e.To, &e.Rate, &e.Change, &e.Date); err != nil {
			return nil, fmt.Errorf("scan rate history: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
