package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo que los repositorios necesitan de *pgxpool.Pool o pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

const schema = `
CREATE TABLE IF NOT EXISTS app_state (
	key        TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS exchange_rate_history (
	id            BIGSERIAL PRIMARY KEY,
	from_currency CHAR(3) NOT NULL,
	to_currency   CHAR(3) NOT NULL,
	rate          NUMERIC(20,10) NOT NULL,
	change_pct    NUMERIC(12,4) NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL,
	UNIQUE (from_currency, to_currency, recorded_at)
);
CREATE INDEX IF NOT EXISTS idx_exchange_rate_history_from ON exchange_rate_history (from_currency, recorded_at DESC);
`

// EnsureSchema crea las tablas si no existen (idempotente).
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
