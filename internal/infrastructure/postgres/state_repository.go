package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// Asegura que StateRepo implementa repository.StateRepository.
var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo guarda cada dominio como una fila JSONB de app_state.
type StateRepo struct {
	db Querier
}

// NewStateRepository construye el adaptador sobre un pool o una transacción.
func NewStateRepository(db Querier) *StateRepo {
	return &StateRepo{db: db}
}

// Load devuelve el documento de key; nil, nil si no existe.
func (r *StateRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM app_state WHERE key = $1`, key).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}
	return data, nil
}

// Save inserta o reemplaza el documento de key.
func (r *StateRepo) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO app_state (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}
