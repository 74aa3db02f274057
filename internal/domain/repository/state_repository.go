package repository

import "context"

// StateRepository define el puerto de persistencia del estado (DIP).
// Cada dominio se guarda como un documento JSON independiente bajo su clave.
type StateRepository interface {
	// Load devuelve el documento de key; nil, nil si no existe.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
