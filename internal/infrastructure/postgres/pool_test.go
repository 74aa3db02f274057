package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/pkg/config"
)

// Caso 1: DATABASE_URL tiene prioridad sobre los campos sueltos.
func TestPoolConfig_DatabaseURL(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		DatabaseURL: "postgres://u:p@db.local:6543/costeo?sslmode=disable",
		Host:        "ignorado", Port: 5432,
	})

	require.NoError(t, err)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, "costeo", pc.ConnConfig.Database)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.NotNil(t, pc.AfterConnect)
}

// Caso 2: DSN construido con credenciales que requieren escape.
func TestPoolConfig_CamposSueltos(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		Host: "localhost", Port: 5432, User: "costeo", Password: "p@ss:w/rd", DBName: "costeo", SSLMode: "disable",
	})

	require.NoError(t, err)
	assert.Equal(t, "p@ss:w/rd", pc.ConnConfig.Password)
	assert.Equal(t, "costeo", pc.ConnConfig.User)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@host:notaport/db"})
	assert.Error(t, err)
}
