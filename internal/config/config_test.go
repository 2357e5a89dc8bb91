package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEDGER_DB_DSN", "postgres://localhost:5432/stockledger")
	t.Setenv("LEDGER_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, "identity", cfg.JWT.Issuer)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEDGER_DB_DSN", "postgres://localhost:5432/stockledger")
	t.Setenv("LEDGER_JWT_SECRET", "secret")
	t.Setenv("LEDGER_APP_ENV", "prod")
	t.Setenv("LEDGER_HTTP_ADDR", ":9090")
	t.Setenv("LEDGER_HTTP_READ_TIMEOUT", "5s")
	t.Setenv("LEDGER_DB_MAX_CONNS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProd())
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int32(50), cfg.DB.MaxConns)
}

func TestLoad_RequiredDSN(t *testing.T) {
	t.Setenv("LEDGER_JWT_SECRET", "secret")
	// t.Setenv registers the restore, Unsetenv makes the variable truly absent.
	t.Setenv("LEDGER_DB_DSN", "placeholder")
	os.Unsetenv("LEDGER_DB_DSN")

	_, err := Load()
	assert.Error(t, err)
}
