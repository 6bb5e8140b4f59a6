package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DEBUG", "SHUTDOWN_TIMEOUT", "DATABASE_URL", "CATALOG_SEED_FILE", "WS_ALLOWED_ORIGIN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.ServerPort)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.UseDatabase())
	assert.Equal(t, "data/catalog.yaml", cfg.CatalogSeedFile)
	assert.Equal(t, "*", cfg.WSAllowedOrigin)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DEBUG", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "12s")
	t.Setenv("DATABASE_URL", "postgres://localhost/evrange")
	t.Setenv("WS_ALLOWED_ORIGIN", "https://example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 12*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.UseDatabase())
	assert.Equal(t, "https://example.com", cfg.WSAllowedOrigin)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DEBUG", "maybe")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	assert.False(t, getEnvBool("DEBUG", false))
	assert.Equal(t, time.Second, getEnvDuration("SHUTDOWN_TIMEOUT", time.Second))
}
