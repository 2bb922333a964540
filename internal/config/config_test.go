package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 20, cfg.Database.MaxConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, "text-embedding-3-small", cfg.LLM.EmbeddingModel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("LLM_DEFAULT_PROVIDER", "anthropic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Database.MaxConns)
	assert.Equal(t, "anthropic", cfg.LLM.DefaultProvider)
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

func TestValidateReportsMissing(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Database.URL = ""
	cfg.Auth.JWTSecret = ""

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}
