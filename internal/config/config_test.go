package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/test?sslmode=disable")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, RunModeWebhook, cfg.RunMode)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, "12h0m0s", cfg.SummaryInterval.String())
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load()
	require.Error(t, err)
}

func TestNormalize_PollingAlias(t *testing.T) {
	setRequired(t)
	t.Setenv("RUN_MODE", "polling")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, RunModeLongpoll, cfg.RunMode)
}

func TestNormalize_InvalidRunMode(t *testing.T) {
	setRequired(t)
	t.Setenv("RUN_MODE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUN_MODE")
}

func TestNormalize_InvalidHistoryLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("HISTORY_LIMIT", "0")

	_, err := Load()
	require.Error(t, err)
}
