package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"LOG_MODE", "OTEL_SERVICE_NAME", "PORT", "PROMPT_CONFIG_PATH", "MIGRATION_BATCH_SIZE", "RECONCILE_PARALLELISM"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	assert.Equal(t, "development", cfg.LogMode)
	assert.Equal(t, "fundgraph", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 1, cfg.Parallelism)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MIGRATION_BATCH_SIZE", "200")
	t.Setenv("PROMPT_CONFIG_PATH", "/etc/fundgraph/prompt.yaml")
	cfg := LoadConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 200, cfg.BatchSize)
	assert.Equal(t, "/etc/fundgraph/prompt.yaml", cfg.PromptConfigPath)
}

func TestCloseNilApp(t *testing.T) {
	var a *App
	assert.NotPanics(t, a.Close)
	assert.Error(t, a.Run(t.Context()))
}
