package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-5-mini", cfg.ResolverModel)
	assert.Equal(t, 10*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, "./resolutions.db", cfg.ResolutionLogPath)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RESOLVER_MODEL", "gpt-5-nano")
	t.Setenv("RESOLVE_TIMEOUT", "2s")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-5-nano", cfg.ResolverModel)
	assert.Equal(t, 2*time.Second, cfg.ResolveTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("RESOLVE_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
