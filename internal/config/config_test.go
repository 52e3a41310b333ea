package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultsDerivesDriverFromTarget(t *testing.T) {
	cfg := &Config{BuildTarget: "local", DBDriver: "auto", SQLitePath: "x.db"}
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "sqlite", cfg.DBDriver)

	cfg = &Config{BuildTarget: "cloud-dev", DBDriver: "auto", PostgresDSN: "postgres://x"}
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestResolveDefaultsRejectsBadInput(t *testing.T) {
	cfg := &Config{BuildTarget: "edge"}
	assert.Error(t, cfg.ResolveDefaults())

	cfg = &Config{BuildTarget: "local", DBDriver: "oracle"}
	assert.Error(t, cfg.ResolveDefaults())

	// postgres driver without a DSN is a startup error, not a runtime one.
	cfg = &Config{BuildTarget: "cloud", DBDriver: "auto"}
	assert.Error(t, cfg.ResolveDefaults())
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("MEALPLAN_BUILD_TARGET", "local")
	t.Setenv("MEALPLAN_HTTP_PORT", "9191")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.GetHTTPAddr())
	assert.Equal(t, "sqlite", cfg.DBDriver)
}
