package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "retailer", cfg.DefaultRole)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("DEFAULT_ROLE", "wholesaler")
	t.Setenv("SEED", "1234")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "wholesaler", cfg.DefaultRole)
	assert.Equal(t, int64(1234), cfg.Seed)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	base := Config{Addr: ":8080", DefaultRole: "retailer", LogLevel: "info", MaxBodyBytes: 1024}
	require.NoError(t, base.Validate())

	bad := base
	bad.Addr = ""
	assert.Error(t, bad.Validate())

	bad = base
	bad.DefaultRole = "factory"
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogLevel = "loud"
	assert.Error(t, bad.Validate())

	bad = base
	bad.MaxBodyBytes = 0
	assert.Error(t, bad.Validate())
}
