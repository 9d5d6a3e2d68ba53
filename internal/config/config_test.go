package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test-nonexistent-env")

	c, err := Load()
	require.NoError(t, err)

	assert.Greater(t, c.Workers, 0)
	assert.Equal(t, 4096, c.PreparedCacheSize)
	assert.Equal(t, "cosmogony.jsonl.gz", c.DefaultOutput)
	assert.Equal(t, "cosmogony.log", c.LogFile)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_ENV", "test-nonexistent-env")
	t.Setenv("WORKERS", "3")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Workers)
}
