package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MODELSCORE_DB_DRIVER", "MODELSCORE_DB", "MODELSCORE_DUPLICATES", "MODELSCORE_ADDR",
		"MODELSCORE_SPLIT_FALLBACK", "MODELSCORE_WORKERS", "MODELSCORE_HIGHLIGHT",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODELSCORE_DUPLICATES", "first")
	t.Setenv("MODELSCORE_SPLIT_FALLBACK", "true")
	t.Setenv("MODELSCORE_WORKERS", "4")
	t.Setenv("MODELSCORE_HIGHLIGHT", "8")
	t.Setenv("MODELSCORE_DB", "/tmp/scores.db")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Duplicates)
	assert.True(t, cfg.SplitFallback)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 8, cfg.Highlight)
	assert.Equal(t, "/tmp/scores.db", cfg.DBDSN)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad bool", "MODELSCORE_SPLIT_FALLBACK", "maybe"},
		{"bad int", "MODELSCORE_WORKERS", "many"},
		{"negative highlight", "MODELSCORE_HIGHLIGHT", "-1"},
		{"unknown driver", "MODELSCORE_DB_DRIVER", "oracle"},
		{"unknown policy", "MODELSCORE_DUPLICATES", "middle"},
		{"postgres without dsn", "MODELSCORE_DB_DRIVER", "postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MODELSCORE_WORKERS=3\nMODELSCORE_ADDR=:9999\n"), 0o644))
	t.Setenv("MODELSCORE_ADDR", ":7000")
	// godotenv only fills variables that are absent, not merely empty.
	os.Unsetenv("MODELSCORE_WORKERS")

	require.NoError(t, LoadDotEnv(path))

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, ":7000", cfg.Addr, "existing variables win over .env")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
