package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) }) //nolint:errcheck
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/kingpins.xlsx", cfg.Inputs.Contacts)
	assert.Equal(t, "data/retailers.geojson", cfg.Inputs.Facilities)
	assert.Equal(t, "public/data/kingpins.geojson", cfg.Outputs.GeoJSON)
	assert.False(t, cfg.Geocode.Enabled)
	assert.Equal(t, 250, cfg.Geocode.RateDelayMS)
	assert.Equal(t, "US", cfg.Geocode.Country)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	doc := `
inputs:
  contacts: custom/contacts.xlsx
geocode:
  enabled: true
  rate_delay_ms: 500
cache:
  driver: postgres
  database_url: postgres://localhost/agroute
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(doc), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "custom/contacts.xlsx", cfg.Inputs.Contacts)
	assert.True(t, cfg.Geocode.Enabled)
	assert.Equal(t, 500, cfg.Geocode.RateDelayMS)
	assert.Equal(t, "postgres", cfg.Cache.Driver)
	assert.Equal(t, "postgres://localhost/agroute", cfg.Cache.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "data/retailers.geojson", cfg.Inputs.Facilities)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AGROUTE_LOG_LEVEL", "warn")
	t.Setenv("AGROUTE_GEOCODE_COUNTRY", "CA")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "CA", cfg.Geocode.Country)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "not-a-level"}))
}
