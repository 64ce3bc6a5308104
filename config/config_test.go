package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "krl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com/v1
  timeout_seconds: 10
  retries: 5
scrape:
  stations: [PLM, THB]
  time_from: "05:00"
  time_to: "22:00"
route:
  hub: Manggarai
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout())
	assert.Equal(t, 5, cfg.API.Retries)
	assert.Equal(t, []string{"PLM", "THB"}, cfg.Scrape.Stations)
	assert.Equal(t, "05:00", cfg.Scrape.TimeFrom)
	assert.Equal(t, "Manggarai", cfg.Route.Hub)

	// Unset fields still get their defaults.
	assert.Equal(t, 4, cfg.API.Concurrency)
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.API.Timeout())
	assert.Equal(t, 3, cfg.API.Retries)
	assert.Equal(t, 4, cfg.API.Concurrency)
	assert.Equal(t, "00:00", cfg.Scrape.TimeFrom)
	assert.Equal(t, "23:59", cfg.Scrape.TimeTo)
	assert.Equal(t, "Tanah Abang", cfg.Route.Hub)
	assert.Empty(t, cfg.Scrape.Stations)
}

func TestLoadFirstExisting(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	path := writeConfig(t, "route:\n  hub: Duri\n")

	cfg, err := Load(missing, path)
	require.NoError(t, err)
	assert.Equal(t, "Duri", cfg.Route.Hub)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		path := writeConfig(t, "api: [not\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad url", func(t *testing.T) {
		path := writeConfig(t, "api:\n  base_url: not a url\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("negative retries", func(t *testing.T) {
		path := writeConfig(t, "api:\n  retries: -1\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}
