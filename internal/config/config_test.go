package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the home directory at a temp dir and clears the variables
// Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"SERVER_ADDR", "DATA_FILE_PATH", "START_CITY", "START_COUNTRY", "MAX_DAY_THRESHOLD",
		"SEARCH_STRATEGY", "DATABASE_PATH", "MIN_POPULATION", "EXCLUDE_CITY",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, int64(7000000), cfg.Dataset.MinPopulation)
	assert.Equal(t, "delhi", cfg.Dataset.ExcludeCity)
	assert.Equal(t, 80.0, cfg.Journey.MaxDays)
	assert.Equal(t, "greedy", cfg.Journey.Strategy)
	assert.Equal(t, 30*time.Second, cfg.Journey.Timeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Stream.HopInterval)
	assert.Equal(t, filepath.Join(home, ".world-travel-router", "data.db"), cfg.Database.Path)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
server:
  addr: 0.0.0.0:9090
dataset:
  path: /srv/cities.csv
  min_population: 1000000
journey:
  start_city: Tokyo
  start_country: Japan
  max_days: 40
  strategy: backtracking
  timeout: 5s
database:
  path: /tmp/journeys.db
stream:
  hop_interval: 0s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr)
	assert.Equal(t, "/srv/cities.csv", cfg.Dataset.Path)
	assert.Equal(t, int64(1000000), cfg.Dataset.MinPopulation)
	assert.Equal(t, "delhi", cfg.Dataset.ExcludeCity, "unset keys keep defaults")
	assert.Equal(t, "Tokyo", cfg.Journey.StartCity)
	assert.Equal(t, 40.0, cfg.Journey.MaxDays)
	assert.Equal(t, "backtracking", cfg.Journey.Strategy)
	assert.Equal(t, 5*time.Second, cfg.Journey.Timeout)
	assert.Equal(t, "/tmp/journeys.db", cfg.Database.Path)
	assert.Zero(t, cfg.Stream.HopInterval)
}

func TestLoadHomeConfigFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".world-travel-router")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("journey:\n  max_days: 12\n"), 0600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.Journey.MaxDays)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "journey:\n  start_city: Tokyo\n  max_days: 40\n")

	t.Setenv("START_CITY", "Paris")
	t.Setenv("START_COUNTRY", "France")
	t.Setenv("MAX_DAY_THRESHOLD", "60")
	t.Setenv("SEARCH_STRATEGY", "dfs")
	t.Setenv("MIN_POPULATION", "0")
	t.Setenv("DATA_FILE_PATH", "/data/cities.csv")
	t.Setenv("DATABASE_PATH", "/data/app.db")
	t.Setenv("SERVER_ADDR", ":8081")
	t.Setenv("EXCLUDE_CITY", "paris")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Paris", cfg.Journey.StartCity)
	assert.Equal(t, "France", cfg.Journey.StartCountry)
	assert.Equal(t, 60.0, cfg.Journey.MaxDays)
	assert.Equal(t, "dfs", cfg.Journey.Strategy)
	assert.Zero(t, cfg.Dataset.MinPopulation)
	assert.Equal(t, "/data/cities.csv", cfg.Dataset.Path)
	assert.Equal(t, "/data/app.db", cfg.Database.Path)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, "paris", cfg.Dataset.ExcludeCity)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "journey: [not a map"))
	assert.Error(t, err)

	t.Setenv("MAX_DAY_THRESHOLD", "eighty")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("MAX_DAY_THRESHOLD", "NaN")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"empty dataset", func(c *Config) { c.Dataset.Path = "" }},
		{"negative population", func(c *Config) { c.Dataset.MinPopulation = -1 }},
		{"zero days", func(c *Config) { c.Journey.MaxDays = 0 }},
		{"negative days", func(c *Config) { c.Journey.MaxDays = -5 }},
		{"NaN days", func(c *Config) { c.Journey.MaxDays = math.NaN() }},
		{"infinite days", func(c *Config) { c.Journey.MaxDays = math.Inf(1) }},
		{"unknown strategy", func(c *Config) { c.Journey.Strategy = "astar" }},
		{"zero timeout", func(c *Config) { c.Journey.Timeout = 0 }},
		{"negative hop interval", func(c *Config) { c.Stream.HopInterval = -time.Second }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDatasetOptions(t *testing.T) {
	opts := Default().Dataset.Options()
	assert.Equal(t, int64(7000000), opts.MinPopulation)
	assert.Equal(t, "delhi", opts.ExcludeCity)
}
