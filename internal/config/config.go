// Package config assembles the service configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"world-travel-router/internal/database"
	"world-travel-router/internal/dataset"
	"world-travel-router/internal/routing"
)

const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultDataPath     = "data/worldcitiespop.csv"
	DefaultStartCity    = "London"
	DefaultStartCountry = "England"
	DefaultMaxDays      = 80
	DefaultTimeout      = 30 * time.Second
	DefaultHopInterval  = 300 * time.Millisecond
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Journey  JourneyConfig  `yaml:"journey"`
	Database DatabaseConfig `yaml:"database"`
	Stream   StreamConfig   `yaml:"stream"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatasetConfig struct {
	Path          string `yaml:"path"`
	MinPopulation int64  `yaml:"min_population"`
	ExcludeCity   string `yaml:"exclude_city"`
}

// Options converts the dataset section into loader options
func (d DatasetConfig) Options() dataset.Options {
	return dataset.Options{
		MinPopulation: d.MinPopulation,
		ExcludeCity:   d.ExcludeCity,
	}
}

type JourneyConfig struct {
	StartCity    string        `yaml:"start_city"`
	StartCountry string        `yaml:"start_country"`
	MaxDays      float64       `yaml:"max_days"`
	Strategy     string        `yaml:"strategy"`
	Timeout      time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	// Path of the SQLite file. Empty means ~/.world-travel-router/data.db.
	Path string `yaml:"path"`
}

type StreamConfig struct {
	// HopInterval paces hop messages on the journey stream
	HopInterval time.Duration `yaml:"hop_interval"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Dataset: DatasetConfig{
			Path:          DefaultDataPath,
			MinPopulation: dataset.DefaultMinPopulation,
			ExcludeCity:   dataset.DefaultExcludeCity,
		},
		Journey: JourneyConfig{
			StartCity:    DefaultStartCity,
			StartCountry: DefaultStartCountry,
			MaxDays:      DefaultMaxDays,
			Strategy:     string(routing.StrategyGreedy),
			Timeout:      DefaultTimeout,
		},
		Stream: StreamConfig{HopInterval: DefaultHopInterval},
	}
}

// Load builds the configuration. An explicit path must exist; with an empty
// path ~/.world-travel-router/config.yaml is read when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := database.GetConfigFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		log.Printf("Loaded config file %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		p, err := database.GetDefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.Database.Path = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Dataset.Path = getEnv("DATA_FILE_PATH", c.Dataset.Path)
	c.Dataset.ExcludeCity = getEnv("EXCLUDE_CITY", c.Dataset.ExcludeCity)
	c.Journey.StartCity = getEnv("START_CITY", c.Journey.StartCity)
	c.Journey.StartCountry = getEnv("START_COUNTRY", c.Journey.StartCountry)
	c.Journey.Strategy = getEnv("SEARCH_STRATEGY", c.Journey.Strategy)
	c.Database.Path = getEnv("DATABASE_PATH", c.Database.Path)

	if v := os.Getenv("MAX_DAY_THRESHOLD"); v != "" {
		days, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: MAX_DAY_THRESHOLD=%q is not a number", ErrInvalidConfig, v)
		}
		c.Journey.MaxDays = days
	}
	if v := os.Getenv("MIN_POPULATION"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: MIN_POPULATION=%q is not an integer", ErrInvalidConfig, v)
		}
		c.Dataset.MinPopulation = n
	}
	return nil
}

// Validate checks the values a search cannot run without
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server address is required", ErrInvalidConfig)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("%w: dataset path is required", ErrInvalidConfig)
	}
	if c.Dataset.MinPopulation < 0 {
		return fmt.Errorf("%w: min population must not be negative", ErrInvalidConfig)
	}
	if !routing.ValidBudget(c.Journey.MaxDays) {
		return fmt.Errorf("%w: max days must be positive, got %v", ErrInvalidConfig, c.Journey.MaxDays)
	}
	if _, err := routing.ParseStrategy(c.Journey.Strategy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Journey.Timeout <= 0 {
		return fmt.Errorf("%w: search timeout must be positive", ErrInvalidConfig)
	}
	if c.Stream.HopInterval < 0 {
		return fmt.Errorf("%w: hop interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
