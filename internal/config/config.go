//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for athletics-dwh.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for athletics-dwh.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Extract holds configuration for the extract subcommand.
	Extract ExtractConfig `mapstructure:"extract"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`

	// Build holds configuration for the build subcommand.
	Build BuildConfig `mapstructure:"build"`
}

// InitConfig holds configuration for schema initialization.
type InitConfig struct {
	// DropExisting drops the staging/reconciled/dwh schemas before creating them.
	DropExisting bool `mapstructure:"drop_existing"`
}

// ExtractConfig holds paths to the raw source files.
type ExtractConfig struct {
	// ResultsFile is the world athletics results CSV (semicolon delimited).
	ResultsFile string `mapstructure:"results_file"`

	// CitiesFile is the world cities CSV.
	CitiesFile string `mapstructure:"cities_file"`

	// TemperaturesFile is the city temperature CSV (Fahrenheit readings).
	TemperaturesFile string `mapstructure:"temperatures_file"`
}

// SeedConfig holds configuration for synthetic source data generation.
type SeedConfig struct {
	// Athletes is the number of distinct athletes to generate.
	Athletes int `mapstructure:"athletes"`

	// Performances is the number of raw result rows to generate.
	Performances int `mapstructure:"performances"`

	// RandomSeed makes generation reproducible when non-zero.
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// BuildConfig holds configuration for the dimension/fact build.
type BuildConfig struct {
	// Workers is the number of concurrent fact-row transform workers.
	Workers int `mapstructure:"workers"`

	// BatchSize is the number of fact rows per bulk insert.
	BatchSize int `mapstructure:"batch_size"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Init: InitConfig{
			DropExisting: false,
		},
		Extract: ExtractConfig{
			ResultsFile:      "data/raw/world_athletics.csv",
			CitiesFile:       "data/raw/worldcities.csv",
			TemperaturesFile: "data/raw/city_temperature.csv",
		},
		Seed: SeedConfig{
			Athletes:     2000,
			Performances: 50000,
		},
		Build: BuildConfig{
			Workers:   4,
			BatchSize: 1000,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./athletics-dwh.yaml
// 3. ~/.config/athletics-dwh/athletics-dwh.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("athletics-dwh")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "athletics-dwh"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateExtract checks configuration required for the extract command.
func (c *Config) ValidateExtract() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Extract.ResultsFile == "" {
		return fmt.Errorf("results file is required for extract")
	}
	if c.Extract.CitiesFile == "" {
		return fmt.Errorf("cities file is required for extract")
	}
	if c.Extract.TemperaturesFile == "" {
		return fmt.Errorf("temperatures file is required for extract")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Seed.Athletes < 1 {
		return fmt.Errorf("seed athletes must be at least 1")
	}
	if c.Seed.Performances < 1 {
		return fmt.Errorf("seed performances must be at least 1")
	}
	return nil
}

// ValidateBuild checks configuration required for the build command.
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Build.Workers < 1 {
		return fmt.Errorf("build workers must be at least 1")
	}
	if c.Build.BatchSize < 1 {
		return fmt.Errorf("build batch_size must be at least 1")
	}
	return nil
}
