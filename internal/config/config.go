// Package config handles configuration management for sales-etl.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for sales-etl.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Transform holds configuration for the transform subcommand.
	Transform TransformConfig `mapstructure:"transform"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`
}

// GenerateConfig holds configuration for sample-data generation.
type GenerateConfig struct {
	// Output is the directory for the raw CSV datasets.
	Output string `mapstructure:"output"`

	// Customers, Products, and Sales are the dataset row counts.
	Customers int `mapstructure:"customers"`
	Products  int `mapstructure:"products"`
	Sales     int `mapstructure:"sales"`

	// Seed makes generation reproducible.
	Seed uint64 `mapstructure:"seed"`
}

// TransformConfig holds configuration for the cleaning pipeline.
type TransformConfig struct {
	// Input is the directory holding customers.csv, products.csv, sales.csv.
	Input string `mapstructure:"input"`

	// Output is the directory for the star-schema tables.
	Output string `mapstructure:"output"`

	// Report is the path for the quality report JSON.
	Report string `mapstructure:"report"`

	// Workers is the per-stage row-validation fan-out (0 = GOMAXPROCS).
	Workers int `mapstructure:"workers"`

	// DiscountPolicy is "clamp" or "reject".
	DiscountPolicy string `mapstructure:"discount_policy"`
}

// LoadConfig holds configuration for the warehouse loader.
type LoadConfig struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// Input is the processed directory produced by transform.
	Input string `mapstructure:"input"`

	// DropExisting drops the star-schema tables before loading.
	DropExisting bool `mapstructure:"drop_existing"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Generate: GenerateConfig{
			Output:    "data/raw",
			Customers: 1000,
			Products:  150,
			Sales:     50000,
			Seed:      42,
		},
		Transform: TransformConfig{
			Input:          "data/raw",
			Output:         "data/processed",
			Report:         "data/processed/quality_report.json",
			Workers:        0,
			DiscountPolicy: "clamp",
		},
		Load: LoadConfig{
			Input:        "data/processed",
			DropExisting: false,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./sales-etl.yaml
// 3. ~/.config/sales-etl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("sales-etl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "sales-etl"))
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

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if c.Generate.Output == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Generate.Customers < 1 || c.Generate.Products < 1 || c.Generate.Sales < 1 {
		return fmt.Errorf("dataset sizes must be at least 1")
	}
	return nil
}

// ValidateTransform checks configuration required for the transform command.
func (c *Config) ValidateTransform() error {
	if c.Transform.Input == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Transform.Output == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Transform.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if p := c.Transform.DiscountPolicy; p != "clamp" && p != "reject" {
		return fmt.Errorf("discount_policy must be 'clamp' or 'reject'")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if c.Load.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	if c.Load.Input == "" {
		return fmt.Errorf("input directory is required")
	}
	return nil
}
