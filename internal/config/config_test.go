package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info', got '%s'", cfg.LogLevel)
	}

	// Generate defaults
	if cfg.Generate.Output != "data/raw" {
		t.Errorf("Expected Generate.Output 'data/raw', got '%s'", cfg.Generate.Output)
	}
	if cfg.Generate.Customers != 1000 {
		t.Errorf("Expected Generate.Customers 1000, got %d", cfg.Generate.Customers)
	}
	if cfg.Generate.Products != 150 {
		t.Errorf("Expected Generate.Products 150, got %d", cfg.Generate.Products)
	}
	if cfg.Generate.Sales != 50000 {
		t.Errorf("Expected Generate.Sales 50000, got %d", cfg.Generate.Sales)
	}
	if cfg.Generate.Seed != 42 {
		t.Errorf("Expected Generate.Seed 42, got %d", cfg.Generate.Seed)
	}

	// Transform defaults
	if cfg.Transform.Input != "data/raw" {
		t.Errorf("Expected Transform.Input 'data/raw', got '%s'", cfg.Transform.Input)
	}
	if cfg.Transform.Output != "data/processed" {
		t.Errorf("Expected Transform.Output 'data/processed', got '%s'", cfg.Transform.Output)
	}
	if cfg.Transform.DiscountPolicy != "clamp" {
		t.Errorf("Expected Transform.DiscountPolicy 'clamp', got '%s'", cfg.Transform.DiscountPolicy)
	}
	if cfg.Transform.Workers != 0 {
		t.Errorf("Expected Transform.Workers 0, got %d", cfg.Transform.Workers)
	}

	// Load defaults
	if cfg.Load.Input != "data/processed" {
		t.Errorf("Expected Load.Input 'data/processed', got '%s'", cfg.Load.Input)
	}
	if cfg.Load.DropExisting != false {
		t.Error("Expected Load.DropExisting false")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales-etl.yaml")
	content := `log_level: debug
transform:
  workers: 4
  discount_policy: reject
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.Transform.Workers != 4 {
		t.Errorf("Expected Transform.Workers 4, got %d", cfg.Transform.Workers)
	}
	if cfg.Transform.DiscountPolicy != "reject" {
		t.Errorf("Expected Transform.DiscountPolicy 'reject', got '%s'", cfg.Transform.DiscountPolicy)
	}
	// Untouched values keep their defaults.
	if cfg.Generate.Customers != 1000 {
		t.Errorf("Expected Generate.Customers 1000, got %d", cfg.Generate.Customers)
	}
}

func TestValidateTransform(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"missing input", func(c *Config) { c.Transform.Input = "" }, true},
		{"missing output", func(c *Config) { c.Transform.Output = "" }, true},
		{"negative workers", func(c *Config) { c.Transform.Workers = -1 }, true},
		{"bad discount policy", func(c *Config) { c.Transform.DiscountPolicy = "coerce" }, true},
		{"reject policy valid", func(c *Config) { c.Transform.DiscountPolicy = "reject" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.ValidateTransform()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTransform() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLoad(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateLoad(); err == nil {
		t.Error("Expected an error without a connection string")
	}
	cfg.Load.Connection = "postgres://localhost/warehouse"
	if err := cfg.ValidateLoad(); err != nil {
		t.Errorf("Expected valid load config, got %v", err)
	}
}

func TestValidateGenerate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateGenerate(); err != nil {
		t.Errorf("Expected valid generate config, got %v", err)
	}
	cfg.Generate.Sales = 0
	if err := cfg.ValidateGenerate(); err == nil {
		t.Error("Expected an error for zero sales rows")
	}
}
