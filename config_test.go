package wealthfolio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Sync.Workers != 4 {
		t.Errorf("Workers = %d, want default 4", cfg.Sync.Workers)
	}
	if len(cfg.Currencies) == 0 {
		t.Error("Currencies is empty, want defaults")
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
currencies = ["HKD", "CNY", "EUR"]

[storage]
path = "/tmp/folio.db"

[sync]
workers = 8

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Currencies) != 3 || cfg.Currencies[2] != "EUR" {
		t.Errorf("Currencies = %v", cfg.Currencies)
	}
	if cfg.Storage.Path != "/tmp/folio.db" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Sync.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Sync.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_RejectsBadCurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`currencies = ["hkd"]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() = nil error, want invalid currency failure")
	}
}
