package wealthfolio

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the full application configuration, read from a TOML file.
type Config struct {
	Currencies []string      `toml:"currencies"` // currencies whose rates are synced, besides USD
	Storage    StorageConfig `toml:"storage"`
	Sync       SyncConfig    `toml:"sync"`
	Logging    LoggingConfig `toml:"logging"`
}

// StorageConfig locates the SQLite database file.
type StorageConfig struct {
	Path string `toml:"path"`
}

// SyncConfig tunes the daily sync.
type SyncConfig struct {
	Workers        int    `toml:"workers"`
	CurrencyAPIURL string `toml:"currency_api_url"` // override, for tests and mirrors
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Currencies: []string{"HKD", "CNY"},
		Storage:    StorageConfig{Path: filepath.Join(home, ".wealthfolio", "wealthfolio.db")},
		Sync:       SyncConfig{Workers: 4},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads a TOML configuration file, filling absent fields from the
// defaults. A missing file is not an error; the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Sync.Workers <= 0 {
		cfg.Sync.Workers = 4
	}
	for _, currency := range cfg.Currencies {
		if err := ValidateCurrency(currency); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// DefaultConfigPath returns the conventional location of the config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wealthfolio", "config.toml")
}
