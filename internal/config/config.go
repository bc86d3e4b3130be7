package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Currency CurrencyConfig
	Accounts AccountsConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// CurrencyConfig holds the home currency used for equivalent amounts.
type CurrencyConfig struct {
	Home string
}

// AccountsConfig holds account overview settings.
type AccountsConfig struct {
	// FutureStartsNow moves the "future transaction" cutoff from the next
	// local midnight to the current instant.
	FutureStartsNow bool `mapstructure:"future_starts_now"`
}

// Load reads configuration from file and env. Env var overrides use prefix POCKETLEDGER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "pocketledger", "pocketledger.db"))
	v.SetDefault("currency.home", "EUR")
	v.SetDefault("accounts.future_starts_now", false)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("POCKETLEDGER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "pocketledger"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("POCKETLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("POCKETLEDGER_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "pocketledger", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("currency.home", cfg.Currency.Home)
	v.Set("accounts.future_starts_now", cfg.Accounts.FutureStartsNow)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
