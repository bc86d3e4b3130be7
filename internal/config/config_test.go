package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POCKETLEDGER_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasSuffix(c.Database.Path, filepath.Join("pocketledger", "pocketledger.db")) {
		t.Errorf("unexpected default db path: %s", c.Database.Path)
	}
	if c.Currency.Home != "EUR" {
		t.Errorf("unexpected default home currency: %s", c.Currency.Home)
	}
	if c.Accounts.FutureStartsNow {
		t.Error("future_starts_now should default to off")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("POCKETLEDGER_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("POCKETLEDGER_CURRENCY_HOME", "USD")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Currency.Home != "USD" {
		t.Errorf("env override ignored, got %s", c.Currency.Home)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("POCKETLEDGER_CONFIG", path)

	want := Config{
		Database: DatabaseConfig{Path: "/tmp/ledger.db"},
		Currency: CurrencyConfig{Home: "GBP"},
		Accounts: AccountsConfig{FutureStartsNow: true},
	}
	if err := Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v want %+v", got, want)
	}
}
