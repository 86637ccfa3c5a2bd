package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CLEARSHEET_CONFIG", path)
	t.Setenv("CLEARSHEET_API_TOKEN", "")
	t.Setenv("CLEARSHEET_API_BASE_URL", "")
	return path
}

func TestLoadDefaults(t *testing.T) {
	withTempConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL == "" {
		t.Errorf("missing default base url")
	}
	if cfg.UI.CurrencySymbol != "R$" {
		t.Errorf("currency = %q", cfg.UI.CurrencySymbol)
	}
	if cfg.HasPlausibleToken() {
		t.Errorf("empty token should not be plausible")
	}
}

func TestEnvOverride(t *testing.T) {
	withTempConfig(t)
	t.Setenv("CLEARSHEET_API_BASE_URL", "https://sheets.example.com/api")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://sheets.example.com/api" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
}

func TestTokenLifecycle(t *testing.T) {
	path := withTempConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	token := "tok-0123456789012345678901234567890"
	if err := cfg.SetToken(token); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if !cfg.HasPlausibleToken() {
		t.Fatalf("token should be plausible")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not persisted: %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.API.Token != token {
		t.Fatalf("token not round-tripped: %q", reloaded.API.Token)
	}

	if err := reloaded.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	final, err := Load()
	if err != nil {
		t.Fatalf("final load: %v", err)
	}
	if final.API.Token != "" {
		t.Fatalf("token survived logout: %q", final.API.Token)
	}
	if err := final.RequireToken(); err != ErrNoToken {
		t.Fatalf("RequireToken = %v, want ErrNoToken", err)
	}
}

func TestPlausibleTokenHeuristic(t *testing.T) {
	c := Config{}
	c.API.Token = "short"
	if c.HasPlausibleToken() {
		t.Errorf("short token should fail the length guard")
	}
	c.API.Token = "  tok-0123456789012345678901234567890  "
	if !c.HasPlausibleToken() {
		t.Errorf("trimmed long token should pass")
	}
}
