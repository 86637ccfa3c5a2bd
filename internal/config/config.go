// Package config is the single owner of app-level mutable state: API
// endpoint, bearer token, and UI preferences. Everything goes through
// Load/Save instead of ad hoc storage reads sprinkled across views.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrNoToken is returned when an operation needs a plausible bearer token
// and none is configured.
var ErrNoToken = errors.New("config: no api token configured")

// minTokenLength is a UX guard against obviously truncated tokens, not a
// security boundary; the server is the authority on token validity.
const minTokenLength = 30

// Config holds application configuration.
type Config struct {
	API APIConfig
	UI  UIConfig
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string
	Token   string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme          string
	CurrencySymbol string
	DateFormat     string
}

// Load reads configuration from file and env. Env overrides use prefix
// CLEARSHEET_ (CLEARSHEET_API_TOKEN, CLEARSHEET_API_BASE_URL, ...).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.token", "")
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.currency_symbol", "R$")
	v.SetDefault("ui.date_format", "02/01")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CLEARSHEET_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(defaultConfigDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CLEARSHEET")
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

// Save writes the config to disk, creating the config directory if
// needed. The token lands in plain text; prefer the env var on shared
// machines.
func Save(cfg Config) error {
	path := os.Getenv("CLEARSHEET_CONFIG")
	if path == "" {
		path = filepath.Join(defaultConfigDir(), "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.token", cfg.API.Token)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.date_format", cfg.UI.DateFormat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetToken stores a new bearer token and persists it.
func (c *Config) SetToken(token string) error {
	c.API.Token = strings.TrimSpace(token)
	return Save(*c)
}

// ClearToken drops the stored token (logout) and persists the change.
func (c *Config) ClearToken() error {
	c.API.Token = ""
	return Save(*c)
}

// HasPlausibleToken reports whether a token is present and long enough to
// possibly be real.
func (c Config) HasPlausibleToken() bool {
	return len(strings.TrimSpace(c.API.Token)) >= minTokenLength
}

// RequireToken returns ErrNoToken unless a plausible token is configured.
func (c Config) RequireToken() error {
	if !c.HasPlausibleToken() {
		return ErrNoToken
	}
	return nil
}

// BanksPath is where the bank identity table lives.
func BanksPath() string {
	return filepath.Join(defaultConfigDir(), "banks.toml")
}

// LogPath is where the client writes its log while the TUI owns the
// terminal.
func LogPath() string {
	return filepath.Join(defaultStateDir(), "clearsheet.log")
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "clearsheet")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "clearsheet")
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "clearsheet")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state", "clearsheet")
}
