package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/ochronus/gopastebin/pastebin"
	"github.com/sirupsen/logrus"
)

const (
	MinResultsLimit = 1
	MaxResultsLimit = pastebin.MaxResultsLimit
	MinCapacity     = 1
	MaxCapacity     = 100000
)

// Config represents the main application configuration
type Config struct {
	DevKey   string         `toml:"dev_key" env:"PASTEBIN_DEV_KEY"`
	UserKey  string         `toml:"user_key" env:"PASTEBIN_USER_KEY"`
	Username string         `toml:"username" env:"PASTEBIN_USERNAME"`
	Password string         `toml:"password" env:"PASTEBIN_PASSWORD"`
	Loglevel string         `toml:"loglevel" env:"PASTEBIN_LOGLEVEL"`
	Timeout  int            `toml:"timeout" env:"PASTEBIN_TIMEOUT"`
	BaseURL  string         `toml:"base_url" env:"PASTEBIN_BASE_URL"`
	Defaults DefaultsConfig `toml:"defaults"`
	Sandbox  SandboxConfig  `toml:"sandbox"`
}

// DefaultsConfig holds the values the CLI uses when creating and listing
// pastes.
type DefaultsConfig struct {
	Visibility   int    `toml:"visibility"`
	ExpireDate   string `toml:"expire_date"`
	Format       string `toml:"format"`
	ResultsLimit int    `toml:"results_limit"`
}

// SandboxConfig holds the local API emulator configuration
type SandboxConfig struct {
	BindAddress string          `toml:"bind_address"`
	Port        int             `toml:"port"`
	Capacity    int             `toml:"capacity"`
	PublicURL   string          `toml:"public_url"`
	DevKeys     []string        `toml:"dev_keys"`
	Accounts    []AccountConfig `toml:"accounts"`
}

// AccountConfig is a username/password pair accepted by the sandbox
type AccountConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Loglevel: "info",
		Defaults: DefaultsConfig{
			Visibility:   int(pastebin.Private),
			ExpireDate:   "N",
			Format:       "text",
			ResultsLimit: pastebin.DefaultResultsLimit,
		},
		Sandbox: SandboxConfig{
			BindAddress: "127.0.0.1",
			Port:        8089,
			Capacity:    1000,
		},
	}
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "gopastebin")

	return filepath.Join(configDir, "config.toml"), nil
}

// LoadDotEnv loads environment variables from the given .env files. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load loads configuration from a TOML file, then applies PASTEBIN_*
// environment overrides. A missing file leaves the defaults in place.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Loglevel); err != nil {
		return fmt.Errorf("loglevel must be one of: panic, fatal, error, warn, info, debug, trace")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
			return fmt.Errorf("base_url is invalid: %v", err)
		}
	}

	if !pastebin.Visibility(c.Defaults.Visibility).Valid() {
		return fmt.Errorf("defaults.visibility must be 0 (public), 1 (unlisted) or 2 (private)")
	}
	if c.Defaults.ResultsLimit < MinResultsLimit || c.Defaults.ResultsLimit > MaxResultsLimit {
		return fmt.Errorf("defaults.results_limit must be between %d and %d", MinResultsLimit, MaxResultsLimit)
	}

	if c.Sandbox.Port < 0 || c.Sandbox.Port > 65535 {
		return fmt.Errorf("sandbox.port must be between 0 and 65535")
	}
	if c.Sandbox.Capacity < MinCapacity || c.Sandbox.Capacity > MaxCapacity {
		return fmt.Errorf("sandbox.capacity must be between %d and %d", MinCapacity, MaxCapacity)
	}
	for i, account := range c.Sandbox.Accounts {
		if account.Username == "" {
			return fmt.Errorf("sandbox.accounts[%d].username is required", i)
		}
	}

	return nil
}

// ValidateCredentials checks that the keys needed to reach the API are set.
func (c *Config) ValidateCredentials() error {
	if c.DevKey == "" {
		return fmt.Errorf("dev_key is required (or set PASTEBIN_DEV_KEY)")
	}
	return nil
}

// HasLogin reports whether a username and password are configured.
func (c *Config) HasLogin() bool {
	return c.Username != "" && c.Password != ""
}

// RequestTimeout returns the configured per-request timeout, zero meaning
// none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// DefaultVisibility returns defaults.visibility as a pastebin.Visibility.
func (c *Config) DefaultVisibility() pastebin.Visibility {
	return pastebin.Visibility(c.Defaults.Visibility)
}
