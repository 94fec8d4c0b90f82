package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName = "cardform"

	DefaultTrelloBaseURL   = "https://api.trello.com"
	DefaultBackendEndpoint = "https://customerhub-server-m8avm.ondigitalocean.app/api/create-card"
	DefaultTimeout         = 30 * time.Second
)

type Config struct {
	Trello      TrelloConfig      `toml:"trello"`
	Backend     BackendConfig     `toml:"backend"`
	Attachments AttachmentsConfig `toml:"attachments"`
	Logging     LoggingConfig     `toml:"logging"`
}

// TrelloConfig holds the reference-data service location and credentials.
type TrelloConfig struct {
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	APIToken string `toml:"api_token"`
}

type BackendConfig struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

type AttachmentsConfig struct {
	AllowedTypes []string `toml:"allowed_types"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration decodes "30s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() Config {
	return Config{
		Trello: TrelloConfig{
			BaseURL: DefaultTrelloBaseURL,
		},
		Backend: BackendConfig{
			Endpoint: DefaultBackendEndpoint,
			Timeout:  Duration{DefaultTimeout},
		},
		Attachments: AttachmentsConfig{
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".pdf"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML file over defaults. A missing or empty file yields the defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validateURL("trello.base_url", c.Trello.BaseURL); err != nil {
		return err
	}
	if err := validateURL("backend.endpoint", c.Backend.Endpoint); err != nil {
		return err
	}
	if c.Backend.Timeout.Duration < 0 {
		return fmt.Errorf("backend.timeout must be >= 0, got %s", c.Backend.Timeout)
	}
	for i, ext := range c.Attachments.AllowedTypes {
		if !strings.HasPrefix(strings.TrimSpace(ext), ".") {
			return fmt.Errorf("attachments.allowed_types[%d] must start with '.': %q", i, ext)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

// HasCredentials reports whether both Trello credentials are set.
func (c Config) HasCredentials() bool {
	return strings.TrimSpace(c.Trello.APIKey) != "" && strings.TrimSpace(c.Trello.APIToken) != ""
}

func validateURL(name, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", name)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/cardform/config.toml, falling back to the
// user config dir.
func DefaultPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, AppName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}
