package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Trello.BaseURL != DefaultTrelloBaseURL {
		t.Fatalf("unexpected base url %q", cfg.Trello.BaseURL)
	}
	if cfg.Backend.Endpoint != DefaultBackendEndpoint {
		t.Fatalf("unexpected endpoint %q", cfg.Backend.Endpoint)
	}
	if cfg.Backend.Timeout.Duration != DefaultTimeout {
		t.Fatalf("unexpected timeout %s", cfg.Backend.Timeout)
	}
	if got := strings.Join(cfg.Attachments.AllowedTypes, ","); got != ".jpg,.jpeg,.png,.pdf" {
		t.Fatalf("unexpected allowed types %q", got)
	}
	if cfg.HasCredentials() {
		t.Fatal("expected no credentials by default")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.Endpoint != DefaultBackendEndpoint {
		t.Fatalf("expected default endpoint, got %q", cfg.Backend.Endpoint)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[trello]
api_key = "k-file"
api_token = "t-file"

[backend]
endpoint = "http://localhost:8080/api/create-card"
timeout = "5s"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.Endpoint != "http://localhost:8080/api/create-card" {
		t.Fatalf("unexpected endpoint %q", cfg.Backend.Endpoint)
	}
	if cfg.Backend.Timeout.Duration != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Backend.Timeout)
	}
	if cfg.Trello.BaseURL != DefaultTrelloBaseURL {
		t.Fatalf("expected base url default kept, got %q", cfg.Trello.BaseURL)
	}
	if !cfg.HasCredentials() {
		t.Fatal("expected credentials from file")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad endpoint scheme": "[backend]\nendpoint = \"ftp://x\"\n",
		"bad timeout":         "[backend]\ntimeout = \"soon\"\n",
		"bad extension":       "[attachments]\nallowed_types = [\"png\"]\n",
		"bad level":           "[logging]\nlevel = \"loud\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := Load(path, Default()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestApplyEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("VITE_TRELLO_API_KEY=k-dotenv\nVITE_TRELLO_API_TOKEN=t-dotenv\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg := Default()
	cfg.Trello.APIKey = "k-file"
	cfg.Trello.APIToken = "t-file"

	env := map[string]string{"TRELLO_API_KEY": "k-env"}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	got, src, err := ApplyEnv(cfg, lookup, dotenv)
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if got.Trello.APIKey != "k-env" || src.APIKey != SourceEnv {
		t.Fatalf("expected env key, got %q from %q", got.Trello.APIKey, src.APIKey)
	}
	if got.Trello.APIToken != "t-dotenv" || src.APIToken != SourceDotEnv {
		t.Fatalf("expected dotenv token, got %q from %q", got.Trello.APIToken, src.APIToken)
	}
}

func TestApplyEnvMissingDotenvKeepsFileValues(t *testing.T) {
	cfg := Default()
	cfg.Trello.APIKey = "k-file"
	got, src, err := ApplyEnv(cfg, nil, filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if got.Trello.APIKey != "k-file" || src.APIKey != SourceFile {
		t.Fatalf("unexpected key %q from %q", got.Trello.APIKey, src.APIKey)
	}
	if src.APIToken != SourceMissing {
		t.Fatalf("expected missing token source, got %q", src.APIToken)
	}
}

func TestRedact(t *testing.T) {
	if got := Redact(""); got != "(unset)" {
		t.Fatalf("Redact(\"\") = %q", got)
	}
	if got := Redact("abcdef1234"); got != "******1234" {
		t.Fatalf("Redact() = %q", got)
	}
}
