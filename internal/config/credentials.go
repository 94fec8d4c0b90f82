package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// Credential sources, most specific first.
const (
	SourceEnv     = "env"
	SourceDotEnv  = "dotenv"
	SourceFile    = "file"
	SourceMissing = ""
)

var (
	keyVars   = []string{"TRELLO_API_KEY", "VITE_TRELLO_API_KEY"}
	tokenVars = []string{"TRELLO_API_TOKEN", "VITE_TRELLO_API_TOKEN"}
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// CredentialSources records where each credential came from.
type CredentialSources struct {
	APIKey   string
	APIToken string
}

// ApplyEnv overrides the Trello credentials from the process environment, then from
// a dotenv file. Values already set in the process environment win over the file,
// and both win over the TOML config.
func ApplyEnv(cfg Config, lookup LookupFunc, dotenvPath string) (Config, CredentialSources, error) {
	src := CredentialSources{}
	if cfg.Trello.APIKey != "" {
		src.APIKey = SourceFile
	}
	if cfg.Trello.APIToken != "" {
		src.APIToken = SourceFile
	}

	dotenv := map[string]string{}
	if strings.TrimSpace(dotenvPath) != "" {
		vals, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			dotenv = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, src, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
	}

	if v, from := firstSet(keyVars, lookup, dotenv); v != "" {
		cfg.Trello.APIKey = v
		src.APIKey = from
	}
	if v, from := firstSet(tokenVars, lookup, dotenv); v != "" {
		cfg.Trello.APIToken = v
		src.APIToken = from
	}
	return cfg, src, nil
}

func firstSet(names []string, lookup LookupFunc, dotenv map[string]string) (string, string) {
	if lookup != nil {
		for _, n := range names {
			if v, ok := lookup(n); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), SourceEnv
			}
		}
	}
	for _, n := range names {
		if v := strings.TrimSpace(dotenv[n]); v != "" {
			return v, SourceDotEnv
		}
	}
	return "", SourceMissing
}

// Redact hides all but the last four characters of a secret.
func Redact(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
