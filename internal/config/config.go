// Package config loads shelfdesk settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting.
type Config struct {
	APIURL      string        `env:"SHELFDESK_API_URL" envDefault:"http://localhost:8080"`
	SessionFile string        `env:"SHELFDESK_SESSION_FILE"`
	SessionTTL  time.Duration `env:"SHELFDESK_SESSION_TTL" envDefault:"1h"`
	AccessFile  string        `env:"SHELFDESK_ACCESS_FILE"`
	HTTPTimeout time.Duration `env:"SHELFDESK_HTTP_TIMEOUT" envDefault:"30s"`
	LogLevel    string        `env:"SHELFDESK_LOG_LEVEL" envDefault:"info"`
	LogFile     string        `env:"SHELFDESK_LOG_FILE"`
}

// Dir returns ~/.shelfdesk.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".shelfdesk"), nil
}

// Load reads envFiles (missing ones are skipped; variables already set win)
// and then parses the environment. File paths left empty default to
// ~/.shelfdesk.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("config.Load: %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.SessionFile == "" || cfg.LogFile == "" {
		dir, err := Dir()
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
		if cfg.SessionFile == "" {
			cfg.SessionFile = filepath.Join(dir, "session.yaml")
		}
		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(dir, "shelfdesk.log")
		}
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("SHELFDESK_API_URL %q: want an http(s) URL", c.APIURL))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SHELFDESK_SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHELFDESK_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
