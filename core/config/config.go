// Package config loads runtime settings for the contributors tool from the
// environment.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// Token is the Jira personal access token sent as a bearer credential.
	Token   string        `env:"JIRA_API_TOKEN"`
	BaseURL string        `env:"JIRA_URL" default:"https://issues.apache.org/jira"`
	Timeout time.Duration `env:"JIRA_TIMEOUT" default:"30s"`
	// RoleName is the project role users are added to.
	RoleName string `env:"JIRA_ROLE_NAME" default:"Contributors"`

	Log struct {
		Level  string `env:"JIRA_LOG_LEVEL" default:"warn"`
		Format string `env:"JIRA_LOG_FORMAT" default:"text"`
	}
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration using the given lookuper. Struct defaults
// apply first; any variable present in the lookuper overrides them.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	defaults.SetDefaults(cfg)

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:           cfg,
		Lookuper:         l,
		DefaultOverwrite: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("JIRA_URL cannot be empty")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("JIRA_TIMEOUT must be positive, got %s", cfg.Timeout)
	}
	if strings.TrimSpace(cfg.RoleName) == "" {
		return nil, fmt.Errorf("JIRA_ROLE_NAME cannot be empty")
	}
	slog.Debug("Config loaded", "baseURL", cfg.BaseURL, "timeout", cfg.Timeout, "role", cfg.RoleName)
	return cfg, nil
}
