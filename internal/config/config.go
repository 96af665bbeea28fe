// Package config holds the run configuration, built once at startup and
// passed by pointer into the resolver.
package config

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Output formats understood by the report package.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatTable    = "table"
	FormatJSON     = "json"
)

var formats = []string{FormatCSV, FormatMarkdown, FormatTable, FormatJSON}

// Config is the configuration of a single report run.
type Config struct {
	// Token is an optional GitHub token. Without it the API allows 60 requests/hour.
	Token      string        `env:"GITHUB_TOKEN"`
	APIURL     string        `env:"GITHUB_API_URL, default=https://api.github.com/"`
	DefaultOrg string        `env:"REPO_DEFAULT_ORG, default=desihub"`
	Pacing     time.Duration `env:"REPO_PACING, default=100ms"`

	// Set from flags.
	Output string
	Format string
}

// Load reads the environment through lookuper. A nil lookuper reads the
// process environment.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	cfg := &Config{Format: FormatCSV}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that flags may have overridden.
func (c *Config) Validate() error {
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("unknown output format %q (want one of %v)", c.Format, formats)
	}
	if c.Pacing < 0 {
		return fmt.Errorf("pacing cannot be negative: %s", c.Pacing)
	}
	if c.DefaultOrg == "" {
		return fmt.Errorf("default organization cannot be empty")
	}
	return nil
}

// Authenticated reports whether a token is configured.
func (c *Config) Authenticated() bool {
	return c.Token != ""
}
