// Package config loads .valign.toml or .valign.yaml files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"valign/internal/diagfmt"
)

// Config is the top-level configuration. Path is the file it was loaded
// from; empty when only defaults apply.
type Config struct {
	Include        []string              `toml:"include" yaml:"include"`
	Exclude        []string              `toml:"exclude" yaml:"exclude"`
	Jobs           int                   `toml:"jobs" yaml:"jobs"`
	MaxDiagnostics int                   `toml:"max_diagnostics" yaml:"max_diagnostics"`
	Cache          CacheConfig           `toml:"cache" yaml:"cache"`
	Output         OutputConfig          `toml:"output" yaml:"output"`
	Rules          map[string]RuleConfig `toml:"rules" yaml:"rules"`

	Path string `toml:"-" yaml:"-"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

type OutputConfig struct {
	Format   string `toml:"format" yaml:"format"`
	Color    string `toml:"color" yaml:"color"`
	PathMode string `toml:"path_mode" yaml:"path_mode"`
}

// RuleConfig is one [rules.<name>] table: the "severity" key plus the
// rule's own options.
type RuleConfig map[string]any

// Severity returns the configured severity, or "" when unset.
func (rc RuleConfig) Severity() string {
	s, _ := rc["severity"].(string)
	return strings.ToLower(strings.TrimSpace(s))
}

// Options returns every key except severity.
func (rc RuleConfig) Options() map[string]any {
	out := make(map[string]any, len(rc))
	for k, v := range rc {
		if k != "severity" {
			out[k] = v
		}
	}
	return out
}

var (
	// Formats lists the accepted output formats.
	Formats = []string{"pretty", "short", "json", "sarif"}
	// ColorModes lists the accepted color settings.
	ColorModes = []string{"auto", "on", "off"}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Include:        []string{"**/*.js", "**/*.mjs", "**/*.cjs"},
		Exclude:        []string{"node_modules/**", "dist/**"},
		MaxDiagnostics: 500,
		Output: OutputConfig{
			Format:   "pretty",
			Color:    "auto",
			PathMode: "auto",
		},
	}
}

// Validate checks enumerated values and limits. Rule tables are checked
// separately by ResolveRules.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics must be >= 0, got %d", c.MaxDiagnostics)
	}
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("output.format: unknown format %q (want %s)", c.Output.Format, strings.Join(Formats, "|"))
	}
	if !slices.Contains(ColorModes, c.Output.Color) {
		return fmt.Errorf("output.color: unknown mode %q (want %s)", c.Output.Color, strings.Join(ColorModes, "|"))
	}
	if _, err := diagfmt.ParsePathMode(c.Output.PathMode); err != nil {
		return fmt.Errorf("output.path_mode: %w", err)
	}
	for _, pattern := range slices.Concat(c.Include, c.Exclude) {
		if _, err := filepath.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
			return fmt.Errorf("bad glob %q: %w", pattern, err)
		}
	}
	return nil
}

// CacheDir returns the configured cache directory or the per-user default.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cache directory: %w", err)
	}
	return filepath.Join(base, "valign"), nil
}
