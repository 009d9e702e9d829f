package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"valign/internal/cache"
	"valign/internal/config"
	"valign/internal/driver"
	"valign/internal/lint"
	"valign/internal/source"
	"valign/internal/version"
)

type lintSetup struct {
	cfg  *config.Config
	opts driver.LintOptions
}

// prepareLint loads configuration for paths, resolves the rule set with
// the --rule overrides and opens the cache when enabled.
func prepareLint(cmd *cobra.Command, g globals, paths, ruleFlags []string, forceCache bool) (*lintSetup, error) {
	cfg, err := loadConfig(cmd, g, startDir(paths))
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("jobs") {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return nil, err
		}
		if jobs < 0 {
			return nil, usageError(fmt.Errorf("--jobs must be >= 0, got %d", jobs))
		}
		cfg.Jobs = jobs
	}

	overrides := make([]config.RuleOverride, 0, len(ruleFlags))
	for _, raw := range ruleFlags {
		o, err := config.ParseRuleOverride(raw)
		if err != nil {
			return nil, usageError(err)
		}
		overrides = append(overrides, o)
	}
	rules, err := cfg.ResolveRules(lint.Default(), overrides)
	if err != nil {
		return nil, usageError(err)
	}

	opts := driver.LintOptions{
		Rules:          rules,
		MaxDiagnostics: cfg.MaxDiagnostics,
		Jobs:           cfg.Jobs,
		Version:        version.CacheKey(),
		Fingerprint:    config.Fingerprint(rules),
		Logger:         slog.Default(),
		Timings:        g.timings,
	}
	if cfg.Cache.Enabled || forceCache {
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, usageError(err)
		}
		store, err := cache.Open(dir)
		if err != nil {
			// A broken cache only costs speed.
			slog.Warn("cache disabled", "dir", dir, "err", err)
		} else {
			opts.Cache = store
		}
	}
	return &lintSetup{cfg: cfg, opts: opts}, nil
}

// expandFiles resolves command-line paths against the configured globs.
func expandFiles(cfg *config.Config, paths []string) ([]string, error) {
	files, err := driver.ExpandPaths(paths, cfg.Include, cfg.Exclude)
	if err != nil {
		if errors.Is(err, driver.ErrNoFiles) {
			return nil, usageError(fmt.Errorf("no files matching %v", paths))
		}
		return nil, usageError(err)
	}
	return files, nil
}

// newFileSet returns a FileSet rooted at the working directory so that
// relative display paths are stable.
func newFileSet() *source.FileSet {
	if wd, err := os.Getwd(); err == nil {
		return source.NewFileSetWithBase(wd)
	}
	return source.NewFileSet()
}
