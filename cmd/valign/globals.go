package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"valign/internal/config"
	"valign/internal/logx"
)

type globals struct {
	configPath     string
	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readGlobals(cmd *cobra.Command) (globals, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		g   globals
		err error
	)
	if g.configPath, err = flags.GetString("config"); err != nil {
		return g, fmt.Errorf("failed to get config flag: %w", err)
	}
	if g.color, err = flags.GetString("color"); err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return g, nil
}

// setupGlobals installs the process logger on stderr.
func setupGlobals(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	level, err := flags.GetString("log-level")
	if err != nil {
		return err
	}
	format, err := flags.GetString("log-format")
	if err != nil {
		return err
	}
	if _, err := logx.Setup(cmd.ErrOrStderr(), level, format); err != nil {
		return usageError(err)
	}
	mode, err := flags.GetString("color")
	if err != nil {
		return err
	}
	if _, err := parseColorMode(mode); err != nil {
		return usageError(err)
	}
	return setupProfiling(cmd)
}

func parseColorMode(mode string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "auto", "on", "off":
		return m, nil
	}
	return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// useColor resolves a color mode for w and applies it to fatih/color.
func useColor(mode string, w io.Writer) bool {
	var on bool
	switch mode {
	case "on":
		on = true
	case "off":
		on = false
	default:
		on = isTerminal(w) && os.Getenv("NO_COLOR") == ""
	}
	color.NoColor = !on
	return on
}

// startDir is where configuration discovery begins for the given paths.
func startDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	p := paths[0]
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p
	}
	return filepath.Dir(p)
}

// loadConfig loads the configuration and applies the global overrides.
// The color setting from the file only applies when --color was not given.
func loadConfig(cmd *cobra.Command, g globals, dir string) (*config.Config, error) {
	cfg, err := config.Load(g.configPath, dir)
	if err != nil {
		return nil, usageError(err)
	}
	if cfg.Path != "" {
		slog.Info("configuration loaded", "path", cfg.Path)
	}
	if g.maxDiagnostics > 0 {
		cfg.MaxDiagnostics = g.maxDiagnostics
	}
	if cmd.Root().PersistentFlags().Changed("color") {
		cfg.Output.Color = g.color
	}
	return cfg, nil
}
