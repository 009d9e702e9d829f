package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"valign/internal/diag"
	"valign/internal/diagfmt"
	"valign/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Report misaligned code in files or directories",
		Long:  `Check lints JavaScript files, or every matching file under the given directories, and reports vertical alignment problems. Without paths the current directory is checked.`,
		RunE:  runCheck,
	}
	cmd.Flags().String("format", "", "output format (pretty|short|json|sarif); default from config")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	cmd.Flags().Bool("preview", false, "preview the text each fix would produce")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("cache", false, "answer unchanged files from the result cache")
	cmd.Flags().StringArray("rule", nil, "set a rule severity, name=off|info|warning|error (repeatable)")
	cmd.Flags().Int("max-warnings", -1, "exit with status 1 when more warnings than this are found (-1 = unlimited)")
	cmd.Flags().Bool("stdin", false, "lint source read from stdin")
	cmd.Flags().String("stdin-filename", "<stdin>", "file name reported for --stdin input")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := flags.GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := flags.GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	useCache, err := flags.GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	ruleFlags, err := flags.GetStringArray("rule")
	if err != nil {
		return fmt.Errorf("failed to get rule flag: %w", err)
	}
	maxWarnings, err := flags.GetInt("max-warnings")
	if err != nil {
		return fmt.Errorf("failed to get max-warnings flag: %w", err)
	}
	fromStdin, err := flags.GetBool("stdin")
	if err != nil {
		return fmt.Errorf("failed to get stdin flag: %w", err)
	}
	stdinName, err := flags.GetString("stdin-filename")
	if err != nil {
		return fmt.Errorf("failed to get stdin-filename flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return usageError(err)
	}
	if fromStdin && len(args) > 0 {
		return usageError(fmt.Errorf("--stdin cannot be combined with paths"))
	}

	setup, err := prepareLint(cmd, g, args, ruleFlags, useCache)
	if err != nil {
		return err
	}
	cfg := setup.cfg
	if format == "" {
		format = cfg.Output.Format
	}
	pathMode, err := diagfmt.ParsePathMode(cfg.Output.PathMode)
	if err != nil {
		return usageError(err)
	}
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var res *driver.Result
	if fromStdin {
		res, err = driver.LintSource(cmd.Context(), stdinName, cmd.InOrStdin(), setup.opts)
	} else {
		var files []string
		if files, err = expandFiles(cfg, args); err != nil {
			return err
		}
		fs := newFileSet()
		tui := !g.quiet && (format == "pretty" || format == "short") && shouldUseTUI(mode, errOut)
		if tui {
			res, err = runLintWithUI(cmd.Context(), errOut, "valign check", fs, files, setup.opts)
		} else {
			res, err = driver.LintPaths(cmd.Context(), fs, files, setup.opts)
		}
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	bag := res.Bag(cfg.MaxDiagnostics)
	errs, warns, _ := bag.Counts()
	if g.quiet {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity == diag.SevError })
	}
	if g.timings {
		if format == "json" || format == "sarif" {
			driver.AppendTiming(bag, res.Timer.Report(), "pipeline", "")
		} else {
			fmt.Fprint(errOut, res.Timer.Summary())
		}
	}

	opts := renderOptions{
		format:   format,
		color:    useColor(cfg.Output.Color, out),
		pathMode: pathMode,
		notes:    withNotes,
		fixes:    suggest || preview,
		preview:  preview,
		args:     os.Args,
	}
	if err := renderDiagnostics(out, bag, res.FileSet, opts); err != nil {
		return err
	}
	if format == "pretty" && !g.quiet {
		if line := summaryLine(bag); line != "" {
			fmt.Fprintf(out, "\n%s\n", line)
		}
	}

	switch {
	case errs > 0:
		return &exitError{code: exitFindings}
	case maxWarnings >= 0 && warns > maxWarnings:
		fmt.Fprintf(errOut, "valign: too many warnings (%d, max %d)\n", warns, maxWarnings)
		return &exitError{code: exitFindings}
	}
	return nil
}
