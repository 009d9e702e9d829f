package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"valign/internal/diag"
	"valign/internal/driver"
	"valign/internal/fix"
	"valign/internal/source"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] [paths...]",
		Short: "Rewrite alignment padding in files or directories",
		Long:  "Lint the given files, then apply the available fixes according to the chosen strategy. Fixes only touch whitespace.",
		RunE:  runFix,
	}
	cmd.Flags().Bool("all", false, "apply all safe fixes (default)")
	cmd.Flags().Bool("once", false, "apply only the first available fix")
	cmd.Flags().String("id", "", "apply the fix with a specific identifier")
	cmd.Flags().Bool("diff", false, "print a unified diff instead of writing files")
	cmd.Flags().Bool("stdin", false, "fix source read from stdin and print the result")
	cmd.Flags().String("stdin-filename", "<stdin>", "file name reported for --stdin input")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().StringArray("rule", nil, "set a rule severity, name=off|info|warning|error (repeatable)")
	return cmd
}

func readApplyOptions(cmd *cobra.Command) (fix.ApplyOptions, error) {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fix.ApplyOptions{}, err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fix.ApplyOptions{}, usageError(fmt.Errorf("--id cannot be combined with --all or --once"))
	}
	if applyAll && applyOnce {
		return fix.ApplyOptions{}, usageError(fmt.Errorf("--all and --once are mutually exclusive"))
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeAll}
	switch {
	case targetID != "":
		opts = fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: targetID}
	case applyOnce:
		opts.Mode = fix.ApplyModeOnce
	}
	return opts, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	applyOpts, err := readApplyOptions(cmd)
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	fromStdin, err := cmd.Flags().GetBool("stdin")
	if err != nil {
		return err
	}
	stdinName, err := cmd.Flags().GetString("stdin-filename")
	if err != nil {
		return err
	}
	ruleFlags, err := cmd.Flags().GetStringArray("rule")
	if err != nil {
		return err
	}
	if fromStdin && len(args) > 0 {
		return usageError(fmt.Errorf("--stdin cannot be combined with paths"))
	}

	setup, err := prepareLint(cmd, g, args, ruleFlags, false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if fromStdin {
		return runFixStdin(cmd, setup, stdinName, applyOpts)
	}

	files, err := expandFiles(setup.cfg, args)
	if err != nil {
		return err
	}
	fs := newFileSet()
	res, applyErr := driver.FixPaths(cmd.Context(), fs, files, setup.opts, applyOpts)
	if res == nil {
		return fmt.Errorf("fix failed: %w", applyErr)
	}
	if g.timings {
		defer fmt.Fprint(errOut, res.Lint.Timer.Summary())
	}

	exit := reportBlockingErrors(errOut, res.Lint)

	if showDiff {
		text, err := fix.Diffs(res.Apply, fs.BaseDir())
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, text); err != nil {
			return err
		}
		return exit
	}

	if applyErr == nil {
		if err := fix.Write(fs, res.Apply); err != nil {
			return fmt.Errorf("fix: %w", err)
		}
	}
	if !g.quiet || (applyErr != nil && !errors.Is(applyErr, fix.ErrNoFixes)) {
		if err := handleApplyResult(out, res.Apply, applyErr); err != nil {
			return err
		}
	}
	return exit
}

// runFixStdin prints the fixed text, or the input unchanged when nothing
// applies. Line endings and BOM of the input are kept.
func runFixStdin(cmd *cobra.Command, setup *lintSetup, name string, applyOpts fix.ApplyOptions) error {
	lres, err := driver.LintSource(cmd.Context(), name, cmd.InOrStdin(), setup.opts)
	if err != nil {
		return usageError(err)
	}
	exit := reportBlockingErrors(cmd.ErrOrStderr(), lres)

	fr, applyErr := driver.Fix(lres, applyOpts, nil)
	if applyErr != nil && !errors.Is(applyErr, fix.ErrNoFixes) {
		return applyErr
	}
	id := lres.Files[0].FileID
	file := lres.FileSet.Get(id)
	text := file.Content
	if after, ok := fr.Apply.Changed(id); ok {
		text = after
	}
	if _, err := cmd.OutOrStdout().Write(fix.RestoreEncoding(file.Flags, text)); err != nil {
		return err
	}
	return exit
}

// reportBlockingErrors prints load, syntax and engine errors, which no
// fix can resolve, and returns the exit error they cause.
func reportBlockingErrors(w io.Writer, res *driver.Result) error {
	bag := diag.NewBag(0)
	for _, d := range res.Diagnostics() {
		if d.Severity == diag.SevError && !d.Code.IsFinding() {
			bag.Add(d)
		}
	}
	if bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), res.FileSet, false))
	return &exitError{code: exitFindings}
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}

	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", displayPath(change.Path), change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			_, err := fmt.Fprintln(out, "No applicable fixes found.")
			return err
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		_, err := fmt.Fprintln(out, "No fixes applied.")
		return err
	}
	return nil
}

func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := source.RelativePath(p, wd)
	if err != nil {
		return p
	}
	return rel
}
