package driver

import (
	"context"
	"errors"
	"fmt"

	"valign/internal/diag"
	"valign/internal/fix"
	"valign/internal/source"
)

// FixResult pairs the lint run with the fixes selected from it.
type FixResult struct {
	Lint  *Result
	Apply *fix.ApplyResult
}

// Fix applies the fixes found by a finished lint run in memory. Nothing
// is written; callers decide between fix.Write and fix.Diffs.
// fix.ErrNoFixes is returned as is so callers can treat it as a clean run.
func Fix(res *Result, opts fix.ApplyOptions, progress ProgressSink) (*FixResult, error) {
	if res == nil {
		return nil, errors.New("fix: nil lint result")
	}
	emit(progress, Event{Stage: StageFix, Status: StatusWorking})
	idx := res.Timer.Begin("fix")

	diagnostics := res.Diagnostics()
	diag.SortDiagnostics(diagnostics)
	applied, err := fix.Apply(res.FileSet, diagnostics, opts)

	note := ""
	if applied != nil {
		note = fmt.Sprintf("applied=%d files=%d", len(applied.Applied), len(applied.FileChanges))
	}
	res.Timer.End(idx, note)

	status := StatusDone
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		status = StatusError
	}
	emit(progress, Event{Stage: StageFix, Status: status, Err: err})
	return &FixResult{Lint: res, Apply: applied}, err
}

// FixPaths lints files into fs and applies their fixes in memory.
func FixPaths(ctx context.Context, fs *source.FileSet, files []string, lintOpts LintOptions, opts fix.ApplyOptions) (*FixResult, error) {
	res, err := LintPaths(ctx, fs, files, lintOpts)
	if err != nil {
		return nil, err
	}
	return Fix(res, opts, lintOpts.Progress)
}
