package main

import (
	"fmt"
	"io"
	"strings"

	"valign/internal/diag"
	"valign/internal/diagfmt"
	"valign/internal/lint"
	"valign/internal/source"
	"valign/internal/version"
)

type renderOptions struct {
	format   string
	color    bool
	pathMode diagfmt.PathMode
	notes    bool
	fixes    bool
	preview  bool
	args     []string
}

func renderDiagnostics(out io.Writer, bag *diag.Bag, fs *source.FileSet, opts renderOptions) error {
	switch opts.format {
	case "pretty":
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:       opts.color,
			Context:     2,
			PathMode:    opts.pathMode,
			ShowNotes:   opts.notes,
			ShowFixes:   opts.fixes,
			ShowPreview: opts.preview,
		})
		return nil
	case "short":
		output := diag.FormatShortDiagnostics(bag.Items(), fs, opts.notes)
		if output != "" {
			_, err := fmt.Fprintln(out, output)
			return err
		}
		return nil
	case "json":
		err := diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.notes,
			IncludeFixes:     opts.fixes,
			IncludePreviews:  opts.preview,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	case "sarif":
		return diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "valign",
			ToolVersion:    strings.TrimSpace(version.Version),
			InvocationArgs: opts.args,
			Rules:          ruleMetas(),
		})
	}
	return usageError(fmt.Errorf("unknown format: %s", opts.format))
}

func ruleMetas() []lint.Meta {
	rules := lint.Rules()
	metas := make([]lint.Meta, len(rules))
	for i, r := range rules {
		metas[i] = r.Meta()
	}
	return metas
}

// summaryLine is the closing "N problems" line of pretty output.
func summaryLine(bag *diag.Bag) string {
	errs, warns, infos := bag.Counts()
	total := errs + warns + infos
	if total == 0 {
		return ""
	}
	noun := "problems"
	if total == 1 {
		noun = "problem"
	}
	s := fmt.Sprintf("%d %s (%d errors, %d warnings)", total, noun, errs, warns)
	if n := bag.Dropped(); n > 0 {
		s += fmt.Sprintf(", %d more not shown", n)
	}
	return s
}
