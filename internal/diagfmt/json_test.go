package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"valign/internal/diag"
	"valign/internal/fix"
	"valign/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("function main() {\n\tlet x = \"unterminated\n}")
	fileID := fs.AddVirtual("test.js", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: fileID, Start: 27, End: 40}, "Unterminated string literal"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}

	want := DiagnosticsOutput{
		Count:  1,
		Errors: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "LEX1002",
			Message:  "Unterminated string literal",
			Location: LocationJSON{
				File:      "test.js",
				StartByte: 27,
				EndByte:   40,
				StartLine: 2,
				StartCol:  10,
				EndLine:   2,
				EndCol:    23,
			},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONFindingWithFix(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.js", []byte("const {\n  a = 1,\n  bb = 2,\n} = opts;\n"))

	spacing := source.Span{File: fileID, Start: 11, End: 12}
	d := diag.New(diag.SevWarning, diag.LintVerticalAlign, spacing, "Expected 2 spaces after key but found 1")
	d.Rule = "vertical-align"
	d.Fixes = append(d.Fixes, fix.ReplaceSpan("fix vertical-align", spacing, "  ", " ", fix.Preferred()))

	bag := diag.NewBag(4)
	bag.Add(d)

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{
		PathMode:        PathModeBasename,
		IncludeFixes:    true,
		IncludePreviews: true,
	})
	if output.Warnings != 1 || output.Errors != 0 {
		t.Fatalf("counts = %d errors, %d warnings", output.Errors, output.Warnings)
	}

	got := output.Diagnostics[0]
	if got.Rule != "vertical-align" || got.Code != "LNT3001" {
		t.Fatalf("rule/code = %q/%q", got.Rule, got.Code)
	}
	if got.Location.StartLine != 0 {
		t.Fatalf("positions must be omitted, got line %d", got.Location.StartLine)
	}

	wantFix := FixJSON{
		Title:         "fix vertical-align",
		Kind:          "quickfix",
		Applicability: "always-safe",
		IsPreferred:   true,
		Edits: []FixEditJSON{{
			Location: LocationJSON{File: "a.js", StartByte: 11, EndByte: 12},
			NewText:  "  ",
			OldText:  " ",
		}},
		BeforeLines: []string{"  a = 1,"},
		AfterLines:  []string{"  a  = 1,"},
	}
	if diff := cmp.Diff([]FixJSON{wantFix}, got.Fixes); diff != "" {
		t.Fatalf("fix mismatch (-want +got):\n%s", diff)
	}
}

var errBoom = errors.New("boom")

func TestJSONThunkError(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.js", []byte("x = 1;\n"))

	d := diag.New(diag.SevWarning, diag.LintVerticalAlign, source.Span{File: fileID, Start: 1, End: 2}, "m")
	d.Fixes = []diag.Fix{{
		Title: "lazy",
		Thunk: func(diag.FixBuildContext) (diag.Fix, error) {
			return diag.Fix{}, errBoom
		},
	}}
	bag := diag.NewBag(1)
	bag.Add(d)

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true})
	fixes := output.Diagnostics[0].Fixes
	if len(fixes) != 1 || fixes[0].BuildError == "" || len(fixes[0].Edits) != 0 {
		t.Fatalf("unexpected fixes: %+v", fixes)
	}
}

func TestJSONMaxAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.js", []byte("a = 1;\nb = 2;\n"))

	bag := diag.NewBag(10)
	for i := range 3 {
		start := uint32(i) // #nosec G115 -- small
		d := diag.New(diag.SevWarning, diag.LintVerticalAlign, source.Span{File: fileID, Start: start, End: start + 1}, "m")
		bag.Add(d.WithNote(source.Span{File: fileID, Start: 7, End: 8}, "related"))
	}
	timings := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: fileID}, "timings")
	bag.Add(timings.WithNote(source.Span{File: fileID}, "parse: 1ms"))

	limited := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if limited.Count != 2 || len(limited.Diagnostics) != 2 {
		t.Fatalf("Max not applied: count=%d", limited.Count)
	}
	if limited.Diagnostics[0].Notes != nil {
		t.Fatal("notes must be omitted unless requested")
	}

	all := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	last := all.Diagnostics[len(all.Diagnostics)-1]
	if len(last.Notes) != 1 || last.Notes[0].Message != "parse: 1ms" {
		t.Fatalf("timing notes are always included, got %+v", last.Notes)
	}
}
