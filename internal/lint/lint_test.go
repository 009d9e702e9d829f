package lint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/parser"
	"valign/internal/source"
)

type testRule struct {
	meta   Meta
	create func(ctx *Context) Handlers
}

func (r testRule) Meta() Meta                   { return r.meta }
func (r testRule) Create(ctx *Context) Handlers { return r.create(ctx) }

func newRule(name string, create func(ctx *Context) Handlers) testRule {
	return testRule{
		meta: Meta{
			Name:     name,
			Code:     diag.LintVerticalAlign,
			Severity: diag.SevWarning,
		},
		create: create,
	}
}

type lintInput struct {
	file *source.File
	tree *ast.Tree
}

func parse(t *testing.T, src string) lintInput {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.js", []byte(src)))
	bag := diag.NewBag(0)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	return lintInput{file: file, tree: res.Tree}
}

func run(t *testing.T, in lintInput, rules ...Rule) (*diag.Bag, error) {
	t.Helper()
	bag := diag.NewBag(0)
	opts := Options{Bag: bag}
	for _, r := range rules {
		opts.Rules = append(opts.Rules, Configured{Rule: r, Severity: r.Meta().Severity})
	}
	return bag, Run(context.Background(), in.file, in.tree, opts)
}

func TestInterpolate(t *testing.T) {
	data := map[string]any{"expected": 3, "found": 1, "key": "a"}
	tests := []struct {
		in, want string
	}{
		{"Expected {{expected}} spaces but found {{found}}", "Expected 3 spaces but found 1"},
		{"{{ key }} here", "a here"},
		{"{{missing}} stays", "{{missing}} stays"},
		{"unterminated {{key", "unterminated {{key"},
		{"no placeholders", "no placeholders"},
		{"{{key}}{{key}}", "aa"},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.in, data); got != tt.want {
			t.Errorf("Interpolate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Interpolate("{{x}}", nil); got != "{{x}}" {
		t.Errorf("nil data: %q", got)
	}
}

func TestCollectSuppressions(t *testing.T) {
	in := parse(t, strings.Join([]string{
		"a = 1; // valign-disable-line",
		"// valign-disable-next-line fake -- generated table",
		"b = 2;",
		"c = 3; /* valign-disable-line other, fake2 */",
		"d = 4; // valign-disable-lines is not a directive",
		"",
	}, "\n"))
	lines, err := in.file.Lines()
	if err != nil {
		t.Fatal(err)
	}
	s := CollectSuppressions(in.tree, lines)

	tests := []struct {
		line  int
		rule  string
		muted bool
	}{
		{0, "anything", true},
		{1, "fake", false},
		{2, "fake", true},
		{2, "other", false},
		{3, "other", true},
		{3, "fake2", true},
		{3, "fake", false},
		{4, "anything", false},
	}
	for _, tt := range tests {
		if got := s.Muted(tt.line, tt.rule); got != tt.muted {
			t.Errorf("Muted(%d, %q) = %v, want %v", tt.line, tt.rule, got, tt.muted)
		}
	}

	var none *Suppressions
	if none.Muted(0, "x") {
		t.Error("nil suppressions mute lines")
	}
}

func TestRegistry(t *testing.T) {
	noop := func(*Context) Handlers { return nil }
	r := NewRegistry()
	r.Register(newRule("vertical-align", noop))
	r.Register(newRule("no-tabs", noop))

	if diff := cmp.Diff([]string{"no-tabs", "vertical-align"}, r.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if _, ok := r.Lookup("vertical-align"); !ok {
		t.Error("lookup failed")
	}
	if got := r.Suggest("vertical-algn"); got != "vertical-align" {
		t.Errorf("Suggest = %q", got)
	}
	if got := r.Suggest("zzzzzzzzzz"); got != "" {
		t.Errorf("Suggest for garbage = %q", got)
	}

	_, err := r.Resolve("vertcal-align")
	var unknown *UnknownRuleError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v", err)
	}
	if unknown.Suggestion != "vertical-align" || !strings.Contains(err.Error(), "did you mean") {
		t.Errorf("err = %v", err)
	}

	assertPanics(t, "duplicate", func() { r.Register(newRule("no-tabs", noop)) })
	assertPanics(t, "empty name", func() { r.Register(newRule("", noop)) })
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestRunDispatchOrder(t *testing.T) {
	in := parse(t, "x = {a: 1, b: 2};\n")
	var events []string
	record := func(ctx *Context, prefix string) Handler {
		return func(id ast.NodeID) error {
			events = append(events, prefix+" "+ctx.Text(ctx.Tree().Span(id)))
			return nil
		}
	}
	first := newRule("first", func(ctx *Context) Handlers {
		return Handlers{
			ast.ObjectExpression: record(ctx, "first:object"),
			ast.Property:         record(ctx, "first:prop"),
		}
	})
	second := newRule("second", func(ctx *Context) Handlers {
		return Handlers{ast.Property: record(ctx, "second:prop"), ast.Literal: nil}
	})

	bag, err := run(t, in, first, second)
	if err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
	want := []string{
		"first:object {a: 1, b: 2}",
		"first:prop a: 1",
		"second:prop a: 1",
		"first:prop b: 2",
		"second:prop b: 2",
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestReportBuildsDiagnosticAndFix(t *testing.T) {
	in := parse(t, "x = {\n  a:1,\n  // valign-disable-next-line spacing\n  b:2,\n};\n")
	var ctxSeen *Context
	rule := newRule("spacing", func(ctx *Context) Handlers {
		ctxSeen = ctx
		return Handlers{ast.Property: func(id ast.NodeID) error {
			key := ctx.Tree().Property(id).Key
			ctx.Report(Report{
				Node:            id,
				MessageTemplate: "Expected a space after {{key}}",
				Data:            map[string]any{"key": ctx.Tree().Name(key)},
				Fix: func(f *Fixer) []diag.TextEdit {
					colon := ctx.TokensBetween(ctx.Tree().Span(key), ctx.Tree().Span(ctx.Tree().Property(id).Value))
					return []diag.TextEdit{f.InsertAfter(colon[0].Span, " ")}
				},
			})
			return nil
		}}
	})

	bag, err := run(t, in, rule)
	if err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 1 || ctxSeen.Reported() != 1 {
		t.Fatalf("got %d diagnostics, reported %d", bag.Len(), ctxSeen.Reported())
	}
	d := bag.Items()[0]
	if d.Message != "Expected a space after a" || d.Rule != "spacing" || d.Code != diag.LintVerticalAlign || d.Severity != diag.SevWarning {
		t.Errorf("diagnostic = %+v", d)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	f := d.Fixes[0]
	if f.ID != "" || !f.IsPreferred || f.Title != "fix spacing" {
		t.Errorf("fix = %+v", f)
	}
	if len(f.Edits) != 1 || f.Edits[0].NewText != " " || in.file.Slice(source.Span{Start: 0, End: f.Edits[0].Span.Start}) != "x = {\n  a:" {
		t.Errorf("edit = %+v", f.Edits)
	}
	if len(ctxSeen.Options()) != 0 {
		t.Errorf("options = %v", ctxSeen.Options())
	}
}

func TestFixerGuardsReplacedText(t *testing.T) {
	in := parse(t, "a  =  1;\n")
	f := &Fixer{file: in.file, tree: in.tree}
	sp := source.Span{File: in.file.ID, Start: 1, End: 3}

	if e := f.ReplaceText(sp, " "); e.OldText != "  " || e.NewText != " " {
		t.Errorf("ReplaceText = %+v", e)
	}
	if e := f.Remove(sp); e.OldText != "  " || e.NewText != "" {
		t.Errorf("Remove = %+v", e)
	}
	if e := f.InsertBefore(sp, "x"); e.Span.Start != 1 || e.Span.End != 1 || e.OldText != "" {
		t.Errorf("InsertBefore = %+v", e)
	}
	if e := f.InsertAfter(sp, "x"); e.Span.Start != 3 || e.Span.End != 3 {
		t.Errorf("InsertAfter = %+v", e)
	}
}

func TestRunRecoversPanickingRule(t *testing.T) {
	in := parse(t, "a = b + c;\n")
	seen := 0
	bad := newRule("bad", func(*Context) Handlers {
		return Handlers{ast.Identifier: func(ast.NodeID) error { panic("boom") }}
	})
	good := newRule("good", func(*Context) Handlers {
		return Handlers{ast.Identifier: func(ast.NodeID) error { seen++; return nil }}
	})

	bag, err := run(t, in, bad, good)
	if err != nil {
		t.Fatal(err)
	}
	if seen != 3 {
		t.Errorf("good rule saw %d identifiers, want 3", seen)
	}
	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics, want one panic report", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.EngRulePanic || d.Rule != "bad" || !strings.Contains(d.Message, "boom") {
		t.Errorf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg == "" {
		t.Errorf("missing stack note: %+v", d.Notes)
	}
}

func TestRunHandlerErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode diag.Code
	}{
		{"malformed line table", fmt.Errorf("lines: %w", source.ErrUnsortedLineTable), diag.EngMalformedLines},
		{"other failure", errors.New("cannot continue"), diag.EngRulePanic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := parse(t, "a = 1;\nb = 2;\n")
			calls := 0
			rule := newRule("failing", func(*Context) Handlers {
				return Handlers{ast.ExpressionStatement: func(ast.NodeID) error {
					calls++
					return tt.err
				}}
			})

			bag, err := run(t, in, rule)
			if !errors.Is(err, ErrRuleFailed) || !errors.Is(err, tt.err) {
				t.Fatalf("err = %v", err)
			}
			if calls != 1 {
				t.Errorf("handler called %d times after failing", calls)
			}
			if bag.Len() != 1 {
				t.Fatalf("diagnostics = %v", bag.Items())
			}
			if d := bag.Items()[0]; d.Code != tt.wantCode || d.Rule != "failing" || d.Severity != diag.SevError {
				t.Errorf("diagnostic = %+v", d)
			}
		})
	}
}

func TestRunWithBrokenLineTable(t *testing.T) {
	in := parse(t, "x = {a: 1};\n")
	in.file.LineStarts = []uint32{4, 2}
	rule := newRule("lines", func(ctx *Context) Handlers {
		return Handlers{ast.Property: func(id ast.NodeID) error {
			if _, err := ctx.File().Lines(); err != nil {
				return err
			}
			ctx.Report(Report{Node: id, MessageTemplate: "unreachable"})
			return nil
		}}
	})
	bag, err := run(t, in, rule)
	if !errors.Is(err, source.ErrUnsortedLineTable) {
		t.Fatalf("err = %v", err)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.EngMalformedLines {
		t.Errorf("diagnostics = %v", bag.Items())
	}
}

func TestRunHonoursContextAndBag(t *testing.T) {
	in := parse(t, "a;\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, in.file, in.tree, Options{Bag: diag.NewBag(0)}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled run: %v", err)
	}
	if err := Run(context.Background(), in.file, in.tree, Options{}); err == nil {
		t.Error("run without a bag succeeded")
	}
}
