package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"valign/internal/align"
	"valign/internal/cache"
	"valign/internal/diag"
	"valign/internal/fix"
	"valign/internal/lint"
	"valign/internal/source"
)

const misaligned = "const {\n  a = 1,\n  bbbb = 2,\n} = obj;\n"

func alignRules() []lint.Configured {
	return []lint.Configured{{Rule: align.Rule{}, Severity: diag.SevWarning}}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, rel string
		want         bool
	}{
		{"**/*.js", "a.js", true},
		{"**/*.js", "src/deep/a.js", true},
		{"**/*.js", "a.ts", false},
		{"node_modules/**", "node_modules/x/y.js", true},
		{"node_modules/**", "src/node_modules/y.js", false},
		{"src/*.js", "src/a.js", true},
		{"src/*.js", "src/sub/a.js", false},
		{"**/test/**", "a/test/b/c.js", true},
		{"[", "x", false},
	}
	for _, tt := range tests {
		if got := Match(tt.pattern, tt.rel); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.rel, got, tt.want)
		}
	}
}

func TestExpandPaths(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.js":                "",
		"src/b.mjs":           "",
		"src/c.ts":            "",
		"node_modules/x/i.js": "",
		"dist/bundle.js":      "",
		"explicit/notjs.txt":  "",
	})
	include := []string{"**/*.js", "**/*.mjs"}
	exclude := []string{"node_modules/**", "dist/**"}

	got, err := ExpandPaths([]string{root, filepath.Join(root, "explicit", "notjs.txt"), filepath.Join(root, "a.js")}, include, exclude)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "a.js"),
		filepath.Join(root, "explicit", "notjs.txt"),
		filepath.Join(root, "src", "b.mjs"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	if _, err := ExpandPaths([]string{filepath.Join(root, "src")}, []string{"**/*.cjs"}, nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
	if _, err := ExpandPaths([]string{filepath.Join(root, "missing")}, include, nil); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) final(file string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last Status
	for _, e := range r.events {
		if e.File == file {
			last = e.Status
		}
	}
	return last
}

func TestLintPaths(t *testing.T) {
	root := writeTree(t, map[string]string{
		"bad.js":    misaligned,
		"good.js":   "const {\n  a    = 1,\n  bbbb = 2,\n} = obj;\n",
		"broken.js": "const {\n",
	})
	files, err := ExpandPaths([]string{root}, []string{"**/*.js"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, filepath.Join(root, "gone.js"))

	rec := &recorder{}
	fs := source.NewFileSetWithBase(root)
	res, err := LintPaths(context.Background(), fs, files, LintOptions{Rules: alignRules(), Jobs: 2, Progress: rec, Timings: true})
	if err != nil {
		t.Fatalf("LintPaths: %v", err)
	}

	got := diag.FormatShortDiagnostics(res.Bag(0).Items(), fs, false)
	for _, want := range []string{
		"warning LNT3001 bad.js:2:",
		"error SYN",
		"error IO5001 gone.js:1:1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "good.js") {
		t.Errorf("aligned file must be clean:\n%s", got)
	}

	if s := rec.final(filepath.Join(root, "bad.js")); s != StatusDone {
		t.Errorf("bad.js final status = %q", s)
	}
	if s := rec.final(filepath.Join(root, "broken.js")); s != StatusError {
		t.Errorf("broken.js final status = %q", s)
	}
	if s := rec.final(filepath.Join(root, "gone.js")); s != StatusError {
		t.Errorf("gone.js final status = %q", s)
	}
	if report := res.Timer.Report(); len(report.Phases) < 3 {
		t.Errorf("expected load/parse/lint timings, got %+v", report.Phases)
	}
}

func TestLintPathsCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.js": misaligned})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LintPaths(ctx, source.NewFileSet(), []string{filepath.Join(root, "a.js")}, LintOptions{Rules: alignRules()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLintFileUsesCache(t *testing.T) {
	store, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	root := writeTree(t, map[string]string{"a.js": misaligned})
	path := filepath.Join(root, "a.js")
	opts := LintOptions{Rules: alignRules(), Cache: store, Version: "test", Fingerprint: "vertical-align:WARNING;"}

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	first := LintFile(context.Background(), fs, id, opts)
	if first.Cached || first.Bag.Len() != 1 {
		t.Fatalf("first run: cached=%v diags=%d", first.Cached, first.Bag.Len())
	}

	fs2 := source.NewFileSet()
	fs2.AddVirtual("other.js", nil)
	id2, err := fs2.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	second := LintFile(context.Background(), fs2, id2, opts)
	if !second.Cached {
		t.Fatal("second run must be answered from the cache")
	}
	type brief struct {
		Code       diag.Code
		Severity   diag.Severity
		Message    string
		Start, End uint32
		File       source.FileID
	}
	summarize := func(ds []diag.Diagnostic) []brief {
		out := make([]brief, 0, len(ds))
		for _, d := range ds {
			out = append(out, brief{d.Code, d.Severity, d.Message, d.Primary.Start, d.Primary.End, d.Primary.File})
		}
		return out
	}
	want := summarize(first.Bag.Items())
	for i := range want {
		want[i].File = id2
	}
	if diff := cmp.Diff(want, summarize(second.Bag.Items())); diff != "" {
		t.Fatalf("cached diagnostics differ (-want +got):\n%s", diff)
	}
	if fixes := second.Bag.Items()[0].Fixes; len(fixes) == 0 || len(fixes[0].Edits) == 0 {
		t.Fatalf("cached diagnostic lost its fix: %+v", fixes)
	}

	opts.Fingerprint = "vertical-align:ERROR;"
	if third := LintFile(context.Background(), fs2, id2, opts); third.Cached {
		t.Fatal("a different rule fingerprint must miss the cache")
	}
}

func TestLintSource(t *testing.T) {
	res, err := LintSource(context.Background(), "<stdin>", strings.NewReader("\ufeffx = 1;\r\nyyy = 2;\r\n"), LintOptions{Rules: alignRules()})
	if err != nil {
		t.Fatal(err)
	}
	f := res.FileSet.Get(res.Files[0].FileID)
	if f.Flags&source.FileVirtual == 0 || f.Flags&source.FileHadBOM == 0 || f.Flags&source.FileNormalizedCRLF == 0 {
		t.Fatalf("unexpected flags %v", f.Flags)
	}
	if n := res.Files[0].Bag.Len(); n != 0 {
		t.Fatalf("top-level assignments are ignored by default, got %d diagnostics", n)
	}
}

func TestTimingDiagnostic(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Message: "fill"})
	AppendTiming(bag, (&Result{}).Timer.Report(), "", "a.js")
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("timing must be added past the cap, got %d items", len(items))
	}
	d := items[1]
	if d.Code != diag.ObsTimings || !strings.HasPrefix(d.Message, "timings (pipeline): total 0.00 ms, a.js") {
		t.Fatalf("unexpected timing diagnostic: %+v", d)
	}
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"kind":"pipeline"`) {
		t.Fatalf("unexpected payload: %+v", d.Notes)
	}
}

func TestFixPaths(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.js": misaligned,
		"b.js": "let {\n  x  = 1,\n  yy = 2,\n} = o;\n",
	})
	files := []string{filepath.Join(root, "a.js"), filepath.Join(root, "b.js")}

	var stages []Stage
	var mu sync.Mutex
	sink := SinkFunc(func(e Event) {
		if e.File == "" {
			mu.Lock()
			stages = append(stages, e.Stage)
			mu.Unlock()
		}
	})

	fs := source.NewFileSetWithBase(root)
	res, err := FixPaths(context.Background(), fs, files, LintOptions{Rules: alignRules(), Progress: sink, Timings: true}, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatalf("FixPaths: %v", err)
	}
	if len(res.Apply.Applied) != 1 || len(res.Apply.FileChanges) != 1 {
		t.Fatalf("expected one fix in one file, got %+v", res.Apply)
	}
	after, ok := res.Apply.Changed(res.Lint.Files[0].FileID)
	if !ok {
		t.Fatal("a.js must change")
	}
	if want := "const {\n  a    = 1,\n  bbbb = 2,\n} = obj;\n"; string(after) != want {
		t.Fatalf("fixed text = %q, want %q", after, want)
	}
	if diff := cmp.Diff([]Stage{StageFix, StageFix}, stages); diff != "" {
		t.Fatalf("run-level events (-want +got):\n%s", diff)
	}
	if !strings.Contains(res.Lint.Timer.Summary(), "fix") {
		t.Fatalf("fix phase must be timed:\n%s", res.Lint.Timer.Summary())
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != misaligned {
		t.Fatal("FixPaths must not write files")
	}
}

func TestFixCleanRun(t *testing.T) {
	root := writeTree(t, map[string]string{"ok.js": "const a = 1;\n"})
	_, err := FixPaths(context.Background(), source.NewFileSet(), []string{filepath.Join(root, "ok.js")}, LintOptions{Rules: alignRules()}, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("expected fix.ErrNoFixes, got %v", err)
	}
}

func TestParseFileReportsEachErrorOnce(t *testing.T) {
	type key struct {
		code diag.Code
		span source.Span
		msg  string
	}
	for _, src := range []string{
		"f(a, b\n",
		"x = {\n  a: 1,\n  b:\n};\n",
		"if (a {\n  b = (c;\n",
		"class { m( }\n",
	} {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("broken.js", []byte(src)))
		bag := diag.NewBag(0)
		if _, err := parseFile(file, bag, 0); err != nil {
			t.Fatal(err)
		}
		if bag.Len() == 0 {
			t.Errorf("%q: no syntax errors reported", src)
		}
		seen := map[key]bool{}
		for _, d := range bag.Items() {
			k := key{d.Code, d.Primary, d.Message}
			if seen[k] {
				t.Errorf("%q: %s %q reported twice", src, d.Code.ID(), d.Message)
			}
			seen[k] = true
		}
	}
}
