package diag

import (
	"sync"
	"testing"

	"valign/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/sample.js", []byte("a\nb\n"), 0)
	otherFile := fs.Add("/workspace/lib/helper.js", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     LintVerticalAlign,
			Rule:     "vertical-align",
			Message:  "another",
			Primary:  source.Span{File: otherFile, Start: 0, End: 1},
		},
	}

	expected := "warning LNT3001 lib/helper.js:1:1 another (vertical-align)\n" +
		"error SYN2001 src/sample.js:1:1 first line second\n" +
		"note SYN2001 src/sample.js:2:1 note line"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatGoldenDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("empty input rendered %q", got)
	}

	short := "error SYN2001 src/sample.js:1:1 first line second\n" +
		"warning LNT3001 lib/helper.js:1:1 another (vertical-align)"
	if got := FormatShortDiagnostics(diags, fs, false); got != short {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", short, got)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynUnexpectedToken, "SYN2001"},
		{LintVerticalAlign, "LNT3001"},
		{EngMalformedLines, "LNT4001"},
		{IOLoadFileError, "IO5001"},
		{ObsTimings, "OBS6001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if !LintVerticalAlign.IsFinding() || EngMalformedLines.IsFinding() {
		t.Error("IsFinding classification is off")
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown title = %q", Code(9999).Title())
	}
}

func TestBagLimitAndCounts(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		bag.Add(New(SevWarning, LintVerticalAlign, source.Span{Start: uint32(i)}, "w"))
	}
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("severity checks wrong")
	}

	other := NewBag(0)
	other.Add(NewError(SynUnexpectedToken, source.Span{}, "e"))
	bag.Merge(other)
	e, w, i := bag.Counts()
	if e != 1 || w != 2 || i != 0 {
		t.Fatalf("counts = %d/%d/%d", e, w, i)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevWarning, LintVerticalAlign, source.Span{File: 0, Start: 5, End: 6}, "b"))
	bag.Add(New(SevInfo, LintInfo, source.Span{File: 0, Start: 1, End: 2}, "a"))
	bag.Add(New(SevError, SynUnexpectedToken, source.Span{File: 0, Start: 5, End: 6}, "c"))
	bag.Add(New(SevWarning, LintVerticalAlign, source.Span{File: 0, Start: 5, End: 6}, "b again"))
	bag.Dedup()
	bag.Sort()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items after dedup", len(items))
	}
	if items[0].Message != "a" || items[1].Severity != SevError || items[2].Code != LintVerticalAlign {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	bag := NewBag(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bag.Add(New(SevInfo, LintInfo, source.Span{}, "x"))
			}
		}()
	}
	wg.Wait()
	if bag.Len() != 400 {
		t.Fatalf("len = %d", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := NewReportBuilder(BagReporter{Bag: bag}, SevWarning, LintVerticalAlign, source.Span{Start: 1, End: 2}, "msg").
		WithNote(source.Span{Start: 3, End: 4}, "here")
	b.Emit()
	b.Emit()

	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("emitted %d times", len(items))
	}
	d := items[0]
	if d.Severity != SevWarning || len(d.Notes) != 1 || d.Notes[0].Msg != "here" || d.HasFix() {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(LexUnknownChar, SevError, sp, "unknown character", nil, nil)
	r.Report(LexUnknownChar, SevError, sp, "unknown character", nil, nil)
	r.Report(LexUnknownChar, SevError, sp, "different", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestFixResolveThunk(t *testing.T) {
	calls := 0
	f := Fix{
		ID:    "lazy",
		Title: "lazy fix",
		Thunk: func(ctx FixBuildContext) (Fix, error) {
			calls++
			return Fix{Edits: []TextEdit{{NewText: "x"}}}, nil
		},
	}
	out, err := MaterializeFixes(FixBuildContext{}, []Fix{f})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || out[0].ID != "lazy" || out[0].Title != "lazy fix" || out[0].Thunk != nil {
		t.Fatalf("unexpected resolved fix: %+v (calls=%d)", out[0], calls)
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"error": SevError, "Warn": SevWarning, " info ": SevInfo} {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSeverity("loud"); err == nil {
		t.Error("expected error for unknown severity")
	}
}
