package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.js", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("test.js", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("test.js")
	if !exists || latestID != id2 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}

	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("old version content changed: %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "hello universe" {
		t.Errorf("new version content: %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 versions, got %d", fs.Len())
	}
}

func TestAddVirtualLineStarts(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("a\nbb\n\nc"))
	file := fs.Get(id)

	expected := []uint32{0, 2, 5, 6}
	if len(file.LineStarts) != len(expected) {
		t.Fatalf("Expected %d line starts, got %v", len(expected), file.LineStarts)
	}
	for i, val := range expected {
		if file.LineStarts[i] != val {
			t.Errorf("LineStarts[%d] = %d, want %d", i, file.LineStarts[i], val)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestGetUnknownFileReturnsNil(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(3) != nil {
		t.Fatal("expected nil for unknown id")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.js", []byte("const a = 1;\nlet bb = 22;\n"))

	start, end := fs.Resolve(Span{File: id, Start: 17, End: 19})
	if start.Line != 2 || start.Col != 5 {
		t.Errorf("start = %+v, want 2:5", start)
	}
	if end.Line != 2 || end.Col != 7 {
		t.Errorf("end = %+v, want 2:7", end)
	}

	start, _ = fs.Resolve(Span{File: id, Start: 0, End: 0})
	if start.Line != 1 || start.Col != 1 {
		t.Errorf("file start = %+v, want 1:1", start)
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	content := []byte("const имя = 1;\nx")
	id := fs.AddVirtual("u.js", content)

	off := uint32(strings.Index(string(content), "="))
	start, _ := fs.Resolve(Span{File: id, Start: off, End: off + 1})
	if start.Line != 1 || start.Col != off+1 {
		t.Errorf("got %+v, want 1:%d (byte columns)", start, off+1)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("l.js", []byte("first\nsecond\n\nlast"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, ""},
		{4, "last"},
		{5, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSliceClamps(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("s.js", []byte("abcdef"))
	f := fs.Get(id)
	if got := f.Slice(Span{File: id, Start: 2, End: 4}); got != "cd" {
		t.Errorf("Slice = %q", got)
	}
	if got := f.Slice(Span{File: id, Start: 4, End: 100}); got != "ef" {
		t.Errorf("Slice past end = %q", got)
	}
	if got := f.Slice(Span{File: id, Start: 5, End: 2}); got != "" {
		t.Errorf("inverted Slice = %q", got)
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.js")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a = 1;\r\nb = 2;\r\n")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a = 1;\nb = 2;\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
	if f.Flags&FileVirtual != 0 {
		t.Error("loaded file must not be virtual")
	}
}

func TestLoadReaderIsVirtual(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.LoadReader("<stdin>", strings.NewReader("x = 1\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Error("stdin file must be virtual")
	}
	if string(f.Content) != "x = 1\n" {
		t.Errorf("content = %q", f.Content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.js")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFormatPath(t *testing.T) {
	f := &File{Path: "/home/user/project/src/deeply/nested/dir/app.js"}
	if got := f.FormatPath("basename", ""); got != "app.js" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath("relative", "/home/user/project"); got != "src/deeply/nested/dir/app.js" {
		t.Errorf("relative = %q", got)
	}
	if got := f.FormatPath("auto", ""); got != "app.js" {
		t.Errorf("auto long absolute = %q", got)
	}
	short := &File{Path: "src/app.js"}
	if got := short.FormatPath("auto", ""); got != "src/app.js" {
		t.Errorf("auto short = %q", got)
	}
}
