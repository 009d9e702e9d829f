package cache

import (
	"valign/internal/diag"
	"valign/internal/source"
)

// schemaVersion is bumped whenever Entry changes shape.
const schemaVersion uint16 = 2

// Entry is the cached result of linting one file. Spans are stored as
// offsets because file IDs differ between runs.
type Entry struct {
	Schema      uint16
	Path        string
	Diagnostics []Diagnostic
}

type Diagnostic struct {
	Severity uint8
	Code     uint16
	Rule     string
	Message  string
	Start    uint32
	End      uint32
	Notes    []Note
	Fixes    []Fix
}

type Note struct {
	Start, End uint32
	Msg        string
}

type Fix struct {
	ID            string
	Title         string
	Kind          uint8
	Applicability uint8
	IsPreferred   bool
	Edits         []Edit
}

type Edit struct {
	Start, End uint32
	NewText    string
	OldText    string
}

// NewEntry captures diags for one file. Lazy fixes are materialized
// first. Diagnostics and notes located in other files are skipped.
func NewEntry(path string, file source.FileID, fs *source.FileSet, diags []diag.Diagnostic) (*Entry, error) {
	e := &Entry{Schema: schemaVersion, Path: path}
	ctx := diag.FixBuildContext{FileSet: fs}
	for _, d := range diags {
		if d.Primary.File != file {
			continue
		}
		fixes, err := diag.MaterializeFixes(ctx, d.Fixes)
		if err != nil {
			return nil, err
		}
		cd := Diagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Rule:     d.Rule,
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			if n.Span.File == file {
				cd.Notes = append(cd.Notes, Note{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
			}
		}
		for _, f := range fixes {
			cf := Fix{
				ID:            f.ID,
				Title:         f.Title,
				Kind:          uint8(f.Kind),
				Applicability: uint8(f.Applicability),
				IsPreferred:   f.IsPreferred,
			}
			for _, ed := range f.Edits {
				cf.Edits = append(cf.Edits, Edit{Start: ed.Span.Start, End: ed.Span.End, NewText: ed.NewText, OldText: ed.OldText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		e.Diagnostics = append(e.Diagnostics, cd)
	}
	return e, nil
}

// Restore rebinds the cached diagnostics to file.
func (e *Entry) Restore(file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(e.Diagnostics))
	span := func(start, end uint32) source.Span {
		return source.Span{File: file, Start: start, End: end}
	}
	for _, cd := range e.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Rule:     cd.Rule,
			Message:  cd.Message,
			Primary:  span(cd.Start, cd.End),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: span(n.Start, n.End), Msg: n.Msg})
		}
		for _, cf := range cd.Fixes {
			f := diag.Fix{
				ID:            cf.ID,
				Title:         cf.Title,
				Kind:          diag.FixKind(cf.Kind),
				Applicability: diag.FixApplicability(cf.Applicability),
				IsPreferred:   cf.IsPreferred,
			}
			for _, ed := range cf.Edits {
				f.Edits = append(f.Edits, diag.TextEdit{Span: span(ed.Start, ed.End), NewText: ed.NewText, OldText: ed.OldText})
			}
			d.Fixes = append(d.Fixes, f)
		}
		out = append(out, d)
	}
	return out
}
