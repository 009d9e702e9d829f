package lint

import (
	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/source"
)

// Fixer builds guarded text edits against the file being linted. Every
// edit records the text it replaces so stale fixes are rejected later.
type Fixer struct {
	file *source.File
	tree *ast.Tree
}

func (f *Fixer) guard(sp source.Span) string {
	return f.file.Slice(sp)
}

// ReplaceText replaces the text covered by sp.
func (f *Fixer) ReplaceText(sp source.Span, text string) diag.TextEdit {
	return diag.TextEdit{Span: sp, NewText: text, OldText: f.guard(sp)}
}

// ReplaceNode replaces the whole text of a node.
func (f *Fixer) ReplaceNode(id ast.NodeID, text string) diag.TextEdit {
	return f.ReplaceText(f.tree.Span(id), text)
}

func (f *Fixer) InsertBefore(sp source.Span, text string) diag.TextEdit {
	at := source.Span{File: sp.File, Start: sp.Start, End: sp.Start}
	return diag.TextEdit{Span: at, NewText: text}
}

func (f *Fixer) InsertAfter(sp source.Span, text string) diag.TextEdit {
	at := source.Span{File: sp.File, Start: sp.End, End: sp.End}
	return diag.TextEdit{Span: at, NewText: text}
}

func (f *Fixer) Remove(sp source.Span) diag.TextEdit {
	return f.ReplaceText(sp, "")
}
