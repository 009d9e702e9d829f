package lint

import (
	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/fix"
	"valign/internal/source"
	"valign/internal/token"
)

// Report is what a rule hands to Context.Report. MessageTemplate may
// reference Data entries as {{name}}. Fix, when set, returns the edits
// that resolve the finding.
type Report struct {
	Node            ast.NodeID
	MessageTemplate string
	Data            map[string]any
	Fix             func(f *Fixer) []diag.TextEdit
}

// Context is the per-file, per-rule view handed to Rule.Create.
type Context struct {
	file     *source.File
	tree     *ast.Tree
	meta     Meta
	severity diag.Severity
	options  map[string]any
	bag      *diag.Bag
	muted    *Suppressions
	lines    *source.LineIndex
	reported int
}

func (c *Context) File() *source.File { return c.file }
func (c *Context) Tree() *ast.Tree     { return c.tree }

// Text returns the source text covered by sp.
func (c *Context) Text(sp source.Span) string {
	return c.file.Slice(sp)
}

// TokensBetween returns the tokens after a and before b.
func (c *Context) TokensBetween(a, b source.Span) []token.Token {
	return c.tree.TokensBetween(a.End, b.Start)
}

// Options returns the rule options from configuration; never nil.
func (c *Context) Options() map[string]any {
	if c.options == nil {
		return map[string]any{}
	}
	return c.options
}

func (c *Context) RuleName() string { return c.meta.Name }

// Reported counts the findings the rule produced, suppressed ones excluded.
func (c *Context) Reported() int { return c.reported }

// Report records a finding unless a disable directive mutes its line.
func (c *Context) Report(r Report) {
	sp := c.tree.Span(r.Node)
	if c.lines != nil && c.muted.Muted(c.lines.LineOf(sp.Start), c.meta.Name) {
		return
	}
	d := diag.New(c.severity, c.meta.Code, sp, Interpolate(r.MessageTemplate, r.Data))
	d.Rule = c.meta.Name
	if r.Fix != nil {
		if edits := r.Fix(&Fixer{file: c.file, tree: c.tree}); len(edits) > 0 {
			d.Fixes = []diag.Fix{
				fix.Edits("fix "+c.meta.Name, edits, fix.Preferred()),
			}
		}
	}
	c.reported++
	c.bag.Add(d)
}
