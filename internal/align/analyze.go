package align

import (
	"strings"
	"unicode"

	"valign/internal/ast"
	"valign/internal/source"
	"valign/internal/token"
)

// Source is the read side of the lint host.
type Source interface {
	File() *source.File
	Tree() *ast.Tree
	Text(sp source.Span) string
	TokensBetween(a, b source.Span) []token.Token
}

// Options tunes the rule.
type Options struct {
	Width Width
	// TopLevel also aligns assignment statements at program level.
	TopLevel bool
}

// Breakdown is the textual anatomy of one candidate:
//
//	Key KeySpacing Operator ValueSpacing Value
//
// KeySpacing lies between the key and the operator, ValueSpacing between
// the operator and the value. Shorthand properties have only a Key.
type Breakdown struct {
	Key          string
	KeySpacing   string
	Operator     string
	ValueSpacing string
	Value        string

	KeySpacingSpan   source.Span
	ValueSpacingSpan source.Span

	HasValue bool
	// Simple values (literals and identifiers) are padded to the column
	// of the group; anything else expects a single space.
	Simple bool
}

// Result is the analysis of one group member. OK is false when the
// member has a shape the rule does not understand; such members are
// never reported.
type Result struct {
	Member Annotated
	Breakdown
	OK        bool
	KeyLength int

	// ExpectedKeySpacing and ExpectedValueSpacing are the widths the
	// two runs should have. With "=" the padding goes into KeySpacing
	// and ValueSpacing is one space; with ":" KeySpacing is empty and
	// the padding goes into ValueSpacing.
	ExpectedKeySpacing   int
	ExpectedValueSpacing int
}

// padAfterOperator reports whether the operator stays on the key.
func (r *Result) padAfterOperator() bool {
	return r.Operator == ":"
}

// padding returns the run that carries the alignment.
func (r *Result) padding() (text string, sp source.Span, want int) {
	if r.padAfterOperator() {
		return r.ValueSpacing, r.ValueSpacingSpan, r.ExpectedValueSpacing
	}
	return r.KeySpacing, r.KeySpacingSpan, r.ExpectedKeySpacing
}

// tight returns the run on the other side of the operator.
func (r *Result) tight() (text string, sp source.Span, want int) {
	if r.padAfterOperator() {
		return r.KeySpacing, r.KeySpacingSpan, r.ExpectedKeySpacing
	}
	return r.ValueSpacing, r.ValueSpacingSpan, r.ExpectedValueSpacing
}

// Analyze breaks down every member of group and derives the spacing it
// needs. The longest key is taken over members that have a value.
func Analyze(src Source, group []Annotated, opts Options) []Result {
	results := make([]Result, len(group))
	longest := 0
	for i, m := range group {
		r := Result{Member: m}
		r.Breakdown, r.OK = breakdown(src, m.Node)
		if r.OK {
			r.KeyLength = opts.Width.Measure(r.Key)
			if r.HasValue {
				longest = max(longest, r.KeyLength)
			}
		}
		results[i] = r
	}

	for i := range results {
		r := &results[i]
		if !r.OK || !r.HasValue {
			continue
		}
		pad := 1
		if r.Simple {
			pad = longest - r.KeyLength + 1
		}
		if r.padAfterOperator() {
			r.ExpectedKeySpacing, r.ExpectedValueSpacing = 0, pad
		} else {
			r.ExpectedKeySpacing, r.ExpectedValueSpacing = pad, 1
		}
	}
	return results
}

func breakdown(src Source, id ast.NodeID) (Breakdown, bool) {
	tree := src.Tree()
	key, value, hasValue, ok := split(tree, id)
	if !ok {
		return Breakdown{}, false
	}
	keySpan := tree.Span(key)
	keySpan.Start = tree.Span(id).Start

	if !hasValue {
		b := Breakdown{Key: src.Text(keySpan)}
		return b, validKey(b.Key)
	}

	valueSpan := tree.Span(value)
	toks := src.TokensBetween(keySpan, valueSpan)
	if isComputed(tree, id) {
		if len(toks) == 0 || toks[0].Kind != token.RBracket {
			return Breakdown{}, false
		}
		keySpan.End = toks[0].Span.End
		toks = toks[1:]
	}
	if len(toks) == 0 || (toks[0].Kind != token.Assign && toks[0].Kind != token.Colon) {
		return Breakdown{}, false
	}
	op := toks[0].Span
	// A parenthesized value starts at its first '('.
	parens := toks[1:]
	for _, tok := range parens {
		if tok.Kind != token.LParen {
			return Breakdown{}, false
		}
	}
	valueStart := valueSpan.Start
	if len(parens) > 0 {
		valueStart = parens[0].Span.Start
	}

	b := Breakdown{
		Key:              src.Text(keySpan),
		Operator:         src.Text(op),
		Value:            src.Text(valueSpan),
		KeySpacingSpan:   source.Span{File: keySpan.File, Start: keySpan.End, End: op.Start},
		ValueSpacingSpan: source.Span{File: keySpan.File, Start: op.End, End: valueStart},
		HasValue:         true,
	}
	b.KeySpacing = src.Text(b.KeySpacingSpan)
	b.ValueSpacing = src.Text(b.ValueSpacingSpan)
	switch tree.Kind(value) {
	case ast.Literal, ast.Identifier:
		b.Simple = len(parens) == 0
	}
	if !validKey(b.Key) || !blank(b.KeySpacing) || !blank(b.ValueSpacing) {
		return Breakdown{}, false
	}
	return b, true
}

// split finds the key and value nodes of a candidate. Compound
// assignments, methods and accessors are not candidates.
func split(tree *ast.Tree, id ast.NodeID) (key, value ast.NodeID, hasValue, ok bool) {
	switch tree.Kind(id) {
	case ast.AssignmentExpression, ast.AssignmentPattern:
		d := tree.Assign(id)
		if d.Op != token.Assign {
			return ast.NoNodeID, ast.NoNodeID, false, false
		}
		return d.Left, d.Right, true, true
	case ast.Property:
		d := tree.Property(id)
		if d.Method || d.Kind != ast.PropInit {
			return ast.NoNodeID, ast.NoNodeID, false, false
		}
		if !d.Shorthand {
			return d.Key, d.Value, true, true
		}
		if tree.Kind(d.Value) == ast.AssignmentPattern {
			a := tree.Assign(d.Value)
			return a.Left, a.Right, true, true
		}
		return d.Key, ast.NoNodeID, false, true
	}
	return ast.NoNodeID, ast.NoNodeID, false, false
}

func isComputed(tree *ast.Tree, id ast.NodeID) bool {
	d := tree.Property(id)
	return d != nil && d.Computed
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsFunc(key, unicode.IsSpace)
}

// blank reports whether s holds only spaces and tabs.
func blank(s string) bool {
	return strings.Trim(s, " \t") == ""
}
