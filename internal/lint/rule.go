package lint

import (
	"valign/internal/ast"
	"valign/internal/diag"
)

// Fixable states what kind of edits a rule's fixes make.
type Fixable uint8

const (
	FixableNone Fixable = iota
	FixableWhitespace
	FixableCode
)

func (f Fixable) String() string {
	switch f {
	case FixableWhitespace:
		return "whitespace"
	case FixableCode:
		return "code"
	default:
		return "none"
	}
}

// OptionDoc documents one rule option for `valign rules`.
type OptionDoc struct {
	Name    string
	Type    string
	Default string
	Summary string
}

// Meta describes a rule. Before and After are short code samples.
type Meta struct {
	Name        string
	Description string
	Category    string
	Recommended bool
	Fixable     Fixable
	Code        diag.Code
	Severity    diag.Severity
	Options     []OptionDoc
	Before      string
	After       string
}

// Handler is called for every node of the kind it is registered for.
// A returned error aborts linting of the file.
type Handler func(id ast.NodeID) error

// Handlers is a flat node-kind dispatch table.
type Handlers map[ast.Kind]Handler

// Rule is a lint rule. Create is called once per file; the returned
// handlers may keep per-file state in closures.
type Rule interface {
	Meta() Meta
	Create(ctx *Context) Handlers
}

// OptionValidator is implemented by rules that accept options. Config
// loading calls it so bad options fail before any file is linted.
type OptionValidator interface {
	ValidateOptions(opts map[string]any) error
}
