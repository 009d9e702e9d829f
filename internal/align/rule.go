package align

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/lint"
)

// RuleName is the configuration name of the rule.
const RuleName = "vertical-align"

func init() {
	lint.Register(Rule{})
}

// Rule adapts the package to the lint engine.
type Rule struct{}

func (Rule) Meta() lint.Meta {
	return lint.Meta{
		Name:        RuleName,
		Description: "Vertical alignment of destructed object style code.",
		Category:    "Stylistic Issues",
		Recommended: true,
		Fixable:     lint.FixableWhitespace,
		Code:        diag.LintVerticalAlign,
		Severity:    diag.SevWarning,
		Options: []lint.OptionDoc{
			{Name: "width", Type: "string", Default: "runes", Summary: "how key widths are counted: runes, bytes, display or nfc"},
			{Name: "top_level", Type: "bool", Default: "false", Summary: "also align assignment statements at program level"},
		},
		Before: "const {\n  a = 1,\n  bbbb = 2,\n} = obj;",
		After:  "const {\n  a    = 1,\n  bbbb = 2,\n} = obj;",
	}
}

func (Rule) Create(ctx *lint.Context) lint.Handlers {
	opts, err := ParseOptions(ctx.Options())
	if err != nil {
		// Options are validated when the configuration is loaded.
		opts = Options{}
	}
	return Handlers(ctx, ctx, opts)
}

// ValidateOptions rejects unknown keys and values that do not coerce.
func (Rule) ValidateOptions(raw map[string]any) error {
	_, err := ParseOptions(raw)
	return err
}

// ParseOptions decodes the rule options of a configuration file.
func ParseOptions(raw map[string]any) (Options, error) {
	var opts Options
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := raw[k]
		switch k {
		case "width":
			s, err := cast.ToStringE(v)
			if err != nil {
				return opts, fmt.Errorf("%s: option width must be a string, got %T", RuleName, v)
			}
			w, err := ParseWidth(strings.ToLower(s))
			if err != nil {
				return opts, fmt.Errorf("%s: %w", RuleName, err)
			}
			opts.Width = w
		case "top_level":
			b, err := cast.ToBoolE(v)
			if err != nil {
				return opts, fmt.Errorf("%s: option top_level must be a boolean, got %T", RuleName, v)
			}
			opts.TopLevel = b
		default:
			return opts, fmt.Errorf("%s: unknown option %q", RuleName, k)
		}
	}
	return opts, nil
}

// Handlers returns the dispatch table of the rule. Object literals and
// patterns are aligned as one group; assignment statements of blocks
// and switch cases are split at blank lines first. A malformed line
// table fails the block handler.
func Handlers(src Source, sink Sink, opts Options) lint.Handlers {
	tree := src.Tree()
	whole := func(extract func(*ast.Tree, ast.NodeID) []Candidate) lint.Handler {
		return func(id ast.NodeID) error {
			Emit(Analyze(src, implicitGroup(extract(tree, id)), opts), sink)
			return nil
		}
	}
	blocks := func(id ast.NodeID) error {
		cands := ExtractAssignments(tree, id)
		if len(cands) == 0 {
			return nil
		}
		lines, err := src.File().Lines()
		if err != nil {
			return fmt.Errorf("%s: %w", RuleName, err)
		}
		for _, g := range GroupCandidates(lines, cands) {
			Emit(Analyze(src, g.Members, opts), sink)
		}
		return nil
	}

	h := lint.Handlers{
		ast.ObjectPattern:    whole(ExtractPatternDefaults),
		ast.ObjectExpression: whole(ExtractObjectProperties),
		ast.BlockStatement:   blocks,
		ast.SwitchCase:       blocks,
	}
	if opts.TopLevel {
		h[ast.Program] = blocks
	}
	return h
}
