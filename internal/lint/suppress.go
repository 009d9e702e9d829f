package lint

import (
	"strings"

	"valign/internal/ast"
	"valign/internal/source"
	"valign/internal/token"
)

const (
	directiveDisableLine     = "valign-disable-line"
	directiveDisableNextLine = "valign-disable-next-line"
)

// Suppressions records the lines muted by inline directives. A line with
// a nil rule set is muted for every rule.
type Suppressions struct {
	lines map[int]map[string]struct{}
}

// CollectSuppressions scans every comment in the token stream for
//
//	// valign-disable-line [rule, ...]
//	// valign-disable-next-line [rule, ...]
//
// Text after "--" is a free-form reason and is ignored.
func CollectSuppressions(tree *ast.Tree, lines source.LineIndex) *Suppressions {
	s := &Suppressions{lines: make(map[int]map[string]struct{})}
	for _, tok := range tree.Tokens {
		for _, tr := range tok.Leading {
			if !tr.Kind.IsComment() {
				continue
			}
			directive, rules, ok := parseDirective(tr)
			if !ok {
				continue
			}
			line := lines.LineOf(tr.Span.Start)
			if directive == directiveDisableNextLine {
				line = lines.LineOf(tr.Span.End) + 1
			}
			s.mute(line, rules)
		}
	}
	return s
}

func (s *Suppressions) mute(line int, rules []string) {
	set, seen := s.lines[line]
	if seen && set == nil {
		return
	}
	if len(rules) == 0 {
		s.lines[line] = nil
		return
	}
	if set == nil {
		set = make(map[string]struct{}, len(rules))
		s.lines[line] = set
	}
	for _, r := range rules {
		set[r] = struct{}{}
	}
}

// Muted reports whether rule is disabled on the 0-based line.
func (s *Suppressions) Muted(line int, rule string) bool {
	if s == nil {
		return false
	}
	set, ok := s.lines[line]
	if !ok {
		return false
	}
	if set == nil {
		return true
	}
	_, ok = set[rule]
	return ok
}

func parseDirective(tr token.Trivia) (string, []string, bool) {
	body := tr.Text
	switch tr.Kind {
	case token.TriviaLineComment:
		body = strings.TrimPrefix(body, "//")
	case token.TriviaBlockComment:
		body = strings.TrimSuffix(strings.TrimPrefix(body, "/*"), "*/")
	default:
		return "", nil, false
	}
	body = strings.TrimSpace(body)
	if reason := strings.Index(body, "--"); reason >= 0 {
		body = strings.TrimSpace(body[:reason])
	}

	var directive string
	switch {
	case body == directiveDisableNextLine || strings.HasPrefix(body, directiveDisableNextLine+" "):
		directive = directiveDisableNextLine
	case body == directiveDisableLine || strings.HasPrefix(body, directiveDisableLine+" "):
		directive = directiveDisableLine
	default:
		return "", nil, false
	}

	rest := body[len(directive):]
	rules := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return directive, rules, true
}
