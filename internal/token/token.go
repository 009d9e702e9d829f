package token

import (
	"valign/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a literal: number, string,
// template, regex, null or boolean.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, BigIntLit, StringLit, TemplateLit, RegexLit, KwNull, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsIdentName reports whether the token may be used as a property name
// (identifiers and all reserved words).
func (t Token) IsIdentName() bool {
	return t.Kind == Ident || t.Kind.IsKeyword()
}

// HasNewlineBefore reports whether a line break occurs in the leading trivia.
// Automatic semicolon insertion and restricted productions depend on it.
func (t Token) HasNewlineBefore() bool {
	for _, tr := range t.Leading {
		switch tr.Kind {
		case TriviaNewline:
			return true
		case TriviaBlockComment:
			for i := 0; i < len(tr.Text); i++ {
				if tr.Text[i] == '\n' {
					return true
				}
			}
		}
	}
	return false
}

// HasComment reports whether any comment precedes the token.
func (t Token) HasComment() bool {
	for _, tr := range t.Leading {
		if tr.Kind.IsComment() {
			return true
		}
	}
	return false
}
