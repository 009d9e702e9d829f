package lexer

import (
	"valign/internal/diag"
	"valign/internal/token"
)

// scanString scans a '...' or "..." literal. Escapes are skipped without
// validation; a backslash before a line break continues the literal.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == quote:
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case b == '\\':
			lx.cursor.Bump()
			if lx.cursor.Peek() == '\r' && lx.cursor.PeekAt(1) == '\n' {
				lx.cursor.Bump()
			}
			lx.bumpRune()
			continue
		case b == '\n' || b == '\r':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanTemplate scans a whole template literal, substitutions included, as
// one token. Substitutions are skipped with brace counting that is aware of
// nested strings, templates and comments.
func (lx *Lexer) scanTemplate() token.Token {
	start := lx.cursor.Mark()
	if !lx.skipTemplate() {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnterminatedTemplate, sp, "unterminated template literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return lx.emit(token.TemplateLit, start)
}

func (lx *Lexer) skipTemplate() bool {
	lx.cursor.Bump() // opening backtick
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '`':
			lx.cursor.Bump()
			return true
		case '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case '$':
			lx.cursor.Bump()
			if lx.cursor.Eat('{') && !lx.skipSubstitution() {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// skipSubstitution consumes up to and including the '}' closing "${".
func (lx *Lexer) skipSubstitution() bool {
	depth := 1
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return true
			}
		case '`':
			if !lx.skipTemplate() {
				return false
			}
		case '"', '\'':
			if tok := lx.scanString(b); tok.Kind == token.Invalid {
				return false
			}
		case '/':
			held := len(lx.hold)
			if lx.scanCommentIntoHold() {
				lx.hold = lx.hold[:held]
			} else {
				lx.cursor.Bump()
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// scanRegex scans /body/flags. Slashes inside [...] classes do not end
// the body.
func (lx *Lexer) scanRegex() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	inClass := false
	for {
		if lx.cursor.EOF() || lx.isNewlineAt() {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedRegex, sp, "unterminated regular expression")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		b := lx.cursor.Bump()
		switch {
		case b == '\\':
			if !lx.isNewlineAt() {
				lx.bumpRune()
			}
		case b == '[':
			inClass = true
		case b == ']':
			inClass = false
		case b == '/' && !inClass:
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			return lx.emit(token.RegexLit, start)
		}
	}
}
