package lexer

import (
	"valign/internal/diag"
	"valign/internal/token"
)

// scanIdentOrKeyword scans an IdentifierName and resolves reserved words.
// \uXXXX escapes are accepted as identifier parts; an escaped word is never
// a keyword.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	escaped := false

	for first := true; ; first = false {
		if lx.cursor.Peek() == '\\' {
			if !lx.scanUnicodeEscape() {
				break
			}
			escaped = true
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 {
			break
		}
		if r < utf8RuneSelf {
			b := byte(r)
			if (first && !isIdentStartByte(b)) || (!first && !isIdentContinueByte(b)) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if (first && !isIdentStartRune(r)) || (!first && !isIdentContinueRune(r)) {
			break
		}
		lx.bumpRune()
	}

	if lx.cursor.Off == uint32(start) {
		// a stray backslash or an unsupported rune
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	tok := lx.emit(token.Ident, start)
	if !escaped {
		if k, ok := token.LookupKeyword(tok.Text); ok {
			tok.Kind = k
		}
	}
	return tok
}

// scanUnicodeEscape consumes \uXXXX or \u{X...}.
func (lx *Lexer) scanUnicodeEscape() bool {
	m := lx.cursor.Mark()
	if !lx.cursor.Eat('\\') || !lx.cursor.Eat('u') {
		lx.cursor.Reset(m)
		return false
	}
	if lx.cursor.Eat('{') {
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n == 0 || !lx.cursor.Eat('}') {
			lx.cursor.Reset(m)
			return false
		}
		return true
	}
	for i := 0; i < 4; i++ {
		if !isHex(lx.cursor.Peek()) {
			lx.cursor.Reset(m)
			return false
		}
		lx.cursor.Bump()
	}
	return true
}

func (lx *Lexer) scanPrivateName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	r, sz := lx.peekRune()
	if sz == 0 || !(isIdentStartRune(r) || lx.cursor.Peek() == '\\') {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "expected a name after '#'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	name := lx.scanIdentOrKeyword()
	tok := lx.emit(token.PrivateName, start)
	if name.Kind == token.Invalid {
		tok.Kind = token.Invalid
	}
	return tok
}
