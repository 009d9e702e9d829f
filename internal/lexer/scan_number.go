package lexer

import (
	"valign/internal/diag"
	"valign/internal/token"
)

// scanNumber handles decimal, 0x/0o/0b, legacy octal, fractions,
// exponents, numeric separators and the BigInt suffix.
// Malformed forms are reported; the token is still produced.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.NumberLit

	digits := func(ok func(byte) bool) int {
		n := 0
		for {
			b := lx.cursor.Peek()
			if ok(b) || (b == '_' && n > 0) {
				lx.cursor.Bump()
				n++
				continue
			}
			return n
		}
	}
	bad := func(msg string) token.Token {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, msg)
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	if lx.cursor.Peek() == '0' {
		var pred func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			pred = isHex
		case 'o', 'O':
			pred = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'b', 'B':
			pred = func(b byte) bool { return b == '0' || b == '1' }
		}
		if pred != nil {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if digits(pred) == 0 {
				return bad("expected digits after base prefix")
			}
			if lx.cursor.Eat('n') {
				kind = token.BigIntLit
			}
			return lx.finishNumber(kind, start)
		}
	}

	if lx.cursor.Peek() != '.' {
		digits(isDec)
		if lx.cursor.Eat('n') {
			return lx.finishNumber(token.BigIntLit, start)
		}
	}

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		digits(isDec)
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if digits(isDec) == 0 {
			return bad("expected digit after exponent")
		}
	}
	return lx.finishNumber(kind, start)
}

// finishNumber rejects identifier characters glued to a numeric literal (3in, 1px).
func (lx *Lexer) finishNumber(kind token.Kind, start Mark) token.Token {
	if r, sz := lx.peekRune(); sz > 0 && (isIdentStartRune(r) || isDec(lx.cursor.Peek())) {
		for {
			r, sz = lx.peekRune()
			if sz == 0 || !isIdentContinueRune(r) {
				break
			}
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "identifier starts immediately after numeric literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return lx.emit(kind, start)
}
