package lexer

import (
	"unicode"

	"valign/internal/diag"
	"valign/internal/token"
)

// collectLeadingTrivia gathers consecutive trivia before a significant token.
//   - runs of spaces and tabs coalesce into one TriviaSpace
//   - runs of line terminators coalesce into one TriviaNewline
//   - //... up to the line end -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment (not nested; unterminated is reported)
//   - #! at offset 0 -> TriviaHashbang
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	if lx.cursor.Off == 0 {
		lx.scanHashbang()
	}
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if lx.isSpaceAt() {
			for lx.isSpaceAt() {
				lx.bumpRune()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if lx.isNewlineAt() {
			for lx.isNewlineAt() {
				lx.bumpRune()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}

		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: lx.text(sp),
	})
}

func (lx *Lexer) scanHashbang() {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '#' || b1 != '!' {
		return
	}
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && !lx.isNewlineAt() {
		lx.cursor.Bump()
	}
	lx.pushTrivia(token.TriviaHashbang, start)
}

func (lx *Lexer) isSpaceAt() bool {
	switch b := lx.cursor.Peek(); {
	case b == ' ' || b == '\t' || b == '\v' || b == '\f':
		return true
	case b < utf8RuneSelf:
		return false
	}
	r, _ := lx.peekRune()
	return r == '\u00a0' || r == '\ufeff' || unicode.Is(unicode.Zs, r)
}

func (lx *Lexer) isNewlineAt() bool {
	switch b := lx.cursor.Peek(); {
	case b == '\n' || b == '\r':
		return true
	case b < utf8RuneSelf:
		return false
	}
	r, _ := lx.peekRune()
	return r == '\u2028' || r == '\u2029'
}

// scanCommentIntoHold handles "//..." and "/*...*/".
// It leaves the cursor untouched when '/' does not start a comment.
func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() && !lx.isNewlineAt() {
			lx.bumpRune()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true

	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == '*' && c1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true
	}
	return false
}
