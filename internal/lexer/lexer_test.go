package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"valign/internal/diag"
	"valign/internal/lexer"
	"valign/internal/source"
	"valign/internal/token"
)

// testReporter collects every diagnostic produced by the lexer.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.EOF {
			break
		}
		out = append(out, t.Kind)
	}
	return out
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectTokens(t *testing.T, input string, expected ...token.Kind) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	toks := lx.All()
	got := kindsOf(toks)
	if len(got) != len(expected) {
		t.Fatalf("input %q: expected %d tokens, got %s (diags %v)", input, len(expected), tokensToString(toks), reporter.codes())
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("input %q token %d: expected %v, got %v (%q)", input, i, expected[i], got[i], toks[i].Text)
		}
	}
	return toks
}

func expectSingleToken(t *testing.T, input string, kind token.Kind, text string) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != kind || tok.Text != text {
		t.Errorf("input %q: got %v(%q), want %v(%q)", input, tok.Kind, tok.Text, kind, text)
	}
	if len(reporter.diagnostics) != 0 && kind != token.Invalid {
		t.Errorf("input %q: unexpected diagnostics %v", input, reporter.codes())
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"foo", token.Ident, "foo"},
		{"_bar", token.Ident, "_bar"},
		{"$el", token.Ident, "$el"},
		{"x123", token.Ident, "x123"},
		{"имя", token.Ident, "имя"},
		{"caf\\u00e9", token.Ident, "caf\\u00e9"},
		{"async", token.Ident, "async"},
		{"const", token.KwConst, "const"},
		{"Const", token.Ident, "Const"},
		{"null", token.KwNull, "null"},
		{"#secret", token.PrivateName, "#secret"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestEscapedKeywordIsIdent(t *testing.T) {
	expectSingleToken(t, "\\u0069f", token.Ident, "\\u0069f")
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.NumberLit},
		{"42", token.NumberLit},
		{"1_000_000", token.NumberLit},
		{"3.14", token.NumberLit},
		{".5", token.NumberLit},
		{"1.", token.NumberLit},
		{"1e10", token.NumberLit},
		{"2.5E-3", token.NumberLit},
		{"0x1F", token.NumberLit},
		{"0o17", token.NumberLit},
		{"0b1010", token.NumberLit},
		{"10n", token.BigIntLit},
		{"0xffn", token.BigIntLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestBadNumbers(t *testing.T) {
	for _, input := range []string{"0x", "1e", "3in"} {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Fatalf("expected Invalid, got %v", tok.Kind)
			}
			if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexBadNumber {
				t.Fatalf("diagnostics = %v", reporter.codes())
			}
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []string{
		`"hello"`,
		`'single'`,
		`"esc \" quote"`,
		`'it\'s'`,
		"'line \\\ncontinued'",
		`""`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.StringLit, input)
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, reporter := makeTestLexer("'abc\nx")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", tok.Kind)
	}
	if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Fatalf("diagnostics = %v", reporter.codes())
	}
	if tok := lx.Next(); tok.Kind != token.Ident || tok.Text != "x" {
		t.Fatalf("lexer did not resume after the line break: %v", tok)
	}
}

func TestTemplateIsSingleToken(t *testing.T) {
	input := "`a ${ {b: '}'}[c] } and ${`nested ${d}`} ${ x /* } */ }`"
	toks := expectTokens(t, input+";", token.TemplateLit, token.Semicolon)
	if toks[0].Text != input {
		t.Fatalf("template text = %q", toks[0].Text)
	}

	lx, reporter := makeTestLexer("`open ${x")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", tok.Kind)
	}
	if len(reporter.diagnostics) == 0 || reporter.diagnostics[0].Code != diag.LexUnterminatedTemplate {
		t.Fatalf("diagnostics = %v", reporter.codes())
	}
}

func TestCommentInsideTemplateIsNotTrivia(t *testing.T) {
	lx, _ := makeTestLexer("`${a /* c */}`")
	tok := lx.Next()
	if tok.Kind != token.TemplateLit || len(tok.Leading) != 0 {
		t.Fatalf("got %v with leading %v", tok.Kind, tok.Leading)
	}
}

func TestRegexVersusDivision(t *testing.T) {
	expectTokens(t, "a / b / c", token.Ident, token.Slash, token.Ident, token.Slash, token.Ident)
	expectTokens(t, "x = /ab+c/gi;", token.Ident, token.Assign, token.RegexLit, token.Semicolon)
	expectTokens(t, "f(/[/]/)", token.Ident, token.LParen, token.RegexLit, token.RParen)
	expectTokens(t, "return /x/.test(s)", token.KwReturn, token.RegexLit, token.Dot, token.Ident,
		token.LParen, token.Ident, token.RParen)
	expectTokens(t, "(a) / 2", token.LParen, token.Ident, token.RParen, token.Slash, token.NumberLit)
	expectTokens(t, "i++ / 2", token.Ident, token.PlusPlus, token.Slash, token.NumberLit)
	expectTokens(t, "x /= 2", token.Ident, token.SlashAssign, token.NumberLit)
}

func TestOperatorsGreedy(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{">>>=", token.UShrAssign},
		{">>>", token.UShr},
		{">>=", token.ShrAssign},
		{"===", token.EqEqEq},
		{"!==", token.BangEqEq},
		{"**=", token.StarStarAssign},
		{"**", token.StarStar},
		{"??=", token.QuestionQAssign},
		{"??", token.QuestionQ},
		{"?.", token.QuestionDot},
		{"&&=", token.AndAndAssign},
		{"||=", token.OrOrAssign},
		{"...", token.DotDotDot},
		{"=>", token.FatArrow},
		{"+=", token.PlusAssign},
		{"=", token.Assign},
		{"~", token.Tilde},
		{"@", token.At},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestQuestionDotBeforeDigitIsConditional(t *testing.T) {
	expectTokens(t, "a?.5:b", token.Ident, token.Question, token.NumberLit, token.Colon, token.Ident)
}

func TestTriviaAttachment(t *testing.T) {
	lx, _ := makeTestLexer("a  =\t// note\n\n/* block */ 1")
	toks := lx.All()
	if len(toks) != 4 {
		t.Fatalf("tokens: %s", tokensToString(toks))
	}

	eq := toks[1]
	if len(eq.Leading) != 1 || eq.Leading[0].Kind != token.TriviaSpace || eq.Leading[0].Text != "  " {
		t.Fatalf("'=' leading = %+v", eq.Leading)
	}

	one := toks[2]
	var kinds []token.TriviaKind
	for _, tr := range one.Leading {
		kinds = append(kinds, tr.Kind)
	}
	want := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline,
		token.TriviaBlockComment, token.TriviaSpace}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("leading kinds = %v, want %v", kinds, want)
	}
	if !one.HasNewlineBefore() || !one.HasComment() {
		t.Fatal("expected newline and comment before literal")
	}
	if one.Leading[2].Text != "\n\n" {
		t.Fatalf("newlines not coalesced: %q", one.Leading[2].Text)
	}
}

func TestTrailingCommentAttachesToEOF(t *testing.T) {
	lx, _ := makeTestLexer("x // end")
	toks := lx.All()
	eof := toks[len(toks)-1]
	if eof.Kind != token.EOF || !eof.HasComment() {
		t.Fatalf("EOF leading = %+v", eof.Leading)
	}
	if again := lx.Next(); again.Kind != token.EOF {
		t.Fatalf("expected EOF again, got %v", again.Kind)
	}
}

func TestHashbang(t *testing.T) {
	lx, _ := makeTestLexer("#!/usr/bin/env node\nrun()")
	tok := lx.Next()
	if tok.Kind != token.Ident || len(tok.Leading) == 0 || tok.Leading[0].Kind != token.TriviaHashbang {
		t.Fatalf("got %v with leading %+v", tok.Kind, tok.Leading)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("a /* never closed")
	toks := lx.All()
	if kindsOf(toks)[0] != token.Ident {
		t.Fatalf("tokens: %s", tokensToString(toks))
	}
	if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("diagnostics = %v", reporter.codes())
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, reporter := makeTestLexer("a ¤ b")
	toks := lx.All()
	got := kindsOf(toks)
	if len(got) != 3 || got[1] != token.Invalid {
		t.Fatalf("tokens: %s", tokensToString(toks))
	}
	if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnknownChar {
		t.Fatalf("diagnostics = %v", reporter.codes())
	}
}

func TestSpansMatchText(t *testing.T) {
	src := "const { a, bb: c = 1, ...rest } = obj; x ??= `t${y}`;"
	fs := source.NewFileSet()
	id := fs.AddVirtual("spans.js", []byte(src))
	f := fs.Get(id)
	for _, tok := range lexer.New(f, lexer.Options{}).All() {
		if got := f.Slice(tok.Span); got != tok.Text {
			t.Errorf("%v: span text %q != token text %q", tok.Kind, got, tok.Text)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("second peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
}

func TestNilReporterDropsErrors(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.js", []byte("a @ 'open")))
	lx := lexer.New(file, lexer.Options{})
	var last token.Token
	for i := 0; i < 16; i++ {
		last = lx.Next()
		if last.Kind == token.EOF {
			break
		}
	}
	if last.Kind != token.EOF {
		t.Fatalf("lexing did not reach EOF, last token %v", last.Kind)
	}
}
