package parser

import (
	"slices"

	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/lexer"
	"valign/internal/source"
	"valign/internal/token"
)

// maxDepth bounds expression and statement nesting so hostile input
// cannot exhaust the goroutine stack.
const maxDepth = 400

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is exhausted.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree   *ast.Tree
	Errors uint
}

// Parser holds the state for one file.
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	tree     *ast.Tree
	opts     Options
	lastSpan source.Span // span of the last consumed token
	depth    int
	aborted  bool

	// parenMatch maps the index of every '(' to its ')' or -1.
	parenMatch []int32

	inFunction  bool
	inAsync     bool
	inGenerator bool
}

// ParseFile lexes and parses file. The lexer reports through the same
// Reporter as the parser. The returned tree always has a Program root,
// even for files with syntax errors.
func ParseFile(file *source.File, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	toks := lx.All()

	p := Parser{
		file:     file,
		toks:     toks,
		tree:     ast.NewTree(file.ID, uint(len(toks))),
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.parenMatch = matchParens(toks)
	p.tree.Tokens = toks
	p.tree.Root = p.parseProgram()
	return Result{Tree: p.tree, Errors: p.opts.CurrentErrors}
}

func (p *Parser) parseProgram() ast.NodeID {
	var body []ast.NodeID
	for !p.at(token.EOF) {
		before := p.pos
		if stmt := p.parseStatementListItem(); stmt.IsValid() {
			body = append(body, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	end := p.peek().Span.End
	return p.tree.NewList(ast.Program, source.Span{File: p.file.ID, Start: 0, End: end}, body)
}

func matchParens(toks []token.Token) []int32 {
	match := make([]int32, len(toks))
	var stack []int32
	for i, t := range toks {
		match[i] = -1
		switch t.Kind {
		case token.LParen:
			stack = append(stack, int32(i))
		case token.RParen:
			if n := len(stack); n > 0 {
				match[stack[n-1]] = int32(i)
				stack = stack[:n-1]
			}
		}
	}
	return match
}

// ===== token helpers =====

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

// peekN looks n tokens past the current one; past the end it yields EOF.
func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atContextual reports whether the current token is the identifier word.
func (p *Parser) atContextual(word string) bool {
	t := p.peek()
	return t.Kind == token.Ident && t.Text == word
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	p.lastSpan = tok.Span
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes k or reports code and returns false.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.getDiagnosticSpan()}, false
}

// getDiagnosticSpan points at the current token, or just past the last
// consumed token when the parser stands at EOF.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// spanFrom covers everything from start to the end of the last consumed token.
func (p *Parser) spanFrom(start uint32) source.Span {
	end := p.lastSpan.End
	if end < start {
		end = start
	}
	return source.Span{File: p.file.ID, Start: start, End: end}
}

func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes ...diag.Note) bool {
	if p.aborted {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
		if p.opts.Enough() && p.opts.CurrentErrors > p.opts.MaxErrors {
			return false
		}
	}
	if p.opts.Reporter == nil {
		return false
	}
	b := diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg)
	for _, n := range notes {
		b.WithNote(n.Span, n.Msg)
	}
	b.Emit()
	return true
}

func (p *Parser) unexpected() {
	tok := p.peek()
	if tok.Kind == token.EOF {
		p.err(diag.SynUnexpectedToken, "unexpected end of file")
		return
	}
	if tok.Kind == token.Invalid {
		// the lexer already reported it
		p.opts.CurrentErrors++
		return
	}
	p.err(diag.SynUnexpectedToken, "unexpected token \""+tok.Text+"\"")
}

// enter guards recursion depth. Callers must defer p.leave() when it
// returns true.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > maxDepth {
		p.depth--
		p.err(diag.SynTooDeep, "nesting too deep")
		p.aborted = true
		p.skipToEOF()
		return false
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) skipToEOF() {
	for !p.at(token.EOF) {
		p.advance()
	}
}

// consumeSemicolon applies automatic semicolon insertion: an explicit ';',
// a following '}', EOF or a line break all end the statement.
func (p *Parser) consumeSemicolon() {
	if p.eat(token.Semicolon) {
		return
	}
	if p.atOr(token.RBrace, token.EOF) || p.peek().HasNewlineBefore() {
		return
	}
	p.err(diag.SynExpectSemicolon, "expected ';'")
	p.resyncStatement()
}

// resyncStatement skips tokens up to a statement boundary: past ';',
// before '}', or before a token that starts a statement on a new line.
func (p *Parser) resyncStatement() {
	for !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			return
		}
		if p.at(token.RBrace) {
			return
		}
		p.advance()
		if p.peek().HasNewlineBefore() && isStatementStarter(p.peek().Kind) {
			return
		}
	}
}

func isStatementStarter(k token.Kind) bool {
	switch k {
	case token.KwVar, token.KwLet, token.KwConst, token.KwFunction, token.KwClass,
		token.KwIf, token.KwFor, token.KwWhile, token.KwDo, token.KwReturn,
		token.KwBreak, token.KwContinue, token.KwThrow, token.KwTry, token.KwSwitch,
		token.KwImport, token.KwExport, token.Ident, token.LBrace:
		return true
	default:
		return false
	}
}
