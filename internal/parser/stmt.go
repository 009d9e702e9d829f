package parser

import (
	"slices"

	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/token"
)

// parseStatementListItem parses a declaration or a statement.
func (p *Parser) parseStatementListItem() ast.NodeID {
	switch {
	case p.at(token.KwFunction):
		return p.parseFunction(true, false, p.peek().Span.Start)
	case p.atContextual("async") && p.peekN(1).Kind == token.KwFunction && !p.peekN(1).HasNewlineBefore():
		start := p.advance().Span.Start
		return p.parseFunction(true, true, start)
	case p.at(token.KwClass):
		return p.parseClass(true)
	case p.at(token.KwConst), p.at(token.KwLet) && p.letStartsDeclaration():
		return p.parseVarStatement()
	case p.at(token.KwImport) && !p.atOrN(1, token.LParen, token.Dot):
		return p.parseImport()
	case p.at(token.KwExport):
		return p.parseExport()
	}
	return p.parseStatement()
}

func (p *Parser) atOrN(n int, kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peekN(n).Kind)
}

// letStartsDeclaration tells "let x" from "let" used as an identifier.
func (p *Parser) letStartsDeclaration() bool {
	next := p.peekN(1)
	return next.Kind == token.Ident || next.Kind == token.LBrace || next.Kind == token.LBracket ||
		next.Kind == token.KwYield || next.Kind == token.KwAwait || next.Kind == token.KwLet
}

func (p *Parser) parseStatement() ast.NodeID {
	if !p.enter() {
		return ast.NoNodeID
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock(ast.BlockStatement)
	case token.Semicolon:
		p.advance()
		return p.tree.NewLeaf(ast.EmptyStatement, tok.Span)
	case token.KwVar:
		return p.parseVarStatement()
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwReturn:
		return p.parseJump(ast.ReturnStatement, true)
	case token.KwThrow:
		return p.parseThrow()
	case token.KwBreak:
		return p.parseJump(ast.BreakStatement, false)
	case token.KwContinue:
		return p.parseJump(ast.ContinueStatement, false)
	case token.KwTry:
		return p.parseTry()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwWith:
		return p.parseWith()
	case token.KwDebugger:
		p.advance()
		p.consumeSemicolon()
		return p.tree.NewLeaf(ast.DebuggerStatement, p.spanFrom(tok.Span.Start))
	case token.KwFunction, token.KwClass, token.KwConst, token.KwLet, token.KwImport, token.KwExport:
		if tok.Kind != token.KwLet && tok.Kind != token.KwImport {
			return p.parseStatementListItem()
		}
	case token.RBrace, token.RParen, token.RBracket:
		p.unexpected()
		p.advance()
		return ast.NoNodeID
	}

	if tok.Kind == token.Ident && p.peekN(1).Kind == token.Colon {
		label := p.parseIdentifier()
		p.advance()
		body := p.parseStatement()
		return p.tree.NewPair(ast.LabeledStatement, p.spanFrom(tok.Span.Start), label, body)
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() ast.NodeID {
	start := p.peek().Span.Start
	expr := p.parseExpression(false)
	if !expr.IsValid() {
		p.resyncStatement()
		return ast.NoNodeID
	}
	p.consumeSemicolon()
	return p.tree.NewWrap(ast.ExpressionStatement, p.spanFrom(start), expr, false)
}

// parseBlock parses "{ ... }" into a list node of the given kind.
func (p *Parser) parseBlock(kind ast.Kind) ast.NodeID {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoNodeID
	}
	var body []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		before := p.pos
		if stmt := p.parseStatementListItem(); stmt.IsValid() {
			body = append(body, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.closeDelimiter(token.RBrace, open)
	return p.tree.NewList(kind, p.spanFrom(open.Span.Start), body)
}

// closeDelimiter consumes the closing token for open or reports it as
// unclosed at the current position.
func (p *Parser) closeDelimiter(k token.Kind, open token.Token) bool {
	if p.eat(k) {
		return true
	}
	p.report(diag.SynUnclosedDelimiter, diag.SevError, p.getDiagnosticSpan(),
		"expected '"+k.String()+"'",
		diag.Note{Span: open.Span, Msg: "to match this '" + open.Text + "'"})
	return false
}

func (p *Parser) parseVarStatement() ast.NodeID {
	start := p.peek().Span.Start
	decl := p.parseVarDeclaration(false)
	p.consumeSemicolon()
	p.tree.SetSpan(decl, p.spanFrom(start))
	return decl
}

// parseVarDeclaration parses "var|let|const a = 1, b". In a for header
// noIn keeps "in" from being read as an operator.
func (p *Parser) parseVarDeclaration(noIn bool) ast.NodeID {
	kw := p.advance()
	var decls []ast.NodeID
	for {
		dstart := p.peek().Span.Start
		id := p.parseBindingTarget()
		if !id.IsValid() {
			break
		}
		init := ast.NoNodeID
		if p.eat(token.Assign) {
			init = p.parseAssign(noIn)
		}
		decls = append(decls, p.tree.NewPair(ast.VariableDeclarator, p.spanFrom(dstart), id, init))
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.tree.NewVarDecl(p.spanFrom(kw.Span.Start), ast.VarDeclData{Kind: kw.Kind, Decls: decls})
}

func (p *Parser) parseParenExpr() ast.NodeID {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	if !ok {
		return ast.NoNodeID
	}
	expr := p.parseExpression(false)
	p.closeDelimiter(token.RParen, open)
	return expr
}

func (p *Parser) parseIf() ast.NodeID {
	start := p.advance().Span.Start
	test := p.parseParenExpr()
	cons := p.parseStatement()
	alt := ast.NoNodeID
	if p.eat(token.KwElse) {
		alt = p.parseStatement()
	}
	return p.tree.NewCond(ast.IfStatement, p.spanFrom(start), ast.CondData{Test: test, Cons: cons, Alt: alt})
}

func (p *Parser) parseWhile() ast.NodeID {
	start := p.advance().Span.Start
	test := p.parseParenExpr()
	body := p.parseStatement()
	return p.tree.NewPair(ast.WhileStatement, p.spanFrom(start), test, body)
}

func (p *Parser) parseDoWhile() ast.NodeID {
	start := p.advance().Span.Start
	body := p.parseStatement()
	p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while'")
	test := p.parseParenExpr()
	p.eat(token.Semicolon)
	return p.tree.NewPair(ast.DoWhileStatement, p.spanFrom(start), body, test)
}

func (p *Parser) parseWith() ast.NodeID {
	start := p.advance().Span.Start
	obj := p.parseParenExpr()
	body := p.parseStatement()
	return p.tree.NewPair(ast.WithStatement, p.spanFrom(start), obj, body)
}

// parseJump handles return, break and continue. The argument must start
// on the same line as the keyword.
func (p *Parser) parseJump(kind ast.Kind, exprArg bool) ast.NodeID {
	start := p.advance().Span.Start
	arg := ast.NoNodeID
	if !p.atOr(token.Semicolon, token.RBrace, token.EOF) && !p.peek().HasNewlineBefore() {
		if exprArg {
			arg = p.parseExpression(false)
		} else if p.at(token.Ident) {
			arg = p.parseIdentifier()
		}
	}
	p.consumeSemicolon()
	return p.tree.NewWrap(kind, p.spanFrom(start), arg, false)
}

func (p *Parser) parseThrow() ast.NodeID {
	start := p.advance().Span.Start
	if p.peek().HasNewlineBefore() {
		p.err(diag.SynExpectExpression, "illegal newline after throw")
	}
	arg := p.parseExpression(false)
	p.consumeSemicolon()
	return p.tree.NewWrap(ast.ThrowStatement, p.spanFrom(start), arg, false)
}

func (p *Parser) parseTry() ast.NodeID {
	start := p.advance().Span.Start
	block := p.parseBlock(ast.BlockStatement)
	handler, finalizer := ast.NoNodeID, ast.NoNodeID
	if p.at(token.KwCatch) {
		cstart := p.advance().Span.Start
		param := ast.NoNodeID
		if open := p.peek(); p.eat(token.LParen) {
			param = p.parseBindingTarget()
			p.closeDelimiter(token.RParen, open)
		}
		body := p.parseBlock(ast.BlockStatement)
		handler = p.tree.NewPair(ast.CatchClause, p.spanFrom(cstart), param, body)
	}
	if p.eat(token.KwFinally) {
		finalizer = p.parseBlock(ast.BlockStatement)
	}
	if !handler.IsValid() && !finalizer.IsValid() {
		p.err(diag.SynUnexpectedToken, "expected 'catch' or 'finally'")
	}
	return p.tree.NewTry(p.spanFrom(start), ast.TryData{Block: block, Handler: handler, Finalizer: finalizer})
}

func (p *Parser) parseSwitch() ast.NodeID {
	start := p.advance().Span.Start
	disc := p.parseParenExpr()
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return p.tree.NewSwitch(ast.SwitchStatement, p.spanFrom(start), ast.SwitchData{Head: disc})
	}
	var cases []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		cstart := p.peek().Span.Start
		test := ast.NoNodeID
		switch {
		case p.eat(token.KwCase):
			test = p.parseExpression(false)
		case p.eat(token.KwDefault):
		default:
			p.unexpected()
			p.resyncStatement()
			continue
		}
		p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
		var body []ast.NodeID
		for !p.atOr(token.KwCase, token.KwDefault, token.RBrace, token.EOF) {
			before := p.pos
			if stmt := p.parseStatementListItem(); stmt.IsValid() {
				body = append(body, stmt)
			}
			if p.pos == before {
				p.advance()
			}
		}
		cases = append(cases, p.tree.NewSwitch(ast.SwitchCase, p.spanFrom(cstart), ast.SwitchData{Head: test, Items: body}))
	}
	p.closeDelimiter(token.RBrace, open)
	return p.tree.NewSwitch(ast.SwitchStatement, p.spanFrom(start), ast.SwitchData{Head: disc, Items: cases})
}

// parseFor handles the classic, in and of forms, with "for await".
func (p *Parser) parseFor() ast.NodeID {
	start := p.advance().Span.Start
	await := false
	if p.at(token.KwAwait) {
		p.advance()
		await = true
	}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after for")
	if !ok {
		p.resyncStatement()
		return ast.NoNodeID
	}

	init := ast.NoNodeID
	switch {
	case p.at(token.Semicolon):
	case p.atOr(token.KwVar, token.KwConst), p.at(token.KwLet) && p.letStartsDeclaration():
		init = p.parseVarDeclaration(true)
	default:
		init = p.parseExpression(true)
	}

	if init.IsValid() && (p.at(token.KwIn) || p.atContextual("of")) {
		kind := ast.ForInStatement
		if p.atContextual("of") {
			kind = ast.ForOfStatement
		}
		p.advance()
		if p.tree.Kind(init) != ast.VariableDeclaration {
			init = p.toAssignTarget(init)
		}
		var right ast.NodeID
		if kind == ast.ForOfStatement {
			right = p.parseAssign(false)
		} else {
			right = p.parseExpression(false)
		}
		p.closeDelimiter(token.RParen, open)
		body := p.parseStatement()
		return p.tree.NewLoop(kind, p.spanFrom(start), ast.LoopData{Init: init, Test: right, Body: body, Await: await})
	}

	if _, ok := p.expect(token.Semicolon, diag.SynForBadHeader, "expected ';' in for header"); !ok {
		p.resyncUntilClose()
		body := p.parseStatement()
		return p.tree.NewLoop(ast.ForStatement, p.spanFrom(start), ast.LoopData{Init: init, Body: body})
	}
	test, update := ast.NoNodeID, ast.NoNodeID
	if !p.at(token.Semicolon) {
		test = p.parseExpression(false)
	}
	p.expect(token.Semicolon, diag.SynForBadHeader, "expected ';' in for header")
	if !p.at(token.RParen) {
		update = p.parseExpression(false)
	}
	p.closeDelimiter(token.RParen, open)
	body := p.parseStatement()
	return p.tree.NewLoop(ast.ForStatement, p.spanFrom(start), ast.LoopData{Init: init, Test: test, Update: update, Body: body})
}

// resyncUntilClose skips past the ')' closing the current header.
func (p *Parser) resyncUntilClose() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LParen:
			depth++
		case token.RParen:
			if depth == 0 {
				p.advance()
				return
			}
			depth--
		}
		p.advance()
	}
}
