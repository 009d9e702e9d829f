package parser

import (
	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/token"
)

func (p *Parser) parsePrimary() ast.NodeID {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.KwYield, token.KwAwait, token.KwLet:
		if tok.Text == "async" && p.peekN(1).Kind == token.KwFunction && !p.peekN(1).HasNewlineBefore() {
			p.advance()
			return p.parseFunction(false, true, tok.Span.Start)
		}
		return p.parseIdentifier()
	case token.KwThis:
		p.advance()
		return p.tree.NewLeaf(ast.ThisExpression, tok.Span)
	case token.KwSuper:
		p.advance()
		return p.tree.NewLeaf(ast.Super, tok.Span)
	case token.NumberLit, token.BigIntLit, token.StringLit, token.RegexLit,
		token.KwNull, token.KwTrue, token.KwFalse:
		p.advance()
		return p.tree.NewLiteral(ast.Literal, tok.Span, tok.Kind, tok.Text)
	case token.TemplateLit:
		p.advance()
		return p.tree.NewLiteral(ast.TemplateLiteral, tok.Span, tok.Kind, tok.Text)
	case token.LParen:
		return p.parseParenthesized()
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.KwFunction:
		return p.parseFunction(false, false, tok.Span.Start)
	case token.KwClass:
		return p.parseClass(false)
	case token.KwImport:
		return p.parseImportCall()
	case token.Invalid:
		p.unexpected()
		p.advance()
		return ast.NoNodeID
	}
	p.err(diag.SynExpectExpression, "expected expression")
	return ast.NoNodeID
}

// parseParenthesized returns the inner expression; the tree has no
// node for the parentheses themselves.
func (p *Parser) parseParenthesized() ast.NodeID {
	open := p.advance()
	expr := p.parseExpression(false)
	if !expr.IsValid() {
		p.skipToListEnd(token.RParen)
	}
	p.closeDelimiter(token.RParen, open)
	return expr
}

func (p *Parser) parseImportCall() ast.NodeID {
	kw := p.advance()
	if p.eat(token.Dot) {
		meta := p.tree.NewIdent(ast.Identifier, kw.Span, "import")
		prop := p.parseMemberName()
		return p.tree.NewPair(ast.MetaProperty, p.spanFrom(kw.Span.Start), meta, prop)
	}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after import")
	if !ok {
		return ast.NoNodeID
	}
	arg := p.parseAssign(false)
	if p.eat(token.Comma) && !p.at(token.RParen) {
		p.parseAssign(false)
		p.eat(token.Comma)
	}
	p.closeDelimiter(token.RParen, open)
	return p.tree.NewWrap(ast.ImportExpression, p.spanFrom(kw.Span.Start), arg, false)
}

// parseArrayLiteral keeps holes as NoNodeID items.
func (p *Parser) parseArrayLiteral() ast.NodeID {
	open := p.advance()
	var items []ast.NodeID
	for !p.atOr(token.RBracket, token.EOF) {
		if p.eat(token.Comma) {
			items = append(items, ast.NoNodeID)
			continue
		}
		var item ast.NodeID
		if p.at(token.DotDotDot) {
			item = p.parseSpread()
		} else {
			item = p.parseAssign(false)
		}
		if !item.IsValid() {
			p.skipToListEnd(token.RBracket)
			break
		}
		items = append(items, item)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.closeDelimiter(token.RBracket, open)
	return p.tree.NewList(ast.ArrayExpression, p.spanFrom(open.Span.Start), items)
}

func (p *Parser) parseObjectLiteral() ast.NodeID {
	open := p.advance()
	var props []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		prop := p.parseObjectMember()
		if !prop.IsValid() {
			p.skipToListEnd(token.RBrace)
			break
		}
		props = append(props, prop)
		if !p.eat(token.Comma) {
			if !p.atOr(token.RBrace, token.EOF) {
				p.err(diag.SynUnexpectedToken, "expected ',' or '}' in object literal")
				p.skipToListEnd(token.RBrace)
			}
			break
		}
	}
	p.closeDelimiter(token.RBrace, open)
	return p.tree.NewList(ast.ObjectExpression, p.spanFrom(open.Span.Start), props)
}

// keyFollows reports whether the token after a contextual modifier such
// as get, set or async begins a property key, which makes the word a
// modifier rather than the key itself.
func (p *Parser) keyFollows() bool {
	next := p.peekN(1)
	switch next.Kind {
	case token.Colon, token.LParen, token.Comma, token.RBrace, token.Assign, token.Semicolon, token.EOF:
		return false
	}
	return true
}

// parseObjectMember parses one member of an object literal. A shorthand
// with an initializer ({a = 1}) is only valid once the literal turns
// into a pattern; it is kept as an AssignmentPattern value either way.
func (p *Parser) parseObjectMember() ast.NodeID {
	start := p.peek().Span.Start
	if p.at(token.DotDotDot) {
		return p.parseSpread()
	}

	kind := ast.PropInit
	async, generator := false, false
	if p.atContextual("get") || p.atContextual("set") {
		if p.keyFollows() {
			if p.peek().Text == "get" {
				kind = ast.PropGet
			} else {
				kind = ast.PropSet
			}
			p.advance()
		}
	} else if p.atContextual("async") && p.keyFollows() && !p.peekN(1).HasNewlineBefore() {
		p.advance()
		async = true
	}
	if p.eat(token.Star) {
		generator = true
	}

	keyTok := p.peek()
	key, computed := p.parsePropertyKey(false)
	if !key.IsValid() {
		return ast.NoNodeID
	}

	if kind != ast.PropInit || async || generator || p.at(token.LParen) {
		value := p.parseMethod(async, generator)
		if kind == ast.PropInit {
			kind = ast.PropMethod
		}
		return p.tree.NewProperty(ast.Property, p.spanFrom(start), ast.PropertyData{
			Key: key, Value: value, Kind: kind, Computed: computed, Method: kind == ast.PropMethod,
		})
	}

	if p.eat(token.Colon) {
		value := p.parseAssign(false)
		if !value.IsValid() {
			return ast.NoNodeID
		}
		return p.tree.NewProperty(ast.Property, p.spanFrom(start), ast.PropertyData{Key: key, Value: value, Computed: computed})
	}

	if computed || !(keyTok.Kind == token.Ident || keyTok.Kind == token.KwYield || keyTok.Kind == token.KwAwait || keyTok.Kind == token.KwLet) {
		p.err(diag.SynExpectColon, "expected ':' after property key")
		return ast.NoNodeID
	}

	value := key
	if op := p.peek(); op.Kind == token.Assign {
		p.advance()
		right := p.parseAssign(false)
		value = p.tree.NewAssign(ast.AssignmentPattern, p.spanFrom(start), ast.AssignData{
			Op: op.Kind, Left: key, Right: right, OpSpan: op.Span,
		})
	}
	return p.tree.NewProperty(ast.Property, p.spanFrom(start), ast.PropertyData{Key: key, Value: value, Shorthand: true})
}

// parsePropertyKey parses an identifier name, string, number, computed
// key, or (in classes) a private name.
func (p *Parser) parsePropertyKey(allowPrivate bool) (ast.NodeID, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.LBracket:
		open := p.advance()
		key := p.parseAssign(false)
		p.closeDelimiter(token.RBracket, open)
		return key, true
	case tok.Kind == token.StringLit || tok.Kind == token.NumberLit || tok.Kind == token.BigIntLit:
		p.advance()
		return p.tree.NewLiteral(ast.Literal, tok.Span, tok.Kind, tok.Text), false
	case tok.Kind == token.PrivateName && allowPrivate:
		p.advance()
		return p.tree.NewIdent(ast.PrivateIdentifier, tok.Span, tok.Text), false
	case tok.IsIdentName():
		p.advance()
		return p.tree.NewIdent(ast.Identifier, tok.Span, tok.Text), false
	}
	p.err(diag.SynExpectIdentifier, "expected property key")
	return ast.NoNodeID, false
}

// parseMethod parses the parameter list and body of an object or class
// method into a FunctionExpression.
func (p *Parser) parseMethod(async, generator bool) ast.NodeID {
	fnStart := p.peek().Span.Start
	params, body := p.parseFunctionRest(async, generator)
	return p.tree.NewFunc(ast.FunctionExpression, p.spanFrom(fnStart), ast.FuncData{
		Params: params, Body: body, Async: async, Generator: generator,
	})
}
