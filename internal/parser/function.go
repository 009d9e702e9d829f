package parser

import (
	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/token"
)

// funcScope saves the function-context flags around a nested body.
type funcScope struct {
	inFunction, inAsync, inGenerator bool
}

func (p *Parser) pushFunc(async, generator bool) funcScope {
	saved := funcScope{p.inFunction, p.inAsync, p.inGenerator}
	p.inFunction, p.inAsync, p.inGenerator = true, async, generator
	return saved
}

func (p *Parser) popFunc(s funcScope) {
	p.inFunction, p.inAsync, p.inGenerator = s.inFunction, s.inAsync, s.inGenerator
}

func isBindingIdent(k token.Kind) bool {
	return k == token.Ident || k == token.KwYield || k == token.KwAwait || k == token.KwLet
}

// arrowAhead decides whether the tokens at the cursor begin an arrow
// function. Parenthesized heads are checked through the precomputed
// paren table, so the decision does not rescan the parameter list.
func (p *Parser) arrowAhead() bool {
	i := p.pos
	if p.atContextual("async") {
		next := p.peekN(1)
		if !next.HasNewlineBefore() {
			if isBindingIdent(next.Kind) && p.isArrowToken(i+2) {
				return true
			}
			if p.parenArrowAt(i + 1) {
				return true
			}
		}
	}
	switch p.toks[i].Kind {
	case token.Ident, token.KwYield, token.KwAwait, token.KwLet:
		return p.isArrowToken(i + 1)
	case token.LParen:
		return p.parenArrowAt(i)
	}
	return false
}

// parenArrowAt reports whether the '(' at index i closes with ')' '=>'.
func (p *Parser) parenArrowAt(i int) bool {
	if i >= len(p.toks) || p.toks[i].Kind != token.LParen {
		return false
	}
	j := p.parenMatch[i]
	return j >= 0 && p.isArrowToken(int(j)+1)
}

func (p *Parser) isArrowToken(i int) bool {
	return i < len(p.toks) && p.toks[i].Kind == token.FatArrow && !p.toks[i].HasNewlineBefore()
}

func (p *Parser) parseArrow(noIn bool) ast.NodeID {
	start := p.peek().Span.Start
	async := false
	if p.atContextual("async") && !p.isArrowToken(p.pos+1) {
		p.advance()
		async = true
	}

	var params []ast.NodeID
	if p.at(token.LParen) {
		params = p.parseParams()
	} else {
		params = []ast.NodeID{p.parseIdentifier()}
	}
	p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>'")

	saved := p.pushFunc(async, false)
	defer p.popFunc(saved)

	data := ast.FuncData{Params: params, Async: async}
	if p.at(token.LBrace) {
		data.Body = p.parseBlock(ast.BlockStatement)
	} else {
		data.Body = p.parseAssign(noIn)
		data.ExprBody = true
	}
	return p.tree.NewFunc(ast.ArrowFunctionExpression, p.spanFrom(start), data)
}

// parseFunction parses "function [*] [name] (params) { body }" with the
// cursor on the function keyword. start covers a preceding async.
func (p *Parser) parseFunction(decl, async bool, start uint32) ast.NodeID {
	p.advance()
	generator := p.eat(token.Star)
	id := ast.NoNodeID
	if isBindingIdent(p.peek().Kind) {
		id = p.parseIdentifier()
	}
	params, body := p.parseFunctionRest(async, generator)
	kind := ast.FunctionExpression
	if decl {
		kind = ast.FunctionDeclaration
	}
	return p.tree.NewFunc(kind, p.spanFrom(start), ast.FuncData{
		ID: id, Params: params, Body: body, Async: async, Generator: generator,
	})
}

func (p *Parser) parseFunctionRest(async, generator bool) ([]ast.NodeID, ast.NodeID) {
	saved := p.pushFunc(async, generator)
	defer p.popFunc(saved)
	params := p.parseParams()
	body := p.parseBlock(ast.BlockStatement)
	return params, body
}

// parseParams parses a formal parameter list including defaults and a
// trailing rest element.
func (p *Parser) parseParams() []ast.NodeID {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	if !ok {
		return nil
	}
	var params []ast.NodeID
	for !p.atOr(token.RParen, token.EOF) {
		var param ast.NodeID
		if p.at(token.DotDotDot) {
			start := p.advance().Span.Start
			target := p.parseBindingTarget()
			param = p.tree.NewWrap(ast.RestElement, p.spanFrom(start), target, false)
		} else {
			param = p.parseBindingElement()
		}
		if !param.IsValid() {
			p.skipToListEnd(token.RParen)
			break
		}
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.closeDelimiter(token.RParen, open)
	return params
}

func (p *Parser) parseClass(decl bool) ast.NodeID {
	kw := p.advance()
	id := ast.NoNodeID
	if isBindingIdent(p.peek().Kind) {
		id = p.parseIdentifier()
	}
	super := ast.NoNodeID
	if p.eat(token.KwExtends) {
		super = p.parseLeftHandSide()
	}

	body := ast.NoNodeID
	if open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' in class"); ok {
		var members []ast.NodeID
		for !p.atOr(token.RBrace, token.EOF) {
			if p.eat(token.Semicolon) {
				continue
			}
			before := p.pos
			if m := p.parseClassMember(); m.IsValid() {
				members = append(members, m)
			} else {
				p.skipToListEnd(token.RBrace)
			}
			if p.pos == before {
				p.advance()
			}
		}
		p.closeDelimiter(token.RBrace, open)
		body = p.tree.NewList(ast.ClassBody, p.spanFrom(open.Span.Start), members)
	}

	kind := ast.ClassExpression
	if decl {
		kind = ast.ClassDeclaration
	}
	return p.tree.NewClass(kind, p.spanFrom(kw.Span.Start), ast.ClassData{ID: id, Super: super, Body: body})
}

func (p *Parser) parseClassMember() ast.NodeID {
	start := p.peek().Span.Start
	static := false
	if p.atContextual("static") {
		if p.peekN(1).Kind == token.LBrace {
			p.advance()
			saved := p.pushFunc(false, false)
			block := p.parseBlock(ast.StaticBlock)
			p.popFunc(saved)
			p.tree.SetSpan(block, p.spanFrom(start))
			return block
		}
		if p.keyFollows() {
			p.advance()
			static = true
		}
	}

	kind := ast.PropInit
	async, generator := false, false
	if (p.atContextual("get") || p.atContextual("set")) && p.keyFollows() {
		if p.peek().Text == "get" {
			kind = ast.PropGet
		} else {
			kind = ast.PropSet
		}
		p.advance()
	} else if p.atContextual("async") && p.keyFollows() && !p.peekN(1).HasNewlineBefore() {
		p.advance()
		async = true
	}
	if p.eat(token.Star) {
		generator = true
	}

	key, computed := p.parsePropertyKey(true)
	if !key.IsValid() {
		return ast.NoNodeID
	}

	if kind != ast.PropInit || async || generator || p.at(token.LParen) {
		value := p.parseMethod(async, generator)
		switch {
		case kind != ast.PropInit:
		case !static && !computed && p.tree.Name(key) == "constructor":
			kind = ast.PropConstructor
		default:
			kind = ast.PropMethod
		}
		return p.tree.NewProperty(ast.MethodDefinition, p.spanFrom(start), ast.PropertyData{
			Key: key, Value: value, Kind: kind, Computed: computed, Static: static, Method: true,
		})
	}

	value := ast.NoNodeID
	if p.eat(token.Assign) {
		saved := p.pushFunc(false, false)
		value = p.parseAssign(false)
		p.popFunc(saved)
	}
	p.consumeSemicolon()
	return p.tree.NewProperty(ast.PropertyDefinition, p.spanFrom(start), ast.PropertyData{
		Key: key, Value: value, Computed: computed, Static: static,
	})
}
