package parser

import (
	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/token"
)

// parseExpression parses a comma-separated expression.
func (p *Parser) parseExpression(noIn bool) ast.NodeID {
	start := p.peek().Span.Start
	first := p.parseAssign(noIn)
	if !first.IsValid() || !p.at(token.Comma) {
		return first
	}
	items := []ast.NodeID{first}
	for p.eat(token.Comma) {
		next := p.parseAssign(noIn)
		if !next.IsValid() {
			break
		}
		items = append(items, next)
	}
	return p.tree.NewList(ast.SequenceExpression, p.spanFrom(start), items)
}

// parseAssign parses AssignmentExpression: arrows, yield, conditional
// expressions and assignments, right-associative.
func (p *Parser) parseAssign(noIn bool) ast.NodeID {
	if !p.enter() {
		return ast.NoNodeID
	}
	defer p.leave()

	start := p.peek()
	if p.arrowAhead() {
		return p.parseArrow(noIn)
	}
	if start.Kind == token.KwYield && p.inGenerator {
		return p.parseYield(noIn)
	}

	left := p.parseConditional(noIn)
	if !left.IsValid() {
		return left
	}
	op := p.peek()
	if !op.Kind.IsAssignOp() {
		return left
	}
	p.advance()
	if op.Kind == token.Assign {
		left = p.toAssignTarget(left)
	} else if k := p.tree.Kind(left); k != ast.Identifier && k != ast.MemberExpression {
		p.report(diag.SynInvalidAssignTarget, diag.SevError, p.tree.Span(left), "invalid assignment target")
	}
	right := p.parseAssign(noIn)
	return p.tree.NewAssign(ast.AssignmentExpression, p.spanFrom(start.Span.Start), ast.AssignData{
		Op:     op.Kind,
		Left:   left,
		Right:  right,
		OpSpan: op.Span,
	})
}

func (p *Parser) parseYield(noIn bool) ast.NodeID {
	start := p.advance().Span.Start
	delegate := false
	arg := ast.NoNodeID
	if !p.peek().HasNewlineBefore() {
		if p.eat(token.Star) {
			delegate = true
			arg = p.parseAssign(noIn)
		} else if !p.atOr(token.RParen, token.RBracket, token.RBrace, token.Comma, token.Semicolon, token.Colon, token.EOF) {
			arg = p.parseAssign(noIn)
		}
	}
	return p.tree.NewWrap(ast.YieldExpression, p.spanFrom(start), arg, delegate)
}

func (p *Parser) parseConditional(noIn bool) ast.NodeID {
	start := p.peek().Span.Start
	test := p.parseBinary(precCoalesce, noIn)
	if !test.IsValid() || !p.eat(token.Question) {
		return test
	}
	cons := p.parseAssign(false)
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' in conditional expression")
	alt := p.parseAssign(noIn)
	return p.tree.NewCond(ast.ConditionalExpression, p.spanFrom(start), ast.CondData{Test: test, Cons: cons, Alt: alt})
}

// parseBinary is precedence climbing over the operator table.
func (p *Parser) parseBinary(minPrec int, noIn bool) ast.NodeID {
	start := p.peek().Span.Start
	var left ast.NodeID
	if p.at(token.PrivateName) && p.peekN(1).Kind == token.KwIn {
		tok := p.advance()
		left = p.tree.NewIdent(ast.PrivateIdentifier, tok.Span, tok.Text)
	} else {
		left = p.parseUnary()
	}
	if !left.IsValid() {
		return left
	}
	for {
		op := p.peek()
		prec := binaryPrec(op.Kind, noIn)
		if prec == precNone || prec < minPrec {
			return left
		}
		p.advance()
		next := prec + 1
		if isRightAssoc(op.Kind) {
			next = prec
		}
		right := p.parseBinary(next, noIn)
		if !right.IsValid() {
			return left
		}
		left = p.tree.NewBinary(binaryKind(op.Kind), p.spanFrom(start), ast.BinaryData{Op: op.Kind, Left: left, Right: right})
	}
}

func (p *Parser) parseUnary() ast.NodeID {
	if !p.enter() {
		return ast.NoNodeID
	}
	defer p.leave()

	tok := p.peek()
	switch {
	case isUnaryOp(tok.Kind):
		p.advance()
		arg := p.parseUnary()
		return p.tree.NewUnary(ast.UnaryExpression, p.spanFrom(tok.Span.Start), ast.UnaryData{Op: tok.Kind, Prefix: true, Arg: arg})
	case tok.Kind == token.PlusPlus || tok.Kind == token.MinusMinus:
		p.advance()
		arg := p.parseUnary()
		p.checkSimpleTarget(arg)
		return p.tree.NewUnary(ast.UpdateExpression, p.spanFrom(tok.Span.Start), ast.UnaryData{Op: tok.Kind, Prefix: true, Arg: arg})
	case tok.Kind == token.KwAwait && (p.inAsync || !p.inFunction):
		p.advance()
		arg := p.parseUnary()
		return p.tree.NewWrap(ast.AwaitExpression, p.spanFrom(tok.Span.Start), arg, false)
	}

	expr := p.parseLeftHandSide()
	if !expr.IsValid() {
		return expr
	}
	if op := p.peek(); (op.Kind == token.PlusPlus || op.Kind == token.MinusMinus) && !op.HasNewlineBefore() {
		p.advance()
		p.checkSimpleTarget(expr)
		return p.tree.NewUnary(ast.UpdateExpression, p.spanFrom(tok.Span.Start), ast.UnaryData{Op: op.Kind, Arg: expr})
	}
	return expr
}

func (p *Parser) checkSimpleTarget(id ast.NodeID) {
	if !id.IsValid() {
		return
	}
	if k := p.tree.Kind(id); k != ast.Identifier && k != ast.MemberExpression {
		p.report(diag.SynInvalidAssignTarget, diag.SevError, p.tree.Span(id), "invalid update target")
	}
}

// parseLeftHandSide parses new, call and member chains. A chain with
// any optional link is wrapped in a ChainExpression.
func (p *Parser) parseLeftHandSide() ast.NodeID {
	start := p.peek().Span.Start
	var expr ast.NodeID
	if p.at(token.KwNew) {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}
	if !expr.IsValid() {
		return expr
	}
	optional := false
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Dot:
			p.advance()
			prop := p.parseMemberName()
			expr = p.tree.NewMember(p.spanFrom(start), ast.MemberData{Object: expr, Property: prop})
		case token.QuestionDot:
			p.advance()
			optional = true
			switch {
			case p.at(token.LParen):
				args := p.parseArguments()
				expr = p.tree.NewCall(ast.CallExpression, p.spanFrom(start), ast.CallData{Callee: expr, Args: args, Optional: true})
			case p.at(token.LBracket):
				prop := p.parseComputedMember()
				expr = p.tree.NewMember(p.spanFrom(start), ast.MemberData{Object: expr, Property: prop, Computed: true, Optional: true})
			default:
				prop := p.parseMemberName()
				expr = p.tree.NewMember(p.spanFrom(start), ast.MemberData{Object: expr, Property: prop, Optional: true})
			}
		case token.LBracket:
			prop := p.parseComputedMember()
			expr = p.tree.NewMember(p.spanFrom(start), ast.MemberData{Object: expr, Property: prop, Computed: true})
		case token.LParen:
			args := p.parseArguments()
			expr = p.tree.NewCall(ast.CallExpression, p.spanFrom(start), ast.CallData{Callee: expr, Args: args})
		case token.TemplateLit:
			if optional {
				p.err(diag.SynUnexpectedToken, "tagged template in optional chain")
			}
			p.advance()
			quasi := p.tree.NewLiteral(ast.TemplateLiteral, tok.Span, tok.Kind, tok.Text)
			expr = p.tree.NewPair(ast.TaggedTemplateExpression, p.spanFrom(start), expr, quasi)
		default:
			if optional {
				expr = p.tree.NewWrap(ast.ChainExpression, p.spanFrom(start), expr, false)
			}
			return expr
		}
	}
}

func (p *Parser) parseMemberName() ast.NodeID {
	tok := p.peek()
	switch {
	case tok.Kind == token.PrivateName:
		p.advance()
		return p.tree.NewIdent(ast.PrivateIdentifier, tok.Span, tok.Text)
	case tok.IsIdentName():
		p.advance()
		return p.tree.NewIdent(ast.Identifier, tok.Span, tok.Text)
	}
	p.err(diag.SynExpectIdentifier, "expected property name")
	return ast.NoNodeID
}

func (p *Parser) parseComputedMember() ast.NodeID {
	open := p.advance()
	prop := p.parseExpression(false)
	p.closeDelimiter(token.RBracket, open)
	return prop
}

// parseArguments parses "(a, ...b)".
func (p *Parser) parseArguments() []ast.NodeID {
	open := p.advance()
	var args []ast.NodeID
	for !p.atOr(token.RParen, token.EOF) {
		var arg ast.NodeID
		if p.at(token.DotDotDot) {
			arg = p.parseSpread()
		} else {
			arg = p.parseAssign(false)
		}
		if !arg.IsValid() {
			p.skipToListEnd(token.RParen)
			break
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.closeDelimiter(token.RParen, open)
	return args
}

// skipToListEnd drops tokens until the closing kind at the current
// nesting level, leaving it unconsumed.
func (p *Parser) skipToListEnd(closing token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		if depth == 0 && p.at(closing) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseSpread() ast.NodeID {
	start := p.advance().Span.Start
	arg := p.parseAssign(false)
	return p.tree.NewWrap(ast.SpreadElement, p.spanFrom(start), arg, false)
}

// parseNew handles "new X(args)", "new X" and "new.target".
func (p *Parser) parseNew() ast.NodeID {
	kw := p.advance()
	if p.at(token.Dot) {
		p.advance()
		meta := p.tree.NewIdent(ast.Identifier, kw.Span, "new")
		prop := p.parseMemberName()
		return p.tree.NewPair(ast.MetaProperty, p.spanFrom(kw.Span.Start), meta, prop)
	}
	if !p.enter() {
		return ast.NoNodeID
	}
	defer p.leave()

	var callee ast.NodeID
	if p.at(token.KwNew) {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	if !callee.IsValid() {
		return callee
	}
	calleeStart := p.tree.Span(callee).Start
	// member accesses bind tighter than new; calls do not
	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			prop := p.parseMemberName()
			callee = p.tree.NewMember(p.spanFrom(calleeStart), ast.MemberData{Object: callee, Property: prop})
		case p.at(token.LBracket):
			prop := p.parseComputedMember()
			callee = p.tree.NewMember(p.spanFrom(calleeStart), ast.MemberData{Object: callee, Property: prop, Computed: true})
		default:
			var args []ast.NodeID
			if p.at(token.LParen) {
				args = p.parseArguments()
			}
			return p.tree.NewCall(ast.NewExpression, p.spanFrom(kw.Span.Start), ast.CallData{Callee: callee, Args: args})
		}
	}
}

func (p *Parser) parseIdentifier() ast.NodeID {
	tok := p.peek()
	if tok.Kind == token.Ident || tok.Kind == token.KwYield || tok.Kind == token.KwAwait || tok.Kind == token.KwLet {
		p.advance()
		return p.tree.NewIdent(ast.Identifier, tok.Span, tok.Text)
	}
	p.err(diag.SynExpectIdentifier, "expected identifier")
	return ast.NoNodeID
}
