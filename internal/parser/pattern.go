package parser

import (
	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/token"
)

// parseBindingTarget parses an identifier or a destructuring pattern.
// Patterns are read with the literal grammar and converted in place.
func (p *Parser) parseBindingTarget() ast.NodeID {
	switch tok := p.peek(); {
	case isBindingIdent(tok.Kind):
		return p.parseIdentifier()
	case tok.Kind == token.LBrace:
		return p.toPattern(p.parseObjectLiteral(), true)
	case tok.Kind == token.LBracket:
		return p.toPattern(p.parseArrayLiteral(), true)
	}
	p.err(diag.SynExpectIdentifier, "expected identifier or pattern")
	return ast.NoNodeID
}

// parseBindingElement parses a binding target with an optional default.
func (p *Parser) parseBindingElement() ast.NodeID {
	start := p.peek().Span.Start
	target := p.parseBindingTarget()
	if !target.IsValid() {
		return target
	}
	op := p.peek()
	if op.Kind != token.Assign {
		return target
	}
	p.advance()
	right := p.parseAssign(false)
	return p.tree.NewAssign(ast.AssignmentPattern, p.spanFrom(start), ast.AssignData{
		Op: op.Kind, Left: target, Right: right, OpSpan: op.Span,
	})
}

// toAssignTarget converts the left side of "=" or a for-in/of head.
func (p *Parser) toAssignTarget(id ast.NodeID) ast.NodeID {
	return p.toPattern(id, false)
}

// toPattern retags an expression subtree as a pattern: object and array
// literals become patterns, spreads become rest elements and "="
// assignments become AssignmentPatterns. Member expressions are valid
// assignment targets but not binding targets.
func (p *Parser) toPattern(id ast.NodeID, binding bool) ast.NodeID {
	if !id.IsValid() {
		return id
	}
	switch p.tree.Kind(id) {
	case ast.Identifier, ast.ObjectPattern, ast.ArrayPattern, ast.AssignmentPattern:
		return id
	case ast.MemberExpression:
		if !binding {
			return id
		}
	case ast.ObjectExpression:
		p.tree.Retag(id, ast.ObjectPattern)
		items := p.tree.List(id).Items
		for i, item := range items {
			switch p.tree.Kind(item) {
			case ast.Property:
				prop := p.tree.Property(item)
				if prop.Kind != ast.PropInit {
					p.invalidTarget(item)
					continue
				}
				if !prop.Shorthand {
					prop.Value = p.toPattern(prop.Value, binding)
				}
			case ast.SpreadElement:
				if i != len(items)-1 {
					p.report(diag.SynInvalidAssignTarget, diag.SevError, p.tree.Span(item), "rest element must be last")
				}
				p.tree.Retag(item, ast.RestElement)
				w := p.tree.Wrap(item)
				w.Inner = p.toPattern(w.Inner, binding)
			}
		}
		return id
	case ast.ArrayExpression:
		p.tree.Retag(id, ast.ArrayPattern)
		items := p.tree.List(id).Items
		for i, item := range items {
			if !item.IsValid() {
				continue
			}
			if p.tree.Kind(item) == ast.SpreadElement {
				if i != len(items)-1 {
					p.report(diag.SynInvalidAssignTarget, diag.SevError, p.tree.Span(item), "rest element must be last")
				}
				p.tree.Retag(item, ast.RestElement)
				w := p.tree.Wrap(item)
				w.Inner = p.toPattern(w.Inner, binding)
				continue
			}
			items[i] = p.toPattern(item, binding)
		}
		return id
	case ast.AssignmentExpression:
		a := p.tree.Assign(id)
		if a.Op == token.Assign {
			p.tree.Retag(id, ast.AssignmentPattern)
			a.Left = p.toPattern(a.Left, binding)
			return id
		}
	}
	p.invalidTarget(id)
	return id
}

func (p *Parser) invalidTarget(id ast.NodeID) {
	msg := "invalid assignment target"
	p.report(diag.SynInvalidAssignTarget, diag.SevError, p.tree.Span(id), msg)
}
