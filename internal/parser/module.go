package parser

import (
	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/token"
)

// parseImport parses every static import form.
func (p *Parser) parseImport() ast.NodeID {
	start := p.advance().Span.Start
	var specs []ast.NodeID

	if !p.at(token.StringLit) {
		more := true
		if isBindingIdent(p.peek().Kind) {
			local := p.parseIdentifier()
			specs = append(specs, p.tree.NewWrap(ast.ImportDefaultSpecifier, p.tree.Span(local), local, false))
			more = p.eat(token.Comma)
		}
		if more {
			switch {
			case p.at(token.Star):
				sstart := p.advance().Span.Start
				p.expectContextual("as")
				local := p.parseIdentifier()
				specs = append(specs, p.tree.NewWrap(ast.ImportNamespaceSpecifier, p.spanFrom(sstart), local, false))
			case p.at(token.LBrace):
				specs = append(specs, p.parseSpecifierList(ast.ImportSpecifier)...)
			default:
				p.err(diag.SynUnexpectedToken, "expected import specifiers")
				p.resyncStatement()
				return ast.NoNodeID
			}
		}
		p.expectContextual("from")
	}

	src := p.parseModuleSource()
	p.skipImportAttributes()
	p.consumeSemicolon()
	return p.tree.NewModule(ast.ImportDeclaration, p.spanFrom(start), ast.ModuleData{Specifiers: specs, Source: src})
}

func (p *Parser) parseExport() ast.NodeID {
	start := p.advance().Span.Start
	switch {
	case p.at(token.KwDefault):
		p.advance()
		var decl ast.NodeID
		switch {
		case p.at(token.KwFunction):
			decl = p.parseFunction(true, false, p.peek().Span.Start)
		case p.atContextual("async") && p.peekN(1).Kind == token.KwFunction:
			fstart := p.advance().Span.Start
			decl = p.parseFunction(true, true, fstart)
		case p.at(token.KwClass):
			decl = p.parseClass(true)
		default:
			decl = p.parseAssign(false)
			p.consumeSemicolon()
		}
		return p.tree.NewWrap(ast.ExportDefaultDeclaration, p.spanFrom(start), decl, false)

	case p.at(token.Star):
		p.advance()
		alias := ast.NoNodeID
		if p.atContextual("as") {
			p.advance()
			alias = p.parseModuleExportName()
		}
		p.expectContextual("from")
		src := p.parseModuleSource()
		p.skipImportAttributes()
		p.consumeSemicolon()
		return p.tree.NewModule(ast.ExportAllDeclaration, p.spanFrom(start), ast.ModuleData{Decl: alias, Source: src})

	case p.at(token.LBrace):
		specs := p.parseSpecifierList(ast.ExportSpecifier)
		src := ast.NoNodeID
		if p.atContextual("from") {
			p.advance()
			src = p.parseModuleSource()
			p.skipImportAttributes()
		}
		p.consumeSemicolon()
		return p.tree.NewModule(ast.ExportNamedDeclaration, p.spanFrom(start), ast.ModuleData{Specifiers: specs, Source: src})
	}

	decl := p.parseStatementListItem()
	switch p.tree.Kind(decl) {
	case ast.VariableDeclaration, ast.FunctionDeclaration, ast.ClassDeclaration:
	default:
		if decl.IsValid() {
			p.report(diag.SynUnexpectedToken, diag.SevError, p.tree.Span(decl), "expected declaration after export")
		}
	}
	return p.tree.NewModule(ast.ExportNamedDeclaration, p.spanFrom(start), ast.ModuleData{Decl: decl})
}

// parseSpecifierList parses "{ a, b as c, 'str' as d }". Specifiers
// without an alias leave the second half of the pair empty.
func (p *Parser) parseSpecifierList(kind ast.Kind) []ast.NodeID {
	open := p.advance()
	var specs []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		sstart := p.peek().Span.Start
		name := p.parseModuleExportName()
		if !name.IsValid() {
			p.skipToListEnd(token.RBrace)
			break
		}
		alias := ast.NoNodeID
		if p.atContextual("as") {
			p.advance()
			alias = p.parseModuleExportName()
		}
		specs = append(specs, p.tree.NewPair(kind, p.spanFrom(sstart), name, alias))
		if !p.eat(token.Comma) {
			break
		}
	}
	p.closeDelimiter(token.RBrace, open)
	return specs
}

func (p *Parser) parseModuleExportName() ast.NodeID {
	tok := p.peek()
	switch {
	case tok.Kind == token.StringLit:
		p.advance()
		return p.tree.NewLiteral(ast.Literal, tok.Span, tok.Kind, tok.Text)
	case tok.IsIdentName():
		p.advance()
		return p.tree.NewIdent(ast.Identifier, tok.Span, tok.Text)
	}
	p.err(diag.SynExpectIdentifier, "expected name")
	return ast.NoNodeID
}

func (p *Parser) parseModuleSource() ast.NodeID {
	tok, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "expected module specifier string")
	if !ok {
		return ast.NoNodeID
	}
	return p.tree.NewLiteral(ast.Literal, tok.Span, tok.Kind, tok.Text)
}

// skipImportAttributes drops "with { type: 'json' }".
func (p *Parser) skipImportAttributes() {
	if p.at(token.KwWith) && p.peekN(1).Kind == token.LBrace && !p.peek().HasNewlineBefore() {
		p.advance()
		p.parseObjectLiteral()
	}
}

func (p *Parser) expectContextual(word string) bool {
	if p.atContextual(word) {
		p.advance()
		return true
	}
	p.err(diag.SynUnexpectedToken, "expected '"+word+"'")
	return false
}
