package parser

import (
	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/source"
	"mimic/internal/token"
)

// parseVarDecl:
//
//	('var'|'let') name? (':' type-annotation)? ('=' expr)? accessor-block?
func (p *Parser) parseVarDecl(start source.Span, attrs, mods []string) ast.NodeID {
	kw := p.advance()
	d := ast.VarDeclData{Let: kw.Kind == token.KwLet, Attrs: attrs, Modifiers: mods}

	switch tok := p.peek(); {
	case tok.Kind == token.Ident:
		d.Name = identName(p.advance())
	case tok.Kind == token.LParen:
		// кортежный паттерн (a, b): имени нет
		p.skipBalanced()
	default:
		p.warn(diag.SynExpectName, p.afterLast(), "expected property name")
	}

	if colon, ok := p.eat(token.Colon); ok {
		ann := p.parseTypeAnnotation()
		d.Type = ann.typ
		d.Annotation = p.spanFrom(colon.Span)
	}
	if _, ok := p.eat(token.Assign); ok {
		p.skipExpr(token.EOF, true)
	}
	// var a: Int, b: Int: остальные привязки пропускаем
	if p.at(token.Comma) {
		p.skipExpr(token.EOF, true)
	}

	d.Writable = !d.Let
	if p.at(token.LBrace) {
		d.HasAccessors = true
		d.Writable = p.parseAccessorBlock() && !d.Let
	}
	return p.b.VarDecl(p.spanFrom(start), d)
}

var accessorWords = map[string]bool{
	"get": true, "set": true, "willSet": true, "didSet": true,
	"_read": true, "_modify": true, "unsafeAddress": true, "unsafeMutableAddress": true, "init": true,
}

var accessorModifiers = map[string]bool{
	"mutating": true, "nonmutating": true, "__consuming": true, "borrowing": true, "consuming": true,
}

// parseAccessorBlock consumes { ... } after a property and reports whether it
// makes the property writable: a setter or an observer is present. A block
// that does not start with an accessor clause is an implicit getter.
func (p *Parser) parseAccessorBlock() bool {
	p.advance() // '{'
	writable, clauses := false, false
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF:
			p.warn(diag.SynExpectRBrace, p.afterLast(), "expected '}' to close accessor block")
			return writable
		case tok.Kind == token.RBrace:
			p.advance()
			return writable
		case tok.Kind == token.At:
			p.parseAttributes()
			if p.at(token.At) {
				p.advance()
			}
			continue
		case tok.Kind == token.Ident && accessorModifiers[tok.Text]:
			p.advance()
			continue
		case tok.Kind == token.KwInit && clauses:
			p.advance()
			continue
		case tok.Kind == token.Ident && accessorWords[tok.Text]:
			clauses = true
			switch tok.Text {
			case "set", "willSet", "didSet", "_modify", "unsafeMutableAddress":
				writable = true
			}
			p.advance()
			if p.atSameLine(token.LParen) {
				p.skipBalanced() // set(newValue)
			}
			p.parseEffects()
			if p.at(token.LBrace) {
				p.skipBalanced()
			}
			continue
		}
		if !clauses {
			// неявный геттер: пропускаем тело целиком
			if !p.skipUntilClosed([]token.Kind{token.RBrace}) {
				p.warn(diag.SynExpectRBrace, p.afterLast(), "expected '}' to close getter body")
			}
			return false
		}
		p.warn(diag.SynUnexpectedToken, tok.Span, "unexpected token in accessor block")
		p.skipDecl()
		if p.peek().Span == tok.Span {
			p.advance()
		}
	}
}

// parseTypeAlias:
//
//	'typealias' name generic-params? '=' type
//	'associatedtype' name (':' constraints)? ('=' type)? where?
func (p *Parser) parseTypeAlias(start source.Span, mods []string) ast.NodeID {
	kw := p.advance()
	d := ast.TypeAliasData{Associated: kw.Kind == token.KwAssociatedtype, Modifiers: mods}
	if p.peek().Kind == token.Ident {
		d.Name = identName(p.advance())
	} else {
		p.warn(diag.SynExpectName, p.afterLast(), "expected "+kw.Text+" name")
	}
	if p.atSameLine(token.Lt) {
		d.Generics = p.parseGenericParams()
	}
	if _, ok := p.eat(token.Colon); ok {
		p.skipAssociatedConstraints()
	}
	if _, ok := p.eat(token.Assign); ok {
		if p.startsType() {
			d.Type = p.parseType()
		} else {
			p.warn(diag.SynExpectType, p.afterLast(), "expected aliased type after '='")
		}
	} else if !d.Associated {
		p.warn(diag.SynUnexpectedToken, p.afterLast(), "expected '=' in typealias")
	}
	p.skipWhere()
	return p.b.TypeAlias(p.spanFrom(start), d)
}

// skipAssociatedConstraints пропускает список ограничений до '=', where или конца строки.
func (p *Parser) skipAssociatedConstraints() {
	consumed := false
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF, tok.Kind == token.RBrace, tok.Kind == token.Assign, tok.Kind == token.KwWhere:
			return
		case consumed && tok.NewlineBefore():
			return
		case tok.Kind == token.LParen, tok.Kind == token.LBracket:
			p.skipBalanced()
		default:
			p.advance()
		}
		consumed = true
	}
}
