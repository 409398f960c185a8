package parser

import (
	"strings"

	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/source"
	"mimic/internal/token"
	"mimic/internal/trace"
)

var declKinds = map[string]ast.DeclKind{
	"protocol":  ast.DeclProtocol,
	"class":     ast.DeclClass,
	"struct":    ast.DeclStruct,
	"enum":      ast.DeclEnum,
	"extension": ast.DeclExtension,
	"actor":     ast.DeclActor,
}

// parseTypeDecl:
//
//	kind name? generic-params? (':' inherited (',' inherited)*)? where? ('{' decls '}')?
func (p *Parser) parseTypeDecl(start source.Span, attrs, mods []string) ast.NodeID {
	kw := p.advance()
	d := ast.TypeDeclData{Kind: declKinds[kw.Text], Attrs: attrs, Modifiers: mods}
	sp := trace.Begin(p.tracer, trace.ScopeNode, "type_decl", p.span)

	if p.peek().Kind == token.Ident {
		name := []string{identName(p.advance())}
		// extension Outer.Inner
		for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
			p.advance()
			name = append(name, identName(p.advance()))
		}
		d.Name = strings.Join(name, ".")
	} else {
		p.warn(diag.SynExpectName, p.afterLast(), "expected "+kw.Text+" name")
	}
	sp.WithExtra("name", d.Name)

	if p.atSameLine(token.Lt) {
		d.Generics = p.parseGenericParams()
	}

	var kids []ast.NodeID
	if _, ok := p.eat(token.Colon); ok {
		d.Inherited = p.parseInheritance()
		for _, id := range d.Inherited {
			if id.IsValid() {
				kids = append(kids, id)
			}
		}
	}
	p.skipWhere()

	if lb, ok := p.eat(token.LBrace); ok {
		kids = append(kids, p.parseDecls(false)...)
		if rb, ok := p.eat(token.RBrace); ok {
			d.Body = source.Span{File: lb.Span.File, Start: lb.Span.End, End: rb.Span.Start}
			d.HasBody = true
		} else {
			d.Body = p.afterLast()
			p.warn(diag.SynExpectRBrace, d.Body, "expected '}' to close "+kw.Text+" body")
		}
	} else {
		d.Body = p.afterLast()
		p.warn(diag.SynExpectLBrace, d.Body, "expected '{' to open "+kw.Text+" body")
	}

	id := p.b.TypeDecl(p.spanFrom(start), d, kids)
	sp.End("")
	return id
}

// parseInheritance reads the list after ':'. A missing name yields NoNodeID
// (the error marker); the list goes on after the next ','.
func (p *Parser) parseInheritance() []ast.NodeID {
	var out []ast.NodeID
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.KwClass:
			p.advance()
			out = append(out, p.b.InheritedType(tok.Span, ast.NoNodeID))
		case p.startsType():
			ty := p.parseType()
			out = append(out, p.b.InheritedType(p.spanFrom(tok.Span), ty))
		default:
			p.warn(diag.SynExpectInheritedType, p.afterLast(), "expected inherited type name")
			out = append(out, ast.NoNodeID)
			p.skipInheritedGap()
		}
		if _, ok := p.eat(token.Comma); !ok {
			return out
		}
	}
}

// skipInheritedGap drops tokens that cannot start an inherited type, up to
// the next ',', the body, a where clause or a declaration on a new line.
func (p *Parser) skipInheritedGap() {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF, tok.Kind == token.Comma, tok.Kind == token.KwWhere,
			tok.Kind == token.LBrace, tok.Kind == token.RBrace:
			return
		case tok.NewlineBefore() && (startsDecl(tok) || tok.Kind == token.At || modifierWords[tok.Text]):
			return
		case tok.Kind == token.LParen, tok.Kind == token.LBracket:
			p.skipBalanced()
		default:
			p.advance()
		}
	}
}

// parseGenericParams reads <T, U: Constraint, V where ...>.
func (p *Parser) parseGenericParams() []ast.GenericParam {
	p.advance() // '<'
	var out []ast.GenericParam
	for {
		tok := p.peek()
		if tok.Is("each") && p.peekN(1).Kind == token.Ident {
			p.advance()
			tok = p.peek()
		}
		if tok.Kind != token.Ident {
			break
		}
		p.advance()
		gp := ast.GenericParam{Name: identName(tok)}
		if _, ok := p.eat(token.Colon); ok {
			gp.Constraint = p.skipConstraint()
		}
		out = append(out, gp)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	p.skipWhere()
	if _, ok := p.eat(token.Gt); !ok {
		p.warn(diag.SynExpectRAngle, p.afterLast(), "expected '>' to close generic parameters")
	}
	return out
}

// skipConstraint consumes a constraint up to ',' or '>' at depth 0 and returns its text.
func (p *Parser) skipConstraint() string {
	first := p.peek().Span
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF, token.LBrace, token.RBrace:
			return p.src.Slice(p.spanFrom(first))
		case token.Lt:
			depth++
		case token.Gt:
			if depth == 0 {
				return p.src.Slice(p.spanFrom(first))
			}
			depth--
		case token.Comma:
			if depth == 0 {
				return p.src.Slice(p.spanFrom(first))
			}
		case token.LParen, token.LBracket:
			p.skipBalanced()
			continue
		}
		p.advance()
	}
}
