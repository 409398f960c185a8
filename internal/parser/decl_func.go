package parser

import (
	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/source"
	"mimic/internal/token"
)

// parseFuncDecl:
//
//	'func' name generic-params? '(' params ')' effects ('->' type)? where? body?
func (p *Parser) parseFuncDecl(start source.Span, attrs, mods []string) ast.NodeID {
	p.advance() // func
	d := ast.FuncDeclData{Attrs: attrs, Modifiers: mods}
	d.Name = p.parseFuncName()

	if p.atSameLine(token.Lt) {
		d.Generics = p.parseGenericParams()
	}
	d.Params = p.parseParamClause()
	eff := p.parseEffects()
	d.Async, d.Throws, d.Rethrows = eff.async, eff.throws, eff.rethrows

	if _, ok := p.eat(token.Arrow); ok {
		if p.startsType() {
			d.Return = p.parseType()
		} else {
			p.warn(diag.SynExpectReturnType, p.afterLast(), "expected return type after '->'")
		}
	}
	p.skipWhere()
	if p.at(token.LBrace) {
		p.skipBalanced()
	}
	return p.b.FuncDecl(p.spanFrom(start), d)
}

// parseFuncName reads an identifier or an operator name like == or <*>.
func (p *Parser) parseFuncName() string {
	tok := p.peek()
	if tok.Kind == token.Ident || tok.Kind == token.Underscore {
		p.advance()
		return identName(tok)
	}
	first := tok.Span
	for isOperatorToken(p.peek()) {
		p.advance()
	}
	if p.lastSpan.End <= first.Start {
		p.warn(diag.SynExpectName, p.afterLast(), "expected function name")
		return ""
	}
	return p.src.Slice(p.spanFrom(first))
}

func isOperatorToken(tok token.Token) bool {
	switch tok.Kind {
	case token.Operator, token.Assign, token.Lt, token.Gt, token.Bang, token.Question,
		token.Amp, token.Dot, token.Ellipsis, token.HalfOpen:
		return true
	}
	return false
}

// parseInitDecl:
//
//	'init' ('?'|'!')? generic-params? '(' params ')' effects where? body?
func (p *Parser) parseInitDecl(start source.Span, attrs, mods []string) ast.NodeID {
	kw := p.advance()
	d := ast.InitDeclData{Attrs: attrs, Modifiers: mods}
	if next := p.peek(); next.Span.Start == kw.Span.End {
		switch next.Kind {
		case token.Question:
			p.advance()
			d.Failable = true
		case token.Bang:
			p.advance()
			d.Failable, d.IUO = true, true
		}
	}
	if p.atSameLine(token.Lt) {
		d.Generics = p.parseGenericParams()
	}
	d.Params = p.parseParamClause()
	eff := p.parseEffects()
	d.Async, d.Throws = eff.async, eff.throws || eff.rethrows
	p.skipWhere()
	if p.at(token.LBrace) {
		p.skipBalanced()
	}
	return p.b.InitDecl(p.spanFrom(start), d)
}

type effects struct {
	async, throws, rethrows bool
}

// parseEffects reads async, throws, throws(E) and rethrows in any order.
func (p *Parser) parseEffects() effects {
	var e effects
	for {
		tok := p.peek()
		switch {
		case tok.Is("async") || tok.Is("reasync"):
			e.async = true
		case tok.Kind == token.KwThrows:
			e.throws = true
			p.advance()
			if p.atSameLine(token.LParen) {
				p.skipBalanced()
			}
			continue
		case tok.Kind == token.KwRethrows:
			e.rethrows = true
		default:
			return e
		}
		p.advance()
	}
}

// parseParamClause reads '(' param (',' param)* ')'.
func (p *Parser) parseParamClause() []ast.NodeID {
	if _, ok := p.eat(token.LParen); !ok {
		p.warn(diag.SynExpectLParen, p.afterLast(), "expected '(' to start parameter list")
		return nil
	}
	var out []ast.NodeID
	for {
		tok := p.peek()
		if tok.Kind == token.RParen {
			p.advance()
			return out
		}
		if tok.Kind == token.EOF || tok.Kind == token.LBrace || tok.Kind == token.RBrace || tok.Kind == token.Arrow {
			p.warn(diag.SynExpectRParen, p.afterLast(), "expected ')' to close parameter list")
			return out
		}
		before := tok.Span
		if id := p.parseParam(); id.IsValid() {
			out = append(out, id)
		}
		if _, ok := p.eat(token.Comma); ok {
			continue
		}
		if !p.at(token.RParen) {
			p.warn(diag.SynUnexpectedToken, p.peek().Span, "expected ',' or ')' in parameter list")
			p.skipExpr(token.Comma, false)
			p.eat(token.Comma)
			if p.peek().Span == before {
				p.advance()
			}
		}
	}
}

// parseParam: attrs? external? internal ':' type-annotation '...'? ('=' default)?
func (p *Parser) parseParam() ast.NodeID {
	start := p.peek().Span
	p.parseAttributes()

	var d ast.ParamData
	first := p.peek()
	if !isNameToken(first) && first.Kind != token.Underscore {
		p.warn(diag.SynExpectName, first.Span, "expected parameter name")
		return ast.NoNodeID
	}
	p.advance()
	if second := p.peek(); isNameToken(second) || second.Kind == token.Underscore {
		p.advance()
		d.Internal = identName(second)
		if first.Kind != token.Underscore {
			d.External, d.HasExternal = identName(first), true
		}
	} else {
		d.Internal = identName(first)
		if first.Kind != token.Underscore {
			d.External, d.HasExternal = d.Internal, true
		}
	}

	if _, ok := p.eat(token.Colon); ok {
		ann := p.parseTypeAnnotation()
		d.Type, d.TypeAttrs, d.Inout = ann.typ, ann.attrs, ann.inout
	} else {
		p.warn(diag.SynExpectColon, p.afterLast(), "expected ':' and a type after parameter name")
	}
	if _, ok := p.eat(token.Ellipsis); ok {
		d.Variadic = true
	}
	if _, ok := p.eat(token.Assign); ok {
		d.HasDefault = true
		p.skipExpr(token.Comma, false)
	}
	return p.b.Param(p.spanFrom(start), d)
}

type annotation struct {
	typ   ast.NodeID
	attrs []string
	inout bool
}

var typeSpecifiers = map[string]bool{
	"__owned": true, "__shared": true, "borrowing": true, "consuming": true, "sending": true,
	"isolated": true, "some": true, "any": true, "each": true, "repeat": true,
}

// parseTypeAnnotation reads attributes and specifiers (inout, some, any, ...) then a type.
func (p *Parser) parseTypeAnnotation() annotation {
	var a annotation
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.At:
			a.attrs = append(a.attrs, p.parseAttributes()...)
			if !p.at(token.At) {
				continue
			}
			p.advance()
		case tok.Kind == token.KwInout:
			a.inout = true
			p.advance()
		case tok.Kind == token.Ident && typeSpecifiers[tok.Text] && p.startsTypeAt(1):
			p.advance()
		default:
			if p.startsType() {
				a.typ = p.parseType()
			} else {
				p.warn(diag.SynExpectType, p.afterLast(), "expected type")
			}
			return a
		}
	}
}
