package parser

import (
	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/source"
	"mimic/internal/token"
)

func (p *Parser) startsType() bool { return p.startsTypeAt(0) }

// startsTypeAt reports whether the token at n can begin a type expression.
func (p *Parser) startsTypeAt(n int) bool {
	switch tok := p.peekN(n); tok.Kind {
	case token.Ident, token.LBracket, token.LParen, token.At, token.KwInout:
		return true
	default:
		return false
	}
}

// parseType разбирает тип с постфиксами ?, !, .Type и функциональной стрелкой.
//
//	type := prefix* primary postfix*
//	primary := name ('<' types '>')? ('.' name ...)* | '[' type (':' type)? ']' | '(' elems ')' effects ('->' type)?
func (p *Parser) parseType() ast.NodeID {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.At:
			p.parseAttributes()
			if p.at(token.At) {
				p.advance()
			}
			continue
		case tok.Kind == token.KwInout, tok.Kind == token.Ident && typeSpecifiers[tok.Text] && p.startsTypeAt(1):
			p.advance()
			continue
		}
		break
	}

	start := p.peek().Span
	var id ast.NodeID
	switch p.peek().Kind {
	case token.Ident:
		id = p.parseNamedType()
	case token.LBracket:
		id = p.parseCollectionType()
	case token.LParen:
		id = p.parseParenType()
	default:
		p.warn(diag.SynExpectType, p.afterLast(), "expected type")
		return ast.NoNodeID
	}
	id = p.parseTypeSuffix(start, id)
	p.skipComposition()
	return id
}

// skipComposition пропускает хвост композиции протоколов "& B & C".
// The node keeps the first component only.
func (p *Parser) skipComposition() {
	for p.at(token.Amp) && p.peekN(1).Kind == token.Ident {
		p.advance()
		for {
			p.advance() // имя сегмента
			if p.atSameLine(token.Lt) {
				p.skipAngles()
			}
			if !p.at(token.Dot) || p.peekN(1).Kind != token.Ident {
				break
			}
			p.advance()
		}
	}
}

func (p *Parser) parseTypeSuffix(start source.Span, id ast.NodeID) ast.NodeID {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.Question && tok.Span.Start == p.lastSpan.End:
			p.advance()
			id = p.b.Optional(p.spanFrom(start), id, false)
		case tok.Kind == token.Bang && tok.Span.Start == p.lastSpan.End:
			p.advance()
			id = p.b.Optional(p.spanFrom(start), id, true)
		case tok.Kind == token.Dot && (p.peekN(1).Is("Type") || p.peekN(1).Is("Protocol")):
			// [Int].Type: метатип поверх составного типа; оставляем базовый узел
			p.advance()
			p.advance()
		default:
			return id
		}
	}
}

// parseNamedType reads A, A.B.C and A.B<T, U>. Generic arguments of inner
// segments (Outer<T>.Inner) are skipped; only the last segment keeps its arguments.
func (p *Parser) parseNamedType() ast.NodeID {
	start := p.peek().Span
	var d ast.NameData
	for {
		d.Segments = append(d.Segments, identName(p.advance()))
		d.Args = nil
		if p.atSameLine(token.Lt) {
			if p.dotAfterAngles() {
				p.skipAngles()
			} else {
				d.Args = p.parseGenericArgs()
			}
		}
		if p.at(token.Dot) && p.peekN(1).Kind == token.Ident && !p.peekN(1).NewlineBefore() {
			if len(d.Args) > 0 {
				break
			}
			p.advance()
			continue
		}
		break
	}
	return p.b.Name(p.spanFrom(start), d)
}

func (p *Parser) parseGenericArgs() []ast.NodeID {
	p.advance() // '<'
	var args []ast.NodeID
	for p.startsType() {
		if id := p.parseType(); id.IsValid() {
			args = append(args, id)
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.Gt); !ok {
		p.warn(diag.SynExpectRAngle, p.afterLast(), "expected '>' to close generic arguments")
	}
	return args
}

// dotAfterAngles looks past a balanced <...> and reports whether '.' follows it.
func (p *Parser) dotAfterAngles() bool {
	depth := 0
	for n := 0; ; n++ {
		switch p.peekN(n).Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				return p.peekN(n+1).Kind == token.Dot
			}
		case token.EOF, token.LBrace, token.RBrace, token.Semicolon:
			return false
		}
	}
}

func (p *Parser) skipAngles() {
	depth := 0
	for {
		switch p.advance().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				return
			}
		case token.EOF:
			return
		}
	}
}

// parseCollectionType reads [T] or [K: V].
func (p *Parser) parseCollectionType() ast.NodeID {
	lb := p.advance()
	elem := p.parseType()
	if _, ok := p.eat(token.Colon); ok {
		val := p.parseType()
		p.closeBracket()
		return p.b.Dict(p.spanFrom(lb.Span), elem, val)
	}
	p.closeBracket()
	return p.b.Array(p.spanFrom(lb.Span), elem)
}

func (p *Parser) closeBracket() {
	if _, ok := p.eat(token.RBracket); !ok {
		p.warn(diag.SynExpectRBracket, p.afterLast(), "expected ']'")
	}
}

// parseParenType reads a tuple, a parenthesized type or a function type.
// (T) without a label or trailing comma is plain grouping; () is the empty tuple.
func (p *Parser) parseParenType() ast.NodeID {
	lp := p.advance()
	var tup ast.TupleData
	trailingComma := false
	for !p.at(token.RParen) && p.startsElem() {
		label := ""
		if isNameToken(p.peek()) || p.at(token.Underscore) {
			// (label: T) и (_ name: T) в сигнатурах функциональных типов
			switch {
			case p.peekN(1).Kind == token.Colon:
				label = identName(p.advance())
				p.advance()
			case (isNameToken(p.peekN(1)) || p.peekN(1).Kind == token.Underscore) && p.peekN(2).Kind == token.Colon:
				p.advance()
				label = identName(p.advance())
				p.advance()
			}
			if label == "_" {
				label = ""
			}
		}
		elem := p.parseType()
		p.eat(token.Ellipsis)
		if elem.IsValid() {
			tup.Labels = append(tup.Labels, label)
			tup.Elems = append(tup.Elems, elem)
		}
		trailingComma = false
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
		trailingComma = true
	}
	if _, ok := p.eat(token.RParen); !ok {
		p.warn(diag.SynExpectRParen, p.afterLast(), "expected ')'")
	}

	eff := p.parseEffects()
	if p.at(token.Arrow) || eff.throws || eff.async || eff.rethrows {
		fn := ast.FuncTypeData{Params: tup.Elems, Throws: eff.throws || eff.rethrows, Async: eff.async}
		if _, ok := p.eat(token.Arrow); ok && p.startsType() {
			fn.Return = p.parseType()
		} else {
			p.warn(diag.SynExpectReturnType, p.afterLast(), "expected '->' and a return type")
		}
		return p.b.FuncType(p.spanFrom(lp.Span), fn)
	}

	if len(tup.Elems) == 1 && tup.Labels[0] == "" && !trailingComma {
		return tup.Elems[0]
	}
	return p.b.Tuple(p.spanFrom(lp.Span), tup)
}

func (p *Parser) startsElem() bool {
	return p.startsType() || p.at(token.Underscore) || p.peek().IsKeyword()
}
