package parser

import (
	"strings"

	"mimic/internal/diag"
	"mimic/internal/source"
	"mimic/internal/token"
)

func (p *Parser) peek() token.Token { return p.peekN(0) }

// peekN смотрит на n токенов вперёд, не потребляя их.
func (p *Parser) peekN(n int) token.Token {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.ts.Next())
	}
	return p.buf[n]
}

// advance съедает токен и обновляет lastSpan. EOF никогда не съедается.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.buf = p.buf[1:]
	p.lastSpan = tok.Span
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

// atSameLine reports whether the next token is k and not separated by a line break.
func (p *Parser) atSameLine(k token.Kind) bool {
	tok := p.peek()
	return tok.Kind == k && !tok.NewlineBefore()
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// spanFrom returns the span from start to the end of the last consumed token.
// An empty start (nothing consumed yet) collapses to the current position.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.lastSpan.End < start.Start {
		return source.At(start.File, start.Start)
	}
	return source.Span{File: start.File, Start: start.Start, End: p.lastSpan.End}
}

// afterLast is the empty span right after the last consumed token.
func (p *Parser) afterLast() source.Span { return p.lastSpan.EndPoint() }

func (p *Parser) warn(code diag.Code, sp source.Span, msg string) {
	p.report(code, diag.SevWarning, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if p.opts.MaxDiagnostics != 0 && p.reported >= p.opts.MaxDiagnostics {
		return
	}
	p.reported++
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
}

// isNameToken: идентификатор или ключевое слово, которое может быть именем/меткой.
func isNameToken(tok token.Token) bool {
	return tok.Kind == token.Ident || tok.IsKeyword()
}

// identName strips the backticks of an escaped identifier.
func identName(tok token.Token) string {
	if len(tok.Text) >= 2 && tok.Text[0] == '`' {
		return strings.Trim(tok.Text, "`")
	}
	return tok.Text
}

func closerOf(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	case token.LBrace:
		return token.RBrace
	default:
		return token.Invalid
	}
}

// skipBalanced consumes an opening bracket and everything up to its match.
// Returns false when EOF came first.
func (p *Parser) skipBalanced() bool { return p.skipUntilClosed(nil) }

// skipUntilClosed consumes tokens until every closer on stack has been seen.
func (p *Parser) skipUntilClosed(stack []token.Kind) bool {
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			return false
		case token.LParen, token.LBracket, token.LBrace:
			stack = append(stack, closerOf(tok.Kind))
		case token.RParen, token.RBracket, token.RBrace:
			// закрывающая без пары игнорируется, непарные открывающие выше неё выбрасываются
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == tok.Kind {
					stack = stack[:i]
					break
				}
			}
		}
		p.advance()
		if len(stack) == 0 {
			return true
		}
	}
}

var modifierWords = map[string]bool{
	"public": true, "private": true, "fileprivate": true, "internal": true, "open": true, "package": true,
	"final": true, "static": true, "override": true, "mutating": true, "nonmutating": true,
	"lazy": true, "weak": true, "unowned": true, "dynamic": true, "optional": true, "required": true,
	"convenience": true, "indirect": true, "prefix": true, "postfix": true, "infix": true,
	"nonisolated": true, "isolated": true, "distributed": true, "consuming": true, "borrowing": true,
}

// parseAttributes reads @name and @name(...) sequences.
func (p *Parser) parseAttributes() []string {
	var attrs []string
	for p.at(token.At) && isNameToken(p.peekN(1)) {
		at := p.advance()
		p.advance()
		// аргументы атрибута идут вплотную: @available(...), но @escaping (Int) -> Void
		if p.at(token.LParen) && p.peek().Span.Start == p.lastSpan.End {
			p.skipBalanced()
		}
		attrs = append(attrs, p.src.Slice(p.spanFrom(at.Span)))
	}
	return attrs
}

// parseModifiers reads declaration modifiers. `class` counts as a modifier
// only when another declaration keyword or modifier follows it.
func (p *Parser) parseModifiers() []string {
	var mods []string
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.Ident && modifierWords[tok.Text] && p.modifierFollows(1):
			p.advance()
			// private(set), unowned(safe)
			if p.atSameLine(token.LParen) && isNameToken(p.peekN(1)) && p.peekN(2).Kind == token.RParen {
				p.skipBalanced()
			}
			mods = append(mods, p.src.Slice(p.spanFrom(tok.Span)))
		case tok.Kind == token.KwClass && p.modifierFollows(1):
			p.advance()
			mods = append(mods, "class")
		default:
			return mods
		}
	}
}

// modifierFollows reports whether the token at n continues a declaration head,
// so that a modifier word before it is not itself a name.
func (p *Parser) modifierFollows(n int) bool {
	tok := p.peekN(n)
	if tok.Kind == token.LParen {
		// private(set) var ...
		return p.peekN(n+2).Kind == token.RParen && p.modifierFollows(n+3)
	}
	switch {
	case tok.Kind.IsMemberKeyword(), tok.Kind.IsTypeDeclKeyword(), tok.Kind == token.KwImport:
		return true
	case tok.Kind == token.At:
		return true
	case tok.Kind == token.Ident && (modifierWords[tok.Text] || tok.Text == "actor"):
		return true
	}
	return false
}
