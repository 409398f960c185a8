package parser

import "mimic/internal/token"

// skipDecl пропускает неподдерживаемое объявление или мусор: до конца строки,
// либо до конца тела в фигурных скобках. Enclosing '}' and EOF are never consumed.
func (p *Parser) skipDecl() {
	consumed := false
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF, tok.Kind == token.RBrace:
			return
		case consumed && tok.NewlineBefore():
			return
		case consumed && tok.Kind == token.Semicolon:
			p.advance()
			return
		case tok.Kind == token.LBrace:
			p.skipBalanced()
			return
		case tok.Kind == token.LParen, tok.Kind == token.LBracket:
			p.skipBalanced()
		case consumed && startsDecl(tok):
			return
		default:
			p.advance()
		}
		consumed = true
	}
}

// startsDecl reports keywords that always begin a new declaration.
func startsDecl(tok token.Token) bool {
	switch tok.Kind {
	case token.KwFunc, token.KwVar, token.KwLet, token.KwInit, token.KwProtocol, token.KwStruct,
		token.KwEnum, token.KwExtension, token.KwTypealias, token.KwAssociatedtype, token.KwSubscript,
		token.KwDeinit, token.KwImport:
		return true
	}
	return false
}

// skipExpr пропускает выражение (значение по умолчанию, инициализатор свойства).
// It stops before a line break, ',' or any closer at depth 0, before '{' that
// opens a willSet/didSet block, and at stop.
func (p *Parser) skipExpr(stop token.Kind, stopAtNewline bool) {
	consumed := false
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF, tok.Kind == stop:
			return
		case tok.Kind == token.RParen, tok.Kind == token.RBracket, tok.Kind == token.RBrace, tok.Kind == token.Semicolon:
			return
		case consumed && stopAtNewline && tok.NewlineBefore() && !continuesExpr(tok):
			return
		case tok.Kind == token.LBrace && p.observerBlockAhead():
			return
		case tok.Kind == token.LParen, tok.Kind == token.LBracket, tok.Kind == token.LBrace:
			p.skipBalanced()
		default:
			p.advance()
		}
		consumed = true
	}
}

// continuesExpr: строка, начинающаяся с '.', бинарного оператора и т.п., продолжает выражение.
func continuesExpr(tok token.Token) bool {
	switch tok.Kind {
	case token.Dot, token.Operator, token.Question, token.Amp, token.Assign, token.Arrow:
		return true
	}
	return false
}

func (p *Parser) observerBlockAhead() bool {
	next := p.peekN(1)
	return next.Is("willSet") || next.Is("didSet")
}

// skipWhere пропускает where-клаузу до '{' или начала следующего объявления на новой строке.
func (p *Parser) skipWhere() {
	if !p.at(token.KwWhere) {
		return
	}
	p.advance()
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF, tok.Kind == token.LBrace, tok.Kind == token.RBrace:
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
