package lexer

import (
	"mimic/internal/diag"
	"mimic/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор и проверяет его через LookupKeyword.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 || (r >= 0x80 && !isIdentStartRune(r)) {
		return lx.scanOperatorOrPunct()
	}
	lx.bumpRune()
	for {
		b := lx.cursor.Peek()
		if b < 0x80 {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(start)
	if text == "_" {
		return token.Token{Kind: token.Underscore, Span: sp, Text: text}
	}
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanEscapedIdent handles `name`. The backticks stay in Text; the token is
// always an identifier, even when the quoted word is a keyword.
func (lx *Lexer) scanEscapedIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '`' {
			lx.cursor.Bump()
			return token.Token{Kind: token.Ident, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
		}
		if b == '\n' {
			break
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unterminated escaped identifier")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(start)}
}

// scanDollarIdent handles $0 and $name.
func (lx *Lexer) scanDollarIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if sp.Len() == 1 {
		lx.errLex(diag.LexUnknownChar, sp, "unexpected '$'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: "$"}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.text(start)}
}
