package lexer

import (
	"mimic/internal/diag"
	"mimic/internal/token"
)

// scanNumber: 0b..., 0o..., 0x..., 123, 1_000, 1.5, 1e-3, 0x1p4.
// Точка входит в число только если за ней цифра, иначе это member access (1.description).
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	digits := func(ok func(byte) bool) int {
		n := 0
		for ok(lx.cursor.Peek()) || (n > 0 && lx.cursor.Peek() == '_') {
			lx.cursor.Bump()
			n++
		}
		return n
	}
	bin := func(b byte) bool { return b == '0' || b == '1' }
	oct := func(b byte) bool { return b >= '0' && b <= '7' }

	if lx.cursor.Peek() == '0' {
		var base func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b':
			base = bin
		case 'o':
			base = oct
		case 'x':
			base = isHex
		}
		if base != nil {
			lx.cursor.BumpN(2)
			if digits(base) == 0 {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected digits after radix prefix")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(start)}
			}
			// hex float: 0x1p3
			if lx.cursor.PeekAt(0) == 'p' || lx.cursor.PeekAt(0) == 'P' {
				kind = token.FloatLit
				lx.cursor.Bump()
				lx.scanExponentDigits(start)
			}
			return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
		}
	}

	digits(isDec)

	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		digits(isDec)
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.scanExponentDigits(start)
	}

	sp := lx.cursor.SpanFrom(start)
	if isIdentStartByte(lx.cursor.Peek()) {
		// 12abc: съедаем хвост, чтобы не плодить каскад ошибок
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid character in number literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(start)}
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(start)}
}

func (lx *Lexer) scanExponentDigits(start Mark) {
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected exponent digits")
		return
	}
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}
