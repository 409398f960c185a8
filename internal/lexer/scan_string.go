package lexer

import (
	"mimic/internal/diag"
	"mimic/internal/token"
)

// rawStringAhead: #"..."#, ##"..."## и т.д.
func (lx *Lexer) rawStringAhead() bool {
	var n uint32
	for lx.cursor.PeekAt(n) == '#' {
		n++
	}
	return lx.cursor.PeekAt(n) == '"'
}

func (lx *Lexer) scanRawString() token.Token {
	start := lx.cursor.Mark()
	var hashes uint32
	for lx.cursor.Eat('#') {
		hashes++
	}
	lx.cursor.Reset(start)
	return lx.scanString(hashes)
}

// scanString scans a string literal, including the multi-line """ form and
// raw strings delimited by hashes. Interpolations \( ... ) may nest strings.
// The token text is the exact source slice; escapes are not decoded.
func (lx *Lexer) scanString(hashes uint32) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(hashes)
	multiline := lx.try3('"', '"', '"')
	if !multiline {
		lx.cursor.Bump()
	}
	if lx.scanStringBody(multiline, hashes) {
		return token.Token{Kind: token.StringLit, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(start)}
}

// scanStringBody consumes up to and including the closing delimiter.
// Returns false when the literal is not terminated; for single-line strings
// the cursor is then left on the offending newline.
func (lx *Lexer) scanStringBody(multiline bool, hashes uint32) bool {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"' && lx.closesString(multiline, hashes):
			return true
		case b == '\\' && lx.hashesAt(1, hashes):
			lx.cursor.BumpN(1 + hashes)
			if lx.cursor.Peek() == '(' {
				lx.cursor.Bump()
				if !lx.skipInterpolation(multiline) {
					return false
				}
				continue
			}
			if lx.cursor.Peek() != '\n' {
				lx.bumpRune()
			}
		case b == '\n' && !multiline:
			return false
		default:
			lx.bumpRune()
		}
	}
	return false
}

// closesString consumes the closing quote(s) and hashes if they are under the cursor.
func (lx *Lexer) closesString(multiline bool, hashes uint32) bool {
	quotes := uint32(1)
	if multiline {
		if lx.cursor.PeekAt(1) != '"' || lx.cursor.PeekAt(2) != '"' {
			return false
		}
		quotes = 3
	}
	if !lx.hashesAt(quotes, hashes) {
		return false
	}
	lx.cursor.BumpN(quotes + hashes)
	return true
}

func (lx *Lexer) hashesAt(off uint32, hashes uint32) bool {
	for i := range hashes {
		if lx.cursor.PeekAt(off+i) != '#' {
			return false
		}
	}
	return true
}

// skipInterpolation пропускает выражение внутри \( ... ) с учётом вложенных скобок и строк.
func (lx *Lexer) skipInterpolation(multiline bool) bool {
	depth := 1
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '(':
			depth++
			lx.cursor.Bump()
		case b == ')':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return true
			}
		case b == '"' || (b == '#' && lx.rawStringAhead()):
			var hashes uint32
			for lx.cursor.PeekAt(hashes) == '#' {
				hashes++
			}
			lx.cursor.BumpN(hashes)
			inner := lx.try3('"', '"', '"')
			if !inner {
				lx.cursor.Bump()
			}
			if !lx.scanStringBody(inner, hashes) {
				return false
			}
		case b == '\n' && !multiline:
			return false
		default:
			lx.bumpRune()
		}
	}
	return false
}
