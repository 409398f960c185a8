package lexer

import (
	"mimic/internal/diag"
	"mimic/internal/token"
)

var singlePunct = [256]token.Kind{
	'(':  token.LParen,
	')':  token.RParen,
	'{':  token.LBrace,
	'}':  token.RBrace,
	'[':  token.LBracket,
	']':  token.RBracket,
	'<':  token.Lt,
	'>':  token.Gt,
	',':  token.Comma,
	':':  token.Colon,
	';':  token.Semicolon,
	'.':  token.Dot,
	'?':  token.Question,
	'!':  token.Bang,
	'@':  token.At,
	'=':  token.Assign,
	'&':  token.Amp,
	'#':  token.Hash,
	'\\': token.Backslash,
	'+':  token.Operator,
	'-':  token.Operator,
	'*':  token.Operator,
	'/':  token.Operator,
	'%':  token.Operator,
	'|':  token.Operator,
	'^':  token.Operator,
	'~':  token.Operator,
}

// scanOperatorOrPunct: сначала ->, ..., ..<, затем одиночные символы.
// Угловые скобки и ?/! всегда одиночные, чтобы Array<Set<Int>>? разбирался без расщепления.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		return token.Token{Kind: k, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
	}

	switch {
	case lx.try2('-', '>'):
		return emit(token.Arrow)
	case lx.try3('.', '.', '.'):
		return emit(token.Ellipsis)
	case lx.try3('.', '.', '<'):
		return emit(token.HalfOpen)
	}

	b := lx.cursor.Peek()
	if k := singlePunct[b]; k != token.Invalid {
		lx.cursor.Bump()
		return emit(k)
	}

	lx.bumpRune()
	tok := emit(token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteText(tok.Text))
	return tok
}

func quoteText(s string) string {
	return "'" + s + "'"
}
