package lexer

import (
	"mimic/internal/diag"
	"mimic/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\r' и прочие пробелы коалесцируются в TriviaSpace
//   - подряд идущие '\n' → один TriviaNewline
//   - //... → TriviaLineComment, ///... → TriviaDocLine
//   - /* ... */ с вложенностью → TriviaBlockComment
//   - строка #if/#elseif/#else/#endif → TriviaDirective
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case isSpace(b):
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			kind := token.TriviaLineComment
			lx.cursor.BumpN(2)
			if lx.cursor.Eat('/') {
				kind = token.TriviaDocLine
			}
			lx.skipLine()
			lx.pushTrivia(kind, start)
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.scanBlockComment(start)
		case b == '#' && lx.directiveAhead():
			lx.skipLine()
			lx.pushTrivia(token.TriviaDirective, start)
		default:
			return
		}
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.text(start),
	})
}

func (lx *Lexer) skipLine() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanBlockComment(start Mark) {
	lx.cursor.BumpN(2)
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch {
		case lx.try2('/', '*'):
			depth++
		case lx.try2('*', '/'):
			depth--
		default:
			lx.cursor.Bump()
		}
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
	lx.pushTrivia(token.TriviaBlockComment, start)
}

var directiveWords = []string{"if", "elseif", "else", "endif", "sourceLocation", "warning", "error"}

// directiveAhead reports whether the cursor sits on a #if-family line directive.
func (lx *Lexer) directiveAhead() bool {
	rest := lx.file.Content[lx.cursor.Off+1:]
	for _, w := range directiveWords {
		if len(rest) < len(w) || string(rest[:len(w)]) != w {
			continue
		}
		if len(rest) == len(w) || !isIdentContinueByte(rest[len(w)]) {
			return true
		}
	}
	return false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f'
}
