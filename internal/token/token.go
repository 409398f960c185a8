package token

import (
	"mimic/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwProtocol && t.Kind <= KwWhere
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token is an identifier spelled exactly as word.
// Contextual keywords (get, set, mutating, ...) are matched this way.
func (t Token) Is(word string) bool {
	return t.Kind == Ident && t.Text == word
}

// NewlineBefore reports whether a line break separates the token from the previous one.
func (t Token) NewlineBefore() bool {
	for _, tv := range t.Leading {
		switch tv.Kind {
		case TriviaNewline, TriviaDirective:
			return true
		case TriviaBlockComment:
			for i := 0; i < len(tv.Text); i++ {
				if tv.Text[i] == '\n' {
					return true
				}
			}
		}
	}
	return false
}
