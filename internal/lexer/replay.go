package lexer

import "mimic/internal/token"

// Replay feeds a previously tokenized slice back through the same Next
// contract as Lexer. Once the slice is exhausted it keeps returning the
// final EOF token.
type Replay struct {
	toks []token.Token
	pos  int
}

// NewReplay wraps toks. A missing trailing EOF is synthesized at the end of the last token.
func NewReplay(toks []token.Token) *Replay {
	if n := len(toks); n == 0 || toks[n-1].Kind != token.EOF {
		eof := token.Token{Kind: token.EOF}
		if n > 0 {
			eof.Span = toks[n-1].Span.EndPoint()
		}
		toks = append(toks[:n:n], eof)
	}
	return &Replay{toks: toks}
}

// Next returns the next token.
func (r *Replay) Next() token.Token {
	tok := r.toks[r.pos]
	if r.pos < len(r.toks)-1 {
		r.pos++
	}
	return tok
}
