package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mimic/internal/source"
	"mimic/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Offset  uint32      `json:"offset"`
	Length  uint32      `json:"length"`
	Leading []string    `json:"leading,omitempty"`
}

func triviaKinds(tv []token.Trivia) []string {
	if len(tv) == 0 {
		return nil
	}
	out := make([]string, len(tv))
	for i, t := range tv {
		out[i] = t.Kind.String()
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате, по одному на строку
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		line := fmt.Sprintf("%3d: %-15s", i+1, tok.Kind)
		if tok.Text != "" {
			line += fmt.Sprintf(" %q", tok.Text)
		}
		line += fmt.Sprintf(" at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if leading := triviaKinds(tok.Leading); leading != nil {
			line += " (leading: " + strings.Join(leading, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате. Offset и Length в UTF-16.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: triviaKinds(tok.Leading),
		}
		if f := fs.Get(tok.Span.File); f != nil {
			units := f.UTF16()
			out.Offset = units.Offset(tok.Span.Start)
			out.Length = units.Offset(tok.Span.End) - out.Offset
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
