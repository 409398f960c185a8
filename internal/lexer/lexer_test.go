package lexer_test

import (
	"testing"

	"mimic/internal/diag"
	"mimic/internal/lexer"
	"mimic/internal/source"
	"mimic/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.swift", []byte(src)))
	bag := diag.NewBag(100)
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	for _, tok := range toks {
		if got := string(file.Content[tok.Span.Start:tok.Span.End]); got != tok.Text {
			t.Fatalf("token %s text %q does not match source slice %q", tok.Kind, tok.Text, got)
		}
	}
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "protocol header",
			src:  "protocol A: B, C<D>? {}",
			want: []token.Kind{token.KwProtocol, token.Ident, token.Colon, token.Ident, token.Comma, token.Ident, token.Lt, token.Ident, token.Gt, token.Question, token.LBrace, token.RBrace, token.EOF},
		},
		{
			name: "function signature",
			src:  "func f(_ x: inout Int...) throws -> [String: Int]!",
			want: []token.Kind{token.KwFunc, token.Ident, token.LParen, token.Underscore, token.Ident, token.Colon, token.KwInout, token.Ident, token.Ellipsis, token.RParen, token.KwThrows, token.Arrow, token.LBracket, token.Ident, token.Colon, token.Ident, token.RBracket, token.Bang, token.EOF},
		},
		{
			name: "nested generics close one angle at a time",
			src:  "Array<Set<Int>>?",
			want: []token.Kind{token.Ident, token.Lt, token.Ident, token.Lt, token.Ident, token.Gt, token.Gt, token.Question, token.EOF},
		},
		{
			name: "ranges and numbers",
			src:  "0..<10 1.5e3 0x1F x.0",
			want: []token.Kind{token.IntLit, token.HalfOpen, token.IntLit, token.FloatLit, token.IntLit, token.Ident, token.Dot, token.IntLit, token.EOF},
		},
		{
			name: "operators",
			src:  "a - b = c & d",
			want: []token.Kind{token.Ident, token.Operator, token.Ident, token.Assign, token.Ident, token.Amp, token.Ident, token.EOF},
		},
		{
			name: "attributes and hash",
			src:  "@escaping #selector",
			want: []token.Kind{token.At, token.Ident, token.Hash, token.Ident, token.EOF},
		},
		{
			name: "contextual words stay identifiers",
			src:  "get set mutating some",
			want: []token.Kind{token.Ident, token.Ident, token.Ident, token.Ident, token.EOF},
		},
		{
			name: "empty input",
			src:  "",
			want: []token.Kind{token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.src)
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %s, want %s (all: %v)", i, got[i], tt.want[i], got)
				}
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %d", bag.Len())
			}
		})
	}
}

func TestSingleTokenText(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind token.Kind
	}{
		{"escaped keyword", "`class`", token.Ident},
		{"dollar identifier", "$0", token.Ident},
		{"emoji identifier", "P💐C", token.Ident},
		{"unicode identifier", "ĀÜber", token.Ident},
		{"interpolated string", `"a \(b("c)")) d"`, token.StringLit},
		{"raw string", `#"a"b"#`, token.StringLit},
		{"raw string with escape hashes", `##"x\##(y)"##`, token.StringLit},
		{"multiline string", "\"\"\"\nline \"quoted\"\n\"\"\"", token.StringLit},
		{"binary", "0b1010_1010", token.IntLit},
		{"hex float", "0x1p4", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.src)
			if len(toks) != 2 {
				t.Fatalf("expected one token and EOF, got %v", kinds(toks))
			}
			if toks[0].Kind != tt.kind || toks[0].Text != tt.src {
				t.Fatalf("got %s %q, want %s %q", toks[0].Kind, toks[0].Text, tt.kind, tt.src)
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %d", bag.Len())
			}
		})
	}
}

func TestLeadingTrivia(t *testing.T) {
	toks, _ := lexAll(t, "// c\n#if os(iOS)\nvar x")
	v := toks[0]
	if v.Kind != token.KwVar {
		t.Fatalf("expected var first, got %s", v.Kind)
	}
	want := []token.TriviaKind{token.TriviaLineComment, token.TriviaNewline, token.TriviaDirective, token.TriviaNewline}
	if len(v.Leading) != len(want) {
		t.Fatalf("leading trivia: got %d, want %d", len(v.Leading), len(want))
	}
	for i, tv := range v.Leading {
		if tv.Kind != want[i] {
			t.Errorf("trivia %d: got %d, want %d", i, tv.Kind, want[i])
		}
	}
	if v.Leading[2].Text != "#if os(iOS)" {
		t.Errorf("directive text %q", v.Leading[2].Text)
	}
	if !v.NewlineBefore() {
		t.Error("expected newline before var")
	}
	if toks[1].NewlineBefore() {
		t.Error("x is on the same line as var")
	}
}

func TestDirectiveNeedsWordBoundary(t *testing.T) {
	toks, _ := lexAll(t, "#elsewhere")
	if toks[0].Kind != token.Hash || toks[1].Text != "elsewhere" {
		t.Fatalf("got %v", kinds(toks))
	}
}

func TestNestedBlockComment(t *testing.T) {
	toks, bag := lexAll(t, "/* a /* b */ c */ x")
	if toks[0].Text != "x" || len(toks[0].Leading) != 2 {
		t.Fatalf("got %q with %d trivia", toks[0].Text, len(toks[0].Leading))
	}
	if toks[0].Leading[0].Kind != token.TriviaBlockComment {
		t.Fatalf("expected block comment, got %d", toks[0].Leading[0].Kind)
	}
	if bag.Len() != 0 {
		t.Fatal("unexpected diagnostics")
	}
}

func TestTrailingTriviaGoesToEOF(t *testing.T) {
	toks, _ := lexAll(t, "x // trailing")
	eof := toks[len(toks)-1]
	if eof.Kind != token.EOF || len(eof.Leading) != 2 {
		t.Fatalf("expected EOF with 2 trivia, got %s with %d", eof.Kind, len(eof.Leading))
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		next token.Kind
	}{
		{"newline in string", "\"abc\nvar", diag.LexUnterminatedString, token.KwVar},
		{"string at eof", "\"abc", diag.LexUnterminatedString, token.EOF},
		{"block comment at eof", "/* abc", diag.LexUnterminatedBlockComment, token.EOF},
		{"unknown character", "§ var", diag.LexUnknownChar, token.KwVar},
		{"bad radix", "0x var", diag.LexBadNumber, token.KwVar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.src)
			if bag.Len() != 1 {
				t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
			}
			if d := bag.Items()[0]; d.Code != tt.code || d.Severity != diag.SevError {
				t.Fatalf("got %s/%s", d.Code.ID(), d.Severity)
			}
			found := false
			for _, tok := range toks {
				if tok.Kind == tt.next {
					found = true
				}
			}
			if !found {
				t.Fatalf("lexing did not recover: %v", kinds(toks))
			}
		})
	}
}

func TestNilReporter(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.swift", []byte("\"open")))
	toks := lexer.Tokenize(file, lexer.Options{})
	if toks[0].Kind != token.Invalid {
		t.Fatalf("got %s", toks[0].Kind)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.swift", []byte("a b")))
	lx := lexer.New(file, lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek %q", p.Text)
	}
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("second peek %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next %q", n.Text)
	}
	for range 3 {
		if n := lx.Next(); n.Kind != token.EOF {
			t.Fatalf("expected sticky EOF, got %s", n.Kind)
		}
	}
}

func TestReplay(t *testing.T) {
	toks, _ := lexAll(t, "var a: Int")
	r := lexer.NewReplay(toks)
	for i := range toks {
		if got := r.Next(); got.Kind != toks[i].Kind || got.Span != toks[i].Span {
			t.Fatalf("token %d: got %s", i, got.Kind)
		}
	}
	if got := r.Next(); got.Kind != token.EOF {
		t.Fatalf("expected sticky EOF, got %s", got.Kind)
	}

	partial := lexer.NewReplay(toks[:2])
	partial.Next()
	partial.Next()
	eof := partial.Next()
	if eof.Kind != token.EOF || eof.Span.Start != toks[1].Span.End {
		t.Fatalf("synthesized EOF %s at %d", eof.Kind, eof.Span.Start)
	}
}
