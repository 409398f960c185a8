package parser

import (
	"context"
	"strconv"

	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/lexer"
	"mimic/internal/source"
	"mimic/internal/token"
	"mimic/internal/trace"
)

// Stream is the token source the parser pulls from. After EOF it must keep
// returning EOF. *lexer.Lexer and *lexer.Replay satisfy it.
type Stream interface {
	Next() token.Token
}

type Options struct {
	// Reporter receives recovery warnings. Nil drops them.
	Reporter diag.Reporter
	// MaxDiagnostics caps how many diagnostics the parser itself reports; 0 means no cap.
	MaxDiagnostics uint
}

type Result struct {
	File *ast.File
	// Bag is set when the reporter was a diag.BagReporter.
	Bag *diag.Bag
}

// Parser: состояние парсера на один файл.
type Parser struct {
	ts       Stream
	buf      []token.Token // lookahead
	b        *ast.Builder
	src      *source.File
	opts     Options
	reported uint
	lastSpan source.Span // span последнего съеденного токена
	tracer   trace.Tracer
	span     uint64
}

// ParseFile builds the syntax tree of src from stream. A nil stream lexes src
// directly. It never fails: malformed input yields a best-effort tree and
// warnings on opts.Reporter.
func ParseFile(ctx context.Context, src *source.File, stream Stream, opts Options) Result {
	if stream == nil {
		stream = lexer.New(src, lexer.Options{Reporter: opts.Reporter})
	}
	tracer := trace.FromContext(ctx)
	sp := trace.Begin(tracer, trace.ScopeFile, "parse_file", trace.CurrentSpan(ctx).SpanID).
		WithExtra("path", src.Path)

	p := &Parser{
		ts:       stream,
		b:        ast.NewBuilder(src),
		src:      src,
		opts:     opts,
		lastSpan: source.At(src.ID, 0),
		tracer:   tracer,
		span:     sp.ID(),
	}
	decls := p.parseDecls(true)
	file := p.b.Finish(decls)
	sp.End(strconv.Itoa(file.NodeCount()) + " nodes")

	var bag *diag.Bag
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{File: file, Bag: bag}
}

// ParseSource parses text as a standalone virtual file. Diagnostics go to
// opts.Reporter, or to a fresh Bag returned in Result when it is nil.
func ParseSource(name, text string, opts Options) Result {
	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual(name, []byte(text)))
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: diag.NewBag(256)}
	}
	return ParseFile(context.Background(), src, nil, opts)
}

// parseDecls читает объявления до '}' (тело типа) или до EOF (файл).
func (p *Parser) parseDecls(topLevel bool) []ast.NodeID {
	var out []ast.NodeID
	for {
		switch p.peek().Kind {
		case token.EOF:
			return out
		case token.RBrace:
			if !topLevel {
				return out
			}
			p.warn(diag.SynUnexpectedToken, p.peek().Span, "unmatched '}'")
			p.advance()
			continue
		case token.Semicolon:
			p.advance()
			continue
		}
		before := p.peek().Span
		if id := p.parseDecl(); id.IsValid() {
			out = append(out, id)
		}
		if p.peek().Span == before && p.peek().Kind != token.EOF && p.peek().Kind != token.RBrace {
			p.advance()
		}
	}
}

// parseDecl: атрибуты и модификаторы, затем разбор по ключевому слову.
// Unsupported declarations are skipped and yield NoNodeID.
func (p *Parser) parseDecl() ast.NodeID {
	start := p.peek().Span
	attrs := p.parseAttributes()
	mods := p.parseModifiers()

	tok := p.peek()
	switch {
	case tok.Kind.IsTypeDeclKeyword():
		return p.parseTypeDecl(start, attrs, mods)
	case tok.Is("actor") && p.peekN(1).Kind == token.Ident:
		return p.parseTypeDecl(start, attrs, mods)
	case tok.Kind == token.KwFunc:
		return p.parseFuncDecl(start, attrs, mods)
	case tok.Kind == token.KwVar, tok.Kind == token.KwLet:
		return p.parseVarDecl(start, attrs, mods)
	case tok.Kind == token.KwInit:
		return p.parseInitDecl(start, attrs, mods)
	case tok.Kind == token.KwTypealias, tok.Kind == token.KwAssociatedtype:
		return p.parseTypeAlias(start, mods)
	case tok.Kind.IsMemberKeyword(), tok.Kind == token.KwImport, tok.Kind == token.KwOperator,
		tok.Is("precedencegroup"), tok.Is("macro"):
		p.skipDecl()
		return ast.NoNodeID
	default:
		p.warn(diag.SynSkippedTokens, tok.Span, "skipping unsupported construct starting with "+strconv.Quote(tok.Text))
		p.skipDecl()
		return ast.NoNodeID
	}
}
