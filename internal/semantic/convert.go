package semantic

import (
	"golang.org/x/text/unicode/norm"

	"mimic/internal/ast"
)

// maxResolveDepth bounds chained substitutions (alias of alias of ...).
// Past it the remaining type is converted as written.
const maxResolveDepth = 16

// Convert maps a syntactic type to its semantic form without resolution.
// A nil type converts to None().
func Convert(t ast.Type) Type { return convert(t, nil, nil, 0) }

// ConvertResolved maps t to its semantic form, substituting through r at
// every level: the type itself, then its element, key, argument and
// parameter types. A substitute is converted the same way, except that a
// type already being substituted further up is kept as written.
func ConvertResolved(t ast.Type, r Resolver) Type { return convert(t, r, nil, 0) }

// resolvePath is the chain of written types substituted to reach the
// current one, innermost first.
type resolvePath struct {
	text string
	up   *resolvePath
}

func (p *resolvePath) has(text string) bool {
	for ; p != nil; p = p.up {
		if p.text == text {
			return true
		}
	}
	return false
}

func convert(t ast.Type, r Resolver, path *resolvePath, depth int) Type {
	if t == nil || !t.AsNode().Valid() {
		return None()
	}
	if r != nil {
		text := norm.NFC.String(t.Text())
		if depth >= maxResolveDepth {
			r = nil
		} else if !path.has(text) {
			if sub, ok := r.Resolve(t); ok && sub != nil {
				return convert(sub, r, &resolvePath{text: text, up: path}, depth+1)
			}
		}
	}
	c := &converter{r: r, path: path, depth: depth}
	c.Self = c
	t.Accept(c)
	if c.out == nil {
		return Ident(t.Text())
	}
	return c.out
}

// converter is a one-shot visitor: each nested type gets a fresh one via sub.
type converter struct {
	ast.Recursive
	r     Resolver
	path  *resolvePath
	depth int
	out   Type
}

func (c *converter) sub(t ast.Type) Type { return convert(t, c.r, c.path, c.depth) }

func (c *converter) VisitTypeIdent(t ast.TypeIdent) {
	c.out = Identifier{Segments: append([]string(nil), t.Segments()...)}
}

func (c *converter) VisitGenericType(t ast.GenericType) {
	args := t.Args()
	g := Generic{Name: t.Name(), Args: make([]Type, len(args))}
	for i, a := range args {
		g.Args[i] = c.sub(a)
	}
	c.out = g
}

func (c *converter) VisitArrayType(t ast.ArrayType) {
	c.out = Array{Elem: c.sub(t.Elem())}
}

func (c *converter) VisitDictType(t ast.DictType) {
	c.out = Dictionary{Key: c.sub(t.Key()), Value: c.sub(t.Value())}
}

func (c *converter) VisitOptionalType(t ast.OptionalType) {
	c.out = Optional{Wrapped: c.sub(t.Wrapped()), ImplicitlyUnwrapped: t.IsImplicitlyUnwrapped()}
}

func (c *converter) VisitFuncType(t ast.FuncType) {
	params := t.Params()
	fn := Function{Params: make([]Type, len(params)), Return: c.sub(t.Return()), Throws: t.Throws(), Async: t.IsAsync()}
	for i, p := range params {
		fn.Params[i] = c.sub(p)
	}
	c.out = fn
}

func (c *converter) VisitTupleType(t ast.TupleType) {
	elems := t.Elems()
	tup := Tuple{Elems: make([]TupleElem, len(elems))}
	for i, e := range elems {
		tup.Elems[i] = TupleElem{Label: e.Label, Type: c.sub(e.Type)}
	}
	c.out = tup
}
