package semantic

import (
	"strings"

	"mimic/internal/ast"
)

type options struct {
	nested bool
}

// Option configures Extract.
type Option func(*options)

// WithNestedTypes makes Extract descend into nested type declarations, so
// their members are collected too, in document order. By default only the
// type's own members are collected.
func WithNestedTypes() Option {
	return func(o *options) { o.nested = true }
}

// Extract builds the model of decl. r may be nil. It never fails: a
// degenerate declaration yields a model with empty lists.
func Extract(decl ast.TypeDecl, r Resolver, opts ...Option) *Model {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if r == nil {
		r = NopResolver{}
	}
	m := &Model{Type: None()}
	if !decl.Valid() {
		return m
	}
	x := &extractor{root: decl.ID(), r: r, nested: o.nested, m: m}
	x.Self = x
	decl.Accept(x)
	return m
}

type extractor struct {
	ast.Recursive
	root   ast.NodeID
	r      Resolver
	nested bool
	m      *Model
}

func (x *extractor) VisitTypeDecl(d ast.TypeDecl) {
	if d.ID() == x.root {
		x.m.Name = qualifiedName(d)
		x.m.Kind = d.DeclKind().String()
		x.m.Type = TypeOf(d)
		for _, it := range d.Inherited() {
			x.m.Inherited = append(x.m.Inherited, it.Name())
		}
	} else if !x.nested {
		return
	}
	x.Recursive.VisitTypeDecl(d)
}

func (x *extractor) VisitFuncDecl(d ast.FuncDecl) {
	x.m.Methods = append(x.m.Methods, Method{
		Name:          d.Name(),
		GenericParams: d.GenericParams(),
		Params:        x.params(d.Params()),
		Return:        x.resolve(d.ReturnType()),
		Throws:        d.Throws(),
		IsAsync:       d.IsAsync(),
		IsStatic:      d.IsStatic(),
		Text:          d.Text(),
	})
}

func (x *extractor) VisitVarDecl(d ast.VarDecl) {
	x.m.Properties = append(x.m.Properties, Property{
		Name:       d.Name(),
		Type:       Convert(d.Type()),
		IsWritable: d.IsWritable(),
		IsStatic:   d.IsStatic(),
		Text:       d.Text(),
	})
}

func (x *extractor) VisitInitDecl(d ast.InitDecl) {
	x.m.Initializers = append(x.m.Initializers, Initializer{
		Params:                x.params(d.Params()),
		IsFailable:            d.IsFailable(),
		IsImplicitlyUnwrapped: d.IsImplicitlyUnwrapped(),
		Throws:                d.Throws(),
		IsAsync:               d.IsAsync(),
		Text:                  d.Text(),
	})
}

// Алиасы внутри типа не являются членами модели.
func (x *extractor) VisitTypeAlias(ast.TypeAlias) {}

func (x *extractor) params(ps []ast.Param) []Parameter {
	out := make([]Parameter, len(ps))
	for i, p := range ps {
		out[i] = Parameter{
			ExternalName:    p.ExternalName(),
			HasExternalName: p.HasExternalName(),
			InternalName:    p.InternalName(),
			Type:            x.resolve(p.Type()),
			Text:            p.Text(),
			IsEscaping:      p.IsEscaping(),
			IsInout:         p.IsInout(),
			IsVariadic:      p.IsVariadic(),
			HasDefault:      p.HasDefault(),
		}
	}
	return out
}

func (x *extractor) resolve(t ast.Type) ResolvedType {
	return ResolvedType{Original: Convert(t), Resolved: ConvertResolved(t, x.r)}
}

// TypeOf returns the semantic identity of a type declaration: the dotted
// name through its enclosing types, as a Generic over the declaration's own
// generic parameters when it has any.
func TypeOf(d ast.TypeDecl) Type {
	name := qualifiedName(d)
	params := d.GenericParams()
	if len(params) == 0 {
		return Ident(name)
	}
	g := Generic{Name: name, Args: make([]Type, len(params))}
	for i, p := range params {
		g.Args[i] = Ident(p)
	}
	return g
}

func qualifiedName(d ast.TypeDecl) string {
	var parts []string
	for _, outer := range d.Enclosing() {
		parts = append(parts, outer.Name())
	}
	return strings.Join(append(parts, d.Name()), ".")
}
