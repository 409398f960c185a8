package ast

// TypeDecl is a protocol, class, struct, enum, extension or actor declaration.
type TypeDecl struct{ Node }

var emptyTypeDecl TypeDeclData

func (d TypeDecl) data() *TypeDeclData {
	if h := d.hdr(); h != nil && h.kind == KindTypeDecl {
		return d.f.typeDecls.Get(h.payload)
	}
	return &emptyTypeDecl
}

// AsTypeDecl converts n when it is a type declaration.
func (n Node) AsTypeDecl() (TypeDecl, bool) {
	return TypeDecl{n}, n.Kind() == KindTypeDecl
}

// Name returns the declared name; "" when it was missing in source.
func (d TypeDecl) Name() string             { return d.data().Name }
func (d TypeDecl) DeclKind() DeclKind       { return d.data().Kind }
func (d TypeDecl) Attributes() []string     { return d.data().Attrs }
func (d TypeDecl) Modifiers() []string      { return d.data().Modifiers }
func (d TypeDecl) Generics() []GenericParam { return d.data().Generics }

// GenericParams returns the generic parameter names in order.
func (d TypeDecl) GenericParams() []string { return genericNames(d.data().Generics) }

// Inherited returns the inheritance clause. Missing entries are ErrorInheritedType.
func (d TypeDecl) Inherited() []InheritedType {
	ids := d.data().Inherited
	if len(ids) == 0 {
		return nil
	}
	out := make([]InheritedType, len(ids))
	for i, id := range ids {
		out[i] = InheritedType{d.child(id)}
	}
	return out
}

// HasBody reports whether both braces were present.
func (d TypeDecl) HasBody() bool { return d.data().HasBody }

// BodyOffset is the UTF-16 offset of the text between the braces. When a
// brace is missing it points right after the last consumed token.
func (d TypeDecl) BodyOffset() uint32 {
	if d.f == nil {
		return 0
	}
	return d.f.units.Offset(d.data().Body.Start)
}

// BodyLength is the UTF-16 length of the body; 0 when a brace is missing.
func (d TypeDecl) BodyLength() uint32 {
	if d.f == nil {
		return 0
	}
	b := d.data().Body
	return d.f.units.Offset(b.End) - d.f.units.Offset(b.Start)
}

// Members returns the nested declarations in source order.
func (d TypeDecl) Members() []Node {
	var out []Node
	for _, c := range d.Children() {
		if c.Kind().IsDecl() {
			out = append(out, c)
		}
	}
	return out
}

func (d TypeDecl) TypeDecls() []TypeDecl { return typeDeclsOf(d.Node) }

func (d TypeDecl) FuncDecls() []FuncDecl {
	var out []FuncDecl
	for _, c := range d.Children() {
		if c.Kind() == KindFuncDecl {
			out = append(out, FuncDecl{c})
		}
	}
	return out
}

func (d TypeDecl) VarDecls() []VarDecl {
	var out []VarDecl
	for _, c := range d.Children() {
		if c.Kind() == KindVarDecl {
			out = append(out, VarDecl{c})
		}
	}
	return out
}

func (d TypeDecl) InitDecls() []InitDecl {
	var out []InitDecl
	for _, c := range d.Children() {
		if c.Kind() == KindInitDecl {
			out = append(out, InitDecl{c})
		}
	}
	return out
}

func (d TypeDecl) TypeAliases() []TypeAlias {
	var out []TypeAlias
	for _, c := range d.Children() {
		if c.Kind() == KindTypeAlias {
			out = append(out, TypeAlias{c})
		}
	}
	return out
}

// Enclosing returns the chain of enclosing type declarations, outermost first.
func (d TypeDecl) Enclosing() []TypeDecl {
	var chain []TypeDecl
	for p := d.Parent(); p.Valid(); p = p.Parent() {
		if td, ok := p.AsTypeDecl(); ok {
			chain = append([]TypeDecl{td}, chain...)
		}
	}
	return chain
}

func typeDeclsOf(n Node) []TypeDecl {
	var out []TypeDecl
	for _, c := range n.Children() {
		if c.Kind() == KindTypeDecl {
			out = append(out, TypeDecl{c})
		}
	}
	return out
}

func genericNames(gp []GenericParam) []string {
	if len(gp) == 0 {
		return nil
	}
	out := make([]string, len(gp))
	for i, g := range gp {
		out[i] = g.Name
	}
	return out
}

// InheritedType is one entry of an inheritance clause. The zero value,
// ErrorInheritedType, stands for a supertype that was expected but missing.
type InheritedType struct{ Node }

// ErrorInheritedType marks a missing inherited type name. Compare with ==.
var ErrorInheritedType = InheritedType{}

// IsError reports whether it is the error marker.
func (it InheritedType) IsError() bool { return it == ErrorInheritedType }

// Name returns the written supertype, e.g. "class", "ProtocolB" or "Nested.Type".
func (it InheritedType) Name() string { return it.Text() }

// Type returns the type expression; nil for the class constraint and the error marker.
func (it InheritedType) Type() Type {
	for _, c := range it.Children() {
		if t := TypeOf(c); t != nil {
			return t
		}
	}
	return nil
}

// FuncDecl is a method or free function.
type FuncDecl struct{ Node }

var emptyFuncDecl FuncDeclData

func (d FuncDecl) data() *FuncDeclData {
	if h := d.hdr(); h != nil && h.kind == KindFuncDecl {
		return d.f.funcDecls.Get(h.payload)
	}
	return &emptyFuncDecl
}

func (n Node) AsFuncDecl() (FuncDecl, bool) {
	return FuncDecl{n}, n.Kind() == KindFuncDecl
}

func (d FuncDecl) Name() string             { return d.data().Name }
func (d FuncDecl) GenericParams() []string  { return genericNames(d.data().Generics) }
func (d FuncDecl) Generics() []GenericParam { return d.data().Generics }
func (d FuncDecl) Params() []Param          { return paramsOf(d.Node, d.data().Params) }
func (d FuncDecl) Rethrows() bool           { return d.data().Rethrows }
func (d FuncDecl) IsAsync() bool            { return d.data().Async }
func (d FuncDecl) Attributes() []string     { return d.data().Attrs }
func (d FuncDecl) Modifiers() []string      { return d.data().Modifiers }
func (d FuncDecl) IsStatic() bool           { return isStatic(d.data().Modifiers) }

// Throws is true for both throws and rethrows.
func (d FuncDecl) Throws() bool { return d.data().Throws || d.data().Rethrows }

// ReturnType returns the declared return type or nil.
func (d FuncDecl) ReturnType() Type { return TypeOf(d.child(d.data().Return)) }

// VarDecl is a var or let property.
type VarDecl struct{ Node }

var emptyVarDecl VarDeclData

func (d VarDecl) data() *VarDeclData {
	if h := d.hdr(); h != nil && h.kind == KindVarDecl {
		return d.f.varDecls.Get(h.payload)
	}
	return &emptyVarDecl
}

func (n Node) AsVarDecl() (VarDecl, bool) {
	return VarDecl{n}, n.Kind() == KindVarDecl
}

func (d VarDecl) Name() string         { return d.data().Name }
func (d VarDecl) IsLet() bool          { return d.data().Let }
func (d VarDecl) HasAccessors() bool   { return d.data().HasAccessors }
func (d VarDecl) Attributes() []string { return d.data().Attrs }
func (d VarDecl) Modifiers() []string  { return d.data().Modifiers }
func (d VarDecl) IsStatic() bool       { return isStatic(d.data().Modifiers) }

// Type returns the annotated type or nil.
func (d VarDecl) Type() Type { return TypeOf(d.child(d.data().Type)) }

// TypeAnnotationText returns ": Type" as written, or "".
func (d VarDecl) TypeAnnotationText() string {
	a := d.data().Annotation
	if d.f == nil || a.Empty() {
		return ""
	}
	return d.f.src.Slice(a)
}

// IsWritable is false for let and for accessor blocks without a setter or observer.
func (d VarDecl) IsWritable() bool { return d.data().Writable }

// InitDecl is an initializer.
type InitDecl struct{ Node }

var emptyInitDecl InitDeclData

func (d InitDecl) data() *InitDeclData {
	if h := d.hdr(); h != nil && h.kind == KindInitDecl {
		return d.f.initDecls.Get(h.payload)
	}
	return &emptyInitDecl
}

func (n Node) AsInitDecl() (InitDecl, bool) {
	return InitDecl{n}, n.Kind() == KindInitDecl
}

func (d InitDecl) Params() []Param         { return paramsOf(d.Node, d.data().Params) }
func (d InitDecl) GenericParams() []string { return genericNames(d.data().Generics) }

// IsFailable is true for init? and init!.
func (d InitDecl) IsFailable() bool            { return d.data().Failable }
func (d InitDecl) IsImplicitlyUnwrapped() bool { return d.data().IUO }
func (d InitDecl) Throws() bool                { return d.data().Throws }
func (d InitDecl) IsAsync() bool               { return d.data().Async }
func (d InitDecl) Attributes() []string        { return d.data().Attrs }
func (d InitDecl) Modifiers() []string         { return d.data().Modifiers }

// Param is one entry of a parameter clause.
type Param struct{ Node }

var emptyParam ParamData

func (p Param) data() *ParamData {
	if h := p.hdr(); h != nil && h.kind == KindParam {
		return p.f.params.Get(h.payload)
	}
	return &emptyParam
}

// ExternalName is the argument label; "" when absent or written as _.
func (p Param) ExternalName() string     { return p.data().External }
func (p Param) HasExternalName() bool    { return p.data().HasExternal }
func (p Param) InternalName() string     { return p.data().Internal }
func (p Param) Type() Type               { return TypeOf(p.child(p.data().Type)) }
func (p Param) TypeAttributes() []string { return p.data().TypeAttrs }
func (p Param) IsInout() bool            { return p.data().Inout }
func (p Param) IsVariadic() bool         { return p.data().Variadic }
func (p Param) HasDefault() bool         { return p.data().HasDefault }

// IsEscaping reports an explicit @escaping on the type annotation.
func (p Param) IsEscaping() bool {
	for _, a := range p.data().TypeAttrs {
		if a == "@escaping" {
			return true
		}
	}
	return false
}

func paramsOf(n Node, ids []NodeID) []Param {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Param, len(ids))
	for i, id := range ids {
		out[i] = Param{n.child(id)}
	}
	return out
}

// TypeAlias is a typealias or associatedtype declaration.
type TypeAlias struct{ Node }

var emptyTypeAlias TypeAliasData

func (a TypeAlias) data() *TypeAliasData {
	if h := a.hdr(); h != nil && h.kind == KindTypeAlias {
		return a.f.typeAlias.Get(h.payload)
	}
	return &emptyTypeAlias
}

func (n Node) AsTypeAlias() (TypeAlias, bool) {
	return TypeAlias{n}, n.Kind() == KindTypeAlias
}

func (a TypeAlias) Name() string            { return a.data().Name }
func (a TypeAlias) GenericParams() []string { return genericNames(a.data().Generics) }
func (a TypeAlias) IsAssociated() bool      { return a.data().Associated }
func (a TypeAlias) Modifiers() []string     { return a.data().Modifiers }

// Type returns the aliased type; nil for an associatedtype without a default.
func (a TypeAlias) Type() Type { return TypeOf(a.child(a.data().Type)) }

func isStatic(mods []string) bool {
	for _, m := range mods {
		if m == "static" || m == "class" {
			return true
		}
	}
	return false
}
