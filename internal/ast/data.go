package ast

import "mimic/internal/source"

// Payloads are filled by the parser and passed to Builder. Node ids stored
// in a payload are also children of the owning node.

// GenericParam is one entry of a <...> generic parameter clause.
type GenericParam struct {
	Name       string
	Constraint string // текст после ':' без пробелов по краям, "" если нет
}

type TypeDeclData struct {
	Kind      DeclKind
	Name      string
	Inherited []NodeID // NoNodeID marks a missing supertype
	Generics  []GenericParam
	// Body is the byte range between the braces; empty when a brace is missing.
	Body      source.Span
	HasBody   bool
	Attrs     []string
	Modifiers []string
}

type FuncDeclData struct {
	Name      string
	Generics  []GenericParam
	Params    []NodeID
	Return    NodeID
	Throws    bool
	Rethrows  bool
	Async     bool
	Attrs     []string
	Modifiers []string
}

type VarDeclData struct {
	Name string
	Type NodeID
	// Annotation covers ": Type" including the colon.
	Annotation   source.Span
	HasAccessors bool
	Writable     bool
	Let          bool
	Attrs        []string
	Modifiers    []string
}

type InitDeclData struct {
	Generics  []GenericParam
	Params    []NodeID
	Failable  bool
	IUO       bool // init!
	Throws    bool
	Async     bool
	Attrs     []string
	Modifiers []string
}

type ParamData struct {
	External    string
	HasExternal bool
	Internal    string
	Type        NodeID
	// TypeAttrs are attributes written on the type annotation (@escaping, @autoclosure).
	TypeAttrs  []string
	Inout      bool
	Variadic   bool
	HasDefault bool
}

type TypeAliasData struct {
	Name       string
	Generics   []GenericParam
	Type       NodeID
	Associated bool
	Modifiers  []string
}

// NameData backs TypeIdent and GenericType. Args belong to the last segment.
type NameData struct {
	Segments []string
	Args     []NodeID
}

type ArrayData struct{ Elem NodeID }

type DictData struct{ Key, Value NodeID }

type OptionalData struct {
	Wrapped NodeID
	IUO     bool
}

type FuncTypeData struct {
	Params []NodeID
	Return NodeID
	Throws bool
	Async  bool
}

type TupleData struct {
	Labels []string // "" for an unlabeled element
	Elems  []NodeID
}
