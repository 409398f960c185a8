package ast

import "strings"

// Type is a type expression node.
type Type interface {
	AsNode() Node
	Accept(v Visitor)
	Text() string
	typeNode()
}

// TypeOf wraps n in its Type variant; nil when n is not a type expression.
func TypeOf(n Node) Type {
	switch n.Kind() {
	case KindTypeIdent:
		return TypeIdent{n}
	case KindGenericType:
		return GenericType{n}
	case KindArrayType:
		return ArrayType{n}
	case KindDictType:
		return DictType{n}
	case KindOptionalType:
		return OptionalType{n}
	case KindFuncType:
		return FuncType{n}
	case KindTupleType:
		return TupleType{n}
	default:
		return nil
	}
}

func (n Node) nameData() *NameData {
	if h := n.hdr(); h != nil && (h.kind == KindTypeIdent || h.kind == KindGenericType) {
		return n.f.names.Get(h.payload)
	}
	return &NameData{}
}

func (n Node) typesOf(ids []NodeID) []Type {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Type, len(ids))
	for i, id := range ids {
		out[i] = TypeOf(n.child(id))
	}
	return out
}

// TypeIdent is a possibly dotted name without generic arguments: Int, Nested.Type.
type TypeIdent struct{ Node }

// Segments returns the dotted path, outermost first.
func (t TypeIdent) Segments() []string { return t.nameData().Segments }

// Name returns the full dotted name.
func (t TypeIdent) Name() string { return strings.Join(t.Segments(), ".") }

// GenericType is a name followed by <...>.
type GenericType struct{ Node }

func (t GenericType) Segments() []string { return t.nameData().Segments }
func (t GenericType) Name() string       { return strings.Join(t.Segments(), ".") }
func (t GenericType) Args() []Type       { return t.typesOf(t.nameData().Args) }

// ArrayType is [Elem].
type ArrayType struct{ Node }

func (t ArrayType) Elem() Type {
	if h := t.hdr(); h != nil && h.kind == KindArrayType {
		return TypeOf(t.child(t.f.arrays.Get(h.payload).Elem))
	}
	return nil
}

// DictType is [Key: Value].
type DictType struct{ Node }

func (t DictType) data() DictData {
	if h := t.hdr(); h != nil && h.kind == KindDictType {
		return *t.f.dicts.Get(h.payload)
	}
	return DictData{}
}

func (t DictType) Key() Type   { return TypeOf(t.child(t.data().Key)) }
func (t DictType) Value() Type { return TypeOf(t.child(t.data().Value)) }

// OptionalType is Wrapped? or, implicitly unwrapped, Wrapped!.
type OptionalType struct{ Node }

func (t OptionalType) data() OptionalData {
	if h := t.hdr(); h != nil && h.kind == KindOptionalType {
		return *t.f.optionals.Get(h.payload)
	}
	return OptionalData{}
}

func (t OptionalType) Wrapped() Type               { return TypeOf(t.child(t.data().Wrapped)) }
func (t OptionalType) IsImplicitlyUnwrapped() bool { return t.data().IUO }

// FuncType is (Params) throws -> Return.
type FuncType struct{ Node }

func (t FuncType) data() *FuncTypeData {
	if h := t.hdr(); h != nil && h.kind == KindFuncType {
		return t.f.funcTypes.Get(h.payload)
	}
	return &FuncTypeData{}
}

func (t FuncType) Params() []Type { return t.typesOf(t.data().Params) }
func (t FuncType) Return() Type   { return TypeOf(t.child(t.data().Return)) }
func (t FuncType) Throws() bool   { return t.data().Throws }
func (t FuncType) IsAsync() bool  { return t.data().Async }

// TupleType is (label: T, U). The empty tuple () has no elements.
type TupleType struct{ Node }

// TupleElem is one tuple element; Label is "" when unlabeled.
type TupleElem struct {
	Label string
	Type  Type
}

func (t TupleType) Elems() []TupleElem {
	h := t.hdr()
	if h == nil || h.kind != KindTupleType {
		return nil
	}
	d := t.f.tuples.Get(h.payload)
	out := make([]TupleElem, len(d.Elems))
	for i, id := range d.Elems {
		out[i] = TupleElem{Label: d.Labels[i], Type: TypeOf(t.child(id))}
	}
	return out
}

func (TypeIdent) typeNode()    {}
func (GenericType) typeNode()  {}
func (ArrayType) typeNode()    {}
func (DictType) typeNode()     {}
func (OptionalType) typeNode() {}
func (FuncType) typeNode()     {}
func (TupleType) typeNode()    {}
