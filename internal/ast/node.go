package ast

import "mimic/internal/source"

// Node is a handle to one node of a File. The zero Node is invalid; all
// accessors on it return zero values.
type Node struct {
	f  *File
	id NodeID
}

func (n Node) hdr() *node {
	if n.f == nil {
		return nil
	}
	return n.f.header(n.id)
}

// Valid reports whether n refers to a node.
func (n Node) Valid() bool { return n.hdr() != nil }

func (n Node) ID() NodeID { return n.id }

// AsNode returns n itself; it lets typed wrappers and Type values share one accessor.
func (n Node) AsNode() Node { return n }

func (n Node) Kind() Kind {
	if h := n.hdr(); h != nil {
		return h.kind
	}
	return KindInvalid
}

// Span returns the byte range of the node.
func (n Node) Span() source.Span {
	if h := n.hdr(); h != nil {
		return h.span
	}
	return source.Span{}
}

// Offset returns the start of the node in UTF-16 code units.
func (n Node) Offset() uint32 {
	if h := n.hdr(); h != nil {
		return n.f.units.Offset(h.span.Start)
	}
	return 0
}

// Length returns the node length in UTF-16 code units.
func (n Node) Length() uint32 {
	if h := n.hdr(); h != nil {
		return n.f.units.Offset(h.span.End) - n.f.units.Offset(h.span.Start)
	}
	return 0
}

// Text returns the exact source text covered by the node.
func (n Node) Text() string {
	if h := n.hdr(); h != nil {
		return n.f.src.Slice(h.span)
	}
	return ""
}

// Parent returns the enclosing node; invalid for the root.
func (n Node) Parent() Node {
	if h := n.hdr(); h != nil && h.parent.IsValid() {
		return Node{f: n.f, id: h.parent}
	}
	return Node{}
}

// File returns the owning File.
func (n Node) File() *File { return n.f }

// Children returns the direct children in source order.
func (n Node) Children() []Node {
	h := n.hdr()
	if h == nil || len(h.kids) == 0 {
		return nil
	}
	out := make([]Node, len(h.kids))
	for i, k := range h.kids {
		out[i] = Node{f: n.f, id: k}
	}
	return out
}

func (n Node) child(id NodeID) Node {
	if !id.IsValid() || n.f == nil {
		return Node{}
	}
	return Node{f: n.f, id: id}
}

// Accept dispatches to the Visitor method of n's variant.
func (n Node) Accept(v Visitor) {
	switch n.Kind() {
	case KindFile:
		v.VisitFile(n.f)
	case KindTypeDecl:
		v.VisitTypeDecl(TypeDecl{n})
	case KindInheritedType:
		v.VisitInheritedType(InheritedType{n})
	case KindFuncDecl:
		v.VisitFuncDecl(FuncDecl{n})
	case KindVarDecl:
		v.VisitVarDecl(VarDecl{n})
	case KindInitDecl:
		v.VisitInitDecl(InitDecl{n})
	case KindParam:
		v.VisitParam(Param{n})
	case KindTypeAlias:
		v.VisitTypeAlias(TypeAlias{n})
	case KindTypeIdent:
		v.VisitTypeIdent(TypeIdent{n})
	case KindGenericType:
		v.VisitGenericType(GenericType{n})
	case KindArrayType:
		v.VisitArrayType(ArrayType{n})
	case KindDictType:
		v.VisitDictType(DictType{n})
	case KindOptionalType:
		v.VisitOptionalType(OptionalType{n})
	case KindFuncType:
		v.VisitFuncType(FuncType{n})
	case KindTupleType:
		v.VisitTupleType(TupleType{n})
	}
}

func (n Node) String() string {
	if !n.Valid() {
		return "<invalid>"
	}
	return n.Kind().String() + "@" + n.Span().String()
}
