package ast

// Visitor has one method per node variant. Node.Accept calls the method
// matching the node's kind.
type Visitor interface {
	// VisitNode is the catch-all every variant falls back to in Recursive.
	VisitNode(n Node)

	VisitFile(f *File)
	VisitTypeDecl(d TypeDecl)
	VisitInheritedType(t InheritedType)
	VisitFuncDecl(d FuncDecl)
	VisitVarDecl(d VarDecl)
	VisitInitDecl(d InitDecl)
	VisitParam(p Param)
	VisitTypeAlias(a TypeAlias)

	VisitTypeIdent(t TypeIdent)
	VisitGenericType(t GenericType)
	VisitArrayType(t ArrayType)
	VisitDictType(t DictType)
	VisitOptionalType(t OptionalType)
	VisitFuncType(t FuncType)
	VisitTupleType(t TupleType)
}

// Recursive walks the whole tree depth-first in source order. Each variant
// method forwards to Self.VisitNode, which accepts Self on every child.
//
// Embed it and set Self to the embedding visitor:
//
//	type names struct {
//		ast.Recursive
//		out []string
//	}
//
//	func (n *names) VisitTypeDecl(d ast.TypeDecl) {
//		n.out = append(n.out, d.Name())
//		n.Recursive.VisitTypeDecl(d) // без этого вызова поддерево пропускается
//	}
//
// A nil Self means the Recursive itself.
type Recursive struct {
	Self Visitor
}

func (r *Recursive) self() Visitor {
	if r.Self != nil {
		return r.Self
	}
	return r
}

// VisitNode accepts the visitor on each child of n in order.
func (r *Recursive) VisitNode(n Node) {
	v := r.self()
	for _, c := range n.Children() {
		c.Accept(v)
	}
}

func (r *Recursive) VisitFile(f *File)                  { r.self().VisitNode(f.Node()) }
func (r *Recursive) VisitTypeDecl(d TypeDecl)           { r.self().VisitNode(d.Node) }
func (r *Recursive) VisitInheritedType(t InheritedType) { r.self().VisitNode(t.Node) }
func (r *Recursive) VisitFuncDecl(d FuncDecl)           { r.self().VisitNode(d.Node) }
func (r *Recursive) VisitVarDecl(d VarDecl)             { r.self().VisitNode(d.Node) }
func (r *Recursive) VisitInitDecl(d InitDecl)           { r.self().VisitNode(d.Node) }
func (r *Recursive) VisitParam(p Param)                 { r.self().VisitNode(p.Node) }
func (r *Recursive) VisitTypeAlias(a TypeAlias)         { r.self().VisitNode(a.Node) }
func (r *Recursive) VisitTypeIdent(t TypeIdent)         { r.self().VisitNode(t.Node) }
func (r *Recursive) VisitGenericType(t GenericType)     { r.self().VisitNode(t.Node) }
func (r *Recursive) VisitArrayType(t ArrayType)         { r.self().VisitNode(t.Node) }
func (r *Recursive) VisitDictType(t DictType)           { r.self().VisitNode(t.Node) }
func (r *Recursive) VisitOptionalType(t OptionalType)   { r.self().VisitNode(t.Node) }
func (r *Recursive) VisitFuncType(t FuncType)           { r.self().VisitNode(t.Node) }
func (r *Recursive) VisitTupleType(t TupleType)         { r.self().VisitNode(t.Node) }

// Inspect calls fn for n and, while fn returns true, for every descendant in pre-order.
func Inspect(n Node, fn func(Node) bool) {
	if !n.Valid() || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Inspect(c, fn)
	}
}
