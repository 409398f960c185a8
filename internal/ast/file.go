package ast

import (
	"fmt"

	"mimic/internal/source"

	"fortio.org/safecast"
)

type node struct {
	kind    Kind
	span    source.Span
	parent  NodeID
	payload uint32
	kids    []NodeID
}

// File owns a whole syntax tree. Every Node handle carries a pointer to its
// File, so a live node keeps the tree alive. A File is immutable once the
// Builder that produced it has finished.
type File struct {
	src   *source.File
	units *source.UTF16Index
	nodes *Arena[node]

	typeDecls *Arena[TypeDeclData]
	funcDecls *Arena[FuncDeclData]
	varDecls  *Arena[VarDeclData]
	initDecls *Arena[InitDeclData]
	params    *Arena[ParamData]
	typeAlias *Arena[TypeAliasData]
	names     *Arena[NameData]
	arrays    *Arena[ArrayData]
	dicts     *Arena[DictData]
	optionals *Arena[OptionalData]
	funcTypes *Arena[FuncTypeData]
	tuples    *Arena[TupleData]
}

// Source returns the source file the tree was parsed from.
func (f *File) Source() *source.File { return f.src }

// Text returns the full source text.
func (f *File) Text() string { return string(f.src.Content) }

// Len returns the text length in UTF-16 code units.
func (f *File) Len() uint32 { return f.units.Len() }

// Node returns the root node.
func (f *File) Node() Node { return Node{f: f, id: RootID} }

// NodeCount returns how many nodes the tree has, the root included.
func (f *File) NodeCount() int { return int(f.nodes.Len()) }

// At returns the node with the given id, or an invalid Node.
func (f *File) At(id NodeID) Node {
	if f == nil || !id.IsValid() || uint32(id) > f.nodes.Len() {
		return Node{}
	}
	return Node{f: f, id: id}
}

// Decls returns the top-level declarations in source order.
func (f *File) Decls() []Node { return f.Node().Children() }

// TypeDecls returns the top-level type declarations.
func (f *File) TypeDecls() []TypeDecl { return typeDeclsOf(f.Node()) }

// Accept dispatches VisitFile.
func (f *File) Accept(v Visitor) { v.VisitFile(f) }

// TextRange slices the source by a UTF-16 range, clamping to the text bounds.
func (f *File) TextRange(offset, length uint32) string {
	start := f.units.ByteOffset(offset)
	end := f.units.ByteOffset(offset + length)
	return f.src.Slice(source.Span{File: f.src.ID, Start: start, End: end})
}

func (f *File) header(id NodeID) *node { return f.nodes.Get(uint32(id)) }

// Builder assembles a File bottom-up: children are created first and handed
// to their parent's constructor, which adopts them in the given order.
type Builder struct {
	f *File
}

// NewBuilder starts a tree over src. The root node spans the whole text.
func NewBuilder(src *source.File) *Builder {
	end, err := safecast.Conv[uint32](len(src.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	f := &File{
		src:       src,
		units:     src.UTF16(),
		nodes:     NewArena[node](64),
		typeDecls: NewArena[TypeDeclData](8),
		funcDecls: NewArena[FuncDeclData](16),
		varDecls:  NewArena[VarDeclData](16),
		initDecls: NewArena[InitDeclData](4),
		params:    NewArena[ParamData](16),
		typeAlias: NewArena[TypeAliasData](4),
		names:     NewArena[NameData](32),
		arrays:    NewArena[ArrayData](4),
		dicts:     NewArena[DictData](4),
		optionals: NewArena[OptionalData](8),
		funcTypes: NewArena[FuncTypeData](4),
		tuples:    NewArena[TupleData](4),
	}
	f.nodes.Allocate(node{kind: KindFile, span: source.Span{File: src.ID, End: end}})
	return &Builder{f: f}
}

// Span returns the span recorded for id.
func (b *Builder) Span(id NodeID) source.Span {
	if h := b.f.header(id); h != nil {
		return h.span
	}
	return source.Span{}
}

func (b *Builder) add(kind Kind, sp source.Span, payload uint32, kids []NodeID) NodeID {
	id := NodeID(b.f.nodes.Allocate(node{kind: kind, span: sp, payload: payload}))
	for _, k := range kids {
		if !k.IsValid() {
			continue
		}
		b.f.header(k).parent = id
		h := b.f.header(id)
		h.kids = append(h.kids, k)
	}
	return id
}

// Finish adopts the top-level declarations and returns the File.
// The Builder must not be used afterwards.
func (b *Builder) Finish(decls []NodeID) *File {
	f := b.f
	root := f.header(RootID)
	for _, d := range decls {
		if d.IsValid() {
			f.header(d).parent = RootID
			root.kids = append(root.kids, d)
		}
	}
	b.f = nil
	return f
}

// TypeDecl creates a type declaration; kids are its inherited types and members in source order.
func (b *Builder) TypeDecl(sp source.Span, d TypeDeclData, kids []NodeID) NodeID {
	return b.add(KindTypeDecl, sp, b.f.typeDecls.Allocate(d), kids)
}

// InheritedType wraps one supertype entry around its type expression (NoNodeID for `class`).
func (b *Builder) InheritedType(sp source.Span, typ NodeID) NodeID {
	return b.add(KindInheritedType, sp, 0, []NodeID{typ})
}

func (b *Builder) FuncDecl(sp source.Span, d FuncDeclData) NodeID {
	return b.add(KindFuncDecl, sp, b.f.funcDecls.Allocate(d), append(append([]NodeID(nil), d.Params...), d.Return))
}

func (b *Builder) VarDecl(sp source.Span, d VarDeclData) NodeID {
	return b.add(KindVarDecl, sp, b.f.varDecls.Allocate(d), []NodeID{d.Type})
}

func (b *Builder) InitDecl(sp source.Span, d InitDeclData) NodeID {
	return b.add(KindInitDecl, sp, b.f.initDecls.Allocate(d), d.Params)
}

func (b *Builder) Param(sp source.Span, d ParamData) NodeID {
	return b.add(KindParam, sp, b.f.params.Allocate(d), []NodeID{d.Type})
}

func (b *Builder) TypeAlias(sp source.Span, d TypeAliasData) NodeID {
	return b.add(KindTypeAlias, sp, b.f.typeAlias.Allocate(d), []NodeID{d.Type})
}

// Name creates a TypeIdent, or a GenericType when d.Args is not empty.
func (b *Builder) Name(sp source.Span, d NameData) NodeID {
	kind := KindTypeIdent
	if len(d.Args) > 0 {
		kind = KindGenericType
	}
	return b.add(kind, sp, b.f.names.Allocate(d), d.Args)
}

func (b *Builder) Array(sp source.Span, elem NodeID) NodeID {
	return b.add(KindArrayType, sp, b.f.arrays.Allocate(ArrayData{Elem: elem}), []NodeID{elem})
}

func (b *Builder) Dict(sp source.Span, key, value NodeID) NodeID {
	return b.add(KindDictType, sp, b.f.dicts.Allocate(DictData{Key: key, Value: value}), []NodeID{key, value})
}

func (b *Builder) Optional(sp source.Span, wrapped NodeID, iuo bool) NodeID {
	return b.add(KindOptionalType, sp, b.f.optionals.Allocate(OptionalData{Wrapped: wrapped, IUO: iuo}), []NodeID{wrapped})
}

func (b *Builder) FuncType(sp source.Span, d FuncTypeData) NodeID {
	return b.add(KindFuncType, sp, b.f.funcTypes.Allocate(d), append(append([]NodeID(nil), d.Params...), d.Return))
}

func (b *Builder) Tuple(sp source.Span, d TupleData) NodeID {
	return b.add(KindTupleType, sp, b.f.tuples.Allocate(d), d.Elems)
}
