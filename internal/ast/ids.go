package ast

// NodeID indexes a node inside its File. NoNodeID marks an absent node.
type NodeID uint32

const (
	NoNodeID NodeID = 0
	// RootID is the File node itself.
	RootID NodeID = 1
)

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Kind identifies the variant of a node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFile
	KindTypeDecl
	KindInheritedType
	KindFuncDecl
	KindVarDecl
	KindInitDecl
	KindParam
	KindTypeAlias
	KindTypeIdent
	KindGenericType
	KindArrayType
	KindDictType
	KindOptionalType
	KindFuncType
	KindTupleType
)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindFile:          "File",
	KindTypeDecl:      "TypeDecl",
	KindInheritedType: "InheritedType",
	KindFuncDecl:      "FuncDecl",
	KindVarDecl:       "VarDecl",
	KindInitDecl:      "InitDecl",
	KindParam:         "Param",
	KindTypeAlias:     "TypeAlias",
	KindTypeIdent:     "TypeIdent",
	KindGenericType:   "GenericType",
	KindArrayType:     "ArrayType",
	KindDictType:      "DictType",
	KindOptionalType:  "OptionalType",
	KindFuncType:      "FuncType",
	KindTupleType:     "TupleType",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsType reports whether nodes of this kind are type expressions.
func (k Kind) IsType() bool {
	return k >= KindTypeIdent && k <= KindTupleType
}

// IsDecl reports whether nodes of this kind are declarations.
func (k Kind) IsDecl() bool {
	switch k {
	case KindTypeDecl, KindFuncDecl, KindVarDecl, KindInitDecl, KindTypeAlias:
		return true
	default:
		return false
	}
}

// DeclKind is the keyword that introduced a type declaration.
type DeclKind uint8

const (
	DeclProtocol DeclKind = iota
	DeclClass
	DeclStruct
	DeclEnum
	DeclExtension
	DeclActor
)

var declKindNames = [...]string{
	DeclProtocol:  "protocol",
	DeclClass:     "class",
	DeclStruct:    "struct",
	DeclEnum:      "enum",
	DeclExtension: "extension",
	DeclActor:     "actor",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "decl(?)"
}
