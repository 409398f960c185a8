package semantic

// ResolvedType pairs a type as written with its resolved form. When nothing
// was substituted the two are structurally equal.
type ResolvedType struct {
	Original Type
	Resolved Type
}

type Parameter struct {
	ExternalName    string
	HasExternalName bool
	InternalName    string
	Type            ResolvedType
	Text            string
	IsEscaping      bool
	IsInout         bool
	IsVariadic      bool
	HasDefault      bool
}

type Initializer struct {
	Params                []Parameter
	IsFailable            bool
	IsImplicitlyUnwrapped bool
	Throws                bool
	IsAsync               bool
	Text                  string
}

type Property struct {
	Name       string
	Type       Type // None() when the declaration has no annotation
	IsWritable bool
	IsStatic   bool
	Text       string
}

type Method struct {
	Name          string
	GenericParams []string
	Params        []Parameter
	Return        ResolvedType // None() on both sides when absent
	Throws        bool
	IsAsync       bool
	IsStatic      bool
	Text          string
}

// Model is the flattened member list of one type declaration, in document order.
type Model struct {
	Name         string // dotted, enclosing types first
	Kind         string // protocol, class, struct, enum, extension, actor
	Type         Type
	Inherited    []string // "" marks a missing entry
	Initializers []Initializer
	Properties   []Property
	Methods      []Method
}
