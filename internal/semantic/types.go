package semantic

import (
	"slices"
	"strings"
)

// Type is a semantic type value. Values are plain data: they do not point
// back into a syntax tree and compare structurally with Equal.
type Type interface {
	String() string
	isType()
}

// Identifier is a possibly dotted name without generic arguments.
type Identifier struct {
	Segments []string
}

// Generic is Name<Args...>; Name may be dotted.
type Generic struct {
	Name string
	Args []Type
}

type Array struct {
	Elem Type
}

type Dictionary struct {
	Key, Value Type
}

type Optional struct {
	Wrapped             Type
	ImplicitlyUnwrapped bool
}

type Function struct {
	Params []Type
	Return Type
	Throws bool
	Async  bool
}

type TupleElem struct {
	Label string // "" when unlabeled
	Type  Type
}

type Tuple struct {
	Elems []TupleElem
}

func (Identifier) isType() {}
func (Generic) isType()    {}
func (Array) isType()      {}
func (Dictionary) isType() {}
func (Optional) isType()   {}
func (Function) isType()   {}
func (Tuple) isType()      {}

// Ident builds an Identifier from a dotted name.
func Ident(name string) Identifier {
	return Identifier{Segments: strings.Split(name, ".")}
}

// None is the empty identifier that stands for an absent type, e.g. a
// function without a return clause.
func None() Identifier { return Identifier{Segments: []string{""}} }

// IsNone reports whether t is nil or the empty identifier.
func IsNone(t Type) bool {
	if t == nil {
		return true
	}
	id, ok := t.(Identifier)
	return ok && id.Name() == ""
}

// Name joins the segments with dots.
func (t Identifier) Name() string { return strings.Join(t.Segments, ".") }

func (t Identifier) String() string { return t.Name() }

func (t Generic) String() string { return t.Name + "<" + joinTypes(t.Args) + ">" }

func (t Array) String() string { return "[" + str(t.Elem) + "]" }

func (t Dictionary) String() string { return "[" + str(t.Key) + ": " + str(t.Value) + "]" }

func (t Optional) String() string {
	inner := str(t.Wrapped)
	if _, ok := t.Wrapped.(Function); ok {
		inner = "(" + inner + ")"
	}
	if t.ImplicitlyUnwrapped {
		return inner + "!"
	}
	return inner + "?"
}

func (t Function) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(joinTypes(t.Params))
	sb.WriteString(")")
	if t.Async {
		sb.WriteString(" async")
	}
	if t.Throws {
		sb.WriteString(" throws")
	}
	sb.WriteString(" -> ")
	sb.WriteString(str(t.Return))
	return sb.String()
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		if e.Label != "" {
			parts[i] = e.Label + ": " + str(e.Type)
		} else {
			parts[i] = str(e.Type)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func str(t Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = str(t)
	}
	return strings.Join(parts, ", ")
}

// Equal compares two types structurally. nil equals only nil.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Identifier:
		y, ok := b.(Identifier)
		return ok && slices.Equal(x.Segments, y.Segments)
	case Generic:
		y, ok := b.(Generic)
		return ok && x.Name == y.Name && equalAll(x.Args, y.Args)
	case Array:
		y, ok := b.(Array)
		return ok && Equal(x.Elem, y.Elem)
	case Dictionary:
		y, ok := b.(Dictionary)
		return ok && Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case Optional:
		y, ok := b.(Optional)
		return ok && x.ImplicitlyUnwrapped == y.ImplicitlyUnwrapped && Equal(x.Wrapped, y.Wrapped)
	case Function:
		y, ok := b.(Function)
		return ok && x.Throws == y.Throws && x.Async == y.Async &&
			equalAll(x.Params, y.Params) && Equal(x.Return, y.Return)
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if x.Elems[i].Label != y.Elems[i].Label || !Equal(x.Elems[i].Type, y.Elems[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

func equalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
