package semantic

import (
	"errors"
	"fmt"
)

// SchemaVersion changes whenever ModelWire or TypeWire change shape.
const SchemaVersion = 1

// TypeWire is the kind-tagged plain form of a Type for JSON output and the
// msgpack cache.
type TypeWire struct {
	Kind     string          `json:"kind" msgpack:"k"`
	Text     string          `json:"text" msgpack:"-"`
	Segments []string        `json:"segments,omitempty" msgpack:"s,omitempty"`
	Name     string          `json:"name,omitempty" msgpack:"n,omitempty"`
	Args     []TypeWire      `json:"args,omitempty" msgpack:"a,omitempty"`
	Elem     *TypeWire       `json:"elem,omitempty" msgpack:"e,omitempty"`
	Key      *TypeWire       `json:"key,omitempty" msgpack:"ky,omitempty"`
	Value    *TypeWire       `json:"value,omitempty" msgpack:"v,omitempty"`
	Wrapped  *TypeWire       `json:"wrapped,omitempty" msgpack:"w,omitempty"`
	IUO      bool            `json:"implicitlyUnwrapped,omitempty" msgpack:"iuo,omitempty"`
	Params   []TypeWire      `json:"params,omitempty" msgpack:"p,omitempty"`
	Return   *TypeWire       `json:"return,omitempty" msgpack:"r,omitempty"`
	Throws   bool            `json:"throws,omitempty" msgpack:"t,omitempty"`
	Async    bool            `json:"async,omitempty" msgpack:"as,omitempty"`
	Elems    []TupleElemWire `json:"elems,omitempty" msgpack:"el,omitempty"`
}

type TupleElemWire struct {
	Label string   `json:"label,omitempty" msgpack:"l,omitempty"`
	Type  TypeWire `json:"type" msgpack:"t"`
}

const (
	wireIdentifier = "identifier"
	wireGeneric    = "generic"
	wireArray      = "array"
	wireDictionary = "dictionary"
	wireOptional   = "optional"
	wireFunction   = "function"
	wireTuple      = "tuple"
)

// ErrBadWire reports a TypeWire that does not describe a Type.
var ErrBadWire = errors.New("malformed type wire")

// WireType converts t to its wire form. nil becomes None().
func WireType(t Type) TypeWire {
	if t == nil {
		t = None()
	}
	w := TypeWire{Text: t.String()}
	switch x := t.(type) {
	case Identifier:
		w.Kind, w.Segments = wireIdentifier, x.Segments
	case Generic:
		w.Kind, w.Name, w.Args = wireGeneric, x.Name, wireAll(x.Args)
	case Array:
		w.Kind, w.Elem = wireArray, wirePtr(x.Elem)
	case Dictionary:
		w.Kind, w.Key, w.Value = wireDictionary, wirePtr(x.Key), wirePtr(x.Value)
	case Optional:
		w.Kind, w.Wrapped, w.IUO = wireOptional, wirePtr(x.Wrapped), x.ImplicitlyUnwrapped
	case Function:
		w.Kind, w.Params, w.Return = wireFunction, wireAll(x.Params), wirePtr(x.Return)
		w.Throws, w.Async = x.Throws, x.Async
	case Tuple:
		w.Kind = wireTuple
		w.Elems = make([]TupleElemWire, len(x.Elems))
		for i, e := range x.Elems {
			w.Elems[i] = TupleElemWire{Label: e.Label, Type: WireType(e.Type)}
		}
	}
	return w
}

func wirePtr(t Type) *TypeWire {
	w := WireType(t)
	return &w
}

func wireAll(ts []Type) []TypeWire {
	if len(ts) == 0 {
		return nil
	}
	out := make([]TypeWire, len(ts))
	for i, t := range ts {
		out[i] = WireType(t)
	}
	return out
}

// Type converts w back. Text is ignored.
func (w TypeWire) Type() (Type, error) {
	switch w.Kind {
	case wireIdentifier:
		if len(w.Segments) == 0 {
			return None(), nil
		}
		return Identifier{Segments: w.Segments}, nil
	case wireGeneric:
		args, err := unwireAll(w.Args)
		return Generic{Name: w.Name, Args: args}, err
	case wireArray:
		elem, err := unwirePtr(w.Elem)
		return Array{Elem: elem}, err
	case wireDictionary:
		key, err := unwirePtr(w.Key)
		if err != nil {
			return nil, err
		}
		val, err := unwirePtr(w.Value)
		return Dictionary{Key: key, Value: val}, err
	case wireOptional:
		wrapped, err := unwirePtr(w.Wrapped)
		return Optional{Wrapped: wrapped, ImplicitlyUnwrapped: w.IUO}, err
	case wireFunction:
		params, err := unwireAll(w.Params)
		if err != nil {
			return nil, err
		}
		ret, err := unwirePtr(w.Return)
		return Function{Params: params, Return: ret, Throws: w.Throws, Async: w.Async}, err
	case wireTuple:
		tup := Tuple{Elems: make([]TupleElem, len(w.Elems))}
		for i, e := range w.Elems {
			t, err := e.Type.Type()
			if err != nil {
				return nil, err
			}
			tup.Elems[i] = TupleElem{Label: e.Label, Type: t}
		}
		return tup, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrBadWire, w.Kind)
	}
}

func unwirePtr(w *TypeWire) (Type, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: missing nested type", ErrBadWire)
	}
	return w.Type()
}

func unwireAll(ws []TypeWire) ([]Type, error) {
	out := make([]Type, len(ws))
	for i, w := range ws {
		t, err := w.Type()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

type ResolvedWire struct {
	Original TypeWire `json:"original" msgpack:"o"`
	Resolved TypeWire `json:"resolved" msgpack:"r"`
}

type ParameterWire struct {
	ExternalName    string       `json:"externalName,omitempty" msgpack:"ext,omitempty"`
	HasExternalName bool         `json:"hasExternalName" msgpack:"hext"`
	InternalName    string       `json:"internalName" msgpack:"int"`
	Type            ResolvedWire `json:"type" msgpack:"type"`
	Text            string       `json:"text" msgpack:"text"`
	IsEscaping      bool         `json:"isEscaping,omitempty" msgpack:"esc,omitempty"`
	IsInout         bool         `json:"isInout,omitempty" msgpack:"inout,omitempty"`
	IsVariadic      bool         `json:"isVariadic,omitempty" msgpack:"var,omitempty"`
	HasDefault      bool         `json:"hasDefault,omitempty" msgpack:"def,omitempty"`
}

type InitializerWire struct {
	Params                []ParameterWire `json:"params" msgpack:"params"`
	IsFailable            bool            `json:"isFailable,omitempty" msgpack:"fail,omitempty"`
	IsImplicitlyUnwrapped bool            `json:"isImplicitlyUnwrapped,omitempty" msgpack:"iuo,omitempty"`
	Throws                bool            `json:"throws,omitempty" msgpack:"throws,omitempty"`
	IsAsync               bool            `json:"isAsync,omitempty" msgpack:"async,omitempty"`
	Text                  string          `json:"text" msgpack:"text"`
}

type PropertyWire struct {
	Name       string   `json:"name" msgpack:"name"`
	Type       TypeWire `json:"type" msgpack:"type"`
	IsWritable bool     `json:"isWritable" msgpack:"w"`
	IsStatic   bool     `json:"isStatic,omitempty" msgpack:"static,omitempty"`
	Text       string   `json:"text" msgpack:"text"`
}

type MethodWire struct {
	Name          string          `json:"name" msgpack:"name"`
	GenericParams []string        `json:"genericParams,omitempty" msgpack:"gen,omitempty"`
	Params        []ParameterWire `json:"params" msgpack:"params"`
	Return        ResolvedWire    `json:"return" msgpack:"ret"`
	Throws        bool            `json:"throws,omitempty" msgpack:"throws,omitempty"`
	IsAsync       bool            `json:"isAsync,omitempty" msgpack:"async,omitempty"`
	IsStatic      bool            `json:"isStatic,omitempty" msgpack:"static,omitempty"`
	Text          string          `json:"text" msgpack:"text"`
}

// ModelWire is the serializable form of Model.
type ModelWire struct {
	Name         string            `json:"name" msgpack:"name"`
	Kind         string            `json:"kind" msgpack:"kind"`
	Type         TypeWire          `json:"type" msgpack:"type"`
	Inherited    []string          `json:"inherited,omitempty" msgpack:"inh,omitempty"`
	Initializers []InitializerWire `json:"initializers" msgpack:"inits"`
	Properties   []PropertyWire    `json:"properties" msgpack:"props"`
	Methods      []MethodWire      `json:"methods" msgpack:"methods"`
}

func wireResolved(r ResolvedType) ResolvedWire {
	return ResolvedWire{Original: WireType(r.Original), Resolved: WireType(r.Resolved)}
}

func wireParams(ps []Parameter) []ParameterWire {
	out := make([]ParameterWire, len(ps))
	for i, p := range ps {
		out[i] = ParameterWire{
			ExternalName:    p.ExternalName,
			HasExternalName: p.HasExternalName,
			InternalName:    p.InternalName,
			Type:            wireResolved(p.Type),
			Text:            p.Text,
			IsEscaping:      p.IsEscaping,
			IsInout:         p.IsInout,
			IsVariadic:      p.IsVariadic,
			HasDefault:      p.HasDefault,
		}
	}
	return out
}

// Wire converts m to its serializable form.
func (m *Model) Wire() ModelWire {
	w := ModelWire{
		Name:         m.Name,
		Kind:         m.Kind,
		Type:         WireType(m.Type),
		Inherited:    m.Inherited,
		Initializers: make([]InitializerWire, len(m.Initializers)),
		Properties:   make([]PropertyWire, len(m.Properties)),
		Methods:      make([]MethodWire, len(m.Methods)),
	}
	for i, in := range m.Initializers {
		w.Initializers[i] = InitializerWire{
			Params:                wireParams(in.Params),
			IsFailable:            in.IsFailable,
			IsImplicitlyUnwrapped: in.IsImplicitlyUnwrapped,
			Throws:                in.Throws,
			IsAsync:               in.IsAsync,
			Text:                  in.Text,
		}
	}
	for i, p := range m.Properties {
		w.Properties[i] = PropertyWire{
			Name: p.Name, Type: WireType(p.Type), IsWritable: p.IsWritable, IsStatic: p.IsStatic, Text: p.Text,
		}
	}
	for i, fn := range m.Methods {
		w.Methods[i] = MethodWire{
			Name:          fn.Name,
			GenericParams: fn.GenericParams,
			Params:        wireParams(fn.Params),
			Return:        wireResolved(fn.Return),
			Throws:        fn.Throws,
			IsAsync:       fn.IsAsync,
			IsStatic:      fn.IsStatic,
			Text:          fn.Text,
		}
	}
	return w
}

func (r ResolvedWire) resolved() (ResolvedType, error) {
	orig, err := r.Original.Type()
	if err != nil {
		return ResolvedType{}, err
	}
	res, err := r.Resolved.Type()
	return ResolvedType{Original: orig, Resolved: res}, err
}

func unwireParams(ws []ParameterWire) ([]Parameter, error) {
	out := make([]Parameter, len(ws))
	for i, w := range ws {
		rt, err := w.Type.resolved()
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", w.InternalName, err)
		}
		out[i] = Parameter{
			ExternalName:    w.ExternalName,
			HasExternalName: w.HasExternalName,
			InternalName:    w.InternalName,
			Type:            rt,
			Text:            w.Text,
			IsEscaping:      w.IsEscaping,
			IsInout:         w.IsInout,
			IsVariadic:      w.IsVariadic,
			HasDefault:      w.HasDefault,
		}
	}
	return out, nil
}

// Model converts w back into a Model.
func (w ModelWire) Model() (*Model, error) {
	ty, err := w.Type.Type()
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", w.Name, err)
	}
	m := &Model{Name: w.Name, Kind: w.Kind, Type: ty, Inherited: w.Inherited}
	for _, in := range w.Initializers {
		params, err := unwireParams(in.Params)
		if err != nil {
			return nil, fmt.Errorf("model %s: init: %w", w.Name, err)
		}
		m.Initializers = append(m.Initializers, Initializer{
			Params:                params,
			IsFailable:            in.IsFailable,
			IsImplicitlyUnwrapped: in.IsImplicitlyUnwrapped,
			Throws:                in.Throws,
			IsAsync:               in.IsAsync,
			Text:                  in.Text,
		})
	}
	for _, p := range w.Properties {
		t, err := p.Type.Type()
		if err != nil {
			return nil, fmt.Errorf("model %s: property %s: %w", w.Name, p.Name, err)
		}
		m.Properties = append(m.Properties, Property{
			Name: p.Name, Type: t, IsWritable: p.IsWritable, IsStatic: p.IsStatic, Text: p.Text,
		})
	}
	for _, fn := range w.Methods {
		params, err := unwireParams(fn.Params)
		if err != nil {
			return nil, fmt.Errorf("model %s: method %s: %w", w.Name, fn.Name, err)
		}
		ret, err := fn.Return.resolved()
		if err != nil {
			return nil, fmt.Errorf("model %s: method %s: %w", w.Name, fn.Name, err)
		}
		m.Methods = append(m.Methods, Method{
			Name:          fn.Name,
			GenericParams: fn.GenericParams,
			Params:        params,
			Return:        ret,
			Throws:        fn.Throws,
			IsAsync:       fn.IsAsync,
			IsStatic:      fn.IsStatic,
			Text:          fn.Text,
		})
	}
	return m, nil
}
