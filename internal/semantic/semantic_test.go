package semantic_test

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/parser"
	"mimic/internal/semantic"
)

func parseFile(t *testing.T, src string) *ast.File {
	t.Helper()
	res := parser.ParseSource("test.swift", src, parser.Options{})
	require.NotNil(t, res.File)
	return res.File
}

// typeDecl returns the type declaration with the given dotted name.
func typeDecl(t *testing.T, f *ast.File, name string) ast.TypeDecl {
	t.Helper()
	var found ast.TypeDecl
	ast.Inspect(f.Node(), func(n ast.Node) bool {
		if td, ok := n.AsTypeDecl(); ok && qualified(td) == name {
			found = td
			return false
		}
		return true
	})
	require.True(t, found.Valid(), "type %s not found", name)
	return found
}

func qualified(td ast.TypeDecl) string {
	switch ty := semantic.TypeOf(td).(type) {
	case semantic.Generic:
		return ty.Name
	default:
		return ty.String()
	}
}

func varType(t *testing.T, typeText string) ast.Type {
	t.Helper()
	ty, err := semantic.ParseType(typeText)
	require.NoError(t, err)
	return ty
}

func TestConvert(t *testing.T) {
	tests := []struct {
		src  string
		want semantic.Type
	}{
		{"Int", semantic.Ident("Int")},
		{"Swift.Int", semantic.Identifier{Segments: []string{"Swift", "Int"}}},
		{"[String]", semantic.Array{Elem: semantic.Ident("String")}},
		{"[String: [Int]]", semantic.Dictionary{
			Key:   semantic.Ident("String"),
			Value: semantic.Array{Elem: semantic.Ident("Int")},
		}},
		{"Int!", semantic.Optional{Wrapped: semantic.Ident("Int"), ImplicitlyUnwrapped: true}},
		{"Set<Int>?", semantic.Optional{Wrapped: semantic.Generic{Name: "Set", Args: []semantic.Type{semantic.Ident("Int")}}}},
		{"(Int, String) throws -> Bool", semantic.Function{
			Params: []semantic.Type{semantic.Ident("Int"), semantic.Ident("String")},
			Return: semantic.Ident("Bool"),
			Throws: true,
		}},
		{"(a: Int, String)", semantic.Tuple{Elems: []semantic.TupleElem{
			{Label: "a", Type: semantic.Ident("Int")},
			{Type: semantic.Ident("String")},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := semantic.Convert(varType(t, tt.src))
			assert.True(t, semantic.Equal(tt.want, got), "got %s, want %s", got, tt.want)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestConvertNil(t *testing.T) {
	assert.True(t, semantic.IsNone(semantic.Convert(nil)))
	assert.Equal(t, "", semantic.Convert(nil).String())
}

func TestTypeStrings(t *testing.T) {
	fn := semantic.Function{Return: semantic.Ident("Void"), Async: true}
	assert.Equal(t, "() async -> Void", fn.String())
	assert.Equal(t, "(() async -> Void)?", semantic.Optional{Wrapped: fn}.String())
	assert.Equal(t, "()", semantic.Tuple{}.String())
}

const nestedSample = `class A {
    class B: C, D {
        func innerMethodA() {}
        var propertyB = 0
    }

    func methodA() {}
    var propertyA: Int?
}`

func methodNames(m *semantic.Model) []string {
	var out []string
	for _, fn := range m.Methods {
		out = append(out, fn.Name)
	}
	return out
}

func propertyNames(m *semantic.Model) []string {
	var out []string
	for _, p := range m.Properties {
		out = append(out, p.Name)
	}
	return out
}

func TestExtractPrunesNestedTypesByDefault(t *testing.T) {
	f := parseFile(t, nestedSample)
	m := semantic.Extract(f.TypeDecls()[0], nil)

	assert.Equal(t, "A", m.Name)
	assert.Equal(t, "class", m.Kind)
	assert.Equal(t, []string{"methodA"}, methodNames(m))
	assert.Equal(t, []string{"propertyA"}, propertyNames(m))
	assert.Equal(t, "Int?", m.Properties[0].Type.String())
}

func TestExtractWithNestedTypes(t *testing.T) {
	f := parseFile(t, nestedSample)
	m := semantic.Extract(f.TypeDecls()[0], nil, semantic.WithNestedTypes())

	assert.Equal(t, []string{"innerMethodA", "methodA"}, methodNames(m))
	assert.Equal(t, []string{"propertyB", "propertyA"}, propertyNames(m))
	assert.Equal(t, "A", m.Type.String(), "root identity comes from the root declaration")
}

func TestExtractNestedRootIdentity(t *testing.T) {
	f := parseFile(t, `class Outer {
    struct Inner<T, U>: Codable {
        var value: T
    }
}`)
	m := semantic.Extract(typeDecl(t, f, "Outer.Inner"), nil)

	assert.Equal(t, "Outer.Inner", m.Name)
	assert.Equal(t, semantic.Generic{
		Name: "Outer.Inner",
		Args: []semantic.Type{semantic.Ident("T"), semantic.Ident("U")},
	}, m.Type)
	assert.Equal(t, []string{"Codable"}, m.Inherited)
	assert.Equal(t, []string{"value"}, propertyNames(m))
}

func TestExtractMembers(t *testing.T) {
	f := parseFile(t, `protocol Service {
    init?(name: String) throws
    init!(_ id: Int)
    var name: String { get }
    var delegate: Delegate? { get set }
    static var shared: Self { get }
    func fetch(_ id: Int, completion: @escaping (Result<Data, Error>) -> Void)
    func reset() async
    func items<T>(of kind: T.Type) rethrows -> [T]
}`)
	m := semantic.Extract(f.TypeDecls()[0], semantic.NopResolver{})

	require.Len(t, m.Initializers, 2)
	assert.True(t, m.Initializers[0].IsFailable)
	assert.True(t, m.Initializers[0].Throws)
	assert.Equal(t, "name", m.Initializers[0].Params[0].ExternalName)
	assert.True(t, m.Initializers[1].IsImplicitlyUnwrapped)
	assert.False(t, m.Initializers[1].Params[0].HasExternalName)

	require.Len(t, m.Properties, 3)
	assert.False(t, m.Properties[0].IsWritable)
	assert.True(t, m.Properties[1].IsWritable)
	assert.True(t, m.Properties[2].IsStatic)

	require.Len(t, m.Methods, 3)
	fetch := m.Methods[0]
	require.Len(t, fetch.Params, 2)
	assert.False(t, fetch.Params[0].IsEscaping)
	assert.True(t, fetch.Params[1].IsEscaping)
	assert.Equal(t, "completion: @escaping (Result<Data, Error>) -> Void", fetch.Params[1].Text)
	assert.Equal(t, "(Result<Data, Error>) -> Void", fetch.Params[1].Type.Original.String())
	assert.True(t, semantic.IsNone(fetch.Return.Original), "no return clause")
	assert.True(t, semantic.IsNone(fetch.Return.Resolved))

	assert.True(t, m.Methods[1].IsAsync)
	items := m.Methods[2]
	assert.Equal(t, []string{"T"}, items.GenericParams)
	assert.True(t, items.Throws)
	assert.Equal(t, "[T]", items.Return.Original.String())
	assert.Equal(t, "func items<T>(of kind: T.Type) rethrows -> [T]", items.Text)
}

func TestPropertyWithoutAnnotation(t *testing.T) {
	f := parseFile(t, "struct S { var a = 0 }")
	m := semantic.Extract(f.TypeDecls()[0], nil)
	require.Len(t, m.Properties, 1)
	assert.True(t, semantic.IsNone(m.Properties[0].Type))
}

func TestResolutionPassThrough(t *testing.T) {
	f := parseFile(t, "protocol P { func f(a: [String: Int?], b: (Int) -> Void) -> Set<Int> }")
	m := semantic.Extract(f.TypeDecls()[0], semantic.NopResolver{})
	fn := m.Methods[0]
	for _, p := range fn.Params {
		assert.True(t, semantic.Equal(p.Type.Original, p.Type.Resolved), "param %s", p.InternalName)
	}
	assert.True(t, semantic.Equal(fn.Return.Original, fn.Return.Resolved))
}

func TestResolutionIsDeep(t *testing.T) {
	element := varType(t, "Int")
	r := semantic.ResolverFunc(func(ty ast.Type) (ast.Type, bool) {
		if id, ok := ty.(ast.TypeIdent); ok && id.Name() == "Element" {
			return element, true
		}
		return nil, false
	})
	f := parseFile(t, "protocol P { func f(a: [Element: [Element]]?, b: Element) -> (Element) -> Set<Element> }")
	m := semantic.Extract(f.TypeDecls()[0], r)
	fn := m.Methods[0]

	assert.Equal(t, "[Element: [Element]]?", fn.Params[0].Type.Original.String())
	assert.Equal(t, "[Int: [Int]]?", fn.Params[0].Type.Resolved.String())
	assert.Equal(t, "Int", fn.Params[1].Type.Resolved.String())
	assert.Equal(t, "(Element) -> Set<Element>", fn.Return.Original.String())
	assert.Equal(t, "(Int) -> Set<Int>", fn.Return.Resolved.String())
}

func TestResolutionStopsAtTypeOnPath(t *testing.T) {
	// T -> [T] never terminates on its own
	r := semantic.ResolverFunc(func(ty ast.Type) (ast.Type, bool) {
		if id, ok := ty.(ast.TypeIdent); ok && id.Name() == "T" {
			return varType(t, "[T]"), true
		}
		return nil, false
	})
	assert.Equal(t, "[T]", semantic.ConvertResolved(varType(t, "T"), r).String())
}

func TestResolutionFanOutTerminates(t *testing.T) {
	subs := map[string]string{"T": "(T, T, T, U)", "U": "[T: T]"}
	r := semantic.ResolverFunc(func(ty ast.Type) (ast.Type, bool) {
		if id, ok := ty.(ast.TypeIdent); ok {
			if text, ok := subs[id.Name()]; ok {
				return varType(t, text), true
			}
		}
		return nil, false
	})
	f := parseFile(t, "protocol P { func f(a: T) -> U }")

	done := make(chan *semantic.Model, 1)
	go func() { done <- semantic.Extract(f.TypeDecls()[0], r) }()
	select {
	case m := <-done:
		fn := m.Methods[0]
		assert.Equal(t, "(T, T, T, [T: T])", fn.Params[0].Type.Resolved.String())
		assert.Equal(t, "[(T, T, T, U): (T, T, T, U)]", fn.Return.Resolved.String())
	case <-time.After(5 * time.Second):
		t.Fatal("extraction did not finish")
	}
}

func TestResolutionDepthGuard(t *testing.T) {
	// T0 -> T1 -> T2 -> ...: every step is a new name
	r := semantic.ResolverFunc(func(ty ast.Type) (ast.Type, bool) {
		id, ok := ty.(ast.TypeIdent)
		if !ok {
			return nil, false
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id.Name(), "T"))
		if err != nil {
			return nil, false
		}
		return varType(t, "T"+strconv.Itoa(n+1)), true
	})
	assert.Equal(t, "T16", semantic.ConvertResolved(varType(t, "T0"), r).String())
}

func TestBindRejectsSelfReference(t *testing.T) {
	bindings := semantic.GenericBindings{}
	for _, text := range []string{"(T, T, T, T)", "[T]", "Box<T>"} {
		err := bindings.Bind("T", text)
		assert.ErrorIs(t, err, semantic.ErrSelfBinding, "%q", text)
	}
	assert.Empty(t, bindings)
	require.NoError(t, bindings.Bind("T", "[U]"))
}

func TestAliasTable(t *testing.T) {
	bag := diag.NewBag(16)
	table := semantic.NewAliasTable(diag.BagReporter{Bag: bag})
	f := parseFile(t, `typealias Handler = (Payload) -> Void
typealias Payload = [String: Value]
typealias Pair<T> = (T, T)

class Box {
    typealias ID = UUID
    func open(id: ID, pair: Pair<Int>, handler: Handler)
}`)
	assert.Equal(t, 5, table.AddFile(f))
	assert.Equal(t, []string{"Box.ID", "Handler", "ID", "Pair", "Payload"}, table.Names())
	assert.Zero(t, bag.Len(), "unexpected diagnostics")

	m := semantic.Extract(typeDecl(t, f, "Box"), table)
	params := m.Methods[0].Params
	assert.Equal(t, "UUID", params[0].Type.Resolved.String())
	assert.Equal(t, "Pair<Int>", params[1].Type.Resolved.String(), "generic aliases are not substituted")
	assert.Equal(t, "([String: Value]) -> Void", params[2].Type.Resolved.String())
	assert.Equal(t, "Handler", params[2].Type.Original.String())
}

func TestAliasCyclesAreRejected(t *testing.T) {
	bag := diag.NewBag(16)
	table := semantic.NewAliasTable(diag.BagReporter{Bag: bag})
	f := parseFile(t, `typealias A = [B]
typealias B = A
typealias Loop = (Loop) -> Void`)

	assert.Equal(t, 1, table.AddFile(f))
	assert.Equal(t, []string{"A"}, table.Names())
	require.Equal(t, 2, bag.Len())
	for _, d := range bag.Items() {
		assert.Equal(t, diag.SemAliasCycle, d.Code)
		assert.Equal(t, diag.SevWarning, d.Severity)
	}

	// A остаётся, B не подставляется
	assert.Equal(t, "[B]", semantic.ConvertResolved(varType(t, "A"), table).String())
}

func TestAliasDuplicatesAndText(t *testing.T) {
	bag := diag.NewBag(16)
	table := semantic.NewAliasTable(diag.BagReporter{Bag: bag})
	require.NoError(t, table.AddText("Token", "String"))

	err := table.AddText("Token", "Int")
	require.ErrorIs(t, err, semantic.ErrAliasRejected)
	assert.Equal(t, diag.SemAliasDuplicate, bag.Items()[0].Code)

	require.Error(t, table.AddText("Broken", "[Int"))
	assert.Equal(t, 1, table.Len())

	digest := table.Digest()
	require.NoError(t, table.AddText("Other", "Int"))
	assert.NotEqual(t, digest, table.Digest())
}

func TestAliasNamesAreNFCNormalized(t *testing.T) {
	table := semantic.NewAliasTable(nil)
	require.NoError(t, table.AddText("Caf\u00e9", "String")) // составной символ

	resolved := semantic.ConvertResolved(varType(t, "Cafe\u0301"), table) // e + комбинирующий акцент
	assert.Equal(t, "String", resolved.String())
}

func TestChainAndGenericBindings(t *testing.T) {
	bindings := semantic.GenericBindings{}
	require.NoError(t, bindings.Bind("T", "Int"))
	require.Error(t, bindings.Bind("U", "(Int"))

	aliases := semantic.NewAliasTable(nil)
	require.NoError(t, aliases.AddText("Name", "String"))

	r := semantic.Chain(nil, bindings, aliases)
	got := semantic.ConvertResolved(varType(t, "[T: Name]"), r)
	assert.Equal(t, "[Int: String]", got.String())

	// многосегментные имена не считаются плейсхолдерами
	got = semantic.ConvertResolved(varType(t, "Outer.T"), bindings)
	assert.Equal(t, "Outer.T", got.String())
}

func TestParseTypeRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "[Int", "(Int, ", "[String: ]"} {
		_, err := semantic.ParseType(text)
		assert.Error(t, err, "%q", text)
	}
}

func TestConcurrentExtraction(t *testing.T) {
	f := parseFile(t, nestedSample)
	decl := f.TypeDecls()[0]
	table := semantic.NewAliasTable(nil)
	require.NoError(t, table.AddText("Int", "Swift.Int"))

	var wg sync.WaitGroup
	models := make([]*semantic.Model, 8)
	for i := range models {
		wg.Add(1)
		go func() {
			defer wg.Done()
			models[i] = semantic.Extract(decl, table, semantic.WithNestedTypes())
		}()
	}
	wg.Wait()
	for _, m := range models[1:] {
		assert.Equal(t, models[0], m)
	}
}

func TestWireRoundTrip(t *testing.T) {
	f := parseFile(t, `protocol Store {
    init(seed: [String: Int]...)
    var items: [(key: String, value: Int?)] { get }
    func load(_ key: String, then done: @escaping (Data!) throws -> Void) async throws -> Data?
}`)
	aliases := semantic.NewAliasTable(nil)
	require.NoError(t, aliases.AddText("Data", "[UInt8]"))
	m := semantic.Extract(f.TypeDecls()[0], aliases)

	data, err := json.Marshal(m.Wire())
	require.NoError(t, err)
	var w semantic.ModelWire
	require.NoError(t, json.Unmarshal(data, &w))
	back, err := w.Model()
	require.NoError(t, err)

	again, err := json.Marshal(back.Wire())
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
	assert.Equal(t, "[UInt8]?", back.Methods[0].Return.Resolved.String())
	assert.True(t, back.Initializers[0].Params[0].IsVariadic)
	assert.Contains(t, string(data), `"text":"[UInt8]?"`)
}

func TestWireRejectsUnknownKind(t *testing.T) {
	_, err := semantic.TypeWire{Kind: "pointer"}.Type()
	require.ErrorIs(t, err, semantic.ErrBadWire)

	_, err = semantic.TypeWire{Kind: "array"}.Type()
	require.ErrorIs(t, err, semantic.ErrBadWire)
}
