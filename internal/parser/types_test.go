package parser_test

import (
	"slices"
	"testing"

	"mimic/internal/ast"
)

func TestTypeExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"Int", "Int"},
		{"Swift.Int", "Swift.Int"},
		{"[String]", "[String]"},
		{"[String: [Int]]", "[String: [Int]]"},
		{"Int?", "Int?"},
		{"Int!", "Int!"},
		{"Int??", "Int??"},
		{"Array<Set<Int>>?", "Array<Set<Int>>?"},
		{"Dictionary<String, Int>", "Dictionary<String, Int>"},
		{"(Int, label: String)", "(Int, label: String)"},
		{"()", "()"},
		{"(Int)", "Int"},
		{"(Int, String) throws -> Bool", "(Int, String) throws -> Bool"},
		{"() -> Void", "() -> Void"},
		{"() async throws -> Int", "() async throws -> Int"},
		{"(_ x: Int, y: String) -> Void", "(Int, String) -> Void"},
		{"(() -> Void)?", "(() -> Void)?"},
		{"@escaping (Int) -> Void", "(Int) -> Void"},
		{"@Sendable @escaping () -> Void", "() -> Void"},
		{"some Collection", "Collection"},
		{"any Error", "Error"},
		{"Outer<T>.Inner", "Outer.Inner"},
		{"[Int].Type", "[Int]"},
		{"A & B", "A"},
		{"Result<[Key: Value], Error>", "Result<[Key: Value], Error>"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v := onlyVar(t, "var a: "+tt.src)
			if got := describe(v.Type()); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTypeRanges(t *testing.T) {
	// var a: Array<Set<Int>>?
	// 0      7     13  17
	v := onlyVar(t, "var a: Array<Set<Int>>?")
	got := shape(v.Node, 0)
	want := []string{
		"VarDecl@0+23",
		"OptionalType@7+16",
		"GenericType@7+15",
		"GenericType@13+8",
		"TypeIdent@17+3",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("shape\n got %v\nwant %v", got, want)
	}
}

func TestTypeRangesWithUnicode(t *testing.T) {
	// 💐 занимает две UTF-16 единицы
	v := onlyVar(t, "var 💐: [P💐C: Int]")
	dict, ok := v.Type().(ast.DictType)
	if !ok {
		t.Fatalf("type is %T", v.Type())
	}
	if dict.Offset() != 8 || dict.Length() != 11 {
		t.Errorf("dict range %d+%d, want 8+11", dict.Offset(), dict.Length())
	}
	key := dict.Key().(ast.TypeIdent)
	if key.Name() != "P💐C" || key.Offset() != 9 || key.Length() != 4 {
		t.Errorf("key %q at %d+%d", key.Name(), key.Offset(), key.Length())
	}
	if v.Name() != "💐" || v.Length() != 19 {
		t.Errorf("property %q length %d", v.Name(), v.Length())
	}
}

func TestQualifiedTypeSegments(t *testing.T) {
	v := onlyVar(t, "var a: Foundation.Data")
	id, ok := v.Type().(ast.TypeIdent)
	if !ok {
		t.Fatalf("type is %T", v.Type())
	}
	if !slices.Equal(id.Segments(), []string{"Foundation", "Data"}) {
		t.Errorf("segments %v", id.Segments())
	}

	g := onlyVar(t, "var a: Swift.Array<Int>").Type().(ast.GenericType)
	if !slices.Equal(g.Segments(), []string{"Swift", "Array"}) || len(g.Args()) != 1 {
		t.Errorf("generic segments %v args %d", g.Segments(), len(g.Args()))
	}
}

func TestTupleLabels(t *testing.T) {
	tup := onlyVar(t, "var a: (x: Int, String, y: [Int])").Type().(ast.TupleType)
	elems := tup.Elems()
	labels := make([]string, len(elems))
	for i, e := range elems {
		labels[i] = e.Label
	}
	if !slices.Equal(labels, []string{"x", "", "y"}) {
		t.Errorf("labels %q", labels)
	}
	if describe(elems[2].Type) != "[Int]" {
		t.Errorf("third element %s", describe(elems[2].Type))
	}
}
