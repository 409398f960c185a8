package parser_test

import (
	"slices"
	"testing"

	"mimic/internal/ast"
	"mimic/internal/diag"
)

func TestTypeDeclRanges(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		declName   string
		length     uint32
		bodyOffset uint32
		bodyLength uint32
		hasBody    bool
	}{
		{"empty body", "protocol P {}", "P", 13, 12, 0, true},
		{"missing closing brace", "protocol A {", "A", 12, 12, 0, false},
		{"missing both braces", "protocol A", "A", 10, 10, 0, false},
		{"missing name", "protocol {}", "", 11, 10, 0, true},
		{"missing inherited type", "protocol A: {}", "A", 14, 13, 0, true},
		{"emoji name", "protocol 💐 {}", "💐", 14, 13, 0, true},
		{"body with member", "struct S { var a: Int }", "S", 23, 10, 12, true},
		{"generic class", "class Box<T> {}", "Box", 15, 14, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := onlyTypeDecl(t, tt.src)
			if td.Name() != tt.declName {
				t.Errorf("name %q, want %q", td.Name(), tt.declName)
			}
			if td.Offset() != 0 || td.Length() != tt.length {
				t.Errorf("decl range %d+%d, want 0+%d", td.Offset(), td.Length(), tt.length)
			}
			if td.BodyOffset() != tt.bodyOffset || td.BodyLength() != tt.bodyLength {
				t.Errorf("body %d+%d, want %d+%d", td.BodyOffset(), td.BodyLength(), tt.bodyOffset, tt.bodyLength)
			}
			if td.HasBody() != tt.hasBody {
				t.Errorf("HasBody %v, want %v", td.HasBody(), tt.hasBody)
			}
		})
	}
}

func TestTypeDeclKinds(t *testing.T) {
	f, bag := parse(t, `
protocol P {}
class C {}
struct S {}
enum E { case a, b }
extension Outer.Inner {}
actor Worker {}
final class F {}
`)
	want := []struct {
		name string
		kind ast.DeclKind
	}{
		{"P", ast.DeclProtocol},
		{"C", ast.DeclClass},
		{"S", ast.DeclStruct},
		{"E", ast.DeclEnum},
		{"Outer.Inner", ast.DeclExtension},
		{"Worker", ast.DeclActor},
		{"F", ast.DeclClass},
	}
	decls := f.TypeDecls()
	if len(decls) != len(want) {
		t.Fatalf("got %d decls, want %d (%s)", len(decls), len(want), diagnosticsSummary(bag))
	}
	for i, w := range want {
		if decls[i].Name() != w.name || decls[i].DeclKind() != w.kind {
			t.Errorf("decl %d: %s %q, want %s %q", i, decls[i].DeclKind(), decls[i].Name(), w.kind, w.name)
		}
	}
	if !slices.Equal(decls[6].Modifiers(), []string{"final"}) {
		t.Errorf("modifiers %v", decls[6].Modifiers())
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
}

func TestInheritanceClause(t *testing.T) {
	type entry struct {
		name           string
		offset, length uint32
	}
	tests := []struct {
		name string
		src  string
		want []entry
	}{
		{"single", "protocol A: B {}", []entry{{"B", 12, 1}}},
		{"class constraint and unicode", "protocol A: class, ProtocolB, P💐C {}", []entry{{"class", 12, 5}, {"ProtocolB", 19, 9}, {"P💐C", 30, 4}}},
		{"dotted names", "protocol A: Nested.Type, Deep.Nested.Type {}", []entry{{"Nested.Type", 12, 11}, {"Deep.Nested.Type", 25, 16}}},
		{"generic supertype", "class C: Base<Int>, P {}", []entry{{"Base<Int>", 9, 9}, {"P", 20, 1}}},
		{"composition", "protocol A: B & C {}", []entry{{"B & C", 12, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := onlyTypeDecl(t, tt.src)
			inh := td.Inherited()
			if len(inh) != len(tt.want) {
				t.Fatalf("got %d inherited types, want %d", len(inh), len(tt.want))
			}
			for i, w := range tt.want {
				it := inh[i]
				if it.IsError() {
					t.Fatalf("entry %d is the error marker", i)
				}
				if it.Name() != w.name || it.Offset() != w.offset || it.Length() != w.length {
					t.Errorf("entry %d: %q at %d+%d, want %q at %d+%d",
						i, it.Name(), it.Offset(), it.Length(), w.name, w.offset, w.length)
				}
			}
		})
	}
}

func TestInheritedTypeExpressions(t *testing.T) {
	td := onlyTypeDecl(t, "protocol A: class, Nested.Type, Base<Int> {}")
	inh := td.Inherited()
	if inh[0].Type() != nil {
		t.Errorf("class constraint has no type expression, got %s", describe(inh[0].Type()))
	}
	id, ok := inh[1].Type().(ast.TypeIdent)
	if !ok || !slices.Equal(id.Segments(), []string{"Nested", "Type"}) {
		t.Errorf("dotted supertype: %s", describe(inh[1].Type()))
	}
	if describe(inh[2].Type()) != "Base<Int>" {
		t.Errorf("generic supertype: %s", describe(inh[2].Type()))
	}
}

func TestInheritanceErrorMarker(t *testing.T) {
	t.Run("only entry", func(t *testing.T) {
		f, bag := parse(t, "protocol A: {}")
		inh := f.TypeDecls()[0].Inherited()
		if len(inh) != 1 || inh[0] != ast.ErrorInheritedType {
			t.Fatalf("expected exactly the error marker, got %v", inh)
		}
		if !hasCode(bag, diag.SynExpectInheritedType) {
			t.Errorf("expected a missing-inherited-type warning, got %s", diagnosticsSummary(bag))
		}
		for _, d := range bag.Items() {
			if d.Severity != diag.SevWarning {
				t.Errorf("recovery must only warn, got %s", d.Severity)
			}
		}
	})
	t.Run("after a comma", func(t *testing.T) {
		td := onlyTypeDecl(t, "protocol A: B, {}")
		inh := td.Inherited()
		if len(inh) != 2 || inh[0].Name() != "B" || !inh[1].IsError() {
			t.Fatalf("got %v", inh)
		}
	})
	t.Run("before a comma", func(t *testing.T) {
		src := "protocol A: , B { func f() }"
		td := onlyTypeDecl(t, src)
		inh := td.Inherited()
		if len(inh) != 2 || !inh[0].IsError() || inh[1].Name() != "B" {
			t.Fatalf("got %v", inh)
		}
		if !td.HasBody() || td.BodyLength() == 0 {
			t.Fatalf("body lost: offset %d length %d", td.BodyOffset(), td.BodyLength())
		}
		if n := len(td.FuncDecls()); n != 1 {
			t.Fatalf("expected one function, got %d", n)
		}
		_, bag := parse(t, src)
		if bag.Len() != 1 || !hasCode(bag, diag.SynExpectInheritedType) {
			t.Errorf("expected only the missing-inherited-type warning, got %s", diagnosticsSummary(bag))
		}
	})
	t.Run("junk in place of a name", func(t *testing.T) {
		td := onlyTypeDecl(t, "class A: 42, Base {}")
		inh := td.Inherited()
		if len(inh) != 2 || !inh[0].IsError() || inh[1].Name() != "Base" || !td.HasBody() {
			t.Fatalf("got %v, body %v", inh, td.HasBody())
		}
	})
}

func TestGenericParams(t *testing.T) {
	td := onlyTypeDecl(t, "struct Pair<Key: Hashable & Codable, Value> where Value: Equatable {}")
	if !slices.Equal(td.GenericParams(), []string{"Key", "Value"}) {
		t.Fatalf("generic params %v", td.GenericParams())
	}
	if c := td.Generics()[0].Constraint; c != "Hashable & Codable" {
		t.Errorf("constraint %q", c)
	}
	if !td.HasBody() {
		t.Error("where clause must not eat the body")
	}
}

func TestMissingBraceDiagnostics(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"protocol A {", diag.SynExpectRBrace},
		{"protocol A", diag.SynExpectLBrace},
		{"protocol {}", diag.SynExpectName},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, bag := parse(t, tt.src)
			if !hasCode(bag, tt.code) {
				t.Fatalf("expected %s, got %s", tt.code.ID(), diagnosticsSummary(bag))
			}
			if bag.HasErrors() {
				t.Fatalf("recovery must not produce errors: %s", diagnosticsSummary(bag))
			}
		})
	}
}

func TestNestedMembersInDocumentOrder(t *testing.T) {
	td := onlyTypeDecl(t, `class A {
    class B: C, D {
        func innerMethodA() {}
        var propertyB = 0
    }
    init() {}
    typealias ID = String
    func methodA() {}
    var propertyA: Int?
    subscript(i: Int) -> Int { get { 0 } }
    deinit {}
}`)
	var kinds []ast.Kind
	for _, m := range td.Members() {
		kinds = append(kinds, m.Kind())
	}
	want := []ast.Kind{ast.KindTypeDecl, ast.KindInitDecl, ast.KindTypeAlias, ast.KindFuncDecl, ast.KindVarDecl}
	if !slices.Equal(kinds, want) {
		t.Fatalf("members %v, want %v", kinds, want)
	}
	inner := td.TypeDecls()[0]
	if inner.Name() != "B" || len(inner.FuncDecls()) != 1 || len(inner.VarDecls()) != 1 {
		t.Fatalf("nested type parsed wrong: %q", inner.Name())
	}
	if got := inner.Enclosing(); len(got) != 1 || got[0].Name() != "A" {
		t.Errorf("enclosing chain %v", got)
	}
}
