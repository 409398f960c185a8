package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/parser"
	"mimic/internal/testkit"
)

// parse разбирает src и проверяет структурные инварианты дерева.
func parse(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	res := parser.ParseSource("test.swift", src, parser.Options{})
	if res.File == nil || res.Bag == nil {
		t.Fatal("ParseSource must always return a file and a bag")
	}
	if err := testkit.CheckTree(res.File); err != nil {
		t.Fatalf("tree invariants broken for %q: %v", src, err)
	}
	return res.File, res.Bag
}

func onlyTypeDecl(t *testing.T, src string) ast.TypeDecl {
	t.Helper()
	f, _ := parse(t, src)
	decls := f.TypeDecls()
	if len(decls) != 1 {
		t.Fatalf("%q: expected 1 type declaration, got %d", src, len(decls))
	}
	return decls[0]
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// describe renders a type expression back into a canonical spelling.
func describe(ty ast.Type) string {
	switch t := ty.(type) {
	case nil:
		return "<nil>"
	case ast.TypeIdent:
		return t.Name()
	case ast.GenericType:
		args := make([]string, 0, len(t.Args()))
		for _, a := range t.Args() {
			args = append(args, describe(a))
		}
		return t.Name() + "<" + strings.Join(args, ", ") + ">"
	case ast.ArrayType:
		return "[" + describe(t.Elem()) + "]"
	case ast.DictType:
		return "[" + describe(t.Key()) + ": " + describe(t.Value()) + "]"
	case ast.OptionalType:
		inner := describe(t.Wrapped())
		if _, ok := t.Wrapped().(ast.FuncType); ok {
			inner = "(" + inner + ")"
		}
		if t.IsImplicitlyUnwrapped() {
			return inner + "!"
		}
		return inner + "?"
	case ast.FuncType:
		params := make([]string, 0, len(t.Params()))
		for _, p := range t.Params() {
			params = append(params, describe(p))
		}
		s := "(" + strings.Join(params, ", ") + ")"
		if t.IsAsync() {
			s += " async"
		}
		if t.Throws() {
			s += " throws"
		}
		return s + " -> " + describe(t.Return())
	case ast.TupleType:
		elems := make([]string, 0, len(t.Elems()))
		for _, e := range t.Elems() {
			if e.Label != "" {
				elems = append(elems, e.Label+": "+describe(e.Type))
			} else {
				elems = append(elems, describe(e.Type))
			}
		}
		return "(" + strings.Join(elems, ", ") + ")"
	}
	return fmt.Sprintf("<%T>", ty)
}

// shape lists node kinds in pre-order with offsets relative to base.
func shape(n ast.Node, base uint32) []string {
	var out []string
	ast.Inspect(n, func(c ast.Node) bool {
		out = append(out, fmt.Sprintf("%s@%d+%d", c.Kind(), c.Offset()-base, c.Length()))
		return true
	})
	return out
}
