package parser_test

import (
	"testing"

	"mimic/internal/parser"
	"mimic/internal/testkit"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"protocol P {}",
		"protocol A: class, ProtocolB, P💐C {}",
		"struct S { var a: Int { get set } }",
		"func f<T>(_ a: [T: Int]?, b c: (Int) throws -> Void...) async rethrows -> T! {}",
		nestedSample,
		realisticSample,
		"class A: , {",
		"var a: (x: Int, (String)) = (1, \"\\(a)\")",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, src string) {
		res := parser.ParseSource("fuzz.swift", src, parser.Options{})
		if err := testkit.CheckTree(res.File); err != nil {
			t.Fatalf("invariants broken for %q: %v", src, err)
		}
	})
}
