package fuzztests

import (
	"testing"

	"mimic/internal/diag"
	"mimic/internal/parser"
	"mimic/internal/semantic"
)

// FuzzExtractModels extracts every type declaration, with and without
// nested members, through a project alias table built from the same input.
func FuzzExtractModels(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)
		res := parser.ParseSource("extract.swift", string(input), parser.Options{Reporter: diag.NopReporter{}})

		table := semantic.NewAliasTable(diag.NopReporter{})
		table.AddFile(res.File)

		for _, decl := range res.File.TypeDecls() {
			flat := semantic.Extract(decl, table)
			nested := semantic.Extract(decl, table, semantic.WithNestedTypes())
			if len(nested.Methods) < len(flat.Methods) || len(nested.Properties) < len(flat.Properties) {
				t.Fatalf("%s: nested extraction lost members", flat.Name)
			}
			// модель должна переживать wire-форму
			if _, err := flat.Wire().Model(); err != nil {
				t.Fatalf("%s: wire round trip: %v", flat.Name, err)
			}
		}
	})
}
