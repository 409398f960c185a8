package diag

import (
	"testing"

	"mimic/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("P.swift", []byte("protocol P {\n  var : Int\n"))
	diags := []*Diagnostic{
		New(SevWarning, SynExpectRBrace, source.Span{File: id, Start: 25, End: 25}, "expected '}'"),
		New(SevWarning, SynExpectName, source.Span{File: id, Start: 19, End: 19}, "expected\nname").
			WithNote(source.Span{File: id, Start: 15, End: 18}, "in this declaration"),
	}

	got := FormatShortDiagnostics(diags, fs, true)
	want := "note SYN2002 P.swift:2:3 in this declaration\n" +
		"warning SYN2002 P.swift:2:7 expected name\n" +
		"warning SYN2004 P.swift:3:1 expected '}'"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if FormatShortDiagnostics(nil, fs, false) != "" {
		t.Fatal("empty input must render empty string")
	}
}
