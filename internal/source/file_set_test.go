package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("A.swift", []byte("protocol A {}"), 0)
	id2 := fs.Add("A.swift", []byte("protocol B {}"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("A.swift")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v want %d,true", latest, ok, id2)
	}
	if got := fs.Get(id1).Text(); got != "protocol A {}" {
		t.Fatalf("old version changed: %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Fatal("unknown id must return nil")
	}
	if fs.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", fs.Len())
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.swift", []byte("protocol A {\n  func f()\n}\n"))
	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Fatal("expected FileVirtual flag")
	}

	start, end := fs.Resolve(Span{File: id, Start: 15, End: 23})
	if start != (LineCol{Line: 2, Col: 3}) {
		t.Fatalf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 11}) {
		t.Fatalf("end = %+v", end)
	}
	if got := f.GetLine(2); got != "  func f()" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("GetLine(9) = %q", got)
	}
}

func TestFileSetLoadKeepsCRLFAndStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "P.swift")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("protocol P {\r\n}\r\n")...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 {
		t.Fatal("expected FileHadBOM")
	}
	if f.Text() != "protocol P {\r\n}\r\n" {
		t.Fatalf("content = %q", f.Text())
	}
	if got := f.GetLine(1); got != "protocol P {" {
		t.Fatalf("GetLine(1) = %q", got)
	}
}

func TestFileSlice(t *testing.T) {
	f := &File{Content: []byte("var a: Int")}
	if got := f.Slice(Span{Start: 4, End: 5}); got != "a" {
		t.Fatalf("Slice = %q", got)
	}
	if got := f.Slice(Span{Start: 7, End: 99}); got != "Int" {
		t.Fatalf("clamped Slice = %q", got)
	}
	if f.UTF16().Len() != 10 {
		t.Fatalf("UTF16().Len() = %d", f.UTF16().Len())
	}
}
