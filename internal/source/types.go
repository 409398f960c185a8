package source

import (
	"fmt"

	"fortio.org/safecast"
)

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
)

// File captures metadata and content for a single source file.
//
// Content is kept byte-for-byte as read (only a leading BOM is stripped),
// so offsets reported to editors line up with what they display.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags

	units *UTF16Index
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// UTF16 returns the UTF-16 index of the file content, building it on first use.
// The index is immutable once built; FileSet builds it eagerly in Add so that
// concurrent readers never race on the lazy path.
func (f *File) UTF16() *UTF16Index {
	if f.units == nil {
		f.units = NewUTF16Index(f.Content)
	}
	return f.units
}

// Text returns the whole file content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// Slice returns the text covered by span. Out-of-range spans are clamped.
func (f *File) Slice(sp Span) string {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	start, end := min(sp.Start, n), min(sp.End, n)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}
