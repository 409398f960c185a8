package source

import (
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
)

// UTF16Index converts byte offsets of a UTF-8 buffer into UTF-16 code-unit
// offsets, the unit editors and IDE protocols count in.
//
// For pure ASCII content the mapping is the identity and no table is kept.
type UTF16Index struct {
	size  uint32
	total uint32
	// units[i]: количество UTF-16 единиц перед байтом i; nil для ASCII.
	units []uint32
}

// NewUTF16Index scans content once and builds the prefix table.
func NewUTF16Index(content []byte) *UTF16Index {
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("len content overflow: %w", err))
	}
	idx := &UTF16Index{size: size, total: size}
	if isASCII(content) {
		return idx
	}

	idx.units = make([]uint32, len(content)+1)
	var acc uint32
	for i := 0; i < len(content); {
		r, sz := utf8.DecodeRune(content[i:])
		for j := range sz {
			// продолжения руны указывают на её начало
			idx.units[i+j] = acc
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			// невалидная последовательность декодируется в U+FFFD
			n = 1
		}
		acc += uint32(n) //nolint:gosec // n is 1 or 2
		i += sz
	}
	idx.units[len(content)] = acc
	idx.total = acc
	return idx
}

// Offset returns the UTF-16 offset of byte offset off.
// Offsets past the end clamp to Len(); offsets inside a multi-byte rune map to the rune start.
func (x *UTF16Index) Offset(off uint32) uint32 {
	if off > x.size {
		off = x.size
	}
	if x.units == nil {
		return off
	}
	return x.units[off]
}

// Len returns the total length in UTF-16 code units.
func (x *UTF16Index) Len() uint32 {
	return x.total
}

// ByteOffset maps a UTF-16 offset back to a byte offset. A unit in the middle
// of a surrogate pair maps to the start of the following rune.
func (x *UTF16Index) ByteOffset(unit uint32) uint32 {
	if unit >= x.total {
		return x.size
	}
	if x.units == nil {
		return unit
	}
	i := sort.Search(len(x.units), func(i int) bool { return x.units[i] >= unit })
	off, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("byte offset overflow: %w", err))
	}
	return off
}

// IsASCII reports whether no multi-byte runes were seen.
func (x *UTF16Index) IsASCII() bool {
	return x.units == nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
