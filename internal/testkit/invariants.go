package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mimic/internal/ast"
)

// CheckTree runs the structural invariants on a parsed file and returns the first violation:
// 1) the root spans the whole source and the file text round-trips
// 2) every child lies inside its parent, children are ordered and never overlap
// 3) parent and file back-references point where they should
// 4) node text equals the source sliced by its UTF-16 offset and length
// 5) every allocated node is reachable from the root
func CheckTree(f *ast.File) error {
	if f == nil {
		return fmt.Errorf("nil file")
	}
	src := f.Source()
	if f.Text() != string(src.Content) {
		return fmt.Errorf("file text does not round-trip")
	}
	lenContent, err := safecast.Conv[uint32](len(src.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	root := f.Node()
	if sp := root.Span(); sp.Start != 0 || sp.End != lenContent {
		return fmt.Errorf("root span %v does not cover content of %d bytes", sp, lenContent)
	}

	seen := 0
	var walk func(n ast.Node) error
	walk = func(n ast.Node) error {
		seen++
		if n.File() != f {
			return fmt.Errorf("%s: owned by another file", n)
		}
		if n.Offset()+n.Length() > f.Len() {
			return fmt.Errorf("%s: range %d+%d beyond file length %d", n, n.Offset(), n.Length(), f.Len())
		}
		if got := f.TextRange(n.Offset(), n.Length()); got != n.Text() {
			return fmt.Errorf("%s: utf-16 slice %q differs from text %q", n, got, n.Text())
		}
		sp := n.Span()
		prevEnd := sp.Start
		for _, c := range n.Children() {
			if c.Parent() != n {
				return fmt.Errorf("%s: parent is %s, want %s", c, c.Parent(), n)
			}
			cs := c.Span()
			if !sp.Contains(cs) {
				return fmt.Errorf("%s: not inside parent %s", c, n)
			}
			if cs.Start < prevEnd {
				return fmt.Errorf("%s: overlaps or precedes previous sibling (ends at %d)", c, prevEnd)
			}
			prevEnd = cs.End
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return err
	}
	if seen != f.NodeCount() {
		return fmt.Errorf("%d of %d nodes reachable from the root", seen, f.NodeCount())
	}
	return nil
}
