package semantic

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/unicode/norm"

	"mimic/internal/ast"
	"mimic/internal/parser"
)

// Resolver maps a written type to the type it stands for. ok is false when
// the type is not known to the resolver; that is a normal outcome.
// Implementations must be safe to call from several goroutines when shared
// between concurrent extractions.
type Resolver interface {
	Resolve(written ast.Type) (substitute ast.Type, ok bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ast.Type) (ast.Type, bool)

func (f ResolverFunc) Resolve(t ast.Type) (ast.Type, bool) { return f(t) }

// NopResolver never substitutes.
type NopResolver struct{}

func (NopResolver) Resolve(ast.Type) (ast.Type, bool) { return nil, false }

type chain []Resolver

// Chain asks each resolver in order and returns the first substitute.
// Nil entries are skipped.
func Chain(rs ...Resolver) Resolver {
	out := make(chain, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (c chain) Resolve(t ast.Type) (ast.Type, bool) {
	for _, r := range c {
		if sub, ok := r.Resolve(t); ok {
			return sub, true
		}
	}
	return nil, false
}

// GenericBindings binds generic placeholder names (T, Element) to concrete
// types. Only bare single-segment identifiers are substituted.
type GenericBindings map[string]ast.Type

// ErrSelfBinding is returned by Bind when the type mentions the placeholder
// it is bound to.
var ErrSelfBinding = errors.New("binding refers to its own placeholder")

// Bind parses typeText and binds it to name.
func (b GenericBindings) Bind(name, typeText string) error {
	ty, err := ParseType(typeText)
	if err != nil {
		return fmt.Errorf("bind %s: %w", name, err)
	}
	key := norm.NFC.String(name)
	if slices.Contains(referencedNames(ty), key) {
		return fmt.Errorf("bind %s = %s: %w", name, typeText, ErrSelfBinding)
	}
	b[key] = ty
	return nil
}

func (b GenericBindings) Resolve(t ast.Type) (ast.Type, bool) {
	id, ok := t.(ast.TypeIdent)
	if !ok || len(id.Segments()) != 1 {
		return nil, false
	}
	sub, ok := b[norm.NFC.String(id.Name())]
	return sub, ok && sub != nil
}

// ParseType parses a standalone type expression such as "[String: Int]?".
// The returned type lives in its own small syntax tree.
func ParseType(text string) (ast.Type, error) {
	res := parser.ParseSource("<type>", "typealias T = "+text, parser.Options{})
	if res.Bag.HasWarnings() {
		return nil, fmt.Errorf("malformed type %q: %s", text, res.Bag.Items()[0].Message)
	}
	decls := res.File.Decls()
	if len(decls) != 1 {
		return nil, fmt.Errorf("malformed type %q", text)
	}
	alias, ok := decls[0].AsTypeAlias()
	if !ok || alias.Type() == nil {
		return nil, fmt.Errorf("malformed type %q", text)
	}
	return alias.Type(), nil
}
