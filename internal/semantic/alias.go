package semantic

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dominikbraun/graph"
	"golang.org/x/text/unicode/norm"

	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/source"
)

// AliasTable resolves typealias names to their targets. Names are compared
// after NFC normalization. An alias whose target refers back to it, directly
// or through other aliases, is rejected when added.
//
// Resolve is safe for concurrent use once the table is built; Add* are not
// meant to race with Resolve.
type AliasTable struct {
	mu       sync.RWMutex
	aliases  map[string]aliasEntry
	deps     graph.Graph[string, string]
	reporter diag.Reporter
}

type aliasEntry struct {
	target ast.Type
	text   string
	arity  int // число generic-параметров
}

// NewAliasTable creates an empty table. Rejections are reported to r, which may be nil.
func NewAliasTable(r diag.Reporter) *AliasTable {
	return &AliasTable{
		aliases:  make(map[string]aliasEntry),
		deps:     graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
		reporter: r,
	}
}

// AddFile registers every typealias declared in f. Aliases nested in a type
// are registered under both the qualified (Outer.Alias) and the bare name.
// It returns how many names were added.
func (t *AliasTable) AddFile(f *ast.File) int {
	added := 0
	ast.Inspect(f.Node(), func(n ast.Node) bool {
		a, ok := n.AsTypeAlias()
		if !ok {
			return true
		}
		if a.IsAssociated() || a.Type() == nil || a.Name() == "" {
			return false
		}
		arity := len(a.GenericParams())
		if td, ok := a.Parent().AsTypeDecl(); ok {
			if t.Add(qualifiedName(td)+"."+a.Name(), a.Type(), arity, a.Span()) {
				added++
			}
		}
		if t.Add(a.Name(), a.Type(), arity, a.Span()) {
			added++
		}
		return false
	})
	return added
}

// AddText parses typeText and registers it under name.
func (t *AliasTable) AddText(name, typeText string) error {
	ty, err := ParseType(typeText)
	if err != nil {
		t.report(diag.SemAliasMalformed, source.Span{}, fmt.Sprintf("alias %s: %v", name, err))
		return fmt.Errorf("alias %s: %w", name, err)
	}
	if !t.Add(name, ty, 0, source.Span{}) {
		return fmt.Errorf("alias %s = %s: %w", name, typeText, ErrAliasRejected)
	}
	return nil
}

// ErrAliasRejected is returned by AddText for duplicates and cycles.
var ErrAliasRejected = errors.New("alias rejected")

// Add registers name → target. The first definition of a name wins; later
// ones and ones that would close a cycle are reported and rejected.
func (t *AliasTable) Add(name string, target ast.Type, arity int, at source.Span) bool {
	key := norm.NFC.String(name)
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, dup := t.aliases[key]; dup {
		t.report(diag.SemAliasDuplicate, at, "type alias "+name+" is already defined; keeping the first definition")
		return false
	}
	if err := t.link(key, referencedNames(target)); err != nil {
		t.report(diag.SemAliasCycle, at, fmt.Sprintf("type alias %s refers to itself: %v", name, err))
		return false
	}
	t.aliases[key] = aliasEntry{target: target, text: target.Text(), arity: arity}
	return true
}

// link adds key → ref edges, undoing them all if one would close a cycle.
func (t *AliasTable) link(key string, refs []string) error {
	addVertex := func(v string) {
		if err := t.deps.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			panic(fmt.Errorf("alias graph: %w", err))
		}
	}
	addVertex(key)
	var added []string
	for _, ref := range refs {
		addVertex(ref)
		err := t.deps.AddEdge(key, ref)
		switch {
		case err == nil:
			added = append(added, ref)
		case errors.Is(err, graph.ErrEdgeAlreadyExists):
		default:
			for _, r := range added {
				_ = t.deps.RemoveEdge(key, r)
			}
			return fmt.Errorf("%s -> %s: %w", key, ref, err)
		}
	}
	return nil
}

// referencedNames lists the type names used inside t, NFC-normalized.
func referencedNames(t ast.Type) []string {
	var out []string
	ast.Inspect(t.AsNode(), func(n ast.Node) bool {
		switch ty := ast.TypeOf(n).(type) {
		case ast.TypeIdent:
			out = append(out, norm.NFC.String(ty.Name()))
		case ast.GenericType:
			out = append(out, norm.NFC.String(ty.Name()))
		}
		return true
	})
	return out
}

func (t *AliasTable) report(code diag.Code, at source.Span, msg string) {
	if t.reporter != nil {
		t.reporter.Report(code, diag.SevWarning, at, msg, nil)
	}
}

// Resolve substitutes a plain identifier naming a non-generic alias.
// Generic aliases (typealias Pair<T> = ...) are never substituted.
func (t *AliasTable) Resolve(written ast.Type) (ast.Type, bool) {
	id, ok := written.(ast.TypeIdent)
	if !ok {
		return nil, false
	}
	t.mu.RLock()
	e, ok := t.aliases[norm.NFC.String(id.Name())]
	t.mu.RUnlock()
	if !ok || e.arity != 0 {
		return nil, false
	}
	return e.target, true
}

func (t *AliasTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.aliases)
}

// Names returns the registered names sorted.
func (t *AliasTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.aliases))
	for k := range t.aliases {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Digest is a stable hash of every name and target text, used in cache keys.
func (t *AliasTable) Digest() string {
	h := sha256.New()
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.aliases))
	for k := range t.aliases {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		fmt.Fprintf(h, "%s=%s\n", k, t.aliases[k].text)
	}
	return hex.EncodeToString(h.Sum(nil))
}
