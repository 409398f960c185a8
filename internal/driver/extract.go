package driver

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/semantic"
	"mimic/internal/source"
	"mimic/internal/trace"
)

// ExtractOptions configures ExtractDir.
type ExtractOptions struct {
	ParseDirOptions
	// Nested collects members of nested types into their outer type's model.
	Nested bool
	// TypeName limits output to the declaration with this name, either bare
	// (Inner) or qualified (Outer.Inner). Empty means every declaration.
	TypeName string
	// Aliases are extra alias definitions (name → type text). They are added
	// before the files' typealias declarations and win over them.
	Aliases map[string]string
	// Bindings maps generic placeholders to concrete types.
	Bindings map[string]string
	Cache    *ModelCache
}

// ExtractResult is the outcome of ExtractDir.
type ExtractResult struct {
	FileSet *source.FileSet
	Files   []FileResult
	Aliases *semantic.AliasTable
	// Bag holds project-wide diagnostics: alias problems, a missing
	// requested type and cache failures.
	Bag *diag.Bag
}

// Models returns every extracted model in file order.
func (r *ExtractResult) Models() []*semantic.Model {
	var out []*semantic.Model
	for _, f := range r.Files {
		out = append(out, f.Models...)
	}
	return out
}

// ExtractDir parses every file under root (or root itself when it is a
// file), builds one alias table from all of them and extracts a model per
// type declaration. Only discovery, configuration and cancellation errors
// are returned; per-file problems are diagnostics.
func ExtractDir(ctx context.Context, root string, opts ExtractOptions) (*ExtractResult, error) {
	ctx, sp := trace.Start(ctx, trace.ScopeDriver, "extract_dir")
	sp.WithExtra("root", root)
	defer sp.End("")

	fileSet, files, err := ParseDir(ctx, root, opts.ParseDirOptions)
	if err != nil {
		return nil, err
	}
	res := &ExtractResult{
		FileSet: fileSet,
		Files:   files,
		Bag:     newBag(opts.MaxDiagnostics),
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	resolver, err := buildResolver(ctx, res, opts, reporter)
	if err != nil {
		return nil, err
	}
	if err := extractFiles(ctx, res, resolver, opts); err != nil {
		return nil, err
	}

	if opts.TypeName != "" && len(res.Models()) == 0 {
		diag.ReportError(reporter, diag.SemTypeNotFound, source.Span{},
			fmt.Sprintf("type %s not found in %s", opts.TypeName, root)).Emit()
	}
	sp.WithExtra("files", strconv.Itoa(len(files)))
	return res, nil
}

func buildResolver(ctx context.Context, res *ExtractResult, opts ExtractOptions, reporter diag.Reporter) (semantic.Resolver, error) {
	_, sp := trace.Start(ctx, trace.ScopePass, "aliases")
	started := time.Now()
	opts.Observer.emit(PhaseEvent{Phase: PhaseAliases, Status: PhaseStart})

	table := semantic.NewAliasTable(reporter)
	for _, name := range sortedKeys(opts.Aliases) {
		// отказ уже записан в Bag через reporter
		_ = table.AddText(name, opts.Aliases[name])
	}
	for _, f := range res.Files {
		if f.AST != nil {
			table.AddFile(f.AST)
		}
	}
	res.Aliases = table

	bindings := semantic.GenericBindings{}
	for _, name := range sortedKeys(opts.Bindings) {
		if err := bindings.Bind(name, opts.Bindings[name]); err != nil {
			sp.End("bad binding")
			return nil, fmt.Errorf("generic binding: %w", err)
		}
	}

	opts.Observer.emit(PhaseEvent{Phase: PhaseAliases, Status: PhaseEnd, Elapsed: time.Since(started)})
	sp.End(strconv.Itoa(table.Len()) + " aliases")
	if len(bindings) == 0 {
		return table, nil
	}
	return semantic.Chain(bindings, table), nil
}

func extractFiles(ctx context.Context, res *ExtractResult, r semantic.Resolver, opts ExtractOptions) error {
	ctx, sp := trace.Start(ctx, trace.ScopePass, "extract")
	defer sp.End("")
	opts.Observer.emit(PhaseEvent{Phase: PhaseExtract, Status: PhaseStart})

	var extractOpts []semantic.Option
	if opts.Nested {
		extractOpts = append(extractOpts, semantic.WithNestedTypes())
	}
	// привязки тоже влияют на результат, поэтому входят в ключ
	digest := res.Aliases.Digest() + bindingsDigest(opts.Bindings)
	want := norm.NFC.String(opts.TypeName)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(res.Files))))
	for i := range res.Files {
		f := &res.Files[i]
		if f.AST == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			fsp := trace.Begin(trace.FromContext(gctx), trace.ScopeFile, "extract_file", trace.CurrentSpan(gctx).SpanID).
				WithExtra("path", f.Path)
			opts.Observer.emit(PhaseEvent{Path: f.Path, Phase: PhaseExtract, Status: PhaseStart})

			key := cacheKey(f.AST.Source().Hash, digest, opts.Nested)
			if models, ok := fromCache(opts.Cache, key, res.Bag); ok {
				f.Models, f.Cached = selectModels(models, want), true
				trace.Point(trace.FromContext(gctx), trace.ScopeFile, "cache_hit", f.Path, fsp.ID())
				fsp.End("cached")
				opts.Observer.emit(PhaseEvent{Path: f.Path, Phase: PhaseExtract, Status: PhaseCached, Elapsed: time.Since(started)})
				return nil
			}

			decls := allTypeDecls(f.AST)
			models := make([]*semantic.Model, len(decls))
			wires := make([]semantic.ModelWire, len(decls))
			for j, d := range decls {
				models[j] = semantic.Extract(d, r, extractOpts...)
				wires[j] = models[j].Wire()
			}
			if err := opts.Cache.Put(key, f.Path, wires); err != nil {
				res.Bag.Add(cacheDiagnostic(err))
			}
			f.Models = selectModels(models, want)
			fsp.End(strconv.Itoa(len(models)) + " models")
			opts.Observer.emit(PhaseEvent{Path: f.Path, Phase: PhaseExtract, Status: PhaseEnd, Elapsed: time.Since(started)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	opts.Observer.emit(PhaseEvent{Phase: PhaseExtract, Status: PhaseEnd})
	return nil
}

// allTypeDecls lists every type declaration in f, nested ones included, in
// document order.
func allTypeDecls(f *ast.File) []ast.TypeDecl {
	var out []ast.TypeDecl
	ast.Inspect(f.Node(), func(n ast.Node) bool {
		if td, ok := n.AsTypeDecl(); ok {
			out = append(out, td)
		}
		return true
	})
	return out
}

// selectModels keeps the models named want (bare or qualified); an empty
// want keeps all.
func selectModels(models []*semantic.Model, want string) []*semantic.Model {
	if want == "" {
		return models
	}
	var out []*semantic.Model
	for _, m := range models {
		name := norm.NFC.String(m.Name)
		if name == want || bareName(name) == want {
			out = append(out, m)
		}
	}
	return out
}

func bareName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}

func fromCache(c *ModelCache, key Digest, bag *diag.Bag) ([]*semantic.Model, bool) {
	wires, ok, err := c.Get(key)
	if err != nil {
		bag.Add(cacheDiagnostic(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	models := make([]*semantic.Model, len(wires))
	for i, w := range wires {
		m, err := w.Model()
		if err != nil {
			bag.Add(cacheDiagnostic(err))
			return nil, false
		}
		models[i] = m
	}
	return models, true
}

func cacheDiagnostic(err error) *diag.Diagnostic {
	return &diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.IOCacheError,
		Message:  "model cache: " + err.Error(),
	}
}

func bindingsDigest(b map[string]string) string {
	if len(b) == 0 {
		return ""
	}
	out := "|"
	for _, k := range sortedKeys(b) {
		out += k + "=" + b[k] + ";"
	}
	return out
}

func baseDir(root string) string {
	st, err := os.Stat(root)
	if err == nil && !st.IsDir() {
		root = filepath.Dir(root)
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
