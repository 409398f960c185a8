package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/semantic"
	"mimic/internal/source"
	"mimic/internal/trace"
)

// FileResult is everything known about one discovered file.
type FileResult struct {
	Path   string        // путь как его вернул Discover
	FileID source.FileID // 0 вместе с AST == nil, если файл не загрузился
	AST    *ast.File
	Bag    *diag.Bag
	Models []*semantic.Model
	Cached bool
}

// ParseDirOptions configures ParseDir.
type ParseDirOptions struct {
	Include, Exclude []string
	MaxDiagnostics   int
	Jobs             int // 0 = GOMAXPROCS
	Observer         PhaseObserver
}

// ParseDir discovers and parses files under root in parallel. Results are in
// discovery order. Load failures are recorded in the file's Bag; only
// discovery errors and cancellation are returned.
func ParseDir(ctx context.Context, root string, opts ParseDirOptions) (*source.FileSet, []FileResult, error) {
	files, err := Discover(root, opts.Include, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(baseDir(root))
	if len(files) == 0 {
		return fileSet, nil, ErrNoSources
	}
	results, err := parseFiles(ctx, fileSet, files, opts)
	return fileSet, results, err
}

func parseFiles(ctx context.Context, fileSet *source.FileSet, files []string, opts ParseDirOptions) ([]FileResult, error) {
	ctx, sp := trace.Start(ctx, trace.ScopePass, "parse")
	defer sp.End("")
	opts.Observer.emit(PhaseEvent{Phase: PhaseParse, Status: PhaseStart})

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// загружаем последовательно, чтобы FileID не зависели от планировщика
	results := make([]FileResult, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		results[i] = FileResult{Path: path, Bag: newBag(opts.MaxDiagnostics)}
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		results[i].FileID = fileID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			opts.Observer.emit(PhaseEvent{Path: path, Phase: PhaseParse, Status: PhaseStart})

			// индекс i уникален для горутины, мьютекс не нужен
			res := &results[i]
			if err, failed := loadErrors[i]; failed {
				res.Bag.Add(&diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + err.Error(),
				})
				opts.Observer.emit(PhaseEvent{Path: path, Phase: PhaseParse, Status: PhaseFailed, Elapsed: time.Since(started), Err: err})
				return nil
			}
			tree, err := parseLoaded(gctx, fileSet.Get(res.FileID), res.Bag, opts.MaxDiagnostics)
			if err != nil {
				return err
			}
			res.AST = tree
			opts.Observer.emit(PhaseEvent{Path: path, Phase: PhaseParse, Status: PhaseEnd, Elapsed: time.Since(started)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	opts.Observer.emit(PhaseEvent{Phase: PhaseParse, Status: PhaseEnd})
	return results, nil
}
