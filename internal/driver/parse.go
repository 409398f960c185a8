package driver

import (
	"context"
	"fmt"
	"math"

	"fortio.org/safecast"

	"mimic/internal/ast"
	"mimic/internal/diag"
	"mimic/internal/parser"
	"mimic/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	AST     *ast.File
	Bag     *diag.Bag
}

// Parse loads and parses a single file. Only I/O fails; syntax problems
// end up in Bag.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := newBag(maxDiagnostics)
	tree, err := parseLoaded(ctx, file, bag, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return &ParseResult{FileSet: fs, File: file, AST: tree, Bag: bag}, nil
}

// newBag is diag.NewBag with 0 (or less) meaning no cap.
func newBag(maxDiagnostics int) *diag.Bag {
	if maxDiagnostics <= 0 {
		maxDiagnostics = math.MaxUint16
	}
	return diag.NewBag(maxDiagnostics)
}

func parseLoaded(ctx context.Context, file *source.File, bag *diag.Bag, maxDiagnostics int) (*ast.File, error) {
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, fmt.Errorf("max diagnostics: %w", err)
	}
	opts := parser.Options{
		Reporter:       diag.BagReporter{Bag: bag},
		MaxDiagnostics: maxErrors,
	}
	return parser.ParseFile(ctx, file, nil, opts).File, nil
}
