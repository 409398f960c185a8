package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultInclude matches Swift sources at any depth.
var DefaultInclude = []string{"**/*.swift"}

// ErrNoSources is returned when discovery finds nothing to process.
var ErrNoSources = errors.New("no source files found")

type pattern struct {
	text string
	glob glob.Glob
	// для файлов в корне: "**/*.swift" должен матчить и "a.swift"
	root glob.Glob
}

func compilePatterns(patterns []string) ([]pattern, error) {
	out := make([]pattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		cp := pattern{text: p, glob: g}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			if cp.root, err = glob.Compile(rest, '/'); err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

func matchAny(rel string, patterns []pattern) bool {
	atRoot := !strings.Contains(rel, "/")
	for _, p := range patterns {
		if p.glob.Match(rel) {
			return true
		}
		if atRoot && p.root != nil && p.root.Match(rel) {
			return true
		}
	}
	return false
}

// Discover lists the files under root matching any include pattern and no
// exclude pattern. Patterns are matched against slash-separated paths
// relative to root; an excluded directory is not descended into. When root
// is a regular file it is returned as is. The result is sorted.
func Discover(root string, include, exclude []string) ([]string, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{root}, nil
	}
	if len(include) == 0 {
		include = DefaultInclude
	}
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && (matchAny(rel, exc) || matchAny(rel+"/**", exc)) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(rel, inc) && !matchAny(rel, exc) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}
