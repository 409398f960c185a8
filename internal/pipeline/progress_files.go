package pipeline

import (
	"path/filepath"
	"strings"
)

// DisplayPath makes file relative to baseDir when it lies under it and
// converts it to slash form. Progress events and the UI use this form.
func DisplayPath(file, baseDir string) string {
	path := filepath.Clean(file)
	base := strings.TrimSpace(baseDir)
	if base == "" {
		return filepath.ToSlash(path)
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	return filepath.ToSlash(path)
}

func displayPaths(files []string, baseDir string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = DisplayPath(f, baseDir)
	}
	return out
}
