package diag

import (
	"fmt"
	"sort"
	"strings"

	"mimic/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics one per line in a stable order:
//
//	<sev> <CODE> <path>:<line>:<col> <message>
//
// Notes follow their diagnostic as "note" lines when includeNotes is set.
// Used by golden tests and by the CLI short output.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for _, d := range diags {
		if d == nil {
			continue
		}
		if loc, ok := resolveSpan(fs, d.Primary); ok {
			rendered = append(rendered, shortDiagnostic{
				Severity: strings.ToLower(d.Severity.String()),
				Code:     d.Code.ID(),
				Path:     loc.path,
				Line:     loc.line,
				Column:   loc.col,
				Message:  sanitizeMessage(d.Message),
			})
		}
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			if loc, ok := resolveSpan(fs, note.Span); ok {
				rendered = append(rendered, shortDiagnostic{
					Severity: "note",
					Code:     d.Code.ID(),
					Path:     loc.path,
					Line:     loc.line,
					Column:   loc.col,
					Message:  sanitizeMessage(note.Msg),
				})
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type resolvedSpan struct {
	path      string
	line, col uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (resolvedSpan, bool) {
	file := fs.Get(span.File)
	if file == nil {
		return resolvedSpan{}, false
	}
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		path: file.DisplayPath(fs.BaseDir()),
		line: start.Line,
		col:  start.Col,
	}, true
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	return strings.ReplaceAll(msg, "\n", " ")
}
