// Package diag defines the diagnostic model shared by the lexer, parser,
// alias resolution and the driver.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (LEX/SYN/SEM/IO/CFG ranges, see codes.go), a short Message, the
// Primary span and optional Notes.
//
// Producers emit through a Reporter (BagReporter, DedupReporter, NopReporter)
// and never format anything themselves; rendering lives in internal/diagfmt.
//
// Parser diagnostics are always recoverable. They describe how a gap in the
// input was filled (empty name, empty body range, error inherited type) and
// carry SevWarning; the tree is built regardless of what was reported.
package diag
