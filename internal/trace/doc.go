// Package trace records spans of work done by mimic: commands, passes,
// per-file parsing and extraction, individual declarations.
//
// A Tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "parse_file", trace.CurrentSpan(ctx).SpanID)
//	defer sp.End("")
//
// Levels filter by scope: phase keeps driver and pass spans, detail adds
// files, debug adds single declarations. StreamTracer writes text or NDJSON
// as events happen; RingTracer keeps the last N events and is dumped when a
// command fails.
package trace
