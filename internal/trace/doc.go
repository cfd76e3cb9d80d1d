// Package trace is the operational log of declcheck: levelled begin/end and
// point events describing what the driver did and how long it took.
//
// Enable it from the command line:
//
//	declcheck check --trace=- --trace-level=detail ./decls
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: only failure points (IO, config, cache)
//   - LevelPhase: command and pass boundaries (load, analyze, render)
//   - LevelDetail: one span per analysed file
//   - LevelDebug: everything, including cache hits and misses
//
// # Context propagation
//
// The tracer travels in context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "analyze")
//	defer span.End("")
package trace
