// Package trace records what the MaHDL compiler is doing while it runs.
//
// Spans wrap each pass of the per-file pipeline (lex, parse, collect,
// process, generate) and each file job of a directory build. Events go to a
// Tracer carried in the context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.ParentOf(ctx))
//	defer span.End("")
//
// A StreamTracer writes events as they happen (text or NDJSON), a RingTracer
// keeps the most recent ones in memory so they can be dumped after a crash,
// and ModeBoth combines the two. With LevelOff the Nop tracer is used and
// Begin returns an inert span.
//
//	mahdl build --trace=- --trace-level=detail rtl/
package trace
