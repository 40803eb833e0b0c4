// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, the LR parser, the semantic passes, the Verilog generator and
//     the lint policies.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting beyond the compact golden form,
// IO, or CLI integration. Rendering lives in internal/diagfmt; orchestration
// lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string form
//     (LEX/SYN/SEM/IO/PRJ/OBS/GEN/LNT + four digits).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// Notes should be used sparingly: each note must add new context (e.g. “first
// assigned here”) rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Phases receive a diag.Reporter. ReportError/ReportWarning return a
// ReportBuilder that can attach notes before Emit. BagReporter aggregates into
// a Bag, which supports sorting, deduplication and merging. DedupReporter
// filters repeats when a pass may visit the same node twice.
package diag
