// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer, the parser and lint rules.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the driver or CLI can
//     materialise and optionally apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering lives in internal/diagfmt; fixes are applied by internal/fix.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity - tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code - compact numeric identifier (see codes.go) with stable string form
//     (LEX1xxx, SYN2xxx, LNT3xxx findings, LNT4xxx engine failures, IO5xxx).
//   - Rule - name of the lint rule for findings, empty otherwise.
//   - Message - human oriented text; keep it short and actionable.
//   - Primary span - the canonical source.Span pointing to the issue.
//   - Notes - optional secondary spans/messages for additional context.
//   - Fixes - optional Fix records describing how to address the problem.
//
// Notes should be used sparingly: each note must add new context (e.g. "value
// declared here") rather than repeating the diagnostic message.
//
// # Fix suggestions
//
// Fix represents a possible automated correction. Each fix carries:
//
//   - Title - short label used in UI listings.
//   - Kind - coarse classification (quick fix, refactor, rewrite, source action).
//   - Applicability - confidence level: AlwaysSafe, SafeWithHeuristics,
//     ManualReview.
//   - IsPreferred - optionally mark the most relevant fix when several exist.
//   - Edits - concrete text edits (Span + new/old text) to apply.
//   - Thunk - optional lazy builder used when edits are expensive to construct.
//
// Fixes are intentionally data-only. Producers can attach thunks to defer heavy
// computation; formatters and the fix engine call Resolve/MaterializeFixes to
// expand them deterministically.
//
// TextEdit enforces spans in source coordinates; OldText acts as an optional
// guard that the fix engine uses to validate the context before applying edits.
//
// # Emitting diagnostics
//
// The lexer and parser emit through a diag.Reporter so that emission stays
// decoupled from storage. They construct a ReportBuilder via NewReportBuilder
// (or ReportError), chain WithNote and call Emit. diag.BagReporter aggregates
// diagnostics into a Bag, which supports sorting, deduplication, filtering and
// transformation. The driver wraps it in a DedupReporter while parsing, since
// recovery can report the same token twice. NopReporter drops everything and
// is the lexer's default.
//
// The lint engine and the driver build Diagnostic values directly with New,
// NewError and WithNote, because findings also carry the rule name.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into pretty/json/sarif formats.
//   - internal/fix: materialises Fix records and applies edits to source files.
//   - internal/lint: converts rule reports into Diagnostics.
//   - internal/driver: coordinates bag collection per file and transports
//     diagnostic data to CLI commands and the cache.
//
// Diagnostics are cached on disk (internal/cache), so every field except
// Fix.Thunk must survive a msgpack round trip.
package diag
