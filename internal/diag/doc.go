// Package diag defines the diagnostic model shared by the lexer, parser,
// pattern compiler, fixer registry, rewrite engine and driver.
//
// # Purpose
//
//   - Provide deterministic data structures describing findings: a failed
//     tokenization, a malformed pattern, a transform that raised, a fixed-point
//     run that did not converge.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or rendering.
//
// Rendering lives in internal/diagfmt. Package diag does no IO.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: short, actionable, names the fixer when one is involved.
//   - Primary: the source.Span the finding is about. Registration-time
//     problems (bad pattern) have no file and use the zero span.
//   - Notes: optional secondary spans.
//
// # Emitting
//
// Producers receive a Reporter and either call Report directly or build a
// record with ReportError/ReportWarning(...).WithNote(...).Emit(). BagReporter
// collects into a Bag, which sorts and deduplicates deterministically so CLI
// output and tests do not depend on worker scheduling.
package diag
