// Package diag defines the diagnostic model shared by the analyzer, the
// driver and every output format.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form such as SYN1001 or LIT2003.
//   - Line – 1-based physical line the problem was found on.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span covering the offending line text.
//   - Notes – optional secondary spans ("x first declared here").
//   - Fixes – optional edits that resolve the problem (e.g. insert ';').
//
// # Emitting diagnostics
//
// Producers build a ReportBuilder via ReportError, chain
// WithNote / WithFixSuggestion and call Emit. SliceReporter keeps everything
// in order.
//
// Package diag does no IO and no rendering beyond the single-line short
// format; pretty/json/sarif/table output lives in internal/diagfmt.
package diag
