package diag

import (
	"declcheck/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the bytes covered by Span with NewText.
// OldText, when set, must match the current content for the edit to apply.
type FixEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one reported problem tied to a 1-based source line.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Line     uint32
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
