package fix

import (
	"declcheck/internal/diag"
	"declcheck/internal/source"
)

// InsertText creates fix that inserts text at the position at.
// guard, when non-empty, must match the (empty) text at that position.
func InsertText(title string, at source.Span, text string, guard string) diag.Fix {
	at.End = at.Start
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: at, NewText: text, OldText: guard}},
	}
}

// AppendAt inserts text right after span, e.g. a missing terminator.
func AppendAt(title string, span source.Span, text string) diag.Fix {
	return InsertText(title, source.Span{File: span.File, Start: span.End, End: span.End}, text, "")
}
