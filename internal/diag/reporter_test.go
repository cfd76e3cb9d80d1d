package diag

import (
	"testing"

	"declcheck/internal/source"
)

func TestReportBuilderEmitsOnce(t *testing.T) {
	var r SliceReporter
	b := ReportError(&r, SemaDuplicateVariable, 2, source.Span{Start: 11, End: 21}, "duplicate variable: x").
		WithNote(source.Span{Start: 0, End: 10}, "x first declared here")
	b.Emit()
	b.Emit()

	if len(r.Items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(r.Items))
	}
	d := r.Items[0]
	if d.Line != 2 || d.Severity != SevError || d.Code != SemaDuplicateVariable {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "x first declared here" {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
}

func TestReportBuilderFix(t *testing.T) {
	var r SliceReporter
	ReportError(&r, SynMissingSemicolon, 1, source.Span{Start: 0, End: 9}, "missing semicolon at end of line").
		WithFixSuggestion(Fix{Title: "insert ';'", Edits: []FixEdit{{Span: source.Span{Start: 9, End: 9}, NewText: ";"}}}).
		Emit()

	if len(r.Items) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(r.Items))
	}
	fixes := r.Items[0].Fixes
	if len(fixes) != 1 || len(fixes[0].Edits) != 1 || fixes[0].Edits[0].NewText != ";" {
		t.Fatalf("unexpected fixes %+v", fixes)
	}
}

func TestNilBuilderIsSafe(t *testing.T) {
	var b *ReportBuilder
	b.WithNote(source.Span{}, "x").WithFixSuggestion(Fix{}).Emit()

	// builder without a reporter swallows the diagnostic
	ReportError(nil, SynMissingSemicolon, 1, source.Span{}, "x").Emit()
}
