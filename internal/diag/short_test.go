package diag

import (
	"testing"

	"declcheck/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")

	file := fs.Add("/workspace/testdata/sample.decl", []byte("int x = 5;\nint x = 7\nint x = 8;\n"), 0)

	diags := []Diagnostic{
		NewError(SemaDuplicateVariable, 3, source.Span{File: file, Start: 21, End: 31}, "duplicate variable: x").
			WithNote(source.Span{File: file, Start: 0, End: 10}, "x first declared here"),
		NewError(SynMissingSemicolon, 2, source.Span{File: file, Start: 11, End: 20}, "missing semicolon\nat end of line"),
	}

	expected := "note SEM3001 testdata/sample.decl:1:1 x first declared here\n" +
		"error SYN1001 testdata/sample.decl:2:1 missing semicolon at end of line\n" +
		"error SEM3001 testdata/sample.decl:3:1 duplicate variable: x"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	withoutNotes := "error SYN1001 testdata/sample.decl:2:1 missing semicolon at end of line\n" +
		"error SEM3001 testdata/sample.decl:3:1 duplicate variable: x"
	if got := FormatShortDiagnostics(diags, fs, false); got != withoutNotes {
		t.Fatalf("unexpected short diagnostics without notes:\n%s", got)
	}
}

func TestFormatShortDiagnosticsEmpty(t *testing.T) {
	if got := FormatShortDiagnostics(nil, source.NewFileSet(), true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := FormatShortDiagnostics([]Diagnostic{{}}, nil, true); got != "" {
		t.Fatalf("expected empty output without file set, got %q", got)
	}
}

func TestFormatShortSkipsUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	d := NewError(SynMissingSemicolon, 1, source.Span{File: 7}, "missing semicolon at end of line")
	if got := FormatShortDiagnostics([]Diagnostic{d}, fs, false); got != "" {
		t.Fatalf("expected unknown file to be skipped, got %q", got)
	}
}
