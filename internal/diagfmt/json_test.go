package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONFilesAndSymbols(t *testing.T) {
	fs, id, bag, res := analyzeVirtual(t, "a.decl", "int x = 5;\nint x = 6;\nchar c = 'q';\nfloat f = 1.5\n")

	var buf bytes.Buffer
	err := JSON(&buf, []FileReport{{File: id, Bag: bag, Symbols: res.Symbols()}}, fs, JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludeSymbols:   true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Files) != 1 {
		t.Fatalf("count=%d files=%d", out.Count, len(out.Files))
	}
	file := out.Files[0]
	if file.Path != "a.decl" {
		t.Errorf("path = %q", file.Path)
	}

	dup := file.Diagnostics[0]
	if dup.Code != "SEM3001" || dup.Line != 2 || dup.Severity != "ERROR" {
		t.Errorf("first diagnostic = %+v", dup)
	}
	if dup.Location.StartLine != 2 || dup.Location.StartCol != 1 || dup.Location.StartByte != 11 {
		t.Errorf("location = %+v", dup.Location)
	}
	if len(dup.Notes) != 1 || dup.Notes[0].Location.StartLine != 1 {
		t.Errorf("notes = %+v", dup.Notes)
	}

	semi := file.Diagnostics[1]
	if semi.Code != "SYN1001" || len(semi.Fixes) != 1 || semi.Fixes[0].Edits[0].NewText != ";" {
		t.Errorf("second diagnostic = %+v", semi)
	}

	if len(file.Symbols) != 2 {
		t.Fatalf("symbols = %+v", file.Symbols)
	}
	if s := file.Symbols[1]; s.DataType != "char" || s.RawValue != "q" || s.UniqueID != "c_3" || s.Scope != "local" {
		t.Errorf("char symbol = %+v", s)
	}
}

func TestJSONMaxAcrossFiles(t *testing.T) {
	fs, id, bag, _ := analyzeVirtual(t, "a.decl", "a\nb\nc\n")

	out := BuildDiagnosticsOutput([]FileReport{{File: id, Bag: bag}, {File: id, Bag: bag}}, fs, JSONOpts{Max: 4})
	if out.Count != 4 {
		t.Fatalf("count = %d, want 4", out.Count)
	}
	if len(out.Files[1].Diagnostics) != 1 || out.Files[1].Dropped != 2 {
		t.Fatalf("second file = %+v", out.Files[1])
	}
	if out.Files[0].Symbols != nil {
		t.Error("symbols must be omitted unless requested")
	}
}

func TestJSONEmptyFileHasEmptyArray(t *testing.T) {
	fs, id, bag, _ := analyzeVirtual(t, "ok.decl", "int x = 1;\n")
	var buf bytes.Buffer
	if err := JSON(&buf, []FileReport{{File: id, Bag: bag}}, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"diagnostics": []`)) {
		t.Fatalf("expected empty diagnostics array:\n%s", buf.String())
	}
}
