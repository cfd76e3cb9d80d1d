package analyzer_test

import (
	"strings"
	"testing"

	"declcheck/internal/analyzer"
	"declcheck/internal/diag"
	"declcheck/internal/source"
	"declcheck/internal/testkit"
	"declcheck/internal/types"
)

func mustHold(t *testing.T, text string, res analyzer.Result) {
	t.Helper()
	if err := testkit.CheckResultInvariants(text, res); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func TestAnalyzeAllTypes(t *testing.T) {
	text := "int a = 10;\nfloat b = 12.5;\nboolean isActive = true;\nchar letra = 'A';\nString texto = \"Hello World\";"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)

	if n := res.DiagnosticCount(); n != 0 {
		t.Fatalf("expected no diagnostics, got %d: %+v", n, res.Diagnostics())
	}

	want := []struct {
		kind  types.Kind
		name  string
		value string
	}{
		{types.KindInt, "a", "10"},
		{types.KindFloat, "b", "12.5"},
		{types.KindBoolean, "isActive", "true"},
		{types.KindChar, "letra", "A"},
		{types.KindString, "texto", "Hello World"},
	}
	syms := res.Symbols()
	if len(syms) != len(want) {
		t.Fatalf("expected %d symbols, got %d", len(want), len(syms))
	}
	for i, w := range want {
		s := syms[i]
		if s.Line != uint32(i+1) || s.DataType != w.kind || s.Name != w.name || s.RawValue != w.value {
			t.Errorf("symbol %d = %+v, want line=%d %v %s=%s", i, s, i+1, w.kind, w.name, w.value)
		}
	}
	if syms[4].DataType.String() != "String" {
		t.Errorf("String type must be rendered capitalised, got %q", syms[4].DataType)
	}
}

func TestAnalyzeMissingSemicolon(t *testing.T) {
	text := "int x = 5"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)

	if res.SymbolCount() != 0 {
		t.Fatalf("expected no symbols, got %+v", res.Symbols())
	}
	diags := res.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Line != 1 || d.Code != diag.SynMissingSemicolon || d.Message != "missing semicolon at end of line" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("expected an insert-semicolon fix, got %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.Span.Start != 9 || edit.Span.End != 9 || edit.NewText != ";" {
		t.Fatalf("unexpected fix edit %+v", edit)
	}
}

func TestAnalyzeDuplicate(t *testing.T) {
	text := "int x = 5;\nint x = 7;"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)

	syms := res.Symbols()
	if len(syms) != 1 || syms[0].Name != "x" || syms[0].RawValue != "5" || syms[0].Line != 1 {
		t.Fatalf("expected only the first x, got %+v", syms)
	}
	diags := res.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Line != 2 || d.Code != diag.SemaDuplicateVariable || d.Message != "duplicate variable: x" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span != syms[0].Span {
		t.Fatalf("duplicate must point at the first declaration, got %+v", d.Notes)
	}
}

func TestAnalyzeDuplicateAcrossTypes(t *testing.T) {
	text := "int x = 5;\nString x = \"five\";"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)
	if res.SymbolCount() != 1 || res.DiagnosticCount() != 1 {
		t.Fatalf("expected 1 symbol and 1 diagnostic, got %d and %d", res.SymbolCount(), res.DiagnosticCount())
	}
	if got := res.Diagnostics()[0].Message; got != "duplicate variable: x" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAnalyzeInvalidDuplicateReportsLiteral(t *testing.T) {
	text := "int x = 5;\nint x = abc;"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)
	d := res.Diagnostics()
	if len(d) != 1 || d[0].Code != diag.LitBadInt {
		t.Fatalf("invalid duplicate must be reported as invalid literal, got %+v", d)
	}
}

func TestAnalyzeInvalidInt(t *testing.T) {
	text := "int x = abc;"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)
	if res.SymbolCount() != 0 {
		t.Fatalf("expected no symbols, got %+v", res.Symbols())
	}
	d := res.Diagnostics()
	if len(d) != 1 || d[0].Line != 1 || d[0].Code != diag.LitBadInt {
		t.Fatalf("unexpected diagnostics %+v", d)
	}
	if d[0].Message != "value assigned to an int-typed variable is not a valid integer" {
		t.Fatalf("unexpected message %q", d[0].Message)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	for _, text := range []string{"", "\n", "   \n\t\n  "} {
		res := analyzer.Analyze(text)
		mustHold(t, text, res)
		if !res.Empty() {
			t.Errorf("Analyze(%q) = %d diagnostics, %d symbols; want none", text, res.DiagnosticCount(), res.SymbolCount())
		}
	}
}

func TestAnalyzeTypeSpecificMessages(t *testing.T) {
	tests := []struct {
		line string
		code diag.Code
	}{
		{"int a = x;", diag.LitBadInt},
		{"float a = x;", diag.LitBadFloat},
		{"double a = x;", diag.LitBadDouble},
		{"String a = x;", diag.LitBadString},
		{"boolean a = x;", diag.LitBadBoolean},
		{"char a = x;", diag.LitBadChar},
		{"int;", diag.LitBadInt},
		{"char 1c = 'a';", diag.LitBadChar},
		{"boolean\tb = maybe;", diag.LitBadBoolean},
		{"long a = 1;", diag.SynUnsupportedStatement},
		{"string a = \"x\";", diag.SynUnsupportedStatement},
		{"intx = 1;", diag.SynUnsupportedStatement},
		{";", diag.SynUnsupportedStatement},
		{"a = 1;", diag.SynUnsupportedStatement},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := analyzer.Analyze(tt.line)
			mustHold(t, tt.line, res)
			d := res.Diagnostics()
			if len(d) != 1 || d[0].Code != tt.code {
				t.Fatalf("got %+v, want single %s", d, tt.code.ID())
			}
			generic := d[0].Message == "unsupported data type or invalid syntax"
			if generic != (tt.code == diag.SynUnsupportedStatement) {
				t.Fatalf("message %q does not match code %s", d[0].Message, tt.code.ID())
			}
		})
	}
}

func TestAnalyzeLineNumbering(t *testing.T) {
	text := "\n\nint a = 1;\n   \n\tint b = 2\n  char c = 'c';  \r\n"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)

	syms := res.Symbols()
	if len(syms) != 2 || syms[0].Line != 3 || syms[1].Line != 6 {
		t.Fatalf("unexpected symbol lines %+v", syms)
	}
	if syms[1].UniqueID != "c_6" {
		t.Fatalf("unexpected unique id %q", syms[1].UniqueID)
	}
	d := res.Diagnostics()
	if len(d) != 1 || d[0].Line != 5 || d[0].Code != diag.SynMissingSemicolon {
		t.Fatalf("unexpected diagnostics %+v", d)
	}
}

func TestAnalyzeSemicolonSpacing(t *testing.T) {
	text := "int a = 1 ;\nint b = 2;;"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)
	if res.SymbolCount() != 1 || res.Symbols()[0].Name != "a" {
		t.Fatalf("expected only a, got %+v", res.Symbols())
	}
	d := res.Diagnostics()
	if len(d) != 1 || d[0].Line != 2 || d[0].Code != diag.LitBadInt {
		t.Fatalf("double semicolon must fail the int grammar, got %+v", d)
	}
}

func TestAnalyzeCountsBounded(t *testing.T) {
	inputs := []string{
		"int a = 1;\nint a = 2;\nint b = x\n\nbogus;\nchar c = 'cc';",
		strings.Repeat("boolean ok = true;\n", 5),
		"String s = \"a\"b\";\nString t = \"\";",
	}
	for _, text := range inputs {
		res := analyzer.Analyze(text)
		mustHold(t, text, res)
		if got, limit := res.DiagnosticCount()+res.SymbolCount(), testkit.NonBlankLines(text); got > limit {
			t.Errorf("%d outputs for %d non-blank lines in %q", got, limit, text)
		}
	}
}

func TestAnalyzeFileSpans(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("first.decl", []byte("int z = 0;"))
	id := fs.AddVirtual("second.decl", []byte("int a = 1;\n  float b = oops;\n"))
	res := analyzer.AnalyzeFile(fs.Get(id))

	d := res.Diagnostics()
	if len(d) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(d))
	}
	if d[0].Primary.File != id {
		t.Fatalf("span must point into file %d, got %d", id, d[0].Primary.File)
	}
	start, end := fs.Resolve(d[0].Primary)
	if start.Line != 2 || start.Col != 3 || end.Col != 18 {
		t.Fatalf("unexpected resolved span %+v-%+v", start, end)
	}
	if syms := res.Symbols(); len(syms) != 1 || syms[0].Span.File != id {
		t.Fatalf("unexpected symbols %+v", syms)
	}

	if !analyzer.AnalyzeFile(nil).Empty() {
		t.Fatal("nil file must produce an empty result")
	}
}

func TestAnalyzeIndependentRuns(t *testing.T) {
	first := analyzer.Analyze("int x = 1;")
	second := analyzer.Analyze("int x = 2;")
	if first.SymbolCount() != 1 || second.SymbolCount() != 1 || second.DiagnosticCount() != 0 {
		t.Fatal("runs must not share a symbol table")
	}
}

func TestResultIsImmutable(t *testing.T) {
	res := analyzer.Analyze("int x = 1;\nbad")
	syms := res.Symbols()
	syms[0].Name = "changed"
	diags := res.Diagnostics()
	diags[0].Message = "changed"
	if res.Symbols()[0].Name != "x" || res.Diagnostics()[0].Message == "changed" {
		t.Fatal("accessors must return copies")
	}
}

func TestAnalyzeTrimsOnlyControlAndSpace(t *testing.T) {
	tests := []struct {
		name string
		text string
		code diag.Code // 0: symbol accepted
	}{
		{"trailing NUL", "int x = 5;\x00", 0},
		{"control chars around", "\x01\tint x = 5;\x1f\v", 0},
		{"trailing NBSP is content", "int x = 5;\u00a0", diag.SynMissingSemicolon},
		{"leading NBSP is content", "\u00a0int x = 5;", diag.SynUnsupportedStatement},
		{"ideographic space is content", "int x = 5;\u3000", diag.SynMissingSemicolon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyzer.Analyze(tt.text)
			mustHold(t, tt.text, res)
			if tt.code == 0 {
				if res.DiagnosticCount() != 0 || res.SymbolCount() != 1 {
					t.Fatalf("want one symbol, got %+v / %+v", res.Diagnostics(), res.Symbols())
				}
				return
			}
			if res.DiagnosticCount() != 1 || res.Diagnostics()[0].Code != tt.code {
				t.Fatalf("want %s, got %+v", tt.code.ID(), res.Diagnostics())
			}
		})
	}
}

func TestAnalyzeStringLiteralLineTerminators(t *testing.T) {
	for _, inner := range []string{"\r", "\u0085", "\u2028", "\u2029"} {
		text := "String s = \"a" + inner + "b\";"
		res := analyzer.Analyze(text)
		mustHold(t, text, res)
		if res.SymbolCount() != 0 || res.DiagnosticCount() != 1 || res.Diagnostics()[0].Code != diag.LitBadString {
			t.Errorf("%q: want LIT2004, got %+v / %+v", text, res.Diagnostics(), res.Symbols())
		}
	}

	text := "String s = \"a\tb\u00a0c\";"
	res := analyzer.Analyze(text)
	if res.SymbolCount() != 1 || res.Symbols()[0].RawValue != "a\tb\u00a0c" {
		t.Fatalf("tab and NBSP belong to the value, got %+v", res.Symbols())
	}
}

func TestAnalyzeVerticalTabSeparatesTokens(t *testing.T) {
	text := "int x =\v1;\nint\ty\v=\v2;"
	res := analyzer.Analyze(text)
	mustHold(t, text, res)
	if res.DiagnosticCount() != 0 || res.SymbolCount() != 2 {
		t.Fatalf("want two symbols, got %+v / %+v", res.Diagnostics(), res.Symbols())
	}
}
