package symbols

import (
	"testing"

	"declcheck/internal/source"
	"declcheck/internal/types"
)

func TestUniqueID(t *testing.T) {
	tests := []struct {
		name string
		line uint32
		want string
	}{
		{"a", 1, "a_1"},
		{"isActive", 3, "isActive_3"},
		{"_x9", 120, "_x9_120"},
	}
	for _, tt := range tests {
		if got := UniqueID(tt.name, tt.line); got != tt.want {
			t.Errorf("UniqueID(%q, %d) = %q, want %q", tt.name, tt.line, got, tt.want)
		}
	}
}

func TestNewSymbol(t *testing.T) {
	sp := source.Span{File: 2, Start: 4, End: 15}
	sym := New(7, types.KindChar, "letra", "A", sp)
	if sym.UniqueID != "letra_7" || sym.Scope != ScopeLocal || sym.Span != sp {
		t.Fatalf("unexpected symbol %+v", sym)
	}
}

func TestTableDeclareKeepsFirst(t *testing.T) {
	table := NewTable(4)

	first := New(1, types.KindInt, "x", "5", source.Span{})
	if _, ok := table.Declare(first); !ok {
		t.Fatal("first declaration must succeed")
	}

	prev, ok := table.Declare(New(2, types.KindInt, "x", "7", source.Span{}))
	if ok {
		t.Fatal("second declaration of x must fail")
	}
	if prev != first {
		t.Fatalf("expected previous symbol %+v, got %+v", first, prev)
	}

	got, found := table.Lookup("x")
	if !found || got.RawValue != "5" || got.Line != 1 {
		t.Fatalf("table must keep the first declaration, got %+v", got)
	}
	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
}

func TestTableSymbolsOrderAndCopy(t *testing.T) {
	table := NewTable(-1)
	names := []string{"c", "a", "b"}
	for i, n := range names {
		table.Declare(New(uint32(i+1), types.KindBoolean, n, "true", source.Span{}))
	}

	syms := table.Symbols()
	for i, n := range names {
		if syms[i].Name != n {
			t.Fatalf("symbol %d: got %q, want %q", i, syms[i].Name, n)
		}
	}

	syms[0].Name = "mutated"
	if got, _ := table.Lookup("c"); got.Name != "c" {
		t.Fatal("Symbols() must return a copy")
	}
	if _, ok := table.Lookup("mutated"); ok {
		t.Fatal("mutating the copy must not affect the table")
	}
}
