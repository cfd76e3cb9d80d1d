package types

import "testing"

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.Keyword())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", k.Keyword(), got, ok, k)
		}
	}
	if len(Kinds()) != Count || Count != 6 {
		t.Fatalf("expected 6 kinds, got %d (Count=%d)", len(Kinds()), Count)
	}
}

func TestParseKindRejects(t *testing.T) {
	for _, kw := range []string{"", "string", "Int", "bool", "long", "var"} {
		if k, ok := ParseKind(kw); ok {
			t.Errorf("ParseKind(%q) unexpectedly returned %v", kw, k)
		}
	}
}

func TestKindText(t *testing.T) {
	text, err := KindString.MarshalText()
	if err != nil || string(text) != "String" {
		t.Fatalf("MarshalText = %q, %v", text, err)
	}
	if _, err := KindInvalid.MarshalText(); err == nil {
		t.Fatal("expected error for invalid kind")
	}

	var k Kind
	if err := k.UnmarshalText([]byte("boolean")); err != nil || k != KindBoolean {
		t.Fatalf("UnmarshalText = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("bool")); err == nil {
		t.Fatal("expected error for unknown keyword")
	}
	if Kind(42).String() != "Kind(42)" || Kind(42).Keyword() != "" {
		t.Fatalf("unexpected out-of-range rendering")
	}
}
