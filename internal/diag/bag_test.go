package diag

import (
	"testing"

	"declcheck/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := uint32(1); i <= 4; i++ {
		bag.Add(NewError(SynMissingSemicolon, i, source.Span{}, "missing semicolon at end of line"))
	}
	if bag.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", bag.Len())
	}
	if bag.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Fatal("expected HasErrors")
	}
}

func TestBagUnlimited(t *testing.T) {
	bag := NewBag(0)
	for i := uint32(1); i <= 100; i++ {
		bag.Add(New(SevInfo, SynInfo, i, source.Span{}, "info"))
	}
	if bag.Len() != 100 || bag.Dropped() != 0 {
		t.Fatalf("unexpected bag state len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	if bag.HasErrors() {
		t.Fatal("info diagnostics must not count as errors")
	}
}

func TestBagAddAllKeepsOrder(t *testing.T) {
	bag := NewBag(2)
	bag.AddAll([]Diagnostic{
		NewError(LitBadInt, 1, source.Span{}, "a"),
		NewError(LitBadFloat, 2, source.Span{}, "b"),
		NewError(LitBadDouble, 3, source.Span{}, "c"),
	})
	items := bag.Items()
	if len(items) != 2 || items[0].Line != 1 || items[1].Line != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
	if bag.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", bag.Dropped())
	}
}
