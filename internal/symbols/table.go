package symbols

// Table is the per-run symbol table. It is built fresh for every analysis
// and never shared between runs.
type Table struct {
	byName map[string]int // name -> index in order
	order  []Symbol
}

// NewTable builds an empty table. capHint is only a sizing hint.
func NewTable(capHint int) *Table {
	if capHint < 0 {
		capHint = 0
	}
	return &Table{
		byName: make(map[string]int, capHint),
		order:  make([]Symbol, 0, capHint),
	}
}

// Lookup returns the accepted symbol for name.
func (t *Table) Lookup(name string) (Symbol, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Symbol{}, false
	}
	return t.order[idx], true
}

// Declare inserts sym unless its name is already taken. On conflict the
// existing symbol is returned with ok=false and the table is left untouched.
func (t *Table) Declare(sym Symbol) (prev Symbol, ok bool) {
	if idx, exists := t.byName[sym.Name]; exists {
		return t.order[idx], false
	}
	t.byName[sym.Name] = len(t.order)
	t.order = append(t.order, sym)
	return Symbol{}, true
}

// Len returns the number of accepted symbols.
func (t *Table) Len() int {
	return len(t.order)
}

// Symbols returns a copy of the accepted symbols in insertion order.
func (t *Table) Symbols() []Symbol {
	out := make([]Symbol, len(t.order))
	copy(out, t.order)
	return out
}
