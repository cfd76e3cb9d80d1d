package symbols

import (
	"strconv"

	"declcheck/internal/source"
	"declcheck/internal/types"
)

// ScopeLocal is the only scope tag: the language has a single flat namespace.
const ScopeLocal = "local"

// Symbol is a successfully validated declaration.
type Symbol struct {
	Line     uint32
	DataType types.Kind
	Name     string
	RawValue string // literal as written, quotes stripped for String/char
	UniqueID string
	Scope    string
	Span     source.Span
}

// UniqueID derives the display identifier of a declaration: name + "_" + line.
func UniqueID(name string, line uint32) string {
	return name + "_" + strconv.FormatUint(uint64(line), 10)
}

// New builds a local symbol with its derived unique id.
func New(line uint32, kind types.Kind, name, raw string, span source.Span) Symbol {
	return Symbol{
		Line:     line,
		DataType: kind,
		Name:     name,
		RawValue: raw,
		UniqueID: UniqueID(name, line),
		Scope:    ScopeLocal,
		Span:     span,
	}
}
