package analyzer

import (
	"declcheck/internal/diag"
	"declcheck/internal/symbols"
)

// Result is the outcome of one analysis run. Diagnostics are in line order,
// symbols in first-declaration order. A Result is never modified after it
// is returned; accessors hand out copies.
type Result struct {
	diagnostics []diag.Diagnostic
	symbols     []symbols.Symbol
}

// NewResult builds a Result from already ordered collections. Both slices are copied.
func NewResult(diags []diag.Diagnostic, syms []symbols.Symbol) Result {
	return Result{
		diagnostics: append([]diag.Diagnostic(nil), diags...),
		symbols:     append([]symbols.Symbol(nil), syms...),
	}
}

// Diagnostics returns a copy of the reported problems.
func (r Result) Diagnostics() []diag.Diagnostic {
	return append([]diag.Diagnostic(nil), r.diagnostics...)
}

// Symbols returns a copy of the accepted declarations.
func (r Result) Symbols() []symbols.Symbol {
	return append([]symbols.Symbol(nil), r.symbols...)
}

// DiagnosticCount is len(Diagnostics()) without the copy.
func (r Result) DiagnosticCount() int { return len(r.diagnostics) }

// SymbolCount is len(Symbols()) without the copy.
func (r Result) SymbolCount() int { return len(r.symbols) }

// HasErrors reports whether any diagnostic has error severity.
func (r Result) HasErrors() bool {
	for i := range r.diagnostics {
		if r.diagnostics[i].Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// Empty reports whether the run produced neither diagnostics nor symbols.
func (r Result) Empty() bool {
	return len(r.diagnostics) == 0 && len(r.symbols) == 0
}
