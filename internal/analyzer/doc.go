// Package analyzer validates declaration lines of the form
//
//	<type> <identifier> = <literal>;
//
// and reports one diagnostic per malformed line plus the table of accepted
// symbols. Supported types are int, float, double, String, boolean and char.
//
// Analyze is total: every input, including the empty string, produces a
// Result and malformed lines become diagnostics rather than errors. Each call
// owns its own symbol table, so concurrent calls on different inputs need no
// synchronisation.
//
// Literals are classified, never evaluated: Symbol.RawValue keeps the text as
// written (without the surrounding quotes of String and char literals).
//
// Offsets and line numbers are uint32, so input is addressable up to 4 GiB
// (source.MaxContentSize). Beyond that spans and line numbers saturate at
// math.MaxUint32 instead of wrapping; the driver rejects such files up front
// with source.ErrContentTooLarge.
package analyzer
