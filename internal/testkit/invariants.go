package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"declcheck/internal/analyzer"
	"declcheck/internal/symbols"
)

// CheckResultInvariants verifies the structural guarantees of an analysis of text:
// 1) every non-blank line yields exactly one diagnostic or one symbol, never both
// 2) blank lines yield nothing and line numbers stay within the input
// 3) diagnostics are in line order, symbols in strictly increasing line order
// 4) symbol names are unique and UniqueID == Name + "_" + Line
// 5) every span lies within text and covers the trimmed line it reports on
func CheckResultInvariants(text string, res analyzer.Result) error {
	lines := []string{}
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	total, err := safecast.Conv[uint32](len(lines))
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}
	textLen, err := safecast.Conv[uint32](len(text))
	if err != nil {
		return fmt.Errorf("text length overflow: %w", err)
	}

	used := make(map[uint32]string, len(lines))
	claim := func(line uint32, what string) error {
		if line == 0 || line > total {
			return fmt.Errorf("%s reported on line %d, input has %d lines", what, line, total)
		}
		if analyzer.TrimLine(lines[line-1]) == "" {
			return fmt.Errorf("%s reported on blank line %d", what, line)
		}
		if prev, ok := used[line]; ok {
			return fmt.Errorf("line %d produced both %s and %s", line, prev, what)
		}
		used[line] = what
		return nil
	}
	checkSpan := func(line uint32, start, end uint32, what string) error {
		if start > end || end > textLen {
			return fmt.Errorf("%s on line %d has span %d-%d outside text of %d bytes", what, line, start, end, textLen)
		}
		if got, want := text[start:end], analyzer.TrimLine(lines[line-1]); got != want {
			return fmt.Errorf("%s on line %d spans %q, want %q", what, line, got, want)
		}
		return nil
	}

	var lastLine uint32
	for _, d := range res.Diagnostics() {
		if err := claim(d.Line, "diagnostic"); err != nil {
			return err
		}
		if d.Line < lastLine {
			return fmt.Errorf("diagnostic on line %d follows line %d", d.Line, lastLine)
		}
		lastLine = d.Line
		if err := checkSpan(d.Line, d.Primary.Start, d.Primary.End, "diagnostic"); err != nil {
			return err
		}
	}

	lastLine = 0
	names := make(map[string]uint32)
	for _, s := range res.Symbols() {
		if err := claim(s.Line, "symbol"); err != nil {
			return err
		}
		if s.Line <= lastLine {
			return fmt.Errorf("symbol on line %d follows line %d", s.Line, lastLine)
		}
		lastLine = s.Line
		if prev, dup := names[s.Name]; dup {
			return fmt.Errorf("symbol %q accepted on lines %d and %d", s.Name, prev, s.Line)
		}
		names[s.Name] = s.Line
		if want := symbols.UniqueID(s.Name, s.Line); s.UniqueID != want {
			return fmt.Errorf("symbol %q has unique id %q, want %q", s.Name, s.UniqueID, want)
		}
		if s.Scope != symbols.ScopeLocal {
			return fmt.Errorf("symbol %q has scope %q", s.Name, s.Scope)
		}
		if !s.DataType.Valid() {
			return fmt.Errorf("symbol %q has invalid data type %v", s.Name, s.DataType)
		}
		if err := checkSpan(s.Line, s.Span.Start, s.Span.End, "symbol"); err != nil {
			return err
		}
	}

	if got, want := len(used), NonBlankLines(text); got != want {
		return fmt.Errorf("%d of %d non-blank lines produced a diagnostic or symbol", got, want)
	}
	return nil
}

// NonBlankLines counts the lines of text that are not empty after analyzer.TrimLine.
func NonBlankLines(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, l := range strings.Split(text, "\n") {
		if analyzer.TrimLine(l) != "" {
			n++
		}
	}
	return n
}
