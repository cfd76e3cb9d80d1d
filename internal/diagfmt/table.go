package diagfmt

import (
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"declcheck/internal/diag"
	"declcheck/internal/symbols"
)

// DiagnosticTable печатает диагностики двумя колонками (Line, Message) в
// исходном порядке.
func DiagnosticTable(w io.Writer, diags []diag.Diagnostic, opts TableOpts) error {
	rows := make([][]string, 0, len(diags))
	for _, d := range diags {
		rows = append(rows, []string{strconv.FormatUint(uint64(d.Line), 10), d.Message})
	}
	return writeTable(w, []string{"Line", "Message"}, rows, opts)
}

// SymbolTable печатает таблицу символов пятью колонками (Line, DataType,
// Name, RawValue, UniqueID) в порядке объявления.
func SymbolTable(w io.Writer, syms []symbols.Symbol, opts TableOpts) error {
	rows := make([][]string, 0, len(syms))
	for _, s := range syms {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(s.Line), 10),
			s.DataType.String(),
			s.Name,
			s.RawValue,
			s.UniqueID,
		})
	}
	return writeTable(w, []string{"Line", "DataType", "Name", "RawValue", "UniqueID"}, rows, opts)
}

func writeTable(w io.Writer, header []string, rows [][]string, opts TableOpts) error {
	cell := func(s string) string {
		// переводы строк ломают выравнивание
		s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
		if opts.MaxCellWidth > 0 && runewidth.StringWidth(s) > opts.MaxCellWidth {
			return runewidth.Truncate(s, opts.MaxCellWidth, "...")
		}
		return s
	}

	widths := make([]int, len(header))
	if !opts.NoHeader {
		for i, h := range header {
			widths[i] = runewidth.StringWidth(h)
		}
	}
	for r := range rows {
		for i := range rows[r] {
			rows[r][i] = cell(rows[r][i])
			widths[i] = max(widths[i], runewidth.StringWidth(rows[r][i]))
		}
	}

	var sb strings.Builder
	writeRow := func(cols []string) {
		for i, c := range cols {
			if i == len(cols)-1 {
				// последнюю колонку не дополняем пробелами
				sb.WriteString(c)
				break
			}
			sb.WriteString(runewidth.FillRight(c, widths[i]))
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
	}

	if !opts.NoHeader {
		writeRow(header)
		sep := make([]string, len(header))
		for i := range header {
			sep[i] = strings.Repeat("-", widths[i])
		}
		writeRow(sep)
	}
	for _, row := range rows {
		writeRow(row)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
