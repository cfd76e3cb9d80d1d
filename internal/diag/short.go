package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"declcheck/internal/source"
)

// shortLine одна строка формата short; поля в порядке сортировки.
type shortLine struct {
	path  string
	line  uint32
	col   uint32
	label string
	code  string
	msg   string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.label, b.label),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatShortDiagnostics renders one line per diagnostic, used by
// `--format short` and by golden tests:
//
//	error SYN1001 path/to/file.decl:3:1 missing semicolon at end of line
//
// Notes become "note" lines under the parent's code when includeNotes is set.
// Spans pointing outside fs are skipped.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	lines := make([]shortLine, 0, len(diags))
	add := func(label string, code Code, span source.Span, msg string) {
		file := fs.Get(span.File)
		if file == nil {
			return
		}
		start, _ := fs.Resolve(span)
		lines = append(lines, shortLine{
			path:  shortPath(file, fs.BaseDir()),
			line:  start.Line,
			col:   start.Col,
			label: label,
			code:  code.ID(),
			msg:   oneLine(msg),
		})
	}

	for i := range diags {
		d := &diags[i]
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			add("note", d.Code, n.Span, n.Msg)
		}
	}
	slices.SortStableFunc(lines, compareShort)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func shortPath(file *source.File, baseDir string) string {
	p := filepath.ToSlash(file.FormatPath("relative", baseDir))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// oneLine склеивает многострочное сообщение в одну строку.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.Join(strings.FieldsFunc(msg, func(r rune) bool {
		return r == '\n' || r == '\r'
	}), " "))
}
