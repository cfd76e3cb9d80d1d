package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"declcheck/internal/diag"
	"declcheck/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, fix, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.fix, p.gutter, p.caret, p.bold} {
		// opts.Color решает, а не глобальный color.NoColor
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() в текущем порядке.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	pw := &prettyWriter{w: w}

	for _, d := range bag.Items() {
		writeDiagnostic(pw, &d, fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		pw.printf("... %d more diagnostic(s) not shown\n", n)
	}
	return pw.err
}

// prettyWriter запоминает первую ошибку записи.
type prettyWriter struct {
	w   io.Writer
	err error
}

func (pw *prettyWriter) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, format, args...)
}

func writeDiagnostic(pw *prettyWriter, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	loc := formatLocation(fs, d.Primary, opts.PathMode)
	pw.printf("%s: %s %s: %s\n",
		p.bold.Sprint(loc),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.severity(d.Severity).Sprint(d.Code.ID()),
		d.Message,
	)

	writeSnippet(pw, fs, d.Primary, opts, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			pw.printf("  %s %s: %s\n", p.note.Sprint("note:"), formatLocation(fs, n.Span, opts.PathMode), n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			pw.printf("  %s %s\n", p.fix.Sprintf("fix #%d:", i+1), fix.Title)
			for _, edit := range fix.Edits {
				start, end := resolve(fs, edit.Span)
				pw.printf("    edit %d:%d-%d:%d apply=%s\n", start.Line, start.Col, end.Line, end.Col, strconv.Quote(edit.NewText))
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				pw.printf("    preview:\n")
				for _, line := range preview.before {
					pw.printf("      - %s\n", line)
				}
				for _, line := range preview.after {
					pw.printf("      + %s\n", line)
				}
			}
		}
	}
}

func formatLocation(fs *source.FileSet, span source.Span, mode PathMode) string {
	path := displayPath(fs, span.File, mode)
	start, _ := resolve(fs, span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// resolve is fs.Resolve tolerant to unknown files.
func resolve(fs *source.FileSet, span source.Span) (start, end source.LineCol) {
	if fs == nil || fs.Get(span.File) == nil {
		return source.LineCol{Line: 1, Col: 1}, source.LineCol{Line: 1, Col: 1}
	}
	return fs.Resolve(span)
}

// writeSnippet печатает строки вокруг span и подчёркивание под первой из них.
func writeSnippet(pw *prettyWriter, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	if fs == nil {
		return
	}
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	lineCount := f.LineCount()
	if start.Line > lineCount {
		return
	}

	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, lineCount)
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		pw.printf("%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), clip(expandTabs(text), opts.Width))
		if ln != start.Line {
			continue
		}

		// подчёркивание до конца строки, если span многострочный
		underlineEnd := end.Col
		if end.Line != start.Line {
			underlineEnd = uint32(len(text)) + 1
		}
		pad, width := caretGeometry(text, start.Col, underlineEnd)
		pw.printf("%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline(width)))
	}
}

// caretGeometry returns the display column of the 1-based byte column
// startCol and the display width of the [startCol, endCol) byte range.
func caretGeometry(line string, startCol, endCol uint32) (pad, width int) {
	s := min(int(startCol)-1, len(line))
	e := min(max(int(endCol)-1, s), len(line))
	pad = runewidth.StringWidth(expandTabs(line[:s]))
	width = runewidth.StringWidth(expandTabs(line[:e])) - pad
	return pad, width
}

func underline(width int) string {
	if width <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
