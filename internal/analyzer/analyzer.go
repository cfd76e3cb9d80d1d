package analyzer

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"fortio.org/safecast"

	"declcheck/internal/diag"
	"declcheck/internal/fix"
	"declcheck/internal/source"
	"declcheck/internal/symbols"
	"declcheck/internal/types"
)

// Analyze checks every line of text. Spans in the result refer to file 0.
func Analyze(text string) Result {
	return analyze(0, text)
}

// AnalyzeFile checks a file loaded into a source.FileSet; spans in the
// result point into f.
func AnalyzeFile(f *source.File) Result {
	if f == nil {
		return Result{}
	}
	return analyze(f.ID, string(f.Content))
}

// analyzer holds the state of a single run.
type analyzer struct {
	file     source.FileID
	table    *symbols.Table
	reporter diag.SliceReporter
}

func analyze(file source.FileID, text string) Result {
	if text == "" {
		return Result{}
	}

	lines := strings.Split(text, "\n")
	a := &analyzer{
		file:  file,
		table: symbols.NewTable(len(lines)),
	}

	offset := 0
	for i, raw := range lines {
		a.checkLine(lineNumber(i), raw, offset)
		offset += len(raw) + 1
	}

	return Result{
		diagnostics: a.reporter.Items,
		symbols:     a.table.Symbols(),
	}
}

// lineNumber saturates past 2^32-1 lines instead of failing.
func lineNumber(idx int) uint32 {
	n, err := safecast.Conv[uint32](idx + 1)
	if err != nil {
		return math.MaxUint32
	}
	return n
}

// isBlank reports the characters TrimLine strips: U+0000 through U+0020.
// Unicode spaces above that, such as U+00A0, are content.
func isBlank(r rune) bool {
	return r <= ' '
}

// TrimLine strips leading and trailing blanks (control characters and the
// ASCII space) from s. Lines that trim to "" are blank.
func TrimLine(s string) string {
	return strings.TrimFunc(s, isBlank)
}

// checkLine processes one physical line. offset is the byte offset of raw
// within the analysed text.
func (a *analyzer) checkLine(line uint32, raw string, offset int) {
	trimmed := TrimLine(raw)
	if trimmed == "" {
		return
	}
	lead := len(raw) - len(strings.TrimLeftFunc(raw, isBlank))
	span := source.NewSpan(a.file, offset+lead, offset+lead+len(trimmed))

	if !strings.HasSuffix(trimmed, ";") {
		diag.ReportError(&a.reporter, diag.SynMissingSemicolon, line, span, msgMissingSemicolon).
			WithFixSuggestion(fix.AppendAt("insert ';'", span, ";")).
			Emit()
		return
	}

	body := TrimLine(strings.TrimSuffix(trimmed, ";"))

	// ParseKind yields KindInvalid for unknown keywords, which has no rule.
	kind, _ := types.ParseKind(leadingKeyword(body))
	r, ok := ruleFor(kind)
	if !ok {
		diag.ReportError(&a.reporter, diag.SynUnsupportedStatement, line, span, msgUnsupported).Emit()
		return
	}
	a.declare(line, span, r, body)
}

// declare validates body against r and records the symbol. The grammar is
// checked before the table so an invalid duplicate reports its literal.
func (a *analyzer) declare(line uint32, span source.Span, r rule, body string) {
	name, value, ok := r.match(body)
	if !ok {
		diag.ReportError(&a.reporter, r.code, line, span, r.message).Emit()
		return
	}

	prev, ok := a.table.Declare(symbols.New(line, r.kind, name, value, span))
	if !ok {
		diag.ReportError(&a.reporter, diag.SemaDuplicateVariable, line, span, msgDuplicatePrefix+name).
			WithNote(prev.Span, fmt.Sprintf("%s first declared here (line %d)", name, prev.Line)).
			Emit()
	}
}

// leadingKeyword returns the first whitespace-delimited word of body.
func leadingKeyword(body string) string {
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		return body[:i]
	}
	return body
}
