package diagfmt

import (
	"encoding/json"
	"io"

	"declcheck/internal/diag"
	"declcheck/internal/source"
	"declcheck/internal/symbols"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Line     uint32       `json:"line"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// SymbolJSON is one row of the symbol table.
type SymbolJSON struct {
	Line     uint32 `json:"line"`
	DataType string `json:"data_type"`
	Name     string `json:"name"`
	RawValue string `json:"raw_value"`
	UniqueID string `json:"unique_id"`
	Scope    string `json:"scope"`
}

// FileJSON groups the output of one file.
type FileJSON struct {
	Path        string           `json:"path"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Symbols     []SymbolJSON     `json:"symbols,omitempty"`
	Dropped     int              `json:"dropped,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		File:      displayPath(fs, span.File, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}

	// Добавляем позиции строк/колонок если требуется
	if includePositions {
		startPos, endPos := resolve(fs, span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// opts.Max ограничивает общее число диагностик по всем файлам.
func BuildDiagnosticsOutput(files []FileReport, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	output := DiagnosticsOutput{Files: make([]FileJSON, 0, len(files))}

	for _, report := range files {
		fileJSON := FileJSON{
			Path:        displayPath(fs, report.File, opts.PathMode),
			Diagnostics: make([]DiagnosticJSON, 0),
		}
		if report.Bag != nil {
			fileJSON.Dropped = report.Bag.Dropped()
			for _, d := range report.Bag.Items() {
				if opts.Max > 0 && output.Count >= opts.Max {
					fileJSON.Dropped++
					continue
				}
				fileJSON.Diagnostics = append(fileJSON.Diagnostics, buildDiagnostic(&d, fs, opts))
				output.Count++
			}
		}
		if opts.IncludeSymbols {
			fileJSON.Symbols = buildSymbols(report.Symbols)
		}
		output.Files = append(output.Files, fileJSON)
	}
	return output
}

func buildDiagnostic(d *diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	diagJSON := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Line:     d.Line,
		Message:  d.Message,
		Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
	}

	if opts.IncludeNotes && len(d.Notes) > 0 {
		diagJSON.Notes = make([]NoteJSON, len(d.Notes))
		for j, note := range d.Notes {
			diagJSON.Notes[j] = NoteJSON{
				Message:  note.Msg,
				Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
			}
		}
	}

	if opts.IncludeFixes && len(d.Fixes) > 0 {
		diagJSON.Fixes = make([]FixJSON, 0, len(d.Fixes))
		for _, fix := range d.Fixes {
			fixJSON := FixJSON{Title: fix.Title}
			for _, edit := range fix.Edits {
				editJSON := FixEditJSON{
					Location: makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions),
					NewText:  edit.NewText,
					OldText:  edit.OldText,
				}
				if opts.IncludePreviews {
					if preview, err := buildFixEditPreview(fs, edit); err == nil {
						editJSON.BeforeLines = preview.before
						editJSON.AfterLines = preview.after
					}
				}
				fixJSON.Edits = append(fixJSON.Edits, editJSON)
			}
			diagJSON.Fixes = append(diagJSON.Fixes, fixJSON)
		}
	}
	return diagJSON
}

func buildSymbols(syms []symbols.Symbol) []SymbolJSON {
	out := make([]SymbolJSON, 0, len(syms))
	for _, s := range syms {
		out = append(out, SymbolJSON{
			Line:     s.Line,
			DataType: s.DataType.String(),
			Name:     s.Name,
			RawValue: s.RawValue,
			UniqueID: s.UniqueID,
			Scope:    s.Scope,
		})
	}
	return out
}

// JSON форматирует результаты в JSON формат.
func JSON(w io.Writer, files []FileReport, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(files, fs, opts))
}
