package diag

import "declcheck/internal/source"

func New(sev Severity, code Code, line uint32, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Line:     line,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, line uint32, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, line, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

func (d Diagnostic) WithFixSuggestion(f Fix) Diagnostic {
	d.Fixes = append(d.Fixes, f)
	return d
}
