package fix

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"declcheck/internal/diag"
	"declcheck/internal/source"
)

var (
	// ErrNoFixes is returned when no fixes were applied.
	ErrNoFixes = errors.New("no applicable fixes found")
	// ErrOverlap is returned by Apply when two edits touch the same bytes.
	ErrOverlap = errors.New("overlapping edits")
	// ErrGuardMismatch is returned when an edit's OldText differs from the content.
	ErrGuardMismatch = errors.New("existing text does not match expected content")
	// ErrOutOfRange is returned for edits outside the content.
	ErrOutOfRange = errors.New("edit span out of range")
	// ErrVirtualFile is returned when fixes target a file that is not on disk.
	ErrVirtualFile = errors.New("target file is virtual")
)

// SkippedFix captures a fix that Collect did not select, with a reason.
type SkippedFix struct {
	Line   uint32
	Code   diag.Code
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte // новое содержимое в кодировке исходного файла
	Skipped   []SkippedFix
	Written   bool
}

// Options configures ApplyFile.
type Options struct {
	DryRun bool // не записывать файл
}

// Collect gathers the edits of the first fix of every diagnostic, in
// diagnostic order. Fixes without edits or conflicting with an already
// selected fix are skipped.
func Collect(diagnostics []diag.Diagnostic) ([]diag.FixEdit, []SkippedFix) {
	edits := make([]diag.FixEdit, 0)
	skips := make([]SkippedFix, 0)

	for _, d := range diagnostics {
		if len(d.Fixes) == 0 {
			continue
		}
		f := d.Fixes[0]
		skip := func(reason string) {
			skips = append(skips, SkippedFix{Line: d.Line, Code: d.Code, Title: f.Title, Reason: reason})
		}
		if len(f.Edits) == 0 {
			skip("fix has no edits")
			continue
		}
		if conflictsWithExisting(edits, f.Edits) {
			skip("conflicts with previously selected edits")
			continue
		}
		edits = append(edits, f.Edits...)
	}
	return edits, skips
}

// Apply applies non-overlapping edits to content back to front and returns
// the new content with the number of applied edits. It is all or nothing:
// on error content is returned unchanged. Spans are byte offsets into
// content; their FileID is ignored.
func Apply(content []byte, edits []diag.FixEdit) ([]byte, int, error) {
	if len(edits) == 0 {
		return content, 0, nil
	}

	for i := range edits {
		e := edits[i]
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(content) {
			return content, 0, fmt.Errorf("edit %s: %w", e.Span, ErrOutOfRange)
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return content, 0, fmt.Errorf("edit %s: %w", e.Span, ErrGuardMismatch)
		}
		for j := i + 1; j < len(edits); j++ {
			if rangesOverlap(e.Span, edits[j].Span) {
				return content, 0, fmt.Errorf("edits %s and %s: %w", e.Span, edits[j].Span, ErrOverlap)
			}
		}
	}

	// с конца, чтобы смещения ещё не применённых правок не сдвигались;
	// вставки в одну позицию сохраняют исходный порядок
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := edits[order[a]], edits[order[b]]
		if ea.Span.Start != eb.Span.Start {
			return ea.Span.Start > eb.Span.Start
		}
		if ea.Span.End != eb.Span.End {
			return ea.Span.End > eb.Span.End
		}
		return order[a] > order[b]
	})

	working := append([]byte(nil), content...)
	for _, idx := range order {
		e := edits[idx]
		suffix := append([]byte(nil), working[e.Span.End:]...)
		working = append(append(working[:e.Span.Start], e.NewText...), suffix...)
	}
	return working, len(edits), nil
}

// ApplyFile applies the fixes of diagnostics that point into file id and,
// unless opts.DryRun is set, writes the result back to disk. The file's BOM
// and CRLF line endings are restored before writing.
func ApplyFile(fs *source.FileSet, id source.FileID, diagnostics []diag.Diagnostic, opts Options) (*FileChange, error) {
	if fs == nil {
		return nil, fmt.Errorf("fix: FileSet is nil")
	}
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("fix: unknown file %d", id)
	}

	own := make([]diag.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if d.Primary.File == id {
			own = append(own, d)
		}
	}

	edits, skipped := Collect(own)
	change := &FileChange{
		Path:    file.FormatPath("relative", fs.BaseDir()),
		Skipped: skipped,
	}
	if len(edits) == 0 {
		return change, ErrNoFixes
	}

	out, n, err := Apply(file.Content, edits)
	if err != nil {
		return change, err
	}
	change.EditCount = n
	change.Content = RestoreEncoding(out, file.Flags)

	if opts.DryRun {
		return change, nil
	}
	if file.Flags&source.FileVirtual != 0 {
		return change, ErrVirtualFile
	}
	if err := writeFile(file.Path, change.Content); err != nil {
		return change, err
	}
	change.Written = true
	return change, nil
}

// RestoreEncoding undoes the BOM and CRLF normalisation done on load.
func RestoreEncoding(content []byte, flags source.FileFlags) []byte {
	if flags&source.FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if flags&source.FileHadBOM != 0 {
		content = append([]byte{0xEF, 0xBB, 0xBF}, content...)
	}
	return content
}

func writeFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func conflictsWithExisting(existing []diag.FixEdit, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two text edits in the same file overlap.
func spansConflict(a, b diag.FixEdit) bool {
	return a.Span.File == b.Span.File && rangesOverlap(a.Span, b.Span)
}

// rangesOverlap treats spans as half-open intervals [Start, End). Two
// zero-length spans never overlap. A zero-length span overlaps a non-empty
// one only when its position is strictly inside it.
func rangesOverlap(a, b source.Span) bool {
	if a.Empty() && b.Empty() {
		return false
	}
	if a.Empty() {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}
