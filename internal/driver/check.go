package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"declcheck/internal/analyzer"
	"declcheck/internal/diag"
	"declcheck/internal/observ"
	"declcheck/internal/source"
	"declcheck/internal/trace"
)

// ErrEmptyInput is returned for text that is empty or contains only
// whitespace; the analyzer is not called for it.
var ErrEmptyInput = errors.New("input is empty")

// StdinName is the virtual path used for text read from standard input.
const StdinName = "<stdin>"

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path   string          // путь как он был передан или найден
	FileID source.FileID   // ID в Files
	Files  *source.FileSet // набор файлов, к которому относятся спаны
	Bag    *diag.Bag       // диагностики с учётом MaxDiagnostics
	Result analyzer.Result // полный результат анализатора
	Timing *observ.Report  // nil, если EnableTimings выключен
	Cached bool            // результат взят из DiskCache
}

// File returns the source file the result refers to.
func (r *FileResult) File() *source.File {
	if r == nil || r.Files == nil {
		return nil
	}
	return r.Files.Get(r.FileID)
}

// CheckText analyses in-memory text registered under name (StdinName when
// empty). Empty or whitespace-only text yields ErrEmptyInput.
func CheckText(ctx context.Context, name, text string, opts Options) (*FileResult, error) {
	if analyzer.TrimLine(text) == "" {
		return nil, ErrEmptyInput
	}
	if uint64(len(text)) > source.MaxContentSize {
		return nil, source.ErrContentTooLarge
	}
	if name == "" {
		name = StdinName
	}

	cache, err := opts.openCache()
	if err != nil {
		trace.Error(trace.FromContext(ctx), trace.ScopeCache, "open", err)
		cache = nil
	}

	fs := source.NewFileSet()
	content, flags := source.Normalize([]byte(text), source.LoadOptions{NormalizeNFC: opts.NormalizeNFC})
	id := fs.AddVirtual(name, content)
	fs.Get(id).Flags |= flags
	res := checkLoaded(ctx, fs, id, opts, cache, nil)
	return &res, nil
}

// CheckFile loads path from disk and analyses it. A file with only
// whitespace yields ErrEmptyInput, like CheckText.
func CheckFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	tracer := trace.FromContext(ctx)

	cache, err := opts.openCache()
	if err != nil {
		trace.Error(tracer, trace.ScopeCache, "open", err)
		cache = nil
	}

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}

	fs := source.NewFileSet()
	loadIdx := beginPhase(timer, "load")
	id, err := fs.LoadWithOptions(path, source.LoadOptions{NormalizeNFC: opts.NormalizeNFC})
	endPhase(timer, loadIdx, "")
	if err != nil {
		trace.Error(tracer, trace.ScopeFile, path, err)
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if analyzer.TrimLine(string(fs.Get(id).Content)) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}

	res := checkLoaded(ctx, fs, id, opts, cache, timer)
	return &res, nil
}

// checkLoaded analyses one file already present in fs, consulting cache
// when it is non-nil. timer may be nil; a fresh one is created when timings
// are enabled.
func checkLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options, cache *DiskCache, timer *observ.Timer) FileResult {
	file := fs.Get(id)
	tracer := trace.FromContext(ctx)
	_, span := trace.StartSpan(ctx, trace.ScopeFile, file.Path)

	if timer == nil && opts.EnableTimings {
		timer = observ.NewTimer()
	}

	out := FileResult{
		Path:   file.Path,
		FileID: id,
		Files:  fs,
	}

	var payload DiskPayload
	hit := false
	if cache != nil {
		var err error
		hit, err = cache.Get(file.Hash, &payload)
		if err != nil {
			// битая запись = промах
			trace.Error(tracer, trace.ScopeCache, "get", err)
			hit = false
		}
	}

	if hit {
		trace.Point(tracer, trace.ScopeCache, "hit", file.Path)
		idx := beginPhase(timer, "restore")
		out.Result = diskPayloadToResult(&payload, id)
		endPhase(timer, idx, "")
		out.Cached = true
	} else {
		idx := beginPhase(timer, "analyze")
		out.Result = analyzer.AnalyzeFile(file)
		endPhase(timer, idx, strconv.Itoa(out.Result.DiagnosticCount())+" diagnostics")
		if cache != nil {
			trace.Point(tracer, trace.ScopeCache, "miss", file.Path)
			if err := cache.Put(file.Hash, resultToDiskPayload(out.Result)); err != nil {
				trace.Error(tracer, trace.ScopeCache, "put", err)
			}
		}
	}

	out.Bag = diag.NewBag(opts.MaxDiagnostics)
	out.Bag.AddAll(out.Result.Diagnostics())

	if timer != nil {
		report := timer.Report()
		out.Timing = &report
	}

	span.WithExtra("diagnostics", strconv.Itoa(out.Result.DiagnosticCount())).
		WithExtra("symbols", strconv.Itoa(out.Result.SymbolCount())).
		WithExtra("cached", strconv.FormatBool(out.Cached)).
		End("")
	return out
}

func beginPhase(timer *observ.Timer, name string) int {
	if timer == nil {
		return -1
	}
	return timer.Begin(name)
}

func endPhase(timer *observ.Timer, idx int, note string) {
	if timer == nil || idx < 0 {
		return
	}
	timer.End(idx, note)
}
