package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"declcheck/internal/analyzer"
	"declcheck/internal/diag"
	"declcheck/internal/source"
	"declcheck/internal/trace"
)

// listFiles возвращает отсортированный список файлов с подходящими расширениями.
func listFiles(dir string, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && opts.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir analyses every matching file under dir in parallel. Each file gets
// its own analysis; results come back sorted by path. Files that cannot be
// read are reported with an IOLoadFileError diagnostic instead of failing
// the whole run.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	tracer := trace.FromContext(ctx)
	ctx, dirSpan := trace.StartSpan(ctx, trace.ScopeDriver, "check_dir")
	defer dirSpan.End(dir)

	files, err := listFiles(dir, opts)
	if err != nil {
		dirSpan.Fail(err)
		return nil, nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	dirSpan.WithExtra("files", strconv.Itoa(len(files)))

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	cache, err := opts.openCache()
	if err != nil {
		trace.Error(tracer, trace.ScopeCache, "open", err)
		cache = nil
	}

	// Загрузка последовательная: FileSet не потокобезопасен
	_, loadSpan := trace.StartSpan(ctx, trace.ScopePass, "load")
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		id, loadErr := fileSet.LoadWithOptions(path, source.LoadOptions{NormalizeNFC: opts.NormalizeNFC})
		if loadErr != nil {
			trace.Error(tracer, trace.ScopeFile, path, loadErr)
			loadErrors[i] = loadErr
			// пустая запись, чтобы у диагностики был путь
			id = fileSet.Add(path, nil, 0)
		}
		fileIDs[i] = id
	}
	loadSpan.End("")

	actx, analyzeSpan := trace.StartSpan(ctx, trace.ScopePass, "analyze")
	defer analyzeSpan.End("")

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(actx)
	g.SetLimit(opts.jobs(len(files)))

	for i, path := range files {
		g.Go(func() error {
			// отмена проверяется между файлами, не внутри анализа
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			opts.Progress.emit(path, StatusWorking)
			if loadErr, failed := loadErrors[i]; failed {
				results[i] = loadFailure(fileSet, fileIDs[i], path, loadErr, opts)
				opts.Progress.emit(path, StatusError)
				return nil
			}
			results[i] = checkLoaded(gctx, fileSet, fileIDs[i], opts, cache, nil)
			status := StatusDone
			if results[i].Bag.HasErrors() {
				status = StatusError
			}
			opts.Progress.emit(path, status)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		analyzeSpan.Fail(err)
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func loadFailure(fileSet *source.FileSet, id source.FileID, path string, err error, opts Options) FileResult {
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, 0, source.Span{File: id}, "failed to load file: "+err.Error()))
	return FileResult{
		Path:   path,
		FileID: id,
		Files:  fileSet,
		Bag:    bag,
		Result: analyzer.NewResult(nil, nil),
	}
}

// HasErrors reports whether any result carries an error-level diagnostic.
func HasErrors(results []FileResult) bool {
	for i := range results {
		if results[i].Bag != nil && results[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}
