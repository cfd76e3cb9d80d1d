package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"declcheck/internal/driver"
	"declcheck/internal/source"
	"declcheck/internal/ui"
)

const stdinArg = "-"

// errNoInput is the presentation-side guard for empty source text.
var errNoInput = errors.New("no input: source text is empty")

// checkRequest describes what a command wants to analyse.
type checkRequest struct {
	target     string
	allowDir   bool
	progressUI bool // показывать прогресс на stderr при проверке директории
}

// checkTarget runs the driver on a file, a directory or standard input and
// returns the file set the results refer to.
func checkTarget(ctx context.Context, stdin io.Reader, req checkRequest, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	if req.target == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		res, err := driver.CheckText(ctx, driver.StdinName, string(data), opts)
		if errors.Is(err, driver.ErrEmptyInput) {
			return nil, nil, errNoInput
		}
		if err != nil {
			return nil, nil, err
		}
		return res.Files, []driver.FileResult{*res}, nil
	}

	st, err := os.Stat(req.target)
	if err != nil {
		return nil, nil, err
	}
	if !st.IsDir() {
		res, err := driver.CheckFile(ctx, req.target, opts)
		if errors.Is(err, driver.ErrEmptyInput) {
			return nil, nil, fmt.Errorf("%s: %w", req.target, errNoInput)
		}
		if err != nil {
			return nil, nil, err
		}
		return res.Files, []driver.FileResult{*res}, nil
	}
	if !req.allowDir {
		return nil, nil, fmt.Errorf("%s is a directory; expected a file or -", req.target)
	}
	if req.progressUI {
		return checkDirWithProgress(ctx, req.target, opts)
	}
	return driver.CheckDir(ctx, req.target, opts)
}

// checkDirWithProgress runs CheckDir while a Bubble Tea progress view on
// stderr follows the per-file events. Quitting the view cancels the check.
func checkDirWithProgress(ctx context.Context, dir string, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	files, err := driver.ListFiles(dir, opts)
	if err != nil || len(files) == 0 {
		return driver.CheckDir(ctx, dir, opts)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.ProgressEvent, len(files))
	opts.Progress = func(ev driver.ProgressEvent) { events <- ev }

	var (
		fileSet  *source.FileSet
		results  []driver.FileResult
		checkErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(events)
		fileSet, results, checkErr = driver.CheckDir(ctx, dir, opts)
	}()

	uiErr := ui.RunProgress("checking "+dir, files, events, tea.WithOutput(os.Stderr))
	cancel()
	// окно могли закрыть раньше: дочитываем события, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	<-done

	if checkErr != nil {
		return fileSet, results, checkErr
	}
	if uiErr != nil {
		return fileSet, results, fmt.Errorf("progress view failed: %w", uiErr)
	}
	return fileSet, results, nil
}
