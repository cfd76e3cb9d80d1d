package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"declcheck/internal/diag"
	"declcheck/internal/diagfmt"
	"declcheck/internal/driver"
	"declcheck/internal/source"
	"declcheck/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file|directory|-]",
		Short: "Check declarations and report diagnostics",
		Long: `Check a declaration file, every matching file in a directory, or standard
input (-). Without an argument the current directory is checked. The exit
status is 1 when any error is reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	addCheckFlags(cmd)
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif|table)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	cmd.Flags().Bool("preview", false, "show a preview of suggested fixes")
	cmd.Flags().Bool("no-progress", false, "disable the progress view for directories")
	return cmd
}

// renderFlags are the per-invocation output switches that have no config key.
type renderFlags struct {
	format    string
	withNotes bool
	showFixes bool
	preview   bool
	args      []string
}

func runCheck(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rf := renderFlags{format: st.cfg.Output.Format, args: append([]string{"check"}, args...)}
	if rf.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return err
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return err
	}
	if rf.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return err
	}
	rf.showFixes = suggest || rf.preview
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	req := checkRequest{
		target:     target,
		allowDir:   true,
		progressUI: !noProgress && isTerminal(os.Stderr),
	}
	fs, results, err := checkTarget(cmd.Context(), cmd.InOrStdin(), req, st.opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := renderResults(out, fs, results, st, rf); err != nil {
		return err
	}
	if st.timings {
		printTimings(cmd.ErrOrStderr(), fs, results, st.cfg.Output.PathMode)
	}
	if driver.HasErrors(results) {
		return exitCodeError{code: 1}
	}
	return nil
}

// renderResults prints results in the configured format.
func renderResults(w io.Writer, fs *source.FileSet, results []driver.FileResult, st *settings, rf renderFlags) error {
	switch rf.format {
	case "pretty":
		return renderPretty(w, fs, results, st, rf)
	case "short":
		all := make([]diag.Diagnostic, 0)
		for _, r := range results {
			all = append(all, r.Bag.Items()...)
		}
		if output := diag.FormatShortDiagnostics(all, fs, rf.withNotes); output != "" {
			fmt.Fprintln(w, output)
		}
		return nil
	case "json":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         st.pathMode,
			IncludeNotes:     rf.withNotes,
			IncludeFixes:     rf.showFixes,
			IncludePreviews:  rf.preview,
			IncludeSymbols:   true,
		}
		if err := diagfmt.JSON(w, fileReports(results), fs, opts); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "declcheck",
			ToolVersion:    version.Version,
			InvocationArgs: rf.args,
			PathMode:       st.pathMode,
		}
		if err := diagfmt.Sarif(w, fileReports(results), fs, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	case "table":
		return renderTables(w, fs, results, st)
	default:
		return fmt.Errorf("unknown format: %s", rf.format)
	}
}

func renderPretty(w io.Writer, fs *source.FileSet, results []driver.FileResult, st *settings, rf renderFlags) error {
	useColor := st.color(w)
	opts := diagfmt.PrettyOpts{
		Color:       useColor,
		Context:     2,
		PathMode:    st.pathMode,
		ShowNotes:   rf.withNotes,
		ShowFixes:   rf.showFixes,
		ShowPreview: rf.preview,
	}
	multi := len(results) > 1
	for idx, r := range results {
		if multi && r.Bag.Len() == 0 {
			continue
		}
		if multi {
			if idx > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", displayPath(fs, r, st.cfg.Output.PathMode))
		}
		if err := diagfmt.Pretty(w, r.Bag, fs, opts); err != nil {
			return err
		}
	}
	printStatus(w, results, useColor)
	return nil
}

// printStatus prints the one-line verdict below pretty output.
func printStatus(w io.Writer, results []driver.FileResult, useColor bool) {
	errCount, symCount := 0, 0
	for _, r := range results {
		for _, d := range r.Bag.Items() {
			if d.Severity >= diag.SevError {
				errCount++
			}
		}
		errCount += r.Bag.Dropped()
		symCount += r.Result.SymbolCount()
	}

	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	if useColor {
		red.EnableColor()
		green.EnableColor()
	} else {
		red.DisableColor()
		green.DisableColor()
	}
	if errCount > 0 {
		fmt.Fprintf(w, "%s: %d error(s), %d symbol(s) in %d file(s)\n", red.Sprint("semantic errors found"), errCount, symCount, len(results))
		return
	}
	fmt.Fprintf(w, "%s: %d symbol(s) in %d file(s)\n", green.Sprint("no errors found"), symCount, len(results))
}

func renderTables(w io.Writer, fs *source.FileSet, results []driver.FileResult, st *settings) error {
	opts := diagfmt.TableOpts{}
	for idx, r := range results {
		if idx > 0 {
			fmt.Fprintln(w)
		}
		if len(results) > 1 {
			fmt.Fprintf(w, "== %s ==\n", displayPath(fs, r, st.cfg.Output.PathMode))
		}
		fmt.Fprintln(w, "Errors:")
		if err := diagfmt.DiagnosticTable(w, r.Bag.Items(), opts); err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Symbols:")
		if err := diagfmt.SymbolTable(w, r.Result.Symbols(), opts); err != nil {
			return err
		}
	}
	return nil
}

func fileReports(results []driver.FileResult) []diagfmt.FileReport {
	out := make([]diagfmt.FileReport, 0, len(results))
	for _, r := range results {
		out = append(out, diagfmt.FileReport{
			File:    r.FileID,
			Bag:     r.Bag,
			Symbols: r.Result.Symbols(),
		})
	}
	return out
}

func displayPath(fs *source.FileSet, r driver.FileResult, mode string) string {
	if fs == nil {
		return r.Path
	}
	file := fs.Get(r.FileID)
	if file == nil {
		return r.Path
	}
	return file.FormatPath(mode, fs.BaseDir())
}
