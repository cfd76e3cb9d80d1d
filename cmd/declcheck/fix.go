package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"declcheck/internal/driver"
	"declcheck/internal/fix"
	"declcheck/internal/source"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <file|directory|->",
		Short: "Apply available fixes (missing semicolons)",
		Long: `Run diagnostics and apply the first fix of every diagnostic that has one.
With - the fixed text is read from stdin and written to stdout. --dry-run
prints the fixed text instead of writing files.

Files keep their Unicode normal form: normalize_nfc from declcheck.toml is
ignored and --nfc is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: runFix,
	}
	addCheckFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "print the fixed text instead of writing files")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if nfc, _ := cmd.Flags().GetBool("nfc"); nfc {
		return errors.New("--nfc is not supported by fix: files are rewritten in their original normal form")
	}
	// MaxDiagnostics ограничивает вывод, не набор исправлений
	opts := st.opts
	opts.MaxDiagnostics = 0
	// правки применяются к исходным байтам, без NFC
	opts.NormalizeNFC = false

	target := args[0]
	req := checkRequest{target: target, allowDir: true}
	fs, results, err := checkTarget(cmd.Context(), cmd.InOrStdin(), req, opts)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	toStdout := dryRun || target == stdinArg
	applied := 0
	for _, r := range results {
		change, err := fix.ApplyFile(fs, r.FileID, r.Result.Diagnostics(), fix.Options{DryRun: toStdout})
		reportSkipped(errOut, change)
		switch {
		case errors.Is(err, fix.ErrNoFixes):
			if target == stdinArg {
				// текст без правок всё равно уходит в stdout
				_, _ = out.Write(restoreOriginal(fs, r))
			}
			continue
		case err != nil:
			return fmt.Errorf("failed to fix %s: %w", r.Path, err)
		}
		applied += change.EditCount

		if target == stdinArg {
			_, _ = out.Write(change.Content)
			continue
		}
		if dryRun {
			fmt.Fprintf(out, "== %s (%d edit(s)) ==\n", change.Path, change.EditCount)
			_, _ = out.Write(change.Content)
			continue
		}
		fmt.Fprintf(out, "fixed %s: %d edit(s)\n", change.Path, change.EditCount)
	}
	if applied == 0 && target != stdinArg {
		fmt.Fprintln(errOut, "no applicable fixes found")
	}
	return nil
}

func reportSkipped(w io.Writer, change *fix.FileChange) {
	if change == nil {
		return
	}
	for _, s := range change.Skipped {
		fmt.Fprintf(w, "%s:%d: skipped fix %q (%s): %s\n", change.Path, s.Line, s.Title, s.Code.ID(), s.Reason)
	}
}

// restoreOriginal returns the file content in its original encoding.
func restoreOriginal(fs *source.FileSet, r driver.FileResult) []byte {
	file := fs.Get(r.FileID)
	if file == nil {
		return nil
	}
	return fix.RestoreEncoding(append([]byte(nil), file.Content...), file.Flags)
}
