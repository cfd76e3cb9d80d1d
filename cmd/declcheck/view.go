package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"declcheck/internal/ui"
)

var errNotTerminal = errors.New("view requires an interactive terminal; use `declcheck check --format table` instead")

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [flags] <file|->",
		Short: "Browse diagnostics and symbols in an interactive viewer",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	cmd.Flags().Bool("nfc", false, "normalize source text to Unicode NFC before checking")
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return errNotTerminal
	}
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	_, results, err := checkTarget(cmd.Context(), cmd.InOrStdin(), checkRequest{target: args[0]}, st.opts)
	if err != nil {
		return err
	}
	r := results[0]
	return ui.RunViewer(r.Path, r.Bag.Items(), r.Result.Symbols())
}
