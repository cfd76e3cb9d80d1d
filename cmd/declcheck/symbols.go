package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"declcheck/internal/diagfmt"
)

func newSymbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols [flags] <file|->",
		Short: "Print the table of accepted declarations",
		Args:  cobra.ExactArgs(1),
		RunE:  runSymbols,
	}
	cmd.Flags().Bool("nfc", false, "normalize source text to Unicode NFC before checking")
	cmd.Flags().Bool("no-header", false, "omit the table header")
	cmd.Flags().Int("max-width", 0, "truncate cells wider than this (0 = no limit)")
	return cmd
}

func runSymbols(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	var opts diagfmt.TableOpts
	if opts.NoHeader, err = cmd.Flags().GetBool("no-header"); err != nil {
		return err
	}
	if opts.MaxCellWidth, err = cmd.Flags().GetInt("max-width"); err != nil {
		return err
	}
	if opts.MaxCellWidth < 0 {
		return fmt.Errorf("--max-width must be >= 0, got %d", opts.MaxCellWidth)
	}

	_, results, err := checkTarget(cmd.Context(), cmd.InOrStdin(), checkRequest{target: args[0]}, st.opts)
	if err != nil {
		return err
	}
	return diagfmt.SymbolTable(cmd.OutOrStdout(), results[0].Result.Symbols(), opts)
}
