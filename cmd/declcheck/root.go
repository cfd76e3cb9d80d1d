package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"declcheck/internal/prof"
	"declcheck/internal/trace"
	"declcheck/internal/version"
)

// session holds resources opened by the persistent pre-run that must be
// released after the command finishes, including on error.
type session struct {
	tracer  trace.Tracer
	profile *prof.Session
}

func (s *session) setup(cmd *cobra.Command) error {
	tracer, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	s.tracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	profile, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	s.profile = profile
	return nil
}

func (s *session) close(stderr io.Writer) {
	if s.tracer != nil && s.tracer != trace.Nop {
		_ = s.tracer.Flush()
		if err := s.tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "warning: failed to close trace output: %v\n", err)
		}
	}
	if err := s.profile.Stop(); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "declcheck",
		Short: "Line-oriented checker for typed variable declarations",
		Long: `declcheck validates source files made of one declaration per line
("<type> <name> = <literal>;") and reports syntax, literal and duplicate
declaration errors together with the table of accepted symbols.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "path to declcheck.toml (default: search upwards from the working directory)")
	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newSymbolsCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())
	return root
}
