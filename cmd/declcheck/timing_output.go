package main

import (
	"fmt"
	"io"

	"declcheck/internal/driver"
	"declcheck/internal/source"
)

// printTimings writes the per-file phase report collected with --timings.
func printTimings(out io.Writer, fs *source.FileSet, results []driver.FileResult, pathMode string) {
	if out == nil {
		return
	}
	var total float64
	for _, r := range results {
		if r.Timing == nil {
			continue
		}
		suffix := ""
		if r.Cached {
			suffix = " (cached)"
		}
		fmt.Fprintf(out, "timings %s%s:\n", displayPath(fs, r, pathMode), suffix)
		for _, p := range r.Timing.Phases {
			fmt.Fprintf(out, "  %-12s %7.2f ms", p.Name, p.DurationMS)
			if p.Note != "" {
				fmt.Fprintf(out, "  // %s", p.Note)
			}
			fmt.Fprintln(out)
		}
		total += r.Timing.TotalMS
	}
	if len(results) > 1 {
		fmt.Fprintf(out, "total %.2f ms across %d file(s)\n", total, len(results))
	}
}
