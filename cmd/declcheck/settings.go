package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"declcheck/internal/diagfmt"
	"declcheck/internal/driver"
	"declcheck/internal/project"
)

// settings is the merged view of declcheck.toml and command-line flags.
type settings struct {
	cfg      project.Config
	cfgPath  string // "" если конфиг не найден
	opts     driver.Options
	pathMode diagfmt.PathMode
	timings  bool
}

// addCheckFlags registers the flags that override the [check] section.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("ext", nil, "file extensions checked in directories (default from config: .decl)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("nfc", false, "normalize source text to Unicode NFC before checking")
	cmd.Flags().Bool("cache", false, "use the persistent disk cache")
	cmd.Flags().String("cache-dir", "", "disk cache directory (default: $XDG_CACHE_HOME/declcheck)")
	cmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
}

// loadSettings reads the configuration and applies flags on top of it.
// Only flags set explicitly win over the file.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()
	cfgPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg project.Config
	if cfgPath != "" {
		cfg, err = project.LoadConfig(cfgPath)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, wdErr
		}
		cfg, cfgPath, err = project.LoadNearest(wd)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.Changed("max-diagnostics") {
		if cfg.Check.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("color") {
		if cfg.Output.Color, err = flags.GetString("color"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Output.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("ext") {
		if cfg.Check.Extensions, err = flags.GetStringSlice("ext"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if cfg.Check.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("nfc") {
		if cfg.Check.NormalizeNFC, err = flags.GetBool("nfc"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cache") {
		if cfg.Check.Cache, err = flags.GetBool("cache"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("path-mode") {
		if cfg.Output.PathMode, err = flags.GetString("path-mode"); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	st := &settings{cfg: cfg, cfgPath: cfgPath}
	if st.pathMode, err = diagfmt.ParsePathMode(cfg.Output.PathMode); err != nil {
		return nil, err
	}
	if st.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}
	var cacheDir string
	if flags.Lookup("cache-dir") != nil {
		if cacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, err
		}
	}

	st.opts = driver.Options{
		MaxDiagnostics:  cfg.Check.MaxDiagnostics,
		Jobs:            cfg.Check.Jobs,
		Extensions:      cfg.Check.Extensions,
		NormalizeNFC:    cfg.Check.NormalizeNFC,
		EnableTimings:   st.timings,
		EnableDiskCache: cfg.Check.Cache || cacheDir != "",
		CacheDir:        cacheDir,
	}
	return st, nil
}

func (st *settings) color(w io.Writer) bool {
	return useColor(st.cfg.Output.Color, w)
}
