package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"declcheck/internal/driver"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached analysis results",
		Long: `Remove every entry of the disk cache used by --cache. The cache lives in
$XDG_CACHE_HOME/declcheck unless --cache-dir points elsewhere.`,
		Args: cobra.NoArgs,
		RunE: runClean,
	}
	cmd.Flags().String("cache-dir", "", "disk cache directory (default: $XDG_CACHE_HOME/declcheck)")
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	if dir != "" {
		cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		cache, err = driver.OpenDiskCache("declcheck")
	}
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clean %q: %w", cache.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed cache %s\n", cache.Dir())
	return nil
}
