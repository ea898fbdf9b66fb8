package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eksdiagrams/pkg/cache"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		Long: `Remove all cached artifacts from the local cache directory.

A shared Redis cache (cache_url) is not touched; its entries expire by TTL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg, err := c.config(); err == nil && cfg.CacheURL != "" {
				printWarning("Shared cache %s is not cleared", cfg.CacheURL)
			}

			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return errs.Wrap(errs.ErrCodeCache, err, "open cache")
			}
			n, err := fc.Clear()
			if err != nil {
				return errs.Wrap(errs.ErrCodeCache, err, "clear cache")
			}

			printSuccess("Removed %d cached artifacts", n)
			printDetail("%s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number and size of cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return errs.Wrap(errs.ErrCodeCache, err, "open cache")
			}
			s, err := fc.Stats()
			if err != nil {
				return errs.Wrap(errs.ErrCodeCache, err, "read cache")
			}

			printKeyValue("directory", dir)
			printKeyValue("entries", strconv.Itoa(s.Entries))
			printKeyValue("expired", strconv.Itoa(s.Expired))
			printKeyValue("size", formatBytes(int(s.Bytes)))
			return nil
		},
	}
}
