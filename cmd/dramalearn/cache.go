package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	cacheCommand := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the local content cache",
	}

	cacheCommand.AddCommand(newCacheStatsCommand())
	cacheCommand.AddCommand(newCacheSweepCommand())
	cacheCommand.AddCommand(newCacheClearCommand())

	return cacheCommand
}

func newCacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size, item count, and preload queue size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			contentCache, err := newContentCache(cfg)
			if err != nil {
				return err
			}

			stats := contentCache.GetStats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Items: %d\n", stats.ItemCount)
			fmt.Fprintf(out, "Size: %d bytes (budget %d)\n", stats.SizeBytes, cfg.Cache.BudgetBytes)
			fmt.Fprintf(out, "Preloaded videos: %d\n", stats.PreloadQueueSize)
			return nil
		},
	}
}

func newCacheSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Purge expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			contentCache, err := newContentCache(cfg)
			if err != nil {
				return err
			}

			removed := contentCache.Sweep()
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries.\n", removed)
			return nil
		},
	}
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry in the cache namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			contentCache, err := newContentCache(cfg)
			if err != nil {
				return err
			}

			contentCache.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}
