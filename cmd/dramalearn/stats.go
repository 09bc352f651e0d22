package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "stats <drama-id>",
		Short: "Show progress statistics for a drama",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			contentCache, err := newContentCache(cfg)
			if err != nil {
				return err
			}
			client := newContentClient(cfg, contentCache)
			defer func() {
				_ = client.Close()
			}()

			repo, closeRepo, err := newProgressRepository(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeRepo()
			}()

			tracker := newTracker(cfg, repo, client)
			stats, err := tracker.Statistics(cmd.Context(), cfg.User.ID, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Completed keywords: %d/%d (%.0f%%)\n",
				stats.CompletedKeywords, stats.TotalKeywords, stats.CompletionRate())
			fmt.Fprintf(out, "Attempts: %d, correct: %d, accuracy: %.0f%%\n",
				stats.TotalAttempts, stats.TotalCorrect, stats.Accuracy())
			return nil
		},
	}

	return command
}
