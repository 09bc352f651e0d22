package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/soramame/dramalearn/internal/cache"
	"github.com/soramame/dramalearn/internal/cli"
)

func newPracticeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "practice <drama-id>",
		Short: "Practice a drama's keywords interactively",
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
			janitor, err := cache.NewJanitor(contentCache, cfg.Cache.SweepSchedule, slog.Default())
			if err != nil {
				return err
			}
			janitor.Start()
			defer janitor.Stop()

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

			practiceCLI, err := cli.NewPracticeCLI(
				cmd.Context(),
				cfg.User.ID,
				args[0],
				client,
				tracker,
				slog.Default(),
			)
			if err != nil {
				return err
			}

			fmt.Printf("Starting practice session with %d keywords (language: %s)\n\n",
				practiceCLI.CardCount(), practiceCLI.Language())
			return practiceCLI.Run(cmd.Context(), practiceCLI)
		},
	}

	return command
}
