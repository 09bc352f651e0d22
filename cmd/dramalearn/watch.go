package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/soramame/dramalearn/internal/cli"
)

func newWatchCommand() *cobra.Command {
	var tickStep float64
	var preload bool

	command := &cobra.Command{
		Use:   "watch <drama-id>",
		Short: "Replay a drama's subtitle track with keyword sightings",
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

			if preload {
				dramaContent, err := client.FetchDramaContent(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := client.PreloadVideo(cmd.Context(), dramaContent.Drama.VideoURL); err != nil {
					slog.Default().Warn("video preload failed, replaying anyway", "error", err)
				}
			}

			watchCLI, err := cli.NewWatchCLI(cmd.Context(), args[0], client, tickStep, slog.Default())
			if err != nil {
				return err
			}
			return watchCLI.Replay(cmd.Context())
		},
	}

	command.Flags().Float64Var(&tickStep, "tick", 0.25, "playback tick step in seconds")
	command.Flags().BoolVar(&preload, "preload", false, "preload the video before replaying")

	return command
}
