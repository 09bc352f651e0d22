package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "dramalearn",
		Short: "Learn vocabulary from micro-drama subtitles",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env file is fine; environment variables still apply.
			_ = godotenv.Load()
			setupLogger(debugMode)
		},
	}

	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCommand.AddCommand(newParseCommand())
	rootCommand.AddCommand(newPracticeCommand())
	rootCommand.AddCommand(newWatchCommand())
	rootCommand.AddCommand(newStatsCommand())
	rootCommand.AddCommand(newCacheCommand())
	rootCommand.AddCommand(newMigrateCommand())

	return rootCommand
}

func setupLogger(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
