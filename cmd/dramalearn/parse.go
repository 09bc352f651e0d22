package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soramame/dramalearn/internal/keyword"
	"github.com/soramame/dramalearn/internal/subtitle"
)

func newParseCommand() *cobra.Command {
	var keywordsFile string

	command := &cobra.Command{
		Use:   "parse <subtitle-file>",
		Short: "Parse a subtitle file and show its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("os.ReadFile() > %w", err)
			}

			timeline := subtitle.Parse(string(raw))
			if timeline.Len() == 0 {
				return fmt.Errorf("no usable subtitle entries in %s", args[0])
			}

			var keywords []keyword.Definition
			if keywordsFile != "" {
				keywords, err = readKeywordsFile(keywordsFile)
				if err != nil {
					return err
				}
			}

			return printTimeline(cmd.OutOrStdout(), timeline, keywords)
		},
	}

	command.Flags().StringVarP(&keywordsFile, "keywords", "k", "", "YAML file with keyword definitions to match against each line")

	return command
}

func readKeywordsFile(path string) ([]keyword.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile() > %w", err)
	}
	var keywords []keyword.Definition
	if err := yaml.Unmarshal(raw, &keywords); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal() > %w", err)
	}
	return keywords, nil
}
