package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/soramame/dramalearn/internal/keyword"
	"github.com/soramame/dramalearn/internal/subtitle"
)

// printTimeline writes a parse summary: per-interval lines, keyword matches
// when definitions were supplied, and the detected language.
func printTimeline(w io.Writer, timeline *subtitle.Timeline, keywords []keyword.Definition) error {
	var matcher *keyword.Matcher
	if len(keywords) > 0 {
		validator, err := keyword.NewValidator()
		if err != nil {
			return fmt.Errorf("keyword.NewValidator() > %w", err)
		}
		matcher = keyword.NewMatcher(validator, slog.Default())
	}

	for _, interval := range timeline.Intervals {
		fmt.Fprintf(w, "%3d  %8.3f - %8.3f  %s\n", interval.ID, interval.StartTime, interval.EndTime, interval.Text)
		if matcher == nil {
			continue
		}
		inWindow := keyword.FilterByTimeWindow(keywords, interval.StartTime, interval.EndTime)
		for _, match := range matcher.FindMatches(interval.Text, inWindow) {
			fmt.Fprintf(w, "     keyword %s at [%d:%d] %q\n",
				match.Keyword.ID, match.StartIndex, match.EndIndex, match.MatchedText)
		}
	}

	fmt.Fprintf(w, "\n%d entries, %d dropped, duration %.3fs, language %s\n",
		timeline.Len(), timeline.Dropped, timeline.Duration, subtitle.DetectLanguage(timeline))
	return nil
}
