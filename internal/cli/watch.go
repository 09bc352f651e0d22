package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soramame/dramalearn/internal/content"
	"github.com/soramame/dramalearn/internal/keyword"
	"github.com/soramame/dramalearn/internal/playback"
	"github.com/soramame/dramalearn/internal/subtitle"
)

// WatchCLI replays a drama's subtitle track in the terminal: it drives the
// playback synchronizer over the timeline and prints each subtitle line and
// keyword sighting as it would appear during playback.
type WatchCLI struct {
	*InteractiveCLI
	synchronizer *playback.Synchronizer
	tickStep     float64
}

// NewWatchCLI fetches a drama's content and subtitles and prepares the replay.
func NewWatchCLI(
	ctx context.Context,
	dramaID string,
	fetcher content.Fetcher,
	tickStep float64,
	logger *slog.Logger,
) (*WatchCLI, error) {
	dramaContent, err := fetcher.FetchDramaContent(ctx, dramaID)
	if err != nil {
		return nil, fmt.Errorf("fetcher.FetchDramaContent() > %w", err)
	}

	raw, err := fetcher.FetchSubtitles(ctx, dramaContent.Drama.SubtitleURL)
	if err != nil {
		return nil, fmt.Errorf("fetcher.FetchSubtitles() > %w", err)
	}

	if tickStep <= 0 {
		tickStep = 0.25
	}

	watchCLI := &WatchCLI{
		InteractiveCLI: newInteractiveCLI(),
		synchronizer:   playback.NewSynchronizer(logger),
		tickStep:       tickStep,
	}

	watchCLI.synchronizer.OnActiveSubtitleChanged(watchCLI.printSubtitle)
	watchCLI.synchronizer.OnKeywordSighted(watchCLI.printSighting)

	watchCLI.synchronizer.Load(raw, dramaContent.Keywords)
	if watchCLI.synchronizer.State() != playback.StateSyncing {
		return nil, fmt.Errorf("subtitles for %s could not be synchronized", dramaID)
	}
	return watchCLI, nil
}

// Replay walks the whole timeline tick by tick.
func (r *WatchCLI) Replay(ctx context.Context) error {
	duration := r.synchronizer.Duration()
	for t := 0.0; t <= duration+r.tickStep; t += r.tickStep {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.synchronizer.Tick(t)
	}
	fmt.Fprintln(r.stdoutWriter, "Replay finished.")
	return nil
}

func (r *WatchCLI) printSubtitle(interval *subtitle.Interval) {
	if interval == nil {
		fmt.Fprintln(r.stdoutWriter)
		return
	}
	fmt.Fprintf(r.stdoutWriter, "[%s] %s\n", formatTimestamp(interval.StartTime), interval.Text)
}

func (r *WatchCLI) printSighting(k keyword.Definition) {
	fmt.Fprintf(r.stdoutWriter, "  keyword: %s (%s)\n", r.bold.Sprint(k.Word), r.italic.Sprint(k.Translation))
}

func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
