package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/soramame/dramalearn/internal/content"
	"github.com/soramame/dramalearn/internal/keyword"
	"github.com/soramame/dramalearn/internal/progress"
	"github.com/soramame/dramalearn/internal/subtitle"
)

// practiceCard pairs a keyword with the subtitle line it appears in. The line
// is nil when no interval intersects the keyword's time window.
type practiceCard struct {
	keyword keyword.Definition
	line    *subtitle.Interval
}

// PracticeCLI manages the interactive practice session for one drama: each
// round shows a subtitle line with its keyword highlighted and asks for the
// keyword's meaning.
type PracticeCLI struct {
	*InteractiveCLI
	userID   string
	drama    content.Drama
	lang     language.Tag
	matcher  *keyword.Matcher
	tracker  *progress.Tracker
	cards    []practiceCard
	position int
}

// NewPracticeCLI fetches the drama, its keywords, and its subtitles, and
// builds one practice card per keyword.
func NewPracticeCLI(
	ctx context.Context,
	userID, dramaID string,
	fetcher content.Fetcher,
	tracker *progress.Tracker,
	logger *slog.Logger,
) (*PracticeCLI, error) {
	dramaContent, err := fetcher.FetchDramaContent(ctx, dramaID)
	if err != nil {
		return nil, fmt.Errorf("fetcher.FetchDramaContent() > %w", err)
	}

	raw, err := fetcher.FetchSubtitles(ctx, dramaContent.Drama.SubtitleURL)
	if err != nil {
		return nil, fmt.Errorf("fetcher.FetchSubtitles() > %w", err)
	}
	timeline := subtitle.Parse(raw)
	if timeline.Len() == 0 {
		return nil, fmt.Errorf("no usable subtitle entries in %s", dramaContent.Drama.SubtitleURL)
	}

	validator, err := keyword.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("keyword.NewValidator() > %w", err)
	}

	cards := make([]practiceCard, 0, len(dramaContent.Keywords))
	for _, k := range dramaContent.Keywords {
		card := practiceCard{keyword: k}
		if intervals := timeline.Intersecting(k.StartTime, k.EndTime); len(intervals) > 0 {
			card.line = &intervals[0]
		}
		cards = append(cards, card)
	}

	return &PracticeCLI{
		InteractiveCLI: newInteractiveCLI(),
		userID:         userID,
		drama:          dramaContent.Drama,
		lang:           subtitle.DetectLanguage(timeline),
		matcher:        keyword.NewMatcher(validator, logger),
		tracker:        tracker,
		cards:          cards,
		position:       0,
	}, nil
}

// CardCount returns how many practice cards the session holds.
func (r *PracticeCLI) CardCount() int {
	return len(r.cards)
}

// Language returns the detected subtitle language.
func (r *PracticeCLI) Language() language.Tag {
	return r.lang
}

func (r *PracticeCLI) Session(ctx context.Context) error {
	if r.position >= len(r.cards) {
		if err := r.printSummary(ctx); err != nil {
			return err
		}
		return errEnd
	}

	card := r.cards[r.position]
	r.position++

	fmt.Fprintf(r.stdoutWriter, "[%d/%d] ", r.position, len(r.cards))
	if card.line != nil {
		r.printHighlightedLine(card)
	} else {
		fmt.Fprintln(r.stdoutWriter, r.bold.Sprint(card.keyword.Word))
	}

	fmt.Fprint(r.stdoutWriter, "Meaning: ")
	answerInput, err := r.stdinReader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("error reading answer input: %w", err)
	}
	answer := strings.TrimSpace(answerInput)

	if answer == "quit" || answer == "exit" {
		fmt.Fprintln(r.stdoutWriter, "Practice session ended.")
		return errEnd
	}

	isCorrect := strings.EqualFold(answer, card.keyword.Translation)
	result, err := r.tracker.RecordAttempt(ctx, r.userID, r.drama.ID, card.keyword.ID, isCorrect)
	if err != nil {
		if !errors.Is(err, progress.ErrSubmitFailed) {
			return fmt.Errorf("tracker.RecordAttempt() > %w", err)
		}
		fmt.Fprintln(r.stdoutWriter, "Could not reach the server; your answer is saved locally.")
	}

	if isCorrect {
		fmt.Fprintln(r.stdoutWriter, r.correct.Sprint("Correct!"))
	} else {
		fmt.Fprintf(r.stdoutWriter, "%s The meaning is %s.\n",
			r.incorrect.Sprint("Incorrect."), r.italic.Sprint(card.keyword.Translation))
	}

	if result != nil && result.Milestone != nil {
		milestone := result.Milestone
		fmt.Fprintf(r.stdoutWriter, "Milestone reached: %d%% of keywords completed (%d/%d)\n",
			milestone.Threshold, milestone.CompletedKeywords, milestone.TotalKeywords)
	}
	fmt.Fprintln(r.stdoutWriter)
	return nil
}

// printHighlightedLine prints the subtitle line with the card's keyword bold.
func (r *PracticeCLI) printHighlightedLine(card practiceCard) {
	segments := r.matcher.SegmentText(card.line.Text, []keyword.Definition{card.keyword})
	for _, segment := range segments {
		if segment.IsKeyword {
			fmt.Fprint(r.stdoutWriter, r.bold.Sprint(segment.Text))
			continue
		}
		fmt.Fprint(r.stdoutWriter, segment.Text)
	}
	fmt.Fprintln(r.stdoutWriter)
}

func (r *PracticeCLI) printSummary(ctx context.Context) error {
	stats, err := r.tracker.Statistics(ctx, r.userID, r.drama.ID)
	if err != nil {
		return fmt.Errorf("tracker.Statistics() > %w", err)
	}

	fmt.Fprintf(r.stdoutWriter, "Session complete for %s.\n", r.bold.Sprint(r.drama.Title))
	fmt.Fprintf(r.stdoutWriter, "Completed keywords: %d/%d\n", stats.CompletedKeywords, stats.TotalKeywords)
	fmt.Fprintf(r.stdoutWriter, "Accuracy: %.0f%% (%d/%d attempts)\n",
		stats.Accuracy(), stats.TotalCorrect, stats.TotalAttempts)
	return nil
}
