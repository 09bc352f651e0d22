package cli

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/soramame/dramalearn/internal/content"
	"github.com/soramame/dramalearn/internal/keyword"
	mock_content "github.com/soramame/dramalearn/internal/mocks/content"
	mock_progress "github.com/soramame/dramalearn/internal/mocks/progress"
	"github.com/soramame/dramalearn/internal/progress"
)

const practiceSubtitles = `1
00:00:01,000 --> 00:00:04,000
Would you like some coffee?

2
00:00:05,000 --> 00:00:08,000
Hello, nice to meet you.
`

func practiceContent() *content.DramaContent {
	return &content.DramaContent{
		Drama: content.Drama{
			ID:          "drama-1",
			Title:       "Coffee Shop Encounter",
			SubtitleURL: "https://cdn.example.com/drama-1.srt",
		},
		Keywords: []keyword.Definition{
			{ID: "kw-coffee", Word: "coffee", Translation: "コーヒー", StartTime: 1, EndTime: 4},
			{ID: "kw-hello", Word: "hello", Translation: "こんにちは", StartTime: 5, EndTime: 8},
		},
	}
}

func newPracticeFetcher(t *testing.T) *mock_content.MockFetcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	fetcher := mock_content.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchDramaContent(gomock.Any(), "drama-1").Return(practiceContent(), nil)
	fetcher.EXPECT().FetchSubtitles(gomock.Any(), "https://cdn.example.com/drama-1.srt").Return(practiceSubtitles, nil)
	return fetcher
}

func newPracticeCLIForTest(t *testing.T, tracker *progress.Tracker, input string) (*PracticeCLI, *bytes.Buffer) {
	t.Helper()
	practiceCLI, err := NewPracticeCLI(context.Background(), "u1", "drama-1", newPracticeFetcher(t), tracker, slog.Default())
	require.NoError(t, err)

	output := &bytes.Buffer{}
	practiceCLI.stdinReader = bufio.NewReader(strings.NewReader(input))
	practiceCLI.stdoutWriter = output
	return practiceCLI, output
}

func TestNewPracticeCLI(t *testing.T) {
	tracker := progress.NewTracker(progress.TrackerOptions{Repository: progress.NewMemoryRepository()})

	practiceCLI, _ := newPracticeCLIForTest(t, tracker, "")
	assert.Equal(t, 2, practiceCLI.CardCount())
	assert.NotEqual(t, "und", practiceCLI.Language().String())
	require.NotNil(t, practiceCLI.cards[0].line)
	assert.Equal(t, "Would you like some coffee?", practiceCLI.cards[0].line.Text)
}

func TestNewPracticeCLI_FetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock_content.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchDramaContent(gomock.Any(), "drama-1").Return(nil, assert.AnError)

	tracker := progress.NewTracker(progress.TrackerOptions{Repository: progress.NewMemoryRepository()})
	_, err := NewPracticeCLI(context.Background(), "u1", "drama-1", fetcher, tracker, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FetchDramaContent")
}

func TestPracticeCLI_Session(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantErr        error
		wantOutput     []string
		wantStatus     progress.Status
		checkRecording bool
	}{
		{
			name:           "correct answer completes the keyword",
			input:          "コーヒー\n",
			wantOutput:     []string{"Would you like some coffee?", "Correct!"},
			wantStatus:     progress.StatusCompleted,
			checkRecording: true,
		},
		{
			name:           "incorrect answer unlocks and shows the meaning",
			input:          "紅茶\n",
			wantOutput:     []string{"Incorrect.", "コーヒー"},
			wantStatus:     progress.StatusUnlocked,
			checkRecording: true,
		},
		{
			name:       "quit ends the session without recording",
			input:      "quit\n",
			wantErr:    errEnd,
			wantOutput: []string{"Practice session ended."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := progress.NewMemoryRepository()
			tracker := progress.NewTracker(progress.TrackerOptions{Repository: repo})

			practiceCLI, output := newPracticeCLIForTest(t, tracker, tt.input)
			err := practiceCLI.Session(context.Background())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, output.String(), want)
			}

			record, findErr := repo.Find(context.Background(), "u1", "drama-1", "kw-coffee")
			require.NoError(t, findErr)
			if !tt.checkRecording {
				assert.Nil(t, record)
				return
			}
			require.NotNil(t, record)
			assert.Equal(t, tt.wantStatus, record.Status)
		})
	}
}

func TestPracticeCLI_SessionReportsMilestone(t *testing.T) {
	ctrl := gomock.NewController(t)
	totals := mock_progress.NewMockTotalsSource(ctrl)
	totals.EXPECT().TotalKeywords(gomock.Any(), "drama-1").Return(2, nil).AnyTimes()

	tracker := progress.NewTracker(progress.TrackerOptions{
		Repository: progress.NewMemoryRepository(),
		Totals:     totals,
	})

	practiceCLI, output := newPracticeCLIForTest(t, tracker, "コーヒー\n")
	require.NoError(t, practiceCLI.Session(context.Background()))

	// 1 of 2 keywords completed crosses 25% and 50%; the highest is reported.
	assert.Contains(t, output.String(), "Milestone reached: 50% of keywords completed (1/2)")
}

func TestPracticeCLI_SessionKeepsLocalStateWhenSubmitFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	submitter := mock_progress.NewMockSubmitter(ctrl)
	submitter.EXPECT().SubmitAttempt(gomock.Any(), gomock.Any()).Return(assert.AnError)

	repo := progress.NewMemoryRepository()
	tracker := progress.NewTracker(progress.TrackerOptions{
		Repository: repo,
		Submitter:  submitter,
	})

	practiceCLI, output := newPracticeCLIForTest(t, tracker, "コーヒー\n")
	require.NoError(t, practiceCLI.Session(context.Background()))

	assert.Contains(t, output.String(), "saved locally")
	record, err := repo.Find(context.Background(), "u1", "drama-1", "kw-coffee")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, progress.StatusCompleted, record.Status)
}

func TestPracticeCLI_SessionSummary(t *testing.T) {
	tracker := progress.NewTracker(progress.TrackerOptions{Repository: progress.NewMemoryRepository()})

	practiceCLI, output := newPracticeCLIForTest(t, tracker, "コーヒー\nwrong\n")
	ctx := context.Background()

	require.NoError(t, practiceCLI.Session(ctx))
	require.NoError(t, practiceCLI.Session(ctx))
	err := practiceCLI.Session(ctx)
	require.ErrorIs(t, err, errEnd)

	assert.Contains(t, output.String(), "Session complete for Coffee Shop Encounter.")
	assert.Contains(t, output.String(), "Completed keywords: 1/")
	assert.Contains(t, output.String(), "Accuracy: 50% (1/2 attempts)")
}
