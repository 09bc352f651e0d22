package progress

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTotals struct {
	total int
	err   error
}

func (s stubTotals) TotalKeywords(context.Context, string) (int, error) {
	return s.total, s.err
}

type stubSubmitter struct {
	err      error
	requests []SubmitRequest
}

func (s *stubSubmitter) SubmitAttempt(_ context.Context, req SubmitRequest) error {
	s.requests = append(s.requests, req)
	return s.err
}

func newTestTracker(t *testing.T, opts TrackerOptions) *Tracker {
	t.Helper()
	if opts.Repository == nil {
		opts.Repository = NewMemoryRepository()
	}
	if opts.Now == nil {
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		opts.Now = func() time.Time { return base }
	}
	return NewTracker(opts)
}

func TestTracker_RecordAttempt_FirstIncorrectUnlocks(t *testing.T) {
	tracker := newTestTracker(t, TrackerOptions{})

	result, err := tracker.RecordAttempt(context.Background(), "u1", "d1", "k1", false)
	require.NoError(t, err)

	assert.Equal(t, StatusUnlocked, result.Record.Status)
	assert.Equal(t, 1, result.Record.Attempts)
	assert.Equal(t, 0, result.Record.CorrectAttempts)
	assert.Nil(t, result.Record.CompletedAt)
	assert.Nil(t, result.Previous)
}

func TestTracker_RecordAttempt_FirstCorrectCompletesDirectly(t *testing.T) {
	tracker := newTestTracker(t, TrackerOptions{})

	result, err := tracker.RecordAttempt(context.Background(), "u1", "d1", "k1", true)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Record.Status)
	assert.Equal(t, 1, result.Record.Attempts)
	assert.Equal(t, 1, result.Record.CorrectAttempts)
	require.NotNil(t, result.Record.CompletedAt)
}

func TestTracker_RecordAttempt_CorrectAfterIncorrect(t *testing.T) {
	tracker := newTestTracker(t, TrackerOptions{})
	ctx := context.Background()

	_, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", false)
	require.NoError(t, err)

	result, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Record.Status)
	assert.Equal(t, 2, result.Record.Attempts)
	assert.Equal(t, 1, result.Record.CorrectAttempts)
	require.NotNil(t, result.Previous)
	assert.Equal(t, StatusUnlocked, result.Previous.Status)
}

func TestTracker_RecordAttempt_StatusNeverRegresses(t *testing.T) {
	tracker := newTestTracker(t, TrackerOptions{})
	ctx := context.Background()

	first, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
	require.NoError(t, err)
	completedAt := first.Record.CompletedAt

	// A wrong answer after completion changes neither status nor completedAt.
	second, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", false)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, second.Record.Status)
	assert.Equal(t, completedAt, second.Record.CompletedAt)
	assert.Equal(t, 2, second.Record.Attempts)
	assert.Equal(t, 1, second.Record.CorrectAttempts)

	// completedAt is set exactly once, also across later correct answers.
	third, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
	require.NoError(t, err)
	assert.Equal(t, completedAt, third.Record.CompletedAt)
	assert.Equal(t, 2, third.Record.CorrectAttempts)
}

func TestTracker_RecordAttempt_SubmitsRemotely(t *testing.T) {
	submitter := &stubSubmitter{}
	tracker := newTestTracker(t, TrackerOptions{Submitter: submitter})

	_, err := tracker.RecordAttempt(context.Background(), "u1", "d1", "k1", true)
	require.NoError(t, err)

	require.Len(t, submitter.requests, 1)
	assert.Equal(t, SubmitRequest{UserID: "u1", DramaID: "d1", KeywordID: "k1", IsCorrect: true}, submitter.requests[0])
}

func TestTracker_RecordAttempt_SubmitFailureKeepsOptimisticState(t *testing.T) {
	repo := NewMemoryRepository()
	submitter := &stubSubmitter{err: errors.New("connection refused")}
	tracker := newTestTracker(t, TrackerOptions{Repository: repo, Submitter: submitter})
	ctx := context.Background()

	result, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)

	require.ErrorIs(t, err, ErrSubmitFailed)
	require.NotNil(t, result)
	assert.Equal(t, StatusCompleted, result.Record.Status)

	// The optimistic update is visible locally until the caller decides.
	stored, findErr := repo.Find(ctx, "u1", "d1", "k1")
	require.NoError(t, findErr)
	require.NotNil(t, stored)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestTracker_Rollback(t *testing.T) {
	t.Run("new record is removed", func(t *testing.T) {
		repo := NewMemoryRepository()
		submitter := &stubSubmitter{err: errors.New("boom")}
		tracker := newTestTracker(t, TrackerOptions{Repository: repo, Submitter: submitter})
		ctx := context.Background()

		result, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
		require.ErrorIs(t, err, ErrSubmitFailed)

		require.NoError(t, tracker.Rollback(ctx, result))
		stored, err := repo.Find(ctx, "u1", "d1", "k1")
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("existing record is restored", func(t *testing.T) {
		repo := NewMemoryRepository()
		submitter := &stubSubmitter{}
		tracker := newTestTracker(t, TrackerOptions{Repository: repo, Submitter: submitter})
		ctx := context.Background()

		_, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", false)
		require.NoError(t, err)

		submitter.err = errors.New("boom")
		result, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
		require.ErrorIs(t, err, ErrSubmitFailed)

		require.NoError(t, tracker.Rollback(ctx, result))
		stored, err := repo.Find(ctx, "u1", "d1", "k1")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, StatusUnlocked, stored.Status)
		assert.Equal(t, 1, stored.Attempts)
	})
}

func TestTracker_MilestoneFiresExactlyOnce(t *testing.T) {
	// 15 keywords, 50% threshold: the milestone fires on the attempt that
	// moves completions from 7 to 8, and never again.
	tracker := newTestTracker(t, TrackerOptions{
		Totals:     stubTotals{total: 15},
		Thresholds: []int{50},
	})
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		result, err := tracker.RecordAttempt(ctx, "u1", "d1", fmt.Sprintf("k%d", i), true)
		require.NoError(t, err)
		assert.Nil(t, result.Milestone, "no milestone at %d completions", i)
	}

	result, err := tracker.RecordAttempt(ctx, "u1", "d1", "k8", true)
	require.NoError(t, err)
	require.NotNil(t, result.Milestone)
	assert.Equal(t, 50, result.Milestone.Threshold)
	assert.Equal(t, 8, result.Milestone.CompletedKeywords)
	assert.Equal(t, 15, result.Milestone.TotalKeywords)

	result, err = tracker.RecordAttempt(ctx, "u1", "d1", "k9", true)
	require.NoError(t, err)
	assert.Nil(t, result.Milestone)
}

func TestTracker_MilestoneCrossingMultipleThresholds(t *testing.T) {
	// 2 keywords: the first completion is 50% and the second is 100%; with
	// 25/50/100 thresholds the first attempt crosses 25 and 50 at once and
	// reports the highest.
	tracker := newTestTracker(t, TrackerOptions{
		Totals:     stubTotals{total: 2},
		Thresholds: []int{25, 50, 100},
	})
	ctx := context.Background()

	first, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
	require.NoError(t, err)
	require.NotNil(t, first.Milestone)
	assert.Equal(t, 50, first.Milestone.Threshold)

	second, err := tracker.RecordAttempt(ctx, "u1", "d1", "k2", true)
	require.NoError(t, err)
	require.NotNil(t, second.Milestone)
	assert.Equal(t, 100, second.Milestone.Threshold)
}

func TestTracker_MilestoneSkippedWithoutTotals(t *testing.T) {
	tracker := newTestTracker(t, TrackerOptions{})

	result, err := tracker.RecordAttempt(context.Background(), "u1", "d1", "k1", true)
	require.NoError(t, err)
	assert.Nil(t, result.Milestone)
}

func TestTracker_MilestoneScopedPerUserAndDrama(t *testing.T) {
	tracker := newTestTracker(t, TrackerOptions{
		Totals:     stubTotals{total: 1},
		Thresholds: []int{100},
	})
	ctx := context.Background()

	first, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
	require.NoError(t, err)
	require.NotNil(t, first.Milestone)

	// A different user crossing the same threshold still celebrates.
	second, err := tracker.RecordAttempt(ctx, "u2", "d1", "k1", true)
	require.NoError(t, err)
	require.NotNil(t, second.Milestone)
}

type blockingSubmitter struct {
	entered chan struct{}
	release chan struct{}
}

// SubmitAttempt blocks k1 submissions until released, so the test can observe
// an attempt that is still in flight.
func (s *blockingSubmitter) SubmitAttempt(_ context.Context, req SubmitRequest) error {
	if req.KeywordID != "k1" {
		return nil
	}
	close(s.entered)
	<-s.release
	return nil
}

func TestTracker_OneAttemptInFlightPerKeyword(t *testing.T) {
	submitter := &blockingSubmitter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	tracker := newTestTracker(t, TrackerOptions{Submitter: submitter})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
		done <- err
	}()

	<-submitter.entered
	_, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", false)
	assert.ErrorIs(t, err, ErrAttemptInFlight)

	// A different keyword is not serialized behind it.
	_, err = tracker.RecordAttempt(ctx, "u1", "d1", "k2", false)
	assert.NoError(t, err)

	close(submitter.release)
	require.NoError(t, <-done)
}

func TestTracker_Statistics(t *testing.T) {
	tracker := newTestTracker(t, TrackerOptions{Totals: stubTotals{total: 4}})
	ctx := context.Background()

	_, err := tracker.RecordAttempt(ctx, "u1", "d1", "k1", true)
	require.NoError(t, err)
	_, err = tracker.RecordAttempt(ctx, "u1", "d1", "k2", false)
	require.NoError(t, err)
	_, err = tracker.RecordAttempt(ctx, "u1", "d1", "k2", true)
	require.NoError(t, err)

	stats, err := tracker.Statistics(ctx, "u1", "d1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 2, stats.TotalCorrect)
	assert.Equal(t, 2, stats.CompletedKeywords)
	assert.Equal(t, 4, stats.TotalKeywords)
	assert.InDelta(t, 66.67, stats.Accuracy(), 0.01)
	assert.InDelta(t, 50.0, stats.CompletionRate(), 0.01)
}

func TestStatistics_ZeroValues(t *testing.T) {
	stats := Statistics{}
	assert.Equal(t, 0.0, stats.Accuracy())
	assert.Equal(t, 0.0, stats.CompletionRate())
}

func TestKeywordsForThreshold(t *testing.T) {
	tests := []struct {
		total     int
		threshold int
		want      int
	}{
		{total: 15, threshold: 50, want: 8},
		{total: 15, threshold: 25, want: 4},
		{total: 15, threshold: 100, want: 15},
		{total: 10, threshold: 25, want: 3},
		{total: 4, threshold: 50, want: 2},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d%% of %d", tc.threshold, tc.total), func(t *testing.T) {
			assert.Equal(t, tc.want, keywordsForThreshold(tc.total, tc.threshold))
		})
	}
}
