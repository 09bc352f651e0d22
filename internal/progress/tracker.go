package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

var (
	// ErrAttemptInFlight means another attempt for the same keyword has not
	// finished yet. Attempts for one keyword serialize through the tracker.
	ErrAttemptInFlight = errors.New("progress: attempt already in flight for this keyword")
	// ErrSubmitFailed means the remote submission failed after the local
	// optimistic update. The returned AttemptResult carries the state needed
	// to retry or roll back; the attempt must not be silently discarded.
	ErrSubmitFailed = errors.New("progress: remote submission failed")
)

// SubmitRequest is the payload sent to the remote persistence collaborator.
type SubmitRequest struct {
	UserID    string `json:"userId"`
	DramaID   string `json:"dramaId"`
	KeywordID string `json:"keywordId"`
	IsCorrect bool   `json:"isCorrect"`
}

//go:generate mockgen -source=tracker.go -destination=../mocks/progress/mock_tracker.go -package=mock_progress

// Submitter sends an attempt to the remote persistence collaborator.
type Submitter interface {
	SubmitAttempt(ctx context.Context, req SubmitRequest) error
}

// TotalsSource reports a drama's keyword count for milestone math. The
// content client implements it with cache-backed reads.
type TotalsSource interface {
	TotalKeywords(ctx context.Context, dramaID string) (int, error)
}

// AttemptResult is handed to the caller after every attempt: the optimistic
// new state, the previous state for rollback (nil when the record is new),
// and the milestone crossed by this attempt, if any.
type AttemptResult struct {
	Record    Record
	Previous  *Record
	Milestone *MilestoneEvent
}

// TrackerOptions configures a Tracker. Thresholds are milestone percentages;
// they are sorted ascending at construction. Submitter and Totals are
// optional: without a submitter attempts stay local, without totals milestones
// are skipped.
type TrackerOptions struct {
	Repository Repository
	Submitter  Submitter
	Totals     TotalsSource
	Thresholds []int
	Logger     *slog.Logger
	Now        func() time.Time
}

// DefaultThresholds are the milestone percentages used when none configured.
var DefaultThresholds = []int{25, 50, 100}

// Tracker advances the per-keyword progress state machine.
type Tracker struct {
	mu         sync.Mutex
	repo       Repository
	submitter  Submitter
	totals     TotalsSource
	thresholds []int
	logger     *slog.Logger
	now        func() time.Time
	inFlight   map[string]struct{}
}

func NewTracker(opts TrackerOptions) *Tracker {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	thresholds := opts.Thresholds
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	thresholds = append([]int(nil), thresholds...)
	sort.Ints(thresholds)

	return &Tracker{
		repo:       opts.Repository,
		submitter:  opts.Submitter,
		totals:     opts.Totals,
		thresholds: thresholds,
		logger:     opts.Logger,
		now:        opts.Now,
		inFlight:   make(map[string]struct{}),
	}
}

// RecordAttempt applies one exercise answer. A first attempt unlocks the
// keyword regardless of correctness; a correct attempt completes it, and
// status never regresses. The local update is applied optimistically before
// remote submission; when submission fails the result is still returned,
// alongside ErrSubmitFailed, so the caller can retry or call Rollback.
func (t *Tracker) RecordAttempt(ctx context.Context, userID, dramaID, keywordID string, isCorrect bool) (*AttemptResult, error) {
	key := recordKey(userID, dramaID, keywordID)
	if err := t.acquire(key); err != nil {
		return nil, err
	}
	defer t.release(key)

	previous, err := t.repo.Find(ctx, userID, dramaID, keywordID)
	if err != nil {
		return nil, fmt.Errorf("repo.Find() > %w", err)
	}

	record := t.nextRecord(previous, userID, dramaID, keywordID, isCorrect)
	if err := t.repo.Upsert(ctx, &record); err != nil {
		return nil, fmt.Errorf("repo.Upsert() > %w", err)
	}

	result := &AttemptResult{Record: record, Previous: previous}

	if t.submitter != nil {
		if err := t.submitter.SubmitAttempt(ctx, SubmitRequest{
			UserID:    userID,
			DramaID:   dramaID,
			KeywordID: keywordID,
			IsCorrect: isCorrect,
		}); err != nil {
			t.logger.Warn("progress submission failed, local state kept for retry or rollback",
				"userId", userID, "dramaId", dramaID, "keywordId", keywordID, "error", err)
			return result, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
		}
	}

	milestone, err := t.checkMilestone(ctx, userID, dramaID)
	if err != nil {
		// Milestone detection failing never loses the attempt itself.
		t.logger.Warn("milestone check failed", "dramaId", dramaID, "error", err)
	}
	result.Milestone = milestone
	return result, nil
}

// Rollback restores the state captured in a failed attempt's result: the
// previous record, or no record at all when the attempt created one.
func (t *Tracker) Rollback(ctx context.Context, result *AttemptResult) error {
	record := result.Record
	if result.Previous == nil {
		if err := t.repo.Delete(ctx, record.UserID, record.DramaID, record.KeywordID); err != nil {
			return fmt.Errorf("repo.Delete() > %w", err)
		}
		return nil
	}
	if err := t.repo.Upsert(ctx, result.Previous); err != nil {
		return fmt.Errorf("repo.Upsert() > %w", err)
	}
	return nil
}

// Statistics aggregates a user's attempts and completions for one drama.
func (t *Tracker) Statistics(ctx context.Context, userID, dramaID string) (*Statistics, error) {
	records, err := t.repo.FindByUserAndDrama(ctx, userID, dramaID)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByUserAndDrama() > %w", err)
	}

	stats := &Statistics{}
	for _, record := range records {
		stats.TotalAttempts += record.Attempts
		stats.TotalCorrect += record.CorrectAttempts
		if record.Status == StatusCompleted {
			stats.CompletedKeywords++
		}
	}
	if t.totals != nil {
		total, err := t.totals.TotalKeywords(ctx, dramaID)
		if err != nil {
			t.logger.Warn("keyword total unavailable", "dramaId", dramaID, "error", err)
		} else {
			stats.TotalKeywords = total
		}
	}
	return stats, nil
}

func (t *Tracker) nextRecord(previous *Record, userID, dramaID, keywordID string, isCorrect bool) Record {
	now := t.now()
	if previous == nil {
		record := Record{
			UserID:    userID,
			DramaID:   dramaID,
			KeywordID: keywordID,
			Status:    StatusUnlocked,
			Attempts:  1,
			UpdatedAt: now,
		}
		if isCorrect {
			record.CorrectAttempts = 1
			record.Status = StatusCompleted
			record.CompletedAt = &now
		}
		return record
	}

	record := *previous
	record.Attempts++
	record.UpdatedAt = now
	if isCorrect {
		record.CorrectAttempts++
		if record.Status.rank() < StatusCompleted.rank() {
			record.Status = StatusCompleted
			record.CompletedAt = &now
		}
	}
	return record
}

// checkMilestone compares the drama's completion count against the threshold
// list and fires the highest newly crossed threshold, at most once per
// threshold per user per drama via the persisted watermark.
func (t *Tracker) checkMilestone(ctx context.Context, userID, dramaID string) (*MilestoneEvent, error) {
	if t.totals == nil {
		return nil, nil
	}
	total, err := t.totals.TotalKeywords(ctx, dramaID)
	if err != nil {
		return nil, fmt.Errorf("totals.TotalKeywords() > %w", err)
	}
	if total <= 0 {
		return nil, nil
	}

	records, err := t.repo.FindByUserAndDrama(ctx, userID, dramaID)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByUserAndDrama() > %w", err)
	}
	completed := 0
	for _, record := range records {
		if record.Status == StatusCompleted {
			completed++
		}
	}

	watermark, err := t.repo.FindWatermark(ctx, userID, dramaID)
	if err != nil {
		return nil, fmt.Errorf("repo.FindWatermark() > %w", err)
	}
	highest := 0
	if watermark != nil {
		highest = watermark.HighestThresholdReached
	}

	crossed := 0
	for _, threshold := range t.thresholds {
		if threshold <= highest {
			continue
		}
		if completed >= keywordsForThreshold(total, threshold) {
			crossed = threshold
		}
	}
	if crossed == 0 {
		return nil, nil
	}

	if err := t.repo.SaveWatermark(ctx, &Watermark{
		UserID:                  userID,
		DramaID:                 dramaID,
		HighestThresholdReached: crossed,
	}); err != nil {
		return nil, fmt.Errorf("repo.SaveWatermark() > %w", err)
	}

	t.logger.Info("milestone reached",
		"userId", userID, "dramaId", dramaID,
		"threshold", crossed, "completed", completed, "total", total)
	return &MilestoneEvent{
		UserID:            userID,
		DramaID:           dramaID,
		Threshold:         crossed,
		CompletedKeywords: completed,
		TotalKeywords:     total,
	}, nil
}

// keywordsForThreshold returns how many completions reach a percentage
// threshold: ceil(total * threshold / 100). For 15 keywords at 50% that is 8.
func keywordsForThreshold(total, threshold int) int {
	return (total*threshold + 99) / 100
}

func (t *Tracker) acquire(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.inFlight[key]; ok {
		return ErrAttemptInFlight
	}
	t.inFlight[key] = struct{}{}
	return nil
}

func (t *Tracker) release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, key)
}
