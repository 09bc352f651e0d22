// Package progress maintains per-keyword unlock/completion state, milestone
// watermarks, and derived learning statistics.
package progress

import "time"

// Status is a keyword's learning state. Transitions are monotonic:
// locked -> unlocked -> completed, never backward.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusUnlocked  Status = "unlocked"
	StatusCompleted Status = "completed"
)

func (s Status) rank() int {
	switch s {
	case StatusUnlocked:
		return 1
	case StatusCompleted:
		return 2
	}
	return 0
}

// Record is one user's progress on one keyword of one drama.
type Record struct {
	UserID          string     `db:"user_id" json:"userId" yaml:"user_id"`
	DramaID         string     `db:"drama_id" json:"dramaId" yaml:"drama_id"`
	KeywordID       string     `db:"keyword_id" json:"keywordId" yaml:"keyword_id"`
	Status          Status     `db:"status" json:"status" yaml:"status"`
	Attempts        int        `db:"attempts" json:"attempts" yaml:"attempts"`
	CorrectAttempts int        `db:"correct_attempts" json:"correctAttempts" yaml:"correct_attempts"`
	CompletedAt     *time.Time `db:"completed_at" json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt" yaml:"updated_at"`
}

// Watermark records the highest milestone threshold already celebrated for a
// user and drama, guaranteeing each threshold fires at most once.
type Watermark struct {
	UserID                  string `db:"user_id" yaml:"user_id"`
	DramaID                 string `db:"drama_id" yaml:"drama_id"`
	HighestThresholdReached int    `db:"highest_threshold" yaml:"highest_threshold"`
}

// MilestoneEvent fires when cumulative completions cross a percentage
// threshold of a drama's keyword count.
type MilestoneEvent struct {
	UserID            string
	DramaID           string
	Threshold         int // percentage, e.g. 25, 50, 100
	CompletedKeywords int
	TotalKeywords     int
}

// Statistics aggregates a user's attempts across one drama.
type Statistics struct {
	TotalAttempts     int
	TotalCorrect      int
	CompletedKeywords int
	TotalKeywords     int
}

// Accuracy returns the percentage of correct attempts, 0 when no attempts.
func (s Statistics) Accuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalAttempts) * 100
}

// CompletionRate returns the percentage of completed keywords, 0 when the
// drama's keyword total is unknown.
func (s Statistics) CompletionRate() float64 {
	if s.TotalKeywords == 0 {
		return 0
	}
	return float64(s.CompletedKeywords) / float64(s.TotalKeywords) * 100
}
