package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTimeline() *Timeline {
	return &Timeline{
		Intervals: []Interval{
			{ID: 1, StartTime: 2.5, EndTime: 5.0, Text: "Hello world"},
			{ID: 2, StartTime: 5.5, EndTime: 8.0, Text: "This is a test subtitle"},
			{ID: 3, StartTime: 10.0, EndTime: 12.0, Text: "Third"},
		},
		Duration: 12.0,
	}
}

func TestTimeline_CurrentAt(t *testing.T) {
	timeline := testTimeline()

	tests := []struct {
		name   string
		at     float64
		wantID int // 0 means nil
	}{
		{name: "before first interval", at: 1.0},
		{name: "start bound is inclusive", at: 2.5, wantID: 1},
		{name: "inside first interval", at: 3.0, wantID: 1},
		{name: "end bound is inclusive", at: 5.0, wantID: 1},
		{name: "gap between intervals", at: 5.2},
		{name: "inside second interval", at: 6.0, wantID: 2},
		{name: "after last interval", at: 20.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := timeline.CurrentAt(tc.at)
			if tc.wantID == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantID, got.ID)
		})
	}
}

func TestTimeline_CurrentAt_OverlapTieBreak(t *testing.T) {
	// Improperly overlapping source intervals: the smallest start time wins.
	timeline := &Timeline{
		Intervals: []Interval{
			{ID: 1, StartTime: 1.0, EndTime: 6.0, Text: "first"},
			{ID: 2, StartTime: 3.0, EndTime: 8.0, Text: "second"},
		},
	}

	got := timeline.CurrentAt(4.0)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID)
}

func TestTimeline_Intersecting(t *testing.T) {
	timeline := testTimeline()

	tests := []struct {
		name    string
		start   float64
		end     float64
		wantIDs []int
	}{
		{name: "window inside one interval", start: 3.0, end: 4.0, wantIDs: []int{1}},
		{name: "window spanning two intervals", start: 4.0, end: 6.0, wantIDs: []int{1, 2}},
		{name: "window containing everything", start: 0, end: 100, wantIDs: []int{1, 2, 3}},
		{name: "window in a gap", start: 8.5, end: 9.5, wantIDs: nil},
		{name: "window touching an interval edge", start: 8.0, end: 9.0, wantIDs: []int{2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := timeline.Intersecting(tc.start, tc.end)
			var ids []int
			for _, interval := range got {
				ids = append(ids, interval.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	timeline := Parse("1\n00:00:01,000 --> 00:00:02,000\nThe quick brown fox jumps over the lazy dog\n\n2\n00:00:03,000 --> 00:00:04,000\nThis is another English sentence about everyday life")
	tag := DetectLanguage(timeline)
	assert.Equal(t, "en", tag.String())

	assert.Equal(t, "und", DetectLanguage(&Timeline{}).String())
}
