// Package subtitle parses time-coded subtitle text into an ordered timeline
// and answers playback-position queries against it.
package subtitle

// Interval is a single subtitle cue with times in seconds.
type Interval struct {
	ID        int
	StartTime float64
	EndTime   float64
	Text      string
}

// Contains reports whether t falls inside the interval, bounds inclusive.
func (i Interval) Contains(t float64) bool {
	return i.StartTime <= t && t <= i.EndTime
}

// Overlaps reports whether the interval intersects the [start, end] window.
func (i Interval) Overlaps(start, end float64) bool {
	return i.StartTime <= end && i.EndTime >= start
}

// Timeline is an ordered sequence of subtitle intervals, sorted ascending by
// start time. Duration is the largest end time, or 0 when no block parsed.
type Timeline struct {
	Intervals []Interval
	Duration  float64
	Dropped   int // malformed blocks skipped during parsing
}

// Len returns the number of parsed intervals.
func (t *Timeline) Len() int {
	return len(t.Intervals)
}

// CurrentAt returns the interval containing playback position at, or nil when
// no interval covers it. When intervals improperly overlap, the one with the
// smallest start time wins.
func (t *Timeline) CurrentAt(at float64) *Interval {
	for i := range t.Intervals {
		interval := t.Intervals[i]
		if interval.StartTime > at {
			// Sorted ascending, nothing later can contain at.
			break
		}
		if interval.Contains(at) {
			return &t.Intervals[i]
		}
	}
	return nil
}

// Intersecting returns all intervals overlapping the [start, end] window, in
// timeline order.
func (t *Timeline) Intersecting(start, end float64) []Interval {
	var result []Interval
	for _, interval := range t.Intervals {
		if interval.StartTime > end {
			break
		}
		if interval.Overlaps(start, end) {
			result = append(result, interval)
		}
	}
	return result
}
