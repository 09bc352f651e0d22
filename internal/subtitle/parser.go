package subtitle

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// timeRangePattern matches an SRT time line: 00:02:16,612 --> 00:02:19,376
var timeRangePattern = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3}) --> (\d{2}):(\d{2}):(\d{2}),(\d{3})`)

var blockSeparator = regexp.MustCompile(`\n[ \t]*\n`)

// Parse converts raw SRT-style text into a Timeline. Blocks are separated by
// a blank line; each block is an index line, a time-range line, and one or
// more text lines. Malformed blocks are dropped and parsing continues.
// Intervals come out sorted ascending by start time regardless of input order.
func Parse(raw string) *Timeline {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	timeline := &Timeline{}
	for _, block := range blockSeparator.Split(normalized, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		interval, ok := parseBlock(block, len(timeline.Intervals)+1)
		if !ok {
			timeline.Dropped++
			slog.Debug("dropping malformed subtitle block", "block", block)
			continue
		}
		timeline.Intervals = append(timeline.Intervals, interval)
	}

	sort.SliceStable(timeline.Intervals, func(i, j int) bool {
		return timeline.Intervals[i].StartTime < timeline.Intervals[j].StartTime
	})
	for _, interval := range timeline.Intervals {
		if interval.EndTime > timeline.Duration {
			timeline.Duration = interval.EndTime
		}
	}
	return timeline
}

// IsWellFormed is a cheap probe for whether raw contains at least one
// well-formed time-range line, without running a full parse.
func IsWellFormed(raw string) bool {
	return timeRangePattern.MatchString(raw)
}

func parseBlock(block string, fallbackID int) (Interval, bool) {
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		return Interval{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		// Tolerate a non-numeric index line; the time line decides validity.
		id = fallbackID
	}

	matches := timeRangePattern.FindStringSubmatch(lines[1])
	if len(matches) != 9 {
		return Interval{}, false
	}
	start := toSeconds(matches[1], matches[2], matches[3], matches[4])
	end := toSeconds(matches[5], matches[6], matches[7], matches[8])
	if start >= end {
		return Interval{}, false
	}

	text := strings.TrimSpace(strings.Join(lines[2:], "\n"))
	return Interval{
		ID:        id,
		StartTime: start,
		EndTime:   end,
		Text:      text,
	}, true
}

func toSeconds(hours, minutes, seconds, milliseconds string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(milliseconds)
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}
