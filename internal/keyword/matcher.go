package keyword

import (
	"log/slog"
	"regexp"
	"sort"
)

// Matcher finds keyword occurrences in text. Matching is case-insensitive and
// whole-word; keyword text is escaped before the pattern is built so regexp
// metacharacters in vocabulary never corrupt matching. Invalid definitions are
// excluded from matching rather than failing the call.
type Matcher struct {
	validator *Validator
	logger    *slog.Logger
}

func NewMatcher(validator *Validator, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{validator: validator, logger: logger}
}

// FindMatches returns every keyword occurrence in text, sorted ascending by
// start index. When two keyword spans would overlap, the longer word wins.
func (m *Matcher) FindMatches(text string, keywords []Definition) []Match {
	if text == "" || len(keywords) == 0 {
		return nil
	}

	valid := make([]Definition, 0, len(keywords))
	for _, k := range keywords {
		if err := m.validator.Validate(k); err != nil {
			m.logger.Debug("excluding keyword from matching", "error", err)
			continue
		}
		valid = append(valid, k)
	}
	// Longer words claim their spans first. This ordering is the single
	// overlap tie-break rule and applies to segmentation as well.
	sort.SliceStable(valid, func(i, j int) bool {
		return len(valid[i].Word) > len(valid[j].Word)
	})

	occupied := make([]bool, len(text))
	var matches []Match
	for _, k := range valid {
		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(k.Word) + `\b`)
		if err != nil {
			m.logger.Debug("excluding unmatchable keyword", "word", k.Word, "error", err)
			continue
		}
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if spanTaken(occupied, loc[0], loc[1]) {
				continue
			}
			claimSpan(occupied, loc[0], loc[1])
			matches = append(matches, Match{
				Keyword:     k,
				StartIndex:  loc[0],
				EndIndex:    loc[1],
				MatchedText: text[loc[0]:loc[1]],
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartIndex < matches[j].StartIndex
	})
	return matches
}

// SegmentText splits text into non-overlapping segments covering the whole
// input exactly once, flagging keyword occurrences.
func (m *Matcher) SegmentText(text string, keywords []Definition) []Segment {
	if text == "" {
		return nil
	}

	matches := m.FindMatches(text, keywords)
	var segments []Segment
	cursor := 0
	for i := range matches {
		match := matches[i]
		if match.StartIndex > cursor {
			segments = append(segments, Segment{Text: text[cursor:match.StartIndex]})
		}
		segments = append(segments, Segment{
			Text:      match.MatchedText,
			IsKeyword: true,
			Keyword:   &matches[i].Keyword,
		})
		cursor = match.EndIndex
	}
	if cursor < len(text) {
		segments = append(segments, Segment{Text: text[cursor:]})
	}
	return segments
}

func spanTaken(occupied []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if occupied[i] {
			return true
		}
	}
	return false
}

func claimSpan(occupied []bool, start, end int) {
	for i := start; i < end; i++ {
		occupied[i] = true
	}
}
