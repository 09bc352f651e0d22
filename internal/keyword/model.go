// Package keyword holds vocabulary definitions and finds their occurrences
// inside subtitle text.
package keyword

// Definition is a vocabulary item tied to a subtitle time window, with times
// in seconds.
type Definition struct {
	ID          string  `json:"id" yaml:"id" validate:"required"`
	Word        string  `json:"word" yaml:"word" validate:"required"`
	Translation string  `json:"translation" yaml:"translation" validate:"required"`
	StartTime   float64 `json:"startTime" yaml:"start_time" validate:"gte=0"`
	EndTime     float64 `json:"endTime" yaml:"end_time" validate:"gtfield=StartTime"`
	AudioURL    string  `json:"audioUrl,omitempty" yaml:"audio_url,omitempty" validate:"omitempty,url"`
}

// Match is one keyword occurrence inside a text. EndIndex is exclusive.
type Match struct {
	Keyword     Definition
	StartIndex  int
	EndIndex    int
	MatchedText string
}

// Segment is a contiguous span of the input text. Concatenating the Text of
// all segments reproduces the input exactly.
type Segment struct {
	Text      string
	IsKeyword bool
	Keyword   *Definition
}

// FilterByTimeWindow returns definitions whose [StartTime, EndTime] intersects
// the [start, end] window: fully inside, partially overlapping from either
// side, or fully containing the window.
func FilterByTimeWindow(keywords []Definition, start, end float64) []Definition {
	var result []Definition
	for _, k := range keywords {
		if k.StartTime <= end && k.EndTime >= start {
			result = append(result, k)
		}
	}
	return result
}
