package subtitle

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DetectLanguage guesses the dominant language of a timeline by majority vote
// over per-interval detection. Returns language.Und for an empty timeline.
func DetectLanguage(t *Timeline) language.Tag {
	if t == nil || len(t.Intervals) == 0 {
		return language.Und
	}

	counts := make(map[string]int)
	for _, interval := range t.Intervals {
		iso := whatlanggo.DetectLang(interval.Text).Iso6391()
		counts[iso]++
	}

	var topLang string
	var topCount int
	for iso, count := range counts {
		if count > topCount {
			topLang = iso
			topCount = count
		}
	}
	if topLang == "" {
		return language.Und
	}
	return language.Make(topLang)
}
