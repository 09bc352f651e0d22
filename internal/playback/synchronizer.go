// Package playback keeps subtitle and keyword highlighting synchronized with
// a live playback position delivered periodically by an external player.
package playback

import (
	"log/slog"
	"sort"

	"github.com/soramame/dramalearn/internal/keyword"
	"github.com/soramame/dramalearn/internal/subtitle"
)

// State is the synchronizer lifecycle state.
type State int

const (
	// StateIdle means no timeline or keyword set has been loaded yet.
	StateIdle State = iota
	// StateSyncing means ticks produce active-subtitle and active-keyword
	// signals.
	StateSyncing
	// StateDegraded means subtitle loading failed; playback continues
	// without highlighting until a fresh load succeeds.
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSyncing:
		return "syncing"
	case StateDegraded:
		return "degraded"
	}
	return "unknown"
}

// Synchronizer recomputes active state from scratch on every tick, as a pure
// function of the reported timestamp. Out-of-order or repeated ticks (seeks,
// loops) therefore never corrupt the displayed state.
type Synchronizer struct {
	state    State
	timeline *subtitle.Timeline
	keywords []keyword.Definition
	logger   *slog.Logger

	activeSubtitle   *subtitle.Interval
	activeKeywordIDs []string

	onSubtitleChanged func(*subtitle.Interval)
	onKeywordsChanged func([]string)
	onKeywordSighted  func(keyword.Definition)
}

func NewSynchronizer(logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{state: StateIdle, logger: logger}
}

// OnActiveSubtitleChanged registers the active-subtitle signal. The interval
// is nil when no subtitle covers the current position.
func (s *Synchronizer) OnActiveSubtitleChanged(fn func(*subtitle.Interval)) {
	s.onSubtitleChanged = fn
}

// OnActiveKeywordsChanged registers the active-keyword signal. IDs arrive
// sorted; the signal fires only when the set differs from the previous tick.
func (s *Synchronizer) OnActiveKeywordsChanged(fn func([]string)) {
	s.onKeywordsChanged = fn
}

// OnKeywordSighted fires when a keyword's time window becomes active. A
// sighting is informational only; unlocking a keyword requires an explicit
// exercise answer recorded through the progress tracker.
func (s *Synchronizer) OnKeywordSighted(fn func(keyword.Definition)) {
	s.onKeywordSighted = fn
}

// Load parses raw subtitle text and installs the keyword set. On success the
// synchronizer starts (or resumes) syncing; on a malformed document it
// degrades instead of failing, so the caller's playback is never blocked.
func (s *Synchronizer) Load(rawSubtitles string, keywords []keyword.Definition) {
	if !subtitle.IsWellFormed(rawSubtitles) {
		s.degrade("subtitle document has no well-formed time range")
		return
	}

	timeline := subtitle.Parse(rawSubtitles)
	if timeline.Len() == 0 {
		s.degrade("subtitle document parsed to an empty timeline")
		return
	}
	if timeline.Dropped > 0 {
		s.logger.Warn("some subtitle blocks were malformed and dropped",
			"dropped", timeline.Dropped,
			"parsed", timeline.Len())
	}

	s.timeline = timeline
	s.keywords = keywords
	s.state = StateSyncing
	s.activeSubtitle = nil
	s.activeKeywordIDs = nil
	s.logger.Info("subtitle timeline loaded",
		"intervals", timeline.Len(),
		"duration", timeline.Duration,
		"keywords", len(keywords))
}

// LoadFailed reports that fetching subtitles failed. The synchronizer
// degrades; a later successful Load returns it to syncing.
func (s *Synchronizer) LoadFailed(err error) {
	s.degrade("subtitle fetch failed")
	s.logger.Warn("continuing playback without highlighting", "error", err)
}

// Tick recomputes the active subtitle interval and active keyword set for
// playback position t. Signals fire only when a value differs from the
// previous tick. Ticks are ignored unless the synchronizer is syncing.
func (s *Synchronizer) Tick(t float64) {
	if s.state != StateSyncing {
		return
	}

	current := s.timeline.CurrentAt(t)
	active := keyword.FilterByTimeWindow(s.keywords, t, t)
	activeIDs := make([]string, 0, len(active))
	byID := make(map[string]keyword.Definition, len(active))
	for _, k := range active {
		activeIDs = append(activeIDs, k.ID)
		byID[k.ID] = k
	}
	sort.Strings(activeIDs)

	if !sameInterval(s.activeSubtitle, current) {
		s.activeSubtitle = current
		if s.onSubtitleChanged != nil {
			s.onSubtitleChanged(current)
		}
	}

	if !sameIDs(s.activeKeywordIDs, activeIDs) {
		if s.onKeywordSighted != nil {
			previous := make(map[string]struct{}, len(s.activeKeywordIDs))
			for _, id := range s.activeKeywordIDs {
				previous[id] = struct{}{}
			}
			for _, id := range activeIDs {
				if _, ok := previous[id]; !ok {
					s.onKeywordSighted(byID[id])
				}
			}
		}
		s.activeKeywordIDs = activeIDs
		if s.onKeywordsChanged != nil {
			s.onKeywordsChanged(activeIDs)
		}
	}
}

// Duration returns the loaded timeline's duration in seconds, or 0 when no
// timeline is loaded.
func (s *Synchronizer) Duration() float64 {
	if s.timeline == nil {
		return 0
	}
	return s.timeline.Duration
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	return s.state
}

// ActiveSubtitle returns the interval from the most recent tick, or nil.
func (s *Synchronizer) ActiveSubtitle() *subtitle.Interval {
	return s.activeSubtitle
}

// ActiveKeywordIDs returns the sorted keyword IDs from the most recent tick.
func (s *Synchronizer) ActiveKeywordIDs() []string {
	return s.activeKeywordIDs
}

func (s *Synchronizer) degrade(reason string) {
	s.state = StateDegraded
	s.activeSubtitle = nil
	s.activeKeywordIDs = nil
	s.logger.Warn("synchronizer degraded", "reason", reason)
}

func sameInterval(a, b *subtitle.Interval) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.StartTime == b.StartTime
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
