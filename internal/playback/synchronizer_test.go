package playback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soramame/dramalearn/internal/keyword"
	"github.com/soramame/dramalearn/internal/subtitle"
)

const rawSubtitles = "1\n00:00:02,500 --> 00:00:05,000\nHello world\n\n2\n00:00:05,500 --> 00:00:08,000\nThis is a test subtitle"

func testKeywords() []keyword.Definition {
	return []keyword.Definition{
		{ID: "kw-hello", Word: "hello", Translation: "bonjour", StartTime: 2.5, EndTime: 5.0},
		{ID: "kw-test", Word: "test", Translation: "essai", StartTime: 5.5, EndTime: 8.0},
	}
}

type recorder struct {
	subtitles []*subtitle.Interval
	keywords  [][]string
	sighted   []string
}

func newRecordingSynchronizer() (*Synchronizer, *recorder) {
	s := NewSynchronizer(nil)
	r := &recorder{}
	s.OnActiveSubtitleChanged(func(interval *subtitle.Interval) {
		r.subtitles = append(r.subtitles, interval)
	})
	s.OnActiveKeywordsChanged(func(ids []string) {
		r.keywords = append(r.keywords, ids)
	})
	s.OnKeywordSighted(func(k keyword.Definition) {
		r.sighted = append(r.sighted, k.ID)
	})
	return s, r
}

func TestSynchronizer_Lifecycle(t *testing.T) {
	s := NewSynchronizer(nil)
	assert.Equal(t, StateIdle, s.State())

	s.Load(rawSubtitles, testKeywords())
	assert.Equal(t, StateSyncing, s.State())

	s.LoadFailed(errors.New("network down"))
	assert.Equal(t, StateDegraded, s.State())

	// A fresh successful load recovers from degraded.
	s.Load(rawSubtitles, testKeywords())
	assert.Equal(t, StateSyncing, s.State())
}

func TestSynchronizer_DegradesOnMalformedSubtitles(t *testing.T) {
	s := NewSynchronizer(nil)
	s.Load("this is not a subtitle document", testKeywords())
	assert.Equal(t, StateDegraded, s.State())

	// Degraded ticks are ignored; playback is never blocked.
	s.Tick(3.0)
	assert.Nil(t, s.ActiveSubtitle())
}

func TestSynchronizer_TickComputesActiveState(t *testing.T) {
	s, r := newRecordingSynchronizer()
	s.Load(rawSubtitles, testKeywords())

	s.Tick(3.0)

	require.NotNil(t, s.ActiveSubtitle())
	assert.Equal(t, "Hello world", s.ActiveSubtitle().Text)
	assert.Equal(t, []string{"kw-hello"}, s.ActiveKeywordIDs())
	assert.Equal(t, []string{"kw-hello"}, r.sighted)
}

func TestSynchronizer_NoRedundantEmission(t *testing.T) {
	s, r := newRecordingSynchronizer()
	s.Load(rawSubtitles, testKeywords())

	s.Tick(3.0)
	s.Tick(3.5)
	s.Tick(4.0)

	// Same interval and keyword set throughout: one emission each.
	assert.Len(t, r.subtitles, 1)
	assert.Len(t, r.keywords, 1)
	assert.Len(t, r.sighted, 1)
}

func TestSynchronizer_TransitionsBetweenIntervals(t *testing.T) {
	s, r := newRecordingSynchronizer()
	s.Load(rawSubtitles, testKeywords())

	s.Tick(3.0) // first interval
	s.Tick(5.2) // gap
	s.Tick(6.0) // second interval

	require.Len(t, r.subtitles, 3)
	assert.Equal(t, "Hello world", r.subtitles[0].Text)
	assert.Nil(t, r.subtitles[1])
	assert.Equal(t, "This is a test subtitle", r.subtitles[2].Text)

	assert.Equal(t, [][]string{{"kw-hello"}, {}, {"kw-test"}}, r.keywords)
	assert.Equal(t, []string{"kw-hello", "kw-test"}, r.sighted)
}

func TestSynchronizer_SeekBackwardsIsIdempotent(t *testing.T) {
	s, r := newRecordingSynchronizer()
	s.Load(rawSubtitles, testKeywords())

	s.Tick(6.0)
	s.Tick(3.0) // seek backwards
	s.Tick(6.0) // and forwards again

	require.Len(t, r.subtitles, 3)
	assert.Equal(t, "This is a test subtitle", r.subtitles[2].Text)
	// Re-entering a window is a new sighting.
	assert.Equal(t, []string{"kw-test", "kw-hello", "kw-test"}, r.sighted)
}

func TestSynchronizer_TicksIgnoredWhileIdle(t *testing.T) {
	s, r := newRecordingSynchronizer()

	s.Tick(3.0)

	assert.Empty(t, r.subtitles)
	assert.Empty(t, r.keywords)
	assert.Equal(t, StateIdle, s.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "syncing", StateSyncing.String())
	assert.Equal(t, "degraded", StateDegraded.String())
}
