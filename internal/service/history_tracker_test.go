package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

func track(uri string) domain.Track {
	return domain.Track{URI: uri, ArtistURI: "artist:" + uri}
}

func historyURIs(h *HistoryTracker) []string {
	var out []string
	for _, e := range h.Entries() {
		out = append(out, e.TrackURI)
	}
	return out
}

func TestHistoryTracker_RecordPlayDeduplicates(t *testing.T) {
	h := NewHistoryTracker(500)

	h.RecordPlay(track("a"))
	h.RecordPlay(track("b"))
	h.RecordPlay(track("c"))
	require.Equal(t, []string{"c", "b", "a"}, historyURIs(h))

	h.RecordPlay(track("a"))
	assert.Equal(t, []string{"a", "c", "b"}, historyURIs(h))
	assert.Equal(t, "artist:a", h.Entries()[0].ArtistURI)
}

func TestHistoryTracker_RecordFailedAttemptDoesNotDeduplicate(t *testing.T) {
	h := NewHistoryTracker(500)

	h.RecordPlay(track("a"))
	h.RecordFailedAttempt(track("a"))
	h.RecordFailedAttempt(track("b"))

	assert.Equal(t, []string{"b", "a", "a"}, historyURIs(h))
}

func TestHistoryTracker_Bounded(t *testing.T) {
	h := NewHistoryTracker(5)

	for i := 0; i < 20; i++ {
		h.RecordPlay(track(fmt.Sprint(i % 8)))
		h.RecordFailedAttempt(track("fail"))
		h.PushNavigation(fmt.Sprint(i))
		assert.LessOrEqual(t, len(h.Entries()), 5)
		assert.LessOrEqual(t, len(h.Navigation()), 5)
	}
	assert.Equal(t, []string{"15", "16", "17", "18", "19"}, h.Navigation())
	assert.Equal(t, 4, h.Cursor())
}

func TestHistoryTracker_Excluded(t *testing.T) {
	h := NewHistoryTracker(500)
	h.RecordPlay(track("a"))
	h.RecordPlay(track("b"))
	h.RecordPlay(track("c"))

	assert.True(t, h.Excluded("c", 1))
	assert.False(t, h.Excluded("a", 2))
	assert.True(t, h.Excluded("a", 3))
	assert.True(t, h.Excluded("a", 100))
	assert.False(t, h.Excluded("zzz", 100))
}

func TestHistoryTracker_NavigationSteps(t *testing.T) {
	h := NewHistoryTracker(500)
	assert.Equal(t, -1, h.Cursor())
	assert.True(t, h.AtTail())

	_, ok := h.StepBack()
	assert.False(t, ok)
	_, ok = h.StepForward()
	assert.False(t, ok)

	h.PushNavigation("a")
	h.PushNavigation("b")
	h.PushNavigation("c")
	assert.Equal(t, 2, h.Cursor())

	uri, ok := h.StepBack()
	require.True(t, ok)
	assert.Equal(t, "b", uri)
	uri, ok = h.StepBack()
	require.True(t, ok)
	assert.Equal(t, "a", uri)
	_, ok = h.StepBack()
	assert.False(t, ok, "cursor floor reached")
	assert.Equal(t, 0, h.Cursor())

	uri, ok = h.StepForward()
	require.True(t, ok)
	assert.Equal(t, "b", uri)
	assert.False(t, h.AtTail())
}

func TestHistoryTracker_PushTruncatesForwardEntries(t *testing.T) {
	h := NewHistoryTracker(500)
	for _, u := range []string{"a", "b", "c", "d"} {
		h.PushNavigation(u)
	}
	h.StepBack()
	h.StepBack()

	h.PushNavigation("x")

	assert.Equal(t, []string{"a", "b", "x"}, h.Navigation())
	assert.Equal(t, 2, h.Cursor())
	assert.True(t, h.AtTail())
	_, ok := h.StepForward()
	assert.False(t, ok, "no stale redo branch")
}

func TestHistoryTracker_OverflowShiftsCursor(t *testing.T) {
	h := NewHistoryTracker(3)
	h.PushNavigation("a")
	h.PushNavigation("b")
	h.PushNavigation("c")
	h.PushNavigation("d")

	assert.Equal(t, []string{"b", "c", "d"}, h.Navigation())
	assert.Equal(t, 2, h.Cursor())

	uri, ok := h.StepBack()
	require.True(t, ok)
	assert.Equal(t, "c", uri)
}

func TestHistoryTracker_Reset(t *testing.T) {
	h := NewHistoryTracker(500)
	h.RecordPlay(track("a"))
	h.PushNavigation("a")

	h.Reset()

	assert.Empty(t, h.Entries())
	assert.Empty(t, h.Navigation())
	assert.Equal(t, -1, h.Cursor())
	assert.False(t, h.CanStepBack())
}
