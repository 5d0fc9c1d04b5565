package service

import (
	"slices"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// HistoryTracker keeps the two session-scoped histories:
//
//   - play history, most-recent-first, used for scoring and anti-repeat;
//   - navigation history, oldest-first with a cursor, used for back/forward.
//
// Both are bounded to the same size. Not safe for concurrent use; it lives
// on the session thread.
type HistoryTracker struct {
	limit  int
	plays  []domain.HistoryEntry
	nav    []string
	navIdx int
}

// NewHistoryTracker creates an empty tracker bounded to limit entries.
func NewHistoryTracker(limit int) *HistoryTracker {
	if limit < 1 {
		limit = 1
	}
	return &HistoryTracker{limit: limit, navIdx: -1}
}

// RecordPlay moves track to the front of the play history.
func (h *HistoryTracker) RecordPlay(track domain.Track) {
	h.plays = slices.DeleteFunc(h.plays, func(e domain.HistoryEntry) bool {
		return e.TrackURI == track.URI
	})
	h.prepend(track.Entry())
}

// RecordFailedAttempt prepends track without deduplicating, so the next
// selection treats it as just played.
func (h *HistoryTracker) RecordFailedAttempt(track domain.Track) {
	h.prepend(track.Entry())
}

func (h *HistoryTracker) prepend(e domain.HistoryEntry) {
	h.plays = slices.Insert(h.plays, 0, e)
	if len(h.plays) > h.limit {
		h.plays = h.plays[:h.limit]
	}
}

// Entries returns a copy of the play history, most recent first.
func (h *HistoryTracker) Entries() []domain.HistoryEntry {
	return slices.Clone(h.plays)
}

// Excluded reports whether uri appears among the first window play entries.
func (h *HistoryTracker) Excluded(uri string, window int) bool {
	for _, e := range h.plays[:min(window, len(h.plays))] {
		if e.TrackURI == uri {
			return true
		}
	}
	return false
}

// PushNavigation appends uri after the cursor, discarding any forward
// entries, and moves the cursor onto it.
func (h *HistoryTracker) PushNavigation(uri string) {
	if h.navIdx < len(h.nav)-1 {
		h.nav = h.nav[:h.navIdx+1]
	}
	h.nav = append(h.nav, uri)
	h.navIdx = len(h.nav) - 1

	if overflow := len(h.nav) - h.limit; overflow > 0 {
		h.nav = slices.Clone(h.nav[overflow:])
		h.navIdx -= overflow
	}
}

// StepBack moves the cursor one entry back and returns the URI there.
func (h *HistoryTracker) StepBack() (string, bool) {
	if !h.CanStepBack() {
		return "", false
	}
	h.navIdx--
	return h.nav[h.navIdx], true
}

// StepForward moves the cursor one entry forward and returns the URI there.
func (h *HistoryTracker) StepForward() (string, bool) {
	if h.AtTail() {
		return "", false
	}
	h.navIdx++
	return h.nav[h.navIdx], true
}

// CanStepBack reports whether the cursor is above its floor.
func (h *HistoryTracker) CanStepBack() bool {
	return h.navIdx > 0
}

// AtTail reports whether the cursor is on the newest entry (or the history is empty).
func (h *HistoryTracker) AtTail() bool {
	return h.navIdx >= len(h.nav)-1
}

// Cursor returns the navigation cursor, -1 when empty.
func (h *HistoryTracker) Cursor() int {
	return h.navIdx
}

// Navigation returns a copy of the navigation timeline, oldest first.
func (h *HistoryTracker) Navigation() []string {
	return slices.Clone(h.nav)
}

// Reset clears both histories.
func (h *HistoryTracker) Reset() {
	h.plays = nil
	h.nav = nil
	h.navIdx = -1
}
