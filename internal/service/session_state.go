package service

import (
	"time"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// SessionState is the one mutable session value. The SessionController owns
// it and hands the SkipCoordinator a pointer; both touch it only from the
// scheduler thread.
type SessionState struct {
	// epoch changes on every context change. Deferred work captured under an
	// older epoch does nothing.
	epoch uint64
	// op changes on every skip/back request and every native pass-through.
	// Deferred work captured under an older op does nothing.
	op uint64

	context domain.PlaybackContext
	current domain.Track

	skipCount int

	guardHeld  bool
	guardToken uint64

	// expectURI is set while our own play command is in flight; the
	// track-changed event it causes is consumed rather than interpreted.
	expectURI string

	pendingNative bool
	nativeRetries int

	muted       bool
	savedVolume float64

	lastProgress time.Duration
	lastDuration time.Duration
}

// resetForContext clears everything scoped to one context.
func (s *SessionState) resetForContext(pctx domain.PlaybackContext, current domain.Track) {
	s.epoch++
	s.op++
	s.context = pctx
	s.current = current
	s.skipCount = 0
	s.expectURI = ""
	s.pendingNative = false
	s.nativeRetries = 0
	s.lastProgress = 0
	s.lastDuration = current.Duration
}
