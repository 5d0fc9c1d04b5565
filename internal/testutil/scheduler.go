package testutil

import (
	"slices"
	"time"
)

// ManualScheduler is a ports.Scheduler driven entirely by the test.
// Nothing runs until the test calls Drain or Advance, and everything runs on
// the test goroutine, so session code under test behaves exactly as it would
// on the real loop but deterministically.
type ManualScheduler struct {
	now    time.Duration
	queue  []func()
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	at       time.Duration
	seq      int
	fn       func()
	canceled bool
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Post queues fn for the next Drain.
func (s *ManualScheduler) Post(fn func()) {
	s.queue = append(s.queue, fn)
}

// After arms fn to be queued once virtual time reaches now+d.
func (s *ManualScheduler) After(d time.Duration, fn func()) func() {
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.canceled = true }
}

// Async runs work immediately and queues its apply step.
func (s *ManualScheduler) Async(work func() func()) {
	if apply := work(); apply != nil {
		s.Post(apply)
	}
}

// Drain runs queued closures, including ones queued while draining.
func (s *ManualScheduler) Drain() {
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		fn()
	}
}

// Advance moves virtual time forward by d, firing due timers in deadline
// order and draining after each one.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.Drain()
	target := s.now + d
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		s.timers = slices.DeleteFunc(s.timers, func(t *manualTimer) bool { return t == next })
		if !next.canceled {
			next.fn()
		}
		s.Drain()
	}
	s.now = target
}

func (s *ManualScheduler) nextDue(limit time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range s.timers {
		if t.at > limit {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of armed, uncanceled timers.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.canceled {
			n++
		}
	}
	return n
}
