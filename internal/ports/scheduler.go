package ports

import "time"

// Scheduler serializes session work onto a single logical thread.
//
// Every closure handed to Post, every After callback and every Async apply
// step runs on that one thread, one at a time, in submission order. Code that
// only ever runs through a Scheduler needs no locking.
//
// Implementations:
//   - adapter/scheduler.Loop: one goroutine draining an unbounded queue
//   - testutil.ManualScheduler: virtual clock driven by the test
type Scheduler interface {
	// Post queues fn to run on the session thread. Never blocks.
	Post(fn func())

	// After runs fn on the session thread once d has elapsed.
	// The returned cancel func prevents fn from running if it has not started.
	After(d time.Duration, fn func()) (cancel func())

	// Async runs work off the session thread. If work returns a non-nil
	// func, that func is posted back onto the session thread.
	Async(work func() func())
}
