// Package scheduler provides the goroutine that owns all session state.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/trueshuffle/internal/ports"
)

// Loop runs posted closures one at a time on a single goroutine.
//
// The queue is unbounded: Post never blocks, so a player adapter publishing
// from inside a command the loop itself issued cannot deadlock against it.
type Loop struct {
	logger *slog.Logger

	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	running bool
	stopped bool

	asyncWG sync.WaitGroup
	done    chan struct{}
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop(logger *slog.Logger) *Loop {
	return &Loop{
		logger: logger.With(slog.String("component", "scheduler")),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post queues fn. Closures posted after the loop stopped are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After posts fn once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return func() { t.Stop() }
}

// Async runs work on its own goroutine and posts the returned func.
// Run waits for outstanding async work before returning.
func (l *Loop) Async(work func() func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.asyncWG.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.asyncWG.Done()
		if apply := work(); apply != nil {
			l.Post(apply)
		}
	}()
}

// Run processes closures until ctx is canceled. It returns after in-flight
// async work has finished; closures still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) {
	l.mu.Lock()
	if l.running || l.stopped {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.stopped = true
			dropped := len(l.queue)
			l.queue = nil
			l.mu.Unlock()
			l.asyncWG.Wait()
			if dropped > 0 {
				l.logger.Debug("loop stopped with queued work", slog.Int("dropped", dropped))
			}
			return
		case <-l.wake:
			l.drain(ctx)
		}
	}
}

func (l *Loop) drain(ctx context.Context) {
	for ctx.Err() == nil {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.run(fn)
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("scheduled task panicked", slog.Any("panic", r))
		}
	}()
	fn()
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

var _ ports.Scheduler = (*Loop)(nil)
