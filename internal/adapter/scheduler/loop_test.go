package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/trueshuffle/internal/logger"
	"github.com/tejashwikalptaru/trueshuffle/internal/testutil"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	loop := NewLoop(logger.NewTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	return loop, cancel
}

func stopLoop(t *testing.T, loop *Loop, cancel context.CancelFunc) {
	t.Helper()
	cancel()
	select {
	case <-loop.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoop_RunsPostedWorkInOrder(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	loop, cancel := startLoop(t)
	defer stopLoop(t, loop, cancel)

	var got []int
	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		loop.Post(func() { got = append(got, i) })
	}
	loop.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("posted work did not run")
	}
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_PostFromInsideTaskDoesNotBlock(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	loop, cancel := startLoop(t)
	defer stopLoop(t, loop, cancel)

	done := make(chan struct{})
	loop.Post(func() {
		for i := 0; i < 1000; i++ {
			loop.Post(func() {})
		}
		loop.Post(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("nested posts deadlocked")
	}
}

func TestLoop_After(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	loop, cancel := startLoop(t)
	defer stopLoop(t, loop, cancel)

	fired := make(chan struct{})
	loop.After(10*time.Millisecond, func() { close(fired) })

	canceledRan := false
	stop := loop.After(10*time.Millisecond, func() { canceledRan = true })
	stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("After callback did not fire")
	}

	flushed := make(chan struct{})
	loop.Post(func() { close(flushed) })
	<-flushed
	assert.False(t, canceledRan)
}

func TestLoop_AsyncAppliesOnLoop(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	loop, cancel := startLoop(t)
	defer stopLoop(t, loop, cancel)

	var mu sync.Mutex
	applied := make(chan string, 1)
	loop.Async(func() func() {
		mu.Lock()
		defer mu.Unlock()
		result := "loaded"
		return func() { applied <- result }
	})

	select {
	case got := <-applied:
		assert.Equal(t, "loaded", got)
	case <-time.After(2 * time.Second):
		t.Fatal("async result was not applied")
	}
}

func TestLoop_PanicDoesNotStopLoop(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	loop, cancel := startLoop(t)
	defer stopLoop(t, loop, cancel)

	done := make(chan struct{})
	loop.Post(func() { panic("boom") })
	loop.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop died after panic")
	}
}

func TestLoop_PostAfterStopIsDropped(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	loop, cancel := startLoop(t)
	stopLoop(t, loop, cancel)

	ran := false
	loop.Post(func() { ran = true })
	loop.Async(func() func() { ran = true; return nil })
	assert.False(t, ran)
}
