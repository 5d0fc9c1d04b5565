package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/ports"
)

// SessionController wires player events to the history, cache and skip
// coordinator, and exposes the on/off toggle.
//
// Public methods are safe to call from any goroutine: they post onto the
// scheduler. Everything else runs on the scheduler thread.
type SessionController struct {
	// Dependencies (injected)
	logger *slog.Logger
	player ports.Player
	bus    ports.EventBus
	sched  ports.Scheduler
	timing domain.Timing

	// Components
	history *HistoryTracker
	cache   *PlaylistCache
	coord   *SkipCoordinator

	// State (scheduler thread only)
	state      SessionState
	sessionLog *slog.Logger

	active   atomic.Bool
	stopped  atomic.Bool
	started  atomic.Bool
	subs     []domain.SubscriptionID
	cancelFn func()

	statusMu sync.RWMutex
	status   domain.SessionStatus
}

// NewSessionController creates a controller with the toggle on.
// Call Start to subscribe and begin sampling.
func NewSessionController(
	logger *slog.Logger,
	player ports.Player,
	bus ports.EventBus,
	sched ports.Scheduler,
	tuning domain.Tuning,
	timing domain.Timing,
	rng *rand.Rand,
) *SessionController {
	c := &SessionController{
		logger: logger.With(slog.String("service", "SessionController")),
		player: player,
		bus:    bus,
		sched:  sched,
		timing: timing,
	}
	c.sessionLog = c.logger
	c.history = NewHistoryTracker(tuning.HistorySize)
	c.cache = NewPlaylistCache(logger, player)
	c.coord = NewSkipCoordinator(logger, player, bus, sched, c.cache, c.history,
		NewSelector(tuning, rng), tuning, timing, &c.state)
	c.active.Store(true)
	c.status = domain.SessionStatus{Active: true, NavCursor: -1}
	return c
}

// Start subscribes to player events, seeds the session from whatever is
// playing now and starts progress sampling.
func (c *SessionController) Start() {
	if c.started.Swap(true) {
		return
	}

	c.subs = append(c.subs,
		c.bus.Subscribe(domain.EventTrackChanged, func(e domain.Event) {
			ev := e.(domain.TrackChangedEvent)
			c.post(func(ctx context.Context) { c.onTrackChanged(ctx, ev) })
		}),
		c.bus.Subscribe(domain.EventShuffleChanged, func(e domain.Event) {
			ev := e.(domain.ShuffleChangedEvent)
			c.post(func(ctx context.Context) { c.onShuffleChanged(ctx, ev) })
		}),
	)

	c.post(func(ctx context.Context) {
		if pctx := c.player.CurrentContext(); pctx.URI != "" {
			track, _ := c.player.CurrentTrack()
			c.changeContext(ctx, pctx, track)
		}
	})
	c.sched.Post(c.sample)

	c.logger.Info("session controller started")
}

// Shutdown unsubscribes, stops sampling and restores the volume if a skip
// left it muted. The done channel closes once that restore has run.
func (c *SessionController) Shutdown() <-chan struct{} {
	done := make(chan struct{})
	if c.stopped.Swap(true) {
		close(done)
		return done
	}

	for _, id := range c.subs {
		c.bus.Unsubscribe(id)
	}
	c.subs = nil

	c.sched.Post(func() {
		defer close(done)
		if c.cancelFn != nil {
			c.cancelFn()
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		c.state.pendingNative = false
		c.coord.restoreVolume(ctx)
	})

	c.logger.Info("session controller shutting down")
	return done
}

// Toggle flips the active flag and returns the new value.
func (c *SessionController) Toggle() bool {
	for {
		old := c.active.Load()
		if c.active.CompareAndSwap(old, !old) {
			c.applyActive(!old)
			return !old
		}
	}
}

// SetActive sets the active flag.
func (c *SessionController) SetActive(active bool) {
	if c.active.Swap(active) != active {
		c.applyActive(active)
	}
}

func (c *SessionController) applyActive(active bool) {
	c.logger.Info("true shuffle toggled", slog.Bool("active", active))
	c.bus.Publish(domain.NewActiveToggledEvent(active))
	c.post(func(ctx context.Context) {
		if !active {
			c.state.pendingNative = false
			c.coord.restoreVolume(ctx)
		}
	})
}

// Active reports the toggle state.
func (c *SessionController) Active() bool {
	return c.active.Load()
}

// RequestSkip is the single entry point for forward skips.
func (c *SessionController) RequestSkip() {
	c.post(func(ctx context.Context) {
		if !c.shuffleDriven() {
			if err := c.player.Next(ctx); err != nil {
				c.sessionLog.Warn("native next failed", slog.String("error", err.Error()))
			}
			return
		}
		c.coord.Forward(ctx)
	})
}

// RequestBack is the single entry point for back skips.
func (c *SessionController) RequestBack() {
	c.post(func(ctx context.Context) {
		if !c.shuffleDriven() {
			if err := c.player.Previous(ctx); err != nil {
				c.sessionLog.Warn("native previous failed", slog.String("error", err.Error()))
			}
			return
		}
		c.coord.Back(ctx)
	})
}

// Status returns the last published status readout.
func (c *SessionController) Status() domain.SessionStatus {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// shuffleDriven is true when the toggle is on, native shuffle is on and the
// context is a playlist.
func (c *SessionController) shuffleDriven() bool {
	return c.Active() && c.player.ShuffleEnabled() && c.state.context.IsPlaylist()
}

func (c *SessionController) onTrackChanged(ctx context.Context, ev domain.TrackChangedEvent) {
	if ev.Context.URI != c.state.context.URI {
		c.changeContext(ctx, ev.Context, ev.Track)
		return
	}

	prevProgress, prevDuration := c.state.lastProgress, c.state.lastDuration
	c.state.current = ev.Track
	c.state.lastProgress, c.state.lastDuration = 0, ev.Track.Duration

	switch {
	case c.state.pendingNative:
		c.coord.ResolveNative(ctx, ev.Track)
		return
	case c.state.expectURI != "" && ev.Track.URI == c.state.expectURI:
		c.state.expectURI = ""
		return
	case c.state.guardHeld:
		c.sessionLog.Debug("track change ignored during skip", slog.String("track", ev.Track.URI))
		return
	case !c.Active():
		return
	}

	if c.shuffleDriven() && nearEnd(prevProgress, prevDuration, c.timing.EndOfTrackWindow) {
		c.sessionLog.Debug("track ended naturally, choosing next",
			slog.Duration("progress", prevProgress),
			slog.Duration("duration", prevDuration))
		c.coord.Forward(ctx)
		return
	}

	c.history.PushNavigation(ev.Track.URI)
	c.history.RecordPlay(ev.Track)
}

func nearEnd(progress, duration, window time.Duration) bool {
	return duration > 0 && duration-progress <= window
}

// changeContext resets everything scoped to the previous context.
func (c *SessionController) changeContext(ctx context.Context, pctx domain.PlaybackContext, track domain.Track) {
	prev := c.state.context
	c.coord.restoreVolume(ctx)
	c.state.resetForContext(pctx, track)
	c.history.Reset()
	c.cache.Clear()
	if track.URI != "" {
		c.history.PushNavigation(track.URI)
		c.history.RecordPlay(track)
	}

	c.sessionLog = c.logger.With(slog.String("context_session", uuid.NewString()))
	c.sessionLog.Info("context changed",
		slog.String("from", prev.URI),
		slog.String("to", pctx.URI),
		slog.String("kind", string(pctx.Kind)))
	c.bus.Publish(domain.NewContextChangedEvent(prev, pctx))

	if pctx.IsPlaylist() {
		c.preload(pctx.URI)
	}
}

// preload fetches the playlist off the session thread and installs it if the
// context is still current when the result comes back.
func (c *SessionController) preload(contextURI string) {
	epoch := c.state.epoch
	c.sched.Async(func() func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		snap, err := Fetch(ctx, c.player, contextURI)
		return func() {
			if c.state.epoch != epoch {
				return
			}
			if err != nil {
				c.sessionLog.Warn("playlist preload failed", slog.String("error", err.Error()))
				return
			}
			if c.cache.Snapshot() == nil {
				c.cache.Install(snap)
			}
			c.refreshStatus()
		}
	})
}

func (c *SessionController) onShuffleChanged(ctx context.Context, ev domain.ShuffleChangedEvent) {
	c.sessionLog.Info("native shuffle changed", slog.Bool("enabled", ev.Enabled))
	if !ev.Enabled && c.state.pendingNative {
		c.state.pendingNative = false
		c.coord.restoreVolume(ctx)
	}
}

// sample records progress and duration, then re-arms itself. A sample taken
// after the player moved on but before its track-changed event was applied
// belongs to the next track and is dropped.
func (c *SessionController) sample() {
	if c.stopped.Load() {
		return
	}
	if t, ok := c.player.CurrentTrack(); !ok || t.URI == c.state.current.URI {
		c.state.lastProgress = c.player.Progress()
		c.state.lastDuration = c.player.Duration()
	}
	c.cancelFn = c.sched.After(c.timing.ProgressInterval, c.sample)
}

// post runs fn on the scheduler thread with a bounded context and refreshes
// the status readout afterwards.
func (c *SessionController) post(fn func(ctx context.Context)) {
	c.sched.Post(func() {
		if c.stopped.Load() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		fn(ctx)
		c.refreshStatus()
	})
}

func (c *SessionController) refreshStatus() {
	st := domain.SessionStatus{
		Active:        c.Active(),
		ShuffleDriven: c.shuffleDriven(),
		Context:       c.state.context,
		Current:       c.state.current,
		SkipCount:     c.state.skipCount,
		HistoryLen:    len(c.history.plays),
		NavCursor:     c.history.Cursor(),
		NavLen:        len(c.history.nav),
	}
	c.statusMu.Lock()
	c.status = st
	c.statusMu.Unlock()
}
