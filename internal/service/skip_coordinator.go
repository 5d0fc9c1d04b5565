package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/ports"
)

// commandTimeout bounds player calls issued from deferred callbacks.
const commandTimeout = 10 * time.Second

// SkipCoordinator decides what a forward or back request does: replay
// navigation history, pass through to the native player, or pick with the
// Selector. It owns the re-entrancy guard and the mute/restore choreography.
//
// All methods must run on the session scheduler thread.
type SkipCoordinator struct {
	logger *slog.Logger
	player ports.Player
	bus    ports.EventBus
	sched  ports.Scheduler

	cache    *PlaylistCache
	history  *HistoryTracker
	selector *Selector
	tuning   domain.Tuning
	timing   domain.Timing

	state *SessionState
}

// NewSkipCoordinator creates a coordinator over shared session state.
func NewSkipCoordinator(
	logger *slog.Logger,
	player ports.Player,
	bus ports.EventBus,
	sched ports.Scheduler,
	cache *PlaylistCache,
	history *HistoryTracker,
	selector *Selector,
	tuning domain.Tuning,
	timing domain.Timing,
	state *SessionState,
) *SkipCoordinator {
	return &SkipCoordinator{
		logger:   logger.With(slog.String("service", "SkipCoordinator")),
		player:   player,
		bus:      bus,
		sched:    sched,
		cache:    cache,
		history:  history,
		selector: selector,
		tuning:   tuning,
		timing:   timing,
		state:    state,
	}
}

// Forward handles a forward-skip request in shuffle-driven mode.
// A request arriving while another is being handled is dropped.
func (c *SkipCoordinator) Forward(ctx context.Context) {
	if !c.begin(true) {
		return
	}
	if released := c.forward(ctx); !released {
		c.settle()
	}
}

// forward runs the forward algorithm with the guard held. It reports whether
// the guard was already released (native pass-through releases it early).
func (c *SkipCoordinator) forward(ctx context.Context) bool {
	pctx := c.state.context
	if !c.cache.EnsureLoaded(ctx, pctx.URI) {
		c.logger.Debug("skip ignored, playlist unavailable", slog.String("context", pctx.URI))
		c.restoreVolume(ctx)
		return false
	}

	if cur, ok := c.currentTrack(); ok {
		c.history.RecordPlay(cur)
	}

	if !c.history.AtTail() && c.replayForward(ctx, pctx) {
		return false
	}

	c.state.skipCount++
	if c.state.skipCount%c.tuning.TrueShuffleEvery != 0 {
		c.state.nativeRetries = 0
		c.passThrough(ctx)
		return true
	}

	c.pick(ctx, pctx)
	return false
}

// replayForward re-plays the next entry of navigation history. On failure
// the cursor is put back and false is returned.
func (c *SkipCoordinator) replayForward(ctx context.Context, pctx domain.PlaybackContext) bool {
	uri, ok := c.history.StepForward()
	if !ok {
		return false
	}
	track := c.lookup(uri)

	c.mute(ctx)
	if err := c.play(ctx, pctx, track); err != nil {
		c.history.StepBack()
		c.logger.Warn("forward replay failed",
			slog.String("track", uri),
			slog.String("error", err.Error()))
		return false
	}

	c.history.RecordPlay(track)
	c.confirm(track, domain.PickReplay)
	return true
}

// pick performs a True-Shuffle pick with bounded retries.
func (c *SkipCoordinator) pick(ctx context.Context, pctx domain.PlaybackContext) {
	c.mute(ctx)

	for attempt := 1; attempt <= c.tuning.MaxPlayAttempts; attempt++ {
		track, ok := c.selector.Select(c.cache.Tracks(), c.history.Entries())
		if !ok {
			break
		}
		if err := c.play(ctx, pctx, track); err != nil {
			c.history.RecordFailedAttempt(track)
			c.logger.Warn("play attempt failed",
				slog.Int("attempt", attempt),
				slog.String("track", track.URI),
				slog.String("error", err.Error()))
			continue
		}

		c.history.PushNavigation(track.URI)
		c.history.RecordPlay(track)
		c.logger.Info("shuffle pick", slog.String("track", track.String()))
		c.confirm(track, domain.PickSelector)
		return
	}

	c.logger.Info("skip abandoned after failed attempts", slog.Int("attempts", c.tuning.MaxPlayAttempts))
	c.restoreVolume(ctx)
}

// passThrough hands the skip to the native player after a short delay and
// marks the resulting track change for validation.
func (c *SkipCoordinator) passThrough(ctx context.Context) {
	c.state.op++
	c.state.pendingNative = true
	c.state.guardHeld = false
	c.mute(ctx)

	epoch, op := c.state.epoch, c.state.op
	c.sched.After(c.timing.PassThroughDelay, func() {
		if c.state.epoch != epoch || c.state.op != op || !c.state.pendingNative {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if err := c.player.Next(ctx); err != nil {
			c.logger.Warn("native skip failed", slog.String("error", err.Error()))
			c.state.pendingNative = false
			c.restoreVolume(ctx)
			return
		}
		c.sched.After(c.timing.NativeWait, func() {
			if c.state.epoch != epoch || c.state.op != op || !c.state.pendingNative {
				return
			}
			c.logger.Info("native skip produced no track change, unmuting")
			c.state.pendingNative = false
			c.state.nativeRetries = 0
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()
			c.restoreVolume(ctx)
		})
	})
}

// ResolveNative validates the track the native player chose after a
// pass-through. Picks inside the no-repeat window are skipped again, still
// muted, up to MaxNativeRetries times; after that the Selector decides.
func (c *SkipCoordinator) ResolveNative(ctx context.Context, track domain.Track) {
	if c.history.Excluded(track.URI, c.tuning.NoRepeatWindow) {
		if c.state.nativeRetries < c.tuning.MaxNativeRetries {
			c.state.nativeRetries++
			c.logger.Debug("native pick repeats recent track, skipping again",
				slog.String("track", track.URI),
				slog.Int("retry", c.state.nativeRetries))
			c.passThrough(ctx)
			return
		}

		c.logger.Info("native player keeps repeating, falling back to shuffle pick",
			slog.Int("retries", c.state.nativeRetries))
		c.state.pendingNative = false
		c.state.nativeRetries = 0
		c.hold()
		c.pick(ctx, c.state.context)
		c.settle()
		return
	}

	c.state.pendingNative = false
	c.state.nativeRetries = 0
	c.history.PushNavigation(track.URI)
	c.history.RecordPlay(track)
	c.confirm(track, domain.PickNative)
}

// Back handles a back-skip request in shuffle-driven mode.
func (c *SkipCoordinator) Back(ctx context.Context) {
	if !c.begin(false) {
		return
	}
	defer c.settle()

	if !c.history.CanStepBack() {
		if err := c.player.SeekToStart(ctx); err != nil {
			c.logger.Warn("seek to start failed", slog.String("error", err.Error()))
		}
		c.restoreVolume(ctx)
		return
	}

	uri, _ := c.history.StepBack()
	track := c.lookup(uri)
	if err := c.play(ctx, c.state.context, track); err != nil {
		c.history.StepForward()
		c.logger.Warn("back navigation failed",
			slog.String("track", uri),
			slog.String("error", err.Error()))
		c.restoreVolume(ctx)
		return
	}

	c.history.RecordPlay(track)
	c.confirm(track, domain.PickBack)
}

// begin takes the re-entrancy guard. A new request supersedes any pending
// pass-through and any unconsumed own-change marker.
func (c *SkipCoordinator) begin(forward bool) bool {
	if c.state.guardHeld {
		c.logger.Debug("request dropped, skip in progress", slog.Bool("forward", forward))
		c.bus.Publish(domain.NewSkipDroppedEvent(forward))
		return false
	}
	c.hold()
	c.state.op++
	c.state.pendingNative = false
	c.state.expectURI = ""
	return true
}

func (c *SkipCoordinator) hold() {
	c.state.guardHeld = true
	c.state.guardToken++
}

// settle releases the guard after SettleDelay, unless a newer holder took it.
func (c *SkipCoordinator) settle() {
	token := c.state.guardToken
	c.sched.After(c.timing.SettleDelay, func() {
		if c.state.guardToken == token {
			c.state.guardHeld = false
		}
	})
}

// Busy reports whether the guard is held.
func (c *SkipCoordinator) Busy() bool {
	return c.state.guardHeld
}

func (c *SkipCoordinator) play(ctx context.Context, pctx domain.PlaybackContext, track domain.Track) error {
	c.state.expectURI = track.URI
	if err := c.player.PlayTrackInContext(ctx, pctx.URI, track.URI); err != nil {
		c.state.expectURI = ""
		return err
	}
	c.state.current = track
	return nil
}

// confirm announces a confirmed pick and schedules the volume restore.
func (c *SkipCoordinator) confirm(track domain.Track, source domain.PickSource) {
	c.bus.Publish(domain.NewTrackPickedEvent(track, source))

	epoch, op := c.state.epoch, c.state.op
	c.sched.After(c.timing.MuteReleaseDelay, func() {
		if c.state.epoch != epoch || c.state.op != op {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		c.restoreVolume(ctx)
	})
}

// mute silences output, remembering the volume only on the first call of a
// transition.
func (c *SkipCoordinator) mute(ctx context.Context) {
	if c.state.muted {
		return
	}
	vol := c.player.Volume()
	if err := c.player.SetVolume(ctx, 0); err != nil {
		c.logger.Warn("mute failed", slog.String("error", err.Error()))
		return
	}
	c.state.muted = true
	c.state.savedVolume = vol
}

// restoreVolume undoes mute. It is a no-op when not muted.
func (c *SkipCoordinator) restoreVolume(ctx context.Context) {
	if !c.state.muted {
		return
	}
	if err := c.player.SetVolume(ctx, c.state.savedVolume); err != nil {
		c.logger.Warn("volume restore failed", slog.String("error", err.Error()))
		return
	}
	c.state.muted = false
}

func (c *SkipCoordinator) currentTrack() (domain.Track, bool) {
	if t, ok := c.player.CurrentTrack(); ok {
		return t, true
	}
	return c.state.current, c.state.current.URI != ""
}

// lookup resolves a URI against the cache so history entries keep artists.
func (c *SkipCoordinator) lookup(uri string) domain.Track {
	if t, ok := c.cache.Snapshot().Find(uri); ok {
		return t
	}
	return domain.Track{URI: uri}
}
