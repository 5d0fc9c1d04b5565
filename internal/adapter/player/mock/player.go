// Package mock provides an in-memory implementation of the Player interface.
// It is used for testing services and for the simulate command, without a
// real streaming account.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/ports"
)

// Player simulates a media player in memory.
//
// Every change of the playing track is published as a TrackChangedEvent on
// the bus, after the player's lock has been released, so subscribers may
// call back into the player.
//
// Its native shuffle is deliberately biased: Next prefers tracks near the
// start of the playlist, which makes the effect of the session core visible
// in simulation.
//
// Thread-safety: This implementation is thread-safe.
type Player struct {
	logger *slog.Logger
	bus    ports.EventBus
	rng    *rand.Rand

	mu       sync.RWMutex
	contexts map[string][]domain.ContextItem
	pctx     domain.PlaybackContext
	index    int
	shuffle  bool
	volume   float64
	progress time.Duration

	// Scripted behavior (for testing)
	nativeQueue []string
	failLoad    bool
	failNext    bool
	stallNext   bool
	failVolume  bool
	failPlay    map[string]bool

	calls []string
}

// NewPlayer creates a mock player with native shuffle on and full volume.
// A nil rng uses a fixed seed.
func NewPlayer(logger *slog.Logger, bus ports.EventBus, rng *rand.Rand) *Player {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &Player{
		logger:   logger.With(slog.String("adapter", "mock-player")),
		bus:      bus,
		rng:      rng,
		contexts: make(map[string][]domain.ContextItem),
		index:    -1,
		shuffle:  true,
		volume:   1.0,
		failPlay: make(map[string]bool),
	}
}

// AddContext registers the items of a context.
func (p *Player) AddContext(contextURI string, items []domain.ContextItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contexts[contextURI] = slices.Clone(items)
}

// Start begins playback of trackURI inside contextURI, as if the user had
// picked it in the host UI. An empty trackURI starts the first item.
func (p *Player) Start(contextURI, trackURI string) error {
	p.mu.Lock()
	items, ok := p.contexts[contextURI]
	if !ok || len(items) == 0 {
		p.mu.Unlock()
		return domain.NewPlayerError("start", contextURI, domain.ErrPlaylistUnavailable)
	}
	idx := 0
	if trackURI != "" {
		idx = indexOf(items, trackURI)
		if idx < 0 {
			p.mu.Unlock()
			return domain.NewPlayerError("start", trackURI, domain.ErrTrackNotFound)
		}
	}
	p.pctx = domain.PlaybackContext{URI: contextURI, Kind: domain.ContextKindFromURI(contextURI)}
	p.setIndexLocked(idx)
	ev := p.changedEventLocked()
	p.mu.Unlock()

	p.bus.Publish(ev)
	return nil
}

// SetShuffle flips native shuffle and publishes a ShuffleChangedEvent.
func (p *Player) SetShuffle(enabled bool) {
	p.mu.Lock()
	changed := p.shuffle != enabled
	p.shuffle = enabled
	p.mu.Unlock()

	if changed {
		p.bus.Publish(domain.NewShuffleChangedEvent(enabled))
	}
}

// QueueNative scripts the next tracks Next will choose.
func (p *Player) QueueNative(trackURIs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nativeQueue = append(p.nativeQueue, trackURIs...)
}

// SetFailPlay makes PlayTrackInContext fail for trackURI (for testing).
func (p *Player) SetFailPlay(trackURI string, fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fail {
		p.failPlay[trackURI] = true
	} else {
		delete(p.failPlay, trackURI)
	}
}

// SetFailLoad makes LoadContextItems fail (for testing).
func (p *Player) SetFailLoad(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failLoad = fail
}

// SetFailNext makes Next fail (for testing).
func (p *Player) SetFailNext(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = fail
}

// SetStallNext makes Next succeed without changing track, like a player
// that stops at the end of a playlist (for testing).
func (p *Player) SetStallNext(stall bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stallNext = stall
}

// SetFailVolume makes SetVolume fail (for testing).
func (p *Player) SetFailVolume(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failVolume = fail
}

// SetProgress moves the playback position of the current track.
func (p *Player) SetProgress(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = d
}

// Advance simulates d of playback. When the current track runs out the
// player advances on its own, exactly like a natural end of track.
func (p *Player) Advance(d time.Duration) {
	p.mu.Lock()
	if p.index < 0 {
		p.mu.Unlock()
		return
	}
	p.progress += d
	if p.progress < p.currentLocked().Duration {
		p.mu.Unlock()
		return
	}
	p.setIndexLocked(p.nativeNextLocked())
	ev := p.changedEventLocked()
	p.mu.Unlock()

	p.bus.Publish(ev)
}

// Calls returns the commands issued so far, e.g. "play:<uri>", "next", "volume:0.00".
func (p *Player) Calls() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.calls)
}

// ResetCalls clears the command log.
func (p *Player) ResetCalls() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}

// ShuffleEnabled implements ports.Player.
func (p *Player) ShuffleEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shuffle
}

// CurrentContext implements ports.Player.
func (p *Player) CurrentContext() domain.PlaybackContext {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pctx
}

// CurrentTrack implements ports.Player.
func (p *Player) CurrentTrack() (domain.Track, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.index < 0 {
		return domain.Track{}, false
	}
	return p.currentLocked().ToTrack(), true
}

// LoadContextItems implements ports.Player.
func (p *Player) LoadContextItems(ctx context.Context, contextURI string) ([]domain.ContextItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "load:"+contextURI)

	if p.failLoad {
		return nil, domain.NewPlayerError("load", contextURI, fmt.Errorf("mock load failure"))
	}
	items, ok := p.contexts[contextURI]
	if !ok {
		return nil, domain.NewPlayerError("load", contextURI, domain.ErrPlaylistUnavailable)
	}
	return slices.Clone(items), nil
}

// PlayTrackInContext implements ports.Player.
func (p *Player) PlayTrackInContext(ctx context.Context, contextURI, trackURI string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.calls = append(p.calls, "play:"+trackURI)

	if p.failPlay[trackURI] {
		p.mu.Unlock()
		return domain.NewPlayerError("play", trackURI, domain.ErrPlayFailed)
	}
	items := p.contexts[contextURI]
	idx := indexOf(items, trackURI)
	if idx < 0 {
		p.mu.Unlock()
		return domain.NewPlayerError("play", trackURI, domain.ErrTrackNotFound)
	}
	if !items[idx].Playable {
		p.mu.Unlock()
		return domain.NewPlayerError("play", trackURI, domain.ErrTrackUnplayable)
	}
	p.pctx = domain.PlaybackContext{URI: contextURI, Kind: domain.ContextKindFromURI(contextURI)}
	p.setIndexLocked(idx)
	ev := p.changedEventLocked()
	p.mu.Unlock()

	p.bus.Publish(ev)
	return nil
}

// Volume implements ports.Player.
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume
}

// SetVolume implements ports.Player.
func (p *Player) SetVolume(_ context.Context, volume float64) error {
	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf("volume:%.2f", volume))
	if p.failVolume {
		return domain.NewPlayerError("volume", "", fmt.Errorf("mock volume failure"))
	}
	p.volume = volume
	return nil
}

// Progress implements ports.Player.
func (p *Player) Progress() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.progress
}

// Duration implements ports.Player.
func (p *Player) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.index < 0 {
		return 0
	}
	return p.currentLocked().Duration
}

// Next implements ports.Player using the biased native shuffle.
func (p *Player) Next(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.calls = append(p.calls, "next")
	if p.failNext {
		p.mu.Unlock()
		return domain.NewPlayerError("next", "", fmt.Errorf("mock next failure"))
	}
	if p.index < 0 {
		p.mu.Unlock()
		return domain.NewPlayerError("next", "", domain.ErrNoActiveDevice)
	}
	if p.stallNext {
		p.mu.Unlock()
		return nil
	}
	p.setIndexLocked(p.nativeNextLocked())
	ev := p.changedEventLocked()
	p.mu.Unlock()

	p.bus.Publish(ev)
	return nil
}

// Previous implements ports.Player. It steps one item back in playlist order.
func (p *Player) Previous(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.calls = append(p.calls, "previous")
	if p.index < 0 {
		p.mu.Unlock()
		return domain.NewPlayerError("previous", "", domain.ErrNoActiveDevice)
	}
	n := len(p.contexts[p.pctx.URI])
	p.setIndexLocked((p.index - 1 + n) % n)
	ev := p.changedEventLocked()
	p.mu.Unlock()

	p.bus.Publish(ev)
	return nil
}

// SeekToStart implements ports.Player.
func (p *Player) SeekToStart(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "seek:0")
	p.progress = 0
	return nil
}

// nativeNextLocked picks the native successor: scripted picks first, then
// either a biased shuffle or plain playlist order.
func (p *Player) nativeNextLocked() int {
	items := p.contexts[p.pctx.URI]
	for len(p.nativeQueue) > 0 {
		uri := p.nativeQueue[0]
		p.nativeQueue = p.nativeQueue[1:]
		if idx := indexOf(items, uri); idx >= 0 {
			return idx
		}
		p.logger.Warn("scripted native pick not in context", slog.String("track", uri))
	}
	if len(items) <= 1 {
		return 0
	}
	if !p.shuffle {
		return (p.index + 1) % len(items)
	}
	// Favor the first third of the playlist.
	span := max(2, len(items)/3)
	if p.rng.IntN(4) == 0 {
		span = len(items)
	}
	idx := p.rng.IntN(span)
	if idx == p.index {
		idx = (idx + 1) % len(items)
	}
	return idx
}

func (p *Player) setIndexLocked(idx int) {
	p.index = idx
	p.progress = 0
}

func (p *Player) currentLocked() domain.ContextItem {
	return p.contexts[p.pctx.URI][p.index]
}

func (p *Player) changedEventLocked() domain.TrackChangedEvent {
	return domain.NewTrackChangedEvent(p.currentLocked().ToTrack(), p.pctx)
}

func indexOf(items []domain.ContextItem, uri string) int {
	return slices.IndexFunc(items, func(i domain.ContextItem) bool { return i.URI == uri })
}

// Verify that Player implements the Player interface
var _ ports.Player = (*Player)(nil)
