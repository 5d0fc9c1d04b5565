// Package spotify implements the Player port on top of the Spotify Web API.
//
// The Web API has no push channel, so the adapter samples the remote player
// periodically (see Poll) and publishes the differences as domain events.
// Getters answer from the last sample; commands go straight to the API.
package spotify

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/ports"
)

const pageSize = 100

// Options configures the adapter.
type Options struct {
	// RequestsPerSecond bounds calls into the Web API. Zero means 5.
	RequestsPerSecond float64
	// BaseURL overrides the API endpoint; it must end with a slash.
	BaseURL string
}

// Player drives a Spotify Connect device.
//
// Thread-safety: This implementation is thread-safe.
type Player struct {
	logger  *slog.Logger
	bus     ports.EventBus
	client  *spotify.Client
	limiter *rate.Limiter
	now     func() time.Time

	mu        sync.RWMutex
	state     snapshot
	known     bool
	sampledAt time.Time
}

// NewPlayer creates a player over an authenticated HTTP client.
func NewPlayer(logger *slog.Logger, bus ports.EventBus, httpClient *http.Client, opts Options) *Player {
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	var clientOpts []spotify.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(opts.BaseURL))
	}
	return &Player{
		logger:  logger.With(slog.String("adapter", "spotify-player")),
		bus:     bus,
		client:  spotify.New(httpClient, clientOpts...),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		now:     time.Now,
	}
}

// ShuffleEnabled reports the native shuffle flag from the last sample.
func (p *Player) ShuffleEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Shuffle
}

// CurrentContext returns the context from the last sample.
func (p *Player) CurrentContext() domain.PlaybackContext {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Context
}

// CurrentTrack returns the track from the last sample.
func (p *Player) CurrentTrack() (domain.Track, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Track, p.state.HasTrack
}

// Volume returns the device volume in [0, 1].
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Volume
}

// Duration returns the length of the current track.
func (p *Player) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Duration
}

// Progress extrapolates the playback position from the last sample.
func (p *Player) Progress() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pos := p.state.Progress
	if p.state.Playing && !p.sampledAt.IsZero() {
		pos += p.now().Sub(p.sampledAt)
	}
	if p.state.Duration > 0 && pos > p.state.Duration {
		pos = p.state.Duration
	}
	return pos
}

// LoadContextItems enumerates a playlist, following pagination.
func (p *Player) LoadContextItems(ctx context.Context, contextURI string) ([]domain.ContextItem, error) {
	id, err := playlistID(contextURI)
	if err != nil {
		return nil, domain.NewPlayerError("load", contextURI, err)
	}

	var items []domain.ContextItem
	offset := 0
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, domain.NewPlayerError("load", contextURI, err)
		}
		page, err := p.client.GetPlaylistItems(ctx, id,
			spotify.Limit(pageSize), spotify.Offset(offset), spotify.Market(spotify.MarketFromToken))
		if err != nil {
			return nil, domain.NewPlayerError("load", contextURI,
				classify(err, domain.ErrPlaylistUnavailable, domain.ErrPlaylistUnavailable))
		}

		for i := range page.Items {
			if item, ok := fromPlaylistItem(&page.Items[i]); ok {
				items = append(items, item)
			}
		}

		if len(page.Items) < pageSize {
			break
		}
		offset += pageSize
	}

	p.logger.Debug("loaded playlist items",
		slog.String("context", contextURI),
		slog.Int("count", len(items)))
	return items, nil
}

// PlayTrackInContext starts trackURI at its position inside contextURI.
func (p *Player) PlayTrackInContext(ctx context.Context, contextURI, trackURI string) error {
	cu := spotify.URI(contextURI)
	err := p.call(ctx, func(ctx context.Context) error {
		return p.client.PlayOpt(ctx, &spotify.PlayOptions{
			PlaybackContext: &cu,
			PlaybackOffset:  &spotify.PlaybackOffset{URI: spotify.URI(trackURI)},
		})
	})
	if err != nil {
		return domain.NewPlayerError("play", trackURI, classify(err, domain.ErrNoActiveDevice, domain.ErrPlayFailed))
	}
	return nil
}

// SetVolume sets the device volume; v is in [0, 1].
func (p *Player) SetVolume(ctx context.Context, v float64) error {
	if v < 0 || v > 1 {
		return domain.ErrInvalidVolume
	}
	if err := p.call(ctx, func(ctx context.Context) error {
		return p.client.Volume(ctx, int(math.Round(v*100)))
	}); err != nil {
		return domain.NewPlayerError("volume", "", classify(err, domain.ErrNoActiveDevice, domain.ErrPlayFailed))
	}

	p.mu.Lock()
	p.state.Volume = v
	p.mu.Unlock()
	return nil
}

// Next asks the device to advance using its own ordering.
func (p *Player) Next(ctx context.Context) error {
	if err := p.call(ctx, p.client.Next); err != nil {
		return domain.NewPlayerError("next", "", classify(err, domain.ErrNoActiveDevice, domain.ErrPlayFailed))
	}
	return nil
}

// Previous asks the device to go back using its own ordering.
func (p *Player) Previous(ctx context.Context) error {
	if err := p.call(ctx, p.client.Previous); err != nil {
		return domain.NewPlayerError("previous", "", classify(err, domain.ErrNoActiveDevice, domain.ErrPlayFailed))
	}
	return nil
}

// SeekToStart rewinds the current track.
func (p *Player) SeekToStart(ctx context.Context) error {
	if err := p.call(ctx, func(ctx context.Context) error {
		return p.client.Seek(ctx, 0)
	}); err != nil {
		return domain.NewPlayerError("seek", "", classify(err, domain.ErrNoActiveDevice, domain.ErrPlayFailed))
	}

	p.mu.Lock()
	p.state.Progress = 0
	p.sampledAt = p.now()
	p.mu.Unlock()
	return nil
}

func (p *Player) call(ctx context.Context, fn func(context.Context) error) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	return fn(ctx)
}
