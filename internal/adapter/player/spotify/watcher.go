package spotify

import (
	"context"
	"log/slog"
	"time"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// Refresh samples the remote player once and publishes what changed.
func (p *Player) Refresh(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	st, err := p.client.PlayerState(ctx)
	if err != nil {
		return domain.NewPlayerError("state", "", classify(err, domain.ErrNoActiveDevice, domain.ErrNoActiveDevice))
	}
	cur := fromPlayerState(st)

	p.mu.Lock()
	events := diffStates(p.state, p.known, cur)
	p.state = cur
	p.known = true
	p.sampledAt = p.now()
	p.mu.Unlock()

	for _, e := range events {
		p.bus.Publish(e)
	}
	return nil
}

// Poll samples the player every interval until ctx is cancelled.
// A failed sample is reported once until sampling recovers.
func (p *Player) Poll(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failing := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := p.Refresh(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			switch {
			case err == nil:
				failing = false
			case !failing:
				failing = true
				p.logger.Warn("player sample failed", slog.Any("error", err))
				p.bus.Publish(domain.NewPlayerErrorEvent("state", err))
			}
		}
	}
}

// diffStates compares two samples and returns the events to publish.
func diffStates(prev snapshot, known bool, cur snapshot) []domain.Event {
	var events []domain.Event

	if !known {
		if cur.HasTrack {
			events = append(events, domain.NewTrackChangedEvent(cur.Track, cur.Context))
		}
		return events
	}

	if prev.Shuffle != cur.Shuffle {
		events = append(events, domain.NewShuffleChangedEvent(cur.Shuffle))
	}

	if cur.HasTrack && (!prev.HasTrack || prev.Track.URI != cur.Track.URI || prev.Context.URI != cur.Context.URI) {
		events = append(events, domain.NewTrackChangedEvent(cur.Track, cur.Context))
	}

	return events
}
