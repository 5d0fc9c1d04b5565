package service

import (
	"context"
	"log/slog"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/ports"
)

// PlaylistCache holds the playable tracks of one context at a time.
// Entries are keyed by context URI only; a playlist edited server-side during
// a session is not noticed until the context changes.
type PlaylistCache struct {
	logger *slog.Logger
	player ports.Player

	snapshot *domain.PlaylistSnapshot
}

// NewPlaylistCache creates an empty cache.
func NewPlaylistCache(logger *slog.Logger, player ports.Player) *PlaylistCache {
	return &PlaylistCache{
		logger: logger.With(slog.String("service", "PlaylistCache")),
		player: player,
	}
}

// EnsureLoaded makes sure tracks for contextURI are cached, fetching them if
// the cached context differs. It returns true iff a non-empty list is cached.
// A fetch failure leaves the cache empty and returns false.
func (c *PlaylistCache) EnsureLoaded(ctx context.Context, contextURI string) bool {
	if contextURI == "" {
		return false
	}
	if c.snapshot != nil && c.snapshot.ContextURI == contextURI {
		return len(c.snapshot.Tracks) > 0
	}

	snap, err := Fetch(ctx, c.player, contextURI)
	if err != nil {
		c.logger.Warn("playlist load failed",
			slog.String("context", contextURI),
			slog.String("error", err.Error()))
		c.snapshot = nil
		return false
	}
	c.Install(snap)
	return len(snap.Tracks) > 0
}

// Install replaces the cache with snap.
func (c *PlaylistCache) Install(snap *domain.PlaylistSnapshot) {
	c.snapshot = snap
	if snap != nil {
		c.logger.Debug("playlist cached",
			slog.String("context", snap.ContextURI),
			slog.Int("tracks", len(snap.Tracks)))
	}
}

// Clear drops the cached snapshot.
func (c *PlaylistCache) Clear() {
	c.snapshot = nil
}

// Snapshot returns the cached snapshot, or nil.
func (c *PlaylistCache) Snapshot() *domain.PlaylistSnapshot {
	return c.snapshot
}

// Tracks returns the cached tracks, or nil.
func (c *PlaylistCache) Tracks() []domain.Track {
	if c.snapshot == nil {
		return nil
	}
	return c.snapshot.Tracks
}

// Fetch loads contextURI from the player and keeps only playable tracks.
// It touches no cache state and is safe to call off the session thread.
func Fetch(ctx context.Context, player ports.Player, contextURI string) (*domain.PlaylistSnapshot, error) {
	items, err := player.LoadContextItems(ctx, contextURI)
	if err != nil {
		return nil, domain.NewServiceError("PlaylistCache", "Fetch", "load context items", err)
	}

	snap := &domain.PlaylistSnapshot{
		ContextURI: contextURI,
		Tracks:     make([]domain.Track, 0, len(items)),
	}
	for _, item := range items {
		if !item.Playable || item.Kind != domain.ItemTrack || item.URI == "" {
			continue
		}
		snap.Tracks = append(snap.Tracks, item.ToTrack())
	}
	return snap, nil
}
