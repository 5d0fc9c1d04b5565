// Package ports define interfaces for external dependencies.
// The session core depends on these abstractions, never on concrete player integrations.
package ports

import (
	"context"
	"time"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// Player is the host media player the session core drives.
//
// Implementations:
//   - adapter/player/spotify: Spotify Web API (production)
//   - adapter/player/mock: in-memory simulation (testing, demo)
//
// The getters (ShuffleEnabled, CurrentContext, CurrentTrack, Volume, Progress,
// Duration) must be cheap and non-blocking: adapters answer them from cached
// state. Methods taking a context.Context may block on I/O.
//
// Track changes are not returned from the command methods. Implementations
// publish a domain.TrackChangedEvent on the event bus whenever the playing
// track changes, whoever caused it, and a domain.ShuffleChangedEvent when the
// native shuffle mode flips.
//
// Thread-safety: Implementations must be safe for concurrent use.
type Player interface {
	// ShuffleEnabled reports whether native shuffle is on.
	ShuffleEnabled() bool

	// CurrentContext returns the context currently governing playback.
	// A zero URI means nothing is playing from a context.
	CurrentContext() domain.PlaybackContext

	// CurrentTrack returns the playing track, if any.
	CurrentTrack() (domain.Track, bool)

	// LoadContextItems enumerates the full content of a context.
	// Unplayable and non-track items are included and flagged; callers filter.
	// Returns an error on network or permission failures.
	LoadContextItems(ctx context.Context, contextURI string) ([]domain.ContextItem, error)

	// PlayTrackInContext starts trackURI inside contextURI.
	// Returns an error if the player refused or failed to start the track.
	PlayTrackInContext(ctx context.Context, contextURI, trackURI string) error

	// Volume returns the output volume (0.0 to 1.0).
	Volume() float64

	// SetVolume sets the output volume (0.0 to 1.0).
	SetVolume(ctx context.Context, volume float64) error

	// Progress returns the playback position of the current track.
	Progress() time.Duration

	// Duration returns the length of the current track.
	Duration() time.Duration

	// Next invokes the player's own forward skip.
	Next(ctx context.Context) error

	// Previous invokes the player's own back skip.
	Previous(ctx context.Context) error

	// SeekToStart restarts the current track.
	SeekToStart(ctx context.Context) error
}
