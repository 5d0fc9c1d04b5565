// Package domain contains the core business models and logic for trueshuffle.
// This package has no external dependencies and represents the heart of the application.
package domain

import (
	"strings"
	"time"
)

// Track is a single playable item inside a playlist context.
// Tracks are immutable once loaded; histories reference them by URI.
type Track struct {
	URI        string
	ArtistURI  string // primary artist, empty when unknown
	Name       string
	ArtistName string
	Duration   time.Duration
}

// Entry converts the track into a play-history entry.
func (t Track) Entry() HistoryEntry {
	return HistoryEntry{TrackURI: t.URI, ArtistURI: t.ArtistURI}
}

// String returns "Artist - Name", or the URI when no display data exists.
func (t Track) String() string {
	switch {
	case t.Name == "":
		return t.URI
	case t.ArtistName == "":
		return t.Name
	default:
		return t.ArtistName + " - " + t.Name
	}
}

// HistoryEntry records one play, most-recent-first in the play history.
type HistoryEntry struct {
	TrackURI  string
	ArtistURI string
}

// ItemKind classifies a context item reported by the player.
type ItemKind string

const (
	ItemTrack   ItemKind = "track"
	ItemEpisode ItemKind = "episode"
	ItemLocal   ItemKind = "local"
)

// ArtistRef is an artist credited on a context item.
type ArtistRef struct {
	URI  string
	Name string
}

// ContextItem is a raw entry of a context as enumerated by the player.
type ContextItem struct {
	URI      string
	Kind     ItemKind
	Playable bool
	Name     string
	Artists  []ArtistRef
	Duration time.Duration
}

// ToTrack maps the item onto a Track using its first credited artist.
func (i ContextItem) ToTrack() Track {
	t := Track{URI: i.URI, Name: i.Name, Duration: i.Duration}
	if len(i.Artists) > 0 {
		t.ArtistURI = i.Artists[0].URI
		t.ArtistName = i.Artists[0].Name
	}
	return t
}

// ContextKind is the type of container governing playback.
type ContextKind string

const (
	ContextPlaylist ContextKind = "playlist"
	ContextAlbum    ContextKind = "album"
	ContextArtist   ContextKind = "artist"
	ContextShow     ContextKind = "show"
	ContextUnknown  ContextKind = "unknown"
)

// PlaybackContext identifies what the player is currently playing from.
type PlaybackContext struct {
	URI  string
	Kind ContextKind
}

// IsPlaylist reports whether the context is a playlist.
func (c PlaybackContext) IsPlaylist() bool {
	return c.URI != "" && c.Kind == ContextPlaylist
}

// ContextKindFromURI derives the context kind from a "scheme:kind:id" URI.
func ContextKindFromURI(uri string) ContextKind {
	parts := strings.Split(uri, ":")
	if len(parts) < 3 {
		return ContextUnknown
	}
	switch ContextKind(parts[len(parts)-2]) {
	case ContextPlaylist:
		return ContextPlaylist
	case ContextAlbum:
		return ContextAlbum
	case ContextArtist:
		return ContextArtist
	case ContextShow:
		return ContextShow
	default:
		return ContextUnknown
	}
}

// PlaylistSnapshot is the cached, playable content of one context.
type PlaylistSnapshot struct {
	ContextURI string
	Tracks     []Track
}

// Find returns the track with the given URI.
func (s *PlaylistSnapshot) Find(uri string) (Track, bool) {
	if s == nil {
		return Track{}, false
	}
	for _, t := range s.Tracks {
		if t.URI == uri {
			return t, true
		}
	}
	return Track{}, false
}

// Tuning holds the selection and history constants.
type Tuning struct {
	HistorySize      int
	NoRepeatWindow   int
	RecencyDecayRate float64
	ArtistSpacing    int
	ArtistPenalty    float64
	MinWeight        float64
	TrueShuffleEvery int
	MaxPlayAttempts  int
	MaxNativeRetries int
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		HistorySize:      500,
		NoRepeatWindow:   100,
		RecencyDecayRate: 0.05,
		ArtistSpacing:    2,
		ArtistPenalty:    0.15,
		MinWeight:        0.05,
		TrueShuffleEvery: 3,
		MaxPlayAttempts:  3,
		MaxNativeRetries: 5,
	}
}

// Timing holds the delays used by the skip coordinator and session controller.
type Timing struct {
	SettleDelay      time.Duration // guard release after a handled request
	PassThroughDelay time.Duration // mute -> native next
	MuteReleaseDelay time.Duration // confirmed track -> volume restore
	EndOfTrackWindow time.Duration // trailing window treated as natural end
	ProgressInterval time.Duration // progress sampling period
	NativeWait       time.Duration // native next -> give up waiting for its track change
}

// DefaultTiming returns the stock timing.
func DefaultTiming() Timing {
	return Timing{
		SettleDelay:      1500 * time.Millisecond,
		PassThroughDelay: 100 * time.Millisecond,
		MuteReleaseDelay: 300 * time.Millisecond,
		EndOfTrackWindow: 5 * time.Second,
		ProgressInterval: time.Second,
		NativeWait:       3 * time.Second,
	}
}

// SessionStatus is the status readout exposed to the UI.
type SessionStatus struct {
	Active        bool
	ShuffleDriven bool
	Context       PlaybackContext
	Current       Track
	SkipCount     int
	HistoryLen    int
	NavCursor     int
	NavLen        int
}
