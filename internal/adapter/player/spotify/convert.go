package spotify

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// snapshot is one sampled view of the remote player.
type snapshot struct {
	Context  domain.PlaybackContext
	Track    domain.Track
	HasTrack bool
	Shuffle  bool
	Playing  bool
	Volume   float64
	Progress time.Duration
	Duration time.Duration
	Device   string
}

func fromPlayerState(st *spotify.PlayerState) snapshot {
	if st == nil {
		return snapshot{}
	}
	s := snapshot{
		Shuffle:  st.ShuffleState,
		Playing:  st.Playing,
		Volume:   float64(int(st.Device.Volume)) / 100,
		Progress: millis(int(st.Progress)),
		Device:   string(st.Device.ID),
	}
	if uri := string(st.PlaybackContext.URI); uri != "" {
		s.Context = domain.PlaybackContext{URI: uri, Kind: contextKind(st.PlaybackContext.Type, uri)}
	}
	if st.Item != nil && st.Item.URI != "" {
		s.Track = fromFullTrack(st.Item).ToTrack()
		s.HasTrack = true
		s.Duration = s.Track.Duration
	}
	return s
}

func contextKind(typ, uri string) domain.ContextKind {
	switch domain.ContextKind(typ) {
	case domain.ContextPlaylist, domain.ContextAlbum, domain.ContextArtist, domain.ContextShow:
		return domain.ContextKind(typ)
	}
	return domain.ContextKindFromURI(uri)
}

func fromFullTrack(t *spotify.FullTrack) domain.ContextItem {
	item := domain.ContextItem{
		URI:      string(t.URI),
		Kind:     domain.ItemTrack,
		Playable: t.IsPlayable == nil || *t.IsPlayable,
		Name:     t.Name,
		Duration: millis(int(t.Duration)),
	}
	for _, a := range t.Artists {
		item.Artists = append(item.Artists, domain.ArtistRef{URI: string(a.URI), Name: a.Name})
	}
	return item
}

func fromPlaylistItem(it *spotify.PlaylistItem) (domain.ContextItem, bool) {
	switch {
	case it.Track.Track != nil:
		item := fromFullTrack(it.Track.Track)
		if it.IsLocal {
			item.Kind = domain.ItemLocal
		}
		return item, true
	case it.Track.Episode != nil:
		return domain.ContextItem{
			URI:      string(it.Track.Episode.URI),
			Kind:     domain.ItemEpisode,
			Playable: true,
			Name:     it.Track.Episode.Name,
		}, true
	default:
		return domain.ContextItem{}, false
	}
}

// playlistID extracts the ID from "spotify:playlist:<id>".
func playlistID(contextURI string) (spotify.ID, error) {
	parts := strings.Split(contextURI, ":")
	if len(parts) != 3 || parts[1] != string(domain.ContextPlaylist) || parts[2] == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrNotPlaylist, contextURI)
	}
	return spotify.ID(parts[2]), nil
}

// classify maps Web API failures onto domain errors. A 404 means no active
// device for player endpoints and a missing resource elsewhere.
func classify(err error, notFound, fallback error) error {
	var apiErr spotify.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", fallback, err)
	}
	switch apiErr.Status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrNotAuthenticated, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", notFound, apiErr.Message)
	default:
		return fmt.Errorf("%w: %s (status %d)", fallback, apiErr.Message, apiErr.Status)
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
