package spotify

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

func fullTrack(id, artist string, playable *bool) *spotify.FullTrack {
	return &spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:       spotify.ID(id),
			URI:      spotify.URI("spotify:track:" + id),
			Name:     "Song " + id,
			Duration: 200000,
			Artists: []spotify.SimpleArtist{
				{Name: "Artist " + artist, URI: spotify.URI("spotify:artist:" + artist)},
				{Name: "Featured", URI: "spotify:artist:feat"},
			},
		},
		IsPlayable: playable,
	}
}

func TestFromPlayerState(t *testing.T) {
	st := &spotify.PlayerState{
		CurrentlyPlaying: spotify.CurrentlyPlaying{
			PlaybackContext: spotify.PlaybackContext{Type: "playlist", URI: "spotify:playlist:abc"},
			Progress:        42000,
			Playing:         true,
			Item:            fullTrack("t1", "a1", nil),
		},
		Device:       spotify.PlayerDevice{ID: "dev", Volume: 65},
		ShuffleState: true,
	}

	s := fromPlayerState(st)

	assert.True(t, s.HasTrack)
	assert.Equal(t, "spotify:track:t1", s.Track.URI)
	assert.Equal(t, "spotify:artist:a1", s.Track.ArtistURI, "first credited artist")
	assert.Equal(t, 200*time.Second, s.Duration)
	assert.Equal(t, 42*time.Second, s.Progress)
	assert.InDelta(t, 0.65, s.Volume, 1e-9)
	assert.True(t, s.Shuffle)
	assert.True(t, s.Context.IsPlaylist())
	assert.Equal(t, "dev", s.Device)
}

func TestFromPlayerState_Empty(t *testing.T) {
	assert.Equal(t, snapshot{}, fromPlayerState(nil))

	s := fromPlayerState(&spotify.PlayerState{})
	assert.False(t, s.HasTrack)
	assert.Empty(t, s.Context.URI)
}

func TestContextKind(t *testing.T) {
	assert.Equal(t, domain.ContextAlbum, contextKind("album", "spotify:album:x"))
	assert.Equal(t, domain.ContextPlaylist, contextKind("", "spotify:playlist:x"))
	assert.Equal(t, domain.ContextUnknown, contextKind("collection", "spotify:user:me:collection"))
}

func TestFromPlaylistItem(t *testing.T) {
	no := false

	item, ok := fromPlaylistItem(&spotify.PlaylistItem{
		Track: spotify.PlaylistItemTrack{Track: fullTrack("t1", "a1", nil)},
	})
	require.True(t, ok)
	assert.Equal(t, domain.ItemTrack, item.Kind)
	assert.True(t, item.Playable, "missing is_playable counts as playable")
	assert.Len(t, item.Artists, 2)

	item, ok = fromPlaylistItem(&spotify.PlaylistItem{
		Track: spotify.PlaylistItemTrack{Track: fullTrack("t2", "a1", &no)},
	})
	require.True(t, ok)
	assert.False(t, item.Playable)

	item, ok = fromPlaylistItem(&spotify.PlaylistItem{
		IsLocal: true,
		Track:   spotify.PlaylistItemTrack{Track: fullTrack("t3", "a1", nil)},
	})
	require.True(t, ok)
	assert.Equal(t, domain.ItemLocal, item.Kind)

	item, ok = fromPlaylistItem(&spotify.PlaylistItem{
		Track: spotify.PlaylistItemTrack{Episode: &spotify.EpisodePage{URI: "spotify:episode:e1", Name: "Ep"}},
	})
	require.True(t, ok)
	assert.Equal(t, domain.ItemEpisode, item.Kind)

	_, ok = fromPlaylistItem(&spotify.PlaylistItem{})
	assert.False(t, ok)
}

func TestPlaylistID(t *testing.T) {
	id, err := playlistID("spotify:playlist:37i9dQZF1DX")
	require.NoError(t, err)
	assert.Equal(t, spotify.ID("37i9dQZF1DX"), id)

	for _, bad := range []string{"", "spotify:album:x", "spotify:playlist:", "playlist"} {
		_, err := playlistID(bad)
		assert.ErrorIs(t, err, domain.ErrNotPlaylist, bad)
	}
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t,
		classify(spotify.Error{Status: http.StatusUnauthorized, Message: "expired"}, domain.ErrNoActiveDevice, domain.ErrPlayFailed),
		domain.ErrNotAuthenticated)
	assert.ErrorIs(t,
		classify(spotify.Error{Status: http.StatusNotFound, Message: "no device"}, domain.ErrNoActiveDevice, domain.ErrPlayFailed),
		domain.ErrNoActiveDevice)
	assert.ErrorIs(t,
		classify(spotify.Error{Status: http.StatusForbidden, Message: "restricted"}, domain.ErrNoActiveDevice, domain.ErrPlayFailed),
		domain.ErrPlayFailed)
	assert.ErrorIs(t,
		classify(errors.New("connection reset"), domain.ErrNoActiveDevice, domain.ErrPlaylistUnavailable),
		domain.ErrPlaylistUnavailable)
}
