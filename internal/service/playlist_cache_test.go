package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/player/mock"
	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/logger"
)

func newTestCache(t *testing.T) (*PlaylistCache, *mock.Player) {
	t.Helper()
	bus := eventbus.NewSyncEventBus(nil)
	t.Cleanup(func() { _ = bus.Close() })

	player := mock.NewPlayer(logger.NewTestLogger(), bus, nil)
	player.AddContext("mock:playlist:mixed", []domain.ContextItem{
		{URI: "mock:track:1", Kind: domain.ItemTrack, Playable: true, Name: "One",
			Artists: []domain.ArtistRef{{URI: "mock:artist:1", Name: "First"}, {URI: "mock:artist:2"}}},
		{URI: "mock:track:2", Kind: domain.ItemTrack, Playable: false, Name: "Region locked"},
		{URI: "mock:episode:1", Kind: domain.ItemEpisode, Playable: true, Name: "Podcast"},
		{URI: "mock:local:1", Kind: domain.ItemLocal, Playable: true, Name: "Local file"},
		{URI: "mock:track:3", Kind: domain.ItemTrack, Playable: true, Name: "Three"},
	})
	player.AddContext("mock:playlist:other", playlistItems(4))
	player.AddContext("mock:playlist:empty", nil)

	return NewPlaylistCache(logger.NewTestLogger(), player), player
}

func loadCalls(p *mock.Player) int {
	n := 0
	for _, c := range p.Calls() {
		if strings.HasPrefix(c, "load:") {
			n++
		}
	}
	return n
}

func TestPlaylistCache_EnsureLoadedFiltersUnplayable(t *testing.T) {
	cache, _ := newTestCache(t)

	require.True(t, cache.EnsureLoaded(context.Background(), "mock:playlist:mixed"))

	got := cache.Tracks()
	require.Len(t, got, 2)
	assert.Equal(t, "mock:track:1", got[0].URI)
	assert.Equal(t, "mock:artist:1", got[0].ArtistURI, "primary artist is the first credited")
	assert.Equal(t, "First", got[0].ArtistName)
	assert.Equal(t, "mock:track:3", got[1].URI)
	assert.Empty(t, got[1].ArtistURI)
}

func TestPlaylistCache_KeyedByContext(t *testing.T) {
	cache, player := newTestCache(t)
	ctx := context.Background()

	require.True(t, cache.EnsureLoaded(ctx, "mock:playlist:mixed"))
	require.True(t, cache.EnsureLoaded(ctx, "mock:playlist:mixed"))
	assert.Equal(t, 1, loadCalls(player))

	require.True(t, cache.EnsureLoaded(ctx, "mock:playlist:other"))
	assert.Equal(t, 2, loadCalls(player))
	assert.Equal(t, "mock:playlist:other", cache.Snapshot().ContextURI)
	assert.Len(t, cache.Tracks(), 4)
}

func TestPlaylistCache_FetchFailure(t *testing.T) {
	cache, player := newTestCache(t)
	ctx := context.Background()

	require.True(t, cache.EnsureLoaded(ctx, "mock:playlist:mixed"))

	player.SetFailLoad(true)
	assert.False(t, cache.EnsureLoaded(ctx, "mock:playlist:other"))
	assert.Nil(t, cache.Snapshot())
	assert.Nil(t, cache.Tracks())

	player.SetFailLoad(false)
	assert.True(t, cache.EnsureLoaded(ctx, "mock:playlist:other"))
}

func TestPlaylistCache_EmptyAndUnknown(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	assert.False(t, cache.EnsureLoaded(ctx, "mock:playlist:empty"))
	assert.NotNil(t, cache.Snapshot(), "an empty playlist is still cached")
	assert.False(t, cache.EnsureLoaded(ctx, "mock:playlist:empty"))

	assert.False(t, cache.EnsureLoaded(ctx, "mock:playlist:missing"))
	assert.False(t, cache.EnsureLoaded(ctx, ""))
}

func TestPlaylistCache_Clear(t *testing.T) {
	cache, player := newTestCache(t)
	ctx := context.Background()

	require.True(t, cache.EnsureLoaded(ctx, "mock:playlist:mixed"))
	cache.Clear()
	assert.Nil(t, cache.Snapshot())

	require.True(t, cache.EnsureLoaded(ctx, "mock:playlist:mixed"))
	assert.Equal(t, 2, loadCalls(player))
}

func TestFetch_WrapsCollaboratorError(t *testing.T) {
	_, player := newTestCache(t)
	player.SetFailLoad(true)

	_, err := Fetch(context.Background(), player, "mock:playlist:mixed")
	require.Error(t, err)

	var serr *domain.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "PlaylistCache", serr.Service)

	var perr *domain.PlayerError
	assert.ErrorAs(t, err, &perr)
}
