package mock

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/logger"
)

const testPlaylist = "mock:playlist:test"

func testItems(n int) []domain.ContextItem {
	items := make([]domain.ContextItem, n)
	for i := range items {
		items[i] = domain.ContextItem{
			URI:      fmt.Sprintf("mock:track:%d", i),
			Kind:     domain.ItemTrack,
			Playable: true,
			Name:     fmt.Sprintf("Track %d", i),
			Artists:  []domain.ArtistRef{{URI: fmt.Sprintf("mock:artist:%d", i%3), Name: "Artist"}},
			Duration: 3 * time.Minute,
		}
	}
	return items
}

func newTestPlayer(t *testing.T) (*Player, *[]domain.TrackChangedEvent) {
	t.Helper()
	bus := eventbus.NewSyncEventBus(nil)
	t.Cleanup(func() { _ = bus.Close() })

	var changes []domain.TrackChangedEvent
	bus.Subscribe(domain.EventTrackChanged, func(e domain.Event) {
		changes = append(changes, e.(domain.TrackChangedEvent))
	})

	p := NewPlayer(logger.NewTestLogger(), bus, nil)
	p.AddContext(testPlaylist, testItems(10))
	return p, &changes
}

func TestPlayer_StartPublishesTrackChange(t *testing.T) {
	p, changes := newTestPlayer(t)

	require.NoError(t, p.Start(testPlaylist, "mock:track:4"))

	require.Len(t, *changes, 1)
	assert.Equal(t, "mock:track:4", (*changes)[0].Track.URI)
	assert.Equal(t, domain.ContextPlaylist, (*changes)[0].Context.Kind)

	track, ok := p.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "mock:artist:1", track.ArtistURI)
	assert.True(t, p.CurrentContext().IsPlaylist())
}

func TestPlayer_StartUnknown(t *testing.T) {
	p, _ := newTestPlayer(t)

	assert.ErrorIs(t, p.Start("mock:playlist:missing", ""), domain.ErrPlaylistUnavailable)
	assert.ErrorIs(t, p.Start(testPlaylist, "mock:track:99"), domain.ErrTrackNotFound)
}

func TestPlayer_PlayTrackInContext(t *testing.T) {
	p, changes := newTestPlayer(t)
	ctx := context.Background()

	require.NoError(t, p.PlayTrackInContext(ctx, testPlaylist, "mock:track:7"))
	assert.Equal(t, "mock:track:7", (*changes)[0].Track.URI)

	p.SetFailPlay("mock:track:2", true)
	err := p.PlayTrackInContext(ctx, testPlaylist, "mock:track:2")
	assert.ErrorIs(t, err, domain.ErrPlayFailed)

	var perr *domain.PlayerError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "play", perr.Op)

	p.SetFailPlay("mock:track:2", false)
	assert.NoError(t, p.PlayTrackInContext(ctx, testPlaylist, "mock:track:2"))
	assert.Equal(t, []string{"play:mock:track:7", "play:mock:track:2", "play:mock:track:2"}, p.Calls())
}

func TestPlayer_LoadContextItems(t *testing.T) {
	p, _ := newTestPlayer(t)
	ctx := context.Background()

	items, err := p.LoadContextItems(ctx, testPlaylist)
	require.NoError(t, err)
	assert.Len(t, items, 10)

	p.SetFailLoad(true)
	_, err = p.LoadContextItems(ctx, testPlaylist)
	assert.Error(t, err)
}

func TestPlayer_NextUsesScriptedPicks(t *testing.T) {
	p, changes := newTestPlayer(t)
	ctx := context.Background()
	require.NoError(t, p.Start(testPlaylist, ""))

	p.QueueNative("mock:track:5", "mock:track:6")
	require.NoError(t, p.Next(ctx))
	require.NoError(t, p.Next(ctx))

	require.Len(t, *changes, 3)
	assert.Equal(t, "mock:track:5", (*changes)[1].Track.URI)
	assert.Equal(t, "mock:track:6", (*changes)[2].Track.URI)
}

func TestPlayer_NextWithoutShuffleFollowsOrder(t *testing.T) {
	p, _ := newTestPlayer(t)
	ctx := context.Background()
	p.SetShuffle(false)
	require.NoError(t, p.Start(testPlaylist, "mock:track:9"))

	require.NoError(t, p.Next(ctx))
	track, _ := p.CurrentTrack()
	assert.Equal(t, "mock:track:0", track.URI)

	require.NoError(t, p.Previous(ctx))
	track, _ = p.CurrentTrack()
	assert.Equal(t, "mock:track:9", track.URI)
}

func TestPlayer_NextFailures(t *testing.T) {
	p, _ := newTestPlayer(t)
	ctx := context.Background()

	assert.ErrorIs(t, p.Next(ctx), domain.ErrNoActiveDevice)

	require.NoError(t, p.Start(testPlaylist, ""))
	p.SetFailNext(true)
	assert.Error(t, p.Next(ctx))
}

func TestPlayer_AdvanceAutoAdvancesAtEnd(t *testing.T) {
	p, changes := newTestPlayer(t)
	require.NoError(t, p.Start(testPlaylist, "mock:track:0"))
	p.QueueNative("mock:track:3")

	p.Advance(2 * time.Minute)
	assert.Equal(t, 2*time.Minute, p.Progress())
	assert.Len(t, *changes, 1)

	p.Advance(time.Minute)
	require.Len(t, *changes, 2)
	assert.Equal(t, "mock:track:3", (*changes)[1].Track.URI)
	assert.Equal(t, time.Duration(0), p.Progress())
	assert.Equal(t, 3*time.Minute, p.Duration())
}

func TestPlayer_Volume(t *testing.T) {
	p, _ := newTestPlayer(t)
	ctx := context.Background()

	require.NoError(t, p.SetVolume(ctx, 0.4))
	assert.InDelta(t, 0.4, p.Volume(), 0.0001)
	assert.ErrorIs(t, p.SetVolume(ctx, 1.5), domain.ErrInvalidVolume)

	p.SetFailVolume(true)
	assert.Error(t, p.SetVolume(ctx, 0))
	assert.InDelta(t, 0.4, p.Volume(), 0.0001)
}

func TestPlayer_SeekToStart(t *testing.T) {
	p, _ := newTestPlayer(t)
	require.NoError(t, p.Start(testPlaylist, ""))
	p.SetProgress(90 * time.Second)

	require.NoError(t, p.SeekToStart(context.Background()))
	assert.Equal(t, time.Duration(0), p.Progress())
}

func TestPlayer_ShuffleChangedEvent(t *testing.T) {
	bus := eventbus.NewSyncEventBus(nil)
	defer bus.Close()

	var got []bool
	bus.Subscribe(domain.EventShuffleChanged, func(e domain.Event) {
		got = append(got, e.(domain.ShuffleChangedEvent).Enabled)
	})

	p := NewPlayer(logger.NewTestLogger(), bus, nil)
	p.SetShuffle(true) // already on
	p.SetShuffle(false)
	p.SetShuffle(true)

	assert.Equal(t, []bool{false, true}, got)
}
