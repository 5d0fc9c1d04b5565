package catalog

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/logger"
)

// id3v1 builds a file body ending in an ID3v1 tag.
func id3v1(title, artist string) []byte {
	field := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}
	body := make([]byte, 512)
	tag := []byte("TAG")
	tag = append(tag, field(title, 30)...)
	tag = append(tag, field(artist, 30)...)
	tag = append(tag, field("Album", 30)...)
	tag = append(tag, field("1999", 4)...)
	tag = append(tag, field("", 30)...)
	tag = append(tag, 0)
	return append(body, tag...)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("/music/a.MP3"))
	assert.True(t, IsSupported("b.flac"))
	assert.False(t, IsSupported("cover.jpg"))
	assert.False(t, IsSupported("noext"))
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.mp3"), id3v1("Tagged Song", "Some Band"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.ogg"), []byte("not really audio"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip"), 0o644))

	items, err := ScanDir(context.Background(), logger.NewTestLogger(), root)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "local:track:a.mp3", items[0].URI)
	assert.Equal(t, "Tagged Song", items[0].Name)
	assert.Equal(t, "local:artist:some-band", items[0].Artists[0].URI)

	assert.Equal(t, "local:track:sub/b.ogg", items[1].URI)
	assert.Equal(t, "b", items[1].Name, "untagged file falls back to its name")
	assert.Empty(t, items[1].Artists[0].URI)

	for _, it := range items {
		assert.Equal(t, domain.ItemTrack, it.Kind)
		assert.True(t, it.Playable)
		assert.GreaterOrEqual(t, it.Duration, 150*time.Second)
		assert.Less(t, it.Duration, 270*time.Second)
	}
}

func TestScanDir_Cancelled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.mp3"), nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanDir(ctx, logger.NewTestLogger(), root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlaylistURI(t *testing.T) {
	assert.Equal(t, "local:playlist:my-music", PlaylistURI("/home/me/My Music/"))
}

func TestSynthetic(t *testing.T) {
	items := Synthetic(50, 6, rand.New(rand.NewPCG(1, 1)))
	require.Len(t, items, 50)

	artists := map[string]bool{}
	uris := map[string]bool{}
	for _, it := range items {
		uris[it.URI] = true
		artists[it.Artists[0].URI] = true
		assert.True(t, it.Playable)
	}
	assert.Len(t, uris, 50)
	assert.LessOrEqual(t, len(artists), 6)
	assert.Greater(t, len(artists), 1)

	assert.Equal(t, items, Synthetic(50, 6, rand.New(rand.NewPCG(1, 1))))
	assert.Nil(t, Synthetic(0, 3, nil))
	assert.Len(t, Synthetic(3, 0, nil), 3)
}
