// Package catalog builds playlist contents for the simulate command, either
// from a local music folder or synthetically.
package catalog

import (
	"context"
	"errors"
	"hash/fnv"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// SupportedExtensions lists the audio file extensions a scan picks up.
var SupportedExtensions = []string{
	".mp3", ".mp2", ".mp1",
	".ogg", ".oga", ".opus",
	".wav", ".aif", ".aiff",
	".flac", ".fla",
	".aac", ".m4a", ".m4b", ".mp4",
	".wma",
	".wv",          // WavPack
	".ape", ".mac", // APE
	".mpc", ".mp+", ".mpp", // Musepack
	".dsf",
}

const unknownArtist = "Unknown Artist"

// IsSupported reports whether path has an audio extension.
func IsSupported(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// ScanDir walks root and returns one playlist item per audio file, in path
// order. Unreadable files and tags are skipped or fall back to file names.
func ScanDir(ctx context.Context, logger *slog.Logger, root string) ([]domain.ContextItem, error) {
	var items []domain.ContextItem

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if err != nil {
			// Skip files/folders we can't access
			return nil
		}
		if d.IsDir() || !IsSupported(path) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		items = append(items, readItem(logger, path, filepath.ToSlash(rel)))
		return nil
	})

	if errors.Is(err, context.Canceled) {
		return items, context.Canceled
	}
	if err != nil {
		return nil, err
	}

	logger.Info("scanned music folder",
		slog.String("root", root),
		slog.Int("tracks", len(items)))
	return items, nil
}

func readItem(logger *slog.Logger, path, rel string) domain.ContextItem {
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	artist := ""

	if f, err := os.Open(path); err == nil {
		m, err := tag.ReadFrom(f)
		f.Close()
		if err == nil && m != nil {
			if t := strings.TrimSpace(m.Title()); t != "" {
				title = t
			}
			artist = strings.TrimSpace(m.Artist())
			if artist == "" {
				artist = strings.TrimSpace(m.AlbumArtist())
			}
		} else if err != nil {
			logger.Debug("no readable tags", slog.String("path", path), slog.Any("error", err))
		}
	}

	item := domain.ContextItem{
		URI:      "local:track:" + rel,
		Kind:     domain.ItemTrack,
		Playable: true,
		Name:     title,
		Duration: stableDuration(rel),
	}
	if artist == "" {
		item.Artists = []domain.ArtistRef{{Name: unknownArtist}}
	} else {
		item.Artists = []domain.ArtistRef{{URI: "local:artist:" + slug(artist), Name: artist}}
	}
	return item
}

// stableDuration derives a track length between 2:30 and 4:30 from its path.
// Tags carry no stream length and the simulator only needs a plausible one.
func stableDuration(key string) time.Duration {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return 150*time.Second + time.Duration(h.Sum32()%120)*time.Second
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}

// PlaylistURI names the simulated playlist for a folder.
func PlaylistURI(root string) string {
	return "local:playlist:" + slug(filepath.Base(filepath.Clean(root)))
}
