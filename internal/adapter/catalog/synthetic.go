package catalog

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// SyntheticPlaylistURI names the generated playlist.
const SyntheticPlaylistURI = "sim:playlist:synthetic"

// Synthetic generates a playlist of n tracks spread over artists artists.
// Artist assignment is skewed so a few artists dominate, like a real library.
func Synthetic(n, artists int, rng *rand.Rand) []domain.ContextItem {
	if n <= 0 {
		return nil
	}
	if artists <= 0 {
		artists = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(7, 11))
	}

	items := make([]domain.ContextItem, n)
	for i := range items {
		// squaring the draw favours low artist indexes
		f := rng.Float64()
		a := int(f * f * float64(artists))
		items[i] = domain.ContextItem{
			URI:      fmt.Sprintf("sim:track:%03d", i),
			Kind:     domain.ItemTrack,
			Playable: true,
			Name:     fmt.Sprintf("Track %03d", i),
			Artists: []domain.ArtistRef{{
				URI:  fmt.Sprintf("sim:artist:%02d", a),
				Name: fmt.Sprintf("Artist %02d", a),
			}},
			Duration: 150*time.Second + time.Duration(rng.IntN(120))*time.Second,
		}
	}
	return items
}
