package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

func played(r *report, specs ...string) {
	for i := 0; i+1 < len(specs); i += 2 {
		r.observe(domain.NewTrackChangedEvent(
			domain.Track{URI: specs[i], ArtistURI: specs[i+1], ArtistName: specs[i+1]},
			domain.PlaybackContext{},
		))
	}
}

func TestReport_Summary(t *testing.T) {
	r := newReport(2)
	played(r,
		"a", "x",
		"b", "x",
		"a", "y", // repeat within 2
		"c", "z",
		"d", "z",
		"a", "x", // last seen 3 plays ago
	)
	r.observe(domain.NewTrackPickedEvent(domain.Track{URI: "c"}, domain.PickSelector))
	r.observe(domain.NewTrackPickedEvent(domain.Track{URI: "b"}, domain.PickNative))
	r.observe(domain.NewTrackPickedEvent(domain.Track{URI: "d"}, domain.PickSelector))

	s := r.summary()
	assert.Equal(t, 6, s.Plays)
	assert.Equal(t, 4, s.DistinctTracks)
	assert.Equal(t, 1, s.WindowRepeats)
	assert.Equal(t, 2, s.SameArtistRuns)
	assert.Equal(t, map[string]int{"selector": 2, "native": 1}, s.Picks)
	assert.Equal(t, artistCount{Artist: "x", Plays: 3}, s.TopArtists[0])
}

func TestReport_Write(t *testing.T) {
	r := newReport(10)
	played(r, "a", "x", "b", "y")
	r.observe(domain.NewTrackPickedEvent(domain.Track{URI: "b"}, domain.PickSelector))

	var buf bytes.Buffer
	r.summary().write(&buf, 99)

	out := buf.String()
	assert.Contains(t, out, "seed:             99")
	assert.Contains(t, out, "plays:            2")
	assert.Contains(t, out, "picks (selector):")
}
