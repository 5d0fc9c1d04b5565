package service

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

func newTestSelector(tuning domain.Tuning) *Selector {
	return NewSelector(tuning, rand.New(rand.NewPCG(42, 1024)))
}

func tracks(uris ...string) []domain.Track {
	out := make([]domain.Track, len(uris))
	for i, u := range uris {
		out[i] = domain.Track{URI: u, ArtistURI: "artist:" + u}
	}
	return out
}

func entries(uris ...string) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(uris))
	for i, u := range uris {
		out[i] = domain.HistoryEntry{TrackURI: u, ArtistURI: "artist:" + u}
	}
	return out
}

func TestSelector_Empty(t *testing.T) {
	s := newTestSelector(domain.DefaultTuning())

	_, ok := s.Select(nil, entries("a"))
	assert.False(t, ok)
}

func TestSelector_SingleCandidate(t *testing.T) {
	s := newTestSelector(domain.DefaultTuning())
	only := tracks("a")

	for i := 0; i < 50; i++ {
		got, ok := s.Select(only, entries("a", "b"))
		require.True(t, ok)
		assert.Equal(t, "a", got.URI)
	}
}

func TestSelector_ReturnsMemberOfCandidates(t *testing.T) {
	s := newTestSelector(domain.DefaultTuning())
	rng := rand.New(rand.NewPCG(1, 1))

	for round := 0; round < 200; round++ {
		n := 2 + rng.IntN(20)
		candidates := make([]domain.Track, n)
		members := make(map[string]bool, n)
		for i := range candidates {
			uri := fmt.Sprintf("t%d", rng.IntN(40))
			candidates[i] = domain.Track{URI: uri, ArtistURI: fmt.Sprintf("ar%d", rng.IntN(5))}
			members[uri] = true
		}
		history := make([]domain.HistoryEntry, rng.IntN(60))
		for i := range history {
			history[i] = domain.HistoryEntry{TrackURI: fmt.Sprintf("t%d", rng.IntN(40))}
		}

		got, ok := s.Select(candidates, history)
		require.True(t, ok)
		assert.True(t, members[got.URI], "selected %s outside candidates", got.URI)
	}
}

func TestSelector_ExclusionWindow(t *testing.T) {
	tuning := domain.DefaultTuning()
	tuning.NoRepeatWindow = 2
	s := newTestSelector(tuning)

	history := entries("A", "B", "C")
	candidates := tracks("A", "B", "C", "D")

	for i := 0; i < 300; i++ {
		got, ok := s.Select(candidates, history)
		require.True(t, ok)
		assert.Contains(t, []string{"C", "D"}, got.URI)
	}
}

func TestSelector_ExhaustionFallsBackToAll(t *testing.T) {
	s := newTestSelector(domain.DefaultTuning())
	history := entries("A", "B")

	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		got, ok := s.Select(tracks("A", "B"), history)
		require.True(t, ok)
		seen[got.URI] = true
	}
	assert.Equal(t, map[string]bool{"A": true, "B": true}, seen)
}

func TestSelector_RecencyFactor(t *testing.T) {
	tuning := domain.DefaultTuning()
	s := newTestSelector(tuning)

	assert.InDelta(t, tuning.MinWeight, s.RecencyFactor(0), 1e-12)
	assert.Less(t, s.RecencyFactor(0), s.RecencyFactor(50))
	assert.Less(t, s.RecencyFactor(50), s.RecencyFactor(200))
	assert.Less(t, s.RecencyFactor(200), 1.0)

	for i := 1; i < 300; i++ {
		assert.GreaterOrEqual(t, s.RecencyFactor(i), s.RecencyFactor(i-1))
	}
}

func TestSelector_Weights(t *testing.T) {
	tuning := domain.DefaultTuning()
	s := newTestSelector(tuning)

	history := []domain.HistoryEntry{
		{TrackURI: "x", ArtistURI: "artist:1"},
		{TrackURI: "y", ArtistURI: "artist:2"},
		{TrackURI: "z", ArtistURI: "artist:3"},
	}
	candidates := []domain.Track{
		{URI: "fresh", ArtistURI: "artist:9"},
		{URI: "same-artist", ArtistURI: "artist:1"},
		{URI: "third-artist", ArtistURI: "artist:3"},
		{URI: "no-artist"},
		{URI: "x", ArtistURI: "artist:1"},
	}

	w := s.Weights(candidates, history)
	require.Len(t, w, 5)
	assert.InDelta(t, 1.0, w[0], 1e-12)
	assert.InDelta(t, tuning.ArtistPenalty, w[1], 1e-12)
	assert.InDelta(t, 1.0, w[2], 1e-12, "artist outside spacing is not penalised")
	assert.InDelta(t, 1.0, w[3], 1e-12)
	assert.InDelta(t, tuning.MinWeight, w[4], 1e-12, "just played and same artist clamps to minimum")
}

func TestSelector_DrawMatchesWeights(t *testing.T) {
	tuning := domain.DefaultTuning()
	tuning.NoRepeatWindow = 0
	s := newTestSelector(tuning)

	history := []domain.HistoryEntry{{TrackURI: "prev", ArtistURI: "artist:a"}}
	candidates := []domain.Track{
		{URI: "penalised", ArtistURI: "artist:a"},
		{URI: "free", ArtistURI: "artist:b"},
	}

	const draws = 20000
	var penalised int
	for i := 0; i < draws; i++ {
		got, _ := s.Select(candidates, history)
		if got.URI == "penalised" {
			penalised++
		}
	}

	want := tuning.ArtistPenalty / (tuning.ArtistPenalty + 1.0)
	assert.InDelta(t, want, float64(penalised)/draws, 0.01)
}

func TestSelector_Deterministic(t *testing.T) {
	candidates := tracks("a", "b", "c", "d", "e", "f")
	history := entries("c", "a")

	run := func() []string {
		s := NewSelector(domain.DefaultTuning(), rand.New(rand.NewPCG(9, 9)))
		var out []string
		for i := 0; i < 20; i++ {
			got, _ := s.Select(candidates, history)
			out = append(out, got.URI)
		}
		return out
	}
	assert.Equal(t, run(), run())
}
