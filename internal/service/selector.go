// Package service provides the session core: track selection, history,
// playlist caching, skip coordination and the session controller.
package service

import (
	"math"
	"math/rand/v2"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// Selector picks one track from a candidate set, weighting against recent
// plays and recently heard artists. It holds no state beyond its tuning and
// random source; given the same source it is deterministic.
type Selector struct {
	tuning domain.Tuning
	rng    *rand.Rand
}

// NewSelector creates a selector. A nil rng uses an unseeded PCG source.
func NewSelector(tuning domain.Tuning, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{tuning: tuning, rng: rng}
}

// Select returns a track from candidates. It returns false only when
// candidates is empty. history is most-recent-first.
func (s *Selector) Select(candidates []domain.Track, history []domain.HistoryEntry) (domain.Track, bool) {
	switch len(candidates) {
	case 0:
		return domain.Track{}, false
	case 1:
		return candidates[0], true
	}

	pool := s.filterExcluded(candidates, history)
	weights := s.Weights(pool, history)

	var total float64
	for _, w := range weights {
		total += w
	}

	r := s.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return pool[i], true
		}
	}
	return pool[len(pool)-1], true
}

// filterExcluded drops candidates played within the no-repeat window,
// falling back to the full list when nothing survives.
func (s *Selector) filterExcluded(candidates []domain.Track, history []domain.HistoryEntry) []domain.Track {
	window := min(s.tuning.NoRepeatWindow, len(history))
	if window <= 0 {
		return candidates
	}

	excluded := make(map[string]struct{}, window)
	for _, e := range history[:window] {
		excluded[e.TrackURI] = struct{}{}
	}

	pool := make([]domain.Track, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := excluded[c.URI]; !ok {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return candidates
	}
	return pool
}

// Weights returns the draw weight of each candidate, in order.
func (s *Selector) Weights(candidates []domain.Track, history []domain.HistoryEntry) []float64 {
	position := make(map[string]int, len(history))
	for i, e := range history {
		if _, seen := position[e.TrackURI]; !seen {
			position[e.TrackURI] = i
		}
	}

	recentArtists := make(map[string]struct{}, s.tuning.ArtistSpacing)
	for _, e := range history[:min(s.tuning.ArtistSpacing, len(history))] {
		if e.ArtistURI != "" {
			recentArtists[e.ArtistURI] = struct{}{}
		}
	}

	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		w := 1.0
		if pos, ok := position[c.URI]; ok {
			w *= s.RecencyFactor(pos)
		}
		if _, ok := recentArtists[c.ArtistURI]; ok && c.ArtistURI != "" {
			w *= s.tuning.ArtistPenalty
		}
		weights[i] = math.Max(s.tuning.MinWeight, w)
	}
	return weights
}

// RecencyFactor is the multiplier for a track last played at history position i.
// It is MinWeight at i=0 and rises toward 1 as the play recedes.
func (s *Selector) RecencyFactor(i int) float64 {
	return math.Max(s.tuning.MinWeight, 1-math.Exp(-s.tuning.RecencyDecayRate*float64(i)))
}
