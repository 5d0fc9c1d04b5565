package cli

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// report collects what a simulated session played.
type report struct {
	window int

	mu     sync.Mutex
	played []domain.Track
	picks  map[domain.PickSource]int
}

func newReport(window int) *report {
	return &report{window: window, picks: make(map[domain.PickSource]int)}
}

func (r *report) observe(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch ev := e.(type) {
	case domain.TrackChangedEvent:
		r.played = append(r.played, ev.Track)
	case domain.TrackPickedEvent:
		r.picks[ev.Source]++
	}
}

type summary struct {
	Plays          int            `json:"plays"`
	DistinctTracks int            `json:"distinct_tracks"`
	WindowRepeats  int            `json:"window_repeats"`
	SameArtistRuns int            `json:"same_artist_runs"`
	Picks          map[string]int `json:"picks"`
	TopArtists     []artistCount  `json:"top_artists"`
}

type artistCount struct {
	Artist string `json:"artist"`
	Plays  int    `json:"plays"`
}

// summary computes repeat and spacing statistics. A window repeat is a
// track heard again within the no-repeat window of plays.
func (r *report) summary() summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := summary{Plays: len(r.played), Picks: make(map[string]int)}
	for src, n := range r.picks {
		s.Picks[string(src)] = n
	}

	lastSeen := make(map[string]int)
	artists := make(map[string]int)
	for i, t := range r.played {
		if j, ok := lastSeen[t.URI]; ok && i-j <= r.window {
			s.WindowRepeats++
		}
		lastSeen[t.URI] = i
		if i > 0 && t.ArtistURI != "" && t.ArtistURI == r.played[i-1].ArtistURI {
			s.SameArtistRuns++
		}
		name := t.ArtistName
		if name == "" {
			name = t.ArtistURI
		}
		artists[name]++
	}
	s.DistinctTracks = len(lastSeen)

	for a, n := range artists {
		s.TopArtists = append(s.TopArtists, artistCount{Artist: a, Plays: n})
	}
	sort.Slice(s.TopArtists, func(i, j int) bool {
		if s.TopArtists[i].Plays != s.TopArtists[j].Plays {
			return s.TopArtists[i].Plays > s.TopArtists[j].Plays
		}
		return s.TopArtists[i].Artist < s.TopArtists[j].Artist
	})
	if len(s.TopArtists) > 5 {
		s.TopArtists = s.TopArtists[:5]
	}
	return s
}

func (s summary) write(w io.Writer, seed uint64) {
	fmt.Fprintf(w, "seed:             %d\n", seed)
	fmt.Fprintf(w, "plays:            %d\n", s.Plays)
	fmt.Fprintf(w, "distinct tracks:  %d\n", s.DistinctTracks)
	fmt.Fprintf(w, "window repeats:   %d\n", s.WindowRepeats)
	fmt.Fprintf(w, "same-artist runs: %d\n", s.SameArtistRuns)

	sources := make([]string, 0, len(s.Picks))
	for src := range s.Picks {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		fmt.Fprintf(w, "picks (%s):%*d\n", src, 10-len(src), s.Picks[src])
	}
	for _, a := range s.TopArtists {
		fmt.Fprintf(w, "  %-24s %d\n", a.Artist, a.Plays)
	}
}
