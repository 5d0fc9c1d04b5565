package config

import "github.com/tejashwikalptaru/trueshuffle/internal/domain"

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	t := domain.DefaultTuning()
	tm := domain.DefaultTiming()
	return &Config{
		Shuffle: ShuffleConfig{
			HistorySize:      t.HistorySize,
			NoRepeatWindow:   t.NoRepeatWindow,
			RecencyDecayRate: t.RecencyDecayRate,
			ArtistSpacing:    t.ArtistSpacing,
			ArtistPenalty:    t.ArtistPenalty,
			MinWeight:        t.MinWeight,
			TrueShuffleEvery: t.TrueShuffleEvery,
			MaxPlayAttempts:  t.MaxPlayAttempts,
			MaxNativeRetries: t.MaxNativeRetries,
		},
		Timing: TimingConfig{
			SettleDelay:      int(tm.SettleDelay.Milliseconds()),
			PassThroughDelay: int(tm.PassThroughDelay.Milliseconds()),
			MuteReleaseDelay: int(tm.MuteReleaseDelay.Milliseconds()),
			EndOfTrackWindow: int(tm.EndOfTrackWindow.Milliseconds()),
			ProgressInterval: int(tm.ProgressInterval.Milliseconds()),
			NativeWait:       int(tm.NativeWait.Milliseconds()),
		},
		Spotify: SpotifyConfig{
			RedirectURI:       "http://127.0.0.1:8888/callback",
			PollInterval:      1000,
			RequestsPerSecond: 5,
		},
		Sim: SimConfig{
			Tracks:  60,
			Artists: 12,
			Speed:   30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyDefaults fills in settings whose zero value is never valid.
// Fields where zero is a real setting (no_repeat_window, artist_spacing,
// recency_decay_rate, artist_penalty, delays) are left as decoded; Load
// starts from Default so keys missing from the file keep their defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Shuffle
	setInt(&c.Shuffle.HistorySize, d.Shuffle.HistorySize)
	setFloat(&c.Shuffle.MinWeight, d.Shuffle.MinWeight)
	setInt(&c.Shuffle.TrueShuffleEvery, d.Shuffle.TrueShuffleEvery)
	setInt(&c.Shuffle.MaxPlayAttempts, d.Shuffle.MaxPlayAttempts)
	setInt(&c.Shuffle.MaxNativeRetries, d.Shuffle.MaxNativeRetries)

	// Timing
	setInt(&c.Timing.ProgressInterval, d.Timing.ProgressInterval)
	setInt(&c.Timing.NativeWait, d.Timing.NativeWait)

	// Spotify
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}
	setInt(&c.Spotify.PollInterval, d.Spotify.PollInterval)
	setFloat(&c.Spotify.RequestsPerSecond, d.Spotify.RequestsPerSecond)

	// Simulate
	setInt(&c.Sim.Tracks, d.Sim.Tracks)
	setInt(&c.Sim.Artists, d.Sim.Artists)
	setFloat(&c.Sim.Speed, d.Sim.Speed)

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}
