package config

// Config is the root configuration structure.
type Config struct {
	Shuffle ShuffleConfig `toml:"shuffle"`
	Timing  TimingConfig  `toml:"timing"`
	Spotify SpotifyConfig `toml:"spotify"`
	Sim     SimConfig     `toml:"simulate"`
	Log     LogConfig     `toml:"log"`
}

// ShuffleConfig holds the selection and history tuning.
type ShuffleConfig struct {
	HistorySize      int     `toml:"history_size"`
	NoRepeatWindow   int     `toml:"no_repeat_window"`
	RecencyDecayRate float64 `toml:"recency_decay_rate"`
	ArtistSpacing    int     `toml:"artist_spacing"`
	ArtistPenalty    float64 `toml:"artist_penalty"`
	MinWeight        float64 `toml:"min_weight"`
	TrueShuffleEvery int     `toml:"true_shuffle_every"`
	MaxPlayAttempts  int     `toml:"max_play_attempts"`
	MaxNativeRetries int     `toml:"max_native_retries"`
}

// TimingConfig holds delays, all in milliseconds.
type TimingConfig struct {
	SettleDelay      int `toml:"settle_delay"`
	PassThroughDelay int `toml:"pass_through_delay"`
	MuteReleaseDelay int `toml:"mute_release_delay"`
	EndOfTrackWindow int `toml:"end_of_track_window"`
	ProgressInterval int `toml:"progress_interval"`
	NativeWait       int `toml:"native_wait"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID          string  `toml:"client_id"`
	RedirectURI       string  `toml:"redirect_uri"`
	TokenFile         string  `toml:"token_file"`
	PollInterval      int     `toml:"poll_interval"` // milliseconds
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// SimConfig holds settings for the simulate command.
type SimConfig struct {
	MusicDir string  `toml:"music_dir"`
	Tracks   int     `toml:"tracks"`
	Artists  int     `toml:"artists"`
	Speed    float64 `toml:"speed"` // simulated seconds per real second
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}
