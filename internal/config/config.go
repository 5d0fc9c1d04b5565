// Package config loads trueshuffle settings from TOML with environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

const appName = "trueshuffle"

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.trueshufflerc, then trueshuffle/config.toml under the XDG config dirs.
func Load() (*Config, error) {
	cfg := Default()

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		rc := filepath.Join(home, "."+appName+"rc")
		if _, err := os.Stat(rc); err == nil {
			return rc
		}
	}

	path, err := xdg.SearchConfigFile(filepath.Join(appName, "config.toml"))
	if err != nil {
		return ""
	}
	return path
}

// TokenPath returns where the Spotify OAuth token is stored, creating the
// parent directory when the default location is used.
func (c *Config) TokenPath() (string, error) {
	if c.Spotify.TokenFile != "" {
		return c.Spotify.TokenFile, nil
	}
	return xdg.DataFile(filepath.Join(appName, "spotify_token.json"))
}

// DomainTuning converts the [shuffle] section into domain tuning.
func (c *Config) DomainTuning() domain.Tuning {
	s := c.Shuffle
	return domain.Tuning{
		HistorySize:      s.HistorySize,
		NoRepeatWindow:   s.NoRepeatWindow,
		RecencyDecayRate: s.RecencyDecayRate,
		ArtistSpacing:    s.ArtistSpacing,
		ArtistPenalty:    s.ArtistPenalty,
		MinWeight:        s.MinWeight,
		TrueShuffleEvery: s.TrueShuffleEvery,
		MaxPlayAttempts:  s.MaxPlayAttempts,
		MaxNativeRetries: s.MaxNativeRetries,
	}
}

// DomainTiming converts the [timing] section into domain timing.
func (c *Config) DomainTiming() domain.Timing {
	t := c.Timing
	return domain.Timing{
		SettleDelay:      ms(t.SettleDelay),
		PassThroughDelay: ms(t.PassThroughDelay),
		MuteReleaseDelay: ms(t.MuteReleaseDelay),
		EndOfTrackWindow: ms(t.EndOfTrackWindow),
		ProgressInterval: ms(t.ProgressInterval),
		NativeWait:       ms(t.NativeWait),
	}
}

// PollInterval returns the Spotify polling period.
func (c *Config) PollInterval() time.Duration {
	return ms(c.Spotify.PollInterval)
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Spotify
	if v := os.Getenv("TRUESHUFFLE_SPOTIFY_CLIENT_ID"); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv("TRUESHUFFLE_SPOTIFY_REDIRECT_URI"); v != "" {
		cfg.Spotify.RedirectURI = v
	}
	if v := os.Getenv("TRUESHUFFLE_SPOTIFY_TOKEN_FILE"); v != "" {
		cfg.Spotify.TokenFile = v
	}
	if v := os.Getenv("TRUESHUFFLE_SPOTIFY_POLL_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Spotify.PollInterval = i
		}
	}

	// Shuffle
	if v := os.Getenv("TRUESHUFFLE_NO_REPEAT_WINDOW"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Shuffle.NoRepeatWindow = i
		}
	}
	if v := os.Getenv("TRUESHUFFLE_TRUE_SHUFFLE_EVERY"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Shuffle.TrueShuffleEvery = i
		}
	}

	// Simulate
	if v := os.Getenv("TRUESHUFFLE_MUSIC_DIR"); v != "" {
		cfg.Sim.MusicDir = v
	}

	// Log
	if v := os.Getenv("TRUESHUFFLE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRUESHUFFLE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TRUESHUFFLE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
