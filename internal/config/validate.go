package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Shuffle.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("shuffle: %w", err))
	}
	if err := c.Timing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("timing: %w", err))
	}
	if err := c.Spotify.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spotify: %w", err))
	}
	if err := c.Sim.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("simulate: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks ShuffleConfig for errors.
func (c *ShuffleConfig) Validate() error {
	var errs []error
	positive := map[string]int{
		"history_size":       c.HistorySize,
		"true_shuffle_every": c.TrueShuffleEvery,
		"max_play_attempts":  c.MaxPlayAttempts,
		"max_native_retries": c.MaxNativeRetries,
	}
	for field, v := range positive {
		if v < 1 {
			errs = append(errs, domain.NewValidationError(field, v, "must be at least 1"))
		}
	}
	if c.NoRepeatWindow < 0 {
		errs = append(errs, domain.NewValidationError("no_repeat_window", c.NoRepeatWindow, "must be non-negative"))
	}
	if c.ArtistSpacing < 0 {
		errs = append(errs, domain.NewValidationError("artist_spacing", c.ArtistSpacing, "must be non-negative"))
	}
	if c.RecencyDecayRate < 0 {
		errs = append(errs, domain.NewValidationError("recency_decay_rate", c.RecencyDecayRate, "must be non-negative"))
	}
	if c.ArtistPenalty < 0 || c.ArtistPenalty > 1 {
		errs = append(errs, domain.NewValidationError("artist_penalty", c.ArtistPenalty, "must be between 0 and 1"))
	}
	if c.MinWeight <= 0 || c.MinWeight > 1 {
		errs = append(errs, domain.NewValidationError("min_weight", c.MinWeight, "must be in (0, 1]"))
	}
	return errors.Join(errs...)
}

// Validate checks TimingConfig for errors.
func (c *TimingConfig) Validate() error {
	if c.SettleDelay < 0 || c.PassThroughDelay < 0 || c.MuteReleaseDelay < 0 || c.EndOfTrackWindow < 0 {
		return errors.New("delays must be non-negative")
	}
	if c.ProgressInterval <= 0 {
		return domain.NewValidationError("progress_interval", c.ProgressInterval, "must be positive")
	}
	if c.NativeWait <= 0 {
		return domain.NewValidationError("native_wait", c.NativeWait, "must be positive")
	}
	return nil
}

// Validate checks SpotifyConfig for errors.
func (c *SpotifyConfig) Validate() error {
	if c.RedirectURI != "" {
		if _, err := url.Parse(c.RedirectURI); err != nil {
			return fmt.Errorf("invalid redirect_uri: %w", err)
		}
	}
	if c.PollInterval < 100 {
		return errors.New("poll_interval must be at least 100ms")
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("requests_per_second must be positive")
	}
	return nil
}

// Validate checks SimConfig for errors.
func (c *SimConfig) Validate() error {
	if c.Tracks < 1 || c.Artists < 1 {
		return errors.New("tracks and artists must be at least 1")
	}
	if c.Speed <= 0 {
		return errors.New("speed must be positive")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q: must be debug, info, warn, or error", c.Level)
	}
	switch c.Format {
	case "", "text", "json", "pretty":
	default:
		return fmt.Errorf("invalid format %q: must be text, json, or pretty", c.Format)
	}
	return nil
}
