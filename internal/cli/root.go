// Package cli implements the trueshuffle command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/trueshuffle/internal/app"
	"github.com/tejashwikalptaru/trueshuffle/internal/config"
	"github.com/tejashwikalptaru/trueshuffle/internal/logger"
)

var (
	cfgFile  string
	jsonOut  bool
	verbose  bool
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "trueshuffle",
	Short: "Less predictable shuffle for your playlists",
	Long: `trueshuffle sits next to a streaming player and takes over skip requests
on shuffled playlists, choosing the next track with a recency and
artist-aware weighted draw instead of the player's own shuffle.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/trueshuffle/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appConfig maps the loaded configuration onto the application config.
// With a UI on screen, logs go to a file so they do not tear the display.
func appConfig(withUI bool) (app.Config, func(), error) {
	ac := app.DefaultConfig()
	ac.Tuning = cfg.DomainTuning()
	ac.Timing = cfg.DomainTiming()
	ac.LogLevel = logger.ParseLevel(cfg.Log.Level, ac.LogLevel)
	ac.LogFormat = cfg.Log.Format
	ac.PollInterval = cfg.PollInterval()

	path := cfg.Log.File
	if path == "" && withUI {
		p, err := xdg.StateFile(filepath.Join("trueshuffle", "trueshuffle.log"))
		if err != nil {
			ac.LogOutput = io.Discard
			return ac, func() {}, nil
		}
		path = p
	}
	if path == "" {
		return ac, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return ac, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	ac.LogOutput = f
	return ac, func() { _ = f.Close() }, nil
}

func shutdown(a *app.Application) {
	if err := a.Shutdown(); err != nil {
		a.Logger().Warn("shutdown incomplete", slog.Any("error", err))
	}
}

func newLogger(ac app.Config) *slog.Logger {
	return logger.NewLogger(logger.Config{
		Level:  ac.LogLevel,
		Format: ac.LogFormat,
		Output: ac.LogOutput,
	})
}
