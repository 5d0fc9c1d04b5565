package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/player/spotify"
	"github.com/tejashwikalptaru/trueshuffle/internal/app"
	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

var runHeadless bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive shuffle on your active Spotify device",
	Long: `Watch the active Spotify device and take over skips while a playlist
plays with shuffle on.

Keyboard shortcuts:
  t, Space     Toggle true shuffle
  n, →         Skip
  p, ←         Back
  ?            Help
  q, Ctrl+C    Quit`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "run without the terminal UI")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if cfg.Spotify.ClientID == "" {
		return fmt.Errorf("spotify.client_id not configured. Set it in the config file or via TRUESHUFFLE_SPOTIFY_CLIENT_ID")
	}
	tokenPath, err := cfg.TokenPath()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ac, closeLog, err := appConfig(!runHeadless)
	if err != nil {
		return err
	}
	defer closeLog()

	store := spotify.NewTokenStore(tokenPath)
	httpClient, err := spotify.NewHTTPClient(context.Background(), newLogger(ac), spotify.AuthConfig{
		ClientID:    cfg.Spotify.ClientID,
		RedirectURI: cfg.Spotify.RedirectURI,
	}, store)
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return fmt.Errorf("not logged in. Run 'trueshuffle login' first")
	}
	if err != nil {
		return err
	}

	ac.Backend = app.BackendSpotify
	ac.HTTPClient = httpClient
	ac.SpotifyOptions = spotify.Options{RequestsPerSecond: cfg.Spotify.RequestsPerSecond}

	a, err := app.NewApplication(ac)
	if err != nil {
		return err
	}
	defer shutdown(a)

	return a.Run(ctx, !runHeadless)
}
