package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/player/spotify"
)

const loginTimeout = 5 * time.Minute

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Spotify",
	Long:  `Authorizes trueshuffle against your Spotify account using the OAuth PKCE flow and stores the token locally.`,
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if cfg.Spotify.ClientID == "" {
		return fmt.Errorf("spotify.client_id not configured. Set it in the config file or via TRUESHUFFLE_SPOTIFY_CLIENT_ID")
	}
	tokenPath, err := cfg.TokenPath()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	ac, closeLog, err := appConfig(false)
	if err != nil {
		return err
	}
	defer closeLog()

	out := cmd.OutOrStdout()
	err = spotify.Login(ctx, newLogger(ac), spotify.AuthConfig{
		ClientID:    cfg.Spotify.ClientID,
		RedirectURI: cfg.Spotify.RedirectURI,
	}, spotify.NewTokenStore(tokenPath), func(authURL string) {
		fmt.Fprintf(out, "Open this URL in your browser to authorize trueshuffle:\n\n%s\n\nWaiting for callback...\n", authURL)
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(out, "Logged in. Token saved to %s\n", tokenPath)
	return nil
}
