package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// Scopes are the permissions the session needs.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// AuthConfig identifies the registered application.
type AuthConfig struct {
	ClientID    string
	RedirectURI string
}

func (c AuthConfig) oauth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    c.ClientID,
		RedirectURL: c.RedirectURI,
		Scopes:      Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}
}

// TokenStore persists the OAuth token as JSON.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Load reads the stored token. A missing file yields ErrNotAuthenticated.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return &tok, nil
}

// Save writes the token with owner-only permissions.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// savingSource writes refreshed tokens back to the store.
type savingSource struct {
	logger *slog.Logger
	src    oauth2.TokenSource
	store  *TokenStore

	mu   sync.Mutex
	last string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.store.Save(tok); err != nil {
			s.logger.Warn("failed to persist refreshed token", slog.Any("error", err))
		}
	}
	return tok, nil
}

// NewHTTPClient returns an authenticated client that refreshes and
// persists the stored token.
func NewHTTPClient(ctx context.Context, logger *slog.Logger, cfg AuthConfig, store *TokenStore) (*http.Client, error) {
	tok, err := store.Load()
	if err != nil {
		return nil, err
	}
	src := &savingSource{
		logger: logger,
		src:    oauth2.ReuseTokenSource(tok, cfg.oauth().TokenSource(ctx, tok)),
		store:  store,
		last:   tok.AccessToken,
	}
	return oauth2.NewClient(ctx, src), nil
}

// Login runs the authorization code flow with PKCE. It serves the redirect
// URI locally, hands the consent URL to open, and stores the resulting token.
func Login(ctx context.Context, logger *slog.Logger, cfg AuthConfig, store *TokenStore, open func(authURL string)) error {
	if cfg.ClientID == "" {
		return domain.NewValidationError("spotify.client_id", "", "required for login")
	}
	redirect, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect uri: %w", err)
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(Scopes...),
	)
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}

	type result struct {
		tok *oauth2.Token
		err error
	}
	results := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		tok, err := auth.Token(r.Context(), state, r, oauth2.VerifierOption(verifier))
		select {
		case results <- result{tok: tok, err: err}:
		default:
		}
		if err != nil {
			http.Error(w, "Authentication failed: "+err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "Authentication successful. You can close this window and return to the terminal.")
	})

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	open(auth.AuthURL(state, oauth2.S256ChallengeOption(verifier)))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-results:
		if res.err != nil {
			return fmt.Errorf("authorization failed: %w", res.err)
		}
		if err := store.Save(res.tok); err != nil {
			return err
		}
		logger.Info("spotify login complete", slog.String("token_file", store.Path()))
		return nil
	}
}
