// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/player/mock"
	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/player/spotify"
	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/scheduler"
	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/ui/tui"
	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/logger"
	"github.com/tejashwikalptaru/trueshuffle/internal/ports"
	"github.com/tejashwikalptaru/trueshuffle/internal/service"
)

// Backend selects the player implementation.
type Backend string

const (
	BackendSpotify Backend = "spotify"
	BackendMock    Backend = "mock"
)

const (
	shutdownTimeout = 5 * time.Second
	simTick         = 100 * time.Millisecond
)

// Application is the root application structure that holds all dependencies.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for the CLI
type Application struct {
	config Config

	// Core dependencies
	logger *slog.Logger

	// Infrastructure
	eventBus ports.EventBus
	loop     *scheduler.Loop
	player   ports.Player

	// Backend-specific handles
	spotifyPlayer *spotify.Player
	mockPlayer    *mock.Player

	// Services
	controller *service.SessionController

	mu       sync.Mutex
	cancel   context.CancelFunc
	bg       sync.WaitGroup
	started  bool
	shutdown bool
}

// Config holds application configuration.
type Config struct {
	// AppName is the display name
	AppName string

	// Backend selects the player adapter
	Backend Backend

	Tuning domain.Tuning
	Timing domain.Timing

	// LogLevel controls logging verbosity
	LogLevel  slog.Level
	LogFormat string
	LogOutput io.Writer

	// Seed fixes the selector's random source; zero seeds randomly
	Seed uint64

	// Spotify backend
	HTTPClient     *http.Client
	SpotifyOptions spotify.Options
	PollInterval   time.Duration

	// Mock backend
	SimPlaylist string
	SimItems    []domain.ContextItem
	SimSpeed    float64 // simulated seconds per real second
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppName:      "trueshuffle",
		Backend:      BackendSpotify,
		Tuning:       domain.DefaultTuning(),
		Timing:       domain.DefaultTiming(),
		LogLevel:     loggerCfg.Level,
		LogFormat:    logger.FormatText,
		PollInterval: time.Second,
		SimSpeed:     1,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{config: config}

	// Step 1: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
		Output: config.LogOutput,
	})
	app.logger.Info("initializing application",
		slog.String("app_name", config.AppName),
		slog.String("backend", string(config.Backend)),
		slog.String("version", GetVersionInfo().Version))

	// Step 2: Create an event bus and the session loop
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))
	app.loop = scheduler.NewLoop(app.logger)

	// Step 3: Create the player
	timing := config.Timing
	switch config.Backend {
	case BackendMock:
		if config.SimSpeed <= 0 {
			return nil, domain.NewValidationError("SimSpeed", config.SimSpeed, "must be positive")
		}
		if config.SimPlaylist == "" || len(config.SimItems) == 0 {
			return nil, fmt.Errorf("mock backend: %w", domain.ErrPlaylistUnavailable)
		}
		p := mock.NewPlayer(app.logger, app.eventBus, rand.New(rand.NewPCG(config.Seed, config.Seed^0x5eed)))
		p.AddContext(config.SimPlaylist, config.SimItems)
		app.mockPlayer = p
		app.player = p
		timing = scaleTiming(timing, config.SimSpeed)
	case BackendSpotify:
		if config.HTTPClient == nil {
			return nil, fmt.Errorf("spotify backend: %w", domain.ErrNotAuthenticated)
		}
		p := spotify.NewPlayer(app.logger, app.eventBus, config.HTTPClient, config.SpotifyOptions)
		app.spotifyPlayer = p
		app.player = p
	default:
		return nil, domain.NewValidationError("Backend", config.Backend, "unknown backend")
	}

	// Step 4: Create the session
	var rng *rand.Rand
	if config.Seed != 0 {
		rng = rand.New(rand.NewPCG(config.Seed, config.Seed))
	}
	app.controller = service.NewSessionController(
		app.logger,
		app.player,
		app.eventBus,
		app.loop,
		config.Tuning,
		timing,
		rng,
	)

	return app, nil
}

// scaleTiming shortens every delay so the session keeps pace with a
// simulated clock running speed times faster than wall time.
func scaleTiming(t domain.Timing, speed float64) domain.Timing {
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) / speed)
	}
	return domain.Timing{
		SettleDelay:      scale(t.SettleDelay),
		PassThroughDelay: scale(t.PassThroughDelay),
		MuteReleaseDelay: scale(t.MuteReleaseDelay),
		EndOfTrackWindow: t.EndOfTrackWindow,
		ProgressInterval: scale(t.ProgressInterval),
		NativeWait:       scale(t.NativeWait),
	}
}

// Start launches the loop, the backend's background work and the session.
// It returns once the session is live.
func (a *Application) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shutdown {
		return errors.New("application is shut down")
	}
	if a.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.loop.Run(runCtx)

	switch {
	case a.spotifyPlayer != nil:
		if err := a.spotifyPlayer.Refresh(ctx); err != nil {
			a.logger.Warn("initial player sample failed", slog.Any("error", err))
		}
		a.bg.Add(1)
		go func() {
			defer a.bg.Done()
			_ = a.spotifyPlayer.Poll(runCtx, a.config.PollInterval)
		}()
	case a.mockPlayer != nil:
		if err := a.mockPlayer.Start(a.config.SimPlaylist, ""); err != nil {
			cancel()
			<-a.loop.Done()
			return err
		}
		a.bg.Add(1)
		go func() {
			defer a.bg.Done()
			a.simulate(runCtx)
		}()
	}

	a.controller.Start()
	a.started = true
	a.logger.Info("trueshuffle started")
	return nil
}

// simulate drives the mock player's clock.
func (a *Application) simulate(ctx context.Context) {
	ticker := time.NewTicker(simTick)
	defer ticker.Stop()
	step := time.Duration(float64(simTick) * a.config.SimSpeed)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mockPlayer.Advance(step)
		}
	}
}

// Run starts the application and blocks until ctx is cancelled or, with
// withUI, the terminal UI exits.
func (a *Application) Run(ctx context.Context, withUI bool) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	if !withUI {
		<-ctx.Done()
		return nil
	}

	prog := tea.NewProgram(tui.NewModel(a.controller, string(a.config.Backend)), tea.WithContext(ctx))
	forward := func(e domain.Event) { prog.Send(tui.EventMsg{Event: e}) }
	var subs []domain.SubscriptionID
	for _, t := range []domain.EventType{
		domain.EventTrackPicked,
		domain.EventContextChanged,
		domain.EventSkipDropped,
		domain.EventPlayerError,
	} {
		subs = append(subs, a.eventBus.Subscribe(t, forward))
	}
	defer func() {
		for _, id := range subs {
			a.eventBus.Unsubscribe(id)
		}
	}()

	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the application.
// It is safe to call more than once.
func (a *Application) Shutdown() error {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return nil
	}
	a.shutdown = true
	started := a.started
	a.mu.Unlock()

	a.logger.Info("shutting down application")

	var errs []error
	if started {
		// Shutdown services before the loop that runs them
		select {
		case <-a.controller.Shutdown():
		case <-time.After(shutdownTimeout):
			errs = append(errs, errors.New("timed out restoring session state"))
		}
		a.cancel()
		a.bg.Wait()
		<-a.loop.Done()
	}

	if err := a.eventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// Session returns the session controls.
func (a *Application) Session() ports.SessionControl {
	return a.controller
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// MockPlayer returns the simulated player, or nil for other backends.
func (a *Application) MockPlayer() *mock.Player {
	return a.mockPlayer
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}
