package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/trueshuffle/internal/adapter/catalog"
	"github.com/tejashwikalptaru/trueshuffle/internal/app"
	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

var (
	simDir      string
	simTracks   int
	simArtists  int
	simSpeed    float64
	simSeed     uint64
	simHeadless bool
	simSkips    int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the shuffle session against a simulated player",
	Long: `Run the session against an in-memory player whose own shuffle is
deliberately biased toward the top of the playlist.

The playlist is generated, or built from a local music folder with --dir.
With --headless and --skips, the command issues that many skips and prints
a summary of what was played.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simDir, "dir", "", "build the playlist from this music folder")
	simulateCmd.Flags().IntVar(&simTracks, "tracks", 0, "number of generated tracks (default from config)")
	simulateCmd.Flags().IntVar(&simArtists, "artists", 0, "number of generated artists (default from config)")
	simulateCmd.Flags().Float64Var(&simSpeed, "speed", 0, "simulated seconds per real second (default from config)")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "random seed (0 picks one)")
	simulateCmd.Flags().BoolVar(&simHeadless, "headless", false, "run without the terminal UI")
	simulateCmd.Flags().IntVar(&simSkips, "skips", 0, "headless: issue this many skips, report and exit")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ac, closeLog, err := appConfig(!simHeadless)
	if err != nil {
		return err
	}
	defer closeLog()

	if simDir == "" {
		simDir = cfg.Sim.MusicDir
	}
	if simTracks == 0 {
		simTracks = cfg.Sim.Tracks
	}
	if simArtists == 0 {
		simArtists = cfg.Sim.Artists
	}
	if simSpeed == 0 {
		simSpeed = cfg.Sim.Speed
	}
	if simSeed == 0 {
		simSeed = rand.Uint64()
	}

	ac.Backend = app.BackendMock
	ac.SimSpeed = simSpeed
	ac.Seed = simSeed
	if simDir != "" {
		items, err := catalog.ScanDir(ctx, newLogger(ac), simDir)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", simDir, err)
		}
		ac.SimPlaylist = catalog.PlaylistURI(simDir)
		ac.SimItems = items
	} else {
		ac.SimPlaylist = catalog.SyntheticPlaylistURI
		ac.SimItems = catalog.Synthetic(simTracks, simArtists, rand.New(rand.NewPCG(simSeed, simSeed)))
	}

	a, err := app.NewApplication(ac)
	if err != nil {
		return err
	}
	defer shutdown(a)

	if !simHeadless {
		return a.Run(ctx, true)
	}
	if simSkips <= 0 {
		return a.Run(ctx, false)
	}

	rep := newReport(cfg.Shuffle.NoRepeatWindow)
	a.GetEventBus().Subscribe(domain.EventTrackChanged, rep.observe)
	a.GetEventBus().Subscribe(domain.EventTrackPicked, rep.observe)

	if err := a.Start(ctx); err != nil {
		return err
	}
	if err := skipLoop(ctx, a, simSkips, time.Duration(float64(2*cfg.DomainTiming().SettleDelay)/simSpeed)); err != nil {
		return err
	}
	shutdown(a)

	sum := rep.summary()
	out := cmd.OutOrStdout()
	if jsonOut {
		data, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	sum.write(out, simSeed)
	return nil
}

// skipLoop requests n skips, spaced so each one lands after the previous settled.
func skipLoop(ctx context.Context, a *app.Application, n int, gap time.Duration) error {
	gap += 10 * time.Millisecond
	ticker := time.NewTicker(gap)
	defer ticker.Stop()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.Session().RequestSkip()
		}
	}
	// let the last request land
	select {
	case <-ctx.Done():
	case <-time.After(gap):
	}
	return nil
}
