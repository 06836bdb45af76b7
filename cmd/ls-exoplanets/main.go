// Command ls-exoplanets is a terminal navigator for exoplanet systems: a
// galaxy of catalog systems, their orbits, planets and host stars.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/feed"
	"github.com/litescript/ls-exoplanets/internal/logging"
	"github.com/litescript/ls-exoplanets/internal/metrics"
	"github.com/litescript/ls-exoplanets/internal/session"
	"github.com/litescript/ls-exoplanets/internal/ui"
	"github.com/litescript/ls-exoplanets/internal/version"
)

// Persistent flags
var (
	logLevel    string
	logFile     string
	realistic   bool
	catalogPath string
	feedAddr    string
	fps         int
	seed        int64
)

// Tour flags
var (
	tourEvents   int
	tourRealtime bool
)

const (
	minFPS = 10
	maxFPS = 120
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ls-exoplanets",
		Short: "Terminal exoplanet system navigator",
		Long: `ls-exoplanets - navigate the galaxy of known exoplanet systems.

Controls:
  j/k, arrows  - Move through the list
  enter        - View system / focus planet
  b, esc       - Back one level
  g / c        - Galaxy / galactic centre
  s            - Host star
  r            - Toggle compressed / realistic distances
  +/-          - Zoom
  n / R        - Random planet / system
  /            - Search
  q            - Quit`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "Write logs to this file (TUI logs are discarded otherwise)")
	pf.BoolVar(&realistic, "realistic", false, "Start with realistic orbital distances")
	pf.StringVar(&catalogPath, "catalog", "", "JSON planet catalog (default: built-in sample)")
	pf.StringVar(&feedAddr, "feed-addr", "", "Serve the state feed on this address, e.g. 127.0.0.1:8765")
	pf.IntVar(&fps, "fps", 60, "Frame rate")
	pf.Int64Var(&seed, "seed", 1, "Seed for random selections")

	tour := &cobra.Command{
		Use:   "tour",
		Short: "Run a scripted navigation tour headless and print the event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTour(cmd.Context(), cmd.OutOrStdout())
		},
	}
	tour.Flags().IntVar(&tourEvents, "events", 50, "Number of navigation events to print")
	tour.Flags().BoolVar(&tourRealtime, "realtime", false, "Animate on the wall clock instead of simulated time")

	systems := &cobra.Command{
		Use:   "systems [query]",
		Short: "List catalog systems, optionally filtered by star or planet name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ""
			if len(args) == 1 {
				q = args[0]
			}
			return runSystems(cmd.OutOrStdout(), q)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ls-exoplanets", version.String())
		},
	}

	root.AddCommand(tour, systems, versionCmd)
	return root
}

// newLogger writes to logFile when set, else to fallback.
func newLogger(fallback io.Writer) (*logging.Logger, func(), error) {
	logger := logging.New(logging.ParseLevel(logLevel))
	if logFile == "" {
		logger.SetOutput(fallback)
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, func() { _ = f.Close() }, nil
}

func loadPlanets() ([]*catalog.Planet, error) {
	if catalogPath == "" {
		return catalog.SamplePlanets(), nil
	}
	return catalog.LoadFile(catalogPath)
}

func sessionConfig() session.Config {
	cfg := session.DefaultConfig()
	if fps < minFPS {
		fps = minFPS
	} else if fps > maxFPS {
		fps = maxFPS
	}
	cfg.FPS = fps
	cfg.Seed = seed
	cfg.Realistic = realistic
	return cfg
}

func runTUI(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; running the headless tour")
		return runTour(ctx, os.Stdout)
	}

	// The TUI owns the screen; logs go to the file or nowhere.
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	planets, err := loadPlanets()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	panel := ui.NewPanel()
	sess, err := session.New(sessionConfig(), session.Deps{
		Planets:  planets,
		Notifier: panel,
		Recorder: collector,
		Log:      logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var commands <-chan feed.Command
	if feedAddr != "" {
		cfg := feed.DefaultConfig()
		cfg.Addr = feedAddr
		srv := feed.New(cfg, sess.State, collector.Handler(), logger.Named("feed"))
		commands = srv.Commands()
		g.Go(func() error { return srv.Run(gctx) })
	}

	p := tea.NewProgram(ui.New(sess, panel, commands), tea.WithAltScreen())
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run TUI: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	err = g.Wait()
	logger.Info("exit after %d frames", sess.Frames())
	return err
}

func runTour(ctx context.Context, out io.Writer) error {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	planets, err := loadPlanets()
	if err != nil {
		return err
	}

	var clock camera.Clock
	var advance func(time.Duration)
	if tourRealtime {
		clock = camera.SystemClock{}
		advance = time.Sleep
	} else {
		mock := camera.NewMockClock(time.Now())
		clock, advance = mock, mock.Advance
	}

	cfg := sessionConfig()
	cfg.State.MaxEvents = 500
	sess, err := session.New(cfg, session.Deps{Planets: planets, Clock: clock, Log: logger})
	if err != nil {
		return err
	}

	results, err := sess.RunTour(ctx, session.DefaultTour(sess.Store), advance)
	session.WriteResults(out, results)
	fmt.Fprintln(out)
	sess.WriteEvents(out, tourEvents)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runSystems(out io.Writer, query string) error {
	planets, err := loadPlanets()
	if err != nil {
		return err
	}
	store := catalog.NewStore(planets, seed)
	systems := store.Systems()
	if query != "" {
		systems = store.Search(query)
	}
	if len(systems) == 0 {
		fmt.Fprintln(out, "No matching systems.")
		return nil
	}
	fmt.Fprintf(out, "%-24s %7s %10s %6s\n", "STAR", "PLANETS", "DIST (LY)", "STARS")
	for _, sys := range systems {
		dist := "-"
		if d := sys.DistanceLY(); d > 0 {
			dist = fmt.Sprintf("%.1f", d)
		}
		fmt.Fprintf(out, "%-24s %7d %10s %6d\n", sys.StarName, len(sys.Planets), dist, sys.StarCount())
	}
	return nil
}
