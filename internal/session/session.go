// Package session wires the catalog, scenes, view machine, zoom monitor and
// state manager into one frame-driven unit shared by the TUI and the
// headless tour.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/autoswitch"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/feed"
	"github.com/litescript/ls-exoplanets/internal/logging"
	"github.com/litescript/ls-exoplanets/internal/orbit"
	"github.com/litescript/ls-exoplanets/internal/scene"
	"github.com/litescript/ls-exoplanets/internal/state"
	"github.com/litescript/ls-exoplanets/internal/view"
)

// Config holds the tuning of every component a session owns.
type Config struct {
	Seed      int64 // random selector seed
	Realistic bool  // start in realistic distance mode
	FPS       int
	CacheSize int // layout cache entries

	View       view.Config
	Camera     camera.Config
	Orbit      orbit.Config
	Scene      scene.SystemConfig
	AutoSwitch autoswitch.Config
	State      state.Config
}

// DefaultConfig returns the configuration used by the viewer.
func DefaultConfig() Config {
	return Config{
		Seed:       1,
		FPS:        60,
		CacheSize:  64,
		View:       view.DefaultConfig(),
		Camera:     camera.DefaultConfig(),
		Orbit:      orbit.DefaultConfig(),
		Scene:      scene.DefaultSystemConfig(),
		AutoSwitch: autoswitch.DefaultConfig(),
		State:      state.DefaultConfig(),
	}
}

// Deps are the collaborators supplied by the caller. Nil fields get the
// sample catalog, the system clock and no-op sinks.
type Deps struct {
	Planets  []*catalog.Planet
	Clock    camera.Clock
	Notifier view.Notifier
	Recorder view.Recorder
	Log      *logging.Logger
}

// Session is not safe for concurrent use apart from State, which the feed
// server reads from its own goroutines.
type Session struct {
	cfg Config
	log *logging.Logger

	Clock   camera.Clock
	Store   *catalog.Store
	Galaxy  *scene.Galaxy
	System  *scene.System
	Machine *view.Machine
	Monitor *autoswitch.Monitor
	State   *state.Manager

	frames uint64
}

// New builds a session and renders the initial galaxy view.
func New(cfg Config, deps Deps) (*Session, error) {
	def := DefaultConfig()
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}
	cfg.Camera.FPS = cfg.FPS

	log := logging.OrDiscard(deps.Log)
	clock := deps.Clock
	if clock == nil {
		clock = camera.SystemClock{}
	}
	planets := deps.Planets
	if len(planets) == 0 {
		planets = catalog.SamplePlanets()
	}

	store := catalog.NewStore(planets, cfg.Seed)
	if len(store.Systems()) == 0 {
		return nil, fmt.Errorf("new session: catalog has no star systems")
	}
	cache, err := orbit.NewCache(orbit.NewEngine(cfg.Orbit), cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if cfg.Realistic {
		cache.Engine().SetMode(orbit.Realistic)
	}

	s := &Session{
		cfg:    cfg,
		log:    log,
		Clock:  clock,
		Store:  store,
		Galaxy: scene.NewGalaxy(store),
		System: scene.NewSystem(cfg.Scene, clock),
		State:  state.NewManager(cfg.State),
	}
	cam := camera.New(cfg.Camera, camera.NewState(astro.Vec3{Z: 1}, astro.Vec3{}), clock, log.Named("camera"))
	s.Machine = view.NewMachine(cfg.View, view.Deps{
		Camera:   cam,
		Orbits:   cache,
		Catalog:  store,
		Galaxy:   s.Galaxy,
		System:   s.System,
		Tracker:  s.System,
		Notifier: deps.Notifier,
		Events:   s.State,
		Recorder: deps.Recorder,
		Log:      log.Named("view"),
	})
	if err := s.Machine.Start(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	s.Monitor = autoswitch.New(cfg.AutoSwitch, s.Machine, log.Named("autoswitch"))
	s.State.Update(state.Capture(s.Machine))

	log.Info("session ready: %d systems, %s distances", len(store.Systems()), cache.Engine().Mode())
	return s, nil
}

// FrameInterval is the wall time between frames.
func (s *Session) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.cfg.FPS)
}

// Frames returns how many frames have run.
func (s *Session) Frames() uint64 { return s.frames }

// Frame runs one tick: planets move, the camera and any transition
// advance, the zoom monitor samples, and the state snapshot is published.
func (s *Session) Frame() {
	s.System.Update()
	s.Machine.Tick()
	s.Monitor.Tick()
	s.State.Update(state.Capture(s.Machine))
	s.frames++
}

// Apply runs a remote command. Rejections are already logged and recorded
// by the machine; the error is returned for display.
func (s *Session) Apply(c feed.Command) error {
	if !c.Valid() {
		return fmt.Errorf("command %q: invalid", c.String())
	}
	s.log.Debug("apply %s", c)
	return feed.Apply(s.Machine, s.Store, c)
}

// Drain applies every command waiting on ch without blocking and returns
// how many ran.
func (s *Session) Drain(ch <-chan feed.Command) int {
	if ch == nil {
		return 0
	}
	n := 0
	for {
		select {
		case c := <-ch:
			if err := s.Apply(c); err != nil {
				s.log.Warn("remote %s: %v", c, err)
			}
			n++
		default:
			return n
		}
	}
}

// Busy reports whether a transition or a scheduled follow is pending.
func (s *Session) Busy() bool {
	return s.Machine.Transitioning() || s.Machine.Camera().PendingTimers() > 0
}

// Settle runs frames until the session is idle. advance moves the clock by
// one frame interval; pass a mock clock's Advance for simulated time or a
// sleep for wall time.
func (s *Session) Settle(ctx context.Context, advance func(time.Duration), maxFrames int) error {
	dt := s.FrameInterval()
	for i := 0; i < maxFrames; i++ {
		if !s.Busy() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		advance(dt)
		s.Frame()
	}
	if s.Busy() {
		return fmt.Errorf("settle: still busy after %d frames", maxFrames)
	}
	return nil
}
