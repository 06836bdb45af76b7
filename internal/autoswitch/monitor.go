// Package autoswitch watches the camera distance every frame and backs the
// view out one level when the user zooms far enough away.
package autoswitch

import (
	"math"
	"time"

	"github.com/litescript/ls-exoplanets/internal/logging"
	"github.com/litescript/ls-exoplanets/internal/orbit"
	"github.com/litescript/ls-exoplanets/internal/view"
)

// Config holds the exit thresholds, in scene units of camera distance.
type Config struct {
	PlanetExitDistance          float64       // Planet -> System
	StarExitDistance            float64       // Star -> System
	SystemExitDistance          float64       // System -> Galaxy, compressed orbits
	RealisticSystemExitDistance float64       // System -> Galaxy, realistic orbits
	LockDuration                time.Duration // quiet period after firing
	// BaselineMargin raises a threshold to at least this multiple of the
	// distance the last transition committed at, so a wide framing does not
	// exit on the first scroll.
	BaselineMargin float64
}

// DefaultConfig returns the thresholds used by the viewer.
func DefaultConfig() Config {
	return Config{
		PlanetExitDistance:          25,
		StarExitDistance:            60,
		SystemExitDistance:          150,
		RealisticSystemExitDistance: 4000,
		LockDuration:                1200 * time.Millisecond,
		BaselineMargin:              1.5,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	for _, f := range []struct{ v, def *float64 }{
		{&c.PlanetExitDistance, &def.PlanetExitDistance},
		{&c.StarExitDistance, &def.StarExitDistance},
		{&c.SystemExitDistance, &def.SystemExitDistance},
		{&c.RealisticSystemExitDistance, &def.RealisticSystemExitDistance},
		{&c.BaselineMargin, &def.BaselineMargin},
	} {
		if !(*f.v > 0) {
			*f.v = *f.def
		}
	}
	if c.LockDuration <= 0 {
		c.LockDuration = def.LockDuration
	}
	return c
}

// Monitor samples camera distance once per frame. It only reads the
// camera state; every transition goes through the machine.
type Monitor struct {
	cfg Config
	m   *view.Machine
	log *logging.Logger

	last        float64 // previous distance sample
	committed   float64 // LastKnownDistance at the last seen commit
	commits     uint64
	lockedUntil time.Time
	fired       int
}

// New creates a monitor for m. The current camera distance is the first
// sample.
func New(cfg Config, m *view.Machine, log *logging.Logger) *Monitor {
	st := m.Camera().State()
	return &Monitor{
		cfg:       cfg.withDefaults(),
		m:         m,
		log:       logging.OrDiscard(log),
		last:      st.Distance(),
		committed: st.LastKnownDistance,
		commits:   m.Commits(),
	}
}

// Fired returns how many auto-switch requests the monitor has issued.
func (mon *Monitor) Fired() int { return mon.fired }

// Locked reports whether the post-fire lock is still held.
func (mon *Monitor) Locked() bool {
	return mon.m.Camera().Clock().Now().Before(mon.lockedUntil)
}

// Threshold returns the exit distance for the current mode, or false when
// the mode has no exit.
func (mon *Monitor) Threshold() (float64, bool) {
	var t float64
	switch mon.m.Mode() {
	case view.Planet:
		t = mon.cfg.PlanetExitDistance
	case view.Star:
		t = mon.cfg.StarExitDistance
	case view.System:
		t = mon.cfg.SystemExitDistance
		if mon.m.DistanceMode() == orbit.Realistic {
			t = mon.cfg.RealisticSystemExitDistance
		}
	default:
		return 0, false
	}
	return math.Max(t, mon.committed*mon.cfg.BaselineMargin), true
}

// Tick takes one distance sample and reports whether it issued a request.
func (mon *Monitor) Tick() bool {
	st := mon.m.Camera().State()
	if c := mon.m.Commits(); c != mon.commits {
		mon.commits = c
		mon.committed = st.LastKnownDistance
		mon.last = st.LastKnownDistance
	}
	d := st.Distance()
	prev := mon.last
	mon.last = d

	if mon.Locked() || mon.m.Transitioning() {
		return false
	}
	threshold, ok := mon.Threshold()
	if !ok || !(d > threshold) || !(d > prev) {
		return false
	}

	mode := mon.m.Mode()
	target := view.System
	if mode == view.System {
		target = view.Galaxy
	}
	mon.lockedUntil = mon.m.Camera().Clock().Now().Add(mon.cfg.LockDuration)
	mon.fired++
	mon.log.Info("distance %.1f > %.1f in %s view, switching to %s", d, threshold, mode, target)
	mon.m.RecordAutoSwitch(view.TransitionRequest{
		Origin: mode,
		Target: target,
		Entity: mon.m.Selection(),
		Source: view.SourceAuto,
	})

	var err error
	if target == view.Galaxy {
		err = mon.m.ShowGalaxy(view.SourceAuto)
	} else {
		err = mon.m.Back(view.SourceAuto)
	}
	if err != nil {
		mon.log.Debug("auto-switch request: %v", err)
	}
	return true
}
