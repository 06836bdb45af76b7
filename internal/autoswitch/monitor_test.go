package autoswitch

import (
	"testing"
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/orbit"
	"github.com/litescript/ls-exoplanets/internal/view"
)

type stubRenderer struct{ ready bool }

func (r *stubRenderer) Ready() bool { return r.ready }

func (r *stubRenderer) Render(req view.RenderRequest) (view.Bounds, error) {
	return view.Bounds{Radius: req.Layout.Extent}, nil
}

func (r *stubRenderer) Cleanup()            {}
func (r *stubRenderer) ShowAll()            {}
func (r *stubRenderer) FocusOn(view.Entity) {}

type countingSink struct{ auto int }

func (s *countingSink) RecordEvent(e view.Event) {
	if e.Kind == view.EventAutoSwitch {
		s.auto++
	}
}

type fixture struct {
	m      *view.Machine
	mon    *Monitor
	clock  *camera.MockClock
	store  *catalog.Store
	galaxy *stubRenderer
	system *stubRenderer
	sink   *countingSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := camera.NewMockClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	cam := camera.New(camera.DefaultConfig(), camera.NewState(astro.Vec3{Z: 1}, astro.Vec3{}), clock, nil)
	cache, err := orbit.NewCache(orbit.NewEngine(orbit.DefaultConfig()), 16)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	f := &fixture{
		clock:  clock,
		store:  catalog.NewStore(catalog.SamplePlanets(), 1),
		galaxy: &stubRenderer{ready: true},
		system: &stubRenderer{ready: true},
		sink:   &countingSink{},
	}
	f.m = view.NewMachine(view.DefaultConfig(), view.Deps{
		Camera:  cam,
		Orbits:  cache,
		Catalog: f.store,
		Galaxy:  f.galaxy,
		System:  f.system,
		Events:  f.sink,
	})
	if err := f.m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.mon = New(DefaultConfig(), f.m, nil)
	return f
}

// frame advances one 60 fps frame: machine first, then the monitor.
func (f *fixture) frame() bool {
	f.clock.Advance(time.Second / 60)
	f.m.Tick()
	return f.mon.Tick()
}

func (f *fixture) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 60*30; i++ {
		if !f.m.Transitioning() {
			return
		}
		f.frame()
	}
	t.Fatal("transition never settled")
}

func (f *fixture) enterSystem(t *testing.T, name string) {
	t.Helper()
	sys, ok := f.store.SystemForStar(name)
	if !ok {
		t.Fatalf("system %s missing", name)
	}
	if err := f.m.SelectSystem(sys, view.SourceUser); err != nil {
		t.Fatalf("SelectSystem: %v", err)
	}
	f.settle(t)
}

// setDistance moves the camera along its current view axis.
func (f *fixture) setDistance(d float64) {
	st := f.m.Camera().State()
	dir := st.Position.Sub(st.LookAt).Normalized()
	st.Position = st.LookAt.Add(dir.Scale(d))
}

func TestMonitor_NoFireWhenDistanceDecreases(t *testing.T) {
	f := newFixture(t)
	f.enterSystem(t, "TRAPPIST-1")

	f.setDistance(500)
	f.mon = New(DefaultConfig(), f.m, nil)
	for _, d := range []float64{450, 400, 300, 200} {
		f.setDistance(d)
		if f.frame() {
			t.Fatalf("fired at %v while zooming in", d)
		}
	}
	if f.m.Mode() != view.System || f.mon.Fired() != 0 {
		t.Fatalf("mode %v fired %d", f.m.Mode(), f.mon.Fired())
	}

	f.setDistance(220)
	if !f.frame() {
		t.Fatal("did not fire when zooming out past the threshold")
	}
	f.settle(t)
	if f.m.Mode() != view.Galaxy || f.sink.auto != 1 {
		t.Errorf("mode %v auto events %d", f.m.Mode(), f.sink.auto)
	}
}

func TestMonitor_BelowThreshold(t *testing.T) {
	f := newFixture(t)
	f.enterSystem(t, "TRAPPIST-1")
	th, ok := f.mon.Threshold()
	if !ok || th != DefaultConfig().SystemExitDistance {
		t.Fatalf("threshold = %v, %v", th, ok)
	}
	base := f.m.Camera().State().Distance()
	for d := base; d < th; d += 5 {
		f.setDistance(d)
		if f.frame() {
			t.Fatalf("fired at %v below threshold %v", d, th)
		}
	}
}

func TestMonitor_PlanetExitsToSystem(t *testing.T) {
	f := newFixture(t)
	f.enterSystem(t, "Kepler-90")
	sys := f.m.Selection().System
	if err := f.m.SelectPlanet(sys.Planets[0], view.SourceUser); err != nil {
		t.Fatalf("SelectPlanet: %v", err)
	}
	f.settle(t)

	f.setDistance(DefaultConfig().PlanetExitDistance + 5)
	if !f.frame() {
		t.Fatal("planet exit did not fire")
	}
	f.settle(t)
	if f.m.Mode() != view.System || f.m.Selection().System != sys {
		t.Errorf("mode %v selection %q", f.m.Mode(), f.m.Selection().Name())
	}
}

func TestMonitor_LockAbsorbsRepeats(t *testing.T) {
	f := newFixture(t)
	f.enterSystem(t, "TRAPPIST-1")
	// The galaxy scene refuses, so the first request is rejected and the
	// machine never goes busy; only the lock stops a second request.
	f.galaxy.ready = false

	d := 200.0
	f.setDistance(d)
	if !f.frame() {
		t.Fatal("first sample past threshold did not fire")
	}
	start := f.clock.Now()
	for f.clock.Now().Sub(start) < DefaultConfig().LockDuration-time.Second/60 {
		d += 10
		f.setDistance(d)
		if f.frame() {
			t.Fatalf("fired again %v after the first request", f.clock.Now().Sub(start))
		}
	}
	if !f.mon.Locked() && f.clock.Now().Sub(start) < DefaultConfig().LockDuration {
		t.Error("lock released early")
	}

	f.clock.Advance(DefaultConfig().LockDuration)
	d += 10
	f.setDistance(d)
	if !f.mon.Tick() {
		t.Fatal("did not fire after the lock expired")
	}
	if f.mon.Fired() != 2 || f.sink.auto != 2 {
		t.Errorf("fired %d, auto events %d", f.mon.Fired(), f.sink.auto)
	}
}

func TestMonitor_IgnoresInFlightTransitions(t *testing.T) {
	f := newFixture(t)
	f.enterSystem(t, "55 Cancri")
	if err := f.m.ShowGalaxy(view.SourceUser); err != nil {
		t.Fatalf("ShowGalaxy: %v", err)
	}
	// The camera pulls back far past every threshold on the way out.
	f.settle(t)
	if f.mon.Fired() != 0 {
		t.Errorf("fired %d times during a user transition", f.mon.Fired())
	}
	if _, ok := f.mon.Threshold(); ok {
		t.Error("galaxy view should have no exit threshold")
	}
}

func TestMonitor_RealisticThreshold(t *testing.T) {
	f := newFixture(t)
	f.enterSystem(t, "55 Cancri")
	if err := f.m.SetDistanceMode(orbit.Realistic); err != nil {
		t.Fatalf("SetDistanceMode: %v", err)
	}
	f.settle(t)

	th, _ := f.mon.Threshold()
	if th < DefaultConfig().RealisticSystemExitDistance {
		t.Fatalf("realistic threshold = %v", th)
	}
	f.setDistance(DefaultConfig().SystemExitDistance * 2)
	f.frame()
	f.setDistance(DefaultConfig().SystemExitDistance * 3)
	if f.frame() {
		t.Error("compressed threshold applied in realistic mode")
	}
}

func TestMonitor_BaselineFollowsCommits(t *testing.T) {
	f := newFixture(t)
	f.enterSystem(t, "TRAPPIST-1")
	st := f.m.Camera().State()
	if f.mon.last != st.LastKnownDistance || f.mon.committed != st.LastKnownDistance {
		t.Errorf("baseline %v / %v, want %v", f.mon.last, f.mon.committed, st.LastKnownDistance)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{SystemExitDistance: 80}.withDefaults()
	if c.SystemExitDistance != 80 {
		t.Errorf("explicit threshold overwritten: %v", c.SystemExitDistance)
	}
	def := DefaultConfig()
	if c.PlanetExitDistance != def.PlanetExitDistance || c.LockDuration != def.LockDuration {
		t.Errorf("defaults missing: %+v", c)
	}
}
