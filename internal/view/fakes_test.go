package view

import (
	"testing"
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/orbit"
)

type fakeRenderer struct {
	ready     bool
	renderErr error
	renders   []RenderRequest
	cleanups  int
	showAlls  int
	focused   []Entity
}

func (r *fakeRenderer) Ready() bool { return r.ready }

func (r *fakeRenderer) Render(req RenderRequest) (Bounds, error) {
	if r.renderErr != nil {
		return Bounds{}, r.renderErr
	}
	r.renders = append(r.renders, req)
	return Bounds{Radius: req.Layout.Extent}, nil
}

func (r *fakeRenderer) Cleanup()         { r.cleanups++ }
func (r *fakeRenderer) ShowAll()         { r.showAlls++ }
func (r *fakeRenderer) FocusOn(e Entity) { r.focused = append(r.focused, e) }

func (r *fakeRenderer) lastFocus() Entity {
	if len(r.focused) == 0 {
		return Entity{}
	}
	return r.focused[len(r.focused)-1]
}

// fakeTracker puts every planet on +X at its compressed orbit radius.
type fakeTracker struct {
	pos map[string]astro.Vec3
}

func (f *fakeTracker) PositionOf(p *catalog.Planet) (astro.Vec3, bool) {
	v, ok := f.pos[p.Name]
	return v, ok
}

type fakeNotifier struct {
	mode        Mode
	entity      Entity
	results     []*catalog.StarSystem
	placeholder string
	updates     int
}

func (n *fakeNotifier) UpdateInfoPanel(mode Mode, e Entity) {
	n.mode, n.entity = mode, e
	n.updates++
}

func (n *fakeNotifier) UpdateResultsList(_ Mode, systems []*catalog.StarSystem, _ Entity) {
	n.results = systems
}

func (n *fakeNotifier) SetSearchPlaceholder(text string) { n.placeholder = text }

type fakeSink struct{ events []Event }

func (s *fakeSink) RecordEvent(e Event) { s.events = append(s.events, e) }

func (s *fakeSink) count(kind EventKind) int {
	n := 0
	for _, e := range s.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type fakeRecorder struct {
	started, committed, aborted, auto int
	rejected                          map[string]int
}

func (r *fakeRecorder) TransitionStarted(Mode, Mode, Source)          { r.started++ }
func (r *fakeRecorder) TransitionCommitted(Mode, Mode, time.Duration) { r.committed++ }
func (r *fakeRecorder) TransitionRejected(_ Mode, reason string)      { r.rejected[reason]++ }
func (r *fakeRecorder) TransitionAborted(Mode)                        { r.aborted++ }
func (r *fakeRecorder) AutoSwitch(Mode, Mode)                         { r.auto++ }

type harness struct {
	m       *Machine
	clock   *camera.MockClock
	store   *catalog.Store
	galaxy  *fakeRenderer
	system  *fakeRenderer
	tracker *fakeTracker
	notify  *fakeNotifier
	sink    *fakeSink
	rec     *fakeRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := camera.NewMockClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	cam := camera.New(camera.DefaultConfig(), camera.NewState(astro.Vec3{Z: 1}, astro.Vec3{}), clock, nil)
	cache, err := orbit.NewCache(orbit.NewEngine(orbit.DefaultConfig()), 16)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	store := catalog.NewStore(catalog.SamplePlanets(), 7)

	tracker := &fakeTracker{pos: map[string]astro.Vec3{}}
	for _, sys := range store.Systems() {
		for _, po := range cache.Layout(sys).Planets {
			tracker.pos[po.Planet.Name] = astro.Vec3{X: po.OrbitRadius}
		}
	}

	h := &harness{
		clock:   clock,
		store:   store,
		galaxy:  &fakeRenderer{ready: true},
		system:  &fakeRenderer{ready: true},
		tracker: tracker,
		notify:  &fakeNotifier{},
		sink:    &fakeSink{},
		rec:     &fakeRecorder{rejected: map[string]int{}},
	}
	h.m = NewMachine(DefaultConfig(), Deps{
		Camera:   cam,
		Orbits:   cache,
		Catalog:  store,
		Galaxy:   h.galaxy,
		System:   h.system,
		Tracker:  tracker,
		Notifier: h.notify,
		Events:   h.sink,
		Recorder: h.rec,
	})
	if err := h.m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return h
}

func (h *harness) sys(t *testing.T, name string) *catalog.StarSystem {
	t.Helper()
	sys, ok := h.store.SystemForStar(name)
	if !ok {
		t.Fatalf("system %s missing", name)
	}
	return sys
}

func (h *harness) tick(dt time.Duration) {
	h.clock.Advance(dt)
	h.m.Tick()
}

// settle ticks at 60 fps until no transition is in flight.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 60*30; i++ {
		if !h.m.Transitioning() {
			return
		}
		h.tick(time.Second / 60)
	}
	t.Fatal("transition never settled")
}

func near(a, b astro.Vec3, tol float64) bool { return a.DistanceTo(b) <= tol }
