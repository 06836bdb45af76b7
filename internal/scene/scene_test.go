package scene

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/orbit"
	"github.com/litescript/ls-exoplanets/internal/view"
)

func sampleStore() *catalog.Store {
	return catalog.NewStore(catalog.SamplePlanets(), 1)
}

func systemFixture(t *testing.T, name string) (*System, *camera.MockClock, *catalog.StarSystem, view.RenderRequest) {
	t.Helper()
	store := sampleStore()
	sys, ok := store.SystemForStar(name)
	if !ok {
		t.Fatalf("system %s missing", name)
	}
	clock := camera.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := NewSystem(DefaultSystemConfig(), clock)
	layout := orbit.NewEngine(orbit.DefaultConfig()).Layout(sys)
	return s, clock, sys, view.RenderRequest{Mode: view.System, Entity: view.SystemEntity(sys), Layout: layout}
}

func TestGalaxy_Render(t *testing.T) {
	if NewGalaxy(nil).Ready() {
		t.Error("galaxy without catalog reports ready")
	}
	if _, err := NewGalaxy(nil).Render(view.RenderRequest{}); !errors.Is(err, ErrNoCatalog) {
		t.Errorf("Render without catalog = %v", err)
	}

	store := sampleStore()
	g := NewGalaxy(store)
	b, err := g.Render(view.RenderRequest{Mode: view.Galaxy})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := len(store.Systems()) + len(astro.Landmarks()) + 1
	if g.Registry().Len() != want || len(g.Meshes()) != want {
		t.Fatalf("meshes = %d, want %d", g.Registry().Len(), want)
	}
	core, _ := g.Registry().Get("core")
	if core.Highlight {
		t.Error("core highlighted in galaxy mode")
	}
	if b.Radius < core.Position.Norm() {
		t.Errorf("bounds %v do not cover the core at %v", b.Radius, core.Position.Norm())
	}

	sys := store.Systems()[0]
	g.FocusOn(view.SystemEntity(sys))
	marker, _ := g.Registry().Get("system/" + sys.StarName)
	if !marker.Highlight || core.Highlight {
		t.Error("FocusOn did not highlight only the system marker")
	}

	if _, err := g.Render(view.RenderRequest{Mode: view.GalacticCenter}); err != nil {
		t.Fatalf("Render GC: %v", err)
	}
	core, _ = g.Registry().Get("core")
	if !core.Highlight || g.Mode() != view.GalacticCenter {
		t.Error("galactic centre not highlighted")
	}
	g.ShowAll()
	if core.Highlight {
		t.Error("ShowAll kept the highlight")
	}

	g.Cleanup()
	if g.Registry().Len() != 0 {
		t.Error("Cleanup left meshes")
	}
}

func TestGalaxy_RenderAroundOrigin(t *testing.T) {
	store := sampleStore()
	sys := store.Systems()[0]
	g := NewGalaxy(store)
	if _, err := g.Render(view.RenderRequest{Mode: view.Galaxy, Origin: sys.GalacticPosition()}); err != nil {
		t.Fatal(err)
	}
	m, _ := g.Registry().Get("system/" + sys.StarName)
	if m.Position.Norm() > 1e-9 {
		t.Errorf("system at origin drawn at %+v", m.Position)
	}
}

func TestSystem_Render(t *testing.T) {
	s, _, sys, req := systemFixture(t, "Kepler-16")
	if _, err := s.Render(view.RenderRequest{Mode: view.System}); !errors.Is(err, ErrNoSystem) {
		t.Errorf("Render without system = %v", err)
	}

	b, err := s.Render(req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	stars := len(req.Layout.StarPositions)
	if want := stars + 2*len(sys.Planets); s.Registry().Len() != want {
		t.Errorf("meshes = %d, want %d", s.Registry().Len(), want)
	}
	if b.Radius < req.Layout.Extent {
		t.Errorf("bounds %v below extent %v", b.Radius, req.Layout.Extent)
	}
	if star, _ := s.Registry().Get("star/1"); stars > 1 && star.Label != "Kepler-16 B" {
		t.Errorf("companion label = %q", star.Label)
	}
	if s.StarSystem() != sys {
		t.Error("StarSystem not recorded")
	}
	s.Cleanup()
	if s.Registry().Len() != 0 || s.StarSystem() != nil {
		t.Error("Cleanup left state behind")
	}
	if _, ok := s.PositionOf(sys.Planets[0]); ok {
		t.Error("PositionOf after Cleanup")
	}
}

func TestSystem_FocusAndShowAllMatchFreshRender(t *testing.T) {
	s, _, sys, req := systemFixture(t, "TRAPPIST-1")
	if _, err := s.Render(req); err != nil {
		t.Fatal(err)
	}
	fresh := s.Registry().VisibleIDs()

	target := sys.Planets[3]
	s.FocusOn(view.PlanetEntity(sys, target))
	vis := s.Meshes()
	for _, m := range vis {
		if m.Kind == KindOrbit {
			t.Errorf("orbit %s visible in planet focus", m.ID)
		}
		if m.Kind == KindPlanet && m.Planet != target {
			t.Errorf("sibling %s visible in planet focus", m.ID)
		}
	}
	if len(vis) != len(req.Layout.StarPositions)+1 {
		t.Errorf("planet focus shows %d meshes", len(vis))
	}

	s.ShowAll()
	if got := s.Registry().VisibleIDs(); !reflect.DeepEqual(got, fresh) {
		t.Errorf("ShowAll = %v, fresh render = %v", got, fresh)
	}

	s.FocusOn(view.StarEntity(sys))
	for _, m := range s.Meshes() {
		if m.Kind != KindStar || !m.Highlight {
			t.Errorf("%s visible in star focus", m.ID)
		}
	}
	s.FocusOn(view.SystemEntity(sys))
	if got := s.Registry().VisibleIDs(); !reflect.DeepEqual(got, fresh) {
		t.Error("system focus differs from fresh render")
	}
	s.Registry().Each(func(m *Mesh) {
		if m.Highlight {
			t.Errorf("%s still highlighted", m.ID)
		}
	})
}

func TestSystem_PlanetsMove(t *testing.T) {
	s, clock, sys, req := systemFixture(t, "TRAPPIST-1")
	if _, err := s.Render(req); err != nil {
		t.Fatal(err)
	}
	p := sys.Planets[0] // ~1.5 day period
	po, _ := req.Layout.Orbit(p.Name)

	before, ok := s.PositionOf(p)
	if !ok {
		t.Fatal("PositionOf: planet not tracked")
	}
	mesh, _ := s.Registry().Get("planet/" + p.Name)
	if mesh.Position != before {
		t.Errorf("mesh at %+v, tracker at %+v", mesh.Position, before)
	}

	clock.Advance(250 * time.Millisecond)
	after, _ := s.PositionOf(p)
	if after.DistanceTo(before) < 1e-6 {
		t.Error("planet did not move with the clock")
	}
	if mesh.Position != before {
		t.Error("mesh moved before Update")
	}
	s.Update()
	if mesh.Position != after {
		t.Error("Update did not move the mesh")
	}

	// Low eccentricity keeps the planet near its orbit radius.
	if r := after.Norm(); math.Abs(r-po.OrbitRadius) > po.OrbitRadius*0.2 {
		t.Errorf("planet at radius %v, orbit %v", r, po.OrbitRadius)
	}
	if _, ok := s.PositionOf(&catalog.Planet{Name: p.Name}); ok {
		t.Error("PositionOf accepted a planet from outside the scene")
	}
}

// A full navigation loop with both real scenes behind the machine.
func TestScenes_DriveMachine(t *testing.T) {
	store := sampleStore()
	clock := camera.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cam := camera.New(camera.DefaultConfig(), camera.NewState(astro.Vec3{Z: 1}, astro.Vec3{}), clock, nil)
	cache, err := orbit.NewCache(orbit.NewEngine(orbit.DefaultConfig()), 8)
	if err != nil {
		t.Fatal(err)
	}
	galaxy := NewGalaxy(store)
	system := NewSystem(DefaultSystemConfig(), clock)
	m := view.NewMachine(view.DefaultConfig(), view.Deps{
		Camera: cam, Orbits: cache, Catalog: store,
		Galaxy: galaxy, System: system, Tracker: system,
	})
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	settle := func() {
		for i := 0; i < 60*30 && m.Transitioning(); i++ {
			clock.Advance(time.Second / 60)
			system.Update()
			m.Tick()
		}
		if m.Transitioning() {
			t.Fatal("transition never settled")
		}
	}

	sys, _ := store.SystemForStar("Kepler-90")
	if err := m.SelectSystem(sys, view.SourceUser); err != nil {
		t.Fatal(err)
	}
	settle()
	if galaxy.Registry().Len() != 0 || system.StarSystem() != sys {
		t.Fatal("system commit did not swap scenes")
	}
	fresh := system.Registry().VisibleIDs()

	p := sys.Planets[len(sys.Planets)-1]
	if err := m.SelectPlanet(p, view.SourceUser); err != nil {
		t.Fatal(err)
	}
	settle()
	pos, _ := system.PositionOf(p)
	st := cam.State()
	if st.LookAt.DistanceTo(pos) > 0.05 {
		t.Errorf("camera looks at %+v, planet at %+v", st.LookAt, pos)
	}
	if len(system.Meshes()) != 2 {
		t.Errorf("planet focus shows %d meshes", len(system.Meshes()))
	}

	if err := m.Back(view.SourceUser); err != nil {
		t.Fatal(err)
	}
	settle()
	if got := system.Registry().VisibleIDs(); !reflect.DeepEqual(got, fresh) {
		t.Errorf("back in system shows %v, want %v", got, fresh)
	}

	if err := m.ShowGalaxy(view.SourceUser); err != nil {
		t.Fatal(err)
	}
	settle()
	if system.Registry().Len() != 0 || galaxy.Registry().Len() == 0 || m.Mode() != view.Galaxy {
		t.Error("galaxy commit did not swap scenes")
	}
}
