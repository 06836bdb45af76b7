package scene

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/orbit"
	"github.com/litescript/ls-exoplanets/internal/view"
)

// ErrNoSystem is returned when a system render names no system.
var ErrNoSystem = errors.New("render request names no system")

// SystemConfig tunes the system scene.
type SystemConfig struct {
	DaysPerSecond  float64 // simulated orbital days per wall-clock second
	UseInclination bool    // tilt orbit planes by catalog inclination
	PathSegments   int     // points per orbit line
}

// DefaultSystemConfig returns the settings used by the viewer.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{DaysPerSecond: 2, PathSegments: 96}
}

type body struct {
	el   orbit.Elements
	mesh *Mesh
}

// System renders one star system around its local origin and tracks its
// planets as they move.
type System struct {
	cfg   SystemConfig
	clock camera.Clock
	epoch time.Time
	reg   *Registry

	sys    *catalog.StarSystem
	layout orbit.Layout
	bodies map[*catalog.Planet]*body
}

// NewSystem creates an empty system scene. Orbital phases are measured from
// the clock's current time.
func NewSystem(cfg SystemConfig, clock camera.Clock) *System {
	def := DefaultSystemConfig()
	if !(cfg.DaysPerSecond >= 0) {
		cfg.DaysPerSecond = def.DaysPerSecond
	}
	if cfg.PathSegments < 3 {
		cfg.PathSegments = def.PathSegments
	}
	if clock == nil {
		clock = camera.SystemClock{}
	}
	return &System{
		cfg:    cfg,
		clock:  clock,
		epoch:  clock.Now(),
		reg:    NewRegistry(),
		bodies: make(map[*catalog.Planet]*body),
	}
}

// Ready is always true; the scene needs nothing beyond its clock.
func (s *System) Ready() bool { return true }

// StarSystem returns the rendered system, or nil.
func (s *System) StarSystem() *catalog.StarSystem { return s.sys }

// Layout returns the layout last rendered.
func (s *System) Layout() orbit.Layout { return s.layout }

// Meshes returns the visible meshes.
func (s *System) Meshes() []Mesh { return s.reg.Visible() }

// Registry exposes the mesh registry.
func (s *System) Registry() *Registry { return s.reg }

// Render builds stars, orbit lines and planets from req.Layout.
func (s *System) Render(req view.RenderRequest) (view.Bounds, error) {
	sys := req.Entity.System
	if sys == nil {
		return view.Bounds{}, ErrNoSystem
	}
	s.reg.Clear()
	clear(s.bodies)
	s.sys, s.layout = sys, req.Layout

	l := req.Layout
	radius := l.Extent
	for i, pos := range l.StarPositions {
		label := sys.StarName
		if len(l.StarPositions) > 1 {
			label = fmt.Sprintf("%s %c", sys.StarName, 'A'+rune(i%26))
		}
		s.reg.Add(&Mesh{
			ID:       fmt.Sprintf("star/%d", i),
			Kind:     KindStar,
			Label:    label,
			Position: pos,
			Radius:   l.StarRadius,
			Temp:     l.StarTemp,
			Visible:  true,
			System:   sys,
		})
		radius = math.Max(radius, pos.Norm()+l.StarRadius)
	}

	days := s.elapsedDays()
	for _, po := range l.Planets {
		if po.Planet == nil {
			continue
		}
		el := orbit.ElementsFor(po)
		path := orbit.Path(el, s.cfg.PathSegments, s.cfg.UseInclination)
		for _, p := range path {
			radius = math.Max(radius, p.Norm()+po.VisualRadius)
		}
		s.reg.Add(&Mesh{
			ID:      "orbit/" + po.Planet.Name,
			Kind:    KindOrbit,
			Label:   po.Planet.Name,
			Path:    path,
			Visible: true,
			System:  sys,
			Planet:  po.Planet,
		})
		m := &Mesh{
			ID:       "planet/" + po.Planet.Name,
			Kind:     KindPlanet,
			Label:    po.Planet.Name,
			Position: orbit.Position(el, el.Phase(days), s.cfg.UseInclination),
			Radius:   po.VisualRadius,
			Visible:  true,
			System:   sys,
			Planet:   po.Planet,
		}
		s.reg.Add(m)
		s.bodies[po.Planet] = &body{el: el, mesh: m}
	}
	return view.Bounds{Radius: radius}, nil
}

func (s *System) elapsedDays() float64 {
	return s.clock.Now().Sub(s.epoch).Seconds() * s.cfg.DaysPerSecond
}

// Update moves every planet mesh to its position at the clock's time.
func (s *System) Update() {
	days := s.elapsedDays()
	for _, b := range s.bodies {
		b.mesh.Position = orbit.Position(b.el, b.el.Phase(days), s.cfg.UseInclination)
	}
}

// PositionOf returns the planet's current position in the scene frame.
func (s *System) PositionOf(p *catalog.Planet) (astro.Vec3, bool) {
	b, ok := s.bodies[p]
	if !ok {
		return astro.Vec3{}, false
	}
	return orbit.Position(b.el, b.el.Phase(s.elapsedDays()), s.cfg.UseInclination), true
}

// Cleanup drops the rendered system.
func (s *System) Cleanup() {
	s.reg.Clear()
	clear(s.bodies)
	s.sys = nil
	s.layout = orbit.Layout{}
}

// ShowAll restores the visibility of a fresh render.
func (s *System) ShowAll() { s.reg.showAll() }

// FocusOn hides what competes with e. A planet keeps its stars and itself;
// a star keeps only the stars. Orbit lines are hidden in both cases.
func (s *System) FocusOn(e view.Entity) {
	switch e.Kind {
	case view.KindPlanet:
		s.reg.Each(func(m *Mesh) {
			switch m.Kind {
			case KindPlanet:
				m.Visible = m.Planet == e.Planet
				m.Highlight = m.Visible
			case KindOrbit:
				m.Visible = false
			default:
				m.Visible, m.Highlight = true, false
			}
		})
	case view.KindStar:
		s.reg.Each(func(m *Mesh) {
			m.Visible = m.Kind == KindStar
			m.Highlight = m.Visible
		})
	default:
		s.ShowAll()
	}
}
