package view

import (
	"fmt"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/orbit"
)

// plan builds the stages and commit for a resolved request. All poses are
// expressed in the current scene frame; the commit rebases into the target
// frame.
func (m *Machine) plan(req TransitionRequest) (*transition, error) {
	from, to := m.mode, req.Target
	illegal := func() (*transition, error) {
		return nil, fmt.Errorf("%s -> %s: %w", from, to, ErrIllegalTransition)
	}

	switch from {
	case Galaxy:
		switch to {
		case System:
			return m.planSystemZoom(req), nil
		case GalacticCenter:
			return m.planGalacticCenter(req), nil
		case Galaxy, Planet, Star:
			return illegal()
		}
	case System:
		switch to {
		case Galaxy:
			return m.planGalaxyReturn(req), nil
		case System:
			return m.planSystemHop(req), nil
		case Planet:
			if req.Entity.System != m.sel.System {
				return illegal()
			}
			return m.planPlanetTrack(req)
		case Star:
			if req.Entity.System != m.sel.System {
				return illegal()
			}
			return m.planStar(req), nil
		case GalacticCenter:
			return illegal()
		}
	case Planet:
		switch to {
		case Galaxy:
			return m.planGalaxyReturn(req), nil
		case System:
			if req.Entity.System != m.sel.System {
				return illegal()
			}
			return m.planSystemReturn(req, m.systemBounds.Radius), nil
		case Planet:
			if req.Entity.System != m.sel.System {
				return illegal()
			}
			return m.planPlanetTrack(req)
		case Star, GalacticCenter:
			return illegal()
		}
	case Star:
		switch to {
		case System:
			if req.Entity.System != m.sel.System {
				return illegal()
			}
			return m.planSystemReturn(req, m.systemBounds.Radius), nil
		case Galaxy, Planet, Star, GalacticCenter:
			return illegal()
		}
	case GalacticCenter:
		switch to {
		case Galaxy:
			return m.planGalaxyReturn(req), nil
		case System, Planet, Star, GalacticCenter:
			return illegal()
		}
	}
	return illegal()
}

func (m *Machine) fov() float64 { return m.cam.State().FOV }

func (m *Machine) moveTo(name string, target astro.Vec3) stage {
	d := m.cfg.MoveDuration
	return stage{name: name, run: func(done func()) *camera.Handle {
		return m.cam.MoveTo(target, d, done)
	}}
}

func (m *Machine) moveBoth(name string, pos, look astro.Vec3) stage {
	d := m.cfg.DualDuration
	return stage{name: name, run: func(done func()) *camera.Handle {
		return m.cam.MoveBoth(pos, look, d, done)
	}}
}

// zoomWaypoints approaches star (current frame) from the camera's side,
// then settles at the framing offset.
func (m *Machine) zoomWaypoints(req TransitionRequest, from, star, offset astro.Vec3) []camera.Waypoint {
	half := m.cfg.ZoomDuration / 2
	approach := approachPoint(from, star, offset.Norm()*m.cfg.ApproachFactor)
	reached := func(i int) func() {
		return func() {
			m.record(EventWaypointReached, req, fmt.Sprintf("waypoint %d", i))
		}
	}
	return []camera.Waypoint{
		{Position: approach, LookAt: star, Duration: half, Ease: camera.EaseInOutCubic, OnReach: reached(1)},
		{Position: star.Add(offset), LookAt: star, Duration: m.cfg.ZoomDuration - half, Ease: camera.EaseOutCubic, OnReach: reached(2)},
	}
}

// renderSystem builds the system scene for sys at origin and caches its
// bounds.
func (m *Machine) renderSystem(mode Mode, e Entity, layout orbit.Layout, origin astro.Vec3) error {
	b, err := m.system.Render(RenderRequest{Mode: mode, Entity: e, Layout: layout, Origin: origin})
	if err != nil {
		return fmt.Errorf("render %s: %w: %v", e.Name(), ErrRendererUnavailable, err)
	}
	m.layout = layout
	m.systemBounds = b
	if !(b.Radius > 0) {
		m.systemBounds.Radius = layout.Extent
	}
	return nil
}

// planSystemZoom: Galaxy -> System, two waypoints.
func (m *Machine) planSystemZoom(req TransitionRequest) *transition {
	sys := req.Entity.System
	layout := m.orbits.Layout(sys)
	star := sys.GalacticPosition().Sub(m.origin)
	offset := SystemOffset(layout.Extent, m.fov())
	wps := m.zoomWaypoints(req, m.cam.State().Position, star, offset)

	return &transition{
		req: req,
		stages: []stage{{name: "zoom", run: func(done func()) *camera.Handle {
			return m.cam.FlyThrough(wps, done)
		}}},
		origin: sys.GalacticPosition(),
		commit: func() error {
			if err := m.renderSystem(System, req.Entity, layout, sys.GalacticPosition()); err != nil {
				return err
			}
			m.galaxy.Cleanup()
			return nil
		},
	}
}

// planSystemHop: System -> System. The same system is a distance-mode
// refresh; another system departs, then flies over in the old frame.
func (m *Machine) planSystemHop(req TransitionRequest) *transition {
	sys := req.Entity.System
	if sys == m.sel.System {
		return m.planRefresh(req)
	}
	layout := m.orbits.Layout(sys)
	target := sys.GalacticPosition().Sub(m.origin)
	offset := SystemOffset(layout.Extent, m.fov())

	st := m.cam.State()
	lift := st.Position.Sub(st.LookAt).Scale(m.cfg.ApproachFactor / 2)
	depart := st.LookAt.Add(lift)
	departLook := st.LookAt.Lerp(target, 0.25)
	dd := m.cfg.DepartDuration

	return &transition{
		req: req,
		stages: []stage{
			{name: "depart", run: func(done func()) *camera.Handle {
				return m.cam.MoveBoth(depart, departLook, dd, done)
			}},
			{name: "fly", run: func(done func()) *camera.Handle {
				wps := m.zoomWaypoints(req, m.cam.State().Position, target, offset)
				return m.cam.FlyThrough(wps, done)
			}},
		},
		origin: sys.GalacticPosition(),
		commit: func() error {
			return m.renderSystem(System, req.Entity, layout, sys.GalacticPosition())
		},
	}
}

// planRefresh re-renders the current system with the engine's current
// distance mode and reframes it.
func (m *Machine) planRefresh(req TransitionRequest) *transition {
	sys := m.sel.System
	layout := m.orbits.Layout(sys)
	return &transition{
		req:    req,
		stages: []stage{m.moveTo("reframe", SystemOffset(layout.Extent, m.fov()))},
		origin: m.origin,
		commit: func() error {
			return m.renderSystem(System, SystemEntity(sys), layout, m.origin)
		},
	}
}

// planGalaxyReturn: System/Planet/GalacticCenter -> Galaxy. The dual target
// is the default galaxy pose expressed in the current frame, so the rebase
// lands exactly on it.
func (m *Machine) planGalaxyReturn(req TransitionRequest) *transition {
	pos := m.cfg.GalaxyPosition.Sub(m.origin)
	look := m.cfg.GalaxyLookAt.Sub(m.origin)
	leaving := m.mode
	return &transition{
		req:    req,
		stages: []stage{m.moveBoth("galaxy", pos, look)},
		origin: astro.Vec3{},
		commit: func() error {
			if leaving == GalacticCenter {
				m.galaxy.ShowAll()
				return nil
			}
			if _, err := m.galaxy.Render(RenderRequest{Mode: Galaxy}); err != nil {
				return fmt.Errorf("render galaxy: %w: %v", ErrRendererUnavailable, err)
			}
			m.system.Cleanup()
			return nil
		},
	}
}

// planGalacticCenter: Galaxy -> GalacticCenter, dual target onto Sgr A*.
func (m *Machine) planGalacticCenter(req TransitionRequest) *transition {
	gc := astro.GalacticCenterPosition().Sub(m.origin)
	return &transition{
		req:    req,
		stages: []stage{m.moveBoth("galactic-center", gc.Add(m.cfg.GalacticCenterOffset), gc)},
		origin: m.origin,
		commit: func() error {
			if _, err := m.galaxy.Render(RenderRequest{Mode: GalacticCenter, Origin: m.origin}); err != nil {
				return fmt.Errorf("render galactic center: %w: %v", ErrRendererUnavailable, err)
			}
			return nil
		},
	}
}

// planPlanetTrack: System/Planet -> Planet, tracking the moving planet.
func (m *Machine) planPlanetTrack(req TransitionRequest) (*transition, error) {
	p := req.Entity.Planet
	target, err := m.planetTarget(p)
	if err != nil {
		return nil, err
	}
	radius := 0.4
	if po, ok := m.layout.Orbit(p.Name); ok {
		radius = po.VisualRadius
	}
	offset := m.cfg.PlanetOffset(radius, m.fov())
	d := m.cfg.TrackDuration

	return &transition{
		req: req,
		stages: []stage{{name: "track", run: func(done func()) *camera.Handle {
			return m.cam.Track(target, offset, d, done)
		}}},
		origin: m.origin,
		commit: func() error {
			m.system.FocusOn(req.Entity)
			return nil
		},
	}, nil
}

// planetTarget returns a live position function, falling back to the
// planet's last known position if the tracker loses it. A planet the
// tracker cannot place at all is refused.
func (m *Machine) planetTarget(p *catalog.Planet) (func() astro.Vec3, error) {
	if m.tracker == nil {
		return nil, fmt.Errorf("track %s: no tracker: %w", p.Name, ErrUnknownEntity)
	}
	last, ok := m.tracker.PositionOf(p)
	if !ok || !last.IsFinite() {
		return nil, fmt.Errorf("track %s: no position: %w", p.Name, ErrUnknownEntity)
	}
	return func() astro.Vec3 {
		if pos, ok := m.tracker.PositionOf(p); ok && pos.IsFinite() {
			last = pos
		}
		return last
	}, nil
}

// planSystemReturn: Planet/Star -> System, single target at the system
// framing for extent.
func (m *Machine) planSystemReturn(req TransitionRequest, extent float64) *transition {
	return &transition{
		req:    req,
		stages: []stage{m.moveTo("system", SystemOffset(extent, m.fov()))},
		origin: m.origin,
		commit: func() error {
			m.system.ShowAll()
			return nil
		},
	}
}

// planStar: System -> Star, dual target onto the host star(s).
func (m *Machine) planStar(req TransitionRequest) *transition {
	return &transition{
		req:    req,
		stages: []stage{m.moveBoth("star", StarOffset(m.layout, m.fov()), astro.Vec3{})},
		origin: m.origin,
		commit: func() error {
			m.system.FocusOn(req.Entity)
			return nil
		},
	}
}
