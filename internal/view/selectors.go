package view

import (
	"fmt"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// SelectSystem views sys.
func (m *Machine) SelectSystem(sys *catalog.StarSystem, src Source) error {
	if sys == nil {
		return m.reject(TransitionRequest{Target: System, Origin: m.mode, Source: src},
			fmt.Errorf("select system: %w", ErrNoSelection))
	}
	return m.Request(TransitionRequest{Target: System, Entity: SystemEntity(sys), Source: src})
}

// SelectPlanet focuses p. It is only legal from the System or Planet view
// of p's host; from the galaxy use SelectPlanetVia.
func (m *Machine) SelectPlanet(p *catalog.Planet, src Source) error {
	if p == nil {
		return m.reject(TransitionRequest{Target: Planet, Origin: m.mode, Source: src},
			fmt.Errorf("select planet: %w", ErrNoSelection))
	}
	return m.Request(TransitionRequest{Target: Planet, Entity: Entity{Kind: KindPlanet, Planet: p}, Source: src})
}

// SelectPlanetVia focuses p, passing through its host system view first when
// the camera is not already in that system.
func (m *Machine) SelectPlanetVia(p *catalog.Planet, src Source) error {
	if p == nil {
		return m.SelectPlanet(nil, src)
	}
	if m.mode.inSystem() && m.sel.System != nil && m.sel.System.StarName == p.HostStar {
		if m.mode == Star {
			return m.selectThen(TransitionRequest{Target: System, Entity: SystemEntity(m.sel.System), Source: src}, p)
		}
		return m.SelectPlanet(p, src)
	}
	sys, ok := m.cat.SystemForStar(p.HostStar)
	if !ok {
		return m.reject(TransitionRequest{Target: Planet, Origin: m.mode, Source: src},
			fmt.Errorf("planet %s host %q: %w", p.Name, p.HostStar, ErrUnknownEntity))
	}
	return m.selectThen(TransitionRequest{Target: System, Entity: SystemEntity(sys), Source: src}, p)
}

// selectThen issues req and queues a planet focus to start the moment it
// commits.
func (m *Machine) selectThen(req TransitionRequest, p *catalog.Planet) error {
	if err := m.Request(req); err != nil {
		return err
	}
	if m.pending == nil {
		// Already there.
		return m.SelectPlanet(p, req.Source)
	}
	m.pending.followUp = &TransitionRequest{
		Target: Planet,
		Entity: PlanetEntity(req.Entity.System, p),
		Source: req.Source,
	}
	return nil
}

// SelectStar views the host star of the current system.
func (m *Machine) SelectStar(src Source) error {
	return m.Request(TransitionRequest{Target: Star, Entity: StarEntity(m.sel.System), Source: src})
}

// ShowGalaxy returns to the galaxy view.
func (m *Machine) ShowGalaxy(src Source) error {
	return m.Request(TransitionRequest{Target: Galaxy, Source: src})
}

// ShowGalacticCenter views the galactic centre.
func (m *Machine) ShowGalacticCenter(src Source) error {
	return m.Request(TransitionRequest{Target: GalacticCenter, Source: src})
}

// Back goes one level up: Planet and Star to System, System and
// GalacticCenter to Galaxy. In Galaxy it does nothing unless a transition
// is in flight, which is rejected like any other request.
func (m *Machine) Back(src Source) error {
	if m.Transitioning() {
		return m.reject(TransitionRequest{Origin: m.mode, Target: m.mode, Source: src}, ErrTransitionInFlight)
	}
	switch m.mode {
	case Planet, Star:
		return m.Request(TransitionRequest{Target: System, Entity: SystemEntity(m.sel.System), Source: src})
	case System, GalacticCenter:
		return m.ShowGalaxy(src)
	default:
		return nil
	}
}

// SelectRandomSystem views a random catalog system.
func (m *Machine) SelectRandomSystem() error {
	sys := m.cat.RandomSystem()
	if sys == nil {
		return m.reject(TransitionRequest{Target: System, Origin: m.mode, Source: SourceProgrammatic},
			fmt.Errorf("random system: %w", ErrNoSelection))
	}
	if m.mode == Planet || m.mode == Star {
		if sys == m.sel.System {
			return m.Back(SourceProgrammatic)
		}
		return m.reject(TransitionRequest{Target: System, Entity: SystemEntity(sys), Origin: m.mode, Source: SourceProgrammatic},
			fmt.Errorf("%s -> other system: %w", m.mode, ErrIllegalTransition))
	}
	return m.SelectSystem(sys, SourceProgrammatic)
}

// SelectRandomPlanet focuses a random catalog planet, through its host
// system when needed.
func (m *Machine) SelectRandomPlanet() error {
	p := m.cat.RandomPlanet()
	if p == nil {
		return m.reject(TransitionRequest{Target: Planet, Origin: m.mode, Source: SourceProgrammatic},
			fmt.Errorf("random planet: %w", ErrNoSelection))
	}
	return m.SelectPlanetVia(p, SourceProgrammatic)
}
