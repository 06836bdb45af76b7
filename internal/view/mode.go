// Package view implements the navigation state machine: five mutually
// exclusive view modes, the legal transitions between them, and the camera
// choreography that carries each transition.
package view

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// Mode is the active view.
type Mode int

const (
	Galaxy Mode = iota
	System
	Planet
	Star
	GalacticCenter
)

// Modes lists every mode in declaration order.
var Modes = []Mode{Galaxy, System, Planet, Star, GalacticCenter}

func (m Mode) String() string {
	switch m {
	case Galaxy:
		return "galaxy"
	case System:
		return "system"
	case Planet:
		return "planet"
	case Star:
		return "star"
	case GalacticCenter:
		return "galactic-center"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as returned by String.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes {
		if m.String() == key {
			return m, nil
		}
	}
	if key == "galacticcenter" || key == "center" {
		return GalacticCenter, nil
	}
	return Galaxy, fmt.Errorf("unknown view mode %q", s)
}

// inSystem reports whether the mode renders a single system around its host.
func (m Mode) inSystem() bool {
	return m == System || m == Planet || m == Star
}

// EntityKind tags what an Entity selects.
type EntityKind int

const (
	KindNone EntityKind = iota
	KindSystem
	KindPlanet
	KindStar
)

func (k EntityKind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindPlanet:
		return "planet"
	case KindStar:
		return "star"
	default:
		return "none"
	}
}

// Entity is the current selection. Planet is set only for KindPlanet and
// always belongs to System.
type Entity struct {
	Kind   EntityKind
	System *catalog.StarSystem
	Planet *catalog.Planet
}

// SystemEntity selects a whole system.
func SystemEntity(sys *catalog.StarSystem) Entity {
	return Entity{Kind: KindSystem, System: sys}
}

// PlanetEntity selects one planet of sys.
func PlanetEntity(sys *catalog.StarSystem, p *catalog.Planet) Entity {
	return Entity{Kind: KindPlanet, System: sys, Planet: p}
}

// StarEntity selects the host star of sys.
func StarEntity(sys *catalog.StarSystem) Entity {
	return Entity{Kind: KindStar, System: sys}
}

// Name returns a display name for the selection.
func (e Entity) Name() string {
	switch {
	case e.Kind == KindPlanet && e.Planet != nil:
		return e.Planet.Name
	case e.System != nil:
		return e.System.StarName
	default:
		return ""
	}
}

// Same reports whether two selections refer to the same system and planet.
func (e Entity) Same(o Entity) bool {
	return e.System == o.System && e.Planet == o.Planet
}

// Source identifies who asked for a transition.
type Source int

const (
	SourceUser Source = iota
	SourceAuto
	SourceProgrammatic
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceAuto:
		return "auto"
	case SourceProgrammatic:
		return "programmatic"
	default:
		return "unknown"
	}
}

// TransitionRequest asks the machine to move to Target.
type TransitionRequest struct {
	Target Mode
	Entity Entity
	Origin Mode
	Source Source
}

func (r TransitionRequest) String() string {
	if name := r.Entity.Name(); name != "" {
		return fmt.Sprintf("%s->%s(%s) [%s]", r.Origin, r.Target, name, r.Source)
	}
	return fmt.Sprintf("%s->%s [%s]", r.Origin, r.Target, r.Source)
}
