package feed

import (
	"fmt"

	"github.com/litescript/ls-exoplanets/internal/orbit"
	"github.com/litescript/ls-exoplanets/internal/view"
)

// Command is a navigation request from a remote client.
type Command struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"` // star or planet name
}

var actions = map[string]bool{
	"galaxy": true, "center": true, "back": true, "star": true,
	"system": true, "planet": true, "random-system": true, "random-planet": true,
	"compressed": true, "realistic": true,
}

// Valid reports whether the action is known and has the target it needs.
func (c Command) Valid() bool {
	if !actions[c.Action] {
		return false
	}
	if c.Action == "system" || c.Action == "planet" {
		return c.Target != ""
	}
	return true
}

func (c Command) String() string {
	if c.Target != "" {
		return c.Action + " " + c.Target
	}
	return c.Action
}

// Apply runs c against the machine. It must be called on the frame
// goroutine. Requests are programmatic and go through the same checks as
// user input.
func Apply(m *view.Machine, cat view.Catalog, c Command) error {
	src := view.SourceProgrammatic
	switch c.Action {
	case "galaxy":
		return m.ShowGalaxy(src)
	case "center":
		return m.ShowGalacticCenter(src)
	case "back":
		return m.Back(src)
	case "star":
		return m.SelectStar(src)
	case "system":
		sys, ok := cat.SystemForStar(c.Target)
		if !ok {
			return fmt.Errorf("system %q: %w", c.Target, view.ErrUnknownEntity)
		}
		return m.SelectSystem(sys, src)
	case "planet":
		for _, sys := range cat.Systems() {
			if p := sys.Planet(c.Target); p != nil {
				return m.SelectPlanetVia(p, src)
			}
		}
		return fmt.Errorf("planet %q: %w", c.Target, view.ErrUnknownEntity)
	case "random-system":
		return m.SelectRandomSystem()
	case "random-planet":
		return m.SelectRandomPlanet()
	case "compressed":
		return m.SetDistanceMode(orbit.Compressed)
	case "realistic":
		return m.SetDistanceMode(orbit.Realistic)
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
}
