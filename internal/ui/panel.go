package ui

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/view"
)

// Item is one row of the results list.
type Item struct {
	Label  string
	Detail string
	System *catalog.StarSystem
	Planet *catalog.Planet
}

// Panel receives the machine's UI notifications. It is written and read on
// the frame goroutine only.
type Panel struct {
	mode        view.Mode
	entity      view.Entity
	systems     []*catalog.StarSystem
	placeholder string
	updates     int
}

// NewPanel returns an empty panel.
func NewPanel() *Panel { return &Panel{} }

// UpdateInfoPanel implements view.Notifier.
func (p *Panel) UpdateInfoPanel(mode view.Mode, e view.Entity) {
	p.mode, p.entity = mode, e
	p.updates++
}

// UpdateResultsList implements view.Notifier.
func (p *Panel) UpdateResultsList(_ view.Mode, systems []*catalog.StarSystem, _ view.Entity) {
	p.systems = append(p.systems[:0], systems...)
}

// SetSearchPlaceholder implements view.Notifier.
func (p *Panel) SetSearchPlaceholder(text string) { p.placeholder = text }

func (p *Panel) Mode() view.Mode     { return p.mode }
func (p *Panel) Entity() view.Entity { return p.entity }
func (p *Panel) Placeholder() string { return p.placeholder }
func (p *Panel) Updates() int        { return p.updates }

// Systems returns a copy of the last results list.
func (p *Panel) Systems() []*catalog.StarSystem {
	out := make([]*catalog.StarSystem, len(p.systems))
	copy(out, p.systems)
	return out
}

// Items lists systems in the galaxy views and the planets of the current
// system otherwise.
func (p *Panel) Items() []Item {
	switch p.mode {
	case view.Galaxy, view.GalacticCenter:
		return systemItems(p.systems)
	default:
		if len(p.systems) == 0 || p.systems[0] == nil {
			return nil
		}
		return planetItems(p.systems[0], "")
	}
}

func systemItems(systems []*catalog.StarSystem) []Item {
	items := make([]Item, 0, len(systems))
	for _, sys := range systems {
		if sys == nil {
			continue
		}
		detail := fmt.Sprintf("%d planets", len(sys.Planets))
		if d := sys.DistanceLY(); d > 0 {
			detail += fmt.Sprintf(" · %.0f ly", d)
		}
		items = append(items, Item{Label: sys.StarName, Detail: detail, System: sys})
	}
	return items
}

// planetItems lists sys's planets whose names contain filter.
func planetItems(sys *catalog.StarSystem, filter string) []Item {
	q := strings.ToLower(strings.TrimSpace(filter))
	items := make([]Item, 0, len(sys.Planets))
	for _, pl := range sys.Planets {
		if q != "" && !strings.Contains(strings.ToLower(pl.Name), q) {
			continue
		}
		detail := "orbit unknown"
		if au, ok := pl.OrbitAU(); ok {
			detail = fmt.Sprintf("%.3f AU", au)
		}
		if pl.Radius > 0 {
			detail += fmt.Sprintf(" · %.2f R⊕", pl.Radius)
		}
		items = append(items, Item{Label: pl.Name, Detail: detail, System: sys, Planet: pl})
	}
	return items
}

// InfoLines describes the current selection.
func (p *Panel) InfoLines() []string {
	sys := p.entity.System
	switch p.mode {
	case view.Galaxy:
		return []string{"Milky Way", fmt.Sprintf("%d notable systems", len(p.systems))}
	case view.GalacticCenter:
		return []string{"Sagittarius A*", "Galactic centre, ~26,700 ly"}
	case view.System:
		if sys == nil {
			return nil
		}
		return systemInfo(sys)
	case view.Star:
		if sys == nil {
			return nil
		}
		lines := []string{sys.StarName}
		if pr := sys.Primary(); pr != nil && pr.SpectralType != "" {
			lines = append(lines, "Spectral type "+pr.SpectralType)
		}
		if t := sys.StellarTemp(); t > 0 {
			lines = append(lines, fmt.Sprintf("Teff %.0f K", t))
		}
		if r := sys.StellarRadius(); r > 0 {
			lines = append(lines, fmt.Sprintf("Radius %.2f R☉", r))
		}
		if n := sys.StarCount(); n > 1 {
			lines = append(lines, fmt.Sprintf("%d stars", n))
		}
		return lines
	case view.Planet:
		pl := p.entity.Planet
		if pl == nil {
			return nil
		}
		lines := []string{pl.Name, "around " + pl.HostStar}
		if au, ok := pl.OrbitAU(); ok {
			lines = append(lines, fmt.Sprintf("Orbit %.3f AU", au))
		}
		if pl.OrbitalPeriod != nil {
			lines = append(lines, fmt.Sprintf("Period %.2f d", *pl.OrbitalPeriod))
		}
		if pl.OrbitalEccentricity > 0 {
			lines = append(lines, fmt.Sprintf("Eccentricity %.3f", pl.OrbitalEccentricity))
		}
		if pl.Radius > 0 {
			lines = append(lines, fmt.Sprintf("Radius %.2f R⊕", pl.Radius))
		}
		if pl.Mass > 0 {
			lines = append(lines, fmt.Sprintf("Mass %.2f M⊕", pl.Mass))
		}
		if pl.Temperature > 0 {
			lines = append(lines, fmt.Sprintf("Teq %.0f K", pl.Temperature))
		}
		return lines
	}
	return nil
}

func systemInfo(sys *catalog.StarSystem) []string {
	lines := []string{sys.StarName, fmt.Sprintf("%d planets", len(sys.Planets))}
	if d := sys.DistanceLY(); d > 0 {
		lines = append(lines, fmt.Sprintf("%.1f ly away", d))
	}
	if n := sys.StarCount(); n > 1 {
		lines = append(lines, fmt.Sprintf("%d stars", n))
	}
	if t := sys.StellarTemp(); t > 0 {
		lines = append(lines, fmt.Sprintf("Teff %.0f K", t))
	}
	return lines
}
