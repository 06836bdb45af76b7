package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/view"
)

// ErrNoCatalog is returned when a galaxy scene is rendered without systems.
var ErrNoCatalog = errors.New("no catalog loaded")

// SystemLister is the part of the catalog the galaxy scene draws.
type SystemLister interface {
	Systems() []*catalog.StarSystem
}

// Galaxy renders every catalog system as a marker, plus orientation
// landmarks and the galactic centre.
type Galaxy struct {
	cat  SystemLister
	reg  *Registry
	mode view.Mode
}

// NewGalaxy creates a galaxy scene over cat. A nil catalog leaves the scene
// not ready.
func NewGalaxy(cat SystemLister) *Galaxy {
	return &Galaxy{cat: cat, reg: NewRegistry()}
}

// Ready reports whether a catalog is attached.
func (g *Galaxy) Ready() bool { return g.cat != nil }

// Mode returns the mode the scene was last rendered for.
func (g *Galaxy) Mode() view.Mode { return g.mode }

// Meshes returns the visible meshes.
func (g *Galaxy) Meshes() []Mesh { return g.reg.Visible() }

// Registry exposes the mesh registry.
func (g *Galaxy) Registry() *Registry { return g.reg }

// Render rebuilds the scene around req.Origin.
func (g *Galaxy) Render(req view.RenderRequest) (view.Bounds, error) {
	if g.cat == nil {
		return view.Bounds{}, ErrNoCatalog
	}
	g.reg.Clear()
	g.mode = req.Mode
	var radius float64
	add := func(m *Mesh) {
		m.Visible = true
		radius = math.Max(radius, m.Position.Norm()+m.Radius)
		g.reg.Add(m)
	}

	for _, sys := range g.cat.Systems() {
		add(&Mesh{
			ID:       "system/" + sys.StarName,
			Kind:     KindMarker,
			Label:    sys.StarName,
			Position: sys.GalacticPosition().Sub(req.Origin),
			Radius:   markerRadius(len(sys.Planets)),
			System:   sys,
		})
	}
	for _, l := range astro.Landmarks() {
		add(&Mesh{
			ID:       "landmark/" + l.Name,
			Kind:     KindLandmark,
			Label:    l.Name,
			Position: l.Position().Sub(req.Origin),
			Radius:   0.5,
		})
	}
	add(&Mesh{
		ID:        "core",
		Kind:      KindCore,
		Label:     "Sgr A*",
		Position:  astro.GalacticCenterPosition().Sub(req.Origin),
		Radius:    6,
		Highlight: req.Mode == view.GalacticCenter,
	})
	return view.Bounds{Radius: radius}, nil
}

// markerRadius grows slowly with the number of planets.
func markerRadius(planets int) float64 {
	return 0.8 + 0.3*math.Sqrt(float64(planets))
}

// Cleanup drops every mesh.
func (g *Galaxy) Cleanup() { g.reg.Clear() }

// ShowAll makes every mesh visible.
func (g *Galaxy) ShowAll() { g.reg.showAll() }

// FocusOn highlights the marker of e's system.
func (g *Galaxy) FocusOn(e view.Entity) {
	if e.System == nil {
		return
	}
	id := "system/" + e.System.StarName
	g.reg.Each(func(m *Mesh) { m.Highlight = m.ID == id })
}

func (g *Galaxy) String() string {
	return fmt.Sprintf("galaxy scene (%s, %d meshes)", g.mode, g.reg.Len())
}
