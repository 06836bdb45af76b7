// Package scene holds the renderer collaborators: a galaxy scene of catalog
// systems and a system scene of stars, planets and orbit lines. Scenes keep
// a registry of meshes with visibility flags; drawing them is the front
// end's job.
package scene

import (
	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// MeshKind tags what a mesh draws.
type MeshKind int

const (
	KindMarker   MeshKind = iota // a catalog system in the galaxy
	KindLandmark                 // an orientation star in the galaxy
	KindCore                     // the galactic centre
	KindStar
	KindPlanet
	KindOrbit
)

func (k MeshKind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindLandmark:
		return "landmark"
	case KindCore:
		return "core"
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindOrbit:
		return "orbit"
	default:
		return "unknown"
	}
}

// Mesh is one drawable object in scene-local coordinates.
type Mesh struct {
	ID        string
	Kind      MeshKind
	Label     string
	Position  astro.Vec3
	Radius    float64
	Path      []astro.Vec3 // orbit lines only
	Temp      float64      // stars only, K
	Visible   bool
	Highlight bool

	System *catalog.StarSystem
	Planet *catalog.Planet
}

// Registry keeps meshes by ID in insertion order.
type Registry struct {
	order []string
	byID  map[string]*Mesh
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Mesh)}
}

// Add stores m, replacing any mesh with the same ID in place.
func (r *Registry) Add(m *Mesh) {
	if _, ok := r.byID[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.byID[m.ID] = m
}

// Get returns the mesh with the given ID.
func (r *Registry) Get(id string) (*Mesh, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Len returns the number of meshes.
func (r *Registry) Len() int { return len(r.order) }

// Clear removes every mesh.
func (r *Registry) Clear() {
	r.order = r.order[:0]
	clear(r.byID)
}

// Each calls fn for every mesh in insertion order.
func (r *Registry) Each(fn func(*Mesh)) {
	for _, id := range r.order {
		fn(r.byID[id])
	}
}

// Visible returns copies of the visible meshes in insertion order.
func (r *Registry) Visible() []Mesh {
	var out []Mesh
	r.Each(func(m *Mesh) {
		if m.Visible {
			out = append(out, *m)
		}
	})
	return out
}

// VisibleIDs returns the IDs of visible meshes in insertion order.
func (r *Registry) VisibleIDs() []string {
	var out []string
	r.Each(func(m *Mesh) {
		if m.Visible {
			out = append(out, m.ID)
		}
	})
	return out
}

// showAll makes every mesh visible and drops highlights.
func (r *Registry) showAll() {
	r.Each(func(m *Mesh) {
		m.Visible = true
		m.Highlight = false
	})
}
