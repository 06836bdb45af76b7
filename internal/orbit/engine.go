// Package orbit computes rendered orbit radii, visual sizes and scale factors
// for a star system in either compressed or realistic distance mode.
package orbit

import (
	"math"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// DistanceMode selects how orbital distances map to scene units.
type DistanceMode int

const (
	// Compressed normalizes every system into a bounded viewable range.
	Compressed DistanceMode = iota
	// Realistic keeps true relative spacing at a fixed AU-to-unit multiplier.
	Realistic
)

// String returns the mode name.
func (m DistanceMode) String() string {
	switch m {
	case Compressed:
		return "compressed"
	case Realistic:
		return "realistic"
	default:
		return "unknown"
	}
}

// Source records which fallback produced a planet's orbital distance.
type Source int

const (
	SourceSemiMajorAxis Source = iota
	SourcePeriod
	SourceIndex
)

// Config holds the layout constants.
type Config struct {
	CompressedMaxRadius float64 // outermost orbit in compressed mode
	MinSpacing          float64 // minimum gap between adjacent compressed orbits
	StarGap             float64 // gap between star surface and first compressed orbit
	FallbackSpacingAU   float64 // per-index spacing for planets without orbital data
	DefaultExtentAU     float64 // extent used when no planet has orbital data
	RealisticAUScale    float64 // scene units per AU in realistic mode
	StarBoost           float64 // log boost applied to realistic star radius
	BaseStarRadius      float64 // compressed radius of a 1 solar-radius star
	StarSeparation      float64 // adjacent star spacing, in star radii
	ClearanceFactor     float64 // multi-star clearance multiplier
	DefaultOrbitRadius  float64 // replaces any non-finite radius
}

// DefaultConfig returns the layout constants used by the viewer.
func DefaultConfig() Config {
	return Config{
		CompressedMaxRadius: 18,
		MinSpacing:          2,
		StarGap:             1.5,
		FallbackSpacingAU:   0.5,
		DefaultExtentAU:     10,
		RealisticAUScale:    20,
		StarBoost:           4,
		BaseStarRadius:      1.5,
		StarSeparation:      2.5,
		ClearanceFactor:     1.5,
		DefaultOrbitRadius:  30,
	}
}

const (
	solarRadiusAU       = 0.00465047
	minPlanetRadius     = 0.2
	maxPlanetRadius     = 1.2
	defaultPlanetRadius = 0.4
	minRealisticPlanet  = 0.02
)

// PlanetOrbit is the computed layout of one planet.
type PlanetOrbit struct {
	Planet       *catalog.Planet
	AU           float64
	Source       Source
	OrbitRadius  float64
	VisualRadius float64
}

// Layout is the computed geometry of one system.
type Layout struct {
	StarName      string
	Mode          DistanceMode
	Planets       []PlanetOrbit // ascending orbit radius
	ScaleFactor   float64
	StarRadius    float64
	StarTemp      float64
	StarPositions []astro.Vec3
	Clearance     float64
	Extent        float64 // outermost orbit plus its planet radius
}

// Orbit returns the layout entry for the named planet.
func (l Layout) Orbit(name string) (PlanetOrbit, bool) {
	for _, po := range l.Planets {
		if po.Planet != nil && po.Planet.Name == name {
			return po, true
		}
	}
	return PlanetOrbit{}, false
}

// MaxOrbitRadius returns the outermost orbit radius, or 0 with no planets.
func (l Layout) MaxOrbitRadius() float64 {
	if len(l.Planets) == 0 {
		return 0
	}
	return l.Planets[len(l.Planets)-1].OrbitRadius
}

// Engine computes layouts. It is not safe for concurrent mode changes.
type Engine struct {
	cfg  Config
	mode DistanceMode
}

// NewEngine creates an engine in compressed mode.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.CompressedMaxRadius <= 0 {
		cfg.CompressedMaxRadius = def.CompressedMaxRadius
	}
	if cfg.DefaultExtentAU <= 0 {
		cfg.DefaultExtentAU = def.DefaultExtentAU
	}
	if cfg.RealisticAUScale <= 0 {
		cfg.RealisticAUScale = def.RealisticAUScale
	}
	if cfg.BaseStarRadius <= 0 {
		cfg.BaseStarRadius = def.BaseStarRadius
	}
	if cfg.DefaultOrbitRadius <= 0 {
		cfg.DefaultOrbitRadius = def.DefaultOrbitRadius
	}
	if cfg.ClearanceFactor <= 0 {
		cfg.ClearanceFactor = def.ClearanceFactor
	}
	return &Engine{cfg: cfg, mode: Compressed}
}

// Config returns the engine constants.
func (e *Engine) Config() Config { return e.cfg }

// Mode returns the active distance mode.
func (e *Engine) Mode() DistanceMode { return e.mode }

// SetMode switches the distance mode.
func (e *Engine) SetMode(m DistanceMode) { e.mode = m }

// Layout computes the geometry of a system in the engine's current mode.
func (e *Engine) Layout(sys *catalog.StarSystem) Layout {
	return e.LayoutFor(sys, e.mode)
}

// LayoutFor computes the geometry of a system in an explicit mode.
func (e *Engine) LayoutFor(sys *catalog.StarSystem, mode DistanceMode) Layout {
	l := Layout{Mode: mode}
	if sys == nil {
		l.StarRadius = e.cfg.BaseStarRadius
		l.ScaleFactor = e.cfg.CompressedMaxRadius / e.cfg.DefaultExtentAU
		return l
	}
	l.StarName = sys.StarName
	l.StarTemp = sys.StellarTemp()

	orbits := e.orbitDistances(sys.Planets)

	l.ScaleFactor = e.scaleFactor(orbits, mode)
	l.StarRadius = e.starRadius(sys.StellarRadius(), mode)

	n := sys.StarCount()
	l.StarPositions = StarPattern(n, l.StarRadius*e.cfg.StarSeparation)
	l.Clearance = e.Clearance(n, l.StarRadius, l.StarTemp)

	inner := l.Clearance
	if n < 2 {
		switch mode {
		case Realistic:
			inner = l.StarRadius * 1.1
		default:
			inner = math.Max(l.Clearance, l.StarRadius+e.cfg.StarGap)
		}
	}

	sizeScale := 1.0
	if mode == Realistic {
		sizeScale = e.realisticSizeScale(orbits, l.ScaleFactor)
	}
	for i := range orbits {
		orbits[i].OrbitRadius = orbits[i].AU * l.ScaleFactor
		orbits[i].VisualRadius = planetRadius(orbits[i].Planet.Radius) * sizeScale
		if mode == Realistic && orbits[i].VisualRadius < minRealisticPlanet {
			orbits[i].VisualRadius = minRealisticPlanet
		}
	}

	switch mode {
	case Realistic:
		e.clampRealistic(orbits, inner)
	default:
		e.clampCompressed(orbits, inner)
	}

	for i := range orbits {
		if !finitePositive(orbits[i].OrbitRadius) {
			orbits[i].OrbitRadius = e.cfg.DefaultOrbitRadius
		}
	}
	l.Planets = orbits
	if len(orbits) > 0 {
		last := orbits[len(orbits)-1]
		l.Extent = last.OrbitRadius + last.VisualRadius
	} else {
		l.Extent = l.Clearance + l.StarRadius
	}
	return l
}

// orbitDistances resolves each planet's AU through the fallback chain and
// returns the planets in ascending AU order.
func (e *Engine) orbitDistances(planets []*catalog.Planet) []PlanetOrbit {
	out := make([]PlanetOrbit, 0, len(planets))
	maxKnown := 0.0
	for _, p := range planets {
		if au, ok := p.OrbitAU(); ok && au > maxKnown {
			maxKnown = au
		}
	}

	unknown := 0
	for _, p := range planets {
		po := PlanetOrbit{Planet: p}
		switch {
		case p.SemiMajorAxis != nil && finitePositive(*p.SemiMajorAxis):
			po.AU, po.Source = *p.SemiMajorAxis, SourceSemiMajorAxis
		case p.OrbitalPeriod != nil && finitePositive(*p.OrbitalPeriod):
			po.AU, po.Source = catalog.KeplerAU(*p.OrbitalPeriod), SourcePeriod
		default:
			unknown++
			po.AU, po.Source = maxKnown+e.cfg.FallbackSpacingAU*float64(unknown), SourceIndex
		}
		out = append(out, po)
	}

	// Insertion sort keeps equal distances in catalog order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].AU < out[j-1].AU; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (e *Engine) scaleFactor(orbits []PlanetOrbit, mode DistanceMode) float64 {
	if mode == Realistic {
		return e.cfg.RealisticAUScale
	}
	maxAU := 0.0
	for _, po := range orbits {
		if po.Source != SourceIndex && po.AU > maxAU {
			maxAU = po.AU
		}
	}
	if !finitePositive(maxAU) {
		maxAU = e.cfg.DefaultExtentAU
	}
	return e.cfg.CompressedMaxRadius / maxAU
}

func (e *Engine) starRadius(solarRadii float64, mode DistanceMode) float64 {
	if !finitePositive(solarRadii) {
		solarRadii = 1
	}
	if mode == Realistic {
		t := solarRadii * solarRadiusAU * e.cfg.RealisticAUScale
		return t * (1 + e.cfg.StarBoost*math.Log10(1+e.cfg.RealisticAUScale/t))
	}
	return clamp(e.cfg.BaseStarRadius*math.Sqrt(solarRadii), 0.8, 4)
}

// realisticSizeScale shrinks planets in systems that are small at true scale
// so neighbouring planets do not overlap.
func (e *Engine) realisticSizeScale(orbits []PlanetOrbit, scale float64) float64 {
	maxAU := 0.0
	for _, po := range orbits {
		maxAU = math.Max(maxAU, po.AU)
	}
	return clamp(maxAU*scale/e.cfg.CompressedMaxRadius, 0, 1)
}

func (e *Engine) clampCompressed(orbits []PlanetOrbit, inner float64) {
	n := len(orbits)
	if n == 0 {
		return
	}
	limit := e.cfg.CompressedMaxRadius

	if inner >= limit {
		// Clearance outranks the target size.
		step := e.cfg.MinSpacing / 2
		for i := range orbits {
			orbits[i].OrbitRadius = inner + step*float64(i)
		}
		return
	}

	spacing := e.cfg.MinSpacing
	if n > 1 && inner+spacing*float64(n-1) > limit {
		spacing = (limit - inner) / float64(n-1)
	}

	orbits[0].OrbitRadius = math.Max(orbits[0].OrbitRadius, inner)
	for i := 1; i < n; i++ {
		orbits[i].OrbitRadius = math.Max(orbits[i].OrbitRadius, orbits[i-1].OrbitRadius+spacing)
	}

	last := orbits[n-1].OrbitRadius
	if last <= limit {
		return
	}
	k := (limit - inner) / (last - inner)
	for i := range orbits {
		orbits[i].OrbitRadius = inner + (orbits[i].OrbitRadius-inner)*k
	}
	// The remap shrinks every gap. Restore the spacing floor going out, then
	// pull back under the limit going in; spacing was chosen so both fit.
	for i := 1; i < n; i++ {
		orbits[i].OrbitRadius = math.Max(orbits[i].OrbitRadius, orbits[i-1].OrbitRadius+spacing)
	}
	orbits[n-1].OrbitRadius = math.Min(orbits[n-1].OrbitRadius, limit)
	for i := n - 2; i >= 0; i-- {
		orbits[i].OrbitRadius = math.Min(orbits[i].OrbitRadius, orbits[i+1].OrbitRadius-spacing)
	}
}

func (e *Engine) clampRealistic(orbits []PlanetOrbit, inner float64) {
	floor := inner
	for i := range orbits {
		if orbits[i].OrbitRadius < floor {
			orbits[i].OrbitRadius = floor
		}
		floor = orbits[i].OrbitRadius
	}
}

// planetRadius maps a radius in Earth radii to a compressed visual radius.
func planetRadius(earthRadii float64) float64 {
	if !finitePositive(earthRadii) {
		return defaultPlanetRadius
	}
	return clamp(0.25*math.Sqrt(earthRadii), minPlanetRadius, maxPlanetRadius)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finitePositive(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}
