package orbit

import (
	"math"

	"github.com/litescript/ls-exoplanets/internal/astro"
)

// MaxRenderEccentricity caps eccentricity so extreme orbits stay drawable.
const MaxRenderEccentricity = 0.9

// Elements describes a rendered orbit.
type Elements struct {
	Radius         float64 // semi-major axis in scene units
	Eccentricity   float64
	InclinationDeg float64 // catalog inclination, relative to the sky plane
	PeriastronDeg  float64
	PeriodDays     float64
}

// ElementsFor builds rendering elements from a computed planet orbit.
func ElementsFor(po PlanetOrbit) Elements {
	el := Elements{Radius: po.OrbitRadius, InclinationDeg: 90}
	p := po.Planet
	if p == nil {
		el.PeriodDays = 365.25 * math.Pow(math.Max(po.AU, 0), 1.5)
		return el
	}
	el.Eccentricity = p.OrbitalEccentricity
	if p.OrbitalInclination != nil {
		el.InclinationDeg = *p.OrbitalInclination
	}
	if p.LongitudeOfPeriastron != nil {
		el.PeriastronDeg = *p.LongitudeOfPeriastron
	}
	if p.OrbitalPeriod != nil && finitePositive(*p.OrbitalPeriod) {
		el.PeriodDays = *p.OrbitalPeriod
	} else {
		el.PeriodDays = 365.25 * math.Pow(math.Max(po.AU, 0), 1.5)
	}
	return el
}

// Phase returns the orbital angle in radians after elapsedDays, or 0 for a
// planet without a usable period.
func (el Elements) Phase(elapsedDays float64) float64 {
	if !finitePositive(el.PeriodDays) {
		return 0
	}
	return math.Mod(2*math.Pi*elapsedDays/el.PeriodDays, 2*math.Pi)
}

// Position returns the planet's position on its ellipse at the given true
// anomaly, with the star at a focus. With useInclination the orbit plane is
// tilted by the catalog inclination, so a transiting planet (i≈90°) stays in
// the reference plane.
func Position(el Elements, phase float64, useInclination bool) astro.Vec3 {
	e := clamp(el.Eccentricity, 0, MaxRenderEccentricity)
	if math.IsNaN(e) {
		e = 0
	}
	a := el.Radius
	if !finitePositive(a) {
		return astro.Vec3{}
	}

	r := a * (1 - e*e) / (1 + e*math.Cos(phase))
	theta := phase + el.PeriastronDeg*math.Pi/180

	x := r * math.Cos(theta)
	inPlane := r * math.Sin(theta)
	if !useInclination {
		return astro.Vec3{X: x, Z: inPlane}
	}
	tilt := (90 - el.InclinationDeg) * math.Pi / 180
	return astro.Vec3{
		X: x,
		Y: inPlane * math.Sin(tilt),
		Z: inPlane * math.Cos(tilt),
	}
}

// Path samples n points around the full orbit for drawing orbit lines.
func Path(el Elements, n int, useInclination bool) []astro.Vec3 {
	if n < 3 {
		n = 3
	}
	out := make([]astro.Vec3, n)
	for i := range out {
		out[i] = Position(el, 2*math.Pi*float64(i)/float64(n), useInclination)
	}
	return out
}
