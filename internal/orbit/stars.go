package orbit

import (
	"math"

	"github.com/litescript/ls-exoplanets/internal/astro"
)

// ExtentFactor returns the visual extent of a star, in star radii, for its
// effective temperature. Hotter stars render larger coronae. Unknown
// temperatures use the coolest band.
func ExtentFactor(tempK float64) float64 {
	switch {
	case tempK >= 10000:
		return 2.5
	case tempK >= 7500:
		return 2.0
	case tempK >= 6000:
		return 1.6
	default:
		return 1.3
	}
}

// StarPattern places n stars in the orbital plane around the origin with
// adjacent stars separation apart: two opposite points for a binary, an
// equilateral triangle for a triple, a regular polygon beyond that.
// A single star sits at the origin.
func StarPattern(n int, separation float64) []astro.Vec3 {
	if n < 2 {
		return []astro.Vec3{{}}
	}
	r := circumradius(n, separation)
	// Triangles point "up" in the plane; even counts start on +X.
	start := 0.0
	if n%2 == 1 {
		start = math.Pi / 2
	}
	out := make([]astro.Vec3, n)
	for i := range out {
		a := start + 2*math.Pi*float64(i)/float64(n)
		out[i] = astro.Vec3{X: r * math.Cos(a), Z: r * math.Sin(a)}
	}
	return out
}

// circumradius of a regular n-gon with side s. For n=2 this is s/2, for
// n=3 it is s/sqrt(3).
func circumradius(n int, s float64) float64 {
	if n < 2 {
		return 0
	}
	return s / (2 * math.Sin(math.Pi/float64(n)))
}

// Clearance returns the minimum orbit radius that keeps planets outside the
// rendered extent of every star in the system.
func (e *Engine) Clearance(stars int, starRadius, tempK float64) float64 {
	sep := 0.0
	if stars >= 2 {
		adjacent := starRadius * e.cfg.StarSeparation
		sep = math.Max(adjacent, circumradius(stars, adjacent))
	}
	return e.cfg.ClearanceFactor * (sep + starRadius*ExtentFactor(tempK))
}
