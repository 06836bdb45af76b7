package view

import (
	"math"
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/orbit"
)

const (
	// DefaultFramingDistance replaces any non-finite or non-positive fit.
	DefaultFramingDistance = 30
	// FramingPadding leaves a margin around the fitted extent.
	FramingPadding = 1.2
)

var (
	systemViewDir = astro.Vec3{Y: 0.5, Z: 1}.Normalized()
	planetViewDir = astro.Vec3{X: 0.3, Y: 0.4, Z: 1}.Normalized()
	starViewDir   = astro.Vec3{Y: 0.25, Z: 1}.Normalized()
)

// Config holds poses and durations for every transition.
type Config struct {
	GalaxyPosition       astro.Vec3 // default galaxy pose
	GalaxyLookAt         astro.Vec3
	GalacticCenterOffset astro.Vec3 // camera offset from Sgr A*

	ZoomDuration     time.Duration // galaxy to system, split over two waypoints
	DepartDuration   time.Duration // first stage of a system-to-system hop
	MoveDuration     time.Duration // single-target moves
	DualDuration     time.Duration // dual-target moves
	TrackDuration    time.Duration // planet tracking
	SettleDelay      time.Duration // wait before follow mode engages
	ApproachFactor   float64       // first waypoint distance, in framing distances
	PlanetFrameScale float64       // planet framing extent, in planet radii
}

// DefaultConfig returns the poses and durations used by the viewer.
func DefaultConfig() Config {
	return Config{
		GalaxyPosition:       astro.Vec3{Y: 350, Z: 450},
		GalacticCenterOffset: astro.Vec3{Y: 60, Z: 90},
		ZoomDuration:         2400 * time.Millisecond,
		DepartDuration:       900 * time.Millisecond,
		MoveDuration:         1500 * time.Millisecond,
		DualDuration:         2000 * time.Millisecond,
		TrackDuration:        1500 * time.Millisecond,
		SettleDelay:          400 * time.Millisecond,
		ApproachFactor:       4,
		PlanetFrameScale:     4,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.GalaxyPosition.DistanceTo(c.GalaxyLookAt) == 0 {
		c.GalaxyPosition, c.GalaxyLookAt = def.GalaxyPosition, def.GalaxyLookAt
	}
	if c.GalacticCenterOffset.Norm() == 0 {
		c.GalacticCenterOffset = def.GalacticCenterOffset
	}
	durations := []struct {
		v   *time.Duration
		def time.Duration
	}{
		{&c.ZoomDuration, def.ZoomDuration},
		{&c.DepartDuration, def.DepartDuration},
		{&c.MoveDuration, def.MoveDuration},
		{&c.DualDuration, def.DualDuration},
		{&c.TrackDuration, def.TrackDuration},
		{&c.SettleDelay, def.SettleDelay},
	}
	for _, d := range durations {
		if *d.v <= 0 {
			*d.v = d.def
		}
	}
	if c.ApproachFactor <= 1 {
		c.ApproachFactor = def.ApproachFactor
	}
	if c.PlanetFrameScale <= 0 {
		c.PlanetFrameScale = def.PlanetFrameScale
	}
	return c
}

// FitDistance returns the camera distance that fits a sphere of radius
// extent in a vertical field of view of fovDeg degrees, with padding.
func FitDistance(extent, fovDeg float64) float64 {
	half := fovDeg * math.Pi / 360
	d := extent / math.Sin(half) * FramingPadding
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return DefaultFramingDistance
	}
	return d
}

// SystemOffset is the camera position that frames a system of the given
// extent around the local origin.
func SystemOffset(extent, fovDeg float64) astro.Vec3 {
	return systemViewDir.Scale(FitDistance(extent, fovDeg))
}

// PlanetOffset is the camera offset from a planet of the given visual radius.
func (c Config) PlanetOffset(visualRadius, fovDeg float64) astro.Vec3 {
	return planetViewDir.Scale(FitDistance(visualRadius*c.PlanetFrameScale, fovDeg))
}

// StarOffset is the camera position that frames the host star(s).
func StarOffset(l orbit.Layout, fovDeg float64) astro.Vec3 {
	extent := l.StarRadius * orbit.ExtentFactor(l.StarTemp)
	for _, p := range l.StarPositions {
		extent = math.Max(extent, p.Norm()+l.StarRadius)
	}
	return starViewDir.Scale(FitDistance(extent, fovDeg))
}

// approachPoint returns a point on the line from from toward target,
// dist short of target.
func approachPoint(from, target astro.Vec3, dist float64) astro.Vec3 {
	dir := from.Sub(target)
	if dir.Norm() == 0 {
		dir = systemViewDir
	}
	return target.Add(dir.Normalized().Scale(dist))
}
