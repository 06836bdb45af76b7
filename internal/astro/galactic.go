package astro

import (
	"hash/fnv"
	"math"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"
)

const (
	// GalaxyRadialScale maps log10(ly+1) to scene units.
	// 10 ly lands at ~62 units, 1,000 ly at 180, 26,000 ly at ~265.
	GalaxyRadialScale = 60.0

	// AlignmentOffsetDeg rotates galactic longitude so that computed positions
	// match the pre-rendered galaxy backdrop: the galactic centre ends up on -Z,
	// straight ahead of the default galaxy camera.
	AlignmentOffsetDeg = -90.0

	// GalacticCenterDistanceLY is the distance to Sgr A*.
	GalacticCenterDistanceLY = 26000.0

	// FallbackDiskRadius bounds placement for records without coordinates.
	FallbackDiskRadius = 150.0

	// FallbackDiskThickness is the half-height of the fallback disk.
	FallbackDiskThickness = 4.0
)

// Galactic holds galactic longitude/latitude in degrees.
type Galactic struct {
	LonDeg float64 // l, 0-360
	LatDeg float64 // b, -90 to +90
}

// EquatorialToGalactic converts right ascension and declination (degrees) to
// galactic coordinates using the standard pole/origin rotation.
//
// The underlying rotation is referred to the B1950 pole. Catalog positions are
// J2000; the ~0.7° frame difference is below what the scene can show and is
// absorbed by AlignmentOffsetDeg.
func EquatorialToGalactic(raDeg, decDeg float64) Galactic {
	eq := &coord.Equatorial{
		RA:  unit.RAFromDeg(raDeg),
		Dec: unit.AngleFromDeg(decDeg),
	}
	g := new(coord.Galactic).EqToGal(eq)

	lon := math.Mod(g.Lon.Deg(), 360)
	if lon < 0 {
		lon += 360
	}
	return Galactic{LonDeg: lon, LatDeg: g.Lat.Deg()}
}

// ScaleDistance maps a distance in light-years to scene units.
// Non-positive and non-finite distances map to 0.
func ScaleDistance(distanceLY float64) float64 {
	if !isFinite(distanceLY) || distanceLY <= 0 {
		return 0
	}
	return math.Log10(distanceLY+1) * GalaxyRadialScale
}

// GalacticPosition converts a complete (ra, dec, distance) record to a scene
// position. Distance 0 returns the zero vector.
func GalacticPosition(raDeg, decDeg, distanceLY float64) Vec3 {
	return galacticToScene(EquatorialToGalactic(raDeg, decDeg), ScaleDistance(distanceLY))
}

// ToGalacticPosition places a catalog record in the galaxy scene. When ra or
// dec is missing (nil or non-finite) the record is placed deterministically on
// a thin disk seeded by key, so the same system always lands in the same spot.
func ToGalacticPosition(ra, dec *float64, distanceLY float64, key string) Vec3 {
	if ra != nil && dec != nil && isFinite(*ra) && isFinite(*dec) {
		return GalacticPosition(*ra, *dec, distanceLY)
	}
	return fallbackPosition(key, distanceLY)
}

// GalacticCenterPosition returns the scene position of the galactic centre.
func GalacticCenterPosition() Vec3 {
	return galacticToScene(Galactic{}, ScaleDistance(GalacticCenterDistanceLY))
}

func galacticToScene(g Galactic, r float64) Vec3 {
	if r == 0 {
		return Vec3{}
	}
	l := degToRad(g.LonDeg + AlignmentOffsetDeg)
	b := degToRad(g.LatDeg)
	return Vec3{
		X: r * math.Cos(b) * math.Cos(l),
		Y: r * math.Sin(b),
		Z: r * math.Cos(b) * math.Sin(l),
	}
}

func fallbackPosition(key string, distanceLY float64) Vec3 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	seed := h.Sum64()

	angle := float64(seed&0xffff) / 65536 * 2 * math.Pi
	frac := float64((seed>>16)&0xffff) / 65536
	height := (float64((seed>>32)&0xffff)/65536 - 0.5) * 2 * FallbackDiskThickness

	r := ScaleDistance(distanceLY)
	if r == 0 {
		r = FallbackDiskRadius * (0.3 + 0.7*frac)
	}
	return Vec3{
		X: r * math.Cos(angle),
		Y: height,
		Z: r * math.Sin(angle),
	}
}
