// Package catalog holds the planet/star-system model and an in-memory store
// that plays the role of the filtering collaborator.
package catalog

import (
	"math"
	"sort"

	"github.com/litescript/ls-exoplanets/internal/astro"
)

// Planet is one catalog record. Star properties are duplicated onto every
// planet of the same host, as in the source catalog. Optional values are
// pointers; nil means the catalog has no value.
type Planet struct {
	Name                  string   `json:"name"`
	HostStar              string   `json:"hostStar"`
	SemiMajorAxis         *float64 `json:"semiMajorAxis,omitempty"`         // AU
	OrbitalPeriod         *float64 `json:"orbitalPeriod,omitempty"`         // days
	OrbitalEccentricity   float64  `json:"orbitalEccentricity"`             // 0-1.2
	OrbitalInclination    *float64 `json:"orbitalInclination,omitempty"`    // degrees
	LongitudeOfPeriastron *float64 `json:"longitudeOfPeriastron,omitempty"` // degrees
	Radius                float64  `json:"radius"`                          // Earth radii
	Mass                  float64  `json:"mass"`                            // Earth masses
	Temperature           float64  `json:"temperature"`                     // K (equilibrium)
	RA                    *float64 `json:"ra,omitempty"`                    // degrees, J2000
	Dec                   *float64 `json:"dec,omitempty"`                   // degrees, J2000
	Distance              *float64 `json:"distance,omitempty"`              // light-years

	SpectralType      string   `json:"spectralType,omitempty"`
	StellarTemp       *float64 `json:"stellarTemp,omitempty"`       // K
	StellarRadius     *float64 `json:"stellarRadius,omitempty"`     // solar radii
	StellarLuminosity *float64 `json:"stellarLuminosity,omitempty"` // log10(L/Lsun)
	NumberOfStars     int      `json:"numberOfStars,omitempty"`
}

// OrbitAU returns the orbital distance used for ordering: semi-major axis if
// known, else Kepler's third law from the period for a solar-mass host.
// ok is false when neither is available.
func (p *Planet) OrbitAU() (au float64, ok bool) {
	if p.SemiMajorAxis != nil && valid(*p.SemiMajorAxis) {
		return *p.SemiMajorAxis, true
	}
	if p.OrbitalPeriod != nil && valid(*p.OrbitalPeriod) {
		return KeplerAU(*p.OrbitalPeriod), true
	}
	return 0, false
}

// KeplerAU approximates the semi-major axis from an orbital period in days,
// assuming a solar-mass star.
func KeplerAU(periodDays float64) float64 {
	return math.Pow(periodDays/365.25, 2.0/3.0)
}

func valid(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// StarSystem groups the planets of one host star.
type StarSystem struct {
	StarName string    // unique key
	Planets  []*Planet // ascending orbital distance
	Distance *float64  // light-years
}

// NewStarSystem builds a system and orders its planets by ascending orbital
// distance. Planets without orbital data keep their catalog order after the
// ones that have it.
func NewStarSystem(name string, planets []*Planet) *StarSystem {
	ordered := make([]*Planet, len(planets))
	copy(ordered, planets)
	sort.SliceStable(ordered, func(i, j int) bool {
		ai, iok := ordered[i].OrbitAU()
		aj, jok := ordered[j].OrbitAU()
		if iok != jok {
			return iok
		}
		return iok && ai < aj
	})

	sys := &StarSystem{StarName: name, Planets: ordered}
	for _, p := range ordered {
		if p.Distance != nil && sys.Distance == nil {
			d := *p.Distance
			sys.Distance = &d
		}
	}
	return sys
}

// Primary returns the first planet record, which carries the star properties.
func (s *StarSystem) Primary() *Planet {
	if s == nil || len(s.Planets) == 0 {
		return nil
	}
	return s.Planets[0]
}

// Planet returns the named planet, or nil.
func (s *StarSystem) Planet(name string) *Planet {
	if s == nil {
		return nil
	}
	for _, p := range s.Planets {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// StarCount returns the number of stars, at least 1.
func (s *StarSystem) StarCount() int {
	p := s.Primary()
	if p == nil || p.NumberOfStars < 1 {
		return 1
	}
	return p.NumberOfStars
}

// DistanceLY returns the system distance or 0 when unknown.
func (s *StarSystem) DistanceLY() float64 {
	if s == nil || s.Distance == nil {
		return 0
	}
	return *s.Distance
}

// Coordinates returns the host's ra/dec as recorded on its planets.
func (s *StarSystem) Coordinates() (ra, dec *float64) {
	for _, p := range s.Planets {
		if p.RA != nil && p.Dec != nil {
			return p.RA, p.Dec
		}
	}
	return nil, nil
}

// StellarTemp returns the host temperature or 0 when unknown.
func (s *StarSystem) StellarTemp() float64 {
	p := s.Primary()
	if p == nil || p.StellarTemp == nil {
		return 0
	}
	return *p.StellarTemp
}

// StellarRadius returns the host radius in solar radii or 0 when unknown.
func (s *StarSystem) StellarRadius() float64 {
	p := s.Primary()
	if p == nil || p.StellarRadius == nil {
		return 0
	}
	return *p.StellarRadius
}

// GalacticPosition returns the system's position in the galaxy scene. Systems
// without coordinates land on the deterministic fallback disk.
func (s *StarSystem) GalacticPosition() astro.Vec3 {
	ra, dec := s.Coordinates()
	return astro.ToGalacticPosition(ra, dec, s.DistanceLY(), s.StarName)
}
