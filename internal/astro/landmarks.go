package astro

// Landmark is a well-known nearby star drawn in the galaxy view for
// orientation. It is not part of the planet catalog.
type Landmark struct {
	Name       string
	RAdeg      float64 // J2000
	DecDeg     float64 // J2000
	DistanceLY float64
	Mag        float64 // apparent visual magnitude
}

// Position places the landmark in the galaxy scene.
func (l Landmark) Position() Vec3 {
	return GalacticPosition(l.RAdeg, l.DecDeg, l.DistanceLY)
}

// Landmarks returns the orientation stars, nearest first. The slice is a
// copy.
func Landmarks() []Landmark {
	out := make([]Landmark, len(landmarks))
	copy(out, landmarks)
	return out
}

var landmarks = []Landmark{
	{"Alpha Centauri", 219.902, -60.834, 4.37, -0.27},
	{"Barnard's Star", 269.452, 4.693, 5.96, 9.51},
	{"Sirius", 101.287, -16.716, 8.6, -1.46},
	{"Procyon", 114.826, 5.225, 11.5, 0.34},
	{"Altair", 297.696, 8.868, 16.7, 0.76},
	{"Vega", 279.235, 38.784, 25.0, 0.03},
	{"Fomalhaut", 344.413, -29.622, 25.1, 1.16},
	{"Pollux", 116.329, 28.026, 33.8, 1.14},
	{"Arcturus", 213.915, 19.182, 36.7, -0.05},
	{"Capella", 79.172, 45.998, 42.9, 0.08},
	{"Aldebaran", 68.980, 16.509, 65.3, 0.85},
	{"Regulus", 152.093, 11.967, 79.3, 1.35},
	{"Achernar", 24.429, -57.237, 139, 0.46},
	{"Spica", 201.298, -11.161, 250, 0.97},
	{"Canopus", 95.988, -52.696, 310, -0.74},
	{"Polaris", 37.955, 89.264, 433, 1.98},
	{"Betelgeuse", 88.793, 7.407, 548, 0.50},
	{"Antares", 247.352, -26.432, 550, 0.96},
	{"Rigel", 78.634, -8.202, 860, 0.13},
	{"Deneb", 310.358, 45.280, 2600, 1.25},
}
