package catalog

// host carries the star properties copied onto each of its planets.
type host struct {
	name     string
	ra, dec  *float64
	distLY   *float64
	spectral string
	teff     *float64
	radius   *float64
	lum      *float64
	stars    int
}

// orbit is a compact planet row used only to build the sample catalog.
type orbit struct {
	name   string
	a, per *float64
	ecc    float64
	inc    *float64
	radius float64
	mass   float64
	temp   float64
}

func f(v float64) *float64 { return &v }

func (h host) planets(rows ...orbit) []*Planet {
	out := make([]*Planet, 0, len(rows))
	for _, r := range rows {
		out = append(out, &Planet{
			Name:                r.name,
			HostStar:            h.name,
			SemiMajorAxis:       r.a,
			OrbitalPeriod:       r.per,
			OrbitalEccentricity: r.ecc,
			OrbitalInclination:  r.inc,
			Radius:              r.radius,
			Mass:                r.mass,
			Temperature:         r.temp,
			RA:                  h.ra,
			Dec:                 h.dec,
			Distance:            h.distLY,
			SpectralType:        h.spectral,
			StellarTemp:         h.teff,
			StellarRadius:       h.radius,
			StellarLuminosity:   h.lum,
			NumberOfStars:       h.stars,
		})
	}
	return out
}

// SamplePlanets returns a small built-in catalog covering compact, wide,
// multi-star, hot-star and incomplete records.
func SamplePlanets() []*Planet {
	var all []*Planet

	trappist := host{name: "TRAPPIST-1", ra: f(346.622), dec: f(-5.041), distLY: f(40.7),
		spectral: "M8V", teff: f(2566), radius: f(0.119), lum: f(-3.26), stars: 1}
	all = append(all, trappist.planets(
		orbit{"TRAPPIST-1 b", f(0.01154), f(1.511), 0.006, f(89.73), 1.116, 1.374, 400},
		orbit{"TRAPPIST-1 c", f(0.01580), f(2.422), 0.007, f(89.78), 1.097, 1.308, 342},
		orbit{"TRAPPIST-1 d", f(0.02227), f(4.049), 0.008, f(89.89), 0.788, 0.388, 288},
		orbit{"TRAPPIST-1 e", f(0.02925), f(6.101), 0.005, f(89.74), 0.920, 0.692, 251},
		orbit{"TRAPPIST-1 f", f(0.03849), f(9.208), 0.010, f(89.72), 1.045, 1.039, 219},
		orbit{"TRAPPIST-1 g", f(0.04683), f(12.35), 0.002, f(89.72), 1.129, 1.321, 199},
		orbit{"TRAPPIST-1 h", f(0.06189), f(18.77), 0.006, f(89.80), 0.755, 0.326, 173},
	)...)

	kepler90 := host{name: "Kepler-90", ra: f(284.434), dec: f(49.305), distLY: f(2840),
		spectral: "G0V", teff: f(6080), radius: f(1.2), lum: f(0.23), stars: 1}
	all = append(all, kepler90.planets(
		orbit{"Kepler-90 h", f(1.01), f(331.6), 0.011, f(89.93), 11.32, 203, 292},
		orbit{"Kepler-90 b", f(0.074), f(7.008), 0, f(89.4), 1.31, 2.4, 1000},
		orbit{"Kepler-90 c", f(0.089), f(8.719), 0, f(89.68), 1.18, 1.7, 910},
		orbit{"Kepler-90 i", f(0.107), f(14.45), 0, f(89.2), 1.32, 2.3, 709},
		orbit{"Kepler-90 d", f(0.32), f(59.74), 0.049, f(89.71), 2.88, 8.0, 320},
		orbit{"Kepler-90 e", f(0.42), f(91.94), 0.032, f(89.79), 2.67, 7.0, 280},
		orbit{"Kepler-90 f", f(0.48), f(124.9), 0.007, f(89.77), 2.89, 8.0, 250},
		orbit{"Kepler-90 g", f(0.71), f(210.6), 0.049, f(89.8), 8.13, 15.0, 220},
	)...)

	cancri := host{name: "55 Cancri", ra: f(133.149), dec: f(28.330), distLY: f(41.0),
		spectral: "K0IV-V", teff: f(5196), radius: f(0.94), lum: f(-0.23), stars: 2}
	all = append(all, cancri.planets(
		orbit{"55 Cancri e", f(0.01544), f(0.7365), 0.05, f(83.4), 1.88, 7.99, 1958},
		orbit{"55 Cancri b", f(0.1134), f(14.65), 0.0, nil, 13.9, 264, 700},
		orbit{"55 Cancri c", f(0.2373), f(44.4), 0.03, nil, 8.5, 54, 480},
		orbit{"55 Cancri f", f(0.7708), f(260.9), 0.08, nil, 7.6, 47, 250},
		orbit{"55 Cancri d", f(5.957), f(4825), 0.13, nil, 13.0, 1232, 80},
	)...)

	proxima := host{name: "Proxima Centauri", ra: f(217.429), dec: f(-62.680), distLY: f(4.24),
		spectral: "M5.5V", teff: f(3050), radius: f(0.154), lum: f(-2.8), stars: 3}
	all = append(all, proxima.planets(
		orbit{"Proxima Centauri b", f(0.04857), f(11.186), 0.02, nil, 1.07, 1.07, 234},
		orbit{"Proxima Centauri d", f(0.02885), f(5.122), 0.04, nil, 0.81, 0.26, 360},
	)...)

	kepler16 := host{name: "Kepler-16", ra: f(289.076), dec: f(51.757), distLY: f(245),
		spectral: "K", teff: f(4450), radius: f(0.65), lum: f(-0.7), stars: 2}
	all = append(all, kepler16.planets(
		orbit{"Kepler-16 b", f(0.7048), f(228.8), 0.0069, f(90.03), 8.45, 105, 188},
	)...)

	hd219134 := host{name: "HD 219134", ra: f(348.321), dec: f(57.168), distLY: f(21.3),
		spectral: "K3V", teff: f(4699), radius: f(0.778), lum: f(-0.56), stars: 1}
	all = append(all, hd219134.planets(
		orbit{"HD 219134 b", f(0.0388), f(3.093), 0, f(85.05), 1.60, 4.74, 1015},
		orbit{"HD 219134 c", f(0.0653), f(6.765), 0.062, f(87.28), 1.51, 4.36, 782},
		orbit{"HD 219134 f", f(0.1463), f(22.72), 0.15, nil, 1.31, 7.3, 522},
		orbit{"HD 219134 d", f(0.2370), f(46.86), 0.138, nil, 1.61, 16.2, 410},
		orbit{"HD 219134 g", f(0.3753), f(94.2), 0, nil, 1.1, 11, 326},
		orbit{"HD 219134 h", f(3.06), f(2100.6), 0.06, nil, 10.0, 108, 114},
	)...)

	kelt9 := host{name: "KELT-9", ra: f(307.860), dec: f(39.940), distLY: f(667),
		spectral: "A0V", teff: f(10170), radius: f(2.36), lum: f(1.73), stars: 1}
	all = append(all, kelt9.planets(
		orbit{"KELT-9 b", f(0.03462), f(1.481), 0, f(86.79), 21.2, 906, 4050},
	)...)

	// Period only; exercises the Kepler fallback.
	wd := host{name: "WD 1856+534", ra: f(284.415), dec: f(53.509), distLY: f(81),
		spectral: "DA", teff: f(4710), radius: f(0.0131), stars: 3}
	all = append(all, wd.planets(
		orbit{"WD 1856+534 b", nil, f(1.4079), 0, f(88.78), 10.4, 4450, 165},
	)...)

	// No coordinates and no orbital data; exercises both fallbacks.
	drifter := host{name: "CFBDSIR 2149-0403", distLY: f(130), spectral: "T7", stars: 1}
	all = append(all, drifter.planets(
		orbit{"CFBDSIR 2149-0403 b", nil, nil, 0, nil, 11.0, 4130, 700},
	)...)

	return all
}
