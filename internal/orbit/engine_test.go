package orbit

import (
	"math"
	"testing"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

func f(v float64) *float64 { return &v }

func sampleStore() *catalog.Store {
	return catalog.NewStore(catalog.SamplePlanets(), 1)
}

func TestLayout_MonotonicAndFinite(t *testing.T) {
	e := NewEngine(DefaultConfig())
	for _, mode := range []DistanceMode{Compressed, Realistic} {
		for _, sys := range sampleStore().Systems() {
			l := e.LayoutFor(sys, mode)
			if len(l.Planets) != len(sys.Planets) {
				t.Fatalf("%s/%s: %d orbits for %d planets", mode, sys.StarName, len(l.Planets), len(sys.Planets))
			}
			for i, po := range l.Planets {
				if !finitePositive(po.OrbitRadius) || !finitePositive(po.VisualRadius) {
					t.Errorf("%s/%s: planet %d has radius %v / %v", mode, sys.StarName, i, po.OrbitRadius, po.VisualRadius)
				}
				if i == 0 {
					continue
				}
				prev := l.Planets[i-1]
				if po.AU < prev.AU {
					t.Errorf("%s/%s: AU order broken at %d", mode, sys.StarName, i)
				}
				if po.OrbitRadius < prev.OrbitRadius {
					t.Errorf("%s/%s: orbit radius decreased at %d: %v < %v", mode, sys.StarName, i, po.OrbitRadius, prev.OrbitRadius)
				}
			}
			if !finitePositive(l.ScaleFactor) || !finitePositive(l.StarRadius) || !finitePositive(l.Extent) {
				t.Errorf("%s/%s: non-finite layout %+v", mode, sys.StarName, l)
			}
		}
	}
}

func TestLayout_CompressedBounds(t *testing.T) {
	e := NewEngine(DefaultConfig())
	tol := 1e-9
	for _, sys := range sampleStore().Systems() {
		l := e.Layout(sys)
		if l.Clearance >= e.Config().CompressedMaxRadius {
			continue
		}
		last := l.Planets[len(l.Planets)-1]
		if last.OrbitRadius > 18+tol {
			t.Errorf("%s: outermost orbit %v > 18", sys.StarName, last.OrbitRadius)
		}
		if l.Extent > 18+last.VisualRadius+tol {
			t.Errorf("%s: extent %v exceeds bound", sys.StarName, l.Extent)
		}
		for i := 1; i < len(l.Planets); i++ {
			if l.Planets[i].OrbitRadius-l.Planets[i-1].OrbitRadius <= 0 {
				t.Errorf("%s: orbits %d and %d coincide", sys.StarName, i-1, i)
			}
		}
	}
}

func TestLayout_Kepler90Spacing(t *testing.T) {
	e := NewEngine(DefaultConfig())
	sys, _ := sampleStore().SystemForStar("Kepler-90")
	l := e.Layout(sys)
	for i := 1; i < len(l.Planets); i++ {
		if gap := l.Planets[i].OrbitRadius - l.Planets[i-1].OrbitRadius; gap < 2-1e-9 {
			t.Errorf("gap %d = %v, want >= 2", i, gap)
		}
	}
	if h, ok := l.Orbit("Kepler-90 h"); !ok || math.Abs(h.OrbitRadius-18) > 1e-6 {
		t.Errorf("Kepler-90 h radius = %v, want 18", h.OrbitRadius)
	}
}

func TestLayout_MultiStarClearance(t *testing.T) {
	e := NewEngine(DefaultConfig())
	for _, name := range []string{"55 Cancri", "Proxima Centauri", "Kepler-16", "WD 1856+534"} {
		sys, ok := sampleStore().SystemForStar(name)
		if !ok {
			t.Fatalf("%s missing", name)
		}
		for _, mode := range []DistanceMode{Compressed, Realistic} {
			l := e.LayoutFor(sys, mode)
			if len(l.StarPositions) != sys.StarCount() {
				t.Errorf("%s: %d star positions, want %d", name, len(l.StarPositions), sys.StarCount())
			}
			for _, po := range l.Planets {
				if po.OrbitRadius < l.Clearance-1e-9 {
					t.Errorf("%s/%s: %s at %v inside clearance %v", name, mode, po.Planet.Name, po.OrbitRadius, l.Clearance)
				}
			}
		}
	}
}

func TestLayout_RemapKeepsMinSpacing(t *testing.T) {
	e := NewEngine(DefaultConfig())
	var planets []*catalog.Planet
	for i, au := range []*float64{f(0.01), f(0.0101), f(0.0102), f(1.0), nil} {
		planets = append(planets, &catalog.Planet{
			Name:          "Crowd " + string(rune('b'+i)),
			HostStar:      "Crowd",
			SemiMajorAxis: au,
		})
	}
	l := e.Layout(catalog.NewStarSystem("Crowd", planets))
	cfg := e.Config()
	tol := 1e-9
	for i := 1; i < len(l.Planets); i++ {
		if gap := l.Planets[i].OrbitRadius - l.Planets[i-1].OrbitRadius; gap < cfg.MinSpacing-tol {
			t.Errorf("gap %d-%d = %v, want >= %v", i-1, i, gap, cfg.MinSpacing)
		}
	}
	if last := l.Planets[len(l.Planets)-1].OrbitRadius; last > cfg.CompressedMaxRadius+tol {
		t.Errorf("outermost orbit %v > %v", last, cfg.CompressedMaxRadius)
	}
	if first := l.Planets[0].OrbitRadius; first < l.StarRadius+cfg.StarGap-tol {
		t.Errorf("inner orbit %v inside the star gap", first)
	}
}

func TestLayout_SinglePlanetPeriodOnly(t *testing.T) {
	e := NewEngine(DefaultConfig())
	sys := catalog.NewStarSystem("Solo", []*catalog.Planet{
		{Name: "Solo b", HostStar: "Solo", OrbitalPeriod: f(365)},
	})
	l := e.Layout(sys)
	po := l.Planets[0]
	if po.Source != SourcePeriod {
		t.Errorf("source = %v, want period", po.Source)
	}
	if !finitePositive(po.OrbitRadius) || po.OrbitRadius > 18+1e-9 {
		t.Errorf("orbit radius = %v", po.OrbitRadius)
	}
	if po.OrbitRadius < l.StarRadius+e.Config().StarGap {
		t.Errorf("orbit %v inside star gap", po.OrbitRadius)
	}
}

func TestLayout_NoOrbitalData(t *testing.T) {
	e := NewEngine(DefaultConfig())
	sys, _ := sampleStore().SystemForStar("CFBDSIR 2149-0403")
	l := e.Layout(sys)
	if math.Abs(l.ScaleFactor-1.8) > 1e-9 {
		t.Errorf("scale = %v, want 18/10", l.ScaleFactor)
	}
	if l.Planets[0].Source != SourceIndex || !finitePositive(l.Planets[0].OrbitRadius) {
		t.Errorf("fallback orbit = %+v", l.Planets[0])
	}
}

func TestLayout_ClearanceBeatsMaxRadius(t *testing.T) {
	e := NewEngine(DefaultConfig())
	var planets []*catalog.Planet
	for _, n := range []string{"b", "c", "d"} {
		planets = append(planets, &catalog.Planet{
			Name: "Big " + n, HostStar: "Big", SemiMajorAxis: f(0.1),
			StellarRadius: f(50), StellarTemp: f(12000), NumberOfStars: 4,
		})
	}
	l := e.Layout(catalog.NewStarSystem("Big", planets))
	if l.Clearance <= 18 {
		t.Fatalf("clearance = %v, test needs > 18", l.Clearance)
	}
	for _, po := range l.Planets {
		if po.OrbitRadius < l.Clearance {
			t.Errorf("%s at %v inside clearance %v", po.Planet.Name, po.OrbitRadius, l.Clearance)
		}
	}
}

func TestLayout_RealisticScale(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.SetMode(Realistic)
	sys, _ := sampleStore().SystemForStar("Kepler-90")
	l := e.Layout(sys)
	if l.Mode != Realistic || l.ScaleFactor != 20 {
		t.Fatalf("mode %v scale %v", l.Mode, l.ScaleFactor)
	}
	h, _ := l.Orbit("Kepler-90 h")
	if math.Abs(h.OrbitRadius-1.01*20) > 1e-9 {
		t.Errorf("h radius = %v, want true scale", h.OrbitRadius)
	}
	trueRadius := 1.2 * solarRadiusAU * 20
	if l.StarRadius <= trueRadius {
		t.Errorf("star radius %v not boosted above %v", l.StarRadius, trueRadius)
	}
	if l.StarRadius >= l.Planets[0].OrbitRadius {
		t.Errorf("boosted star %v swallows inner orbit %v", l.StarRadius, l.Planets[0].OrbitRadius)
	}
}

func TestDistanceMode_String(t *testing.T) {
	if Compressed.String() != "compressed" || Realistic.String() != "realistic" || DistanceMode(9).String() != "unknown" {
		t.Error("unexpected mode names")
	}
}
