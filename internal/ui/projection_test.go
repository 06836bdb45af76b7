package ui

import (
	"strings"
	"testing"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/scene"
	"github.com/litescript/ls-exoplanets/internal/view"
)

func TestProjector_Project(t *testing.T) {
	st := camera.NewState(astro.Vec3{Z: 10}, astro.Vec3{})
	p := NewProjector(st, 80, 40)

	x, y, depth, ok := p.Project(astro.Vec3{})
	if !ok || x != 40 || y != 20 {
		t.Errorf("look-at projects to (%d,%d) ok=%v, want centre", x, y, ok)
	}
	if depth != 10 {
		t.Errorf("depth = %v, want 10", depth)
	}

	tests := []struct {
		name  string
		point astro.Vec3
		check func(x, y int) bool
	}{
		{"right", astro.Vec3{X: 1}, func(x, y int) bool { return x > 40 && y == 20 }},
		{"left", astro.Vec3{X: -1}, func(x, y int) bool { return x < 40 && y == 20 }},
		{"up", astro.Vec3{Y: 1}, func(x, y int) bool { return y < 20 && x == 40 }},
		{"down", astro.Vec3{Y: -1}, func(x, y int) bool { return y > 20 && x == 40 }},
	}
	for _, tt := range tests {
		x, y, _, ok := p.Project(tt.point)
		if !ok || !tt.check(x, y) {
			t.Errorf("%s: (%d,%d) ok=%v", tt.name, x, y, ok)
		}
	}

	if _, _, _, ok := p.Project(astro.Vec3{Z: 20}); ok {
		t.Error("point behind the camera projected")
	}
	if _, _, _, ok := p.Project(astro.Vec3{X: 1000}); ok {
		t.Error("point far off screen projected")
	}
}

func TestProjector_LookingStraightDown(t *testing.T) {
	st := camera.NewState(astro.Vec3{Y: 10}, astro.Vec3{})
	p := NewProjector(st, 20, 10)
	if _, _, _, ok := p.Project(astro.Vec3{}); !ok {
		t.Error("degenerate up vector lost the look-at point")
	}
	if _, _, _, ok := NewProjector(st, 0, 0).Project(astro.Vec3{}); ok {
		t.Error("empty grid projected a point")
	}
}

func TestCanvas_Priority(t *testing.T) {
	c := NewCanvas(4, 2)
	if !c.Set(1, 0, glyphOrbit, colorOrbit, 0, 5) {
		t.Fatal("set on an empty cell failed")
	}
	if !c.Set(1, 0, glyphPlanet, colorPlanet, 4, 9) {
		t.Error("higher priority did not win")
	}
	if c.Set(1, 0, glyphOrbit, colorOrbit, 0, 1) {
		t.Error("lower priority overwrote a planet")
	}
	c.Set(2, 0, glyphMarker, colorMarker, 1, 10)
	if !c.Set(2, 0, glyphMarkerFocused, colorMarker, 1, 2) {
		t.Error("nearer glyph of equal priority did not win")
	}
	if c.Set(2, 0, glyphMarker, colorMarker, 1, 3) {
		t.Error("farther glyph of equal priority won")
	}
	if c.Set(9, 9, glyphMarker, colorMarker, 1, 3) {
		t.Error("set outside the grid succeeded")
	}

	c.Label(0, 1, "abcdef", colorLabel)
	if c.Rune(0, 1) != 'a' || c.Rune(3, 1) != 'd' {
		t.Errorf("label = %q%q", c.Rune(0, 1), c.Rune(3, 1))
	}
	c.Label(0, 0, "xyz", colorLabel)
	if c.Rune(1, 0) != glyphPlanet || c.Rune(0, 0) != 'x' || c.Rune(2, 0) != glyphMarkerFocused {
		t.Error("label overwrote a glyph")
	}

	lines := strings.Split(c.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.Contains(lines[1], "abcd") {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestCanvas_DrawScenes(t *testing.T) {
	store := catalog.NewStore(catalog.SamplePlanets(), 1)
	g := scene.NewGalaxy(store)
	if _, err := g.Render(view.RenderRequest{Mode: view.GalacticCenter}); err != nil {
		t.Fatal(err)
	}
	core := astro.GalacticCenterPosition()
	st := camera.NewState(core.Add(astro.Vec3{Y: 60, Z: 90}), core)
	c := NewCanvas(60, 30)
	c.DrawMeshes(NewProjector(st, 60, 30), g.Meshes(), true)
	found := false
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			found = found || c.Rune(30+dx, 15+dy) == glyphCore
		}
	}
	if !found {
		t.Errorf("core not drawn at the centre:\n%s", c.String())
	}
}

func TestStarColor(t *testing.T) {
	if starColor(3000) == starColor(10000) {
		t.Error("cool and hot stars share a color")
	}
	if starColor(0) != starColor(-1) {
		t.Error("unknown temperatures differ")
	}
}
