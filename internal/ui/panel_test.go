package ui

import (
	"strings"
	"testing"

	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/view"
)

func TestPanel_Notifier(t *testing.T) {
	var _ view.Notifier = (*Panel)(nil)

	store := catalog.NewStore(catalog.SamplePlanets(), 1)
	sys, _ := store.SystemForStar("TRAPPIST-1")
	p := NewPanel()

	p.UpdateInfoPanel(view.Galaxy, view.Entity{})
	p.UpdateResultsList(view.Galaxy, store.NotableSystems(), view.Entity{})
	p.SetSearchPlaceholder("Search star systems...")
	if p.Updates() != 1 || p.Placeholder() != "Search star systems..." {
		t.Errorf("updates %d placeholder %q", p.Updates(), p.Placeholder())
	}
	items := p.Items()
	if len(items) != len(store.NotableSystems()) || items[0].Planet != nil {
		t.Fatalf("galaxy items = %d", len(items))
	}
	if !strings.Contains(items[0].Detail, "planets") {
		t.Errorf("detail = %q", items[0].Detail)
	}

	p.UpdateInfoPanel(view.System, view.SystemEntity(sys))
	p.UpdateResultsList(view.System, []*catalog.StarSystem{sys}, view.SystemEntity(sys))
	items = p.Items()
	if len(items) != len(sys.Planets) {
		t.Fatalf("system items = %d, want %d", len(items), len(sys.Planets))
	}
	for i, it := range items {
		if it.Planet != sys.Planets[i] || it.Label != sys.Planets[i].Name {
			t.Errorf("item %d = %q", i, it.Label)
		}
	}
	if info := p.InfoLines(); len(info) < 2 || info[0] != "TRAPPIST-1" {
		t.Errorf("system info = %v", info)
	}

	pl := sys.Planets[0]
	p.UpdateInfoPanel(view.Planet, view.PlanetEntity(sys, pl))
	info := p.InfoLines()
	if info[0] != pl.Name || !strings.Contains(strings.Join(info, "|"), "AU") {
		t.Errorf("planet info = %v", info)
	}

	systems := p.Systems()
	systems[0] = nil
	if p.Systems()[0] == nil {
		t.Error("Systems returned the internal slice")
	}
}

func TestPlanetItems_Filter(t *testing.T) {
	store := catalog.NewStore(catalog.SamplePlanets(), 1)
	sys, _ := store.SystemForStar("TRAPPIST-1")
	items := planetItems(sys, " 1 B ")
	if len(items) != 1 || items[0].Label != "TRAPPIST-1 b" {
		t.Errorf("filtered items = %v", items)
	}
	if len(planetItems(sys, "")) != len(sys.Planets) {
		t.Error("empty filter dropped planets")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated", 5, "trun…"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
