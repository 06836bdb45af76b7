package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/scene"
)

const (
	// cellAspect is the height of a terminal cell over its width.
	cellAspect = 2.0
	nearPlane  = 1e-3

	glyphMarker        = '•'
	glyphMarkerFocused = '◆'
	glyphLandmark      = '✧'
	glyphCore          = '◎'
	glyphStar          = '✶'
	glyphPlanet        = '●'
	glyphOrbit         = '·'

	colorMarker    = "#d0c8ff"
	colorLandmark  = "244"
	colorCore      = "#F4A261"
	colorOrbit     = "238"
	colorPlanet    = "#7FB7BE"
	colorHighlight = "229" // bright gold
	colorLabel     = "250"
)

// Projector maps scene coordinates onto a character grid with a pinhole
// camera.
type Projector struct {
	W, H int

	pos            astro.Vec3
	fwd, right, up astro.Vec3
	tanHalf        float64
	aspect         float64
}

// NewProjector builds a projector for the camera pose on a w by h grid.
func NewProjector(st *camera.State, w, h int) Projector {
	fov := st.FOV
	if !(fov > 0 && fov < 180) {
		fov = camera.DefaultFOV
	}
	fwd := st.LookAt.Sub(st.Position).Normalized()
	if fwd.Norm() == 0 {
		fwd = astro.Vec3{Z: -1}
	}
	worldUp := astro.Vec3{Y: 1}
	if math.Abs(fwd.Dot(worldUp)) > 0.999 {
		worldUp = astro.Vec3{Z: -1}
	}
	right := fwd.Cross(worldUp).Normalized()
	p := Projector{
		W:       w,
		H:       h,
		pos:     st.Position,
		fwd:     fwd,
		right:   right,
		up:      right.Cross(fwd),
		tanHalf: math.Tan(fov * math.Pi / 360),
		aspect:  1,
	}
	if h > 0 {
		p.aspect = float64(w) / (float64(h) * cellAspect)
	}
	return p
}

// Project returns the cell of v and its depth along the view axis. ok is
// false behind the camera or off the grid.
func (p Projector) Project(v astro.Vec3) (x, y int, depth float64, ok bool) {
	rel := v.Sub(p.pos)
	depth = rel.Dot(p.fwd)
	if !(depth > nearPlane) || p.W <= 0 || p.H <= 0 {
		return 0, 0, depth, false
	}
	nx := rel.Dot(p.right) / (depth * p.tanHalf * p.aspect)
	ny := rel.Dot(p.up) / (depth * p.tanHalf)
	fx := (nx + 1) / 2 * float64(p.W)
	fy := (1 - ny) / 2 * float64(p.H)
	if math.IsNaN(fx) || math.IsNaN(fy) || fx < 0 || fy < 0 || fx >= float64(p.W) || fy >= float64(p.H) {
		return 0, 0, depth, false
	}
	return int(fx), int(fy), depth, true
}

type cell struct {
	r        rune
	color    string
	priority int
	depth    float64
}

// Canvas is a character grid. Higher-priority glyphs win a cell; equal
// priorities resolve to the nearer glyph.
type Canvas struct {
	w, h  int
	cells []cell
}

// NewCanvas returns an empty w by h canvas.
func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{w: w, h: h, cells: make([]cell, w*h)}
}

func (c *Canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// Set draws r at x, y unless the cell already holds something that wins.
func (c *Canvas) Set(x, y int, r rune, color string, priority int, depth float64) bool {
	cl := c.at(x, y)
	if cl == nil {
		return false
	}
	if cl.r != 0 && (cl.priority > priority || (cl.priority == priority && cl.depth <= depth)) {
		return false
	}
	*cl = cell{r: r, color: color, priority: priority, depth: depth}
	return true
}

// Label writes text from x, y into empty cells only.
func (c *Canvas) Label(x, y int, text, color string) {
	for i, r := range []rune(text) {
		cl := c.at(x+i, y)
		if cl == nil {
			return
		}
		if cl.r != 0 {
			continue
		}
		*cl = cell{r: r, color: color}
	}
}

// Rune returns the glyph at x, y, or 0.
func (c *Canvas) Rune(x, y int) rune {
	if cl := c.at(x, y); cl != nil {
		return cl.r
	}
	return 0
}

// String renders the canvas, grouping runs of one color into one style.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		color := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			r := cl.r
			if r == 0 {
				r = ' '
			}
			if cl.color != color {
				flush()
				color = cl.color
			}
			run.WriteRune(r)
		}
		flush()
	}
	return b.String()
}

// DrawMeshes projects every mesh onto the canvas. Labels are drawn for
// highlighted meshes, and for stars and planets when labels is set.
func (c *Canvas) DrawMeshes(p Projector, meshes []scene.Mesh, labels bool) {
	type label struct {
		x, y  int
		text  string
		color string
	}
	var pending []label

	for _, m := range meshes {
		if m.Kind == scene.KindOrbit {
			for _, pt := range m.Path {
				if x, y, d, ok := p.Project(pt); ok {
					c.Set(x, y, glyphOrbit, colorOrbit, priorityOf(m), d)
				}
			}
			continue
		}
		x, y, d, ok := p.Project(m.Position)
		if !ok {
			continue
		}
		r, color := glyphOf(m)
		c.Set(x, y, r, color, priorityOf(m), d)
		if m.Label != "" && (m.Highlight || (labels && (m.Kind == scene.KindStar || m.Kind == scene.KindPlanet))) {
			lc := colorLabel
			if m.Highlight {
				lc = colorHighlight
			}
			pending = append(pending, label{x: x + 2, y: y, text: m.Label, color: lc})
		}
	}
	for _, l := range pending {
		c.Label(l.x, l.y, l.text, l.color)
	}
}

func priorityOf(m scene.Mesh) int {
	var p int
	switch m.Kind {
	case scene.KindOrbit:
		p = 0
	case scene.KindMarker, scene.KindLandmark:
		p = 1
	case scene.KindCore:
		p = 2
	case scene.KindStar:
		p = 3
	case scene.KindPlanet:
		p = 4
	}
	if m.Highlight {
		p += 10
	}
	return p
}

func glyphOf(m scene.Mesh) (rune, string) {
	switch m.Kind {
	case scene.KindMarker:
		if m.Highlight {
			return glyphMarkerFocused, colorHighlight
		}
		return glyphMarker, colorMarker
	case scene.KindLandmark:
		return glyphLandmark, colorLandmark
	case scene.KindCore:
		if m.Highlight {
			return glyphCore, colorHighlight
		}
		return glyphCore, colorCore
	case scene.KindStar:
		return glyphStar, starColor(m.Temp)
	case scene.KindPlanet:
		if m.Highlight {
			return glyphPlanet, colorHighlight
		}
		return glyphPlanet, colorPlanet
	default:
		return '?', colorLabel
	}
}

// starColor approximates a blackbody tint for an effective temperature.
func starColor(temp float64) string {
	switch {
	case !(temp > 0):
		return "#FFF4E8"
	case temp < 3700:
		return "#FF9E6B"
	case temp < 5200:
		return "#FFC98A"
	case temp < 6000:
		return "#FFF1C9"
	case temp < 7500:
		return "#F8F7FF"
	default:
		return "#9DB4FF"
	}
}
