// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/feed"
	"github.com/litescript/ls-exoplanets/internal/orbit"
	"github.com/litescript/ls-exoplanets/internal/session"
	"github.com/litescript/ls-exoplanets/internal/version"
	"github.com/litescript/ls-exoplanets/internal/view"
)

const (
	sidebarWidth  = 40
	headerHeight  = 3
	footerHeight  = 2
	statusTimeout = 4 * time.Second

	dollyIn  = 0.8
	dollyOut = 1.25
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg drives one frame of the session.
	AnimTickMsg time.Time
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d0c8ff")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7B2CBF"))
)

// Model is the root Bubble Tea model. The session is driven from Update
// only, which bubbletea runs on one goroutine.
type Model struct {
	sess     *session.Session
	panel    *Panel
	commands <-chan feed.Command

	width  int
	height int
	ready  bool

	cursor      int
	seenUpdates int
	labels      bool
	animTick    int

	searching bool
	query     string // text being typed
	filter    string // applied filter

	status    string
	statusErr bool
	statusAt  time.Time
}

// New creates the root model. panel must be the notifier the session was
// built with; commands may be nil.
func New(sess *session.Session, panel *Panel, commands <-chan feed.Command) Model {
	return Model{
		sess:        sess,
		panel:       panel,
		commands:    commands,
		labels:      true,
		seenUpdates: panel.Updates(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), animTickCmd(m.sess.FrameInterval()))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case AnimTickMsg:
		m.sess.Drain(m.commands)
		m.sess.Frame()
		m.animTick++
		m.syncPanel()
		return m, animTickCmd(m.sess.FrameInterval())

	case TickMsg:
		if m.status != "" && m.sess.Clock.Now().Sub(m.statusAt) > statusTimeout {
			m.status, m.statusErr = "", false
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mach := m.sess.Machine
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter":
		m.selectCurrent()
	case "b", "backspace", "esc":
		m.report("back", mach.Back(view.SourceUser))
	case "g":
		m.report("galaxy", mach.ShowGalaxy(view.SourceUser))
	case "c":
		m.report("galactic centre", mach.ShowGalacticCenter(view.SourceUser))
	case "s":
		m.report("star", mach.SelectStar(view.SourceUser))
	case "n":
		m.report("random planet", mach.SelectRandomPlanet())
	case "R":
		m.report("random system", mach.SelectRandomSystem())
	case "r":
		dm := orbit.Realistic
		if mach.DistanceMode() == orbit.Realistic {
			dm = orbit.Compressed
		}
		if err := mach.SetDistanceMode(dm); err != nil {
			m.report("distance mode", err)
		} else {
			m.setStatus(dm.String() + " distances", false)
		}
	case "+", "=":
		m.report("zoom", mach.Camera().Dolly(dollyIn))
	case "-", "_":
		m.report("zoom", mach.Camera().Dolly(dollyOut))
	case "l":
		m.labels = !m.labels
	case "/":
		m.searching, m.query = true, ""
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching, m.query, m.filter = false, "", ""
		m.cursor = 0
	case tea.KeyEnter:
		m.searching, m.filter = false, strings.TrimSpace(m.query)
		m.cursor = 0
		if len(m.items()) == 0 {
			m.setStatus(fmt.Sprintf("no match for %q", m.filter), true)
		}
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.query += " "
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	}
	return m, nil
}

// syncPanel resets the list after each commit.
func (m *Model) syncPanel() {
	if u := m.panel.Updates(); u != m.seenUpdates {
		m.seenUpdates = u
		m.filter = ""
		m.cursor = 0
		sel := m.panel.Entity()
		for i, it := range m.items() {
			if it.System == sel.System && it.Planet == sel.Planet {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
}

func (m *Model) moveCursor(d int) {
	m.cursor += d
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// items returns the results list with the search filter applied.
func (m Model) items() []Item {
	if m.filter == "" {
		return m.panel.Items()
	}
	switch m.panel.Mode() {
	case view.Galaxy, view.GalacticCenter:
		return systemItems(m.sess.Store.Search(m.filter))
	default:
		sys := m.panel.Entity().System
		if sys == nil {
			return nil
		}
		return planetItems(sys, m.filter)
	}
}

// Cursor returns the highlighted row.
func (m Model) Cursor() int { return m.cursor }

// Items returns the rows currently listed.
func (m Model) Items() []Item { return m.items() }

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

func (m *Model) selectCurrent() {
	items := m.items()
	if len(items) == 0 {
		m.setStatus("nothing to select", true)
		return
	}
	it := items[m.cursor]
	mach := m.sess.Machine
	if it.Planet != nil {
		m.report(it.Label, mach.SelectPlanetVia(it.Planet, view.SourceUser))
		return
	}
	m.report(it.Label, mach.SelectSystem(it.System, view.SourceUser))
}

func (m *Model) report(action string, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, camera.ErrAnimating):
		m.setStatus("camera busy", true)
	default:
		m.setStatus(fmt.Sprintf("%s: %v", action, err), true)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status, m.statusErr, m.statusAt = text, isErr, m.sess.Clock.Now()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	header := m.renderHeader()
	footer := m.renderFooter()

	bodyH := m.height - headerHeight - footerHeight - 2
	if bodyH < 4 {
		bodyH = 4
	}
	canvasW := m.width - sidebarWidth - 4
	if canvasW < 10 {
		canvasW = 10
	}
	viewport := boxStyle.Width(canvasW).Height(bodyH).Render(m.renderScene(canvasW, bodyH))
	sidebar := boxStyle.Width(sidebarWidth).Height(bodyH).Render(m.renderSidebar(bodyH))

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, viewport, sidebar) + "\n" + footer
}

func (m Model) renderScene(w, h int) string {
	p := NewProjector(m.sess.Machine.Camera().State(), w, h)
	c := NewCanvas(w, h)
	c.DrawMeshes(p, m.sess.Galaxy.Meshes(), m.labels)
	c.DrawMeshes(p, m.sess.System.Meshes(), m.labels)
	return c.String()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(renderTitle("LS-EXOPLANETS"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  v%s · exoplanet navigator", version.Version)))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString("  " + m.renderBreadcrumb())
	return b.String()
}

// renderTitle renders text with the horizontal logo gradient.
func renderTitle(text string) string {
	var b strings.Builder
	b.WriteString("  ")
	runes := []rune(text)
	for col, r := range runes {
		color := gradientColor(col, 0, len(runes), 1)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(string(r)))
	}
	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// blue, purple, magenta, pink.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	// Brighter at top
	f := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*f), clampByte(g*f), clampByte(b*f))
}

func clampByte(v float64) int {
	switch {
	case v > 255:
		return 255
	case v < 0:
		return 0
	default:
		return int(v)
	}
}

func (m Model) renderTabs() string {
	mode := m.sess.Machine.Mode()
	var parts []string
	for _, md := range view.Modes {
		if md == mode {
			parts = append(parts, accentStyle.Render("▶ "+md.String()))
		} else {
			parts = append(parts, dimStyle.Render("  "+md.String()))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderBreadcrumb() string {
	sel := m.sess.Machine.Selection()
	crumbs := []string{"Milky Way"}
	switch m.sess.Machine.Mode() {
	case view.GalacticCenter:
		crumbs = append(crumbs, "Sgr A*")
	case view.System:
		crumbs = append(crumbs, sel.Name())
	case view.Planet, view.Star:
		if sel.System != nil {
			crumbs = append(crumbs, sel.System.StarName)
		}
		if sel.Planet != nil {
			crumbs = append(crumbs, sel.Planet.Name)
		} else {
			crumbs = append(crumbs, "host star")
		}
	}
	return titleStyle.Render(strings.Join(crumbs, " › "))
}

func (m Model) renderSidebar(h int) string {
	var b strings.Builder
	b.WriteString(accentStyle.Render("INFO"))
	b.WriteString("\n")
	info := m.panel.InfoLines()
	for i, line := range info {
		if i == 0 {
			b.WriteString(titleStyle.Render(line))
		} else {
			b.WriteString(dimStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	prompt := m.panel.Placeholder()
	switch {
	case m.searching:
		prompt = "/" + m.query + "▏"
	case m.filter != "":
		prompt = fmt.Sprintf("filter: %s · esc clears", truncate(m.filter, 16))
	}
	b.WriteString(dimStyle.Render(prompt))
	b.WriteString("\n")

	items := m.items()
	rows := h - len(info) - 4
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	for i := start; i < len(items) && i < start+rows; i++ {
		it := items[i]
		line := fmt.Sprintf("%-18s %s", truncate(it.Label, 18), it.Detail)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("▶ " + truncate(line, sidebarWidth-2)))
		} else {
			b.WriteString("  " + truncate(line, sidebarWidth-2))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func (m Model) renderFooter() string {
	mach := m.sess.Machine
	st := mach.Camera().State()

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	var state string
	if req, ok := mach.Pending(); ok {
		spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
		state = accentStyle.Render(spinner) + dimStyle.Render(" "+req.String())
	} else {
		state = dimStyle.Render(fmt.Sprintf("dist %.1f", st.Distance()))
		if t, ok := m.sess.Monitor.Threshold(); ok {
			state += dimStyle.Render(fmt.Sprintf(" (exit %.0f)", t))
		}
		if st.IsFollowingPlanet {
			state += dimStyle.Render(" · following")
		}
	}
	state += dimStyle.Render(" · " + mach.DistanceMode().String())

	line := "  " + state
	if m.status != "" {
		if m.statusErr {
			line += "  " + errorStyle.Render(m.status)
		} else {
			line += "  " + accentStyle.Render(m.status)
		}
	}
	help := dimStyle.Render("  j/k: move | enter: select | b: back | g: galaxy | c: centre | s: star | r: distances | +/-: zoom | n/R: random | /: search | l: labels | q: quit")
	return line + "\n" + help
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
