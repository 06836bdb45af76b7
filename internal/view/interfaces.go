package view

import (
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/orbit"
)

// Bounds is the bounding sphere of a rendered scene in its local frame.
type Bounds struct {
	Center astro.Vec3
	Radius float64
}

// RenderRequest describes the scene to build. Origin is the scene origin in
// the galactic frame; Layout is set for system scenes.
type RenderRequest struct {
	Mode   Mode
	Entity Entity
	Layout orbit.Layout
	Origin astro.Vec3
}

// Renderer builds and shows one kind of scene.
type Renderer interface {
	Ready() bool
	Render(req RenderRequest) (Bounds, error)
	Cleanup()
	ShowAll()
	FocusOn(e Entity)
}

// Tracker reports live planet positions in the system scene's local frame.
type Tracker interface {
	PositionOf(p *catalog.Planet) (astro.Vec3, bool)
}

// Catalog is the filtering collaborator.
type Catalog interface {
	SystemForStar(name string) (*catalog.StarSystem, bool)
	NotableSystems() []*catalog.StarSystem
	RandomPlanet() *catalog.Planet
	RandomSystem() *catalog.StarSystem
	Systems() []*catalog.StarSystem
}

// Notifier receives UI updates after each committed transition.
type Notifier interface {
	UpdateInfoPanel(mode Mode, e Entity)
	UpdateResultsList(mode Mode, systems []*catalog.StarSystem, e Entity)
	SetSearchPlaceholder(text string)
}

// EventKind names a navigation event.
type EventKind string

const (
	EventStarted         EventKind = "TRANSITION_STARTED"
	EventCommitted       EventKind = "TRANSITION_COMMITTED"
	EventRejected        EventKind = "TRANSITION_REJECTED"
	EventAborted         EventKind = "TRANSITION_ABORTED"
	EventWaypointReached EventKind = "WAYPOINT_REACHED"
	EventAutoSwitch      EventKind = "AUTO_SWITCH"
	EventDistanceMode    EventKind = "DISTANCE_MODE"
)

// Event is one entry of the navigation log.
type Event struct {
	Kind   EventKind `json:"kind"`
	At     time.Time `json:"at"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Entity string    `json:"entity,omitempty"`
	Source string    `json:"source,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// EventSink receives navigation events.
type EventSink interface {
	RecordEvent(e Event)
}

// Recorder receives transition metrics.
type Recorder interface {
	TransitionStarted(from, to Mode, src Source)
	TransitionCommitted(from, to Mode, d time.Duration)
	TransitionRejected(to Mode, reason string)
	TransitionAborted(to Mode)
	AutoSwitch(from, to Mode)
}

type noopNotifier struct{}

func (noopNotifier) UpdateInfoPanel(Mode, Entity)                          {}
func (noopNotifier) UpdateResultsList(Mode, []*catalog.StarSystem, Entity) {}
func (noopNotifier) SetSearchPlaceholder(string)                           {}

type noopSink struct{}

func (noopSink) RecordEvent(Event) {}

type noopRecorder struct{}

func (noopRecorder) TransitionStarted(Mode, Mode, Source)          {}
func (noopRecorder) TransitionCommitted(Mode, Mode, time.Duration) {}
func (noopRecorder) TransitionRejected(Mode, string)               {}
func (noopRecorder) TransitionAborted(Mode)                        {}
func (noopRecorder) AutoSwitch(Mode, Mode)                         {}
