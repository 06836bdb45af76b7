package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/logging"
	"github.com/litescript/ls-exoplanets/internal/orbit"
)

// Deps are the collaborators a Machine drives. Galaxy renders the Galaxy and
// GalacticCenter modes; System renders System, Planet and Star.
type Deps struct {
	Camera   *camera.Choreographer
	Orbits   *orbit.Cache
	Catalog  Catalog
	Galaxy   Renderer
	System   Renderer
	Tracker  Tracker
	Notifier Notifier
	Events   EventSink
	Recorder Recorder
	Log      *logging.Logger
}

// stage is one animation of a transition. run starts it and must arrange
// for done to be called on completion.
type stage struct {
	name string
	run  func(done func()) *camera.Handle
}

// transition is an in-flight request: ordered stages, then a commit.
type transition struct {
	req      TransitionRequest
	stages   []stage
	next     int
	started  time.Time
	handle   *camera.Handle
	origin   astro.Vec3 // scene origin after commit, galactic frame
	commit   func() error
	rollback func() // undoes side effects taken before the commit; may be nil
	followUp *TransitionRequest

	fromPos, fromLook astro.Vec3 // pose when the transition began
}

// Machine is the view state machine. It is not safe for concurrent use;
// every call, including Tick, must come from the frame goroutine.
type Machine struct {
	cfg Config
	log *logging.Logger

	cam     *camera.Choreographer
	orbits  *orbit.Cache
	cat     Catalog
	galaxy  Renderer
	system  Renderer
	tracker Tracker
	notify  Notifier
	events  EventSink
	rec     Recorder

	mode         Mode
	sel          Entity
	origin       astro.Vec3 // current scene origin, galactic frame
	layout       orbit.Layout
	systemBounds Bounds

	pending *transition
	commits uint64
	lastErr error
}

// NewMachine creates a machine in Galaxy mode with the camera at the
// default galaxy pose.
func NewMachine(cfg Config, deps Deps) *Machine {
	m := &Machine{
		cfg:     cfg.withDefaults(),
		log:     logging.OrDiscard(deps.Log),
		cam:     deps.Camera,
		orbits:  deps.Orbits,
		cat:     deps.Catalog,
		galaxy:  deps.Galaxy,
		system:  deps.System,
		tracker: deps.Tracker,
		notify:  deps.Notifier,
		events:  deps.Events,
		rec:     deps.Recorder,
		mode:    Galaxy,
	}
	if m.notify == nil {
		m.notify = noopNotifier{}
	}
	if m.events == nil {
		m.events = noopSink{}
	}
	if m.rec == nil {
		m.rec = noopRecorder{}
	}
	st := m.cam.State()
	st.Position, st.LookAt = m.cfg.GalaxyPosition, m.cfg.GalaxyLookAt
	st.LastKnownDistance = st.Distance()
	return m
}

// Start renders the initial galaxy scene and publishes the UI state.
func (m *Machine) Start() error {
	if !m.galaxy.Ready() {
		return fmt.Errorf("start galaxy view: %w", ErrRendererUnavailable)
	}
	if _, err := m.galaxy.Render(RenderRequest{Mode: Galaxy}); err != nil {
		return fmt.Errorf("start galaxy view: %w: %v", ErrRendererUnavailable, err)
	}
	m.publish()
	return nil
}

// Tick advances the camera; transitions advance and commit from here.
func (m *Machine) Tick() { m.cam.Tick() }

// Mode returns the active view mode.
func (m *Machine) Mode() Mode { return m.mode }

// Selection returns the current selection.
func (m *Machine) Selection() Entity { return m.sel }

// Origin returns the current scene origin in the galactic frame.
func (m *Machine) Origin() astro.Vec3 { return m.origin }

// Layout returns the layout of the system on screen, if any.
func (m *Machine) Layout() orbit.Layout { return m.layout }

// Camera returns the choreographer.
func (m *Machine) Camera() *camera.Choreographer { return m.cam }

// Config returns the poses and durations in use.
func (m *Machine) Config() Config { return m.cfg }

// DistanceMode returns the orbit engine's mode.
func (m *Machine) DistanceMode() orbit.DistanceMode { return m.orbits.Engine().Mode() }

// Commits returns the number of committed transitions.
func (m *Machine) Commits() uint64 { return m.commits }

// LastError returns the error of the most recent aborted transition.
func (m *Machine) LastError() error { return m.lastErr }

// Transitioning reports whether a transition is in flight or the camera is
// animating.
func (m *Machine) Transitioning() bool {
	return m.pending != nil || m.cam.State().IsTransitioning
}

// Pending returns the in-flight request.
func (m *Machine) Pending() (TransitionRequest, bool) {
	if m.pending == nil {
		return TransitionRequest{}, false
	}
	return m.pending.req, true
}

// Handle returns the handle of the running stage, or nil.
func (m *Machine) Handle() *camera.Handle {
	if m.pending == nil {
		return nil
	}
	return m.pending.handle
}

// Request validates req against the transition table and starts it.
// Requests made while a transition is in flight are rejected with
// ErrTransitionInFlight. A request for the current mode and selection is a
// no-op.
func (m *Machine) Request(req TransitionRequest) error {
	req.Origin = m.mode
	if m.Transitioning() {
		return m.reject(req, ErrTransitionInFlight)
	}

	req, err := m.resolve(req)
	if err != nil {
		return m.reject(req, err)
	}
	if req.Target == m.mode && (req.Target == Galaxy || req.Target == GalacticCenter || req.Entity.Same(m.sel)) {
		m.log.Debug("no-op %s", req)
		return nil
	}

	t, err := m.plan(req)
	if err != nil {
		return m.reject(req, err)
	}
	if r := m.rendererFor(req.Target); !r.Ready() {
		return m.reject(req, fmt.Errorf("%s scene: %w", req.Target, ErrRendererUnavailable))
	}
	m.begin(t)
	return nil
}

// resolve fills in the entity a request needs from the catalog or the
// current selection.
func (m *Machine) resolve(req TransitionRequest) (TransitionRequest, error) {
	e := req.Entity
	switch req.Target {
	case Galaxy, GalacticCenter:
		req.Entity = Entity{}
	case System:
		if e.System == nil && e.Planet != nil {
			e.System, _ = m.cat.SystemForStar(e.Planet.HostStar)
		}
		if e.System == nil {
			e.System = m.sel.System
		}
		if e.System == nil {
			return req, fmt.Errorf("system view: %w", ErrNoSelection)
		}
		req.Entity = SystemEntity(e.System)
	case Planet:
		if e.Planet == nil {
			return req, fmt.Errorf("planet view: %w", ErrNoSelection)
		}
		if e.System == nil {
			sys, ok := m.cat.SystemForStar(e.Planet.HostStar)
			if !ok {
				return req, fmt.Errorf("planet %s host %q: %w", e.Planet.Name, e.Planet.HostStar, ErrUnknownEntity)
			}
			e.System = sys
		}
		if e.System.Planet(e.Planet.Name) != e.Planet {
			return req, fmt.Errorf("planet %s in %s: %w", e.Planet.Name, e.System.StarName, ErrUnknownEntity)
		}
		req.Entity = PlanetEntity(e.System, e.Planet)
	case Star:
		if e.System == nil {
			e.System = m.sel.System
		}
		if e.System == nil {
			return req, fmt.Errorf("star view: %w", ErrNoSelection)
		}
		req.Entity = StarEntity(e.System)
	default:
		return req, fmt.Errorf("mode %d: %w", req.Target, ErrIllegalTransition)
	}
	return req, nil
}

func (m *Machine) rendererFor(mode Mode) Renderer {
	if mode.inSystem() {
		return m.system
	}
	return m.galaxy
}

func (m *Machine) reject(req TransitionRequest, err error) error {
	reason := reasonOf(err)
	m.log.Warn("rejected %s: %v", req, err)
	m.rec.TransitionRejected(req.Target, reason)
	m.record(EventRejected, req, err.Error())
	return err
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrTransitionInFlight):
		return "in_flight"
	case errors.Is(err, ErrIllegalTransition):
		return "illegal"
	case errors.Is(err, ErrRendererUnavailable):
		return "renderer"
	case errors.Is(err, ErrNoSelection):
		return "no_selection"
	case errors.Is(err, ErrUnknownEntity):
		return "unknown_entity"
	default:
		return "other"
	}
}

func (m *Machine) record(kind EventKind, req TransitionRequest, detail string) {
	m.events.RecordEvent(Event{
		Kind:   kind,
		At:     m.cam.Clock().Now(),
		From:   req.Origin.String(),
		To:     req.Target.String(),
		Entity: req.Entity.Name(),
		Source: req.Source.String(),
		Detail: detail,
	})
}

func (m *Machine) begin(t *transition) {
	t.started = m.cam.Clock().Now()
	st := m.cam.State()
	t.fromPos, t.fromLook = st.Position, st.LookAt
	m.pending = t
	m.log.Info("transition %s (%d stages)", t.req, len(t.stages))
	m.rec.TransitionStarted(t.req.Origin, t.req.Target, t.req.Source)
	m.record(EventStarted, t.req, "")
	m.runStage(t)
}

func (m *Machine) runStage(t *transition) {
	s := t.stages[t.next]
	t.next++
	m.log.Debug("stage %d/%d %s", t.next, len(t.stages), s.name)
	t.handle = s.run(func() { m.stageDone(t) })
}

// stageDone runs inside the camera's completion callback, so the next stage
// starts in the same tick and the transition flag never drops in between.
func (m *Machine) stageDone(t *transition) {
	if m.pending != t {
		return
	}
	if t.next < len(t.stages) {
		m.runStage(t)
		return
	}
	m.finish(t)
}

func (m *Machine) finish(t *transition) {
	if err := t.commit(); err != nil {
		m.abort(t, err)
		return
	}
	from := m.mode
	delta := m.origin.Sub(t.origin)
	m.cam.State().Rebase(delta)
	m.origin = t.origin
	m.mode = t.req.Target
	m.sel = t.req.Entity
	if m.mode == Galaxy || m.mode == GalacticCenter {
		m.layout = orbit.Layout{}
	}

	st := m.cam.State()
	st.LastKnownDistance = st.Distance()
	m.pending = nil
	m.lastErr = nil
	m.commits++

	elapsed := m.cam.Clock().Now().Sub(t.started)
	m.log.Info("committed %s in %s", t.req, elapsed.Round(time.Millisecond))
	m.rec.TransitionCommitted(from, m.mode, elapsed)
	m.record(EventCommitted, t.req, "")
	m.publish()

	if m.mode == Planet {
		m.scheduleFollow(m.sel.Planet)
	}
	if t.followUp != nil {
		next := *t.followUp
		// The camera clears its flag after this callback returns.
		m.cam.State().IsTransitioning = false
		if err := m.Request(next); err != nil {
			m.log.Warn("follow-up %s: %v", next, err)
		}
	}
}

// abort leaves the mode unchanged and puts the camera back where the
// transition found it, so the pose still matches the committed scene.
func (m *Machine) abort(t *transition, err error) {
	if t.rollback != nil {
		t.rollback()
	}
	st := m.cam.State()
	st.Position, st.LookAt = t.fromPos, t.fromLook
	st.LastKnownDistance = st.Distance()
	m.pending = nil
	m.lastErr = err
	m.log.Error("aborted %s: %v", t.req, err)
	m.rec.TransitionAborted(t.req.Target)
	m.record(EventAborted, t.req, err.Error())
}

func (m *Machine) scheduleFollow(p *catalog.Planet) {
	if m.tracker == nil || p == nil {
		return
	}
	m.cam.After(m.cfg.SettleDelay, func() {
		if m.mode != Planet || m.sel.Planet != p || m.Transitioning() {
			return
		}
		err := m.cam.Follow(func() (astro.Vec3, bool) { return m.tracker.PositionOf(p) })
		if err != nil {
			m.log.Debug("follow %s: %v", p.Name, err)
		}
	})
}

// publish pushes the committed state to the UI collaborators.
func (m *Machine) publish() {
	m.notify.UpdateInfoPanel(m.mode, m.sel)
	switch m.mode {
	case Galaxy, GalacticCenter:
		m.notify.UpdateResultsList(m.mode, m.cat.NotableSystems(), m.sel)
		m.notify.SetSearchPlaceholder("Search star systems...")
	default:
		m.notify.UpdateResultsList(m.mode, []*catalog.StarSystem{m.sel.System}, m.sel)
		m.notify.SetSearchPlaceholder(fmt.Sprintf("Search planets in %s...", m.sel.System.StarName))
	}
}

// SetDistanceMode switches between compressed and realistic orbits. In
// System mode the system is re-rendered and reframed; in Planet and Star
// mode the change is refused because the focused body would jump.
func (m *Machine) SetDistanceMode(dm orbit.DistanceMode) error {
	req := TransitionRequest{Target: m.mode, Entity: m.sel, Origin: m.mode, Source: SourceUser}
	if m.Transitioning() {
		return m.reject(req, ErrTransitionInFlight)
	}
	eng := m.orbits.Engine()
	if eng.Mode() == dm {
		return nil
	}
	switch m.mode {
	case Planet, Star:
		return m.reject(req, fmt.Errorf("distance mode in %s view: %w", m.mode, ErrIllegalTransition))
	case System:
		if !m.system.Ready() {
			return m.reject(req, fmt.Errorf("system scene: %w", ErrRendererUnavailable))
		}
		prev := eng.Mode()
		eng.SetMode(dm)
		t := m.planRefresh(req)
		t.rollback = func() {
			eng.SetMode(prev)
			m.log.Warn("distance mode restored to %s", prev)
		}
		m.record(EventDistanceMode, req, dm.String())
		m.log.Info("distance mode %s -> %s", prev, dm)
		m.begin(t)
		return nil
	default:
		eng.SetMode(dm)
		m.record(EventDistanceMode, req, dm.String())
		m.log.Info("distance mode %s", dm)
		return nil
	}
}

// RecordAutoSwitch notes that the zoom monitor issued req.
func (m *Machine) RecordAutoSwitch(req TransitionRequest) {
	m.rec.AutoSwitch(req.Origin, req.Target)
	m.record(EventAutoSwitch, req, "")
}
