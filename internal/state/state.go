// Package state provides thread-safe state sharing between the frame loop and
// readers on other goroutines such as the feed server.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/view"
)

// CameraPose is the camera part of a frame.
type CameraPose struct {
	Position      astro.Vec3 `json:"position"`
	LookAt        astro.Vec3 `json:"lookAt"`
	Distance      float64    `json:"distance"`
	FOV           float64    `json:"fov"`
	Transitioning bool       `json:"transitioning"`
	Following     bool       `json:"following"`
}

// Frame is the navigation state at one tick.
type Frame struct {
	Timestamp    time.Time  `json:"timestamp"`
	Mode         string     `json:"mode"`
	System       string     `json:"system,omitempty"`
	Planet       string     `json:"planet,omitempty"`
	DistanceMode string     `json:"distanceMode"`
	Camera       CameraPose `json:"camera"`
	Commits      uint64     `json:"commits"`
	LastError    string     `json:"lastError,omitempty"`
}

// Capture reads a frame from the machine. Call it on the frame goroutine.
func Capture(m *view.Machine) Frame {
	st := m.Camera().State()
	sel := m.Selection()
	f := Frame{
		Timestamp:    m.Camera().Clock().Now(),
		Mode:         m.Mode().String(),
		DistanceMode: m.DistanceMode().String(),
		Camera: CameraPose{
			Position:      st.Position,
			LookAt:        st.LookAt,
			Distance:      st.Distance(),
			FOV:           st.FOV,
			Transitioning: m.Transitioning(),
			Following:     st.IsFollowingPlanet,
		},
		Commits: m.Commits(),
	}
	if sel.System != nil {
		f.System = sel.System.StarName
	}
	if sel.Kind == view.KindPlanet && sel.Planet != nil {
		f.Planet = sel.Planet.Name
	}
	if err := m.LastError(); err != nil {
		f.LastError = err.Error()
	}
	return f
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time `json:"t"`
	Value     float64   `json:"v"`
}

// Manager holds the latest frame, a camera distance history and the
// navigation event log.
type Manager struct {
	mu sync.RWMutex

	current    *Frame
	lastUpdate time.Time
	seq        uint64

	// Camera distance history
	history       []TimeSeries
	maxHistoryLen int

	// Commits per mode
	visits map[string]int

	// Event log (ring buffer)
	events       []view.Event
	maxEvents    int
	eventWriteAt int

	publishInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	PublishInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   600, // ~10 s at 60 fps
		MaxEvents:       50,
		PublishInterval: 100 * time.Millisecond,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = def.MaxEvents
	}
	if cfg.MaxHistoryLen <= 0 {
		cfg.MaxHistoryLen = def.MaxHistoryLen
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = def.PublishInterval
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       cfg.MaxEvents,
		events:          make([]view.Event, 0, cfg.MaxEvents),
		visits:          make(map[string]int),
		publishInterval: cfg.PublishInterval,
	}
}

// Update stores f as the current frame.
func (m *Manager) Update(f Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || f.Commits != m.current.Commits {
		m.visits[f.Mode]++
	}
	m.current = &f
	m.lastUpdate = time.Now()
	m.seq++

	m.history = append(m.history, TimeSeries{Timestamp: f.Timestamp, Value: f.Camera.Distance})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}
}

// RecordEvent appends e to the event log. It implements view.EventSink.
func (m *Manager) RecordEvent(e view.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(e)
	m.seq++
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e view.Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Seq        uint64         `json:"seq"`
	Frame      *Frame         `json:"frame,omitempty"`
	LastUpdate time.Time      `json:"lastUpdate"`
	Visits     map[string]int `json:"visits"`
	Events     []view.Event   `json:"events"`
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	visits := make(map[string]int, len(m.visits))
	for k, v := range m.visits {
		visits[k] = v
	}

	var frame *Frame
	if m.current != nil {
		f := *m.current
		frame = &f
	}

	return Snapshot{
		Seq:        m.seq,
		Frame:      frame,
		LastUpdate: m.lastUpdate,
		Visits:     visits,
		Events:     m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []view.Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]view.Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]view.Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []view.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// DistanceHistory returns a copy of the camera distance samples.
func (m *Manager) DistanceHistory() []TimeSeries {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TimeSeries, len(m.history))
	copy(out, m.history)
	return out
}

// Seq increases with every update and event; readers use it to skip
// unchanged state.
func (m *Manager) Seq() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seq
}

// PublishInterval returns how often readers should poll.
func (m *Manager) PublishInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.publishInterval
}

// SetPublishInterval updates the poll interval.
func (m *Manager) SetPublishInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishInterval = d
}

// HasData returns true once a frame has been stored.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
