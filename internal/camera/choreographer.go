package camera

import (
	"errors"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/litescript/ls-exoplanets/internal/astro"
	"github.com/litescript/ls-exoplanets/internal/logging"
)

// ErrAnimating is returned by user camera controls while an animation runs.
var ErrAnimating = errors.New("camera animation in progress")

// Config holds choreographer tuning.
type Config struct {
	FPS             int     // frame rate the follow spring is stepped at
	FollowFrequency float64 // follow spring angular frequency
	FollowDamping   float64 // 1 is critically damped
	MinDistance     float64 // closest a dolly may bring the camera
}

// DefaultConfig returns the tuning used by the viewer.
func DefaultConfig() Config {
	return Config{
		FPS:             60,
		FollowFrequency: 6.0,
		FollowDamping:   1.0,
		MinDistance:     0.5,
	}
}

type activeRun struct {
	anim   animation
	start  time.Time
	handle *Handle
	onDone func()
}

type timer struct {
	at  time.Time
	gen uint64
	fn  func()
}

type follow struct {
	target func() (astro.Vec3, bool)
	offset astro.Vec3
	anchor astro.Vec3
	vel    astro.Vec3
}

// Choreographer runs at most one camera animation at a time against a
// shared State. It is driven by Tick from a single goroutine.
type Choreographer struct {
	cfg   Config
	state *State
	clock Clock
	log   *logging.Logger

	token  uint64
	active *activeRun

	timers   []timer
	timerGen uint64

	follow *follow
	spring harmonica.Spring
}

// New creates a choreographer that animates state.
func New(cfg Config, state *State, clock Clock, log *logging.Logger) *Choreographer {
	def := DefaultConfig()
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	if cfg.FollowFrequency <= 0 {
		cfg.FollowFrequency = def.FollowFrequency
	}
	if cfg.FollowDamping <= 0 {
		cfg.FollowDamping = def.FollowDamping
	}
	if cfg.MinDistance <= 0 {
		cfg.MinDistance = def.MinDistance
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Choreographer{
		cfg:    cfg,
		state:  state,
		clock:  clock,
		log:    logging.OrDiscard(log),
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.FollowFrequency, cfg.FollowDamping),
	}
}

// State returns the camera pose being animated.
func (c *Choreographer) State() *State { return c.state }

// Clock returns the time source.
func (c *Choreographer) Clock() Clock { return c.clock }

// Animating reports whether an animation is running.
func (c *Choreographer) Animating() bool { return c.active != nil }

// ActiveToken returns the token of the running animation, or 0.
func (c *Choreographer) ActiveToken() uint64 {
	if c.active == nil {
		return 0
	}
	return c.active.handle.token
}

// MoveTo flies the camera to target while turning it toward the origin.
func (c *Choreographer) MoveTo(target astro.Vec3, d time.Duration, onDone func()) *Handle {
	return c.start(&moveTo{target: target, duration: d}, onDone)
}

// MoveBoth animates position and look-at toward independent targets.
func (c *Choreographer) MoveBoth(pos, lookAt astro.Vec3, d time.Duration, onDone func()) *Handle {
	return c.start(&moveBoth{pos: pos, look: lookAt, duration: d}, onDone)
}

// Track frames a moving target from offset, following it while the
// animation runs.
func (c *Choreographer) Track(target func() astro.Vec3, offset astro.Vec3, d time.Duration, onDone func()) *Handle {
	return c.start(&track{target: target, offset: offset, duration: d}, onDone)
}

// FlyThrough visits waypoints in order.
func (c *Choreographer) FlyThrough(waypoints []Waypoint, onDone func()) *Handle {
	wps := make([]Waypoint, len(waypoints))
	copy(wps, waypoints)
	return c.start(&flyThrough{waypoints: wps}, onDone)
}

// start cancels whatever is running, pending timers and follow mode, then
// begins anim under a fresh token.
func (c *Choreographer) start(anim animation, onDone func()) *Handle {
	c.Cancel()
	c.cancelTimers()
	c.StopFollow()

	c.token++
	h := newHandle(c.token)
	anim.begin(c.state)
	c.active = &activeRun{anim: anim, start: c.clock.Now(), handle: h, onDone: onDone}
	c.state.IsTransitioning = true
	c.log.Debug("animation %d started (%T)", h.token, anim)
	return h
}

// Cancel stops the running animation. Its completion callback never runs.
// The transition flag stays set; the caller either starts a new animation
// or clears it with Settle.
func (c *Choreographer) Cancel() {
	r := c.active
	if r == nil {
		return
	}
	c.active = nil
	if s, ok := r.anim.(interface{ stop() }); ok {
		s.stop()
	}
	if r.handle.finish(Cancelled) {
		c.log.Debug("animation %d cancelled", r.handle.token)
	}
}

// Settle cancels any animation and clears the transition flag.
func (c *Choreographer) Settle() {
	c.Cancel()
	c.state.IsTransitioning = false
}

// Tick advances timers, the running animation and follow mode to the
// clock's current time.
func (c *Choreographer) Tick() {
	now := c.clock.Now()
	c.fireTimers(now)

	r := c.active
	if r == nil {
		c.stepFollow()
		return
	}
	done := r.anim.step(c.state, now.Sub(r.start))
	if c.active != r || !done {
		return
	}
	c.complete(r)
}

// complete runs the callback before clearing the flag, and only clears it
// if the callback did not start a successor.
func (c *Choreographer) complete(r *activeRun) {
	c.active = nil
	r.handle.finish(Completed)
	c.log.Debug("animation %d completed", r.handle.token)
	if r.onDone != nil {
		r.onDone()
	}
	if c.active == nil && c.token == r.handle.token {
		c.state.IsTransitioning = false
	}
}

// After schedules fn to run on the first tick at or after d from now.
// Starting a new animation cancels every pending timer.
func (c *Choreographer) After(d time.Duration, fn func()) {
	c.timers = append(c.timers, timer{at: c.clock.Now().Add(d), gen: c.timerGen, fn: fn})
}

// PendingTimers returns the number of scheduled timers.
func (c *Choreographer) PendingTimers() int { return len(c.timers) }

func (c *Choreographer) cancelTimers() {
	c.timers = nil
	c.timerGen++
}

func (c *Choreographer) fireTimers(now time.Time) {
	if len(c.timers) == 0 {
		return
	}
	var due []timer
	kept := c.timers[:0]
	for _, t := range c.timers {
		if !now.Before(t.at) {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	c.timers = kept
	for _, t := range due {
		if t.gen != c.timerGen {
			continue
		}
		t.fn()
	}
}

// Follow keeps the current camera offset relative to a moving target,
// smoothing the anchor with a spring. It fails while animating. Follow mode
// ends when target reports false or any animation starts.
func (c *Choreographer) Follow(target func() (astro.Vec3, bool)) error {
	if c.active != nil || c.state.IsTransitioning {
		return ErrAnimating
	}
	anchor := c.state.LookAt
	c.follow = &follow{
		target: target,
		offset: c.state.Position.Sub(anchor),
		anchor: anchor,
	}
	c.state.IsFollowingPlanet = true
	c.state.FollowAnchor = &anchor
	return nil
}

// StopFollow leaves follow mode.
func (c *Choreographer) StopFollow() {
	c.follow = nil
	c.state.IsFollowingPlanet = false
	c.state.FollowAnchor = nil
}

func (c *Choreographer) stepFollow() {
	f := c.follow
	if f == nil {
		return
	}
	tgt, ok := f.target()
	if !ok || !tgt.IsFinite() {
		c.StopFollow()
		return
	}
	f.anchor.X, f.vel.X = c.spring.Update(f.anchor.X, f.vel.X, tgt.X)
	f.anchor.Y, f.vel.Y = c.spring.Update(f.anchor.Y, f.vel.Y, tgt.Y)
	f.anchor.Z, f.vel.Z = c.spring.Update(f.anchor.Z, f.vel.Z, tgt.Z)
	anchor := f.anchor
	c.state.LookAt = anchor
	c.state.Position = anchor.Add(f.offset)
	c.state.FollowAnchor = &anchor
}

// Dolly scales the camera's distance to its look-at point by factor
// (<1 moves in). It is rejected while an animation runs.
func (c *Choreographer) Dolly(factor float64) error {
	if c.active != nil || c.state.IsTransitioning {
		return ErrAnimating
	}
	if !(factor > 0) {
		return nil
	}
	dir := c.state.Position.Sub(c.state.LookAt)
	d := dir.Norm() * factor
	if d < c.cfg.MinDistance {
		d = c.cfg.MinDistance
	}
	if dir.Norm() == 0 {
		dir = astro.Vec3{Z: 1}
	}
	offset := dir.Normalized().Scale(d)
	c.state.Position = c.state.LookAt.Add(offset)
	if c.follow != nil {
		c.follow.offset = offset
	}
	return nil
}
