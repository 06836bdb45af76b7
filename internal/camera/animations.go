package camera

import (
	"time"

	"github.com/litescript/ls-exoplanets/internal/astro"
)

// animation advances the pose for the time elapsed since it started and
// reports whether it has finished.
type animation interface {
	begin(s *State)
	step(s *State, elapsed time.Duration) bool
}

func progress(elapsed, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return clamp01(float64(elapsed) / float64(d))
}

// moveTo flies the camera to a fixed point and turns it toward the scene
// origin.
type moveTo struct {
	target   astro.Vec3
	duration time.Duration

	fromPos, fromLook astro.Vec3
}

func (a *moveTo) begin(s *State) { a.fromPos, a.fromLook = s.Position, s.LookAt }

func (a *moveTo) step(s *State, elapsed time.Duration) bool {
	t := progress(elapsed, a.duration)
	e := EaseOutCubic(t)
	s.Position = a.fromPos.Lerp(a.target, e)
	s.LookAt = a.fromLook.Lerp(astro.Vec3{}, e)
	return t >= 1
}

// moveBoth animates position and look-at toward independent points.
type moveBoth struct {
	pos, look astro.Vec3
	duration  time.Duration

	fromPos, fromLook astro.Vec3
}

func (a *moveBoth) begin(s *State) { a.fromPos, a.fromLook = s.Position, s.LookAt }

func (a *moveBoth) step(s *State, elapsed time.Duration) bool {
	t := progress(elapsed, a.duration)
	e := EaseInOutCubic(t)
	s.Position = a.fromPos.Lerp(a.pos, e)
	s.LookAt = a.fromLook.Lerp(a.look, e)
	return t >= 1
}

// track frames a moving target. The camera converges on target+offset while
// carrying the target's displacement since the start, so the framing holds
// even though the target keeps moving.
type track struct {
	target   func() astro.Vec3
	offset   astro.Vec3
	duration time.Duration

	fromPos, fromLook, target0 astro.Vec3
}

func (a *track) begin(s *State) {
	a.fromPos, a.fromLook = s.Position, s.LookAt
	a.target0 = a.target()
}

func (a *track) step(s *State, elapsed time.Duration) bool {
	t := progress(elapsed, a.duration)
	e := EaseInOutCubic(t)
	cur := a.target()
	moved := cur.Sub(a.target0)
	s.Position = a.fromPos.Lerp(a.target0.Add(a.offset), e).Add(moved)
	s.LookAt = a.fromLook.Lerp(cur, e)
	return t >= 1
}

// Waypoint is one segment of a fly-through. OnReach runs once when the
// camera arrives at the waypoint.
type Waypoint struct {
	Position astro.Vec3
	LookAt   astro.Vec3
	Duration time.Duration
	Ease     Easing // nil means EaseInOutCubic
	OnReach  func()
}

// flyThrough visits waypoints in order, each segment over its own duration.
type flyThrough struct {
	waypoints []Waypoint

	fromPos, fromLook astro.Vec3
	reached           int
	stopped           bool
}

func (a *flyThrough) begin(s *State) { a.fromPos, a.fromLook = s.Position, s.LookAt }

func (a *flyThrough) stop() { a.stopped = true }

// reach fires OnReach for every waypoint before index n not yet reached,
// in order. A callback that cancels the fly-through ends the loop.
func (a *flyThrough) reach(n int) {
	for a.reached < n && !a.stopped {
		wp := a.waypoints[a.reached]
		a.reached++
		if wp.OnReach != nil {
			wp.OnReach()
		}
	}
}

func (a *flyThrough) step(s *State, elapsed time.Duration) bool {
	var start time.Duration
	fromPos, fromLook := a.fromPos, a.fromLook
	for i, wp := range a.waypoints {
		end := start + wp.Duration
		if elapsed < end {
			ease := wp.Ease
			if ease == nil {
				ease = EaseInOutCubic
			}
			e := ease(progress(elapsed-start, wp.Duration))
			s.Position = fromPos.Lerp(wp.Position, e)
			s.LookAt = fromLook.Lerp(wp.LookAt, e)
			// Callbacks run after the pose write so a successor they start
			// owns the pose from here on.
			a.reach(i)
			return false
		}
		start = end
		fromPos, fromLook = wp.Position, wp.LookAt
	}
	s.Position, s.LookAt = fromPos, fromLook
	a.reach(len(a.waypoints))
	return !a.stopped
}
