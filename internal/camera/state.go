// Package camera owns the camera pose and animates it with cancellable,
// token-guarded animations driven by a frame tick.
package camera

import "github.com/litescript/ls-exoplanets/internal/astro"

// DefaultFOV is the vertical field of view in degrees.
const DefaultFOV = 60

// State is the single camera pose shared by the choreographer and the view
// state machine.
type State struct {
	Position          astro.Vec3
	LookAt            astro.Vec3
	IsTransitioning   bool
	LastKnownDistance float64
	IsFollowingPlanet bool
	FollowAnchor      *astro.Vec3
	FOV               float64 // degrees
}

// NewState returns a camera at pos looking at lookAt.
func NewState(pos, lookAt astro.Vec3) *State {
	s := &State{Position: pos, LookAt: lookAt, FOV: DefaultFOV}
	s.LastKnownDistance = s.Distance()
	return s
}

// Distance returns |Position - LookAt|.
func (s *State) Distance() float64 {
	return s.Position.DistanceTo(s.LookAt)
}

// Rebase shifts the pose by delta, used when the scene origin changes.
// Relative geometry is unchanged.
func (s *State) Rebase(delta astro.Vec3) {
	s.Position = s.Position.Add(delta)
	s.LookAt = s.LookAt.Add(delta)
	if s.FollowAnchor != nil {
		a := s.FollowAnchor.Add(delta)
		s.FollowAnchor = &a
	}
}
