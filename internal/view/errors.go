package view

import "errors"

var (
	// ErrTransitionInFlight rejects a request made while another transition
	// is animating. The running transition is unaffected.
	ErrTransitionInFlight = errors.New("transition in flight")
	// ErrIllegalTransition rejects a request the transition table forbids.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrRendererUnavailable aborts a transition whose scene cannot render.
	ErrRendererUnavailable = errors.New("renderer unavailable")
	// ErrNoSelection rejects a request that needs a selected system.
	ErrNoSelection = errors.New("no selection")
	// ErrUnknownEntity rejects a request for an entity the catalog lacks.
	ErrUnknownEntity = errors.New("unknown entity")
)
