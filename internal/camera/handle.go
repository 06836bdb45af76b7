package camera

import (
	"context"
	"sync"
)

// Status is the lifecycle stage of one animation.
type Status int

const (
	Idle Status = iota
	Running
	Completed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Handle observes one started animation. It is safe to use from any
// goroutine.
type Handle struct {
	token uint64

	mu     sync.Mutex
	status Status
	done   chan struct{}
}

func newHandle(token uint64) *Handle {
	return &Handle{token: token, status: Running, done: make(chan struct{})}
}

// Token identifies the animation. Tokens increase with every start.
func (h *Handle) Token() uint64 { return h.token }

// Status returns the current lifecycle stage.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Done is closed once the animation is completed or cancelled.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the animation finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Status, error) {
	select {
	case <-h.done:
		return h.Status(), nil
	case <-ctx.Done():
		return h.Status(), ctx.Err()
	}
}

// finish moves a running handle into a terminal status. Later calls are
// ignored.
func (h *Handle) finish(s Status) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status != Running {
		return false
	}
	h.status = s
	close(h.done)
	return true
}
