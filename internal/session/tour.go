package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/litescript/ls-exoplanets/internal/feed"
	"github.com/litescript/ls-exoplanets/internal/view"
)

// maxSettleFrames bounds one tour step at 60 s of simulated 60 fps frames.
const maxSettleFrames = 60 * 60

// DefaultTour visits the first notable system and one of its planets, the
// host star, both distance modes, the galactic centre, and a random planet.
func DefaultTour(cat view.Catalog) []feed.Command {
	notable := cat.NotableSystems()
	if len(notable) == 0 {
		return []feed.Command{{Action: "center"}, {Action: "galaxy"}}
	}
	sys := notable[0]
	cmds := []feed.Command{{Action: "system", Target: sys.StarName}}
	if p := sys.Primary(); p != nil {
		cmds = append(cmds, feed.Command{Action: "planet", Target: p.Name}, feed.Command{Action: "back"})
	}
	return append(cmds,
		feed.Command{Action: "star"},
		feed.Command{Action: "back"},
		feed.Command{Action: "realistic"},
		feed.Command{Action: "compressed"},
		feed.Command{Action: "galaxy"},
		feed.Command{Action: "center"},
		feed.Command{Action: "galaxy"},
		feed.Command{Action: "random-planet"},
		feed.Command{Action: "galaxy"},
	)
}

// StepResult is the outcome of one tour command.
type StepResult struct {
	Command feed.Command
	Mode    view.Mode
	Entity  string
	Err     error
}

// RunTour applies each command and settles before the next. Rejected
// commands are reported in the results and the tour carries on.
func (s *Session) RunTour(ctx context.Context, cmds []feed.Command, advance func(time.Duration)) ([]StepResult, error) {
	results := make([]StepResult, 0, len(cmds))
	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		err := s.Apply(c)
		if err != nil {
			s.log.Info("tour %s: %v", c, err)
		}
		if serr := s.Settle(ctx, advance, maxSettleFrames); serr != nil {
			return results, fmt.Errorf("tour %s: %w", c, serr)
		}
		results = append(results, StepResult{
			Command: c,
			Mode:    s.Machine.Mode(),
			Entity:  s.Machine.Selection().Name(),
			Err:     err,
		})
	}
	return results, nil
}

// WriteEvents prints the last n navigation events, oldest first.
func (s *Session) WriteEvents(w io.Writer, n int) {
	events := s.State.RecentEvents(n)
	if len(events) == 0 {
		fmt.Fprintln(w, "No navigation events.")
		return
	}
	fmt.Fprintln(w, "NAVIGATION EVENTS")
	for _, e := range events {
		line := fmt.Sprintf("%s  %-20s %s -> %s", e.At.Format("15:04:05.000"), e.Kind, e.From, e.To)
		if e.Entity != "" {
			line += "  " + e.Entity
		}
		if e.Source != "" {
			line += "  [" + e.Source + "]"
		}
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

// WriteResults prints one line per tour step.
func WriteResults(w io.Writer, results []StepResult) {
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		name := r.Entity
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%-22s %-16s %-20s %s\n", r.Command, r.Mode, name, status)
	}
}
