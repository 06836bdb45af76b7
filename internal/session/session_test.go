package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/feed"
	"github.com/litescript/ls-exoplanets/internal/orbit"
	"github.com/litescript/ls-exoplanets/internal/view"
)

func newTestSession(t *testing.T, cfg Config) (*Session, *camera.MockClock) {
	t.Helper()
	clock := camera.NewMockClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	s, err := New(cfg, Deps{Clock: clock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, clock
}

func TestNew_Defaults(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	if s.Machine.Mode() != view.Galaxy {
		t.Errorf("mode = %v, want galaxy", s.Machine.Mode())
	}
	if got := len(s.Store.Systems()); got != len(catalog.NewStore(catalog.SamplePlanets(), 1).Systems()) {
		t.Errorf("systems = %d, want the sample catalog", got)
	}
	if s.FrameInterval() != time.Second/60 {
		t.Errorf("frame interval = %v", s.FrameInterval())
	}
	if !s.State.HasData() {
		t.Error("initial frame not published")
	}
	if s.Galaxy.Registry().Len() == 0 {
		t.Error("galaxy scene not rendered")
	}
}

func TestNew_Realistic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Realistic = true
	s, _ := newTestSession(t, cfg)
	if s.Machine.DistanceMode() != orbit.Realistic {
		t.Errorf("distance mode = %v, want realistic", s.Machine.DistanceMode())
	}
}

func TestNew_EmptyCatalog(t *testing.T) {
	_, err := New(DefaultConfig(), Deps{Planets: []*catalog.Planet{{Name: "x"}}})
	if err == nil {
		t.Fatal("expected error for a catalog without host stars")
	}
}

func TestFrame_PublishesState(t *testing.T) {
	s, clock := newTestSession(t, DefaultConfig())
	seq := s.State.Seq()
	clock.Advance(time.Second / 60)
	s.Frame()
	if s.State.Seq() != seq+1 || s.Frames() != 1 {
		t.Errorf("seq %d -> %d, frames %d", seq, s.State.Seq(), s.Frames())
	}
}

func TestDrain(t *testing.T) {
	s, clock := newTestSession(t, DefaultConfig())
	ch := make(chan feed.Command, 4)
	if s.Drain(nil) != 0 || s.Drain(ch) != 0 {
		t.Fatal("drain of an empty channel ran commands")
	}

	ch <- feed.Command{Action: "center"}
	ch <- feed.Command{Action: "galaxy"} // rejected, in flight
	if n := s.Drain(ch); n != 2 {
		t.Fatalf("drained %d, want 2", n)
	}
	if err := s.Settle(context.Background(), clock.Advance, maxSettleFrames); err != nil {
		t.Fatal(err)
	}
	if s.Machine.Mode() != view.GalacticCenter {
		t.Errorf("mode = %v, want galactic-center", s.Machine.Mode())
	}
}

func TestApply_Invalid(t *testing.T) {
	s, _ := newTestSession(t, DefaultConfig())
	if err := s.Apply(feed.Command{Action: "system"}); err == nil {
		t.Error("system without target accepted")
	}
	if err := s.Apply(feed.Command{Action: "system", Target: "Nowhere"}); !errors.Is(err, view.ErrUnknownEntity) {
		t.Errorf("unknown system = %v", err)
	}
}

func TestSettle_Cancelled(t *testing.T) {
	s, clock := newTestSession(t, DefaultConfig())
	if err := s.Apply(feed.Command{Action: "center"}); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Settle(ctx, clock.Advance, maxSettleFrames); !errors.Is(err, context.Canceled) {
		t.Errorf("Settle = %v, want context.Canceled", err)
	}
	if err := s.Settle(context.Background(), clock.Advance, 1); err == nil {
		t.Error("Settle with one frame reported idle")
	}
}

func TestRunTour(t *testing.T) {
	cfg := DefaultConfig()
	cfg.State.MaxEvents = 500
	s, clock := newTestSession(t, cfg)
	tour := DefaultTour(s.Store)
	results, err := s.RunTour(context.Background(), tour, clock.Advance)
	if err != nil {
		t.Fatalf("RunTour: %v", err)
	}
	if len(results) != len(tour) {
		t.Fatalf("results = %d, want %d", len(results), len(tour))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: %v", r.Command, r.Err)
		}
	}

	notable := s.Store.NotableSystems()[0]
	if results[0].Mode != view.System || results[0].Entity != notable.StarName {
		t.Errorf("step 1 = %v %s", results[0].Mode, results[0].Entity)
	}
	if results[1].Mode != view.Planet || results[1].Entity != notable.Primary().Name {
		t.Errorf("step 2 = %v %s", results[1].Mode, results[1].Entity)
	}
	if last := results[len(results)-1]; last.Mode != view.Galaxy {
		t.Errorf("tour ended in %v", last.Mode)
	}

	var buf bytes.Buffer
	s.WriteEvents(&buf, 200)
	out := buf.String()
	for _, want := range []string{"NAVIGATION EVENTS", string(view.EventCommitted), string(view.EventDistanceMode)} {
		if !strings.Contains(out, want) {
			t.Errorf("event log missing %q", want)
		}
	}

	buf.Reset()
	WriteResults(&buf, results)
	if got := strings.Count(buf.String(), "\n"); got != len(results) {
		t.Errorf("results lines = %d, want %d", got, len(results))
	}
}

func TestRunTour_ReportsRejections(t *testing.T) {
	s, clock := newTestSession(t, DefaultConfig())
	results, err := s.RunTour(context.Background(), []feed.Command{{Action: "star"}, {Action: "back"}}, clock.Advance)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(results[0].Err, view.ErrIllegalTransition) && !errors.Is(results[0].Err, view.ErrNoSelection) {
		t.Errorf("star from galaxy = %v", results[0].Err)
	}
	if results[1].Err != nil || results[1].Mode != view.Galaxy {
		t.Errorf("back in galaxy = %v in %v", results[1].Err, results[1].Mode)
	}
}

func TestWriteEvents_Empty(t *testing.T) {
	s, _ := newTestSession(t, DefaultConfig())
	var buf bytes.Buffer
	s.WriteEvents(&buf, 10)
	if !strings.Contains(buf.String(), "No navigation events") {
		t.Errorf("got %q", buf.String())
	}
}
