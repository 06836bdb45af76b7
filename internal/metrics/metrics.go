// Package metrics exports navigation counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-exoplanets/internal/view"
)

const namespace = "exoplanets"

// Collector records view transitions. It implements view.Recorder and owns
// its registry so several collectors can coexist in tests.
type Collector struct {
	reg *prometheus.Registry

	transitionsStarted   *prometheus.CounterVec
	transitionsCommitted *prometheus.CounterVec
	transitionsRejected  *prometheus.CounterVec
	transitionsAborted   *prometheus.CounterVec
	autoSwitches         *prometheus.CounterVec
	transitionDuration   *prometheus.HistogramVec
	activeMode           *prometheus.GaugeVec
}

// NewCollector creates and registers the navigation metrics.
func NewCollector() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		transitionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_started_total",
				Help:      "View transitions started",
			},
			[]string{"from", "to", "source"},
		),
		transitionsCommitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_committed_total",
				Help:      "View transitions committed",
			},
			[]string{"from", "to"},
		),
		transitionsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_rejected_total",
				Help:      "View transition requests rejected",
			},
			[]string{"to", "reason"},
		),
		transitionsAborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_aborted_total",
				Help:      "View transitions aborted at commit",
			},
			[]string{"to"},
		),
		autoSwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auto_switches_total",
				Help:      "Zoom-out requests issued by the distance monitor",
			},
			[]string{"from", "to"},
		),
		transitionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transition_duration_seconds",
				Help:      "Time from transition start to commit",
				Buckets:   []float64{0.25, 0.5, 1, 1.5, 2, 2.5, 3, 4, 6},
			},
			[]string{"to"},
		),
		activeMode: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_mode",
				Help:      "1 for the committed view mode, 0 otherwise",
			},
			[]string{"mode"},
		),
	}

	c.reg.MustRegister(
		c.transitionsStarted,
		c.transitionsCommitted,
		c.transitionsRejected,
		c.transitionsAborted,
		c.autoSwitches,
		c.transitionDuration,
		c.activeMode,
	)
	c.setMode(view.Galaxy)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) TransitionStarted(from, to view.Mode, src view.Source) {
	c.transitionsStarted.WithLabelValues(from.String(), to.String(), src.String()).Inc()
}

func (c *Collector) TransitionCommitted(from, to view.Mode, d time.Duration) {
	c.transitionsCommitted.WithLabelValues(from.String(), to.String()).Inc()
	c.transitionDuration.WithLabelValues(to.String()).Observe(d.Seconds())
	c.setMode(to)
}

func (c *Collector) TransitionRejected(to view.Mode, reason string) {
	c.transitionsRejected.WithLabelValues(to.String(), reason).Inc()
}

func (c *Collector) TransitionAborted(to view.Mode) {
	c.transitionsAborted.WithLabelValues(to.String()).Inc()
}

func (c *Collector) AutoSwitch(from, to view.Mode) {
	c.autoSwitches.WithLabelValues(from.String(), to.String()).Inc()
}

func (c *Collector) setMode(active view.Mode) {
	for _, m := range view.Modes {
		v := 0.0
		if m == active {
			v = 1
		}
		c.activeMode.WithLabelValues(m.String()).Set(v)
	}
}
