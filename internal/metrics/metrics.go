// Package metrics records how commands are dispatched for prometheus to scrape.
package metrics

import (
	"net/http"
	"time"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch counts dispatched commands by keyword and outcome and tracks how
// long they took. It implements command.Observer.
type Dispatch struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gatherer prometheus.Gatherer
}

// NewDispatch creates Dispatch metrics registered with reg. If reg is nil, a
// new registry is used.
func NewDispatch(reg *prometheus.Registry) *Dispatch {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Dispatch{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunacmd_dispatch_total",
				Help: "Total number of command lines dispatched",
			},
			[]string{"keyword", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tunacmd_dispatch_duration_seconds",
				Help:    "Time taken to dispatch a command line, including running its handler",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"outcome"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.total, m.duration)

	return m
}

// ObserveDispatch records one dispatch.
func (m *Dispatch) ObserveDispatch(keyword string, outcome command.Outcome, elapsed time.Duration) {
	m.total.WithLabelValues(keyword, outcome.String()).Inc()
	m.duration.WithLabelValues(outcome.String()).Observe(elapsed.Seconds())
}

// Handler serves every metric in the registry the Dispatch metrics were
// registered with.
func (m *Dispatch) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
