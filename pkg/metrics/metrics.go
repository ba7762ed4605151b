// Package metrics defines the Prometheus collectors recorded by the console
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for CommandsTotal.
const (
	OutcomeOK            = "ok"
	OutcomeUserError     = "user_error"
	OutcomeFailure       = "failure"
	OutcomeUnknownAction = "unknown"
)

// Metrics holds all Prometheus collectors for the console.
type Metrics struct {
	Registry        *prometheus.Registry
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	SearchResults   *prometheus.HistogramVec
}

// New creates all collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_commands_total",
				Help: "Total console commands by keyword and outcome (ok, user_error, failure, unknown).",
			},
			[]string{"command", "outcome"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_command_duration_seconds",
				Help:    "Console command latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"command"},
		),
		SearchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_search_results",
				Help:    "Number of results printed per SEARCH, EXPLAIN or REVERSE.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"command"},
		),
	}

	m.Registry.MustRegister(
		m.CommandsTotal,
		m.CommandDuration,
		m.SearchResults,
	)

	return m
}

// ObserveCommand records one dispatched command.
func (m *Metrics) ObserveCommand(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command, outcome).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ObserveResults records how many results a search-like command printed.
func (m *Metrics) ObserveResults(command string, n int) {
	if m == nil {
		return
	}
	m.SearchResults.WithLabelValues(command).Observe(float64(n))
}

// Handler returns the Prometheus scrape HTTP handler for m's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
