// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors for Monte Carlo runs. A disabled
// Metrics is safe to use and records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	replications *prometheus.CounterVec
	trialErrors  *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics registers the run collectors on a fresh registry.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{}, nil
	}

	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "runs_total",
				Help:      "Monte Carlo runs by strategy and outcome",
			},
			[]string{"strategy", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall-clock time spent inside the execution strategy",
				Buckets:   buckets,
			},
			[]string{"strategy"},
		),
		replications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "replications_total",
				Help:      "Replications completed by successful runs",
			},
			[]string{"strategy"},
		),
		trialErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "run_errors_total",
				Help:      "Failed runs by error kind",
			},
			[]string{"strategy", "kind"},
		),
	}

	for _, c := range []prometheus.Collector{m.runs, m.runDuration, m.replications, m.trialErrors} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return m, nil
}

// RecordRun records a successful run.
func (m *Metrics) RecordRun(strategy string, duration time.Duration, replications int) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(strategy, "ok").Inc()
	m.runDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	m.replications.WithLabelValues(strategy).Add(float64(replications))
}

// RecordFailure records an aborted run.
func (m *Metrics) RecordFailure(strategy, kind string) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(strategy, "failed").Inc()
	m.trialErrors.WithLabelValues(strategy, kind).Inc()
}

// Registry returns the registry, nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile dumps the current metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || m.registry == nil {
		return fmt.Errorf("metrics disabled")
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
