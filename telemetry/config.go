// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

// Package telemetry holds the logging, metrics and tracing used around
// Monte Carlo runs.
package telemetry

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Minimum level (trace, debug, info, warn, error)
	Level string
	// console or json
	Format string
	// stdout, stderr, or a file path
	Output string
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
	// Buckets for the run duration histogram, prometheus.DefBuckets if empty
	DurationBuckets []float64
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool
	// stdout or none
	Exporter    string
	ServiceName string
}

// DefaultLoggingConfig is console output on stderr at info level.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "console", Output: "stderr"}
}

// DefaultMetricsConfig enables metrics under the "mcsim" namespace.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{Enabled: true, Namespace: "mcsim"}
}
