// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package telemetry

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LoggingConfig{Level: "info", Format: "json"})

	logger.NewComponentLogger("runner").WithRunID("abc").WithField("workers", 4).
		Info().Msg("hello")
	logger.Debug().Msg("filtered")

	out := buf.String()
	assert.Contains(t, out, `"component":"runner"`)
	assert.Contains(t, out, `"run_id":"abc"`)
	assert.Contains(t, out, `"workers":4`)
	assert.Contains(t, out, `"message":"hello"`)
	assert.NotContains(t, out, "filtered")
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LoggingConfig{Level: "info", Format: "json"})

	ctx := logger.WithContext(context.Background())
	FromContext(ctx).Warn().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	// missing logger falls back to a no-op
	FromContext(context.Background()).Error().Msg("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := NewLogger(LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info().Str("strategy", "sequential").Msg("written")
	require.NoError(t, logger.Close())
	// second close and stderr loggers are no-ops
	require.NoError(t, logger.Close())
	require.NoError(t, Nop().Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"strategy":"sequential"`))
}

func TestMetricsRecord(t *testing.T) {
	m, err := NewMetrics(DefaultMetricsConfig())
	require.NoError(t, err)

	m.RecordRun("worker_pool", 150*time.Millisecond, 1000)
	m.RecordRun("worker_pool", 50*time.Millisecond, 500)
	m.RecordFailure("sequential", "trial_failure")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("worker_pool", "ok")))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.replications.WithLabelValues("worker_pool")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("sequential", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trialErrors.WithLabelValues("sequential", "trial_failure")))

	n, err := testutil.GatherAndCount(m.Registry(), "mcsim_run_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetricsDisabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{})
	require.NoError(t, err)

	// must not panic
	m.RecordRun("sequential", time.Second, 10)
	m.RecordFailure("sequential", "configuration")
	assert.Nil(t, m.Registry())
	assert.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")))

	var nilMetrics *Metrics
	nilMetrics.RecordRun("sequential", time.Second, 10)
}

func TestMetricsTextfile(t *testing.T) {
	m, err := NewMetrics(DefaultMetricsConfig())
	require.NoError(t, err)
	m.RecordRun("vectorized_batch", time.Second, 10000)

	path := filepath.Join(t.TempDir(), "mcsim.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mcsim_replications_total{strategy="vectorized_batch"} 10000`)
}

func TestTracer(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{Enabled: true, Exporter: "none"})
	require.NoError(t, err)

	ctx, span := tracer.StartRunSpan(context.Background(), "run-1", "sequential", 10)
	require.NotNil(t, ctx)
	assert.True(t, span.SpanContext().IsValid())
	RecordError(span, errors.New("failed"))
	span.End()

	require.NoError(t, tracer.Shutdown(context.Background()))

	_, err = NewTracer(TracingConfig{Enabled: true, Exporter: "jaeger"})
	assert.Error(t, err)
}

func TestNoopTracer(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{})
	require.NoError(t, err)

	_, span := tracer.StartRunSpan(context.Background(), "run-1", "sequential", 10)
	assert.False(t, span.SpanContext().IsValid())
	RecordSuccess(span)
	span.End()
	assert.NoError(t, tracer.Shutdown(context.Background()))
}
