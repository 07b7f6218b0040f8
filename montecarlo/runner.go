// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zhentaoshi/Econ5821/telemetry"
)

// Report is the result of a scalar run.
type Report struct {
	RunID    string        `json:"run_id"`
	Strategy StrategyName  `json:"strategy"`
	Workers  int           `json:"workers"` // 1 unless the worker pool ran
	Elapsed  time.Duration `json:"elapsed_ns"`
	Summary  Summary       `json:"summary"`
}

// DrawsReport is the result of a run whose outcomes are vectors.
type DrawsReport struct {
	RunID    string        `json:"run_id"`
	Strategy StrategyName  `json:"strategy"`
	Workers  int           `json:"workers"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Draws    [][]float64   `json:"-"`
	Summary  DrawsSummary  `json:"summary"`
}

// Runner selects a strategy, times it, and aggregates its outcomes. A
// Runner holds no per-run state and may be reused.
type Runner struct {
	logger     *telemetry.Logger
	metrics    *telemetry.Metrics
	tracer     *telemetry.Tracer
	maxWorkers int
	observe    StateObserver
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *telemetry.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithTracer sets the tracer. Defaults to a no-op tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// WithMaxWorkers caps the worker pool size. Requests above the cap fail
// with a resource exhaustion error.
func WithMaxWorkers(n int) Option {
	return func(r *Runner) { r.maxWorkers = n }
}

// WithStateObserver registers a callback for strategy state transitions.
func WithStateObserver(fn StateObserver) Option {
	return func(r *Runner) { r.observe = fn }
}

// NewRunner returns a Runner with the given options applied.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:     telemetry.Nop(),
		tracer:     telemetry.NoopTracer(),
		maxWorkers: DefaultMaxWorkers(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a scalar experiment with a default Runner.
func Run(ctx context.Context, cfg Config, trial Trial[float64], kind Kind) (*Report, error) {
	return NewRunner().Run(ctx, cfg, trial, kind)
}

// Run executes trial cfg.Replications times with the configured strategy
// and summarizes the outcomes.
func (r *Runner) Run(ctx context.Context, cfg Config, trial Trial[float64], kind Kind) (*Report, error) {
	res, err := execute(ctx, r, cfg, trial)
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(res.outcomes, cfg.ConfidenceLevel, kind)
	if err != nil {
		return nil, fmt.Errorf("summarize run %s: %w", res.runID, err)
	}

	log := r.logger.WithRunID(res.runID)
	log.Info().
		Str("strategy", string(cfg.Strategy)).
		Dur("elapsed", res.elapsed).
		Float64("mean", summary.Mean).
		Float64("lower", summary.Lower).
		Float64("upper", summary.Upper).
		Msg("run summarized")

	return &Report{
		RunID:    res.runID,
		Strategy: cfg.Strategy,
		Workers:  res.workers,
		Elapsed:  res.elapsed,
		Summary:  summary,
	}, nil
}

// RunDraws executes a vector-valued experiment and returns pointwise bands.
func (r *Runner) RunDraws(ctx context.Context, cfg Config, trial Trial[[]float64]) (*DrawsReport, error) {
	res, err := execute(ctx, r, cfg, trial)
	if err != nil {
		return nil, err
	}

	summary, err := SummarizeDraws(res.outcomes, cfg.ConfidenceLevel)
	if err != nil {
		return nil, fmt.Errorf("summarize run %s: %w", res.runID, err)
	}

	r.logger.WithRunID(res.runID).Info().
		Str("strategy", string(cfg.Strategy)).
		Dur("elapsed", res.elapsed).
		Int("width", len(summary.Mean)).
		Msg("draws summarized")

	return &DrawsReport{
		RunID:    res.runID,
		Strategy: cfg.Strategy,
		Workers:  res.workers,
		Elapsed:  res.elapsed,
		Draws:    res.outcomes,
		Summary:  summary,
	}, nil
}

type execution[T any] struct {
	runID    string
	workers  int
	elapsed  time.Duration
	outcomes []T
}

func execute[T any](ctx context.Context, r *Runner, cfg Config, trial Trial[T]) (*execution[T], error) {
	if trial == nil {
		return nil, newConfigError(cfg.Strategy, errors.New("no trial function given"))
	}
	if err := cfg.Validate(); err != nil {
		r.metrics.RecordFailure(string(cfg.Strategy), string(KindConfiguration))
		return nil, err
	}

	strategy, workers, err := selectStrategy(r, cfg, trial)
	if err != nil {
		r.metrics.RecordFailure(string(cfg.Strategy), string(KindConfiguration))
		return nil, err
	}

	runID := uuid.NewString()
	log := r.logger.WithRunID(runID).WithField("strategy", string(strategy.Name()))
	// strategies log through the run logger carried by ctx
	ctx = log.WithContext(ctx)
	log.Debug().
		Int("replications", cfg.Replications).
		Int("sample_size", cfg.SampleSize).
		Int("workers", workers).
		Msg("run starting")

	ctx, span := r.tracer.StartRunSpan(ctx, runID, string(strategy.Name()), cfg.Replications)
	defer span.End()

	start := time.Now()
	outcomes, err := strategy.Execute(ctx, cfg.Params, trial)
	elapsed := time.Since(start)

	if err != nil {
		telemetry.RecordError(span, err)
		kind := "cancelled"
		var mcErr *Error
		if errors.As(err, &mcErr) {
			kind = string(mcErr.Kind)
		}
		r.metrics.RecordFailure(string(strategy.Name()), kind)
		log.Error().Err(err).Msg("run aborted")
		return nil, err
	}

	telemetry.RecordSuccess(span)
	r.metrics.RecordRun(string(strategy.Name()), elapsed, len(outcomes))

	return &execution[T]{runID: runID, workers: workers, elapsed: elapsed, outcomes: outcomes}, nil
}

// selectStrategy maps the configured name to a strategy. Capability and
// capacity problems are reported here, before any replication runs.
func selectStrategy[T any](r *Runner, cfg Config, trial Trial[T]) (Strategy[T], int, error) {
	switch cfg.Strategy {
	case Sequential:
		return NewSequential[T](r.observe), 1, nil
	case WorkerPool:
		workers := cfg.Workers()
		if workers > r.maxWorkers {
			return nil, 0, newExhaustedError(WorkerPool, workers, r.maxWorkers)
		}
		effective := workers
		if effective > cfg.Replications {
			effective = cfg.Replications
		}
		return NewWorkerPool[T](workers, r.maxWorkers, r.observe), effective, nil
	case VectorizedBatch:
		if !IsBatchCapable(trial) {
			return nil, 0, newConfigError(VectorizedBatch, fmt.Errorf("trial %T is not batch capable", trial))
		}
		return NewVectorizedBatch[T](r.observe), 1, nil
	}
	return nil, 0, newConfigError(cfg.Strategy, fmt.Errorf("unknown strategy %q", cfg.Strategy))
}
