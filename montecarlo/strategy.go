// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zhentaoshi/Econ5821/telemetry"
)

// State is the lifecycle of one strategy execution.
type State int

const (
	StateIdle State = iota
	StateDispatching
	StateCollecting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateCollecting:
		return "collecting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateObserver is told about every state transition. It is always called
// from the goroutine that called Execute.
type StateObserver func(strategy StrategyName, s State)

// Strategy turns a trial into an outcome sequence of length p.Replications,
// in replication-index order.
type Strategy[T any] interface {
	Name() StrategyName
	Execute(ctx context.Context, p Params, trial Trial[T]) ([]T, error)
}

type observed struct {
	name    StrategyName
	observe StateObserver
}

func (o observed) Name() StrategyName { return o.name }

func (o observed) set(s State) {
	if o.observe != nil {
		o.observe(o.name, s)
	}
}

// fail records the failed state and passes err through.
func (o observed) fail(err error) error {
	o.set(StateFailed)
	return err
}

// replicate runs one replication on its own generator. A panicking trial
// is reported as an error like any other failure.
func replicate[T any](trial Trial[T], index int, p Params, seed uint64) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return trial.Replicate(index, p, replicationRand(seed, index))
}

// --- Sequential ---

type sequential[T any] struct{ observed }

// NewSequential runs replications one after another on the calling goroutine.
func NewSequential[T any](observe StateObserver) Strategy[T] {
	return &sequential[T]{observed{name: Sequential, observe: observe}}
}

func (s *sequential[T]) Execute(ctx context.Context, p Params, trial Trial[T]) ([]T, error) {
	seeds := replicationSeeds(masterSeed(p), p.Replications)
	out := make([]T, p.Replications)

	s.set(StateDispatching)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(fmt.Errorf("montecarlo: run cancelled at replication %d: %w", i, err))
		}
		v, err := replicate(trial, i, p, seeds[i])
		if err != nil {
			return nil, s.fail(newTrialError(s.name, i, err))
		}
		out[i] = v
	}
	s.set(StateCollecting)
	s.set(StateDone)
	return out, nil
}

// --- Worker pool ---

// DefaultMaxWorkers is the pool limit used when the runner is not given one.
func DefaultMaxWorkers() int {
	n := 8 * runtime.NumCPU()
	if n < 16 {
		n = 16
	}
	return n
}

type workerPool[T any] struct {
	observed
	workers    int
	maxWorkers int
}

// NewWorkerPool spreads replications over a fixed set of goroutines. A
// request for more than maxWorkers workers fails with a resource
// exhaustion error before any replication runs.
func NewWorkerPool[T any](workers, maxWorkers int, observe StateObserver) Strategy[T] {
	return &workerPool[T]{
		observed:   observed{name: WorkerPool, observe: observe},
		workers:    workers,
		maxWorkers: maxWorkers,
	}
}

func (s *workerPool[T]) Execute(ctx context.Context, p Params, trial Trial[T]) ([]T, error) {
	if s.workers < 1 {
		return nil, s.fail(newConfigError(s.name, fmt.Errorf("worker count must be >= 1, got %d", s.workers)))
	}
	if s.workers > s.maxWorkers {
		return nil, s.fail(newExhaustedError(s.name, s.workers, s.maxWorkers))
	}

	n := p.Replications
	numWorkers := s.workers
	if numWorkers > n {
		numWorkers = n
	}

	if err := ctx.Err(); err != nil {
		return nil, s.fail(fmt.Errorf("montecarlo: run cancelled: %w", err))
	}

	seeds := replicationSeeds(masterSeed(p), n)
	// Each worker writes only the slots of the indices it received.
	out := make([]T, n)

	s.set(StateDispatching)
	telemetry.FromContext(ctx).Debug().
		Int("workers", numWorkers).
		Int("requested", s.workers).
		Msg("worker pool started")

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for i := range jobs {
				v, err := replicate(trial, i, p, seeds[i])
				if err != nil {
					return newTrialError(s.name, i, err)
				}
				out[i] = v
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	s.set(StateCollecting)
	if err := g.Wait(); err != nil {
		var mcErr *Error
		if errors.As(err, &mcErr) {
			return nil, s.fail(err)
		}
		return nil, s.fail(fmt.Errorf("montecarlo: run cancelled: %w", err))
	}

	s.set(StateDone)
	return out, nil
}

// --- Vectorized batch ---

type vectorizedBatch[T any] struct{ observed }

// NewVectorizedBatch hands the whole replication loop to the trial's batch
// implementation. Trials that are not BatchTrial are rejected before any
// random draw.
func NewVectorizedBatch[T any](observe StateObserver) Strategy[T] {
	return &vectorizedBatch[T]{observed{name: VectorizedBatch, observe: observe}}
}

func (s *vectorizedBatch[T]) Execute(ctx context.Context, p Params, trial Trial[T]) ([]T, error) {
	batch, ok := trial.(BatchTrial[T])
	if !ok {
		return nil, s.fail(newConfigError(s.name, fmt.Errorf("trial %T is not batch capable", trial)))
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(fmt.Errorf("montecarlo: run cancelled: %w", err))
	}

	s.set(StateDispatching)
	telemetry.FromContext(ctx).Debug().
		Int("rows", p.Replications).
		Int("cols", p.SampleSize).
		Msg("drawing batch")
	out, err := replicateBatch(batch, p)
	if err != nil {
		return nil, s.fail(newTrialError(s.name, -1, err))
	}

	s.set(StateCollecting)
	if len(out) != p.Replications {
		return nil, s.fail(newTrialError(s.name, -1,
			fmt.Errorf("batch returned %d outcomes, expected %d", len(out), p.Replications)))
	}

	s.set(StateDone)
	return out, nil
}

func replicateBatch[T any](batch BatchTrial[T], p Params) (out []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return batch.ReplicateBatch(p, batchRand(masterSeed(p)))
}

// IsBatchCapable reports whether trial may be run with the vectorized strategy.
func IsBatchCapable[T any](trial Trial[T]) bool {
	_, ok := trial.(BatchTrial[T])
	return ok
}
