// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package montecarlo

import (
	"math/rand/v2"
	"time"
)

// Trial computes one replication. Implementations must not share mutable
// state between calls: all randomness comes from rng, which is private to
// the replication.
type Trial[T any] interface {
	Replicate(index int, p Params, rng *rand.Rand) (T, error)
}

// TrialFunc adapts a plain function to Trial.
type TrialFunc[T any] func(index int, p Params, rng *rand.Rand) (T, error)

// Replicate calls f.
func (f TrialFunc[T]) Replicate(index int, p Params, rng *rand.Rand) (T, error) {
	return f(index, p, rng)
}

// BatchTrial is a Trial whose whole replication loop can be written as one
// array-wide computation. Implementing it is how a caller declares that the
// vectorized strategy may be used.
type BatchTrial[T any] interface {
	Trial[T]

	// ReplicateBatch returns exactly p.Replications outcomes.
	ReplicateBatch(p Params, rng *rand.Rand) ([]T, error)
}

// masterSeed resolves the seed used to derive everything else.
func masterSeed(p Params) uint64 {
	if p.Seed != 0 {
		return p.Seed
	}
	return uint64(time.Now().UnixNano())
}

// replicationSeeds derives one seed per replication index from the master
// seed, so no generator is shared across goroutines and the outcome for an
// index does not depend on which worker ran it.
func replicationSeeds(seed uint64, n int) []uint64 {
	master := rand.New(rand.NewPCG(seed, 0))

	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}
	return seeds
}

// replicationRand is the private generator for replication index.
func replicationRand(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(index)))
}

// batchRand is the single generator handed to a batch trial.
func batchRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, ^uint64(0)))
}
