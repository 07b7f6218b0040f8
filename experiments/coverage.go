// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

// Package experiments contains the trial functions run by the Monte Carlo
// engine: interval coverage, estimator sampling distributions, and
// bootstrap replications of fitted VARs.
package experiments

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zhentaoshi/Econ5821/montecarlo"
)

// PoissonCoverage checks the normal-approximation interval for a Poisson
// mean. Each replication draws SampleSize values from Poisson(TrueValue)
// and reports 1 if mean +- z*sigma/sqrt(n) contains TrueValue.
//
// It is batch capable: the whole experiment can be drawn as one
// Replications x SampleSize matrix and reduced row by row.
type PoissonCoverage struct{}

var _ montecarlo.BatchTrial[float64] = PoissonCoverage{}

func (PoissonCoverage) Replicate(_ int, p montecarlo.Params, rng *rand.Rand) (float64, error) {
	if err := checkMean(p.TrueValue); err != nil {
		return 0, err
	}
	x := poissonDraws(p.TrueValue, p.SampleSize, rng)
	return montecarlo.Covers(x, p.TrueValue, p.ConfidenceLevel), nil
}

func (PoissonCoverage) ReplicateBatch(p montecarlo.Params, rng *rand.Rand) ([]float64, error) {
	if err := checkMean(p.TrueValue); err != nil {
		return nil, err
	}

	draws := mat.NewDense(p.Replications, p.SampleSize, nil)
	dist := distuv.Poisson{Lambda: p.TrueValue, Src: rng}
	raw := draws.RawMatrix().Data
	for i := range raw {
		raw[i] = dist.Rand()
	}

	margin := montecarlo.CriticalValue(p.ConfidenceLevel) / math.Sqrt(float64(p.SampleSize))
	covered := make([]float64, p.Replications)
	for r := range covered {
		row := draws.RawRowView(r)
		xbar := stat.Mean(row, nil)
		var sig float64
		if p.SampleSize > 1 {
			sig = stat.StdDev(row, nil)
		}
		if xbar-margin*sig <= p.TrueValue && p.TrueValue <= xbar+margin*sig {
			covered[r] = 1
		}
	}
	return covered, nil
}

// SampleMean returns the mean of SampleSize Poisson(TrueValue) draws. It
// is a plain trial and cannot be run with the vectorized strategy.
type SampleMean struct{}

func (SampleMean) Replicate(_ int, p montecarlo.Params, rng *rand.Rand) (float64, error) {
	if err := checkMean(p.TrueValue); err != nil {
		return 0, err
	}
	return stat.Mean(poissonDraws(p.TrueValue, p.SampleSize, rng), nil), nil
}

// checkMean rejects Poisson means the sampler cannot draw from. distuv
// loops forever on NaN.
func checkMean(lambda float64) error {
	if !(lambda > 0) || math.IsInf(lambda, 1) {
		return fmt.Errorf("poisson mean must be finite and > 0, got %v", lambda)
	}
	return nil
}

func poissonDraws(lambda float64, n int, rng *rand.Rand) []float64 {
	dist := distuv.Poisson{Lambda: lambda, Src: rng}
	x := make([]float64, n)
	for i := range x {
		x[i] = dist.Rand()
	}
	return x
}
