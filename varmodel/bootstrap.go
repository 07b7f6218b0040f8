// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Residuals recomputes residuals U (T-p x K) from a fitted VAR and data ts,
// using the same deterministic structure as Estimate.
func (rf *ReducedFormVAR) Residuals(ts *TimeSeries) (*mat.Dense, error) {
	if ts == nil || ts.Y == nil {
		return nil, fmt.Errorf("time series data not provided")
	}
	if rf == nil || len(rf.A) == 0 {
		return nil, errNotEstimated
	}

	T, K := ts.Y.Dims()
	p := rf.Model.Lags
	if T <= p {
		return nil, fmt.Errorf("need at least p+1 observations: p = %d, T = %d", p, T)
	}
	if K != rf.K() {
		return nil, fmt.Errorf("data has %d variables, model has %d", K, rf.K())
	}

	U := mat.NewDense(T-p, K, nil)
	fitted := make([]float64, K)
	for t := p; t < T; t++ {
		rf.fittedAt(ts.Y, t, fitted)
		for eq := 0; eq < K; eq++ {
			U.Set(t-p, eq, ts.Y.At(t, eq)-fitted[eq])
		}
	}

	return U, nil
}

// SimulateBootstrapSeries generates a bootstrap sample Y* of the same
// length as ts from the fitted coefficients, resampling rows of resU
// (T-p x K) with replacement. The first p observations are kept.
func (rf *ReducedFormVAR) SimulateBootstrapSeries(ts *TimeSeries, resU *mat.Dense, rng *rand.Rand) (*TimeSeries, error) {
	if ts == nil || ts.Y == nil {
		return nil, fmt.Errorf("time series data not provided")
	}
	if rf == nil || len(rf.A) == 0 {
		return nil, errNotEstimated
	}

	T, K := ts.Y.Dims()
	p := rf.Model.Lags
	if T <= p {
		return nil, fmt.Errorf("need at least p+1 observations: p = %d, T = %d", p, T)
	}

	Treg, kRes := resU.Dims()
	if Treg != T-p || kRes != K {
		return nil, fmt.Errorf("residual matrix has wrong shape: got %dx%d, expected %dx%d",
			Treg, kRes, T-p, K)
	}

	Ystar := mat.NewDense(T, K, nil)
	for t := 0; t < p; t++ {
		Ystar.SetRow(t, ts.Y.RawRowView(t))
	}

	fitted := make([]float64, K)
	for t := p; t < T; t++ {
		rf.fittedAt(Ystar, t, fitted)
		draw := rng.IntN(Treg)
		for eq := 0; eq < K; eq++ {
			Ystar.Set(t, eq, fitted[eq]+resU.At(draw, eq))
		}
	}

	// Preserve time index and variable names
	times := make([]float64, T)
	if len(ts.Time) == T {
		copy(times, ts.Time)
	} else {
		for i := range times {
			times[i] = float64(i)
		}
	}

	return &TimeSeries{Y: Ystar, Time: times, VarNames: ts.VarNames}, nil
}
