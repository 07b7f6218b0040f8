// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var errNotEstimated = errors.New("VAR model not estimated")

// designMatrix builds the regressors for rows t = p..T-1 of y:
// [deterministics | y_{t-1} | y_{t-2} | ... | y_{t-p}].
// If skip >= 0 the lags of that variable are left out (restricted model).
func designMatrix(y mat.Matrix, spec ModelSpec, skip int) *mat.Dense {
	T, K := y.Dims()
	p := spec.Lags
	Treg := T - p

	kept := K
	if skip >= 0 {
		kept--
	}
	X := mat.NewDense(Treg, spec.Deterministic.columns()+p*kept, nil)

	for t := 0; t < Treg; t++ {
		col := 0
		if spec.Deterministic.hasConst() {
			X.Set(t, col, 1.0)
			col++
		}
		if spec.Deterministic.hasTrend() {
			// time index is 1-based
			X.Set(t, col, float64(t+p+1))
			col++
		}
		for j := 1; j <= p; j++ {
			srcRow := t + p - j
			for k := 0; k < K; k++ {
				if k == skip {
					continue
				}
				X.Set(t, col, y.At(srcRow, k))
				col++
			}
		}
	}
	return X
}

// leastSquares solves X B ≈ Y. It uses the normal equations when X'X is
// invertible and falls back to the SVD minimum-norm solution otherwise.
func leastSquares(X, Y mat.Matrix) (*mat.Dense, error) {
	_, m := X.Dims()
	_, cols := Y.Dims()

	var xtx mat.Dense
	xtx.Mul(X.T(), X)

	var xtxInv mat.Dense
	invErr := xtxInv.Inverse(&xtx)
	if invErr == nil {
		var xty mat.Dense
		xty.Mul(X.T(), Y)

		var B mat.Dense
		B.Mul(&xtxInv, &xty)
		return &B, nil
	}

	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDFullU|mat.SVDFullV); !ok {
		return nil, fmt.Errorf("OLS failed: X'X singular and SVD factorization failed: %v", invErr)
	}

	rank := svd.Rank(1e-12)
	if rank == 0 {
		// X is numerically zero, minimum-norm solution is B = 0
		return mat.NewDense(m, cols, nil), nil
	}

	var B mat.Dense
	svd.SolveTo(&B, Y, rank)
	return &B, nil
}

// Estimate computes the VAR model parameters using OLS, equation by
// equation, with all equations sharing one design matrix.
func (e *OLSEstimator) Estimate(ts *TimeSeries, spec ModelSpec) (*ReducedFormVAR, error) {
	if ts == nil || ts.Y == nil {
		return nil, fmt.Errorf("time series data not provided")
	}

	T, K := ts.Y.Dims()
	p := spec.Lags
	if p <= 0 {
		return nil, fmt.Errorf("lags must be > 0")
	}
	if T <= p {
		return nil, fmt.Errorf("need at least p+1 observations: p = %d, T = %d", p, T)
	}

	Treg := T - p
	Yreg := mat.DenseCopyOf(ts.Y.Slice(p, T, 0, K))
	X := designMatrix(ts.Y, spec, -1)
	_, m := X.Dims()

	B, err := leastSquares(X, Yreg)
	if err != nil {
		return nil, err
	}

	// Split B (m x K) into C (deterministic) and the A_j's
	detCols := spec.Deterministic.columns()
	var C *mat.Dense
	if detCols > 0 {
		C = mat.DenseCopyOf(B.Slice(0, detCols, 0, K).T())
	}

	A := make([]*mat.Dense, p)
	for j := 0; j < p; j++ {
		rowOffset := detCols + j*K
		A[j] = mat.DenseCopyOf(B.Slice(rowOffset, rowOffset+K, 0, K).T())
	}

	// Residual covariance with a degrees-of-freedom correction
	var U mat.Dense
	U.Mul(X, B)
	U.Sub(Yreg, &U)

	df := float64(Treg - m)
	if df <= 0 {
		df = float64(Treg) // fallback
	}

	var utu mat.SymDense
	utu.SymOuterK(1/df, U.T())

	return &ReducedFormVAR{
		Model:  spec,
		A:      A,
		C:      C,
		SigmaU: &utu,
	}, nil
}

// fittedAt returns the one-step prediction for row t of y (t >= p),
// deterministic terms included.
func (rf *ReducedFormVAR) fittedAt(y mat.Matrix, t int, out []float64) {
	K := len(out)
	det := rf.Model.Deterministic
	timeIndex := float64(t + 1)

	for eq := 0; eq < K; eq++ {
		val := 0.0
		if rf.C != nil {
			detIdx := 0
			if det.hasConst() {
				val += rf.C.At(eq, detIdx)
				detIdx++
			}
			if det.hasTrend() {
				val += rf.C.At(eq, detIdx) * timeIndex
			}
		}
		for j := 1; j <= rf.Model.Lags; j++ {
			Aj := rf.A[j-1]
			for k := 0; k < K; k++ {
				val += Aj.At(eq, k) * y.At(t-j, k)
			}
		}
		out[eq] = val
	}
}
