// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LocalProjectionIRF estimates the response to an observed shock by one
// regression per horizon:
//
//	y_{t+h} = alpha_h + beta_h * shock_t + Gamma_h(L) y_{t-1} + u_{t+h}
//
// and returns beta_h for h = 0..horizon as a (horizon+1) x K matrix.
func LocalProjectionIRF(y *mat.Dense, shock []float64, horizon, p int) (*mat.Dense, error) {
	if y == nil {
		return nil, fmt.Errorf("time series data not provided")
	}
	T, K := y.Dims()
	if len(shock) != T {
		return nil, fmt.Errorf("shock has %d observations, data has %d", len(shock), T)
	}
	if p <= 0 {
		return nil, fmt.Errorf("lags must be > 0")
	}
	if horizon < 0 {
		return nil, fmt.Errorf("horizon must be >= 0")
	}

	out := mat.NewDense(horizon+1, K, nil)
	start := p

	for h := 0; h <= horizon; h++ {
		stop := T - h
		if stop <= start {
			return nil, fmt.Errorf("sample too short for horizon %d with p = %d (T = %d)", h, p, T)
		}
		rows := stop - start

		// [1, shock_t, y_{t-1}, ..., y_{t-p}]
		X := mat.NewDense(rows, 2+p*K, nil)
		for r := 0; r < rows; r++ {
			t := start + r
			X.Set(r, 0, 1.0)
			X.Set(r, 1, shock[t])
			col := 2
			for lag := 1; lag <= p; lag++ {
				for k := 0; k < K; k++ {
					X.Set(r, col, y.At(t-lag, k))
					col++
				}
			}
		}

		// all K responses share X, so solve them together
		dep := y.Slice(start+h, stop+h, 0, K)
		B, err := leastSquares(X, dep)
		if err != nil {
			return nil, fmt.Errorf("horizon %d: %w", h, err)
		}
		for k := 0; k < K; k++ {
			out.Set(h, k, B.At(1, k))
		}
	}

	return out, nil
}
