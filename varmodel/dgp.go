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

// DGP is a structural VAR(1): y_t = A y_{t-1} + B e_t, e_t ~ N(0, I).
type DGP struct {
	A *mat.Dense
	B *mat.Dense
}

// DefaultDGP is a stable bivariate process with a lower-triangular impact
// matrix, so Cholesky identification recovers the structural shocks.
func DefaultDGP() DGP {
	return DGP{
		A: mat.NewDense(2, 2, []float64{
			0.55, 0.15,
			-0.10, 0.45,
		}),
		B: mat.NewDense(2, 2, []float64{
			1.00, 0.00,
			0.35, 0.90,
		}),
	}
}

// K is the number of variables.
func (d DGP) K() int {
	k, _ := d.A.Dims()
	return k
}

// Simulate draws T+burn observations starting from zero and drops the
// first burn. It returns the data and the structural shocks, both T x K.
func (d DGP) Simulate(T, burn int, rng *rand.Rand) (y, eps *mat.Dense, err error) {
	if T <= 0 || burn < 0 {
		return nil, nil, fmt.Errorf("invalid sample: T = %d, burn = %d", T, burn)
	}
	K := d.K()
	total := T + burn

	epsAll := mat.NewDense(total, K, nil)
	for t := 0; t < total; t++ {
		for k := 0; k < K; k++ {
			epsAll.Set(t, k, rng.NormFloat64())
		}
	}

	yAll := mat.NewDense(total, K, nil)
	var ar, impact mat.VecDense
	for t := 1; t < total; t++ {
		ar.MulVec(d.A, yAll.RowView(t-1))
		impact.MulVec(d.B, epsAll.RowView(t))
		ar.AddVec(&ar, &impact)
		yAll.SetRow(t, ar.RawVector().Data)
	}

	y = mat.DenseCopyOf(yAll.Slice(burn, total, 0, K))
	eps = mat.DenseCopyOf(epsAll.Slice(burn, total, 0, K))
	return y, eps, nil
}

// TrueIRF is A^h B[:, shock] for h = 0..horizon, a (horizon+1) x K matrix.
func (d DGP) TrueIRF(horizon, shock int) (*mat.Dense, error) {
	K := d.K()
	if horizon < 0 {
		return nil, fmt.Errorf("horizon must be >= 0, got %d", horizon)
	}
	if shock < 0 || shock >= K {
		return nil, fmt.Errorf("shock must be between 0 and %d", K-1)
	}

	out := mat.NewDense(horizon+1, K, nil)
	resp := mat.VecDenseCopyOf(d.B.ColView(shock))
	for h := 0; h <= horizon; h++ {
		out.SetRow(h, resp.RawVector().Data)
		var next mat.VecDense
		next.MulVec(d.A, resp)
		resp = &next
	}
	return out, nil
}
