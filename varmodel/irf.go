// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// IRF computes orthogonalised impulse responses to a one-time structural
// shock in variable shockIndex, identified by the Cholesky factor of SigmaU.
// horizon: number of periods to compute (h=0, ..., horizon-1)
// Returns: horizon x K matrix, row h is the response of all K vars at h
func (rf *ReducedFormVAR) IRF(horizon int, shockIndex int) (*mat.Dense, error) {
	if rf == nil || len(rf.A) == 0 {
		return nil, errNotEstimated
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be > 0")
	}

	p := rf.Model.Lags
	if p <= 0 {
		return nil, fmt.Errorf("lags must be > 0 to IRF")
	}

	K := rf.K()
	if shockIndex < 0 || shockIndex >= K {
		return nil, fmt.Errorf("shockIndex must be between 0 and %d", K-1)
	}

	shock := mat.NewVecDense(K, nil)
	shock.SetVec(shockIndex, 1.0)
	if rf.SigmaU != nil {
		var chol mat.Cholesky
		// SigmaU = L L'; falls back to a unit shock if not positive definite
		if chol.Factorize(rf.SigmaU) {
			var L mat.TriDense
			chol.LTo(&L)
			shock = mat.NewVecDense(K, mat.Col(nil, shockIndex, &L))
		}
	}

	// Moving-average coefficients Psi_h, Psi_0 = I_K
	Psi := make([]*mat.Dense, horizon)
	Psi[0] = identity(K)

	for h := 1; h < horizon; h++ {
		M := mat.NewDense(K, K, nil)
		maxLag := p
		if h < p {
			maxLag = h
		}
		for j := 1; j <= maxLag; j++ {
			var tmp mat.Dense
			tmp.Mul(rf.A[j-1], Psi[h-j]) // A_j * Psi_{h-j}
			M.Add(M, &tmp)
		}
		Psi[h] = M
	}

	// IRF[h] = Psi_h * shock
	irf := mat.NewDense(horizon, K, nil)
	for h := 0; h < horizon; h++ {
		var resp mat.VecDense
		resp.MulVec(Psi[h], shock)
		irf.SetRow(h, resp.RawVector().Data)
	}

	return irf, nil
}

func identity(k int) *mat.Dense {
	I := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		I.Set(i, i, 1.0)
	}
	return I
}
