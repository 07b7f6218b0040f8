// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package experiments

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zhentaoshi/Econ5821/montecarlo"
)

// PoissonRegression studies the sampling distribution of the Poisson MLE.
// Each replication draws SampleSize rows x = [1, N(0,1) x Covariates],
// y ~ Poisson(exp(x'theta)) with every coefficient equal to TrueValue, and
// returns theta-hat from BFGS on the negative log-likelihood.
type PoissonRegression struct {
	Covariates int
}

func (r PoissonRegression) Replicate(_ int, p montecarlo.Params, rng *rand.Rand) ([]float64, error) {
	if r.Covariates < 0 {
		return nil, fmt.Errorf("covariates must be >= 0, got %d", r.Covariates)
	}
	n, k := p.SampleSize, r.Covariates+1

	x := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j := 1; j < k; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
	}

	theta := make([]float64, k)
	for j := range theta {
		theta[j] = p.TrueValue
	}

	var eta mat.VecDense
	eta.MulVec(x, mat.NewVecDense(k, theta))

	y := make([]float64, n)
	for i := range y {
		y[i] = distuv.Poisson{Lambda: math.Exp(eta.AtVec(i)), Src: rng}.Rand()
	}

	init := make([]float64, k)
	for j := range init {
		init[j] = 1
	}
	return FitPoisson(x, y, init)
}

// PoissonNLL is -sum(y*eta - exp(eta)) with eta = x*theta, dropping the
// log(y!) constant.
func PoissonNLL(x *mat.Dense, y, theta []float64) float64 {
	n, k := x.Dims()
	var eta mat.VecDense
	eta.MulVec(x, mat.NewVecDense(k, theta))

	nll := 0.0
	for i := 0; i < n; i++ {
		e := eta.AtVec(i)
		nll -= y[i]*e - math.Exp(e)
	}
	return nll
}

// FitPoisson minimises PoissonNLL with BFGS from init.
func FitPoisson(x *mat.Dense, y, init []float64) ([]float64, error) {
	n, k := x.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("y has %d observations, x has %d rows", len(y), n)
	}
	if len(init) != k {
		return nil, fmt.Errorf("init has %d values, x has %d columns", len(init), k)
	}

	problem := optimize.Problem{
		Func: func(theta []float64) float64 {
			return PoissonNLL(x, y, theta)
		},
		// gradient is -X'(y - exp(x*theta))
		Grad: func(grad, theta []float64) {
			var eta mat.VecDense
			eta.MulVec(x, mat.NewVecDense(k, theta))
			resid := mat.NewVecDense(n, nil)
			for i := 0; i < n; i++ {
				resid.SetVec(i, math.Exp(eta.AtVec(i))-y[i])
			}
			g := mat.NewVecDense(k, grad)
			g.MulVec(x.T(), resid)
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: 1e-8,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-12,
			Iterations: 50,
		},
	}

	result, err := optimize.Minimize(problem, init, settings, &optimize.BFGS{})
	if err != nil {
		// the line search stalls once the optimum is reached to machine
		// precision; the best location found is still the estimate
		stalled := errors.Is(err, optimize.ErrNoProgress) || errors.Is(err, optimize.ErrLinesearcherFailure)
		if result == nil || !stalled {
			return nil, fmt.Errorf("poisson MLE: %w", err)
		}
		return result.X, nil
	}
	if err := result.Status.Err(); err != nil {
		return nil, fmt.Errorf("poisson MLE: %w", err)
	}
	return result.X, nil
}
