// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package experiments

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/zhentaoshi/Econ5821/montecarlo"
	"github.com/zhentaoshi/Econ5821/varmodel"
)

func seeded(strategy montecarlo.StrategyName) montecarlo.Config {
	cfg := montecarlo.DefaultConfig()
	cfg.Seed = 5821
	cfg.Strategy = strategy
	cfg.WorkerCount = 4
	return cfg
}

// ============================================================================
// COVERAGE TESTS
// ============================================================================

func TestPoissonCoverageScenario(t *testing.T) {
	// Poisson(2), n=10, 10000 replications at 95%
	for _, seed := range []uint64{1, 2, 3, 5821, 20261019} {
		cfg := seeded(montecarlo.Sequential)
		cfg.Seed = seed

		report, err := montecarlo.Run(context.Background(), cfg, PoissonCoverage{}, montecarlo.KindIndicator)
		require.NoError(t, err)

		s := report.Summary
		assert.Equal(t, 10000, s.Replications)
		assert.GreaterOrEqual(t, s.Coverage, 0.90, "seed %d", seed)
		assert.LessOrEqual(t, s.Coverage, 0.99, "seed %d", seed)
		assert.LessOrEqual(t, s.Lower, s.Coverage)
		assert.GreaterOrEqual(t, s.Upper, s.Coverage)
	}
}

func TestPoissonCoverageStrategiesAgree(t *testing.T) {
	ctx := context.Background()

	seq, err := montecarlo.Run(ctx, seeded(montecarlo.Sequential), PoissonCoverage{}, montecarlo.KindIndicator)
	require.NoError(t, err)
	pool, err := montecarlo.Run(ctx, seeded(montecarlo.WorkerPool), PoissonCoverage{}, montecarlo.KindIndicator)
	require.NoError(t, err)
	batch, err := montecarlo.Run(ctx, seeded(montecarlo.VectorizedBatch), PoissonCoverage{}, montecarlo.KindIndicator)
	require.NoError(t, err)

	assert.Equal(t, seq.Summary.Coverage, pool.Summary.Coverage)

	// independent streams: compare against the sd of a difference
	n := float64(seq.Summary.Replications)
	tol := 3 * math.Sqrt2 * seq.Summary.StdDev / math.Sqrt(n)
	assert.InDelta(t, seq.Summary.Coverage, batch.Summary.Coverage, tol)
}

func TestPoissonCoverageMatchesCovers(t *testing.T) {
	p := seeded(montecarlo.Sequential).Params
	rng := rand.New(rand.NewPCG(1, 2))

	got, err := PoissonCoverage{}.Replicate(0, p, rng)
	require.NoError(t, err)
	assert.Contains(t, []float64{0, 1}, got)

	p.Replications = 25
	batch, err := PoissonCoverage{}.ReplicateBatch(p, rng)
	require.NoError(t, err)
	assert.Len(t, batch, 25)
	for _, v := range batch {
		assert.Contains(t, []float64{0, 1}, v)
	}

	// one batch row and one replication see the same draws from equal streams
	p.Replications = 1
	for seed := uint64(0); seed < 50; seed++ {
		single, err := PoissonCoverage{}.Replicate(0, p, rand.New(rand.NewPCG(seed, 9)))
		require.NoError(t, err)
		row, err := PoissonCoverage{}.ReplicateBatch(p, rand.New(rand.NewPCG(seed, 9)))
		require.NoError(t, err)
		assert.Equal(t, single, row[0], "seed %d", seed)
	}
}

func TestPoissonCoverageNonFiniteMean(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for _, lambda := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0} {
		p := seeded(montecarlo.Sequential).Params
		p.TrueValue = lambda

		_, err := PoissonCoverage{}.Replicate(0, p, rng)
		assert.ErrorContains(t, err, "poisson mean", "lambda %v", lambda)
		_, err = PoissonCoverage{}.ReplicateBatch(p, rng)
		assert.Error(t, err, "lambda %v", lambda)
		_, err = SampleMean{}.Replicate(0, p, rng)
		assert.Error(t, err, "lambda %v", lambda)
	}

	// rejected before dispatch, for every strategy
	for _, strategy := range []montecarlo.StrategyName{montecarlo.Sequential, montecarlo.WorkerPool, montecarlo.VectorizedBatch} {
		cfg := seeded(strategy)
		cfg.TrueValue = math.NaN()
		_, err := montecarlo.Run(context.Background(), cfg, PoissonCoverage{}, montecarlo.KindIndicator)
		require.ErrorIs(t, err, montecarlo.ErrConfiguration, string(strategy))
		assert.ErrorContains(t, err, "TrueValue")
	}
}

func TestPoissonCoverageInvalidMean(t *testing.T) {
	cfg := seeded(montecarlo.WorkerPool)
	cfg.TrueValue = -1

	_, err := montecarlo.Run(context.Background(), cfg, PoissonCoverage{}, montecarlo.KindIndicator)
	require.ErrorIs(t, err, montecarlo.ErrTrialFailure)

	cfg.Strategy = montecarlo.VectorizedBatch
	_, err = montecarlo.Run(context.Background(), cfg, PoissonCoverage{}, montecarlo.KindIndicator)
	require.ErrorIs(t, err, montecarlo.ErrTrialFailure)
}

func TestSampleMean(t *testing.T) {
	cfg := seeded(montecarlo.WorkerPool)
	cfg.Replications = 2000

	report, err := montecarlo.Run(context.Background(), cfg, SampleMean{}, montecarlo.KindNumeric)
	require.NoError(t, err)

	// sd of one mean is sqrt(2/10)
	assert.InDelta(t, 2.0, report.Summary.Mean, 0.05)
	assert.InDelta(t, math.Sqrt(0.2), report.Summary.StdDev, 0.05)
	assert.Less(t, report.Summary.Lower, 2.0)
	assert.Greater(t, report.Summary.Upper, 2.0)
}

func TestSampleMeanNotBatchCapable(t *testing.T) {
	_, err := montecarlo.Run(context.Background(), seeded(montecarlo.VectorizedBatch), SampleMean{}, montecarlo.KindNumeric)
	assert.ErrorIs(t, err, montecarlo.ErrConfiguration)
}

// ============================================================================
// IRF COMPARISON TESTS
// ============================================================================

func TestIRFComparison(t *testing.T) {
	c := DefaultIRFComparison()
	c.Horizon = 4

	cfg := seeded(montecarlo.WorkerPool)
	cfg.Replications = 200
	cfg.ConfidenceLevel = 0.9

	report, err := montecarlo.NewRunner().RunDraws(context.Background(), cfg, c)
	require.NoError(t, err)
	require.Len(t, report.Draws, 200)
	assert.Len(t, report.Draws[0], 2*5*2)

	lp, vr, err := c.Bands(report.Summary)
	require.NoError(t, err)
	assert.Equal(t, "LP", lp.Method)
	assert.Equal(t, "VAR", vr.Method)

	truth, err := c.TrueIRF()
	require.NoError(t, err)

	for _, band := range []varmodel.IRFBand{lp, vr} {
		r, k := band.Mean.Dims()
		require.Equal(t, 5, r)
		require.Equal(t, 2, k)

		for h := 0; h < r; h++ {
			for j := 0; j < k; j++ {
				assert.LessOrEqual(t, band.Lower.At(h, j), band.Mean.At(h, j))
				assert.GreaterOrEqual(t, band.Upper.At(h, j), band.Mean.At(h, j))
			}
		}
		// impact response is estimated without much bias by both methods
		assert.InDelta(t, truth.At(0, 0), band.Mean.At(0, 0), 0.1, band.Method)
		assert.InDelta(t, truth.At(0, 1), band.Mean.At(0, 1), 0.1, band.Method)
	}

	_, _, err = c.Bands(montecarlo.DrawsSummary{Mean: make([]float64, 3)})
	assert.Error(t, err)
}

// ============================================================================
// POISSON REGRESSION TESTS
// ============================================================================

func TestFitPoisson(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	n := 2000
	theta := []float64{0.3, -0.5}

	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, rng.NormFloat64())
		lambda := math.Exp(theta[0] + theta[1]*x.At(i, 1))
		y[i] = poissonDraws(lambda, 1, rng)[0]
	}

	got, err := FitPoisson(x, y, []float64{1, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, theta, got, 0.08)

	// the MLE is a minimum of the NLL
	nll := PoissonNLL(x, y, got)
	assert.Less(t, nll, PoissonNLL(x, y, []float64{got[0] + 0.01, got[1]}))
	assert.Less(t, nll, PoissonNLL(x, y, []float64{got[0], got[1] - 0.01}))
}

func TestFitPoissonShapeErrors(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 0, 1, 1, 1, 2})

	_, err := FitPoisson(x, []float64{1, 2}, []float64{1, 1})
	assert.Error(t, err)
	_, err = FitPoisson(x, []float64{1, 2, 3}, []float64{1})
	assert.Error(t, err)
}

func TestPoissonRegressionRun(t *testing.T) {
	cfg := seeded(montecarlo.WorkerPool)
	cfg.TrueValue = 0.5
	cfg.SampleSize = 500
	cfg.Replications = 60

	report, err := montecarlo.NewRunner().RunDraws(context.Background(), cfg, PoissonRegression{Covariates: 1})
	require.NoError(t, err)

	require.Len(t, report.Summary.Mean, 2)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, report.Summary.Mean, 0.05)
	for j := range report.Summary.Mean {
		assert.Less(t, report.Summary.Lower[j], 0.5)
		assert.Greater(t, report.Summary.Upper[j], 0.5)
	}

	_, err = PoissonRegression{Covariates: -1}.Replicate(0, cfg.Params, rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)
}

// ============================================================================
// BOOTSTRAP TESTS
// ============================================================================

func simulatedSeries(t *testing.T) *varmodel.TimeSeries {
	t.Helper()
	y, _, err := varmodel.DefaultDGP().Simulate(200, 100, rand.New(rand.NewPCG(8, 8)))
	require.NoError(t, err)
	return &varmodel.TimeSeries{Y: y, VarNames: []string{"output", "prices"}}
}

func TestBootstrapIRF(t *testing.T) {
	ts := simulatedSeries(t)
	spec := varmodel.ModelSpec{Lags: 1, Deterministic: varmodel.DetConst}

	b, err := NewBootstrapIRF(ts, spec, 6, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"output", "prices"}, b.Names())

	cfg := seeded(montecarlo.WorkerPool)
	cfg.Replications = 100

	report, err := montecarlo.NewRunner().RunDraws(context.Background(), cfg, b)
	require.NoError(t, err)
	assert.Len(t, report.Summary.Mean, 6*2)

	band, err := b.Band(report.Summary)
	require.NoError(t, err)
	assert.Equal(t, "Bootstrap", band.Method)

	r, k := band.Upper.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 2, k)
	for h := 0; h < r; h++ {
		for j := 0; j < k; j++ {
			assert.LessOrEqual(t, band.Lower.At(h, j), band.Upper.At(h, j))
		}
	}
	// the band is centred on the point estimate, which covers the impact response
	assert.True(t, band.Lower.At(0, 0) <= band.Mean.At(0, 0) && band.Mean.At(0, 0) <= band.Upper.At(0, 0))

	_, err = NewBootstrapIRF(ts, spec, 6, 5)
	assert.Error(t, err)
}

func TestBootstrapIRFReproducible(t *testing.T) {
	b, err := NewBootstrapIRF(simulatedSeries(t), varmodel.ModelSpec{Lags: 2, Deterministic: varmodel.DetConst}, 4, 1)
	require.NoError(t, err)

	p := seeded(montecarlo.Sequential).Params
	first, err := b.Replicate(0, p, rand.New(rand.NewPCG(1, 0)))
	require.NoError(t, err)
	second, err := b.Replicate(0, p, rand.New(rand.NewPCG(1, 0)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBootstrapGranger(t *testing.T) {
	ts := simulatedSeries(t)
	g, err := NewBootstrapGranger(ts, varmodel.ModelSpec{Lags: 1, Deterministic: varmodel.DetConst}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "output", g.Base.CauseVar)
	assert.Equal(t, "prices", g.Base.EffectVar)

	cfg := seeded(montecarlo.WorkerPool)
	cfg.Replications = 99

	report, err := montecarlo.Run(context.Background(), cfg, g, montecarlo.KindIndicator)
	require.NoError(t, err)

	pv := g.PValue(report.Summary)
	assert.Greater(t, pv, 0.0)
	assert.LessOrEqual(t, pv, 1.0)

	_, err = NewBootstrapGranger(ts, varmodel.ModelSpec{Lags: 1}, 1, 1)
	assert.Error(t, err)
}

func TestBootstrapGrangerPValue(t *testing.T) {
	g := &BootstrapGranger{}
	assert.InDelta(t, 21.0/100.0, g.PValue(montecarlo.Summary{Replications: 99, Mean: 20.0 / 99.0}), 1e-12)
	assert.InDelta(t, 1.0/100.0, g.PValue(montecarlo.Summary{Replications: 99, Mean: 0}), 1e-12)
	assert.InDelta(t, 1.0, g.PValue(montecarlo.Summary{Replications: 99, Mean: 1}), 1e-12)
}
