// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package experiments

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/zhentaoshi/Econ5821/montecarlo"
	"github.com/zhentaoshi/Econ5821/varmodel"
)

// fittedVAR is a VAR estimated on real data together with its residuals,
// the starting point of every residual bootstrap replication.
type fittedVAR struct {
	data  *varmodel.TimeSeries
	model *varmodel.ReducedFormVAR
	resid *mat.Dense
}

func fit(ts *varmodel.TimeSeries, spec varmodel.ModelSpec) (fittedVAR, error) {
	rf, err := (&varmodel.OLSEstimator{}).Estimate(ts, spec)
	if err != nil {
		return fittedVAR{}, fmt.Errorf("estimate VAR: %w", err)
	}
	resU, err := rf.Residuals(ts)
	if err != nil {
		return fittedVAR{}, fmt.Errorf("compute residuals: %w", err)
	}
	return fittedVAR{data: ts, model: rf, resid: resU}, nil
}

// resample draws Y* from the fitted model and re-estimates the VAR on it.
func (f fittedVAR) resample(rng *rand.Rand) (*varmodel.TimeSeries, *varmodel.ReducedFormVAR, error) {
	tsStar, err := f.model.SimulateBootstrapSeries(f.data, f.resid, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("simulate: %w", err)
	}
	bootRF, err := (&varmodel.OLSEstimator{}).Estimate(tsStar, f.model.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("VAR estimation: %w", err)
	}
	return tsStar, bootRF, nil
}

// BootstrapIRF is a residual bootstrap of the IRF to one shock. Each
// replication returns the bootstrap IRF flattened row-major (horizon x K).
type BootstrapIRF struct {
	fittedVAR
	Horizon int
	Shock   int
	point   *mat.Dense
}

// NewBootstrapIRF fits spec to ts and prepares the bootstrap.
func NewBootstrapIRF(ts *varmodel.TimeSeries, spec varmodel.ModelSpec, horizon, shock int) (*BootstrapIRF, error) {
	f, err := fit(ts, spec)
	if err != nil {
		return nil, err
	}
	point, err := f.model.IRF(horizon, shock)
	if err != nil {
		return nil, fmt.Errorf("IRF on original model: %w", err)
	}
	return &BootstrapIRF{fittedVAR: f, Horizon: horizon, Shock: shock, point: point}, nil
}

func (b *BootstrapIRF) Replicate(_ int, _ montecarlo.Params, rng *rand.Rand) ([]float64, error) {
	_, bootRF, err := b.resample(rng)
	if err != nil {
		return nil, err
	}
	irf, err := bootRF.IRF(b.Horizon, b.Shock)
	if err != nil {
		return nil, fmt.Errorf("IRF failed for shock %d: %w", b.Shock, err)
	}
	return irf.RawMatrix().Data, nil
}

// Band turns the pointwise bootstrap summary into a band around the point
// estimate from the original data.
func (b *BootstrapIRF) Band(s montecarlo.DrawsSummary) (varmodel.IRFBand, error) {
	H, K := b.point.Dims()
	if len(s.Mean) != H*K {
		return varmodel.IRFBand{}, fmt.Errorf("summary has width %d, expected %d", len(s.Mean), H*K)
	}
	band := unflattenBand("Bootstrap", s, 0, H, K)
	band.Mean = mat.DenseCopyOf(b.point)
	return band, nil
}

// Names returns the variable names of the bootstrapped data.
func (b *BootstrapIRF) Names() []string { return b.data.VarNames }

// BootstrapGranger computes a bootstrap p-value for one Granger causality
// pair. Each replication returns 1 if the bootstrap F statistic is at
// least the F statistic on the original data.
type BootstrapGranger struct {
	fittedVAR
	Cause  int
	Effect int
	Base   *varmodel.GrangerCausalityResult
}

// NewBootstrapGranger fits spec to ts and computes the analytic test.
func NewBootstrapGranger(ts *varmodel.TimeSeries, spec varmodel.ModelSpec, cause, effect int) (*BootstrapGranger, error) {
	f, err := fit(ts, spec)
	if err != nil {
		return nil, err
	}
	base, err := f.model.GrangerCausality(ts, cause, effect)
	if err != nil {
		return nil, fmt.Errorf("base Granger test: %w", err)
	}
	return &BootstrapGranger{fittedVAR: f, Cause: cause, Effect: effect, Base: base}, nil
}

func (g *BootstrapGranger) Replicate(_ int, _ montecarlo.Params, rng *rand.Rand) (float64, error) {
	tsStar, bootRF, err := g.resample(rng)
	if err != nil {
		return 0, err
	}
	res, err := bootRF.GrangerCausality(tsStar, g.Cause, g.Effect)
	if err != nil {
		return 0, fmt.Errorf("Granger test: %w", err)
	}
	if res.FStatistic >= g.Base.FStatistic {
		return 1, nil
	}
	return 0, nil
}

// PValue applies the (count+1)/(N+1) small-sample correction to the
// exceedance rate in s.
func (g *BootstrapGranger) PValue(s montecarlo.Summary) float64 {
	n := float64(s.Replications)
	count := math.Round(s.Mean * n)
	return (count + 1) / (n + 1)
}
