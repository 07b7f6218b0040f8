// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package experiments

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/zhentaoshi/Econ5821/montecarlo"
	"github.com/zhentaoshi/Econ5821/varmodel"
)

// IRFComparison simulates the structural DGP and estimates the response
// to Shock twice per replication: by local projection on the observed
// shock and by a Cholesky-identified VAR. The outcome is the LP IRF
// followed by the VAR IRF, each flattened row-major (horizon+1) x K.
type IRFComparison struct {
	DGP     varmodel.DGP
	T       int // sample size per replication
	Burn    int
	Horizon int
	Lags    int
	Shock   int
}

// DefaultIRFComparison matches the LP vs VAR simulation defaults.
func DefaultIRFComparison() IRFComparison {
	return IRFComparison{
		DGP:     varmodel.DefaultDGP(),
		T:       200,
		Burn:    100,
		Horizon: 12,
		Lags:    1,
		Shock:   0,
	}
}

func (c IRFComparison) width() int {
	return (c.Horizon + 1) * c.DGP.K()
}

func (c IRFComparison) Replicate(_ int, _ montecarlo.Params, rng *rand.Rand) ([]float64, error) {
	y, eps, err := c.DGP.Simulate(c.T, c.Burn, rng)
	if err != nil {
		return nil, err
	}

	lp, err := varmodel.LocalProjectionIRF(y, mat.Col(nil, c.Shock, eps), c.Horizon, c.Lags)
	if err != nil {
		return nil, fmt.Errorf("local projection: %w", err)
	}

	ts := &varmodel.TimeSeries{Y: y}
	rf, err := (&varmodel.OLSEstimator{}).Estimate(ts, varmodel.ModelSpec{
		Lags:          c.Lags,
		Deterministic: varmodel.DetConst,
	})
	if err != nil {
		return nil, fmt.Errorf("VAR estimation: %w", err)
	}
	varIRF, err := rf.IRF(c.Horizon+1, c.Shock)
	if err != nil {
		return nil, fmt.Errorf("VAR IRF: %w", err)
	}

	out := make([]float64, 0, 2*c.width())
	out = append(out, lp.RawMatrix().Data...)
	out = append(out, varIRF.RawMatrix().Data...)
	return out, nil
}

// TrueIRF is the population response the estimators target.
func (c IRFComparison) TrueIRF() (*mat.Dense, error) {
	return c.DGP.TrueIRF(c.Horizon, c.Shock)
}

// Bands splits a pointwise summary of the comparison draws into the LP
// and VAR bands.
func (c IRFComparison) Bands(s montecarlo.DrawsSummary) (lp, vr varmodel.IRFBand, err error) {
	w := c.width()
	if len(s.Mean) != 2*w {
		return lp, vr, fmt.Errorf("summary has width %d, expected %d", len(s.Mean), 2*w)
	}
	return unflattenBand("LP", s, 0, c.Horizon+1, c.DGP.K()),
		unflattenBand("VAR", s, w, c.Horizon+1, c.DGP.K()),
		nil
}

// unflattenBand reads an (rows x cols) band starting at offset.
func unflattenBand(method string, s montecarlo.DrawsSummary, offset, rows, cols int) varmodel.IRFBand {
	n := rows * cols
	return varmodel.IRFBand{
		Method: method,
		Mean:   mat.NewDense(rows, cols, append([]float64(nil), s.Mean[offset:offset+n]...)),
		Lower:  mat.NewDense(rows, cols, append([]float64(nil), s.Lower[offset:offset+n]...)),
		Upper:  mat.NewDense(rows, cols, append([]float64(nil), s.Upper[offset:offset+n]...)),
	}
}
