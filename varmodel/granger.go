// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GrangerCausality tests whether causeIdx Granger-causes effectIdx.
// The null hypothesis is that the p lags of causeIdx add nothing to the
// equation for effectIdx. The unrestricted fit reuses the coefficients in
// rf; the restricted model is refit without the cause lags.
func (rf *ReducedFormVAR) GrangerCausality(ts *TimeSeries, causeIdx, effectIdx int) (*GrangerCausalityResult, error) {
	if ts == nil || ts.Y == nil {
		return nil, fmt.Errorf("time series data not provided")
	}
	if rf == nil || len(rf.A) == 0 {
		return nil, errNotEstimated
	}

	T, K := ts.Y.Dims()
	p := rf.Model.Lags

	if causeIdx < 0 || causeIdx >= K {
		return nil, fmt.Errorf("causeIdx out of range: %d", causeIdx)
	}
	if effectIdx < 0 || effectIdx >= K {
		return nil, fmt.Errorf("effectIdx out of range: %d", effectIdx)
	}
	if causeIdx == effectIdx {
		return nil, fmt.Errorf("causeIdx and effectIdx cannot be the same")
	}

	Treg := T - p
	if Treg <= 0 {
		return nil, fmt.Errorf("not enough observations for lags p = %d, T = %d", p, T)
	}

	yEffect := mat.NewDense(Treg, 1, nil)
	for t := 0; t < Treg; t++ {
		yEffect.Set(t, 0, ts.Y.At(t+p, effectIdx))
	}

	// Unrestricted RSS from the fitted model's residuals
	resU, err := rf.Residuals(ts)
	if err != nil {
		return nil, err
	}
	uCol := mat.Col(nil, effectIdx, resU)
	rssUnrestricted := floats.Dot(uCol, uCol)

	// Restricted model: same deterministics, no lags of causeIdx
	XRestricted := designMatrix(ts.Y, rf.Model, causeIdx)
	betaRestricted, err := leastSquares(XRestricted, yEffect)
	if err != nil {
		return nil, fmt.Errorf("restricted OLS: %w", err)
	}

	var residRestricted mat.Dense
	residRestricted.Mul(XRestricted, betaRestricted)
	residRestricted.Sub(yEffect, &residRestricted)
	rCol := mat.Col(nil, 0, &residRestricted)
	rssRestricted := floats.Dot(rCol, rCol)

	// F-statistic and p-value
	q := float64(p)
	k := float64(rf.Model.Deterministic.columns() + p*K)
	dof := float64(Treg) - k
	if dof <= 0 {
		return nil, fmt.Errorf("insufficient degrees of freedom: %f", dof)
	}

	// rssRestricted >= rssUnrestricted in theory; clamp float noise
	num := math.Max(rssRestricted-rssUnrestricted, 0)
	den := rssUnrestricted / dof

	fStatistic, pValue := 0.0, 1.0
	if den > 0 && num > 0 {
		fStatistic = (num / q) / den
		if math.IsNaN(fStatistic) || math.IsInf(fStatistic, 0) {
			fStatistic = 0
		} else {
			pValue = distuv.F{D1: q, D2: dof}.Survival(fStatistic)
		}
	}
	pValue = math.Min(math.Max(pValue, 0), 1)

	return &GrangerCausalityResult{
		CauseVar:    varName(ts, causeIdx),
		EffectVar:   varName(ts, effectIdx),
		FStatistic:  fStatistic,
		PValue:      pValue,
		Lags:        p,
		Significant: pValue < 0.05,
	}, nil
}

func varName(ts *TimeSeries, i int) string {
	if i < len(ts.VarNames) {
		return ts.VarNames[i]
	}
	return fmt.Sprintf("Var%d", i+1)
}
