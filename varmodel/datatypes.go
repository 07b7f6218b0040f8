// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

// Package varmodel estimates reduced-form VARs and local projections and
// simulates the processes used by the IRF experiments.
package varmodel

import (
	"gonum.org/v1/gonum/mat"
)

// Simple struct for time series data
type TimeSeries struct {
	// Matrix for data, T x K
	Y *mat.Dense
	// Time index, one per row
	Time []float64
	// List of variable Names
	VarNames []string
}

// What kind of constant to include in the model
type Deterministic int

// Deterministic Constants for VAR
const (
	DetNone Deterministic = iota
	DetConst
	DetTrend
	DetConstTrend
)

func (d Deterministic) hasConst() bool { return d == DetConst || d == DetConstTrend }
func (d Deterministic) hasTrend() bool { return d == DetTrend || d == DetConstTrend }

// columns is the number of deterministic regressors.
func (d Deterministic) columns() int {
	n := 0
	if d.hasConst() {
		n++
	}
	if d.hasTrend() {
		n++
	}
	return n
}

// What kind of model to fit
type ModelSpec struct {
	// How many lags?
	Lags int
	// What kind of constant to include
	Deterministic Deterministic
}

// ReducedFormVAR represents the reduced form of a VAR model.
type ReducedFormVAR struct {
	Model ModelSpec

	// Coefficient matrices for each lag A_1, A_2, etc (each KxK matrix)
	A []*mat.Dense

	// Deterministic Terms: constant (Kx1) and trend (Kx1) if included
	C *mat.Dense

	// Covariance of residuals (KxK)
	SigmaU *mat.SymDense
}

// Estimator is the interface for a VAR model estimator.
type Estimator interface {
	// Turns the data we have into a reduced form VAR
	Estimate(ts *TimeSeries, spec ModelSpec) (*ReducedFormVAR, error)
}

// OLSEstimator implements the OLS estimator for VAR models.
type OLSEstimator struct{}

// GrangerCausalityResult holds the result of a Granger causality test
type GrangerCausalityResult struct {
	CauseVar    string  // Variable being tested as the cause
	EffectVar   string  // Variable being tested as the effect
	FStatistic  float64 // F-statistic value
	PValue      float64 // P-value
	Lags        int     // Number of lags used
	Significant bool    // True if p-value < 0.05
}

// K returns the number of variables in the model.
func (rf *ReducedFormVAR) K() int {
	if rf == nil || len(rf.A) == 0 {
		return 0
	}
	k, _ := rf.A[0].Dims()
	return k
}
