// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package montecarlo

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Kind says how outcomes should be read by the aggregator.
type Kind int

const (
	// KindNumeric outcomes are arbitrary draws; bounds are empirical quantiles.
	KindNumeric Kind = iota
	// KindIndicator outcomes are 0/1 coverage indicators.
	KindIndicator
)

func (k Kind) String() string {
	if k == KindIndicator {
		return "indicator"
	}
	return "numeric"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Interval is a two-sided confidence interval.
type Interval struct {
	Lower float64
	Upper float64
}

// Contains reports whether v lies in the closed interval.
func (iv Interval) Contains(v float64) bool {
	return iv.Lower <= v && v <= iv.Upper
}

// Summary is the read-only reduction of one outcome sequence.
type Summary struct {
	Kind         Kind    `json:"kind"`
	Replications int     `json:"replications"`
	Level        float64 `json:"level"`

	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // across replications, 0 for a single replication
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`

	// Fraction of replications whose interval covered the true value.
	// Only set for KindIndicator.
	Coverage float64 `json:"coverage"`
}

// CriticalValue is the two-sided standard normal critical value for level,
// e.g. 1.96 for 0.95.
func CriticalValue(level float64) float64 {
	return distuv.UnitNormal.Quantile(1 - (1-level)/2)
}

// NormalInterval is mean +- z*sigma/sqrt(n) for one replication's draw,
// sigma being the sample standard deviation (n-1 denominator) of the draw
// itself. A single draw has sigma = 0 and gives a degenerate interval.
func NormalInterval(x []float64, level float64) Interval {
	n := len(x)
	if n == 0 {
		return Interval{Lower: math.NaN(), Upper: math.NaN()}
	}
	mu := stat.Mean(x, nil)
	var sig float64
	if n > 1 {
		sig = stat.StdDev(x, nil)
	}

	margin := CriticalValue(level) / math.Sqrt(float64(n)) * sig
	return Interval{Lower: mu - margin, Upper: mu + margin}
}

// Covers returns 1 if the normal interval of x contains truth, else 0.
func Covers(x []float64, truth, level float64) float64 {
	if NormalInterval(x, level).Contains(truth) {
		return 1
	}
	return 0
}

// Quantile returns the empirical q-quantile of samples (0 <= q <= 1)
// using linear interpolation between order statistics.
func Quantile(samples []float64, q float64) float64 {
	n := len(samples)
	if n == 0 {
		return math.NaN()
	}

	tmp := make([]float64, n)
	copy(tmp, samples)
	sort.Float64s(tmp)

	return sortedQuantile(tmp, q)
}

func sortedQuantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	idxBelow := int(math.Floor(pos))
	idxAbove := int(math.Ceil(pos))

	if idxAbove == idxBelow {
		return sorted[idxBelow]
	}

	weight := pos - float64(idxBelow)
	return sorted[idxBelow]*(1.0-weight) + sorted[idxAbove]*weight
}

// Summarize reduces outcomes to a Summary. The reduction does not depend on
// the order of outcomes or on which strategy produced them.
func Summarize(outcomes []float64, level float64, kind Kind) (Summary, error) {
	n := len(outcomes)
	if n == 0 {
		return Summary{}, fmt.Errorf("no outcomes to summarize")
	}
	if level <= 0 || level >= 1 {
		return Summary{}, fmt.Errorf("confidence level must be in (0,1), got %v", level)
	}
	if kind == KindIndicator {
		for i, v := range outcomes {
			if v != 0 && v != 1 {
				return Summary{}, fmt.Errorf("indicator outcome %d is %v, expected 0 or 1", i, v)
			}
		}
	}

	s := Summary{
		Kind:         kind,
		Replications: n,
		Level:        level,
		Mean:         stat.Mean(outcomes, nil),
	}
	if n > 1 {
		s.StdDev = stat.StdDev(outcomes, nil)
	}

	switch kind {
	case KindIndicator:
		s.Coverage = s.Mean
		// Normal approximation to the sampling error of the rate.
		se := math.Sqrt(s.Mean * (1 - s.Mean) / float64(n))
		z := CriticalValue(level)
		s.Lower = math.Max(0, s.Mean-z*se)
		s.Upper = math.Min(1, s.Mean+z*se)
		if n == 1 {
			s.Lower, s.Upper = outcomes[0], outcomes[0]
		}
	default:
		alpha := 1 - level
		sorted := make([]float64, n)
		copy(sorted, outcomes)
		sort.Float64s(sorted)
		s.Lower = sortedQuantile(sorted, alpha/2)
		s.Upper = sortedQuantile(sorted, 1-alpha/2)
	}

	return s, nil
}

// DrawsSummary holds pointwise statistics of vector-valued outcomes.
type DrawsSummary struct {
	Replications int       `json:"replications"`
	Level        float64   `json:"level"`
	Mean         []float64 `json:"mean"`
	Lower        []float64 `json:"lower"`
	Upper        []float64 `json:"upper"`
}

// SummarizeDraws computes the pointwise mean and alpha/2, 1-alpha/2
// quantile bands of draws, one row per replication.
func SummarizeDraws(draws [][]float64, level float64) (DrawsSummary, error) {
	if len(draws) == 0 {
		return DrawsSummary{}, fmt.Errorf("no draws to summarize")
	}
	if level <= 0 || level >= 1 {
		return DrawsSummary{}, fmt.Errorf("confidence level must be in (0,1), got %v", level)
	}

	width := len(draws[0])
	for r, d := range draws {
		if len(d) != width {
			return DrawsSummary{}, fmt.Errorf("draw %d has length %d, expected %d", r, len(d), width)
		}
	}

	alpha := 1 - level
	out := DrawsSummary{
		Replications: len(draws),
		Level:        level,
		Mean:         make([]float64, width),
		Lower:        make([]float64, width),
		Upper:        make([]float64, width),
	}

	column := make([]float64, len(draws))
	for j := 0; j < width; j++ {
		for r, d := range draws {
			column[r] = d[j]
		}
		out.Mean[j] = stat.Mean(column, nil)
		sort.Float64s(column)
		out.Lower[j] = sortedQuantile(column, alpha/2)
		out.Upper[j] = sortedQuantile(column, 1-alpha/2)
	}

	return out, nil
}
