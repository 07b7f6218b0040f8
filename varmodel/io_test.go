// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestReadCSV(t *testing.T) {
	in := "gdp, inflation\n1.5, 2.0\n\n1.7, 2.1\n1.6, 2.4\n"
	ts, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"gdp", "inflation"}, ts.VarNames)
	assert.Equal(t, []float64{0, 1, 2}, ts.Time)
	r, c := ts.Y.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 2.4, ts.Y.At(2, 1))
}

func TestReadCSVErrors(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"no rows":    "a,b\n",
		"ragged row": "a,b\n1,2\n3\n",
		"bad float":  "a,b\n1,x\n",
		"blank name": "a, ,c\n1,2,3\n",
		"no names":   ",\n1,2\n",
	}
	for name, in := range tests {
		_, err := ReadCSV(strings.NewReader(in))
		assert.Error(t, err, name)
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n3,4\n"), 0o644))

	ts, err := LoadCSV(path)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), ts.Y))

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteIRFBands(t *testing.T) {
	band := IRFBand{
		Method: "LP",
		Mean:   mat.NewDense(2, 2, []float64{1, 0.5, 0.6, 0.1}),
		Lower:  mat.NewDense(2, 2, []float64{0.8, 0.3, 0.4, -0.1}),
		Upper:  mat.NewDense(2, 2, []float64{1.2, 0.7, 0.8, 0.3}),
	}
	truth := mat.NewDense(2, 2, []float64{1, 0.35, 0.6025, 0.0575})

	var buf bytes.Buffer
	require.NoError(t, WriteIRFBands(&buf, []string{"y1"}, truth, band))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, []string{"Method", "ResponseVar", "Horizon", "True", "Mean", "Lower", "Upper"}, records[0])
	assert.Equal(t, []string{"LP", "y1", "0", "1.000000", "1.000000", "0.800000", "1.200000"}, records[1])
	// unnamed variables fall back to VarN
	assert.Equal(t, []string{"LP", "Var2", "1", "0.057500", "0.100000", "-0.100000", "0.300000"}, records[4])
}

func TestWriteIRFBandsCSVWithoutTruth(t *testing.T) {
	band := IRFBand{
		Method: "Bootstrap",
		Mean:   mat.NewDense(1, 1, []float64{0.25}),
		Lower:  mat.NewDense(1, 1, []float64{0.1}),
		Upper:  mat.NewDense(1, 1, []float64{0.4}),
	}

	path := filepath.Join(t.TempDir(), "bands.csv")
	require.NoError(t, WriteIRFBandsCSV(path, []string{"gdp"}, nil, band))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bootstrap,gdp,0,,0.250000,0.100000,0.400000")
}
