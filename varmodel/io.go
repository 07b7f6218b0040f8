// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LoadCSV loads a CSV file with a header row of variable names into a
// TimeSeries. Every data row must have one numeric value per variable.
func LoadCSV(path string) (*TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ts, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// ReadCSV is LoadCSV on an open reader.
func ReadCSV(in io.Reader) (*TimeSeries, error) {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true
	// empty lines are skipped by csv.Reader; ragged rows are checked below
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("empty header")
	}
	for j, name := range header {
		header[j] = strings.TrimSpace(name)
		if header[j] == "" {
			return nil, fmt.Errorf("header column %d has no variable name", j+1)
		}
	}
	K := len(header)

	var (
		data  []float64
		times []float64
		row   int
	)

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err) // +2 for header + 1-based
		}
		if len(record) != K {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", row+2, K, len(record))
		}

		for j, s := range record {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse float at row %d col %d (%q): %w", row+2, j+1, s, err)
			}
			data = append(data, v)
		}
		times = append(times, float64(row))
		row++
	}

	if row == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	return &TimeSeries{
		Y:        mat.NewDense(row, K, data),
		Time:     times,
		VarNames: header,
	}, nil
}

// IRFBand is a pointwise Monte Carlo summary of one estimator's IRF,
// each matrix (horizons x K).
type IRFBand struct {
	Method string
	Mean   *mat.Dense
	Lower  *mat.Dense
	Upper  *mat.Dense
}

// WriteIRFBandsCSV writes bands to path in long format.
func WriteIRFBandsCSV(path string, varNames []string, truth *mat.Dense, bands ...IRFBand) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteIRFBands(file, varNames, truth, bands...); err != nil {
		return err
	}
	return file.Close()
}

// WriteIRFBands writes one row per method, response and horizon:
// Method, ResponseVar, Horizon, True, Mean, Lower, Upper.
// True is empty when truth is nil.
func WriteIRFBands(w io.Writer, varNames []string, truth *mat.Dense, bands ...IRFBand) error {
	writer := csv.NewWriter(w)

	header := []string{"Method", "ResponseVar", "Horizon", "True", "Mean", "Lower", "Upper"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, b := range bands {
		H, K := b.Mean.Dims()
		for j := 0; j < K; j++ {
			name := fmt.Sprintf("Var%d", j+1)
			if j < len(varNames) {
				name = varNames[j]
			}
			for h := 0; h < H; h++ {
				trueVal := ""
				if truth != nil {
					trueVal = fmt.Sprintf("%f", truth.At(h, j))
				}
				record := []string{
					b.Method,
					name,
					strconv.Itoa(h),
					trueVal,
					fmt.Sprintf("%f", b.Mean.At(h, j)),
					fmt.Sprintf("%f", b.Lower.At(h, j)),
					fmt.Sprintf("%f", b.Upper.At(h, j)),
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
