// Package impute fills missing values in the numeric columns of a CSV table
// with the column mean and records which cells were filled.
package impute

import (
	"math"
	"strconv"

	"goimpute/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Result carries the processed table plus everything the API reports about
// the run.
type Result struct {
	Processed      *dataset.Table
	NumericColumns []string
	// Flags marks, per numeric column, which rows were missing in the
	// original data. Length equals the table row count.
	Flags   map[string][]bool
	Summary Summary
}

// Summary aggregates per-run imputation statistics.
type Summary struct {
	TotalRows          int
	TotalColumns       int
	NumericColumnCount int
	ColumnMeans        map[string]float64
	ColumnStdDevs      map[string]float64
	ImputedCounts      map[string]int
	TotalImputations   int
	// MissingDataRate is the share of missing numeric cells, as a
	// percentage rounded to two decimals.
	MissingDataRate float64
}

// Run performs mean imputation over every numeric column of the table. The
// input table is not modified. A column with no observed values is left as
// is; its mean is reported as zero.
func Run(t *dataset.Table) (*Result, error) {
	numericColumns := dataset.NumericColumns(t)
	if len(numericColumns) == 0 {
		return nil, ErrNoNumericColumns
	}

	processed := t.Clone()
	result := &Result{
		Processed:      processed,
		NumericColumns: numericColumns,
		Flags:          make(map[string][]bool, len(numericColumns)),
		Summary: Summary{
			TotalRows:          t.RowCount(),
			TotalColumns:       t.ColumnCount(),
			NumericColumnCount: len(numericColumns),
			ColumnMeans:        make(map[string]float64, len(numericColumns)),
			ColumnStdDevs:      make(map[string]float64, len(numericColumns)),
			ImputedCounts:      make(map[string]int, len(numericColumns)),
		},
	}

	for _, name := range numericColumns {
		col := t.ColumnIndex(name)
		values, missing := dataset.ColumnValues(t, col)

		missingCount := 0
		for _, m := range missing {
			if m {
				missingCount++
			}
		}
		result.Flags[name] = missing
		result.Summary.ImputedCounts[name] = missingCount
		result.Summary.TotalImputations += missingCount

		mean := 0.0
		if len(values) > 0 {
			m, err := stats.Mean(values)
			if err != nil {
				return nil, err
			}
			mean = m
		}
		result.Summary.ColumnMeans[name] = mean
		result.Summary.ColumnStdDevs[name] = sampleStdDev(values)

		if len(values) == 0 {
			// Nothing observed, nothing to impute from.
			continue
		}
		for row, m := range missing {
			if m {
				processed.SetCell(row, col, formatValue(mean))
			}
		}
	}

	result.Summary.MissingDataRate = missingRate(
		result.Summary.TotalImputations, t.RowCount(), len(numericColumns))

	return result, nil
}

func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

func missingRate(imputations, rows, numericCols int) float64 {
	cells := rows * numericCols
	if cells == 0 {
		return 0
	}
	rate := float64(imputations) / float64(cells) * 100
	return math.Round(rate*100) / 100
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
