// Package analysis computes the derived values the dashboard renders:
// per-column statistics, distributions, the correlation matrix and
// top-N selections. Every function is a pure function of a Dataset.
package analysis

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// Metric names in display order.
const (
	MetricMean   = "Mean"
	MetricStdDev = "Standard Deviation"
	MetricMin    = "Minimum"
	MetricMax    = "Maximum"
	MetricMedian = "Median"
)

// Summary holds the descriptive statistics of one sales column.
// Undefined values are NaN: all of them when N == 0, StdDev when N == 1.
type Summary struct {
	Column dataset.Column
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// Metric is one named statistic.
type Metric struct {
	Name  string `json:"name"`
	Value Number `json:"value"`
}

// Empty reports whether the column had no values.
func (s Summary) Empty() bool { return s.N == 0 }

// Metrics lists the statistics in display order.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{MetricMean, Number(s.Mean)},
		{MetricStdDev, Number(s.StdDev)},
		{MetricMin, Number(s.Min)},
		{MetricMax, Number(s.Max)},
		{MetricMedian, Number(s.Median)},
	}
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column  dataset.Column `json:"column"`
		N       int            `json:"n"`
		Metrics []Metric       `json:"metrics"`
	}{s.Column, s.N, s.Metrics()})
}

// Summarize computes Mean, sample Standard Deviation (n-1), Min, Max and
// Median of a sales column. An empty dataset is not an error.
func Summarize(ds *dataset.Dataset, col dataset.Column) (Summary, error) {
	if !col.Sales() {
		return Summary{}, apperr.InvalidInput("column %q is not a sales column", col)
	}
	vals, err := ds.Values(col)
	if err != nil {
		return Summary{}, err
	}
	return summarizeValues(col, vals), nil
}

func summarizeValues(col dataset.Column, vals []float64) Summary {
	nan := math.NaN()
	s := Summary{Column: col, N: len(vals), Mean: nan, StdDev: nan, Min: nan, Max: nan, Median: nan}
	if len(vals) == 0 {
		return s
	}
	// stats only fails on empty input, ruled out above.
	s.Mean, _ = stats.Mean(vals)
	s.Min, _ = stats.Min(vals)
	s.Max, _ = stats.Max(vals)
	s.Median, _ = stats.Median(vals)
	if len(vals) > 1 {
		s.StdDev, _ = stats.StandardDeviationSample(vals)
	}
	return s
}

// SummarizeAll summarizes every column in cols, stopping at the first
// invalid column name.
func SummarizeAll(ds *dataset.Dataset, cols []dataset.Column) ([]Summary, error) {
	out := make([]Summary, 0, len(cols))
	for _, c := range cols {
		s, err := Summarize(ds, c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ColumnDescription is one column of the describe table: count, mean,
// std, min, quartiles and max.
type ColumnDescription struct {
	Column dataset.Column `json:"column"`
	Count  int            `json:"count"`
	Mean   Number         `json:"mean"`
	Std    Number         `json:"std"`
	Min    Number         `json:"min"`
	Q25    Number         `json:"q25"`
	Q50    Number         `json:"q50"`
	Q75    Number         `json:"q75"`
	Max    Number         `json:"max"`
}

// Describe builds the describe table over all numeric columns. Quartiles
// use linear interpolation between closest ranks.
func Describe(ds *dataset.Dataset) []ColumnDescription {
	out := make([]ColumnDescription, 0, len(dataset.NumericColumns))
	for _, c := range dataset.NumericColumns {
		vals, _ := ds.Values(c)
		s := summarizeValues(c, vals)
		d := ColumnDescription{
			Column: c,
			Count:  s.N,
			Mean:   Number(s.Mean),
			Std:    Number(s.StdDev),
			Min:    Number(s.Min),
			Max:    Number(s.Max),
			Q25:    Number(math.NaN()),
			Q50:    Number(math.NaN()),
			Q75:    Number(math.NaN()),
		}
		if len(vals) > 0 {
			sorted := append([]float64(nil), vals...)
			sort.Float64s(sorted)
			d.Q25 = Number(quantile(sorted, 0.25))
			d.Q50 = Number(quantile(sorted, 0.5))
			d.Q75 = Number(quantile(sorted, 0.75))
		}
		out = append(out, d)
	}
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
