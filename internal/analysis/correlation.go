package analysis

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/vgdash/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []dataset.Column
	Values  [][]float64 // row-major, Values[i][j]
}

// At returns corr(a, b); ok is false when either column is absent.
func (m *CorrMatrix) At(a, b dataset.Column) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B dataset.Column
	R    float64
}

// Pairs lists the upper triangle, skipping undefined cells.
func (m *CorrMatrix) Pairs() []PairCorr {
	var out []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			out = append(out, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	return out
}

func (m *CorrMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]Number, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]Number, len(row))
		for j, v := range row {
			vals[i][j] = Number(v)
		}
	}
	return json.Marshal(struct {
		Columns []dataset.Column `json:"columns"`
		Values  [][]Number       `json:"values"`
	}{m.Columns, vals})
}

// Correlate computes the Pearson matrix over dataset.NumericColumns.
// Cells involving a zero-variance column, or any cell when there are fewer
// than two rows, are NaN. The diagonal is exactly 1 otherwise.
func Correlate(ds *dataset.Dataset) *CorrMatrix {
	cols := append([]dataset.Column(nil), dataset.NumericColumns...)
	n := len(cols)
	series := make([][]float64, n)
	varies := make([]bool, n)
	for i, c := range cols {
		series[i], _ = ds.Values(c)
		varies[i] = len(series[i]) > 1 && stat.Variance(series[i], nil) > 0
	}
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			r := math.NaN()
			switch {
			case !varies[a] || !varies[b]:
			case a == b:
				r = 1
			default:
				r = clamp(stat.Correlation(series[a], series[b], nil))
			}
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return &CorrMatrix{Columns: cols, Values: mat}
}

func clamp(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
