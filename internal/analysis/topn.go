package analysis

import (
	"sort"

	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// DefaultTopN is the size of the regional pie charts.
const DefaultTopN = 10

// Entry is one ranked (Name, value) pair.
type Entry struct {
	Name  string `json:"name"`
	Value Number `json:"value"`
}

// TopNSelection is the ranked head of one column, largest first.
type TopNSelection struct {
	Column  dataset.Column `json:"column"`
	Entries []Entry        `json:"entries"`
}

// Total sums the selected values.
func (t TopNSelection) Total() float64 {
	var sum float64
	for _, e := range t.Entries {
		sum += float64(e.Value)
	}
	return sum
}

// TopN returns the n records with the largest value in col, descending.
// Ties keep file order. The dataset is not reordered: sorting happens on
// an index list.
func TopN(ds *dataset.Dataset, col dataset.Column, n int) (TopNSelection, error) {
	out := TopNSelection{Column: col, Entries: []Entry{}}
	if !col.Sales() {
		return out, apperr.InvalidInput("column %q is not a sales column", col)
	}
	vals, err := ds.Values(col)
	if err != nil {
		return out, err
	}
	if n <= 0 || len(vals) == 0 {
		return out, nil
	}
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] > vals[idx[b]] })
	if n > len(idx) {
		n = len(idx)
	}
	for _, i := range idx[:n] {
		out.Entries = append(out.Entries, Entry{Name: ds.Record(i).Name, Value: Number(vals[i])})
	}
	return out, nil
}

// TopByRegion selects the top n games of a region.
func TopByRegion(ds *dataset.Dataset, r Region, n int) (TopNSelection, error) {
	col := r.Column()
	if col == "" {
		return TopNSelection{}, apperr.InvalidInput("unknown region %q", r)
	}
	return TopN(ds, col, n)
}
