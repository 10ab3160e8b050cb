package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// Policy picks how a sales column is turned into bars.
type Policy string

const (
	// PolicyFrequency counts rows per whole-million bucket (values truncated
	// toward zero).
	PolicyFrequency Policy = "frequency"
	// PolicyTop10 plots the ten best-selling rows individually.
	PolicyTop10 Policy = "top10"
)

// ParsePolicy resolves a config or query value. Empty means frequency.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicyFrequency):
		return PolicyFrequency, nil
	case string(PolicyTop10), "top-10", "top":
		return PolicyTop10, nil
	}
	return "", apperr.InvalidInput("unknown distribution policy %q (use frequency or top10)", s)
}

// Bucket is one bar of a frequency table.
type Bucket struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// FrequencyTable counts occurrences of each truncated value, most frequent
// first; equal counts keep the order in which the values first appear.
type FrequencyTable struct {
	Column  dataset.Column `json:"column"`
	Buckets []Bucket       `json:"buckets"`
}

// Frequency builds the frequency table of col.
func Frequency(ds *dataset.Dataset, col dataset.Column) (FrequencyTable, error) {
	out := FrequencyTable{Column: col, Buckets: []Bucket{}}
	if !col.Sales() {
		return out, apperr.InvalidInput("column %q is not a sales column", col)
	}
	vals, err := ds.Values(col)
	if err != nil {
		return out, err
	}
	index := make(map[int]int)
	for _, v := range vals {
		k := int(math.Trunc(v))
		i, ok := index[k]
		if !ok {
			i = len(out.Buckets)
			index[k] = i
			out.Buckets = append(out.Buckets, Bucket{Value: k})
		}
		out.Buckets[i].Count++
	}
	sort.SliceStable(out.Buckets, func(i, j int) bool {
		return out.Buckets[i].Count > out.Buckets[j].Count
	})
	return out, nil
}

// Distribution is the bar-chart input of one sales column under a policy.
// Exactly one of Frequency and Top is set.
type Distribution struct {
	Column    dataset.Column  `json:"column"`
	Policy    Policy          `json:"policy"`
	Frequency *FrequencyTable `json:"frequency,omitempty"`
	Top       *TopNSelection  `json:"top,omitempty"`
}

// Empty reports whether there is nothing to plot.
func (d Distribution) Empty() bool {
	if d.Frequency != nil {
		return len(d.Frequency.Buckets) == 0
	}
	if d.Top != nil {
		return len(d.Top.Entries) == 0
	}
	return true
}

// Distribute builds the distribution of col under p.
func Distribute(ds *dataset.Dataset, col dataset.Column, p Policy) (Distribution, error) {
	d := Distribution{Column: col, Policy: p}
	switch p {
	case PolicyFrequency:
		ft, err := Frequency(ds, col)
		if err != nil {
			return d, err
		}
		d.Frequency = &ft
	case PolicyTop10:
		if !col.Sales() {
			return d, apperr.InvalidInput("column %q is not a sales column", col)
		}
		top, err := TopN(ds, col, DefaultTopN)
		if err != nil {
			return d, err
		}
		d.Top = &top
	default:
		return d, apperr.InvalidInput("unknown distribution policy %q", p)
	}
	return d, nil
}
