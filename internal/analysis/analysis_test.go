package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// naDataset builds records whose NA_Sales are vals, named A, B, C...
func naDataset(vals ...float64) *dataset.Dataset {
	recs := make([]dataset.Record, len(vals))
	for i, v := range vals {
		recs[i] = dataset.Record{Rank: i + 1, Name: string(rune('A' + i)), Year: 2000 + i, NASales: v, GlobalSales: v * 2}
	}
	return dataset.New("test.csv", recs)
}

func TestSummarizeKnownColumn(t *testing.T) {
	s, err := Summarize(naDataset(1, 2, 3, 4, 5), dataset.NASales)
	require.NoError(t, err)
	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3, s.Mean, 1e-12)
	assert.InDelta(t, 3, s.Median, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 1.5811, s.StdDev, 1e-4)

	names := []string{}
	for _, m := range s.Metrics() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Mean", "Standard Deviation", "Minimum", "Maximum", "Median"}, names)
}

func TestSummarizeEvenMedian(t *testing.T) {
	s, err := Summarize(naDataset(4, 1, 3, 2), dataset.NASales)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
}

func TestSummarizeSingleValueStdUndefined(t *testing.T) {
	s, err := Summarize(naDataset(7), dataset.NASales)
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Mean)
	assert.True(t, math.IsNaN(s.StdDev))
}

func TestSummarizeEmptyIsNoData(t *testing.T) {
	s, err := Summarize(naDataset(), dataset.GlobalSales)
	require.NoError(t, err)
	assert.True(t, s.Empty())
	for _, m := range s.Metrics() {
		assert.False(t, m.Value.Defined(), m.Name)
	}

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"column":"Global_Sales","n":0,"metrics":[
		{"name":"Mean","value":null},{"name":"Standard Deviation","value":null},
		{"name":"Minimum","value":null},{"name":"Maximum","value":null},{"name":"Median","value":null}]}`, string(b))
}

func TestSummarizeRejectsNonSalesColumn(t *testing.T) {
	_, err := Summarize(naDataset(1), dataset.Year)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = Summarize(naDataset(1), dataset.Name)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestDescribeQuartiles(t *testing.T) {
	desc := Describe(naDataset(1, 2, 3, 4))
	require.Len(t, desc, len(dataset.NumericColumns))
	var na ColumnDescription
	for _, d := range desc {
		if d.Column == dataset.NASales {
			na = d
		}
	}
	assert.Equal(t, 4, na.Count)
	assert.InDelta(t, 1.75, float64(na.Q25), 1e-12)
	assert.InDelta(t, 2.5, float64(na.Q50), 1e-12)
	assert.InDelta(t, 3.25, float64(na.Q75), 1e-12)

	for _, d := range Describe(naDataset()) {
		assert.Equal(t, 0, d.Count)
		assert.False(t, d.Q50.Defined())
	}
}

func TestTopNStableTies(t *testing.T) {
	ds := naDataset(10, 30, 20, 30)
	top, err := TopN(ds, dataset.NASales, 2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "B", Value: 30}, {Name: "D", Value: 30}}, top.Entries)
	assert.Equal(t, 60.0, top.Total())

	assert.Equal(t, "A", ds.Record(0).Name, "dataset order untouched")
}

func TestTopNBounds(t *testing.T) {
	ds := naDataset(1, 3, 2)
	top, err := TopN(ds, dataset.NASales, 10)
	require.NoError(t, err)
	assert.Len(t, top.Entries, 3)
	assert.Equal(t, "B", top.Entries[0].Name)

	top, err = TopN(ds, dataset.NASales, 0)
	require.NoError(t, err)
	assert.Empty(t, top.Entries)

	top, err = TopN(naDataset(), dataset.NASales, 10)
	require.NoError(t, err)
	assert.Empty(t, top.Entries)

	_, err = TopN(ds, dataset.Rank, 3)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestTopByRegion(t *testing.T) {
	ds := naDataset(1, 3, 2)
	top, err := TopByRegion(ds, Global, 1)
	require.NoError(t, err)
	assert.Equal(t, dataset.GlobalSales, top.Column)
	assert.Equal(t, Entry{Name: "B", Value: 6}, top.Entries[0])

	_, err = TopByRegion(ds, Region("Mars"), 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestParseRegion(t *testing.T) {
	for in, want := range map[string]Region{
		"Global": Global, "north america": NorthAmerica, "NA": NorthAmerica,
		"Europe": Europe, "eu": Europe, "Japan": Japan, "jp": Japan,
	} {
		got, err := ParseRegion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseRegion("Oceania")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Equal(t, dataset.JPSales, Japan.Column())
}

func TestFrequencyTruncatesAndOrders(t *testing.T) {
	ft, err := Frequency(naDataset(0.2, 1.9, 1.1, 0.9, 0.01, 3.5), dataset.NASales)
	require.NoError(t, err)
	assert.Equal(t, []Bucket{{Value: 0, Count: 3}, {Value: 1, Count: 2}, {Value: 3, Count: 1}}, ft.Buckets)
}

func TestFrequencyTiesKeepFirstSeenOrder(t *testing.T) {
	ft, err := Frequency(naDataset(5.1, 2.2, 5.5, 1.0, 2.9), dataset.NASales)
	require.NoError(t, err)
	assert.Equal(t, []Bucket{{Value: 5, Count: 2}, {Value: 2, Count: 2}, {Value: 1, Count: 1}}, ft.Buckets)
}

func TestFrequencyAllZeroCollapses(t *testing.T) {
	ft, err := Frequency(naDataset(0, 0.3, 0.99), dataset.NASales)
	require.NoError(t, err)
	assert.Equal(t, []Bucket{{Value: 0, Count: 3}}, ft.Buckets)
}

func TestDistributeEmptyAndPolicies(t *testing.T) {
	for _, p := range []Policy{PolicyFrequency, PolicyTop10} {
		d, err := Distribute(naDataset(), dataset.NASales, p)
		require.NoError(t, err)
		assert.True(t, d.Empty(), p)
	}

	d, err := Distribute(naDataset(5, 1, 9), dataset.NASales, PolicyTop10)
	require.NoError(t, err)
	require.NotNil(t, d.Top)
	assert.Nil(t, d.Frequency)
	assert.Equal(t, "C", d.Top.Entries[0].Name)

	_, err = Distribute(naDataset(1), dataset.NASales, Policy("kde"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFrequency, p)
	p, err = ParsePolicy("TOP10")
	require.NoError(t, err)
	assert.Equal(t, PolicyTop10, p)
	_, err = ParsePolicy("histogram")
	assert.Error(t, err)
}

func TestCorrelateSymmetricWithUnitDiagonal(t *testing.T) {
	recs := []dataset.Record{
		{Rank: 1, Year: 2001, NASales: 1, EUSales: 2, JPSales: 5, OtherSales: 1, GlobalSales: 9},
		{Rank: 2, Year: 2003, NASales: 2, EUSales: 1, JPSales: 4, OtherSales: 1, GlobalSales: 8},
		{Rank: 3, Year: 2002, NASales: 3, EUSales: 4, JPSales: 1, OtherSales: 1, GlobalSales: 9},
		{Rank: 4, Year: 2007, NASales: 4, EUSales: 3, JPSales: 2, OtherSales: 1, GlobalSales: 10},
	}
	m := Correlate(dataset.New("c.csv", recs))
	require.Len(t, m.Columns, 7)

	for i, a := range m.Columns {
		for j, b := range m.Columns {
			v := m.Values[i][j]
			if a == dataset.OtherSales || b == dataset.OtherSales {
				assert.True(t, math.IsNaN(v), "zero variance %s~%s", a, b)
				continue
			}
			if i == j {
				assert.Equal(t, 1.0, v, "diagonal %s", a)
			}
			assert.Equal(t, v, m.Values[j][i], "symmetry %s~%s", a, b)
			assert.GreaterOrEqual(t, v, -1.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
	r, ok := m.At(dataset.Rank, dataset.NASales)
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), "null")
}

func TestCorrelateUsesFractionalSales(t *testing.T) {
	// Every NA value truncates to 0; the decimals still correlate.
	m := Correlate(naDataset(0.2, 0.4, 0.6, 0.8))
	r, ok := m.At(dataset.NASales, dataset.GlobalSales)
	require.True(t, ok)
	assert.InDelta(t, 1, r, 1e-9)
}

func TestCorrelateTooFewRows(t *testing.T) {
	m := Correlate(naDataset(3))
	for _, row := range m.Values {
		for _, v := range row {
			assert.True(t, math.IsNaN(v))
		}
	}
	assert.Empty(t, m.Pairs())
}

func TestNumberJSON(t *testing.T) {
	vals := []Number{1.5, Number(math.NaN()), Number(math.Inf(1))}
	b, err := json.Marshal(vals)
	require.NoError(t, err)
	assert.Equal(t, "[1.5,null,null]", string(b))

	var back []Number
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Number(1.5), back[0])
	assert.False(t, back[1].Defined())
	assert.Equal(t, "undefined", back[1].String())
}
