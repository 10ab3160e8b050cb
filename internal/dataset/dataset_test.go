package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumn(t *testing.T) {
	cases := map[string]Column{
		"NA_Sales":     NASales,
		"NA Sales":     NASales,
		"global_sales": GlobalSales,
		" Year ":       Year,
	}
	for in, want := range cases {
		got, ok := ParseColumn(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseColumn("Critic_Score")
	assert.False(t, ok)
}

func TestColumnKinds(t *testing.T) {
	assert.True(t, Rank.Numeric())
	assert.False(t, Rank.Sales())
	assert.True(t, OtherSales.Sales())
	assert.False(t, Genre.Numeric())
}

func TestDatasetIsCopyOnRead(t *testing.T) {
	src := []Record{{Name: "A", NASales: 1}, {Name: "B", NASales: 2}}
	ds := New("x.csv", src)
	src[0].Name = "mutated"
	assert.Equal(t, "A", ds.Record(0).Name)

	recs := ds.Records()
	recs[1].Name = "mutated"
	assert.Equal(t, "B", ds.Record(1).Name)

	assert.Len(t, ds.Head(5), 2)
	assert.Nil(t, ds.Head(0))

	vals, err := ds.Values(NASales)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, vals)

	_, err = ds.Values(Name)
	assert.Error(t, err)
}

func TestMissingMatrixBins(t *testing.T) {
	p := newProfile("m.csv")
	row := make([]bool, len(Columns))
	for i := 0; i < 4; i++ {
		row[3] = i < 2
		p.addRow(row)
	}

	m, err := p.MissingMatrix(2)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, 1.0, m[0][3])
	assert.Equal(t, 0.0, m[1][3])
	assert.Equal(t, 0.5, p.MissingFraction(Year))

	m, err = p.MissingMatrix(100)
	require.NoError(t, err)
	assert.Len(t, m, 4, "bins are capped at the row count")

	_, err = p.MissingMatrix(0)
	assert.Error(t, err)

	empty, err := newProfile("e.csv").MissingMatrix(10)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
