package dashboard

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

func sample() *dataset.Dataset {
	return dataset.New("vgsales.csv", []dataset.Record{
		{Rank: 1, Name: "Wii Sports", Platform: "Wii", Year: 2006, NASales: 41.49, EUSales: 29.02, JPSales: 3.77, OtherSales: 8.46, GlobalSales: 82.74},
		{Rank: 2, Name: "Super Mario Bros.", Platform: "NES", Year: 1985, NASales: 29.08, EUSales: 3.58, JPSales: 6.81, OtherSales: 0.77, GlobalSales: 40.24},
		{Rank: 3, Name: "Mario Kart Wii", Platform: "Wii", Year: 2008, NASales: 15.85, EUSales: 12.88, JPSales: 3.79, OtherSales: 3.31, GlobalSales: 35.82},
	})
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "NA Sales", Label(dataset.NASales))
	assert.Equal(t, "Global Sales", Label(dataset.GlobalSales))
	assert.Equal(t, "Publisher", Label(dataset.Publisher))

	c, err := ParseCategory("EU Sales")
	require.NoError(t, err)
	assert.Equal(t, dataset.EUSales, c)
	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, dataset.NASales, c)
	_, err = ParseCategory("Year")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams(url.Values{}, analysis.PolicyTop10)
	require.NoError(t, err)
	assert.Equal(t, Params{Section: Introduction, Region: analysis.Global, Category: dataset.NASales, Policy: analysis.PolicyTop10}, p)

	p, err = ParseParams(url.Values{"section": {"Visualization"}, "region": {"jp"}, "category": {"JP_Sales"}, "policy": {"frequency"}}, analysis.PolicyTop10)
	require.NoError(t, err)
	assert.Equal(t, Visualization, p.Section)
	assert.Equal(t, analysis.Japan, p.Region)
	assert.Equal(t, analysis.PolicyFrequency, p.Policy)

	for _, q := range []url.Values{
		{"section": {"settings"}},
		{"region": {"Mars"}},
		{"category": {"Rank"}},
		{"policy": {"kde"}},
	} {
		_, err := ParseParams(q, "")
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, q.Encode())
	}
}

func TestNewPageNavigation(t *testing.T) {
	pg := NewPage(Params{Section: Conclusion, Region: analysis.Europe, Category: dataset.EUSales, Policy: analysis.PolicyFrequency})
	require.Len(t, pg.Nav, 4)
	assert.True(t, pg.Nav[3].Selected)
	assert.Contains(t, pg.Nav[0].Href, "section=introduction")
	assert.Contains(t, pg.Nav[0].Href, "region=Europe")
	assert.NotEmpty(t, pg.Conclusion)
	assert.Empty(t, pg.Intro)
	assert.True(t, pg.Regions[2].Selected)
	assert.Nil(t, pg.Data)
}

func TestBuildDatasetSection(t *testing.T) {
	p := Params{Section: DatasetView, Region: analysis.Global, Category: dataset.NASales, Policy: analysis.PolicyFrequency}
	pg, err := Build(sample(), nil, p, Options{TopN: 10, SampleRows: 2})
	require.NoError(t, err)
	require.NotNil(t, pg.Data)
	assert.Equal(t, 3, pg.Data.Kept)
	assert.Len(t, pg.Data.Head, 2)
	assert.Equal(t, "Wii Sports", pg.Data.Head[0][1])
	assert.Len(t, pg.Data.Describe, len(dataset.NumericColumns))
	require.Len(t, pg.Data.Stats, 4)
	assert.Equal(t, "NA Sales", pg.Data.Stats[0].Label)
	assert.Equal(t, "Mean", pg.Data.Stats[0].Metrics[0].Name)
}

func TestBuildDatasetSectionMissingShare(t *testing.T) {
	csv := strings.Join([]string{
		"Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales",
		"1,Wii Sports,Wii,2006,Sports,Nintendo,41.49,29.02,3.77,8.46,82.74",
		"2,Super Mario Bros.,NES,1985,Platform,Nintendo,29.08,3.58,6.81,0.77,40.24",
		"3,Mario Kart Wii,Wii,N/A,Racing,Nintendo,15.85,12.88,3.79,3.31,35.82",
		"4,Wii Sports Resort,Wii,2009,Sports,Nintendo,15.75,11.01,3.28,2.96,33",
	}, "\n") + "\n"
	path := filepath.Join(t.TempDir(), "vgsales.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	ds, prof, err := dataset.Load(context.Background(), path)
	require.NoError(t, err)

	p := Params{Section: DatasetView, Region: analysis.Global, Category: dataset.NASales, Policy: analysis.PolicyFrequency}
	pg, err := Build(ds, prof, p, Options{TopN: 10, SampleRows: 2})
	require.NoError(t, err)
	require.NotNil(t, pg.Data)
	assert.Equal(t, 4, pg.Data.Rows)
	assert.Equal(t, []MissingCount{{Column: "Year", Count: 1, Percent: "25.0%"}}, pg.Data.Missing)
}

func TestBuildVisualizationSection(t *testing.T) {
	p := Params{Section: Visualization, Region: analysis.Japan, Category: dataset.JPSales, Policy: analysis.PolicyTop10}
	pg, err := Build(sample(), nil, p, Options{TopN: 2})
	require.NoError(t, err)
	v := pg.Vis
	require.NotNil(t, v)
	assert.Equal(t, "Top 2 Sales in Japan by Game", v.RegionHeading)
	assert.True(t, strings.HasPrefix(v.DistributionChart, DistributionChartPath+"?"))
	assert.Contains(t, v.DistributionChart, "policy=top10")
	assert.Contains(t, v.PieChart, "region=Japan")
	require.Len(t, v.Top, 2)
	assert.Equal(t, "Super Mario Bros.", v.Top[0].Name)
	assert.False(t, v.PieEmpty)
	assert.False(t, v.HeatmapEmpty)
}

func TestBuildEmptyDatasetShowsNoData(t *testing.T) {
	empty := dataset.New("vgsales.csv", nil)
	p := Params{Section: Visualization, Region: analysis.Global, Category: dataset.NASales, Policy: analysis.PolicyFrequency}
	pg, err := Build(empty, nil, p, Options{})
	require.NoError(t, err)
	assert.True(t, pg.Vis.DistributionEmpty)
	assert.True(t, pg.Vis.PieEmpty)
	assert.True(t, pg.Vis.HeatmapEmpty)

	p.Section = DatasetView
	pg, err = Build(empty, nil, p, Options{})
	require.NoError(t, err)
	for _, s := range pg.Data.Stats {
		assert.True(t, s.NoData, s.Label)
	}
	assert.Empty(t, pg.Data.Describe)
}

func TestRegionText(t *testing.T) {
	for _, r := range analysis.Regions {
		assert.NotEmpty(t, RegionText(r), r)
	}
	assert.Equal(t, "Top 10 Total Global Sales by Game", PieTitle(analysis.Global, 10))
	assert.Equal(t, "NA Sales Bar Plot", DistributionTitle(dataset.NASales, analysis.PolicyFrequency))
}
