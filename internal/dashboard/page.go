package dashboard

import (
	"fmt"
	"math"
	"net/url"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/dataset"
)

// Chart and asset paths served by the dashboard.
const (
	DistributionChartPath = "/charts/distribution.png"
	HeatmapChartPath      = "/charts/heatmap.png"
	PieChartPath          = "/charts/pie.png"
	IntroAssetPath        = "/assets/intro"
	MissingAssetPath      = "/assets/missing"
)

// Params are the resolved selector values of one page render.
type Params struct {
	Section  Section
	Region   analysis.Region
	Category dataset.Column
	Policy   analysis.Policy
}

// ParseParams resolves query values. Absent values fall back to
// Introduction, Global, NA_Sales and def.
func ParseParams(q url.Values, def analysis.Policy) (Params, error) {
	sec, err := ParseSection(q.Get("section"))
	if err != nil {
		return Params{}, err
	}
	region, err := ParseRegionOrDefault(q.Get("region"))
	if err != nil {
		return Params{}, err
	}
	cat, err := ParseCategory(q.Get("category"))
	if err != nil {
		return Params{}, err
	}
	pol := def
	if v := q.Get("policy"); v != "" {
		if pol, err = analysis.ParsePolicy(v); err != nil {
			return Params{}, err
		}
	}
	if pol == "" {
		pol = analysis.PolicyFrequency
	}
	return Params{Section: sec, Region: region, Category: cat, Policy: pol}, nil
}

// Query encodes p back into URL query values.
func (p Params) Query() url.Values {
	return url.Values{
		"section":  {string(p.Section)},
		"region":   {string(p.Region)},
		"category": {string(p.Category)},
		"policy":   {string(p.Policy)},
	}
}

// Option is one choice of a selector.
type Option struct {
	Value    string
	Label    string
	Href     string
	Selected bool
}

// Page is the view model of the dashboard HTML page. Notice replaces the
// data sections when the dataset is unavailable.
type Page struct {
	Title      string
	Params     Params
	Nav        []Option
	Regions    []Option
	Categories []Option
	Policies   []Option
	Notice     string
	Intro      []string
	IntroImage string
	Conclusion []string
	Data       *DataView
	Vis        *VisView
}

// DataView is the Dataset section.
type DataView struct {
	Source         string
	Rows           int
	Kept           int
	Missing        []MissingCount
	Header         []string
	Head           [][]string
	DescribeHeader []string
	Describe       [][]string
	Stats          []StatView
	MissingImage   string
}

// MissingCount is the number of raw rows lacking one column and their
// share of the file.
type MissingCount struct {
	Column  string
	Count   int
	Percent string
}

// StatView is the statistics table of one sales column.
type StatView struct {
	Label   string
	NoData  bool
	Metrics []analysis.Metric
}

// VisView is the Visualization section.
type VisView struct {
	CategoryLabel       string
	DistributionChart   string
	DistributionCaption string
	DistributionEmpty   bool
	HeatmapChart        string
	HeatmapEmpty        bool
	PieIntro            string
	RegionHeading       string
	RegionText          string
	PieChart            string
	PieEmpty            bool
	Top                 []analysis.Entry
}

// Options bound the amount of data shown.
type Options struct {
	TopN       int
	SampleRows int
}

// NewPage builds the navigation and selector skeleton shared by every
// section. Data views are left nil.
func NewPage(p Params) *Page {
	pg := &Page{Title: AppTitle, Params: p}
	for _, s := range Sections {
		q := p.Query()
		q.Set("section", string(s))
		pg.Nav = append(pg.Nav, Option{Value: string(s), Label: s.Title(), Href: "/?" + q.Encode(), Selected: s == p.Section})
	}
	for _, r := range analysis.Regions {
		pg.Regions = append(pg.Regions, Option{Value: string(r), Label: string(r), Selected: r == p.Region})
	}
	for _, c := range Categories {
		pg.Categories = append(pg.Categories, Option{Value: string(c), Label: Label(c), Selected: c == p.Category})
	}
	for _, pol := range []analysis.Policy{analysis.PolicyFrequency, analysis.PolicyTop10} {
		pg.Policies = append(pg.Policies, Option{Value: string(pol), Label: policyLabel(pol), Selected: pol == p.Policy})
	}
	switch p.Section {
	case Introduction:
		pg.Intro = IntroText()
		pg.IntroImage = IntroAssetPath
	case Conclusion:
		pg.Conclusion = ConclusionText()
	}
	return pg
}

// Build fills the page for p from an already loaded dataset. prof may be nil.
func Build(ds *dataset.Dataset, prof *dataset.Profile, p Params, opt Options) (*Page, error) {
	pg := NewPage(p)
	var err error
	switch p.Section {
	case DatasetView:
		pg.Data, err = buildData(ds, prof, opt)
	case Visualization:
		pg.Vis, err = buildVis(ds, p, opt)
	}
	if err != nil {
		return nil, err
	}
	return pg, nil
}

func buildData(ds *dataset.Dataset, prof *dataset.Profile, opt Options) (*DataView, error) {
	v := &DataView{Source: ds.Source(), Rows: ds.Len(), Kept: ds.Len(), MissingImage: MissingAssetPath}
	if prof != nil {
		v.Rows = prof.TotalRows
		for _, c := range prof.Columns {
			if n := prof.Missing[c]; n > 0 {
				v.Missing = append(v.Missing, MissingCount{
					Column:  string(c),
					Count:   n,
					Percent: fmt.Sprintf("%.1f%%", prof.MissingFraction(c)*100),
				})
			}
		}
	}
	for _, c := range dataset.Columns {
		v.Header = append(v.Header, Label(c))
	}
	for _, rec := range ds.Head(opt.SampleRows) {
		v.Head = append(v.Head, analysis.RecordCells(rec))
	}

	v.DescribeHeader = []string{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	if !ds.Empty() {
		for _, d := range analysis.Describe(ds) {
			v.Describe = append(v.Describe, []string{
				Label(d.Column), fmt.Sprint(d.Count), d.Mean.String(), d.Std.String(), d.Min.String(),
				d.Q25.String(), d.Q50.String(), d.Q75.String(), d.Max.String(),
			})
		}
	}

	sums, err := analysis.SummarizeAll(ds, analysis.StatColumns)
	if err != nil {
		return nil, err
	}
	for _, s := range sums {
		v.Stats = append(v.Stats, StatView{Label: Label(s.Column), NoData: s.Empty(), Metrics: s.Metrics()})
	}
	return v, nil
}

func buildVis(ds *dataset.Dataset, p Params, opt Options) (*VisView, error) {
	n := opt.TopN
	if n <= 0 {
		n = analysis.DefaultTopN
	}
	dist, err := analysis.Distribute(ds, p.Category, p.Policy)
	if err != nil {
		return nil, err
	}
	top, err := analysis.TopByRegion(ds, p.Region, n)
	if err != nil {
		return nil, err
	}
	corr := analysis.Correlate(ds)

	q := url.Values{"category": {string(p.Category)}, "policy": {string(p.Policy)}}
	rq := url.Values{"region": {string(p.Region)}}
	return &VisView{
		CategoryLabel:       Label(p.Category),
		DistributionChart:   DistributionChartPath + "?" + q.Encode(),
		DistributionCaption: fmt.Sprintf("%s Distribution Bar Plot", Label(p.Category)),
		DistributionEmpty:   dist.Empty(),
		HeatmapChart:        HeatmapChartPath,
		HeatmapEmpty:        !anyDefined(corr),
		PieIntro:            PieIntro,
		RegionHeading:       RegionHeading(p.Region, n),
		RegionText:          RegionText(p.Region),
		PieChart:            PieChartPath + "?" + rq.Encode(),
		PieEmpty:            top.Total() <= 0,
		Top:                 top.Entries,
	}, nil
}

func policyLabel(p analysis.Policy) string {
	switch p {
	case analysis.PolicyTop10:
		return "Top 10 games"
	default:
		return "Frequency of values"
	}
}

func anyDefined(m *analysis.CorrMatrix) bool {
	for _, row := range m.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}
