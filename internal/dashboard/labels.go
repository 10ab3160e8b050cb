// Package dashboard holds the presentation side of the dashboard: the
// navigation sections, display labels for canonical columns, narrative
// text and the view model the HTML page is rendered from.
package dashboard

import (
	"strings"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// Section is one entry of the sidebar navigation.
type Section string

const (
	Introduction  Section = "introduction"
	DatasetView   Section = "dataset"
	Visualization Section = "visualization"
	Conclusion    Section = "conclusion"
)

// Sections in sidebar order.
var Sections = []Section{Introduction, DatasetView, Visualization, Conclusion}

var sectionTitles = map[Section]string{
	Introduction:  "Introduction",
	DatasetView:   "Dataset",
	Visualization: "Visualization",
	Conclusion:    "Conclusion",
}

// Title is the sidebar label of s.
func (s Section) Title() string { return sectionTitles[s] }

// NeedsData reports whether rendering s requires the dataset.
func (s Section) NeedsData() bool { return s == DatasetView || s == Visualization }

// ParseSection resolves a section by name or title. Empty selects Introduction.
func ParseSection(s string) (Section, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Introduction, nil
	}
	for _, sec := range Sections {
		if key == string(sec) {
			return sec, nil
		}
	}
	return "", apperr.InvalidInput("unknown section %q", s)
}

var columnLabels = map[dataset.Column]string{
	dataset.NASales:     "NA Sales",
	dataset.EUSales:     "EU Sales",
	dataset.JPSales:     "JP Sales",
	dataset.OtherSales:  "Other Sales",
	dataset.GlobalSales: "Global Sales",
}

// Label is the display label of a canonical column name.
func Label(c dataset.Column) string {
	if l, ok := columnLabels[c]; ok {
		return l
	}
	return string(c)
}

// Categories are the sales columns offered by the category selector.
var Categories = dataset.SalesColumns

// ParseCategory resolves a sales column from its canonical name or display
// label. Empty selects NA_Sales.
func ParseCategory(s string) (dataset.Column, error) {
	if strings.TrimSpace(s) == "" {
		return dataset.NASales, nil
	}
	c, ok := dataset.ParseColumn(s)
	if !ok || !c.Sales() {
		return "", apperr.InvalidInput("unknown sales category %q", s)
	}
	return c, nil
}

// ParseRegionOrDefault is analysis.ParseRegion with Global for empty input.
func ParseRegionOrDefault(s string) (analysis.Region, error) {
	if strings.TrimSpace(s) == "" {
		return analysis.Global, nil
	}
	return analysis.ParseRegion(s)
}
