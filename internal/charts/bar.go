// Package charts renders the dashboard figures as PNG images.
package charts

import (
	"fmt"
	"io"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// ErrNoData is returned when there is nothing to plot. It matches
// errors.ErrEmptyDataset under errors.Is.
var ErrNoData = apperr.New(apperr.CodeEmptyDataset, "no data to plot")

// Size is an output size in pixels.
type Size struct {
	Width, Height int
}

// DefaultSize matches a 10x6 inch figure at 100 dpi.
var DefaultSize = Size{Width: 1000, Height: 600}

func (s Size) orDefault() Size {
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultSize
	}
	return s
}

var barColor = drawing.ColorFromHex("4c72b0")

// Distribution draws d as a bar chart: one bar per bucket for the
// frequency policy, one per game for top10.
func Distribution(w io.Writer, d analysis.Distribution, title string, size Size) error {
	switch {
	case d.Empty():
		return ErrNoData
	case d.Frequency != nil:
		return FrequencyBar(w, *d.Frequency, title, size)
	default:
		return TopBar(w, *d.Top, title, size)
	}
}

// FrequencyBar draws bucket counts with buckets in ascending order.
func FrequencyBar(w io.Writer, ft analysis.FrequencyTable, title string, size Size) error {
	if len(ft.Buckets) == 0 {
		return ErrNoData
	}
	buckets := append([]analysis.Bucket(nil), ft.Buckets...)
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Value < buckets[j].Value })
	bars := make([]chart.Value, len(buckets))
	for i, b := range buckets {
		bars[i] = chart.Value{Label: fmt.Sprint(b.Value), Value: float64(b.Count), Style: chart.Style{FillColor: barColor, StrokeColor: barColor}}
	}
	return renderBars(w, bars, title, "Frequency", size)
}

// TopBar draws one bar per ranked entry, largest first.
func TopBar(w io.Writer, top analysis.TopNSelection, title string, size Size) error {
	if len(top.Entries) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(top.Entries))
	for i, e := range top.Entries {
		bars[i] = chart.Value{Label: shorten(e.Name, 18), Value: float64(e.Value), Style: chart.Style{FillColor: barColor, StrokeColor: barColor}}
	}
	return renderBars(w, bars, title, "Sales (millions)", size)
}

func renderBars(w io.Writer, bars []chart.Value, title, yName string, size Size) error {
	size = size.orDefault()
	maxV := 0.0
	for _, b := range bars {
		if b.Value > maxV {
			maxV = b.Value
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	barWidth := (size.Width - 120) / (len(bars) * 2)
	if barWidth < 4 {
		barWidth = 4
	}
	if barWidth > 60 {
		barWidth = 60
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 80}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: maxV * 1.1},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
