package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/vgdash/internal/analysis"
)

var undefinedCell = color.Gray{Y: 210}

// corrGrid exposes a correlation matrix as a plotter.GridXYZ with the
// first column drawn in the top row.
type corrGrid struct {
	m *analysis.CorrMatrix
}

func (g corrGrid) n() int { return len(g.m.Columns) }
func (g corrGrid) Dims() (c, r int) { return g.n(), g.n() }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[g.n()-1-r][c] }
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// Heatmap draws the correlation matrix with each cell annotated by its
// coefficient. Undefined cells are grey and labelled "n/a".
func Heatmap(w io.Writer, m *analysis.CorrMatrix, title string, size Size) error {
	if m == nil || len(m.Columns) == 0 {
		return ErrNoData
	}
	defined := false
	for _, row := range m.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				defined = true
			}
		}
	}
	if !defined {
		return ErrNoData
	}

	g := corrGrid{m: m}
	hm := plotter.NewHeatMap(g, palette.Heat(32, 1))
	hm.Min, hm.Max = -1, 1
	hm.NaN = undefinedCell

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Add(hm)

	n := g.n()
	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := g.Z(c, r)
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			if math.IsNaN(v) {
				labels = append(labels, "n/a")
			} else {
				labels = append(labels, fmt.Sprintf("%.2f", v))
			}
		}
	}
	annot, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range annot.TextStyle {
		annot.TextStyle[i].XAlign = draw.XCenter
		annot.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(annot)

	names := make([]string, n)
	reversed := make([]string, n)
	for i, c := range m.Columns {
		names[i] = string(c)
		reversed[n-1-i] = string(c)
	}
	p.NominalX(names...)
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return writePlot(w, p, size)
}

// writePlot encodes p as PNG at the requested pixel size.
func writePlot(w io.Writer, p *plot.Plot, size Size) error {
	size = size.orDefault()
	wt, err := p.WriterTo(pixels(size.Width), pixels(size.Height), "png")
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// pixels converts a pixel count to a length at the 96 dpi the PNG
// backend renders with.
func pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}
