package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/vgdash/internal/dataset"
)

// MissingBins is the number of row groups drawn by MissingMatrix.
const MissingBins = 200

// presence shades cells from dark (all present) to white (all missing).
type presence int

func (p presence) Colors() []color.Color {
	n := int(p)
	out := make([]color.Color, n)
	for i := range out {
		y := 60 + uint8(float64(195)*float64(i)/float64(n-1))
		out[i] = color.Gray{Y: y}
	}
	return out
}

type missingGrid struct {
	frac [][]float64
	cols int
}

func (g missingGrid) Dims() (c, r int) { return g.cols, len(g.frac) }
func (g missingGrid) Z(c, r int) float64 { return g.frac[len(g.frac)-1-r][c] }
func (g missingGrid) X(c int) float64 { return float64(c) }
func (g missingGrid) Y(r int) float64 { return float64(r) }

// MissingMatrix draws which raw rows lacked which columns, first row at
// the top. Rows are folded into at most MissingBins groups.
func MissingMatrix(w io.Writer, prof *dataset.Profile, title string, size Size) error {
	if prof == nil || prof.TotalRows == 0 {
		return ErrNoData
	}
	frac, err := prof.MissingMatrix(MissingBins)
	if err != nil {
		return fmt.Errorf("missing matrix: %w", err)
	}
	g := missingGrid{frac: frac, cols: len(prof.Columns)}
	hm := plotter.NewHeatMap(g, presence(16))
	hm.Min, hm.Max = 0, 1

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Add(hm)

	names := make([]string, len(prof.Columns))
	for i, c := range prof.Columns {
		names[i] = string(c)
	}
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	bins := len(frac)
	p.Y.Label.Text = "Row"
	p.Y.Tick.Marker = plot.ConstantTicks([]plot.Tick{
		{Value: float64(bins - 1), Label: "1"},
		{Value: 0, Label: fmt.Sprint(prof.TotalRows)},
	})

	return writePlot(w, p, size)
}
