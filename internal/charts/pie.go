package charts

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/vgdash/internal/analysis"
)

// Slice colors cycle in this order.
var pieColors = []drawing.Color{
	drawing.ColorFromHex("ff9999"),
	drawing.ColorFromHex("66b3ff"),
	drawing.ColorFromHex("99ff99"),
	drawing.ColorFromHex("ffcc99"),
}

// Pie draws a ranked selection as a pie chart with percentage labels.
// The leading slice gets a dark outline so the best seller stands out.
func Pie(w io.Writer, top analysis.TopNSelection, title string, size Size) error {
	total := top.Total()
	if len(top.Entries) == 0 || total <= 0 {
		return ErrNoData
	}
	size = size.orDefault()
	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	values := make([]chart.Value, len(top.Entries))
	for i, e := range top.Entries {
		style := chart.Style{
			FillColor:   pieColors[i%len(pieColors)],
			StrokeColor: drawing.ColorWhite,
			StrokeWidth: 1,
			FontSize:    9,
		}
		if i == 0 {
			style.StrokeColor = drawing.ColorBlack
			style.StrokeWidth = 2.5
		}
		pct := float64(e.Value) / total * 100
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", shorten(e.Name, 22), pct),
			Value: float64(e.Value),
			Style: style,
		}
	}
	pc := chart.PieChart{
		Title:  title,
		Width:  side,
		Height: side,
		Values: values,
	}
	if err := pc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}
