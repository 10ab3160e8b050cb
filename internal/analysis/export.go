package analysis

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/vgdash/internal/dataset"
	"github.com/KaramelBytes/vgdash/internal/utils"
)

// Sheet names of the exported workbook.
const (
	SheetStatistics   = "Statistics"
	SheetDescribe     = "Describe"
	SheetDistribution = "Distribution"
	SheetCorrelation  = "Correlation"
	SheetTop          = "Top by Region"
	SheetSample       = "Sample"
)

// WriteXLSX exports the report as a workbook with one sheet per table.
func (r *Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetStatistics); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetDescribe, SheetDistribution, SheetCorrelation, SheetTop, SheetSample} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	w := &sheetWriter{f: f}
	w.row(SheetStatistics, "Report", r.ID)
	w.row(SheetStatistics, "File", r.Name)
	w.row(SheetStatistics, "Rows", r.Rows, "Kept", r.Kept)
	w.row(SheetStatistics)
	w.row(SheetStatistics, "Column", "N", MetricMean, MetricStdDev, MetricMin, MetricMax, MetricMedian)
	for _, s := range r.Summaries {
		cells := []interface{}{string(s.Column), s.N}
		for _, m := range s.Metrics() {
			cells = append(cells, cellValue(m.Value))
		}
		w.row(SheetStatistics, cells...)
	}

	w.row(SheetDescribe, "Column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, d := range r.Describe {
		w.row(SheetDescribe, string(d.Column), d.Count, cellValue(d.Mean), cellValue(d.Std), cellValue(d.Min),
			cellValue(d.Q25), cellValue(d.Q50), cellValue(d.Q75), cellValue(d.Max))
	}

	w.row(SheetDistribution, "Column", "Policy", "Label", "Value")
	for _, d := range r.Distributions {
		if d.Frequency != nil {
			for _, bk := range d.Frequency.Buckets {
				w.row(SheetDistribution, string(d.Column), string(d.Policy), bk.Value, bk.Count)
			}
		}
		if d.Top != nil {
			for _, e := range d.Top.Entries {
				w.row(SheetDistribution, string(d.Column), string(d.Policy), e.Name, cellValue(e.Value))
			}
		}
	}

	if r.Corr != nil {
		head := []interface{}{""}
		for _, c := range r.Corr.Columns {
			head = append(head, string(c))
		}
		w.row(SheetCorrelation, head...)
		for i, c := range r.Corr.Columns {
			cells := []interface{}{string(c)}
			for _, v := range r.Corr.Values[i] {
				cells = append(cells, cellValue(Number(v)))
			}
			w.row(SheetCorrelation, cells...)
		}
	}

	w.row(SheetTop, "Region", "Column", "Position", "Name", "Value")
	for _, t := range r.Tops {
		for i, e := range t.Top.Entries {
			w.row(SheetTop, string(t.Region), string(t.Top.Column), i+1, e.Name, cellValue(e.Value))
		}
	}

	head := make([]interface{}, len(dataset.Columns))
	for i, c := range dataset.Columns {
		head[i] = string(c)
	}
	w.row(SheetSample, head...)
	for _, rec := range r.Samples {
		w.row(SheetSample, rec.Rank, rec.Name, rec.Platform, rec.Year, rec.Genre, rec.Publisher,
			rec.NASales, rec.EUSales, rec.JPSales, rec.OtherSales, rec.GlobalSales)
	}

	if w.err != nil {
		return w.err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create xlsx dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// sheetWriter appends rows per sheet and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	next map[string]int
	err  error
}

func (w *sheetWriter) row(sheet string, cells ...interface{}) {
	if w.err != nil {
		return
	}
	if w.next == nil {
		w.next = map[string]int{}
	}
	w.next[sheet]++
	if len(cells) == 0 {
		return
	}
	addr, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, addr, &cells); err != nil {
		w.err = fmt.Errorf("write %s!%s: %w", sheet, addr, err)
	}
}

func cellValue(n Number) interface{} {
	if !n.Defined() {
		return "undefined"
	}
	return float64(n)
}
