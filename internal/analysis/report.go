package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/vgdash/internal/dataset"
)

// Options controls what BuildReport includes.
type Options struct {
	// Policy for the distribution section.
	Policy Policy
	// TopN is the size of each regional ranking.
	TopN int
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		Policy:     PolicyFrequency,
		TopN:       DefaultTopN,
		SampleRows: 5,
	}
}

// StatColumns are the columns the statistics section covers.
var StatColumns = []dataset.Column{dataset.NASales, dataset.EUSales, dataset.JPSales, dataset.GlobalSales}

// RegionTop is the ranking of one region.
type RegionTop struct {
	Region Region        `json:"region"`
	Top    TopNSelection `json:"top"`
}

// Report is a markdown-friendly analysis of the sales dataset.
type Report struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	GeneratedAt   time.Time           `json:"generated_at"`
	Rows          int                 `json:"rows"`
	Kept          int                 `json:"kept"`
	Missing       map[string]int      `json:"missing"`
	Summaries     []Summary           `json:"summaries"`
	Describe      []ColumnDescription `json:"describe"`
	Distributions []Distribution      `json:"distributions"`
	Corr          *CorrMatrix         `json:"correlation"`
	Tops          []RegionTop         `json:"tops"`
	Samples       []dataset.Record    `json:"samples"`
	Warnings      []string            `json:"warnings,omitempty"`
}

// BuildReport runs every stage over ds. prof may be nil when the dataset
// did not come from the loader.
func BuildReport(ds *dataset.Dataset, prof *dataset.Profile, opt Options) (*Report, error) {
	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}
	if opt.Policy == "" {
		opt.Policy = PolicyFrequency
	}
	rep := &Report{
		ID:          uuid.NewString(),
		Name:        ds.Source(),
		GeneratedAt: time.Now().UTC(),
		Rows:        ds.Len(),
		Kept:        ds.Len(),
		Missing:     map[string]int{},
	}
	if prof != nil {
		rep.Rows = prof.TotalRows
		for c, n := range prof.Missing {
			if n > 0 {
				rep.Missing[string(c)] = n
			}
		}
		if prof.DroppedRows > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("dropped %d/%d rows with missing fields", prof.DroppedRows, prof.TotalRows))
		}
	}
	if ds.Empty() {
		rep.Warnings = append(rep.Warnings, "no data: every row was dropped during cleaning")
	}

	sums, err := SummarizeAll(ds, StatColumns)
	if err != nil {
		return nil, err
	}
	rep.Summaries = sums
	rep.Describe = Describe(ds)
	for _, c := range dataset.SalesColumns {
		d, err := Distribute(ds, c, opt.Policy)
		if err != nil {
			return nil, err
		}
		rep.Distributions = append(rep.Distributions, d)
	}
	rep.Corr = Correlate(ds)
	for _, r := range Regions {
		top, err := TopByRegion(ds, r, opt.TopN)
		if err != nil {
			return nil, err
		}
		rep.Tops = append(rep.Tops, RegionTop{Region: r, Top: top})
	}
	rep.Samples = ds.Head(opt.SampleRows)
	return rep, nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Kept < r.Rows {
		b.WriteString(fmt.Sprintf("Rows: %d (kept %d after dropping incomplete rows)\n", r.Rows, r.Kept))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	if len(r.Missing) > 0 {
		keys := make([]string, 0, len(r.Missing))
		for k := range r.Missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Missing: ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%s(%d)", k, r.Missing[k]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[STATISTICS]\n")
	for _, s := range r.Summaries {
		if s.Empty() {
			b.WriteString(fmt.Sprintf("- %s: no data\n", s.Column))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s (n=%d):", s.Column, s.N))
		for i, m := range s.Metrics() {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(fmt.Sprintf(" %s %s", strings.ToLower(m.Name), m.Value))
		}
		b.WriteString("\n")
	}

	if len(r.Describe) > 0 && r.Kept > 0 {
		b.WriteString("\n[DESCRIBE]\n")
		b.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, d := range r.Describe {
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				d.Column, d.Count, d.Mean, d.Std, d.Min, d.Q25, d.Q50, d.Q75, d.Max))
		}
	}

	b.WriteString("\n[DISTRIBUTIONS]\n")
	for _, d := range r.Distributions {
		if d.Empty() {
			b.WriteString(fmt.Sprintf("- %s: no data\n", d.Column))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s (%s): ", d.Column, d.Policy))
		if d.Frequency != nil {
			lim := len(d.Frequency.Buckets)
			if lim > 8 {
				lim = 8
			}
			for i, bk := range d.Frequency.Buckets[:lim] {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%d(%d)", bk.Value, bk.Count))
			}
			if len(d.Frequency.Buckets) > lim {
				b.WriteString(fmt.Sprintf("; buckets=%d", len(d.Frequency.Buckets)))
			}
		} else if d.Top != nil {
			writeEntries(&b, d.Top.Entries)
		}
		b.WriteString("\n")
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		pairs := r.Corr.Pairs()
		if len(pairs) == 0 {
			b.WriteString("- undefined: need at least two rows with varying values\n")
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		maxp := 10
		if len(pairs) < maxp {
			maxp = len(pairs)
		}
		for i := 0; i < maxp; i++ {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pairs[i].A, pairs[i].B, pairs[i].R))
		}
		b.WriteString("- Global_Sales by region:")
		for _, c := range []dataset.Column{dataset.NASales, dataset.EUSales, dataset.JPSales, dataset.OtherSales} {
			if v, ok := r.Corr.At(dataset.GlobalSales, c); ok {
				b.WriteString(fmt.Sprintf(" %s=%s", c, Number(v)))
			}
		}
		b.WriteString("\n")
	}

	if len(r.Tops) > 0 {
		b.WriteString("\n[TOP GAMES BY REGION]\n")
		for _, t := range r.Tops {
			b.WriteString(fmt.Sprintf("- %s (%s): ", t.Region, t.Top.Column))
			if len(t.Top.Entries) == 0 {
				b.WriteString("no data\n")
				continue
			}
			writeEntries(&b, t.Top.Entries)
			b.WriteString("\n")
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range dataset.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(string(c))
		}
		b.WriteString(" |\n| ")
		for i := range dataset.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, rec := range r.Samples {
			b.WriteString("| ")
			b.WriteString(strings.Join(RecordCells(rec), " | "))
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RecordCells formats a record in dataset.Columns order.
func RecordCells(rec dataset.Record) []string {
	return []string{
		fmt.Sprint(rec.Rank),
		safeVal(rec.Name),
		safeVal(rec.Platform),
		fmt.Sprint(rec.Year),
		safeVal(rec.Genre),
		safeVal(rec.Publisher),
		fmt.Sprintf("%.2f", rec.NASales),
		fmt.Sprintf("%.2f", rec.EUSales),
		fmt.Sprintf("%.2f", rec.JPSales),
		fmt.Sprintf("%.2f", rec.OtherSales),
		fmt.Sprintf("%.2f", rec.GlobalSales),
	}
}

func writeEntries(b *strings.Builder, entries []Entry) {
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s(%s)", safeVal(e.Name), e.Value))
	}
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
