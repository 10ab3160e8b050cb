package dataset

import (
	"fmt"

	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// Dataset is the cleaned table. It is never mutated after construction;
// accessors hand out copies.
type Dataset struct {
	source  string
	records []Record
}

// New builds a Dataset from records. The slice is copied.
func New(source string, records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{source: source, records: cp}
}

// Source is the base name of the file the dataset was read from.
func (d *Dataset) Source() string { return d.source }

// Len is the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Empty reports whether cleaning left no rows.
func (d *Dataset) Empty() bool { return len(d.records) == 0 }

// Record returns the i-th record in file order.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Records returns a copy of all records.
func (d *Dataset) Records() []Record {
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Head returns up to n leading records.
func (d *Dataset) Head(n int) []Record {
	if n > len(d.records) {
		n = len(d.records)
	}
	if n <= 0 {
		return nil
	}
	cp := make([]Record, n)
	copy(cp, d.records[:n])
	return cp
}

// Values extracts a numeric column in row order.
func (d *Dataset) Values(c Column) ([]float64, error) {
	if !c.Numeric() {
		return nil, apperr.InvalidInput("column %q is not numeric", c)
	}
	out := make([]float64, len(d.records))
	for i, r := range d.records {
		out[i], _ = r.Value(c)
	}
	return out, nil
}

// Profile records what the loader saw before dropping incomplete rows.
type Profile struct {
	Source      string
	Columns     []Column
	TotalRows   int
	DroppedRows int
	Missing     map[Column]int
	// mask[i][j] is true when raw row i lacks Columns[j].
	mask [][]bool
}

func newProfile(source string) *Profile {
	return &Profile{
		Source:  source,
		Columns: append([]Column(nil), Columns...),
		Missing: make(map[Column]int, len(Columns)),
	}
}

func (p *Profile) addRow(missing []bool) {
	p.TotalRows++
	row := make([]bool, len(missing))
	copy(row, missing)
	p.mask = append(p.mask, row)
	dropped := false
	for j, m := range missing {
		if m {
			p.Missing[p.Columns[j]]++
			dropped = true
		}
	}
	if dropped {
		p.DroppedRows++
	}
}

// MissingFraction is the share of raw rows lacking c.
func (p *Profile) MissingFraction(c Column) float64 {
	if p.TotalRows == 0 {
		return 0
	}
	return float64(p.Missing[c]) / float64(p.TotalRows)
}

// MissingMatrix folds raw rows into at most bins consecutive groups and
// returns, per group and column, the fraction of missing cells. Rows stay
// in file order so the matrix reads top to bottom like the file.
func (p *Profile) MissingMatrix(bins int) ([][]float64, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}
	if p.TotalRows == 0 {
		return nil, nil
	}
	if bins > p.TotalRows {
		bins = p.TotalRows
	}
	out := make([][]float64, bins)
	counts := make([]int, bins)
	for b := range out {
		out[b] = make([]float64, len(p.Columns))
	}
	for i, row := range p.mask {
		b := i * bins / p.TotalRows
		counts[b]++
		for j, m := range row {
			if m {
				out[b][j]++
			}
		}
	}
	for b := range out {
		if counts[b] == 0 {
			continue
		}
		for j := range out[b] {
			out[b][j] /= float64(counts[b])
		}
	}
	return out, nil
}
