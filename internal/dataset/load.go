package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// rowSource yields raw rows; io.EOF ends the stream.
type rowSource interface {
	Next() ([]string, error)
	Close() error
}

// Load reads path (CSV/TSV, or XLSX by extension), drops every row with a
// missing or unparsable field and truncates Year to an integer.
// Any failure to open or read the file is reported as DATA_UNAVAILABLE.
func Load(ctx context.Context, path string) (*Dataset, *Profile, error) {
	src, err := openRows(path)
	if err != nil {
		return nil, nil, apperr.DataUnavailable(path, err)
	}
	defer src.Close()

	ds, prof, err := readAll(ctx, filepath.Base(path), src)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		return nil, nil, apperr.DataUnavailable(path, err)
	}
	return ds, prof, nil
}

func openRows(path string) (rowSource, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") {
		return openXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = sniffDelimiter(path)
	return &csvRows{f: f, r: r}, nil
}

type csvRows struct {
	f *os.File
	r *csv.Reader
}

func (c *csvRows) Next() ([]string, error) { return c.r.Read() }
func (c *csvRows) Close() error            { return c.f.Close() }

type xlsxRows struct {
	f    *excelize.File
	rows *excelize.Rows
}

func openXLSX(path string) (*xlsxRows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, errors.New("open xlsx: workbook has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return &xlsxRows{f: f, rows: rows}, nil
}

func (x *xlsxRows) Next() ([]string, error) {
	if !x.rows.Next() {
		if err := x.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return x.rows.Columns()
}

func (x *xlsxRows) Close() error {
	_ = x.rows.Close()
	return x.f.Close()
}

func readAll(ctx context.Context, name string, src rowSource) (*Dataset, *Profile, error) {
	header, err := src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty file: no header row")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, nil, err
	}

	prof := newProfile(name)
	var records []Record
	missing := make([]bool, len(Columns))
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		raw, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", line, err)
		}
		rec, ok := parseRecord(raw, index, missing)
		prof.addRow(missing)
		if ok {
			records = append(records, rec)
		}
	}
	return &Dataset{source: name, records: records}, prof, nil
}

// headerIndex maps each canonical column to its position in the header.
func headerIndex(header []string) ([]int, error) {
	index := make([]int, len(Columns))
	for i := range index {
		index[i] = -1
	}
	for pos, h := range header {
		c, ok := ParseColumn(strings.TrimPrefix(h, "\ufeff"))
		if !ok {
			continue
		}
		for j, want := range Columns {
			if want == c && index[j] < 0 {
				index[j] = pos
			}
		}
	}
	var absent []string
	for j, pos := range index {
		if pos < 0 {
			absent = append(absent, string(Columns[j]))
		}
	}
	if len(absent) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(absent, ", "))
	}
	return index, nil
}

// parseRecord fills missing[j] for every column and reports whether the
// row is complete.
func parseRecord(raw []string, index []int, missing []bool) (Record, bool) {
	var rec Record
	complete := true
	cell := func(j int) (string, bool) {
		pos := index[j]
		if pos >= len(raw) {
			return "", false
		}
		v := strings.TrimSpace(raw[pos])
		if isMissing(v) {
			return "", false
		}
		return v, true
	}
	for j, c := range Columns {
		v, ok := cell(j)
		if ok {
			ok = assign(&rec, c, v)
		}
		missing[j] = !ok
		if !ok {
			complete = false
		}
	}
	return rec, complete
}

func assign(rec *Record, c Column, v string) bool {
	switch c {
	case Name:
		rec.Name = v
	case Platform:
		rec.Platform = v
	case Genre:
		rec.Genre = v
	case Publisher:
		rec.Publisher = v
	default:
		f, ok := parseFloat(v)
		if !ok {
			return false
		}
		switch c {
		case Rank:
			rec.Rank = int(math.Trunc(f))
		case Year:
			rec.Year = int(math.Trunc(f))
		case NASales:
			rec.NASales = f
		case EUSales:
			rec.EUSales = f
		case JPSales:
			rec.JPSales = f
		case OtherSales:
			rec.OtherSales = f
		case GlobalSales:
			rec.GlobalSales = f
		}
	}
	return true
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "n/a", "na", "nan", "null":
		return true
	}
	return false
}

func parseFloat(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
