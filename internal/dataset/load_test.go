package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

const header = "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales"

var sampleRows = []string{
	"1,Wii Sports,Wii,2006,Sports,Nintendo,41.49,29.02,3.77,8.46,82.74",
	"2,Super Mario Bros.,NES,1985.0,Platform,Nintendo,29.08,3.58,6.81,0.77,40.24",
	"3,Mario Kart Wii,Wii,N/A,Racing,Nintendo,15.85,12.88,3.79,3.31,35.82",
	"4,Wii Sports Resort,Wii,2009,Sports,N/A,15.75,11.01,3.28,2.96,33",
	"5,Pokemon Red/Pokemon Blue,GB,1996.7,Role-Playing,Nintendo,11.27,8.89,10.22,1,31.37",
	"6,Tetris,GB,1989,Puzzle,Nintendo,abc,2.26,4.22,0.58,30.26",
}

func writeCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func TestLoadDropsIncompleteRowsAndTruncatesYear(t *testing.T) {
	p := writeCSV(t, "vgsales.csv", append([]string{header}, sampleRows...)...)

	ds, prof, err := Load(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "vgsales.csv", ds.Source())

	names := []string{ds.Record(0).Name, ds.Record(1).Name, ds.Record(2).Name}
	assert.Equal(t, []string{"Wii Sports", "Super Mario Bros.", "Pokemon Red/Pokemon Blue"}, names)
	assert.Equal(t, 1985, ds.Record(1).Year)
	assert.Equal(t, 1996, ds.Record(2).Year)

	for _, r := range ds.Records() {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Publisher)
		assert.NotZero(t, r.Year)
	}

	assert.Equal(t, 6, prof.TotalRows)
	assert.Equal(t, 3, prof.DroppedRows)
	assert.Equal(t, 1, prof.Missing[Year])
	assert.Equal(t, 1, prof.Missing[Publisher])
	assert.Equal(t, 1, prof.Missing[NASales], "unparsable numbers count as missing")
	m, err := prof.MissingMatrix(prof.TotalRows)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}, m[2])
}

func TestLoadAcceptsSpacedHeaderSynonyms(t *testing.T) {
	spaced := strings.ReplaceAll(header, "_Sales", " Sales")
	p := writeCSV(t, "spaced.csv", spaced, sampleRows[0])

	ds, _, err := Load(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.InDelta(t, 41.49, ds.Record(0).NASales, 1e-9)
}

func TestLoadAllRowsMissingYieldsEmptyDataset(t *testing.T) {
	p := writeCSV(t, "holes.csv", header, sampleRows[2], sampleRows[3])

	ds, prof, err := Load(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, ds.Empty())
	assert.Equal(t, 2, prof.DroppedRows)
}

func TestLoadMissingFileIsDataUnavailable(t *testing.T) {
	_, _, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrDataUnavailable))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadMalformedHeaderIsDataUnavailable(t *testing.T) {
	p := writeCSV(t, "other.csv", "id,title,score", "1,foo,3")
	_, _, err := Load(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDataUnavailable, apperr.GetCode(err))
	assert.Contains(t, err.Error(), "missing columns")

	empty := writeCSV(t, "empty.csv")
	_, _, err = Load(context.Background(), empty)
	assert.True(t, errors.Is(err, apperr.ErrDataUnavailable))
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := append([]string{header}, sampleRows[:2]...)
	for i, line := range rows {
		cells := strings.Split(line, ",")
		vals := make([]interface{}, len(cells))
		for j, c := range cells {
			vals[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &vals))
	}
	p := filepath.Join(t.TempDir(), "vgsales.xlsx")
	require.NoError(t, f.SaveAs(p))

	ds, prof, err := Load(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "Super Mario Bros.", ds.Record(1).Name)
	assert.Equal(t, 1985, ds.Record(1).Year)
	assert.Equal(t, 0, prof.DroppedRows)
}

func TestLoadHonorsCancelledContext(t *testing.T) {
	lines := []string{header}
	for i := 0; i < 3000; i++ {
		lines = append(lines, sampleRows[0])
	}
	p := writeCSV(t, "big.csv", lines...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Load(ctx, p)
	assert.ErrorIs(t, err, context.Canceled)
}
