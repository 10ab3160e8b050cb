// Package dataset loads the video-game sales table and exposes it as an
// immutable, cleaned Dataset.
package dataset

import (
	"strings"
)

// Column is a canonical column name of the sales table.
type Column string

const (
	Rank        Column = "Rank"
	Name        Column = "Name"
	Platform    Column = "Platform"
	Year        Column = "Year"
	Genre       Column = "Genre"
	Publisher   Column = "Publisher"
	NASales     Column = "NA_Sales"
	EUSales     Column = "EU_Sales"
	JPSales     Column = "JP_Sales"
	OtherSales  Column = "Other_Sales"
	GlobalSales Column = "Global_Sales"
)

// Columns lists every column in file order.
var Columns = []Column{Rank, Name, Platform, Year, Genre, Publisher, NASales, EUSales, JPSales, OtherSales, GlobalSales}

// NumericColumns lists the columns the correlation matrix covers.
var NumericColumns = []Column{Rank, Year, NASales, EUSales, JPSales, OtherSales, GlobalSales}

// SalesColumns lists the regional and global sales figures (millions of units).
var SalesColumns = []Column{NASales, EUSales, JPSales, OtherSales, GlobalSales}

// Numeric reports whether c holds numbers.
func (c Column) Numeric() bool {
	for _, n := range NumericColumns {
		if n == c {
			return true
		}
	}
	return false
}

// Sales reports whether c is one of the sales columns.
func (c Column) Sales() bool {
	for _, n := range SalesColumns {
		if n == c {
			return true
		}
	}
	return false
}

// ParseColumn resolves a header or query value to a canonical column.
// Matching ignores case and treats spaces like underscores, so "NA Sales"
// and "na_sales" both resolve to NASales.
func ParseColumn(s string) (Column, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	for _, c := range Columns {
		if strings.ToLower(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

// Record is one cleaned row of the table.
type Record struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Platform    string  `json:"platform"`
	Year        int     `json:"year"`
	Genre       string  `json:"genre"`
	Publisher   string  `json:"publisher"`
	NASales     float64 `json:"na_sales"`
	EUSales     float64 `json:"eu_sales"`
	JPSales     float64 `json:"jp_sales"`
	OtherSales  float64 `json:"other_sales"`
	GlobalSales float64 `json:"global_sales"`
}

// Value returns the numeric value of c. ok is false for text columns.
func (r Record) Value(c Column) (v float64, ok bool) {
	switch c {
	case Rank:
		return float64(r.Rank), true
	case Year:
		return float64(r.Year), true
	case NASales:
		return r.NASales, true
	case EUSales:
		return r.EUSales, true
	case JPSales:
		return r.JPSales, true
	case OtherSales:
		return r.OtherSales, true
	case GlobalSales:
		return r.GlobalSales, true
	}
	return 0, false
}
