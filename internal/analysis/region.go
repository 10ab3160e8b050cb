package analysis

import (
	"strings"

	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

// Region selects the sales column that drives the top-N and pie views.
type Region string

const (
	Global       Region = "Global"
	NorthAmerica Region = "North America"
	Europe       Region = "Europe"
	Japan        Region = "Japan"
)

// Regions in selector order.
var Regions = []Region{Global, NorthAmerica, Europe, Japan}

var regionColumns = map[Region]dataset.Column{
	Global:       dataset.GlobalSales,
	NorthAmerica: dataset.NASales,
	Europe:       dataset.EUSales,
	Japan:        dataset.JPSales,
}

// Column is the sales column behind r.
func (r Region) Column() dataset.Column { return regionColumns[r] }

// ParseRegion accepts a region label ("North America") or its short code
// ("na", "eu", "jp", "global"), case-insensitively.
func ParseRegion(s string) (Region, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "global":
		return Global, nil
	case "north america", "north-america", "na":
		return NorthAmerica, nil
	case "europe", "eu":
		return Europe, nil
	case "japan", "jp":
		return Japan, nil
	}
	return "", apperr.InvalidInput("unknown region %q (use Global, North America, Europe or Japan)", s)
}
