package catalog

import (
	"time"

	"github.com/FranksOps/uagen/pkg/weighted"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Galaxy S21 through S24 series. Newer flagships carry more weight.
var defaultModels = map[Market][]weighted.Option[string]{
	USA: {
		{Value: "SM-S928U", Weight: 9},  // S24 Ultra
		{Value: "SM-S926U", Weight: 7},  // S24+
		{Value: "SM-S921U", Weight: 8},  // S24
		{Value: "SM-S928U1", Weight: 5}, // S24 Ultra, unlocked
		{Value: "SM-S918U", Weight: 8},  // S23 Ultra
		{Value: "SM-S911U", Weight: 7},  // S23
		{Value: "SM-S918U1", Weight: 5},
		{Value: "SM-S908U", Weight: 4}, // S22 Ultra
		{Value: "SM-S901U", Weight: 3}, // S22
		{Value: "SM-G998U", Weight: 2}, // S21 Ultra
	},
	Global: {
		{Value: "SM-S928B", Weight: 9},
		{Value: "SM-S926B", Weight: 7},
		{Value: "SM-S921B", Weight: 8},
		{Value: "SM-S918B", Weight: 10},
		{Value: "SM-S916B", Weight: 6},
		{Value: "SM-S911B", Weight: 9},
		{Value: "SM-S908B", Weight: 5},
		{Value: "SM-S906B", Weight: 4},
		{Value: "SM-S901B", Weight: 4},
		{Value: "SM-A546B", Weight: 6}, // A54
		{Value: "SM-A346B", Weight: 4}, // A34
		{Value: "SM-G998B", Weight: 2},
	},
}

var defaultAndroid = []AndroidRelease{
	{
		Version: 11,
		Weight:  5,
		Builds: BuildPool{
			Prefixes:  []string{"RP1A", "RQ1A", "RQ3A"},
			From:      day(2020, time.September, 1),
			To:        day(2021, time.December, 31),
			MaxSerial: 40,
		},
	},
	{
		Version: 12,
		Weight:  15,
		Builds: BuildPool{
			Prefixes:  []string{"SP1A", "SQ1D", "SQ3A"},
			From:      day(2021, time.October, 1),
			To:        day(2022, time.November, 30),
			MaxSerial: 40,
		},
	},
	{
		Version: 13,
		Weight:  40,
		Builds: BuildPool{
			Prefixes:  []string{"TP1A", "TQ2A", "TQ3A"},
			From:      day(2022, time.June, 1),
			To:        day(2023, time.December, 31),
			MaxSerial: 40,
		},
	},
	{
		Version: 14,
		Weight:  35,
		Builds: BuildPool{
			Prefixes:  []string{"UP1A", "UQ1A", "AP1A"},
			From:      day(2023, time.August, 1),
			To:        day(2024, time.December, 31),
			MaxSerial: 40,
		},
	},
}

var defaultChrome = map[int]float64{
	115: 6,
	116: 8,
	117: 10,
	118: 10,
	119: 11,
	120: 13,
	121: 14,
	122: 15,
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultModels, defaultAndroid, defaultChrome)
	if err != nil {
		panic(err)
	}
	return c
}
