//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse builds the star schema and its derived measures.
package warehouse

import (
	"math"
	"strings"
)

// waCoefficients are the World Athletics scoring table coefficients:
// Points = A * |B - T|^C.
type waCoefficients struct {
	A, B, C float64
}

var scoringTable = map[string]waCoefficients{
	"100m":                {25.4347, 18.0, 1.81},
	"200m":                {5.8425, 38.0, 1.81},
	"400m":                {1.53775, 82.0, 1.81},
	"800m":                {0.11193, 254.0, 1.81},
	"1500m":               {0.04491, 480.0, 1.81},
	"5000m":               {0.00616, 2100.0, 1.81},
	"10000m":              {0.00316, 4200.0, 1.81},
	"Marathon":            {0.00024, 27000.0, 1.81},
	"Half Marathon":       {0.00058, 13500.0, 1.81},
	"110m Hurdles":        {5.74352, 28.5, 1.92},
	"100m Hurdles":        {9.23076, 26.7, 1.835},
	"400m Hurdles":        {1.4611, 95.5, 1.88},
	"3000m Steeplechase":  {0.02883, 1254.0, 1.88},
	"High Jump":           {32.29, 0.75, 1.4},
	"Long Jump":           {0.14354, 1.4, 1.4},
	"Triple Jump":         {0.03768, 2.5, 1.4},
	"Pole Vault":          {39.39, 1.0, 1.35},
	"Shot Put":            {51.39, 1.5, 1.05},
	"Discus Throw":        {12.91, 4.0, 1.1},
	"Hammer Throw":        {13.0449, 7.0, 1.05},
	"Javelin Throw":       {15.3, 7.0, 1.15},
}

// durationCategories drive the environmental adjustments. Order matters:
// the hurdles entries in Sprint must win before any bare-distance match.
var durationCategories = []struct {
	name   string
	events []string
}{
	{"Sprint", []string{"100m hurdles", "110m hurdles", "400m hurdles", "100m", "200m", "400m"}},
	{"Middle Distance", []string{"3000m steeplechase", "800m", "1500m", "3000m"}},
	{"Distance", []string{"half marathon", "5000m", "10000m", "marathon"}},
	{"Jumps", []string{"high jump", "long jump", "triple jump", "pole vault"}},
	{"Throws", []string{"shot put", "discus throw", "hammer throw", "javelin throw"}},
}

// DurationCategory classifies an event for environmental calculations.
// Unmatched events count as Field.
func DurationCategory(eventName string) string {
	e := strings.ToLower(strings.TrimSpace(eventName))
	if e == "" {
		return "Field"
	}
	for _, cat := range durationCategories {
		for _, ev := range cat.events {
			if strings.Contains(e, ev) {
				return cat.name
			}
		}
	}
	return "Field"
}

// lookupCoefficients finds the scoring row for an event: exact name first,
// then the longest substring match so "100m Hurdles" never resolves to the
// flat 100m row.
func lookupCoefficients(eventName string) (waCoefficients, bool) {
	e := strings.TrimSpace(eventName)
	if c, ok := scoringTable[e]; ok {
		return c, true
	}
	lower := strings.ToLower(e)
	bestLen := 0
	var best waCoefficients
	for name, c := range scoringTable {
		if strings.Contains(lower, strings.ToLower(name)) && len(name) > bestLen {
			bestLen = len(name)
			best = c
		}
	}
	return best, bestLen > 0
}

// PerformanceScore converts a raw result to World Athletics points.
// Time events score A*(B-T)^C for T under the baseline B and zero beyond
// it; distance events score A*(T-B)^C for T over the baseline. Scores are
// floored at zero and otherwise unclamped; the validation layer reports
// rows above the expected band rather than hiding them.
func PerformanceScore(result float64, eventName, unit string) float64 {
	if result <= 0 || eventName == "" {
		return 0
	}

	if c, ok := lookupCoefficients(eventName); ok {
		if unit == "seconds" {
			if result >= c.B {
				return 0
			}
			return c.A * math.Pow(c.B-result, c.C)
		}
		if result <= c.B {
			return 0
		}
		return c.A * math.Pow(result-c.B, c.C)
	}

	return legacyScore(result, eventName, unit)
}

// legacyScore covers events outside the coefficient table with the old
// linear formulas.
func legacyScore(result float64, eventName, unit string) float64 {
	e := strings.ToLower(eventName)
	if unit == "seconds" {
		switch {
		case strings.Contains(e, "100m"):
			return math.Max(0, 1000-(result-9.5)*200)
		case strings.Contains(e, "200m"):
			return math.Max(0, 1000-(result-19.0)*100)
		case strings.Contains(e, "mile"):
			return math.Max(0, 1000-(result-220)*5)
		case strings.Contains(e, "marathon"):
			return math.Max(0, 1000-(result-7260)*0.5)
		default:
			return math.Max(0, 1000-result*2)
		}
	}
	switch {
	case strings.Contains(e, "shot put"):
		return math.Min(1000, result*50)
	case strings.Contains(e, "javelin"):
		return math.Min(1000, result*12.5)
	case strings.Contains(e, "high jump"):
		return math.Min(1000, result*435)
	case strings.Contains(e, "long jump"):
		return math.Min(1000, result*118)
	default:
		return math.Min(1000, result*25)
	}
}

// altitudeFactor is the per-category density/oxygen effect above the 300 m
// baseline.
func altitudeFactor(altitude float64, category string) float64 {
	if altitude <= 300 {
		return 1.0
	}
	altitudeKm := (altitude - 300) / 1000.0
	switch category {
	case "Sprint":
		return 1.0 + altitudeKm*0.0095
	case "Jumps", "Throws":
		return 1.0 + altitudeKm*0.012
	case "Middle Distance", "Distance":
		return 1.0 - altitudeKm*0.063
	default:
		return 1.0
	}
}

// AltitudeAdjustedResult normalizes a result to the conditions at the
// 300 m baseline: the result is divided by the category factor, so sprint
// results come back slightly lower and endurance results slightly higher.
func AltitudeAdjustedResult(result float64, altitude *float64, eventName string) float64 {
	if altitude == nil || *altitude <= 300 {
		return result
	}
	factor := altitudeFactor(*altitude, DurationCategory(eventName))
	adjusted := result / factor
	return math.Max(0, math.Min(999999, adjusted))
}

const optimalTempC = 11.0

// TemperatureImpactFactor scales with the deviation from the optimal
// 11 °C, at a per-degree rate set by event duration. Clamped to [0.5, 1.5];
// a missing temperature is neutral.
func TemperatureImpactFactor(tempC *float64, eventName string) float64 {
	if tempC == nil {
		return 1.0
	}
	deviation := math.Abs(*tempC - optimalTempC)

	var rate float64
	switch DurationCategory(eventName) {
	case "Sprint", "Jumps", "Throws":
		rate = 0.001
	case "Middle Distance":
		rate = 0.002
	case "Distance":
		rate = 0.004
	default:
		rate = 0.002
	}

	factor := 1.0 - deviation*rate
	return math.Max(0.5, math.Min(1.5, factor))
}

// EnvironmentalBonus combines the altitude and temperature effects into a
// signed point bonus, clamped to [-20, 20]. Both inputs missing means no
// information, so zero.
func EnvironmentalBonus(altitude, tempC *float64, eventName string) float64 {
	if altitude == nil && tempC == nil {
		return 0
	}

	alt := 0.0
	if altitude != nil {
		alt = *altitude
	}
	temp := optimalTempC
	if tempC != nil {
		temp = *tempC
	}

	category := DurationCategory(eventName)

	altitudeBonus := 0.0
	if alt > 300 {
		altitudeKm := (alt - 300) / 1000.0
		switch category {
		case "Sprint":
			altitudeBonus = altitudeKm * 0.95
		case "Jumps", "Throws":
			altitudeBonus = altitudeKm * 1.2
		case "Middle Distance", "Distance":
			altitudeBonus = altitudeKm * -6.3
		}
	}

	deviation := math.Abs(temp - optimalTempC)
	var tempBonus float64
	switch category {
	case "Distance":
		tempBonus = -deviation * 0.4
	case "Middle Distance":
		tempBonus = -deviation * 0.2
	default:
		tempBonus = -deviation * 0.1
	}

	total := (altitudeBonus + tempBonus) * 2.0
	return math.Max(-20, math.Min(20, total))
}
