//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package reconcile transforms raw staging rows into the deduplicated
// reconciled layer.
package reconcile

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Result values outside this range are treated as data errors.
const (
	minResultValue = 0.1
	maxResultValue = 50000
)

var nameSuffixes = []string{" JR", " SR", " III", " II", " JUNIOR", " SENIOR"}

// NormalizeAthleteName produces the dedup key for an athlete name:
// uppercase, collapsed whitespace, punctuation and generational suffixes
// stripped.
func NormalizeAthleteName(name string) string {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.Join(strings.Fields(normalized), " ")

	replacer := strings.NewReplacer(".", "", ",", "", "'", "")
	normalized = replacer.Replace(normalized)

	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSpace(strings.TrimSuffix(normalized, suffix))
		}
	}

	return normalized
}

// DisplayName is the title-cased form stored on the reconciled row.
func DisplayName(name string) string {
	return titleCase(strings.TrimSpace(name))
}

// QualityScore is the deterministic 1-10 row quality measure: two points
// off for missing nationality, two for missing or estimated weather, one
// each for missing wind and an unmatched venue, floored at 1.
func QualityScore(hasNationality, hasActualWeather, hasWind, venueMatched bool) int {
	score := 10
	if !hasNationality {
		score -= 2
	}
	if !hasActualWeather {
		score -= 2
	}
	if !hasWind {
		score--
	}
	if !venueMatched {
		score--
	}
	if score < 1 {
		score = 1
	}
	return score
}

func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			r = unicode.ToUpper(r)
		case isLetter && prevLetter:
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
		prevLetter = isLetter
	}
	return b.String()
}

// NormalizeGender maps free-form gender markers to F, M or U.
func NormalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "female", "f", "w":
		return "F"
	case "male", "m":
		return "M"
	default:
		return "U"
	}
}

// ParseMark converts a raw mark string to a numeric result. Time formats
// "M:SS.ss" and "H:MM:SS" become seconds; plain numbers pass through.
// DNF/DQ/DNS/NM and values outside the sane range report ok=false.
func ParseMark(mark string) (float64, bool) {
	s := strings.TrimSpace(mark)
	switch s {
	case "", "DNF", "DQ", "DNS", "NM":
		return 0, false
	}

	var value float64
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 2:
			minutes, err1 := strconv.ParseFloat(parts[0], 64)
			seconds, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return 0, false
			}
			value = minutes*60 + seconds
		case 3:
			hours, err1 := strconv.ParseFloat(parts[0], 64)
			minutes, err2 := strconv.ParseFloat(parts[1], 64)
			seconds, err3 := strconv.ParseFloat(parts[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return 0, false
			}
			value = hours*3600 + minutes*60 + seconds
		default:
			return 0, false
		}
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		value = v
	}

	if value < minResultValue || value > maxResultValue {
		return 0, false
	}
	return value, true
}

// ParseWind parses a wind reading like "+1.2" or "-0.4". Missing or
// unparseable readings return ok=false.
func ParseWind(wind string) (float64, bool) {
	s := strings.TrimSpace(wind)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(s, "+"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"02 Jan 2006",
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
}

// ParseDate parses the competition and birth date formats the source uses.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BirthDecade renders a birth date as a decade label, e.g. "1990s".
func BirthDecade(dob string) string {
	t, ok := ParseDate(dob)
	if !ok {
		return "Unknown"
	}
	return strconv.Itoa(t.Year()/10*10) + "s"
}
