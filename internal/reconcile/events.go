//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reconcile

import (
	"regexp"
	"strconv"
	"strings"
)

const metersPerMile = 1609.344

// eventAliases folds the spelling variants the source export uses into one
// canonical event name.
var eventAliases = map[string]string{
	"100 metres": "100m", "100 meters": "100m", "100M": "100m",
	"200 metres": "200m", "200 meters": "200m", "200M": "200m",
	"400 metres": "400m", "400 meters": "400m", "400M": "400m",
	"60 metres": "60m", "60 meters": "60m",
	"800 metres": "800m", "800 meters": "800m",
	"1500 metres": "1500m", "1500 meters": "1500m",
	"5000 metres": "5000m", "5000 meters": "5000m",
	"10000 metres": "10000m", "10000 meters": "10000m",
	"marathon":      "Marathon",
	"110m hurdles":  "110m Hurdles",
	"100m hurdles":  "100m Hurdles",
	"400m hurdles":  "400m Hurdles",
	"long jump":     "Long Jump",
	"high jump":     "High Jump",
	"triple jump":   "Triple Jump",
	"pole vault":    "Pole Vault",
	"shot put":      "Shot Put",
	"discus throw":  "Discus Throw",
	"hammer throw":  "Hammer Throw",
	"javelin throw": "Javelin Throw",
}

// StandardizeEventName maps known aliases to the canonical name and passes
// everything else through trimmed.
func StandardizeEventName(event string) string {
	e := strings.TrimSpace(event)
	if canonical, ok := eventAliases[e]; ok {
		return canonical
	}
	if canonical, ok := eventAliases[strings.ToLower(e)]; ok {
		return canonical
	}
	return e
}

// IsMultiEvent reports decathlon/heptathlon style combined events, which
// are excluded from the warehouse.
func IsMultiEvent(event string) bool {
	e := strings.ToLower(event)
	return strings.Contains(e, "decathlon") || strings.Contains(e, "heptathlon")
}

// EventGroup classifies an event name. Hurdles must win over the distance
// keywords: "400 Metres Hurdles" contains "400 metres" too.
func EventGroup(event string) string {
	e := strings.ToLower(event)
	switch {
	case strings.Contains(e, "hurdles"):
		return "Hurdles"
	case strings.Contains(e, "jump") || strings.Contains(e, "vault"):
		return "Jumps"
	case strings.Contains(e, "throw") || strings.Contains(e, "put"):
		return "Throws"
	case containsAny(e, "100 metres", "200 metres", "300 metres", "400 metres", "60 metres",
		"100m", "200m", "300m", "400m", "60m"):
		return "Sprint"
	case strings.Contains(e, "kilometres race walk") || strings.Contains(e, "kilometres"):
		return "Road"
	case containsAny(e, "600", "800", "1000", "1500", "2000", "3000", "5000", "10000",
		"marathon", "mile", "steeplechase", "metres race walk"):
		return "Distance"
	default:
		return "Other"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// EventCategory maps a group to Track, Field or Road.
func EventCategory(group string) string {
	switch group {
	case "Sprint", "Distance", "Hurdles":
		return "Track"
	case "Jumps", "Throws":
		return "Field"
	case "Road":
		return "Road"
	default:
		return "Other"
	}
}

// MeasurementUnit returns seconds for timed categories and meters otherwise.
func MeasurementUnit(category string) string {
	if category == "Track" || category == "Road" {
		return "seconds"
	}
	return "meters"
}

// EventGender infers a gender restriction from the event name. 110m hurdles
// is a men's event, 100m hurdles women's; everything else is unrestricted.
func EventGender(event string) string {
	e := strings.ToLower(event)
	if !strings.Contains(e, "hurdles") {
		return "U"
	}
	switch {
	case strings.Contains(e, "110"):
		return "M"
	case strings.Contains(e, "100"):
		return "F"
	default:
		return "U"
	}
}

var (
	mileNumericRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mile`)
	mileWordRe    = regexp.MustCompile(`(one|two|three|four|five|half)\s+mile`)
	metersRe      = regexp.MustCompile(`(\d+)\s*(?:metres|meters|m)\b`)
	kilometersRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:kilometres|kilometers|km)\b`)
	steepleRe     = regexp.MustCompile(`(\d+)(?:m|metres|meters)?\s*steeplechase`)
)

var mileWords = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "half": 0.5,
}

// ExtractDistance pulls the distance in meters out of an event name.
// Returns nil when no distance can be determined (field events).
func ExtractDistance(event string) *float64 {
	e := strings.ToLower(event)
	if e == "" {
		return nil
	}

	// Miles before meters: "One Mile" has no digit for the meter pattern,
	// but "1500m" must not match the mile word pattern either.
	if m := mileNumericRe.FindStringSubmatch(e); m != nil {
		if miles, err := strconv.ParseFloat(m[1], 64); err == nil {
			return fptr(float64(int(miles * metersPerMile)))
		}
	}
	if m := mileWordRe.FindStringSubmatch(e); m != nil {
		return fptr(float64(int(mileWords[m[1]] * metersPerMile)))
	}

	// Kilometres before the bare meter pattern so "20 kilometres race walk"
	// does not parse as 20 m.
	if m := kilometersRe.FindStringSubmatch(e); m != nil {
		if km, err := strconv.ParseFloat(m[1], 64); err == nil {
			return fptr(km * 1000)
		}
	}

	if strings.Contains(e, "steeplechase") {
		if m := steepleRe.FindStringSubmatch(e); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return fptr(v)
			}
		}
		return fptr(3000)
	}
	if strings.Contains(e, "half marathon") {
		return fptr(21098)
	}
	if strings.Contains(e, "marathon") {
		return fptr(42195)
	}

	if m := metersRe.FindStringSubmatch(e); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return fptr(v)
		}
	}

	return nil
}

func fptr(v float64) *float64 { return &v }
