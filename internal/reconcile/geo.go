//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reconcile

import (
	"math"
	"regexp"
	"strings"
)

// iocToISO2 maps the 3-letter federation codes the source uses in venue
// strings to ISO 3166-1 alpha-2.
var iocToISO2 = map[string]string{
	"USA": "US", "GBR": "GB", "GER": "DE", "FRA": "FR", "ITA": "IT",
	"SUI": "CH", "BEL": "BE", "SWE": "SE", "FIN": "FI", "GRE": "GR",
	"CHN": "CN", "JAM": "JM", "CUB": "CU", "MON": "MC", "RUS": "RU",
	"NED": "NL", "ESP": "ES", "JPN": "JP", "HUN": "HU", "AUT": "AT",
	"POL": "PL", "CZE": "CZ", "BRA": "BR", "QAT": "QA", "UKR": "UA",
	"AUS": "AU", "CRO": "HR", "ROU": "RO", "BUL": "BG", "KOR": "KR",
	"BLR": "BY", "URS": "RU", "NOR": "NO", "KEN": "KE", "ETH": "ET",
	"MEX": "MX", "RSA": "ZA", "CAN": "CA", "POR": "PT", "DEN": "DK",
}

// citySpellings maps local spellings to the form the weather source uses.
var citySpellings = map[string]string{
	"ROMA": "ROME", "ATHINA": "ATHENS", "BRUXELLES": "BRUSSELS",
	"LA HABANA": "HAVANA", "ZÜRICH": "ZURICH", "MÜNCHEN": "MUNICH",
	"WIEN": "VIENNA", "MOSKVA": "MOSCOW", "BUCUREŞTI": "BUCHAREST",
	"PRAHA": "PRAGUE", "WARSZAWA": "WARSAW", "GÖTEBORG": "GOTHENBURG",
	"KÖLN": "COLOGNE", "CIUDAD DE MEXICO": "MEXICO CITY",
}

// specialVenues covers venue strings the patterns below cannot parse.
var specialVenues = map[string]string{
	"Paris-St-Denis":      "Paris",
	"Villeneuve d'Ascq":   "Lille",
	"Adler, Sochi":        "Sochi",
	"DS, Daegu":           "Daegu",
	"La Cartuja, Sevilla": "Sevilla",
}

var (
	countryCodeRe = regexp.MustCompile(`\(([A-Z]{3})\)`)
	// "Sacramento, CA (USA)"
	cityStateRe = regexp.MustCompile(`^([A-Za-z\s]+),\s*[A-Z]{2}\s*\([A-Z]{3}\)$`)
	// "Drake Stadium, Des Moines, IA (USA)"
	stadiumCityStateRe = regexp.MustCompile(`^[^,]+,\s*([A-Za-z\s]+),\s*[A-Z]{2}\s*\([A-Z]{3}\)$`)
	// "Olympiastadion, Berlin (GER)"
	stadiumCityRe = regexp.MustCompile(`^[^,]+,\s*([^,()]+?)\s*\([A-Z]{3}\)$`)
	// "Paris (FRA)"
	cityOnlyRe = regexp.MustCompile(`^([^,()]+?)\s*\([A-Z]{3}\)$`)
)

// Location is the city/country pair extracted from a venue string.
type Location struct {
	City        string
	CountryCode string
}

// ExtractLocation parses a raw venue string. Unparseable venues come back
// with City "Unknown"; an unmapped country code falls back to its first two
// letters.
func ExtractLocation(venue string) Location {
	v := strings.TrimSpace(venue)
	if v == "" {
		return Location{City: "Unknown", CountryCode: "XX"}
	}

	country := "XX"
	if m := countryCodeRe.FindStringSubmatch(v); m != nil {
		if iso, ok := iocToISO2[m[1]]; ok {
			country = iso
		} else {
			country = m[1][:2]
		}
	}

	// Most specific pattern first: a bare stadium name with no comma must
	// not steal the city position.
	for _, re := range []*regexp.Regexp{cityStateRe, stadiumCityStateRe, stadiumCityRe, cityOnlyRe} {
		if m := re.FindStringSubmatch(v); m != nil {
			return Location{City: strings.TrimSpace(m[1]), CountryCode: country}
		}
	}

	for fragment, city := range specialVenues {
		if strings.Contains(v, fragment) {
			return Location{City: city, CountryCode: country}
		}
	}

	return Location{City: "Unknown", CountryCode: country}
}

// StandardizeCity maps a city to its canonical uppercase spelling.
func StandardizeCity(city string) string {
	upper := strings.ToUpper(strings.TrimSpace(city))
	if std, ok := citySpellings[upper]; ok {
		return std
	}
	return upper
}

// CityMatchKey strips separators so "DESMOINES" matches "DES MOINES" when
// joining venues against weather cities.
func CityMatchKey(city string) string {
	key := StandardizeCity(city)
	replacer := strings.NewReplacer(" ", "", "-", "", ".", "")
	return replacer.Replace(key)
}

// AltitudeCategory buckets venue elevation in meters.
func AltitudeCategory(altitude *float64) string {
	if altitude == nil {
		return "Unknown"
	}
	switch {
	case *altitude < 500:
		return "Sea Level"
	case *altitude < 1500:
		return "Moderate"
	case *altitude < 3000:
		return "High"
	default:
		return "Very High"
	}
}

// ClimateZone buckets absolute latitude.
func ClimateZone(latitude *float64) string {
	if latitude == nil {
		return "Unknown"
	}
	abs := math.Abs(*latitude)
	switch {
	case abs < 23.5:
		return "Tropical"
	case abs < 40:
		return "Subtropical"
	case abs < 60:
		return "Temperate"
	default:
		return "Polar"
	}
}
