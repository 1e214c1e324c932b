//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reconcile

import "time"

// TemperatureCategory buckets a Celsius temperature.
func TemperatureCategory(tempC float64) string {
	switch {
	case tempC < 10:
		return "Cold"
	case tempC < 18:
		return "Cool"
	case tempC < 24:
		return "Moderate"
	case tempC < 30:
		return "Warm"
	default:
		return "Hot"
	}
}

// Season returns the northern-hemisphere season for a month.
func Season(month int) string {
	switch month {
	case 12, 1, 2:
		return "Winter"
	case 3, 4, 5:
		return "Spring"
	case 6, 7, 8:
		return "Summer"
	case 9, 10, 11:
		return "Fall"
	default:
		return "Unknown"
	}
}

// MonthName returns the English month name, or "Unknown" out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "Unknown"
	}
	return time.Month(month).String()
}

// FahrenheitToCelsius converts a temperature reading.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// climateEstimate holds monthly Celsius normals for an athletics city the
// temperature source does not cover.
type climateEstimate struct {
	temps   [12]float64
	climate string
}

// cityClimateEstimates backfills weather rows for major meet cities so
// their performances are not dropped for lack of weather. These rows are
// flagged has_actual_data=false and cost quality score downstream.
var cityClimateEstimates = map[string]climateEstimate{
	"BERLIN":        {[12]float64{0, 1, 5, 9, 14, 17, 19, 19, 15, 10, 5, 2}, "Continental"},
	"SACRAMENTO":    {[12]float64{10, 13, 16, 20, 25, 30, 33, 32, 28, 22, 15, 10}, "Mediterranean"},
	"EUGENE":        {[12]float64{5, 7, 10, 13, 17, 21, 24, 24, 20, 15, 9, 5}, "Temperate"},
	"AUSTIN":        {[12]float64{10, 13, 18, 23, 28, 32, 35, 35, 31, 25, 18, 12}, "Subtropical"},
	"MONACO":        {[12]float64{9, 10, 13, 16, 20, 24, 27, 27, 23, 19, 13, 10}, "Mediterranean"},
	"LAUSANNE":      {[12]float64{1, 3, 7, 11, 16, 20, 22, 21, 17, 12, 6, 2}, "Temperate"},
	"KINGSTON":      {[12]float64{25, 25, 26, 27, 28, 29, 29, 29, 28, 27, 26, 25}, "Tropical"},
	"DES MOINES":    {[12]float64{-5, -2, 5, 12, 18, 24, 26, 25, 20, 13, 5, -2}, "Continental"},
	"SAN FRANCISCO": {[12]float64{10, 12, 13, 15, 16, 17, 17, 18, 19, 17, 14, 11}, "Mediterranean"},
	"LOS ANGELES":   {[12]float64{14, 15, 16, 18, 20, 22, 24, 25, 24, 21, 17, 14}, "Mediterranean"},
	"INDIANAPOLIS":  {[12]float64{-2, 1, 7, 14, 20, 25, 27, 26, 22, 15, 8, 1}, "Continental"},
	"GAINESVILLE":   {[12]float64{11, 14, 18, 22, 26, 29, 31, 31, 29, 24, 18, 13}, "Subtropical"},
	"KNOXVILLE":     {[12]float64{3, 6, 11, 16, 21, 26, 28, 27, 23, 17, 11, 5}, "Subtropical"},
	"DOHA":          {[12]float64{18, 20, 25, 30, 36, 41, 42, 41, 38, 32, 26, 20}, "Desert"},
}

// EstimateCityTemperature returns the monthly estimate for a city, if one
// exists. The city must already be standardized.
func EstimateCityTemperature(city string, month int) (tempC float64, climate string, ok bool) {
	est, found := cityClimateEstimates[city]
	if !found || month < 1 || month > 12 {
		return 0, "", false
	}
	return est.temps[month-1], est.climate, true
}

// EstimatedCities lists the cities with built-in climate estimates.
func EstimatedCities() []string {
	cities := make([]string, 0, len(cityClimateEstimates))
	for city := range cityClimateEstimates {
		cities = append(cities, city)
	}
	return cities
}
