package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureCategory(t *testing.T) {
	tests := []struct {
		temp float64
		want string
	}{
		{-5, "Cold"},
		{9.9, "Cold"},
		{10, "Cool"},
		{17.9, "Cool"},
		{18, "Moderate"},
		{23.9, "Moderate"},
		{24, "Warm"},
		{29.9, "Warm"},
		{30, "Hot"},
		{42, "Hot"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TemperatureCategory(tt.temp), "temp %v", tt.temp)
	}
}

func TestSeason(t *testing.T) {
	assert.Equal(t, "Winter", Season(12))
	assert.Equal(t, "Winter", Season(1))
	assert.Equal(t, "Spring", Season(4))
	assert.Equal(t, "Summer", Season(7))
	assert.Equal(t, "Fall", Season(10))
	assert.Equal(t, "Unknown", Season(0))
	assert.Equal(t, "Unknown", Season(13))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "August", MonthName(8))
	assert.Equal(t, "Unknown", MonthName(0))
	assert.Equal(t, "Unknown", MonthName(13))
}

func TestFahrenheitToCelsius(t *testing.T) {
	assert.InDelta(t, 0, FahrenheitToCelsius(32), 0.001)
	assert.InDelta(t, 100, FahrenheitToCelsius(212), 0.001)
	assert.InDelta(t, -40, FahrenheitToCelsius(-40), 0.001)
	assert.InDelta(t, 11, FahrenheitToCelsius(51.8), 0.001)
}

func TestEstimateCityTemperature(t *testing.T) {
	tempC, climate, ok := EstimateCityTemperature("KINGSTON", 7)
	require.True(t, ok)
	assert.Equal(t, "Tropical", climate)
	assert.InDelta(t, 29, tempC, 0.001)

	// Doha in July is the hottest estimate in the table
	tempC, _, ok = EstimateCityTemperature("DOHA", 7)
	require.True(t, ok)
	assert.Equal(t, "Hot", TemperatureCategory(tempC))

	_, _, ok = EstimateCityTemperature("ATLANTIS", 7)
	assert.False(t, ok)

	_, _, ok = EstimateCityTemperature("BERLIN", 0)
	assert.False(t, ok)
	_, _, ok = EstimateCityTemperature("BERLIN", 13)
	assert.False(t, ok)
}

func TestEstimatedCitiesCoverAllMonths(t *testing.T) {
	for _, city := range EstimatedCities() {
		for month := 1; month <= 12; month++ {
			_, _, ok := EstimateCityTemperature(city, month)
			require.True(t, ok, "city %s month %d", city, month)
		}
	}
}
