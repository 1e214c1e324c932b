//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationCategory(t *testing.T) {
	tests := []struct {
		event string
		want  string
	}{
		{"100m", "Sprint"},
		{"400m", "Sprint"},
		{"110m Hurdles", "Sprint"},
		{"100m Hurdles", "Sprint"},
		{"800m", "Middle Distance"},
		{"1500m", "Middle Distance"},
		{"3000m Steeplechase", "Middle Distance"},
		{"5000m", "Distance"},
		{"Marathon", "Distance"},
		{"Half Marathon", "Distance"},
		{"High Jump", "Jumps"},
		{"Pole Vault", "Jumps"},
		{"Shot Put", "Throws"},
		{"Javelin Throw", "Throws"},
		{"20 Kilometres Race Walk", "Field"},
		{"", "Field"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DurationCategory(tt.event), "event %q", tt.event)
	}
}

func TestPerformanceScoreTimeEvents(t *testing.T) {
	// World record 100m: 25.4347 * (18 - 9.58)^1.81
	score := PerformanceScore(9.58, "100m", "seconds")
	assert.InDelta(t, 1202.7, score, 2.0)

	// Slower time scores fewer points
	assert.Greater(t, PerformanceScore(9.58, "100m", "seconds"),
		PerformanceScore(10.50, "100m", "seconds"))

	// At or beyond the baseline B the score bottoms out at zero
	assert.Equal(t, 0.0, PerformanceScore(18.0, "100m", "seconds"))
	assert.Equal(t, 0.0, PerformanceScore(25.0, "100m", "seconds"))
}

func TestPerformanceScoreFieldEvents(t *testing.T) {
	// Long jump scores rise with distance
	score := PerformanceScore(8.95, "Long Jump", "meters")
	want := 0.14354 * math.Pow(8.95-1.4, 1.4)
	assert.InDelta(t, want, score, 0.01)

	assert.Greater(t, PerformanceScore(8.95, "Long Jump", "meters"),
		PerformanceScore(7.50, "Long Jump", "meters"))

	// Marks at or under the baseline score zero
	assert.Equal(t, 0.0, PerformanceScore(1.4, "Long Jump", "meters"))
	assert.Equal(t, 0.0, PerformanceScore(1.0, "Long Jump", "meters"))
}

func TestPerformanceScoreHurdlesResolution(t *testing.T) {
	// "100m Hurdles" must use the hurdles coefficients, never the flat 100m
	// row, even though "100m" is also a substring of the name.
	score := PerformanceScore(12.20, "100m Hurdles", "seconds")
	want := 9.23076 * math.Pow(26.7-12.20, 1.835)
	assert.InDelta(t, want, score, 0.01)

	flat := 25.4347 * math.Pow(18.0-12.20, 1.81)
	assert.Greater(t, math.Abs(flat-score), 1.0)
}

func TestPerformanceScoreInvalidInput(t *testing.T) {
	assert.Equal(t, 0.0, PerformanceScore(0, "100m", "seconds"))
	assert.Equal(t, 0.0, PerformanceScore(-5, "100m", "seconds"))
	assert.Equal(t, 0.0, PerformanceScore(10.0, "", "seconds"))
}

func TestLegacyScore(t *testing.T) {
	// Events outside the coefficient table fall back to the linear formulas
	assert.InDelta(t, 987.0, PerformanceScore(6.5, "60m Indoor", "seconds"), 0.01)
	assert.InDelta(t, 950.0, PerformanceScore(230.0, "Mile", "seconds"), 0.01)

	// Field fallback is capped at 1000
	assert.InDelta(t, 500.0, PerformanceScore(20.0, "Weight Throw", "meters"), 0.01)
	assert.Equal(t, 1000.0, PerformanceScore(100.0, "Weight Throw", "meters"))
}

func TestAltitudeAdjustedResult(t *testing.T) {
	mexicoCity := 2240.0
	seaLevel := 50.0

	// Sprint factor > 1: adjusted time comes back lower
	sprint := AltitudeAdjustedResult(10.00, &mexicoCity, "100m")
	assert.Less(t, sprint, 10.00)
	assert.InDelta(t, 10.00/(1.0+1.94*0.0095), sprint, 0.001)

	// Endurance factor < 1: adjusted time comes back higher
	distance := AltitudeAdjustedResult(1800.0, &mexicoCity, "10000m")
	assert.Greater(t, distance, 1800.0)

	// Below the 300 m baseline nothing changes
	assert.Equal(t, 10.00, AltitudeAdjustedResult(10.00, &seaLevel, "100m"))
	assert.Equal(t, 10.00, AltitudeAdjustedResult(10.00, nil, "100m"))

	// Unknown category is neutral
	assert.Equal(t, 5000.0, AltitudeAdjustedResult(5000.0, &mexicoCity, "Race Walk"))
}

func TestTemperatureImpactFactor(t *testing.T) {
	optimal := 11.0
	hot := 31.0
	cold := -9.0

	assert.Equal(t, 1.0, TemperatureImpactFactor(nil, "Marathon"))
	assert.Equal(t, 1.0, TemperatureImpactFactor(&optimal, "Marathon"))

	// 20 degrees off optimal: distance events pay 0.004 per degree
	assert.InDelta(t, 0.92, TemperatureImpactFactor(&hot, "Marathon"), 0.0001)
	assert.InDelta(t, 0.92, TemperatureImpactFactor(&cold, "Marathon"), 0.0001)

	// Sprints are less sensitive
	assert.InDelta(t, 0.98, TemperatureImpactFactor(&hot, "100m"), 0.0001)

	// The factor never leaves [0.5, 1.5]
	extreme := 500.0
	assert.Equal(t, 0.5, TemperatureImpactFactor(&extreme, "Marathon"))
}

func TestEnvironmentalBonus(t *testing.T) {
	assert.Equal(t, 0.0, EnvironmentalBonus(nil, nil, "100m"))

	// Altitude alone, sprint: (1.94 * 0.95) * 2
	mexicoCity := 2240.0
	assert.InDelta(t, 3.686, EnvironmentalBonus(&mexicoCity, nil, "100m"), 0.001)

	// Endurance at altitude is heavily penalized and hits the clamp
	assert.Equal(t, -20.0, EnvironmentalBonus(&mexicoCity, nil, "Marathon"))

	// Temperature alone, 20 degrees hot, distance: (-20 * 0.4) * 2 clamped
	hot := 31.0
	assert.Equal(t, -16.0, EnvironmentalBonus(nil, &hot, "Marathon"))

	// Low altitude and optimal temperature contribute nothing
	seaLevel := 50.0
	optimal := 11.0
	assert.Equal(t, 0.0, EnvironmentalBonus(&seaLevel, &optimal, "100m"))
}
