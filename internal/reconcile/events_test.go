package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardizeEventName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"100 Metres", "100m"},
		{"100 metres", "100m"},
		{"200 meters", "200m"},
		{"marathon", "Marathon"},
		{"Long Jump", "Long Jump"},
		{"110m hurdles", "110m Hurdles"},
		{"3000 Metres Steeplechase", "3000 Metres Steeplechase"},
		{"  100m  ", "100m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardizeEventName(tt.input), "input %q", tt.input)
	}
}

func TestIsMultiEvent(t *testing.T) {
	assert.True(t, IsMultiEvent("Decathlon"))
	assert.True(t, IsMultiEvent("heptathlon"))
	assert.False(t, IsMultiEvent("110m Hurdles"))
	assert.False(t, IsMultiEvent("Marathon"))
}

func TestEventGroup(t *testing.T) {
	tests := []struct {
		event string
		want  string
	}{
		// Hurdles win over the embedded sprint distance
		{"400 Metres Hurdles", "Hurdles"},
		{"110m Hurdles", "Hurdles"},
		{"100 Metres", "Sprint"},
		{"200m", "Sprint"},
		{"60 Metres", "Sprint"},
		{"800 Metres", "Distance"},
		{"1500m", "Distance"},
		{"Marathon", "Distance"},
		{"One Mile", "Distance"},
		{"3000 Metres Steeplechase", "Distance"},
		{"20 Kilometres Race Walk", "Road"},
		{"Long Jump", "Jumps"},
		{"Pole Vault", "Jumps"},
		{"Shot Put", "Throws"},
		{"Javelin Throw", "Throws"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EventGroup(tt.event), "event %q", tt.event)
	}
}

func TestEventCategory(t *testing.T) {
	assert.Equal(t, "Track", EventCategory("Sprint"))
	assert.Equal(t, "Track", EventCategory("Distance"))
	assert.Equal(t, "Track", EventCategory("Hurdles"))
	assert.Equal(t, "Field", EventCategory("Jumps"))
	assert.Equal(t, "Field", EventCategory("Throws"))
	assert.Equal(t, "Road", EventCategory("Road"))
	assert.Equal(t, "Other", EventCategory("Other"))
}

func TestMeasurementUnit(t *testing.T) {
	assert.Equal(t, "seconds", MeasurementUnit("Track"))
	assert.Equal(t, "seconds", MeasurementUnit("Road"))
	assert.Equal(t, "meters", MeasurementUnit("Field"))
}

func TestEventGender(t *testing.T) {
	assert.Equal(t, "M", EventGender("110m Hurdles"))
	assert.Equal(t, "F", EventGender("100m Hurdles"))
	assert.Equal(t, "U", EventGender("400m Hurdles"))
	assert.Equal(t, "U", EventGender("100 Metres"))
}

func TestExtractDistance(t *testing.T) {
	tests := []struct {
		event string
		want  float64
	}{
		{"100 Metres", 100},
		{"200m", 200},
		{"10000 Metres", 10000},
		{"One Mile", 1609},
		{"Two Mile", 3218},
		{"Marathon", 42195},
		{"Half Marathon", 21098},
		{"3000 Metres Steeplechase", 3000},
		{"2000m Steeplechase", 2000},
		{"20 Kilometres Race Walk", 20000},
		{"110m Hurdles", 110},
	}
	for _, tt := range tests {
		got := ExtractDistance(tt.event)
		require.NotNil(t, got, "event %q", tt.event)
		assert.InDelta(t, tt.want, *got, 0.5, "event %q", tt.event)
	}

	assert.Nil(t, ExtractDistance("Long Jump"))
	assert.Nil(t, ExtractDistance("Shot Put"))
	assert.Nil(t, ExtractDistance(""))
}
