package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAthleteName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"uppercase and trim", "  Usain Bolt ", "USAIN BOLT"},
		{"collapse spaces", "Usain   St  Leo   Bolt", "USAIN ST LEO BOLT"},
		{"strip punctuation and suffix", "O'Brien, J.R.", "OBRIEN"},
		{"strip jr suffix", "Ken Griffey JR", "KEN GRIFFEY"},
		{"strip roman suffix", "John Smith III", "JOHN SMITH"},
		{"strip junior suffix", "Carl Lewis JUNIOR", "CARL LEWIS"},
		{"plain name unchanged", "ELIUD KIPCHOGE", "ELIUD KIPCHOGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAthleteName(tt.input))
		})
	}
}

func TestNormalizeAthleteNameDeduplicates(t *testing.T) {
	// Variants of the same athlete must normalize identically
	variants := []string{
		"Usain BOLT",
		"usain bolt",
		"USAIN  BOLT",
		"Usain Bolt Jr",
	}
	want := NormalizeAthleteName(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, want, NormalizeAthleteName(v), "variant %q", v)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Usain Bolt", DisplayName("USAIN BOLT"))
	assert.Equal(t, "Eliud Kipchoge", DisplayName("  eliud kipchoge "))
	assert.Equal(t, "Sydney Mclaughlin-Levrone", DisplayName("SYDNEY MCLAUGHLIN-LEVRONE"))
	assert.Equal(t, "Félix Sánchez", DisplayName("FÉLIX SÁNCHEZ"))
}

func TestTitleCaseNonASCII(t *testing.T) {
	// Accented letters count as word characters, not boundaries.
	assert.Equal(t, "Zürich", titleCase("zürich"))
	assert.Equal(t, "München", titleCase("münchen"))
	assert.Equal(t, "Örebro", titleCase("örebro"))
	assert.Equal(t, "Mexico City", titleCase("mexico city"))
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"F", "F"}, {"f", "F"}, {"w", "F"}, {"Female", "F"},
		{"M", "M"}, {"male", "M"},
		{"", "U"}, {"x", "U"}, {"mixed", "U"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeGender(tt.input), "input %q", tt.input)
	}
}

func TestParseMark(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain seconds", "9.58", 9.58, true},
		{"field meters", "8.95", 8.95, true},
		{"minutes seconds", "3:28.12", 208.12, true},
		{"hours minutes seconds", "2:01:09", 7269, true},
		{"dnf", "DNF", 0, false},
		{"dq", "DQ", 0, false},
		{"dns", "DNS", 0, false},
		{"no mark", "NM", 0, false},
		{"empty", "", 0, false},
		{"garbage", "abc", 0, false},
		{"below range", "0.05", 0, false},
		{"above range", "60000", 0, false},
		{"too many colons", "1:2:3:4", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMark(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestParseWind(t *testing.T) {
	v, ok := ParseWind("+1.2")
	require.True(t, ok)
	assert.InDelta(t, 1.2, v, 0.001)

	v, ok = ParseWind("-0.4")
	require.True(t, ok)
	assert.InDelta(t, -0.4, v, 0.001)

	_, ok = ParseWind("")
	assert.False(t, ok)

	_, ok = ParseWind("n/a")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("16 Aug 2009")
	require.True(t, ok)
	assert.Equal(t, 2009, d.Year())
	assert.Equal(t, 8, int(d.Month()))
	assert.Equal(t, 16, d.Day())

	d, ok = ParseDate("2022-07-15")
	require.True(t, ok)
	assert.Equal(t, 2022, d.Year())

	_, ok = ParseDate("")
	assert.False(t, ok)

	_, ok = ParseDate("sometime in July")
	assert.False(t, ok)
}

func TestBirthDecade(t *testing.T) {
	assert.Equal(t, "1980s", BirthDecade("21 Aug 1986"))
	assert.Equal(t, "1990s", BirthDecade("1994-01-01"))
	assert.Equal(t, "Unknown", BirthDecade(""))
	assert.Equal(t, "Unknown", BirthDecade("not a date"))
}

func TestQualityScore(t *testing.T) {
	assert.Equal(t, 10, QualityScore(true, true, true, true))
	assert.Equal(t, 8, QualityScore(false, true, true, true))
	assert.Equal(t, 8, QualityScore(true, false, true, true))
	assert.Equal(t, 9, QualityScore(true, true, false, true))
	assert.Equal(t, 9, QualityScore(true, true, true, false))
	assert.Equal(t, 4, QualityScore(false, false, false, false))
}
