package datagen

import (
	"testing"
	"time"
)

func TestNewFakerWithSeed(t *testing.T) {
	f1 := NewFakerWithSeed(42)
	f2 := NewFakerWithSeed(42)

	// Same seed produces the same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000000)
		v2 := f2.Int(0, 1000000)
		if v1 != v2 {
			t.Errorf("seeded fakers diverged at step %d: %d != %d", i, v1, v2)
		}
	}
}

func TestInt(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		v := f.Int(5, 10)
		if v < 5 || v > 10 {
			t.Errorf("Int(5, 10) = %d, out of range", v)
		}
	}
}

func TestFloat64(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		v := f.Float64(1.5, 2.5)
		if v < 1.5 || v > 2.5 {
			t.Errorf("Float64(1.5, 2.5) = %f, out of range", v)
		}
	}
}

func TestDateRange(t *testing.T) {
	f := NewFakerWithSeed(1)
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		d := f.DateRange(start, end)
		if d.Before(start) || d.After(end) {
			t.Errorf("DateRange returned %v outside [%v, %v]", d, start, end)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(1)

	items := []string{"100m", "200m", "400m"}
	for i := 0; i < 50; i++ {
		v := Choose(f, items)
		found := false
		for _, item := range items {
			if v == item {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned %q, not in items", v)
		}
	}

	// Empty slice returns zero value
	empty := Choose(f, []string{})
	if empty != "" {
		t.Errorf("Choose on empty slice = %q, want empty string", empty)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(1)

	items := []string{"common", "rare"}
	weights := []int{99, 1}

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		counts[ChooseWeighted(f, items, weights)]++
	}

	if counts["common"] < counts["rare"] {
		t.Errorf("weighted choose: common=%d rare=%d, expected common to dominate",
			counts["common"], counts["rare"])
	}

	empty := ChooseWeighted(f, []string{}, []int{})
	if empty != "" {
		t.Errorf("ChooseWeighted on empty slice = %q, want empty string", empty)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "abc", 10, "abc"},
		{"equal to max", "abcde", 5, "abcde"},
		{"longer than max", "abcdefgh", 5, "abcde"},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestNullableString(t *testing.T) {
	f := NewFakerWithSeed(1)

	// Probability 0 never nulls
	for i := 0; i < 20; i++ {
		if f.NullableString("x", 0) != "x" {
			t.Error("NullableString with probability 0 returned empty")
		}
	}

	// Probability 1 always nulls
	for i := 0; i < 20; i++ {
		if f.NullableString("x", 1) != "" {
			t.Error("NullableString with probability 1 returned non-empty")
		}
	}
}
