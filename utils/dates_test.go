package utils

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestRangesOverlapHalfOpen(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"disjoint", "2025-06-01", "2025-06-05", "2025-06-10", "2025-06-12", false},
		{"touching at checkout day", "2025-06-01", "2025-06-05", "2025-06-05", "2025-06-08", false},
		{"one night shared", "2025-06-01", "2025-06-05", "2025-06-04", "2025-06-08", true},
		{"contained", "2025-06-01", "2025-06-10", "2025-06-03", "2025-06-04", true},
		{"identical", "2025-06-01", "2025-06-05", "2025-06-01", "2025-06-05", true},
		{"reversed order", "2025-06-10", "2025-06-12", "2025-06-01", "2025-06-05", false},
	}
	for _, tc := range cases {
		got := RangesOverlap(
			mustDate(t, tc.aStart), mustDate(t, tc.aEnd),
			mustDate(t, tc.bStart), mustDate(t, tc.bEnd),
		)
		if got != tc.want {
			t.Errorf("%s: RangesOverlap = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEnumerateDates(t *testing.T) {
	dates := EnumerateDates(mustDate(t, "2025-06-01"), mustDate(t, "2025-06-05"))
	if len(dates) != 4 {
		t.Fatalf("expected 4 nights, got %d", len(dates))
	}
	if !dates[0].Equal(mustDate(t, "2025-06-01")) {
		t.Errorf("first night = %v", dates[0])
	}
	// Checkout day is not occupied.
	last := dates[len(dates)-1]
	if !last.Equal(mustDate(t, "2025-06-04")) {
		t.Errorf("last night = %v, want 2025-06-04", last)
	}
}

func TestEnumerateDatesEmptyAndInverted(t *testing.T) {
	if got := EnumerateDates(mustDate(t, "2025-06-05"), mustDate(t, "2025-06-05")); got != nil {
		t.Errorf("empty range: got %v", got)
	}
	if got := EnumerateDates(mustDate(t, "2025-06-05"), mustDate(t, "2025-06-01")); got != nil {
		t.Errorf("inverted range: got %v", got)
	}
}

func TestNightsBetween(t *testing.T) {
	if n := NightsBetween(mustDate(t, "2025-06-01"), mustDate(t, "2025-06-05")); n != 4 {
		t.Errorf("NightsBetween = %d, want 4", n)
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(mustDate(t, "2025-06-01"), mustDate(t, "2025-06-02")); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := ValidateRange(mustDate(t, "2025-06-02"), mustDate(t, "2025-06-02")); err == nil {
		t.Error("empty range accepted")
	}
	if err := ValidateRange(mustDate(t, "2025-06-03"), mustDate(t, "2025-06-02")); err == nil {
		t.Error("inverted range accepted")
	}
}

func TestIsWeekendNight(t *testing.T) {
	// 2025-06-06 is a Friday, 2025-06-07 a Saturday, 2025-06-08 a Sunday.
	if !IsWeekendNight(mustDate(t, "2025-06-06")) || !IsWeekendNight(mustDate(t, "2025-06-07")) {
		t.Error("friday/saturday nights should be weekend nights")
	}
	if IsWeekendNight(mustDate(t, "2025-06-08")) {
		t.Error("sunday night should not be a weekend night")
	}
}
