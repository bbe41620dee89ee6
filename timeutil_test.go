package main

import (
	"testing"
	"time"
)

/* ─── toMinutes / toTime ─────────────────────────────────────────────── */

// TestToMinutes_Basic verifies plain HH:MM parsing.
func TestToMinutes_Basic(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"07:30", 450},
		{"23:59", 1439},
		{"10:30", 630},
	}
	for _, tc := range cases {
		if got := toMinutes(tc.in); got != tc.want {
			t.Errorf("toMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// TestToMinutes_MalformedInput verifies that out-of-range and garbage input
// parses without panicking. Range validation is a caller concern.
func TestToMinutes_MalformedInput(t *testing.T) {
	if got := toMinutes("25:99"); got != 25*60+99 {
		t.Errorf("toMinutes(25:99) = %d, want %d", got, 25*60+99)
	}
	if got := toMinutes(""); got != 0 {
		t.Errorf("toMinutes(\"\") = %d, want 0", got)
	}
	if got := toMinutes("garbage"); got != 0 {
		t.Errorf("toMinutes(garbage) = %d, want 0", got)
	}
}

// TestToTime_Wrapping verifies that negative and >1440 minute values wrap
// into a displayable [0,1440) wall-clock time.
func TestToTime_Wrapping(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{450, "07:30"},
		{1440, "00:00"},
		{1500, "01:00"},
		{-30, "23:30"},
		{2 * 1440, "00:00"},
		{-1440 - 60, "23:00"},
	}
	for _, tc := range cases {
		if got := toTime(tc.in); got != tc.want {
			t.Errorf("toTime(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestToTimeToMinutes_RoundTrip verifies the round trip over the whole day.
func TestToTimeToMinutes_RoundTrip(t *testing.T) {
	for m := 0; m < 1440; m++ {
		if got := toMinutes(toTime(m)); got != m {
			t.Fatalf("round trip failed at %d: got %d", m, got)
		}
	}
}

/* ─── clampInt ───────────────────────────────────────────────────────── */

func TestClampInt(t *testing.T) {
	if got := clampInt(5, 10, 20); got != 10 {
		t.Errorf("clampInt(5,10,20) = %d, want 10", got)
	}
	if got := clampInt(25, 10, 20); got != 20 {
		t.Errorf("clampInt(25,10,20) = %d, want 20", got)
	}
	if got := clampInt(15, 10, 20); got != 15 {
		t.Errorf("clampInt(15,10,20) = %d, want 15", got)
	}
}

/* ─── Fixed-offset clock helpers ─────────────────────────────────────── */

// TestNowMinutesInTZ verifies minute-of-day at the fixed IST offset,
// including the wrap past midnight.
func TestNowMinutesInTZ(t *testing.T) {
	// 12:00 UTC is 17:30 IST
	noon := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := nowMinutesInTZ(noon, istOffsetMinutes); got != 17*60+30 {
		t.Errorf("nowMinutesInTZ(noon) = %d, want %d", got, 17*60+30)
	}

	// 18:30 UTC is exactly midnight IST — must wrap to 0, not 1440
	evening := time.Date(2026, 1, 15, 18, 30, 0, 0, time.UTC)
	if got := nowMinutesInTZ(evening, istOffsetMinutes); got != 0 {
		t.Errorf("nowMinutesInTZ(18:30 UTC) = %d, want 0", got)
	}
}

// TestTodayDateInTZ verifies that the IST calendar date rolls over at
// 18:30 UTC.
func TestTodayDateInTZ(t *testing.T) {
	before := time.Date(2026, 1, 15, 18, 29, 0, 0, time.UTC)
	if got := todayDateInTZ(before, istOffsetMinutes); got != "2026-01-15" {
		t.Errorf("todayDateInTZ(18:29 UTC) = %q, want 2026-01-15", got)
	}
	after := time.Date(2026, 1, 15, 18, 30, 0, 0, time.UTC)
	if got := todayDateInTZ(after, istOffsetMinutes); got != "2026-01-16" {
		t.Errorf("todayDateInTZ(18:30 UTC) = %q, want 2026-01-16", got)
	}
}

/* ─── previousDate ───────────────────────────────────────────────────── */

// TestPreviousDate verifies month and year boundaries, including leap day.
func TestPreviousDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-01-15", "2026-01-14"},
		{"2026-03-01", "2026-02-28"},
		{"2024-03-01", "2024-02-29"},
		{"2026-01-01", "2025-12-31"},
	}
	for _, tc := range cases {
		if got := previousDate(tc.in); got != tc.want {
			t.Errorf("previousDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestPreviousDate_Invalid verifies that garbage input returns "" so callers
// walking backwards terminate.
func TestPreviousDate_Invalid(t *testing.T) {
	if got := previousDate("not-a-date"); got != "" {
		t.Errorf("previousDate(not-a-date) = %q, want \"\"", got)
	}
}
