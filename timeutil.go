package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// istOffsetMinutes is the fixed UTC offset for the app timezone (IST, UTC+5:30).
// There is no DST and no per-user timezone; every "now" in the system uses
// this single offset.
const istOffsetMinutes = 330

const minutesPerDay = 24 * 60

// toMinutes parses an "HH:MM" string to minutes since midnight. The range is
// not validated — "25:99" produces an out-of-range value and callers clamp
// before display. Malformed fragments parse as 0.
func toMinutes(hhmm string) int {
	hh, mm := "0", "0"
	if i := strings.IndexByte(hhmm, ':'); i >= 0 {
		hh, mm = hhmm[:i], hhmm[i+1:]
	} else if hhmm != "" {
		hh = hhmm
	}
	h, _ := strconv.Atoi(strings.TrimSpace(hh))
	m, _ := strconv.Atoi(strings.TrimSpace(mm))
	return h*60 + m
}

// toTime formats minutes-since-midnight as "HH:MM", wrapping into [0,1440)
// first so negative or >1440 inputs are always representable.
func toTime(minutes int) string {
	m := ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// clampInt constrains n to [lo, hi] by saturation.
func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// nowMinutesInTZ converts an instant to minute-of-day at the given fixed
// UTC offset, wrapped into [0,1440).
func nowMinutesInTZ(now time.Time, offsetMinutes int) int {
	shifted := now.UTC().Add(time.Duration(offsetMinutes) * time.Minute)
	return shifted.Hour()*60 + shifted.Minute()
}

// todayDateInTZ returns the calendar date "YYYY-MM-DD" of an instant at the
// given fixed UTC offset.
func todayDateInTZ(now time.Time, offsetMinutes int) string {
	return now.UTC().Add(time.Duration(offsetMinutes) * time.Minute).Format("2006-01-02")
}

// previousDate returns the "YYYY-MM-DD" string one calendar day before the
// given date. Invalid input returns "" so a streak walk over garbage
// terminates instead of looping.
func previousDate(yyyymmdd string) string {
	t, err := time.Parse("2006-01-02", yyyymmdd)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format("2006-01-02")
}
