package main

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// logDatesLookback bounds how many recent log dates feed the streak walk.
// A streak longer than this reports the cap, which is acceptable — the
// query stays cheap regardless of account age.
const logDatesLookback = 90

// computeStreak counts consecutive logged calendar days ending at today.
// Strict-today policy: a missing log for today means the streak is 0, with
// no grace period for yesterday.
func computeStreak(logDates map[string]bool, today string) int {
	streak := 0
	for day := today; logDates[day]; day = previousDate(day) {
		streak++
	}
	return streak
}

// summarizeLogs aggregates a newest-first log window. Averages over nullable
// metrics (sleep, water) consider only non-null values and round to one
// decimal; they stay nil when no values exist. LatestWeight is the first
// non-null weight scanning newest-first.
func summarizeLogs(logs []dailyLog) reportsSummary {
	s := reportsSummary{DaysLogged: len(logs)}
	if len(logs) == 0 {
		return s
	}

	var mealsPctSum int
	var sleepSum, waterSum float64
	var sleepN, waterN int
	for _, l := range logs {
		if l.WorkoutDone {
			s.WorkoutsDone++
		}
		mealsPctSum += l.MealsFollowedPct
		if l.SleepHours != nil {
			sleepSum += *l.SleepHours
			sleepN++
		}
		if l.WaterLiters != nil {
			waterSum += *l.WaterLiters
			waterN++
		}
		if s.LatestWeight == nil && l.WeightKg != nil {
			s.LatestWeight = l.WeightKg
		}
	}

	s.AvgMealsPct = int(math.Round(float64(mealsPctSum) / float64(len(logs))))
	if sleepN > 0 {
		v := math.Round(sleepSum/float64(sleepN)*10) / 10
		s.AvgSleep = &v
	}
	if waterN > 0 {
		v := math.Round(waterSum/float64(waterN)*10) / 10
		s.AvgWater = &v
	}
	return s
}

// streakForUser loads the user's recent log dates and computes the current
// streak ending at today.
func (h *Handler) streakForUser(c *gin.Context, userID int, today string) (int, error) {
	rows, err := h.db.Query(c,
		`SELECT date FROM daily_logs WHERE user_id = @userID
		 ORDER BY date DESC LIMIT @limit`,
		pgx.NamedArgs{"userID": userID, "limit": logDatesLookback})
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	logDates := make(map[string]bool, logDatesLookback)
	for rows.Next() {
		var d DateOnly
		if err := rows.Scan(&d); err != nil {
			return 0, err
		}
		logDates[d.Format("2006-01-02")] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	return computeStreak(logDates, today), nil
}

// getReports returns the recent log window and its summary statistics.
// GET /api/reports?days=N (default 30, clamped to [7,90]).
func (h *Handler) getReports(c *gin.Context) {
	userID := c.GetInt("user_id")

	days := 30
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid days, expected a number")
			return
		}
		days = n
	}
	days = clampInt(days, 7, 90)

	now := h.now()
	today := todayDateInTZ(now, istOffsetMinutes)
	fromDate := today
	for i := 0; i < days-1; i++ {
		fromDate = previousDate(fromDate)
	}

	logs, err := queryMany[dailyLog](h.db, c,
		`SELECT * FROM daily_logs
		 WHERE user_id = @userID AND date >= @fromDate
		 ORDER BY date DESC`,
		pgx.NamedArgs{"userID": userID, "fromDate": fromDate})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	// Ensure logs is an empty array (not null) in JSON
	if logs == nil {
		logs = []dailyLog{}
	}

	summary := summarizeLogs(logs)

	logDates := make(map[string]bool, len(logs))
	for _, l := range logs {
		logDates[l.Date.Format("2006-01-02")] = true
	}
	summary.CurrentStreak = computeStreak(logDates, today)

	c.JSON(http.StatusOK, reportsResponse{Logs: logs, Summary: summary})
}
