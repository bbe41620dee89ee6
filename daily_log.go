package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getDailyLog returns the log entry for a given date, or null if none exists.
// GET /api/log?date=YYYY-MM-DD (defaults to today in the app timezone).
func (h *Handler) getDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	date := c.Query("date")
	if date == "" {
		date = todayDateInTZ(h.now(), istOffsetMinutes)
	}
	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	l, err := queryOne[dailyLog](h.db, c,
		"SELECT * FROM daily_logs WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"log": nil})
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch log")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": l})
}

// upsertDailyLog creates or replaces the log entry for a date.
// POST /api/log. The UNIQUE(user_id, date) constraint means posting the same
// date updates in place. Malformed metric values degrade instead of failing:
// meals_followed_pct clamps to [0,100] and an out-of-range mood becomes 3.
func (h *Handler) upsertDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body upsertLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	date := body.Date
	if date == "" {
		date = todayDateInTZ(h.now(), istOffsetMinutes)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	mealsPct := 0
	if body.MealsFollowedPct != nil {
		mealsPct = clampInt(*body.MealsFollowedPct, 0, 100)
	}

	mood := 3
	if body.Mood != nil && *body.Mood >= 1 && *body.Mood <= 5 {
		mood = *body.Mood
	}

	l, err := queryOne[dailyLog](h.db, c,
		`INSERT INTO daily_logs (user_id, date, weight_kg, water_liters, sleep_hours,
			steps, workout_done, meals_followed_pct, mood, notes)
		 VALUES (@userID, @date, @weightKg, @waterLiters, @sleepHours,
			@steps, @workoutDone, @mealsFollowedPct, @mood, @notes)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			water_liters = EXCLUDED.water_liters,
			sleep_hours = EXCLUDED.sleep_hours,
			steps = EXCLUDED.steps,
			workout_done = EXCLUDED.workout_done,
			meals_followed_pct = EXCLUDED.meals_followed_pct,
			mood = EXCLUDED.mood,
			notes = EXCLUDED.notes,
			updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": date,
			"weightKg": body.WeightKg, "waterLiters": body.WaterLiters,
			"sleepHours": body.SleepHours, "steps": body.Steps,
			"workoutDone": body.WorkoutDone, "mealsFollowedPct": mealsPct,
			"mood": mood, "notes": body.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "log": l})
}
