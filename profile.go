package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── Enumerations ───────────────────────────────────────────────────── */

type dietPref string

const (
	dietVeg        dietPref = "veg"
	dietNonveg     dietPref = "nonveg"
	dietEggetarian dietPref = "eggetarian"
	dietVegan      dietPref = "vegan"
)

type goalKind string

const (
	goalMuscleGain  goalKind = "muscle_gain"
	goalWeightGain  goalKind = "weight_gain"
	goalFatLoss     goalKind = "fat_loss"
	goalMaintenance goalKind = "maintenance"
)

type experienceLevel string

const (
	expBeginner     experienceLevel = "beginner"
	expIntermediate experienceLevel = "intermediate"
	expAdvanced     experienceLevel = "advanced"
)

type workoutLocation string

const (
	locHome workoutLocation = "home"
	locGym  workoutLocation = "gym"
)

/* ─── Normalizer ─────────────────────────────────────────────────────── */

// parseDiet resolves an arbitrary string to a diet preference, defaulting to veg.
func parseDiet(v string) dietPref {
	switch dietPref(v) {
	case dietVeg, dietNonveg, dietEggetarian, dietVegan:
		return dietPref(v)
	}
	return dietVeg
}

// parseGoal resolves an arbitrary string to a goal, defaulting to muscle_gain.
func parseGoal(v string) goalKind {
	switch goalKind(v) {
	case goalMuscleGain, goalWeightGain, goalFatLoss, goalMaintenance:
		return goalKind(v)
	}
	return goalMuscleGain
}

// parseExperience resolves an arbitrary string to an experience level,
// defaulting to beginner.
func parseExperience(v string) experienceLevel {
	switch experienceLevel(v) {
	case expBeginner, expIntermediate, expAdvanced:
		return experienceLevel(v)
	}
	return expBeginner
}

// parseLocation resolves an arbitrary string to a workout location,
// defaulting to home.
func parseLocation(v string) workoutLocation {
	switch workoutLocation(v) {
	case locHome, locGym:
		return workoutLocation(v)
	}
	return locHome
}

// parseMealsPerDay resolves the string-coded meals-per-day field to 3, 4 or 5,
// defaulting to 3.
func parseMealsPerDay(v string) int {
	switch strings.TrimSpace(v) {
	case "4":
		return 4
	case "5":
		return 5
	}
	return 3
}

// parseWorkoutMinutes resolves the string-coded workout duration to an int,
// defaulting to 35 on non-numeric input. Clamping to [20,90] happens in the
// workout builder, not here.
func parseWorkoutMinutes(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 35
	}
	return n
}

// normalizedProfile is the closed-enum view of a stored profile. All fields
// are guaranteed to hold recognized values.
type normalizedProfile struct {
	Diet           dietPref
	Goal           goalKind
	Experience     experienceLevel
	Location       workoutLocation
	MealsPerDay    int
	WorkoutMinutes int
	WorkStart      string
	WorkEnd        string
}

// normalizeProfile resolves every raw profile field into its enumeration,
// falling back to documented defaults on anything missing or unrecognized.
// It is total: no profile shape can make it fail.
func normalizeProfile(p *profile) normalizedProfile {
	n := normalizedProfile{
		Diet:           parseDiet(p.DietPreference),
		Goal:           parseGoal(p.Goal),
		Experience:     parseExperience(p.Experience),
		Location:       parseLocation(p.WorkoutLocation),
		MealsPerDay:    parseMealsPerDay(p.MealsPerDay),
		WorkoutMinutes: parseWorkoutMinutes(p.WorkoutMinutesPerDay),
		WorkStart:      strings.TrimSpace(p.WorkStart),
		WorkEnd:        strings.TrimSpace(p.WorkEnd),
	}
	if n.WorkStart == "" {
		n.WorkStart = "10:30"
	}
	if n.WorkEnd == "" {
		n.WorkEnd = "20:00"
	}
	return n
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getProfile returns the stored profile for the authenticated user.
// GET /api/profile. 404 signals that onboarding has not been completed.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	c.JSON(http.StatusOK, p)
}

// upsertProfile creates or replaces the profile for the authenticated user
// and marks onboarding as completed.
// POST /api/profile. Enum fields are stored as sent; unrecognized values
// degrade to defaults at plan time rather than being rejected here.
func (h *Handler) upsertProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body upsertProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := queryOne[profile](h.db, c,
		`INSERT INTO profiles (user_id, height_cm, weight_kg, age, gender,
			profession, work_start, work_end, activity_level,
			diet_preference, allergies, meals_per_day,
			goal, experience, workout_location, workout_minutes_per_day)
		 VALUES (@userID, @heightCm, @weightKg, @age, @gender,
			@profession, @workStart, @workEnd, @activityLevel,
			@dietPreference, @allergies, @mealsPerDay,
			@goal, @experience, @workoutLocation, @workoutMinutesPerDay)
		 ON CONFLICT (user_id) DO UPDATE SET
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			profession = EXCLUDED.profession,
			work_start = EXCLUDED.work_start,
			work_end = EXCLUDED.work_end,
			activity_level = EXCLUDED.activity_level,
			diet_preference = EXCLUDED.diet_preference,
			allergies = EXCLUDED.allergies,
			meals_per_day = EXCLUDED.meals_per_day,
			goal = EXCLUDED.goal,
			experience = EXCLUDED.experience,
			workout_location = EXCLUDED.workout_location,
			workout_minutes_per_day = EXCLUDED.workout_minutes_per_day,
			updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "heightCm": body.HeightCm, "weightKg": body.WeightKg,
			"age": body.Age, "gender": body.Gender, "profession": body.Profession,
			"workStart": body.WorkStart, "workEnd": body.WorkEnd,
			"activityLevel": body.ActivityLevel, "dietPreference": body.DietPreference,
			"allergies": body.Allergies, "mealsPerDay": body.MealsPerDay,
			"goal": body.Goal, "experience": body.Experience,
			"workoutLocation": body.WorkoutLocation,
			"workoutMinutesPerDay": body.WorkoutMinutesPerDay,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	if _, err := h.db.Exec(c,
		"UPDATE users SET onboarding_completed = TRUE WHERE id = @userID",
		pgx.NamedArgs{"userID": userID}); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update onboarding status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

// patchSettings updates only the provided preference toggles.
// PATCH /api/settings. Uses pointer fields in the request body to distinguish
// "not provided" from false — only non-nil fields get updated.
func (h *Handler) patchSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Build SET clause dynamically — only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.PrefDarkMode != nil {
		setClauses = append(setClauses, "pref_dark_mode = @prefDarkMode")
		args["prefDarkMode"] = *body.PrefDarkMode
	}
	if body.PrefDailyReminder != nil {
		setClauses = append(setClauses, "pref_daily_reminder = @prefDailyReminder")
		args["prefDailyReminder"] = *body.PrefDailyReminder
	}
	if body.PrefWorkoutReminder != nil {
		setClauses = append(setClauses, "pref_workout_reminder = @prefWorkoutReminder")
		args["prefWorkoutReminder"] = *body.PrefWorkoutReminder
	}
	if body.PrefMealReminder != nil {
		setClauses = append(setClauses, "pref_meal_reminder = @prefMealReminder")
		args["prefMealReminder"] = *body.PrefMealReminder
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE profiles SET " + strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING *"

	p, err := queryOne[profile](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	c.JSON(http.StatusOK, p)
}
