package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL values zero the time and return nil so that
// *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID                  int        `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	Email               string     `json:"email" db:"email"`
	AuthToken           string     `json:"-" db:"auth_token"`
	Password            string     `json:"-" db:"password"`
	OnboardingCompleted bool       `json:"onboarding_completed" db:"onboarding_completed"`
	CreatedAt           *time.Time `json:"created_at" db:"created_at"`
}

// profile maps to the profiles table, one row per user. The lifestyle and
// fitness fields are stored as the raw strings the onboarding wizard sends;
// normalizeProfile resolves them into closed enums before planning.
type profile struct {
	UserID int `json:"user_id" db:"user_id"`

	HeightCm string `json:"height_cm" db:"height_cm"`
	WeightKg string `json:"weight_kg" db:"weight_kg"`
	Age      string `json:"age" db:"age"`
	Gender   string `json:"gender" db:"gender"`

	Profession    string `json:"profession" db:"profession"`
	WorkStart     string `json:"work_start" db:"work_start"`
	WorkEnd       string `json:"work_end" db:"work_end"`
	ActivityLevel string `json:"activity_level" db:"activity_level"`

	DietPreference string `json:"diet_preference" db:"diet_preference"`
	Allergies      string `json:"allergies" db:"allergies"`
	MealsPerDay    string `json:"meals_per_day" db:"meals_per_day"`

	Goal                 string `json:"goal" db:"goal"`
	Experience           string `json:"experience" db:"experience"`
	WorkoutLocation      string `json:"workout_location" db:"workout_location"`
	WorkoutMinutesPerDay string `json:"workout_minutes_per_day" db:"workout_minutes_per_day"`

	PrefDarkMode        bool `json:"pref_dark_mode" db:"pref_dark_mode"`
	PrefDailyReminder   bool `json:"pref_daily_reminder" db:"pref_daily_reminder"`
	PrefWorkoutReminder bool `json:"pref_workout_reminder" db:"pref_workout_reminder"`
	PrefMealReminder    bool `json:"pref_meal_reminder" db:"pref_meal_reminder"`

	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// dailyLog maps to daily_logs, one row per (user_id, date). Nullable metrics
// use pointers so pgx can scan NULLs and JSON omits them naturally.
type dailyLog struct {
	ID               int        `json:"id" db:"id"`
	UserID           int        `json:"user_id" db:"user_id"`
	Date             DateOnly   `json:"date" db:"date"`
	WeightKg         *float64   `json:"weight_kg" db:"weight_kg"`
	WaterLiters      *float64   `json:"water_liters" db:"water_liters"`
	SleepHours       *float64   `json:"sleep_hours" db:"sleep_hours"`
	Steps            *int       `json:"steps" db:"steps"`
	WorkoutDone      bool       `json:"workout_done" db:"workout_done"`
	MealsFollowedPct int        `json:"meals_followed_pct" db:"meals_followed_pct"`
	Mood             int        `json:"mood" db:"mood"`
	Notes            string     `json:"notes" db:"notes"`
	CreatedAt        *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at" db:"updated_at"`
}

/* ─── Plan response types ────────────────────────────────────────────── */

// routineItem is one entry in the short dashboard routine list.
type routineItem struct {
	Time  string `json:"time"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// mealItem is one meal slot in the generated plan. Kcal values across one
// response always sum exactly to the day's calorie total.
type mealItem struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
	Kcal int    `json:"kcal"`
}

// workoutExercise is one line of a workout template.
type workoutExercise struct {
	Name     string `json:"name"`
	SetsReps string `json:"setsReps"`
}

// workoutItem is the generated workout template.
type workoutItem struct {
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle"`
	DurationMin int               `json:"durationMin"`
	Items       []workoutExercise `json:"items"`
}

// routineBlock is one named interval of the synthesized daily timeline.
// Start/End are wrapped HH:MM wall-clock strings.
type routineBlock struct {
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Icon    string   `json:"icon"`
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// currentBlock is the resolved active (or nearest) timeline entry.
type currentBlock struct {
	Title string `json:"title"`
	Time  string `json:"time"`
}

// planResponse is the body of GET /api/plan.
type planResponse struct {
	GreetingName  string         `json:"greetingName"`
	CurrentBlock  currentBlock   `json:"currentBlock"`
	StreakDays    int            `json:"streakDays"`
	Routine       []routineItem  `json:"routine"`
	Meals         []mealItem     `json:"meals"`
	Workout       workoutItem    `json:"workout"`
	RoutineBlocks []routineBlock `json:"routineBlocks"`
}

/* ─── Reports response types ─────────────────────────────────────────── */

// reportsSummary aggregates the bounded log window. AvgSleep, AvgWater and
// LatestWeight are nil when no non-null values exist in the window.
type reportsSummary struct {
	DaysLogged    int      `json:"daysLogged"`
	CurrentStreak int      `json:"currentStreak"`
	WorkoutsDone  int      `json:"workoutsDone"`
	AvgMealsPct   int      `json:"avgMealsPct"`
	AvgSleep      *float64 `json:"avgSleep"`
	AvgWater      *float64 `json:"avgWater"`
	LatestWeight  *float64 `json:"latestWeight"`
}

// reportsResponse is the body of GET /api/reports.
type reportsResponse struct {
	Logs    []dailyLog     `json:"logs"`
	Summary reportsSummary `json:"summary"`
}

/* ─── Request types ──────────────────────────────────────────────────── */

// upsertProfileRequest is the request body for POST /api/profile. String
// fields arrive exactly as the onboarding wizard sends them; anything
// unrecognized degrades to a default at plan time rather than erroring here.
type upsertProfileRequest struct {
	HeightCm string `json:"height_cm"`
	WeightKg string `json:"weight_kg"`
	Age      string `json:"age"`
	Gender   string `json:"gender"`

	Profession    string `json:"profession"`
	WorkStart     string `json:"work_start"`
	WorkEnd       string `json:"work_end"`
	ActivityLevel string `json:"activity_level"`

	DietPreference string `json:"diet_preference"`
	Allergies      string `json:"allergies"`
	MealsPerDay    string `json:"meals_per_day"`

	Goal                 string `json:"goal"`
	Experience           string `json:"experience"`
	WorkoutLocation      string `json:"workout_location"`
	WorkoutMinutesPerDay string `json:"workout_minutes_per_day"`
}

// patchSettingsRequest is the request body for PATCH /api/settings.
// All fields are pointers — only non-nil fields get written to the database.
type patchSettingsRequest struct {
	PrefDarkMode        *bool `json:"pref_dark_mode"`
	PrefDailyReminder   *bool `json:"pref_daily_reminder"`
	PrefWorkoutReminder *bool `json:"pref_workout_reminder"`
	PrefMealReminder    *bool `json:"pref_meal_reminder"`
}

// upsertLogRequest is the request body for POST /api/log. Date defaults to
// today in the fixed app timezone when omitted.
type upsertLogRequest struct {
	Date             string   `json:"date"`
	WeightKg         *float64 `json:"weight_kg"`
	WaterLiters      *float64 `json:"water_liters"`
	SleepHours       *float64 `json:"sleep_hours"`
	Steps            *int     `json:"steps"`
	WorkoutDone      bool     `json:"workout_done"`
	MealsFollowedPct *int     `json:"meals_followed_pct"`
	Mood             *int     `json:"mood"`
	Notes            string   `json:"notes"`
}
