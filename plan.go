package main

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── Meal planner ───────────────────────────────────────────────────── */

// totalCalories is a step function of goal alone. Diet does not affect the
// total; the historic vegan -50 kcal adjustment was dropped.
func totalCalories(goal goalKind) int {
	switch goal {
	case goalFatLoss:
		return 1700
	case goalMaintenance:
		return 2000
	}
	return 2400
}

// mealSlotNames maps meals-per-day to its fixed ordered list of slot names.
var mealSlotNames = map[int][]string{
	3: {"Breakfast", "Lunch", "Dinner"},
	4: {"Breakfast", "Lunch", "Evening Snack", "Dinner"},
	5: {"Breakfast", "Mid-morning Snack", "Lunch", "Evening Snack", "Dinner"},
}

// mealWeights maps meals-per-day to the calorie weight of each slot, in slot
// order. Each vector sums to 1.0.
var mealWeights = map[int][]float64{
	3: {0.25, 0.40, 0.35},
	4: {0.25, 0.35, 0.15, 0.25},
	5: {0.22, 0.10, 0.35, 0.13, 0.20},
}

// mealDesc returns the template text for one meal slot, keyed by whether the
// diet is vegetarian-leaning (anything but nonveg) and whether the goal is
// fat loss.
func mealDesc(slot string, isVeg, isFatLoss bool) string {
	switch slot {
	case "Breakfast":
		if isVeg {
			if isFatLoss {
				return "Moong dal chilla + curd / tofu dip"
			}
			return "Oats + fruits + nuts (add milk/curd or soy milk)"
		}
		if isFatLoss {
			return "Egg omelette + fruit"
		}
		return "Oats + fruits + nuts + eggs"
	case "Mid-morning Snack":
		if isVeg {
			return "Fruit + a handful of roasted nuts"
		}
		return "Boiled egg + fruit"
	case "Lunch":
		if isVeg {
			if isFatLoss {
				return "Dal + salad + 2 rotis (or quinoa) + sabzi"
			}
			return "Rajma/chole + rice + salad + curd (optional)"
		}
		if isFatLoss {
			return "Grilled chicken/fish + salad + small rice/roti"
		}
		return "Grilled chicken + rice + veggies"
	case "Evening Snack":
		if isVeg {
			return "Roasted chana / sprouts + green tea"
		}
		return "Boiled eggs / chicken bites + green tea"
	case "Dinner":
		if isVeg {
			if isFatLoss {
				return "Paneer/tofu bhurji + veggies + light roti"
			}
			return "Paneer/tofu + veggies + 2 rotis"
		}
		if isFatLoss {
			return "Chicken curry (lean) + veggies + light roti"
		}
		return "Fish/chicken + veggies + roti"
	}
	return ""
}

// planMeals produces the day's meal slots with calories distributed by the
// fixed weight vector. Rounding drift is absorbed into the final slot so the
// parts always sum exactly to the total.
func planMeals(diet dietPref, goal goalKind, mealsPerDay int) ([]mealItem, int) {
	names, ok := mealSlotNames[mealsPerDay]
	if !ok {
		names = mealSlotNames[3]
		mealsPerDay = 3
	}
	weights := mealWeights[mealsPerDay]

	total := totalCalories(goal)
	isVeg := diet != dietNonveg
	isFatLoss := goal == goalFatLoss

	items := make([]mealItem, len(names))
	allocated := 0
	for i, name := range names {
		kcal := int(math.Round(weights[i] * float64(total)))
		if i == len(names)-1 {
			kcal = total - allocated
		}
		allocated += kcal
		items[i] = mealItem{Name: name, Desc: mealDesc(name, isVeg, isFatLoss), Kcal: kcal}
	}
	return items, total
}

/* ─── Workout builder ────────────────────────────────────────────────── */

// planWorkout produces the day's workout template. Duration is clamped to
// [20,90] minutes with a 35 minute default.
func planWorkout(goal goalKind, exp experienceLevel, loc workoutLocation, requestedMinutes int) workoutItem {
	if requestedMinutes == 0 {
		requestedMinutes = 35
	}
	durationMin := clampInt(requestedMinutes, 20, 90)

	pushups := "3 × 12"
	if exp == expBeginner {
		pushups = "3 × 8"
	}

	var items []workoutExercise
	var subtitle string
	if goal == goalFatLoss {
		items = []workoutExercise{
			{Name: "Jumping jacks", SetsReps: "3 × 45s"},
			{Name: "Bodyweight squats", SetsReps: "3 × 12"},
			{Name: "Push-ups", SetsReps: pushups},
			{Name: "Plank", SetsReps: "3 × 45s"},
		}
		subtitle = "Fat loss focus • " + capitalize(string(exp))
	} else {
		items = []workoutExercise{
			{Name: "Push-ups", SetsReps: pushups},
			{Name: "Rows (band/dumbbell)", SetsReps: "3 × 10"},
			{Name: "Squats", SetsReps: "3 × 12"},
			{Name: "Overhead press", SetsReps: "3 × 10"},
		}
		subtitle = "Strength focus • " + capitalize(string(exp))
	}

	title := "Home Workout"
	if loc == locGym {
		title = "Gym Workout"
	}

	return workoutItem{Title: title, Subtitle: subtitle, DurationMin: durationMin, Items: items}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

/* ─── Routine timeline builder ───────────────────────────────────────── */

// timelineBlock is a timeline interval in absolute minutes. End is always
// strictly greater than Start; candidate blocks failing that are dropped
// before emission. Start may exceed 1440 for overnight-shift schedules and
// is wrapped only at render time.
type timelineBlock struct {
	StartMin int
	EndMin   int
	Icon     string
	Title    string
	Bullets  []string
}

// timelineParams are the inputs to buildTimeline. WorkStartMin/WorkEndMin are
// minute-of-day values; IsVeg/IsFatLoss only select bullet text.
type timelineParams struct {
	WorkStartMin   int
	WorkEndMin     int
	WorkoutMinutes int
	IsVeg          bool
	IsFatLoss      bool
}

// buildTimeline synthesizes the full-day schedule as an ordered list of
// non-degenerate blocks. Policy, in generation order:
//
//   - Overnight shifts (workEnd < workStart) extend the work end past 1440.
//   - Lunch sits at the midpoint of the work window, clamped into
//     [12:00, 14:30]; if that lands at or before work start, the work day
//     stays a single unsplit block instead of splitting around lunch.
//   - Morning blocks (wake, meditation, breakfast) are anchored backwards
//     from work start with clamps keeping them inside a sane morning.
//   - Evening blocks chain forward from work end.
//
// Any candidate block whose end <= start is silently dropped, so callers
// must not assume a fixed block count.
func buildTimeline(p timelineParams) []timelineBlock {
	ws := p.WorkStartMin
	weAbs := p.WorkEndMin
	if weAbs < ws {
		weAbs += minutesPerDay
	}

	lunchStart := clampInt((ws+weAbs)/2, 12*60, 14*60+30)
	lunchEnd := lunchStart + 45

	wakeStart := clampInt(ws-150, 5*60+30, 9*60)
	wakeEnd := wakeStart + 20

	medStart := wakeEnd
	medEnd := medStart + 15

	bfStart := clampInt(ws-75, medEnd, ws-30)
	bfEnd := bfStart + 25

	workoutDur := p.WorkoutMinutes
	if workoutDur == 0 {
		workoutDur = 35
	}
	workoutDur = clampInt(workoutDur, 20, 90)

	snackStart := weAbs
	snackEnd := snackStart + 25

	workoutStart := weAbs + 30
	workoutEnd := workoutStart + workoutDur

	dinnerStart := workoutEnd + 60
	dinnerEnd := dinnerStart + 40

	windDownStart := dinnerEnd + 30
	windDownEnd := windDownStart + 45

	sleepStart := windDownEnd + 30
	sleepEnd := sleepStart + 30

	bfBullet := "Eggs + oats / fruit"
	if p.IsVeg {
		bfBullet = "Oats / poha / upma + protein"
	}
	lunchBullet := "Balanced lunch"
	if p.IsFatLoss {
		lunchBullet = "Light healthy lunch"
	}
	dinnerBullet := "Lean protein + veggies"
	if p.IsVeg {
		dinnerBullet = "Dal + roti + veggies"
	}

	var blocks []timelineBlock
	emit := func(start, end int, icon, title string, bullets []string) {
		if end <= start {
			return
		}
		blocks = append(blocks, timelineBlock{StartMin: start, EndMin: end, Icon: icon, Title: title, Bullets: bullets})
	}

	emit(wakeStart, wakeEnd, "☀️", "Wake Up & Morning Routine",
		[]string{"Wake up", "Drink water", "Light stretching"})
	emit(medStart, medEnd, "🧘", "Morning Meditation",
		[]string{"10 min meditation", "Deep breathing", "Set daily intentions"})
	emit(bfStart, bfEnd, "☕", "Breakfast",
		[]string{bfBullet, "Vitamins (optional)", "Plan the day"})

	if lunchStart > ws {
		emit(ws, maxInt(ws+60, lunchStart-10), "💼", "Morning Work Block",
			[]string{"Focus work", "Deep work tasks", "Avoid distractions"})
		emit(lunchStart, lunchEnd, "🍽️", "Lunch Break",
			[]string{lunchBullet, "Short walk", "Rest & recharge"})
		emit(minInt(lunchEnd+10, weAbs-20), weAbs, "🧳", "Afternoon Work Block",
			[]string{"Meetings", "Collaboration", "Task completion"})
	} else {
		// Very early work starts push the clamped lunch window to or before
		// work start; keep the work day as one unsplit block.
		emit(ws, weAbs, "💼", "Work Block",
			[]string{"Focus work", "Deep work tasks", "Avoid distractions"})
	}

	emit(snackStart, snackEnd, "🍵", "Evening Snack",
		[]string{"Light snack", "Hydrate", "Prepare for workout"})
	emit(workoutStart, workoutEnd, "🏋️", "Evening Workout",
		[]string{"Stretch", "Cool down", "Log it tonight"})
	emit(dinnerStart, dinnerEnd, "🍲", "Dinner",
		[]string{dinnerBullet, "Light conversation", "Avoid heavy food late"})
	emit(windDownStart, windDownEnd, "📖", "Wind Down",
		[]string{"Reading", "Relaxation", "Screen-free time"})
	emit(sleepStart, sleepEnd, "🛏️", "Sleep",
		[]string{"7-8 hours sleep", "Dark room", "Comfortable temperature"})

	return blocks
}

// renderBlocks formats timeline blocks for the API response, wrapping all
// minute values into displayable HH:MM.
func renderBlocks(blocks []timelineBlock) []routineBlock {
	out := make([]routineBlock, len(blocks))
	for i, b := range blocks {
		out[i] = routineBlock{
			Start:   toTime(b.StartMin),
			End:     toTime(b.EndMin),
			Icon:    b.Icon,
			Title:   b.Title,
			Bullets: b.Bullets,
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

/* ─── Current-block resolver ─────────────────────────────────────────── */

// resolveCurrentBlock finds the active block for the given minute-of-day,
// falling back to the next upcoming block, then to the last block of the
// day. Total for any non-empty block list: it never returns "no block".
// A rendered block whose end sorts before its start wraps midnight and is
// active when now is on either side of the wrap.
func resolveCurrentBlock(blocks []routineBlock, nowMin int) currentBlock {
	for _, b := range blocks {
		s := toMinutes(b.Start)
		e := toMinutes(b.End)
		if e < s {
			if nowMin >= s || nowMin < e {
				return currentBlock{Title: b.Title, Time: b.Start + " - " + b.End}
			}
			continue
		}
		if nowMin >= s && nowMin < e {
			return currentBlock{Title: b.Title, Time: b.Start + " - " + b.End}
		}
	}

	var next *routineBlock
	for i := range blocks {
		s := toMinutes(blocks[i].Start)
		if s > nowMin && (next == nil || s < toMinutes(next.Start)) {
			next = &blocks[i]
		}
	}
	if next != nil {
		return currentBlock{Title: next.Title, Time: next.Start + " - " + next.End}
	}

	last := blocks[0]
	for _, b := range blocks[1:] {
		if toMinutes(b.Start) > toMinutes(last.Start) {
			last = b
		}
	}
	return currentBlock{Title: last.Title, Time: last.Start + " - " + last.End}
}

/* ─── Dashboard routine list ─────────────────────────────────────────── */

// dashboardTitles picks which timeline entries surface in the short
// dashboard list, in timeline order.
var dashboardTitles = map[string]bool{
	"Wake Up & Morning Routine": true,
	"Breakfast":                 true,
	"Morning Work Block":        true,
	"Work Block":                true,
	"Lunch Break":               true,
	"Evening Workout":           true,
}

// buildRoutineList condenses the timeline into at most five dashboard rows.
func buildRoutineList(blocks []routineBlock) []routineItem {
	items := make([]routineItem, 0, 5)
	for _, b := range blocks {
		if !dashboardTitles[b.Title] {
			continue
		}
		items = append(items, routineItem{Time: b.Start, Title: b.Title, Icon: b.Icon})
		if len(items) == 5 {
			break
		}
	}
	return items
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// getPlan derives today's full plan (timeline, meals, workout, streak) from
// the stored profile. GET /api/plan.
// A missing profile is a distinct 404 so the client can route to onboarding;
// malformed profile fields never fail — they degrade to defaults.
func (h *Handler) getPlan(c *gin.Context) {
	userID := c.GetInt("user_id")
	email := c.GetString("user_email")

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found, complete onboarding")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	// One clock reading drives every time-dependent piece of the response.
	now := h.now()
	nowMin := nowMinutesInTZ(now, istOffsetMinutes)
	today := todayDateInTZ(now, istOffsetMinutes)

	n := normalizeProfile(&p)
	isVeg := n.Diet != dietNonveg
	isFatLoss := n.Goal == goalFatLoss

	meals, _ := planMeals(n.Diet, n.Goal, n.MealsPerDay)
	workout := planWorkout(n.Goal, n.Experience, n.Location, n.WorkoutMinutes)

	blocks := renderBlocks(buildTimeline(timelineParams{
		WorkStartMin:   toMinutes(n.WorkStart),
		WorkEndMin:     toMinutes(n.WorkEnd),
		WorkoutMinutes: n.WorkoutMinutes,
		IsVeg:          isVeg,
		IsFatLoss:      isFatLoss,
	}))

	streak, err := h.streakForUser(c, userID, today)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}

	greeting := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		greeting = email[:i]
	}

	c.JSON(http.StatusOK, planResponse{
		GreetingName:  greeting,
		CurrentBlock:  resolveCurrentBlock(blocks, nowMin),
		StreakDays:    streak,
		Routine:       buildRoutineList(blocks),
		Meals:         meals,
		Workout:       workout,
		RoutineBlocks: blocks,
	})
}
