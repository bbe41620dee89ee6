package main

import (
	"testing"
)

/* ─── Meal planner ───────────────────────────────────────────────────── */

// TestPlanMeals_CaloriesSumToTotal verifies that rounding drift never breaks
// the invariant: the per-slot kcal values sum exactly to the day's total, for
// every goal and every meals-per-day option.
func TestPlanMeals_CaloriesSumToTotal(t *testing.T) {
	goals := []goalKind{goalMuscleGain, goalWeightGain, goalFatLoss, goalMaintenance}
	diets := []dietPref{dietVeg, dietNonveg, dietEggetarian, dietVegan}
	for _, g := range goals {
		for _, d := range diets {
			for _, meals := range []int{3, 4, 5} {
				items, total := planMeals(d, g, meals)
				if len(items) != meals {
					t.Fatalf("planMeals(%s,%s,%d): got %d slots", d, g, meals, len(items))
				}
				sum := 0
				for _, it := range items {
					sum += it.Kcal
				}
				if sum != total {
					t.Errorf("planMeals(%s,%s,%d): kcal sum %d != total %d", d, g, meals, sum, total)
				}
			}
		}
	}
}

// TestPlanMeals_FatLossFourSlots pins the exact split for a fat-loss,
// non-veg, 4-meal plan: 1700 kcal distributed as 425/595/255/425 with the
// final slot absorbing rounding drift.
func TestPlanMeals_FatLossFourSlots(t *testing.T) {
	items, total := planMeals(dietNonveg, goalFatLoss, 4)
	if total != 1700 {
		t.Fatalf("expected total 1700, got %d", total)
	}
	want := []struct {
		name string
		kcal int
	}{
		{"Breakfast", 425},
		{"Lunch", 595},
		{"Evening Snack", 255},
		{"Dinner", 425},
	}
	for i, w := range want {
		if items[i].Name != w.name || items[i].Kcal != w.kcal {
			t.Errorf("slot %d: got %s/%d, want %s/%d", i, items[i].Name, items[i].Kcal, w.name, w.kcal)
		}
	}
}

// TestPlanMeals_UnknownMealsPerDayFallsBack verifies that an unsupported
// slot count degrades to the 3-meal plan.
func TestPlanMeals_UnknownMealsPerDayFallsBack(t *testing.T) {
	items, total := planMeals(dietVeg, goalMaintenance, 7)
	if len(items) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(items))
	}
	sum := 0
	for _, it := range items {
		sum += it.Kcal
	}
	if sum != total {
		t.Errorf("kcal sum %d != total %d", sum, total)
	}
}

// TestTotalCalories pins the goal step function. Diet has no effect.
func TestTotalCalories(t *testing.T) {
	cases := []struct {
		goal goalKind
		want int
	}{
		{goalFatLoss, 1700},
		{goalMaintenance, 2000},
		{goalMuscleGain, 2400},
		{goalWeightGain, 2400},
	}
	for _, tc := range cases {
		if got := totalCalories(tc.goal); got != tc.want {
			t.Errorf("totalCalories(%s) = %d, want %d", tc.goal, got, tc.want)
		}
	}
}

// TestMealDesc_EggetarianIsVegLeaning verifies that only nonveg selects the
// meat descriptions; eggetarian and vegan track the veg templates.
func TestMealDesc_EggetarianIsVegLeaning(t *testing.T) {
	items, _ := planMeals(dietEggetarian, goalMuscleGain, 3)
	if items[1].Desc != mealDesc("Lunch", true, false) {
		t.Errorf("eggetarian lunch got nonveg description: %q", items[1].Desc)
	}
}

/* ─── Workout builder ────────────────────────────────────────────────── */

// TestPlanWorkout_DurationClamping verifies the [20,90] clamp including the
// zero-means-default rule and absurd inputs.
func TestPlanWorkout_DurationClamping(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{0, 35},
		{5, 20},
		{-10, 20},
		{35, 35},
		{90, 90},
		{1000, 90},
	}
	for _, tc := range cases {
		w := planWorkout(goalMaintenance, expBeginner, locHome, tc.requested)
		if w.DurationMin != tc.want {
			t.Errorf("planWorkout(requested=%d): duration %d, want %d", tc.requested, w.DurationMin, tc.want)
		}
	}
}

// TestPlanWorkout_Templates verifies the goal/experience/location switches.
func TestPlanWorkout_Templates(t *testing.T) {
	w := planWorkout(goalFatLoss, expBeginner, locHome, 35)
	if w.Title != "Home Workout" {
		t.Errorf("expected Home Workout, got %q", w.Title)
	}
	if len(w.Items) != 4 {
		t.Fatalf("expected 4 exercises, got %d", len(w.Items))
	}
	if w.Items[0].Name != "Jumping jacks" {
		t.Errorf("fat loss template should lead with jumping jacks, got %q", w.Items[0].Name)
	}
	// Beginners get the easier push-up prescription
	for _, it := range w.Items {
		if it.Name == "Push-ups" && it.SetsReps != "3 × 8" {
			t.Errorf("beginner push-ups = %q, want 3 × 8", it.SetsReps)
		}
	}

	w = planWorkout(goalMuscleGain, expAdvanced, locGym, 35)
	if w.Title != "Gym Workout" {
		t.Errorf("expected Gym Workout, got %q", w.Title)
	}
	if w.Items[0].SetsReps != "3 × 12" {
		t.Errorf("advanced push-ups = %q, want 3 × 12", w.Items[0].SetsReps)
	}
	if w.Subtitle != "Strength focus • Advanced" {
		t.Errorf("subtitle = %q", w.Subtitle)
	}
}

/* ─── Timeline builder ───────────────────────────────────────────────── */

func defaultTimelineParams() timelineParams {
	return timelineParams{
		WorkStartMin:   toMinutes("10:30"),
		WorkEndMin:     toMinutes("20:00"),
		WorkoutMinutes: 35,
		IsVeg:          true,
	}
}

func findBlock(t *testing.T, blocks []timelineBlock, title string) timelineBlock {
	t.Helper()
	for _, b := range blocks {
		if b.Title == title {
			return b
		}
	}
	t.Fatalf("block %q not found", title)
	return timelineBlock{}
}

// TestBuildTimeline_StandardDay pins the evening chain for the canonical
// 10:30–20:00 work day with a 35 minute workout: workout 20:30–21:05,
// dinner starting 22:05.
func TestBuildTimeline_StandardDay(t *testing.T) {
	blocks := buildTimeline(defaultTimelineParams())

	workout := findBlock(t, blocks, "Evening Workout")
	if toTime(workout.StartMin) != "20:30" || toTime(workout.EndMin) != "21:05" {
		t.Errorf("workout = %s-%s, want 20:30-21:05", toTime(workout.StartMin), toTime(workout.EndMin))
	}

	dinner := findBlock(t, blocks, "Dinner")
	if toTime(dinner.StartMin) != "22:05" {
		t.Errorf("dinner start = %s, want 22:05", toTime(dinner.StartMin))
	}

	// Lunch splits the work day for this schedule
	findBlock(t, blocks, "Morning Work Block")
	lunch := findBlock(t, blocks, "Lunch Break")
	if toTime(lunch.StartMin) != "14:30" {
		t.Errorf("lunch start = %s, want 14:30", toTime(lunch.StartMin))
	}
	findBlock(t, blocks, "Afternoon Work Block")
}

// TestBuildTimeline_BlocksAreOrderedAndNonDegenerate verifies the core
// structural invariants across a spread of schedules: every emitted block has
// end > start in absolute minutes, and blocks appear in nondecreasing start
// order except for the morning anchors which may precede a very late start.
func TestBuildTimeline_BlocksAreNonDegenerate(t *testing.T) {
	schedules := []struct {
		ws, we string
	}{
		{"10:30", "20:00"},
		{"09:00", "17:00"},
		{"06:00", "14:00"},
		{"23:50", "00:10"},
		{"22:00", "06:00"},
		{"00:00", "08:00"},
		{"13:00", "13:30"},
	}
	for _, s := range schedules {
		p := defaultTimelineParams()
		p.WorkStartMin = toMinutes(s.ws)
		p.WorkEndMin = toMinutes(s.we)
		blocks := buildTimeline(p)
		if len(blocks) == 0 {
			t.Fatalf("schedule %s-%s produced no blocks", s.ws, s.we)
		}
		for _, b := range blocks {
			if b.EndMin <= b.StartMin {
				t.Errorf("schedule %s-%s: degenerate block %q [%d,%d]",
					s.ws, s.we, b.Title, b.StartMin, b.EndMin)
			}
		}
	}
}

// TestBuildTimeline_OvernightShift verifies that a work end earlier than the
// work start is treated as crossing midnight: the schedule collapses to a
// single work block and the evening chain runs past 24:00 in absolute
// minutes, wrapping only at render time.
func TestBuildTimeline_OvernightShift(t *testing.T) {
	p := defaultTimelineParams()
	p.WorkStartMin = toMinutes("23:50")
	p.WorkEndMin = toMinutes("00:10")
	blocks := buildTimeline(p)

	work := findBlock(t, blocks, "Work Block")
	if work.StartMin != 1430 || work.EndMin != 1450 {
		t.Errorf("work block = [%d,%d], want [1430,1450]", work.StartMin, work.EndMin)
	}
	for _, b := range blocks {
		if b.Title == "Morning Work Block" || b.Title == "Afternoon Work Block" {
			t.Errorf("overnight shift must not split around lunch, found %q", b.Title)
		}
	}

	rendered := renderBlocks(blocks)
	for _, rb := range rendered {
		if toMinutes(rb.Start) < 0 || toMinutes(rb.Start) >= minutesPerDay {
			t.Errorf("rendered start %q out of wall-clock range", rb.Start)
		}
	}
}

// TestBuildTimeline_EarlyWorkStartUnsplitDay verifies that when the clamped
// lunch window lands at or before work start, the work day stays one block.
func TestBuildTimeline_EarlyWorkStartUnsplitDay(t *testing.T) {
	p := defaultTimelineParams()
	p.WorkStartMin = toMinutes("15:00")
	p.WorkEndMin = toMinutes("16:00")
	// midpoint 15:30 clamps down to 14:30, at or before work start
	blocks := buildTimeline(p)
	findBlock(t, blocks, "Work Block")
	for _, b := range blocks {
		if b.Title == "Lunch Break" {
			t.Error("unsplit day must not emit a lunch break")
		}
	}
}

// TestRenderBlocks_WrapsMidnight verifies HH:MM wrapping of absolute minutes
// past 1440.
func TestRenderBlocks_WrapsMidnight(t *testing.T) {
	rendered := renderBlocks([]timelineBlock{
		{StartMin: 1470, EndMin: 1500, Icon: "🛏️", Title: "Sleep"},
	})
	if rendered[0].Start != "00:30" || rendered[0].End != "01:00" {
		t.Errorf("rendered = %s-%s, want 00:30-01:00", rendered[0].Start, rendered[0].End)
	}
}

/* ─── Current-block resolver ─────────────────────────────────────────── */

// TestResolveCurrentBlock_Active verifies in-interval matching with the
// half-open [start,end) convention.
func TestResolveCurrentBlock_Active(t *testing.T) {
	blocks := renderBlocks(buildTimeline(defaultTimelineParams()))

	got := resolveCurrentBlock(blocks, toMinutes("20:40"))
	if got.Title != "Evening Workout" {
		t.Errorf("at 20:40 got %q, want Evening Workout", got.Title)
	}

	// Exact end minute belongs to the next block, not the ending one
	got = resolveCurrentBlock(blocks, toMinutes("21:05"))
	if got.Title == "Evening Workout" {
		t.Error("at 21:05 the workout should be over")
	}
}

// TestResolveCurrentBlock_UpcomingFallback verifies that a minute between
// blocks resolves to the next upcoming block.
func TestResolveCurrentBlock_UpcomingFallback(t *testing.T) {
	blocks := []routineBlock{
		{Start: "08:00", End: "08:20", Title: "Wake Up & Morning Routine"},
		{Start: "13:00", End: "13:45", Title: "Lunch Break"},
	}
	got := resolveCurrentBlock(blocks, toMinutes("10:00"))
	if got.Title != "Lunch Break" {
		t.Errorf("at 10:00 got %q, want Lunch Break", got.Title)
	}
}

// TestResolveCurrentBlock_LastBlockFallback verifies that a minute after the
// whole day resolves to the last block.
func TestResolveCurrentBlock_LastBlockFallback(t *testing.T) {
	blocks := []routineBlock{
		{Start: "08:00", End: "08:20", Title: "Wake Up & Morning Routine"},
		{Start: "13:00", End: "13:45", Title: "Lunch Break"},
	}
	got := resolveCurrentBlock(blocks, toMinutes("23:00"))
	if got.Title != "Lunch Break" {
		t.Errorf("at 23:00 got %q, want Lunch Break", got.Title)
	}
}

// TestResolveCurrentBlock_MidnightWrap verifies that a rendered block whose
// end sorts before its start is treated as spanning midnight and matches on
// both sides of the wrap.
func TestResolveCurrentBlock_MidnightWrap(t *testing.T) {
	blocks := []routineBlock{
		{Start: "23:15", End: "00:00", Title: "Wind Down"},
		{Start: "23:45", End: "00:30", Title: "Sleep"},
	}
	got := resolveCurrentBlock(blocks, toMinutes("23:30"))
	if got.Title != "Wind Down" {
		t.Errorf("at 23:30 got %q, want Wind Down", got.Title)
	}
	got = resolveCurrentBlock(blocks, toMinutes("00:10"))
	if got.Title != "Sleep" {
		t.Errorf("at 00:10 got %q, want Sleep", got.Title)
	}
}

// TestResolveCurrentBlock_Total verifies the resolver returns a block for
// every minute of the day across several schedules.
func TestResolveCurrentBlock_Total(t *testing.T) {
	schedules := [][2]string{
		{"10:30", "20:00"},
		{"23:50", "00:10"},
		{"06:00", "14:00"},
	}
	for _, s := range schedules {
		p := defaultTimelineParams()
		p.WorkStartMin = toMinutes(s[0])
		p.WorkEndMin = toMinutes(s[1])
		blocks := renderBlocks(buildTimeline(p))
		for m := 0; m < minutesPerDay; m++ {
			got := resolveCurrentBlock(blocks, m)
			if got.Title == "" {
				t.Fatalf("schedule %s-%s: no block at minute %d", s[0], s[1], m)
			}
		}
	}
}

/* ─── Dashboard list ─────────────────────────────────────────────────── */

// TestBuildRoutineList verifies the dashboard list keeps timeline order,
// filters to the highlighted titles, and caps at five rows.
func TestBuildRoutineList(t *testing.T) {
	blocks := renderBlocks(buildTimeline(defaultTimelineParams()))
	items := buildRoutineList(blocks)

	if len(items) > 5 {
		t.Fatalf("routine list has %d rows, max is 5", len(items))
	}
	wantOrder := []string{
		"Wake Up & Morning Routine",
		"Breakfast",
		"Morning Work Block",
		"Lunch Break",
		"Evening Workout",
	}
	if len(items) != len(wantOrder) {
		t.Fatalf("routine list has %d rows, want %d", len(items), len(wantOrder))
	}
	for i, w := range wantOrder {
		if items[i].Title != w {
			t.Errorf("row %d = %q, want %q", i, items[i].Title, w)
		}
	}
}
