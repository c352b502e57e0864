package plan

import (
	"strings"
	"testing"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/store"
)

func buildTestWeek(phase string, runsPerWeek int, customDays []int) store.PlanWeek {
	return buildWeek(weekParams{
		number:    3,
		startDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		phase:     phase,
		volumeKm:  30,
		remaining: 8,
		goal: &store.RaceGoal{
			RaceName:    "City 10K",
			Distance:    "10K",
			RunsPerWeek: runsPerWeek,
			CustomDays:  customDays,
		},
		raceKm: 10,
		zones:  analysis.ZonesFromPace(6.0),
	})
}

func workoutByDay(w store.PlanWeek, day int) store.PlanWorkout {
	return w.Workouts[day]
}

func TestDefaultRunDays(t *testing.T) {
	tests := []struct {
		runsPerWeek int
		runDays     []int // Sunday=0
	}{
		{2, []int{3, 0}},
		{3, []int{2, 5, 0}},
		{4, []int{2, 3, 6, 0}},
		{5, []int{1, 2, 3, 6, 0}},
		{6, []int{1, 2, 3, 4, 6, 0}},
		{7, []int{1, 2, 3, 4, 5, 6, 0}},
	}

	for _, tt := range tests {
		week := buildTestWeek(PhaseBase, tt.runsPerWeek, nil)
		for day := 0; day < 7; day++ {
			wo := workoutByDay(week, day)
			isRunDay := contains(tt.runDays, day)
			isRun := wo.Type != WorkoutRest && wo.Type != WorkoutCross
			if isRun != isRunDay {
				t.Errorf("%d runs/week: day %d type %q, run day = %v", tt.runsPerWeek, day, wo.Type, isRunDay)
			}
		}
	}
}

func TestLongRunOnSunday(t *testing.T) {
	week := buildTestWeek(PhaseBase, 4, nil)

	sunday := workoutByDay(week, 0)
	if sunday.Type != WorkoutLong {
		t.Fatalf("Sunday type = %q, want long run", sunday.Type)
	}
	// 35% of weekly volume, 1 decimal
	if sunday.DistanceKm != 10.5 {
		t.Errorf("long run = %v km, want 10.5", sunday.DistanceKm)
	}
	if sunday.Intensity != IntensityMedium {
		t.Errorf("long run intensity = %q", sunday.Intensity)
	}
}

func TestQualityDaysByPhase(t *testing.T) {
	tests := []struct {
		phase    string
		wantType string
	}{
		{PhaseBase, WorkoutEasy},
		{PhaseBuild, WorkoutTempo},
		{PhasePeak, WorkoutInterval},
		{PhaseTaper, WorkoutEasy},
	}

	for _, tt := range tests {
		t.Run(tt.phase, func(t *testing.T) {
			week := buildTestWeek(tt.phase, 4, nil)
			// 4 runs/week defaults put quality on Wednesday and Saturday
			for _, day := range []int{3, 6} {
				wo := workoutByDay(week, day)
				if wo.Type != tt.wantType {
					t.Errorf("day %d type = %q, want %q", day, wo.Type, tt.wantType)
				}
			}
		})
	}
}

func TestIntervalRepsFollowRaceDistance(t *testing.T) {
	week := buildTestWeek(PhasePeak, 4, nil)
	wed := workoutByDay(week, 3)
	if !strings.Contains(wed.Description, "1km") {
		t.Errorf("10K intervals should use 1km reps: %q", wed.Description)
	}

	short := buildWeek(weekParams{
		number: 3, startDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		phase: PhasePeak, volumeKm: 25, remaining: 8,
		goal:   &store.RaceGoal{RaceName: "Parkrun", Distance: "5K", RunsPerWeek: 4},
		raceKm: 5,
		zones:  analysis.ZonesFromPace(6.0),
	})
	wed = workoutByDay(short, 3)
	if !strings.Contains(wed.Description, "800m") {
		t.Errorf("5K intervals should use 800m reps: %q", wed.Description)
	}
}

func TestCustomDaySchedule(t *testing.T) {
	// Monday-first picker: Mon, Wed, Sat, Sun
	week := buildTestWeek(PhaseBuild, 4, []int{0, 2, 5, 6})

	runTypes := map[int]string{}
	for day := 0; day < 7; day++ {
		wo := workoutByDay(week, day)
		if wo.Type != WorkoutRest && wo.Type != WorkoutCross {
			runTypes[day] = wo.Type
		}
	}

	// Calendar days: Mon=1, Wed=3, Sat=6, Sun=0
	for _, day := range []int{1, 3, 6, 0} {
		if _, ok := runTypes[day]; !ok {
			t.Errorf("day %d should be a run day", day)
		}
	}
	if len(runTypes) != 4 {
		t.Errorf("got %d run days, want 4: %v", len(runTypes), runTypes)
	}
	// Last picked day (Sunday) carries the long run
	if runTypes[0] != WorkoutLong {
		t.Errorf("Sunday type = %q, want long run", runTypes[0])
	}
	// Positions len/3=1 (Wed) and 2*len/3=2 (Sat) are quality days
	if runTypes[3] != WorkoutTempo {
		t.Errorf("Wednesday type = %q, want tempo", runTypes[3])
	}
	if runTypes[6] != WorkoutTempo {
		t.Errorf("Saturday type = %q, want tempo", runTypes[6])
	}
}

func TestRecoveryWeekWorkouts(t *testing.T) {
	week := buildTestWeek(PhaseRecovery, 3, nil)
	tue := workoutByDay(week, 2)
	if tue.Type != WorkoutRecovery {
		t.Errorf("recovery week Tuesday type = %q", tue.Type)
	}
}

func TestCrossTrainingOnThursday(t *testing.T) {
	week := buildTestWeek(PhaseBase, 3, nil)
	thu := workoutByDay(week, 4)
	if thu.Type != WorkoutCross {
		t.Errorf("Thursday type = %q, want cross training", thu.Type)
	}
	if thu.DistanceKm != 0 {
		t.Errorf("cross training distance = %v, want 0", thu.DistanceKm)
	}

	busy := buildTestWeek(PhaseBase, 5, nil)
	thu = workoutByDay(busy, 4)
	if thu.Type != WorkoutRest {
		t.Errorf("5 runs/week Thursday type = %q, want rest", thu.Type)
	}
}

func TestDescriptionsEmbedPaceRanges(t *testing.T) {
	week := buildTestWeek(PhaseBuild, 4, nil)
	for _, wo := range week.Workouts {
		switch wo.Type {
		case WorkoutEasy, WorkoutLong, WorkoutTempo, WorkoutInterval, WorkoutRecovery:
			if !strings.Contains(wo.Description, "/km") {
				t.Errorf("%s on %s missing pace range: %q", wo.Type, wo.DayName, wo.Description)
			}
		}
	}
}

func TestFormatPace(t *testing.T) {
	tests := []struct {
		pace float64
		want string
	}{
		{5.0, "5:00"},
		{5.5, "5:30"},
		{6.99999, "7:00"},
		{0, "-"},
	}
	for _, tt := range tests {
		if got := formatPace(tt.pace); got != tt.want {
			t.Errorf("formatPace(%v) = %q, want %q", tt.pace, got, tt.want)
		}
	}
}
