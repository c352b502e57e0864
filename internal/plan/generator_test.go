package plan

import (
	"errors"
	"math"
	"testing"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/store"
)

// 2026-06-01 is a Monday.
var planNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func testMetrics(weeklyKm float64) analysis.DetailedTrainingMetrics {
	return analysis.DetailedTrainingMetrics{
		TrainingMetrics: analysis.TrainingMetrics{
			RunCount:         12,
			WeeklyDistanceKm: weeklyKm,
			AvgPaceMinPerKm:  6.0,
			LongestRunKm:     weeklyKm * 0.5,
		},
		PaceZones:        analysis.ZonesFromPace(6.0),
		WeeklyTrend:      "stable",
		ConsistencyScore: 75,
		AvgLongRunKm:     weeklyKm * 0.4,
	}
}

func tenKGoal(weeks int) *store.RaceGoal {
	return &store.RaceGoal{
		ID:          1,
		RaceName:    "City 10K",
		RaceDate:    planNow.AddDate(0, 0, weeks*7),
		Distance:    "10K",
		RunsPerWeek: 4,
	}
}

func TestGenerateSixteenWeekTenK(t *testing.T) {
	p, err := Generate(tenKGoal(16), testMetrics(12), planNow)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if p.WeeksUntilRace != 16 || len(p.Weeks) != 16 {
		t.Fatalf("weeks = %d/%d, want 16", p.WeeksUntilRace, len(p.Weeks))
	}

	// Week 1 starts from 80% of base, week 2 progresses by 10%
	if p.Weeks[0].TargetKm != 9.6 {
		t.Errorf("week 1 target = %v, want 9.6", p.Weeks[0].TargetKm)
	}
	if p.Weeks[1].TargetKm != 10.6 { // 10.56 rounded
		t.Errorf("week 2 target = %v, want 10.6", p.Weeks[1].TargetKm)
	}

	// Every fourth week in the main block is a cutback
	for _, n := range []int{4, 8, 12} {
		if p.Weeks[n-1].Phase != PhaseRecovery {
			t.Errorf("week %d phase = %q, want recovery", n, p.Weeks[n-1].Phase)
		}
	}
	// No cutback in the final stretch
	if p.Weeks[15].Phase != PhaseTaper {
		t.Errorf("week 16 phase = %q, want taper", p.Weeks[15].Phase)
	}
	if p.Weeks[14].Phase != PhaseTaper {
		t.Errorf("week 15 phase = %q, want taper", p.Weeks[14].Phase)
	}

	// Weeks are contiguous Mondays
	for i, w := range p.Weeks {
		if w.WeekNumber != i+1 {
			t.Errorf("week %d numbered %d", i+1, w.WeekNumber)
		}
		want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i*7)
		if !w.StartDate.Equal(want) {
			t.Errorf("week %d start = %v, want %v", i+1, w.StartDate, want)
		}
		if len(w.Workouts) != 7 {
			t.Errorf("week %d has %d workouts", i+1, len(w.Workouts))
		}
	}
}

func TestWeekCountIgnoresRaceTimeOfDay(t *testing.T) {
	// Race morning start times must not add a 17th week
	goal := tenKGoal(16)
	goal.RaceDate = goal.RaceDate.Add(14*time.Hour + 30*time.Minute)

	p, err := Generate(goal, testMetrics(12), planNow)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p.WeeksUntilRace != 16 || len(p.Weeks) != 16 {
		t.Fatalf("weeks = %d/%d, want 16", p.WeeksUntilRace, len(p.Weeks))
	}

	// The final week is the race week, starting the Monday before the race
	wantStart := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	if final := p.Weeks[15]; !final.StartDate.Equal(wantStart) {
		t.Errorf("final week starts %v, want %v", final.StartDate, wantStart)
	}
}

func TestWeeksBetweenByCalendarDay(t *testing.T) {
	monday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		race time.Time
		want int
	}{
		{"exact midnight", monday.AddDate(0, 0, 16*7), 16},
		{"same day, late evening", monday.AddDate(0, 0, 16*7).Add(23*time.Hour + 59*time.Minute), 16},
		{"one day past rounds up", monday.AddDate(0, 0, 16*7+1), 17},
		{"midweek partial week", monday.AddDate(0, 0, 3), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weeksBetween(monday, tt.race); got != tt.want {
				t.Errorf("weeksBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProgressionCeiling(t *testing.T) {
	// High starting volume for a 5K: base capped at 35, progression at 45
	p, err := Generate(&store.RaceGoal{
		ID:          1,
		RaceName:    "Parkrun Champs",
		RaceDate:    planNow.AddDate(0, 0, 20*7),
		Distance:    "5K",
		RunsPerWeek: 5,
	}, testMetrics(60), planNow)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	prev := math.NaN()
	for _, w := range p.Weeks {
		if w.TargetKm > 45.05 {
			t.Errorf("week %d target %.2f exceeds 5K ceiling", w.WeekNumber, w.TargetKm)
		}
		if !math.IsNaN(prev) && w.Phase != PhaseTaper && w.Phase != PhaseRecovery {
			if w.TargetKm > prev*1.10+0.1 {
				t.Errorf("week %d target %.2f jumps more than 10%% from %.2f", w.WeekNumber, w.TargetKm, prev)
			}
		}
		prev = w.TargetKm
	}
}

func TestWeeklyTotalMatchesWorkouts(t *testing.T) {
	p, err := Generate(tenKGoal(12), testMetrics(25), planNow)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, w := range p.Weeks {
		var sum float64
		for _, wo := range w.Workouts {
			sum += wo.DistanceKm
		}
		if math.Abs(w.ActualKm-sum) > 0.05 {
			t.Errorf("week %d actual %.2f != workout sum %.2f", w.WeekNumber, w.ActualKm, sum)
		}
	}
}

func TestRaceWeek(t *testing.T) {
	tests := []struct {
		distance string
		raceKm   float64
	}{
		{"5K", 5},
		{"10K", 10},
		{"Half Marathon", 21.1},
		{"Marathon", 42.2},
	}

	for _, tt := range tests {
		t.Run(tt.distance, func(t *testing.T) {
			goal := tenKGoal(10)
			goal.Distance = tt.distance
			p, err := Generate(goal, testMetrics(30), planNow)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}

			final := p.Weeks[len(p.Weeks)-1]
			var raceDays int
			for _, wo := range final.Workouts {
				if wo.Type == WorkoutRace {
					raceDays++
					if wo.DistanceKm != tt.raceKm {
						t.Errorf("race day distance = %v, want %v", wo.DistanceKm, tt.raceKm)
					}
					if wo.Intensity != IntensityHigh {
						t.Errorf("race day intensity = %q", wo.Intensity)
					}
				}
			}
			if raceDays != 1 {
				t.Errorf("final week has %d race days, want 1", raceDays)
			}

			// Earlier weeks never contain a race day
			for _, w := range p.Weeks[:len(p.Weeks)-1] {
				for _, wo := range w.Workouts {
					if wo.Type == WorkoutRace {
						t.Errorf("week %d contains a race day", w.WeekNumber)
					}
				}
			}
		})
	}
}

func TestLowVolumeFloor(t *testing.T) {
	p, err := Generate(tenKGoal(8), testMetrics(4), planNow)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Base floored to 12, week 1 at 80%
	if p.Weeks[0].TargetKm != 9.6 {
		t.Errorf("week 1 target = %v, want 9.6 from the 12km floor", p.Weeks[0].TargetKm)
	}
}

func TestRaceTooSoon(t *testing.T) {
	goal := tenKGoal(0)
	goal.RaceDate = planNow.AddDate(0, 0, -1)
	if _, err := Generate(goal, testMetrics(20), planNow); !errors.Is(err, ErrRaceTooSoon) {
		t.Errorf("err = %v, want ErrRaceTooSoon", err)
	}
}

func TestUnknownDistance(t *testing.T) {
	goal := tenKGoal(10)
	goal.Distance = "50K"
	if _, err := Generate(goal, testMetrics(20), planNow); err == nil {
		t.Error("expected error for unknown distance")
	}
}

func TestAssessFitness(t *testing.T) {
	tests := []struct {
		name string
		m    analysis.DetailedTrainingMetrics
		want string
	}{
		{
			name: "high volume regular runner",
			m: analysis.DetailedTrainingMetrics{
				TrainingMetrics:  analysis.TrainingMetrics{RunCount: 16, WeeklyDistanceKm: 25},
				ConsistencyScore: 100,
				AvgLongRunKm:     7,
			},
			want: FitnessAdvanced,
		},
		{
			name: "moderate runner",
			m: analysis.DetailedTrainingMetrics{
				TrainingMetrics:  analysis.TrainingMetrics{RunCount: 12, WeeklyDistanceKm: 13},
				ConsistencyScore: 75,
				AvgLongRunKm:     5.5,
			},
			want: FitnessIntermediate,
		},
		{
			name: "new runner",
			m: analysis.DetailedTrainingMetrics{
				TrainingMetrics:  analysis.TrainingMetrics{RunCount: 4, WeeklyDistanceKm: 8},
				ConsistencyScore: 25,
				AvgLongRunKm:     2.5,
			},
			want: FitnessBeginner,
		},
		{
			name: "improvement bonus is clamped",
			m: analysis.DetailedTrainingMetrics{
				TrainingMetrics:    analysis.TrainingMetrics{RunCount: 12, WeeklyDistanceKm: 13},
				ConsistencyScore:   75,
				AvgLongRunKm:       5.5,
				PaceImprovementPct: 30, // clamps to +10, stays below Advanced
			},
			want: FitnessIntermediate,
		},
		{
			name: "decline penalty is clamped",
			m: analysis.DetailedTrainingMetrics{
				TrainingMetrics:    analysis.TrainingMetrics{RunCount: 12, WeeklyDistanceKm: 13},
				ConsistencyScore:   75,
				AvgLongRunKm:       5.5,
				PaceImprovementPct: -30, // clamps to -5, stays Intermediate
			},
			want: FitnessIntermediate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssessFitness(tt.m, 10); got != tt.want {
				t.Errorf("AssessFitness = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldRegenerate(t *testing.T) {
	now := time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last time.Time
		want bool
	}{
		{"never generated", time.Time{}, true},
		{"earlier same day", time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC), false},
		{"yesterday", time.Date(2026, 5, 31, 23, 59, 0, 0, time.UTC), true},
		{"last month", time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRegenerate(tt.last, now); got != tt.want {
				t.Errorf("ShouldRegenerate = %v, want %v", got, tt.want)
			}
		})
	}
}
