package plan

import (
	"errors"
	"fmt"
	"math"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/store"
)

// Training phases.
const (
	PhaseBase     = "base"
	PhaseBuild    = "build"
	PhasePeak     = "peak"
	PhaseTaper    = "taper"
	PhaseRecovery = "Recovery Week"
)

// ErrRaceTooSoon is returned when the race date leaves no full training week.
var ErrRaceTooSoon = errors.New("race date leaves no training weeks")

// baseCeiling caps the starting weekly volume per race distance.
var baseCeiling = map[string]float64{
	"5K":            35,
	"10K":           50,
	"Half Marathon": 70,
	"Marathon":      90,
}

// progressionCap is the hard weekly-volume ceiling during progression.
var progressionCap = map[string]float64{
	"5K":            45,
	"10K":           65,
	"Half Marathon": 85,
	"Marathon":      110,
}

// Generate builds a complete week-by-week training plan for a race goal.
// Weeks start on the Monday on or before the training start date (the
// goal's explicit start, or now).
func Generate(goal *store.RaceGoal, metrics analysis.DetailedTrainingMetrics, now time.Time) (*store.TrainingPlan, error) {
	raceKm := analysis.RaceDistanceKm(goal.Distance)
	if raceKm == 0 {
		return nil, fmt.Errorf("unknown race distance %q", goal.Distance)
	}

	start := now
	if goal.TrainingStart != nil {
		start = *goal.TrainingStart
	}
	firstMonday := weekStart(start)

	totalWeeks := weeksBetween(firstMonday, goal.RaceDate)
	if totalWeeks < 1 {
		return nil, ErrRaceTooSoon
	}

	base := baseVolume(metrics.WeeklyDistanceKm, goal.Distance)
	level := AssessFitness(metrics, raceKm)

	p := &store.TrainingPlan{
		GoalID:         goal.ID,
		FitnessLevel:   level,
		WeeksUntilRace: totalWeeks,
		GeneratedAt:    now,
	}

	prevActual := math.NaN()
	for w := 1; w <= totalWeeks; w++ {
		phase, target := classifyWeek(w, totalWeeks, base)
		phase, actual := assignWeekVolume(w, totalWeeks, phase, target, base, prevActual, progressionCap[goal.Distance])

		week := buildWeek(weekParams{
			number:     w,
			startDate:  firstMonday.AddDate(0, 0, (w-1)*7),
			phase:      phase,
			volumeKm:   actual,
			remaining:  totalWeeks - w + 1,
			goal:       goal,
			raceKm:     raceKm,
			zones:      metrics.PaceZones,
		})
		week.TargetKm = round1(actual)
		p.Weeks = append(p.Weeks, week)

		prevActual = actual
	}

	return p, nil
}

// baseVolume derives the starting weekly volume from actual recent
// mileage, with an injury-prevention floor and a distance-specific cap.
func baseVolume(weeklyKm float64, distance string) float64 {
	base := weeklyKm
	if base < 10 {
		base = 12
	}
	if ceiling := baseCeiling[distance]; base > ceiling {
		base = ceiling
	}
	return base
}

// classifyWeek labels week w of totalWeeks with a training phase and its
// nominal volume target. The label drives workout focus; the actual
// assigned volume comes from assignWeekVolume.
func classifyWeek(w, totalWeeks int, base float64) (string, float64) {
	remaining := totalWeeks - w + 1
	peakWindow := int(math.Ceil(0.3 * float64(totalWeeks)))
	buildWindow := int(math.Ceil(0.6 * float64(totalWeeks)))

	switch {
	case remaining == 1:
		return PhaseTaper, base * 0.5
	case remaining == 2:
		return PhaseTaper, base * 0.7
	case remaining <= peakWindow:
		return PhasePeak, base * 1.2
	case remaining <= buildWindow:
		buildStart := totalWeeks - buildWindow + 1
		buildLen := buildWindow - peakWindow
		progress := float64(w-buildStart+1) / float64(buildLen)
		return PhaseBuild, base * (1.0 + 0.2*progress)
	}

	baseWindow := int(math.Ceil(0.4 * float64(totalWeeks)))
	progress := float64(w-1) / float64(baseWindow)
	return PhaseBase, base * (0.8 + 0.2*progress)
}

// assignWeekVolume picks the week's real volume. Outside the taper,
// progression is held to +10% per week under a hard ceiling, with every
// fourth week a cutback, regardless of the nominal phase target.
func assignWeekVolume(w, totalWeeks int, phase string, target, base, prevActual, ceiling float64) (string, float64) {
	remaining := totalWeeks - w + 1

	switch {
	case w%4 == 0 && remaining > 3 && !math.IsNaN(prevActual):
		return PhaseRecovery, prevActual * 0.85
	case phase == PhaseTaper:
		return phase, target
	case !math.IsNaN(prevActual):
		return phase, math.Min(prevActual*1.10, ceiling)
	}
	return phase, base * 0.80
}

// weekStart returns the Monday at the start of t's week, at midnight UTC.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	daysBack := (int(t.Weekday()) + 6) % 7 // Monday=0
	d := t.AddDate(0, 0, -daysBack)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// weeksBetween counts training weeks from the first Monday up to the
// race date, counting a partial final week as a full one. The race date
// is taken by calendar day, so its time of day never adds a week.
func weeksBetween(firstMonday, raceDate time.Time) int {
	r := raceDate.UTC()
	raceDay := time.Date(r.Year(), r.Month(), r.Day(), 0, 0, 0, 0, time.UTC)
	days := raceDay.Sub(firstMonday).Hours() / 24
	return int(math.Ceil(days / 7))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
