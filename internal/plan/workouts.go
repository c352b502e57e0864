package plan

import (
	"fmt"
	"math"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/store"
)

// Workout types.
const (
	WorkoutEasy     = "Easy Run"
	WorkoutLong     = "Long Run"
	WorkoutTempo    = "Tempo Run"
	WorkoutInterval = "Intervals"
	WorkoutRecovery = "Recovery Run"
	WorkoutRest     = "Rest"
	WorkoutCross    = "Cross Training"
	WorkoutRace     = "Race Day"
)

// Workout intensities.
const (
	IntensityLow    = "Low"
	IntensityMedium = "Medium"
	IntensityHigh   = "High"
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// defaultRunDays maps weekly frequency to an ordered run-day list using
// calendar day indices (Sunday=0). The last entry is the long-run day.
var defaultRunDays = map[int][]int{
	2: {3, 0},
	3: {2, 5, 0},
	4: {2, 3, 6, 0},
	5: {1, 2, 3, 6, 0},
	6: {1, 2, 3, 4, 6, 0},
	7: {1, 2, 3, 4, 5, 6, 0},
}

type weekParams struct {
	number    int
	startDate time.Time
	phase     string
	volumeKm  float64
	remaining int
	goal      *store.RaceGoal
	raceKm    float64
	zones     analysis.PaceZones
}

// buildWeek lays the week's volume across its seven days. The week's
// recorded total is the sum of the generated per-day distances, which
// drifts slightly from the nominal target because of rounding.
func buildWeek(p weekParams) store.PlanWeek {
	week := store.PlanWeek{
		WeekNumber: p.number,
		StartDate:  p.startDate,
		Phase:      p.phase,
		Note:       phaseNote(p.phase),
	}

	runDays, custom := runDayList(p.goal)
	longDay := runDays[len(runDays)-1]
	qualityDays := qualityDaySet(runDays, p.goal.RunsPerWeek, custom)

	longKm := round1(p.volumeKm * 0.35)
	otherKm := 0.0
	if len(runDays) > 1 {
		otherKm = round1((p.volumeKm - longKm) / float64(len(runDays)-1))
	}

	var totalKm float64
	for day := 0; day < 7; day++ {
		w := buildDay(p, day, longDay, qualityDays, runDays, longKm, otherKm)
		totalKm += w.DistanceKm
		week.Workouts = append(week.Workouts, w)
	}
	week.ActualKm = round1(totalKm)
	return week
}

func buildDay(p weekParams, day, longDay int, qualityDays map[int]bool, runDays []int, longKm, otherKm float64) store.PlanWorkout {
	w := store.PlanWorkout{
		DayIndex: day,
		DayName:  dayNames[day],
	}

	if !contains(runDays, day) {
		if p.goal.RunsPerWeek <= 3 && day == 4 {
			w.Type = WorkoutCross
			w.Description = "Optional cross-training: bike, swim, or strength work"
			w.Intensity = IntensityLow
			return w
		}
		w.Type = WorkoutRest
		w.Description = "Rest day"
		w.Intensity = IntensityLow
		return w
	}

	if day == longDay {
		if p.remaining == 1 {
			w.Type = WorkoutRace
			w.DistanceKm = p.raceKm
			w.Description = fmt.Sprintf("Race day! %s", p.goal.RaceName)
			w.Intensity = IntensityHigh
			return w
		}
		w.Type = WorkoutLong
		w.DistanceKm = longKm
		w.Description = fmt.Sprintf("Long run at %s", paceRange(p.zones.Long))
		w.Intensity = IntensityMedium
		return w
	}

	if qualityDays[day] {
		return qualityWorkout(p, day, otherKm)
	}

	w.DistanceKm = otherKm
	if p.phase == PhaseRecovery {
		w.Type = WorkoutRecovery
		w.Description = fmt.Sprintf("Very relaxed recovery run at %s", paceRange(p.zones.Easy))
	} else {
		w.Type = WorkoutEasy
		w.Description = fmt.Sprintf("Easy pace %s", paceRange(p.zones.Easy))
	}
	w.Intensity = IntensityLow
	return w
}

// qualityWorkout picks the hard session for the current phase. Base and
// taper weeks stay easy; build weeks run tempo; peak weeks run intervals.
func qualityWorkout(p weekParams, day int, distanceKm float64) store.PlanWorkout {
	w := store.PlanWorkout{
		DayIndex:   day,
		DayName:    dayNames[day],
		DistanceKm: distanceKm,
	}

	switch p.phase {
	case PhaseBuild:
		tempoKm := round1(distanceKm * 0.6)
		w.Type = WorkoutTempo
		w.Description = fmt.Sprintf("%.1f km at tempo pace %s, warmup and cooldown easy", tempoKm, paceRange(p.zones.Tempo))
		w.Intensity = IntensityMedium
	case PhasePeak:
		rep := "1km"
		if p.raceKm < analysis.Distance10K {
			rep = "800m"
		}
		reps := 6
		if p.volumeKm > 45 {
			reps = 8
		}
		w.Type = WorkoutInterval
		w.Description = fmt.Sprintf("%d x %s at interval pace %s with recovery jogs", reps, rep, paceRange(p.zones.Interval))
		w.Intensity = IntensityHigh
	default:
		w.Type = WorkoutEasy
		w.Description = fmt.Sprintf("Easy pace %s", paceRange(p.zones.Easy))
		w.Intensity = IntensityLow
	}
	return w
}

// runDayList returns the ordered run days (Sunday=0) and whether they
// came from a custom user schedule. Custom days are stored Monday-first.
func runDayList(goal *store.RaceGoal) ([]int, bool) {
	if len(goal.CustomDays) > 0 {
		days := make([]int, len(goal.CustomDays))
		for i, d := range goal.CustomDays {
			days[i] = (d + 1) % 7
		}
		return days, true
	}

	freq := goal.RunsPerWeek
	if freq < 2 {
		freq = 2
	}
	if freq > 7 {
		freq = 7
	}
	return defaultRunDays[freq], false
}

// qualityDaySet marks 1-2 run days as quality sessions. Custom schedules
// use list positions; default schedules use fixed weekdays.
func qualityDaySet(runDays []int, runsPerWeek int, custom bool) map[int]bool {
	quality := make(map[int]bool)

	if custom {
		n := len(runDays)
		switch {
		case n == 2:
			quality[runDays[0]] = true
		case n == 3:
			quality[runDays[1]] = true
		case n >= 4:
			quality[runDays[n/3]] = true
			quality[runDays[2*n/3]] = true
		}
		// Never stack quality on the long-run day
		delete(quality, runDays[n-1])
		return quality
	}

	switch {
	case runsPerWeek <= 2:
		quality[3] = true // Wednesday
	case runsPerWeek == 3:
		quality[5] = true // Friday
	default:
		quality[3] = true // Wednesday
		quality[6] = true // Saturday
	}
	return quality
}

func phaseNote(phase string) string {
	switch phase {
	case PhaseBase:
		return "Build your aerobic base with relaxed running"
	case PhaseBuild:
		return "Add structured speed on top of growing volume"
	case PhasePeak:
		return "Sharpen race fitness at peak volume"
	case PhaseTaper:
		return "Cut volume and stay fresh for race day"
	case PhaseRecovery:
		return "Cutback week, let the training sink in"
	}
	return ""
}

// paceRange formats a pace zone as "5:30-6:00 /km".
func paceRange(z analysis.PaceZone) string {
	return fmt.Sprintf("%s-%s /km", formatPace(z.Min), formatPace(z.Max))
}

func formatPace(minPerKm float64) string {
	if minPerKm <= 0 {
		return "-"
	}
	mins := int(minPerKm)
	secs := int(math.Round((minPerKm - float64(mins)) * 60))
	if secs == 60 {
		mins++
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
