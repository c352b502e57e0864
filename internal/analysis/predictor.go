package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"stridecoach/internal/store"
)

// Prediction is the estimated race result for one canonical distance.
// Unavailable predictions carry a reason instead of a time.
type Prediction struct {
	Label        string
	DistanceKm   float64
	Available    bool
	TimeMinutes  float64
	PaceMinPerKm float64
	Reason       string
}

// HistoryPoint is one past prediction snapshot, for trend charts.
type HistoryPoint struct {
	Date        time.Time
	Predictions []Prediction
}

type raceDistance struct {
	label   string
	km      float64
	minRuns int
}

var raceDistances = []raceDistance{
	{"5K", Distance5K, MinRuns5K},
	{"10K", Distance10K, MinRuns10K},
	{"Half Marathon", DistanceHalf, MinRunsHalf},
	{"Marathon", DistanceFull, MinRunsMarathon},
}

// CalculateRacePredictions estimates race times for the four canonical
// distances from runs in the trailing 24 weeks before now. Results are
// deterministic for a fixed activity list and now.
func CalculateRacePredictions(activities []store.Activity, now time.Time) []Prediction {
	runs := runsSince(activities, now.Add(-PredictionWindow), now)

	predictions := make([]Prediction, len(raceDistances))
	if len(runs) < MinRunsOverall {
		reason := fmt.Sprintf("Need at least %d runs in the last 24 weeks (have %d)", MinRunsOverall, len(runs))
		for i, rd := range raceDistances {
			predictions[i] = Prediction{Label: rd.label, DistanceKm: rd.km, Reason: reason}
		}
		return predictions
	}

	for i, rd := range raceDistances {
		p := Prediction{Label: rd.label, DistanceKm: rd.km}
		if len(runs) < rd.minRuns {
			p.Reason = fmt.Sprintf("Need at least %d runs for a reliable %s prediction (have %d)", rd.minRuns, rd.label, len(runs))
			predictions[i] = p
			continue
		}

		pace, ok := predictPace(runs, rd.km, now)
		if !ok {
			p.Reason = "Not enough comparable runs to estimate a pace"
			predictions[i] = p
			continue
		}

		p.Available = true
		p.PaceMinPerKm = pace
		p.TimeMinutes = pace * rd.km
		predictions[i] = p
	}
	return predictions
}

// PredictionHistory recomputes predictions at weekly intervals over the
// trailing 12 weeks, oldest first, using only the activities known at
// each snapshot date.
func PredictionHistory(activities []store.Activity, now time.Time) []HistoryPoint {
	const weeks = 12
	history := make([]HistoryPoint, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		at := now.AddDate(0, 0, -7*i)
		history = append(history, HistoryPoint{
			Date:        at,
			Predictions: CalculateRacePredictions(activities, at),
		})
	}
	return history
}

// predictPace estimates the sustainable race pace for a target distance.
// It prefers the best real pace at a similar distance; otherwise it
// extrapolates from the fastest recent run via a Riegel-style scaling.
func predictPace(runs []store.Activity, targetKm float64, now time.Time) (float64, bool) {
	stress := trainingStress(runs, now)
	trend := formTrend(runs, now)

	pace, ok := bestSimilarPace(runs, targetKm)
	if !ok {
		pace, ok = extrapolatedPace(runs, targetKm, now)
	}
	if !ok {
		return 0, false
	}

	// Training-load and form adjustments
	pace *= 1 + (stress-0.5)*0.05
	switch trend {
	case 1:
		pace *= 0.98
	case -1:
		pace *= 1.02
	}
	return pace, true
}

// trainingStress scores recent training load on [0,1] from weekly volume,
// week-level frequency, and form trend.
func trainingStress(runs []store.Activity, now time.Time) float64 {
	recent := runsSince(runs, now.Add(-MetricsWindow), now)

	var totalKm float64
	weeksWithRun := make(map[int]bool)
	for _, a := range recent {
		totalKm += a.DistanceKm()
		week := int(now.Sub(a.StartDate).Hours() / 24 / 7)
		weeksWithRun[week] = true
	}
	weeklyKm := totalKm / 4
	frequency := float64(len(weeksWithRun)) / 4

	stress := weeklyKm/30 + frequency*0.2 + float64(formTrend(runs, now))*0.1
	return math.Min(1.0, stress)
}

// formTrend compares the first and second half of the last ten runs in
// the trailing 12 weeks: +1 improving, -1 declining, 0 stable. A 5% pace
// shift between halves counts as a real change.
func formTrend(runs []store.Activity, now time.Time) int {
	window := runsSince(runs, now.Add(-FormTrendWindow), now)
	if len(window) > 10 {
		window = window[len(window)-10:]
	}
	if len(window) < 4 {
		return 0
	}

	half := len(window) / 2
	firstAvg := avgPace(window[:half])
	secondAvg := avgPace(window[half:])
	if firstAvg == 0 {
		return 0
	}

	change := (firstAvg - secondAvg) / firstAvg
	switch {
	case change >= 0.05:
		return 1
	case change <= -0.05:
		return -1
	}
	return 0
}

// bestSimilarPace returns the fastest pace among runs whose distance falls
// within a tolerance window around the target.
func bestSimilarPace(runs []store.Activity, targetKm float64) (float64, bool) {
	tolerance := similarityTolerance(targetKm)
	low := targetKm * (1 - tolerance)
	high := targetKm * (1 + tolerance)

	best := math.MaxFloat64
	found := false
	for _, a := range runs {
		km := a.DistanceKm()
		if km < low || km > high || a.MovingTime <= 0 {
			continue
		}
		if pace := a.PaceMinPerKm(); pace < best {
			best = pace
			found = true
		}
	}
	return best, found
}

func similarityTolerance(targetKm float64) float64 {
	switch {
	case targetKm <= Distance5K:
		return 0.20
	case targetKm <= Distance10K:
		return 0.30
	case targetKm <= DistanceHalf:
		return 0.40
	}
	return 0.50
}

type weightedRun struct {
	pace   float64
	km     float64
	weight float64
	date   time.Time
}

// extrapolatedPace scales the best recent pace to the target distance
// when no run at a similar distance exists.
func extrapolatedPace(runs []store.Activity, targetKm float64, now time.Time) (float64, bool) {
	var candidates []weightedRun
	for _, a := range runs {
		km := a.DistanceKm()
		pace := a.PaceMinPerKm()
		if km < 1 || km > 50 || pace <= 0 {
			continue
		}
		daysAgo := now.Sub(a.StartDate).Hours() / 24
		weight := math.Max(0.3, 1-daysAgo/90*0.7)
		candidates = append(candidates, weightedRun{pace: pace, km: km, weight: weight, date: a.StartDate})
	}
	if len(candidates) == 0 {
		return 0, false
	}

	survivors := filterOutliers(candidates)
	if len(survivors) == 0 {
		survivors = mostRecent(candidates, 5)
	}

	// Rank by recency-discounted pace, extrapolate from the winner's
	// raw pace.
	best := survivors[0]
	for _, c := range survivors[1:] {
		if c.pace/c.weight < best.pace/best.weight {
			best = c
		}
	}

	ratio := targetKm / best.km
	factor := math.Pow(ratio, 0.06)
	if ratio > 4 {
		factor *= 1 + (math.Log(ratio)-math.Log(4))*0.02
	}
	return best.pace * factor, true
}

// filterOutliers removes runs whose raw pace falls outside 1.5 IQR of
// the candidate pool.
func filterOutliers(candidates []weightedRun) []weightedRun {
	paces := make([]float64, len(candidates))
	for i, c := range candidates {
		paces[i] = c.pace
	}
	sort.Float64s(paces)

	q1 := paces[len(paces)/4]
	q3 := paces[len(paces)*3/4]
	iqr := q3 - q1
	low := q1 - 1.5*iqr
	high := q3 + 1.5*iqr

	var out []weightedRun
	for _, c := range candidates {
		if c.pace >= low && c.pace <= high {
			out = append(out, c)
		}
	}
	return out
}

func mostRecent(candidates []weightedRun, n int) []weightedRun {
	sorted := make([]weightedRun, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].date.After(sorted[j].date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
