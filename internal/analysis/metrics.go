package analysis

import (
	"sort"
	"time"

	"stridecoach/internal/store"
)

// TrainingMetrics summarizes the trailing four weeks of running.
type TrainingMetrics struct {
	RunCount         int
	WeeklyDistanceKm float64 // average km per week
	AvgPaceMinPerKm  float64
	LongestRunKm     float64
}

// DetailedTrainingMetrics adds the derived figures the plan generator
// and the dashboard consume.
type DetailedTrainingMetrics struct {
	TrainingMetrics
	PaceZones          PaceZones
	WeeklyTrend        string // "increasing", "stable", "decreasing"
	ConsistencyScore   float64
	AvgLongRunKm       float64
	PaceImprovementPct float64 // positive means getting faster
}

// PaceZone is a [min,max] pace band in minutes per kilometer.
type PaceZone struct {
	Min float64
	Max float64
}

// PaceZones holds the five training pace bands, each a fixed multiple of
// the recent average pace. Interval is fastest, long run slowest.
type PaceZones struct {
	Easy      PaceZone
	Tempo     PaceZone
	Threshold PaceZone
	Interval  PaceZone
	Long      PaceZone
}

// ZonesFromPace derives the five pace bands from a reference pace.
func ZonesFromPace(avgPace float64) PaceZones {
	return PaceZones{
		Easy:      PaceZone{avgPace * 1.15, avgPace * 1.30},
		Tempo:     PaceZone{avgPace * 0.90, avgPace * 0.95},
		Threshold: PaceZone{avgPace * 0.85, avgPace * 0.90},
		Interval:  PaceZone{avgPace * 0.75, avgPace * 0.85},
		Long:      PaceZone{avgPace * 1.10, avgPace * 1.20},
	}
}

// ComputeMetrics summarizes runs in the trailing four weeks before now.
func ComputeMetrics(activities []store.Activity, now time.Time) TrainingMetrics {
	recent := runsSince(activities, now.Add(-MetricsWindow), now)

	var m TrainingMetrics
	m.RunCount = len(recent)

	var totalKm, totalPace float64
	for _, a := range recent {
		km := a.DistanceKm()
		totalKm += km
		totalPace += a.PaceMinPerKm()
		if km > m.LongestRunKm {
			m.LongestRunKm = km
		}
	}
	m.WeeklyDistanceKm = totalKm / 4
	if len(recent) > 0 {
		m.AvgPaceMinPerKm = totalPace / float64(len(recent))
	}
	return m
}

// ComputeDetailedMetrics computes the full metrics set for plan generation.
func ComputeDetailedMetrics(activities []store.Activity, now time.Time) DetailedTrainingMetrics {
	m := DetailedTrainingMetrics{
		TrainingMetrics: ComputeMetrics(activities, now),
	}

	recent := runsSince(activities, now.Add(-MetricsWindow), now)
	m.PaceZones = ZonesFromPace(m.AvgPaceMinPerKm)
	m.WeeklyTrend = weeklyTrend(recent)
	m.ConsistencyScore = consistencyScore(len(recent))
	m.AvgLongRunKm = avgLongRun(recent)
	m.PaceImprovementPct = recentPaceImprovement(activities, now)
	return m
}

// weeklyTrend compares the summed distance of the first quarter of the
// recent runs against the last quarter.
func weeklyTrend(recent []store.Activity) string {
	if len(recent) < 4 {
		return "stable"
	}
	quarter := len(recent) / 4
	if quarter == 0 {
		quarter = 1
	}

	var first, last float64
	for _, a := range recent[:quarter] {
		first += a.DistanceKm()
	}
	for _, a := range recent[len(recent)-quarter:] {
		last += a.DistanceKm()
	}

	switch {
	case first > 0 && last >= first*1.10:
		return "increasing"
	case first > 0 && last <= first*0.90:
		return "decreasing"
	}
	return "stable"
}

// consistencyScore scales the recent run count against 16 runs per four
// weeks (four per week), capped at 100.
func consistencyScore(runCount int) float64 {
	score := float64(runCount) / 16 * 100
	if score > 100 {
		return 100
	}
	return score
}

// avgLongRun averages the top 25% longest recent runs, at least one.
func avgLongRun(recent []store.Activity) float64 {
	if len(recent) == 0 {
		return 0
	}
	distances := make([]float64, len(recent))
	for i, a := range recent {
		distances[i] = a.DistanceKm()
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distances)))

	top := len(distances) / 4
	if top == 0 {
		top = 1
	}
	var sum float64
	for _, d := range distances[:top] {
		sum += d
	}
	return sum / float64(top)
}

// recentPaceImprovement compares average pace 5-8 weeks ago against 1-4
// weeks ago, as a percentage. Positive means the runner got faster.
func recentPaceImprovement(activities []store.Activity, now time.Time) float64 {
	recent := runsSince(activities, now.Add(-MetricsWindow), now)
	older := runsSince(activities, now.Add(-2*MetricsWindow), now.Add(-MetricsWindow))
	if len(recent) == 0 || len(older) == 0 {
		return 0
	}

	recentAvg := avgPace(recent)
	olderAvg := avgPace(older)
	if olderAvg == 0 {
		return 0
	}
	return (olderAvg - recentAvg) / olderAvg * 100
}

func avgPace(runs []store.Activity) float64 {
	if len(runs) == 0 {
		return 0
	}
	var sum float64
	for _, a := range runs {
		sum += a.PaceMinPerKm()
	}
	return sum / float64(len(runs))
}

// runsSince filters to runs with start times in [from, to), preserving
// chronological order.
func runsSince(activities []store.Activity, from, to time.Time) []store.Activity {
	var out []store.Activity
	for _, a := range activities {
		if a.StartDate.Before(from) || !a.StartDate.Before(to) {
			continue
		}
		if a.Distance <= 0 || a.MovingTime <= 0 {
			continue
		}
		out = append(out, a)
	}
	return out
}
