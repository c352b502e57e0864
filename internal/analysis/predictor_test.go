package analysis

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"stridecoach/internal/store"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// makeRuns builds n runs of the given distance and pace, the most recent
// one daysApart before now and the rest spaced daysApart going back.
func makeRuns(n int, km, pace float64, daysApart int, now time.Time) []store.Activity {
	runs := make([]store.Activity, n)
	for i := 0; i < n; i++ {
		daysAgo := (n - i) * daysApart
		runs[i] = store.Activity{
			ID:         int64(i + 1),
			Name:       "Run",
			Type:       "Run",
			StartDate:  now.AddDate(0, 0, -daysAgo),
			Distance:   km * 1000,
			MovingTime: int(pace * km * 60),
			Source:     store.SourceStrava,
		}
	}
	return runs
}

func TestPredictionsNoActivities(t *testing.T) {
	predictions := CalculateRacePredictions(nil, testNow)

	if len(predictions) != 4 {
		t.Fatalf("got %d predictions, want 4", len(predictions))
	}
	for _, p := range predictions {
		if p.Available {
			t.Errorf("%s: available with no activities", p.Label)
		}
		if !strings.Contains(p.Reason, "Need at least 5 runs") {
			t.Errorf("%s: reason = %q", p.Label, p.Reason)
		}
	}
}

func TestPredictionsExtrapolateFromShortRuns(t *testing.T) {
	// 20 consistent 5km runs spread over ~23 weeks. No run is anywhere
	// near half or marathon distance, so those must come from the
	// extrapolation path.
	runs := makeRuns(20, 5.0, 5.5, 8, testNow)

	predictions := CalculateRacePredictions(runs, testNow)

	for _, p := range predictions {
		if !p.Available {
			t.Errorf("%s: unavailable (%s)", p.Label, p.Reason)
			continue
		}
		if p.TimeMinutes <= 0 || p.PaceMinPerKm <= 0 {
			t.Errorf("%s: time=%v pace=%v", p.Label, p.TimeMinutes, p.PaceMinPerKm)
		}
	}

	// Extrapolated paces slow down with distance
	for i := 1; i < len(predictions); i++ {
		if predictions[i].PaceMinPerKm < predictions[i-1].PaceMinPerKm {
			t.Errorf("pace for %s (%.3f) faster than %s (%.3f)",
				predictions[i].Label, predictions[i].PaceMinPerKm,
				predictions[i-1].Label, predictions[i-1].PaceMinPerKm)
		}
	}
}

func TestPredictionsIdempotent(t *testing.T) {
	runs := makeRuns(15, 8.0, 6.0, 10, testNow)

	first := CalculateRacePredictions(runs, testNow)
	second := CalculateRacePredictions(runs, testNow)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ:\n%+v\n%+v", first, second)
	}
}

func TestPredictionGatesByRunCount(t *testing.T) {
	tests := []struct {
		name      string
		runs      int
		available [4]bool // 5K, 10K, Half, Marathon
	}{
		{"below overall gate", 4, [4]bool{false, false, false, false}},
		{"5K only", 7, [4]bool{true, false, false, false}},
		{"5K and 10K", 12, [4]bool{true, true, false, false}},
		{"all distances", 20, [4]bool{true, true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := makeRuns(tt.runs, 6.0, 5.8, 7, testNow)
			predictions := CalculateRacePredictions(runs, testNow)
			for i, p := range predictions {
				if p.Available != tt.available[i] {
					t.Errorf("%s: available = %v, want %v (%s)", p.Label, p.Available, tt.available[i], p.Reason)
				}
				if !p.Available && p.Reason == "" {
					t.Errorf("%s: unavailable without a reason", p.Label)
				}
			}
		})
	}
}

func TestPredictionsIgnoreOldRuns(t *testing.T) {
	// All runs older than 24 weeks
	old := makeRuns(20, 5.0, 5.5, 7, testNow.AddDate(0, 0, -200))

	predictions := CalculateRacePredictions(old, testNow)
	for _, p := range predictions {
		if p.Available {
			t.Errorf("%s: available from stale history", p.Label)
		}
	}
}

func TestPredictionUsesSimilarDistanceDirectly(t *testing.T) {
	// Mostly slow 5km runs plus one fast 10km run. The 10K prediction
	// window (±30%) includes the 10km run, so its pace drives the result.
	runs := makeRuns(12, 5.0, 6.5, 9, testNow)
	runs = append(runs, store.Activity{
		ID:         100,
		Name:       "Tempo 10k",
		Type:       "Run",
		StartDate:  testNow.AddDate(0, 0, -3),
		Distance:   10000,
		MovingTime: int(5.0 * 10 * 60),
		Source:     store.SourceStrava,
	})

	predictions := CalculateRacePredictions(runs, testNow)
	tenK := predictions[1]
	if !tenK.Available {
		t.Fatalf("10K unavailable: %s", tenK.Reason)
	}
	// Base pace 5.0 before load/form adjustments, which stay within a
	// few percent.
	if tenK.PaceMinPerKm < 4.5 || tenK.PaceMinPerKm > 5.5 {
		t.Errorf("10K pace = %.3f, want near 5.0", tenK.PaceMinPerKm)
	}
}

func TestPredictionHistoryLength(t *testing.T) {
	runs := makeRuns(30, 7.0, 6.0, 6, testNow)

	history := PredictionHistory(runs, testNow)
	if len(history) != 12 {
		t.Fatalf("got %d points, want 12", len(history))
	}
	for i := 1; i < len(history); i++ {
		if !history[i].Date.After(history[i-1].Date) {
			t.Errorf("history not in ascending date order at %d", i)
		}
	}
	last := history[len(history)-1]
	if !last.Date.Equal(testNow) {
		t.Errorf("last point date = %v, want %v", last.Date, testNow)
	}
}

func TestFilterOutliersDropsExtremePaces(t *testing.T) {
	candidates := []weightedRun{
		{pace: 5.0}, {pace: 5.1}, {pace: 5.2}, {pace: 5.3},
		{pace: 5.4}, {pace: 5.2}, {pace: 5.1},
		{pace: 12.0}, // walking with the GPS on
	}

	survivors := filterOutliers(candidates)
	for _, c := range survivors {
		if c.pace > 10 {
			t.Errorf("outlier pace %.1f survived", c.pace)
		}
	}
	if len(survivors) != len(candidates)-1 {
		t.Errorf("got %d survivors, want %d", len(survivors), len(candidates)-1)
	}
}
