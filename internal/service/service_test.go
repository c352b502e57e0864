package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/store"
	"stridecoach/internal/strava"
)

var svcNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedRuns inserts n runs of km distance at pace min/km, spaced daysApart
// days, the most recent daysApart days before now.
func seedRuns(t *testing.T, db *store.DB, n int, km, pace float64, daysApart int) {
	t.Helper()
	for i := 0; i < n; i++ {
		daysAgo := (n - i) * daysApart
		a := &store.Activity{
			ID:         int64(1000 + i),
			Name:       "Run",
			Type:       "Run",
			StartDate:  svcNow.AddDate(0, 0, -daysAgo),
			Distance:   km * 1000,
			MovingTime: int(pace * km * 60),
			Source:     store.SourceStrava,
		}
		if err := db.UpsertActivity(a); err != nil {
			t.Fatalf("seeding run: %v", err)
		}
	}
}

func seedGoal(t *testing.T, db *store.DB) *store.RaceGoal {
	t.Helper()
	goal := &store.RaceGoal{
		RaceName:    "City 10K",
		RaceDate:    svcNow.AddDate(0, 0, 12*7),
		Distance:    "10K",
		RunsPerWeek: 4,
	}
	if err := db.SaveRaceGoal(goal); err != nil {
		t.Fatalf("seeding goal: %v", err)
	}
	return goal
}

func TestGetDashboardData(t *testing.T) {
	db := testStore(t)
	seedRuns(t, db, 20, 8.0, 6.0, 5)
	seedGoal(t, db)

	q := NewQueryService(db)
	data, err := q.GetDashboardData(svcNow)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if data.Metrics.RunCount == 0 {
		t.Error("metrics should cover seeded runs")
	}
	if len(data.Predictions) != 4 {
		t.Errorf("got %d predictions, want 4", len(data.Predictions))
	}
	if data.ActiveGoal == nil {
		t.Fatal("active goal missing")
	}
	if data.WeeksUntilRace != 12 {
		t.Errorf("weeks until race = %d, want 12", data.WeeksUntilRace)
	}
	if data.TotalActivities != 20 {
		t.Errorf("total activities = %d, want 20", data.TotalActivities)
	}
}

func TestGetDashboardDataWithoutGoal(t *testing.T) {
	db := testStore(t)
	seedRuns(t, db, 5, 5.0, 6.0, 7)

	data, err := NewQueryService(db).GetDashboardData(svcNow)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if data.ActiveGoal != nil {
		t.Error("expected no active goal")
	}
}

func TestPlanRegenerationGate(t *testing.T) {
	db := testStore(t)
	seedRuns(t, db, 20, 8.0, 6.0, 5)
	seedGoal(t, db)

	p := NewPlanService(db)

	first, err := p.GetPlan(svcNow)
	if err != nil {
		t.Fatalf("first plan: %v", err)
	}

	// Later the same day the stored plan is reused
	sameDay, err := p.GetPlan(svcNow.Add(6 * time.Hour))
	if err != nil {
		t.Fatalf("same-day plan: %v", err)
	}
	if sameDay.Plan.ID != first.Plan.ID {
		t.Errorf("same-day request regenerated: plan %d -> %d", first.Plan.ID, sameDay.Plan.ID)
	}
	if !sameDay.Plan.GeneratedAt.Equal(first.Plan.GeneratedAt) {
		t.Errorf("generated_at changed within the day")
	}

	// The next calendar day triggers a rebuild
	nextDay, err := p.GetPlan(svcNow.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("next-day plan: %v", err)
	}
	if nextDay.Plan.GeneratedAt.Equal(first.Plan.GeneratedAt) {
		t.Error("next-day request did not regenerate")
	}

	if len(nextDay.Recommendations) < 2 {
		t.Errorf("got %d recommendations, want at least the standing reminders", len(nextDay.Recommendations))
	}
}

func TestGetPlanWithoutGoal(t *testing.T) {
	db := testStore(t)
	if _, err := NewPlanService(db).GetPlan(svcNow); !errors.Is(err, store.ErrNoRaceGoal) {
		t.Errorf("err = %v, want ErrNoRaceGoal", err)
	}
}

func TestSaveGoalValidation(t *testing.T) {
	db := testStore(t)
	p := NewPlanService(db)

	tests := []struct {
		name   string
		mutate func(*store.RaceGoal)
	}{
		{"empty name", func(g *store.RaceGoal) { g.RaceName = "" }},
		{"race in the past", func(g *store.RaceGoal) { g.RaceDate = svcNow.AddDate(0, 0, -1) }},
		{"bad distance", func(g *store.RaceGoal) { g.Distance = "50 miles" }},
		{"too few runs", func(g *store.RaceGoal) { g.RunsPerWeek = 1 }},
		{"too many runs", func(g *store.RaceGoal) { g.RunsPerWeek = 8 }},
		{"day index out of range", func(g *store.RaceGoal) { g.CustomDays = []int{0, 3, 9, 5} }},
		{"day count mismatch", func(g *store.RaceGoal) { g.CustomDays = []int{0, 2} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := &store.RaceGoal{
				RaceName:    "Test Race",
				RaceDate:    svcNow.AddDate(0, 1, 0),
				Distance:    "10K",
				RunsPerWeek: 4,
			}
			tt.mutate(goal)
			if err := p.SaveGoal(goal, svcNow); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	valid := &store.RaceGoal{
		RaceName:    "Test Race",
		RaceDate:    svcNow.AddDate(0, 1, 0),
		Distance:    "10K",
		RunsPerWeek: 4,
		CustomDays:  []int{0, 2, 4, 6},
	}
	if err := p.SaveGoal(valid, svcNow); err != nil {
		t.Errorf("valid goal rejected: %v", err)
	}
}

func TestSaveGoalInvalidatesPlan(t *testing.T) {
	db := testStore(t)
	seedRuns(t, db, 20, 8.0, 6.0, 5)
	goal := seedGoal(t, db)

	p := NewPlanService(db)
	if _, err := p.GetPlan(svcNow); err != nil {
		t.Fatalf("plan: %v", err)
	}

	goal.RunsPerWeek = 5
	if err := p.SaveGoal(goal, svcNow); err != nil {
		t.Fatalf("updating goal: %v", err)
	}

	if _, err := db.GetTrainingPlan(goal.ID); !errors.Is(err, store.ErrNoPlan) {
		t.Errorf("plan err = %v, want ErrNoPlan after goal change", err)
	}
}

func TestGetPacingStrategyFromTargetTime(t *testing.T) {
	db := testStore(t)
	q := NewQueryService(db)

	target := 50.0
	goal := &store.RaceGoal{
		RaceName:          "City 10K",
		RaceDate:          svcNow.AddDate(0, 1, 0),
		Distance:          "10K",
		RunsPerWeek:       4,
		TargetTimeMinutes: &target,
	}

	s, err := q.GetPacingStrategy(goal, analysis.PacingEven, svcNow)
	if err != nil {
		t.Fatalf("pacing: %v", err)
	}
	if len(s.Splits) != 10 {
		t.Errorf("got %d splits, want 10", len(s.Splits))
	}
	if s.Splits[0].PaceMinPerKm != 5.0 {
		t.Errorf("base pace = %v, want 5.0 from 50min/10km", s.Splits[0].PaceMinPerKm)
	}
}

func TestGetPacingStrategyFallsBackToPrediction(t *testing.T) {
	db := testStore(t)
	seedRuns(t, db, 12, 10.0, 6.0, 7)
	q := NewQueryService(db)

	goal := &store.RaceGoal{
		RaceName:    "City 10K",
		RaceDate:    svcNow.AddDate(0, 1, 0),
		Distance:    "10K",
		RunsPerWeek: 4,
	}

	s, err := q.GetPacingStrategy(goal, analysis.PacingNegative, svcNow)
	if err != nil {
		t.Fatalf("pacing: %v", err)
	}
	if s.Splits[0].PaceMinPerKm <= 0 {
		t.Error("predicted base pace missing")
	}
}

func TestGetPacingStrategyWithoutData(t *testing.T) {
	db := testStore(t)
	q := NewQueryService(db)

	goal := &store.RaceGoal{RaceName: "Empty", RaceDate: svcNow.AddDate(0, 1, 0), Distance: "10K", RunsPerWeek: 3}
	if _, err := q.GetPacingStrategy(goal, analysis.PacingEven, svcNow); err == nil {
		t.Error("expected error with no prediction and no target time")
	}
}

func TestPredictionHistoryCached(t *testing.T) {
	db := testStore(t)
	seedRuns(t, db, 30, 7.0, 6.0, 5)
	q := NewQueryService(db)

	first, err := q.GetPredictionHistory(svcNow)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(first) != 12 {
		t.Fatalf("got %d points, want 12", len(first))
	}

	// A second call within the TTL hits the cache
	key := trendKey{athleteID: 0, activityCount: 30}
	if _, ok := q.cache.get(key, svcNow); !ok {
		t.Error("history not cached")
	}

	// New activity changes the key, so the stale entry is bypassed
	a := &store.Activity{ID: 9999, Name: "New Run", Type: "Run", StartDate: svcNow.Add(-time.Hour), Distance: 5000, MovingTime: 1500, Source: store.SourceStrava}
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("adding run: %v", err)
	}
	if _, err := q.GetPredictionHistory(svcNow); err != nil {
		t.Fatalf("history after sync: %v", err)
	}
	if _, ok := q.cache.get(trendKey{athleteID: 0, activityCount: 31}, svcNow); !ok {
		t.Error("refreshed history not cached under the new key")
	}
}

// fakeActivitySource serves canned activities and records the watermark
// it was asked to fetch after.
type fakeActivitySource struct {
	activities []strava.Activity
	gotAfter   time.Time
}

func (f *fakeActivitySource) GetAllActivities(_ context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error) {
	f.gotAfter = after
	if onProgress != nil {
		onProgress(len(f.activities))
	}
	return f.activities, nil
}

func (f *fakeActivitySource) RateLimitStatus() (int, int) { return 100, 1000 }

func TestSyncStoresActivitiesAndWatermark(t *testing.T) {
	db := testStore(t)
	src := &fakeActivitySource{activities: []strava.Activity{
		{ID: 1, Name: "Morning Run", SportType: "Run", StartDate: svcNow.AddDate(0, 0, -2), Distance: 8000, MovingTime: 2880},
		{ID: 2, Name: "Commute", Type: "Ride", StartDate: svcNow.AddDate(0, 0, -1), Distance: 12000, MovingTime: 2400},
	}}

	s := NewSyncService(src, db)
	result, err := s.Sync(context.Background(), svcNow, nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if result.ActivitiesFetched != 2 || result.ActivitiesStored != 2 {
		t.Errorf("fetched/stored = %d/%d, want 2/2", result.ActivitiesFetched, result.ActivitiesStored)
	}
	if result.RunsStored != 1 {
		t.Errorf("runs stored = %d, want 1", result.RunsStored)
	}

	// First sync starts from the beginning of time
	if !src.gotAfter.IsZero() {
		t.Errorf("first sync fetched after %v, want zero time", src.gotAfter)
	}

	// The watermark carries the injected clock, not the wall clock
	watermark, err := db.GetSyncState(lastSyncKey)
	if err != nil {
		t.Fatalf("watermark: %v", err)
	}
	if want := svcNow.UTC().Format(time.RFC3339); watermark != want {
		t.Errorf("watermark = %q, want %q", watermark, want)
	}

	// A later sync resumes from the stored watermark
	if _, err := s.Sync(context.Background(), svcNow.AddDate(0, 0, 1), nil); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if !src.gotAfter.Equal(svcNow.UTC()) {
		t.Errorf("second sync fetched after %v, want %v", src.gotAfter, svcNow.UTC())
	}
}

func TestSyncReportsProgressAndCloses(t *testing.T) {
	db := testStore(t)
	src := &fakeActivitySource{activities: []strava.Activity{
		{ID: 1, Name: "Run", SportType: "Run", StartDate: svcNow.AddDate(0, 0, -1), Distance: 5000, MovingTime: 1500},
	}}

	progress := make(chan SyncProgress, 8)
	if _, err := NewSyncService(src, db).Sync(context.Background(), svcNow, progress); err != nil {
		t.Fatalf("sync: %v", err)
	}

	var updates []SyncProgress
	for p := range progress { // ranging stops only if the channel was closed
		updates = append(updates, p)
	}
	if len(updates) == 0 {
		t.Fatal("no progress updates sent")
	}
	final := updates[len(updates)-1]
	if final.Fetched != 1 || final.Stored != 1 {
		t.Errorf("final progress = %+v, want 1 fetched / 1 stored", final)
	}
}

func TestTrendCacheEviction(t *testing.T) {
	c := newTrendCache(2, time.Minute)
	now := svcNow

	c.put(trendKey{activityCount: 1}, nil, now)
	c.put(trendKey{activityCount: 2}, nil, now.Add(time.Second))
	c.put(trendKey{activityCount: 3}, nil, now.Add(2*time.Second))

	if _, ok := c.get(trendKey{activityCount: 1}, now.Add(3*time.Second)); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.get(trendKey{activityCount: 3}, now.Add(3*time.Second)); !ok {
		t.Error("newest entry missing")
	}
}

func TestTrendCacheTTL(t *testing.T) {
	c := newTrendCache(4, time.Minute)
	c.put(trendKey{activityCount: 1}, nil, svcNow)

	if _, ok := c.get(trendKey{activityCount: 1}, svcNow.Add(2*time.Minute)); ok {
		t.Error("expired entry served")
	}
}
