package service

import (
	"errors"
	"fmt"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/store"
)

// QueryService provides read-only queries for the TUI. All time-window
// computation takes an explicit now so results are reproducible.
type QueryService struct {
	store *store.DB
	cache *trendCache
}

// NewQueryService creates a query service.
func NewQueryService(db *store.DB) *QueryService {
	return &QueryService{
		store: db,
		cache: newTrendCache(trendCacheSize, trendCacheTTL),
	}
}

// DashboardData is everything the dashboard screen renders.
type DashboardData struct {
	Metrics          analysis.DetailedTrainingMetrics
	Predictions      []analysis.Prediction
	ActiveGoal       *store.RaceGoal // nil when no upcoming race
	WeeksUntilRace   int
	RecentActivities []store.Activity
	TotalActivities  int
	LastSync         time.Time
}

// GetDashboardData assembles the dashboard from stored activities.
func (q *QueryService) GetDashboardData(now time.Time) (*DashboardData, error) {
	runs, err := q.store.ListRunsSince(now.Add(-analysis.PredictionWindow))
	if err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}

	data := &DashboardData{
		Metrics:     analysis.ComputeDetailedMetrics(runs, now),
		Predictions: analysis.CalculateRacePredictions(runs, now),
	}

	goal, err := q.store.GetActiveRaceGoal(now)
	if err != nil && !errors.Is(err, store.ErrNoRaceGoal) {
		return nil, fmt.Errorf("loading race goal: %w", err)
	}
	if goal != nil {
		data.ActiveGoal = goal
		data.WeeksUntilRace = weeksUntil(now, goal.RaceDate)
	}

	data.RecentActivities, err = q.store.ListActivities(RecentActivitiesLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}
	data.TotalActivities, err = q.store.CountActivities()
	if err != nil {
		return nil, fmt.Errorf("counting activities: %w", err)
	}

	if syncStr, _ := q.store.GetSyncState(lastSyncKey); syncStr != "" {
		data.LastSync, _ = time.Parse(time.RFC3339, syncStr)
	}
	return data, nil
}

// GetPredictions recomputes race predictions from stored runs.
func (q *QueryService) GetPredictions(now time.Time) ([]analysis.Prediction, error) {
	runs, err := q.store.ListRunsSince(now.Add(-analysis.PredictionWindow))
	if err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}
	return analysis.CalculateRacePredictions(runs, now), nil
}

// GetPredictionHistory returns 12 weekly prediction snapshots for trend
// charts. The walk over past windows is cached per athlete and activity
// count, so new syncs invalidate it naturally.
func (q *QueryService) GetPredictionHistory(now time.Time) ([]analysis.HistoryPoint, error) {
	count, err := q.store.CountActivities()
	if err != nil {
		return nil, fmt.Errorf("counting activities: %w", err)
	}

	var athleteID int64
	if auth, err := q.store.GetAuth(); err == nil {
		athleteID = auth.AthleteID
	}

	key := trendKey{athleteID: athleteID, activityCount: count}
	if history, ok := q.cache.get(key, now); ok {
		return history, nil
	}

	// History windows reach back 12 weeks past the prediction window
	runs, err := q.store.ListRunsSince(now.Add(-analysis.PredictionWindow).AddDate(0, 0, -12*7))
	if err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}

	history := analysis.PredictionHistory(runs, now)
	q.cache.put(key, history, now)
	return history, nil
}

// ListActivities returns a page of stored activities, newest first.
func (q *QueryService) ListActivities(limit, offset int) ([]store.Activity, error) {
	return q.store.ListActivities(limit, offset)
}

// CountActivities returns the total number of stored activities.
func (q *QueryService) CountActivities() (int, error) {
	return q.store.CountActivities()
}

// ActiveGoal returns the nearest upcoming race goal, or
// store.ErrNoRaceGoal when none exists.
func (q *QueryService) ActiveGoal(now time.Time) (*store.RaceGoal, error) {
	return q.store.GetActiveRaceGoal(now)
}

// GetPacingStrategy builds a pacing schedule for a race distance. The
// base pace comes from the goal's target time when set, otherwise from
// the current prediction for that distance.
func (q *QueryService) GetPacingStrategy(goal *store.RaceGoal, strategy string, now time.Time) (*analysis.PacingStrategy, error) {
	raceKm := analysis.RaceDistanceKm(goal.Distance)
	if raceKm == 0 {
		return nil, fmt.Errorf("unknown race distance %q", goal.Distance)
	}

	var basePace float64
	if goal.TargetTimeMinutes != nil && *goal.TargetTimeMinutes > 0 {
		basePace = *goal.TargetTimeMinutes / raceKm
	} else {
		predictions, err := q.GetPredictions(now)
		if err != nil {
			return nil, err
		}
		for _, p := range predictions {
			if p.DistanceKm == raceKm && p.Available {
				basePace = p.PaceMinPerKm
				break
			}
		}
	}
	if basePace <= 0 {
		return nil, errors.New("no target time and no available prediction for this distance")
	}

	s := analysis.GeneratePacingStrategy(raceKm, basePace, strategy)
	return &s, nil
}

func weeksUntil(now, raceDate time.Time) int {
	days := raceDate.Sub(now).Hours() / 24
	if days <= 0 {
		return 0
	}
	weeks := int(days / 7)
	if days != float64(weeks*7) {
		weeks++
	}
	return weeks
}
