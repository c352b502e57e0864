package service

import (
	"context"
	"fmt"
	"time"

	"stridecoach/internal/store"
	"stridecoach/internal/strava"
)

// ActivitySource is the slice of the Strava client the sync needs.
type ActivitySource interface {
	GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error)
	RateLimitStatus() (shortRemaining, dailyRemaining int)
}

// SyncService pulls activity summaries from Strava into the store.
type SyncService struct {
	client ActivitySource
	store  *store.DB
}

// NewSyncService creates a sync service.
func NewSyncService(client ActivitySource, store *store.DB) *SyncService {
	return &SyncService{client: client, store: store}
}

// SyncProgress reports progress during a sync.
type SyncProgress struct {
	Fetched int
	Stored  int
	Error   error
}

// SyncResult summarizes a completed sync.
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	RunsStored        int
	Errors            []error
}

// Sync fetches all activities since the last sync watermark and upserts
// them. The watermark is stamped with now. Progress updates are sent on
// progress if non-nil; the channel is closed when the sync finishes.
func (s *SyncService) Sync(ctx context.Context, now time.Time, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	lastSyncStr, _ := s.store.GetSyncState(lastSyncKey)
	var after time.Time
	if lastSyncStr != "" {
		after, _ = time.Parse(time.RFC3339, lastSyncStr)
	}

	activities, err := s.client.GetAllActivities(ctx, after, func(fetched int) {
		if progress != nil {
			progress <- SyncProgress{Fetched: fetched}
		}
	})
	if err != nil {
		return result, fmt.Errorf("fetching activities: %w", err)
	}
	result.ActivitiesFetched = len(activities)

	for _, a := range activities {
		if err := s.store.UpsertActivity(convertActivity(a)); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ID, err))
			continue
		}
		result.ActivitiesStored++
		if a.IsRun() {
			result.RunsStored++
		}
	}

	if progress != nil {
		progress <- SyncProgress{
			Fetched: result.ActivitiesFetched,
			Stored:  result.ActivitiesStored,
		}
	}

	if err := s.store.SetSyncState(lastSyncKey, now.UTC().Format(time.RFC3339)); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("saving sync watermark: %w", err))
	}
	return result, nil
}

// RateLimitStatus reports remaining Strava API quota.
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

// convertActivity maps an API activity to its stored form. Runs are
// normalized to type "Run" so downstream queries see one spelling.
func convertActivity(a strava.Activity) *store.Activity {
	activityType := a.Type
	if a.IsRun() {
		activityType = "Run"
	}
	return &store.Activity{
		ID:                 a.ID,
		Name:               a.Name,
		Type:               activityType,
		StartDate:          a.StartDate.UTC(),
		Distance:           a.Distance,
		MovingTime:         a.MovingTime,
		ElapsedTime:        a.ElapsedTime,
		TotalElevationGain: a.TotalElevationGain,
		Source:             store.SourceStrava,
	}
}
