package service

import "time"

const (
	// RecentActivitiesLimit bounds the activity list screen.
	RecentActivitiesLimit = 50

	// Trend cache bounds. History recomputation walks 12 prediction
	// snapshots, so results are cached per athlete+activity-count.
	trendCacheSize = 8
	trendCacheTTL  = 15 * time.Minute

	// lastSyncKey is the sync watermark key in sync_state.
	lastSyncKey = "last_activity_sync"
)
