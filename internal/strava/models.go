package strava

import "time"

// Activity is a summary activity from the Strava API. Only the fields
// the dashboard stores are decoded.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
}

// IsRun reports whether the activity counts as a run. Strava tags
// treadmill and trail runs with distinct sport types.
func (a Activity) IsRun() bool {
	switch a.SportType {
	case "Run", "TrailRun", "VirtualRun":
		return true
	}
	return a.Type == "Run"
}
