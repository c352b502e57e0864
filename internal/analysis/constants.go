package analysis

import "time"

// Canonical race distances in kilometers.
const (
	Distance5K   = 5.0
	Distance10K  = 10.0
	DistanceHalf = 21.1
	DistanceFull = 42.2
)

// Prediction gates. The overall gate applies to the whole activity window;
// the per-distance gates flip individual predictions available.
const (
	MinRunsOverall  = 5
	MinRuns5K       = 5
	MinRuns10K      = 10
	MinRunsHalf     = 20
	MinRunsMarathon = 20
)

// Lookback windows.
const (
	PredictionWindow = 24 * 7 * 24 * time.Hour // trailing 24 weeks
	MetricsWindow    = 4 * 7 * 24 * time.Hour  // trailing 4 weeks
	FormTrendWindow  = 12 * 7 * 24 * time.Hour // trailing 12 weeks
)

// RaceDistanceKm maps a race distance category to kilometers.
func RaceDistanceKm(category string) float64 {
	switch category {
	case "5K":
		return Distance5K
	case "10K":
		return Distance10K
	case "Half Marathon":
		return DistanceHalf
	case "Marathon":
		return DistanceFull
	}
	return 0
}
