package store

import "time"

// Activity source identifiers
const (
	SourceStrava = "strava"
	SourceFit    = "fit"
)

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Activity represents one completed activity, synced from Strava or
// imported from a .fit file
type Activity struct {
	ID                 int64
	Name               string
	Type               string // "Run", "Ride", ...
	StartDate          time.Time
	Distance           float64 // meters
	MovingTime         int     // seconds
	ElapsedTime        int     // seconds
	TotalElevationGain float64 // meters
	Source             string  // "strava" or "fit"
}

// DistanceKm returns the activity distance in kilometers.
func (a Activity) DistanceKm() float64 {
	return a.Distance / 1000.0
}

// PaceMinPerKm returns the moving pace in minutes per kilometer,
// or 0 when the activity has no usable distance or duration.
func (a Activity) PaceMinPerKm() float64 {
	if a.Distance <= 0 || a.MovingTime <= 0 {
		return 0
	}
	return (float64(a.MovingTime) / 60.0) / (a.Distance / 1000.0)
}

// RaceGoal represents an upcoming race the athlete is training for.
type RaceGoal struct {
	ID                int64
	RaceName          string
	RaceDate          time.Time
	TrainingStart     *time.Time // nil: plan starts from "today"
	Distance          string     // "5K", "10K", "Half Marathon", "Marathon"
	RunsPerWeek       int        // 2..7
	TargetTimeMinutes *float64
	CustomDays        []int // Monday-first day indices (0=Mon), empty: default schedule
	CreatedAt         time.Time
}

// TrainingPlan is the persisted form of a generated plan.
// Weeks are ordered by week number.
type TrainingPlan struct {
	ID             int64
	GoalID         int64
	FitnessLevel   string
	WeeksUntilRace int
	GeneratedAt    time.Time
	Weeks          []PlanWeek
}

// PlanWeek is one week of a persisted training plan with its seven workouts.
type PlanWeek struct {
	ID         int64
	PlanID     int64
	WeekNumber int
	StartDate  time.Time
	Phase      string
	TargetKm   float64
	ActualKm   float64
	Note       string
	Workouts   []PlanWorkout
}

// PlanWorkout is one day of a persisted plan week.
type PlanWorkout struct {
	WeekID      int64
	DayIndex    int // 0=Sunday .. 6=Saturday
	DayName     string
	Type        string
	DistanceKm  float64
	Description string
	Intensity   string
}
