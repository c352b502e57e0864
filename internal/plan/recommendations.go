package plan

import (
	"fmt"

	"stridecoach/internal/analysis"
	"stridecoach/internal/store"
)

// Recommendations returns coaching advice for the goal based on current
// training, ordered from most to least urgent, always ending with the
// hydration and recovery reminders.
func Recommendations(goal *store.RaceGoal, m analysis.DetailedTrainingMetrics, level string, weeksUntilRace int) []string {
	raceKm := analysis.RaceDistanceKm(goal.Distance)
	var recs []string

	if weeksUntilRace < 8 {
		recs = append(recs, fmt.Sprintf("Only %d weeks until race day: prioritize consistency over big jumps in volume.", weeksUntilRace))
	}

	switch {
	case m.LongestRunKm < raceKm*0.6:
		recs = append(recs, fmt.Sprintf("Your longest recent run (%.1f km) is well short of race distance. Build the long run up gradually.", m.LongestRunKm))
	case m.LongestRunKm < raceKm*0.75:
		recs = append(recs, "Keep extending your long run: aim to cover at least 75% of race distance in training.")
	}

	targetWeekly := baseVolume(m.WeeklyDistanceKm, goal.Distance)
	if m.WeeklyDistanceKm < targetWeekly*0.8 {
		recs = append(recs, fmt.Sprintf("Current weekly volume (%.1f km) is below the plan's starting point. Ease into the early weeks.", m.WeeklyDistanceKm))
	}

	if m.RunCount < 12 {
		recs = append(recs, "Fewer than three runs a week recently: frequency matters more than individual workout quality.")
	}

	if level == FitnessBeginner {
		recs = append(recs, "As a newer runner, keep most running at an easy, conversational pace.")
	}

	switch {
	case m.PaceImprovementPct > 5:
		recs = append(recs, "Your pace is improving quickly. Hold back in workouts so the gains stick.")
	case m.PaceImprovementPct < -5:
		recs = append(recs, "Your pace has been slipping. Check sleep, stress, and whether you are running your easy days too hard.")
	}

	switch {
	case m.ConsistencyScore < 50:
		recs = append(recs, "Training has been patchy. A short run beats a skipped run.")
	case m.ConsistencyScore >= 80:
		recs = append(recs, "Great consistency. Keep the routine that is working.")
	}

	recs = append(recs,
		"Hydrate before, during, and after longer efforts.",
		"Respect the rest days: adaptation happens during recovery, not during the workout.",
	)
	return recs
}
