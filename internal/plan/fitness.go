package plan

import "stridecoach/internal/analysis"

// Fitness tiers.
const (
	FitnessBeginner     = "Beginner"
	FitnessIntermediate = "Intermediate"
	FitnessAdvanced     = "Advanced"
)

// AssessFitness scores the runner 0-100 against the target race distance
// and maps the score to a tier. The score itself is only used for
// classification.
func AssessFitness(m analysis.DetailedTrainingMetrics, raceKm float64) string {
	var score float64

	// Weekly volume relative to race distance
	volumeRatio := m.WeeklyDistanceKm / raceKm
	switch {
	case volumeRatio >= 2.5:
		score += 40
	case volumeRatio >= 1.8:
		score += 30
	case volumeRatio >= 1.2:
		score += 20
	default:
		score += 10
	}

	// Long-run readiness
	longRunRatio := m.AvgLongRunKm / raceKm
	switch {
	case longRunRatio >= 0.7:
		score += 25
	case longRunRatio >= 0.5:
		score += 18
	case longRunRatio >= 0.3:
		score += 10
	default:
		score += 5
	}

	score += m.ConsistencyScore / 100 * 20

	switch {
	case m.RunCount >= 16:
		score += 15
	case m.RunCount >= 12:
		score += 10
	case m.RunCount >= 8:
		score += 5
	}

	improvement := m.PaceImprovementPct
	if improvement > 10 {
		improvement = 10
	}
	if improvement < -5 {
		improvement = -5
	}
	score += improvement

	switch {
	case score >= 75:
		return FitnessAdvanced
	case score >= 50:
		return FitnessIntermediate
	}
	return FitnessBeginner
}
