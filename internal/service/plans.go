package service

import (
	"errors"
	"fmt"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/plan"
	"stridecoach/internal/store"
)

// PlanService owns race goals and their generated training plans.
type PlanService struct {
	store *store.DB
}

// NewPlanService creates a plan service.
func NewPlanService(db *store.DB) *PlanService {
	return &PlanService{store: db}
}

// PlanView bundles a plan with its goal and current coaching advice.
type PlanView struct {
	Goal            *store.RaceGoal
	Plan            *store.TrainingPlan
	Recommendations []string
}

// SaveGoal validates and stores a race goal. Changing a goal invalidates
// its plan, which regenerates on the next request.
func (p *PlanService) SaveGoal(goal *store.RaceGoal, now time.Time) error {
	if goal.RaceName == "" {
		return errors.New("race name is required")
	}
	if !goal.RaceDate.After(now) {
		return errors.New("race date must be in the future")
	}
	if analysis.RaceDistanceKm(goal.Distance) == 0 {
		return fmt.Errorf("unknown race distance %q", goal.Distance)
	}
	if goal.RunsPerWeek < 2 || goal.RunsPerWeek > 7 {
		return fmt.Errorf("runs per week must be between 2 and 7, got %d", goal.RunsPerWeek)
	}
	for _, d := range goal.CustomDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("invalid training day index %d", d)
		}
	}
	if len(goal.CustomDays) > 0 && len(goal.CustomDays) != goal.RunsPerWeek {
		return fmt.Errorf("picked %d training days for %d runs per week", len(goal.CustomDays), goal.RunsPerWeek)
	}

	if err := p.store.SaveRaceGoal(goal); err != nil {
		return fmt.Errorf("saving race goal: %w", err)
	}
	if goal.ID != 0 {
		if err := p.store.DeleteTrainingPlan(goal.ID); err != nil {
			return fmt.Errorf("clearing stale plan: %w", err)
		}
	}
	return nil
}

// DeleteGoal removes a goal and, by cascade, its plan.
func (p *PlanService) DeleteGoal(goalID int64) error {
	return p.store.DeleteRaceGoal(goalID)
}

// GetPlan returns the training plan for the active race goal,
// regenerating it at most once per calendar day. Returns
// store.ErrNoRaceGoal when no upcoming race exists.
func (p *PlanService) GetPlan(now time.Time) (*PlanView, error) {
	goal, err := p.store.GetActiveRaceGoal(now)
	if err != nil {
		return nil, err
	}

	stored, err := p.store.GetTrainingPlan(goal.ID)
	if err != nil && !errors.Is(err, store.ErrNoPlan) {
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	if stored != nil && !plan.ShouldRegenerate(stored.GeneratedAt, now) {
		return p.view(goal, stored, now)
	}
	return p.regenerate(goal, now)
}

// Regenerate rebuilds the active goal's plan immediately, bypassing the
// once-per-day gate.
func (p *PlanService) Regenerate(now time.Time) (*PlanView, error) {
	goal, err := p.store.GetActiveRaceGoal(now)
	if err != nil {
		return nil, err
	}
	return p.regenerate(goal, now)
}

func (p *PlanService) regenerate(goal *store.RaceGoal, now time.Time) (*PlanView, error) {
	metrics, err := p.metrics(now)
	if err != nil {
		return nil, err
	}

	generated, err := plan.Generate(goal, metrics, now)
	if err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}
	if err := p.store.SaveTrainingPlan(generated); err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	return p.view(goal, generated, now)
}

func (p *PlanService) view(goal *store.RaceGoal, tp *store.TrainingPlan, now time.Time) (*PlanView, error) {
	metrics, err := p.metrics(now)
	if err != nil {
		return nil, err
	}
	return &PlanView{
		Goal:            goal,
		Plan:            tp,
		Recommendations: plan.Recommendations(goal, metrics, tp.FitnessLevel, weeksUntil(now, goal.RaceDate)),
	}, nil
}

func (p *PlanService) metrics(now time.Time) (analysis.DetailedTrainingMetrics, error) {
	runs, err := p.store.ListRunsSince(now.Add(-analysis.PredictionWindow))
	if err != nil {
		return analysis.DetailedTrainingMetrics{}, fmt.Errorf("loading runs: %w", err)
	}
	return analysis.ComputeDetailedMetrics(runs, now), nil
}
