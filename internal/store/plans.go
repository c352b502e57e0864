package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveTrainingPlan replaces the stored plan for the plan's goal in a single
// transaction. Any previous plan for the goal is deleted first.
func (db *DB) SaveTrainingPlan(p *TrainingPlan) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM training_plans WHERE goal_id = ?`, p.GoalID); err != nil {
		return fmt.Errorf("removing previous plan: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO training_plans (goal_id, fitness_level, weeks_until_race, generated_at)
		VALUES (?, ?, ?, ?)
	`, p.GoalID, p.FitnessLevel, p.WeeksUntilRace, p.GeneratedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	planID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for wi := range p.Weeks {
		w := &p.Weeks[wi]
		result, err := tx.Exec(`
			INSERT INTO plan_weeks (plan_id, week_number, start_date, phase, target_km, actual_km, note)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, planID, w.WeekNumber, w.StartDate.Format(time.RFC3339), w.Phase, w.TargetKm, w.ActualKm, w.Note)
		if err != nil {
			return fmt.Errorf("inserting week %d: %w", w.WeekNumber, err)
		}
		weekID, err := result.LastInsertId()
		if err != nil {
			return err
		}

		for _, wo := range w.Workouts {
			_, err := tx.Exec(`
				INSERT INTO plan_workouts (week_id, day_index, day_name, type, distance_km, description, intensity)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, weekID, wo.DayIndex, wo.DayName, wo.Type, wo.DistanceKm, wo.Description, wo.Intensity)
			if err != nil {
				return fmt.Errorf("inserting workout week %d day %d: %w", w.WeekNumber, wo.DayIndex, err)
			}
		}
		w.ID = weekID
		w.PlanID = planID
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	p.ID = planID
	return nil
}

// GetTrainingPlan loads the stored plan for a goal, including all weeks and
// workouts, or ErrNoPlan when none exists.
func (db *DB) GetTrainingPlan(goalID int64) (*TrainingPlan, error) {
	row := db.QueryRow(`
		SELECT id, goal_id, fitness_level, weeks_until_race, generated_at
		FROM training_plans
		WHERE goal_id = ?
	`, goalID)

	var p TrainingPlan
	var generatedAt string
	err := row.Scan(&p.ID, &p.GoalID, &p.FitnessLevel, &p.WeeksUntilRace, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPlan
	}
	if err != nil {
		return nil, err
	}
	p.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing generated_at %q: %w", generatedAt, err)
	}

	p.Weeks, err = db.loadPlanWeeks(p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteTrainingPlan removes the stored plan for a goal, if any.
func (db *DB) DeleteTrainingPlan(goalID int64) error {
	_, err := db.Exec(`DELETE FROM training_plans WHERE goal_id = ?`, goalID)
	return err
}

func (db *DB) loadPlanWeeks(planID int64) ([]PlanWeek, error) {
	rows, err := db.Query(`
		SELECT id, plan_id, week_number, start_date, phase, target_km, actual_km, note
		FROM plan_weeks
		WHERE plan_id = ?
		ORDER BY week_number ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []PlanWeek
	for rows.Next() {
		var w PlanWeek
		var startDate string
		var note sql.NullString
		if err := rows.Scan(&w.ID, &w.PlanID, &w.WeekNumber, &startDate, &w.Phase, &w.TargetKm, &w.ActualKm, &note); err != nil {
			return nil, err
		}
		w.StartDate, err = time.Parse(time.RFC3339, startDate)
		if err != nil {
			return nil, fmt.Errorf("parsing week start_date %q: %w", startDate, err)
		}
		w.Note = note.String
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range weeks {
		weeks[i].Workouts, err = db.loadPlanWorkouts(weeks[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return weeks, nil
}

func (db *DB) loadPlanWorkouts(weekID int64) ([]PlanWorkout, error) {
	rows, err := db.Query(`
		SELECT week_id, day_index, day_name, type, distance_km, description, intensity
		FROM plan_workouts
		WHERE week_id = ?
		ORDER BY day_index ASC
	`, weekID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []PlanWorkout
	for rows.Next() {
		var wo PlanWorkout
		var desc sql.NullString
		if err := rows.Scan(&wo.WeekID, &wo.DayIndex, &wo.DayName, &wo.Type, &wo.DistanceKm, &desc, &wo.Intensity); err != nil {
			return nil, err
		}
		wo.Description = desc.String
		workouts = append(workouts, wo)
	}
	return workouts, rows.Err()
}
