package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SaveRaceGoal inserts a new race goal or updates an existing one.
// A zero ID inserts; the assigned ID is written back to the goal.
func (db *DB) SaveRaceGoal(g *RaceGoal) error {
	var trainingStart any
	if g.TrainingStart != nil {
		trainingStart = g.TrainingStart.Format(time.RFC3339)
	}
	var targetTime any
	if g.TargetTimeMinutes != nil {
		targetTime = *g.TargetTimeMinutes
	}
	customDays := encodeDays(g.CustomDays)

	if g.ID == 0 {
		result, err := db.Exec(`
			INSERT INTO race_goals (
				race_name, race_date, training_start, distance,
				runs_per_week, target_time_minutes, custom_days
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			g.RaceName, g.RaceDate.Format(time.RFC3339), trainingStart,
			g.Distance, g.RunsPerWeek, targetTime, customDays,
		)
		if err != nil {
			return err
		}
		g.ID, err = result.LastInsertId()
		return err
	}

	_, err := db.Exec(`
		UPDATE race_goals
		SET race_name = ?, race_date = ?, training_start = ?, distance = ?,
			runs_per_week = ?, target_time_minutes = ?, custom_days = ?
		WHERE id = ?
	`,
		g.RaceName, g.RaceDate.Format(time.RFC3339), trainingStart,
		g.Distance, g.RunsPerWeek, targetTime, customDays, g.ID,
	)
	return err
}

// GetActiveRaceGoal returns the goal with the nearest race date on or
// after the given time, or ErrNoRaceGoal when none exists.
func (db *DB) GetActiveRaceGoal(now time.Time) (*RaceGoal, error) {
	row := db.QueryRow(`
		SELECT id, race_name, race_date, training_start, distance,
			runs_per_week, target_time_minutes, custom_days, created_at
		FROM race_goals
		WHERE race_date >= ?
		ORDER BY race_date ASC
		LIMIT 1
	`, now.Format(time.RFC3339))

	return scanRaceGoal(row)
}

// GetRaceGoal retrieves a race goal by ID
func (db *DB) GetRaceGoal(id int64) (*RaceGoal, error) {
	row := db.QueryRow(`
		SELECT id, race_name, race_date, training_start, distance,
			runs_per_week, target_time_minutes, custom_days, created_at
		FROM race_goals
		WHERE id = ?
	`, id)

	return scanRaceGoal(row)
}

// DeleteRaceGoal removes a race goal. The goal's training plan, plan weeks
// and workouts are removed by cascade.
func (db *DB) DeleteRaceGoal(id int64) error {
	result, err := db.Exec(`DELETE FROM race_goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoRaceGoal
	}
	return nil
}

func scanRaceGoal(row *sql.Row) (*RaceGoal, error) {
	var g RaceGoal
	var raceDate, createdAt string
	var trainingStart, customDays sql.NullString
	var targetTime sql.NullFloat64

	err := row.Scan(
		&g.ID, &g.RaceName, &raceDate, &trainingStart, &g.Distance,
		&g.RunsPerWeek, &targetTime, &customDays, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRaceGoal
	}
	if err != nil {
		return nil, err
	}

	g.RaceDate, err = time.Parse(time.RFC3339, raceDate)
	if err != nil {
		return nil, fmt.Errorf("parsing race_date %q: %w", raceDate, err)
	}
	if trainingStart.Valid {
		ts, err := time.Parse(time.RFC3339, trainingStart.String)
		if err != nil {
			return nil, fmt.Errorf("parsing training_start %q: %w", trainingStart.String, err)
		}
		g.TrainingStart = &ts
	}
	if targetTime.Valid {
		g.TargetTimeMinutes = &targetTime.Float64
	}
	if customDays.Valid {
		g.CustomDays, err = decodeDays(customDays.String)
		if err != nil {
			return nil, fmt.Errorf("parsing custom_days %q: %w", customDays.String, err)
		}
	}
	// created_at uses sqlite's CURRENT_TIMESTAMP format
	g.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)

	return &g, nil
}

// encodeDays serializes Monday-first day indices as a CSV string.
func encodeDays(days []int) any {
	if len(days) == 0 {
		return nil
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func decodeDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}
