package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const activityColumns = `id, name, type, start_date, distance, moving_time,
	elapsed_time, total_elevation_gain, source`

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(a *Activity) error {
	_, err := db.Exec(`
		INSERT INTO activities (
			id, name, type, start_date, distance, moving_time,
			elapsed_time, total_elevation_gain, source, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			start_date = excluded.start_date,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			total_elevation_gain = excluded.total_elevation_gain,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Name, a.Type, a.StartDate.Format(time.RFC3339),
		a.Distance, a.MovingTime, a.ElapsedTime, a.TotalElevationGain, a.Source,
	)
	return err
}

// InsertActivityIfNew inserts an activity only when its ID is not already
// stored. Returns true when a row was inserted. Used by the .fit importer,
// which derives IDs from start timestamps.
func (db *DB) InsertActivityIfNew(a *Activity) (bool, error) {
	result, err := db.Exec(`
		INSERT OR IGNORE INTO activities (
			id, name, type, start_date, distance, moving_time,
			elapsed_time, total_elevation_gain, source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, a.Name, a.Type, a.StartDate.Format(time.RFC3339),
		a.Distance, a.MovingTime, a.ElapsedTime, a.TotalElevationGain, a.Source,
	)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = ?
	`, id)

	return scanActivity(row)
}

// ListActivities returns activities ordered by start date descending
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY start_date DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListRunsSince returns running activities starting on or after the given
// time, ordered by start date ascending. This is the predictor's input.
func (db *DB) ListRunsSince(since time.Time) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE type = 'Run' AND start_date >= ? AND distance > 0 AND moving_time > 0
		ORDER BY start_date ASC
	`, since.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// scanActivity scans a single activity from a row
func scanActivity(row *sql.Row) (*Activity, error) {
	var a Activity
	var startDate string
	var elevation sql.NullFloat64

	err := row.Scan(
		&a.ID, &a.Name, &a.Type, &startDate, &a.Distance,
		&a.MovingTime, &a.ElapsedTime, &elevation, &a.Source,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	a.TotalElevationGain = elevation.Float64
	a.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}

	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		var a Activity
		var startDate string
		var elevation sql.NullFloat64

		err := rows.Scan(
			&a.ID, &a.Name, &a.Type, &startDate, &a.Distance,
			&a.MovingTime, &a.ElapsedTime, &elevation, &a.Source,
		)
		if err != nil {
			return nil, err
		}

		a.TotalElevationGain = elevation.Float64
		a.StartDate, err = time.Parse(time.RFC3339, startDate)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
		}

		activities = append(activities, a)
	}

	return activities, rows.Err()
}
