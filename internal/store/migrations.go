package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activities (summary data from Strava or .fit import)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			elapsed_time INTEGER NOT NULL,
			total_elevation_gain REAL,
			source TEXT NOT NULL DEFAULT 'strava',
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Race goals
		`CREATE TABLE IF NOT EXISTS race_goals (
			id INTEGER PRIMARY KEY,
			race_name TEXT NOT NULL,
			race_date TEXT NOT NULL,
			training_start TEXT,
			distance TEXT NOT NULL,
			runs_per_week INTEGER NOT NULL,
			target_time_minutes REAL,
			custom_days TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_race_goals_race_date ON race_goals(race_date)`,

		// Training plans (one per goal; regenerated at most once per day)
		`CREATE TABLE IF NOT EXISTS training_plans (
			id INTEGER PRIMARY KEY,
			goal_id INTEGER NOT NULL UNIQUE,
			fitness_level TEXT NOT NULL,
			weeks_until_race INTEGER NOT NULL,
			generated_at TEXT NOT NULL,
			FOREIGN KEY (goal_id) REFERENCES race_goals(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS plan_weeks (
			id INTEGER PRIMARY KEY,
			plan_id INTEGER NOT NULL,
			week_number INTEGER NOT NULL,
			start_date TEXT NOT NULL,
			phase TEXT NOT NULL,
			target_km REAL NOT NULL,
			actual_km REAL NOT NULL,
			note TEXT,
			FOREIGN KEY (plan_id) REFERENCES training_plans(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plan_weeks_plan ON plan_weeks(plan_id)`,

		`CREATE TABLE IF NOT EXISTS plan_workouts (
			week_id INTEGER NOT NULL,
			day_index INTEGER NOT NULL,
			day_name TEXT NOT NULL,
			type TEXT NOT NULL,
			distance_km REAL NOT NULL,
			description TEXT,
			intensity TEXT NOT NULL,
			PRIMARY KEY (week_id, day_index),
			FOREIGN KEY (week_id) REFERENCES plan_weeks(id) ON DELETE CASCADE
		)`,

		// Sync state (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
