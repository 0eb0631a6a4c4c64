package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitSchema creates all tables if they do not exist yet. Migrations beyond
// that are applied out of band.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS app_user (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS token_blacklist (
			jti TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			blacklisted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS muscle_group (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS exercise (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			instructions TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS exercise_muscle_group (
			exercise_id INTEGER NOT NULL REFERENCES exercise(id) ON DELETE CASCADE,
			muscle_group_id INTEGER NOT NULL REFERENCES muscle_group(id) ON DELETE CASCADE,
			PRIMARY KEY (exercise_id, muscle_group_id)
		);`,
		`CREATE TABLE IF NOT EXISTS workout_plan (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			frequency INTEGER NOT NULL CHECK (frequency > 0),
			goal TEXT NOT NULL DEFAULT '',
			duration_per_session_minutes INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS workout_plan_exercise (
			id SERIAL PRIMARY KEY,
			workout_plan_id INTEGER NOT NULL REFERENCES workout_plan(id) ON DELETE CASCADE,
			exercise_id INTEGER NOT NULL REFERENCES exercise(id) ON DELETE CASCADE,
			repetitions INTEGER NOT NULL DEFAULT 1 CHECK (repetitions > 0),
			sets INTEGER NOT NULL DEFAULT 1 CHECK (sets > 0),
			duration_minutes INTEGER,
			distance DOUBLE PRECISION
		);`,
		`CREATE TABLE IF NOT EXISTS workout_session (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
			workout_plan_id INTEGER NOT NULL REFERENCES workout_plan(id) ON DELETE CASCADE,
			session_date DATE NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS progress (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
			progress_date DATE NOT NULL,
			weight DOUBLE PRECISION,
			notes TEXT,
			UNIQUE (user_id, progress_date)
		);`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}
