package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Add inserts a session after checking that the referenced plan belongs to
// the session owner.
func (r *Repo) Add(ctx context.Context, session WorkoutSession) (*WorkoutSession, error) {
	owned, err := r.planOwnedBy(ctx, session.WorkoutPlanID, session.UserID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrPlanNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO workout_session (user_id, workout_plan_id, session_date, completed)
			VALUES ($1, $2, $3, $4) RETURNING id`,
		session.UserID, session.WorkoutPlanID, session.Date.Time, session.Completed,
	).Scan(&session.ID)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *Repo) List(ctx context.Context, userID int) ([]WorkoutSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, workout_plan_id, session_date, completed
			FROM workout_session WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessionsList []WorkoutSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessionsList = append(sessionsList, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessionsList, nil
}

func (r *Repo) Get(ctx context.Context, id, userID int) (*WorkoutSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, workout_plan_id, session_date, completed
			FROM workout_session WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrSessionNotFound
	}

	return scanSession(rows)
}

// Update rewrites the session row. A changed plan id is re-validated as
// belonging to the owner.
func (r *Repo) Update(ctx context.Context, session WorkoutSession) error {
	owned, err := r.planOwnedBy(ctx, session.WorkoutPlanID, session.UserID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrPlanNotFound
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE workout_session
			SET workout_plan_id = $1, session_date = $2, completed = $3
			WHERE id = $4 AND user_id = $5`,
		session.WorkoutPlanID, session.Date.Time, session.Completed,
		session.ID, session.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id, userID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_session WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) planOwnedBy(ctx context.Context, planID, userID int) (bool, error) {
	var owned bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM workout_plan WHERE id = $1 AND user_id = $2)`,
		planID, userID,
	).Scan(&owned)
	if err != nil {
		return false, err
	}
	return owned, nil
}

func scanSession(rows pgx.Rows) (*WorkoutSession, error) {
	var session WorkoutSession
	var sessionDate time.Time
	if err := rows.Scan(
		&session.ID, &session.UserID, &session.WorkoutPlanID, &sessionDate, &session.Completed,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	session.Date = pkg.ScanDate(sessionDate)
	return &session, nil
}
