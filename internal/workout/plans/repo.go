package plans

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, plan WorkoutPlan) (*WorkoutPlan, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO workout_plan (user_id, name, frequency, goal, duration_per_session_minutes)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		plan.UserID, plan.Name, plan.Frequency, plan.Goal, plan.DurationPerSessionMinutes,
	).Scan(&plan.ID)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *Repo) List(ctx context.Context, userID int) ([]WorkoutPlan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, frequency, goal, duration_per_session_minutes
			FROM workout_plan WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plansList []WorkoutPlan
	for rows.Next() {
		var plan WorkoutPlan
		if err := rows.Scan(
			&plan.ID, &plan.UserID, &plan.Name, &plan.Frequency,
			&plan.Goal, &plan.DurationPerSessionMinutes,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		plansList = append(plansList, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plansList, nil
}

func (r *Repo) Get(ctx context.Context, id, userID int) (*WorkoutPlan, error) {
	var plan WorkoutPlan
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, frequency, goal, duration_per_session_minutes
			FROM workout_plan WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(
		&plan.ID, &plan.UserID, &plan.Name, &plan.Frequency,
		&plan.Goal, &plan.DurationPerSessionMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *Repo) Update(ctx context.Context, plan WorkoutPlan) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE workout_plan
			SET name = $1, frequency = $2, goal = $3, duration_per_session_minutes = $4
			WHERE id = $5 AND user_id = $6`,
		plan.Name, plan.Frequency, plan.Goal, plan.DurationPerSessionMinutes,
		plan.ID, plan.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id, userID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_plan WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}
