package plans

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

// PlanExerciseRepo manages plan exercises. Ownership is enforced through
// the parent plan on every query.
type PlanExerciseRepo struct {
	db *pgxpool.Pool
}

func NewPlanExerciseRepo(db *pgxpool.Pool) *PlanExerciseRepo {
	return &PlanExerciseRepo{db: db}
}

func (r *PlanExerciseRepo) Add(ctx context.Context, pe WorkoutPlanExercise, userID int) (*WorkoutPlanExercise, error) {
	owned, err := r.planOwnedBy(ctx, pe.WorkoutPlanID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrPlanNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO workout_plan_exercise
			(workout_plan_id, exercise_id, repetitions, sets, duration_minutes, distance)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		pe.WorkoutPlanID, pe.ExerciseID, pe.Repetitions, pe.Sets, pe.DurationMinutes, pe.Distance,
	).Scan(&pe.ID)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownExercise, pe.ExerciseID)
		}
		return nil, err
	}

	return &pe, nil
}

func (r *PlanExerciseRepo) List(ctx context.Context, userID int) ([]WorkoutPlanExercise, error) {
	rows, err := r.db.Query(ctx,
		`SELECT pe.id, pe.workout_plan_id, pe.exercise_id, pe.repetitions, pe.sets,
				pe.duration_minutes, pe.distance
			FROM workout_plan_exercise pe
			JOIN workout_plan wp ON wp.id = pe.workout_plan_id
			WHERE wp.user_id = $1
			ORDER BY pe.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var planExercises []WorkoutPlanExercise
	for rows.Next() {
		var pe WorkoutPlanExercise
		if err := rows.Scan(
			&pe.ID, &pe.WorkoutPlanID, &pe.ExerciseID, &pe.Repetitions, &pe.Sets,
			&pe.DurationMinutes, &pe.Distance,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		planExercises = append(planExercises, pe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return planExercises, nil
}

func (r *PlanExerciseRepo) Get(ctx context.Context, id, userID int) (*WorkoutPlanExercise, error) {
	var pe WorkoutPlanExercise
	err := r.db.QueryRow(ctx,
		`SELECT pe.id, pe.workout_plan_id, pe.exercise_id, pe.repetitions, pe.sets,
				pe.duration_minutes, pe.distance
			FROM workout_plan_exercise pe
			JOIN workout_plan wp ON wp.id = pe.workout_plan_id
			WHERE pe.id = $1 AND wp.user_id = $2`,
		id, userID,
	).Scan(
		&pe.ID, &pe.WorkoutPlanID, &pe.ExerciseID, &pe.Repetitions, &pe.Sets,
		&pe.DurationMinutes, &pe.Distance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanExerciseNotFound
		}
		return nil, err
	}
	return &pe, nil
}

// Update rewrites the row. Moving the exercise to another plan re-validates
// that the target plan belongs to the caller.
func (r *PlanExerciseRepo) Update(ctx context.Context, pe WorkoutPlanExercise, userID int) error {
	owned, err := r.planOwnedBy(ctx, pe.WorkoutPlanID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrPlanNotFound
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE workout_plan_exercise pe
			SET workout_plan_id = $1, exercise_id = $2, repetitions = $3, sets = $4,
				duration_minutes = $5, distance = $6
			FROM workout_plan wp
			WHERE pe.id = $7 AND wp.id = pe.workout_plan_id AND wp.user_id = $8`,
		pe.WorkoutPlanID, pe.ExerciseID, pe.Repetitions, pe.Sets,
		pe.DurationMinutes, pe.Distance, pe.ID, userID,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return fmt.Errorf("%w: %d", ErrUnknownExercise, pe.ExerciseID)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanExerciseNotFound
	}
	return nil
}

func (r *PlanExerciseRepo) Delete(ctx context.Context, id, userID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_plan_exercise pe
			USING workout_plan wp
			WHERE pe.id = $1 AND wp.id = pe.workout_plan_id AND wp.user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanExerciseNotFound
	}
	return nil
}

func (r *PlanExerciseRepo) planOwnedBy(ctx context.Context, planID, userID int) (bool, error) {
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
