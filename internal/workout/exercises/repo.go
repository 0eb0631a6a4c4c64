package exercises

import (
	"context"
	"fmt"

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

func (r *Repo) Add(ctx context.Context, exercise Exercise) (*Exercise, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO exercise (name, description, instructions)
			VALUES ($1, $2, $3) RETURNING id`,
		exercise.Name, exercise.Description, exercise.Instructions,
	).Scan(&exercise.ID)
	if err != nil {
		return nil, err
	}

	if err := setTargetMuscles(ctx, tx, exercise.ID, exercise.TargetMuscles); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return r.Get(ctx, exercise.ID)
}

func (r *Repo) List(ctx context.Context) ([]Exercise, error) {
	rows, err := r.db.Query(ctx, selectExercises+` GROUP BY e.id ORDER BY e.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercisesList []Exercise
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercisesList = append(exercisesList, *exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercisesList, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Exercise, error) {
	rows, err := r.db.Query(ctx, selectExercises+` WHERE e.id = $1 GROUP BY e.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrExerciseNotFound
	}

	return scanExercise(rows)
}

// Update rewrites the exercise row. The muscle group associations get
// replaced wholesale when replaceMuscles is set, left alone otherwise.
func (r *Repo) Update(ctx context.Context, exercise Exercise, replaceMuscles bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE exercise SET name = $1, description = $2, instructions = $3 WHERE id = $4`,
		exercise.Name, exercise.Description, exercise.Instructions, exercise.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	if replaceMuscles {
		if err := setTargetMuscles(ctx, tx, exercise.ID, exercise.TargetMuscles); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

const selectExercises = `
	SELECT
		e.id, e.name, e.description, e.instructions,
		COALESCE(ARRAY_AGG(mg.id ORDER BY mg.id) FILTER (WHERE mg.id IS NOT NULL), '{}'),
		COALESCE(ARRAY_AGG(mg.name ORDER BY mg.id) FILTER (WHERE mg.id IS NOT NULL), '{}')
	FROM exercise e
	LEFT JOIN exercise_muscle_group emg ON emg.exercise_id = e.id
	LEFT JOIN muscle_group mg ON mg.id = emg.muscle_group_id`

func scanExercise(rows pgx.Rows) (*Exercise, error) {
	var exercise Exercise
	if err := rows.Scan(
		&exercise.ID, &exercise.Name, &exercise.Description, &exercise.Instructions,
		&exercise.TargetMuscles, &exercise.TargetMuscleNames,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &exercise, nil
}

func setTargetMuscles(ctx context.Context, tx pgx.Tx, exerciseID int, muscleGroupIDs []int) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM exercise_muscle_group WHERE exercise_id = $1`,
		exerciseID,
	); err != nil {
		return err
	}

	for _, mgID := range muscleGroupIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO exercise_muscle_group (exercise_id, muscle_group_id) VALUES ($1, $2)`,
			exerciseID, mgID,
		); err != nil {
			if pkg.IsForeignKeyViolationError(err) {
				return fmt.Errorf("%w: %d", ErrUnknownMuscleGroup, mgID)
			}
			return err
		}
	}

	return nil
}
