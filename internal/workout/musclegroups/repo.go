package musclegroups

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

func (r *Repo) Add(ctx context.Context, mg MuscleGroup) (*MuscleGroup, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO muscle_group (name, description) VALUES ($1, $2) RETURNING id`,
		mg.Name, mg.Description,
	).Scan(&mg.ID)
	if err != nil {
		return nil, err
	}
	return &mg, nil
}

func (r *Repo) List(ctx context.Context) ([]MuscleGroup, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description FROM muscle_group ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []MuscleGroup
	for rows.Next() {
		var mg MuscleGroup
		if err := rows.Scan(&mg.ID, &mg.Name, &mg.Description); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		groups = append(groups, mg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*MuscleGroup, error) {
	var mg MuscleGroup
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description FROM muscle_group WHERE id = $1`,
		id,
	).Scan(&mg.ID, &mg.Name, &mg.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMuscleGroupNotFound
		}
		return nil, err
	}
	return &mg, nil
}

func (r *Repo) Update(ctx context.Context, mg MuscleGroup) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE muscle_group SET name = $1, description = $2 WHERE id = $3`,
		mg.Name, mg.Description, mg.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMuscleGroupNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM muscle_group WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMuscleGroupNotFound
	}
	return nil
}
