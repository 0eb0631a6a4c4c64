package users

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

func (r *Repo) Add(ctx context.Context, user User) (*User, error) {
	rows, err := r.db.Query(ctx,
		`INSERT INTO app_user (email, name, password_hash, is_active, is_staff)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
		user.Email, user.Name, user.PasswordHash, user.IsActive, user.IsStaff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			if pkg.IsUniqueViolationError(err) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
		return nil, fmt.Errorf("unexpected error, failed to insert user")
	}

	if err := rows.Scan(&user.ID, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &user, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, name, password_hash, is_active, is_staff, created_at
			FROM app_user WHERE email = $1`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUser(rows)
}

func (r *Repo) GetByID(ctx context.Context, id int) (*User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, name, password_hash, is_active, is_staff, created_at
			FROM app_user WHERE id = $1`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUser(rows)
}

func (r *Repo) Update(ctx context.Context, user User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE app_user SET name = $1, password_hash = $2 WHERE id = $3`,
		user.Name, user.PasswordHash, user.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(rows pgx.Rows) (*User, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrUserNotFound
	}

	var user User
	if err := rows.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.IsActive, &user.IsStaff, &user.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &user, nil
}
