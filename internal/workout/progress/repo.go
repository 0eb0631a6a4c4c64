package progress

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

// Add inserts a progress entry. The (user, date) uniqueness is checked
// upfront and backed by the unique index for concurrent inserts.
func (r *Repo) Add(ctx context.Context, p Progress) (*Progress, error) {
	taken, err := r.dateTaken(ctx, p.UserID, p.Date, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, p.Date)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO progress (user_id, progress_date, weight, notes)
			VALUES ($1, $2, $3, $4) RETURNING id`,
		p.UserID, p.Date.Time, p.Weight, p.Notes,
	).Scan(&p.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, p.Date)
		}
		return nil, err
	}

	return &p, nil
}

func (r *Repo) List(ctx context.Context, userID int) ([]Progress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, progress_date, weight, notes
			FROM progress WHERE user_id = $1 ORDER BY progress_date`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Progress
	for rows.Next() {
		entry, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repo) Get(ctx context.Context, id, userID int) (*Progress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, progress_date, weight, notes
			FROM progress WHERE id = $1 AND user_id = $2`,
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
		return nil, ErrProgressNotFound
	}

	return scanProgress(rows)
}

// Update rewrites the entry, rejecting a date collision with any other entry
// of the same user.
func (r *Repo) Update(ctx context.Context, p Progress) error {
	taken, err := r.dateTaken(ctx, p.UserID, p.Date, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrDuplicateDate, p.Date)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE progress SET progress_date = $1, weight = $2, notes = $3
			WHERE id = $4 AND user_id = $5`,
		p.Date.Time, p.Weight, p.Notes, p.ID, p.UserID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateDate, p.Date)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgressNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id, userID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM progress WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgressNotFound
	}
	return nil
}

func (r *Repo) dateTaken(ctx context.Context, userID int, date pkg.Date, excludeID int) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM progress
			WHERE user_id = $1 AND progress_date = $2 AND id != $3
		)`,
		userID, date.Time, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, err
	}
	return taken, nil
}

func scanProgress(rows pgx.Rows) (*Progress, error) {
	var entry Progress
	var progressDate time.Time
	if err := rows.Scan(
		&entry.ID, &entry.UserID, &progressDate, &entry.Weight, &entry.Notes,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	entry.Date = pkg.ScanDate(progressDate)
	return &entry, nil
}
