package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

// BlacklistRepo persists revoked refresh token identifiers in the same
// postgres schema as the rest of the data. Rows become garbage once the
// token would have expired anyway; ScanAndClean removes them.
type BlacklistRepo struct {
	db *pgxpool.Pool
}

func NewBlacklistRepo(db *pgxpool.Pool) *BlacklistRepo {
	return &BlacklistRepo{
		db: db,
	}
}

func (r *BlacklistRepo) Add(ctx context.Context, jti string, userID int, expiresAt time.Time) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO token_blacklist (jti, user_id, expires_at) VALUES ($1, $2, $3);`,
		jti, userID, expiresAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrTokenBlacklisted
		}
		return err
	}
	return nil
}

func (r *BlacklistRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE jti = $1);`,
		jti,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return false, err
	}

	if !rows.Next() {
		return false, nil
	}

	var exists bool
	if err := rows.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BlacklistRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM token_blacklist WHERE expires_at < NOW();`,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
